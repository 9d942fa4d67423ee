package device

import (
	"encoding/json"
	"fmt"
	"os"
)

// humanReadableState is the JSON snapshot of a running game.
type humanReadableState struct {
	Registers map[string]uint16 `json:"registers"`
	Played    []string          `json:"played,omitempty"`
	Pending   []string          `json:"pending,omitempty"`
}

// HibernateToBytes serialises the register file, the narration history and
// any pending jumps.
func (d *Device) HibernateToBytes() ([]byte, error) {
	state := humanReadableState{
		Registers: d.Registers,
		Played:    d.Played,
		Pending:   d.pending,
	}
	return json.MarshalIndent(state, "", "  ")
}

// RestoreFromBytes replaces the state of d with a snapshot. The program
// itself is not part of the snapshot.
func (d *Device) RestoreFromBytes(data []byte) error {
	var state humanReadableState
	if err := json.Unmarshal(data, &state); err != nil {
		return fmt.Errorf("restore: %w", err)
	}
	for _, name := range state.Pending {
		if _, ok := d.scripts[name]; !ok {
			return fmt.Errorf("restore: %w: %q", ErrUnknownScript, name)
		}
	}
	if state.Registers == nil {
		state.Registers = make(map[string]uint16)
	}
	d.Registers = state.Registers
	d.Played = state.Played
	d.pending = state.Pending
	return nil
}

func (d *Device) HibernateToFile(path string) error {
	data, err := d.HibernateToBytes()
	if err != nil {
		return err
	}
	return os.WriteFile(path, data, 0o644)
}

func (d *Device) RestoreFromFile(path string) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return err
	}
	return d.RestoreFromBytes(data)
}
