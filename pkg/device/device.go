// Package device runs a compiled script program the way the playback device
// does: a tap fires the first line of a script whose conditions hold, its
// narration plays, and its jump is taken once the narration has finished.
package device

import (
	"errors"
	"fmt"
	"math/rand/v2"

	"ttmemory/pkg/logger"
	"ttmemory/pkg/script"
)

const logTag = "device"

// MaxSteps bounds the number of jumps followed by a single Settle.
const MaxSteps = 100000

var (
	ErrUnknownScript   = errors.New("unknown script")
	ErrRunaway         = errors.New("jump chain did not terminate")
	ErrDivisionByZero  = errors.New("division by zero")
	ErrNegativeOperand = errors.New("negative literal")
)

// Device holds the global register file of a running program. Registers
// are 16 bits wide and wrap on overflow.
type Device struct {
	Registers map[string]uint16

	// Played records every narration in order. The silent label is not
	// recorded.
	Played []string

	// Entropy returns a value in [0, max] for the timer command.
	Entropy func(max int) int

	// Trace logs every fired line.
	Trace bool

	init    script.Line
	scripts map[string]script.Script

	// jumps waiting for their line's narration to finish
	pending []string
}

// New loads a program and executes its init line.
func New(init script.Line, scripts []script.Script) *Device {
	d := &Device{
		init:    init,
		scripts: make(map[string]script.Script, len(scripts)),
		Entropy: func(max int) int { return rand.IntN(max + 1) },
	}
	for _, s := range scripts {
		d.scripts[s.Name] = s
	}
	d.Reset()
	return d
}

// Reset clears all registers and pending jumps and runs the init line again.
func (d *Device) Reset() {
	d.Registers = make(map[string]uint16)
	d.Played = nil
	d.pending = nil
	// the init line has no jump; errors are impossible for literal values
	_ = d.execute(d.init)
}

// Get returns the value of a register. Unset registers read 0.
func (d *Device) Get(name string) uint16 {
	return d.Registers[name]
}

// Set stores a value in a register.
func (d *Device) Set(name string, v uint16) {
	d.Registers[name] = v
}

// LastPlayed returns the most recent narration, or "" if nothing played.
func (d *Device) LastPlayed() string {
	if len(d.Played) == 0 {
		return ""
	}
	return d.Played[len(d.Played)-1]
}

// Pending reports whether jumps are waiting for playback to finish.
func (d *Device) Pending() bool {
	return len(d.pending) > 0
}

func (d *Device) operand(o script.Operand) (uint16, error) {
	if o.IsReg() {
		return d.Registers[o.Reg], nil
	}
	if o.Value < 0 {
		return 0, fmt.Errorf("%w: %d", ErrNegativeOperand, o.Value)
	}
	return uint16(o.Value), nil
}

// holds evaluates the conditions of a line, stopping at the first failure.
func (d *Device) holds(l script.Line) (bool, error) {
	for _, c := range l.Conditions {
		left := d.Registers[c.Reg]
		right, err := d.operand(c.Arg)
		if err != nil {
			return false, err
		}
		var ok bool
		switch c.Op {
		case script.Eq:
			ok = left == right
		case script.Ne:
			ok = left != right
		case script.Lt:
			ok = left < right
		case script.Gt:
			ok = left > right
		case script.Le:
			ok = left <= right
		case script.Ge:
			ok = left >= right
		default:
			return false, fmt.Errorf("unknown comparison %q", c.Op)
		}
		if !ok {
			return false, nil
		}
	}
	return true, nil
}

// execute runs the commands of a line in order and records its narration.
func (d *Device) execute(l script.Line) error {
	for _, c := range l.Commands {
		arg, err := d.operand(c.Arg)
		if err != nil {
			return err
		}
		r := d.Registers[c.Reg]
		switch c.Op {
		case script.Set:
			r = arg
		case script.Add:
			r += arg
		case script.Sub:
			r -= arg
		case script.Mul:
			r *= arg
		case script.Div:
			if arg == 0 {
				return fmt.Errorf("%w: $%s/=%s", ErrDivisionByZero, c.Reg, c.Arg)
			}
			r /= arg
		case script.Mod:
			if arg == 0 {
				return fmt.Errorf("%w: $%s%%=%s", ErrDivisionByZero, c.Reg, c.Arg)
			}
			r %= arg
		case script.Timer:
			r = uint16(d.Entropy(int(arg)))
		default:
			return fmt.Errorf("unknown command %q", c.Op)
		}
		d.Registers[c.Reg] = r
	}

	if l.Play != "" && l.Play != script.Nop {
		d.Played = append(d.Played, l.Play)
	}
	if l.Jump != "" {
		d.pending = append(d.pending, l.Jump)
	}
	return nil
}

// run fires the first line of the named script whose conditions hold.
func (d *Device) run(name string) (bool, error) {
	s, ok := d.scripts[name]
	if !ok {
		return false, fmt.Errorf("%w: %q", ErrUnknownScript, name)
	}
	for i, l := range s.Lines {
		ok, err := d.holds(l)
		if err != nil {
			return false, fmt.Errorf("%s line %d: %w", name, i+1, err)
		}
		if !ok {
			continue
		}
		if d.Trace {
			logger.Logf(logTag, "%s[%d]: %s", name, i+1, l)
		}
		if err := d.execute(l); err != nil {
			return false, fmt.Errorf("%s line %d: %w", name, i+1, err)
		}
		return true, nil
	}
	return false, nil
}

// Tap runs the script bound to a tapped code. Jumps are not taken until
// Settle; a tap arriving before that sees the registers as they are,
// including the busy flag. It reports whether a line fired.
func (d *Device) Tap(name string) (bool, error) {
	return d.run(name)
}

// Settle lets all narrations finish, following pending jumps until none
// is left.
func (d *Device) Settle() error {
	for steps := 0; len(d.pending) > 0; steps++ {
		if steps >= MaxSteps {
			return fmt.Errorf("%w after %d jumps", ErrRunaway, steps)
		}
		next := d.pending[0]
		d.pending = d.pending[1:]
		if _, err := d.run(next); err != nil {
			return err
		}
	}
	return nil
}

// Press taps a script and waits for everything it started to finish.
func (d *Device) Press(name string) error {
	if _, err := d.Tap(name); err != nil {
		return err
	}
	return d.Settle()
}
