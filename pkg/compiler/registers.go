package compiler

import (
	"fmt"

	"ttmemory/pkg/script"
)

// RestartBatch is the number of registers reset by one restart script. The
// two remaining token slots hold the trailing jump and narration.
const RestartBatch = script.MaxTokens - 2

// Register is a device register and the value it holds when the program
// starts.
type Register struct {
	Name string
	Init int
}

// Registers is the canonical register order of a program: explicit init
// assignments first, then every other register in order of first reference.
type Registers []Register

// AllocateRegisters discovers every register referenced by init or any
// script line. Registers only referenced get the initial value 0. The busy
// flag is left out; it is cleared by the idle script instead.
func AllocateRegisters(init script.Line, scripts []script.Script) Registers {
	var regs Registers
	index := make(map[string]int)

	add := func(name string, value int) {
		if i, ok := index[name]; ok {
			regs[i].Init = value
			return
		}
		index[name] = len(regs)
		regs = append(regs, Register{Name: name, Init: value})
	}

	for _, cmd := range init.Commands {
		if cmd.Op == script.Set && !cmd.Arg.IsReg() {
			add(cmd.Reg, cmd.Arg.Value)
		}
	}
	for _, s := range scripts {
		for _, l := range s.Lines {
			for _, name := range l.Registers() {
				if _, ok := index[name]; !ok {
					add(name, 0)
				}
			}
		}
	}

	out := regs[:0]
	for _, r := range regs {
		if r.Name != BusyRegister {
			out = append(out, r)
		}
	}
	return out
}

// Lookup returns the initial value of the named register.
func (regs Registers) Lookup(name string) (int, bool) {
	for _, r := range regs {
		if r.Name == name {
			return r.Init, true
		}
	}
	return 0, false
}

// RestartScripts emits the chain restart0, restart1, ... resetting every
// register to its initial value, RestartBatch registers per script. The
// last script plays the welcome narration and ends in idle.
func RestartScripts(regs Registers, welcome string) ([]script.Script, error) {
	var scripts []script.Script

	for i := 0; i == 0 || i*RestartBatch < len(regs); i++ {
		end := (i + 1) * RestartBatch
		if end > len(regs) {
			end = len(regs)
		}

		var cmds []script.Command
		for _, r := range regs[i*RestartBatch : end] {
			cmds = append(cmds, script.Command{Op: script.Set, Reg: r.Name, Arg: script.Lit(r.Init)})
		}

		jump, play := RestartState(i+1), script.Nop
		if end == len(regs) {
			jump, play = IdleScript, welcome
		}

		l, err := script.NewLine(nil, cmds, jump, play)
		if err != nil {
			return nil, fmt.Errorf("script %s: %w", RestartState(i), err)
		}
		scripts = append(scripts, script.Script{Name: RestartState(i), Lines: []script.Line{l}})
	}
	return scripts, nil
}

// RestartState names the i'th script of the restart chain.
func RestartState(i int) string { return fmt.Sprintf("restart%d", i) }
