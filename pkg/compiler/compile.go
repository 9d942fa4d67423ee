package compiler

import (
	"fmt"

	"ttmemory/pkg/logger"
	"ttmemory/pkg/script"
)

const logTag = "compiler"

// Program is the output of one compilation.
type Program struct {
	Definition Definition

	// Init is executed once when the device loads the program.
	Init      script.Line
	Scripts   []script.Script
	Registers Registers
	Codes     Codes
}

// Rendered is a script as text, ready to be written out.
type Rendered struct {
	Name  string
	Lines []string
}

// Script returns the named script.
func (p *Program) Script(name string) (script.Script, bool) {
	for _, s := range p.Scripts {
		if s.Name == name {
			return s, true
		}
	}
	return script.Script{}, false
}

// Narrations lists every label played by the program, in order of first
// use. The silent label is left out.
func (p *Program) Narrations() []string {
	var labels []string
	seen := map[string]bool{script.Nop: true}
	for _, s := range p.Scripts {
		for _, l := range s.Lines {
			if l.Play != "" && !seen[l.Play] {
				seen[l.Play] = true
				labels = append(labels, l.Play)
			}
		}
	}
	return labels
}

// Render returns every script as text. In play mode each line is passed
// through PlayMode.
func (p *Program) Render(playMode bool) []Rendered {
	out := make([]Rendered, 0, len(p.Scripts))
	for _, s := range p.Scripts {
		lines := s.Strings()
		if playMode {
			for i := range lines {
				lines[i] = PlayMode(lines[i])
			}
		}
		out = append(out, Rendered{Name: s.Name, Lines: lines})
	}
	return out
}

// Compile generates the program for def. Codes present in prior are kept,
// missing ones are assigned.
func Compile(def Definition, prior Codes) (*Program, error) {
	def = def.WithDefaults()
	if err := def.Validate(); err != nil {
		return nil, err
	}

	cg := newCodeGen(def)
	init, err := script.Parse(cg.initLine())
	if err != nil {
		return nil, fmt.Errorf("init line: %w", err)
	}

	scripts, err := cg.Generate()
	if err != nil {
		return nil, err
	}

	regs := AllocateRegisters(init, scripts)
	restart, err := RestartScripts(regs, def.Welcome)
	if err != nil {
		return nil, err
	}
	scripts = append(scripts, restart...)

	p := &Program{
		Definition: def,
		Init:       init,
		Scripts:    scripts,
		Registers:  regs,
		Codes:      AssignCodes(scripts, def.MaxPlayers, def.NumCards(), prior),
	}

	logger.Logf(logTag, "%d pairs, %d players: %d scripts, %d registers, %d restart scripts",
		def.NumPairs(), def.MaxPlayers, len(scripts), len(regs), len(restart))

	return p, nil
}
