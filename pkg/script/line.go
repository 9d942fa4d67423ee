// Package script models the guarded command lines understood by the playback
// device: conditions, register commands, an optional jump and an optional
// narration, bounded by a per-line token budget.
//
// Pipeline: line text → Lex → Parse → Line (→ String renders it back)
package script

import (
	"errors"
	"fmt"
	"strconv"
	"strings"
)

// MaxTokens is the number of conditions, commands, jumps and plays the device
// accepts on a single line.
const MaxTokens = 8

// Nop is the silent narration label.
const Nop = "nop"

// ErrBudgetExceeded is returned for a line holding more than MaxTokens tokens.
var ErrBudgetExceeded = errors.New("token budget exceeded")

// CompareOp is a condition operator.
type CompareOp string

const (
	Eq CompareOp = "=="
	Ne CompareOp = "!="
	Lt CompareOp = "<"
	Gt CompareOp = ">"
	Le CompareOp = "<="
	Ge CompareOp = ">="
)

// CommandOp is a register command.
type CommandOp string

const (
	Set   CommandOp = ":="
	Add   CommandOp = "+="
	Sub   CommandOp = "-="
	Mul   CommandOp = "*="
	Div   CommandOp = "/="
	Mod   CommandOp = "%="
	Timer CommandOp = "T"
)

// Operand is either a register reference or a literal value.
type Operand struct {
	Reg   string
	Value int
}

// Lit returns a literal operand.
func Lit(v int) Operand { return Operand{Value: v} }

// Reg returns a register operand.
func Reg(name string) Operand { return Operand{Reg: name} }

// IsReg reports whether the operand names a register.
func (o Operand) IsReg() bool { return o.Reg != "" }

func (o Operand) String() string {
	if o.IsReg() {
		return "$" + o.Reg
	}
	return strconv.Itoa(o.Value)
}

// Condition compares a register against an operand.
type Condition struct {
	Reg string
	Op  CompareOp
	Arg Operand
}

func (c Condition) String() string {
	return fmt.Sprintf("$%s%s%s?", c.Reg, c.Op, c.Arg)
}

// Command modifies a register. For Timer the argument is the upper bound of
// the value written into Reg.
type Command struct {
	Op  CommandOp
	Reg string
	Arg Operand
}

func (c Command) String() string {
	if c.Op == Timer {
		return fmt.Sprintf("T($%s,%s)", c.Reg, c.Arg)
	}
	return fmt.Sprintf("$%s%s%s", c.Reg, c.Op, c.Arg)
}

// Line is one guarded command sequence. Conditions are a short-circuit AND;
// when one fails the line is skipped.
type Line struct {
	Conditions []Condition
	Commands   []Command
	Jump       string // target script, empty for none
	Play       string // narration label, empty for none
}

// NewLine builds a line and enforces the token budget.
func NewLine(conds []Condition, cmds []Command, jump, play string) (Line, error) {
	l := Line{Conditions: conds, Commands: cmds, Jump: jump, Play: play}
	if err := l.Check(); err != nil {
		return Line{}, err
	}
	return l, nil
}

// Tokens returns the number of budgeted tokens on the line.
func (l Line) Tokens() int {
	n := len(l.Conditions) + len(l.Commands)
	if l.Jump != "" {
		n++
	}
	if l.Play != "" {
		n++
	}
	return n
}

// Check fails with ErrBudgetExceeded when the line does not fit the device.
func (l Line) Check() error {
	if n := l.Tokens(); n > MaxTokens {
		return fmt.Errorf("%w: %d > %d in %q", ErrBudgetExceeded, n, MaxTokens, l.String())
	}
	return nil
}

// Registers lists every register the line references, in order of
// appearance and without duplicates.
func (l Line) Registers() []string {
	var regs []string
	seen := make(map[string]bool)
	add := func(name string) {
		if name != "" && !seen[name] {
			seen[name] = true
			regs = append(regs, name)
		}
	}
	for _, c := range l.Conditions {
		add(c.Reg)
		add(c.Arg.Reg)
	}
	for _, c := range l.Commands {
		add(c.Reg)
		add(c.Arg.Reg)
	}
	return regs
}

// String renders the line in canonical order: conditions, commands, jump, play.
func (l Line) String() string {
	parts := make([]string, 0, l.Tokens())
	for _, c := range l.Conditions {
		parts = append(parts, c.String())
	}
	for _, c := range l.Commands {
		parts = append(parts, c.String())
	}
	if l.Jump != "" {
		parts = append(parts, "J("+l.Jump+")")
	}
	if l.Play != "" {
		parts = append(parts, "P("+l.Play+")")
	}
	return strings.Join(parts, " ")
}

// Script is a named, ordered list of lines. The device fires the first line
// whose conditions hold and ignores the rest.
type Script struct {
	Name  string
	Lines []Line
}

// Strings renders every line of the script.
func (s Script) Strings() []string {
	out := make([]string, len(s.Lines))
	for i, l := range s.Lines {
		out[i] = l.String()
	}
	return out
}
