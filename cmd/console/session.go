package main

import (
	"fmt"
	"io"
	"os"
	"sort"
	"strings"

	"ttmemory/pkg/compiler"
	"ttmemory/pkg/device"
	"ttmemory/pkg/logger"
)

const help = `tap a field by its script name (p1, q, r, c0 ...) or use a command:
  :board           show the cards still on the board
  :regs            dump all registers
  :step <script>   tap without waiting for the narration
  :settle          finish pending jumps
  :save <file>     write the game state
  :load <file>     read a game state
  :reset           power cycle the device
  :log             show the latest log entries
  :quit            leave`

// session is one console game on a device.
type session struct {
	p   *compiler.Program
	dev *device.Device
	out io.Writer
}

func newSession(p *compiler.Program, out io.Writer) *session {
	return &session{
		p:   p,
		dev: device.New(p.Init, p.Scripts),
		out: out,
	}
}

// exec runs one input line and reports whether the session should end.
func (s *session) exec(line string) bool {
	fields := strings.Fields(line)
	if len(fields) == 0 {
		return false
	}

	var err error
	switch fields[0] {
	case ":quit", ":q":
		return true
	case ":help", "?":
		fmt.Fprintln(s.out, help)
	case ":board":
		s.board()
	case ":regs":
		s.registers()
	case ":step":
		if len(fields) != 2 {
			err = fmt.Errorf("usage: :step <script>")
			break
		}
		err = s.tap(fields[1], false)
	case ":settle":
		n := len(s.dev.Played)
		err = s.dev.Settle()
		s.narrate(n)
	case ":save":
		if len(fields) != 2 {
			err = fmt.Errorf("usage: :save <file>")
			break
		}
		err = s.dev.HibernateToFile(fields[1])
	case ":load":
		if len(fields) != 2 {
			err = fmt.Errorf("usage: :load <file>")
			break
		}
		err = s.dev.RestoreFromFile(fields[1])
	case ":reset":
		s.dev.Reset()
		fmt.Fprintln(s.out, "device reset")
	case ":log":
		logger.Tail(s.out, 10)
	default:
		if strings.HasPrefix(fields[0], ":") {
			err = fmt.Errorf("unknown command %s, type :help", fields[0])
			break
		}
		for _, name := range fields {
			if err = s.tap(name, true); err != nil {
				break
			}
		}
	}
	if err != nil {
		fmt.Fprintln(s.out, "error:", err)
	}
	return false
}

// tap fires a script and prints the narrations it caused.
func (s *session) tap(name string, settle bool) error {
	n := len(s.dev.Played)
	var err error
	if settle {
		err = s.dev.Press(name)
	} else {
		var fired bool
		fired, err = s.dev.Tap(name)
		if err == nil && !fired {
			fmt.Fprintln(s.out, "(no line fired)")
		}
	}
	s.narrate(n)
	if err == nil && s.dev.Pending() {
		fmt.Fprintln(s.out, "(jump pending)")
	}
	return err
}

func (s *session) narrate(from int) {
	for _, label := range s.dev.Played[from:] {
		fmt.Fprintf(s.out, "  ♪ %s\n", label)
	}
}

// board prints the card ids by position, with cleared cards as dots.
func (s *session) board() {
	cards := s.p.Definition.NumCards()
	var b strings.Builder
	for c := 0; c < cards; c++ {
		id := s.dev.Get(compiler.CardScript(c))
		if id == 0 {
			b.WriteString("   .")
		} else {
			fmt.Fprintf(&b, "%4d", id)
		}
		if (c+1)%8 == 0 || c == cards-1 {
			b.WriteString("\n")
		}
	}
	fmt.Fprint(s.out, b.String())
}

func (s *session) registers() {
	names := make([]string, 0, len(s.dev.Registers))
	for name := range s.dev.Registers {
		names = append(names, name)
	}
	sort.Strings(names)
	for _, name := range names {
		fmt.Fprintf(s.out, "%-12s %5d\n", "$"+name, s.dev.Registers[name])
	}
}

// prompter reads command lines. *liner.State implements it.
type prompter interface {
	Prompt(prompt string) (string, error)
	AppendHistory(item string)
}

type input struct {
	line string
	err  error
}

// repl feeds prompted lines to the session until it quits, the input ends
// or a signal arrives, and reports whether a signal ended it. Prompting
// runs on its own goroutine; the session is only used by the caller.
func repl(s *session, in prompter, sigc <-chan os.Signal) bool {
	next := make(chan struct{})
	lines := make(chan input, 1)
	go func() {
		for range next {
			line, err := in.Prompt("memory> ")
			lines <- input{line, err}
		}
	}()
	defer close(next)

	for {
		next <- struct{}{}
		select {
		case <-sigc:
			fmt.Fprintln(s.out)
			return true
		case l := <-lines:
			if l.err != nil {
				fmt.Fprintln(s.out)
				return false
			}
			if s.exec(l.line) {
				return false
			}
			in.AppendHistory(l.line)
		}
	}
}
