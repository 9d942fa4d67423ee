package main

import (
	"flag"
	"fmt"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"

	"github.com/peterh/liner"

	"ttmemory/pkg/config"
	"ttmemory/pkg/logger"
)

const historyFile = ".memory_console_history"

func main() {
	state := flag.String("state", "", "game state file, loaded at start and written on exit")
	trace := flag.Bool("trace", false, "log every fired line")
	flag.Parse()
	if flag.NArg() != 1 {
		fmt.Fprintln(os.Stderr, "usage: console [-state file] [-trace] template.yaml")
		os.Exit(2)
	}

	_, p, err := config.LoadProgram(flag.Arg(0))
	if err != nil {
		fmt.Fprintln(os.Stderr, "ERROR:", err)
		os.Exit(1)
	}

	s := newSession(p, os.Stdout)
	s.dev.Trace = *trace
	if *trace {
		logger.SetEcho(os.Stdout)
	}
	if *state != "" {
		if _, err := os.Stat(*state); err == nil {
			if err := s.dev.RestoreFromFile(*state); err != nil {
				fmt.Fprintln(os.Stderr, "ERROR:", err)
				os.Exit(1)
			}
			fmt.Printf("restored %s\n", *state)
		}
	}

	home, _ := os.UserHomeDir()
	histPath := filepath.Join(home, historyFile)

	ln := liner.NewLiner()
	defer ln.Close()
	ln.SetCtrlCAborts(true)

	if f, err := os.Open(histPath); err == nil {
		_, _ = ln.ReadHistory(f)
		_ = f.Close()
	}

	persist := func() {
		if f, err := os.Create(histPath); err == nil {
			_, _ = ln.WriteHistory(f)
			_ = f.Close()
		}
		if *state != "" {
			if err := s.dev.HibernateToFile(*state); err != nil {
				fmt.Fprintln(os.Stderr, "ERROR:", err)
			}
		}
	}

	sigc := make(chan os.Signal, 1)
	signal.Notify(sigc, syscall.SIGTERM, syscall.SIGHUP)
	defer signal.Stop(sigc)

	fmt.Printf("%s: %d pairs, up to %d players. Type :help for commands.\n",
		p.Definition.Title, p.Definition.NumPairs(), p.Definition.MaxPlayers)

	signalled := repl(s, ln, sigc)
	persist()
	if signalled {
		ln.Close()
		os.Exit(130)
	}
}
