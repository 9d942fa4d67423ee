package main

import (
	"flag"
	"fmt"
	"io"
	"os"
	"strings"

	"ttmemory/pkg/compiler"
	"ttmemory/pkg/config"
	"ttmemory/pkg/script"
)

type options struct {
	play   bool
	tokens bool
	only   string
}

func main() {
	var opts options
	flag.BoolVar(&opts.play, "play", false, "show lines as rewritten for tttool play mode")
	flag.BoolVar(&opts.tokens, "tokens", false, "show the lexed tokens of every line")
	flag.StringVar(&opts.only, "script", "", "show only scripts with this name prefix")
	flag.Parse()
	if flag.NArg() != 1 {
		fmt.Fprintln(os.Stderr, "usage: inspect [-play] [-tokens] [-script prefix] template.yaml")
		os.Exit(2)
	}

	_, p, err := config.LoadProgram(flag.Arg(0))
	if err != nil {
		fmt.Fprintln(os.Stderr, "ERROR:", err)
		os.Exit(1)
	}
	if err := dump(os.Stdout, p, opts); err != nil {
		fmt.Fprintln(os.Stderr, "ERROR:", err)
		os.Exit(1)
	}
}

// dump prints every stage of a compilation.
func dump(w io.Writer, p *compiler.Program, opts options) error {
	d := p.Definition
	fmt.Fprintf(w, "Game %q: %d pairs, %d cards, up to %d players, language %s\n\n",
		d.Title, d.NumPairs(), d.NumCards(), d.MaxPlayers, d.Language)

	fmt.Fprintln(w, "Init")
	fmt.Fprintf(w, "  %s\n\n", p.Init)

	fmt.Fprintf(w, "Registers (%d)\n", len(p.Registers))
	for _, r := range p.Registers {
		fmt.Fprintf(w, "  $%-12s %d\n", r.Name, r.Init)
	}
	fmt.Fprintln(w)

	lines := 0
	rendered := p.Render(opts.play)
	fmt.Fprintf(w, "Scripts (%d)\n", len(rendered))
	for i, s := range rendered {
		if !strings.HasPrefix(s.Name, opts.only) {
			continue
		}
		fmt.Fprintf(w, "  %s  [code %d]\n", s.Name, p.Codes[s.Name])
		for j, text := range s.Lines {
			lines++
			fmt.Fprintf(w, "    %d/%d  %s\n", p.Scripts[i].Lines[j].Tokens(), script.MaxTokens, text)
			if !opts.tokens {
				continue
			}
			toks, err := script.Lex(text)
			if err != nil {
				return fmt.Errorf("%s line %d: %w", s.Name, j+1, err)
			}
			for _, tok := range toks {
				if tok.Type == script.EOF {
					break
				}
				fmt.Fprintf(w, "          %s\n", tok)
			}
		}
	}
	fmt.Fprintf(w, "  %d lines\n\n", lines)

	labels := p.Narrations()
	fmt.Fprintf(w, "Narrations (%d)\n", len(labels))
	for _, l := range labels {
		fmt.Fprintf(w, "  %s\n", l)
	}
	return nil
}
