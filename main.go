//go:build !js

package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"os"
	"os/signal"
	"strings"

	"ttmemory/pkg/asm"
	"ttmemory/pkg/assets"
	"ttmemory/pkg/board"
	"ttmemory/pkg/compiler"
	"ttmemory/pkg/config"
	"ttmemory/pkg/logger"
)

const logTag = "memory"

type options struct {
	template string
	ymlOnly  bool
	play     bool
	tttool   string
}

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()
	os.Exit(run(ctx, os.Args[1:], os.Stdout, os.Stderr))
}

func run(ctx context.Context, args []string, stdout, stderr io.Writer) int {
	fs := flag.NewFlagSet("memory", flag.ContinueOnError)
	fs.SetOutput(stderr)
	fs.Usage = func() {
		fmt.Fprintln(stderr, "usage: memory [-y] [-p] [-tttool path] template.yaml")
		fmt.Fprintln(stderr, `Generate a memory game for TipToi. Configure the generation in the "memory" section of the template; all other fields are copied into the generated file.`)
		fs.PrintDefaults()
	}

	var opts options
	fs.BoolVar(&opts.ymlOnly, "yml-only", false, "generate the yaml and gme files only, no board image")
	fs.BoolVar(&opts.ymlOnly, "y", false, "shorthand for -yml-only")
	fs.BoolVar(&opts.play, "play", false, "generate a yaml file optimized for tttool play mode and start the play mode")
	fs.BoolVar(&opts.play, "p", false, "shorthand for -play")
	fs.StringVar(&opts.tttool, "tttool", asm.DefaultPath(), "path to the tttool executable")

	if err := fs.Parse(args); err != nil {
		if errors.Is(err, flag.ErrHelp) {
			return 0
		}
		return 2
	}
	if fs.NArg() != 1 {
		fs.Usage()
		return 2
	}
	opts.template = fs.Arg(0)

	logger.SetEcho(stdout)
	defer logger.SetEcho(nil)

	if err := generate(ctx, opts); err != nil {
		fmt.Fprintf(stderr, "ERROR: %v\n", err)
		return 1
	}
	return 0
}

func generate(ctx context.Context, opts options) error {
	tpl, err := config.Load(opts.template)
	if err != nil {
		return err
	}

	p, err := compiler.Compile(tpl.Definition(), tpl.ScriptCodes)
	if err != nil {
		return err
	}

	speak := pendingSpeak(tpl, p)
	if err := tpl.Write(p, speak, opts.play); err != nil {
		return err
	}

	tool := asm.New(opts.tttool)
	if opts.play {
		return tool.Play(ctx, tpl.Memory.OutputFile)
	}
	if _, err := tool.Assemble(ctx, tpl.Memory.OutputFile); err != nil {
		return err
	}
	if opts.ymlOnly {
		return nil
	}

	m := tpl.Memory
	l, err := board.NewLayout(board.Page{
		Width:   m.ImgWidth,
		Height:  m.ImgHeight,
		DPI:     m.DPI,
		Cards:   p.Definition.NumCards(),
		Players: p.Definition.MaxPlayers,
	})
	if err != nil {
		return err
	}
	info := board.Info{
		Title:     m.Title,
		ProductID: tpl.ProductID,
		PixelSize: m.PixelSize,
		Codes:     p.Codes,
	}
	img, err := board.Compose(ctx, l, info, board.NewToolTiles(tool, m.DPI, m.PixelSize))
	if err != nil {
		return err
	}
	return board.Save(img, m.OutputImage)
}

// pendingSpeak returns the speak entries whose label has no audio file.
func pendingSpeak(tpl *config.Template, p *compiler.Program) []config.SpeakEntry {
	res := assets.NewResolver(tpl.MediaPattern())

	var pending []config.SpeakEntry
	spoken := make(map[string]bool)
	for _, e := range tpl.SpeakWithPairs(p.Definition) {
		spoken[e.Label] = true
		if _, ok := res.Resolve(e.Label); !ok {
			pending = append(pending, e)
		}
	}

	if len(pending) > 0 {
		labels := make([]string, len(pending))
		for i, e := range pending {
			labels[i] = e.Label
		}
		logger.Logf(logTag, "%d audio files are missing: %s", len(pending), strings.Join(labels, ", "))
	}

	var silent []string
	for _, l := range res.Missing(p.Narrations()) {
		if !spoken[l] {
			silent = append(silent, l)
		}
	}
	if len(silent) > 0 {
		logger.Logf(logTag, "no audio file and no speak entry for: %s", strings.Join(silent, ", "))
	}
	return pending
}
