package main

import (
	"context"
	"flag"
	"fmt"
	"image"
	"image/color"
	"log"
	"os"

	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/ebitenutil"
	"github.com/hajimehoshi/ebiten/v2/inpututil"

	"ttmemory/pkg/board"
	"ttmemory/pkg/compiler"
	"ttmemory/pkg/config"
	"ttmemory/pkg/device"
	"ttmemory/pkg/logger"
)

const (
	// board resolution on screen
	screenDPI = 40

	panelWidth = 240

	// ticks a narration takes before the jump of its line is taken
	settleTicks = 30

	maxNarrations = 28
)

// field is a tappable area of the board. The start field has no script.
type field struct {
	script string
	rect   image.Rectangle
	round  bool
}

// boardFields lists the tappable areas in board order.
func boardFields(l board.Layout) []field {
	fields := []field{{rect: l.Circle(0), round: true}}
	for i := 1; i <= l.Players; i++ {
		fields = append(fields, field{compiler.PlayerScript(i), l.Circle(i), true})
	}
	fields = append(fields,
		field{compiler.QueryScript, l.Circle(l.Players + 1), true},
		field{compiler.RepeatScript, l.Circle(l.Players + 2), true})
	for c := 0; c < l.Cards; c++ {
		fields = append(fields, field{compiler.CardScript(c), l.Card(c), false})
	}
	return fields
}

// hit returns the field under (x, y).
func hit(fields []field, x, y int) (field, bool) {
	p := image.Pt(x, y)
	for _, f := range fields {
		if !p.In(f.rect) {
			continue
		}
		if f.round {
			cx := float64(f.rect.Min.X+f.rect.Max.X) / 2
			cy := float64(f.rect.Min.Y+f.rect.Max.Y) / 2
			r := float64(f.rect.Dx()) / 2
			dx, dy := float64(x)-cx, float64(y)-cy
			if dx*dx+dy*dy > r*r {
				continue
			}
		}
		return f, true
	}
	return field{}, false
}

// blankTiles leaves the optical code areas empty.
type blankTiles struct{}

func (blankTiles) Tile(context.Context, int) (image.Image, error) {
	return image.NewRGBA(image.Rect(0, 0, 1, 1)), nil
}

type Game struct {
	p      *compiler.Program
	dev    *device.Device
	layout board.Layout
	fields []field

	background *ebiten.Image
	cleared    *ebiten.Image

	narrations []string
	settleIn   int
	reveal     bool
}

func newGame(p *compiler.Program, l board.Layout) *Game {
	return &Game{
		p:      p,
		dev:    device.New(p.Init, p.Scripts),
		layout: l,
		fields: boardFields(l),
	}
}

func (g *Game) say(msg string) {
	g.narrations = append(g.narrations, msg)
	if len(g.narrations) > maxNarrations {
		g.narrations = g.narrations[len(g.narrations)-maxNarrations:]
	}
}

func (g *Game) record(from int) {
	for _, label := range g.dev.Played[from:] {
		g.say("♪ " + label)
	}
}

// tap handles a tap on a field. The jump of the fired line is taken once
// its narration has finished.
func (g *Game) tap(f field) {
	if f.script == "" {
		g.dev.Reset()
		g.settleIn = 0
		g.say("♪ " + g.p.Definition.Welcome)
		return
	}
	n := len(g.dev.Played)
	if _, err := g.dev.Tap(f.script); err != nil {
		logger.Logf("desktop", "%s: %v", f.script, err)
		g.say("error: " + err.Error())
		return
	}
	g.record(n)
	if g.dev.Pending() && g.settleIn == 0 {
		g.settleIn = settleTicks
	}
}

// tick advances the narration clock by one frame.
func (g *Game) tick() {
	if g.settleIn == 0 {
		return
	}
	g.settleIn--
	if g.settleIn > 0 {
		return
	}
	n := len(g.dev.Played)
	if err := g.dev.Settle(); err != nil {
		g.say("error: " + err.Error())
	}
	g.record(n)
}

func (g *Game) Update() error {
	if inpututil.IsKeyJustPressed(ebiten.KeyEscape) {
		return ebiten.Termination
	}
	if inpututil.IsKeyJustPressed(ebiten.KeyTab) {
		g.reveal = !g.reveal
	}
	if inpututil.IsMouseButtonJustPressed(ebiten.MouseButtonLeft) {
		x, y := ebiten.CursorPosition()
		if f, ok := hit(g.fields, x, y); ok {
			g.tap(f)
		}
	}
	g.tick()
	return nil
}

func (g *Game) Draw(screen *ebiten.Image) {
	screen.Fill(color.White)
	if g.background != nil {
		screen.DrawImage(g.background, nil)
	}

	if g.cleared == nil {
		g.cleared = ebiten.NewImage(1, 1)
		g.cleared.Fill(color.RGBA{200, 200, 200, 255})
	}
	for c := 0; c < g.layout.Cards; c++ {
		r := g.layout.Card(c)
		id := g.dev.Get(compiler.CardScript(c))
		if id == 0 {
			op := &ebiten.DrawImageOptions{}
			op.GeoM.Scale(float64(r.Dx()), float64(r.Dy()))
			op.GeoM.Translate(float64(r.Min.X), float64(r.Min.Y))
			screen.DrawImage(g.cleared, op)
			continue
		}
		if g.reveal {
			ebitenutil.DebugPrintAt(screen, g.p.Definition.CardSound(int(id)), r.Min.X+4, r.Min.Y+4)
		}
	}

	x := g.layout.Width + 8
	status := fmt.Sprintf("players %d  turn %d\nremaining %d  busy %d",
		g.dev.Get("players"), g.dev.Get("player"), g.dev.Get("remaining"), g.dev.Get(compiler.BusyRegister))
	ebitenutil.DebugPrintAt(screen, status, x, 4)
	for i, n := range g.narrations {
		ebitenutil.DebugPrintAt(screen, n, x, 44+i*14)
	}
}

func (g *Game) Layout(outsideWidth, outsideHeight int) (int, int) {
	return g.layout.Width + panelWidth, g.layout.Height
}

func main() {
	flag.Parse()
	if flag.NArg() != 1 {
		fmt.Fprintln(os.Stderr, "usage: desktop template.yaml")
		os.Exit(2)
	}

	tpl, p, err := config.LoadProgram(flag.Arg(0))
	if err != nil {
		log.Fatalf("ERROR: %v", err)
	}

	l, err := board.NewLayout(board.Page{
		Width:   tpl.Memory.ImgWidth,
		Height:  tpl.Memory.ImgHeight,
		DPI:     screenDPI,
		Cards:   p.Definition.NumCards(),
		Players: p.Definition.MaxPlayers,
	})
	if err != nil {
		log.Fatalf("ERROR: %v", err)
	}
	bg, err := board.Compose(context.Background(), l, board.Info{
		Title:     tpl.Memory.Title,
		ProductID: tpl.ProductID,
		PixelSize: tpl.Memory.PixelSize,
		Codes:     p.Codes,
	}, blankTiles{})
	if err != nil {
		log.Fatalf("ERROR: %v", err)
	}

	game := newGame(p, l)
	game.background = ebiten.NewImageFromImage(bg)
	game.say("tap the start field")

	ebiten.SetWindowResizingMode(ebiten.WindowResizingModeEnabled)
	ebiten.SetWindowSize((l.Width+panelWidth)*2, l.Height*2)
	ebiten.SetWindowTitle(p.Definition.Title)

	if err := ebiten.RunGame(game); err != nil {
		log.Fatal(err)
	}
}
