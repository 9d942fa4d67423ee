package main

import (
	"context"
	"testing"

	"ttmemory/pkg/board"
	"ttmemory/pkg/compiler"
)

func testGame(t *testing.T) *Game {
	t.Helper()
	p, err := compiler.Compile(compiler.Definition{Pairs: []string{"dog", "cat", "cow"}, MaxPlayers: 2}, nil)
	if err != nil {
		t.Fatalf("Compile failed: %v", err)
	}
	l, err := board.NewLayout(board.Page{Width: 190, Height: 270, DPI: screenDPI, Cards: 6, Players: 2})
	if err != nil {
		t.Fatalf("NewLayout failed: %v", err)
	}
	g := newGame(p, l)
	g.dev.Entropy = func(max int) int { return 99 % (max + 1) }
	return g
}

func center(f field) (int, int) {
	return (f.rect.Min.X + f.rect.Max.X) / 2, (f.rect.Min.Y + f.rect.Max.Y) / 2
}

func TestBoardFields(t *testing.T) {
	g := testGame(t)
	want := []string{"", "p1", "p2", "q", "r", "c0", "c1", "c2", "c3", "c4", "c5"}
	if len(g.fields) != len(want) {
		t.Fatalf("%d fields; want %d", len(g.fields), len(want))
	}
	for i, f := range g.fields {
		if f.script != want[i] {
			t.Errorf("field %d is %q; want %q", i, f.script, want[i])
		}
		x, y := center(f)
		got, ok := hit(g.fields, x, y)
		if !ok || got.script != f.script {
			t.Errorf("centre of %q hits %q", f.script, got.script)
		}
	}

	// corners of round fields are outside
	q := g.fields[3]
	if f, ok := hit(g.fields, q.rect.Min.X, q.rect.Min.Y); ok {
		t.Errorf("corner of the query field hits %q", f.script)
	}
	if _, ok := hit(g.fields, -5, -5); ok {
		t.Errorf("point off the board hits a field")
	}
}

func TestTapWaitsForNarration(t *testing.T) {
	g := testGame(t)
	g.tap(g.fields[1])
	if g.dev.Get("players") != 1 || !g.dev.Pending() {
		t.Fatalf("p1 did not start the shuffle")
	}

	for i := 0; i < settleTicks-1; i++ {
		g.tick()
	}
	if !g.dev.Pending() {
		t.Fatalf("jump taken before the narration ended")
	}
	g.tick()
	if g.dev.Pending() || g.dev.Get(compiler.BusyRegister) != 0 {
		t.Errorf("jump chain not finished after the narration")
	}
	if last := g.narrations[len(g.narrations)-1]; last != "♪ en_player1" {
		t.Errorf("last narration %q", last)
	}

	// a second tap while a card narration plays is ignored
	g.tap(g.fields[5])
	card1 := g.dev.Get("card1")
	g.tap(g.fields[6])
	if g.dev.Get("card1") != card1 || g.dev.Get("card2") != 0 {
		t.Errorf("tap during narration changed the selection")
	}
}

func TestStartFieldResets(t *testing.T) {
	g := testGame(t)
	g.tap(g.fields[1])
	g.tap(g.fields[0])
	if g.dev.Get("players") != 0 || g.dev.Pending() || g.settleIn != 0 {
		t.Errorf("start field did not reset the device")
	}
	if last := g.narrations[len(g.narrations)-1]; last != "♪ en_welcome" {
		t.Errorf("start played %q", last)
	}
}

func TestNarrationHistoryIsBounded(t *testing.T) {
	g := testGame(t)
	for i := 0; i < 3*maxNarrations; i++ {
		g.say("x")
	}
	if len(g.narrations) != maxNarrations {
		t.Errorf("%d narrations kept", len(g.narrations))
	}
}

func TestBackgroundComposes(t *testing.T) {
	g := testGame(t)
	img, err := board.Compose(context.Background(), g.layout, board.Info{Title: "Memory", Codes: g.p.Codes}, blankTiles{})
	if err != nil {
		t.Fatalf("Compose failed: %v", err)
	}
	if img.Bounds().Dx() != g.layout.Width {
		t.Errorf("background width %d; want %d", img.Bounds().Dx(), g.layout.Width)
	}
}
