package compiler

import (
	"errors"
	"fmt"
	"strings"
	"testing"

	"ttmemory/pkg/script"
)

func testDefinition(pairs, players int) Definition {
	def := Definition{MaxPlayers: players}
	for i := 0; i < pairs; i++ {
		def.Pairs = append(def.Pairs, fmt.Sprintf("pair%d", i))
	}
	return def.WithDefaults()
}

func mustCompile(t *testing.T, def Definition, prior Codes) *Program {
	t.Helper()
	p, err := Compile(def, prior)
	if err != nil {
		t.Fatalf("Compile failed: %v", err)
	}
	return p
}

func mustFind(t *testing.T, p *Program, name string) script.Script {
	t.Helper()
	s, ok := p.Script(name)
	if !ok {
		t.Fatalf("script %q not generated", name)
	}
	return s
}

// assertLines checks the rendered lines of a script.
func assertLines(t *testing.T, s script.Script, want ...string) {
	t.Helper()
	got := s.Strings()
	if len(got) != len(want) {
		t.Fatalf("script %s has %d lines; want %d\n%s", s.Name, len(got), len(want), strings.Join(got, "\n"))
	}
	for i := range want {
		if got[i] != want[i] {
			t.Errorf("script %s line %d:\n got: %s\nwant: %s", s.Name, i+1, got[i], want[i])
		}
	}
}

func TestEveryLineFitsTheBudget(t *testing.T) {
	for pairs := 1; pairs <= 12; pairs++ {
		for players := 1; players <= MaxPlayerLimit; players++ {
			for _, alt := range []bool{false, true} {
				def := testDefinition(pairs, players)
				def.AlternativeSounds = alt
				p, err := Compile(def, nil)
				if err != nil {
					t.Fatalf("pairs=%d players=%d alt=%v: %v", pairs, players, alt, err)
				}
				for _, s := range p.Scripts {
					for i, l := range s.Lines {
						if l.Tokens() > script.MaxTokens {
							t.Errorf("pairs=%d players=%d: %s line %d has %d tokens", pairs, players, s.Name, i+1, l.Tokens())
						}
					}
				}
			}
		}
	}
}

func TestEmitFailsLoudlyOnBudget(t *testing.T) {
	cg := newCodeGen(testDefinition(1, 1))
	cg.emit("wide", "$a==0? $b==0? $c==0? $d==0? $e==0? $f==0? $g==0? J(idle) P(nop)")
	cg.emit("after", "$busy:=0")

	if !errors.Is(cg.err, script.ErrBudgetExceeded) {
		t.Fatalf("err = %v; want ErrBudgetExceeded", cg.err)
	}
	if !strings.Contains(cg.err.Error(), "script wide line 1") {
		t.Errorf("error should name the script: %v", cg.err)
	}
	if len(cg.scripts) != 0 {
		t.Errorf("no script may be emitted after a failure, got %d", len(cg.scripts))
	}
}

func TestCardSoundsPairUp(t *testing.T) {
	for _, alt := range []bool{false, true} {
		def := Definition{Pairs: []string{"apple", "pear", "plum"}, AlternativeSounds: alt}.WithDefaults()
		n := def.NumCards()
		if n != 2*def.NumPairs() {
			t.Fatalf("NumCards() = %d; want %d", n, 2*def.NumPairs())
		}
		for c := 1; c <= n; c++ {
			a := strings.TrimSuffix(strings.TrimSuffix(def.CardSound(c), "_a"), "_b")
			b := strings.TrimSuffix(strings.TrimSuffix(def.CardSound(def.Partner(c)), "_a"), "_b")
			if a != b {
				t.Errorf("alt=%v: card %d (%s) and partner %d (%s) differ", alt, c, def.CardSound(c), def.Partner(c), def.CardSound(def.Partner(c)))
			}
			if alt && def.CardSound(c) == def.CardSound(def.Partner(c)) {
				t.Errorf("alternative sounds must differ for card %d", c)
			}
		}
	}

	def := Definition{Pairs: []string{"apple", "pear"}, AlternativeSounds: true}
	want := []string{"apple_a", "pear_a", "pear_b", "apple_b"}
	for c := 1; c <= 4; c++ {
		if got := def.CardSound(c); got != want[c-1] {
			t.Errorf("CardSound(%d) = %q; want %q", c, got, want[c-1])
		}
	}
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name string
		def  Definition
		want string
	}{
		{"no pairs", Definition{}, "no pairs"},
		{"too many players", Definition{Pairs: []string{"a"}, MaxPlayers: 6}, "maxPlayers 6"},
		{"duplicate", Definition{Pairs: []string{"a", "b", "a"}}, "duplicate pair"},
		{"bad label", Definition{Pairs: []string{"a b"}}, "invalid label"},
		{"reserved", Definition{Pairs: []string{"nop"}}, "reserved"},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			_, err := Compile(tc.def, nil)
			if !errors.Is(err, ErrDefinition) {
				t.Fatalf("Compile error = %v; want ErrDefinition", err)
			}
			if !strings.Contains(err.Error(), tc.want) {
				t.Errorf("error %q should contain %q", err, tc.want)
			}
		})
	}
}

func TestInitLine(t *testing.T) {
	p := mustCompile(t, testDefinition(2, 1), nil)
	if got := p.Init.String(); got != "$c0:=1 $c1:=2 $c2:=3 $c3:=4 $remaining:=2 $player:=1" {
		t.Errorf("init = %q", got)
	}
}

func TestPlayerScript(t *testing.T) {
	p := mustCompile(t, testDefinition(2, 3), nil)
	assertLines(t, mustFind(t, p, "p2"),
		"$players==0? $players:=2 $busy:=1 T($random,65535) J(shuffle) P(en_shuffle)",
		"$busy==0? $players<2? $busy:=1 J(idle) P(en_not_playing)",
		"$busy==0? $pairs2==0? $busy:=1 J(idle) P(en_pairs0)",
		"$busy==0? $pairs2==1? $busy:=1 J(idle) P(en_pairs1)",
		"$busy==0? $pairs2==2? $busy:=1 J(idle) P(en_pairs2)",
	)
}

func TestQueryScript(t *testing.T) {
	p := mustCompile(t, testDefinition(2, 3), nil)
	assertLines(t, mustFind(t, p, QueryScript),
		"$busy==0? $players==0? $busy:=1 J(idle) P(en_not_started)",
		"$busy==0? $remaining>0? $player==1? $busy:=1 J(idle) P(en_player1)",
		"$busy==0? $remaining>0? $player==2? $busy:=1 J(idle) P(en_player2)",
		"$busy==0? $remaining>0? $player==3? $busy:=1 J(idle) P(en_player3)",
		"$busy==0? $pairs1>$pairs2? $pairs1>$pairs3? $busy:=1 J(idle) P(en_winner1)",
		"$busy==0? $pairs2>$pairs1? $pairs2>$pairs3? $busy:=1 J(idle) P(en_winner2)",
		"$busy==0? $pairs3>$pairs1? $pairs3>$pairs2? $busy:=1 J(idle) P(en_winner3)",
		"$busy==0? $busy:=1 J(idle) P(en_draw)",
	)
}

func TestRepeatScript(t *testing.T) {
	def := testDefinition(1, 1)
	def.Language = "de"
	p := mustCompile(t, def, nil)
	assertLines(t, mustFind(t, p, RepeatScript),
		"$busy==0? $remaining==0? $busy:=1 J(restart0) P(nop)",
		"$busy==0? $lastCard==1? $busy:=1 J(idle) P(pair0)",
		"$busy==0? $lastCard==2? $busy:=1 J(idle) P(pair0)",
	)
}

func TestCardScript(t *testing.T) {
	p := mustCompile(t, testDefinition(2, 2), nil)
	assertLines(t, mustFind(t, p, "c3"),
		"$players==0? P(en_not_started)",
		"$remaining==0? P(en_finished)",
		"$busy==0? $c3==0? $busy:=1 J(idle) P(en_empty)",
		"$busy==0? $card1==0? $card1:=$c3 $pos1:=3 $lastCard:=$c3 $busy:=1 J(firstCard) P(nop)",
		"$busy==0? $card1==$c3? $busy:=1 J(firstCard) P(nop)",
		"$busy==0? $card1!=$c3? $card2:=$c3 $pos2:=3 $lastCard:=$c3 $busy:=1 J(secondCard) P(nop)",
	)
}

func TestReaderAndTestScripts(t *testing.T) {
	def := Definition{Pairs: []string{"apple", "pear"}, MaxPlayers: 2, AlternativeSounds: true}
	p := mustCompile(t, def, nil)

	assertLines(t, mustFind(t, p, FirstCardScript),
		"$card1==1? J(idle) P(apple_a)",
		"$card1==2? J(idle) P(pear_a)",
		"$card1==3? J(idle) P(pear_b)",
		"$card1==4? J(idle) P(apple_b)",
	)
	second := mustFind(t, p, SecondCardScript)
	if got := second.Lines[2].String(); got != "$card2==3? $sum:=$card1 $sum+=$card2 $card1:=0 $card2:=0 J(test) P(pear_b)" {
		t.Errorf("secondCard line 3 = %q", got)
	}
	assertLines(t, mustFind(t, p, TestScript),
		"$sum==5? $player==1? $pairs1+=1 $remaining-=1 J(clear1) P(en_match)",
		"$sum==5? $player==2? $pairs2+=1 $remaining-=1 J(clear1) P(en_match)",
		"$player==$players? $player:=1 J(idle) P(en_player1)",
		"$player==1? $player+=1 J(idle) P(en_player2)",
	)
}

func TestClearScripts(t *testing.T) {
	p := mustCompile(t, testDefinition(1, 1), nil)
	assertLines(t, mustFind(t, p, ClearScript1),
		"$remaining==0? $busy:=0 J(q) P(en_finished)",
		"$pos1==0? $c0:=0 $pos1:=0 J(clear2) P(nop)",
		"$pos1==1? $c1:=0 $pos1:=0 J(clear2) P(nop)",
	)
	assertLines(t, mustFind(t, p, ClearScript2),
		"$pos2==0? $c0:=0 $pos2:=0 J(idle) P(en_continue)",
		"$pos2==1? $c1:=0 $pos2:=0 J(idle) P(en_continue)",
	)
}

func TestScriptOrder(t *testing.T) {
	p := mustCompile(t, testDefinition(2, 1), nil)
	var names []string
	for _, s := range p.Scripts {
		names = append(names, s.Name)
	}
	want := "idle p1 q r shuffle shuffle0 shuffle1 shuffle2 start c0 c1 c2 c3 firstCard secondCard test clear1 clear2 restart0 restart1 restart2"
	if got := strings.Join(names, " "); got != want {
		t.Errorf("script order:\n got: %s\nwant: %s", got, want)
	}
}

func TestEveryJumpTargetExists(t *testing.T) {
	p := mustCompile(t, testDefinition(5, 4), nil)
	for _, s := range p.Scripts {
		for i, l := range s.Lines {
			if l.Jump == "" {
				continue
			}
			if _, ok := p.Script(l.Jump); !ok {
				t.Errorf("%s line %d jumps to missing script %q", s.Name, i+1, l.Jump)
			}
		}
	}
}

func TestParsesBackToTheSameLines(t *testing.T) {
	p := mustCompile(t, testDefinition(3, 2), nil)
	for _, s := range p.Scripts {
		for i, src := range s.Strings() {
			l, err := script.ParseLine(src)
			if err != nil {
				t.Fatalf("%s line %d: %v", s.Name, i+1, err)
			}
			if l.String() != src {
				t.Errorf("%s line %d: %q reparsed as %q", s.Name, i+1, src, l.String())
			}
		}
	}
}
