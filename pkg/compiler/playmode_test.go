package compiler

import "testing"

func TestPlayMode(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{"$c1==0? $busy:=1 J(idle) P(nop)", "$c1==0? $busy:=1 J(idle)"},
		{"$busy==0? $c3==0? $busy:=1 J(idle) P(en_empty)", "$busy==0? $c3==0? $busy:=1 P(en_empty) J(idle)"},
		{"P(nop)", ""},
		{"$busy:=0", "$busy:=0"},
		{"$pos==0? J(start) P(en_start)", "$pos==0? P(en_start) J(start)"},
		{"$a:=1  P(nop)   $b:=2", "$a:=1 $b:=2"},
		{"P(x) J(y)", "P(x) J(y)"},
	}
	for _, tc := range tests {
		got := PlayMode(tc.in)
		if got != tc.want {
			t.Errorf("PlayMode(%q) = %q; want %q", tc.in, got, tc.want)
		}
		if again := PlayMode(got); again != got {
			t.Errorf("PlayMode is not idempotent on %q: %q", got, again)
		}
	}
}

func TestRenderPlayMode(t *testing.T) {
	p := mustCompile(t, testDefinition(2, 2), nil)

	plain := p.Render(false)
	play := p.Render(true)
	if len(plain) != len(play) || len(plain) != len(p.Scripts) {
		t.Fatalf("rendered %d/%d scripts; want %d", len(plain), len(play), len(p.Scripts))
	}

	for i := range play {
		for j, line := range play[i].Lines {
			if line != PlayMode(plain[i].Lines[j]) {
				t.Errorf("%s line %d not transformed: %q", play[i].Name, j+1, line)
			}
		}
	}

	// rendering must not alter the program
	if plain[0].Lines[0] != p.Scripts[0].Lines[0].String() {
		t.Errorf("Render changed the program")
	}
}
