package script

import (
	"strings"
	"testing"
)

func tokenTypes(tokens []Token) []TokenType {
	out := make([]TokenType, len(tokens))
	for i, tok := range tokens {
		out[i] = tok.Type
	}
	return out
}

func TestLex(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  []TokenType
	}{
		{"empty", "", []TokenType{EOF}},
		{"assignment", "$busy:=0", []TokenType{REGISTER, ASSIGN, INTEGER, EOF}},
		{
			"condition and command",
			"$busy==0? $busy:=1",
			[]TokenType{REGISTER, EQUALS, INTEGER, QUESTION, REGISTER, ASSIGN, INTEGER, EOF},
		},
		{
			"all comparisons",
			"$a==1? $a!=1? $a<1? $a>1? $a<=1? $a>=1?",
			[]TokenType{
				REGISTER, EQUALS, INTEGER, QUESTION,
				REGISTER, NOT_EQ, INTEGER, QUESTION,
				REGISTER, LESS, INTEGER, QUESTION,
				REGISTER, GREATER, INTEGER, QUESTION,
				REGISTER, LESS_EQ, INTEGER, QUESTION,
				REGISTER, GREATER_EQ, INTEGER, QUESTION,
				EOF,
			},
		},
		{
			"arithmetic",
			"$a+=1 $a-=$b $a*=3 $a/=4 $a%=5",
			[]TokenType{
				REGISTER, PLUS_ASSIGN, INTEGER,
				REGISTER, MINUS_ASSIGN, REGISTER,
				REGISTER, STAR_ASSIGN, INTEGER,
				REGISTER, SLASH_ASSIGN, INTEGER,
				REGISTER, PERCENT_ASSIGN, INTEGER,
				EOF,
			},
		},
		{"timer", "T($random, 65535)", []TokenType{TIMER, REGISTER, COMMA, INTEGER, RPAREN, EOF}},
		{"jump and play", "J(idle) P(en_start)", []TokenType{JUMP, PLAY, EOF}},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			tokens, err := Lex(tc.input)
			if err != nil {
				t.Fatalf("Lex(%q) failed: %v", tc.input, err)
			}
			got := tokenTypes(tokens)
			if len(got) != len(tc.want) {
				t.Fatalf("Lex(%q) = %v; want %v", tc.input, got, tc.want)
			}
			for i := range got {
				if got[i] != tc.want[i] {
					t.Errorf("token %d of %q = %s; want %s", i, tc.input, got[i], tc.want[i])
				}
			}
		})
	}
}

func TestLexBuiltinArguments(t *testing.T) {
	tokens, err := Lex("J(shuffle12) P( apple_a )")
	if err != nil {
		t.Fatalf("Lex failed: %v", err)
	}
	if tokens[0].Value != "shuffle12" {
		t.Errorf("jump argument = %q; want %q", tokens[0].Value, "shuffle12")
	}
	if tokens[1].Value != "apple_a" {
		t.Errorf("play argument = %q; want %q", tokens[1].Value, "apple_a")
	}
	if tokens[1].Col != 14 {
		t.Errorf("play column = %d; want 14", tokens[1].Col)
	}
}

func TestLexErrors(t *testing.T) {
	tests := []struct {
		input   string
		wantErr string
	}{
		{"$", "register name expected"},
		{"$a:=1 #", "unexpected character"},
		{"J(idle", "unterminated"},
		{"P()", "empty builtin argument"},
	}
	for _, tc := range tests {
		_, err := Lex(tc.input)
		if err == nil {
			t.Errorf("Lex(%q) succeeded; want error containing %q", tc.input, tc.wantErr)
			continue
		}
		if !strings.Contains(err.Error(), tc.wantErr) {
			t.Errorf("Lex(%q) error = %q; want it to contain %q", tc.input, err, tc.wantErr)
		}
	}
}
