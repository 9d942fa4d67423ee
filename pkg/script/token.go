package script

import "fmt"

// TokenType identifies the category of a lexed token.
type TokenType int

const (
	EOF TokenType = iota // sentinel: end of input

	// Operands
	REGISTER // $name
	INTEGER  // decimal integer literal

	// Builtins. JUMP and PLAY carry their argument as the token value.
	JUMP  // J(script)
	PLAY  // P(label)
	TIMER // T(

	// Punctuation
	QUESTION // ?
	COMMA    // ,
	RPAREN   // )

	// Assignment (order matters: ASSIGN first)
	ASSIGN         // :=
	PLUS_ASSIGN    // +=
	MINUS_ASSIGN   // -=
	STAR_ASSIGN    // *=
	SLASH_ASSIGN   // /=
	PERCENT_ASSIGN // %=

	// Comparison
	EQUALS     // ==
	NOT_EQ     // !=
	LESS       // <
	GREATER    // >
	LESS_EQ    // <=
	GREATER_EQ // >=
)

var tokenNames = map[TokenType]string{
	EOF:            "EOF",
	REGISTER:       "REGISTER",
	INTEGER:        "INTEGER",
	JUMP:           "JUMP",
	PLAY:           "PLAY",
	TIMER:          "TIMER",
	QUESTION:       "?",
	COMMA:          ",",
	RPAREN:         ")",
	ASSIGN:         ":=",
	PLUS_ASSIGN:    "+=",
	MINUS_ASSIGN:   "-=",
	STAR_ASSIGN:    "*=",
	SLASH_ASSIGN:   "/=",
	PERCENT_ASSIGN: "%=",
	EQUALS:         "==",
	NOT_EQ:         "!=",
	LESS:           "<",
	GREATER:        ">",
	LESS_EQ:        "<=",
	GREATER_EQ:     ">=",
}

func (t TokenType) String() string {
	if s, ok := tokenNames[t]; ok {
		return s
	}
	return fmt.Sprintf("TokenType(%d)", int(t))
}

// isComparison reports whether t compares two operands.
func (t TokenType) isComparison() bool {
	return t >= EQUALS && t <= GREATER_EQ
}

// isAssignment reports whether t modifies a register.
func (t TokenType) isAssignment() bool {
	return t >= ASSIGN && t <= PERCENT_ASSIGN
}

// Token is a single lexical unit of a script line.
type Token struct {
	Type  TokenType
	Value string
	Col   int // 1-based column of the first rune
}

func (t Token) String() string {
	if t.Value == "" {
		return fmt.Sprintf("%s@%d", t.Type, t.Col)
	}
	return fmt.Sprintf("%s(%q)@%d", t.Type, t.Value, t.Col)
}
