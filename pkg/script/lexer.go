package script

import (
	"fmt"
	"strings"
	"unicode"
)

// Lexer holds all mutable state for a single scanning pass over one line.
type Lexer struct {
	src []rune
	pos int // index of the next rune to consume
}

func newLexer(src string) *Lexer {
	return &Lexer{src: []rune(src)}
}

// peek returns the rune at the current position without advancing.
func (l *Lexer) peek() rune {
	if l.pos >= len(l.src) {
		return 0
	}
	return l.src[l.pos]
}

// peek2 returns the rune one position ahead of the current position.
func (l *Lexer) peek2() rune {
	if l.pos+1 >= len(l.src) {
		return 0
	}
	return l.src[l.pos+1]
}

func (l *Lexer) advance() rune {
	if l.pos >= len(l.src) {
		return 0
	}
	r := l.src[l.pos]
	l.pos++
	return r
}

func (l *Lexer) skipWhitespace() {
	for l.pos < len(l.src) && unicode.IsSpace(l.peek()) {
		l.advance()
	}
}

func isNameRune(r rune) bool {
	return r == '_' || unicode.IsLetter(r) || unicode.IsDigit(r)
}

// readName consumes a run of register-name runes.
func (l *Lexer) readName() string {
	start := l.pos
	for l.pos < len(l.src) && isNameRune(l.peek()) {
		l.advance()
	}
	return string(l.src[start:l.pos])
}

// readArgument consumes everything up to and including the closing ")" of a
// J( or P( builtin. The opening "X(" must already have been consumed.
func (l *Lexer) readArgument(col int) (string, error) {
	start := l.pos
	for l.pos < len(l.src) && l.peek() != ')' {
		l.advance()
	}
	if l.pos >= len(l.src) {
		return "", fmt.Errorf("col %d: unterminated builtin argument", col)
	}
	arg := strings.TrimSpace(string(l.src[start:l.pos]))
	l.advance() // ')'
	if arg == "" {
		return "", fmt.Errorf("col %d: empty builtin argument", col)
	}
	return arg, nil
}

// twoCharOps maps operator spellings to their token types.
var twoCharOps = map[string]TokenType{
	":=": ASSIGN,
	"+=": PLUS_ASSIGN,
	"-=": MINUS_ASSIGN,
	"*=": STAR_ASSIGN,
	"/=": SLASH_ASSIGN,
	"%=": PERCENT_ASSIGN,
	"==": EQUALS,
	"!=": NOT_EQ,
	"<=": LESS_EQ,
	">=": GREATER_EQ,
}

func (l *Lexer) next() (Token, error) {
	l.skipWhitespace()
	col := l.pos + 1
	if l.pos >= len(l.src) {
		return Token{Type: EOF, Col: col}, nil
	}

	ch := l.peek()
	switch {
	case ch == '$':
		l.advance()
		name := l.readName()
		if name == "" {
			return Token{}, fmt.Errorf("col %d: register name expected after '$'", col)
		}
		return Token{Type: REGISTER, Value: name, Col: col}, nil

	case unicode.IsDigit(ch):
		start := l.pos
		for l.pos < len(l.src) && unicode.IsDigit(l.peek()) {
			l.advance()
		}
		return Token{Type: INTEGER, Value: string(l.src[start:l.pos]), Col: col}, nil

	case (ch == 'J' || ch == 'P' || ch == 'T') && l.peek2() == '(':
		l.advance()
		l.advance()
		if ch == 'T' {
			return Token{Type: TIMER, Col: col}, nil
		}
		arg, err := l.readArgument(col)
		if err != nil {
			return Token{}, err
		}
		typ := JUMP
		if ch == 'P' {
			typ = PLAY
		}
		return Token{Type: typ, Value: arg, Col: col}, nil
	}

	if op, ok := twoCharOps[string([]rune{ch, l.peek2()})]; ok {
		l.advance()
		l.advance()
		return Token{Type: op, Col: col}, nil
	}

	l.advance()
	switch ch {
	case '?':
		return Token{Type: QUESTION, Col: col}, nil
	case ',':
		return Token{Type: COMMA, Col: col}, nil
	case ')':
		return Token{Type: RPAREN, Col: col}, nil
	case '<':
		return Token{Type: LESS, Col: col}, nil
	case '>':
		return Token{Type: GREATER, Col: col}, nil
	}
	return Token{}, fmt.Errorf("col %d: unexpected character %q", col, ch)
}

// Lex converts a single script line into a flat token slice terminated by EOF.
func Lex(src string) ([]Token, error) {
	l := newLexer(src)
	var tokens []Token
	for {
		tok, err := l.next()
		if err != nil {
			return nil, err
		}
		tokens = append(tokens, tok)
		if tok.Type == EOF {
			return tokens, nil
		}
	}
}
