package script

import (
	"fmt"
	"strconv"
)

// Parser consumes the token slice of one line and builds a Line.
//
// Grammar:
//
//	line      = condition* action* EOF
//	condition = REGISTER cmpop operand "?"
//	action    = REGISTER assignop operand | "T(" REGISTER "," operand ")" | JUMP | PLAY
//	operand   = REGISTER | INTEGER
//
// Jump and play may appear in either order, at most once each.
type Parser struct {
	tokens []Token
	pos    int
	src    string
}

func NewParser(tokens []Token, src string) *Parser {
	return &Parser{tokens: tokens, src: src}
}

func (p *Parser) fmtError(tok Token, format string, args ...any) error {
	return fmt.Errorf("col %d: %s\n  |> %s", tok.Col, fmt.Sprintf(format, args...), p.src)
}

func (p *Parser) peek() Token {
	if p.pos >= len(p.tokens) {
		return Token{Type: EOF}
	}
	return p.tokens[p.pos]
}

// peekAt returns the token n positions ahead without consuming anything.
func (p *Parser) peekAt(n int) Token {
	if p.pos+n >= len(p.tokens) {
		return Token{Type: EOF}
	}
	return p.tokens[p.pos+n]
}

func (p *Parser) advance() Token {
	tok := p.peek()
	if p.pos < len(p.tokens) {
		p.pos++
	}
	return tok
}

func (p *Parser) expect(tt TokenType) (Token, error) {
	tok := p.advance()
	if tok.Type != tt {
		return tok, p.fmtError(tok, "expected %s, got %s", tt, tok.Type)
	}
	return tok, nil
}

func (p *Parser) parseOperand() (Operand, error) {
	tok := p.advance()
	switch tok.Type {
	case REGISTER:
		return Reg(tok.Value), nil
	case INTEGER:
		v, err := strconv.Atoi(tok.Value)
		if err != nil {
			return Operand{}, p.fmtError(tok, "invalid integer %q", tok.Value)
		}
		return Lit(v), nil
	}
	return Operand{}, p.fmtError(tok, "expected register or integer, got %s", tok.Type)
}

var compareOps = map[TokenType]CompareOp{
	EQUALS:     Eq,
	NOT_EQ:     Ne,
	LESS:       Lt,
	GREATER:    Gt,
	LESS_EQ:    Le,
	GREATER_EQ: Ge,
}

var commandOps = map[TokenType]CommandOp{
	ASSIGN:         Set,
	PLUS_ASSIGN:    Add,
	MINUS_ASSIGN:   Sub,
	STAR_ASSIGN:    Mul,
	SLASH_ASSIGN:   Div,
	PERCENT_ASSIGN: Mod,
}

func (p *Parser) parseCondition() (Condition, error) {
	reg := p.advance()
	op := p.advance()
	arg, err := p.parseOperand()
	if err != nil {
		return Condition{}, err
	}
	if _, err := p.expect(QUESTION); err != nil {
		return Condition{}, err
	}
	return Condition{Reg: reg.Value, Op: compareOps[op.Type], Arg: arg}, nil
}

func (p *Parser) parseTimer() (Command, error) {
	p.advance() // T(
	reg, err := p.expect(REGISTER)
	if err != nil {
		return Command{}, err
	}
	if _, err := p.expect(COMMA); err != nil {
		return Command{}, err
	}
	arg, err := p.parseOperand()
	if err != nil {
		return Command{}, err
	}
	if _, err := p.expect(RPAREN); err != nil {
		return Command{}, err
	}
	return Command{Op: Timer, Reg: reg.Value, Arg: arg}, nil
}

// Parse builds a Line from the token stream. It does not enforce the budget.
func (p *Parser) Parse() (Line, error) {
	var line Line

	for p.peek().Type == REGISTER && p.peekAt(1).Type.isComparison() {
		c, err := p.parseCondition()
		if err != nil {
			return Line{}, err
		}
		line.Conditions = append(line.Conditions, c)
	}

	for {
		tok := p.peek()
		switch {
		case tok.Type == EOF:
			return line, nil

		case tok.Type == REGISTER && p.peekAt(1).Type.isAssignment():
			p.advance()
			op := p.advance()
			arg, err := p.parseOperand()
			if err != nil {
				return Line{}, err
			}
			line.Commands = append(line.Commands, Command{Op: commandOps[op.Type], Reg: tok.Value, Arg: arg})

		case tok.Type == REGISTER && p.peekAt(1).Type.isComparison():
			return Line{}, p.fmtError(tok, "condition on $%s after a command", tok.Value)

		case tok.Type == TIMER:
			c, err := p.parseTimer()
			if err != nil {
				return Line{}, err
			}
			line.Commands = append(line.Commands, c)

		case tok.Type == JUMP:
			p.advance()
			if line.Jump != "" {
				return Line{}, p.fmtError(tok, "second jump J(%s)", tok.Value)
			}
			line.Jump = tok.Value

		case tok.Type == PLAY:
			p.advance()
			if line.Play != "" {
				return Line{}, p.fmtError(tok, "second play P(%s)", tok.Value)
			}
			line.Play = tok.Value

		default:
			return Line{}, p.fmtError(tok, "unexpected %s", tok.Type)
		}
	}
}

// Parse lexes and parses a line of any length. Use it for the init line,
// which is not subject to the token budget.
func Parse(src string) (Line, error) {
	tokens, err := Lex(src)
	if err != nil {
		return Line{}, err
	}
	return NewParser(tokens, src).Parse()
}

// ParseLine lexes and parses a script line and enforces the token budget.
func ParseLine(src string) (Line, error) {
	l, err := Parse(src)
	if err != nil {
		return Line{}, err
	}
	if err := l.Check(); err != nil {
		return Line{}, err
	}
	return l, nil
}
