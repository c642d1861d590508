package expr

import "fmt"

const (
	bpSum   = 10
	bpProd  = 20
	bpUnary = 30
	bpPow   = 40
)

type parser struct {
	toks []Token
	i    int
}

// Parse turns src into a tree with names left as Ident nodes.
func Parse(src string) (Node, error) {
	toks, err := Lex(src)
	if err != nil {
		return nil, err
	}
	p := &parser{toks: toks}
	if p.peek().Type == EOF {
		return nil, &ParseError{Pos: 0, Msg: "empty expression"}
	}
	n, err := p.expr(0)
	if err != nil {
		return nil, err
	}
	if t := p.peek(); t.Type != EOF {
		return nil, &ParseError{Pos: t.Pos, Msg: fmt.Sprintf("unexpected %s after expression", t.Type)}
	}
	return n, nil
}

func (p *parser) peek() Token { return p.toks[p.i] }

func (p *parser) advance() Token {
	t := p.toks[p.i]
	if t.Type != EOF {
		p.i++
	}
	return t
}

func (p *parser) need(tt TokenType) (Token, error) {
	t := p.peek()
	if t.Type != tt {
		return t, &ParseError{Pos: t.Pos, Msg: fmt.Sprintf("expected %s, found %s", tt, t.Type)}
	}
	return p.advance(), nil
}

// lbp returns the left binding power of a binary operator token.
func lbp(t TokenType) (int, bool) {
	switch t {
	case PLUS, MINUS:
		return bpSum, true
	case STAR, SLASH:
		return bpProd, true
	case CARET:
		return bpPow, true
	}
	return 0, false
}

func (p *parser) expr(minBP int) (Node, error) {
	left, err := p.prefix()
	if err != nil {
		return nil, err
	}

	for {
		op := p.peek()
		bp, ok := lbp(op.Type)
		if !ok || bp <= minBP {
			return left, nil
		}
		p.advance()

		rbp := bp
		if op.Type == CARET {
			rbp = bp - 1
		}
		right, err := p.expr(rbp)
		if err != nil {
			return nil, err
		}
		left = &Binary{Op: opByte(op.Type), L: left, R: right}
	}
}

func (p *parser) prefix() (Node, error) {
	t := p.advance()
	switch t.Type {
	case NUMBER:
		return &Number{Value: t.Value}, nil

	case IDENT:
		if p.peek().Type == LPAREN {
			p.advance()
			args, err := p.args()
			if err != nil {
				return nil, err
			}
			return &Call{Fn: t.Lexeme, Args: args, Pos: t.Pos}, nil
		}
		return &Ident{Name: t.Lexeme, Pos: t.Pos}, nil

	case MINUS, PLUS:
		x, err := p.expr(bpUnary)
		if err != nil {
			return nil, err
		}
		if t.Type == PLUS {
			return x, nil
		}
		return &Unary{Op: '-', X: x}, nil

	case LPAREN:
		inner, err := p.expr(0)
		if err != nil {
			return nil, err
		}
		if _, err := p.need(RPAREN); err != nil {
			return nil, err
		}
		return inner, nil
	}

	return nil, &ParseError{Pos: t.Pos, Msg: fmt.Sprintf("unexpected %s", t.Type)}
}

// args parses a call argument list after the opening parenthesis.
func (p *parser) args() ([]Node, error) {
	var args []Node
	if p.peek().Type == RPAREN {
		p.advance()
		return args, nil
	}
	for {
		a, err := p.expr(0)
		if err != nil {
			return nil, err
		}
		args = append(args, a)

		t := p.advance()
		switch t.Type {
		case COMMA:
			continue
		case RPAREN:
			return args, nil
		default:
			return nil, &ParseError{Pos: t.Pos, Msg: fmt.Sprintf("expected ',' or ')' in argument list, found %s", t.Type)}
		}
	}
}

func opByte(t TokenType) byte {
	switch t {
	case PLUS:
		return '+'
	case MINUS:
		return '-'
	case STAR:
		return '*'
	case SLASH:
		return '/'
	default:
		return '^'
	}
}
