package expr

import (
	"fmt"
	"strconv"
)

// TokenType represents the kind of token.
type TokenType int

const (
	EOF TokenType = iota
	ILLEGAL

	NUMBER
	IDENT

	PLUS
	MINUS
	STAR
	SLASH
	CARET // "^" or "**"

	LPAREN
	RPAREN
	COMMA
)

var tokenNames = map[TokenType]string{
	EOF:     "end of input",
	ILLEGAL: "illegal",
	NUMBER:  "number",
	IDENT:   "identifier",
	PLUS:    "'+'",
	MINUS:   "'-'",
	STAR:    "'*'",
	SLASH:   "'/'",
	CARET:   "'^'",
	LPAREN:  "'('",
	RPAREN:  "')'",
	COMMA:   "','",
}

func (t TokenType) String() string {
	if s, ok := tokenNames[t]; ok {
		return s
	}
	return fmt.Sprintf("token(%d)", int(t))
}

type Token struct {
	Type   TokenType
	Lexeme string
	Value  float64
	Pos    int
}

type lexer struct {
	src string
	pos int
}

// Lex splits src into tokens. The returned slice always ends with EOF.
func Lex(src string) ([]Token, error) {
	l := &lexer{src: src}
	var toks []Token
	for {
		tok, err := l.next()
		if err != nil {
			return nil, err
		}
		toks = append(toks, tok)
		if tok.Type == EOF {
			return toks, nil
		}
	}
}

func (l *lexer) next() (Token, error) {
	for l.pos < len(l.src) && isSpace(l.src[l.pos]) {
		l.pos++
	}
	if l.pos >= len(l.src) {
		return Token{Type: EOF, Pos: l.pos}, nil
	}

	start := l.pos
	c := l.src[l.pos]
	switch {
	case isDigit(c) || (c == '.' && l.pos+1 < len(l.src) && isDigit(l.src[l.pos+1])):
		return l.number()
	case isIdentStart(c):
		for l.pos < len(l.src) && isIdentPart(l.src[l.pos]) {
			l.pos++
		}
		return Token{Type: IDENT, Lexeme: l.src[start:l.pos], Pos: start}, nil
	}

	l.pos++
	switch c {
	case '+':
		return Token{Type: PLUS, Lexeme: "+", Pos: start}, nil
	case '-':
		return Token{Type: MINUS, Lexeme: "-", Pos: start}, nil
	case '*':
		if l.pos < len(l.src) && l.src[l.pos] == '*' {
			l.pos++
			return Token{Type: CARET, Lexeme: "**", Pos: start}, nil
		}
		return Token{Type: STAR, Lexeme: "*", Pos: start}, nil
	case '/':
		return Token{Type: SLASH, Lexeme: "/", Pos: start}, nil
	case '^':
		return Token{Type: CARET, Lexeme: "^", Pos: start}, nil
	case '(':
		return Token{Type: LPAREN, Lexeme: "(", Pos: start}, nil
	case ')':
		return Token{Type: RPAREN, Lexeme: ")", Pos: start}, nil
	case ',':
		return Token{Type: COMMA, Lexeme: ",", Pos: start}, nil
	}
	return Token{Type: ILLEGAL, Lexeme: string(c), Pos: start},
		&ParseError{Pos: start, Msg: fmt.Sprintf("unexpected character %q", c)}
}

func (l *lexer) number() (Token, error) {
	start := l.pos
	for l.pos < len(l.src) && isDigit(l.src[l.pos]) {
		l.pos++
	}
	if l.pos < len(l.src) && l.src[l.pos] == '.' {
		l.pos++
		for l.pos < len(l.src) && isDigit(l.src[l.pos]) {
			l.pos++
		}
	}
	// exponent only when digits follow, so "2e" stays 2 followed by ident e
	if l.pos < len(l.src) && (l.src[l.pos] == 'e' || l.src[l.pos] == 'E') {
		j := l.pos + 1
		if j < len(l.src) && (l.src[j] == '+' || l.src[j] == '-') {
			j++
		}
		if j < len(l.src) && isDigit(l.src[j]) {
			for j < len(l.src) && isDigit(l.src[j]) {
				j++
			}
			l.pos = j
		}
	}

	text := l.src[start:l.pos]
	v, err := strconv.ParseFloat(text, 64)
	if err != nil {
		return Token{}, &ParseError{Pos: start, Msg: fmt.Sprintf("invalid number %q", text)}
	}
	return Token{Type: NUMBER, Lexeme: text, Value: v, Pos: start}, nil
}

func isSpace(c byte) bool      { return c == ' ' || c == '\t' || c == '\n' || c == '\r' }
func isDigit(c byte) bool      { return c >= '0' && c <= '9' }
func isLetter(c byte) bool     { return (c >= 'a' && c <= 'z') || (c >= 'A' && c <= 'Z') }
func isIdentStart(c byte) bool { return isLetter(c) || c == '_' }
func isIdentPart(c byte) bool  { return isLetter(c) || isDigit(c) || c == '_' }
