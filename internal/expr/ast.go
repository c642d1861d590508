package expr

import (
	"math"
	"strconv"
	"strings"
)

// Node is an expression tree node.
type Node interface {
	String() string
	prec() int
}

const (
	precSum   = 1
	precProd  = 2
	precUnary = 3
	precPow   = 4
	precAtom  = 5
)

// Number is a numeric literal, either written in the source or inlined from
// a parameter binding.
type Number struct {
	Value float64
}

// Ident is an unresolved name.
type Ident struct {
	Name string
	Pos  int
}

// Ref reads one slot of the state vector.
type Ref struct {
	Slot int
	Name string
}

type Unary struct {
	Op byte
	X  Node
}

type Binary struct {
	Op   byte
	L, R Node
}

type Call struct {
	Fn   string
	Args []Node
	Pos  int
}

func (n *Number) String() string { return strconv.FormatFloat(n.Value, 'g', -1, 64) }
func (n *Ident) String() string  { return n.Name }
func (n *Ref) String() string    { return "x[" + strconv.Itoa(n.Slot) + "]" }

func (n *Unary) String() string {
	x := n.X.String()
	if n.X.prec() < precPow {
		x = "(" + x + ")"
	}
	return string(n.Op) + x
}

func (n *Binary) String() string {
	p := n.prec()
	l, r := n.L.String(), n.R.String()

	// keep the parse tree shape exactly so the text recompiles to the same
	// evaluation order; ^ is the only right associative operator
	leftNeedsParens := n.L.prec() < p || (n.Op == '^' && n.L.prec() == p)
	rightNeedsParens := n.R.prec() < p || (n.R.prec() == p && n.Op != '^')
	if n.Op == '^' && n.R.prec() == precUnary {
		rightNeedsParens = false
	}
	if leftNeedsParens {
		l = "(" + l + ")"
	}
	if rightNeedsParens {
		r = "(" + r + ")"
	}
	if n.Op == '^' {
		return l + "^" + r
	}
	return l + " " + string(n.Op) + " " + r
}

func (n *Call) String() string {
	args := make([]string, len(n.Args))
	for i, a := range n.Args {
		args[i] = a.String()
	}
	return n.Fn + "(" + strings.Join(args, ", ") + ")"
}

func (n *Number) prec() int {
	if math.Signbit(n.Value) {
		return precUnary
	}
	return precAtom
}
func (n *Ident) prec() int  { return precAtom }
func (n *Ref) prec() int    { return precAtom }
func (n *Unary) prec() int  { return precUnary }
func (n *Call) prec() int   { return precAtom }

func (n *Binary) prec() int {
	switch n.Op {
	case '+', '-':
		return precSum
	case '*', '/':
		return precProd
	default:
		return precPow
	}
}

// Idents returns the distinct unresolved names in n, in order of first use.
func Idents(n Node) []string {
	seen := make(map[string]bool)
	var out []string
	Walk(n, func(n Node) {
		if id, ok := n.(*Ident); ok && !seen[id.Name] {
			seen[id.Name] = true
			out = append(out, id.Name)
		}
	})
	return out
}

// Walk calls fn for n and every descendant, parents first.
func Walk(n Node, fn func(Node)) {
	fn(n)
	switch n := n.(type) {
	case *Unary:
		Walk(n.X, fn)
	case *Binary:
		Walk(n.L, fn)
		Walk(n.R, fn)
	case *Call:
		for _, a := range n.Args {
			Walk(a, fn)
		}
	}
}
