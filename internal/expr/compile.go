package expr

import (
	"fmt"
	"math"
)

// Func evaluates a compiled expression against a state vector.
type Func func(x []float64) float64

// Compile turns a fully resolved tree into a closure. Trees that still hold
// Ident nodes, unknown functions or arity mismatches are rejected.
func Compile(n Node) (Func, error) {
	switch n := n.(type) {
	case *Number:
		v := n.Value
		return func([]float64) float64 { return v }, nil

	case *Ref:
		slot := n.Slot
		return func(x []float64) float64 { return x[slot] }, nil

	case *Ident:
		return nil, fmt.Errorf("%w: %s", ErrUnresolved, n.Name)

	case *Unary:
		x, err := Compile(n.X)
		if err != nil {
			return nil, err
		}
		return func(s []float64) float64 { return -x(s) }, nil

	case *Binary:
		l, err := Compile(n.L)
		if err != nil {
			return nil, err
		}
		r, err := Compile(n.R)
		if err != nil {
			return nil, err
		}
		switch n.Op {
		case '+':
			return func(s []float64) float64 { return l(s) + r(s) }, nil
		case '-':
			return func(s []float64) float64 { return l(s) - r(s) }, nil
		case '*':
			return func(s []float64) float64 { return l(s) * r(s) }, nil
		case '/':
			return func(s []float64) float64 { return l(s) / r(s) }, nil
		case '^':
			return func(s []float64) float64 { return math.Pow(l(s), r(s)) }, nil
		}
		return nil, fmt.Errorf("expr: unknown operator %q", n.Op)

	case *Call:
		return compileCall(n)
	}
	return nil, fmt.Errorf("expr: unsupported node %T", n)
}

func compileCall(n *Call) (Func, error) {
	b, ok := lookupBuiltin(n.Fn)
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrUnknownFunction, n.Fn)
	}
	argc := len(n.Args)
	if argc < b.min || (b.max >= 0 && argc > b.max) {
		return nil, fmt.Errorf("%w: %s takes %s, got %d", ErrArity, n.Fn, arityText(b), argc)
	}

	args := make([]Func, argc)
	for i, a := range n.Args {
		f, err := Compile(a)
		if err != nil {
			return nil, err
		}
		args[i] = f
	}

	switch {
	case argc == 1 && b.f1 != nil:
		f, a := b.f1, args[0]
		return func(s []float64) float64 { return f(a(s)) }, nil
	case argc == 2 && b.f2 != nil:
		f, a, c := b.f2, args[0], args[1]
		return func(s []float64) float64 { return f(a(s), c(s)) }, nil
	case b.fn != nil:
		f := b.fn
		return func(s []float64) float64 {
			vals := make([]float64, len(args))
			for i, a := range args {
				vals[i] = a(s)
			}
			return f(vals)
		}, nil
	}
	return nil, fmt.Errorf("%w: %s with %d arguments", ErrArity, n.Fn, argc)
}

func arityText(b builtin) string {
	switch {
	case b.max < 0:
		return fmt.Sprintf("at least %d arguments", b.min)
	case b.min == b.max:
		return fmt.Sprintf("%d arguments", b.min)
	default:
		return fmt.Sprintf("%d to %d arguments", b.min, b.max)
	}
}
