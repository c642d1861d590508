package expr

import "errors"

// Resolver maps a name to its replacement node, a *Number or a *Ref.
type Resolver interface {
	Resolve(name string) (Node, error)
}

// ResolverFunc adapts a function to Resolver.
type ResolverFunc func(name string) (Node, error)

func (f ResolverFunc) Resolve(name string) (Node, error) { return f(name) }

// Resolve returns a copy of n with every Ident replaced through r. All
// resolution failures are reported together via errors.Join; the returned
// tree is nil when any name failed.
func Resolve(n Node, r Resolver) (Node, error) {
	var errs []error
	out := resolve(n, r, &errs)
	if len(errs) > 0 {
		return nil, errors.Join(errs...)
	}
	return out, nil
}

func resolve(n Node, r Resolver, errs *[]error) Node {
	switch n := n.(type) {
	case *Ident:
		repl, err := r.Resolve(n.Name)
		if err != nil {
			*errs = append(*errs, err)
			return n
		}
		return repl
	case *Unary:
		return &Unary{Op: n.Op, X: resolve(n.X, r, errs)}
	case *Binary:
		return &Binary{Op: n.Op, L: resolve(n.L, r, errs), R: resolve(n.R, r, errs)}
	case *Call:
		args := make([]Node, len(n.Args))
		for i, a := range n.Args {
			args[i] = resolve(a, r, errs)
		}
		return &Call{Fn: n.Fn, Args: args, Pos: n.Pos}
	default:
		return n
	}
}
