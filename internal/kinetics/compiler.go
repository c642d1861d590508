package kinetics

import (
	"fmt"
	"strings"

	"github.com/san-kum/sigpath/internal/expr"
)

// DefaultConstants returns the constant table used when the caller gives
// none. uVol is the fixed volume factor found in exported pathway models.
func DefaultConstants() map[string]float64 {
	return map[string]float64{"uVol": 1.0}
}

// CompiledRate is the outcome of compiling one reaction's rate law.
// A nil Err means Eval is the compiled expression; otherwise Eval is the
// constant zero and Err says why.
type CompiledRate struct {
	Raw      string
	Resolved string
	Eval     expr.Func
	Err      error
}

// Missing reports whether the reaction had no rate law at all.
func (c *CompiledRate) Missing() bool { return strings.TrimSpace(c.Raw) == "" }

func zeroRate([]float64) float64 { return 0 }

// Compiler turns raw rate-law text into evaluators bound to a symbol table.
type Compiler struct {
	symbols   *SymbolTable
	constants map[string]float64
}

// NewCompiler keys constants by their sanitized names.
func NewCompiler(symbols *SymbolTable, constants map[string]float64) *Compiler {
	c := &Compiler{symbols: symbols, constants: make(map[string]float64, len(constants))}
	for k, v := range constants {
		if s := Sanitize(k); s != "" {
			c.constants[s] = v
		}
	}
	return c
}

// Compile parses and resolves raw for reactionID. The returned error is
// non-nil only for failures that must abort the load; recoverable problems
// are reported in CompiledRate.Err.
func (c *Compiler) Compile(reactionID, raw string, params []Parameter) (*CompiledRate, error) {
	bound := make(map[string]float64, len(params))
	for _, p := range params {
		sid := Sanitize(p.ID)
		if sid == "" {
			continue
		}
		if c.symbols.has(sid) {
			return nil, &NameCollisionError{ReactionID: reactionID, Name: sid, Tables: []string{"parameter", "species"}}
		}
		bound[sid] = p.Value
	}

	out := &CompiledRate{Raw: raw, Resolved: "0", Eval: zeroRate}
	if strings.TrimSpace(raw) == "" {
		return out, nil
	}

	tree, err := expr.Parse(normalize(raw, c.symbols.written, params))
	if err != nil {
		out.Err = err
		return out, nil
	}

	var collision error
	resolved, err := expr.Resolve(tree, expr.ResolverFunc(func(name string) (expr.Node, error) {
		sid := Sanitize(name)
		v, isParam := bound[sid]
		cv, isConst := c.constants[sid]
		slot, serr := c.symbols.SlotOf(sid)
		isSpecies := serr == nil

		if isSpecies && (isParam || isConst) {
			tables := []string{"species"}
			if isParam {
				tables = append(tables, "parameter")
			}
			if isConst {
				tables = append(tables, "constant")
			}
			e := &NameCollisionError{ReactionID: reactionID, Name: sid, Tables: tables}
			if collision == nil {
				collision = e
			}
			return nil, e
		}
		switch {
		case isParam:
			return &expr.Number{Value: v}, nil
		case isSpecies:
			return &expr.Ref{Slot: slot, Name: sid}, nil
		case isConst:
			return &expr.Number{Value: cv}, nil
		}
		return nil, &UnresolvedSymbolError{ReactionID: reactionID, Name: name}
	}))
	if collision != nil {
		return nil, collision
	}
	if err != nil {
		out.Err = err
		return out, nil
	}

	fn, err := expr.Compile(resolved)
	if err != nil {
		out.Err = fmt.Errorf("reaction %q: %w", reactionID, err)
		return out, nil
	}
	out.Resolved = resolved.String()
	out.Eval = fn
	return out, nil
}
