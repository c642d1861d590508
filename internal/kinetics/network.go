package kinetics

import (
	"fmt"
	"log/slog"
	"math"
	"strings"

	"github.com/san-kum/sigpath/internal/dynamo"
)

// Reaction is a compiled reaction. It is read-only after Load.
type Reaction struct {
	ID            string
	Name          string
	ReactantSlots []int
	ProductSlots  []int
	ModifierSlots []int
	Reversible    bool
	RawRate       string
	ResolvedRate  string
	Disabled      bool

	eval func([]float64) float64
}

// Rate evaluates the reaction's rate law at x without any finiteness check.
func (r *Reaction) Rate(x []float64) float64 { return r.eval(x) }

type Options struct {
	// Constants are merged over DefaultConstants and the model's own
	// constants.
	Constants map[string]float64
	Logger    *slog.Logger
}

// Network is the compiled model. It implements dynamo.System.
type Network struct {
	name        string
	symbols     *SymbolTable
	reactions   []Reaction
	diagnostics *Diagnostics
	constants   map[string]float64
}

var _ dynamo.System = (*Network)(nil)

// Load compiles spec into a Network.
func Load(spec *ModelSpec, opts Options) (*Network, error) {
	logger := opts.Logger
	if logger == nil {
		logger = slog.Default()
	}

	symbols, err := NewSymbolTable(spec.Species)
	if err != nil {
		return nil, err
	}

	constants := DefaultConstants()
	for k, v := range spec.Constants {
		constants[k] = v
	}
	for k, v := range opts.Constants {
		constants[k] = v
	}

	n := &Network{
		name:        spec.Name,
		symbols:     symbols,
		reactions:   make([]Reaction, 0, len(spec.Reactions)),
		diagnostics: NewDiagnostics(),
		constants:   constants,
	}
	compiler := NewCompiler(symbols, constants)

	for _, rs := range spec.Reactions {
		if len(rs.Reactants) == 0 || len(rs.Products) == 0 {
			side := "reactant"
			if len(rs.Reactants) != 0 {
				side = "product"
			}
			n.diagnostics.Add(Diagnostic{
				Severity:   SeverityWarning,
				Stage:      StageLoad,
				ReactionID: rs.ID,
				Message:    fmt.Sprintf("empty %s list; reaction skipped", side),
			})
			logger.Warn("skipping reaction", "reaction", rs.ID, "reason", "empty "+side+" list")
			continue
		}

		reactants, err := slotsOf(symbols, rs.ID, rs.Reactants)
		if err != nil {
			return nil, err
		}
		products, err := slotsOf(symbols, rs.ID, rs.Products)
		if err != nil {
			return nil, err
		}
		modifiers, err := slotsOf(symbols, rs.ID, rs.Modifiers)
		if err != nil {
			return nil, err
		}

		rate, err := compiler.Compile(rs.ID, rs.RateLaw, rs.Parameters)
		if err != nil {
			return nil, err
		}
		switch {
		case rate.Err != nil:
			n.diagnostics.Add(Diagnostic{
				Severity:   SeverityWarning,
				Stage:      StageCompile,
				ReactionID: rs.ID,
				Message:    fmt.Sprintf("rate law %q disabled: %v", rs.RateLaw, rate.Err),
				Err:        rate.Err,
			})
			logger.Warn("rate law disabled", "reaction", rs.ID, "rate", rs.RateLaw, "err", rate.Err)
		case rate.Missing():
			n.diagnostics.Add(Diagnostic{
				Severity:   SeverityInfo,
				Stage:      StageCompile,
				ReactionID: rs.ID,
				Message:    "no rate law; rate is 0",
			})
		}

		n.reactions = append(n.reactions, Reaction{
			ID:            rs.ID,
			Name:          rs.Name,
			ReactantSlots: reactants,
			ProductSlots:  products,
			ModifierSlots: modifiers,
			Reversible:    rs.Reversible,
			RawRate:       rs.RateLaw,
			ResolvedRate:  rate.Resolved,
			Disabled:      rate.Err != nil,
			eval:          rate.Eval,
		})
	}

	logger.Debug("network loaded",
		"model", spec.Name,
		"species", symbols.Len(),
		"reactions", len(n.reactions),
		"diagnostics", n.diagnostics.Len())
	return n, nil
}

func slotsOf(symbols *SymbolTable, reactionID string, ids []string) ([]int, error) {
	if len(ids) == 0 {
		return nil, nil
	}
	out := make([]int, len(ids))
	for i, id := range ids {
		sp, ok := symbols.Lookup(id)
		if !ok {
			return nil, &UnknownSpeciesError{ID: id, Slot: -1, ReactionID: reactionID}
		}
		out[i] = sp.Slot
	}
	return out, nil
}

func (n *Network) Name() string { return n.name }

func (n *Network) StateDim() int { return n.symbols.Len() }

func (n *Network) Symbols() *SymbolTable { return n.symbols }

// Reactions returns the compiled reactions in load order.
func (n *Network) Reactions() []Reaction {
	out := make([]Reaction, len(n.reactions))
	copy(out, n.reactions)
	return out
}

// Diagnostics returns the load and compile diagnostics.
func (n *Network) Diagnostics() []Diagnostic { return n.diagnostics.Items() }

// DiagnosticsFor returns the load and compile diagnostics of one reaction.
func (n *Network) DiagnosticsFor(reactionID string) []Diagnostic {
	return n.diagnostics.ForReaction(reactionID)
}

// Constants returns a copy of the effective constant table.
func (n *Network) Constants() map[string]float64 {
	out := make(map[string]float64, len(n.constants))
	for k, v := range n.constants {
		out[k] = v
	}
	return out
}

// InitialState returns the declared initial concentrations in slot order.
func (n *Network) InitialState() dynamo.State {
	x := make(dynamo.State, n.symbols.Len())
	for i, sp := range n.symbols.species {
		x[i] = sp.InitialConcentration
	}
	return x
}

// Derive returns dX/dt at x. Evaluation failures yield a zero rate and are
// not reported; use WithSink to collect them.
func (n *Network) Derive(x dynamo.State, t float64) dynamo.State {
	return n.derive(x, nil)
}

// Rates returns the per-reaction rates at x in load order.
func (n *Network) Rates(x dynamo.State) []float64 {
	out := make([]float64, len(n.reactions))
	for i := range n.reactions {
		out[i] = n.rate(i, x, nil)
	}
	return out
}

func (n *Network) rate(i int, x dynamo.State, sink *Diagnostics) float64 {
	r := &n.reactions[i]
	v := r.eval(x)
	if math.IsNaN(v) || math.IsInf(v, 0) {
		if sink != nil {
			sink.ReportEvaluation(r.ID, v)
		}
		return 0
	}
	return v
}

func (n *Network) derive(x dynamo.State, sink *Diagnostics) dynamo.State {
	dx := make(dynamo.State, n.symbols.Len())
	for i := range n.reactions {
		r := &n.reactions[i]
		v := n.rate(i, x, sink)
		for _, s := range r.ReactantSlots {
			dx[s] -= v
		}
		for _, s := range r.ProductSlots {
			dx[s] += v
		}
	}
	return dx
}

// WithSink returns a view of n that reports evaluation failures to sink.
// The view shares n's compiled reactions and holds no other state.
func (n *Network) WithSink(sink *Diagnostics) dynamo.System {
	return &sinkView{net: n, sink: sink}
}

type sinkView struct {
	net  *Network
	sink *Diagnostics
}

func (v *sinkView) Derive(x dynamo.State, t float64) dynamo.State { return v.net.derive(x, v.sink) }
func (v *sinkView) StateDim() int                                { return v.net.StateDim() }

// Equation renders a reaction as "A + B -> C" using display names.
func (n *Network) Equation(r Reaction) string {
	arrow := " -> "
	if r.Reversible {
		arrow = " <-> "
	}
	return n.side(r.ReactantSlots) + arrow + n.side(r.ProductSlots)
}

func (n *Network) side(slots []int) string {
	parts := make([]string, len(slots))
	for i, s := range slots {
		name, err := n.symbols.NameOf(s)
		if err != nil {
			name = "?"
		}
		parts[i] = name
	}
	return strings.Join(parts, " + ")
}
