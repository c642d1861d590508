package kinetics_test

import (
	"errors"
	"io"
	"log/slog"
	"sync"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/san-kum/sigpath/internal/dynamo"
	"github.com/san-kum/sigpath/internal/kinetics"
)

var quiet = slog.New(slog.NewTextHandler(io.Discard, nil))

func load(spec *kinetics.ModelSpec) *kinetics.Network {
	GinkgoHelper()
	net, err := kinetics.Load(spec, kinetics.Options{Logger: quiet})
	Expect(err).NotTo(HaveOccurred())
	return net
}

func decaySpec() *kinetics.ModelSpec {
	return &kinetics.ModelSpec{
		Name: "decay",
		Species: []kinetics.SpeciesSpec{
			{ID: "A", InitialConcentration: 10},
			{ID: "B", InitialConcentration: 0},
		},
		Reactions: []kinetics.ReactionSpec{{
			ID:         "r1",
			Reactants:  []string{"A"},
			Products:   []string{"B"},
			RateLaw:    "k * A",
			Parameters: []kinetics.Parameter{{ID: "k", Value: 0.1}},
		}},
	}
}

var _ = Describe("Network", func() {
	It("implements the mass-action derivative", func() {
		net := load(decaySpec())
		Expect(net.StateDim()).To(Equal(2))

		dx := net.Derive(dynamo.State{10, 0}, 0)
		Expect(dx[0]).To(BeNumerically("~", -1.0, 1e-15))
		Expect(dx[1]).To(BeNumerically("~", 1.0, 1e-15))
		Expect(dx[0] + dx[1]).To(BeNumerically("~", 0, 1e-15))
	})

	It("ignores time", func() {
		net := load(decaySpec())
		x := dynamo.State{3, 4}
		Expect(net.Derive(x, 0)).To(Equal(net.Derive(x, 123.4)))
	})

	It("does not mutate the state it is given", func() {
		net := load(decaySpec())
		x := dynamo.State{3, 4}
		net.Derive(x, 0)
		Expect(x).To(Equal(dynamo.State{3, 4}))
	})

	It("counts repeated reactants once per occurrence", func() {
		net := load(&kinetics.ModelSpec{
			Species: []kinetics.SpeciesSpec{{ID: "A"}, {ID: "A2"}},
			Reactions: []kinetics.ReactionSpec{{
				ID: "dimerize", Reactants: []string{"A", "A"}, Products: []string{"A2"}, RateLaw: "0.5",
			}},
		})
		Expect(net.Derive(dynamo.State{1, 0}, 0)).To(Equal(dynamo.State{-1, 0.5}))
	})

	It("gives both contributions to a slot that is reactant and product", func() {
		net := load(&kinetics.ModelSpec{
			Species: []kinetics.SpeciesSpec{{ID: "E"}, {ID: "S"}, {ID: "P"}},
			Reactions: []kinetics.ReactionSpec{{
				ID: "cat", Reactants: []string{"E", "S"}, Products: []string{"E", "P"}, RateLaw: "2 * E * S",
			}},
		})
		Expect(net.Derive(dynamo.State{1, 3, 0}, 0)).To(Equal(dynamo.State{0, -6, 6}))
	})

	It("gives modifiers no stoichiometric contribution", func() {
		net := load(&kinetics.ModelSpec{
			Species: []kinetics.SpeciesSpec{{ID: "S"}, {ID: "P"}, {ID: "Enz"}},
			Reactions: []kinetics.ReactionSpec{{
				ID: "mm", Reactants: []string{"S"}, Products: []string{"P"}, Modifiers: []string{"Enz"},
				RateLaw:    "kcat * Enz * S / (Km + S)",
				Parameters: []kinetics.Parameter{{ID: "kcat", Value: 2}, {ID: "Km", Value: 1}},
			}},
		})
		dx := net.Derive(dynamo.State{1, 0, 4}, 0)
		Expect(dx[0]).To(BeNumerically("~", -4, 1e-12))
		Expect(dx[1]).To(BeNumerically("~", 4, 1e-12))
		Expect(dx[2]).To(BeZero())
		Expect(net.Reactions()[0].ModifierSlots).To(Equal([]int{2}))
	})

	It("uses a single net rate for reversible reactions", func() {
		net := load(&kinetics.ModelSpec{
			Species: []kinetics.SpeciesSpec{{ID: "A"}, {ID: "B"}},
			Reactions: []kinetics.ReactionSpec{{
				ID: "eq", Reactants: []string{"A"}, Products: []string{"B"}, Reversible: true,
				RateLaw:    "kf * A - kr * B",
				Parameters: []kinetics.Parameter{{ID: "kf", Value: 1}, {ID: "kr", Value: 2}},
			}},
		})
		Expect(net.Derive(dynamo.State{1, 1}, 0)).To(Equal(dynamo.State{1, -1}))
		Expect(net.Equation(net.Reactions()[0])).To(Equal("A <-> B"))
	})

	It("contributes exactly zero for an unresolved rate law", func() {
		spec := decaySpec()
		spec.Reactions = append(spec.Reactions, kinetics.ReactionSpec{
			ID: "bad", Reactants: []string{"B"}, Products: []string{"A"}, RateLaw: "kmissing * B",
		})
		net := load(spec)

		Expect(net.Reactions()).To(HaveLen(2))
		Expect(net.Reactions()[1].Disabled).To(BeTrue())
		for _, x := range []dynamo.State{{10, 0}, {1, 9}, {0, 100}} {
			Expect(net.Rates(x)[1]).To(BeZero())
		}

		diags := net.Diagnostics()
		Expect(diags).To(HaveLen(1))
		Expect(diags[0].Stage).To(Equal(kinetics.StageCompile))
		Expect(diags[0].ReactionID).To(Equal("bad"))
		Expect(errors.Is(diags[0].Err, kinetics.ErrUnresolvedSymbol)).To(BeTrue())

		Expect(net.DiagnosticsFor("bad")).To(Equal(diags))
		Expect(net.DiagnosticsFor("r1")).To(BeEmpty())
	})

	It("simulates species whose ids contain hyphens", func() {
		net := load(&kinetics.ModelSpec{
			Species: []kinetics.SpeciesSpec{{ID: "Raf-1", InitialConcentration: 10}, {ID: "pRaf"}},
			Reactions: []kinetics.ReactionSpec{{
				ID: "r1", Reactants: []string{"Raf-1"}, Products: []string{"pRaf"},
				RateLaw: "k*Raf-1", Parameters: []kinetics.Parameter{{ID: "k", Value: 0.1}},
			}},
		})
		Expect(net.Diagnostics()).To(BeEmpty())
		Expect(net.Rates(dynamo.State{10, 0})).To(Equal([]float64{1.0}))
		Expect(net.Derive(dynamo.State{10, 0}, 0)).To(Equal(dynamo.State{-1, 1}))
	})

	It("records a diagnostic for reactions without a rate law", func() {
		spec := decaySpec()
		spec.Reactions[0].RateLaw = ""
		net := load(spec)
		Expect(net.Derive(dynamo.State{10, 0}, 0)).To(Equal(dynamo.State{0, 0}))
		Expect(net.Diagnostics()[0].Severity).To(Equal(kinetics.SeverityInfo))
	})

	It("skips reactions with an empty side", func() {
		spec := decaySpec()
		spec.Reactions = append(spec.Reactions,
			kinetics.ReactionSpec{ID: "source", Products: []string{"A"}, RateLaw: "1"},
			kinetics.ReactionSpec{ID: "sink", Reactants: []string{"B"}, RateLaw: "B"},
		)
		net := load(spec)
		Expect(net.Reactions()).To(HaveLen(1))

		diags := net.Diagnostics()
		Expect(diags).To(HaveLen(2))
		Expect(diags[0].ReactionID).To(Equal("source"))
		Expect(diags[0].Stage).To(Equal(kinetics.StageLoad))
		Expect(diags[1].ReactionID).To(Equal("sink"))
	})

	It("fails on a reaction that references an unknown species", func() {
		spec := decaySpec()
		spec.Reactions[0].Products = []string{"C"}
		_, err := kinetics.Load(spec, kinetics.Options{Logger: quiet})
		var use *kinetics.UnknownSpeciesError
		Expect(errors.As(err, &use)).To(BeTrue())
		Expect(use.ID).To(Equal("C"))
		Expect(use.ReactionID).To(Equal("r1"))
	})

	It("fails on a parameter that collides with a species", func() {
		spec := decaySpec()
		spec.Reactions[0].Parameters = append(spec.Reactions[0].Parameters, kinetics.Parameter{ID: "B", Value: 1})
		_, err := kinetics.Load(spec, kinetics.Options{Logger: quiet})
		Expect(err).To(MatchError(kinetics.ErrNameCollision))
	})

	It("fails on duplicate species", func() {
		spec := decaySpec()
		spec.Species = append(spec.Species, kinetics.SpeciesSpec{ID: "A_"})
		_, err := kinetics.Load(spec, kinetics.Options{Logger: quiet})
		Expect(err).To(MatchError(kinetics.ErrDuplicateIdentifier))
	})

	It("merges caller constants over model constants", func() {
		spec := decaySpec()
		spec.Constants = map[string]float64{"vol": 4}
		spec.Reactions[0].RateLaw = "vol * uVol * A"
		spec.Reactions[0].Parameters = nil

		net, err := kinetics.Load(spec, kinetics.Options{Logger: quiet, Constants: map[string]float64{"uVol": 0.5}})
		Expect(err).NotTo(HaveOccurred())
		Expect(net.Reactions()[0].ResolvedRate).To(Equal("4 * 0.5 * x[0]"))
		Expect(net.Constants()).To(HaveKeyWithValue("uVol", 0.5))
	})

	It("reports non-finite rates to the run sink only", func() {
		net := load(&kinetics.ModelSpec{
			Species: []kinetics.SpeciesSpec{{ID: "A", InitialConcentration: 1}, {ID: "B"}},
			Reactions: []kinetics.ReactionSpec{
				{ID: "div", Reactants: []string{"A"}, Products: []string{"B"}, RateLaw: "A / B"},
				{ID: "lin", Reactants: []string{"A"}, Products: []string{"B"}, RateLaw: "A"},
			},
		})

		sink := kinetics.NewDiagnostics()
		sys := net.WithSink(sink)
		Expect(sys.StateDim()).To(Equal(2))

		for i := 0; i < 3; i++ {
			dx := sys.Derive(dynamo.State{1, 0}, 0)
			Expect(dx).To(Equal(dynamo.State{-1, 1}))
		}

		items := sink.Items()
		Expect(items).To(HaveLen(1))
		Expect(items[0].Stage).To(Equal(kinetics.StageEvaluate))
		Expect(items[0].ReactionID).To(Equal("div"))
		Expect(items[0].Count).To(Equal(3))
		Expect(net.Diagnostics()).To(BeEmpty())
	})

	It("returns declared initial concentrations", func() {
		net := load(decaySpec())
		Expect(net.InitialState()).To(Equal(dynamo.State{10, 0}))
		Expect(net.Equation(net.Reactions()[0])).To(Equal("A -> B"))
	})

	It("is safe for concurrent readers", func() {
		net := load(decaySpec())
		var wg sync.WaitGroup
		for i := 0; i < 8; i++ {
			wg.Add(1)
			go func(i int) {
				defer wg.Done()
				defer GinkgoRecover()
				sink := kinetics.NewDiagnostics()
				sys := net.WithSink(sink)
				x := dynamo.State{float64(i), 0}
				for j := 0; j < 100; j++ {
					dx := sys.Derive(x, 0)
					Expect(dx[0] + dx[1]).To(BeZero())
				}
				Expect(sink.Len()).To(BeZero())
			}(i)
		}
		wg.Wait()
	})

	It("compiles the same model identically twice", func() {
		a := load(decaySpec())
		b := load(decaySpec())
		Expect(a.Reactions()[0].ResolvedRate).To(Equal(b.Reactions()[0].ResolvedRate))
		x := dynamo.State{7, 3}
		Expect(a.Derive(x, 0)).To(Equal(b.Derive(x, 0)))
	})
})
