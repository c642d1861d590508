package kinetics_test

import (
	"errors"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/san-kum/sigpath/internal/expr"
	"github.com/san-kum/sigpath/internal/kinetics"
)

var _ = Describe("Compiler", func() {
	var compiler *kinetics.Compiler

	BeforeEach(func() {
		table, err := kinetics.NewSymbolTable([]kinetics.SpeciesSpec{
			{ID: "A"}, {ID: "AB"}, {ID: "B_p"},
		})
		Expect(err).NotTo(HaveOccurred())
		compiler = kinetics.NewCompiler(table, map[string]float64{"uVol": 2, "cell": 0.5})
	})

	compile := func(raw string, params ...kinetics.Parameter) *kinetics.CompiledRate {
		rate, err := compiler.Compile("r1", raw, params)
		Expect(err).NotTo(HaveOccurred())
		return rate
	}

	It("inlines parameters and maps species to slots", func() {
		rate := compile("k * A", kinetics.Parameter{ID: "k", Value: 0.1})
		Expect(rate.Err).NotTo(HaveOccurred())
		Expect(rate.Resolved).To(Equal("0.1 * x[0]"))
		Expect(rate.Eval([]float64{10, 0, 0})).To(BeNumerically("~", 1.0, 1e-15))
	})

	It("never confuses an id with a prefix of a longer id", func() {
		rate := compile("kf * AB - kr * A", kinetics.Parameter{ID: "kf", Value: 2}, kinetics.Parameter{ID: "kr", Value: 3})
		Expect(rate.Resolved).To(Equal("2 * x[1] - 3 * x[0]"))
		Expect(rate.Eval([]float64{1, 5, 0})).To(BeNumerically("~", 7.0, 1e-12))
	})

	It("sanitizes identifiers inside the rate law", func() {
		rate := compile("k_1 * B_p", kinetics.Parameter{ID: "k-1", Value: 4})
		Expect(rate.Err).NotTo(HaveOccurred())
		Expect(rate.Resolved).To(Equal("4 * x[2]"))
	})

	It("resolves constants after parameters and species", func() {
		rate := compile("uVol * cell * A")
		Expect(rate.Resolved).To(Equal("2 * 0.5 * x[0]"))
	})

	It("lets local parameters shadow constants", func() {
		rate := compile("cell * A", kinetics.Parameter{ID: "cell", Value: 3})
		Expect(rate.Resolved).To(Equal("3 * x[0]"))
	})

	It("accepts both exponent spellings", func() {
		a := compile("A^2")
		b := compile("A**2")
		Expect(a.Resolved).To(Equal(b.Resolved))
		Expect(a.Eval([]float64{3, 0, 0})).To(Equal(9.0))
	})

	It("treats an empty rate law as zero without error", func() {
		rate := compile("   ")
		Expect(rate.Missing()).To(BeTrue())
		Expect(rate.Err).NotTo(HaveOccurred())
		Expect(rate.Eval([]float64{1, 1, 1})).To(BeZero())
	})

	DescribeTable("disables unusable rate laws",
		func(raw string, target error) {
			rate := compile(raw)
			Expect(rate.Err).To(HaveOccurred())
			Expect(errors.Is(rate.Err, target)).To(BeTrue(), rate.Err.Error())
			Expect(rate.Resolved).To(Equal("0"))
			Expect(rate.Eval([]float64{1, 2, 3})).To(BeZero())
		},
		Entry("unresolved name", "kcat * A", kinetics.ErrUnresolvedSymbol),
		Entry("unknown function", "foo(A)", expr.ErrUnknownFunction),
		Entry("arity", "exp(A, AB)", expr.ErrArity),
	)

	It("disables rate laws that do not parse", func() {
		rate := compile("k * (A")
		var pe *expr.ParseError
		Expect(errors.As(rate.Err, &pe)).To(BeTrue())
		Expect(rate.Eval([]float64{1, 2, 3})).To(BeZero())
	})

	It("rejects a parameter named like a species", func() {
		_, err := compiler.Compile("r1", "A * 2", []kinetics.Parameter{{ID: "A_", Value: 1}})
		var nc *kinetics.NameCollisionError
		Expect(errors.As(err, &nc)).To(BeTrue())
		Expect(nc.ReactionID).To(Equal("r1"))
		Expect(nc.Name).To(Equal("A"))
	})

	It("rejects a species that is also a constant", func() {
		table, err := kinetics.NewSymbolTable([]kinetics.SpeciesSpec{{ID: "uVol"}})
		Expect(err).NotTo(HaveOccurred())
		c := kinetics.NewCompiler(table, kinetics.DefaultConstants())
		_, err = c.Compile("r2", "uVol * 2", nil)
		Expect(err).To(MatchError(kinetics.ErrNameCollision))
	})

	It("is deterministic", func() {
		params := []kinetics.Parameter{{ID: "k", Value: 0.25}, {ID: "Km", Value: 3}}
		a := compile("k * A / (Km + A) - AB^2", params...)
		b := compile("k * A / (Km + A) - AB^2", params...)
		Expect(a.Resolved).To(Equal(b.Resolved))
		x := []float64{1.5, 0.2, 0}
		Expect(a.Eval(x)).To(Equal(b.Eval(x)))
	})
})

var _ = Describe("Compiler with ids that are not single tokens", func() {
	var compiler *kinetics.Compiler

	BeforeEach(func() {
		table, err := kinetics.NewSymbolTable([]kinetics.SpeciesSpec{
			{ID: "Raf-1"}, {ID: "pRaf"}, {ID: "Raf-1-P"}, {ID: "2PG"},
		})
		Expect(err).NotTo(HaveOccurred())
		compiler = kinetics.NewCompiler(table, nil)
	})

	DescribeTable("rewrites declared ids before parsing",
		func(raw string, params []kinetics.Parameter, resolved string) {
			rate, err := compiler.Compile("r1", raw, params)
			Expect(err).NotTo(HaveOccurred())
			Expect(rate.Err).NotTo(HaveOccurred())
			Expect(rate.Resolved).To(Equal(resolved))
		},
		Entry("hyphenated species", "k*Raf-1", []kinetics.Parameter{{ID: "k", Value: 0.1}}, "0.1 * x[0]"),
		Entry("longest id first", "Raf-1-P - Raf-1", nil, "x[2] - x[0]"),
		Entry("sanitized spelling", "Raf1 * Raf1P", nil, "x[0] * x[2]"),
		Entry("hyphenated parameter", "k-f * Raf-1", []kinetics.Parameter{{ID: "k-f", Value: 2}}, "2 * x[0]"),
		Entry("leading digit", "2 * 2PG", nil, "2 * x[3]"),
	)

	It("evaluates a hyphenated species reference", func() {
		rate, err := compiler.Compile("r1", "k*Raf-1", []kinetics.Parameter{{ID: "k", Value: 0.1}})
		Expect(err).NotTo(HaveOccurred())
		Expect(rate.Eval([]float64{10, 0, 0, 0})).To(BeNumerically("~", 1.0, 1e-15))
	})

	It("only rewrites whole tokens", func() {
		rate, err := compiler.Compile("r1", "k*Raf-10", []kinetics.Parameter{{ID: "k", Value: 1}})
		Expect(err).NotTo(HaveOccurred())
		Expect(errors.Is(rate.Err, kinetics.ErrUnresolvedSymbol)).To(BeTrue())
	})
})
