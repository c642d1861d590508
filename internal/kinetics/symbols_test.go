package kinetics_test

import (
	"errors"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/san-kum/sigpath/internal/kinetics"
)

var _ = Describe("Sanitize", func() {
	DescribeTable("normalizes identifiers",
		func(in, want string) {
			Expect(kinetics.Sanitize(in)).To(Equal(want))
		},
		Entry("plain", "ERK", "ERK"),
		Entry("underscore and hyphen", "Raf-1_p", "Raf1p"),
		Entry("dots and spaces", "ppERK .nuc", "ppERKnuc"),
		Entry("leading digit", "3PG", "s3PG"),
		Entry("digit after stripping", "_2x", "s2x"),
		Entry("non-ascii", "Ca²⁺", "Ca"),
		Entry("nothing left", "__-", ""),
	)

	It("is idempotent", func() {
		for _, in := range []string{"Raf-1_p", "3PG", "a.b.c", "x", "9"} {
			once := kinetics.Sanitize(in)
			Expect(kinetics.Sanitize(once)).To(Equal(once))
		}
	})
})

var _ = Describe("SymbolTable", func() {
	var table *kinetics.SymbolTable

	BeforeEach(func() {
		var err error
		table, err = kinetics.NewSymbolTable([]kinetics.SpeciesSpec{
			{ID: "Ras_GTP", Name: "Ras-GTP", InitialConcentration: 1},
			{ID: "Raf", InitialConcentration: 2},
			{ID: "Raf_p", InitialConcentration: 0},
		})
		Expect(err).NotTo(HaveOccurred())
	})

	It("assigns dense slots in declaration order", func() {
		for i, id := range []string{"RasGTP", "Raf", "Rafp"} {
			slot, err := table.SlotOf(id)
			Expect(err).NotTo(HaveOccurred())
			Expect(slot).To(Equal(i))
		}
		Expect(table.Len()).To(Equal(3))
	})

	It("returns the same slot on every lookup", func() {
		first, _ := table.SlotOf("Rafp")
		for i := 0; i < 10; i++ {
			again, _ := table.SlotOf("Rafp")
			Expect(again).To(Equal(first))
		}
	})

	It("falls back to the original id for display", func() {
		name, err := table.NameOf(0)
		Expect(err).NotTo(HaveOccurred())
		Expect(name).To(Equal("Ras-GTP"))

		name, err = table.NameOf(1)
		Expect(err).NotTo(HaveOccurred())
		Expect(name).To(Equal("Raf"))
	})

	It("rejects unknown ids and slots", func() {
		_, err := table.SlotOf("MEK")
		Expect(errors.Is(err, kinetics.ErrUnknownSpecies)).To(BeTrue())

		_, err = table.NameOf(3)
		var use *kinetics.UnknownSpeciesError
		Expect(errors.As(err, &use)).To(BeTrue())
		Expect(use.Slot).To(Equal(3))

		_, err = table.NameOf(-1)
		Expect(err).To(MatchError(kinetics.ErrUnknownSpecies))
	})

	It("looks up by original or sanitized id", func() {
		sp, ok := table.Lookup("Raf_p")
		Expect(ok).To(BeTrue())
		Expect(sp.Slot).To(Equal(2))

		sp, ok = table.Lookup("RasGTP")
		Expect(ok).To(BeTrue())
		Expect(sp.OriginalID).To(Equal("Ras_GTP"))

		_, ok = table.Lookup("nope")
		Expect(ok).To(BeFalse())
	})

	It("orders ids longest first", func() {
		Expect(table.IDsLongestFirst()).To(Equal([]string{"RasGTP", "Rafp", "Raf"}))
	})

	It("segments text into whole species references", func() {
		t, err := kinetics.NewSymbolTable([]kinetics.SpeciesSpec{{ID: "Raf-1"}, {ID: "Raf-1-P"}, {ID: "Rafp"}})
		Expect(err).NotTo(HaveOccurred())
		Expect(t.Segments("k*Raf-1-P + Raf-1/Rafp2")).To(Equal([]kinetics.Segment{
			{Text: "k*", Slot: -1},
			{Text: "Raf-1-P", Slot: 1},
			{Text: " + ", Slot: -1},
			{Text: "Raf-1", Slot: 0},
			{Text: "/Rafp2", Slot: -1},
		}))
	})

	It("rejects ids that sanitize to the same token", func() {
		_, err := kinetics.NewSymbolTable([]kinetics.SpeciesSpec{{ID: "A_1"}, {ID: "A1"}})
		var dup *kinetics.DuplicateIdentifierError
		Expect(errors.As(err, &dup)).To(BeTrue())
		Expect(dup.First).To(Equal("A_1"))
		Expect(dup.Second).To(Equal("A1"))
		Expect(dup.Sanitized).To(Equal("A1"))
	})

	It("rejects ids with nothing left after sanitizing", func() {
		_, err := kinetics.NewSymbolTable([]kinetics.SpeciesSpec{{ID: "A"}, {ID: "--"}})
		Expect(err).To(MatchError(kinetics.ErrInvalidIdentifier))
	})
})
