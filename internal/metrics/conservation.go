package metrics

import (
	"math"

	"github.com/san-kum/sigpath/internal/dynamo"
)

// MassBalance tracks the largest relative drift of the total concentration
// from its first observed value. Closed networks should stay near zero.
type MassBalance struct {
	name     string
	initial  float64
	maxDrift float64
	samples  int
}

func NewMassBalance() *MassBalance {
	return &MassBalance{name: "mass_balance"}
}

func (m *MassBalance) Name() string { return m.name }

func (m *MassBalance) Observe(x dynamo.State, t float64) {
	total := x.Sum()
	if m.samples == 0 {
		m.initial = total
	}
	m.samples++

	diff := math.Abs(total - m.initial)
	if m.initial != 0 {
		diff /= math.Abs(m.initial)
	}
	m.maxDrift = math.Max(m.maxDrift, diff)
}

func (m *MassBalance) Value() float64 { return m.maxDrift }

func (m *MassBalance) Reset() {
	m.initial = 0
	m.maxDrift = 0
	m.samples = 0
}
