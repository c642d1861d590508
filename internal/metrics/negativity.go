package metrics

import "github.com/san-kum/sigpath/internal/dynamo"

// Negativity is the fraction of samples holding at least one concentration
// below -tolerance.
type Negativity struct {
	name       string
	tolerance  float64
	violations int
	samples    int
}

func NewNegativity(tolerance float64) *Negativity {
	return &Negativity{name: "negativity", tolerance: tolerance}
}

func (n *Negativity) Name() string { return n.name }

func (n *Negativity) Observe(x dynamo.State, t float64) {
	n.samples++
	for _, v := range x {
		if v < -n.tolerance {
			n.violations++
			break
		}
	}
}

func (n *Negativity) Value() float64 {
	if n.samples == 0 {
		return 0
	}
	return float64(n.violations) / float64(n.samples)
}

func (n *Negativity) Reset() {
	n.violations = 0
	n.samples = 0
}
