package sim

import (
	"time"

	"github.com/san-kum/sigpath/internal/dynamo"
	"github.com/san-kum/sigpath/internal/kinetics"
)

// Metric summarizes a trajectory sample by sample.
type Metric interface {
	Name() string
	Observe(x dynamo.State, t float64)
	Value() float64
	Reset()
}

// Recorder receives one call per finished run.
type Recorder interface {
	ObserveRun(model string, elapsed time.Duration, stats dynamo.Stats, diagnostics int, err error)
}

// IntegratorFactory returns a fresh integrator for every run. Integrators
// keep per-run scratch space and must not be shared between runs.
type IntegratorFactory func() dynamo.Integrator

type Stats struct {
	dynamo.Stats
	Elapsed time.Duration
}

type Result struct {
	Times       []float64
	States      []dynamo.State
	Species     []string
	Diagnostics []kinetics.Diagnostic
	Metrics     map[string]float64
	Stats       Stats
}

// Column returns the trajectory of one species.
func (r *Result) Column(slot int) []float64 {
	out := make([]float64, len(r.States))
	for i, x := range r.States {
		out[i] = x[slot]
	}
	return out
}

// Final returns the last state.
func (r *Result) Final() dynamo.State {
	if len(r.States) == 0 {
		return nil
	}
	return r.States[len(r.States)-1]
}
