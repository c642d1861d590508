package dynamo

import (
	"context"
	"math"
)

type State []float64

func (s State) Clone() State {
	c := make(State, len(s))
	copy(c, s)
	return c
}

func (s State) IsValid() bool {
	for _, v := range s {
		if math.IsNaN(v) || math.IsInf(v, 0) {
			return false
		}
	}
	return true
}

func (s State) Norm() float64 {
	sum := 0.0
	for _, v := range s {
		sum += v * v
	}
	return math.Sqrt(sum)
}

// Sum returns the total of all components. For a closed reaction network this
// is the conserved total concentration.
func (s State) Sum() float64 {
	sum := 0.0
	for _, v := range s {
		sum += v
	}
	return sum
}

func (s State) Sub(other State) State {
	result := make(State, len(s))
	for i := range s {
		if i < len(other) {
			result[i] = s[i] - other[i]
		} else {
			result[i] = s[i]
		}
	}
	return result
}

// System is the derivative function consumed by an Integrator.
type System interface {
	Derive(x State, t float64) State
	StateDim() int
}

// SystemFunc adapts a plain function to System.
type SystemFunc struct {
	Dim int
	Fn  func(x State, t float64) State
}

func (f SystemFunc) Derive(x State, t float64) State { return f.Fn(x, t) }
func (f SystemFunc) StateDim() int                   { return f.Dim }

type Stepper interface {
	Step(sys System, x State, t, dt float64) State
}

// AdaptiveStepper takes one trial step and proposes the next step size.
// A rejected step returns ErrStepRejected together with a smaller dt.
type AdaptiveStepper interface {
	Stepper
	StepAdaptive(sys System, x State, t, dt, rtol, atol float64) (State, float64, error)
}

// Integrator returns one state per entry of times; the first row is x0.
type Integrator interface {
	Integrate(ctx context.Context, sys System, x0 State, times []float64) ([]State, error)
}

// Observer is notified for every accepted output row.
type Observer interface {
	OnSample(x State, t float64)
}

type Config struct {
	RelTol        float64
	AbsTol        float64
	InitialStep   float64
	MinStep       float64
	MaxStep       float64
	MaxSteps      int
	ValidateState bool
}

func DefaultConfig() Config {
	return Config{
		RelTol:        1e-6,
		AbsTol:        1e-9,
		InitialStep:   0,
		MinStep:       1e-12,
		MaxStep:       0,
		MaxSteps:      500000,
		ValidateState: true,
	}
}

// Stats counts integrator work for one run.
type Stats struct {
	Evaluations int
	Steps       int
	Rejected    int
}
