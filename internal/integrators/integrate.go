package integrators

import (
	"context"
	"errors"
	"fmt"
	"math"

	"github.com/san-kum/sigpath/internal/dynamo"
)

// defaultSubsteps is used by FixedStep when no MaxStep is configured.
const defaultSubsteps = 10

// FixedStep drives a Stepper across the requested output times, splitting
// every output interval into equal sub-steps no longer than cfg.MaxStep.
type FixedStep struct {
	stepper dynamo.Stepper
	cfg     dynamo.Config
	stats   dynamo.Stats
}

func NewFixedStep(stepper dynamo.Stepper, cfg dynamo.Config) *FixedStep {
	return &FixedStep{stepper: stepper, cfg: cfg}
}

func (f *FixedStep) Stats() dynamo.Stats { return f.stats }

func (f *FixedStep) Integrate(ctx context.Context, sys dynamo.System, x0 dynamo.State, times []float64) ([]dynamo.State, error) {
	if err := checkInputs(sys, x0, times); err != nil {
		return nil, err
	}
	f.stats = dynamo.Stats{}

	out := make([]dynamo.State, 0, len(times))
	x := x0.Clone()
	out = append(out, x.Clone())

	for i := 1; i < len(times); i++ {
		if err := ctx.Err(); err != nil {
			return out, err
		}

		t0, t1 := times[i-1], times[i]
		span := t1 - t0
		n := defaultSubsteps
		if f.cfg.MaxStep > 0 {
			n = int(math.Ceil(span / f.cfg.MaxStep))
			if n < 1 {
				n = 1
			}
		}
		if f.cfg.MaxSteps > 0 && n > f.cfg.MaxSteps {
			return out, &dynamo.SimulationError{Step: f.stats.Steps, Time: t0, State: x.Clone(), Wrapped: dynamo.ErrTooManySteps}
		}

		dt := span / float64(n)
		for k := 0; k < n; k++ {
			x = f.stepper.Step(sys, x, t0+float64(k)*dt, dt)
			f.stats.Steps++
		}

		if f.cfg.ValidateState && !x.IsValid() {
			return out, &dynamo.SimulationError{Step: f.stats.Steps, Time: t1, State: x.Clone(), Wrapped: dynamo.ErrInvalidState}
		}
		out = append(out, x.Clone())
	}

	return out, nil
}

// Adaptive drives an AdaptiveStepper with error control, landing exactly on
// every requested output time.
type Adaptive struct {
	stepper dynamo.AdaptiveStepper
	cfg     dynamo.Config
	stats   dynamo.Stats
}

func NewAdaptive(stepper dynamo.AdaptiveStepper, cfg dynamo.Config) *Adaptive {
	return &Adaptive{stepper: stepper, cfg: cfg}
}

func (a *Adaptive) Stats() dynamo.Stats { return a.stats }

func (a *Adaptive) Integrate(ctx context.Context, sys dynamo.System, x0 dynamo.State, times []float64) ([]dynamo.State, error) {
	if err := checkInputs(sys, x0, times); err != nil {
		return nil, err
	}
	if a.cfg.RelTol <= 0 && a.cfg.AbsTol <= 0 {
		return nil, fmt.Errorf("integrators: tolerance must be positive for adaptive stepping")
	}
	a.stats = dynamo.Stats{}

	out := make([]dynamo.State, 0, len(times))
	x := x0.Clone()
	out = append(out, x.Clone())
	if len(times) < 2 {
		return out, nil
	}

	h := a.cfg.InitialStep
	if h <= 0 {
		h = 0.01 * (times[1] - times[0])
	}

	for i := 1; i < len(times); i++ {
		if err := ctx.Err(); err != nil {
			return out, err
		}

		t, tEnd := times[i-1], times[i]
		steps := 0
		for t < tEnd {
			if a.cfg.MaxSteps > 0 && steps >= a.cfg.MaxSteps {
				return out, &dynamo.SimulationError{Step: a.stats.Steps, Time: t, State: x.Clone(), Wrapped: dynamo.ErrTooManySteps}
			}

			hTry := h
			if a.cfg.MaxStep > 0 && hTry > a.cfg.MaxStep {
				hTry = a.cfg.MaxStep
			}
			last := false
			if t+hTry >= tEnd {
				hTry = tEnd - t
				last = true
			}

			xNew, hNext, err := a.stepper.StepAdaptive(sys, x, t, hTry, a.cfg.RelTol, a.cfg.AbsTol)
			steps++
			if errors.Is(err, dynamo.ErrStepRejected) {
				a.stats.Rejected++
				if hNext < a.cfg.MinStep {
					return out, &dynamo.SimulationError{Step: a.stats.Steps, Time: t, State: x.Clone(), Wrapped: dynamo.ErrStepTooSmall}
				}
				h = hNext
				continue
			}
			if err != nil {
				return out, &dynamo.SimulationError{Step: a.stats.Steps, Time: t, State: x.Clone(), Wrapped: err}
			}

			x = xNew
			a.stats.Steps++
			if last {
				t = tEnd
			} else {
				t += hTry
			}
			// a step truncated to hit tEnd must not inflate the step size
			if !last || hNext < h {
				h = hNext
			}
		}

		if a.cfg.ValidateState && !x.IsValid() {
			return out, &dynamo.SimulationError{Step: a.stats.Steps, Time: tEnd, State: x.Clone(), Wrapped: dynamo.ErrInvalidState}
		}
		out = append(out, x.Clone())
	}

	return out, nil
}

func checkInputs(sys dynamo.System, x0 dynamo.State, times []float64) error {
	if len(x0) != sys.StateDim() {
		return fmt.Errorf("%w: state has %d entries, system expects %d", dynamo.ErrDimensionMismatch, len(x0), sys.StateDim())
	}
	if len(times) == 0 {
		return fmt.Errorf("integrators: no output times")
	}
	for i := 1; i < len(times); i++ {
		if !(times[i] > times[i-1]) {
			return fmt.Errorf("integrators: output times must be strictly increasing (index %d)", i)
		}
	}
	return nil
}
