package dynamo

import (
	"errors"
	"math"
	"testing"
)

func TestState_IsValid(t *testing.T) {
	tests := []struct {
		name  string
		state State
		valid bool
	}{
		{"empty", State{}, true},
		{"normal", State{1.0, 2.0, 3.0}, true},
		{"zeros", State{0.0, 0.0}, true},
		{"with NaN", State{1.0, math.NaN()}, false},
		{"with +Inf", State{1.0, math.Inf(1)}, false},
		{"with -Inf", State{1.0, math.Inf(-1)}, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.state.IsValid(); got != tt.valid {
				t.Errorf("IsValid() = %v, want %v", got, tt.valid)
			}
		})
	}
}

func TestState_Norm(t *testing.T) {
	tests := []struct {
		state    State
		expected float64
	}{
		{State{3, 4}, 5.0},
		{State{1, 0}, 1.0},
		{State{0, 0}, 0.0},
		{State{1, 1, 1, 1}, 2.0},
	}

	for _, tt := range tests {
		if got := tt.state.Norm(); math.Abs(got-tt.expected) > 1e-10 {
			t.Errorf("Norm(%v) = %v, want %v", tt.state, got, tt.expected)
		}
	}
}

func TestState_SumAndSub(t *testing.T) {
	a := State{1, 2, 3}
	b := State{4, 5, 6}

	if got := b.Sum(); got != 15 {
		t.Errorf("Sum() = %v, want 15", got)
	}

	diff := b.Sub(a)
	if diff[0] != 3 || diff[1] != 3 || diff[2] != 3 {
		t.Errorf("Sub failed: got %v", diff)
	}

	short := b.Sub(State{1})
	if short[0] != 3 || short[1] != 5 || short[2] != 6 {
		t.Errorf("Sub with shorter operand: got %v", short)
	}
}

func TestState_Clone(t *testing.T) {
	src := State{1, 2, 3}
	c := src.Clone()
	c[0] = 99
	if src[0] == 99 {
		t.Error("Clone did not create independent copy")
	}
}

func TestSystemFunc(t *testing.T) {
	sys := SystemFunc{Dim: 1, Fn: func(x State, _ float64) State { return State{-x[0]} }}
	if sys.StateDim() != 1 {
		t.Errorf("StateDim() = %d", sys.StateDim())
	}
	if got := sys.Derive(State{2}, 0); got[0] != -2 {
		t.Errorf("Derive() = %v", got)
	}
}

func TestDefaultConfig(t *testing.T) {
	cfg := DefaultConfig()

	if cfg.RelTol <= 0 || cfg.AbsTol <= 0 {
		t.Error("DefaultConfig has invalid tolerances")
	}
	if cfg.MinStep <= 0 {
		t.Error("DefaultConfig has invalid MinStep")
	}
	if cfg.MaxSteps <= 0 {
		t.Error("DefaultConfig has invalid MaxSteps")
	}
}

func TestSimulationError(t *testing.T) {
	err := &SimulationError{Time: 1.5, Step: 150, Wrapped: ErrStepTooSmall}
	expected := "step 150 (t=1.5000): dynamo: adaptive timestep below minimum"
	if err.Error() != expected {
		t.Errorf("SimulationError.Error() = %q, want %q", err.Error(), expected)
	}
	if !errors.Is(err, ErrStepTooSmall) {
		t.Error("SimulationError does not unwrap")
	}
}
