package metrics

import (
	"math"

	"github.com/san-kum/sigpath/internal/dynamo"
)

// SteadyState measures how much of the trajectory's total change happened
// in the final window of samples. Values near zero mean the run settled.
type SteadyState struct {
	name    string
	window  float64
	first   dynamo.State
	history []dynamo.State
}

// NewSteadyState uses the last window fraction of samples, e.g. 0.1.
func NewSteadyState(window float64) *SteadyState {
	if window <= 0 || window > 1 {
		window = 0.1
	}
	return &SteadyState{name: "steady_state", window: window}
}

func (s *SteadyState) Name() string { return s.name }

func (s *SteadyState) Observe(x dynamo.State, t float64) {
	if s.first == nil {
		s.first = x.Clone()
	}
	s.history = append(s.history, x.Clone())
}

func (s *SteadyState) Value() float64 {
	n := len(s.history)
	if n < 2 {
		return 0
	}
	last := s.history[n-1]
	total := last.Sub(s.first).Norm()
	if total == 0 {
		return 0
	}
	k := int(math.Ceil(float64(n-1) * s.window))
	if k < 1 {
		k = 1
	}
	return last.Sub(s.history[n-1-k]).Norm() / total
}

func (s *SteadyState) Reset() {
	s.first = nil
	s.history = s.history[:0]
}
