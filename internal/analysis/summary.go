package analysis

import (
	"math"

	"github.com/san-kum/sigpath/internal/dynamo"
)

// SpeciesSummary describes one species' trajectory.
type SpeciesSummary struct {
	Name      string  `json:"name"`
	Initial   float64 `json:"initial"`
	Final     float64 `json:"final"`
	Min       float64 `json:"min"`
	Max       float64 `json:"max"`
	TimeOfMax float64 `json:"time_of_max"`
	// HalfTime is the first time the species covered half of its net change.
	// It is NaN when the species did not change.
	HalfTime float64 `json:"half_time"`
}

// Summarize returns one summary per column of states.
func Summarize(times []float64, states []dynamo.State, names []string) []SpeciesSummary {
	if len(states) == 0 {
		return nil
	}
	dim := len(states[0])
	out := make([]SpeciesSummary, dim)
	for j := 0; j < dim; j++ {
		s := SpeciesSummary{
			Initial:   states[0][j],
			Final:     states[len(states)-1][j],
			Min:       math.Inf(1),
			Max:       math.Inf(-1),
			HalfTime:  math.NaN(),
			TimeOfMax: times[0],
		}
		if j < len(names) {
			s.Name = names[j]
		}
		for i, x := range states {
			v := x[j]
			if v < s.Min {
				s.Min = v
			}
			if v > s.Max {
				s.Max = v
				s.TimeOfMax = times[i]
			}
		}

		delta := s.Final - s.Initial
		if delta != 0 {
			half := s.Initial + delta/2
			for i, x := range states {
				if (delta > 0 && x[j] >= half) || (delta < 0 && x[j] <= half) {
					s.HalfTime = times[i]
					break
				}
			}
		}
		out[j] = s
	}
	return out
}
