package analysis

import (
	"fmt"
	"math"
	"sort"

	"github.com/san-kum/sigpath/internal/dynamo"
)

// SweepPoint is the settled behavior of one species for one constant value.
type SweepPoint struct {
	Value float64   `json:"value"`
	Final float64   `json:"final"`
	Peaks []float64 `json:"peaks,omitempty"`
}

// RunFunc simulates the model with the swept constant set to v.
type RunFunc func(v float64) ([]dynamo.State, error)

// Sweep runs values through run and records the final concentration of slot
// together with the distinct local maxima seen in the second half of the
// trajectory. A single peak list entry means a damped or monotone response;
// several mean sustained oscillation.
func Sweep(values []float64, slot int, run RunFunc) ([]SweepPoint, error) {
	out := make([]SweepPoint, 0, len(values))
	for _, v := range values {
		states, err := run(v)
		if err != nil {
			return out, fmt.Errorf("analysis: sweep at %g: %w", v, err)
		}
		if len(states) == 0 || slot < 0 || slot >= len(states[0]) {
			return out, fmt.Errorf("analysis: sweep at %g: slot %d out of range", v, slot)
		}
		series := make([]float64, len(states))
		for i, x := range states {
			series[i] = x[slot]
		}
		out = append(out, SweepPoint{
			Value: v,
			Final: series[len(series)-1],
			Peaks: distinctPeaks(series[len(series)/2:], 1e-6),
		})
	}
	return out, nil
}

// Linspace returns n evenly spaced values from a to b inclusive.
func Linspace(a, b float64, n int) []float64 {
	if n <= 0 {
		return nil
	}
	if n == 1 {
		return []float64{a}
	}
	out := make([]float64, n)
	for i := range out {
		out[i] = a + (b-a)*float64(i)/float64(n-1)
	}
	out[n-1] = b
	return out
}

func distinctPeaks(series []float64, tol float64) []float64 {
	var peaks []float64
	for i := 1; i < len(series)-1; i++ {
		if series[i] > series[i-1] && series[i] > series[i+1] {
			peaks = append(peaks, series[i])
		}
	}
	sort.Float64s(peaks)
	out := peaks[:0]
	for _, p := range peaks {
		if len(out) == 0 || math.Abs(p-out[len(out)-1]) > tol*math.Max(1, math.Abs(p)) {
			out = append(out, p)
		}
	}
	return out
}
