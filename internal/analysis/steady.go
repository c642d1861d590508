package analysis

import (
	"math"

	"github.com/san-kum/sigpath/internal/dynamo"
)

// SteadyStateTime returns the earliest sample time from which every later
// sample stays within rtol of the final state, per species, with atol as a
// floor for species that end near zero. ok is false when only the final
// sample qualifies.
func SteadyStateTime(times []float64, states []dynamo.State, rtol, atol float64) (t float64, ok bool) {
	n := len(states)
	if n < 2 {
		return 0, false
	}
	final := states[n-1]
	first := n - 1
	for i := n - 2; i >= 0; i-- {
		if !settled(states[i], final, rtol, atol) {
			break
		}
		first = i
	}
	if first == n-1 {
		return times[n-1], false
	}
	return times[first], true
}

func settled(x, final dynamo.State, rtol, atol float64) bool {
	for j := range x {
		tol := math.Max(atol, rtol*math.Abs(final[j]))
		if math.Abs(x[j]-final[j]) > tol {
			return false
		}
	}
	return true
}
