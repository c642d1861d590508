package analysis

// Oscillation is the dominant periodic component of one species.
type Oscillation struct {
	Period float64
	// Prominence is the peak's power over the mean power of the other bins.
	Prominence float64
	// Extrema counts interior local maxima and minima of the raw signal.
	Extrema int
}

// DominantPeriod analyzes a uniformly sampled series. The bool is true when
// the spectrum has a clear peak and the signal turns around at least twice.
func DominantPeriod(times, series []float64, minProminence float64) (Oscillation, bool) {
	if len(series) < 4 || len(times) != len(series) {
		return Oscillation{}, false
	}
	dt := (times[len(times)-1] - times[0]) / float64(len(times)-1)

	ps := PowerSpectrum(series)
	n := 2 * len(ps)

	peak := 1
	for k := 2; k < len(ps); k++ {
		if ps[k] > ps[peak] {
			peak = k
		}
	}
	if ps[peak] == 0 {
		return Oscillation{}, false
	}

	rest := 0.0
	for k := 1; k < len(ps); k++ {
		if k != peak {
			rest += ps[k]
		}
	}
	prominence := ps[peak]
	if len(ps) > 2 && rest > 0 {
		prominence = ps[peak] / (rest / float64(len(ps)-2))
	}

	osc := Oscillation{
		Period:     float64(n) * dt / float64(peak),
		Prominence: prominence,
		Extrema:    countExtrema(series),
	}
	return osc, osc.Prominence >= minProminence && osc.Extrema >= 2
}

func countExtrema(series []float64) int {
	count := 0
	for i := 1; i < len(series)-1; i++ {
		a, b, c := series[i-1], series[i], series[i+1]
		if (b > a && b > c) || (b < a && b < c) {
			count++
		}
	}
	return count
}
