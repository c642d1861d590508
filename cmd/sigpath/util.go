package main

import (
	"math"
	"sort"

	"github.com/san-kum/sigpath/internal/sim"
)

func sortedNames(m map[string]float64) []string {
	names := make([]string, 0, len(m))
	for k := range m {
		names = append(names, k)
	}
	sort.Strings(names)
	return names
}

// finalStats summarizes the final concentration of one slot over members.
func finalStats(results []*sim.Result, slot int) (mean, std, lo, hi float64) {
	lo, hi = math.Inf(1), math.Inf(-1)
	for _, r := range results {
		v := r.Final()[slot]
		mean += v
		lo = math.Min(lo, v)
		hi = math.Max(hi, v)
	}
	n := float64(len(results))
	mean /= n
	for _, r := range results {
		d := r.Final()[slot] - mean
		std += d * d
	}
	std = math.Sqrt(std / n)
	return mean, std, lo, hi
}
