// Package analysis summarizes simulated concentration trajectories.
//
//   - [Summarize]: per-species extrema, final value and half-change time
//   - [SteadyStateTime]: earliest time after which the state stays settled
//   - [DominantPeriod]: oscillation detection from the power spectrum
//   - [Sweep]: dose-response scan over one constant
//
// All functions take the sampled times and states as produced by a run and
// assume the times are strictly increasing.
package analysis
