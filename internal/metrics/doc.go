// Package metrics provides per-run trajectory metrics and the Prometheus
// collector for engine instrumentation.
//
// Trajectory metrics implement sim.Metric: Observe is called once per
// output sample, Value summarizes, Reset clears between runs.
package metrics
