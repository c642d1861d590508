package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"

	"github.com/san-kum/sigpath/internal/dynamo"
)

const namespace = "sigpath"

// Collector exports engine counters to Prometheus. A nil *Collector is
// valid and records nothing.
type Collector struct {
	runs        *prometheus.CounterVec
	duration    *prometheus.HistogramVec
	evaluations *prometheus.CounterVec
	steps       *prometheus.CounterVec
	rejected    *prometheus.CounterVec
	diagnostics *prometheus.CounterVec
}

// NewCollector registers the engine metrics with reg.
func NewCollector(reg prometheus.Registerer) (*Collector, error) {
	c := &Collector{
		runs: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "sim",
			Name:      "runs_total",
			Help:      "Simulation runs by model and outcome",
		}, []string{"model", "status"}),

		duration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: namespace,
			Subsystem: "sim",
			Name:      "run_duration_seconds",
			Help:      "Wall time spent integrating one run",
			Buckets:   prometheus.ExponentialBuckets(0.0005, 4, 10),
		}, []string{"model"}),

		evaluations: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "kinetics",
			Name:      "derivative_evaluations_total",
			Help:      "Right-hand-side evaluations of the compiled network",
		}, []string{"model"}),

		steps: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "integrator",
			Name:      "steps_total",
			Help:      "Accepted integrator steps",
		}, []string{"model"}),

		rejected: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "integrator",
			Name:      "rejected_steps_total",
			Help:      "Adaptive steps rejected by the error controller",
		}, []string{"model"}),

		diagnostics: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "kinetics",
			Name:      "diagnostics_total",
			Help:      "Diagnostics recorded by stage",
		}, []string{"model", "stage"}),
	}

	for _, col := range []prometheus.Collector{c.runs, c.duration, c.evaluations, c.steps, c.rejected, c.diagnostics} {
		if err := reg.Register(col); err != nil {
			return nil, err
		}
	}
	return c, nil
}

// ObserveRun records one finished run.
func (c *Collector) ObserveRun(model string, elapsed time.Duration, stats dynamo.Stats, diagnostics int, err error) {
	if c == nil {
		return
	}
	status := "ok"
	if err != nil {
		status = "error"
	}
	c.runs.WithLabelValues(model, status).Inc()
	c.duration.WithLabelValues(model).Observe(elapsed.Seconds())
	c.evaluations.WithLabelValues(model).Add(float64(stats.Evaluations))
	c.steps.WithLabelValues(model).Add(float64(stats.Steps))
	c.rejected.WithLabelValues(model).Add(float64(stats.Rejected))
	if diagnostics > 0 {
		c.diagnostics.WithLabelValues(model, "evaluate").Add(float64(diagnostics))
	}
}

// ObserveLoad records load and compile diagnostics for a model.
func (c *Collector) ObserveLoad(model string, stage string, n int) {
	if c == nil || n == 0 {
		return
	}
	c.diagnostics.WithLabelValues(model, stage).Add(float64(n))
}
