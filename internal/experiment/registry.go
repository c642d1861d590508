package experiment

import (
	"fmt"
	"sort"

	"github.com/san-kum/sigpath/internal/dynamo"
	"github.com/san-kum/sigpath/internal/integrators"
	"github.com/san-kum/sigpath/internal/metrics"
	"github.com/san-kum/sigpath/internal/sim"
)

type Registry struct {
	integrators map[string]func(dynamo.Config) dynamo.Integrator
	metrics     map[string]func() sim.Metric
}

func NewRegistry() *Registry {
	r := &Registry{
		integrators: make(map[string]func(dynamo.Config) dynamo.Integrator),
		metrics:     make(map[string]func() sim.Metric),
	}

	r.integrators["rk45"] = func(cfg dynamo.Config) dynamo.Integrator {
		return integrators.NewAdaptive(integrators.NewRK45(), cfg)
	}
	r.integrators["rk4"] = func(cfg dynamo.Config) dynamo.Integrator {
		return integrators.NewFixedStep(integrators.NewRK4(), cfg)
	}
	r.integrators["euler"] = func(cfg dynamo.Config) dynamo.Integrator {
		return integrators.NewFixedStep(integrators.NewEuler(), cfg)
	}

	r.metrics["mass_balance"] = func() sim.Metric { return metrics.NewMassBalance() }
	r.metrics["negativity"] = func() sim.Metric { return metrics.NewNegativity(1e-9) }
	r.metrics["steady_state"] = func() sim.Metric { return metrics.NewSteadyState(0.1) }

	return r
}

// IntegratorFactory returns a constructor for fresh integrators of the
// named kind.
func (r *Registry) IntegratorFactory(name string, cfg dynamo.Config) (sim.IntegratorFactory, error) {
	fn, ok := r.integrators[name]
	if !ok {
		return nil, fmt.Errorf("unknown integrator: %s", name)
	}
	return func() dynamo.Integrator { return fn(cfg) }, nil
}

func (r *Registry) GetMetric(name string) (sim.Metric, error) {
	fn, ok := r.metrics[name]
	if !ok {
		return nil, fmt.Errorf("unknown metric: %s", name)
	}
	return fn(), nil
}

func (r *Registry) ListIntegrators() []string { return sortedKeys(r.integrators) }
func (r *Registry) ListMetrics() []string     { return sortedKeys(r.metrics) }

// DefaultMetrics returns a fresh instance of every registered metric.
func (r *Registry) DefaultMetrics() []sim.Metric {
	out := make([]sim.Metric, 0, len(r.metrics))
	for _, name := range r.ListMetrics() {
		out = append(out, r.metrics[name]())
	}
	return out
}

func sortedKeys[V any](m map[string]V) []string {
	names := make([]string, 0, len(m))
	for name := range m {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}
