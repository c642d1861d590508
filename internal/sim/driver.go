package sim

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/san-kum/sigpath/internal/dynamo"
	"github.com/san-kum/sigpath/internal/kinetics"
)

// Driver runs a compiled network through an integrator. A Driver holds
// no per-run state besides its metrics; use one Driver per goroutine.
type Driver struct {
	net           *kinetics.Network
	newIntegrator IntegratorFactory
	logger        *slog.Logger
	recorder      Recorder
	metrics       []Metric
	observers     []dynamo.Observer
}

func New(net *kinetics.Network, newIntegrator IntegratorFactory) *Driver {
	return &Driver{
		net:           net,
		newIntegrator: newIntegrator,
		logger:        slog.Default(),
		metrics:       make([]Metric, 0),
		observers:     make([]dynamo.Observer, 0),
	}
}

func (d *Driver) SetLogger(l *slog.Logger) {
	if l != nil {
		d.logger = l
	}
}

func (d *Driver) SetRecorder(r Recorder)        { d.recorder = r }
func (d *Driver) AddMetric(m Metric)            { d.metrics = append(d.metrics, m) }
func (d *Driver) AddObserver(o dynamo.Observer) { d.observers = append(d.observers, o) }
func (d *Driver) Network() *kinetics.Network    { return d.net }

// RunDefault starts from the species' declared initial concentrations.
func (d *Driver) RunDefault(ctx context.Context, timePoints []float64) (*Result, error) {
	return d.Run(ctx, d.net.InitialState(), timePoints)
}

// Run integrates from initial and returns one state per time point. The
// first row is a copy of initial. The network is not modified.
func (d *Driver) Run(ctx context.Context, initial []float64, timePoints []float64) (*Result, error) {
	if want := d.net.StateDim(); len(initial) != want {
		return nil, &DimensionMismatchError{Got: len(initial), Want: want}
	}
	if len(timePoints) < 2 {
		return nil, &EmptyTimelineError{Points: len(timePoints)}
	}
	for i := 1; i < len(timePoints); i++ {
		if !(timePoints[i] > timePoints[i-1]) {
			return nil, fmt.Errorf("%w: t[%d]=%g follows t[%d]=%g", ErrTimelineOrder, i, timePoints[i], i-1, timePoints[i-1])
		}
	}

	sink := kinetics.NewDiagnostics()
	sys := &countingSystem{System: d.net.WithSink(sink)}
	integ := d.newIntegrator()

	for _, m := range d.metrics {
		m.Reset()
	}

	d.logger.Debug("run starting",
		"model", d.net.Name(),
		"species", len(initial),
		"points", len(timePoints),
		"t0", timePoints[0],
		"t1", timePoints[len(timePoints)-1])

	start := time.Now()
	states, err := integ.Integrate(ctx, sys, dynamo.State(initial).Clone(), timePoints)
	elapsed := time.Since(start)

	stats := Stats{Elapsed: elapsed}
	if s, ok := integ.(interface{ Stats() dynamo.Stats }); ok {
		stats.Stats = s.Stats()
	}
	stats.Evaluations = sys.calls

	if d.recorder != nil {
		d.recorder.ObserveRun(d.net.Name(), elapsed, stats.Stats, sink.Len(), err)
	}
	if err != nil {
		d.logger.Error("run failed", "model", d.net.Name(), "err", err)
		return nil, fmt.Errorf("sim: %w", err)
	}

	result := &Result{
		Times:       append([]float64(nil), timePoints...),
		States:      states,
		Species:     d.speciesNames(),
		Diagnostics: sink.Items(),
		Metrics:     make(map[string]float64, len(d.metrics)),
		Stats:       stats,
	}

	for i, x := range states {
		t := timePoints[i]
		for _, m := range d.metrics {
			m.Observe(x, t)
		}
		for _, o := range d.observers {
			o.OnSample(x, t)
		}
	}
	for _, m := range d.metrics {
		result.Metrics[m.Name()] = m.Value()
	}

	d.logger.Info("run finished",
		"model", d.net.Name(),
		"elapsed", elapsed,
		"steps", stats.Steps,
		"rejected", stats.Rejected,
		"evaluations", stats.Evaluations,
		"diagnostics", len(result.Diagnostics))
	return result, nil
}

func (d *Driver) speciesNames() []string {
	species := d.net.Symbols().Species()
	names := make([]string, len(species))
	for i, sp := range species {
		names[i] = sp.DisplayName
	}
	return names
}

// countingSystem counts derivative evaluations for one run.
type countingSystem struct {
	dynamo.System
	calls int
}

func (c *countingSystem) Derive(x dynamo.State, t float64) dynamo.State {
	c.calls++
	return c.System.Derive(x, t)
}
