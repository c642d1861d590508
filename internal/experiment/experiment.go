package experiment

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/san-kum/sigpath/internal/analysis"
	"github.com/san-kum/sigpath/internal/config"
	"github.com/san-kum/sigpath/internal/dynamo"
	"github.com/san-kum/sigpath/internal/kinetics"
	"github.com/san-kum/sigpath/internal/metrics"
	"github.com/san-kum/sigpath/internal/model"
	"github.com/san-kum/sigpath/internal/sim"
	"github.com/san-kum/sigpath/internal/storage"
)

var ErrNotSetup = errors.New("experiment: not setup")

// Experiment wires one configured model through load, compile and
// simulation.
type Experiment struct {
	cfg       *config.Config
	registry  *Registry
	logger    *slog.Logger
	collector *metrics.Collector

	spec *kinetics.ModelSpec
	net  *kinetics.Network
}

func New(cfg *config.Config, registry *Registry, logger *slog.Logger) *Experiment {
	if logger == nil {
		logger = slog.Default()
	}
	return &Experiment{cfg: cfg, registry: registry, logger: logger}
}

// SetCollector attaches Prometheus instrumentation. nil disables it.
func (e *Experiment) SetCollector(c *metrics.Collector) { e.collector = c }

// Setup reads the model file named by the config and compiles it.
func (e *Experiment) Setup() error {
	if e.cfg.Model == "" {
		return fmt.Errorf("experiment: no model configured")
	}
	spec, err := model.Load(e.cfg.Model)
	if err != nil {
		return err
	}
	return e.SetupSpec(spec)
}

// SetupSpec compiles an already loaded model.
func (e *Experiment) SetupSpec(spec *kinetics.ModelSpec) error {
	net, err := e.compile(spec, nil)
	if err != nil {
		return err
	}
	e.spec = spec
	e.net = net

	counts := make(map[kinetics.Stage]int)
	for _, d := range net.Diagnostics() {
		counts[d.Stage]++
	}
	for stage, n := range counts {
		e.collector.ObserveLoad(net.Name(), string(stage), n)
	}
	return nil
}

func (e *Experiment) compile(spec *kinetics.ModelSpec, extra map[string]float64) (*kinetics.Network, error) {
	constants := make(map[string]float64, len(e.cfg.Constants)+len(extra))
	for k, v := range e.cfg.Constants {
		constants[k] = v
	}
	for k, v := range extra {
		constants[k] = v
	}
	return kinetics.Load(spec, kinetics.Options{Constants: constants, Logger: e.logger})
}

func (e *Experiment) Network() *kinetics.Network { return e.net }
func (e *Experiment) Spec() *kinetics.ModelSpec  { return e.spec }

// Initial returns the declared initial state with config overrides applied.
func (e *Experiment) Initial() ([]float64, error) {
	if e.net == nil {
		return nil, ErrNotSetup
	}
	return initialFor(e.net, e.cfg.InitialOverrides)
}

func initialFor(net *kinetics.Network, overrides map[string]float64) ([]float64, error) {
	x := net.InitialState()
	for id, v := range overrides {
		sp, ok := net.Symbols().Lookup(id)
		if !ok {
			return nil, &kinetics.UnknownSpeciesError{ID: id, Slot: -1}
		}
		x[sp.Slot] = v
	}
	return x, nil
}

// Driver builds a fresh driver with the configured integrator and the
// registry's default metrics.
func (e *Experiment) Driver() (*sim.Driver, error) {
	if e.net == nil {
		return nil, ErrNotSetup
	}
	factory, err := e.integratorFactory()
	if err != nil {
		return nil, err
	}
	return e.newDriver(e.net, factory), nil
}

func (e *Experiment) integratorFactory() (sim.IntegratorFactory, error) {
	return e.registry.IntegratorFactory(e.cfg.Integrator, e.cfg.DynamoConfig())
}

func (e *Experiment) newDriver(net *kinetics.Network, factory sim.IntegratorFactory) *sim.Driver {
	d := sim.New(net, factory)
	d.SetLogger(e.logger)
	if e.collector != nil {
		d.SetRecorder(e.collector)
	}
	for _, m := range e.registry.DefaultMetrics() {
		d.AddMetric(m)
	}
	return d
}

// Run simulates once over the configured timeline.
func (e *Experiment) Run(ctx context.Context, observers ...dynamo.Observer) (*sim.Result, error) {
	d, err := e.Driver()
	if err != nil {
		return nil, err
	}
	for _, o := range observers {
		d.AddObserver(o)
	}
	x0, err := e.Initial()
	if err != nil {
		return nil, err
	}
	return d.Run(ctx, x0, e.cfg.TimePoints())
}

// Ensemble runs n members whose initial states are perturbed by up to
// spread (relative). Member 0 is the unperturbed run.
func (e *Experiment) Ensemble(ctx context.Context, n int, spread float64, seed int64, workers int) ([]*sim.Result, error) {
	x0, err := e.Initial()
	if err != nil {
		return nil, err
	}
	factory, err := e.integratorFactory()
	if err != nil {
		return nil, err
	}
	ens := sim.NewEnsemble(func() *sim.Driver {
		return e.newDriver(e.net, factory)
	}, workers)
	return ens.Run(ctx, sim.Perturb(x0, n, spread, seed), e.cfg.TimePoints())
}

// Sweep recompiles the model once per value with constant overridden and
// records the response of species.
func (e *Experiment) Sweep(ctx context.Context, constant, species string, values []float64) ([]analysis.SweepPoint, error) {
	if e.net == nil {
		return nil, ErrNotSetup
	}
	sp, ok := e.net.Symbols().Lookup(species)
	if !ok {
		return nil, &kinetics.UnknownSpeciesError{ID: species, Slot: -1}
	}

	factory, err := e.integratorFactory()
	if err != nil {
		return nil, err
	}

	return analysis.Sweep(values, sp.Slot, func(v float64) ([]dynamo.State, error) {
		net, err := e.compile(e.spec, map[string]float64{constant: v})
		if err != nil {
			return nil, err
		}
		d := e.newDriver(net, factory)
		x0, err := initialFor(net, e.cfg.InitialOverrides)
		if err != nil {
			return nil, err
		}
		res, err := d.Run(ctx, x0, e.cfg.TimePoints())
		if err != nil {
			return nil, err
		}
		return res.States, nil
	})
}

// Metadata describes the configured run for storage.
func (e *Experiment) Metadata() storage.RunMetadata {
	meta := storage.RunMetadata{
		Source:     e.cfg.Model,
		Integrator: e.cfg.Integrator,
	}
	if e.net != nil {
		meta.Model = e.net.Name()
		meta.Constants = e.net.Constants()
	}
	return meta
}
