package sim_test

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"math"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/san-kum/sigpath/internal/dynamo"
	"github.com/san-kum/sigpath/internal/integrators"
	"github.com/san-kum/sigpath/internal/kinetics"
	"github.com/san-kum/sigpath/internal/sim"
)

func linspace(a, b float64, n int) []float64 {
	out := make([]float64, n)
	for i := range out {
		out[i] = a + (b-a)*float64(i)/float64(n-1)
	}
	return out
}

func decayNetwork(t *testing.T) *kinetics.Network {
	t.Helper()
	spec := &kinetics.ModelSpec{
		Name: "decay",
		Species: []kinetics.SpeciesSpec{
			{ID: "A", InitialConcentration: 10, Compartment: "cell"},
			{ID: "B", InitialConcentration: 0, Compartment: "cell"},
		},
		Reactions: []kinetics.ReactionSpec{{
			ID:         "r1",
			Reactants:  []string{"A"},
			Products:   []string{"B"},
			RateLaw:    "k * A",
			Parameters: []kinetics.Parameter{{ID: "k", Value: 0.1}},
		}},
	}
	net, err := kinetics.Load(spec, kinetics.Options{Logger: quietLogger()})
	require.NoError(t, err)
	return net
}

func quietLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func rk45() dynamo.Integrator {
	return integrators.NewAdaptive(integrators.NewRK45(), dynamo.DefaultConfig())
}

func newDriver(net *kinetics.Network) *sim.Driver {
	d := sim.New(net, rk45)
	d.SetLogger(quietLogger())
	return d
}

func TestDriver_DecayEndToEnd(t *testing.T) {
	d := newDriver(decayNetwork(t))
	times := linspace(0, 50, 500)

	res, err := d.Run(context.Background(), []float64{10, 0}, times)
	require.NoError(t, err)

	require.Len(t, res.States, 500)
	for _, x := range res.States {
		require.Len(t, x, 2)
	}
	assert.Equal(t, []string{"A", "B"}, res.Species)
	assert.Equal(t, dynamo.State{10, 0}, res.States[0])

	a, b := res.Column(0), res.Column(1)
	assert.IsNonIncreasing(t, a)
	assert.IsNonDecreasing(t, b)
	for i, x := range res.States {
		assert.InDelta(t, 10.0, x.Sum(), 1e-9, "row %d", i)
	}
	assert.InDelta(t, 10*math.Exp(-5), res.Final()[0], 1e-4)
	assert.Empty(t, res.Diagnostics)
	assert.Positive(t, res.Stats.Evaluations)
	assert.Positive(t, res.Stats.Steps)
}

func TestDriver_RunDefault(t *testing.T) {
	d := newDriver(decayNetwork(t))
	res, err := d.RunDefault(context.Background(), linspace(0, 10, 11))
	require.NoError(t, err)
	assert.Equal(t, dynamo.State{10, 0}, res.States[0])
	assert.InDelta(t, 10*math.Exp(-1), res.Final()[0], 1e-5)
}

func TestDriver_DimensionMismatch(t *testing.T) {
	d := newDriver(decayNetwork(t))
	times := linspace(0, 1, 5)

	for _, initial := range [][]float64{nil, {1}, {1, 2, 3}} {
		_, err := d.Run(context.Background(), initial, times)
		require.Error(t, err)
		assert.ErrorIs(t, err, sim.ErrDimensionMismatch)
		assert.ErrorIs(t, err, dynamo.ErrDimensionMismatch)

		var dm *sim.DimensionMismatchError
		require.ErrorAs(t, err, &dm)
		assert.Equal(t, 2, dm.Want)
		assert.Equal(t, len(initial), dm.Got)
	}

	_, err := d.Run(context.Background(), []float64{1, 2}, times)
	assert.NoError(t, err)
}

func TestDriver_EmptyTimeline(t *testing.T) {
	d := newDriver(decayNetwork(t))
	for _, times := range [][]float64{nil, {}, {0}} {
		_, err := d.Run(context.Background(), []float64{10, 0}, times)
		assert.ErrorIs(t, err, sim.ErrEmptyTimeline)
	}
}

func TestDriver_TimelineOrder(t *testing.T) {
	d := newDriver(decayNetwork(t))
	for _, times := range [][]float64{{0, 0}, {0, 2, 1}, {1, 0}} {
		_, err := d.Run(context.Background(), []float64{10, 0}, times)
		assert.ErrorIs(t, err, sim.ErrTimelineOrder)
	}
}

func TestDriver_DoesNotMutateInputs(t *testing.T) {
	net := decayNetwork(t)
	d := newDriver(net)
	initial := []float64{10, 0}
	times := linspace(0, 5, 6)

	res, err := d.Run(context.Background(), initial, times)
	require.NoError(t, err)
	assert.Equal(t, []float64{10, 0}, initial)
	assert.Equal(t, dynamo.State{10, 0}, net.InitialState())

	res.States[0][0] = -1
	assert.Equal(t, []float64{10, 0}, initial)
}

func TestDriver_Deterministic(t *testing.T) {
	net := decayNetwork(t)
	times := linspace(0, 20, 50)

	a, err := newDriver(net).Run(context.Background(), []float64{10, 0}, times)
	require.NoError(t, err)
	b, err := newDriver(net).Run(context.Background(), []float64{10, 0}, times)
	require.NoError(t, err)
	assert.Equal(t, a.States, b.States)
}

func TestDriver_EvaluationDiagnostics(t *testing.T) {
	spec := &kinetics.ModelSpec{
		Species: []kinetics.SpeciesSpec{{ID: "A", InitialConcentration: 1}, {ID: "B"}},
		Reactions: []kinetics.ReactionSpec{
			{ID: "log", Reactants: []string{"A"}, Products: []string{"B"}, RateLaw: "ln(B)"},
			{ID: "lin", Reactants: []string{"A"}, Products: []string{"B"}, RateLaw: "0.5 * A"},
		},
	}
	net, err := kinetics.Load(spec, kinetics.Options{Logger: quietLogger()})
	require.NoError(t, err)

	res, err := newDriver(net).Run(context.Background(), []float64{1, 0}, linspace(0, 1, 3))
	require.NoError(t, err)
	require.NotEmpty(t, res.Diagnostics)
	assert.Equal(t, "log", res.Diagnostics[0].ReactionID)
	assert.Equal(t, kinetics.StageEvaluate, res.Diagnostics[0].Stage)
	assert.Empty(t, net.Diagnostics())
}

type countMetric struct{ n int }

func (c *countMetric) Name() string                  { return "count" }
func (c *countMetric) Observe(dynamo.State, float64) { c.n++ }
func (c *countMetric) Value() float64                { return float64(c.n) }
func (c *countMetric) Reset()                        { c.n = 0 }

type recorder struct {
	runs int
	err  error
}

func (r *recorder) ObserveRun(_ string, _ time.Duration, _ dynamo.Stats, _ int, err error) {
	r.runs++
	r.err = err
}

func TestDriver_MetricsAndRecorder(t *testing.T) {
	d := newDriver(decayNetwork(t))
	m := &countMetric{}
	rec := &recorder{}
	d.AddMetric(m)
	d.SetRecorder(rec)

	var samples int
	d.AddObserver(observerFunc(func(dynamo.State, float64) { samples++ }))

	for i := 0; i < 2; i++ {
		res, err := d.Run(context.Background(), []float64{10, 0}, linspace(0, 1, 7))
		require.NoError(t, err)
		assert.Equal(t, 7.0, res.Metrics["count"])
	}
	assert.Equal(t, 14, samples)
	assert.Equal(t, 2, rec.runs)
	assert.NoError(t, rec.err)
}

type observerFunc func(dynamo.State, float64)

func (f observerFunc) OnSample(x dynamo.State, t float64) { f(x, t) }

func TestDriver_Canceled(t *testing.T) {
	d := newDriver(decayNetwork(t))
	rec := &recorder{}
	d.SetRecorder(rec)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	_, err := d.Run(ctx, []float64{10, 0}, linspace(0, 1, 10))
	require.Error(t, err)
	assert.True(t, errors.Is(err, context.Canceled))
	assert.Error(t, rec.err)
}
