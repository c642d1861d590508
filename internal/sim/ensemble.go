package sim

import (
	"context"
	"fmt"
	"math/rand"

	"golang.org/x/sync/errgroup"
)

// Ensemble runs several initial conditions over one compiled network.
// Each member gets its own Driver from build, so metrics and integrators
// are never shared; the network itself is.
type Ensemble struct {
	build   func() *Driver
	workers int
}

func NewEnsemble(build func() *Driver, workers int) *Ensemble {
	if workers < 1 {
		workers = 1
	}
	return &Ensemble{build: build, workers: workers}
}

// Run returns results in the order of initials. The first failing member
// cancels the rest.
func (e *Ensemble) Run(ctx context.Context, initials [][]float64, timePoints []float64) ([]*Result, error) {
	results := make([]*Result, len(initials))
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(e.workers)

	for i, x0 := range initials {
		g.Go(func() error {
			res, err := e.build().Run(gctx, x0, timePoints)
			if err != nil {
				return fmt.Errorf("member %d: %w", i, err)
			}
			results[i] = res
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}
	return results, nil
}

// Perturb returns n copies of base with each component scaled by a factor
// drawn uniformly from [1-spread, 1+spread]. The first copy is base itself.
func Perturb(base []float64, n int, spread float64, seed int64) [][]float64 {
	rng := rand.New(rand.NewSource(seed))
	out := make([][]float64, n)
	for i := range out {
		x := make([]float64, len(base))
		copy(x, base)
		if i > 0 {
			for j := range x {
				x[j] *= 1 + spread*(2*rng.Float64()-1)
			}
		}
		out[i] = x
	}
	return out
}
