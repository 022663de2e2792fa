// Package compare runs every process model over the same return series
// and tabulates their simulated outcomes.
package compare

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/phuslu/log"
	"github.com/rustyeddy/pricepaths/market"
	"github.com/rustyeddy/pricepaths/pkg/id"
	"github.com/rustyeddy/pricepaths/process"
	"golang.org/x/sync/errgroup"
)

// Orchestrator calibrates and simulates all models for one series and
// keeps the latest ensembles for drill-down.
type Orchestrator struct {
	series *market.ReturnSeries

	mu        sync.RWMutex
	ensembles map[process.Model]*process.Ensemble
	params    map[process.Model]process.Params
}

func New(series *market.ReturnSeries) *Orchestrator {
	return &Orchestrator{
		series:    series,
		ensembles: map[process.Model]*process.Ensemble{},
		params:    map[process.Model]process.Params{},
	}
}

// Series returns the input series the orchestrator was built with.
func (o *Orchestrator) Series() *market.ReturnSeries {
	return o.series
}

// Compare simulates periods steps of sims paths for every model. Each
// model gets its own random stream derived from seed; a nil seed draws a
// fresh one. The call returns only once all models have finished, or
// when ctx is done.
func (o *Orchestrator) Compare(ctx context.Context, periods, sims int, seed *int64) (*Summary, error) {
	if o.series == nil {
		return nil, fmt.Errorf("%w: no return series", process.ErrInvalidInput)
	}

	root := process.RandomSeed()
	if seed != nil {
		root = uint64(*seed)
	}
	seeds := process.DeriveSeeds(root, len(process.Models))
	spec := process.SpecFor(o.series, periods, sims)
	runID := id.New()
	start := time.Now()

	ensembles := make([]*process.Ensemble, len(process.Models))
	params := make([]process.Params, len(process.Models))

	g, gctx := errgroup.WithContext(ctx)
	for i, m := range process.Models {
		i, m := i, m
		g.Go(func() error {
			if err := gctx.Err(); err != nil {
				return err
			}
			p, err := process.Calibrate(m, o.series)
			if err != nil {
				return fmt.Errorf("calibrate %s: %w", m, err)
			}
			e, err := process.Simulate(p, spec, process.NewRand(seeds[i]))
			if err != nil {
				return fmt.Errorf("simulate %s: %w", m, err)
			}
			log.Debug().Str("run_id", runID).Str("model", m.String()).Str("params", p.String()).Msg("simulated")
			params[i], ensembles[i] = p, e
			return nil
		})
	}

	done := make(chan error, 1)
	go func() { done <- g.Wait() }()

	select {
	case err := <-done:
		if err != nil {
			log.Error().Err(err).Str("run_id", runID).Msg("comparison failed")
			return nil, err
		}
	case <-ctx.Done():
		log.Warn().Str("run_id", runID).Err(ctx.Err()).Msg("comparison abandoned")
		return nil, fmt.Errorf("compare: %w", ctx.Err())
	}

	summary := newSummary(ensembles)
	summary.RunID = runID
	summary.Seed = root
	summary.Periods = periods
	summary.Sims = sims
	summary.LastPrice = spec.P0
	summary.Params = map[string]process.Params{}

	o.mu.Lock()
	for i, m := range process.Models {
		o.ensembles[m] = ensembles[i]
		o.params[m] = params[i]
		summary.Params[m.String()] = params[i]
	}
	o.mu.Unlock()

	log.Info().
		Str("run_id", runID).
		Uint64("seed", root).
		Int("periods", periods).
		Int("sims", sims).
		Dur("elapsed", time.Since(start)).
		Msg("comparison complete")

	return summary, nil
}

// Select returns the ensemble retained for the named model, matched
// case-insensitively. Unknown names, or models not yet run, give an
// empty ensemble.
func (o *Orchestrator) Select(name string) *process.Ensemble {
	m, ok := process.ParseModel(name)
	if !ok {
		return &process.Ensemble{}
	}

	o.mu.RLock()
	defer o.mu.RUnlock()
	if e, ok := o.ensembles[m]; ok {
		return e
	}
	return &process.Ensemble{}
}

// Params returns the calibration used for the named model's last run.
func (o *Orchestrator) Params(name string) (process.Params, bool) {
	m, ok := process.ParseModel(name)
	if !ok {
		return process.Params{}, false
	}

	o.mu.RLock()
	defer o.mu.RUnlock()
	p, ok := o.params[m]
	return p, ok
}
