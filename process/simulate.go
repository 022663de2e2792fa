package process

import (
	"fmt"
	"math"
	"time"

	"github.com/rustyeddy/pricepaths/market"
	"golang.org/x/exp/rand"
)

// Spec describes one simulation run: horizon, path count and the anchor
// observation the paths start from.
type Spec struct {
	Periods  int
	Sims     int
	P0       float64       // last observed price
	X0       float64       // last observed log-return, used by OU
	Start    time.Time     // time of the last observation
	Interval time.Duration // wall-clock spacing of the input series
}

// SpecFor anchors a run of periods x sims at the end of rs.
func SpecFor(rs *market.ReturnSeries, periods, sims int) Spec {
	return Spec{
		Periods:  periods,
		Sims:     sims,
		P0:       rs.LastPrice(),
		X0:       rs.LastReturn(),
		Start:    rs.LastTime(),
		Interval: rs.Interval(),
	}
}

func (s Spec) DT() float64 {
	return market.DT(s.Interval)
}

func (s Spec) validate() error {
	switch {
	case s.Periods < 1:
		return fmt.Errorf("%w: periods must be positive, got %d", ErrInvalidInput, s.Periods)
	case s.Sims < 1:
		return fmt.Errorf("%w: sims must be positive, got %d", ErrInvalidInput, s.Sims)
	case !(s.P0 > 0) || math.IsInf(s.P0, 0):
		return fmt.Errorf("%w: last price must be positive, got %v", ErrInvalidInput, s.P0)
	case s.Interval <= 0:
		return fmt.Errorf("%w: interval must be positive, got %s", ErrInvalidInput, s.Interval)
	}
	return nil
}

// pathFunc fills a (Periods+1) x Sims price grid whose row 0 is P0.
type pathFunc func(p Params, s Spec, rng *rand.Rand) [][]float64

var simulators = map[Model]pathFunc{
	GBM: gbmPaths,
	JDP: jdpPaths,
	OU:  ouPaths,
}

// Simulate generates an ensemble for p. Output is fully determined by
// (p, s, the state of rng).
func Simulate(p Params, s Spec, rng *rand.Rand) (*Ensemble, error) {
	if err := p.validate(); err != nil {
		return nil, err
	}
	if err := s.validate(); err != nil {
		return nil, err
	}

	paths := simulators[p.Kind](p, s, rng)
	for t, row := range paths {
		for k, v := range row {
			if math.IsNaN(v) || math.IsInf(v, 0) {
				return nil, fmt.Errorf("%w: %s price %v at step %d of %s",
					ErrNumericOverflow, p.Kind, v, t, ColumnName(k))
			}
		}
	}

	return &Ensemble{
		Model: p.Kind,
		Times: market.FutureTimes(s.Start, s.Interval, s.Periods),
		Paths: paths,
	}, nil
}

// diffusion draws a Periods x Sims grid of (mu - sigma^2/2)dt + sigma*dW
// with dW ~ N(0, dt), filled row by row.
func diffusion(mu, sigma float64, s Spec, rng *rand.Rand) [][]float64 {
	dt := s.DT()
	sqdt := math.Sqrt(dt)
	drift := (mu - sigma*sigma/2) * dt

	inc := newGrid(s.Periods, s.Sims)
	for t := range inc {
		for k := range inc[t] {
			inc[t][k] = drift + sigma*rng.NormFloat64()*sqdt
		}
	}
	return inc
}

// compound turns per-step log increments into prices by a running
// product of exp(increment) anchored at p0.
func compound(p0 float64, inc [][]float64, sims int) [][]float64 {
	paths := newGrid(len(inc)+1, sims)
	for k := range paths[0] {
		paths[0][k] = p0
	}
	for t, row := range inc {
		for k, v := range row {
			paths[t+1][k] = paths[t][k] * math.Exp(v)
		}
	}
	return paths
}
