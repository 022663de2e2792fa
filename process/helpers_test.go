package process

import (
	"math"
	"testing"
	"time"

	"github.com/rustyeddy/pricepaths/market"
	"github.com/stretchr/testify/require"
)

var testStart = time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)

// seriesFromReturns builds a 12h series starting at p0 whose log-returns
// are exactly lr (up to float rounding).
func seriesFromReturns(t *testing.T, p0 float64, lr []float64) *market.ReturnSeries {
	t.Helper()

	times := make([]time.Time, len(lr)+1)
	closes := make([]float64, len(lr)+1)
	times[0] = testStart
	closes[0] = p0
	for i, r := range lr {
		times[i+1] = testStart.Add(time.Duration(i+1) * 12 * time.Hour)
		closes[i+1] = closes[i] * math.Exp(r)
	}

	rs, err := market.NewReturnSeries(times, closes)
	require.NoError(t, err)
	return rs
}

func normalReturns(n int, mean, std float64, seed uint64) []float64 {
	r := NewRand(seed)
	out := make([]float64, n)
	for i := range out {
		out[i] = mean + std*r.NormFloat64()
	}
	return out
}

func testSpec(periods, sims int) Spec {
	return Spec{
		Periods:  periods,
		Sims:     sims,
		P0:       100,
		X0:       0.001,
		Start:    testStart,
		Interval: 12 * time.Hour,
	}
}
