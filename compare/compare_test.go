package compare

import (
	"context"
	"math"
	"strings"
	"testing"
	"time"

	"github.com/rustyeddy/pricepaths/market"
	"github.com/rustyeddy/pricepaths/process"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gonum.org/v1/gonum/stat"
)

// testSeries returns n+1 closes 12h apart whose n log-returns have mean 0
// and standard deviation 0.01 exactly.
func testSeries(t *testing.T, n int) *market.ReturnSeries {
	t.Helper()

	r := process.NewRand(2024)
	lr := make([]float64, n)
	for i := 0; i < n-1; i++ {
		lr[i] = r.NormFloat64()
	}
	mean, std := stat.MeanStdDev(lr, nil)
	for i := range lr {
		lr[i] = (lr[i] - mean) / std * 0.01
	}

	start := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	times := make([]time.Time, n+1)
	closes := make([]float64, n+1)
	times[0], closes[0] = start, 150
	for i, v := range lr {
		times[i+1] = start.Add(time.Duration(i+1) * 12 * time.Hour)
		closes[i+1] = closes[i] * math.Exp(v)
	}

	rs, err := market.NewReturnSeries(times, closes)
	require.NoError(t, err)
	return rs
}

func seed(v int64) *int64 { return &v }

func TestCompareEndToEnd(t *testing.T) {
	t.Parallel()

	rs := testSeries(t, 200)
	o := New(rs)

	s, err := o.Compare(context.Background(), 10, 1000, seed(1234))
	require.NoError(t, err)

	assert.Equal(t, []string{"GBM", "JDP", "OU"}, s.Columns)
	require.Len(t, s.Rows, 5)
	for i, name := range []string{"Max", "Min", "Mean", "Std", "Variance"} {
		assert.Equal(t, name, s.Rows[i].Stat)
		assert.Len(t, s.Rows[i].Values, 3)
		assert.Len(t, s.Rows[i].Formatted, 3)
		for _, f := range s.Rows[i].Formatted {
			assert.True(t, strings.HasPrefix(f, "$"), f)
		}
	}

	p0 := rs.LastPrice()
	assert.Equal(t, p0, s.LastPrice)
	for _, m := range s.Columns {
		mean, ok := s.Value("Mean", m)
		require.True(t, ok)
		std, ok := s.Value("Std", m)
		require.True(t, ok)
		variance, _ := s.Value("variance", m)

		assert.Greater(t, std, 0.0, m)
		assert.InDelta(t, std*std, variance, 1e-9*variance+1e-12, m)
		assert.LessOrEqual(t, math.Abs(mean-p0), 3*std, m)

		max, _ := s.Value("Max", m)
		min, _ := s.Value("Min", m)
		assert.LessOrEqual(t, min, mean)
		assert.GreaterOrEqual(t, max, mean)
	}

	for _, m := range process.Models {
		p, ok := s.Params[m.String()]
		require.True(t, ok)
		assert.Equal(t, m, p.Kind)
	}
	assert.Len(t, s.RunID, 26)
	assert.Equal(t, uint64(1234), s.Seed)
}

func TestCompareReproducible(t *testing.T) {
	t.Parallel()

	rs := testSeries(t, 120)

	meanSum := func() float64 {
		s, err := New(rs).Compare(context.Background(), 8, 200, seed(77))
		require.NoError(t, err)
		var sum float64
		for _, v := range s.Rows[2].Values {
			sum += v
		}
		return sum
	}

	a, b := meanSum(), meanSum()
	assert.Equal(t, math.Float64bits(a), math.Float64bits(b))
}

func TestCompareSeedsAreIndependentPerModel(t *testing.T) {
	t.Parallel()

	o := New(testSeries(t, 60))
	_, err := o.Compare(context.Background(), 5, 20, seed(5))
	require.NoError(t, err)

	g := o.Select("GBM")
	j := o.Select("JDP")
	assert.NotEqual(t, g.Paths[1], j.Paths[1])
}

func TestSelect(t *testing.T) {
	t.Parallel()

	o := New(testSeries(t, 50))
	assert.True(t, o.Select("GBM").Empty(), "nothing simulated yet")

	_, err := o.Compare(context.Background(), 4, 25, seed(1))
	require.NoError(t, err)

	for _, name := range []string{"GBM", "gbm", "Jdp", "ou"} {
		e := o.Select(name)
		require.False(t, e.Empty(), name)
		assert.Equal(t, 25, e.Sims())
		assert.Equal(t, 4, e.Periods())
	}

	assert.True(t, o.Select("heston").Empty())
	assert.True(t, o.Select("").Empty())

	p, ok := o.Params("ou")
	require.True(t, ok)
	assert.Equal(t, process.OU, p.Kind)
	_, ok = o.Params("garch")
	assert.False(t, ok)
}

func TestCompareErrors(t *testing.T) {
	t.Parallel()

	rs := testSeries(t, 30)

	_, err := New(rs).Compare(context.Background(), 0, 10, seed(1))
	assert.ErrorIs(t, err, process.ErrInvalidInput)

	_, err = New(rs).Compare(context.Background(), 10, 0, seed(1))
	assert.ErrorIs(t, err, process.ErrInvalidInput)

	_, err = New(nil).Compare(context.Background(), 10, 10, seed(1))
	assert.ErrorIs(t, err, process.ErrInvalidInput)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	o := New(rs)
	_, err = o.Compare(ctx, 10, 10, seed(1))
	assert.ErrorIs(t, err, context.Canceled)
	assert.True(t, o.Select("GBM").Empty())
}

func TestCompareRandomSeed(t *testing.T) {
	t.Parallel()

	s, err := New(testSeries(t, 30)).Compare(context.Background(), 3, 5, nil)
	require.NoError(t, err)
	assert.NotZero(t, s.Seed)
}

func TestSingleSimulationHasZeroSpread(t *testing.T) {
	t.Parallel()

	s, err := New(testSeries(t, 30)).Compare(context.Background(), 3, 1, seed(9))
	require.NoError(t, err)

	for _, m := range s.Columns {
		std, _ := s.Value("Std", m)
		max, _ := s.Value("Max", m)
		min, _ := s.Value("Min", m)
		assert.Equal(t, 0.0, std)
		assert.Equal(t, max, min)
	}
}

func TestSummaryTable(t *testing.T) {
	t.Parallel()

	s, err := New(testSeries(t, 40)).Compare(context.Background(), 3, 10, seed(3))
	require.NoError(t, err)

	table := s.Table()
	lines := strings.Split(strings.TrimRight(table, "\n"), "\n")
	require.Len(t, lines, 6)
	assert.Contains(t, lines[0], "GBM")
	assert.Contains(t, lines[0], "OU")
	assert.True(t, strings.HasPrefix(strings.TrimSpace(lines[5]), "Variance"))

	_, ok := s.Value("Median", "GBM")
	assert.False(t, ok)
	_, ok = s.Value("Mean", "Heston")
	assert.False(t, ok)
}
