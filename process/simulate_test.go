package process

import (
	"math"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func gbm(mu, sigma float64) Params {
	return Params{Kind: GBM, GBM: &GBMParams{Mu: mu, Sigma: sigma}}
}

func jdp(p JDPParams) Params {
	return Params{Kind: JDP, JDP: &p}
}

func ou(mu, sigma, theta float64) Params {
	return Params{Kind: OU, OU: &OUParams{Mu: mu, Sigma: sigma, Theta: theta}}
}

func TestSimulateShape(t *testing.T) {
	t.Parallel()

	params := []Params{
		gbm(0.001, 0.02),
		jdp(JDPParams{Mu: 0.05, Sigma: 0.1, Lambda: 2, JumpMu: -0.01, JumpSigma: 0.02}),
		jdp(JDPParams{Mu: 0.05, Sigma: 0.1, Lambda: 20, JumpMu: -0.01, JumpSigma: 0.02}),
		ou(0.0, 0.1, 5),
		ou(0.0, 0.1, 0),
	}
	dims := []struct{ periods, sims int }{{1, 1}, {10, 3}, {7, 50}}

	for _, p := range params {
		for _, d := range dims {
			s := testSpec(d.periods, d.sims)
			e, err := Simulate(p, s, NewRand(1))
			require.NoError(t, err, p.String())

			assert.Equal(t, p.Kind, e.Model)
			require.Len(t, e.Paths, d.periods+1)
			require.Len(t, e.Times, d.periods+1)
			assert.Equal(t, d.periods, e.Periods())
			assert.Equal(t, d.sims, e.Sims())
			for _, row := range e.Paths {
				assert.Len(t, row, d.sims)
			}
			for _, v := range e.Paths[0] {
				assert.Equal(t, s.P0, v)
			}
			assert.Equal(t, s.Start, e.Times[0])
			assert.Equal(t, s.Start.Add(time.Duration(d.periods)*s.Interval), e.Times[d.periods])
			assert.Equal(t, "sim_1", e.Columns()[0])
		}
	}
}

func TestGBMZeroVolatilityIsDeterministic(t *testing.T) {
	t.Parallel()

	s := testSpec(12, 4)
	mu := 0.3
	e, err := Simulate(gbm(mu, 0), s, NewRand(5))
	require.NoError(t, err)

	dt := s.DT()
	for step, row := range e.Paths {
		want := s.P0 * math.Exp(mu*dt*float64(step))
		for _, v := range row {
			assert.InEpsilon(t, want, v, 1e-12)
		}
	}
}

func TestJDPWithoutJumpsMatchesGBM(t *testing.T) {
	t.Parallel()

	s := testSpec(25, 40)
	g, err := Simulate(gbm(0.2, 0.4), s, NewRand(1234))
	require.NoError(t, err)
	j, err := Simulate(jdp(JDPParams{Mu: 0.2, Sigma: 0.4, JumpSigma: 1}), s, NewRand(1234))
	require.NoError(t, err)

	for step := range g.Paths {
		for k := range g.Paths[step] {
			assert.InEpsilon(t, g.Paths[step][k], j.Paths[step][k], 1e-10)
		}
	}
}

// With no diffusion and a fixed jump size every log increment is a whole
// number of jumps.
func jumpCounts(t *testing.T, e *Ensemble, size float64) []int {
	t.Helper()
	var counts []int
	for step := 1; step < len(e.Paths); step++ {
		for k := range e.Paths[step] {
			n := math.Log(e.Paths[step][k]/e.Paths[step-1][k]) / size
			require.InDelta(t, math.Round(n), n, 1e-6)
			counts = append(counts, int(math.Round(n)))
		}
	}
	return counts
}

func TestJDPBernoulliRegimeAllowsOneJumpPerStep(t *testing.T) {
	t.Parallel()

	s := testSpec(50, 40)
	lambda := 0.09 / s.DT()
	e, err := Simulate(jdp(JDPParams{Lambda: lambda, JumpMu: 0.01}), s, NewRand(8))
	require.NoError(t, err)

	total := 0
	for _, n := range jumpCounts(t, e, 0.01) {
		assert.Contains(t, []int{0, 1}, n)
		total += n
	}
	// expected 0.09 * 2000 = 180
	assert.InDelta(t, 180, total, 60)
}

func TestJDPPoissonRegimeAllowsMultipleJumps(t *testing.T) {
	t.Parallel()

	s := testSpec(50, 40)
	lambda := 1.5 / s.DT()
	e, err := Simulate(jdp(JDPParams{Lambda: lambda, JumpMu: 0.001}), s, NewRand(8))
	require.NoError(t, err)

	total, multi := 0, 0
	for _, n := range jumpCounts(t, e, 0.001) {
		assert.GreaterOrEqual(t, n, 0)
		total += n
		if n > 1 {
			multi++
		}
	}
	assert.Greater(t, multi, 0)
	// expected 1.5 * 2000 = 3000
	assert.InDelta(t, 3000, total, 300)
}

func TestOUDegenerateThetaIsDriftingBrownianMotion(t *testing.T) {
	t.Parallel()

	s := testSpec(10, 3)
	mu := 0.8
	e, err := Simulate(ou(mu, 0, 0), s, NewRand(2))
	require.NoError(t, err)

	dt := s.DT()
	for step, row := range e.Paths {
		want := s.P0 * math.Exp(mu*dt*float64(step))
		for _, v := range row {
			assert.InEpsilon(t, want, v, 1e-12)
		}
	}
}

func TestOUSmallThetaConvergesToBrownian(t *testing.T) {
	t.Parallel()

	s := testSpec(10, 20)
	exact, err := Simulate(ou(0, 0.3, 1e-7), s, NewRand(77))
	require.NoError(t, err)
	limit, err := Simulate(ou(0, 0.3, 0), s, NewRand(77))
	require.NoError(t, err)

	// theta*dt is ~2e-9, so the exact transition is a driftless random walk
	for step := range exact.Paths {
		for k := range exact.Paths[step] {
			assert.InEpsilon(t, limit.Paths[step][k], exact.Paths[step][k], 1e-6)
		}
	}
}

func TestOUMeanReversionWithoutNoise(t *testing.T) {
	t.Parallel()

	s := testSpec(15, 2)
	s.X0 = 0.05
	mu, theta := 0.01, 20.0
	e, err := Simulate(ou(mu, 0, theta), s, NewRand(3))
	require.NoError(t, err)

	dt := s.DT()
	for step, row := range e.Paths {
		level := mu + (s.X0-mu)*math.Exp(-theta*dt*float64(step))
		want := s.P0 * math.Exp(level-s.X0)
		for _, v := range row {
			assert.InEpsilon(t, want, v, 1e-10)
		}
	}
}

func TestOUAtMeanStaysFlat(t *testing.T) {
	t.Parallel()

	s := testSpec(8, 3)
	s.X0 = 0.02
	e, err := Simulate(ou(0.02, 0, 3), s, NewRand(4))
	require.NoError(t, err)

	for _, row := range e.Paths {
		for _, v := range row {
			assert.InDelta(t, s.P0, v, 1e-9)
		}
	}
}

func TestSimulateReproducible(t *testing.T) {
	t.Parallel()

	for _, p := range []Params{
		gbm(0.01, 0.3),
		jdp(JDPParams{Mu: 0.01, Sigma: 0.3, Lambda: 30, JumpMu: 0.01, JumpSigma: 0.05}),
		ou(0, 0.3, 4),
	} {
		s := testSpec(20, 30)
		a, err := Simulate(p, s, NewRand(42))
		require.NoError(t, err)
		b, err := Simulate(p, s, NewRand(42))
		require.NoError(t, err)
		c, err := Simulate(p, s, NewRand(43))
		require.NoError(t, err)

		assert.Equal(t, a.Paths, b.Paths, p.Kind.String())
		assert.NotEqual(t, a.Paths, c.Paths, p.Kind.String())
	}
}

func TestSimulateOverflow(t *testing.T) {
	t.Parallel()

	_, err := Simulate(gbm(1e6, 0), testSpec(5, 2), NewRand(1))
	assert.ErrorIs(t, err, ErrNumericOverflow)
}

func TestSimulateInvalid(t *testing.T) {
	t.Parallel()

	good := testSpec(5, 5)
	tests := []struct {
		name string
		p    Params
		s    Spec
	}{
		{"zero periods", gbm(0, 0.1), testSpec(0, 5)},
		{"zero sims", gbm(0, 0.1), testSpec(5, 0)},
		{"missing params", Params{Kind: JDP}, good},
		{"unknown model", Params{}, good},
		{"zero price", gbm(0, 0.1), Spec{Periods: 1, Sims: 1, Interval: time.Hour}},
		{"zero interval", gbm(0, 0.1), Spec{Periods: 1, Sims: 1, P0: 1}},
	}

	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			_, err := Simulate(tt.p, tt.s, NewRand(1))
			assert.ErrorIs(t, err, ErrInvalidInput)
		})
	}
}

func TestEnsembleAccessors(t *testing.T) {
	t.Parallel()

	var empty *Ensemble
	assert.True(t, empty.Empty())
	assert.Equal(t, 0, empty.Sims())
	assert.Nil(t, empty.Terminal())

	e, err := Simulate(gbm(0, 0.1), testSpec(3, 2), NewRand(9))
	require.NoError(t, err)
	assert.False(t, e.Empty())
	assert.Equal(t, []string{"sim_1", "sim_2"}, e.Columns())
	col := e.Column(1)
	require.Len(t, col, 4)
	assert.Equal(t, e.Paths[3][1], col[3])
	assert.Equal(t, e.Paths[3], e.Terminal())
}

func TestParseModel(t *testing.T) {
	t.Parallel()

	tests := []struct {
		in   string
		want Model
		ok   bool
	}{
		{"GBM", GBM, true},
		{"jdp", JDP, true},
		{" Ou ", OU, true},
		{"heston", 0, false},
		{"", 0, false},
	}
	for _, tt := range tests {
		got, ok := ParseModel(tt.in)
		assert.Equal(t, tt.ok, ok, tt.in)
		assert.Equal(t, tt.want, got, tt.in)
	}
}

func TestDeriveSeeds(t *testing.T) {
	t.Parallel()

	a := DeriveSeeds(1234, 3)
	b := DeriveSeeds(1234, 3)
	assert.Equal(t, a, b)
	assert.NotEqual(t, a[0], a[1])
	assert.NotEqual(t, a[1], a[2])
	assert.NotEqual(t, a, DeriveSeeds(1235, 3))
}
