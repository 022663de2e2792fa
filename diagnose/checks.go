package diagnose

import (
	"errors"
	"fmt"
	"math"

	"github.com/rustyeddy/pricepaths/market"
	"gonum.org/v1/gonum/mat"
	"gonum.org/v1/gonum/stat"
	"gonum.org/v1/gonum/stat/distuv"
)

const (
	alpha        = 0.05
	archLags     = 5
	ljungBoxLags = 10
	jumpWindow   = 20
	jumpBand     = 2.0
	jumpFreqMin  = 0.01

	// MinObservations is the shortest return series Run accepts.
	MinObservations = jumpWindow + 1
)

// Conclusions reported by the individual tests.
const (
	Normal        = "Normal"
	NonNormal     = "Non-normal"
	Present       = "Present"
	Absent        = "Absent"
	Significant   = "Significant"
	Minimal       = "Minimal"
	MeanReverting = "Mean-reverting"
	RandomWalk    = "Random walk"
)

// Test is the outcome of one diagnostic. For the jump test Statistic is
// the observed jump frequency and PValue is unused.
type Test struct {
	Name       string  `json:"name"`
	Statistic  float64 `json:"statistic"`
	PValue     float64 `json:"p_value"`
	Conclusion string  `json:"conclusion"`
}

type Results struct {
	JarqueBera      Test `json:"jarque_bera"`
	ArchLM          Test `json:"arch_lm"`
	Jumps           Test `json:"jumps"`
	MeanReversion   Test `json:"mean_reversion"`
	Autocorrelation Test `json:"autocorrelation"`
}

// Tests lists the results in report order.
func (r Results) Tests() []Test {
	return []Test{r.JarqueBera, r.ArchLM, r.Jumps, r.MeanReversion, r.Autocorrelation}
}

// Run applies every diagnostic to the series' log returns.
func Run(rs *market.ReturnSeries) (Results, error) {
	if rs == nil || len(rs.LogReturns) < MinObservations {
		return Results{}, fmt.Errorf("%w: diagnostics need at least %d returns", market.ErrInvalidInput, MinObservations)
	}
	x := rs.LogReturns

	var res Results

	skew, kurt := moments(x)
	jb, p := jarqueBera(len(x), skew, kurt)
	res.JarqueBera = Test{Name: "Jarque-Bera", Statistic: jb, PValue: p, Conclusion: pick(p > alpha, Normal, NonNormal)}

	lm, p, err := archLM(x, archLags)
	if err != nil {
		return Results{}, fmt.Errorf("arch-lm: %w", err)
	}
	res.ArchLM = Test{Name: "ARCH-LM", Statistic: lm, PValue: p, Conclusion: pick(p < alpha, Present, Absent)}

	freq := jumpFrequency(x)
	res.Jumps = Test{Name: "Jumps", Statistic: freq, Conclusion: pick(freq > jumpFreqMin, Significant, Minimal)}

	z, p := lagOneZ(x)
	res.MeanReversion = Test{Name: "Mean reversion", Statistic: z, PValue: p, Conclusion: pick(p < alpha, MeanReverting, RandomWalk)}

	q, p := ljungBox(x, ljungBoxLags)
	res.Autocorrelation = Test{Name: "Ljung-Box", Statistic: q, PValue: p, Conclusion: pick(p < alpha, Present, Absent)}

	return res, nil
}

func pick(cond bool, yes, no string) string {
	if cond {
		return yes
	}
	return no
}

// archLM is Engle's test: regress squared returns on a constant and their
// own lags, LM = nobs·R² ~ χ²(lags).
func archLM(x []float64, lags int) (lm, p float64, err error) {
	sq := make([]float64, len(x))
	for i, v := range x {
		sq[i] = v * v
	}
	nobs := len(sq) - lags

	y := mat.NewVecDense(nobs, sq[lags:])
	X := mat.NewDense(nobs, lags+1, nil)
	for i := 0; i < nobs; i++ {
		X.Set(i, 0, 1)
		for k := 1; k <= lags; k++ {
			X.Set(i, k, sq[lags+i-k])
		}
	}

	// Squared returns that are constant up to rounding carry no signal.
	m, v := stat.MeanVariance(sq[lags:], nil)
	if !(v > 1e-12*m*m) {
		return 0, 1, nil
	}
	tss := v * float64(nobs-1)

	var beta mat.VecDense
	if err := beta.SolveVec(X, y); err != nil {
		var cond mat.Condition
		if !errors.As(err, &cond) {
			return 0, 0, err
		}
	}

	var fit mat.VecDense
	fit.MulVec(X, &beta)
	var rss float64
	for i := 0; i < nobs; i++ {
		d := y.AtVec(i) - fit.AtVec(i)
		rss += d * d
	}

	r2 := 1 - rss/tss
	if r2 < 0 {
		r2 = 0
	}
	lm = float64(nobs) * r2
	return lm, distuv.ChiSquared{K: float64(lags)}.Survival(lm), nil
}

// jumpFrequency counts returns outside a band of jumpBand rolling standard
// deviations (window jumpWindow, including the current return) around
// the series mean, as a fraction of all returns.
func jumpFrequency(x []float64) float64 {
	mean := stat.Mean(x, nil)
	var jumps int
	for i := jumpWindow - 1; i < len(x); i++ {
		s := stat.StdDev(x[i-jumpWindow+1:i+1], nil)
		if math.Abs(x[i]-mean) > jumpBand*s {
			jumps++
		}
	}
	return float64(jumps) / float64(len(x))
}

// acf returns the sample autocorrelations for lags 1..nlags.
func acf(x []float64, nlags int) []float64 {
	mean := stat.Mean(x, nil)
	var c0 float64
	for _, v := range x {
		c0 += (v - mean) * (v - mean)
	}
	out := make([]float64, nlags)
	if c0 == 0 {
		return out
	}
	for k := 1; k <= nlags; k++ {
		var ck float64
		for t := k; t < len(x); t++ {
			ck += (x[t] - mean) * (x[t-k] - mean)
		}
		out[k-1] = ck / c0
	}
	return out
}

func ljungBox(x []float64, lags int) (q, p float64) {
	n := float64(len(x))
	for k, r := range acf(x, lags) {
		q += r * r / (n - float64(k+1))
	}
	q *= n * (n + 2)
	return q, distuv.ChiSquared{K: float64(lags)}.Survival(q)
}

// lagOneZ tests for negative lag-1 autocorrelation. Under a random walk
// in prices, √n·ρ₁ is approximately standard normal; the p-value is the
// lower tail.
func lagOneZ(x []float64) (z, p float64) {
	z = acf(x, 1)[0] * math.Sqrt(float64(len(x)))
	return z, distuv.UnitNormal.CDF(z)
}
