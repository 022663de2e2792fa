package process

import (
	"fmt"
	"math"

	"github.com/rustyeddy/pricepaths/market"
	"gonum.org/v1/gonum/stat"
)

const (
	// jumpThreshold is the number of standard deviations beyond which a
	// log-return is classified as a jump.
	jumpThreshold = 2.5

	olsDegenerate = 1e-10
	thetaFloor    = 1e-10
	ouFallback    = 0.001
)

// CalibrateGBM uses the sample mean and standard deviation of the
// log-returns as per-step drift and volatility.
func CalibrateGBM(rs *market.ReturnSeries) GBMParams {
	return GBMParams{
		Mu:    stat.Mean(rs.LogReturns, nil),
		Sigma: sampleStd(rs.LogReturns),
	}
}

// CalibrateJDP separates returns beyond 2.5 standard deviations as jumps
// and fits the diffusive and jump components separately. The drift is
// compensated for the expected jump so jumps do not bias the mean.
// A series with no jumps gets lambda 0 and a placeholder jump sigma of 1.
func CalibrateJDP(rs *market.ReturnSeries) JDPParams {
	lr := rs.LogReturns
	dt := rs.DT()

	mean := stat.Mean(lr, nil)
	variance := sampleVar(lr)
	threshold := jumpThreshold * math.Sqrt(variance)

	var jumps, diffusive []float64
	for _, r := range lr {
		if math.Abs(r) > threshold {
			jumps = append(jumps, r)
		} else {
			diffusive = append(diffusive, r)
		}
	}

	p := JDPParams{Mu: mean / dt}
	if len(jumps) == 0 {
		p.Sigma = math.Sqrt(variance / dt)
		p.JumpSigma = 1
		return p
	}

	p.JumpMu = stat.Mean(jumps, nil)
	p.JumpSigma = sampleStd(jumps)
	p.Lambda = float64(len(jumps)) / (float64(len(lr)) * dt)
	if len(diffusive) > 0 {
		p.Sigma = sampleStd(diffusive) / math.Sqrt(dt)
	} else {
		p.Sigma = math.Sqrt(0.8 * variance / dt)
	}
	p.Mu -= p.Lambda * (math.Exp(p.JumpMu+p.JumpSigma*p.JumpSigma/2) - 1)
	return p
}

// CalibrateOU fits x[t+1] = a + b*x[t] by least squares on consecutive
// log-returns and maps the AR(1) coefficients onto OU parameters.
//
// The fit is fragile when b is close to 0 or 1. A singular regression
// falls back to theta 0.001 with the sample mean and scaled std; a fit
// with b outside (0, 1) is treated as near-zero reversion (theta 0.001/dt).
func CalibrateOU(rs *market.ReturnSeries) OUParams {
	lr := rs.LogReturns
	dt := rs.DT()
	mean := stat.Mean(lr, nil)

	var x, y []float64
	if len(lr) > 1 {
		x, y = lr[:len(lr)-1], lr[1:]
	}

	n := float64(len(x))
	var sx, sy, sxx, sxy float64
	for i := range x {
		sx += x[i]
		sy += y[i]
		sxx += x[i] * x[i]
		sxy += x[i] * y[i]
	}

	den := n*sxx - sx*sx
	if den < olsDegenerate {
		return OUParams{
			Mu:    mean,
			Sigma: sampleStd(lr) / math.Sqrt(dt),
			Theta: ouFallback,
		}
	}

	b := (n*sxy - sx*sy) / den
	a := (sy - b*sx) / n

	var theta float64
	if b >= 1 || b <= 0 {
		theta = ouFallback / dt
	} else {
		theta = -math.Log(b) / dt
	}

	mu := mean
	if theta > 0 {
		if m := a / (1 - b); !math.IsNaN(m) && !math.IsInf(m, 0) {
			mu = m
		}
	}

	resid := make([]float64, len(x))
	for i := range x {
		resid[i] = y[i] - (a + b*x[i])
	}
	residVar := sampleVar(resid)

	var sigma float64
	if theta > thetaFloor {
		sigma = math.Sqrt(residVar / ((1 - math.Exp(-2*theta*dt)) / (2 * theta)))
	} else {
		sigma = math.Sqrt(residVar) / math.Sqrt(dt)
	}

	return OUParams{Mu: mu, Sigma: sigma, Theta: theta}
}

var calibrators = map[Model]func(*market.ReturnSeries) Params{
	GBM: func(rs *market.ReturnSeries) Params {
		p := CalibrateGBM(rs)
		return Params{Kind: GBM, GBM: &p}
	},
	JDP: func(rs *market.ReturnSeries) Params {
		p := CalibrateJDP(rs)
		return Params{Kind: JDP, JDP: &p}
	},
	OU: func(rs *market.ReturnSeries) Params {
		p := CalibrateOU(rs)
		return Params{Kind: OU, OU: &p}
	},
}

// Calibrate fits the parameters of model m to rs.
func Calibrate(m Model, rs *market.ReturnSeries) (Params, error) {
	if rs == nil || len(rs.LogReturns) == 0 {
		return Params{}, fmt.Errorf("%w: empty return series", ErrInvalidInput)
	}
	fn, ok := calibrators[m]
	if !ok {
		return Params{}, fmt.Errorf("%w: unknown model %s", ErrInvalidInput, m)
	}
	return fn(rs), nil
}

// sampleVar is the n-1 variance; it is 0 for fewer than two values.
func sampleVar(x []float64) float64 {
	if len(x) < 2 {
		return 0
	}
	v := stat.Variance(x, nil)
	if v < 0 {
		return 0
	}
	return v
}

func sampleStd(x []float64) float64 {
	return math.Sqrt(sampleVar(x))
}
