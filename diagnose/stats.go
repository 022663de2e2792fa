// Package diagnose characterises a log-return series and suggests which
// process model fits it.
package diagnose

import (
	"fmt"
	"math"

	"github.com/rustyeddy/pricepaths/market"
	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/stat"
	"gonum.org/v1/gonum/stat/distuv"
)

// Stats summarises the distribution of log returns. Skewness and Kurtosis
// are the biased moment estimators; Kurtosis is excess over the normal.
type Stats struct {
	Mean     float64 `json:"mean"`
	Std      float64 `json:"std"`
	Sharpe   float64 `json:"sharpe"`
	Skewness float64 `json:"skewness"`
	Kurtosis float64 `json:"kurtosis"`
	JBPValue float64 `json:"jb_pvalue"`
	Min      float64 `json:"min"`
	Max      float64 `json:"max"`
}

func Summarize(rs *market.ReturnSeries) (Stats, error) {
	if rs == nil || len(rs.LogReturns) < 2 {
		return Stats{}, fmt.Errorf("%w: need at least two returns", market.ErrInvalidInput)
	}
	x := rs.LogReturns

	mean, std := stat.MeanStdDev(x, nil)
	skew, kurt := moments(x)
	s := Stats{
		Mean:     mean,
		Std:      std,
		Skewness: skew,
		Kurtosis: kurt,
		Min:      floats.Min(x),
		Max:      floats.Max(x),
	}
	if s.Min == s.Max {
		s.Std = 0
	}
	if s.Std > 0 {
		s.Sharpe = mean / std
	}
	_, s.JBPValue = jarqueBera(len(x), skew, kurt)
	return s, nil
}

// moments returns the biased sample skewness and excess kurtosis. A
// constant sample has both equal to zero.
func moments(x []float64) (skew, kurt float64) {
	if floats.Min(x) == floats.Max(x) {
		return 0, 0
	}
	m2 := stat.Moment(2, x, nil)
	if m2 == 0 {
		return 0, 0
	}
	skew = stat.Moment(3, x, nil) / math.Pow(m2, 1.5)
	kurt = stat.Moment(4, x, nil)/(m2*m2) - 3
	return skew, kurt
}

func jarqueBera(n int, skew, kurt float64) (jb, p float64) {
	jb = float64(n) / 6 * (skew*skew + kurt*kurt/4)
	return jb, distuv.ChiSquared{K: 2}.Survival(jb)
}
