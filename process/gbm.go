package process

import (
	"math"

	"golang.org/x/exp/rand"
)

// gbmPaths prices are P0*exp(cumulative log-return), with the exponent
// accumulated per column.
func gbmPaths(p Params, s Spec, rng *rand.Rand) [][]float64 {
	inc := diffusion(p.GBM.Mu, p.GBM.Sigma, s, rng)

	paths := newGrid(s.Periods+1, s.Sims)
	cum := make([]float64, s.Sims)
	for k := range paths[0] {
		paths[0][k] = s.P0
	}
	for t, row := range inc {
		for k, v := range row {
			cum[k] += v
			paths[t+1][k] = s.P0 * math.Exp(cum[k])
		}
	}
	return paths
}
