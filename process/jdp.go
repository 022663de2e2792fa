package process

import (
	"golang.org/x/exp/rand"
	"gonum.org/v1/gonum/stat/distuv"
)

// Above this per-step jump probability a step may carry several jumps and
// the Bernoulli approximation would undercount them.
const bernoulliLimit = 0.1

// jdpPaths adds a compound-Poisson jump grid to the GBM diffusion. The
// diffusion grid is drawn first so a zero-intensity run reproduces GBM.
func jdpPaths(p Params, s Spec, rng *rand.Rand) [][]float64 {
	j := p.JDP
	inc := diffusion(j.Mu, j.Sigma, s, rng)

	var jumps [][]float64
	if jumpProb := j.Lambda * s.DT(); jumpProb <= bernoulliLimit {
		jumps = bernoulliJumps(jumpProb, j.JumpMu, j.JumpSigma, s, rng)
	} else {
		jumps = poissonJumps(jumpProb, j.JumpMu, j.JumpSigma, s, rng)
	}

	for t := range inc {
		for k := range inc[t] {
			inc[t][k] += jumps[t][k]
		}
	}
	return compound(s.P0, inc, s.Sims)
}

// bernoulliJumps allows at most one jump per step: an occurrence mask of
// Uniform(0,1) < prob times a grid of Normal(mu, sigma) magnitudes.
func bernoulliJumps(prob, mu, sigma float64, s Spec, rng *rand.Rand) [][]float64 {
	mask := make([][]bool, s.Periods)
	for t := range mask {
		mask[t] = make([]bool, s.Sims)
		for k := range mask[t] {
			mask[t][k] = rng.Float64() < prob
		}
	}

	jumps := newGrid(s.Periods, s.Sims)
	for t := range jumps {
		for k := range jumps[t] {
			mag := mu + sigma*rng.NormFloat64()
			if mask[t][k] {
				jumps[t][k] = mag
			}
		}
	}
	return jumps
}

// poissonJumps draws a Poisson(prob) jump count per step, then a magnitude
// tensor sized to the largest count, and sums the first count magnitudes
// of each cell.
func poissonJumps(prob, mu, sigma float64, s Spec, rng *rand.Rand) [][]float64 {
	poisson := distuv.Poisson{Lambda: prob, Src: rng}

	counts := make([][]int, s.Periods)
	maxCount := 0
	for t := range counts {
		counts[t] = make([]int, s.Sims)
		for k := range counts[t] {
			n := int(poisson.Rand())
			counts[t][k] = n
			if n > maxCount {
				maxCount = n
			}
		}
	}

	jumps := newGrid(s.Periods, s.Sims)
	for t := range jumps {
		for k := range jumps[t] {
			for c := 0; c < maxCount; c++ {
				mag := mu + sigma*rng.NormFloat64()
				if c < counts[t][k] {
					jumps[t][k] += mag
				}
			}
		}
	}
	return jumps
}
