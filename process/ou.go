package process

import (
	"math"

	"golang.org/x/exp/rand"
)

// ouPaths simulates the log-return level X with the exact OU transition
//
//	X[i] = mu + (x0-mu)e^{-theta*dt*i} + s * sum_{j<i} e^{-theta*dt*(i-j-1)} Z[j]
//
// where s = sigma*sqrt((1-e^{-2*theta*dt})/(2*theta)). Below thetaFloor
// the level is a Brownian motion with drift mu. Levels are turned back
// into increments (the first relative to x0) and compounded from P0.
func ouPaths(p Params, s Spec, rng *rand.Rand) [][]float64 {
	o := p.OU
	dt := s.DT()
	x0 := s.X0

	z := newGrid(s.Periods, s.Sims)
	for t := range z {
		for k := range z[t] {
			z[t][k] = rng.NormFloat64()
		}
	}

	// levels[i-1] holds X[i]
	levels := newGrid(s.Periods, s.Sims)
	if o.Theta < thetaFloor {
		scale := o.Sigma * math.Sqrt(dt)
		cum := make([]float64, s.Sims)
		for t := range levels {
			step := float64(t + 1)
			for k := range levels[t] {
				cum[k] += z[t][k]
				levels[t][k] = x0 + cum[k]*scale + o.Mu*step*dt
			}
		}
	} else {
		weights := make([]float64, s.Periods)
		for m := range weights {
			weights[m] = math.Exp(-o.Theta * dt * float64(m))
		}
		innov := o.Sigma * math.Sqrt((1-math.Exp(-2*o.Theta*dt))/(2*o.Theta))

		for t := range levels {
			i := t + 1
			meanTerm := o.Mu + (x0-o.Mu)*math.Exp(-o.Theta*dt*float64(i))
			for k := range levels[t] {
				var acc float64
				for j := 0; j < i; j++ {
					acc += weights[i-j-1] * z[j][k]
				}
				levels[t][k] = meanTerm + innov*acc
			}
		}
	}

	inc := newGrid(s.Periods, s.Sims)
	for t := range inc {
		for k := range inc[t] {
			prev := x0
			if t > 0 {
				prev = levels[t-1][k]
			}
			inc[t][k] = levels[t][k] - prev
		}
	}
	return compound(s.P0, inc, s.Sims)
}
