// Package process calibrates and simulates the GBM, jump-diffusion and
// Ornstein-Uhlenbeck price processes.
package process

import (
	"errors"
	"fmt"
	"strings"

	"github.com/rustyeddy/pricepaths/market"
)

var (
	// ErrInvalidInput is returned for precondition violations (short series,
	// non-positive horizon or path count, params that do not match the model).
	ErrInvalidInput = market.ErrInvalidInput

	// ErrNumericOverflow is returned when a simulated path leaves the finite
	// float64 range.
	ErrNumericOverflow = errors.New("numeric overflow")
)

// Model identifies one of the supported stochastic processes.
type Model int

const (
	GBM Model = iota + 1
	JDP
	OU
)

// Models lists every model in comparison-table order.
var Models = []Model{GBM, JDP, OU}

func (m Model) String() string {
	switch m {
	case GBM:
		return "GBM"
	case JDP:
		return "JDP"
	case OU:
		return "OU"
	default:
		return fmt.Sprintf("Model(%d)", int(m))
	}
}

// ParseModel matches name case-insensitively against the model names.
func ParseModel(name string) (Model, bool) {
	switch strings.ToUpper(strings.TrimSpace(name)) {
	case "GBM":
		return GBM, true
	case "JDP":
		return JDP, true
	case "OU":
		return OU, true
	}
	return 0, false
}

func (m Model) MarshalText() ([]byte, error) {
	if _, ok := ParseModel(m.String()); !ok {
		return nil, fmt.Errorf("%w: %s", ErrInvalidInput, m)
	}
	return []byte(m.String()), nil
}

func (m *Model) UnmarshalText(b []byte) error {
	v, ok := ParseModel(string(b))
	if !ok {
		return fmt.Errorf("%w: unknown model %q", ErrInvalidInput, b)
	}
	*m = v
	return nil
}

// GBMParams are expressed per simulation step.
type GBMParams struct {
	Mu    float64 `json:"mu"`
	Sigma float64 `json:"sigma"`
}

// JDPParams holds the diffusive drift and volatility plus the jump
// intensity (jumps per unit dt) and the normal jump-size distribution.
type JDPParams struct {
	Mu        float64 `json:"mu"`
	Sigma     float64 `json:"sigma"`
	Lambda    float64 `json:"lambda"`
	JumpMu    float64 `json:"jump_mu"`
	JumpSigma float64 `json:"jump_sigma"`
}

// OUParams holds the long-run mean, volatility and mean-reversion speed.
type OUParams struct {
	Mu    float64 `json:"mu"`
	Sigma float64 `json:"sigma"`
	Theta float64 `json:"theta"`
}

// Params is a tagged union: exactly the field named by Kind is set.
type Params struct {
	Kind Model      `json:"kind"`
	GBM  *GBMParams `json:"gbm,omitempty"`
	JDP  *JDPParams `json:"jdp,omitempty"`
	OU   *OUParams  `json:"ou,omitempty"`
}

func (p Params) validate() error {
	var ok bool
	switch p.Kind {
	case GBM:
		ok = p.GBM != nil
	case JDP:
		ok = p.JDP != nil
	case OU:
		ok = p.OU != nil
	default:
		return fmt.Errorf("%w: unknown model %s", ErrInvalidInput, p.Kind)
	}
	if !ok {
		return fmt.Errorf("%w: missing %s parameters", ErrInvalidInput, p.Kind)
	}
	return nil
}

func (p Params) String() string {
	switch p.Kind {
	case GBM:
		if p.GBM != nil {
			return fmt.Sprintf("GBM{mu=%g sigma=%g}", p.GBM.Mu, p.GBM.Sigma)
		}
	case JDP:
		if p.JDP != nil {
			return fmt.Sprintf("JDP{mu=%g sigma=%g lambda=%g jump_mu=%g jump_sigma=%g}",
				p.JDP.Mu, p.JDP.Sigma, p.JDP.Lambda, p.JDP.JumpMu, p.JDP.JumpSigma)
		}
	case OU:
		if p.OU != nil {
			return fmt.Sprintf("OU{mu=%g sigma=%g theta=%g}", p.OU.Mu, p.OU.Sigma, p.OU.Theta)
		}
	}
	return p.Kind.String() + "{}"
}
