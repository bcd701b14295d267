// Package stationary evaluates the theoretical long-run distributions of
// the stochastic logistic model and measures how well an ensemble
// snapshot matches them.
package stationary

import (
	"fmt"

	"github.com/isottongloria/LivingSysPhys/internal/logistic"
	"gonum.org/v1/gonum/stat/distuv"
)

// Law is a stationary probability law on population size.
type Law interface {
	Prob(x float64) float64
	CDF(x float64) float64
}

// ForConfig returns the stationary law matching the config's noise regime.
func ForConfig(cfg logistic.Config) (Law, error) {
	switch cfg.Regime {
	case logistic.Environmental:
		return Gamma(cfg), nil
	case logistic.Demographic:
		return NewDemographic(cfg), nil
	default:
		return nil, fmt.Errorf("%w: %q", logistic.ErrUnknownRegime, cfg.Regime)
	}
}

// Gamma is the stationary law of the environmental (linear multiplicative)
// regime: shape 2r/sigma^2, scale sigma^2*K/(2r), from the Fokker-Planck
// stationary solution of the linear-multiplicative SDE.
func Gamma(cfg logistic.Config) distuv.Gamma {
	shape := 2 * cfg.R / (cfg.Sigma * cfg.Sigma)
	scale := cfg.Sigma * cfg.Sigma * cfg.K / (2 * cfg.R)
	return distuv.Gamma{Alpha: shape, Beta: 1 / scale}
}
