// Package randmat studies the eigenvalue statistics of random ecological
// interaction matrices, after May's complexity-stability argument: a large
// community with S species, connectance C, interaction strength sigma and
// self-regulation d is almost surely unstable once sigma*sqrt(S*C) > d.
package randmat

import (
	"errors"
	"fmt"
	"math"
	"math/rand"

	"gonum.org/v1/gonum/mat"
)

var ErrEigenFailed = errors.New("randmat: eigenvalue decomposition failed")

// CommunityConfig parameterizes a random interaction matrix.
type CommunityConfig struct {
	Species        int
	Connectance    float64 // probability an off-diagonal pair interacts
	Strength       float64 // std dev of non-zero interactions
	SelfRegulation float64 // -d on the diagonal
	Seed           int64
}

func (c CommunityConfig) Validate() error {
	if c.Species < 2 {
		return fmt.Errorf("randmat: need at least two species, got %d", c.Species)
	}
	if c.Connectance < 0 || c.Connectance > 1 {
		return fmt.Errorf("randmat: connectance must be in [0,1], got %g", c.Connectance)
	}
	if c.Strength < 0 {
		return fmt.Errorf("randmat: strength must be non-negative, got %g", c.Strength)
	}
	return nil
}

// MayThreshold is sigma*sqrt(S*C); stability requires it below the
// self-regulation d.
func (c CommunityConfig) MayThreshold() float64 {
	return c.Strength * math.Sqrt(float64(c.Species)*c.Connectance)
}

// Sample draws one community matrix: Gaussian off-diagonal entries with
// probability Connectance, -d on the diagonal.
func Sample(c CommunityConfig) (*mat.Dense, error) {
	if err := c.Validate(); err != nil {
		return nil, err
	}
	rng := rand.New(rand.NewSource(c.Seed))
	s := c.Species
	m := mat.NewDense(s, s, nil)
	for i := 0; i < s; i++ {
		for j := 0; j < s; j++ {
			if i == j {
				m.Set(i, j, -c.SelfRegulation)
				continue
			}
			if rng.Float64() < c.Connectance {
				m.Set(i, j, rng.NormFloat64()*c.Strength)
			}
		}
	}
	return m, nil
}

// Spectrum returns the eigenvalues of the matrix.
func Spectrum(m *mat.Dense) ([]complex128, error) {
	var eig mat.Eigen
	if ok := eig.Factorize(m, mat.EigenNone); !ok {
		return nil, ErrEigenFailed
	}
	return eig.Values(nil), nil
}

// SpectralAbscissa is the largest real part of the spectrum; negative
// means the linearized community is stable.
func SpectralAbscissa(eigs []complex128) float64 {
	abscissa := math.Inf(-1)
	for _, e := range eigs {
		if re := real(e); re > abscissa {
			abscissa = re
		}
	}
	return abscissa
}

// StabilityProbability samples trials independent communities and returns
// the fraction whose spectral abscissa is negative.
func StabilityProbability(c CommunityConfig, trials int) (float64, error) {
	if trials < 1 {
		return 0, fmt.Errorf("randmat: need at least one trial, got %d", trials)
	}
	stable := 0
	for t := 0; t < trials; t++ {
		cfg := c
		cfg.Seed = c.Seed + int64(t)
		m, err := Sample(cfg)
		if err != nil {
			return 0, err
		}
		eigs, err := Spectrum(m)
		if err != nil {
			return 0, err
		}
		if SpectralAbscissa(eigs) < 0 {
			stable++
		}
	}
	return float64(stable) / float64(trials), nil
}
