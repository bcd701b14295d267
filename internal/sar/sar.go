// Package sar fits the species-area relationship S = c·A^z.
package sar

import (
	"errors"
	"fmt"
	"math"
	"math/rand"

	"gonum.org/v1/gonum/stat"
)

const (
	bisectMaxSteps = 10000
	bisectEps      = 1e-9
	dLseEps        = 1e-6
	infZ           = 0.0
	supZ           = 2.0
)

var (
	ErrTooFewSamples = errors.New("sar: need at least two samples")
	ErrBadSample     = errors.New("sar: areas and species counts must be positive")
	ErrNoConvergence = errors.New("sar: exponent search did not converge")
)

// Sample is one (area, species count) observation.
type Sample struct {
	Area    float64
	Species float64
}

// Fit holds the fitted power law.
type Fit struct {
	C float64 // prefactor
	Z float64 // exponent
}

func (f Fit) Predict(area float64) float64 {
	return f.C * math.Pow(area, f.Z)
}

func validate(samples []Sample) error {
	if len(samples) < 2 {
		return fmt.Errorf("%w: got %d", ErrTooFewSamples, len(samples))
	}
	for _, s := range samples {
		if s.Area <= 0 || s.Species <= 0 {
			return fmt.Errorf("%w: (%g, %g)", ErrBadSample, s.Area, s.Species)
		}
	}
	return nil
}

// FitLogLog performs ordinary least squares on log S vs log A.
func FitLogLog(samples []Sample) (Fit, error) {
	if err := validate(samples); err != nil {
		return Fit{}, err
	}
	xs := make([]float64, len(samples))
	ys := make([]float64, len(samples))
	for i, s := range samples {
		xs[i] = math.Log(s.Area)
		ys[i] = math.Log(s.Species)
	}
	alpha, beta := stat.LinearRegression(xs, ys, nil, false)
	return Fit{C: math.Exp(alpha), Z: beta}, nil
}

// lse is the least square error of the power law in linear space for a
// given exponent, with the prefactor chosen optimally for that exponent.
func lse(z float64, samples []Sample) float64 {
	num, den := 0.0, 0.0
	for _, s := range samples {
		p := math.Pow(s.Area, z)
		num += s.Species * p
		den += p * p
	}
	c := num / den
	err := 0.0
	for _, s := range samples {
		d := c*math.Pow(s.Area, z) - s.Species
		err += d * d
	}
	return err
}

func dLSE(z float64, samples []Sample) float64 {
	errL := lse(z-dLseEps, samples)
	errR := lse(z+dLseEps, samples)
	return (errR - errL) / dLseEps
}

// FitBisection finds the exponent minimizing the linear-space least square
// error by bisection on the derivative of the error function.
func FitBisection(samples []Sample) (Fit, error) {
	if err := validate(samples); err != nil {
		return Fit{}, err
	}
	left, right := infZ, supZ
	for i := 0; i < bisectMaxSteps; i++ {
		mid := (left + right) / 2
		if dLSE(mid, samples) > 0 {
			right = mid
		} else {
			left = mid
		}
		if math.Abs(right-left) < bisectEps {
			num, den := 0.0, 0.0
			for _, s := range samples {
				p := math.Pow(s.Area, mid)
				num += s.Species * p
				den += p * p
			}
			return Fit{C: num / den, Z: mid}, nil
		}
	}
	return Fit{}, ErrNoConvergence
}

// Synthetic generates n observations of a power law with multiplicative
// log-normal scatter, for exercising the fitters.
func Synthetic(c, z, scatter float64, n int, seed int64) []Sample {
	rng := rand.New(rand.NewSource(seed))
	samples := make([]Sample, n)
	for i := range samples {
		area := math.Pow(10, 1+3*float64(i)/float64(n)) // decades from 10 to 10^4
		noise := math.Exp(rng.NormFloat64() * scatter)
		samples[i] = Sample{Area: area, Species: c * math.Pow(area, z) * noise}
	}
	return samples
}
