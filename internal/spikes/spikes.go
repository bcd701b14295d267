// Package spikes generates Poisson spike trains and their interval
// statistics. Homogeneous trains come from inverse-CDF sampling of
// exponential inter-spike intervals; inhomogeneous trains from
// Lewis-Shedler thinning of a dominating homogeneous process.
package spikes

import (
	"errors"
	"fmt"
	"math"
	"math/rand"

	"gonum.org/v1/gonum/stat"
)

var (
	ErrBadRate     = errors.New("spikes: rate must be positive")
	ErrBadDuration = errors.New("spikes: duration must be positive")
	ErrRateBound   = errors.New("spikes: rate function exceeds its stated bound")
)

// Train is an ordered sequence of spike times on [0, Duration].
type Train struct {
	Times    []float64
	Duration float64
}

// RateFunc is a time-varying firing rate in spikes per unit time.
type RateFunc func(t float64) float64

// expInterval draws an exponential waiting time by inverting the CDF.
func expInterval(rng *rand.Rand, rate float64) float64 {
	return -math.Log(1-rng.Float64()) / rate
}

// Homogeneous samples a constant-rate Poisson train.
func Homogeneous(rate, duration float64, seed int64) (Train, error) {
	if rate <= 0 {
		return Train{}, fmt.Errorf("%w: %g", ErrBadRate, rate)
	}
	if duration <= 0 {
		return Train{}, fmt.Errorf("%w: %g", ErrBadDuration, duration)
	}
	rng := rand.New(rand.NewSource(seed))
	train := Train{Duration: duration}
	for t := expInterval(rng, rate); t < duration; t += expInterval(rng, rate) {
		train.Times = append(train.Times, t)
	}
	return train, nil
}

// Inhomogeneous samples a train with rate lambda(t) by thinning: candidate
// spikes at the bounding rate are kept with probability lambda(t)/maxRate.
func Inhomogeneous(lambda RateFunc, maxRate, duration float64, seed int64) (Train, error) {
	if maxRate <= 0 {
		return Train{}, fmt.Errorf("%w: %g", ErrBadRate, maxRate)
	}
	if duration <= 0 {
		return Train{}, fmt.Errorf("%w: %g", ErrBadDuration, duration)
	}
	rng := rand.New(rand.NewSource(seed))
	train := Train{Duration: duration}
	for t := expInterval(rng, maxRate); t < duration; t += expInterval(rng, maxRate) {
		r := lambda(t)
		if r > maxRate {
			return Train{}, fmt.Errorf("%w: lambda(%g)=%g > %g", ErrRateBound, t, r, maxRate)
		}
		if rng.Float64() < r/maxRate {
			train.Times = append(train.Times, t)
		}
	}
	return train, nil
}

func (tr Train) Count() int { return len(tr.Times) }

// MeanRate is the empirical firing rate over the whole train.
func (tr Train) MeanRate() float64 {
	if tr.Duration == 0 {
		return 0
	}
	return float64(len(tr.Times)) / tr.Duration
}

// ISI returns the inter-spike intervals.
func (tr Train) ISI() []float64 {
	if len(tr.Times) < 2 {
		return nil
	}
	isi := make([]float64, len(tr.Times)-1)
	for i := 1; i < len(tr.Times); i++ {
		isi[i-1] = tr.Times[i] - tr.Times[i-1]
	}
	return isi
}

// CV is the coefficient of variation of the inter-spike intervals; a
// Poisson train has CV close to one.
func (tr Train) CV() float64 {
	isi := tr.ISI()
	if len(isi) < 2 {
		return math.NaN()
	}
	mean, variance := stat.MeanVariance(isi, nil)
	if mean == 0 {
		return math.NaN()
	}
	return math.Sqrt(variance) / mean
}

// FanoFactor is the variance-to-mean ratio of spike counts in windows of
// the given width; a Poisson train has Fano factor close to one.
func (tr Train) FanoFactor(window float64) float64 {
	if window <= 0 || tr.Duration < 2*window {
		return math.NaN()
	}
	numWindows := int(tr.Duration / window)
	counts := make([]float64, numWindows)
	for _, t := range tr.Times {
		w := int(t / window)
		if w < numWindows {
			counts[w]++
		}
	}
	mean, variance := stat.MeanVariance(counts, nil)
	if mean == 0 {
		return math.NaN()
	}
	return variance / mean
}
