package logistic

import (
	"math"

	"gonum.org/v1/gonum/stat"
)

// Regime selects the multiplicative-noise model.
type Regime string

const (
	Environmental Regime = "environmental"
	Demographic   Regime = "demographic"
)

func (r Regime) Valid() bool {
	return r == Environmental || r == Demographic
}

// Config holds the parameters of one ensemble run. It is immutable once
// handed to a Simulator.
type Config struct {
	Regime       Regime
	R            float64 // growth rate
	K            float64 // carrying capacity
	Sigma        float64 // noise intensity
	Dt           float64
	Steps        int // steps per trajectory; trajectories have Steps+1 samples
	Trajectories int
	Seed         int64
	N0           float64 // initial population
}

func DefaultConfig() Config {
	return Config{
		Regime:       Environmental,
		R:            1.0,
		K:            100.0,
		Sigma:        0.2,
		Dt:           0.01,
		Steps:        5000,
		Trajectories: 1000,
		Seed:         42,
		N0:           50.0,
	}
}

// ExtinctionExpected reports whether the noise is strong enough that
// frequent extinction is a normal outcome rather than a sign of a bad dt.
func (c Config) ExtinctionExpected() bool {
	switch c.Regime {
	case Demographic:
		return c.Sigma*c.Sigma >= c.R*c.K/2
	default:
		return c.Sigma*c.Sigma >= 2*c.R
	}
}

// Trajectory is one simulated population path, Steps+1 samples long.
type Trajectory []float64

func (t Trajectory) Final() float64 {
	if len(t) == 0 {
		return math.NaN()
	}
	return t[len(t)-1]
}

func (t Trajectory) Extinct() bool {
	return len(t) > 0 && t[len(t)-1] == 0
}

// IsValid reports whether the trajectory is free of NaN and Inf samples.
func (t Trajectory) IsValid() bool {
	for _, v := range t {
		if math.IsNaN(v) || math.IsInf(v, 0) {
			return false
		}
	}
	return true
}

// Snapshot collects the final-time population of every trajectory in an
// ensemble. It is read-only once the ensemble completes.
type Snapshot struct {
	Samples []float64
	Extinct int // trajectories absorbed at zero
	Invalid int // trajectories that produced NaN/Inf
	Config  Config
}

func (s *Snapshot) ExtinctionFraction() float64 {
	if len(s.Samples) == 0 {
		return 0
	}
	return float64(s.Extinct) / float64(len(s.Samples))
}

// MeanVariance returns the sample mean and unbiased variance of the
// final-time populations.
func (s *Snapshot) MeanVariance() (mean, variance float64) {
	return stat.MeanVariance(s.Samples, nil)
}

// Degraded reports whether the ensemble looks non-physical: a large share
// of trajectories went extinct even though the parameters say extinction
// should be rare. This is a warning, never an error.
func (s *Snapshot) Degraded() bool {
	if s.Invalid > 0 {
		return true
	}
	return s.ExtinctionFraction() > 0.1 && !s.Config.ExtinctionExpected()
}
