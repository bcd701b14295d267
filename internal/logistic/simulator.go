package logistic

import (
	"context"
	"math"
	"math/rand"
)

// Simulator advances populations under a fixed config.
type Simulator struct {
	cfg Config
}

func New(cfg Config) (*Simulator, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &Simulator{cfg: cfg}, nil
}

func (s *Simulator) Config() Config { return s.cfg }

// step applies one discretized update. Zero is absorbing.
func (s *Simulator) step(n float64, rng *rand.Rand) float64 {
	if n == 0 {
		return 0
	}

	drift := s.cfg.R * n * (1 - n/s.cfg.K) * s.cfg.Dt

	var amp float64
	switch s.cfg.Regime {
	case Demographic:
		amp = s.cfg.Sigma * math.Sqrt(n)
	default:
		amp = s.cfg.Sigma * n
	}
	noise := amp * math.Sqrt(s.cfg.Dt) * rng.NormFloat64()

	next := n + drift + noise
	if next < 0 {
		return 0
	}
	return next
}

// RunTrajectory produces one trajectory of Steps+1 samples using the
// deterministic stream for the given trajectory index. NaN or Inf samples
// are recorded as-is; they signal an unstable config to the caller.
func (s *Simulator) RunTrajectory(ctx context.Context, index int) (Trajectory, error) {
	w := s.Walker(index)
	traj := make(Trajectory, 0, s.cfg.Steps+1)
	traj = append(traj, w.Population())

	for i := 0; i < s.cfg.Steps; i++ {
		select {
		case <-ctx.Done():
			return traj, ctx.Err()
		default:
		}
		traj = append(traj, w.Next())
	}
	return traj, nil
}

// Walker returns a stepping cursor for one trajectory. The live view uses
// it directly; RunTrajectory wraps it.
func (s *Simulator) Walker(index int) *Walker {
	return &Walker{
		sim: s,
		rng: rand.New(rand.NewSource(s.cfg.Seed + int64(index))),
		n:   s.cfg.N0,
	}
}

// Walker advances a single population path step by step.
type Walker struct {
	sim  *Simulator
	rng  *rand.Rand
	n    float64
	t    float64
	step int
}

func (w *Walker) Population() float64 { return w.n }
func (w *Walker) Time() float64       { return w.t }
func (w *Walker) Step() int           { return w.step }
func (w *Walker) Extinct() bool       { return w.n == 0 }

// Next advances one step and returns the new population.
func (w *Walker) Next() float64 {
	w.n = w.sim.step(w.n, w.rng)
	w.t += w.sim.cfg.Dt
	w.step++
	return w.n
}
