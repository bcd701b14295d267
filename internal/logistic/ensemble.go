package logistic

import (
	"context"
	"sync"
)

// RunEnsemble produces the configured number of independent trajectories
// and collects their final populations into a Snapshot. Trajectories are
// mutually independent, so they run concurrently; per-index seeding keeps
// the result identical to a sequential run.
func (s *Simulator) RunEnsemble(ctx context.Context) (*Snapshot, error) {
	n := s.cfg.Trajectories
	finals := make([]float64, n)
	trajs := make([]Trajectory, n)
	errs := make([]error, n)

	var wg sync.WaitGroup
	for i := 0; i < n; i++ {
		wg.Add(1)
		go func(idx int) {
			defer wg.Done()
			traj, err := s.RunTrajectory(ctx, idx)
			trajs[idx] = traj
			errs[idx] = err
			finals[idx] = traj.Final()
		}(i)
	}
	wg.Wait()

	for _, err := range errs {
		if err != nil {
			return nil, err
		}
	}

	snap := &Snapshot{Samples: finals, Config: s.cfg}
	for _, traj := range trajs {
		if traj.Extinct() {
			snap.Extinct++
		}
		if !traj.IsValid() {
			snap.Invalid++
		}
	}
	return snap, nil
}
