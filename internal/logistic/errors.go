package logistic

import (
	"errors"
	"fmt"
)

// Domain errors for simulation configuration and execution.
var (
	// ErrInvalidConfig indicates a config that fails validation.
	ErrInvalidConfig = errors.New("logistic: invalid config")

	// ErrUnknownRegime indicates a noise regime outside the known set.
	ErrUnknownRegime = errors.New("logistic: unknown noise regime")

	// ErrEmptySnapshot indicates a snapshot with no samples.
	ErrEmptySnapshot = errors.New("logistic: empty snapshot")
)

// Validate fails fast on parameters that can never produce a meaningful
// ensemble. Numerically unstable but structurally valid configs pass; they
// degrade the ensemble instead (see Snapshot.Degraded).
func (c Config) Validate() error {
	if !c.Regime.Valid() {
		return fmt.Errorf("%w: %q", ErrUnknownRegime, c.Regime)
	}
	if c.Dt <= 0 {
		return fmt.Errorf("%w: dt must be positive, got %g", ErrInvalidConfig, c.Dt)
	}
	if c.K <= 0 {
		return fmt.Errorf("%w: carrying capacity must be positive, got %g", ErrInvalidConfig, c.K)
	}
	if c.Trajectories < 1 {
		return fmt.Errorf("%w: need at least one trajectory, got %d", ErrInvalidConfig, c.Trajectories)
	}
	if c.Steps < 0 {
		return fmt.Errorf("%w: steps must be non-negative, got %d", ErrInvalidConfig, c.Steps)
	}
	if c.Sigma < 0 {
		return fmt.Errorf("%w: sigma must be non-negative, got %g", ErrInvalidConfig, c.Sigma)
	}
	if c.N0 <= 0 {
		return fmt.Errorf("%w: initial population must be positive, got %g", ErrInvalidConfig, c.N0)
	}
	return nil
}
