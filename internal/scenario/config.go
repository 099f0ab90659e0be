package scenario

import (
	"fmt"

	"github.com/banshee-data/sonar.track/internal/config"
)

// Target is an initial position (range, cross-range, depth) and a
// constant velocity.
type Target struct {
	Position [3]float64
	Velocity [3]float64
}

// Config holds the ground-truth parameters for one run.
type Config struct {
	Dt                float64
	Timesteps         int
	MaxRange          float64
	MaxDepth          float64
	BearingNoiseSigma float64
	Targets           []Target
}

// DefaultConfig returns scenario configuration loaded from the canonical
// tuning defaults file. Panics if the file cannot be found.
func DefaultConfig() Config {
	return ConfigFromTuning(config.MustLoadDefaultConfig())
}

// ConfigFromTuning builds a Config from a loaded TuningConfig.
func ConfigFromTuning(cfg *config.TuningConfig) Config {
	tcs := cfg.GetTargets()
	targets := make([]Target, len(tcs))
	for i, tc := range tcs {
		targets[i] = Target{Position: tc.Position, Velocity: tc.Velocity}
	}
	return Config{
		Dt:                cfg.GetTimestepS(),
		Timesteps:         cfg.GetTimesteps(),
		MaxRange:          cfg.GetMaxRange(),
		MaxDepth:          cfg.GetMaxDepth(),
		BearingNoiseSigma: cfg.GetBearingNoiseSigma(),
		Targets:           targets,
	}
}

// Validate reports the first unusable parameter.
func (c Config) Validate() error {
	switch {
	case !(c.Dt > 0):
		return fmt.Errorf("timestep must be positive, got %f", c.Dt)
	case c.Timesteps < 1:
		return fmt.Errorf("timesteps must be at least 1, got %d", c.Timesteps)
	case !(c.MaxRange > 0):
		return fmt.Errorf("max range must be positive, got %f", c.MaxRange)
	case !(c.MaxDepth > 0):
		return fmt.Errorf("max depth must be positive, got %f", c.MaxDepth)
	case c.BearingNoiseSigma < 0:
		return fmt.Errorf("bearing noise sigma must be non-negative, got %f", c.BearingNoiseSigma)
	case len(c.Targets) == 0:
		return fmt.Errorf("at least one target is required")
	}
	return nil
}
