package acoustic

import (
	"fmt"

	"github.com/banshee-data/sonar.track/internal/config"
)

// Config holds the fixed acoustic parameters shared by the ray tracer,
// pulse generator and return synthesizer.
type Config struct {
	// Geometry
	MaxDepth   float64 // Depth ceiling for the single-bounce rule (metres)
	MaxRange   float64 // Ray extent and arrival cut-off distance (metres)
	NumRays    int     // Rays in the launch fan
	FanHalfDeg float64 // Launch fan spans [-FanHalfDeg, +FanHalfDeg]
	RaySamples int     // Range samples per ray

	// Sound speed profile
	SurfaceSpeed  float64 // c0 (m/s)
	SpeedGradient float64 // k (1/s)

	// Pulse
	CarrierHz    float64
	PulseWidthS  float64
	SampleRateHz float64
	FMHz         float64 // Modulation frequency
	FMIndex      float64 // Modulation index β

	// Channel
	AttenuationAlpha       float64 // 1/m
	AttenuationFluctuation float64 // Relative depth of the slow envelope modulation
	FluctuationHz          float64
	DopplerSigma           float64 // Std dev of (doppler_factor - 1)
	NoiseSigma             float64 // Additive sensor noise std dev
}

// DefaultConfig returns acoustic configuration loaded from the canonical
// tuning defaults file. Panics if the file cannot be found.
func DefaultConfig() Config {
	return ConfigFromTuning(config.MustLoadDefaultConfig())
}

// ConfigFromTuning builds a Config from a loaded TuningConfig.
func ConfigFromTuning(cfg *config.TuningConfig) Config {
	return Config{
		MaxDepth:               cfg.GetMaxDepth(),
		MaxRange:               cfg.GetMaxRange(),
		NumRays:                cfg.GetNumRays(),
		FanHalfDeg:             cfg.GetRayFanDeg(),
		RaySamples:             cfg.GetRaySamples(),
		SurfaceSpeed:           cfg.GetSoundSpeedSurface(),
		SpeedGradient:          cfg.GetSoundSpeedGradient(),
		CarrierHz:              cfg.GetCarrierHz(),
		PulseWidthS:            cfg.GetPulseWidthS(),
		SampleRateHz:           cfg.GetSampleRateHz(),
		FMHz:                   cfg.GetFMHz(),
		FMIndex:                cfg.GetFMIndex(),
		AttenuationAlpha:       cfg.GetAttenuationAlpha(),
		AttenuationFluctuation: cfg.GetAttenuationFluctuation(),
		FluctuationHz:          cfg.GetFluctuationHz(),
		DopplerSigma:           cfg.GetDopplerSigma(),
		NoiseSigma:             cfg.GetNoiseSigma(),
	}
}

// Validate reports the first parameter that would make the acoustic
// components ill-defined.
func (c Config) Validate() error {
	switch {
	case !(c.MaxDepth > 0):
		return fmt.Errorf("max depth must be positive, got %f", c.MaxDepth)
	case !(c.MaxRange > 0):
		return fmt.Errorf("max range must be positive, got %f", c.MaxRange)
	case c.NumRays < 1:
		return fmt.Errorf("ray count must be at least 1, got %d", c.NumRays)
	case c.RaySamples < 2:
		return fmt.Errorf("ray samples must be at least 2, got %d", c.RaySamples)
	case !(c.SampleRateHz > 0):
		return fmt.Errorf("sample rate must be positive, got %f", c.SampleRateHz)
	case !(c.PulseWidthS > 0):
		return fmt.Errorf("pulse width must be positive, got %f", c.PulseWidthS)
	case !(c.SurfaceSpeed > 0):
		return fmt.Errorf("surface sound speed must be positive, got %f", c.SurfaceSpeed)
	case c.DopplerSigma < 0 || c.NoiseSigma < 0:
		return fmt.Errorf("noise sigmas must be non-negative")
	}
	return nil
}
