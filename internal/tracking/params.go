package tracking

import (
	"github.com/banshee-data/sonar.track/internal/config"
)

// Params holds everything needed to construct and initialize a bearing
// tracker. Matrices are row-major [][]float64 as they appear in the
// tuning file.
type Params struct {
	Dt                float64
	Sigma             SigmaParams
	InitialState      []float64
	InitialCovariance [][]float64
	ProcessNoise      [][]float64
	MeasurementNoise  [][]float64
}

// DefaultParams returns tracker parameters loaded from the canonical
// tuning defaults file. Panics if the file cannot be found.
func DefaultParams() Params {
	return ParamsFromTuning(config.MustLoadDefaultConfig())
}

// ParamsFromTuning builds Params from a loaded TuningConfig.
func ParamsFromTuning(cfg *config.TuningConfig) Params {
	return Params{
		Dt: cfg.GetTimestepS(),
		Sigma: SigmaParams{
			Alpha: cfg.GetUKFAlpha(),
			Beta:  cfg.GetUKFBeta(),
			Kappa: cfg.GetUKFKappa(),
		},
		InitialState:      cfg.GetInitialState(),
		InitialCovariance: cfg.GetInitialCovariance(),
		ProcessNoise:      cfg.GetProcessNoise(),
		MeasurementNoise:  cfg.GetMeasurementNoise(),
	}
}

// NewTracker returns an initialized bearing-only UKF over the
// constant-velocity MotionModel.
func NewTracker(p Params) (*UKF, error) {
	if !(p.Dt > 0) {
		return nil, configErrorf("timestep", "must be positive, got %g", p.Dt)
	}
	u, err := NewUKF(MotionModel{Dt: p.Dt}, p.Sigma)
	if err != nil {
		return nil, err
	}
	if err := u.Initialize(p.InitialState, p.InitialCovariance, p.ProcessNoise, p.MeasurementNoise); err != nil {
		return nil, err
	}
	return u, nil
}
