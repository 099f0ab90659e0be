package config

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
)

// DefaultConfigPath is the path to the canonical tuning defaults file.
// This is the single source of truth for all default tuning values.
const DefaultConfigPath = "config/tuning.defaults.json"

// TargetConfig describes one ground-truth target: initial position
// (range, cross-range, depth) in metres and constant velocity in m/s.
// Depth is positive down.
type TargetConfig struct {
	Position [3]float64 `json:"position"`
	Velocity [3]float64 `json:"velocity"`
}

// TuningConfig represents the root configuration for a simulation run.
// Every component derives its own parameters from one loaded TuningConfig
// at construction; nothing is re-tunable mid-run.
type TuningConfig struct {
	// Geometry
	MaxDepth   *float64 `json:"max_depth,omitempty"`
	MaxRange   *float64 `json:"max_range,omitempty"`
	NumRays    *int     `json:"num_rays,omitempty"`
	RayFanDeg  *float64 `json:"ray_fan_deg,omitempty"` // half-width of the launch fan
	RaySamples *int     `json:"ray_samples,omitempty"`

	// Sound speed profile: c0 + k·depth
	SoundSpeedSurface  *float64 `json:"sound_speed_surface,omitempty"`
	SoundSpeedGradient *float64 `json:"sound_speed_gradient,omitempty"`

	// Pulse
	CarrierHz    *float64 `json:"carrier_hz,omitempty"`
	PulseWidthS  *float64 `json:"pulse_width_s,omitempty"`
	SampleRateHz *float64 `json:"sample_rate_hz,omitempty"` // 0 or unset means 2·carrier
	FMHz         *float64 `json:"fm_hz,omitempty"`
	FMIndex      *float64 `json:"fm_index,omitempty"`

	// Channel
	AttenuationAlpha       *float64 `json:"attenuation_alpha,omitempty"`
	AttenuationFluctuation *float64 `json:"attenuation_fluctuation,omitempty"`
	FluctuationHz          *float64 `json:"fluctuation_hz,omitempty"`
	DopplerSigma           *float64 `json:"doppler_sigma,omitempty"`
	NoiseSigma             *float64 `json:"noise_sigma,omitempty"`

	// Timing
	TimestepS *float64 `json:"timestep_s,omitempty"`
	Timesteps *int     `json:"timesteps,omitempty"`

	// Unscented filter
	UKFAlpha          *float64    `json:"ukf_alpha,omitempty"`
	UKFBeta           *float64    `json:"ukf_beta,omitempty"`
	UKFKappa          *float64    `json:"ukf_kappa,omitempty"`
	InitialState      []float64   `json:"initial_state,omitempty"`
	InitialCovariance [][]float64 `json:"initial_covariance,omitempty"`
	ProcessNoise      [][]float64 `json:"process_noise,omitempty"`
	MeasurementNoise  [][]float64 `json:"measurement_noise,omitempty"`

	// Ground truth
	BearingNoiseSigma *float64       `json:"bearing_noise_sigma,omitempty"`
	Seed              *uint64        `json:"seed,omitempty"`
	Targets           []TargetConfig `json:"targets,omitempty"`
}

// Helper functions to create pointers
func ptrFloat64(v float64) *float64 { return &v }
func ptrInt(v int) *int { return &v }
func ptrUint64(v uint64) *uint64 { return &v }

// EmptyTuningConfig returns a TuningConfig with all fields set to nil.
// Use LoadTuningConfig to load actual values from the defaults file.
func EmptyTuningConfig() *TuningConfig {
	return &TuningConfig{}
}

// LoadTuningConfig loads a TuningConfig from a JSON file.
// The file is validated to ensure it has a .json extension and is under the max file size.
// Fields omitted from the JSON file fall back to the Get* defaults, so
// partial configs are safe.
func LoadTuningConfig(path string) (*TuningConfig, error) {
	cleanPath := filepath.Clean(path)
	if ext := filepath.Ext(cleanPath); ext != ".json" {
		return nil, fmt.Errorf("config file must have .json extension, got %q", ext)
	}

	fileInfo, err := os.Stat(cleanPath)
	if err != nil {
		return nil, fmt.Errorf("failed to stat config file: %w", err)
	}
	const maxFileSize = 1 * 1024 * 1024 // 1MB
	if fileInfo.Size() > maxFileSize {
		return nil, fmt.Errorf("config file too large: %d bytes (max %d)", fileInfo.Size(), maxFileSize)
	}

	data, err := os.ReadFile(cleanPath)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	cfg := EmptyTuningConfig()
	if err := json.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config JSON: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}

	return cfg, nil
}

// MustLoadDefaultConfig loads the canonical tuning defaults from DefaultConfigPath.
// It searches for the file in the current directory and common parent directories.
// Panics if the file cannot be loaded, intended for test setup.
func MustLoadDefaultConfig() *TuningConfig {
	candidates := []string{
		DefaultConfigPath,
		"../" + DefaultConfigPath,       // from cmd/<tool>/ run dirs
		"../../" + DefaultConfigPath,    // from internal/<pkg>/
		"../../../" + DefaultConfigPath, // deeper packages
	}
	for _, path := range candidates {
		if cfg, err := LoadTuningConfig(path); err == nil {
			return cfg
		}
	}
	panic("cannot find " + DefaultConfigPath + " - run tests from repository root")
}

// Validate checks that the configuration values are valid.
// Matrix shapes are checked by the tracking package, which owns the
// dimensional contract between state, covariance and noise.
func (c *TuningConfig) Validate() error {
	positive := []struct {
		name string
		v    *float64
	}{
		{"max_depth", c.MaxDepth},
		{"max_range", c.MaxRange},
		{"carrier_hz", c.CarrierHz},
		{"pulse_width_s", c.PulseWidthS},
		{"sound_speed_surface", c.SoundSpeedSurface},
		{"timestep_s", c.TimestepS},
		{"ukf_alpha", c.UKFAlpha},
	}
	for _, p := range positive {
		if p.v != nil && !(*p.v > 0) {
			return fmt.Errorf("%s must be positive, got %f", p.name, *p.v)
		}
	}

	nonNegative := []struct {
		name string
		v    *float64
	}{
		{"ray_fan_deg", c.RayFanDeg},
		{"sample_rate_hz", c.SampleRateHz},
		{"attenuation_alpha", c.AttenuationAlpha},
		{"doppler_sigma", c.DopplerSigma},
		{"noise_sigma", c.NoiseSigma},
		{"bearing_noise_sigma", c.BearingNoiseSigma},
		{"ukf_beta", c.UKFBeta},
	}
	for _, p := range nonNegative {
		if p.v != nil && *p.v < 0 {
			return fmt.Errorf("%s must be non-negative, got %f", p.name, *p.v)
		}
	}

	if c.RayFanDeg != nil && *c.RayFanDeg >= 90 {
		return fmt.Errorf("ray_fan_deg must be below 90, got %f", *c.RayFanDeg)
	}
	if c.NumRays != nil && *c.NumRays < 1 {
		return fmt.Errorf("num_rays must be at least 1, got %d", *c.NumRays)
	}
	if c.RaySamples != nil && *c.RaySamples < 2 {
		return fmt.Errorf("ray_samples must be at least 2, got %d", *c.RaySamples)
	}
	if c.Timesteps != nil && *c.Timesteps < 1 {
		return fmt.Errorf("timesteps must be at least 1, got %d", *c.Timesteps)
	}

	return nil
}

// GetMaxDepth returns the depth ceiling in metres or the default.
func (c *TuningConfig) GetMaxDepth() float64 {
	if c.MaxDepth == nil {
		return 1000
	}
	return *c.MaxDepth
}

// GetMaxRange returns the maximum range in metres or the default.
func (c *TuningConfig) GetMaxRange() float64 {
	if c.MaxRange == nil {
		return 5000
	}
	return *c.MaxRange
}

// GetNumRays returns the num_rays value or the default.
func (c *TuningConfig) GetNumRays() int {
	if c.NumRays == nil {
		return 20
	}
	return *c.NumRays
}

// GetRayFanDeg returns the launch fan half-width in degrees or the default.
func (c *TuningConfig) GetRayFanDeg() float64 {
	if c.RayFanDeg == nil {
		return 30
	}
	return *c.RayFanDeg
}

// GetRaySamples returns the number of range samples per ray or the default.
func (c *TuningConfig) GetRaySamples() int {
	if c.RaySamples == nil {
		return 1000
	}
	return *c.RaySamples
}

// GetSoundSpeedSurface returns c0 in m/s or the default.
func (c *TuningConfig) GetSoundSpeedSurface() float64 {
	if c.SoundSpeedSurface == nil {
		return 1500
	}
	return *c.SoundSpeedSurface
}

// GetSoundSpeedGradient returns k in 1/s or the default.
func (c *TuningConfig) GetSoundSpeedGradient() float64 {
	if c.SoundSpeedGradient == nil {
		return 0.017
	}
	return *c.SoundSpeedGradient
}

// GetCarrierHz returns the carrier_hz value or the default.
func (c *TuningConfig) GetCarrierHz() float64 {
	if c.CarrierHz == nil {
		return 20e3
	}
	return *c.CarrierHz
}

// GetPulseWidthS returns the pulse_width_s value or the default.
func (c *TuningConfig) GetPulseWidthS() float64 {
	if c.PulseWidthS == nil {
		return 0.01
	}
	return *c.PulseWidthS
}

// GetSampleRateHz returns the sample rate, defaulting to twice the carrier.
func (c *TuningConfig) GetSampleRateHz() float64 {
	if c.SampleRateHz == nil || *c.SampleRateHz == 0 {
		return 2 * c.GetCarrierHz()
	}
	return *c.SampleRateHz
}

// GetFMHz returns the fm_hz value or the default.
func (c *TuningConfig) GetFMHz() float64 {
	if c.FMHz == nil {
		return 1000
	}
	return *c.FMHz
}

// GetFMIndex returns the fm_index value or the default.
func (c *TuningConfig) GetFMIndex() float64 {
	if c.FMIndex == nil {
		return 0.5
	}
	return *c.FMIndex
}

// GetAttenuationAlpha returns the attenuation_alpha value (1/m) or the default.
func (c *TuningConfig) GetAttenuationAlpha() float64 {
	if c.AttenuationAlpha == nil {
		return 0.001
	}
	return *c.AttenuationAlpha
}

// GetAttenuationFluctuation returns the attenuation_fluctuation value or the default.
func (c *TuningConfig) GetAttenuationFluctuation() float64 {
	if c.AttenuationFluctuation == nil {
		return 0.1
	}
	return *c.AttenuationFluctuation
}

// GetFluctuationHz returns the fluctuation_hz value or the default.
func (c *TuningConfig) GetFluctuationHz() float64 {
	if c.FluctuationHz == nil {
		return 0.1
	}
	return *c.FluctuationHz
}

// GetDopplerSigma returns the doppler_sigma value or the default.
func (c *TuningConfig) GetDopplerSigma() float64 {
	if c.DopplerSigma == nil {
		return 0.01
	}
	return *c.DopplerSigma
}

// GetNoiseSigma returns the noise_sigma value or the default.
func (c *TuningConfig) GetNoiseSigma() float64 {
	if c.NoiseSigma == nil {
		return 0.01
	}
	return *c.NoiseSigma
}

// GetTimestepS returns the timestep_s value or the default.
func (c *TuningConfig) GetTimestepS() float64 {
	if c.TimestepS == nil {
		return 1
	}
	return *c.TimestepS
}

// GetTimesteps returns the timesteps value or the default.
func (c *TuningConfig) GetTimesteps() int {
	if c.Timesteps == nil {
		return 50
	}
	return *c.Timesteps
}

// GetUKFAlpha returns the sigma-point spread or the default.
func (c *TuningConfig) GetUKFAlpha() float64 {
	if c.UKFAlpha == nil {
		return 0.1
	}
	return *c.UKFAlpha
}

// GetUKFBeta returns the ukf_beta value or the default (2 is optimal for Gaussians).
func (c *TuningConfig) GetUKFBeta() float64 {
	if c.UKFBeta == nil {
		return 2
	}
	return *c.UKFBeta
}

// GetUKFKappa returns the ukf_kappa value or the default.
func (c *TuningConfig) GetUKFKappa() float64 {
	if c.UKFKappa == nil {
		return 1
	}
	return *c.UKFKappa
}

// GetInitialState returns a copy of the initial state estimate or the default.
func (c *TuningConfig) GetInitialState() []float64 {
	if len(c.InitialState) == 0 {
		return []float64{500, 500, 1, 3}
	}
	return append([]float64(nil), c.InitialState...)
}

// GetInitialCovariance returns a copy of P0 or the default identity.
func (c *TuningConfig) GetInitialCovariance() [][]float64 {
	if len(c.InitialCovariance) == 0 {
		return diagonal(4, 1)
	}
	return cloneMatrix(c.InitialCovariance)
}

// GetProcessNoise returns a copy of Q or the default 0.001·I.
func (c *TuningConfig) GetProcessNoise() [][]float64 {
	if len(c.ProcessNoise) == 0 {
		return diagonal(4, 0.001)
	}
	return cloneMatrix(c.ProcessNoise)
}

// GetMeasurementNoise returns a copy of R or the default [[0.2]].
func (c *TuningConfig) GetMeasurementNoise() [][]float64 {
	if len(c.MeasurementNoise) == 0 {
		return [][]float64{{0.2}}
	}
	return cloneMatrix(c.MeasurementNoise)
}

// GetBearingNoiseSigma returns the bearing_noise_sigma value (radians) or the default.
func (c *TuningConfig) GetBearingNoiseSigma() float64 {
	if c.BearingNoiseSigma == nil {
		return 0.1
	}
	return *c.BearingNoiseSigma
}

// GetSeed returns the seed value or the default.
func (c *TuningConfig) GetSeed() uint64 {
	if c.Seed == nil {
		return 0
	}
	return *c.Seed
}

// GetTargets returns the configured targets or the two default targets.
func (c *TuningConfig) GetTargets() []TargetConfig {
	if len(c.Targets) == 0 {
		return []TargetConfig{
			{Position: [3]float64{500, 500, 70}, Velocity: [3]float64{1, 3, 0}},
			{Position: [3]float64{500, 20, 40}, Velocity: [3]float64{2, 0, 0}},
		}
	}
	return append([]TargetConfig(nil), c.Targets...)
}

func diagonal(n int, v float64) [][]float64 {
	m := make([][]float64, n)
	for i := range m {
		m[i] = make([]float64, n)
		m[i][i] = v
	}
	return m
}

func cloneMatrix(src [][]float64) [][]float64 {
	m := make([][]float64, len(src))
	for i, row := range src {
		m[i] = append([]float64(nil), row...)
	}
	return m
}
