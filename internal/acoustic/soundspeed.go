package acoustic

// SoundSpeedProfile is the linear profile speed(depth) = C0 + K·depth,
// with depth in metres positive down.
type SoundSpeedProfile struct {
	C0 float64 // Speed at the surface (m/s)
	K  float64 // Gradient (1/s)
}

// NewSoundSpeedProfile returns the profile described by cfg.
func NewSoundSpeedProfile(cfg Config) SoundSpeedProfile {
	return SoundSpeedProfile{C0: cfg.SurfaceSpeed, K: cfg.SpeedGradient}
}

// Speed returns the sound speed in m/s at depth.
func (p SoundSpeedProfile) Speed(depth float64) float64 {
	return p.C0 + p.K*depth
}
