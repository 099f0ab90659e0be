package acoustic

import "math"

// Pulse is a sampled transmit waveform. Samples are not modified after
// generation.
type Pulse struct {
	Samples    []float64
	SampleRate float64
}

// Len returns the pulse length in samples.
func (p Pulse) Len() int { return len(p.Samples) }

// Duration returns the pulse length in seconds.
func (p Pulse) Duration() float64 { return float64(len(p.Samples)) / p.SampleRate }

// TimeAxis returns t[i] = i / SampleRate for every sample.
func (p Pulse) TimeAxis() []float64 {
	t := make([]float64, len(p.Samples))
	for i := range t {
		t[i] = float64(i) / p.SampleRate
	}
	return t
}

// GeneratePulse returns sin(2π·fc·t + β·sin(2π·fm·t)) sampled over
// [0, duration) at sampleRate. The length is round(duration·sampleRate).
func GeneratePulse(carrierHz, duration, sampleRate, fmHz, fmIndex float64) Pulse {
	n := int(math.Round(duration * sampleRate))
	if n < 0 {
		n = 0
	}
	samples := make([]float64, n)
	for i := range samples {
		t := float64(i) / sampleRate
		samples[i] = math.Sin(2*math.Pi*carrierHz*t + fmIndex*math.Sin(2*math.Pi*fmHz*t))
	}
	return Pulse{Samples: samples, SampleRate: sampleRate}
}

// NewPulse generates the transmit pulse described by cfg.
func NewPulse(cfg Config) Pulse {
	return GeneratePulse(cfg.CarrierHz, cfg.PulseWidthS, cfg.SampleRateHz, cfg.FMHz, cfg.FMIndex)
}
