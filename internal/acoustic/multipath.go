package acoustic

import (
	"fmt"
	"math"
	"math/rand/v2"

	"gonum.org/v1/gonum/interp"
	"gonum.org/v1/gonum/stat/distuv"
)

// TargetPosition is a target snapshot in the sonar frame: range and
// cross-range in metres, depth in metres positive down. Only Range and
// Depth enter the propagation model.
type TargetPosition struct {
	Range      float64
	CrossRange float64
	Depth      float64
}

// Arrival describes what one ray path contributed to a return.
type Arrival struct {
	PathIndex     int
	ClosestIndex  int     // Sample on the path nearest the target
	Distance      float64 // Closest-approach distance (metres)
	SoundSpeed    float64 // Local speed at the closest-approach depth (m/s)
	DelaySamples  int
	Attenuation   float64
	DopplerFactor float64
	InRange       bool // Distance within MaxRange
	Contributed   bool // Added energy to the return buffer
}

// Synthesizer composes the received signal for a target from delayed,
// Doppler-stretched, attenuated copies of the pulse arriving along each
// ray path, plus additive sensor noise.
type Synthesizer struct {
	cfg     Config
	profile SoundSpeedProfile
	paths   []RayPath
	pulse   Pulse

	timeAxis []float64
	shape    *interp.PiecewiseLinear // pulse samples over timeAxis; nil for pulses shorter than 2 samples
}

// NewSynthesizer builds a synthesizer from cfg: it traces the ray fan and
// generates the transmit pulse once.
func NewSynthesizer(cfg Config) (*Synthesizer, error) {
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid acoustic config: %w", err)
	}
	return NewSynthesizerWith(cfg, NewRayTracer(cfg).Trace(), NewPulse(cfg))
}

// NewSynthesizerWith builds a synthesizer over caller-supplied paths and
// pulse. Paths are used read-only.
func NewSynthesizerWith(cfg Config, paths []RayPath, pulse Pulse) (*Synthesizer, error) {
	for i, p := range paths {
		if len(p.Range) != len(p.Depth) || len(p.Range) == 0 {
			return nil, fmt.Errorf("ray path %d has mismatched or empty samples: %d ranges, %d depths",
				i, len(p.Range), len(p.Depth))
		}
	}
	if pulse.SampleRate <= 0 {
		return nil, fmt.Errorf("pulse sample rate must be positive, got %f", pulse.SampleRate)
	}

	s := &Synthesizer{
		cfg:      cfg,
		profile:  NewSoundSpeedProfile(cfg),
		paths:    paths,
		pulse:    pulse,
		timeAxis: pulse.TimeAxis(),
	}
	if pulse.Len() >= 2 {
		s.shape = &interp.PiecewiseLinear{}
		if err := s.shape.Fit(s.timeAxis, pulse.Samples); err != nil {
			return nil, fmt.Errorf("fit pulse interpolator: %w", err)
		}
	} else {
		opsf("pulse has %d samples, Doppler stretch disabled", pulse.Len())
	}
	return s, nil
}

// Paths returns the ray paths the synthesizer propagates along.
func (s *Synthesizer) Paths() []RayPath { return s.paths }

// Pulse returns the transmit pulse.
func (s *Synthesizer) Pulse() Pulse { return s.pulse }

// Profile returns the sound speed profile.
func (s *Synthesizer) Profile() SoundSpeedProfile { return s.profile }

// Return synthesizes the received signal for one target at the given
// elapsed time (seconds). The result always has the pulse's length.
// rng must be non-nil and must not be shared with concurrent callers.
func (s *Synthesizer) Return(target TargetPosition, elapsed float64, rng *rand.Rand) []float64 {
	out, _ := s.ReturnWithArrivals(target, elapsed, rng)
	return out
}

// ReturnWithArrivals is Return plus per-path diagnostics, one Arrival per
// ray path in path order.
func (s *Synthesizer) ReturnWithArrivals(target TargetPosition, elapsed float64, rng *rand.Rand) ([]float64, []Arrival) {
	if rng == nil {
		panic("acoustic: Return requires a non-nil random generator")
	}
	n := s.pulse.Len()
	out := make([]float64, n)
	arrivals := make([]Arrival, len(s.paths))
	doppler := distuv.Normal{Mu: 0, Sigma: s.cfg.DopplerSigma, Src: rng}

	for i, path := range s.paths {
		idx, dist := path.ClosestApproach(target.Range, target.Depth)
		a := Arrival{PathIndex: i, ClosestIndex: idx, Distance: dist}

		// Out-of-range paths are skipped before any random draw.
		if dist > s.cfg.MaxRange {
			tracef("path %d excluded: closest distance %.1fm beyond max range %.1fm", i, dist, s.cfg.MaxRange)
			arrivals[i] = a
			continue
		}
		a.InRange = true

		a.SoundSpeed = s.profile.Speed(path.Depth[idx])
		a.DelaySamples = int(dist / a.SoundSpeed * s.pulse.SampleRate)
		a.Attenuation = s.attenuation(dist, elapsed)
		a.DopplerFactor = 1 + doppler.Rand()

		if a.DelaySamples >= 0 && a.DelaySamples < n {
			stretched := s.resample(a.DopplerFactor)
			for j := a.DelaySamples; j < n; j++ {
				out[j] += a.Attenuation * stretched[j-a.DelaySamples]
			}
			a.Contributed = true
		}
		arrivals[i] = a
	}

	s.addNoise(out, rng)
	return out, arrivals
}

// ReturnSeries synthesizes one composite return per timestep. positions
// is indexed [step][target]; step j is evaluated at elapsed time j·dt and
// sums the returns of every target present at that step.
func (s *Synthesizer) ReturnSeries(positions [][]TargetPosition, dt float64, rng *rand.Rand) [][]float64 {
	series := make([][]float64, len(positions))
	for j, targets := range positions {
		buf := make([]float64, s.pulse.Len())
		elapsed := float64(j) * dt
		for _, tgt := range targets {
			ret := s.Return(tgt, elapsed, rng)
			for k, v := range ret {
				buf[k] += v
			}
		}
		series[j] = buf
	}
	return series
}

// attenuation is exp(-α·d·(1 + β·sin(2π·f·t))).
func (s *Synthesizer) attenuation(dist, elapsed float64) float64 {
	envelope := 1 + s.cfg.AttenuationFluctuation*math.Sin(2*math.Pi*s.cfg.FluctuationHz*elapsed)
	return math.Exp(-s.cfg.AttenuationAlpha * dist * envelope)
}

// resample evaluates the pulse at t·factor by linear interpolation over
// the original time axis, holding the end values outside it.
func (s *Synthesizer) resample(factor float64) []float64 {
	out := make([]float64, len(s.timeAxis))
	if s.shape == nil {
		copy(out, s.pulse.Samples)
		return out
	}
	for i, t := range s.timeAxis {
		out[i] = s.shape.Predict(t * factor)
	}
	return out
}

func (s *Synthesizer) addNoise(buf []float64, rng *rand.Rand) {
	noise := distuv.Normal{Mu: 0, Sigma: s.cfg.NoiseSigma, Src: rng}
	for i := range buf {
		buf[i] += noise.Rand()
	}
}
