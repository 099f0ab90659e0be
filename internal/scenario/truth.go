package scenario

import (
	"fmt"
	"math"
	"math/rand/v2"

	"gonum.org/v1/gonum/stat/distuv"

	"github.com/banshee-data/sonar.track/internal/acoustic"
)

// Generator streams. Each consumer of randomness in a run gets its own
// PCG stream under the run seed so adding draws to one never shifts the
// other.
const (
	StreamBearings  uint64 = 1
	StreamAcoustics uint64 = 2
)

// NewRand returns a PCG generator for the given seed and stream.
func NewRand(seed, stream uint64) *rand.Rand {
	return rand.New(rand.NewPCG(seed, stream))
}

// Truth is the ground truth of one run. Positions and Bearings are indexed
// [step][target]; step 0 holds the initial positions.
type Truth struct {
	Dt        float64
	Positions [][][3]float64
	Bearings  [][]float64
}

// Generate integrates every target for cfg.Timesteps steps and draws one
// noisy bearing per target per step, wrapped to (-π, π]. Draws happen in
// step-major, target order.
func Generate(cfg Config, rng *rand.Rand) (*Truth, error) {
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid scenario config: %w", err)
	}
	if rng == nil {
		return nil, fmt.Errorf("scenario requires a random generator")
	}

	noise := distuv.Normal{Mu: 0, Sigma: cfg.BearingNoiseSigma, Src: rng}
	truth := &Truth{
		Dt:        cfg.Dt,
		Positions: make([][][3]float64, cfg.Timesteps),
		Bearings:  make([][]float64, cfg.Timesteps),
	}

	current := make([][3]float64, len(cfg.Targets))
	for i, tgt := range cfg.Targets {
		current[i] = tgt.Position
	}
	for k := 0; k < cfg.Timesteps; k++ {
		if k > 0 {
			next := make([][3]float64, len(current))
			for i, pos := range current {
				next[i] = cfg.step(pos, cfg.Targets[i].Velocity)
			}
			current = next
		}
		truth.Positions[k] = current
		bearings := make([]float64, len(current))
		for i, pos := range current {
			bearings[i] = wrapAngle(math.Atan2(pos[1], pos[0]) + noise.Rand())
		}
		truth.Bearings[k] = bearings
	}
	return truth, nil
}

func (c Config) step(pos, vel [3]float64) [3]float64 {
	var out [3]float64
	for j := range out {
		out[j] = pos[j] + vel[j]*c.Dt
	}
	out[0] = clamp(out[0], 0, c.MaxRange)
	out[2] = clamp(out[2], 0, c.MaxDepth)
	return out
}

// wrapAngle maps an angle in radians to (-π, π].
func wrapAngle(a float64) float64 {
	a = math.Mod(a+math.Pi, 2*math.Pi)
	if a <= 0 {
		a += 2 * math.Pi
	}
	return a - math.Pi
}

func clamp(v, lo, hi float64) float64 {
	return math.Max(lo, math.Min(hi, v))
}

// Steps returns the number of timesteps.
func (t *Truth) Steps() int { return len(t.Positions) }

// NumTargets returns the number of targets.
func (t *Truth) NumTargets() int {
	if len(t.Positions) == 0 {
		return 0
	}
	return len(t.Positions[0])
}

// Track returns one target's positions over time.
func (t *Truth) Track(target int) [][3]float64 {
	out := make([][3]float64, len(t.Positions))
	for k, step := range t.Positions {
		out[k] = step[target]
	}
	return out
}

// BearingsFor returns one target's noisy bearing sequence.
func (t *Truth) BearingsFor(target int) []float64 {
	out := make([]float64, len(t.Bearings))
	for k, step := range t.Bearings {
		out[k] = step[target]
	}
	return out
}

// AcousticPositions converts the positions to the synthesizer's frame,
// indexed [step][target].
func (t *Truth) AcousticPositions() [][]acoustic.TargetPosition {
	out := make([][]acoustic.TargetPosition, len(t.Positions))
	for k, step := range t.Positions {
		row := make([]acoustic.TargetPosition, len(step))
		for i, p := range step {
			row[i] = acoustic.TargetPosition{Range: p[0], CrossRange: p[1], Depth: p[2]}
		}
		out[k] = row
	}
	return out
}
