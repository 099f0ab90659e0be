package scenario

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/banshee-data/sonar.track/internal/config"
	"github.com/banshee-data/sonar.track/internal/testutil"
)

func testScenarioConfig() Config {
	return Config{
		Dt:                1,
		Timesteps:         50,
		MaxRange:          5000,
		MaxDepth:          1000,
		BearingNoiseSigma: 0.1,
		Targets: []Target{
			{Position: [3]float64{500, 500, 70}, Velocity: [3]float64{1, 3, 0}},
			{Position: [3]float64{500, 20, 40}, Velocity: [3]float64{2, 0, 0}},
		},
	}
}

func TestGenerateDefaultTrajectory(t *testing.T) {
	t.Parallel()

	truth, err := Generate(testScenarioConfig(), NewRand(0, StreamBearings))
	require.NoError(t, err)
	require.Equal(t, 50, truth.Steps())
	require.Equal(t, 2, truth.NumTargets())

	assert.Equal(t, [3]float64{500, 500, 70}, truth.Positions[0][0])
	assert.Equal(t, [3]float64{549, 647, 70}, truth.Positions[49][0])
	assert.Equal(t, [3]float64{598, 20, 40}, truth.Positions[49][1])

	track := truth.Track(0)
	require.Len(t, track, 50)
	assert.Equal(t, truth.Positions[10][0], track[10])
}

func TestGenerateClipsRangeAndDepth(t *testing.T) {
	t.Parallel()

	cfg := testScenarioConfig()
	cfg.Timesteps = 10
	cfg.Targets = []Target{
		{Position: [3]float64{4990, 0, 995}, Velocity: [3]float64{5, 1, 2}},
		{Position: [3]float64{10, 0, 4}, Velocity: [3]float64{-5, -1, -2}},
	}
	truth, err := Generate(cfg, NewRand(1, StreamBearings))
	require.NoError(t, err)

	last := truth.Positions[9]
	assert.Equal(t, [3]float64{5000, 9, 1000}, last[0])
	assert.Equal(t, [3]float64{0, -9, 0}, last[1])
	for _, step := range truth.Positions {
		for _, p := range step {
			assert.GreaterOrEqual(t, p[0], 0.0)
			assert.LessOrEqual(t, p[0], 5000.0)
			assert.GreaterOrEqual(t, p[2], 0.0)
			assert.LessOrEqual(t, p[2], 1000.0)
		}
	}
}

func TestGenerateBearings(t *testing.T) {
	t.Parallel()

	cfg := testScenarioConfig()
	cfg.BearingNoiseSigma = 0
	truth, err := Generate(cfg, NewRand(0, StreamBearings))
	require.NoError(t, err)

	for k, step := range truth.Positions {
		for i, p := range step {
			assert.InDelta(t, math.Atan2(p[1], p[0]), truth.Bearings[k][i], 1e-15)
		}
	}
	assert.Len(t, truth.BearingsFor(1), 50)
}

func TestGenerateWrapsBearingsAcrossCut(t *testing.T) {
	t.Parallel()

	// Every target sits just above the negative x axis, so the noise-free
	// bearing is a hair under π and half of the noisy draws cross the cut.
	cfg := testScenarioConfig()
	cfg.Timesteps = 1
	cfg.BearingNoiseSigma = 0.5
	cfg.Targets = make([]Target, 200)
	for i := range cfg.Targets {
		cfg.Targets[i] = Target{Position: [3]float64{-1000, 1e-9, 10}}
	}
	truth, err := Generate(cfg, NewRand(3, StreamBearings))
	testutil.AssertNoError(t, err)

	var crossed int
	for i, b := range truth.Bearings[0] {
		assert.Greater(t, b, -math.Pi, "target %d", i)
		assert.LessOrEqual(t, b, math.Pi, "target %d", i)
		if b < 0 {
			crossed++
		}
	}
	assert.Positive(t, crossed)
	assert.Less(t, crossed, len(cfg.Targets))
}

func TestWrapAngle(t *testing.T) {
	t.Parallel()

	tests := []struct {
		in, want float64
	}{
		{0, 0},
		{math.Pi, math.Pi},
		{-math.Pi, math.Pi},
		{math.Pi + 0.25, -math.Pi + 0.25},
		{-math.Pi - 0.25, math.Pi - 0.25},
		{-0.5, -0.5},
	}
	for _, tt := range tests {
		assert.InDelta(t, tt.want, wrapAngle(tt.in), 1e-12, "wrapAngle(%g)", tt.in)
	}
}

func TestGenerateNoiseIsSeeded(t *testing.T) {
	t.Parallel()

	cfg := testScenarioConfig()
	a, err := Generate(cfg, NewRand(7, StreamBearings))
	testutil.AssertNoError(t, err)
	b, err := Generate(cfg, NewRand(7, StreamBearings))
	testutil.AssertNoError(t, err)
	c, err := Generate(cfg, NewRand(8, StreamBearings))
	testutil.AssertNoError(t, err)

	assert.Equal(t, a.Bearings, b.Bearings)
	assert.NotEqual(t, a.Bearings, c.Bearings)
	assert.Equal(t, a.Positions, c.Positions, "noise must not touch the trajectory")

	var sum float64
	for k, step := range a.Positions {
		d := a.Bearings[k][0] - math.Atan2(step[0][1], step[0][0])
		sum += d * d
	}
	rms := math.Sqrt(sum / float64(len(a.Positions)))
	assert.InDelta(t, 0.1, rms, 0.05)
}

func TestGenerateRejectsBadConfig(t *testing.T) {
	t.Parallel()

	cfg := testScenarioConfig()
	cfg.Targets = nil
	_, err := Generate(cfg, NewRand(0, 0))
	testutil.AssertError(t, err)

	_, err = Generate(testScenarioConfig(), nil)
	testutil.AssertError(t, err)

	cfg = testScenarioConfig()
	cfg.Dt = 0
	_, err = Generate(cfg, NewRand(0, 0))
	assert.ErrorContains(t, err, "timestep")
}

func TestAcousticPositions(t *testing.T) {
	t.Parallel()

	truth, err := Generate(testScenarioConfig(), NewRand(0, StreamBearings))
	require.NoError(t, err)

	ap := truth.AcousticPositions()
	require.Len(t, ap, 50)
	require.Len(t, ap[3], 2)
	assert.Equal(t, 503.0, ap[3][0].Range)
	assert.Equal(t, 509.0, ap[3][0].CrossRange)
	assert.Equal(t, 70.0, ap[3][0].Depth)
}

func TestConfigFromTuning(t *testing.T) {
	t.Parallel()

	cfg := ConfigFromTuning(config.EmptyTuningConfig())
	assert.Equal(t, testScenarioConfig(), cfg)

	assert.Equal(t, testScenarioConfig(), DefaultConfig())
}
