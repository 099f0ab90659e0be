package tracking

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/banshee-data/sonar.track/internal/config"
)

func TestRunEmptySequence(t *testing.T) {
	t.Parallel()

	u := newTestTracker(t, []float64{500, 500, 1, 3}, eye(4, 1), eye(4, 0.001), [][]float64{{0.2}})
	estimates, err := Run(u, nil)
	require.NoError(t, err)
	assert.Empty(t, estimates)
	assert.Equal(t, StateInitialized, u.State())
}

func TestRunUninitialized(t *testing.T) {
	t.Parallel()

	u, err := NewUKF(MotionModel{Dt: 1}, defaultSigma)
	require.NoError(t, err)
	estimates, err := RunBearings(u, []float64{0.1, 0.2})
	assert.ErrorIs(t, err, ErrNotInitialized)
	assert.Contains(t, err.Error(), "measurement 0: predict")
	assert.Empty(t, estimates)
}

func TestRunEstimatesAreIndependentCopies(t *testing.T) {
	t.Parallel()

	u := newTestTracker(t, []float64{500, 500, 1, 3}, eye(4, 1), eye(4, 0.001), [][]float64{{0.2}})
	estimates, err := RunBearings(u, []float64{Bearing(501, 503), Bearing(502, 506)})
	require.NoError(t, err)
	require.Len(t, estimates, 2)

	estimates[0][0] = 0
	assert.NotEqual(t, 0.0, u.Mean()[0])
	assert.Equal(t, u.Mean(), estimates[1])
}

func TestParamsFromTuning(t *testing.T) {
	t.Parallel()

	p := ParamsFromTuning(config.EmptyTuningConfig())
	assert.Equal(t, 1.0, p.Dt)
	assert.Equal(t, SigmaParams{Alpha: 0.1, Beta: 2, Kappa: 1}, p.Sigma)
	assert.Equal(t, []float64{500, 500, 1, 3}, p.InitialState)
	assert.Equal(t, [][]float64{{0.2}}, p.MeasurementNoise)

	u, err := NewTracker(p)
	require.NoError(t, err)
	assert.Equal(t, StateInitialized, u.State())
}

func TestDefaultParamsBuildTracker(t *testing.T) {
	t.Parallel()

	u, err := NewTracker(DefaultParams())
	require.NoError(t, err)
	assert.Equal(t, []float64{500, 500, 1, 3}, u.Mean())
}

func TestNewTrackerRejectsBadTimestep(t *testing.T) {
	t.Parallel()

	p := ParamsFromTuning(config.EmptyTuningConfig())
	p.Dt = 0
	_, err := NewTracker(p)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "timestep")
}
