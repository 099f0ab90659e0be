package report

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/banshee-data/sonar.track/internal/acoustic"
	"github.com/banshee-data/sonar.track/internal/config"
	"github.com/banshee-data/sonar.track/internal/scenario"
)

func testTrack(n int) ([][3]float64, [][]float64) {
	truth := make([][3]float64, n)
	est := make([][]float64, n)
	for k := range truth {
		truth[k] = [3]float64{500 + float64(k), 500 + 3*float64(k), 70}
		est[k] = []float64{501 + float64(k), 503 + 3*float64(k), 1, 3}
	}
	return truth, est
}

func assertNonEmptyFile(t *testing.T, path string) {
	t.Helper()
	info, err := os.Stat(path)
	require.NoError(t, err)
	assert.Positive(t, info.Size())
}

func TestRunDir(t *testing.T) {
	t.Parallel()

	root := t.TempDir()
	id := NewRunID()
	dir, err := RunDir(root, id)
	require.NoError(t, err)
	assert.Equal(t, filepath.Join(root, id), dir)
	assert.DirExists(t, dir)

	_, err = RunDir(root, "../escape")
	assert.Error(t, err)
}

func TestResultsRoundTrip(t *testing.T) {
	t.Parallel()

	truth, est := testTrack(5)
	ev, err := scenario.Evaluate(est, truth)
	require.NoError(t, err)

	r := NewResults(42, config.EmptyTuningConfig())
	r.Truth = truth
	r.Estimates = est
	r.Evaluation = &ev
	r.ReturnEnergy = Energy([][]float64{{1, 2}, {3}})

	_, err = uuid.Parse(r.RunID)
	require.NoError(t, err)
	assert.Equal(t, "dev", r.Version)

	path := filepath.Join(t.TempDir(), "results.json")
	require.NoError(t, WriteJSON(r, path))

	got, err := ReadJSON(path)
	require.NoError(t, err)
	assert.Equal(t, r.RunID, got.RunID)
	assert.Equal(t, uint64(42), got.Seed)
	assert.Equal(t, truth, got.Truth)
	assert.Equal(t, est, got.Estimates)
	assert.Equal(t, []float64{5, 9}, got.ReturnEnergy)
	require.NotNil(t, got.Evaluation)
	assert.InDelta(t, ev.FinalError, got.Evaluation.FinalError, 1e-12)
	assert.True(t, r.CreatedAt.Equal(got.CreatedAt))
}

func TestReadJSONErrors(t *testing.T) {
	t.Parallel()

	_, err := ReadJSON(filepath.Join(t.TempDir(), "missing.json"))
	assert.Error(t, err)

	bad := filepath.Join(t.TempDir(), "bad.json")
	require.NoError(t, os.WriteFile(bad, []byte("{"), 0644))
	_, err = ReadJSON(bad)
	assert.ErrorContains(t, err, "parse")
}

func TestSaveTrajectoryPlot(t *testing.T) {
	t.Parallel()

	truth, est := testTrack(20)
	path := filepath.Join(t.TempDir(), "trajectory.png")
	require.NoError(t, SaveTrajectoryPlot(path, truth, est))
	assertNonEmptyFile(t, path)

	assert.Error(t, SaveTrajectoryPlot(path, nil, est))
}

func TestSaveRayFanPlot(t *testing.T) {
	t.Parallel()

	cfg := acoustic.Config{MaxDepth: 1000, MaxRange: 5000, NumRays: 5, FanHalfDeg: 30, RaySamples: 50}
	paths := acoustic.NewRayTracer(cfg).Trace()
	truth, _ := testTrack(10)

	path := filepath.Join(t.TempDir(), "rays.png")
	require.NoError(t, SaveRayFanPlot(path, paths, [][][3]float64{truth, truth}))
	assertNonEmptyFile(t, path)
}

func TestSaveReturnHeatMap(t *testing.T) {
	t.Parallel()

	series := make([][]float64, 6)
	for j := range series {
		series[j] = make([]float64, 40)
		for i := range series[j] {
			series[j][i] = float64((i+j)%7) - 3
		}
	}
	path := filepath.Join(t.TempDir(), "returns.png")
	require.NoError(t, SaveReturnHeatMap(path, series, 1, 40000))
	assertNonEmptyFile(t, path)

	flat := [][]float64{{0, 0}, {0, 0}}
	require.NoError(t, SaveReturnHeatMap(filepath.Join(t.TempDir(), "flat.png"), flat, 1, 10))

	assert.Error(t, SaveReturnHeatMap(path, [][]float64{{1, 2}}, 1, 10))
	assert.Error(t, SaveReturnHeatMap(path, [][]float64{{1, 2}, {1}}, 1, 10))
	assert.Error(t, SaveReturnHeatMap(path, flat, 0, 10))
}

func TestRenderTrackingHTML(t *testing.T) {
	t.Parallel()

	truth, est := testTrack(8)
	ev, err := scenario.Evaluate(est, truth)
	require.NoError(t, err)

	var buf bytes.Buffer
	require.NoError(t, RenderTrackingHTML(&buf, "run-1", truth, est, &ev))
	html := buf.String()
	assert.Contains(t, html, "Estimate vs Truth")
	assert.Contains(t, html, "Position Error")

	buf.Reset()
	require.NoError(t, RenderTrackingHTML(&buf, "run-2", truth, nil, nil))
	assert.False(t, strings.Contains(buf.String(), "Position Error"))

	path := filepath.Join(t.TempDir(), "tracking.html")
	require.NoError(t, WriteTrackingHTML(path, "run-3", truth, est, &ev))
	assertNonEmptyFile(t, path)
}

func TestTrackColors(t *testing.T) {
	t.Parallel()

	colors := trackColors(3)
	require.Len(t, colors, 3)
	assert.NotEqual(t, colors[0], colors[1])
	assert.NotEqual(t, colors[1], colors[2])
	assert.Empty(t, trackColors(0))
}
