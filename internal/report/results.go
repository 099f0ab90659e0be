package report

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/google/uuid"
	"gonum.org/v1/gonum/floats"

	"github.com/banshee-data/sonar.track/internal/config"
	"github.com/banshee-data/sonar.track/internal/scenario"
	"github.com/banshee-data/sonar.track/internal/version"
)

// Results is the JSON summary of one run.
type Results struct {
	RunID     string    `json:"run_id"`
	Version   string    `json:"version"`
	GitSHA    string    `json:"git_sha"`
	CreatedAt time.Time `json:"created_at"`
	Seed      uint64    `json:"seed"`

	Config *config.TuningConfig `json:"config,omitempty"`

	Truth      [][3]float64         `json:"truth"`     // Tracked target, per step
	Estimates  [][]float64          `json:"estimates"` // [x, y, vx, vy] per completed step
	Evaluation *scenario.Evaluation `json:"evaluation,omitempty"`
	Error      string               `json:"error,omitempty"` // Set when the tracker stopped early

	ReturnEnergy []float64 `json:"return_energy,omitempty"` // Sum of squares of each step's composite return
}

// NewRunID returns a fresh run identifier.
func NewRunID() string {
	return uuid.NewString()
}

// NewResults returns Results stamped with a run ID, build version and
// creation time.
func NewResults(seed uint64, cfg *config.TuningConfig) *Results {
	return &Results{
		RunID:     NewRunID(),
		Version:   version.Version,
		GitSHA:    version.GitSHA,
		CreatedAt: time.Now().UTC(),
		Seed:      seed,
		Config:    cfg,
	}
}

// RunDir returns and creates <outputDir>/<runID>.
func RunDir(outputDir, runID string) (string, error) {
	if _, err := uuid.Parse(runID); err != nil {
		return "", fmt.Errorf("invalid run id %q: %w", runID, err)
	}
	dir := filepath.Join(outputDir, runID)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return "", fmt.Errorf("failed to create run dir: %w", err)
	}
	return dir, nil
}

// WriteJSON writes r to path as indented JSON.
func WriteJSON(r *Results, path string) error {
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	defer f.Close()

	encoder := json.NewEncoder(f)
	encoder.SetIndent("", "  ")
	if err := encoder.Encode(r); err != nil {
		return fmt.Errorf("encode results: %w", err)
	}
	return nil
}

// ReadJSON loads Results written by WriteJSON.
func ReadJSON(path string) (*Results, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read results: %w", err)
	}
	var r Results
	if err := json.Unmarshal(data, &r); err != nil {
		return nil, fmt.Errorf("failed to parse results: %w", err)
	}
	return &r, nil
}

// Energy returns the sum of squares of each buffer.
func Energy(series [][]float64) []float64 {
	out := make([]float64, len(series))
	for i, buf := range series {
		out[i] = floats.Dot(buf, buf)
	}
	return out
}
