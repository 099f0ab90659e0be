package scenario

import (
	"fmt"
	"math"

	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/stat"
)

// Evaluation compares an estimated trajectory with ground truth in the
// horizontal plane.
type Evaluation struct {
	Errors     []float64 `json:"errors"` // Position error per step (metres)
	FinalError float64   `json:"final_error"`
	MeanError  float64   `json:"mean_error"`
	MaxError   float64   `json:"max_error"`
	RMSE       float64   `json:"rmse"`
}

// Evaluate scores estimates (each [x, y, vx, vy]) against a target track
// step by step. Estimates may be shorter than the track, as when a tracker
// stopped early; the comparison covers the estimated steps only.
func Evaluate(estimates [][]float64, track [][3]float64) (Evaluation, error) {
	if len(estimates) == 0 {
		return Evaluation{}, fmt.Errorf("no estimates to evaluate")
	}
	if len(estimates) > len(track) {
		return Evaluation{}, fmt.Errorf("%d estimates for a %d-step track", len(estimates), len(track))
	}

	errs := make([]float64, len(estimates))
	sq := make([]float64, len(estimates))
	for k, est := range estimates {
		if len(est) < 2 {
			return Evaluation{}, fmt.Errorf("estimate %d has %d elements", k, len(est))
		}
		errs[k] = floats.Distance(est[:2], track[k][:2], 2)
		sq[k] = errs[k] * errs[k]
	}

	return Evaluation{
		Errors:     errs,
		FinalError: errs[len(errs)-1],
		MeanError:  stat.Mean(errs, nil),
		MaxError:   floats.Max(errs),
		RMSE:       math.Sqrt(stat.Mean(sq, nil)),
	}, nil
}
