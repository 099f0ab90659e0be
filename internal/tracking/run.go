package tracking

import "fmt"

// Run performs one predict/update cycle per measurement and returns the
// mean after each update. On failure it returns the estimates produced so
// far together with an error naming the failing measurement index; a
// divergence is still matchable with errors.As.
func Run(u *UKF, measurements [][]float64) ([][]float64, error) {
	estimates := make([][]float64, 0, len(measurements))
	for i, z := range measurements {
		if err := u.Predict(); err != nil {
			return estimates, fmt.Errorf("measurement %d: predict: %w", i, err)
		}
		if err := u.Update(z); err != nil {
			return estimates, fmt.Errorf("measurement %d: update: %w", i, err)
		}
		estimates = append(estimates, u.Mean())
	}
	return estimates, nil
}

// RunBearings is Run for a scalar bearing sequence.
func RunBearings(u *UKF, bearings []float64) ([][]float64, error) {
	zs := make([][]float64, len(bearings))
	for i, b := range bearings {
		zs[i] = []float64{b}
	}
	return Run(u, zs)
}
