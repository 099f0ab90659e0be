package tracking

import (
	"fmt"

	"gonum.org/v1/gonum/mat"
)

// SigmaParams are the Merwe scaled sigma-point parameters. Alpha sets the
// spread around the mean, Beta folds in prior knowledge of the
// distribution (2 for Gaussians), Kappa is the secondary scaling.
type SigmaParams struct {
	Alpha float64
	Beta  float64
	Kappa float64
}

// Lambda returns α²(n+κ) - n.
func (p SigmaParams) Lambda(n int) float64 {
	return p.Alpha*p.Alpha*(float64(n)+p.Kappa) - float64(n)
}

// Validate checks that the spread (n+λ) is positive for dimension n.
func (p SigmaParams) Validate(n int) error {
	if !(p.Alpha > 0) {
		return configErrorf("alpha", "must be positive, got %g", p.Alpha)
	}
	if p.Beta < 0 {
		return configErrorf("beta", "must be non-negative, got %g", p.Beta)
	}
	if !(float64(n)+p.Kappa > 0) {
		return configErrorf("kappa", "n+kappa must be positive, got n=%d kappa=%g", n, p.Kappa)
	}
	return nil
}

// Weights returns the 2n+1 mean and covariance weights.
func (p SigmaParams) Weights(n int) (wm, wc []float64) {
	lambda := p.Lambda(n)
	c := float64(n) + lambda
	wm = make([]float64, 2*n+1)
	wc = make([]float64, 2*n+1)
	for i := range wm {
		wm[i] = 1 / (2 * c)
		wc[i] = wm[i]
	}
	wm[0] = lambda / c
	wc[0] = wm[0] + 1 - p.Alpha*p.Alpha + p.Beta
	return wm, wc
}

// SigmaPointSet is the 2n+1 weighted points drawn from one mean and
// covariance. Points[0] is the mean; Points[1..n] add and Points[n+1..2n]
// subtract the columns of the scaled square root.
type SigmaPointSet struct {
	Points [][]float64
	Wm     []float64
	Wc     []float64
}

// MerweSigmaPoints draws sigma points for (mean, cov) using the Cholesky
// factor of (n+λ)·cov. It fails if cov is not positive definite.
func MerweSigmaPoints(mean []float64, cov mat.Symmetric, p SigmaParams) (*SigmaPointSet, error) {
	n := len(mean)
	if cov.SymmetricDim() != n {
		return nil, fmt.Errorf("covariance is %dx%d, mean has %d elements", cov.SymmetricDim(), cov.SymmetricDim(), n)
	}

	scaled := mat.NewSymDense(n, nil)
	scaled.ScaleSym(float64(n)+p.Lambda(n), cov)

	var chol mat.Cholesky
	if ok := chol.Factorize(scaled); !ok {
		return nil, fmt.Errorf("covariance is not positive definite")
	}
	var l mat.TriDense
	chol.LTo(&l)

	points := make([][]float64, 2*n+1)
	points[0] = append([]float64(nil), mean...)
	for k := 0; k < n; k++ {
		plus := make([]float64, n)
		minus := make([]float64, n)
		for i := 0; i < n; i++ {
			col := l.At(i, k)
			plus[i] = mean[i] + col
			minus[i] = mean[i] - col
		}
		points[k+1] = plus
		points[n+k+1] = minus
	}

	wm, wc := p.Weights(n)
	return &SigmaPointSet{Points: points, Wm: wm, Wc: wc}, nil
}

// Mean returns the Wm-weighted mean of the points.
func (s *SigmaPointSet) Mean() []float64 {
	mean := make([]float64, len(s.Points[0]))
	for k, pt := range s.Points {
		for i, v := range pt {
			mean[i] += s.Wm[k] * v
		}
	}
	return mean
}

// Covariance returns the Wc-weighted covariance of the points about mean.
func (s *SigmaPointSet) Covariance(mean []float64) *mat.SymDense {
	n := len(mean)
	cov := mat.NewSymDense(n, nil)
	d := mat.NewVecDense(n, nil)
	for k, pt := range s.Points {
		for i := range pt {
			d.SetVec(i, pt[i]-mean[i])
		}
		cov.SymRankOne(cov, s.Wc[k], d)
	}
	return cov
}
