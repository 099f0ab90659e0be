package tracking

import (
	"fmt"
	"math"

	"gonum.org/v1/gonum/mat"
)

// FilterState is the lifecycle state of a UKF.
type FilterState string

const (
	StateUninitialized FilterState = "uninitialized" // Constructed, no mean/covariance yet
	StateInitialized   FilterState = "initialized"   // Mean, P, Q, R set
	StateReady         FilterState = "ready"         // At least one predict has run
	StateDiverged      FilterState = "diverged"      // Terminal; every call returns the divergence error
)

// psdTolerance scales the most negative eigenvalue accepted after an
// update, relative to the largest covariance diagonal.
const psdTolerance = 1e-9

// UKF is an unscented Kalman filter over a Model. Each Predict must be
// followed by at most one Update; the current mean is the best estimate
// after Update returns.
type UKF struct {
	model Model
	sigma SigmaParams

	x *mat.VecDense // Mean
	p *mat.SymDense // Covariance
	q *mat.SymDense // Process noise
	r *mat.SymDense // Measurement noise

	state     FilterState
	predicted bool // Predict has run since the last Update
	step      int  // Completed update cycles
	err       error

	innovation []float64
	gain       *mat.Dense
}

// NewUKF returns an uninitialized filter over model. Call Initialize
// before Predict.
func NewUKF(model Model, sigma SigmaParams) (*UKF, error) {
	if model == nil {
		return nil, configErrorf("model", "must not be nil")
	}
	if model.StateDim() < 1 || model.MeasurementDim() < 1 {
		return nil, configErrorf("model", "dimensions must be positive, got state=%d measurement=%d",
			model.StateDim(), model.MeasurementDim())
	}
	if err := sigma.Validate(model.StateDim()); err != nil {
		return nil, err
	}
	return &UKF{model: model, sigma: sigma, state: StateUninitialized}, nil
}

// Initialize sets the initial mean x0, covariance p0, process noise q and
// measurement noise r. Shapes must agree with the model and p0 must be
// positive definite so the first sigma points can be drawn. Initialize
// may be called again to restart the filter, including after divergence.
func (u *UKF) Initialize(x0 []float64, p0, q, r [][]float64) error {
	n, m := u.model.StateDim(), u.model.MeasurementDim()

	if len(x0) != n {
		return configErrorf("initial_state", "has %d elements, state dimension is %d", len(x0), n)
	}
	for i, v := range x0 {
		if !isFinite(v) {
			return configErrorf("initial_state", "element %d is not finite", i)
		}
	}
	pm, err := symmetricFromRows("initial_covariance", p0, n)
	if err != nil {
		return err
	}
	qm, err := symmetricFromRows("process_noise", q, n)
	if err != nil {
		return err
	}
	rm, err := symmetricFromRows("measurement_noise", r, m)
	if err != nil {
		return err
	}
	var chol mat.Cholesky
	if !chol.Factorize(pm) {
		return configErrorf("initial_covariance", "must be positive definite")
	}

	u.x = mat.NewVecDense(n, append([]float64(nil), x0...))
	u.p = pm
	u.q = qm
	u.r = rm
	u.state = StateInitialized
	u.predicted = false
	u.step = 0
	u.err = nil
	u.innovation = nil
	u.gain = nil
	diagf("initialized: x0=%v", x0)
	return nil
}

// Predict propagates the sigma points of the current mean and covariance
// through the model's transition and adds Q. A predicted covariance that
// is not positive semi-definite diverges here rather than at the next
// Update.
func (u *UKF) Predict() error {
	if err := u.checkRunnable(); err != nil {
		return err
	}

	sp, err := MerweSigmaPoints(u.x.RawVector().Data, u.p, u.sigma)
	if err != nil {
		return u.diverge("predict", err.Error())
	}
	for k, pt := range sp.Points {
		sp.Points[k] = u.model.Transition(pt)
	}

	mean := sp.Mean()
	cov := sp.Covariance(mean)
	cov.AddSym(cov, u.q)

	if reason := nonFinite(mean, cov); reason != "" {
		return u.diverge("predict", reason)
	}
	if reason := notPSD(cov); reason != "" {
		return u.diverge("predict", reason)
	}

	u.x = mat.NewVecDense(len(mean), mean)
	u.p = cov
	u.predicted = true
	u.state = StateReady
	return nil
}

// Update fuses measurement z into the predicted mean and covariance.
// Residuals, including the innovation, go through the model's Residual,
// so bearings are compared modulo 2π.
func (u *UKF) Update(z []float64) error {
	if err := u.checkRunnable(); err != nil {
		return err
	}
	if !u.predicted {
		return fmt.Errorf("step %d: %w", u.step, ErrPredictRequired)
	}
	n, m := u.model.StateDim(), u.model.MeasurementDim()
	if len(z) != m {
		return fmt.Errorf("measurement has %d elements, model expects %d", len(z), m)
	}

	xPrior := u.x.RawVector().Data
	sp, err := MerweSigmaPoints(xPrior, u.p, u.sigma)
	if err != nil {
		return u.diverge("update", err.Error())
	}

	zs := make([][]float64, len(sp.Points))
	for k, pt := range sp.Points {
		zs[k] = u.model.Measure(pt)
	}

	// Anchor the measurement mean on the central point so that angular
	// sigma measurements straddling ±π average correctly.
	zMean := append([]float64(nil), zs[0]...)
	for k, zk := range zs {
		d := u.model.Residual(zk, zs[0])
		for i := range zMean {
			zMean[i] += sp.Wm[k] * d[i]
		}
	}

	s := mat.NewSymDense(m, nil)
	s.CopySym(u.r)
	pxz := mat.NewDense(n, m, nil)
	dx := mat.NewVecDense(n, nil)
	dz := mat.NewVecDense(m, nil)
	for k, pt := range sp.Points {
		for i := 0; i < n; i++ {
			dx.SetVec(i, pt[i]-xPrior[i])
		}
		dzk := u.model.Residual(zs[k], zMean)
		for i := 0; i < m; i++ {
			dz.SetVec(i, dzk[i])
		}
		s.SymRankOne(s, sp.Wc[k], dz)
		var outer mat.Dense
		outer.Outer(sp.Wc[k], dx, dz)
		pxz.Add(pxz, &outer)
	}

	// K = Pxz·S⁻¹, solved as Kᵀ = S⁻¹·Pxzᵀ.
	var sChol mat.Cholesky
	if !sChol.Factorize(s) {
		return u.diverge("update", "innovation covariance is not positive definite")
	}
	var kt mat.Dense
	if err := sChol.SolveTo(&kt, pxz.T()); err != nil {
		return u.diverge("update", fmt.Sprintf("solve for gain: %v", err))
	}
	gain := mat.DenseCopyOf(kt.T())

	y := mat.NewVecDense(m, u.model.Residual(z, zMean))
	var corr mat.VecDense
	corr.MulVec(gain, y)
	var xPost mat.VecDense
	xPost.AddVec(u.x, &corr)

	// P = P - K·S·Kᵀ
	var ks, kskt mat.Dense
	ks.Mul(gain, s)
	kskt.Mul(&ks, gain.T())
	pPost := mat.NewSymDense(n, nil)
	for i := 0; i < n; i++ {
		for j := i; j < n; j++ {
			pPost.SetSym(i, j, u.p.At(i, j)-0.5*(kskt.At(i, j)+kskt.At(j, i)))
		}
	}

	if reason := nonFinite(xPost.RawVector().Data, pPost); reason != "" {
		return u.diverge("update", reason)
	}
	if reason := notPSD(pPost); reason != "" {
		return u.diverge("update", reason)
	}

	u.x = &xPost
	u.p = pPost
	u.innovation = y.RawVector().Data
	u.gain = gain
	u.predicted = false
	tracef("step %d: innovation=%v x=%v", u.step, u.innovation, u.x.RawVector().Data)
	u.step++
	return nil
}

// Mean returns a copy of the current state estimate.
func (u *UKF) Mean() []float64 {
	if u.x == nil {
		return nil
	}
	return append([]float64(nil), u.x.RawVector().Data...)
}

// Covariance returns a copy of the current covariance.
func (u *UKF) Covariance() *mat.SymDense {
	if u.p == nil {
		return nil
	}
	c := mat.NewSymDense(u.p.SymmetricDim(), nil)
	c.CopySym(u.p)
	return c
}

// State returns the lifecycle state.
func (u *UKF) State() FilterState { return u.state }

// Step returns the number of completed predict/update cycles.
func (u *UKF) Step() int { return u.step }

// Err returns the divergence error once the filter has diverged.
func (u *UKF) Err() error { return u.err }

// Innovation returns the wrapped measurement residual of the last update.
func (u *UKF) Innovation() []float64 {
	return append([]float64(nil), u.innovation...)
}

// Gain returns a copy of the last Kalman gain, or nil before any update.
func (u *UKF) Gain() *mat.Dense {
	if u.gain == nil {
		return nil
	}
	return mat.DenseCopyOf(u.gain)
}

func (u *UKF) checkRunnable() error {
	switch u.state {
	case StateUninitialized:
		return ErrNotInitialized
	case StateDiverged:
		return u.err
	}
	return nil
}

func (u *UKF) diverge(stage, reason string) error {
	err := &NumericalDivergenceError{Step: u.step, Stage: stage, Reason: reason}
	u.state = StateDiverged
	u.err = err
	opsf("tracker diverged: %v", err)
	return err
}

func symmetricFromRows(field string, rows [][]float64, n int) (*mat.SymDense, error) {
	if len(rows) != n {
		return nil, configErrorf(field, "has %d rows, want %d", len(rows), n)
	}
	data := make([]float64, 0, n*n)
	for i, row := range rows {
		if len(row) != n {
			return nil, configErrorf(field, "row %d has %d columns, want %d", i, len(row), n)
		}
		for j, v := range row {
			if !isFinite(v) {
				return nil, configErrorf(field, "element (%d,%d) is not finite", i, j)
			}
		}
		data = append(data, row...)
	}
	for i := 0; i < n; i++ {
		for j := i + 1; j < n; j++ {
			a, b := rows[i][j], rows[j][i]
			if math.Abs(a-b) > 1e-9*math.Max(1, math.Max(math.Abs(a), math.Abs(b))) {
				return nil, configErrorf(field, "not symmetric at (%d,%d): %g != %g", i, j, a, b)
			}
		}
	}
	return mat.NewSymDense(n, data), nil
}

func isFinite(v float64) bool {
	return !math.IsNaN(v) && !math.IsInf(v, 0)
}

// nonFinite returns a reason if any element of x or p is NaN or ±Inf.
func nonFinite(x []float64, p mat.Symmetric) string {
	for i, v := range x {
		if !isFinite(v) {
			return fmt.Sprintf("mean element %d is %v", i, v)
		}
	}
	n := p.SymmetricDim()
	for i := 0; i < n; i++ {
		for j := i; j < n; j++ {
			if v := p.At(i, j); !isFinite(v) {
				return fmt.Sprintf("covariance element (%d,%d) is %v", i, j, v)
			}
		}
	}
	return ""
}

// notPSD returns a reason if p has an eigenvalue below -psdTolerance
// times its largest diagonal magnitude.
func notPSD(p *mat.SymDense) string {
	var eig mat.EigenSym
	if !eig.Factorize(p, false) {
		return "eigendecomposition of covariance failed"
	}
	scale := 1.0
	for i := 0; i < p.SymmetricDim(); i++ {
		scale = math.Max(scale, math.Abs(p.At(i, i)))
	}
	for _, v := range eig.Values(nil) {
		if v < -psdTolerance*scale {
			return fmt.Sprintf("covariance has negative eigenvalue %g", v)
		}
	}
	return ""
}
