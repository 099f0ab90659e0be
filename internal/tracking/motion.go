package tracking

import (
	"math"

	"gonum.org/v1/gonum/mat"
)

// StateDim is the length of the [x, y, vx, vy] state vector.
const StateDim = 4

// Model is the pair of functions the UKF propagates sigma points through.
type Model interface {
	StateDim() int
	MeasurementDim() int
	// Transition maps a state to the next timestep.
	Transition(x []float64) []float64
	// Measure maps a state to its expected measurement.
	Measure(x []float64) []float64
	// Residual returns a - b in measurement space.
	Residual(a, b []float64) []float64
}

// MotionModel is the constant-velocity transition with a single bearing
// measurement h(x) = atan2(y, x). Process noise is not part of the model;
// the filter adds Q after propagation.
type MotionModel struct {
	Dt float64
}

// StateDim implements Model.
func (MotionModel) StateDim() int { return StateDim }

// MeasurementDim implements Model.
func (MotionModel) MeasurementDim() int { return 1 }

// TransitionMatrix returns F for the model's timestep:
//
//	F = [1  0  dt  0 ]
//	    [0  1  0   dt]
//	    [0  0  1   0 ]
//	    [0  0  0   1 ]
func (m MotionModel) TransitionMatrix() *mat.Dense {
	return mat.NewDense(StateDim, StateDim, []float64{
		1, 0, m.Dt, 0,
		0, 1, 0, m.Dt,
		0, 0, 1, 0,
		0, 0, 0, 1,
	})
}

// Transition returns F·x.
func (m MotionModel) Transition(x []float64) []float64 {
	return []float64{
		x[0] + m.Dt*x[2],
		x[1] + m.Dt*x[3],
		x[2],
		x[3],
	}
}

// Measure returns the bearing of the state's position.
func (MotionModel) Measure(x []float64) []float64 {
	return []float64{Bearing(x[0], x[1])}
}

// Residual returns the bearing difference wrapped to (-π, π].
func (MotionModel) Residual(a, b []float64) []float64 {
	return []float64{WrapAngle(a[0] - b[0])}
}

// Bearing returns atan2(y, x) in (-π, π].
func Bearing(x, y float64) float64 {
	return math.Atan2(y, x)
}

// WrapAngle maps an angle in radians to (-π, π].
func WrapAngle(a float64) float64 {
	a = math.Mod(a+math.Pi, 2*math.Pi)
	if a <= 0 {
		a += 2 * math.Pi
	}
	return a - math.Pi
}
