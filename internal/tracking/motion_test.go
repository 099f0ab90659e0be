package tracking

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"gonum.org/v1/gonum/mat"
)

func TestWrapAngle(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name string
		in   float64
		want float64
	}{
		{"zero", 0, 0},
		{"small positive", 0.5, 0.5},
		{"small negative", -0.5, -0.5},
		{"pi stays pi", math.Pi, math.Pi},
		{"minus pi maps to pi", -math.Pi, math.Pi},
		{"full turn", 2 * math.Pi, 0},
		{"three half turns", 3 * math.Pi / 2, -math.Pi / 2},
		{"many turns", 7*2*math.Pi + 0.25, 0.25},
		{"across the cut", 3.0 - (-3.0), 6.0 - 2*math.Pi},
		{"across the cut reversed", -3.0 - 3.0, 2*math.Pi - 6.0},
	}

	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			got := WrapAngle(tt.in)
			assert.InDelta(t, tt.want, got, 1e-9)
			assert.Greater(t, got, -math.Pi)
			assert.LessOrEqual(t, got, math.Pi)
		})
	}
}

func TestResidualAcrossPi(t *testing.T) {
	t.Parallel()

	var m MotionModel
	r := m.Residual([]float64{3.0}, []float64{-3.0})
	assert.InDelta(t, 2*math.Pi-6.0, math.Abs(r[0]), 1e-12)
	assert.Less(t, math.Abs(r[0]), 1.0)
}

func TestBearing(t *testing.T) {
	t.Parallel()

	assert.InDelta(t, 0, Bearing(1, 0), 1e-15)
	assert.InDelta(t, math.Pi/2, Bearing(0, 1), 1e-15)
	assert.InDelta(t, math.Pi, Bearing(-1, 0), 1e-15)
	assert.InDelta(t, math.Atan2(3, 1), Bearing(1, 3), 1e-15)

	m := MotionModel{Dt: 1}
	assert.Equal(t, []float64{Bearing(500, 500)}, m.Measure([]float64{500, 500, 1, 3}))
}

func TestTransitionMatchesMatrix(t *testing.T) {
	t.Parallel()

	for _, dt := range []float64{0.1, 1, 2.5} {
		m := MotionModel{Dt: dt}
		x := []float64{500, -20, 1.5, -3}

		var want mat.VecDense
		want.MulVec(m.TransitionMatrix(), mat.NewVecDense(4, x))

		got := m.Transition(x)
		for i := range got {
			assert.InDelta(t, want.AtVec(i), got[i], 1e-12, "dt=%g element %d", dt, i)
		}
	}
}

func TestTransitionDoesNotMutateInput(t *testing.T) {
	t.Parallel()

	m := MotionModel{Dt: 1}
	x := []float64{1, 2, 3, 4}
	m.Transition(x)
	assert.Equal(t, []float64{1, 2, 3, 4}, x)
}
