package testutil

import (
	"math"
	"testing"

	"gonum.org/v1/gonum/mat"
)

func TestAssertNoError(t *testing.T) {
	t.Parallel()

	AssertNoError(t, nil)
}

func TestAssertError(t *testing.T) {
	t.Parallel()

	AssertError(t, errTest)
}

func TestAssertSymmetric(t *testing.T) {
	t.Parallel()

	m := mat.NewDense(3, 3, []float64{
		2, 1, 0,
		1, 3, 0.5,
		0, 0.5, 4,
	})
	AssertSymmetric(t, m, 0)
	AssertSymmetric(t, mat.NewSymDense(2, []float64{1, 2, 2, 1}), 1e-12)
}

func TestAssertPSD(t *testing.T) {
	t.Parallel()

	AssertPSD(t, mat.NewSymDense(2, []float64{2, 1, 1, 2}), 0)
	// Singular but PSD.
	AssertPSD(t, mat.NewSymDense(2, []float64{1, 1, 1, 1}), 1e-12)
}

func TestAssertFinite(t *testing.T) {
	t.Parallel()

	AssertFinite(t, []float64{0, -1, math.MaxFloat64, math.SmallestNonzeroFloat64})
}

type testError struct{}

func (testError) Error() string { return "test error" }

var errTest error = testError{}
