// Package testutil provides shared test utilities and fixtures.
//
// This package centralises the numerical assertions used across the
// filter and propagation tests.
package testutil

import (
	"math"
	"testing"

	"gonum.org/v1/gonum/mat"
)

// AssertNoError fails the test if err is not nil.
func AssertNoError(t testing.TB, err error) {
	t.Helper()
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
}

// AssertError fails the test if err is nil.
func AssertError(t testing.TB, err error) {
	t.Helper()
	if err == nil {
		t.Fatal("expected error, got nil")
	}
}

// AssertSymmetric fails the test if m differs from its transpose by more
// than tol in any element.
func AssertSymmetric(t testing.TB, m mat.Matrix, tol float64) {
	t.Helper()
	r, c := m.Dims()
	if r != c {
		t.Fatalf("matrix is %dx%d, not square", r, c)
	}
	for i := 0; i < r; i++ {
		for j := i + 1; j < c; j++ {
			if d := math.Abs(m.At(i, j) - m.At(j, i)); d > tol {
				t.Errorf("asymmetric at (%d,%d): %g vs %g", i, j, m.At(i, j), m.At(j, i))
			}
		}
	}
}

// AssertPSD fails the test if s has an eigenvalue below -tol.
func AssertPSD(t testing.TB, s mat.Symmetric, tol float64) {
	t.Helper()
	var eig mat.EigenSym
	if !eig.Factorize(s, false) {
		t.Fatal("eigendecomposition failed")
	}
	for i, v := range eig.Values(nil) {
		if v < -tol {
			t.Errorf("eigenvalue %d is %g, below -%g", i, v, tol)
		}
	}
}

// AssertFinite fails the test if any element of v is NaN or ±Inf.
func AssertFinite(t testing.TB, v []float64) {
	t.Helper()
	for i, x := range v {
		if math.IsNaN(x) || math.IsInf(x, 0) {
			t.Errorf("element %d is %v", i, x)
		}
	}
}
