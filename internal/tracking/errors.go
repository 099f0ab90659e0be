package tracking

import (
	"errors"
	"fmt"
)

var (
	// ErrNotInitialized is returned by Predict and Update before Initialize.
	ErrNotInitialized = errors.New("tracker not initialized")
	// ErrPredictRequired is returned by Update without a preceding Predict
	// in the same cycle.
	ErrPredictRequired = errors.New("update requires a preceding predict")
	// ErrDiverged matches every NumericalDivergenceError via errors.Is.
	ErrDiverged = errors.New("tracker diverged")
)

// ConfigurationError reports a dimensional or value mismatch between the
// state, covariance and noise matrices supplied to Initialize.
type ConfigurationError struct {
	Field  string
	Reason string
}

func (e *ConfigurationError) Error() string {
	return fmt.Sprintf("invalid tracker configuration: %s: %s", e.Field, e.Reason)
}

func configErrorf(field, format string, args ...interface{}) *ConfigurationError {
	return &ConfigurationError{Field: field, Reason: fmt.Sprintf(format, args...)}
}

// NumericalDivergenceError reports that the filter lost positive
// definiteness or produced non-finite values. It is terminal for the
// tracker that returned it; the remedy is a new tracker with adjusted
// noise parameters.
type NumericalDivergenceError struct {
	Step   int    // Zero-based index of the predict/update cycle that failed
	Stage  string // "predict" or "update"
	Reason string
}

func (e *NumericalDivergenceError) Error() string {
	return fmt.Sprintf("numerical divergence at step %d (%s): %s", e.Step, e.Stage, e.Reason)
}

// Unwrap lets errors.Is(err, ErrDiverged) match.
func (e *NumericalDivergenceError) Unwrap() error { return ErrDiverged }
