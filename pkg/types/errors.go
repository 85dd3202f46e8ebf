package types

import (
	"errors"
	"fmt"
)

// Error taxonomy for the search pipeline. Validation and provider failures
// propagate to the caller; graph unavailability is absorbed into
// Diagnostics and never fails a call on its own.
var (
	// ErrValidation marks malformed caller input or configuration.
	ErrValidation = errors.New("validation error")
	// ErrProvider marks an embedding-provider or vector-store failure.
	// Fatal for the current call: without retrieval there is no result set.
	ErrProvider = errors.New("provider error")
	// ErrGraphUnavailable marks a failed relationship-graph read. Degraded,
	// not fatal: the affected candidates score with zero graph metrics.
	ErrGraphUnavailable = errors.New("graph store unavailable")
)

// ValidationError wraps ErrValidation with a reason.
type ValidationError struct {
	Reason string
}

func NewValidationError(format string, args ...any) *ValidationError {
	return &ValidationError{Reason: fmt.Sprintf(format, args...)}
}

func (e *ValidationError) Error() string {
	return "validation error: " + e.Reason
}

func (e *ValidationError) Unwrap() error { return ErrValidation }

// ProviderError wraps ErrProvider with the failing component and cause.
type ProviderError struct {
	Component string
	Err       error
}

func NewProviderError(component string, err error) *ProviderError {
	return &ProviderError{Component: component, Err: err}
}

func (e *ProviderError) Error() string {
	return fmt.Sprintf("provider error (%s): %v", e.Component, e.Err)
}

func (e *ProviderError) Unwrap() error { return ErrProvider }
