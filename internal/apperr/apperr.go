// Package apperr implements the four error kinds from §7: ValidationError,
// ProviderError, OptimizerError, CancellationError, each carrying the HTTP
// status the httpapi layer should respond with.
package apperr

import (
	"fmt"
	"net/http"
)

// Kind distinguishes the four error categories named in §7.
type Kind string

const (
	KindValidation   Kind = "validation"
	KindProvider     Kind = "provider"
	KindOptimizer    Kind = "optimizer"
	KindCancellation Kind = "cancellation"
)

// AppError is a standardized application error with an HTTP status and an
// optional wrapped internal error that is logged but never sent to the
// client.
type AppError struct {
	Kind        Kind
	Message     string
	Status      int
	InternalErr error
}

// Error implements the error interface.
func (e *AppError) Error() string {
	if e.InternalErr != nil {
		return fmt.Sprintf("%s: %v", e.Message, e.InternalErr)
	}
	return e.Message
}

// Unwrap returns the internal error for error wrapping.
func (e *AppError) Unwrap() error {
	return e.InternalErr
}

// NewValidationError builds a 400 ValidationError (§7.1).
func NewValidationError(message string) *AppError {
	return &AppError{Kind: KindValidation, Message: message, Status: http.StatusBadRequest}
}

// NewProviderError builds a ProviderError (§7.2). Individual pair failures
// are absorbed upstream in the provider and never reach here; this
// constructor is for the rare case a provider call fails in a way the
// Engine cannot route around.
func NewProviderError(message string, internal error) *AppError {
	return &AppError{Kind: KindProvider, Message: message, Status: http.StatusInternalServerError, InternalErr: internal}
}

// NewOptimizerError builds an OptimizerError (§7.3): captured per-optimizer,
// never aborts the request. Callers convert this into a RouteResult
// sentinel rather than returning it to the HTTP layer.
func NewOptimizerError(algorithm string, internal error) *AppError {
	return &AppError{
		Kind:        KindOptimizer,
		Message:     fmt.Sprintf("algorithm %q failed", algorithm),
		Status:      http.StatusOK,
		InternalErr: internal,
	}
}

// NewCancellationError builds a CancellationError (§7.4): the request was
// aborted; propagated immediately, discarding any completed partial results.
func NewCancellationError() *AppError {
	return &AppError{Kind: KindCancellation, Message: "request canceled", Status: http.StatusInternalServerError}
}
