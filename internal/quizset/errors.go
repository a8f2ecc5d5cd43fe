package quizset

import (
	"context"
	"errors"
	"fmt"
	"net/http"

	httperrors "github.com/gokatarajesh/quizpin/pkg/http/errors"
)

var (
	// ErrNotFound is a normal negative result for unknown PINs, sets and questions.
	ErrNotFound = errors.New("not found")
	// ErrAllocationExhausted means every PIN candidate collided.
	ErrAllocationExhausted = errors.New("pin allocation exhausted")
	// ErrDuplicatePIN is returned by stores when a write violates PIN uniqueness.
	ErrDuplicatePIN = errors.New("duplicate pin")
)

// ValidationError reports missing or malformed caller input.
type ValidationError struct {
	Field   string
	Message string
}

func (e *ValidationError) Error() string {
	return e.Message
}

// Invalid is shorthand for a ValidationError.
func Invalid(field, message string) error {
	return &ValidationError{Field: field, Message: message}
}

// UpstreamKind separates bad-parameter failures from provider outages.
type UpstreamKind string

const (
	UpstreamClient      UpstreamKind = "client"
	UpstreamUnavailable UpstreamKind = "unavailable"
)

// UpstreamError wraps a generation provider failure.
type UpstreamError struct {
	Kind       UpstreamKind
	Provider   string
	StatusCode int
	Err        error
}

func (e *UpstreamError) Error() string {
	if e.StatusCode > 0 {
		return fmt.Sprintf("%s provider %s (status %d): %v", e.Provider, e.Kind, e.StatusCode, e.Err)
	}
	return fmt.Sprintf("%s provider %s: %v", e.Provider, e.Kind, e.Err)
}

func (e *UpstreamError) Unwrap() error { return e.Err }

// HTTPStatus maps an error from this package's taxonomy to a status and error code.
func HTTPStatus(err error) (int, string) {
	var verr *ValidationError
	var uerr *UpstreamError
	switch {
	case errors.As(err, &verr):
		return http.StatusBadRequest, httperrors.ErrCodeValidationFailed
	case errors.Is(err, ErrNotFound):
		return http.StatusNotFound, httperrors.ErrCodeNotFound
	case errors.Is(err, ErrDuplicatePIN):
		return http.StatusConflict, httperrors.ErrCodeConflict
	case errors.Is(err, ErrAllocationExhausted):
		return http.StatusInternalServerError, httperrors.ErrCodePINAllocationFailed
	case errors.As(err, &uerr):
		if uerr.Kind == UpstreamClient {
			return http.StatusBadRequest, httperrors.ErrCodeUpstreamRejected
		}
		if uerr.StatusCode >= 500 {
			return http.StatusBadGateway, httperrors.ErrCodeUpstreamError
		}
		return http.StatusServiceUnavailable, httperrors.ErrCodeServiceUnavailable
	case errors.Is(err, context.DeadlineExceeded):
		return http.StatusGatewayTimeout, httperrors.ErrCodeTimeout
	default:
		return http.StatusInternalServerError, httperrors.ErrCodeInternalError
	}
}
