package errors

import (
	"errors"
	"fmt"
	"net/http"
)

// Domain error types for request handling

var (
	// ErrNotFound indicates a resource was not found
	ErrNotFound = errors.New("resource not found")

	// ErrInvalidInput indicates invalid input parameters
	ErrInvalidInput = errors.New("invalid input")

	// ErrMissingParameter indicates a required query parameter was absent
	ErrMissingParameter = errors.New("missing required parameter")

	// ErrInternal indicates an internal server error
	ErrInternal = errors.New("internal error")

	// ErrTimeout indicates an operation timeout
	ErrTimeout = errors.New("operation timeout")

	// ErrUnavailable indicates a service is unavailable
	ErrUnavailable = errors.New("service unavailable")
)

// Upstream-specific errors

var (
	// ErrUpstream indicates a third-party API answered with a failure
	ErrUpstream = errors.New("upstream request failed")

	// ErrRateLimitExceeded indicates the RPC node kept rate limiting after all retries
	ErrRateLimitExceeded = errors.New("rate limit exceeded")

	// ErrNonJSONResponse indicates an upstream answered with a non-JSON content type
	ErrNonJSONResponse = errors.New("upstream returned non-JSON response")
)

// UpstreamError carries the status code and message of a failed third-party call
type UpstreamError struct {
	Service string
	Status  int
	Message string
	Err     error
}

// Error implements the error interface
func (e *UpstreamError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %s (status %d): %v", e.Service, e.Message, e.Status, e.Err)
	}
	return fmt.Sprintf("%s: %s (status %d)", e.Service, e.Message, e.Status)
}

// StatusCode returns the HTTP status reported by the upstream
func (e *UpstreamError) StatusCode() int {
	return e.Status
}

// Unwrap returns the wrapped error
func (e *UpstreamError) Unwrap() error {
	if e.Err != nil {
		return e.Err
	}
	return ErrUpstream
}

// NewUpstreamError creates a new upstream error. A zero status is reported as 500.
func NewUpstreamError(service string, status int, message string, err error) *UpstreamError {
	if status == 0 {
		status = http.StatusInternalServerError
	}
	return &UpstreamError{
		Service: service,
		Status:  status,
		Message: message,
		Err:     err,
	}
}

// RateLimitError is returned once the retry budget for a rate-limited call is spent
type RateLimitError struct {
	Op       string
	Attempts int
	Err      error
}

// Error implements the error interface
func (e *RateLimitError) Error() string {
	return fmt.Sprintf("%s: rate limited after %d attempts: %v", e.Op, e.Attempts, e.Err)
}

// Unwrap returns the last observed error
func (e *RateLimitError) Unwrap() error {
	return e.Err
}

// Is reports whether target is ErrRateLimitExceeded
func (e *RateLimitError) Is(target error) bool {
	return target == ErrRateLimitExceeded
}

// ValidationError represents a validation error with field-specific details
type ValidationError struct {
	Field   string
	Message string
	Value   interface{}
}

// Error implements the error interface
func (e *ValidationError) Error() string {
	return fmt.Sprintf("validation error: field '%s': %s (value: %v)", e.Field, e.Message, e.Value)
}

// Unwrap lets validation errors match ErrInvalidInput
func (e *ValidationError) Unwrap() error {
	return ErrInvalidInput
}

// NewValidationError creates a new validation error
func NewValidationError(field, message string, value interface{}) *ValidationError {
	return &ValidationError{
		Field:   field,
		Message: message,
		Value:   value,
	}
}

// StatusOf maps an error to the HTTP status it should be reported with
func StatusOf(err error) int {
	if err == nil {
		return http.StatusOK
	}

	var upstream *UpstreamError
	if errors.As(err, &upstream) {
		return upstream.Status
	}

	switch {
	case errors.Is(err, ErrMissingParameter), errors.Is(err, ErrInvalidInput):
		return http.StatusBadRequest
	case errors.Is(err, ErrNotFound):
		return http.StatusNotFound
	case errors.Is(err, ErrRateLimitExceeded):
		return http.StatusTooManyRequests
	case errors.Is(err, ErrTimeout):
		return http.StatusGatewayTimeout
	case errors.Is(err, ErrUnavailable):
		return http.StatusServiceUnavailable
	default:
		return http.StatusInternalServerError
	}
}

// Helper functions

// Is checks if err is or wraps target
func Is(err, target error) bool {
	return errors.Is(err, target)
}

// As finds the first error in err's chain that matches target type
func As(err error, target interface{}) bool {
	return errors.As(err, target)
}

// Wrap wraps an error with context
func Wrap(err error, message string) error {
	if err == nil {
		return nil
	}
	return fmt.Errorf("%s: %w", message, err)
}

// Wrapf wraps an error with formatted context
func Wrapf(err error, format string, args ...interface{}) error {
	if err == nil {
		return nil
	}
	return fmt.Errorf("%s: %w", fmt.Sprintf(format, args...), err)
}

func New(message string) error {
	return errors.New(message)
}

func Newf(format string, args ...interface{}) error {
	return fmt.Errorf(format, args...)
}
