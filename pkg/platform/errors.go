package platform

import (
	"errors"
	"fmt"
)

// PlatformError represents an error from the commerce platform API.
type PlatformError struct {
	Code       string
	Message    string
	StatusCode int
	Cause      error
}

// Error implements the error interface.
func (e *PlatformError) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("platform error (%s): %s: %v", e.Code, e.Message, e.Cause)
	}
	return fmt.Sprintf("platform error (%s): %s", e.Code, e.Message)
}

// Unwrap returns the underlying cause.
func (e *PlatformError) Unwrap() error {
	return e.Cause
}

// Is implements errors.Is for PlatformError.
func (e *PlatformError) Is(target error) bool {
	t, ok := target.(*PlatformError)
	if !ok {
		return false
	}
	return e.Code == t.Code
}

// NewPlatformError creates a new PlatformError.
func NewPlatformError(code, message string) *PlatformError {
	return &PlatformError{
		Code:    code,
		Message: message,
	}
}

// WithCause adds a cause to the error.
func (e *PlatformError) WithCause(err error) *PlatformError {
	e.Cause = err
	return e
}

// WithStatusCode adds an HTTP status code to the error.
func (e *PlatformError) WithStatusCode(code int) *PlatformError {
	e.StatusCode = code
	return e
}

// Sentinel errors for common platform scenarios.
var (
	// ErrOrderNotFound indicates no order matched the lookup.
	ErrOrderNotFound = errors.New("order not found")

	// ErrNoFulfillmentOrders indicates the order has no fulfillment orders
	// to submit against.
	ErrNoFulfillmentOrders = errors.New("no fulfillment orders")

	// ErrFulfillmentRejected indicates the platform refused the fulfillment
	// request (e.g. a product is no longer fulfillable).
	ErrFulfillmentRejected = errors.New("fulfillment rejected")

	// ErrAuthenticationFailed indicates the platform credentials were rejected.
	ErrAuthenticationFailed = errors.New("authentication failed")

	// ErrRateLimitExceeded indicates the platform throttled the request.
	ErrRateLimitExceeded = errors.New("rate limit exceeded")
)

// RejectionError wraps the platform's verbatim rejection detail for a
// fulfillment submission. The detail is surfaced to operators untouched.
type RejectionError struct {
	Detail string
}

func (e *RejectionError) Error() string {
	return fmt.Sprintf("fulfillment rejected: %s", e.Detail)
}

// Is makes RejectionError match ErrFulfillmentRejected.
func (e *RejectionError) Is(target error) bool {
	return target == ErrFulfillmentRejected
}

// IsNotFound reports whether err means the order could not be found.
func IsNotFound(err error) bool {
	return errors.Is(err, ErrOrderNotFound)
}
