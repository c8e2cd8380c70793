package supplier

import (
	"errors"
	"fmt"
)

// SupplierError represents an error from a supplier API.
type SupplierError struct {
	Supplier   string
	Code       string
	Message    string
	StatusCode int
	Retryable  bool
	Cause      error
}

// Error implements the error interface.
func (e *SupplierError) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("%s error (%s): %s: %v", e.Supplier, e.Code, e.Message, e.Cause)
	}
	return fmt.Sprintf("%s error (%s): %s", e.Supplier, e.Code, e.Message)
}

// Unwrap returns the underlying cause.
func (e *SupplierError) Unwrap() error {
	return e.Cause
}

// Is implements errors.Is for SupplierError.
func (e *SupplierError) Is(target error) bool {
	t, ok := target.(*SupplierError)
	if !ok {
		return false
	}
	return e.Code == t.Code
}

// NewSupplierError creates a new SupplierError.
func NewSupplierError(supplier, code, message string) *SupplierError {
	return &SupplierError{
		Supplier: supplier,
		Code:     code,
		Message:  message,
	}
}

// WithCause adds a cause to the error.
func (e *SupplierError) WithCause(err error) *SupplierError {
	e.Cause = err
	return e
}

// WithStatusCode adds an HTTP status code to the error.
func (e *SupplierError) WithStatusCode(code int) *SupplierError {
	e.StatusCode = code
	return e
}

// WithRetryable marks the error as retryable.
func (e *SupplierError) WithRetryable(retryable bool) *SupplierError {
	e.Retryable = retryable
	return e
}

// Sentinel errors for common supplier scenarios.
var (
	// ErrSupplierNotFound indicates the requested supplier is not registered.
	ErrSupplierNotFound = errors.New("supplier not found")

	// ErrProductNotActive indicates the supplier no longer sells a product
	// on the order.
	ErrProductNotActive = errors.New("product is not active")

	// ErrServiceUnavailable indicates the supplier API is temporarily down.
	ErrServiceUnavailable = errors.New("service unavailable")

	// ErrAuthenticationFailed indicates supplier credentials were rejected.
	ErrAuthenticationFailed = errors.New("authentication failed")
)

// IsRetryable returns true if the error is worth retrying on a later cycle.
func IsRetryable(err error) bool {
	var supplierErr *SupplierError
	if errors.As(err, &supplierErr) {
		return supplierErr.Retryable
	}
	return errors.Is(err, ErrServiceUnavailable)
}
