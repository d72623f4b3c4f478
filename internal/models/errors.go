package models

import (
	"errors"
	"fmt"
)

// Common errors used throughout the application
var (
	ErrCartNotFound        = errors.New("cart not found")
	ErrCartItemNotFound    = errors.New("cart item not found")
	ErrProductNotFound     = errors.New("product not found")
	ErrUserNotFound        = errors.New("user not found")
	ErrTransactionNotFound = errors.New("transaction not found")
	ErrAuthRequired        = errors.New("authentication required")
)

// ValidationError indicates malformed or out-of-range client input.
type ValidationError struct {
	Message string
}

func (e *ValidationError) Error() string {
	return e.Message
}

// NewValidationError creates a validation error with a formatted message
func NewValidationError(format string, args ...interface{}) *ValidationError {
	return &ValidationError{Message: fmt.Sprintf(format, args...)}
}

// UpstreamError indicates a payment gateway was unreachable, timed out,
// or answered with a non-success payload.
type UpstreamError struct {
	Gateway string
	Err     error
}

func (e *UpstreamError) Error() string {
	return fmt.Sprintf("%s gateway error: %v", e.Gateway, e.Err)
}

func (e *UpstreamError) Unwrap() error {
	return e.Err
}

// VerificationMismatchError indicates the provider's authoritative record
// disagrees with the stored transaction. Logged as a fraud-relevant event.
type VerificationMismatchError struct {
	Ref    string
	Detail string
}

func (e *VerificationMismatchError) Error() string {
	return fmt.Sprintf("verification mismatch for transaction %s: %s", e.Ref, e.Detail)
}

// IsNotFound reports whether err is one of the not-found sentinels.
func IsNotFound(err error) bool {
	return errors.Is(err, ErrCartNotFound) ||
		errors.Is(err, ErrCartItemNotFound) ||
		errors.Is(err, ErrProductNotFound) ||
		errors.Is(err, ErrUserNotFound) ||
		errors.Is(err, ErrTransactionNotFound)
}
