package domain

import (
	"errors"
	"fmt"
)

var (
	ErrProductNotFound    = errors.New("product not found")
	ErrOrderNotFound      = errors.New("order not found")
	ErrUserNotFound       = errors.New("user not found")
	ErrOutOfStock         = errors.New("insufficient stock")
	ErrEmptyCart          = errors.New("cart is empty")
	ErrIllegalTransition  = errors.New("illegal status transition")
	ErrAccessDenied       = errors.New("access denied")
	ErrDuplicate          = errors.New("duplicate identifier")
	ErrInvalidCredentials = errors.New("invalid credentials")
)

// ValidationError carries the offending field so handlers can return
// field-level messages.
type ValidationError struct {
	Field  string
	Reason string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("validation failed: %s %s", e.Field, e.Reason)
}

func invalid(field, reason string) error {
	return &ValidationError{Field: field, Reason: reason}
}
