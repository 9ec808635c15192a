package handler

import (
	"fmt"

	"github.com/pkg/errors"
)

// AuthenticationError is returned when a delivery carries a missing or mismatched signature.
type AuthenticationError struct {
	Cause error
}

func (e *AuthenticationError) Error() string {
	return fmt.Sprintf("authentication failure: %v", e.Cause)
}

func (e *AuthenticationError) Unwrap() error {
	return e.Cause
}

// MalformedRequestError is returned when a delivery body cannot be interpreted.
type MalformedRequestError struct {
	Cause error
}

func (e *MalformedRequestError) Error() string {
	return fmt.Sprintf("malformed request: %v", e.Cause)
}

func (e *MalformedRequestError) Unwrap() error {
	return e.Cause
}

// NewMalformedRequestError formats a MalformedRequestError.
func NewMalformedRequestError(format string, args ...any) error {
	return &MalformedRequestError{Cause: errors.Errorf(format, args...)}
}
