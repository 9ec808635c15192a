package config

import (
	"fmt"

	"github.com/pkg/errors"
)

// ConfigurationError reports settings the application cannot start with.
type ConfigurationError struct {
	Cause error
}

func (e *ConfigurationError) Error() string {
	return fmt.Sprintf("configuration error: %v", e.Cause)
}

func (e *ConfigurationError) Unwrap() error {
	return e.Cause
}

// NewConfigurationError formats a ConfigurationError.
func NewConfigurationError(format string, args ...any) error {
	return &ConfigurationError{Cause: errors.Errorf(format, args...)}
}
