package common

import (
	"errors"
	"fmt"
	"strings"
)

// Common error types used across the application
var (
	// ErrInvalidInput indicates invalid user input
	ErrInvalidInput = errors.New("invalid input")
	// ErrNotFound indicates a resource was not found
	ErrNotFound = errors.New("not found")
	// ErrInvalidConfiguration indicates configuration issues
	ErrInvalidConfiguration = errors.New("invalid configuration")
)

// WrapError wraps an error with additional context information
func WrapError(err error, message string) error {
	if err == nil {
		return nil
	}
	return fmt.Errorf("%s: %w", message, err)
}

// ValidationError represents validation errors with field-specific information
type ValidationError struct {
	Field   string
	Value   interface{}
	Message string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("validation failed for field '%s': %s (value: %v)", e.Field, e.Message, e.Value)
}

// Unwrap lets errors.Is match ValidationError against ErrInvalidInput.
func (e *ValidationError) Unwrap() error {
	return ErrInvalidInput
}

// NewValidationError creates a new validation error
func NewValidationError(field string, value interface{}, message string) *ValidationError {
	return &ValidationError{
		Field:   field,
		Value:   value,
		Message: message,
	}
}

// ConfigurationError represents configuration-related errors
type ConfigurationError struct {
	Section string
	Field   string
	Reason  string
}

func (e *ConfigurationError) Error() string {
	if e.Section != "" && e.Field != "" {
		return fmt.Sprintf("configuration error in section '%s', field '%s': %s", e.Section, e.Field, e.Reason)
	} else if e.Section != "" {
		return fmt.Sprintf("configuration error in section '%s': %s", e.Section, e.Reason)
	}
	return fmt.Sprintf("configuration error: %s", e.Reason)
}

// Unwrap lets errors.Is match ConfigurationError against ErrInvalidConfiguration.
func (e *ConfigurationError) Unwrap() error {
	return ErrInvalidConfiguration
}

// NewConfigurationError creates a new configuration error
func NewConfigurationError(section, field, reason string) *ConfigurationError {
	return &ConfigurationError{
		Section: section,
		Field:   field,
		Reason:  reason,
	}
}

// CombineErrors combines multiple errors into a single error with formatted message
func CombineErrors(errs []error) error {
	var messages []string
	for _, err := range errs {
		if err != nil {
			messages = append(messages, err.Error())
		}
	}

	switch len(messages) {
	case 0:
		return nil
	case 1:
		for _, err := range errs {
			if err != nil {
				return err
			}
		}
	}

	return fmt.Errorf("multiple errors occurred: [%s]", strings.Join(messages, "; "))
}
