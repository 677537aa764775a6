// Package errors provides domain-specific error types and sentinel errors
// for improved error handling across the application.
package errors

import (
	"errors"
	"fmt"
	"strings"
)

// Sentinel errors for common scenarios.
// Use errors.Is() to check these errors in your code.
var (
	// ErrNotFound indicates a requested record or section was not found.
	ErrNotFound = errors.New("resource not found")

	// ErrInvalidInput indicates the caller provided invalid input.
	ErrInvalidInput = errors.New("invalid input")

	// ErrUnknownColumn indicates an aggregation referenced a column absent from the schema.
	ErrUnknownColumn = errors.New("unknown column")

	// ErrGatewayUnavailable indicates the completion service could not produce an answer.
	ErrGatewayUnavailable = errors.New("completion gateway unavailable")

	// ErrRateLimitExceeded indicates rate limit has been exceeded.
	ErrRateLimitExceeded = errors.New("rate limit exceeded")

	// ErrUnauthorized indicates the employee code and PIN did not match.
	ErrUnauthorized = errors.New("unauthorized")

	// ErrDuplicateKey indicates a dataset contained the same key twice.
	ErrDuplicateKey = errors.New("duplicate key")
)

// ConfigurationError reports a request the loaded schema cannot serve,
// such as aggregating a column the record source does not provide.
type ConfigurationError struct {
	Column    string
	Available []string
}

func (e *ConfigurationError) Error() string {
	return fmt.Sprintf("column %q is not available (have: %s)", e.Column, strings.Join(e.Available, ", "))
}

// Unwrap lets errors.Is match ErrUnknownColumn.
func (e *ConfigurationError) Unwrap() error {
	return ErrUnknownColumn
}

// NewConfigurationError creates a configuration error for a missing column.
func NewConfigurationError(column string, available []string) *ConfigurationError {
	return &ConfigurationError{
		Column:    column,
		Available: available,
	}
}

// GatewayError wraps a completion failure after all providers were exhausted.
type GatewayError struct {
	Provider string
	Err      error
}

func (e *GatewayError) Error() string {
	if e.Provider != "" {
		return fmt.Sprintf("completion gateway (%s): %v", e.Provider, e.Err)
	}
	return fmt.Sprintf("completion gateway: %v", e.Err)
}

// Unwrap returns the underlying error.
func (e *GatewayError) Unwrap() error {
	return e.Err
}

// Is reports ErrGatewayUnavailable for every GatewayError.
func (e *GatewayError) Is(target error) bool {
	return target == ErrGatewayUnavailable
}

// NewGatewayError creates a new gateway error.
func NewGatewayError(provider string, err error) *GatewayError {
	return &GatewayError{
		Provider: provider,
		Err:      err,
	}
}

// ValidationError represents input validation failures.
type ValidationError struct {
	Field   string
	Message string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("validation failed on %s: %s", e.Field, e.Message)
}

// Unwrap lets errors.Is match ErrInvalidInput.
func (e *ValidationError) Unwrap() error {
	return ErrInvalidInput
}

// NewValidationError creates a new validation error.
func NewValidationError(field, message string) *ValidationError {
	return &ValidationError{
		Field:   field,
		Message: message,
	}
}
