package errors

import (
	"errors"
	"fmt"
	"testing"
)

func TestSentinelErrors(t *testing.T) {
	tests := []struct {
		name     string
		err      error
		target   error
		expected bool
	}{
		{
			name:     "ConfigurationError matches ErrUnknownColumn",
			err:      NewConfigurationError("Religion", []string{"Age", "Gender"}),
			target:   ErrUnknownColumn,
			expected: true,
		},
		{
			name:     "wrapped ConfigurationError still matches",
			err:      fmt.Errorf("aggregate: %w", NewConfigurationError("Religion", nil)),
			target:   ErrUnknownColumn,
			expected: true,
		},
		{
			name:     "GatewayError matches ErrGatewayUnavailable",
			err:      NewGatewayError("openai", errors.New("503 service unavailable")),
			target:   ErrGatewayUnavailable,
			expected: true,
		},
		{
			name:     "ValidationError matches ErrInvalidInput",
			err:      NewValidationError("query", "empty"),
			target:   ErrInvalidInput,
			expected: true,
		},
		{
			name:     "different sentinel does not match",
			err:      ErrRateLimitExceeded,
			target:   ErrNotFound,
			expected: false,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := errors.Is(tt.err, tt.target); got != tt.expected {
				t.Errorf("errors.Is(%v, %v) = %v, want %v", tt.err, tt.target, got, tt.expected)
			}
		})
	}
}

func TestConfigurationError_Message(t *testing.T) {
	err := NewConfigurationError("Religion", []string{"Age", "Gender"})
	want := `column "Religion" is not available (have: Age, Gender)`
	if err.Error() != want {
		t.Errorf("Error() = %q, want %q", err.Error(), want)
	}
}

func TestGatewayError_Unwrap(t *testing.T) {
	cause := errors.New("quota exceeded")
	err := NewGatewayError("gemini", cause)

	if !errors.Is(err, cause) {
		t.Error("expected GatewayError to unwrap to its cause")
	}
	if err.Error() != "completion gateway (gemini): quota exceeded" {
		t.Errorf("unexpected message: %q", err.Error())
	}
}
