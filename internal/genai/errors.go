package genai

import (
	"context"
	"errors"
	"net/http"
	"strconv"
	"strings"

	"github.com/openai/openai-go/v3"
	"google.golang.org/genai"
)

// ErrorAction defines what the gateway does after a failed call.
type ErrorAction int

const (
	// ActionRetry retries the same model after a backoff.
	ActionRetry ErrorAction = iota
	// ActionFallback moves on to the next model or provider.
	ActionFallback
	// ActionFail stops immediately.
	ActionFail
)

// String returns a human-readable string for the error action.
func (a ErrorAction) String() string {
	switch a {
	case ActionRetry:
		return "retry"
	case ActionFallback:
		return "fallback"
	case ActionFail:
		return "fail"
	default:
		return "unknown"
	}
}

// LLMError annotates a provider failure with its HTTP status.
type LLMError struct {
	Err        error
	StatusCode int
	Provider   Provider
	Model      string
}

// Error implements the error interface.
func (e *LLMError) Error() string {
	msg := string(e.Provider) + "/" + e.Model + ": " + e.Err.Error()
	if e.StatusCode > 0 {
		msg += " (status: " + strconv.Itoa(e.StatusCode) + ")"
	}
	return msg
}

// Unwrap returns the underlying error.
func (e *LLMError) Unwrap() error {
	return e.Err
}

// wrapError attaches provider, model and the SDK status code to err.
func wrapError(err error, provider Provider, model string) error {
	if err == nil {
		return nil
	}
	return &LLMError{
		Err:        err,
		StatusCode: statusCode(err),
		Provider:   provider,
		Model:      model,
	}
}

// statusCode extracts the HTTP status from SDK error types.
func statusCode(err error) int {
	var oaErr *openai.Error
	if errors.As(err, &oaErr) {
		return oaErr.StatusCode
	}
	var gErr genai.APIError
	if errors.As(err, &gErr) {
		return gErr.Code
	}
	return 0
}

// ClassifyError decides how to proceed after err:
//   - transient failures (429, 5xx, timeouts, network) are retried
//   - quota exhaustion and model-level rejections fall back
//   - caller cancellation fails immediately
func ClassifyError(err error) ErrorAction {
	if err == nil || errors.Is(err, context.Canceled) {
		return ActionFail
	}
	if errors.Is(err, context.DeadlineExceeded) {
		return ActionRetry
	}
	if errors.Is(err, errEmptyCompletion) {
		return ActionFallback
	}

	var llmErr *LLMError
	if errors.As(err, &llmErr) && llmErr.StatusCode > 0 {
		if llmErr.StatusCode == http.StatusTooManyRequests && isQuota(err) {
			return ActionFallback
		}
		return classifyStatusCode(llmErr.StatusCode)
	}

	msg := strings.ToLower(err.Error())
	switch {
	case isQuota(err):
		return ActionFallback
	case containsAny(msg, "rate limit", "too many requests", "resource_exhausted", "429"):
		return ActionRetry
	case containsAny(msg, "unavailable", "internal server error", "bad gateway",
		"gateway timeout", "overloaded", "capacity", "500", "502", "503", "504"):
		return ActionRetry
	case containsAny(msg, "timeout", "deadline", "connection", "eof"):
		return ActionRetry
	case containsAny(msg, "401", "403", "unauthorized", "unauthenticated", "forbidden",
		"permission denied", "invalid api key"):
		return ActionFallback
	case containsAny(msg, "400", "404", "422", "bad request", "not found", "unprocessable", "invalid"):
		return ActionFallback
	default:
		return ActionRetry
	}
}

// classifyStatusCode maps an HTTP status to an action. Client errors fall
// back instead of failing: a bad key or an unknown model on one provider
// says nothing about the next one.
func classifyStatusCode(code int) ErrorAction {
	switch {
	case code == http.StatusTooManyRequests,
		code == http.StatusRequestTimeout,
		code == http.StatusConflict,
		code >= 500 && code < 600:
		return ActionRetry
	case code >= 400 && code < 500:
		return ActionFallback
	default:
		return ActionRetry
	}
}

func isQuota(err error) bool {
	return containsAny(strings.ToLower(err.Error()),
		"quota", "daily limit", "monthly limit", "billing", "insufficient_quota")
}

// statusLabel maps an error to the metric status label.
func statusLabel(err error) string {
	if err == nil {
		return "success"
	}
	if errors.Is(err, context.DeadlineExceeded) {
		return "timeout"
	}
	if errors.Is(err, context.Canceled) {
		return "canceled"
	}

	code := 0
	var llmErr *LLMError
	if errors.As(err, &llmErr) {
		code = llmErr.StatusCode
	}
	switch {
	case isQuota(err):
		return "quota_exceeded"
	case code == http.StatusTooManyRequests:
		return "rate_limit"
	case code == http.StatusUnauthorized || code == http.StatusForbidden:
		return "auth_error"
	case code >= 500:
		return "server_error"
	case code >= 400:
		return "client_error"
	default:
		return "error"
	}
}

func containsAny(s string, substrings ...string) bool {
	for _, sub := range substrings {
		if strings.Contains(s, sub) {
			return true
		}
	}
	return false
}
