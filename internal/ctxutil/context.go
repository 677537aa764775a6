// Package ctxutil provides type-safe context value management.
// Uses private key types to prevent collisions.
package ctxutil

import (
	"context"
)

type contextKey string

const (
	employeeCodeKey contextKey = "ctxutil.employeeCode"
	languageKey     contextKey = "ctxutil.language"
	requestIDKey    contextKey = "ctxutil.requestID"
)

// WithEmployeeCode adds the authenticated employee code to the context.
// The code is used for self-service lookups, rate limiting and log correlation.
func WithEmployeeCode(ctx context.Context, code string) context.Context {
	return context.WithValue(ctx, employeeCodeKey, code)
}

// GetEmployeeCode retrieves the employee code from the context.
// Returns the code if found, empty string otherwise.
func GetEmployeeCode(ctx context.Context) string {
	if v := ctx.Value(employeeCodeKey); v != nil {
		if code, ok := v.(string); ok && code != "" {
			return code
		}
	}
	return ""
}

// WithLanguage adds the session language hint ("en", "ar") to the context.
func WithLanguage(ctx context.Context, lang string) context.Context {
	return context.WithValue(ctx, languageKey, lang)
}

// GetLanguage retrieves the language hint from the context.
func GetLanguage(ctx context.Context) string {
	if v := ctx.Value(languageKey); v != nil {
		if lang, ok := v.(string); ok && lang != "" {
			return lang
		}
	}
	return ""
}

// WithRequestID adds a request ID to the context for tracing.
// Request ID is generated per HTTP request for log correlation.
func WithRequestID(ctx context.Context, requestID string) context.Context {
	return context.WithValue(ctx, requestIDKey, requestID)
}

// GetRequestID retrieves the request ID from the context.
// Returns the request ID and true if found, empty string and false otherwise.
func GetRequestID(ctx context.Context) (string, bool) {
	requestID, ok := ctx.Value(requestIDKey).(string)
	return requestID, ok
}

// PreserveTracing creates a detached context that preserves tracing values.
// The new context is independent of the parent's cancellation and deadlines.
//
// Only tracing values are copied, so the parent context is not retained
// (Go issue #64478).
func PreserveTracing(ctx context.Context) context.Context {
	newCtx := context.Background()

	if code := GetEmployeeCode(ctx); code != "" {
		newCtx = WithEmployeeCode(newCtx, code)
	}
	if lang := GetLanguage(ctx); lang != "" {
		newCtx = WithLanguage(newCtx, lang)
	}
	if requestID, ok := GetRequestID(ctx); ok && requestID != "" {
		newCtx = WithRequestID(newCtx, requestID)
	}

	return newCtx
}
