package ctxutil

import (
	"context"
	"testing"
	"time"
)

func TestEmployeeCode(t *testing.T) {
	ctx := context.Background()
	if got := GetEmployeeCode(ctx); got != "" {
		t.Errorf("GetEmployeeCode() on empty context = %q, want empty", got)
	}

	ctx = WithEmployeeCode(ctx, "E012")
	if got := GetEmployeeCode(ctx); got != "E012" {
		t.Errorf("GetEmployeeCode() = %q, want %q", got, "E012")
	}
}

func TestLanguage(t *testing.T) {
	ctx := WithLanguage(context.Background(), "ar")
	if got := GetLanguage(ctx); got != "ar" {
		t.Errorf("GetLanguage() = %q, want %q", got, "ar")
	}
	if got := GetLanguage(WithLanguage(context.Background(), "")); got != "" {
		t.Errorf("GetLanguage() for empty value = %q, want empty", got)
	}
}

func TestRequestID(t *testing.T) {
	if _, ok := GetRequestID(context.Background()); ok {
		t.Error("expected no request ID on empty context")
	}

	ctx := WithRequestID(context.Background(), "req-1")
	id, ok := GetRequestID(ctx)
	if !ok || id != "req-1" {
		t.Errorf("GetRequestID() = %q, %v", id, ok)
	}
}

func TestPreserveTracing(t *testing.T) {
	parent, cancel := context.WithTimeout(context.Background(), time.Millisecond)
	parent = WithEmployeeCode(parent, "E012")
	parent = WithLanguage(parent, "en")
	parent = WithRequestID(parent, "req-42")
	cancel()

	detached := PreserveTracing(parent)

	if detached.Err() != nil {
		t.Errorf("detached context should not inherit cancellation, got %v", detached.Err())
	}
	if _, ok := detached.Deadline(); ok {
		t.Error("detached context should not inherit the deadline")
	}
	if GetEmployeeCode(detached) != "E012" || GetLanguage(detached) != "en" {
		t.Error("detached context lost tracing values")
	}
	if id, _ := GetRequestID(detached); id != "req-42" {
		t.Errorf("request ID = %q, want req-42", id)
	}
}
