package logger

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"testing"
)

type failingHandler struct{ err error }

func (f failingHandler) Enabled(context.Context, slog.Level) bool  { return true }
func (f failingHandler) Handle(context.Context, slog.Record) error { return f.err }
func (f failingHandler) WithAttrs([]slog.Attr) slog.Handler        { return f }
func (f failingHandler) WithGroup(string) slog.Handler             { return f }

func TestNewMultiHandler_NilFiltering(t *testing.T) {
	t.Parallel()

	var buf bytes.Buffer
	mh := NewMultiHandler(nil, slog.NewJSONHandler(&buf, nil), nil)
	if len(mh.sinks) != 1 {
		t.Errorf("expected 1 sink after filtering nils, got %d", len(mh.sinks))
	}
}

func TestMultiHandler_Enabled(t *testing.T) {
	t.Parallel()

	var buf1, buf2 bytes.Buffer
	mh := NewMultiHandler(
		slog.NewJSONHandler(&buf1, &slog.HandlerOptions{Level: slog.LevelWarn}),
		slog.NewJSONHandler(&buf2, &slog.HandlerOptions{Level: slog.LevelError}),
	)

	tests := []struct {
		level slog.Level
		want  bool
	}{
		{slog.LevelDebug, false},
		{slog.LevelInfo, false},
		{slog.LevelWarn, true},
		{slog.LevelError, true},
	}
	for _, tt := range tests {
		t.Run(tt.level.String(), func(t *testing.T) {
			if got := mh.Enabled(context.Background(), tt.level); got != tt.want {
				t.Errorf("Enabled(%v) = %v, want %v", tt.level, got, tt.want)
			}
		})
	}
}

func TestMultiHandler_HandleFansOut(t *testing.T) {
	t.Parallel()

	var info, errOnly bytes.Buffer
	mh := NewMultiHandler(
		slog.NewJSONHandler(&info, &slog.HandlerOptions{Level: slog.LevelInfo}),
		slog.NewJSONHandler(&errOnly, &slog.HandlerOptions{Level: slog.LevelError}),
	)
	log := slog.New(mh).With("module", "dispatch")
	log.Info("routed", "intent", "aggregation")

	var entry map[string]any
	if err := json.Unmarshal(info.Bytes(), &entry); err != nil {
		t.Fatalf("parse JSON: %v", err)
	}
	if entry["module"] != "dispatch" || entry["intent"] != "aggregation" {
		t.Errorf("unexpected entry: %v", entry)
	}
	if errOnly.Len() != 0 {
		t.Errorf("error-level sink should not receive info record, got %q", errOnly.String())
	}
}

func TestMultiHandler_HandleJoinsErrors(t *testing.T) {
	t.Parallel()

	sentinel := errors.New("sink down")
	var buf bytes.Buffer
	mh := NewMultiHandler(slog.NewJSONHandler(&buf, nil), failingHandler{err: sentinel})

	err := mh.Handle(context.Background(), slog.NewRecord(testTime, slog.LevelInfo, "x", 0))
	if !errors.Is(err, sentinel) {
		t.Errorf("Handle() error = %v, want %v", err, sentinel)
	}
	if buf.Len() == 0 {
		t.Error("healthy sink should still receive the record")
	}
}
