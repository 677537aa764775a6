package logger

import (
	"bytes"
	"context"
	"encoding/json"
	"log/slog"
	"testing"
	"time"

	"github.com/garyellow/askhr-go/internal/ctxutil"
)

var testTime = time.Date(2026, 1, 2, 3, 4, 5, 0, time.UTC)

func TestContextHandler_Handle(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name  string
		setup func(context.Context) context.Context
		want  map[string]string
	}{
		{
			name: "all values",
			setup: func(ctx context.Context) context.Context {
				ctx = ctxutil.WithEmployeeCode(ctx, "CP1001")
				ctx = ctxutil.WithLanguage(ctx, "ar")
				return ctxutil.WithRequestID(ctx, "req-1")
			},
			want: map[string]string{"employee_code": "CP1001", "language": "ar", "request_id": "req-1"},
		},
		{
			name: "partial values",
			setup: func(ctx context.Context) context.Context {
				return ctxutil.WithEmployeeCode(ctx, "CP2002")
			},
			want: map[string]string{"employee_code": "CP2002"},
		},
		{
			name:  "empty context",
			setup: func(ctx context.Context) context.Context { return ctx },
			want:  map[string]string{},
		},
		{
			name: "empty strings skipped",
			setup: func(ctx context.Context) context.Context {
				ctx = ctxutil.WithEmployeeCode(ctx, "")
				return ctxutil.WithLanguage(ctx, "en")
			},
			want: map[string]string{"language": "en"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			var buf bytes.Buffer
			log := slog.New(NewContextHandler(slog.NewJSONHandler(&buf, nil)))
			log.InfoContext(tt.setup(context.Background()), "hello")

			var entry map[string]any
			if err := json.Unmarshal(buf.Bytes(), &entry); err != nil {
				t.Fatalf("parse JSON: %v", err)
			}
			for _, key := range []string{"employee_code", "language", "request_id"} {
				want, expected := tt.want[key]
				got, present := entry[key]
				if expected != present {
					t.Errorf("%s present = %v, want %v", key, present, expected)
					continue
				}
				if expected && got != want {
					t.Errorf("%s = %v, want %q", key, got, want)
				}
			}
		})
	}
}

func TestContextHandler_WithAttrsKeepsContextExtraction(t *testing.T) {
	t.Parallel()

	var buf bytes.Buffer
	log := slog.New(NewContextHandler(slog.NewJSONHandler(&buf, nil))).With("module", "api").WithGroup("g")
	log.InfoContext(ctxutil.WithRequestID(context.Background(), "req-9"), "msg", "k", "v")

	if !bytes.Contains(buf.Bytes(), []byte(`"req-9"`)) {
		t.Errorf("request id missing from %s", buf.String())
	}
}
