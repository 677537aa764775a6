package genai

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	domerrors "github.com/garyellow/askhr-go/internal/errors"
)

// minAttemptBudget is the least remaining time worth starting a call with.
const minAttemptBudget = time.Second

// Gateway tries a chain of completers in order. Each completer is retried
// on transient errors; other failures move on to the next one. When every
// completer fails the error is a *errors.GatewayError.
type Gateway struct {
	chain    []Completer
	retry    RetryConfig
	recorder Recorder
}

// NewGateway creates a gateway over chain. recorder may be nil.
func NewGateway(chain []Completer, retry RetryConfig, recorder Recorder) *Gateway {
	return &Gateway{chain: chain, retry: retry, recorder: recorder}
}

// Enabled reports whether the gateway has any completer.
func (g *Gateway) Enabled() bool {
	return g != nil && len(g.chain) > 0
}

// Providers lists the chain as provider/model pairs.
func (g *Gateway) Providers() []string {
	if g == nil {
		return nil
	}
	out := make([]string, len(g.chain))
	for i, c := range g.chain {
		out[i] = string(c.Provider()) + "/" + c.Model()
	}
	return out
}

// Complete returns the first successful completion in chain order.
func (g *Gateway) Complete(ctx context.Context, preamble, userText string) (string, error) {
	if !g.Enabled() {
		return "", domerrors.NewGatewayError("", errors.New("no completion provider configured"))
	}

	start := time.Now()
	var lastErr error
	var prev Completer
	for i, c := range g.chain {
		if i > 0 && !HasSufficientBudget(ctx, minAttemptBudget) {
			lastErr = fmt.Errorf("insufficient time budget: %w", context.DeadlineExceeded)
			break
		}
		if prev != nil {
			slog.InfoContext(ctx, "falling back to next completion model",
				"from", prev.Provider(), "from_model", prev.Model(),
				"to", c.Provider(), "to_model", c.Model())
			if g.recorder != nil {
				g.recorder.RecordGatewayFallback(string(prev.Provider()), string(c.Provider()))
			}
		}

		text, err := g.completeWithRetry(ctx, c, preamble, userText)
		if err == nil {
			return text, nil
		}
		lastErr = err

		action := ClassifyError(err)
		slog.WarnContext(ctx, "completion model failed",
			"provider", c.Provider(),
			"model", c.Model(),
			"action", action,
			"error", err)
		if action == ActionFail || ctx.Err() != nil {
			break
		}
		prev = c
	}

	slog.ErrorContext(ctx, "all completion providers failed",
		"duration", time.Since(start),
		"error", lastErr)
	provider := ""
	var llmErr *LLMError
	if errors.As(lastErr, &llmErr) {
		provider = string(llmErr.Provider)
	}
	return "", domerrors.NewGatewayError(provider, lastErr)
}

func (g *Gateway) completeWithRetry(ctx context.Context, c Completer, preamble, userText string) (string, error) {
	var text string
	onRetry := func(attempt int, err error) {
		slog.DebugContext(ctx, "retrying completion",
			"provider", c.Provider(), "model", c.Model(), "attempt", attempt, "error", err)
	}
	err := WithRetry(ctx, g.retry, onRetry, func() error {
		start := time.Now()
		out, err := c.Complete(ctx, preamble, userText)
		if g.recorder != nil {
			g.recorder.RecordGateway(string(c.Provider()), statusLabel(err), time.Since(start).Seconds())
		}
		if err != nil {
			return err
		}
		text = out
		return nil
	})
	return text, err
}

// Close closes every completer in the chain.
func (g *Gateway) Close() error {
	if g == nil {
		return nil
	}
	var errs []error
	for _, c := range g.chain {
		if err := c.Close(); err != nil {
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}
