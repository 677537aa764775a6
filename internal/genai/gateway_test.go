package genai

import (
	"context"
	"errors"
	"net/http"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	domerrors "github.com/garyellow/askhr-go/internal/errors"
)

type stubCompleter struct {
	provider Provider
	model    string
	errs     []error // returned in order, then text
	text     string

	mu       sync.Mutex
	calls    int
	preamble string
	userText string
	closed   bool
}

func (s *stubCompleter) Complete(_ context.Context, preamble, userText string) (string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.calls++
	s.preamble, s.userText = preamble, userText
	if s.calls <= len(s.errs) {
		return "", s.errs[s.calls-1]
	}
	return s.text, nil
}

func (s *stubCompleter) Provider() Provider { return s.provider }
func (s *stubCompleter) Model() string      { return s.model }
func (s *stubCompleter) Close() error {
	s.closed = true
	return nil
}

type recordedCall struct {
	provider, status string
}

type stubRecorder struct {
	mu        sync.Mutex
	calls     []recordedCall
	fallbacks [][2]string
}

func (r *stubRecorder) RecordGateway(provider, status string, _ float64) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.calls = append(r.calls, recordedCall{provider, status})
}

func (r *stubRecorder) RecordGatewayFallback(from, to string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.fallbacks = append(r.fallbacks, [2]string{from, to})
}

func statusErr(p Provider, code int) error {
	return &LLMError{Err: errors.New(http.StatusText(code)), StatusCode: code, Provider: p, Model: "m"}
}

var fastRetry = RetryConfig{MaxAttempts: 2, InitialDelay: time.Millisecond, MaxDelay: time.Millisecond}

func TestGateway_PrimarySuccess(t *testing.T) {
	t.Parallel()
	primary := &stubCompleter{provider: ProviderOpenAI, model: "gpt", text: "Hello"}
	secondary := &stubCompleter{provider: ProviderGemini, model: "flash", text: "unused"}
	rec := &stubRecorder{}

	g := NewGateway([]Completer{primary, secondary}, fastRetry, rec)
	got, err := g.Complete(context.Background(), "persona", "what is a probation period?")

	require.NoError(t, err)
	assert.Equal(t, "Hello", got)
	assert.Equal(t, "persona", primary.preamble)
	assert.Equal(t, "what is a probation period?", primary.userText)
	assert.Zero(t, secondary.calls)
	assert.Equal(t, []recordedCall{{"openai", "success"}}, rec.calls)
	assert.Empty(t, rec.fallbacks)
}

func TestGateway_RetriesThenFallsBack(t *testing.T) {
	t.Parallel()
	primary := &stubCompleter{provider: ProviderOpenAI, model: "gpt", errs: []error{
		statusErr(ProviderOpenAI, http.StatusServiceUnavailable),
		statusErr(ProviderOpenAI, http.StatusServiceUnavailable),
	}}
	secondary := &stubCompleter{provider: ProviderGemini, model: "flash", text: "from gemini"}
	rec := &stubRecorder{}

	g := NewGateway([]Completer{primary, secondary}, fastRetry, rec)
	got, err := g.Complete(context.Background(), "p", "q")

	require.NoError(t, err)
	assert.Equal(t, "from gemini", got)
	assert.Equal(t, 2, primary.calls)
	assert.Equal(t, 1, secondary.calls)
	assert.Equal(t, [][2]string{{"openai", "gemini"}}, rec.fallbacks)
	assert.Equal(t, []recordedCall{
		{"openai", "server_error"},
		{"openai", "server_error"},
		{"gemini", "success"},
	}, rec.calls)
}

func TestGateway_ClientErrorSkipsRetry(t *testing.T) {
	t.Parallel()
	primary := &stubCompleter{provider: ProviderGroq, model: "llama", errs: []error{statusErr(ProviderGroq, http.StatusUnauthorized)}}
	secondary := &stubCompleter{provider: ProviderCerebras, model: "llama", text: "ok"}

	g := NewGateway([]Completer{primary, secondary}, fastRetry, nil)
	got, err := g.Complete(context.Background(), "p", "q")

	require.NoError(t, err)
	assert.Equal(t, "ok", got)
	assert.Equal(t, 1, primary.calls)
}

func TestGateway_AllFail(t *testing.T) {
	t.Parallel()
	primary := &stubCompleter{provider: ProviderOpenAI, model: "a", errs: []error{statusErr(ProviderOpenAI, http.StatusBadRequest)}}
	secondary := &stubCompleter{provider: ProviderGemini, model: "b", errs: []error{statusErr(ProviderGemini, http.StatusNotFound)}}

	g := NewGateway([]Completer{primary, secondary}, fastRetry, nil)
	_, err := g.Complete(context.Background(), "p", "q")

	require.Error(t, err)
	assert.True(t, errors.Is(err, domerrors.ErrGatewayUnavailable))
	var gwErr *domerrors.GatewayError
	require.ErrorAs(t, err, &gwErr)
	assert.Equal(t, "gemini", gwErr.Provider)
}

func TestGateway_CanceledContextStops(t *testing.T) {
	t.Parallel()
	primary := &stubCompleter{provider: ProviderOpenAI, model: "a", errs: []error{context.Canceled}}
	secondary := &stubCompleter{provider: ProviderGemini, model: "b", text: "never"}

	g := NewGateway([]Completer{primary, secondary}, fastRetry, nil)
	_, err := g.Complete(context.Background(), "p", "q")

	require.Error(t, err)
	assert.True(t, errors.Is(err, domerrors.ErrGatewayUnavailable))
	assert.Zero(t, secondary.calls)
}

func TestGateway_NoCompleters(t *testing.T) {
	t.Parallel()

	var nilGateway *Gateway
	assert.False(t, nilGateway.Enabled())
	assert.NoError(t, nilGateway.Close())

	g := NewGateway(nil, fastRetry, nil)
	assert.False(t, g.Enabled())
	_, err := g.Complete(context.Background(), "p", "q")
	assert.True(t, errors.Is(err, domerrors.ErrGatewayUnavailable))
}

func TestGateway_ProvidersAndClose(t *testing.T) {
	t.Parallel()
	a := &stubCompleter{provider: ProviderOpenAI, model: "gpt-4o"}
	b := &stubCompleter{provider: ProviderGroq, model: "llama"}

	g := NewGateway([]Completer{a, b}, fastRetry, nil)
	assert.Equal(t, []string{"openai/gpt-4o", "groq/llama"}, g.Providers())
	require.NoError(t, g.Close())
	assert.True(t, a.closed)
	assert.True(t, b.closed)
}
