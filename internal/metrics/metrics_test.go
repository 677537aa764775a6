package metrics

import (
	"testing"

	"github.com/prometheus/client_golang/prometheus"
)

// gathered returns the value of the first sample of name whose labels include label=value.
func gathered(t *testing.T, registry *prometheus.Registry, name, label, value string) float64 {
	t.Helper()
	families, err := registry.Gather()
	if err != nil {
		t.Fatalf("Gather() error: %v", err)
	}
	for _, f := range families {
		if f.GetName() != name {
			continue
		}
		for _, m := range f.GetMetric() {
			match := label == ""
			for _, lp := range m.GetLabel() {
				if lp.GetName() == label && lp.GetValue() == value {
					match = true
				}
			}
			if !match {
				continue
			}
			switch {
			case m.GetCounter() != nil:
				return m.GetCounter().GetValue()
			case m.GetGauge() != nil:
				return m.GetGauge().GetValue()
			}
		}
	}
	return 0
}

func TestNew_RegistersCollectors(t *testing.T) {
	registry := prometheus.NewRegistry()
	m := New(registry)

	m.RecordQuery("aggregation", 0.01)
	m.RecordResponse("aggregation_table")
	m.RecordGateway("openai", "success", 1.2)
	m.RecordGatewayFallback("openai", "gemini")
	m.RecordRateLimiterDrop("llm")
	m.SetRateLimiterActiveKeys("llm", 3)
	m.RecordAuthFailure()
	m.SetDatasetSize("records", 42)

	families, err := registry.Gather()
	if err != nil {
		t.Fatalf("Gather() error: %v", err)
	}
	names := make(map[string]bool, len(families))
	for _, f := range families {
		names[f.GetName()] = true
	}
	for _, want := range []string{
		"askhr_queries_total",
		"askhr_query_duration_seconds",
		"askhr_responses_total",
		"askhr_gateway_requests_total",
		"askhr_gateway_duration_seconds",
		"askhr_gateway_fallback_total",
		"askhr_rate_limiter_dropped_total",
		"askhr_rate_limiter_active_keys",
		"askhr_auth_failures_total",
		"askhr_dataset_size",
	} {
		if !names[want] {
			t.Errorf("metric %s not registered", want)
		}
	}
}

func TestNew_DuplicateRegistrationPanics(t *testing.T) {
	registry := prometheus.NewRegistry()
	New(registry)

	defer func() {
		if recover() == nil {
			t.Error("registering twice on one registry should panic")
		}
	}()
	New(registry)
}

func TestRecordQuery_CountsPerIntent(t *testing.T) {
	registry := prometheus.NewRegistry()
	m := New(registry)

	m.RecordQuery("policy_section", 0.001)
	m.RecordQuery("policy_section", 0.002)
	m.RecordQuery("general", 1.5)

	if got := gathered(t, registry, "askhr_queries_total", "intent", "policy_section"); got != 2 {
		t.Errorf("policy_section = %v, want 2", got)
	}
	if got := gathered(t, registry, "askhr_queries_total", "intent", "general"); got != 1 {
		t.Errorf("general = %v, want 1", got)
	}
}

func TestGauges(t *testing.T) {
	registry := prometheus.NewRegistry()
	m := New(registry)

	m.SetDatasetSize("policy_sections", 12)
	m.SetDatasetSize("policy_sections", 14)
	m.SetRateLimiterActiveKeys("llm", 5)

	if got := gathered(t, registry, "askhr_dataset_size", "dataset", "policy_sections"); got != 14 {
		t.Errorf("dataset size = %v, want 14", got)
	}
	if got := gathered(t, registry, "askhr_rate_limiter_active_keys", "limiter", "llm"); got != 5 {
		t.Errorf("active keys = %v, want 5", got)
	}
	m.RecordAuthFailure()
	if got := gathered(t, registry, "askhr_auth_failures_total", "", ""); got != 1 {
		t.Errorf("auth failures = %v, want 1", got)
	}
}
