// Package metrics defines the Prometheus collectors exported on /metrics.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Metrics holds all Prometheus metrics
type Metrics struct {
	// Query pipeline
	QueriesTotal         *prometheus.CounterVec
	QueryDurationSeconds *prometheus.HistogramVec
	ResponsesTotal       *prometheus.CounterVec

	// Completion gateway
	GatewayRequestsTotal   *prometheus.CounterVec
	GatewayDurationSeconds *prometheus.HistogramVec
	GatewayFallbackTotal   *prometheus.CounterVec

	// Rate limiter metrics
	RateLimiterDropped    *prometheus.CounterVec
	RateLimiterActiveKeys *prometheus.GaugeVec

	// Authentication
	AuthFailuresTotal prometheus.Counter

	// Loaded data
	DatasetSize *prometheus.GaugeVec
}

// New creates a new Metrics instance with all metrics registered
func New(registry *prometheus.Registry) *Metrics {
	factory := promauto.With(registry)

	return &Metrics{
		QueriesTotal: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "askhr_queries_total",
				Help: "Total number of queries by matched intent",
			},
			[]string{"intent"}, // intent: fixed_answer, employee_lookup, self_service, policy_section, policy_list, aggregation, general
		),

		QueryDurationSeconds: factory.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "askhr_query_duration_seconds",
				Help:    "End-to-end query duration in seconds by matched intent",
				Buckets: []float64{0.001, 0.005, 0.01, 0.05, 0.1, 0.5, 1, 2, 5, 10, 25}, // Matches 25s query timeout
			},
			[]string{"intent"},
		),

		ResponsesTotal: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "askhr_responses_total",
				Help: "Total number of responses by kind",
			},
			[]string{"kind"}, // kind: field_value, aggregation_table, policy_text, section_list, general_answer, not_found, fixed_answer
		),

		GatewayRequestsTotal: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "askhr_gateway_requests_total",
				Help: "Total completion requests by provider and status",
			},
			[]string{"provider", "status"}, // status: success, error, rate_limited
		),

		GatewayDurationSeconds: factory.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "askhr_gateway_duration_seconds",
				Help:    "Completion request duration in seconds by provider",
				Buckets: []float64{0.25, 0.5, 1, 2, 4, 8, 12, 20},
			},
			[]string{"provider"},
		),

		GatewayFallbackTotal: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "askhr_gateway_fallback_total",
				Help: "Total provider fallbacks by source and target provider",
			},
			[]string{"from", "to"},
		),

		RateLimiterDropped: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "askhr_rate_limiter_dropped_total",
				Help: "Total number of requests dropped by rate limiter",
			},
			[]string{"limiter"},
		),

		RateLimiterActiveKeys: factory.NewGaugeVec(
			prometheus.GaugeOpts{
				Name: "askhr_rate_limiter_active_keys",
				Help: "Number of keys currently tracked by a rate limiter",
			},
			[]string{"limiter"},
		),

		AuthFailuresTotal: factory.NewCounter(
			prometheus.CounterOpts{
				Name: "askhr_auth_failures_total",
				Help: "Total number of rejected employee credentials",
			},
		),

		DatasetSize: factory.NewGaugeVec(
			prometheus.GaugeOpts{
				Name: "askhr_dataset_size",
				Help: "Number of loaded items per dataset",
			},
			[]string{"dataset"}, // dataset: records, credentials, policy_sections
		),
	}
}

// RecordQuery records a routed query and its duration.
func (m *Metrics) RecordQuery(intent string, duration float64) {
	m.QueriesTotal.WithLabelValues(intent).Inc()
	m.QueryDurationSeconds.WithLabelValues(intent).Observe(duration)
}

// RecordResponse records the kind of response returned to the caller.
func (m *Metrics) RecordResponse(kind string) {
	m.ResponsesTotal.WithLabelValues(kind).Inc()
}

// RecordGateway records a completion request.
func (m *Metrics) RecordGateway(provider, status string, duration float64) {
	m.GatewayRequestsTotal.WithLabelValues(provider, status).Inc()
	m.GatewayDurationSeconds.WithLabelValues(provider).Observe(duration)
}

// RecordGatewayFallback records a switch from one provider to another.
func (m *Metrics) RecordGatewayFallback(from, to string) {
	m.GatewayFallbackTotal.WithLabelValues(from, to).Inc()
}

// RecordRateLimiterDrop records a request dropped by rate limiter
func (m *Metrics) RecordRateLimiterDrop(limiter string) {
	m.RateLimiterDropped.WithLabelValues(limiter).Inc()
}

// SetRateLimiterActiveKeys sets the number of keys a limiter tracks.
func (m *Metrics) SetRateLimiterActiveKeys(limiter string, count int) {
	m.RateLimiterActiveKeys.WithLabelValues(limiter).Set(float64(count))
}

// RecordAuthFailure records a rejected credential.
func (m *Metrics) RecordAuthFailure() {
	m.AuthFailuresTotal.Inc()
}

// SetDatasetSize sets the loaded size of a dataset.
func (m *Metrics) SetDatasetSize(dataset string, size int) {
	m.DatasetSize.WithLabelValues(dataset).Set(float64(size))
}
