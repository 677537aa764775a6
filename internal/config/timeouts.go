// Package config provides centralized timeout constants for the application.
//
// A query is answered synchronously inside one HTTP request. The only slow
// step is the completion gateway, so the query budget is sized around it:
//
//	QueryProcessing (25s) > GatewayCall (20s) > provider retries
package config

import "time"

// Query timeouts
const (
	// QueryProcessing bounds one ask() cycle, completion call included.
	QueryProcessing = 25 * time.Second

	// GatewayCall bounds a single completion request across retries and fallbacks.
	GatewayCall = 20 * time.Second
)

// HTTP server timeouts
const (
	// HTTPRead is short since request bodies are small JSON documents.
	HTTPRead = 10 * time.Second

	// HTTPWrite must exceed QueryProcessing plus serialization.
	HTTPWrite = 30 * time.Second

	// HTTPIdle is the keep-alive idle timeout.
	HTTPIdle = 120 * time.Second

	// HTTPReadHeader guards against slowloris clients.
	HTTPReadHeader = 5 * time.Second
)

// Database timeouts
const (
	// DatabaseBusyTimeout is SQLite busy_timeout pragma value.
	// Imports write in a single transaction; readers wait at most this long.
	DatabaseBusyTimeout = 5 * time.Second

	// DatabaseConnMaxLifetime is the maximum lifetime of database connections.
	DatabaseConnMaxLifetime = time.Hour
)

// Startup
const (
	// DataLoad bounds loading records, credentials and the policy document at start.
	DataLoad = 2 * time.Minute
)

// Health checks
const (
	// ReadinessCheckTimeout bounds the database ping and counts in /readyz.
	ReadinessCheckTimeout = 3 * time.Second
)

// Background jobs
const (
	// MetricsUpdateInterval is how often dataset size gauges are refreshed.
	MetricsUpdateInterval = time.Minute

	// RateLimiterCleanupInterval is how often idle per-employee limiters are dropped.
	RateLimiterCleanupInterval = 5 * time.Minute
)

// Graceful shutdown
const (
	// GracefulShutdown is the default budget for in-flight requests at shutdown.
	GracefulShutdown = 30 * time.Second
)
