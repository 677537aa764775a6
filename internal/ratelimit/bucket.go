// Package ratelimit limits completion-gateway usage per employee with a
// token bucket (short bursts) and a rolling daily window (quota).
package ratelimit

import (
	"sync"
	"time"
)

// Clock returns the current time. Tests substitute a manual clock.
type Clock func() time.Time

// Limiter implements a token bucket rate limiter.
// It is safe for concurrent use.
//
// Tokens refill continuously at refillRate per second up to maxTokens;
// each admitted request takes one token.
type Limiter struct {
	mu         sync.Mutex
	now        Clock
	tokens     float64
	maxTokens  float64
	refillRate float64 // tokens per second
	lastRefill time.Time
}

// New creates a full bucket.
func New(maxTokens, refillRate float64) *Limiter {
	return newLimiter(maxTokens, refillRate, time.Now)
}

func newLimiter(maxTokens, refillRate float64, now Clock) *Limiter {
	return &Limiter{
		now:        now,
		tokens:     maxTokens,
		maxTokens:  maxTokens,
		refillRate: refillRate,
		lastRefill: now(),
	}
}

// refill must be called with mu held.
func (l *Limiter) refill() {
	t := l.now()
	if elapsed := t.Sub(l.lastRefill).Seconds(); elapsed > 0 {
		l.tokens = min(l.maxTokens, l.tokens+elapsed*l.refillRate)
	}
	l.lastRefill = t
}

// Allow takes a token if one is available.
func (l *Limiter) Allow() bool {
	l.mu.Lock()
	defer l.mu.Unlock()

	l.refill()
	if l.tokens < 1 {
		return false
	}
	l.tokens--
	return true
}

// Check reports whether a token is available without taking it.
// Pair with Consume under an outer lock for multi-layer checks.
func (l *Limiter) Check() bool {
	l.mu.Lock()
	defer l.mu.Unlock()

	l.refill()
	return l.tokens >= 1
}

// Consume takes a token if one is available.
func (l *Limiter) Consume() {
	l.mu.Lock()
	defer l.mu.Unlock()

	l.refill()
	if l.tokens >= 1 {
		l.tokens--
	}
}

// Available returns the current number of available tokens.
func (l *Limiter) Available() float64 {
	l.mu.Lock()
	defer l.mu.Unlock()

	l.refill()
	return l.tokens
}

// IsFull reports whether the bucket has refilled completely (idle key).
func (l *Limiter) IsFull() bool {
	l.mu.Lock()
	defer l.mu.Unlock()

	l.refill()
	return l.tokens >= l.maxTokens
}
