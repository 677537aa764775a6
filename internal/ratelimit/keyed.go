package ratelimit

import (
	"sync"
	"time"
)

const dailyWindow = 24 * time.Hour

// Reporter receives limiter events. *metrics.Metrics satisfies it.
type Reporter interface {
	RecordRateLimiterDrop(limiter string)
	SetRateLimiterActiveKeys(limiter string, count int)
}

// KeyedConfig configures a KeyedLimiter instance.
type KeyedConfig struct {
	// Name identifies this limiter for metrics (e.g. "llm").
	Name string

	// Token bucket settings
	Burst      float64 // Maximum tokens (burst capacity)
	RefillRate float64 // Tokens refilled per second

	// Rolling 24h quota (0 = disabled)
	DailyLimit int

	// How often idle keys are dropped (0 = never)
	CleanupPeriod time.Duration

	// Optional metrics reporter
	Reporter Reporter

	// Clock overrides time.Now (tests).
	Clock Clock
}

// KeyedLimiter keeps one bucket and one daily window per key (employee code).
type KeyedLimiter struct {
	mu      sync.RWMutex
	entries map[string]*keyedEntry
	cfg     KeyedConfig
	stopCh  chan struct{}
	stop    sync.Once
}

// keyedEntry.mu makes the two-layer check-then-consume atomic.
type keyedEntry struct {
	mu     sync.Mutex
	bucket *Limiter
	daily  *SlidingWindowCounter
}

// NewKeyedLimiter creates a per-key limiter and starts its cleanup loop.
func NewKeyedLimiter(cfg KeyedConfig) *KeyedLimiter {
	if cfg.Clock == nil {
		cfg.Clock = time.Now
	}
	kl := &KeyedLimiter{
		entries: make(map[string]*keyedEntry),
		cfg:     cfg,
		stopCh:  make(chan struct{}),
	}
	if cfg.CleanupPeriod > 0 {
		go kl.cleanupLoop()
	}
	return kl
}

// Allow admits a request for key when both the bucket and the daily window
// have room, consuming from both. An empty key is always admitted.
func (kl *KeyedLimiter) Allow(key string) bool {
	if key == "" {
		return true
	}

	e := kl.entry(key)
	e.mu.Lock()
	defer e.mu.Unlock()

	if !e.daily.Check() || !e.bucket.Check() {
		if kl.cfg.Reporter != nil {
			kl.cfg.Reporter.RecordRateLimiterDrop(kl.cfg.Name)
		}
		return false
	}
	e.daily.Consume()
	e.bucket.Consume()
	return true
}

func (kl *KeyedLimiter) entry(key string) *keyedEntry {
	kl.mu.RLock()
	e, ok := kl.entries[key]
	kl.mu.RUnlock()
	if ok {
		return e
	}

	kl.mu.Lock()
	defer kl.mu.Unlock()
	if e, ok = kl.entries[key]; ok {
		return e
	}
	e = &keyedEntry{
		bucket: newLimiter(kl.cfg.Burst, kl.cfg.RefillRate, kl.cfg.Clock),
		daily:  newWindow(kl.cfg.DailyLimit, dailyWindow, kl.cfg.Clock),
	}
	kl.entries[key] = e
	return e
}

// DailyRemaining returns the remaining daily quota for key (-1 when disabled).
func (kl *KeyedLimiter) DailyRemaining(key string) int {
	if kl.cfg.DailyLimit <= 0 {
		return -1
	}
	kl.mu.RLock()
	e, ok := kl.entries[key]
	kl.mu.RUnlock()
	if !ok {
		return kl.cfg.DailyLimit
	}
	return e.daily.Remaining()
}

// ActiveCount returns the number of tracked keys.
func (kl *KeyedLimiter) ActiveCount() int {
	kl.mu.RLock()
	defer kl.mu.RUnlock()
	return len(kl.entries)
}

// Cleanup drops keys whose bucket is full and whose daily window is empty.
func (kl *KeyedLimiter) Cleanup() {
	kl.mu.Lock()
	for key, e := range kl.entries {
		if e.bucket.IsFull() && e.daily.Idle() {
			delete(kl.entries, key)
		}
	}
	n := len(kl.entries)
	kl.mu.Unlock()

	if kl.cfg.Reporter != nil {
		kl.cfg.Reporter.SetRateLimiterActiveKeys(kl.cfg.Name, n)
	}
}

func (kl *KeyedLimiter) cleanupLoop() {
	ticker := time.NewTicker(kl.cfg.CleanupPeriod)
	defer ticker.Stop()

	for {
		select {
		case <-kl.stopCh:
			return
		case <-ticker.C:
			kl.Cleanup()
		}
	}
}

// Stop ends the cleanup goroutine. Safe to call multiple times.
func (kl *KeyedLimiter) Stop() {
	kl.stop.Do(func() { close(kl.stopCh) })
}
