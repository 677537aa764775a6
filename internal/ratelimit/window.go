package ratelimit

import (
	"sync"
	"time"
)

// SlidingWindowCounter approximates a rolling window with two fixed windows:
//
//	effective = current + previous × (unexpired share of the previous window)
//
// A nil counter is disabled and admits everything.
type SlidingWindowCounter struct {
	mu          sync.Mutex
	now         Clock
	curr, prev  int
	start       time.Time
	window      time.Duration
	maxRequests int
}

// NewSlidingWindowCounter returns nil (disabled) when maxRequests <= 0.
func NewSlidingWindowCounter(maxRequests int, window time.Duration) *SlidingWindowCounter {
	return newWindow(maxRequests, window, time.Now)
}

func newWindow(maxRequests int, window time.Duration, now Clock) *SlidingWindowCounter {
	if maxRequests <= 0 {
		return nil
	}
	return &SlidingWindowCounter{
		now:         now,
		start:       now(),
		window:      window,
		maxRequests: maxRequests,
	}
}

// effective rotates expired windows and returns the weighted count.
// Must be called with mu held.
func (w *SlidingWindowCounter) effective() float64 {
	elapsed := w.now().Sub(w.start)
	if elapsed >= w.window {
		n := int(elapsed / w.window)
		if n == 1 {
			w.prev = w.curr
		} else {
			w.prev = 0
		}
		w.curr = 0
		w.start = w.start.Add(time.Duration(n) * w.window)
		elapsed = w.now().Sub(w.start)
	}

	overlap := float64(w.window-elapsed) / float64(w.window)
	overlap = max(0, min(1, overlap))
	return float64(w.curr) + float64(w.prev)*overlap
}

// Check reports whether one more request fits in the window.
func (w *SlidingWindowCounter) Check() bool {
	if w == nil {
		return true
	}
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.effective() < float64(w.maxRequests)
}

// Consume counts one request if it still fits.
func (w *SlidingWindowCounter) Consume() {
	if w == nil {
		return
	}
	w.mu.Lock()
	defer w.mu.Unlock()
	if w.effective() < float64(w.maxRequests) {
		w.curr++
	}
}

// Remaining returns the approximate remaining quota (-1 when disabled).
func (w *SlidingWindowCounter) Remaining() int {
	if w == nil {
		return -1
	}
	w.mu.Lock()
	defer w.mu.Unlock()
	return max(0, int(float64(w.maxRequests)-w.effective()))
}

// Idle reports whether the counter holds no requests in either window.
func (w *SlidingWindowCounter) Idle() bool {
	if w == nil {
		return true
	}
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.effective() == 0
}
