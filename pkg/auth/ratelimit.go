package auth

import (
	"sync"
	"time"

	wferr "github.com/wallframe/wallframe-core/pkg/errors"
)

// rateWindow records one client's fixed window: when it started and how
// many requests it has admitted.
type rateWindow struct {
	start time.Time
	count int
}

// RateLimiter enforces a fixed-window request cap per client. Every
// request that reaches the limiter is counted, whether or not it later
// authenticates; the limiter protects the verification surface itself.
//
// The window start and count are read and updated under one lock, so the
// cap cannot be exceeded by concurrent requests racing on the same
// client ID.
type RateLimiter struct {
	mu      sync.Mutex
	windows map[string]*rateWindow
	window  time.Duration
	limit   int
	clock   Clock
}

// NewRateLimiter creates a limiter admitting at most limit requests per
// client per window. Non-positive values fall back to 10 requests per
// 15 minutes. A nil clock defaults to [SystemClock].
func NewRateLimiter(window time.Duration, limit int, clock Clock) *RateLimiter {
	if window <= 0 {
		window = 15 * time.Minute
	}
	if limit <= 0 {
		limit = 10
	}
	if clock == nil {
		clock = SystemClock
	}
	return &RateLimiter{
		windows: make(map[string]*rateWindow),
		window:  window,
		limit:   limit,
		clock:   clock,
	}
}

// Allow records one request for clientID and reports whether it is
// admitted. When the window has elapsed a fresh one starts at the
// current instant. At the cap the request is rejected with RATE_001,
// which is distinct from any authentication failure.
func (l *RateLimiter) Allow(clientID string) error {
	now := l.clock.Now()

	l.mu.Lock()
	defer l.mu.Unlock()

	w, ok := l.windows[clientID]
	if !ok || now.Sub(w.start) >= l.window {
		l.windows[clientID] = &rateWindow{start: now, count: 1}
		return nil
	}

	if w.count >= l.limit {
		return wferr.Newf(wferr.CodeRateLimited,
			"auth: rate limit of %d requests per %s exceeded", l.limit, l.window)
	}
	w.count++
	return nil
}

// Sweep removes windows that have fully elapsed, bounding memory for
// clients that stopped sending requests. Suitable as a lifecycle worker
// task alongside the attempt tracker reset.
func (l *RateLimiter) Sweep() {
	now := l.clock.Now()

	l.mu.Lock()
	defer l.mu.Unlock()

	for id, w := range l.windows {
		if now.Sub(w.start) >= l.window {
			delete(l.windows, id)
		}
	}
}
