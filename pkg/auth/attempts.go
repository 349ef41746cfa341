package auth

import (
	"context"
	"sync"

	"github.com/wallframe/wallframe-core/pkg/lifecycle"
)

// AttemptTracker counts failed verification attempts per client and
// blocks clients that cross a threshold. Counts live in process memory
// only and are cleared wholesale by [AttemptTracker.Reset], typically on
// a 30 minute interval driven by a lifecycle worker.
//
// A successful authentication does not reset a client's count; only the
// periodic reset clears it. Blocked clients stay blocked until then.
//
// All methods are safe for concurrent use. Increments are
// read-modify-write under a single lock, so concurrent failures for the
// same client are counted exactly.
type AttemptTracker struct {
	mu        sync.Mutex
	counts    map[string]int
	threshold int
}

// NewAttemptTracker creates a tracker that blocks clients once their
// failure count reaches threshold. A non-positive threshold falls back
// to 5.
func NewAttemptTracker(threshold int) *AttemptTracker {
	if threshold <= 0 {
		threshold = 5
	}
	return &AttemptTracker{
		counts:    make(map[string]int),
		threshold: threshold,
	}
}

// RecordFailure increments the failure count for clientID and returns
// the new count.
func (t *AttemptTracker) RecordFailure(clientID string) int {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.counts[clientID]++
	return t.counts[clientID]
}

// ShouldBlock reports whether clientID has reached the failure
// threshold. It does not modify the count.
func (t *AttemptTracker) ShouldBlock(clientID string) bool {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.counts[clientID] >= t.threshold
}

// Count returns the current failure count for clientID.
func (t *AttemptTracker) Count(clientID string) int {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.counts[clientID]
}

// Clear removes the failure count for a single client. Intended for
// operator tooling that unblocks one client without touching the rest.
func (t *AttemptTracker) Clear(clientID string) {
	t.mu.Lock()
	defer t.mu.Unlock()
	delete(t.counts, clientID)
}

// Reset clears all failure counts. Every previously blocked client is
// admitted again.
func (t *AttemptTracker) Reset() {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.counts = make(map[string]int)
}

// ResetHook returns a lifecycle task that resets the tracker. Register
// it on a background worker with the configured reset interval:
//
//	worker, err := lifecycle.NewBaseWorkerBuilder(id, name, version).
//	    WithPeriodicTask(cfg.AttemptResetInterval, tracker.ResetHook()).
//	    Build()
func (t *AttemptTracker) ResetHook() lifecycle.Hook {
	return func(context.Context) error {
		t.Reset()
		return nil
	}
}
