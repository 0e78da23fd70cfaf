package ratelimit

import (
	"context"
	"sync"
	"time"
)

// Every sweepEvery admissions the whole map is scanned and buckets whose entire
// log has aged out are dropped, so the map does not grow with every client
// address the process has ever seen.
const sweepEvery = 256

// MemoryLimiter is a sliding-log limiter holding per-client request timestamps in
// process memory. State is local to one running instance; multi-instance
// deployments should use the Redis-backed limiter instead.
type MemoryLimiter struct {
	mu       sync.Mutex
	requests map[string][]time.Time
	calls    int
	max      int
	window   time.Duration
	now      func() time.Time
}

// NewMemoryLimiter creates an in-memory sliding-log limiter.
func NewMemoryLimiter(max int, window time.Duration) *MemoryLimiter {
	if max <= 0 {
		max = DefaultMaxRequests
	}
	if window <= 0 {
		window = DefaultWindow
	}
	return &MemoryLimiter{
		requests: make(map[string][]time.Time),
		max:      max,
		window:   window,
		now:      time.Now,
	}
}

// Allow prunes timestamps older than the window for the client, then admits the
// request if fewer than max remain. Denied attempts are not recorded.
func (l *MemoryLimiter) Allow(_ context.Context, clientKey string) (bool, error) {
	l.mu.Lock()
	defer l.mu.Unlock()

	now := l.now()
	cutoff := now.Add(-l.window)

	l.calls++
	if l.calls%sweepEvery == 0 {
		l.sweep(cutoff)
	}

	recent := l.requests[clientKey][:0]
	for _, ts := range l.requests[clientKey] {
		if ts.After(cutoff) {
			recent = append(recent, ts)
		}
	}

	if len(recent) >= l.max {
		l.requests[clientKey] = recent
		return false, nil
	}

	l.requests[clientKey] = append(recent, now)
	return true, nil
}

// sweep drops every bucket whose entire log sits at or before cutoff. Caller
// must hold the mutex.
func (l *MemoryLimiter) sweep(cutoff time.Time) {
	for key, log := range l.requests {
		live := false
		for _, ts := range log {
			if ts.After(cutoff) {
				live = true
				break
			}
		}
		if !live {
			delete(l.requests, key)
		}
	}
}

// Len reports the number of tracked client keys, pruning any whose entire log has
// aged out of the window.
func (l *MemoryLimiter) Len() int {
	l.mu.Lock()
	defer l.mu.Unlock()

	l.sweep(l.now().Add(-l.window))
	return len(l.requests)
}
