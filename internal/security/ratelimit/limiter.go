package ratelimit

import (
	"sync"
	"time"
)

// Limiter applies a sliding-window request limit per business. The
// 5-second live-floor poll budgets roughly 12 requests a minute per open
// dashboard, so the default window must stay comfortably above that.
type Limiter struct {
	mu      sync.Mutex
	buckets map[string]*bucket
	maxReqs int
	window  time.Duration
	cleanup *time.Ticker
}

type bucket struct {
	requests []time.Time
	lastSeen time.Time
}

func NewLimiter(maxRequests int, window time.Duration) *Limiter {
	l := &Limiter{
		buckets: make(map[string]*bucket),
		maxReqs: maxRequests,
		window:  window,
		cleanup: time.NewTicker(5 * time.Minute),
	}
	go l.dropStaleBuckets()
	return l
}

// Allow records a request for the business and reports whether it fits
// the window. Requests without an identity are never limited (public
// endpoints are filtered in middleware before this runs).
func (l *Limiter) Allow(businessID string) bool {
	if businessID == "" {
		return true
	}
	l.mu.Lock()
	defer l.mu.Unlock()

	now := time.Now()
	b, exists := l.buckets[businessID]
	if !exists {
		b = &bucket{}
		l.buckets[businessID] = b
	}

	cutoff := now.Add(-l.window)
	kept := b.requests[:0]
	for _, t := range b.requests {
		if t.After(cutoff) {
			kept = append(kept, t)
		}
	}
	b.requests = kept
	b.lastSeen = now

	if len(b.requests) >= l.maxReqs {
		return false
	}

	b.requests = append(b.requests, now)
	return true
}

func (l *Limiter) dropStaleBuckets() {
	for range l.cleanup.C {
		l.mu.Lock()
		stale := time.Now().Add(-15 * time.Minute)
		for id, b := range l.buckets {
			if b.lastSeen.Before(stale) {
				delete(l.buckets, id)
			}
		}
		l.mu.Unlock()
	}
}

func (l *Limiter) Stop() {
	l.cleanup.Stop()
}
