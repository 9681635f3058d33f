package wapi

import (
	"sync"
	"time"
)

// RateWindow is the span the limiter counts admitted requests over.
const RateWindow = 60 * time.Second

// RateLimiter is a sliding-window admission gate. Rejected calls are not
// queued.
type RateLimiter struct {
	mu     sync.Mutex
	limit  int
	window time.Duration
	stamps []time.Time
	clock  func() time.Time
}

// NewRateLimiter allows at most limit admissions per RateWindow.
// A limit <= 0 admits everything.
func NewRateLimiter(limit int, clock func() time.Time) *RateLimiter {
	if clock == nil {
		clock = time.Now
	}
	return &RateLimiter{
		limit:  limit,
		window: RateWindow,
		clock:  clock,
	}
}

// Admit records an admission and returns true, or returns false with the
// time left until the oldest admission leaves the window.
func (l *RateLimiter) Admit() (retryAfter time.Duration, ok bool) {
	if l.limit <= 0 {
		return 0, true
	}

	l.mu.Lock()
	defer l.mu.Unlock()

	now := l.clock()
	l.pruneLocked(now)

	if len(l.stamps) >= l.limit {
		return l.stamps[0].Add(l.window).Sub(now), false
	}

	l.stamps = append(l.stamps, now)
	return 0, true
}

// InWindow reports how many admissions currently count against the limit.
func (l *RateLimiter) InWindow() int {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.pruneLocked(l.clock())
	return len(l.stamps)
}

func (l *RateLimiter) Limit() int { return l.limit }

func (l *RateLimiter) pruneLocked(now time.Time) {
	cut := 0
	for cut < len(l.stamps) && now.Sub(l.stamps[cut]) >= l.window {
		cut++
	}
	if cut > 0 {
		l.stamps = append(l.stamps[:0], l.stamps[cut:]...)
	}
}

// ceilMillis rounds d up to whole milliseconds, never below 1.
func ceilMillis(d time.Duration) int64 {
	ms := int64((d + time.Millisecond - 1) / time.Millisecond)
	if ms < 1 {
		ms = 1
	}
	return ms
}
