package ratelimit

import (
	"context"
	"sync"
	"time"

	gocache "github.com/patrickmn/go-cache"
)

// MemoryLimiter keeps a log of accepted request times per key in go-cache.
// Each log lives for one window after its last accepted call, so idle keys
// are purged by the cache janitor. Rejected calls are not logged, so a
// client that keeps hammering is admitted again as soon as its oldest
// accepted call leaves the window.
type MemoryLimiter struct {
	mu      sync.Mutex
	window  time.Duration
	now     func() time.Time
	entries *gocache.Cache
}

func NewMemoryLimiter(window time.Duration) *MemoryLimiter {
	return NewMemoryLimiterWithClock(window, time.Now)
}

func NewMemoryLimiterWithClock(window time.Duration, now func() time.Time) *MemoryLimiter {
	if window <= 0 {
		window = time.Minute
	}
	return &MemoryLimiter{
		window:  window,
		now:     now,
		entries: gocache.New(window, window),
	}
}

func (l *MemoryLimiter) Allow(_ context.Context, endpoint, clientKey string, limit int) (Decision, error) {
	if limit <= 0 {
		return unlimited(), nil
	}

	l.mu.Lock()
	defer l.mu.Unlock()

	key := windowKey(endpoint, clientKey)
	now := l.now()

	var log []time.Time
	if x, found := l.entries.Get(key); found {
		log, _ = x.([]time.Time)
	}
	log = prune(log, now.Add(-l.window))

	if len(log) >= limit {
		l.entries.Set(key, log, gocache.DefaultExpiration)
		return Decision{
			Allowed:    false,
			Limit:      limit,
			Remaining:  0,
			RetryAfter: log[0].Add(l.window).Sub(now),
		}, nil
	}

	log = append(log, now)
	l.entries.Set(key, log, gocache.DefaultExpiration)
	return Decision{
		Allowed:   true,
		Limit:     limit,
		Remaining: limit - len(log),
	}, nil
}

// Keys reports how many {endpoint, client key} logs are held, expired
// ones awaiting the janitor included.
func (l *MemoryLimiter) Keys() int {
	return l.entries.ItemCount()
}

// prune drops entries at or before cutoff. The log is ordered.
func prune(log []time.Time, cutoff time.Time) []time.Time {
	i := 0
	for i < len(log) && !log[i].After(cutoff) {
		i++
	}
	if i == 0 {
		return log
	}
	return append(log[:0:0], log[i:]...)
}
