package ratelimit

import (
	"context"
	"time"
)

// Decision is the outcome of one Allow call.
type Decision struct {
	Allowed    bool
	Limit      int
	Remaining  int
	RetryAfter time.Duration
}

// Limiter enforces a sliding window quota per {endpoint, client key}.
// A limit <= 0 disables limiting for that call.
type Limiter interface {
	Allow(ctx context.Context, endpoint, clientKey string, limit int) (Decision, error)
}

func windowKey(endpoint, clientKey string) string {
	return "ratelimit:" + endpoint + ":" + clientKey
}

func unlimited() Decision {
	return Decision{Allowed: true, Remaining: -1}
}
