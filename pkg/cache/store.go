package cache

import (
	"context"
	"time"
)

// Store is the key/value backend behind the read-through cache, the rate
// limiter counters and the hourly usage counters.
type Store interface {
	// Get reports found=false for absent or expired keys.
	Get(ctx context.Context, key string) (value []byte, found bool, err error)
	Set(ctx context.Context, key string, value []byte, ttl time.Duration) error
	Delete(ctx context.Context, key string) error
	// DeletePrefix removes every key starting with prefix and returns how many
	// were removed.
	DeletePrefix(ctx context.Context, prefix string) (int, error)
	// Incr atomically increments an integer counter. The ttl is applied when
	// the counter is created.
	Incr(ctx context.Context, key string, ttl time.Duration) (int64, error)
	Ping(ctx context.Context) error
}
