package cache

import (
	"context"
	"encoding/json"
	"time"
)

// Remember returns the cached value under key, or computes it with load and
// stores it for ttl. Errors from load are returned as-is and never cached.
// Store failures degrade to calling load. The bool reports a cache hit.
func Remember[T any](ctx context.Context, store Store, key string, ttl time.Duration, load func(ctx context.Context) (T, error)) (T, bool, error) {
	if raw, found, err := store.Get(ctx, key); err == nil && found {
		var cached T
		if err := json.Unmarshal(raw, &cached); err == nil {
			return cached, true, nil
		}
		_ = store.Delete(ctx, key)
	}

	value, err := load(ctx)
	if err != nil {
		var zero T
		return zero, false, err
	}

	if raw, err := json.Marshal(value); err == nil {
		_ = store.Set(ctx, key, raw, ttl)
	}
	return value, false, nil
}
