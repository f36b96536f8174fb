package cache

import (
	"context"
	"errors"
	"strconv"
	"time"

	"github.com/redis/go-redis/v9"
	gobreaker "github.com/sony/gobreaker/v2"
)

const scanBatch = 200

// RedisStore runs every command through a circuit breaker. While the breaker
// is open reads degrade to misses and writes fail fast.
type RedisStore struct {
	rdb     *redis.Client
	breaker *gobreaker.CircuitBreaker[any]
}

type BreakerSettings struct {
	Name             string
	FailureThreshold uint32
	OpenTimeout      time.Duration
	// OnStateChange is optional; used to feed logs and metrics.
	OnStateChange func(name string, from, to gobreaker.State)
}

func DefaultBreakerSettings() BreakerSettings {
	return BreakerSettings{
		Name:             "jaspel-redis",
		FailureThreshold: 5,
		OpenTimeout:      30 * time.Second,
	}
}

func NewRedisStore(rdb *redis.Client, settings BreakerSettings) *RedisStore {
	cbSettings := gobreaker.Settings{
		Name:        settings.Name,
		MaxRequests: 1,
		Timeout:     settings.OpenTimeout,
		ReadyToTrip: func(counts gobreaker.Counts) bool {
			return counts.ConsecutiveFailures >= settings.FailureThreshold
		},
		OnStateChange: settings.OnStateChange,
		// A cache miss is not a failure.
		IsSuccessful: func(err error) bool {
			return err == nil || errors.Is(err, redis.Nil)
		},
	}
	return &RedisStore{
		rdb:     rdb,
		breaker: gobreaker.NewCircuitBreaker[any](cbSettings),
	}
}

func (s *RedisStore) State() gobreaker.State {
	return s.breaker.State()
}

func (s *RedisStore) Get(ctx context.Context, key string) ([]byte, bool, error) {
	res, err := s.breaker.Execute(func() (any, error) {
		return s.rdb.Get(ctx, key).Bytes()
	})
	if err != nil {
		// Redis down or breaker open: behave like an empty cache.
		return nil, false, nil
	}
	value, _ := res.([]byte)
	return value, true, nil
}

func (s *RedisStore) Set(ctx context.Context, key string, value []byte, ttl time.Duration) error {
	_, err := s.breaker.Execute(func() (any, error) {
		return nil, s.rdb.Set(ctx, key, value, ttl).Err()
	})
	return err
}

func (s *RedisStore) Delete(ctx context.Context, key string) error {
	_, err := s.breaker.Execute(func() (any, error) {
		return nil, s.rdb.Del(ctx, key).Err()
	})
	return err
}

func (s *RedisStore) DeletePrefix(ctx context.Context, prefix string) (int, error) {
	res, err := s.breaker.Execute(func() (any, error) {
		removed := 0
		iter := s.rdb.Scan(ctx, 0, prefix+"*", scanBatch).Iterator()
		batch := make([]string, 0, scanBatch)
		for iter.Next(ctx) {
			batch = append(batch, iter.Val())
			if len(batch) == scanBatch {
				if err := s.rdb.Del(ctx, batch...).Err(); err != nil {
					return removed, err
				}
				removed += len(batch)
				batch = batch[:0]
			}
		}
		if err := iter.Err(); err != nil {
			return removed, err
		}
		if len(batch) > 0 {
			if err := s.rdb.Del(ctx, batch...).Err(); err != nil {
				return removed, err
			}
			removed += len(batch)
		}
		return removed, nil
	})
	removed, _ := res.(int)
	return removed, err
}

func (s *RedisStore) Incr(ctx context.Context, key string, ttl time.Duration) (int64, error) {
	res, err := s.breaker.Execute(func() (any, error) {
		n, err := s.rdb.Incr(ctx, key).Result()
		if err != nil {
			return int64(0), err
		}
		if n == 1 && ttl > 0 {
			if err := s.rdb.Expire(ctx, key, ttl).Err(); err != nil {
				return n, err
			}
		}
		return n, nil
	})
	n, _ := res.(int64)
	return n, err
}

func (s *RedisStore) Ping(ctx context.Context) error {
	_, err := s.breaker.Execute(func() (any, error) {
		return nil, s.rdb.Ping(ctx).Err()
	})
	return err
}

func formatInt(n int64) string {
	return strconv.FormatInt(n, 10)
}
