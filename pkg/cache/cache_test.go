package cache

import (
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestBuildKey_Deterministic(t *testing.T) {
	a := BuildKey("report", "dokter", map[string]string{"date_from": "2024-01-01", "search": "ani"}, "")
	b := BuildKey("report", "dokter", map[string]string{"search": "ani", "date_from": "2024-01-01"}, "")

	assert.Equal(t, a, b)
	assert.True(t, strings.HasPrefix(a, "jaspel:report:"))
	assert.Len(t, strings.TrimPrefix(a, "jaspel:report:"), 64)
}

func TestBuildKey_Distinguishes(t *testing.T) {
	base := BuildKey("report", "dokter", map[string]string{"search": "ani"}, "")

	assert.NotEqual(t, base, BuildKey("report", "paramedis", map[string]string{"search": "ani"}, ""))
	assert.NotEqual(t, base, BuildKey("report", "dokter", map[string]string{"search": "budi"}, ""))
	assert.NotEqual(t, base, BuildKey("report", "dokter", map[string]string{"search": "ani"}, "user-1"))
	assert.NotEqual(t, base, BuildKey("summary", "dokter", map[string]string{"search": "ani"}, ""))
}

func TestBuildKey_IgnoresEmptyFilters(t *testing.T) {
	assert.Equal(t,
		BuildKey("report", "semua", map[string]string{}, ""),
		BuildKey("report", "semua", map[string]string{"search": ""}, ""),
	)
}

func TestMemoryStore_SetGetDelete(t *testing.T) {
	ctx := context.Background()
	s := NewMemoryStore(time.Minute, time.Minute)

	require.NoError(t, s.Set(ctx, "k", []byte("v"), time.Minute))
	v, found, err := s.Get(ctx, "k")
	require.NoError(t, err)
	assert.True(t, found)
	assert.Equal(t, []byte("v"), v)

	require.NoError(t, s.Delete(ctx, "k"))
	_, found, _ = s.Get(ctx, "k")
	assert.False(t, found)
}

func TestMemoryStore_Expiry(t *testing.T) {
	ctx := context.Background()
	s := NewMemoryStore(time.Minute, time.Minute)

	require.NoError(t, s.Set(ctx, "short", []byte("v"), 10*time.Millisecond))
	time.Sleep(30 * time.Millisecond)

	_, found, _ := s.Get(ctx, "short")
	assert.False(t, found)
}

func TestMemoryStore_DeletePrefix(t *testing.T) {
	ctx := context.Background()
	s := NewMemoryStore(time.Minute, time.Minute)

	_ = s.Set(ctx, "jaspel:report:a", []byte("1"), time.Minute)
	_ = s.Set(ctx, "jaspel:report:b", []byte("2"), time.Minute)
	_ = s.Set(ctx, "jaspel:summary:c", []byte("3"), time.Minute)
	_ = s.Set(ctx, "usage:2024010112:requests", []byte("4"), time.Minute)

	removed, err := s.DeletePrefix(ctx, "jaspel:report:")
	require.NoError(t, err)
	assert.Equal(t, 2, removed)

	_, found, _ := s.Get(ctx, "jaspel:summary:c")
	assert.True(t, found)
	_, found, _ = s.Get(ctx, "usage:2024010112:requests")
	assert.True(t, found)
}

func TestMemoryStore_Incr(t *testing.T) {
	ctx := context.Background()
	s := NewMemoryStore(time.Minute, time.Minute)

	for i := int64(1); i <= 3; i++ {
		n, err := s.Incr(ctx, "counter", time.Minute)
		require.NoError(t, err)
		assert.Equal(t, i, n)
	}

	raw, found, err := s.Get(ctx, "counter")
	require.NoError(t, err)
	assert.True(t, found)
	assert.Equal(t, "3", string(raw))
}

type payload struct {
	Total float64 `json:"total"`
	Count int64   `json:"count"`
}

func TestRemember_ReadThrough(t *testing.T) {
	ctx := context.Background()
	s := NewMemoryStore(time.Minute, time.Minute)
	calls := 0
	load := func(ctx context.Context) (payload, error) {
		calls++
		return payload{Total: 1500.5, Count: 3}, nil
	}

	first, hit, err := Remember(ctx, s, "jaspel:summary:x", time.Minute, load)
	require.NoError(t, err)
	assert.False(t, hit)

	second, hit, err := Remember(ctx, s, "jaspel:summary:x", time.Minute, load)
	require.NoError(t, err)
	assert.True(t, hit)

	assert.Equal(t, first, second)
	assert.Equal(t, 1, calls)
}

func TestRemember_ErrorsAreNotCached(t *testing.T) {
	ctx := context.Background()
	s := NewMemoryStore(time.Minute, time.Minute)
	boom := errors.New("store down")

	_, _, err := Remember(ctx, s, "jaspel:report:y", time.Minute, func(ctx context.Context) (payload, error) {
		return payload{}, boom
	})
	assert.ErrorIs(t, err, boom)

	_, found, _ := s.Get(ctx, "jaspel:report:y")
	assert.False(t, found)

	value, hit, err := Remember(ctx, s, "jaspel:report:y", time.Minute, func(ctx context.Context) (payload, error) {
		return payload{Count: 1}, nil
	})
	require.NoError(t, err)
	assert.False(t, hit)
	assert.Equal(t, int64(1), value.Count)
}

func TestRedisStore_UnreachableDegradesToMiss(t *testing.T) {
	ctx := context.Background()
	rdb := redis.NewClient(&redis.Options{
		Addr:        "127.0.0.1:1",
		DialTimeout: 50 * time.Millisecond,
		MaxRetries:  -1,
	})
	defer rdb.Close()

	s := NewRedisStore(rdb, DefaultBreakerSettings())

	_, found, err := s.Get(ctx, "jaspel:report:z")
	assert.NoError(t, err)
	assert.False(t, found)

	assert.Error(t, s.Set(ctx, "jaspel:report:z", []byte("v"), time.Minute))
	assert.Error(t, s.Ping(ctx))

	value, hit, err := Remember(ctx, s, "jaspel:report:z", time.Minute, func(ctx context.Context) (payload, error) {
		return payload{Count: 7}, nil
	})
	require.NoError(t, err)
	assert.False(t, hit)
	assert.Equal(t, int64(7), value.Count)
}
