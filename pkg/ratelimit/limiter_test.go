package ratelimit

import (
	"context"
	"fmt"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeClock struct {
	mu  sync.Mutex
	now time.Time
}

func (c *fakeClock) Now() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.now
}

func (c *fakeClock) Advance(d time.Duration) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.now = c.now.Add(d)
}

func TestMemoryLimiter_WindowResets(t *testing.T) {
	ctx := context.Background()
	clock := &fakeClock{now: time.Date(2024, 5, 1, 8, 0, 0, 0, time.UTC)}
	limiter := NewMemoryLimiterWithClock(60*time.Second, clock.Now)

	for i := 1; i <= 10; i++ {
		d, err := limiter.Allow(ctx, "export", "user:1", 10)
		require.NoError(t, err)
		assert.True(t, d.Allowed, "call %d should pass", i)
		assert.Equal(t, 10-i, d.Remaining)
		clock.Advance(time.Second)
	}

	d, err := limiter.Allow(ctx, "export", "user:1", 10)
	require.NoError(t, err)
	assert.False(t, d.Allowed)
	assert.Equal(t, 50*time.Second, d.RetryAfter)

	clock.Advance(61 * time.Second)

	d, err = limiter.Allow(ctx, "export", "user:1", 10)
	require.NoError(t, err)
	assert.True(t, d.Allowed)
}

func TestMemoryLimiter_KeysAreIndependent(t *testing.T) {
	ctx := context.Background()
	clock := &fakeClock{now: time.Now()}
	limiter := NewMemoryLimiterWithClock(time.Minute, clock.Now)

	for i := 0; i < 2; i++ {
		d, _ := limiter.Allow(ctx, "summary", "user:1", 2)
		assert.True(t, d.Allowed)
	}

	d, _ := limiter.Allow(ctx, "summary", "user:1", 2)
	assert.False(t, d.Allowed)

	d, _ = limiter.Allow(ctx, "summary", "ip:10.0.0.1", 2)
	assert.True(t, d.Allowed)

	d, _ = limiter.Allow(ctx, "report", "user:1", 2)
	assert.True(t, d.Allowed)
}

func TestMemoryLimiter_SlidingNotFixed(t *testing.T) {
	ctx := context.Background()
	clock := &fakeClock{now: time.Now()}
	limiter := NewMemoryLimiterWithClock(time.Minute, clock.Now)

	d, _ := limiter.Allow(ctx, "report", "user:1", 2)
	assert.True(t, d.Allowed)
	clock.Advance(40 * time.Second)
	d, _ = limiter.Allow(ctx, "report", "user:1", 2)
	assert.True(t, d.Allowed)

	clock.Advance(10 * time.Second)
	d, _ = limiter.Allow(ctx, "report", "user:1", 2)
	assert.False(t, d.Allowed)

	// first call leaves the window at t=60s
	clock.Advance(11 * time.Second)
	d, _ = limiter.Allow(ctx, "report", "user:1", 2)
	assert.True(t, d.Allowed)
}

func TestMemoryLimiter_ZeroLimitIsUnlimited(t *testing.T) {
	limiter := NewMemoryLimiter(time.Minute)
	for i := 0; i < 100; i++ {
		d, err := limiter.Allow(context.Background(), "usage_stats", "user:1", 0)
		require.NoError(t, err)
		assert.True(t, d.Allowed)
	}
}

func TestMemoryLimiter_IdleKeysExpire(t *testing.T) {
	ctx := context.Background()
	limiter := NewMemoryLimiter(50 * time.Millisecond)

	for i := 0; i < 1000; i++ {
		_, err := limiter.Allow(ctx, "report", fmt.Sprintf("ip:10.0.%d.%d", i/250, i%250), 5)
		require.NoError(t, err)
	}
	assert.Equal(t, 1000, limiter.Keys())

	time.Sleep(150 * time.Millisecond)
	limiter.entries.DeleteExpired()

	d, err := limiter.Allow(ctx, "report", "ip:10.9.9.9", 5)
	require.NoError(t, err)
	assert.True(t, d.Allowed)
	assert.Equal(t, 1, limiter.Keys())
}
