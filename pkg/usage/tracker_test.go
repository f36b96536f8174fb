package usage

import (
	"context"
	"testing"
	"time"

	"jaspel-be/internal/pkg/logger"
	"jaspel-be/pkg/cache"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestTracker(now time.Time) *Tracker {
	tracker := NewTracker(logger.NewNopLogger(), cache.NewMemoryStore(time.Hour, time.Hour), time.Hour)
	tracker.now = func() time.Time { return now }
	return tracker
}

func TestTracker_HourlyCounters(t *testing.T) {
	ctx := context.Background()
	now := time.Date(2024, 3, 10, 14, 25, 0, 0, time.UTC)
	tracker := newTestTracker(now)

	tracker.Record(ctx, Call{Endpoint: "report", ClientKey: "user:1", Success: true})
	tracker.Record(ctx, Call{Endpoint: "report", ClientKey: "user:1", Success: true})
	tracker.Record(ctx, Call{Endpoint: "summary", ClientKey: "ip:10.0.0.2", Success: false, Error: "timeout"})

	stats, err := tracker.HourlyStatsAt(ctx, now)
	require.NoError(t, err)

	assert.Equal(t, "2024031014", stats.Hour)
	assert.Equal(t, int64(3), stats.Requests)
	assert.Equal(t, int64(2), stats.Successes)
	assert.Equal(t, int64(1), stats.Errors)
	assert.Equal(t, 66.67, stats.SuccessRate)
}

func TestTracker_RecentStats(t *testing.T) {
	ctx := context.Background()
	now := time.Date(2024, 3, 10, 14, 0, 0, 0, time.UTC)
	tracker := newTestTracker(now)

	tracker.Record(ctx, Call{Endpoint: "report", Success: true, Timestamp: now.Add(-time.Hour)})
	tracker.Record(ctx, Call{Endpoint: "report", Success: true})

	stats, err := tracker.RecentStats(ctx, 3)
	require.NoError(t, err)
	require.Len(t, stats, 3)

	assert.Equal(t, "2024031014", stats[0].Hour)
	assert.Equal(t, int64(1), stats[0].Requests)
	assert.Equal(t, "2024031013", stats[1].Hour)
	assert.Equal(t, int64(1), stats[1].Requests)
	assert.Equal(t, int64(0), stats[2].Requests)
	assert.Equal(t, float64(0), stats[2].SuccessRate)
}

func TestSuccessRate(t *testing.T) {
	assert.Equal(t, float64(0), SuccessRate(0, 0))
	assert.Equal(t, float64(100), SuccessRate(5, 5))
	assert.Equal(t, 33.33, SuccessRate(1, 3))
}
