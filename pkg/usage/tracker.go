package usage

import (
	"context"
	"fmt"
	"strconv"
	"time"

	"jaspel-be/internal/pkg/logger"
	"jaspel-be/pkg/cache"
	"jaspel-be/pkg/metrics"

	"github.com/shopspring/decimal"
)

const (
	moduleUsage = "JASPEL_USAGE"
	hourLayout  = "2006010215"
	keyPrefix   = "usage:"
)

// Call is one tracked API invocation.
type Call struct {
	Endpoint  string
	ClientKey string
	Success   bool
	Timestamp time.Time
	Duration  time.Duration
	Error     string
}

type HourlyStats struct {
	Hour        string  `json:"hour"`
	Requests    int64   `json:"requests"`
	Successes   int64   `json:"successes"`
	Errors      int64   `json:"errors"`
	SuccessRate float64 `json:"success_rate"`
}

// Tracker records every call to the usage log, to Prometheus and to hourly
// counters kept in the cache store.
type Tracker struct {
	logger    logger.ILogger
	store     cache.Store
	retention time.Duration
	now       func() time.Time
}

func NewTracker(logger logger.ILogger, store cache.Store, retention time.Duration) *Tracker {
	if retention <= 0 {
		retention = 48 * time.Hour
	}
	return &Tracker{
		logger:    logger,
		store:     store,
		retention: retention,
		now:       time.Now,
	}
}

func hourKey(hour string, counter string) string {
	return keyPrefix + hour + ":" + counter
}

// Record never fails the request it describes; counter errors are logged.
func (t *Tracker) Record(ctx context.Context, call Call) {
	if call.Timestamp.IsZero() {
		call.Timestamp = t.now()
	}

	details := map[string]interface{}{
		"endpoint":    call.Endpoint,
		"client_key":  call.ClientKey,
		"success":     call.Success,
		"timestamp":   call.Timestamp.Format(time.RFC3339),
		"duration_ms": call.Duration.Milliseconds(),
	}
	if call.Error != "" {
		details["error"] = call.Error
	}
	t.logger.Info(moduleUsage, "API call tracked", details)

	metrics.RecordRequest(call.Endpoint, call.Success, call.Duration)

	hour := call.Timestamp.Format(hourLayout)
	counters := []string{"requests", "errors"}
	if call.Success {
		counters[1] = "successes"
	}
	for _, counter := range counters {
		if _, err := t.store.Incr(ctx, hourKey(hour, counter), t.retention); err != nil {
			t.logger.Warn(moduleUsage, "Failed to bump usage counter", map[string]interface{}{
				"counter": counter,
				"hour":    hour,
				"error":   err.Error(),
			})
		}
	}
}

func (t *Tracker) readCounter(ctx context.Context, key string) (int64, error) {
	raw, found, err := t.store.Get(ctx, key)
	if err != nil || !found {
		return 0, err
	}
	n, err := strconv.ParseInt(string(raw), 10, 64)
	if err != nil {
		return 0, fmt.Errorf("corrupt usage counter %s: %w", key, err)
	}
	return n, nil
}

// HourlyStatsAt returns the counters of the hour containing at.
func (t *Tracker) HourlyStatsAt(ctx context.Context, at time.Time) (HourlyStats, error) {
	hour := at.Format(hourLayout)
	stats := HourlyStats{Hour: hour}

	var err error
	if stats.Requests, err = t.readCounter(ctx, hourKey(hour, "requests")); err != nil {
		return stats, err
	}
	if stats.Successes, err = t.readCounter(ctx, hourKey(hour, "successes")); err != nil {
		return stats, err
	}
	if stats.Errors, err = t.readCounter(ctx, hourKey(hour, "errors")); err != nil {
		return stats, err
	}
	stats.SuccessRate = SuccessRate(stats.Successes, stats.Requests)
	return stats, nil
}

// RecentStats returns the last n hours, newest first.
func (t *Tracker) RecentStats(ctx context.Context, hours int) ([]HourlyStats, error) {
	if hours <= 0 {
		hours = 1
	}
	now := t.now()
	out := make([]HourlyStats, 0, hours)
	for i := 0; i < hours; i++ {
		stats, err := t.HourlyStatsAt(ctx, now.Add(-time.Duration(i)*time.Hour))
		if err != nil {
			return nil, err
		}
		out = append(out, stats)
	}
	return out, nil
}

// SuccessRate is successes/requests as a percentage with 2 decimals, 0 when
// there were no requests.
func SuccessRate(successes, requests int64) float64 {
	if requests == 0 {
		return 0
	}
	return decimal.NewFromInt(successes).
		Div(decimal.NewFromInt(requests)).
		Mul(decimal.NewFromInt(100)).
		Round(2).
		InexactFloat64()
}
