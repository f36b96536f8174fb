package service

import (
	"context"
	"errors"
	"testing"
	"time"

	"jaspel-be/internal/config"
	"jaspel-be/internal/dto"
	"jaspel-be/internal/pkg/logger"
	"jaspel-be/pkg/cache"

	"github.com/stretchr/testify/assert"
)

// brokenStore fails every operation.
type brokenStore struct{}

var errCacheDown = errors.New("cache unreachable")

func (brokenStore) Get(context.Context, string) ([]byte, bool, error) { return nil, false, errCacheDown }
func (brokenStore) Set(context.Context, string, []byte, time.Duration) error {
	return errCacheDown
}
func (brokenStore) Delete(context.Context, string) error { return errCacheDown }
func (brokenStore) DeletePrefix(context.Context, string) (int, error) {
	return 0, errCacheDown
}
func (brokenStore) Incr(context.Context, string, time.Duration) (int64, error) {
	return 0, errCacheDown
}
func (brokenStore) Ping(context.Context) error { return errCacheDown }

func newTestHealth(store *fakeStore, cacheStore cache.Store) IHealthService {
	return NewHealthService(&fakeFactory{store: store}, cacheStore, config.DefaultJaspelConfig(), logger.NewNopLogger())
}

func TestHealthCheck_Healthy(t *testing.T) {
	report := newTestHealth(newFakeStore(), cache.NewMemoryStore(time.Minute, time.Minute)).Check(context.Background())

	assert.Equal(t, dto.HealthHealthy, report.Status)
	assert.Len(t, report.Checks, 3)
	for name, probe := range report.Checks {
		assert.True(t, probe.Ok, name)
		assert.Empty(t, probe.Error, name)
	}
}

func TestHealthCheck_Degraded(t *testing.T) {
	store := newFakeStore()
	store.pingErr = errors.New("connection refused")

	report := newTestHealth(store, cache.NewMemoryStore(time.Minute, time.Minute)).Check(context.Background())

	assert.Equal(t, dto.HealthDegraded, report.Status)
	assert.False(t, report.Checks[HealthCheckDatabase].Ok)
	assert.Equal(t, "connection refused", report.Checks[HealthCheckDatabase].Error)
	assert.True(t, report.Checks[HealthCheckCache].Ok)
}

func TestHealthCheck_Unhealthy(t *testing.T) {
	store := newFakeStore()
	store.pingErr = errors.New("connection refused")
	store.failTimes("SumTotal", 1)

	report := newTestHealth(store, brokenStore{}).Check(context.Background())

	assert.Equal(t, dto.HealthUnhealthy, report.Status)
	assert.Equal(t, errCacheDown.Error(), report.Checks[HealthCheckCache].Error)
	assert.False(t, report.Checks[HealthCheckAggregation].Ok)
}

func TestHealthStatus_OverBudget(t *testing.T) {
	checks := map[string]dto.HealthProbe{
		HealthCheckDatabase: {Ok: true},
		HealthCheckCache:    {Ok: true},
	}

	assert.Equal(t, dto.HealthHealthy, healthStatus(checks, 10*time.Millisecond, time.Second))
	assert.Equal(t, dto.HealthDegraded, healthStatus(checks, 2*time.Second, time.Second))
}
