package controller

import (
	"context"
	"testing"
	"time"

	"jaspel-be/internal/config"
	"jaspel-be/internal/constant"
	"jaspel-be/internal/pkg/logger"
	"jaspel-be/internal/service"
	"jaspel-be/pkg/cache"
	"jaspel-be/pkg/ratelimit"
	"jaspel-be/pkg/usage"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func totalRequests(t *testing.T, body map[string]interface{}) float64 {
	t.Helper()
	hours := body["data"].(map[string]interface{})["hours"].([]interface{})
	var total float64
	for _, h := range hours {
		total += h.(map[string]interface{})["requests"].(float64)
	}
	return total
}

func TestOperations_CallsAreTracked(t *testing.T) {
	cfg := config.DefaultJaspelConfig()
	store := cache.NewMemoryStore(time.Minute, time.Minute)
	tracker := usage.NewTracker(logger.NewNopLogger(), store, time.Hour)
	guard := service.NewGuard(ratelimit.NewMemoryLimiter(cfg.RateLimitWindow), store, tracker, cfg, logger.NewNopLogger())
	require.NoError(t, store.Set(context.Background(), constant.CachePrefixReport+"abc", []byte("[]"), time.Minute))

	app := newTestApp(NewOperationsController(nil, guard, tracker).RegisterRoutes)
	admin := uuid.NewString()

	status, body, _ := call(t, app, "DELETE", "/cache", admin, "admin")
	require.Equal(t, 200, status)
	data := body["data"].(map[string]interface{})
	assert.Equal(t, constant.CachePrefixRoot, data["prefix"])
	assert.Equal(t, 1.0, data["removed"])

	status, body, _ = call(t, app, "GET", "/usage/stats?hours=2", admin, "admin")
	require.Equal(t, 200, status)
	assert.Equal(t, 1.0, totalRequests(t, body))

	status, body, _ = call(t, app, "GET", "/usage/stats?hours=2", admin, "manajer")
	require.Equal(t, 200, status)
	assert.Equal(t, 2.0, totalRequests(t, body))
}

func TestOperations_Rejections(t *testing.T) {
	app := newTestApp(NewOperationsController(nil, newTestGuard(), usage.NewTracker(logger.NewNopLogger(), cache.NewMemoryStore(time.Minute, time.Minute), time.Hour)).RegisterRoutes)
	admin := uuid.NewString()

	status, _, _ := call(t, app, "DELETE", "/cache?prefix=session:", admin, "admin")
	assert.Equal(t, 400, status)

	status, _, _ = call(t, app, "DELETE", "/cache", admin, "bendahara")
	assert.Equal(t, 403, status)

	status, _, _ = call(t, app, "GET", "/usage/stats?hours=72", admin, "admin")
	assert.Equal(t, 400, status)
}
