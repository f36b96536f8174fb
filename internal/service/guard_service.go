package service

import (
	"context"
	"errors"
	"time"

	"jaspel-be/internal/config"
	"jaspel-be/internal/constant"
	"jaspel-be/internal/pkg/apperror"
	"jaspel-be/internal/pkg/logger"
	"jaspel-be/pkg/cache"
	"jaspel-be/pkg/metrics"
	"jaspel-be/pkg/ratelimit"
	"jaspel-be/pkg/usage"
)

// GuardedCall describes one facade invocation passing through the guard.
type GuardedCall struct {
	Operation  string
	Class      config.OperationClass
	ClientKey  string
	Identifier string
	Filters    map[string]string
	UserId     string
	NoCache    bool
}

// GuardMeta is what the guard learned while serving a call.
type GuardMeta struct {
	CacheKey      string
	CacheHit      bool
	RateLimit     ratelimit.Decision
	ExecutionTime time.Duration
}

type Guard struct {
	limiter ratelimit.Limiter
	store   cache.Store
	tracker *usage.Tracker
	cfg     config.JaspelConfig
	logger  logger.ILogger
}

func NewGuard(
	limiter ratelimit.Limiter,
	store cache.Store,
	tracker *usage.Tracker,
	cfg config.JaspelConfig,
	logger logger.ILogger,
) *Guard {
	return &Guard{
		limiter: limiter,
		store:   store,
		tracker: tracker,
		cfg:     cfg,
		logger:  logger,
	}
}

// TTLFor returns the cache lifetime of an operation, 0 for uncached ones.
func (g *Guard) TTLFor(operation string) time.Duration {
	switch operation {
	case constant.OpAggregateByRole:
		return g.cfg.ReportTTL
	case constant.OpRoleStatistics:
		return g.cfg.RoleStatsTTL
	case constant.OpSummaryForUser, constant.OpCompareMethods:
		return g.cfg.SummaryTTL
	case constant.OpValidateUser, constant.OpValidateSystem:
		return g.cfg.ValidationTTL
	case constant.OpAnalyzeFlow:
		return g.cfg.FlowTTL
	case constant.OpExport:
		return g.cfg.ExportTTL
	default:
		return 0
	}
}

// Guarded runs load behind the rate limiter, the read-through cache, the
// request timeout and the usage tracker, in that order.
func Guarded[T any](ctx context.Context, g *Guard, call GuardedCall, load func(ctx context.Context) (T, error)) (T, GuardMeta, error) {
	var zero T
	started := time.Now()
	meta := GuardMeta{}

	decision, err := g.limiter.Allow(ctx, call.Operation, call.ClientKey, g.cfg.LimitFor(call.Class))
	if err != nil {
		g.logger.Warn(constant.ModuleGuard, "Rate limiter unavailable, allowing call", map[string]interface{}{
			"endpoint": call.Operation,
			"error":    err.Error(),
		})
		decision = ratelimit.Decision{Allowed: true, Remaining: -1}
	}
	meta.RateLimit = decision
	if !decision.Allowed {
		metrics.RecordRateLimited(call.Operation)
		limited := &apperror.RateLimited{
			Endpoint:   call.Operation,
			ClientKey:  call.ClientKey,
			Limit:      decision.Limit,
			RetryAfter: decision.RetryAfter,
		}
		g.track(ctx, call, started, limited)
		return zero, meta, limited
	}

	callCtx, cancel := context.WithTimeout(ctx, g.cfg.RequestTimeout)
	defer cancel()

	var result T
	ttl := g.TTLFor(call.Operation)
	if call.NoCache || ttl <= 0 {
		result, err = load(callCtx)
	} else {
		meta.CacheKey = cache.BuildKey(call.Operation, call.Identifier, call.Filters, call.UserId)
		result, meta.CacheHit, err = cache.Remember(callCtx, g.store, meta.CacheKey, ttl, load)
		metrics.RecordCacheLookup(call.Operation, meta.CacheHit)
	}
	if errors.Is(callCtx.Err(), context.DeadlineExceeded) {
		var failure *apperror.AggregationFailure
		if err == nil || !errors.As(err, &failure) {
			err = apperror.NewAggregationFailure(call.Operation, nil, context.DeadlineExceeded)
		}
	}

	meta.ExecutionTime = time.Since(started)
	g.track(ctx, call, started, err)
	if err != nil {
		return zero, meta, err
	}
	return result, meta, nil
}

func (g *Guard) track(ctx context.Context, call GuardedCall, started time.Time, err error) {
	rec := usage.Call{
		Endpoint:  call.Operation,
		ClientKey: call.ClientKey,
		Success:   err == nil,
		Timestamp: started,
		Duration:  time.Since(started),
	}
	if err != nil {
		rec.Error = err.Error()
	}
	g.tracker.Record(context.WithoutCancel(ctx), rec)
}

// InvalidatePrefixes drops every cached entry under the given prefixes and
// returns how many were removed. Failures are logged, never returned.
func (g *Guard) InvalidatePrefixes(ctx context.Context, prefixes ...string) int {
	removed := 0
	for _, prefix := range prefixes {
		n, err := g.store.DeletePrefix(ctx, prefix)
		if err != nil {
			g.logger.Warn(constant.ModuleGuard, "Cache invalidation failed", map[string]interface{}{
				"prefix": prefix,
				"error":  err.Error(),
			})
			continue
		}
		metrics.RecordInvalidation(prefix, n)
		removed += n
	}
	return removed
}

// AggregatePrefixes are the cache namespaces derived from jaspel entries.
func AggregatePrefixes() []string {
	return []string{
		constant.CachePrefixReport,
		constant.CachePrefixSummary,
		constant.CachePrefixRoleStats,
		constant.CachePrefixCompare,
		constant.CachePrefixValidation,
		cache.OperationPrefix(constant.OpValidateSystem),
		constant.CachePrefixFlow,
		constant.CachePrefixExport,
	}
}
