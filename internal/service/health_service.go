package service

import (
	"bytes"
	"context"
	"errors"
	"sync"
	"time"

	"jaspel-be/internal/config"
	"jaspel-be/internal/constant"
	"jaspel-be/internal/dto"
	"jaspel-be/internal/entity"
	"jaspel-be/internal/pkg/logger"
	"jaspel-be/internal/repository/unitofwork"
	"jaspel-be/pkg/cache"

	"golang.org/x/sync/errgroup"
)

const (
	HealthCheckDatabase    = "database"
	HealthCheckCache       = "cache"
	HealthCheckAggregation = "aggregation"

	healthProbeKey = constant.CachePrefixHealth + "probe"
)

type IHealthService interface {
	Check(ctx context.Context) *dto.HealthReport
}

type healthService struct {
	uowFactory unitofwork.RepositoryFactory
	store      cache.Store
	cfg        config.JaspelConfig
	logger     logger.ILogger
	now        func() time.Time
}

func NewHealthService(
	uowFactory unitofwork.RepositoryFactory,
	store cache.Store,
	cfg config.JaspelConfig,
	logger logger.ILogger,
) IHealthService {
	return &healthService{
		uowFactory: uowFactory,
		store:      store,
		cfg:        cfg,
		logger:     logger,
		now:        time.Now,
	}
}

func (s *healthService) Check(ctx context.Context) *dto.HealthReport {
	started := time.Now()
	budgetCtx, cancel := context.WithTimeout(ctx, s.cfg.HealthCheckBudget)
	defer cancel()

	probes := map[string]func(context.Context) error{
		HealthCheckDatabase:    s.pingDatabase,
		HealthCheckCache:       s.cacheRoundTrip,
		HealthCheckAggregation: s.trivialAggregation,
	}

	var mu sync.Mutex
	checks := make(map[string]dto.HealthProbe, len(probes))
	var g errgroup.Group
	for name, probe := range probes {
		name, probe := name, probe
		g.Go(func() error {
			probeStarted := time.Now()
			err := probe(budgetCtx)
			result := dto.HealthProbe{
				Ok:        err == nil,
				LatencyMs: round2(float64(time.Since(probeStarted).Microseconds()) / 1000),
			}
			if err != nil {
				result.Error = err.Error()
			}
			mu.Lock()
			checks[name] = result
			mu.Unlock()
			return nil
		})
	}
	_ = g.Wait()

	elapsed := time.Since(started)
	report := &dto.HealthReport{
		Checks:    checks,
		TotalMs:   round2(float64(elapsed.Microseconds()) / 1000),
		CheckedAt: s.now(),
	}
	report.Status = healthStatus(checks, elapsed, s.cfg.HealthCheckBudget)

	if report.Status != dto.HealthHealthy {
		s.logger.Warn(constant.ModuleHealth, "Health check not healthy", map[string]interface{}{
			"status":   report.Status,
			"total_ms": report.TotalMs,
		})
	}
	return report
}

func healthStatus(checks map[string]dto.HealthProbe, elapsed, budget time.Duration) string {
	ok := 0
	for _, c := range checks {
		if c.Ok {
			ok++
		}
	}
	switch {
	case ok == 0:
		return dto.HealthUnhealthy
	case ok == len(checks) && elapsed < budget:
		return dto.HealthHealthy
	default:
		return dto.HealthDegraded
	}
}

func (s *healthService) pingDatabase(ctx context.Context) error {
	return s.uowFactory.Ping(ctx)
}

func (s *healthService) cacheRoundTrip(ctx context.Context) error {
	value := []byte(s.now().Format(time.RFC3339Nano))
	if err := s.store.Set(ctx, healthProbeKey, value, 10*time.Second); err != nil {
		return err
	}
	got, found, err := s.store.Get(ctx, healthProbeKey)
	if err != nil {
		return err
	}
	if !found || !bytes.Equal(got, value) {
		return errors.New("cache round trip returned a different value")
	}
	return s.store.Delete(ctx, healthProbeKey)
}

func (s *healthService) trivialAggregation(ctx context.Context) error {
	uow := s.uowFactory.NewUnitOfWork(ctx)
	_, err := uow.JaspelRepository().SumTotal(ctx, entity.JaspelFilter{}.Approved())
	return err
}
