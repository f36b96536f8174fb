package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"jaspel-be/internal/config"
	"jaspel-be/internal/constant"
	"jaspel-be/internal/dto"
	"jaspel-be/internal/entity"
	"jaspel-be/internal/pkg/apperror"
	"jaspel-be/internal/pkg/logger"
	"jaspel-be/internal/repository/unitofwork"
	"jaspel-be/pkg/events"
	"jaspel-be/pkg/metrics"

	"github.com/google/uuid"
	"golang.org/x/sync/errgroup"
)

const (
	systemValidationWorkers = 4
	allChecksPassedMessage  = "Semua validasi lulus"
)

type IJaspelValidationService interface {
	ValidateUser(ctx context.Context, userId uuid.UUID) (*dto.ValidationReport, error)
	ValidateSystem(ctx context.Context) (*dto.SystemValidationReport, error)
	BulkUpdateStatus(ctx context.Context, actorId uuid.UUID, actorRole string, req *dto.BulkUpdateStatusRequest) (*dto.BulkUpdateStatusResponse, error)
}

type jaspelValidationService struct {
	uowFactory  unitofwork.RepositoryFactory
	aggregation IJaspelAggregationService
	publisher   IPublisherService
	cfg         config.JaspelConfig
	logger      logger.ILogger
	checks      []Check
	now         func() time.Time
	sleep       func(ctx context.Context, d time.Duration) error
}

func NewJaspelValidationService(
	uowFactory unitofwork.RepositoryFactory,
	aggregation IJaspelAggregationService,
	publisher IPublisherService,
	cfg config.JaspelConfig,
	logger logger.ILogger,
) IJaspelValidationService {
	return &jaspelValidationService{
		uowFactory:  uowFactory,
		aggregation: aggregation,
		publisher:   publisher,
		cfg:         cfg,
		logger:      logger,
		checks:      DefaultChecks(),
		now:         time.Now,
		sleep:       sleepContext,
	}
}

func sleepContext(ctx context.Context, d time.Duration) error {
	timer := time.NewTimer(d)
	defer timer.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-timer.C:
		return nil
	}
}

func (s *jaspelValidationService) fail(operation string, filters map[string]interface{}, err error) error {
	failure := apperror.NewAggregationFailure(operation, filters, err)
	s.logger.Error(constant.ModuleValidation, "Validation query failed", map[string]interface{}{
		"operation": operation,
		"filters":   filters,
		"retryable": failure.Retryable,
		"error":     err.Error(),
	})
	return failure
}

// loadUserContext reads everything the battery needs. Store errors abort
// the run; they mean none of the checks could be trusted.
func (s *jaspelValidationService) loadUserContext(ctx context.Context, userId uuid.UUID) (*UserContext, error) {
	uow := s.uowFactory.NewUnitOfWork(ctx)

	user, err := uow.UserRepository().FindOne(ctx, userId)
	if err != nil {
		return nil, err
	}
	if user == nil {
		return nil, &apperror.NotFound{Resource: "user", Id: userId.String()}
	}

	uc := &UserContext{
		User:      user,
		Now:       s.now(),
		Tolerance: s.cfg.Tolerance,
	}
	approved := entity.JaspelFilter{}.Approved().ForUser(userId)

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		entries, err := uow.JaspelRepository().FindAll(gctx, approved)
		uc.Approved = entries
		return err
	})
	g.Go(func() error {
		total, err := uow.JaspelRepository().SumTotal(gctx, approved)
		uc.AggregateTotal = total
		return err
	})
	g.Go(func() error {
		breakdown, err := uow.JaspelRepository().StatusBreakdown(gctx, userId)
		uc.StatusBreakdown = breakdown
		return err
	})
	g.Go(func() error {
		count, err := uow.TindakanRepository().CountByUser(gctx, userId)
		uc.ProcedureCount = count
		return err
	})
	g.Go(func() error {
		days, err := uow.JumlahPasienRepository().FindByUser(gctx, userId)
		uc.PatientCounts = days
		return err
	})
	g.Go(func() error {
		comparison, err := s.aggregation.CompareCalculationMethods(gctx, userId)
		uc.Comparison = comparison
		return err
	})
	if err := g.Wait(); err != nil {
		return nil, err
	}

	validatorIds := make([]uuid.UUID, 0)
	seen := make(map[uuid.UUID]bool)
	for _, e := range uc.Approved {
		if e.ValidasiBy != nil && !seen[*e.ValidasiBy] {
			seen[*e.ValidasiBy] = true
			validatorIds = append(validatorIds, *e.ValidasiBy)
		}
	}
	existing, err := uow.UserRepository().ExistingIds(ctx, validatorIds)
	if err != nil {
		return nil, err
	}
	uc.ExistingUsers = make(map[uuid.UUID]bool, len(existing))
	for _, id := range existing {
		uc.ExistingUsers[id] = true
	}

	return uc, nil
}

// runChecks fans the battery out and joins before scoring. A panicking
// check becomes a failed result; the others still complete.
func runChecks(ctx context.Context, checks []Check, uc *UserContext) []dto.CheckResult {
	results := make([]dto.CheckResult, len(checks))
	var g errgroup.Group
	for i, check := range checks {
		i, check := i, check
		g.Go(func() error {
			results[i] = runCheck(ctx, check, uc)
			return nil
		})
	}
	_ = g.Wait()
	return results
}

func runCheck(ctx context.Context, check Check, uc *UserContext) (result dto.CheckResult) {
	defer func() {
		if r := recover(); r != nil {
			failure := &apperror.ValidationCheckFailure{Check: check.Name, Err: fmt.Errorf("%v", r)}
			result = dto.CheckResult{
				Name:    check.Name,
				Passed:  false,
				Details: map[string]interface{}{},
				Error:   failure.Error(),
			}
		}
	}()

	result = check.Run(ctx, uc)
	result.Name = check.Name
	if result.Details == nil {
		result.Details = map[string]interface{}{}
	}
	return result
}

func recommendations(results []dto.CheckResult) []string {
	out := make([]string, 0)
	for _, r := range results {
		if r.Passed {
			continue
		}
		reason := r.Error
		if reason == "" {
			reason = "pemeriksaan tidak lulus"
		}
		out = append(out, fmt.Sprintf("Periksa %s: %s", r.Name, reason))
	}
	if len(out) == 0 {
		out = append(out, allChecksPassedMessage)
	}
	return out
}

func (s *jaspelValidationService) ValidateUser(ctx context.Context, userId uuid.UUID) (*dto.ValidationReport, error) {
	uc, err := s.loadUserContext(ctx, userId)
	if err != nil {
		var notFound *apperror.NotFound
		if errors.As(err, &notFound) {
			return nil, err
		}
		return nil, s.fail(constant.OpValidateUser, map[string]interface{}{"user_id": userId.String()}, err)
	}

	results := runChecks(ctx, s.checks, uc)

	passed := 0
	for _, r := range results {
		if r.Passed {
			passed++
		}
	}

	report := &dto.ValidationReport{
		UserId:          uc.User.Id,
		UserName:        uc.User.Name,
		Checks:          results,
		PassedChecks:    passed,
		TotalChecks:     len(results),
		Score:           percentage(int64(passed), int64(len(results))),
		Recommendations: recommendations(results),
		ValidatedAt:     uc.Now,
	}
	metrics.ValidationScores.Observe(report.Score)

	s.logger.Info(constant.ModuleValidation, "User validation completed", map[string]interface{}{
		"user_id":       userId.String(),
		"passed_checks": passed,
		"score":         report.Score,
	})

	return report, nil
}

func (s *jaspelValidationService) ValidateSystem(ctx context.Context) (*dto.SystemValidationReport, error) {
	uow := s.uowFactory.NewUnitOfWork(ctx)
	userIds, err := uow.JaspelRepository().DistinctUserIds(ctx, entity.JaspelFilter{}.Approved())
	if err != nil {
		return nil, s.fail(constant.OpValidateSystem, nil, err)
	}

	summaries := make([]dto.UserValidationSummary, len(userIds))
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(systemValidationWorkers)
	for i, id := range userIds {
		i, id := i, id
		g.Go(func() error {
			report, err := s.ValidateUser(gctx, id)
			if err != nil {
				var notFound *apperror.NotFound
				if errors.As(err, &notFound) {
					summaries[i] = dto.UserValidationSummary{UserId: id}
					return nil
				}
				return err
			}
			summaries[i] = dto.UserValidationSummary{
				UserId:   id,
				UserName: report.UserName,
				Score:    report.Score,
				Passed:   report.Score >= s.cfg.ValidationPassMark,
			}
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}

	passed := 0
	for _, summary := range summaries {
		if summary.Passed {
			passed++
		}
	}
	total := len(summaries)
	denominator := total
	if denominator < 1 {
		denominator = 1
	}

	report := &dto.SystemValidationReport{
		TotalUsers:        total,
		PassedUsers:       passed,
		FailedUsers:       total - passed,
		SystemHealthScore: percentage(int64(passed), int64(denominator)),
		Users:             summaries,
		ValidatedAt:       s.now(),
	}

	s.logger.Info(constant.ModuleValidation, "System validation completed", map[string]interface{}{
		"total_users":         total,
		"passed_users":        passed,
		"system_health_score": report.SystemHealthScore,
	})

	return report, nil
}

func (s *jaspelValidationService) BulkUpdateStatus(ctx context.Context, actorId uuid.UUID, actorRole string, req *dto.BulkUpdateStatusRequest) (*dto.BulkUpdateStatusResponse, error) {
	role, _ := constant.ParseRoleName(actorRole)
	if role != constant.RoleBendahara {
		return nil, apperror.ErrNotValidator
	}

	status := entity.JaspelStatus(req.Status)
	if status != entity.JaspelStatusApproved && status != entity.JaspelStatusRejected {
		return nil, fmt.Errorf("%w: %s", apperror.ErrInvalidStatus, req.Status)
	}

	ids := uniqueIds(req.Ids)
	if len(ids) == 0 {
		return nil, apperror.ErrEmptySelection
	}

	filters := map[string]interface{}{
		"status":       req.Status,
		"ids":          len(ids),
		"validator_id": actorId.String(),
	}

	attempts := s.cfg.RetryAttempts
	if attempts < 1 {
		attempts = 1
	}

	var updated int64
	var lastErr error
	for attempt := 0; attempt < attempts; attempt++ {
		updated, lastErr = s.updateStatusOnce(ctx, ids, status, actorId)
		if lastErr == nil {
			break
		}

		s.logger.Warn(constant.ModuleValidation, "Bulk status update attempt failed", map[string]interface{}{
			"attempt": attempt + 1,
			"error":   lastErr.Error(),
		})
		if attempt == attempts-1 {
			break
		}
		if err := s.sleep(ctx, s.cfg.RetryBackoff*time.Duration(1<<attempt)); err != nil {
			lastErr = err
			break
		}
	}
	if lastErr != nil {
		return nil, s.fail(constant.OpBulkUpdateStatus, filters, &apperror.TransientStoreFailure{Attempt: attempts, Err: lastErr})
	}

	metrics.RecordStatusTransitions(req.Status, updated)

	resp := &dto.BulkUpdateStatusResponse{
		Status:    req.Status,
		Requested: len(ids),
		Updated:   updated,
		Skipped:   int64(len(ids)) - updated,
	}

	s.logger.Info(constant.ModuleValidation, "Bulk status update committed", map[string]interface{}{
		"status":       req.Status,
		"requested":    resp.Requested,
		"updated":      resp.Updated,
		"validator_id": actorId.String(),
	})

	if updated > 0 && s.publisher != nil {
		idStrings := make([]string, len(ids))
		for i, id := range ids {
			idStrings[i] = id.String()
		}
		evt := events.NewEvent(constant.TopicJaspelStatusUpdated, map[string]interface{}{
			"ids":          idStrings,
			"status":       req.Status,
			"updated":      updated,
			"validator_id": actorId.String(),
		})
		if err := s.publisher.Publish(ctx, evt); err != nil {
			s.logger.Error(constant.ModuleEvents, "Failed to publish status update event", map[string]interface{}{
				"error": err.Error(),
			})
		}
	}

	return resp, nil
}

// updateStatusOnce runs one transactional attempt.
func (s *jaspelValidationService) updateStatusOnce(ctx context.Context, ids []uuid.UUID, status entity.JaspelStatus, validatorId uuid.UUID) (int64, error) {
	uow := s.uowFactory.NewUnitOfWork(ctx)
	if err := uow.Begin(ctx); err != nil {
		return 0, err
	}

	updated, err := uow.JaspelRepository().UpdateStatus(ctx, ids, status, validatorId, s.now())
	if err != nil {
		_ = uow.Rollback()
		return 0, err
	}

	if err := uow.Commit(); err != nil {
		return 0, err
	}
	return updated, nil
}

func uniqueIds(ids []uuid.UUID) []uuid.UUID {
	seen := make(map[uuid.UUID]bool, len(ids))
	out := make([]uuid.UUID, 0, len(ids))
	for _, id := range ids {
		if id == uuid.Nil || seen[id] {
			continue
		}
		seen[id] = true
		out = append(out, id)
	}
	return out
}
