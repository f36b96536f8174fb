package service

import (
	"context"
	"fmt"
	"sort"
	"time"

	"jaspel-be/internal/config"
	"jaspel-be/internal/constant"
	"jaspel-be/internal/dto"
	"jaspel-be/internal/entity"
	"jaspel-be/internal/pkg/apperror"
	"jaspel-be/internal/pkg/logger"
	"jaspel-be/internal/repository/unitofwork"
	"jaspel-be/pkg/events"

	"github.com/google/uuid"
	"golang.org/x/sync/errgroup"
)

const (
	MethodFlatSum          = "flat_sum"
	MethodJoinedGroupBy    = "joined_group_by"
	MethodCollectionSum    = "collection_sum"
	MethodJenisPartitioned = "jenis_partition_sum"
)

type IJaspelAggregationService interface {
	AggregateByRole(ctx context.Context, role string, filters dto.JaspelFilters) ([]dto.JaspelUserAggregate, error)
	SummaryForUser(ctx context.Context, userId uuid.UUID, filters dto.JaspelFilters) (*dto.JaspelUserSummary, error)
	RoleStatistics(ctx context.Context, filters dto.JaspelFilters) ([]dto.RoleStatistic, error)
	CompareCalculationMethods(ctx context.Context, userId uuid.UUID) (*dto.MethodComparison, error)
	CreateOverride(ctx context.Context, actorId uuid.UUID, req *dto.CreateOverrideRequest) (*dto.OverrideResponse, error)
}

type jaspelAggregationService struct {
	uowFactory unitofwork.RepositoryFactory
	publisher  IPublisherService
	cfg        config.JaspelConfig
	logger     logger.ILogger
	now        func() time.Time
}

func NewJaspelAggregationService(
	uowFactory unitofwork.RepositoryFactory,
	publisher IPublisherService,
	cfg config.JaspelConfig,
	logger logger.ILogger,
) IJaspelAggregationService {
	return &jaspelAggregationService{
		uowFactory: uowFactory,
		publisher:  publisher,
		cfg:        cfg,
		logger:     logger,
		now:        time.Now,
	}
}

func toEntityFilter(filters dto.JaspelFilters) entity.JaspelFilter {
	return entity.JaspelFilter{
		DateFrom: filters.DateFrom,
		DateTo:   filters.DateTo,
		Search:   filters.Search,
	}
}

func roleNames(roles []constant.RoleName) []string {
	if len(roles) == 0 {
		return nil
	}
	out := make([]string, len(roles))
	for i, r := range roles {
		out[i] = r.String()
	}
	return out
}

func (s *jaspelAggregationService) fail(operation string, filters map[string]interface{}, err error) error {
	failure := apperror.NewAggregationFailure(operation, filters, err)
	details := map[string]interface{}{
		"operation": operation,
		"filters":   filters,
		"retryable": failure.Retryable,
		"error":     err.Error(),
	}
	s.logger.Error(constant.ModuleAggregation, "Aggregation query failed", details)
	return failure
}

func (s *jaspelAggregationService) AggregateByRole(ctx context.Context, role string, filters dto.JaspelFilters) ([]dto.JaspelUserAggregate, error) {
	roleName, ok := constant.ParseRoleName(role)
	if !ok {
		return nil, fmt.Errorf("%w: %s", apperror.ErrInvalidRole, role)
	}

	logFilters := filters.LogMap()
	logFilters["role"] = roleName.String()

	filter := toEntityFilter(filters).Approved()
	filter.RoleNames = roleNames(roleName.GroupMembers())

	uow := s.uowFactory.NewUnitOfWork(ctx)
	rows, err := uow.JaspelRepository().AggregateByUser(ctx, filter)
	if err != nil {
		return nil, s.fail(constant.OpAggregateByRole, logFilters, err)
	}

	result := make([]dto.JaspelUserAggregate, 0, len(rows))
	ids := make([]uuid.UUID, 0, len(rows))
	for _, row := range rows {
		if row.Count == 0 {
			continue
		}
		result = append(result, dto.JaspelUserAggregate{
			UserId:          row.UserId,
			UserName:        row.UserName,
			RoleName:        row.RoleName,
			Total:           round2(row.Total),
			Count:           row.Count,
			Average:         safeAverage(row.Total, row.Count),
			FirstValidation: row.FirstValidation,
			LastValidation:  row.LastValidation,
		})
		ids = append(ids, row.UserId)
	}

	overrides, err := uow.OverrideRepository().FindActiveByUsers(ctx, ids)
	if err != nil {
		return nil, s.fail(constant.OpAggregateByRole, logFilters, err)
	}
	for i := range result {
		override, found := overrides[result[i].UserId]
		if !found {
			continue
		}
		computed := result[i].Total
		result[i].Total = round2(override.FixedTotal)
		result[i].Average = safeAverage(override.FixedTotal, result[i].Count)
		result[i].OverrideApplied = true
		s.auditOverride(ctx, uow, override, computed, constant.OpAggregateByRole, logFilters)
	}

	sort.SliceStable(result, func(i, j int) bool {
		return result[i].Total > result[j].Total
	})

	return result, nil
}

// SummarizeReport totals a full (unpaginated) report.
func SummarizeReport(role string, rows []dto.JaspelUserAggregate) dto.JaspelReportSummary {
	summary := dto.JaspelReportSummary{Role: role, TotalUsers: len(rows)}
	amounts := make([]float64, len(rows))
	for i, row := range rows {
		summary.TotalEntries += row.Count
		amounts[i] = row.Total
	}
	summary.TotalAmount = round2(sumAmounts(amounts...).InexactFloat64())
	summary.AveragePerUser = safeAverage(summary.TotalAmount, int64(len(rows)))
	return summary
}

func (s *jaspelAggregationService) SummaryForUser(ctx context.Context, userId uuid.UUID, filters dto.JaspelFilters) (*dto.JaspelUserSummary, error) {
	logFilters := filters.LogMap()
	logFilters["user_id"] = userId.String()

	uow := s.uowFactory.NewUnitOfWork(ctx)
	user, err := uow.UserRepository().FindOne(ctx, userId)
	if err != nil {
		return nil, s.fail(constant.OpSummaryForUser, logFilters, err)
	}
	if user == nil {
		return nil, &apperror.NotFound{Resource: "user", Id: userId.String()}
	}

	filter := toEntityFilter(filters).Approved().ForUser(userId)

	rows, err := uow.JaspelRepository().AggregateByUser(ctx, filter)
	if err != nil {
		return nil, s.fail(constant.OpSummaryForUser, logFilters, err)
	}
	byJenis, err := uow.JaspelRepository().SumByJenis(ctx, filter)
	if err != nil {
		return nil, s.fail(constant.OpSummaryForUser, logFilters, err)
	}

	summary := &dto.JaspelUserSummary{
		UserId:    user.Id,
		UserName:  user.Name,
		RoleName:  user.RoleName(),
		Breakdown: make([]dto.JenisBreakdown, 0, len(byJenis)),
	}
	if len(rows) > 0 {
		summary.Total = round2(rows[0].Total)
		summary.Count = rows[0].Count
		summary.FirstValidation = rows[0].FirstValidation
		summary.LastValidation = rows[0].LastValidation
	}
	summary.Average = safeAverage(summary.Total, summary.Count)

	for _, j := range byJenis {
		summary.Breakdown = append(summary.Breakdown, dto.JenisBreakdown{
			Jenis: string(j.Jenis),
			Total: round2(j.Total),
			Count: j.Count,
		})
	}

	overrides, err := uow.OverrideRepository().FindActiveByUsers(ctx, []uuid.UUID{userId})
	if err != nil {
		return nil, s.fail(constant.OpSummaryForUser, logFilters, err)
	}
	if override, found := overrides[userId]; found {
		computed := summary.Total
		summary.ComputedTotal = &computed
		summary.Total = round2(override.FixedTotal)
		summary.Average = safeAverage(override.FixedTotal, summary.Count)
		summary.OverrideApplied = true
		summary.OverrideReason = override.Reason
		s.auditOverride(ctx, uow, override, computed, constant.OpSummaryForUser, logFilters)
	}

	return summary, nil
}

// auditOverride records an override application. Audit failures are logged
// and never fail the read.
func (s *jaspelAggregationService) auditOverride(
	ctx context.Context,
	uow unitofwork.UnitOfWork,
	override *entity.JaspelOverride,
	computed float64,
	operation string,
	filters map[string]interface{},
) {
	audit := &entity.JaspelOverrideAudit{
		Id:            uuid.New(),
		OverrideId:    override.Id,
		UserId:        override.UserId,
		ComputedTotal: computed,
		ReportedTotal: override.FixedTotal,
		Operation:     operation,
		Context:       filters,
		AppliedAt:     s.now(),
	}

	details := map[string]interface{}{
		"override_id":    override.Id.String(),
		"user_id":        override.UserId.String(),
		"computed_total": computed,
		"reported_total": override.FixedTotal,
		"operation":      operation,
		"reason":         override.Reason,
	}
	if err := uow.OverrideRepository().CreateAudit(ctx, audit); err != nil {
		details["error"] = err.Error()
		s.logger.Error(constant.ModuleAggregation, "Failed to write override audit", details)
		return
	}
	s.logger.Info(constant.ModuleAggregation, "Manual override applied", details)
}

func (s *jaspelAggregationService) RoleStatistics(ctx context.Context, filters dto.JaspelFilters) ([]dto.RoleStatistic, error) {
	uow := s.uowFactory.NewUnitOfWork(ctx)
	rows, err := uow.JaspelRepository().AggregateByRole(ctx, toEntityFilter(filters).Approved())
	if err != nil {
		return nil, s.fail(constant.OpRoleStatistics, filters.LogMap(), err)
	}

	return foldRoleAggregates(rows), nil
}

// foldRoleAggregates merges role rows by canonical group. Averages are
// recomputed from the folded sums.
func foldRoleAggregates(rows []entity.RoleAggregate) []dto.RoleStatistic {
	type acc struct {
		stat  dto.RoleStatistic
		total []float64
	}
	order := make([]string, 0, len(rows))
	groups := make(map[string]*acc)

	for _, row := range rows {
		group := constant.RoleName(row.RoleName).CanonicalGroup()
		key := group.String()
		a, found := groups[key]
		if !found {
			display := row.DisplayName
			if display == "" || group.String() != row.RoleName {
				display = group.DisplayName()
			}
			a = &acc{stat: dto.RoleStatistic{RoleName: key, DisplayName: display}}
			groups[key] = a
			order = append(order, key)
		}
		a.total = append(a.total, row.Total)
		a.stat.Count += row.Count
		a.stat.UserCount += row.UserCount
	}

	out := make([]dto.RoleStatistic, 0, len(order))
	for _, key := range order {
		a := groups[key]
		total := sumAmounts(a.total...).InexactFloat64()
		a.stat.Total = round2(total)
		a.stat.Average = safeAverage(total, a.stat.Count)
		out = append(out, a.stat)
	}

	sort.SliceStable(out, func(i, j int) bool {
		return out[i].Total > out[j].Total
	})
	return out
}

func (s *jaspelAggregationService) CompareCalculationMethods(ctx context.Context, userId uuid.UUID) (*dto.MethodComparison, error) {
	logFilters := map[string]interface{}{"user_id": userId.String()}

	uow := s.uowFactory.NewUnitOfWork(ctx)
	user, err := uow.UserRepository().FindOne(ctx, userId)
	if err != nil {
		return nil, s.fail(constant.OpCompareMethods, logFilters, err)
	}
	if user == nil {
		return nil, &apperror.NotFound{Resource: "user", Id: userId.String()}
	}

	filter := entity.JaspelFilter{}.Approved().ForUser(userId)
	repo := uow.JaspelRepository()

	var flat, joined, collection, partitioned float64
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		v, err := repo.SumTotal(gctx, filter)
		flat = v
		return err
	})
	g.Go(func() error {
		v, err := repo.SumTotalJoined(gctx, userId)
		joined = v
		return err
	})
	g.Go(func() error {
		entries, err := repo.FindAll(gctx, filter)
		if err != nil {
			return err
		}
		totals := make([]float64, len(entries))
		for i, e := range entries {
			totals[i] = e.Total
		}
		collection = sumAmounts(totals...).InexactFloat64()
		return nil
	})
	g.Go(func() error {
		parts, err := repo.SumByJenis(gctx, filter)
		if err != nil {
			return err
		}
		totals := make([]float64, len(parts))
		for i, p := range parts {
			totals[i] = p.Total
		}
		partitioned = sumAmounts(totals...).InexactFloat64()
		return nil
	})
	if err := g.Wait(); err != nil {
		return nil, s.fail(constant.OpCompareMethods, logFilters, err)
	}

	methods := map[string]float64{
		MethodFlatSum:          flat,
		MethodJoinedGroupBy:    joined,
		MethodCollectionSum:    collection,
		MethodJenisPartitioned: partitioned,
	}
	maxDiff := maxPairwiseDifference(methods)

	result := &dto.MethodComparison{
		UserId:        userId,
		Methods:       make(map[string]float64, len(methods)),
		MaxDifference: round2(maxDiff),
		Agreement:     maxDiff <= s.cfg.Tolerance,
		Tolerance:     s.cfg.Tolerance,
	}
	for name, v := range methods {
		result.Methods[name] = round2(v)
	}

	if !result.Agreement {
		s.logger.Warn(constant.ModuleAggregation, "Calculation methods disagree", map[string]interface{}{
			"user_id":        userId.String(),
			"methods":        methods,
			"max_difference": maxDiff,
		})
	}

	return result, nil
}

func maxPairwiseDifference(values map[string]float64) float64 {
	first := true
	var lo, hi float64
	for _, v := range values {
		if first {
			lo, hi = v, v
			first = false
			continue
		}
		if v < lo {
			lo = v
		}
		if v > hi {
			hi = v
		}
	}
	return absDiff(hi, lo)
}

func (s *jaspelAggregationService) CreateOverride(ctx context.Context, actorId uuid.UUID, req *dto.CreateOverrideRequest) (*dto.OverrideResponse, error) {
	uow := s.uowFactory.NewUnitOfWork(ctx)
	user, err := uow.UserRepository().FindOne(ctx, req.UserId)
	if err != nil {
		return nil, err
	}
	if user == nil {
		return nil, &apperror.NotFound{Resource: "user", Id: req.UserId.String()}
	}

	override := &entity.JaspelOverride{
		Id:         uuid.New(),
		UserId:     req.UserId,
		FixedTotal: req.FixedTotal,
		Reason:     req.Reason,
		IsActive:   true,
		CreatedBy:  &actorId,
		CreatedAt:  s.now(),
	}
	if err := uow.OverrideRepository().Create(ctx, override); err != nil {
		return nil, err
	}

	s.logger.Info(constant.ModuleAggregation, "Manual override registered", map[string]interface{}{
		"override_id": override.Id.String(),
		"user_id":     override.UserId.String(),
		"fixed_total": override.FixedTotal,
		"created_by":  actorId.String(),
	})

	if s.publisher != nil {
		evt := events.NewEvent(constant.TopicJaspelOverride, map[string]interface{}{
			"override_id": override.Id.String(),
			"user_id":     override.UserId.String(),
		})
		if err := s.publisher.Publish(ctx, evt); err != nil {
			s.logger.Error(constant.ModuleEvents, "Failed to publish override event", map[string]interface{}{
				"error": err.Error(),
			})
		}
	}

	return &dto.OverrideResponse{
		Id:         override.Id,
		UserId:     override.UserId,
		FixedTotal: override.FixedTotal,
		Reason:     override.Reason,
		IsActive:   override.IsActive,
		CreatedBy:  override.CreatedBy,
		CreatedAt:  override.CreatedAt,
	}, nil
}
