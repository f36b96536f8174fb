package service

import (
	"context"
	"fmt"
	"time"

	"jaspel-be/internal/config"
	"jaspel-be/internal/constant"
	"jaspel-be/internal/dto"
	"jaspel-be/internal/entity"
	"jaspel-be/internal/pkg/apperror"
	"jaspel-be/internal/pkg/logger"
	"jaspel-be/internal/repository/unitofwork"
	"jaspel-be/pkg/metrics"

	"github.com/google/uuid"
	"golang.org/x/sync/errgroup"
)

const (
	PriorityHigh   = "high"
	PriorityMedium = "medium"
	PriorityLow    = "low"

	RecommendationInput      = "input"
	RecommendationBypass     = "bypass"
	RecommendationBacklog    = "backlog"
	RecommendationValidation = "validation"
	RecommendationHealthy    = "healthy"
)

// Roles expected at each end of the workflow.
const (
	originatorRole = constant.RolePetugas
	validatorRole  = constant.RoleBendahara
)

type IFlowComplianceService interface {
	AnalyzeDataFlow(ctx context.Context) (*dto.FlowAnalysis, error)
	SeedFlowSample(ctx context.Context, originatorId uuid.UUID) (*dto.SeedFlowResponse, error)
}

type flowComplianceService struct {
	uowFactory unitofwork.RepositoryFactory
	cfg        config.JaspelConfig
	logger     logger.ILogger
	now        func() time.Time
}

func NewFlowComplianceService(
	uowFactory unitofwork.RepositoryFactory,
	cfg config.JaspelConfig,
	logger logger.ILogger,
) IFlowComplianceService {
	return &flowComplianceService{
		uowFactory: uowFactory,
		cfg:        cfg,
		logger:     logger,
		now:        time.Now,
	}
}

func userIds(users []*entity.User) []uuid.UUID {
	out := make([]uuid.UUID, len(users))
	for i, u := range users {
		out[i] = u.Id
	}
	return out
}

func (s *flowComplianceService) AnalyzeDataFlow(ctx context.Context) (*dto.FlowAnalysis, error) {
	uow := s.uowFactory.NewUnitOfWork(ctx)

	originators, err := uow.UserRepository().FindAll(ctx, entity.UserFilter{
		RoleNames:  []string{originatorRole.String()},
		ActiveOnly: true,
	})
	if err != nil {
		return nil, s.fail(err)
	}
	validators, err := uow.UserRepository().FindAll(ctx, entity.UserFilter{
		RoleNames:  []string{validatorRole.String()},
		ActiveOnly: true,
	})
	if err != nil {
		return nil, s.fail(err)
	}

	// Gap and source classification judge role membership, not activity: an
	// entry keeps its petugas origin after the account is deactivated.
	originatorMembers, err := uow.UserRepository().FindAll(ctx, entity.UserFilter{
		RoleNames: []string{originatorRole.String()},
	})
	if err != nil {
		return nil, s.fail(err)
	}
	validatorMembers, err := uow.UserRepository().FindAll(ctx, entity.UserFilter{
		RoleNames: []string{validatorRole.String()},
	})
	if err != nil {
		return nil, s.fail(err)
	}

	analysis := &dto.FlowAnalysis{AnalyzedAt: s.now()}

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		input, err := s.analyzeInput(gctx, uow, originators)
		analysis.InputAnalysis = input
		return err
	})
	g.Go(func() error {
		validation, err := s.analyzeValidation(gctx, uow, validators)
		analysis.ValidationAnalysis = validation
		return err
	})
	g.Go(func() error {
		gaps, err := s.analyzeGaps(gctx, uow, userIds(originatorMembers), userIds(validatorMembers))
		analysis.FlowGaps = gaps
		return err
	})
	g.Go(func() error {
		source, err := s.analyzeSources(gctx, uow, userIds(originatorMembers), userIds(validatorMembers))
		analysis.SourceBreakdown = source
		return err
	})
	if err := g.Wait(); err != nil {
		return nil, s.fail(err)
	}

	analysis.ComplianceComponents = dto.ComplianceComponents{
		OriginatorActivity: activityScore(analysis.InputAnalysis.TotalInputs),
		WorkflowCompliance: analysis.FlowGaps.CompliancePercentage,
		ValidatorActivity:  activityScore(analysis.ValidationAnalysis.TotalValidated),
	}
	analysis.ComplianceScore = complianceScore(analysis.ComplianceComponents)
	analysis.Recommendations = s.recommend(analysis)

	metrics.FlowComplianceScore.Set(analysis.ComplianceScore)
	s.logger.Info(constant.ModuleFlow, "Data flow analysis completed", map[string]interface{}{
		"compliance_score": analysis.ComplianceScore,
		"bypass_count":     analysis.FlowGaps.BypassCount,
		"pending_total":    analysis.FlowGaps.PendingTotal,
	})

	return analysis, nil
}

func (s *flowComplianceService) fail(err error) error {
	failure := apperror.NewAggregationFailure(constant.OpAnalyzeFlow, nil, err)
	s.logger.Error(constant.ModuleFlow, "Data flow analysis failed", map[string]interface{}{
		"retryable": failure.Retryable,
		"error":     err.Error(),
	})
	return failure
}

func activityScore(count int64) float64 {
	if count > 0 {
		return 100
	}
	return 0
}

func complianceScore(c dto.ComplianceComponents) float64 {
	return round2(sumAmounts(c.OriginatorActivity, c.WorkflowCompliance, c.ValidatorActivity).InexactFloat64() / 3)
}

type countByUsers func(ctx context.Context, recordType entity.FlowRecordType, userIds []uuid.UUID) (map[uuid.UUID]int64, error)

// staffActivity builds per-user counts across every record type.
func staffActivity(ctx context.Context, users []*entity.User, count countByUsers) ([]dto.StaffActivity, map[string]int64, int64, error) {
	ids := userIds(users)
	activity := make([]dto.StaffActivity, len(users))
	for i, u := range users {
		activity[i] = dto.StaffActivity{UserId: u.Id, Name: u.Name, Counts: make(map[string]int64)}
	}
	totals := make(map[string]int64)
	var grand int64

	for _, recordType := range entity.FlowRecordTypes() {
		counts, err := count(ctx, recordType, ids)
		if err != nil {
			return nil, nil, 0, err
		}
		key := string(recordType)
		totals[key] = 0
		for i := range activity {
			n := counts[activity[i].UserId]
			activity[i].Counts[key] = n
			activity[i].Total += n
			totals[key] += n
			grand += n
		}
	}
	return activity, totals, grand, nil
}

func (s *flowComplianceService) analyzeInput(ctx context.Context, uow unitofwork.UnitOfWork, originators []*entity.User) (dto.InputAnalysis, error) {
	activity, totals, grand, err := staffActivity(ctx, originators, uow.FlowRepository().CountByOriginators)
	if err != nil {
		return dto.InputAnalysis{}, err
	}
	return dto.InputAnalysis{
		ActiveOriginators: len(originators),
		Originators:       activity,
		TotalsByType:      totals,
		TotalInputs:       grand,
	}, nil
}

func (s *flowComplianceService) analyzeValidation(ctx context.Context, uow unitofwork.UnitOfWork, validators []*entity.User) (dto.ValidationAnalysis, error) {
	activity, totals, grand, err := staffActivity(ctx, validators, uow.FlowRepository().CountByValidators)
	if err != nil {
		return dto.ValidationAnalysis{}, err
	}
	return dto.ValidationAnalysis{
		ActiveValidators: len(validators),
		Validators:       activity,
		TotalsByType:     totals,
		TotalValidated:   grand,
	}, nil
}

func (s *flowComplianceService) analyzeGaps(ctx context.Context, uow unitofwork.UnitOfWork, originatorIds, validatorIds []uuid.UUID) (dto.FlowGaps, error) {
	repo := uow.JaspelRepository()
	gaps := dto.FlowGaps{PendingByType: make(map[string]int64)}

	total, err := repo.Count(ctx, entity.JaspelFilter{})
	if err != nil {
		return gaps, err
	}
	gaps.TotalEntries = total

	if len(originatorIds) > 0 {
		expected, err := repo.Count(ctx, entity.JaspelFilter{InputByIn: originatorIds})
		if err != nil {
			return gaps, err
		}
		gaps.ExpectedRoleEntries = expected
	}
	gaps.BypassCount = gaps.TotalEntries - gaps.ExpectedRoleEntries

	nonValidator, err := repo.Count(ctx, entity.JaspelFilter{ValidatedByNotIn: validatorIds}.Approved())
	if err != nil {
		return gaps, err
	}
	gaps.NonValidatorApprovals = nonValidator
	gaps.CompliancePercentage = percentage(gaps.ExpectedRoleEntries, gaps.TotalEntries)

	for _, recordType := range entity.FlowRecordTypes() {
		pending, err := uow.FlowRepository().CountPending(ctx, recordType)
		if err != nil {
			return gaps, err
		}
		gaps.PendingByType[string(recordType)] = pending
		gaps.PendingTotal += pending
	}
	gaps.Bottleneck = gaps.PendingTotal > s.cfg.BottleneckPending

	return gaps, nil
}

func (s *flowComplianceService) analyzeSources(ctx context.Context, uow unitofwork.UnitOfWork, originatorIds, validatorIds []uuid.UUID) (dto.SourceBreakdown, error) {
	repo := uow.JaspelRepository()
	breakdown := dto.SourceBreakdown{ByRole: make([]dto.RoleSource, 0)}

	rows, err := repo.AggregateByOriginatorRole(ctx)
	if err != nil {
		return breakdown, err
	}
	var total int64
	for _, row := range rows {
		name := row.RoleName
		if name == "" {
			name = "tidak_diketahui"
		}
		breakdown.ByRole = append(breakdown.ByRole, dto.RoleSource{
			RoleName: name,
			Count:    row.Count,
			Total:    round2(row.Total),
			Average:  safeAverage(row.Total, row.Count),
		})
		total += row.Count
	}

	linked := true
	breakdown.ProcedureLinked, err = repo.Count(ctx, entity.JaspelFilter{LinkedToTindakan: &linked})
	if err != nil {
		return breakdown, err
	}
	breakdown.ProcedureLinkedRatio = ratio(breakdown.ProcedureLinked, total)

	var score float64
	if len(originatorIds) > 0 {
		n, err := repo.Count(ctx, entity.JaspelFilter{InputByIn: originatorIds})
		if err != nil {
			return breakdown, err
		}
		if n > 0 {
			score += 50
		}
	}
	if len(validatorIds) > 0 {
		n, err := repo.Count(ctx, entity.JaspelFilter{ValidatedByIn: validatorIds})
		if err != nil {
			return breakdown, err
		}
		if n > 0 {
			score += 50
		}
	}
	breakdown.DataIntegrityScore = score

	return breakdown, nil
}

func (s *flowComplianceService) recommend(a *dto.FlowAnalysis) []dto.FlowRecommendation {
	out := make([]dto.FlowRecommendation, 0)

	if a.InputAnalysis.TotalInputs == 0 {
		out = append(out, dto.FlowRecommendation{
			Priority: PriorityHigh,
			Category: RecommendationInput,
			Message:  "Tidak ada input data dari petugas terdeteksi; pastikan petugas mencatat pendapatan, pengeluaran dan jaspel",
		})
	}
	if a.FlowGaps.BypassCount > 0 {
		out = append(out, dto.FlowRecommendation{
			Priority: PriorityMedium,
			Category: RecommendationBypass,
			Message:  fmt.Sprintf("%d entri jaspel tidak diinput melalui petugas", a.FlowGaps.BypassCount),
		})
	}
	if a.FlowGaps.PendingTotal > s.cfg.PendingAlertLevel {
		out = append(out, dto.FlowRecommendation{
			Priority: PriorityHigh,
			Category: RecommendationBacklog,
			Message:  fmt.Sprintf("%d validasi tertunda dalam antrean", a.FlowGaps.PendingTotal),
		})
	}
	if a.ValidationAnalysis.TotalValidated == 0 {
		out = append(out, dto.FlowRecommendation{
			Priority: PriorityMedium,
			Category: RecommendationValidation,
			Message:  "Belum ada data yang divalidasi oleh bendahara",
		})
	}
	if len(out) == 0 {
		out = append(out, dto.FlowRecommendation{
			Priority: PriorityLow,
			Category: RecommendationHealthy,
			Message:  "Alur input dan validasi berjalan sesuai prosedur",
		})
	}
	return out
}

// SeedFlowSample writes one pending income, expense and jaspel entry for a
// workflow health probe. It is not a data entry path.
func (s *flowComplianceService) SeedFlowSample(ctx context.Context, originatorId uuid.UUID) (*dto.SeedFlowResponse, error) {
	if !s.cfg.FlowSeedEnabled {
		return nil, apperror.ErrSeedingDisabled
	}

	uow := s.uowFactory.NewUnitOfWork(ctx)
	originator, err := uow.UserRepository().FindOne(ctx, originatorId)
	if err != nil {
		return nil, err
	}
	if originator == nil {
		return nil, &apperror.NotFound{Resource: "user", Id: originatorId.String()}
	}

	now := s.now()
	today := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, now.Location())
	pendapatan := &entity.Pendapatan{
		Id:        uuid.New(),
		Nama:      "Sampel alur pendapatan",
		Nominal:   100000,
		Tanggal:   today,
		InputBy:   originatorId,
		Status:    entity.JaspelStatusPending,
		CreatedAt: now,
	}
	pengeluaran := &entity.Pengeluaran{
		Id:        uuid.New(),
		Nama:      "Sampel alur pengeluaran",
		Nominal:   50000,
		Tanggal:   today,
		InputBy:   originatorId,
		Status:    entity.JaspelStatusPending,
		CreatedAt: now,
	}
	jaspel := &entity.Jaspel{
		Id:         uuid.New(),
		UserId:     originatorId,
		Jenis:      entity.JaspelJenisOther,
		Tanggal:    today,
		Nominal:    25000,
		Total:      25000,
		InputBy:    &originatorId,
		Status:     entity.JaspelStatusPending,
		Keterangan: "Sampel alur jaspel",
		CreatedAt:  now,
		UpdatedAt:  now,
	}

	if err := uow.Begin(ctx); err != nil {
		return nil, err
	}
	if err := uow.FlowRepository().CreatePendapatan(ctx, pendapatan); err != nil {
		_ = uow.Rollback()
		return nil, err
	}
	if err := uow.FlowRepository().CreatePengeluaran(ctx, pengeluaran); err != nil {
		_ = uow.Rollback()
		return nil, err
	}
	if err := uow.JaspelRepository().Create(ctx, jaspel); err != nil {
		_ = uow.Rollback()
		return nil, err
	}
	if err := uow.Commit(); err != nil {
		return nil, err
	}

	s.logger.Warn(constant.ModuleFlow, "Flow sample records seeded", map[string]interface{}{
		"originator_id":  originatorId.String(),
		"pendapatan_id":  pendapatan.Id.String(),
		"pengeluaran_id": pengeluaran.Id.String(),
		"jaspel_id":      jaspel.Id.String(),
	})

	return &dto.SeedFlowResponse{
		PendapatanId:  pendapatan.Id,
		PengeluaranId: pengeluaran.Id,
		JaspelId:      jaspel.Id,
	}, nil
}
