package implementation

import (
	"context"
	"errors"
	"time"

	"jaspel-be/internal/entity"
	"jaspel-be/internal/mapper"
	"jaspel-be/internal/model"
	"jaspel-be/internal/repository/contract"
	"jaspel-be/internal/repository/scope"
	"jaspel-be/internal/repository/specification"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type JaspelRepositoryImpl struct {
	db     *gorm.DB
	mapper *mapper.JaspelMapper
}

func NewJaspelRepository(db *gorm.DB) contract.JaspelRepository {
	return &JaspelRepositoryImpl{
		db:     db,
		mapper: mapper.NewJaspelMapper(),
	}
}

// filterSpecs translates a JaspelFilter into specifications. The second
// return value reports whether the owner/role join is required.
func filterSpecs(f entity.JaspelFilter) ([]specification.Specification, bool) {
	specs := make([]specification.Specification, 0, 8)
	needsOwner := false

	if f.UserId != nil {
		specs = append(specs, specification.JaspelOwnedBy{UserID: *f.UserId})
	}
	if len(f.Ids) > 0 {
		specs = append(specs, specification.ByIDs{Table: "jaspel", IDs: f.Ids})
	}
	if len(f.Statuses) > 0 {
		statuses := make([]string, 0, len(f.Statuses))
		for _, s := range f.Statuses {
			statuses = append(statuses, string(s))
		}
		specs = append(specs, specification.JaspelStatusIn{Statuses: statuses})
	}
	if f.DateFrom != nil || f.DateTo != nil {
		specs = append(specs, specification.TanggalBetween{From: f.DateFrom, To: f.DateTo})
	}
	if f.Search != "" {
		specs = append(specs, specification.OwnerNameLike{Query: f.Search})
		needsOwner = true
	}
	if len(f.RoleNames) > 0 {
		specs = append(specs, specification.OwnerRoleIn{Names: f.RoleNames})
		needsOwner = true
	}
	if len(f.InputByIn) > 0 {
		specs = append(specs, specification.InputByIn{IDs: f.InputByIn})
	}
	if len(f.InputByNotIn) > 0 {
		specs = append(specs, specification.InputByNotIn{IDs: f.InputByNotIn})
	}
	if len(f.ValidatedByIn) > 0 {
		specs = append(specs, specification.ValidatedByIn{IDs: f.ValidatedByIn})
	}
	if len(f.ValidatedByNotIn) > 0 {
		specs = append(specs, specification.ValidatedByNotIn{IDs: f.ValidatedByNotIn})
	}
	if f.LinkedToTindakan != nil {
		specs = append(specs, specification.LinkedToTindakan{Linked: *f.LinkedToTindakan})
	}
	return specs, needsOwner
}

func (r *JaspelRepositoryImpl) query(ctx context.Context, filter entity.JaspelFilter, forceOwnerJoin bool) *gorm.DB {
	specs, needsOwner := filterSpecs(filter)
	db := r.db.WithContext(ctx).Model(&model.Jaspel{})
	if needsOwner || forceOwnerJoin {
		db = db.Scopes(scope.JoinJaspelOwner)
	}
	return specification.Apply(db, specs...)
}

func (r *JaspelRepositoryImpl) Create(ctx context.Context, jaspel *entity.Jaspel) error {
	m := r.mapper.ToModel(jaspel)
	if err := r.db.WithContext(ctx).Create(m).Error; err != nil {
		return err
	}
	*jaspel = *r.mapper.ToEntity(m)
	return nil
}

func (r *JaspelRepositoryImpl) FindOne(ctx context.Context, id uuid.UUID) (*entity.Jaspel, error) {
	var m model.Jaspel
	if err := r.db.WithContext(ctx).Where("id = ?", id).First(&m).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return r.mapper.ToEntity(&m), nil
}

func (r *JaspelRepositoryImpl) FindAll(ctx context.Context, filter entity.JaspelFilter) ([]*entity.Jaspel, error) {
	var rows []*model.Jaspel
	err := r.query(ctx, filter, false).
		Select("jaspel.*").
		Order("jaspel.tanggal ASC").
		Order("jaspel.created_at ASC").
		Find(&rows).Error
	if err != nil {
		return nil, err
	}
	return r.mapper.ToEntities(rows), nil
}

func (r *JaspelRepositoryImpl) Count(ctx context.Context, filter entity.JaspelFilter) (int64, error) {
	var count int64
	if err := r.query(ctx, filter, false).Count(&count).Error; err != nil {
		return 0, err
	}
	return count, nil
}

// SumTotal is the flat filter+sum strategy.
func (r *JaspelRepositoryImpl) SumTotal(ctx context.Context, filter entity.JaspelFilter) (float64, error) {
	var total float64
	err := r.query(ctx, filter, false).
		Select("COALESCE(SUM(jaspel.total), 0)").
		Scan(&total).Error
	return total, err
}

// SumTotalJoined is the join+group-by strategy over approved entries.
func (r *JaspelRepositoryImpl) SumTotalJoined(ctx context.Context, userId uuid.UUID) (float64, error) {
	var rows []struct {
		UserId uuid.UUID
		Total  float64
	}
	err := r.db.WithContext(ctx).Table("jaspel").
		Select("users.id AS user_id, SUM(jaspel.total) AS total").
		Joins("JOIN users ON users.id = jaspel.user_id").
		Scopes(scope.ExcludeSoftDeletedJaspel).
		Where("jaspel.status_validasi = ?", string(entity.JaspelStatusApproved)).
		Where("users.id = ?", userId).
		Group("users.id").
		Scan(&rows).Error
	if err != nil {
		return 0, err
	}
	if len(rows) == 0 {
		return 0, nil
	}
	return rows[0].Total, nil
}

func (r *JaspelRepositoryImpl) SumByJenis(ctx context.Context, filter entity.JaspelFilter) ([]entity.JenisAggregate, error) {
	var rows []struct {
		Jenis string
		Total float64
		Count int64
	}
	err := r.query(ctx, filter, false).
		Select("jaspel.jenis_jaspel AS jenis, COALESCE(SUM(jaspel.total), 0) AS total, COUNT(jaspel.id) AS count").
		Group("jaspel.jenis_jaspel").
		Order("jaspel.jenis_jaspel ASC").
		Scan(&rows).Error
	if err != nil {
		return nil, err
	}
	out := make([]entity.JenisAggregate, 0, len(rows))
	for _, row := range rows {
		out = append(out, entity.JenisAggregate{
			Jenis: entity.JaspelJenis(row.Jenis),
			Total: row.Total,
			Count: row.Count,
		})
	}
	return out, nil
}

func (r *JaspelRepositoryImpl) StatusBreakdown(ctx context.Context, userId uuid.UUID) (map[entity.JaspelStatus]int64, error) {
	var rows []struct {
		Status string
		Count  int64
	}
	err := r.db.WithContext(ctx).Model(&model.Jaspel{}).
		Select("status_validasi AS status, COUNT(*) AS count").
		Where("user_id = ?", userId).
		Group("status_validasi").
		Scan(&rows).Error
	if err != nil {
		return nil, err
	}
	out := map[entity.JaspelStatus]int64{
		entity.JaspelStatusApproved: 0,
		entity.JaspelStatusPending:  0,
		entity.JaspelStatusRejected: 0,
	}
	for _, row := range rows {
		out[entity.JaspelStatus(row.Status)] = row.Count
	}
	return out, nil
}

func (r *JaspelRepositoryImpl) AggregateByUser(ctx context.Context, filter entity.JaspelFilter) ([]entity.UserAggregate, error) {
	var rows []struct {
		UserId          uuid.UUID
		UserName        string
		RoleName        *string
		Total           float64
		Count           int64
		FirstValidation *time.Time
		LastValidation  *time.Time
	}
	err := r.query(ctx, filter, true).
		Select(`users.id AS user_id, users.name AS user_name, roles.name AS role_name,
			COALESCE(SUM(jaspel.total), 0) AS total, COUNT(jaspel.id) AS count,
			MIN(jaspel.validasi_at) AS first_validation, MAX(jaspel.validasi_at) AS last_validation`).
		Group("users.id, users.name, roles.name").
		Having("COUNT(jaspel.id) > 0").
		Order("total DESC, MIN(jaspel.created_at) ASC, users.id ASC").
		Scan(&rows).Error
	if err != nil {
		return nil, err
	}
	out := make([]entity.UserAggregate, 0, len(rows))
	for _, row := range rows {
		agg := entity.UserAggregate{
			UserId:          row.UserId,
			UserName:        row.UserName,
			Total:           row.Total,
			Count:           row.Count,
			FirstValidation: row.FirstValidation,
			LastValidation:  row.LastValidation,
		}
		if row.RoleName != nil {
			agg.RoleName = *row.RoleName
		}
		out = append(out, agg)
	}
	return out, nil
}

func (r *JaspelRepositoryImpl) AggregateByRole(ctx context.Context, filter entity.JaspelFilter) ([]entity.RoleAggregate, error) {
	var rows []roleAggregateRow
	err := r.query(ctx, filter, true).
		Select(`roles.name AS role_name, roles.display_name AS display_name,
			COALESCE(SUM(jaspel.total), 0) AS total, COUNT(jaspel.id) AS count,
			COUNT(DISTINCT users.id) AS user_count`).
		Group("roles.name, roles.display_name").
		Order("roles.name ASC").
		Scan(&rows).Error
	if err != nil {
		return nil, err
	}
	return toRoleAggregates(rows), nil
}

func (r *JaspelRepositoryImpl) AggregateByOriginatorRole(ctx context.Context) ([]entity.RoleAggregate, error) {
	var rows []roleAggregateRow
	err := r.db.WithContext(ctx).Model(&model.Jaspel{}).
		Scopes(scope.JoinJaspelOriginator).
		Select(`originator_roles.name AS role_name, originator_roles.display_name AS display_name,
			COALESCE(SUM(jaspel.total), 0) AS total, COUNT(jaspel.id) AS count,
			COUNT(DISTINCT originators.id) AS user_count`).
		Group("originator_roles.name, originator_roles.display_name").
		Order("count DESC").
		Scan(&rows).Error
	if err != nil {
		return nil, err
	}
	return toRoleAggregates(rows), nil
}

type roleAggregateRow struct {
	RoleName    *string
	DisplayName *string
	Total       float64
	Count       int64
	UserCount   int64
}

func toRoleAggregates(rows []roleAggregateRow) []entity.RoleAggregate {
	out := make([]entity.RoleAggregate, 0, len(rows))
	for _, row := range rows {
		agg := entity.RoleAggregate{
			Total:     row.Total,
			Count:     row.Count,
			UserCount: row.UserCount,
		}
		if row.RoleName != nil {
			agg.RoleName = *row.RoleName
		}
		if row.DisplayName != nil {
			agg.DisplayName = *row.DisplayName
		}
		out = append(out, agg)
	}
	return out
}

func (r *JaspelRepositoryImpl) DistinctUserIds(ctx context.Context, filter entity.JaspelFilter) ([]uuid.UUID, error) {
	var ids []uuid.UUID
	err := r.query(ctx, filter, false).
		Distinct("jaspel.user_id").
		Order("jaspel.user_id ASC").
		Pluck("jaspel.user_id", &ids).Error
	return ids, err
}

func (r *JaspelRepositoryImpl) UpdateStatus(ctx context.Context, ids []uuid.UUID, status entity.JaspelStatus, validatorId uuid.UUID, at time.Time) (int64, error) {
	if len(ids) == 0 {
		return 0, nil
	}
	res := r.db.WithContext(ctx).Model(&model.Jaspel{}).
		Where("id IN ?", ids).
		Where("status_validasi = ?", string(entity.JaspelStatusPending)).
		Updates(map[string]interface{}{
			"status_validasi": string(status),
			"validasi_by":     validatorId,
			"validasi_at":     at,
		})
	return res.RowsAffected, res.Error
}
