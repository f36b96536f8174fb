package implementation

import (
	"context"

	"jaspel-be/internal/entity"
	"jaspel-be/internal/mapper"
	"jaspel-be/internal/model"
	"jaspel-be/internal/repository/contract"
	"jaspel-be/internal/repository/scope"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type OverrideRepositoryImpl struct {
	db     *gorm.DB
	mapper *mapper.OverrideMapper
}

func NewOverrideRepository(db *gorm.DB) contract.OverrideRepository {
	return &OverrideRepositoryImpl{
		db:     db,
		mapper: mapper.NewOverrideMapper(),
	}
}

func (r *OverrideRepositoryImpl) Create(ctx context.Context, override *entity.JaspelOverride) error {
	m := r.mapper.ToModel(override)
	if err := r.db.WithContext(ctx).Create(m).Error; err != nil {
		return err
	}
	*override = *r.mapper.ToEntity(m)
	return nil
}

// FindActiveByUsers returns the newest active override per user.
func (r *OverrideRepositoryImpl) FindActiveByUsers(ctx context.Context, userIds []uuid.UUID) (map[uuid.UUID]*entity.JaspelOverride, error) {
	out := make(map[uuid.UUID]*entity.JaspelOverride)
	if len(userIds) == 0 {
		return out, nil
	}
	var rows []*model.JaspelOverride
	err := r.db.WithContext(ctx).
		Where("user_id IN ?", userIds).
		Where("is_active = ?", true).
		Scopes(scope.OrderByCreatedDesc).
		Find(&rows).Error
	if err != nil {
		return nil, err
	}
	for _, row := range rows {
		if _, seen := out[row.UserId]; seen {
			continue
		}
		out[row.UserId] = r.mapper.ToEntity(row)
	}
	return out, nil
}

func (r *OverrideRepositoryImpl) CreateAudit(ctx context.Context, audit *entity.JaspelOverrideAudit) error {
	m, err := r.mapper.AuditToModel(audit)
	if err != nil {
		return err
	}
	return r.db.WithContext(ctx).Create(m).Error
}
