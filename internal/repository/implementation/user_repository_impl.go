package implementation

import (
	"context"
	"errors"

	"jaspel-be/internal/entity"
	"jaspel-be/internal/mapper"
	"jaspel-be/internal/model"
	"jaspel-be/internal/repository/contract"
	"jaspel-be/internal/repository/specification"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type UserRepositoryImpl struct {
	db     *gorm.DB
	mapper *mapper.UserMapper
}

func NewUserRepository(db *gorm.DB) contract.UserRepository {
	return &UserRepositoryImpl{
		db:     db,
		mapper: mapper.NewUserMapper(),
	}
}

func (r *UserRepositoryImpl) FindOne(ctx context.Context, id uuid.UUID) (*entity.User, error) {
	var m model.User
	query := specification.Apply(r.db.WithContext(ctx),
		specification.PreloadRole{},
		specification.ByID{Table: "users", ID: id},
	)
	if err := query.First(&m).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return r.mapper.ToEntity(&m), nil
}

func (r *UserRepositoryImpl) FindAll(ctx context.Context, filter entity.UserFilter) ([]*entity.User, error) {
	specs := []specification.Specification{specification.PreloadRole{}}
	if len(filter.Ids) > 0 {
		specs = append(specs, specification.ByIDs{Table: "users", IDs: filter.Ids})
	}
	if len(filter.RoleNames) > 0 {
		specs = append(specs, specification.WithRoleNames{Names: filter.RoleNames})
	}
	if filter.ActiveOnly {
		specs = append(specs, specification.ActiveUsers{})
	}
	specs = append(specs, specification.OrderBy{Field: "users.name"})

	var rows []*model.User
	query := specification.Apply(r.db.WithContext(ctx).Model(&model.User{}).Select("users.*"), specs...)
	if err := query.Find(&rows).Error; err != nil {
		return nil, err
	}
	return r.mapper.ToEntities(rows), nil
}

func (r *UserRepositoryImpl) ExistingIds(ctx context.Context, ids []uuid.UUID) ([]uuid.UUID, error) {
	if len(ids) == 0 {
		return []uuid.UUID{}, nil
	}
	var found []uuid.UUID
	err := r.db.WithContext(ctx).Model(&model.User{}).
		Where("id IN ?", ids).
		Pluck("id", &found).Error
	return found, err
}

type RoleRepositoryImpl struct {
	db     *gorm.DB
	mapper *mapper.UserMapper
}

func NewRoleRepository(db *gorm.DB) contract.RoleRepository {
	return &RoleRepositoryImpl{
		db:     db,
		mapper: mapper.NewUserMapper(),
	}
}

func (r *RoleRepositoryImpl) FindOne(ctx context.Context, id uuid.UUID) (*entity.Role, error) {
	var m model.Role
	if err := r.db.WithContext(ctx).Where("id = ?", id).First(&m).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return r.mapper.RoleToEntity(&m), nil
}

func (r *RoleRepositoryImpl) FindAll(ctx context.Context) ([]*entity.Role, error) {
	var rows []*model.Role
	if err := r.db.WithContext(ctx).Order("name ASC").Find(&rows).Error; err != nil {
		return nil, err
	}
	return r.mapper.RolesToEntities(rows), nil
}
