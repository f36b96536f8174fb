package contract

import (
	"context"

	"jaspel-be/internal/entity"

	"github.com/google/uuid"
)

type UserRepository interface {
	// FindOne returns nil, nil when the user does not exist.
	FindOne(ctx context.Context, id uuid.UUID) (*entity.User, error)
	FindAll(ctx context.Context, filter entity.UserFilter) ([]*entity.User, error)
	ExistingIds(ctx context.Context, ids []uuid.UUID) ([]uuid.UUID, error)
}

type RoleRepository interface {
	FindOne(ctx context.Context, id uuid.UUID) (*entity.Role, error)
	FindAll(ctx context.Context) ([]*entity.Role, error)
}
