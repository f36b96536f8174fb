package contract

import (
	"context"

	"jaspel-be/internal/entity"

	"github.com/google/uuid"
)

type OverrideRepository interface {
	Create(ctx context.Context, override *entity.JaspelOverride) error
	FindActiveByUsers(ctx context.Context, userIds []uuid.UUID) (map[uuid.UUID]*entity.JaspelOverride, error)
	CreateAudit(ctx context.Context, audit *entity.JaspelOverrideAudit) error
}
