package contract

import (
	"context"
	"time"

	"jaspel-be/internal/entity"

	"github.com/google/uuid"
)

type JaspelRepository interface {
	Create(ctx context.Context, jaspel *entity.Jaspel) error
	FindOne(ctx context.Context, id uuid.UUID) (*entity.Jaspel, error)
	FindAll(ctx context.Context, filter entity.JaspelFilter) ([]*entity.Jaspel, error)
	Count(ctx context.Context, filter entity.JaspelFilter) (int64, error)

	// Calculation strategies. Each must stay structurally independent of the
	// others so CompareCalculationMethods can detect drift between them.
	SumTotal(ctx context.Context, filter entity.JaspelFilter) (float64, error)
	SumTotalJoined(ctx context.Context, userId uuid.UUID) (float64, error)
	SumByJenis(ctx context.Context, filter entity.JaspelFilter) ([]entity.JenisAggregate, error)

	StatusBreakdown(ctx context.Context, userId uuid.UUID) (map[entity.JaspelStatus]int64, error)
	AggregateByUser(ctx context.Context, filter entity.JaspelFilter) ([]entity.UserAggregate, error)
	AggregateByRole(ctx context.Context, filter entity.JaspelFilter) ([]entity.RoleAggregate, error)
	AggregateByOriginatorRole(ctx context.Context) ([]entity.RoleAggregate, error)
	DistinctUserIds(ctx context.Context, filter entity.JaspelFilter) ([]uuid.UUID, error)

	// UpdateStatus moves pending entries to status. Entries that already left
	// pending are not touched; the number of rows changed is returned.
	UpdateStatus(ctx context.Context, ids []uuid.UUID, status entity.JaspelStatus, validatorId uuid.UUID, at time.Time) (int64, error)
}
