package contract

import (
	"context"

	"jaspel-be/internal/entity"

	"github.com/google/uuid"
)

// FlowRepository answers workflow questions uniformly across the record
// types that carry input_by / validasi_by / status_validasi columns.
type FlowRepository interface {
	CountByOriginators(ctx context.Context, recordType entity.FlowRecordType, userIds []uuid.UUID) (map[uuid.UUID]int64, error)
	CountByValidators(ctx context.Context, recordType entity.FlowRecordType, userIds []uuid.UUID) (map[uuid.UUID]int64, error)
	CountPending(ctx context.Context, recordType entity.FlowRecordType) (int64, error)

	CreatePendapatan(ctx context.Context, p *entity.Pendapatan) error
	CreatePengeluaran(ctx context.Context, p *entity.Pengeluaran) error
}
