package implementation

import (
	"context"
	"fmt"

	"jaspel-be/internal/entity"
	"jaspel-be/internal/mapper"
	"jaspel-be/internal/repository/contract"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

var flowTables = map[entity.FlowRecordType]string{
	entity.FlowRecordPendapatan:  "pendapatan",
	entity.FlowRecordPengeluaran: "pengeluaran",
	entity.FlowRecordJaspel:      "jaspel",
	entity.FlowRecordTindakan:    "tindakan",
}

type FlowRepositoryImpl struct {
	db     *gorm.DB
	mapper *mapper.MedicalMapper
}

func NewFlowRepository(db *gorm.DB) contract.FlowRepository {
	return &FlowRepositoryImpl{
		db:     db,
		mapper: mapper.NewMedicalMapper(),
	}
}

func (r *FlowRepositoryImpl) table(ctx context.Context, recordType entity.FlowRecordType) (*gorm.DB, error) {
	name, ok := flowTables[recordType]
	if !ok {
		return nil, fmt.Errorf("unknown flow record type %q", recordType)
	}
	return r.db.WithContext(ctx).Table(name).Where(name + ".deleted_at IS NULL"), nil
}

func (r *FlowRepositoryImpl) countGrouped(ctx context.Context, recordType entity.FlowRecordType, column string, userIds []uuid.UUID) (map[uuid.UUID]int64, error) {
	out := make(map[uuid.UUID]int64, len(userIds))
	if len(userIds) == 0 {
		return out, nil
	}
	db, err := r.table(ctx, recordType)
	if err != nil {
		return nil, err
	}
	var rows []struct {
		UserId uuid.UUID
		Count  int64
	}
	err = db.Select(column+" AS user_id, COUNT(*) AS count").
		Where(column+" IN ?", userIds).
		Group(column).
		Scan(&rows).Error
	if err != nil {
		return nil, err
	}
	for _, row := range rows {
		out[row.UserId] = row.Count
	}
	return out, nil
}

func (r *FlowRepositoryImpl) CountByOriginators(ctx context.Context, recordType entity.FlowRecordType, userIds []uuid.UUID) (map[uuid.UUID]int64, error) {
	return r.countGrouped(ctx, recordType, "input_by", userIds)
}

func (r *FlowRepositoryImpl) CountByValidators(ctx context.Context, recordType entity.FlowRecordType, userIds []uuid.UUID) (map[uuid.UUID]int64, error) {
	return r.countGrouped(ctx, recordType, "validasi_by", userIds)
}

func (r *FlowRepositoryImpl) CountPending(ctx context.Context, recordType entity.FlowRecordType) (int64, error) {
	db, err := r.table(ctx, recordType)
	if err != nil {
		return 0, err
	}
	var count int64
	err = db.Where("status_validasi = ?", string(entity.JaspelStatusPending)).Count(&count).Error
	return count, err
}

func (r *FlowRepositoryImpl) CreatePendapatan(ctx context.Context, p *entity.Pendapatan) error {
	return r.db.WithContext(ctx).Create(r.mapper.PendapatanToModel(p)).Error
}

func (r *FlowRepositoryImpl) CreatePengeluaran(ctx context.Context, p *entity.Pengeluaran) error {
	return r.db.WithContext(ctx).Create(r.mapper.PengeluaranToModel(p)).Error
}
