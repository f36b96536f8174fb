package implementation

import (
	"context"

	"jaspel-be/internal/entity"
	"jaspel-be/internal/mapper"
	"jaspel-be/internal/model"
	"jaspel-be/internal/repository/contract"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type TindakanRepositoryImpl struct {
	db *gorm.DB
}

func NewTindakanRepository(db *gorm.DB) contract.TindakanRepository {
	return &TindakanRepositoryImpl{db: db}
}

func (r *TindakanRepositoryImpl) CountByUser(ctx context.Context, userId uuid.UUID) (int64, error) {
	var count int64
	err := r.db.WithContext(ctx).Model(&model.Tindakan{}).
		Where("user_id = ?", userId).
		Count(&count).Error
	return count, err
}

type JumlahPasienRepositoryImpl struct {
	db     *gorm.DB
	mapper *mapper.MedicalMapper
}

func NewJumlahPasienRepository(db *gorm.DB) contract.JumlahPasienRepository {
	return &JumlahPasienRepositoryImpl{
		db:     db,
		mapper: mapper.NewMedicalMapper(),
	}
}

func (r *JumlahPasienRepositoryImpl) FindByUser(ctx context.Context, userId uuid.UUID) ([]*entity.JumlahPasienHarian, error) {
	var rows []*model.JumlahPasienHarian
	err := r.db.WithContext(ctx).
		Where("user_id = ?", userId).
		Order("tanggal ASC").
		Find(&rows).Error
	if err != nil {
		return nil, err
	}
	return r.mapper.JumlahPasienToEntities(rows), nil
}
