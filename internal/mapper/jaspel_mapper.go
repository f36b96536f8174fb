package mapper

import (
	"jaspel-be/internal/entity"
	"jaspel-be/internal/model"

	"gorm.io/gorm"
)

type JaspelMapper struct{}

func NewJaspelMapper() *JaspelMapper {
	return &JaspelMapper{}
}

func (m *JaspelMapper) ToEntity(j *model.Jaspel) *entity.Jaspel {
	if j == nil {
		return nil
	}
	e := &entity.Jaspel{
		Id:         j.Id,
		UserId:     j.UserId,
		Jenis:      entity.JaspelJenis(j.Jenis),
		Tanggal:    j.Tanggal,
		Nominal:    j.Nominal,
		Total:      j.Total,
		TindakanId: j.TindakanId,
		InputBy:    j.InputBy,
		Status:     entity.JaspelStatus(j.Status),
		ValidasiBy: j.ValidasiBy,
		ValidasiAt: j.ValidasiAt,
		Keterangan: j.Keterangan,
		CreatedAt:  j.CreatedAt,
		UpdatedAt:  j.UpdatedAt,
	}
	if j.DeletedAt.Valid {
		deletedAt := j.DeletedAt.Time
		e.DeletedAt = &deletedAt
	}
	return e
}

func (m *JaspelMapper) ToEntities(rows []*model.Jaspel) []*entity.Jaspel {
	out := make([]*entity.Jaspel, 0, len(rows))
	for _, r := range rows {
		out = append(out, m.ToEntity(r))
	}
	return out
}

func (m *JaspelMapper) ToModel(e *entity.Jaspel) *model.Jaspel {
	if e == nil {
		return nil
	}
	j := &model.Jaspel{
		Id:         e.Id,
		UserId:     e.UserId,
		Jenis:      string(e.Jenis),
		Tanggal:    e.Tanggal,
		Nominal:    e.Nominal,
		Total:      e.Total,
		TindakanId: e.TindakanId,
		InputBy:    e.InputBy,
		Status:     string(e.Status),
		ValidasiBy: e.ValidasiBy,
		ValidasiAt: e.ValidasiAt,
		Keterangan: e.Keterangan,
		CreatedAt:  e.CreatedAt,
		UpdatedAt:  e.UpdatedAt,
	}
	if e.DeletedAt != nil {
		j.DeletedAt = gorm.DeletedAt{Time: *e.DeletedAt, Valid: true}
	}
	return j
}
