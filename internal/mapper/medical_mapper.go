package mapper

import (
	"jaspel-be/internal/entity"
	"jaspel-be/internal/model"
)

type MedicalMapper struct{}

func NewMedicalMapper() *MedicalMapper {
	return &MedicalMapper{}
}

func (m *MedicalMapper) TindakanToEntity(t *model.Tindakan) *entity.Tindakan {
	if t == nil {
		return nil
	}
	return &entity.Tindakan{
		Id:              t.Id,
		UserId:          t.UserId,
		JenisTindakan:   t.JenisTindakan,
		Tarif:           t.Tarif,
		TanggalTindakan: t.TanggalTindakan,
		InputBy:         t.InputBy,
		Status:          entity.JaspelStatus(t.Status),
		ValidasiBy:      t.ValidasiBy,
		CreatedAt:       t.CreatedAt,
	}
}

func (m *MedicalMapper) JumlahPasienToEntity(j *model.JumlahPasienHarian) *entity.JumlahPasienHarian {
	if j == nil {
		return nil
	}
	return &entity.JumlahPasienHarian{
		Id:           j.Id,
		UserId:       j.UserId,
		Tanggal:      j.Tanggal,
		JumlahPasien: j.JumlahPasien,
		JaspelRupiah: j.JaspelRupiah,
		InputBy:      j.InputBy,
		Status:       entity.JaspelStatus(j.Status),
		ValidasiBy:   j.ValidasiBy,
		CreatedAt:    j.CreatedAt,
	}
}

func (m *MedicalMapper) JumlahPasienToEntities(rows []*model.JumlahPasienHarian) []*entity.JumlahPasienHarian {
	out := make([]*entity.JumlahPasienHarian, 0, len(rows))
	for _, r := range rows {
		out = append(out, m.JumlahPasienToEntity(r))
	}
	return out
}

func (m *MedicalMapper) PendapatanToModel(p *entity.Pendapatan) *model.Pendapatan {
	return &model.Pendapatan{
		Id:         p.Id,
		Nama:       p.Nama,
		Nominal:    p.Nominal,
		Tanggal:    p.Tanggal,
		InputBy:    p.InputBy,
		Status:     string(p.Status),
		ValidasiBy: p.ValidasiBy,
		CreatedAt:  p.CreatedAt,
	}
}

func (m *MedicalMapper) PengeluaranToModel(p *entity.Pengeluaran) *model.Pengeluaran {
	return &model.Pengeluaran{
		Id:         p.Id,
		Nama:       p.Nama,
		Nominal:    p.Nominal,
		Tanggal:    p.Tanggal,
		InputBy:    p.InputBy,
		Status:     string(p.Status),
		ValidasiBy: p.ValidasiBy,
		CreatedAt:  p.CreatedAt,
	}
}
