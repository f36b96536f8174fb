package model

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type Tindakan struct {
	Id              uuid.UUID      `gorm:"type:uuid;primaryKey;default:gen_random_uuid()"`
	UserId          uuid.UUID      `gorm:"type:uuid;not null;index"`
	JenisTindakan   string         `gorm:"type:varchar(255)"`
	Tarif           float64        `gorm:"type:numeric(15,2);not null;default:0"`
	TanggalTindakan time.Time      `gorm:"not null;index"`
	InputBy         *uuid.UUID     `gorm:"type:uuid;index"`
	Status          string         `gorm:"column:status_validasi;type:varchar(20);not null;default:'pending'"`
	ValidasiBy      *uuid.UUID     `gorm:"type:uuid;index"`
	CreatedAt       time.Time      `gorm:"autoCreateTime"`
	UpdatedAt       time.Time      `gorm:"autoUpdateTime"`
	DeletedAt       gorm.DeletedAt `gorm:"index"`
}

func (Tindakan) TableName() string {
	return "tindakan"
}

type JumlahPasienHarian struct {
	Id           uuid.UUID      `gorm:"type:uuid;primaryKey;default:gen_random_uuid()"`
	UserId       uuid.UUID      `gorm:"type:uuid;not null;index"`
	Tanggal      time.Time      `gorm:"type:date;not null;index"`
	JumlahPasien int            `gorm:"not null;default:0"`
	JaspelRupiah float64        `gorm:"type:numeric(15,2);not null;default:0"`
	InputBy      *uuid.UUID     `gorm:"type:uuid;index"`
	Status       string         `gorm:"column:status_validasi;type:varchar(20);not null;default:'pending'"`
	ValidasiBy   *uuid.UUID     `gorm:"type:uuid;index"`
	CreatedAt    time.Time      `gorm:"autoCreateTime"`
	UpdatedAt    time.Time      `gorm:"autoUpdateTime"`
	DeletedAt    gorm.DeletedAt `gorm:"index"`
}

func (JumlahPasienHarian) TableName() string {
	return "jumlah_pasien_harian"
}
