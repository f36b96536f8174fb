package model

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type Jaspel struct {
	Id         uuid.UUID      `gorm:"type:uuid;primaryKey;default:gen_random_uuid()"`
	UserId     uuid.UUID      `gorm:"type:uuid;not null;index"`
	Jenis      string         `gorm:"column:jenis_jaspel;type:varchar(50);not null;default:'other'"`
	Tanggal    time.Time      `gorm:"type:date;not null;index"`
	Nominal    float64        `gorm:"type:numeric(15,2);not null;default:0"`
	Total      float64        `gorm:"type:numeric(15,2);not null;default:0"`
	TindakanId *uuid.UUID     `gorm:"type:uuid;index"`
	InputBy    *uuid.UUID     `gorm:"type:uuid;index"`
	Status     string         `gorm:"column:status_validasi;type:varchar(20);not null;default:'pending';index"`
	ValidasiBy *uuid.UUID     `gorm:"type:uuid;index"`
	ValidasiAt *time.Time     `gorm:"index"`
	Keterangan string         `gorm:"type:text"`
	CreatedAt  time.Time      `gorm:"autoCreateTime"`
	UpdatedAt  time.Time      `gorm:"autoUpdateTime"`
	DeletedAt  gorm.DeletedAt `gorm:"index"`
}

func (Jaspel) TableName() string {
	return "jaspel"
}
