package model

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type Pendapatan struct {
	Id         uuid.UUID      `gorm:"type:uuid;primaryKey;default:gen_random_uuid()"`
	Nama       string         `gorm:"type:varchar(255);not null"`
	Nominal    float64        `gorm:"type:numeric(15,2);not null;default:0"`
	Tanggal    time.Time      `gorm:"type:date;not null"`
	InputBy    uuid.UUID      `gorm:"type:uuid;not null;index"`
	Status     string         `gorm:"column:status_validasi;type:varchar(20);not null;default:'pending'"`
	ValidasiBy *uuid.UUID     `gorm:"type:uuid;index"`
	CreatedAt  time.Time      `gorm:"autoCreateTime"`
	UpdatedAt  time.Time      `gorm:"autoUpdateTime"`
	DeletedAt  gorm.DeletedAt `gorm:"index"`
}

func (Pendapatan) TableName() string {
	return "pendapatan"
}

type Pengeluaran struct {
	Id         uuid.UUID      `gorm:"type:uuid;primaryKey;default:gen_random_uuid()"`
	Nama       string         `gorm:"type:varchar(255);not null"`
	Nominal    float64        `gorm:"type:numeric(15,2);not null;default:0"`
	Tanggal    time.Time      `gorm:"type:date;not null"`
	InputBy    uuid.UUID      `gorm:"type:uuid;not null;index"`
	Status     string         `gorm:"column:status_validasi;type:varchar(20);not null;default:'pending'"`
	ValidasiBy *uuid.UUID     `gorm:"type:uuid;index"`
	CreatedAt  time.Time      `gorm:"autoCreateTime"`
	UpdatedAt  time.Time      `gorm:"autoUpdateTime"`
	DeletedAt  gorm.DeletedAt `gorm:"index"`
}

func (Pengeluaran) TableName() string {
	return "pengeluaran"
}
