package entity

import (
	"time"

	"github.com/google/uuid"
)

// Tindakan is a medical procedure performed by a staff member.
type Tindakan struct {
	Id              uuid.UUID
	UserId          uuid.UUID
	JenisTindakan   string
	Tarif           float64
	TanggalTindakan time.Time
	InputBy         *uuid.UUID
	Status          JaspelStatus
	ValidasiBy      *uuid.UUID
	CreatedAt       time.Time
}

// JumlahPasienHarian is a per-day patient count with its derived compensation.
type JumlahPasienHarian struct {
	Id           uuid.UUID
	UserId       uuid.UUID
	Tanggal      time.Time
	JumlahPasien int
	JaspelRupiah float64
	InputBy      *uuid.UUID
	Status       JaspelStatus
	ValidasiBy   *uuid.UUID
	CreatedAt    time.Time
}
