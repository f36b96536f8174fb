package entity

import (
	"time"

	"github.com/google/uuid"
)

// FlowRecordType names the record kinds that travel through the
// petugas-input / bendahara-validation workflow.
type FlowRecordType string

const (
	FlowRecordPendapatan  FlowRecordType = "pendapatan"
	FlowRecordPengeluaran FlowRecordType = "pengeluaran"
	FlowRecordJaspel      FlowRecordType = "jaspel"
	FlowRecordTindakan    FlowRecordType = "tindakan"
)

// FlowRecordTypes lists every workflow record type in reporting order.
func FlowRecordTypes() []FlowRecordType {
	return []FlowRecordType{FlowRecordPendapatan, FlowRecordPengeluaran, FlowRecordJaspel, FlowRecordTindakan}
}

type Pendapatan struct {
	Id         uuid.UUID
	Nama       string
	Nominal    float64
	Tanggal    time.Time
	InputBy    uuid.UUID
	Status     JaspelStatus
	ValidasiBy *uuid.UUID
	CreatedAt  time.Time
}

type Pengeluaran struct {
	Id         uuid.UUID
	Nama       string
	Nominal    float64
	Tanggal    time.Time
	InputBy    uuid.UUID
	Status     JaspelStatus
	ValidasiBy *uuid.UUID
	CreatedAt  time.Time
}
