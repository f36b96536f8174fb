package entity

import (
	"time"

	"github.com/google/uuid"
)

type JaspelStatus string
type JaspelJenis string

const (
	JaspelStatusPending  JaspelStatus = "pending"
	JaspelStatusApproved JaspelStatus = "approved"
	JaspelStatusRejected JaspelStatus = "rejected"

	JaspelJenisProcedure JaspelJenis = "procedure"
	JaspelJenisShift     JaspelJenis = "shift"
	JaspelJenisOther     JaspelJenis = "other"
)

// Jaspel is one disbursement-eligible compensation entry.
type Jaspel struct {
	Id           uuid.UUID
	UserId       uuid.UUID
	Jenis        JaspelJenis
	Tanggal      time.Time
	Nominal      float64
	Total        float64
	TindakanId   *uuid.UUID
	InputBy      *uuid.UUID
	Status       JaspelStatus
	ValidasiBy   *uuid.UUID
	ValidasiAt   *time.Time
	Keterangan   string
	CreatedAt    time.Time
	UpdatedAt    time.Time
	DeletedAt    *time.Time
	UserName     string // populated by joined reads only
	UserRoleName string
}

// JaspelFilter is the query contract between services and the jaspel
// repository. Zero values mean "no constraint".
type JaspelFilter struct {
	UserId           *uuid.UUID
	Ids              []uuid.UUID
	Statuses         []JaspelStatus
	DateFrom         *time.Time
	DateTo           *time.Time
	Search           string
	RoleNames        []string
	InputByIn        []uuid.UUID
	InputByNotIn     []uuid.UUID
	ValidatedByIn    []uuid.UUID
	ValidatedByNotIn []uuid.UUID
	LinkedToTindakan *bool
}

// Approved returns a copy of the filter restricted to approved entries.
func (f JaspelFilter) Approved() JaspelFilter {
	f.Statuses = []JaspelStatus{JaspelStatusApproved}
	return f
}

// ForUser returns a copy of the filter restricted to one owner.
func (f JaspelFilter) ForUser(userId uuid.UUID) JaspelFilter {
	id := userId
	f.UserId = &id
	return f
}

// UserAggregate is one row of a per-user aggregation.
type UserAggregate struct {
	UserId          uuid.UUID
	UserName        string
	RoleName        string
	Total           float64
	Count           int64
	FirstValidation *time.Time
	LastValidation  *time.Time
}

// RoleAggregate is one row of a per-role aggregation.
type RoleAggregate struct {
	RoleName    string
	DisplayName string
	Total       float64
	Count       int64
	UserCount   int64
}

// JenisAggregate is one row of a per-source-type aggregation.
type JenisAggregate struct {
	Jenis JaspelJenis
	Total float64
	Count int64
}
