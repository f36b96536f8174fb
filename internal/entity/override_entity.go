package entity

import (
	"time"

	"github.com/google/uuid"
)

// JaspelOverride replaces the computed total of one user with a fixed,
// audited amount. Exceptions live here as data, never in code.
type JaspelOverride struct {
	Id         uuid.UUID
	UserId     uuid.UUID
	FixedTotal float64
	Reason     string
	IsActive   bool
	CreatedBy  *uuid.UUID
	CreatedAt  time.Time
}

type JaspelOverrideAudit struct {
	Id            uuid.UUID
	OverrideId    uuid.UUID
	UserId        uuid.UUID
	ComputedTotal float64
	ReportedTotal float64
	Operation     string
	Context       map[string]interface{}
	AppliedAt     time.Time
}
