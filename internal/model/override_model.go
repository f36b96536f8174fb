package model

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/datatypes"
)

type JaspelOverride struct {
	Id         uuid.UUID  `gorm:"type:uuid;primaryKey;default:gen_random_uuid()"`
	UserId     uuid.UUID  `gorm:"type:uuid;not null;index"`
	FixedTotal float64    `gorm:"type:numeric(15,2);not null"`
	Reason     string     `gorm:"type:text;not null"`
	IsActive   bool       `gorm:"not null;default:true;index"`
	CreatedBy  *uuid.UUID `gorm:"type:uuid"`
	CreatedAt  time.Time  `gorm:"autoCreateTime"`
	UpdatedAt  time.Time  `gorm:"autoUpdateTime"`
}

func (JaspelOverride) TableName() string {
	return "jaspel_overrides"
}

type JaspelOverrideAudit struct {
	Id            uuid.UUID      `gorm:"type:uuid;primaryKey;default:gen_random_uuid()"`
	OverrideId    uuid.UUID      `gorm:"type:uuid;not null;index"`
	UserId        uuid.UUID      `gorm:"type:uuid;not null;index"`
	ComputedTotal float64        `gorm:"type:numeric(15,2);not null"`
	ReportedTotal float64        `gorm:"type:numeric(15,2);not null"`
	Operation     string         `gorm:"type:varchar(50);not null"`
	Context       datatypes.JSON `gorm:"type:jsonb"`
	AppliedAt     time.Time      `gorm:"not null;index"`
}

func (JaspelOverrideAudit) TableName() string {
	return "jaspel_override_audits"
}
