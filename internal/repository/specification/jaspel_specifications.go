package specification

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type JaspelOwnedBy struct {
	UserID uuid.UUID
}

func (s JaspelOwnedBy) Apply(db *gorm.DB) *gorm.DB {
	return db.Where("jaspel.user_id = ?", s.UserID)
}

type JaspelStatusIn struct {
	Statuses []string
}

func (s JaspelStatusIn) Apply(db *gorm.DB) *gorm.DB {
	return db.Where("jaspel.status_validasi IN ?", s.Statuses)
}

// TanggalBetween bounds jaspel.tanggal; either side may be nil.
type TanggalBetween struct {
	From *time.Time
	To   *time.Time
}

func (s TanggalBetween) Apply(db *gorm.DB) *gorm.DB {
	if s.From != nil {
		db = db.Where("jaspel.tanggal >= ?", *s.From)
	}
	if s.To != nil {
		db = db.Where("jaspel.tanggal <= ?", *s.To)
	}
	return db
}

// OwnerNameLike joins users and matches the owner name case-insensitively.
type OwnerNameLike struct {
	Query string
}

func (s OwnerNameLike) Apply(db *gorm.DB) *gorm.DB {
	return db.Where("users.name ILIKE ?", "%"+s.Query+"%")
}

// OwnerRoleIn requires users and roles to be joined by the caller.
type OwnerRoleIn struct {
	Names []string
}

func (s OwnerRoleIn) Apply(db *gorm.DB) *gorm.DB {
	return db.Where("roles.name IN ?", s.Names)
}

type InputByIn struct {
	IDs []uuid.UUID
}

func (s InputByIn) Apply(db *gorm.DB) *gorm.DB {
	return db.Where("jaspel.input_by IN ?", s.IDs)
}

// InputByNotIn also matches rows with no originator recorded.
type InputByNotIn struct {
	IDs []uuid.UUID
}

func (s InputByNotIn) Apply(db *gorm.DB) *gorm.DB {
	if len(s.IDs) == 0 {
		return db
	}
	return db.Where("(jaspel.input_by IS NULL OR jaspel.input_by NOT IN ?)", s.IDs)
}

type ValidatedByIn struct {
	IDs []uuid.UUID
}

func (s ValidatedByIn) Apply(db *gorm.DB) *gorm.DB {
	return db.Where("jaspel.validasi_by IN ?", s.IDs)
}

// ValidatedByNotIn also matches rows with no validator recorded.
type ValidatedByNotIn struct {
	IDs []uuid.UUID
}

func (s ValidatedByNotIn) Apply(db *gorm.DB) *gorm.DB {
	if len(s.IDs) == 0 {
		return db
	}
	return db.Where("(jaspel.validasi_by IS NULL OR jaspel.validasi_by NOT IN ?)", s.IDs)
}

type LinkedToTindakan struct {
	Linked bool
}

func (s LinkedToTindakan) Apply(db *gorm.DB) *gorm.DB {
	if s.Linked {
		return db.Where("jaspel.tindakan_id IS NOT NULL")
	}
	return db.Where("jaspel.tindakan_id IS NULL")
}
