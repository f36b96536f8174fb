package specification

import (
	"gorm.io/gorm"
)

// ActiveUsers keeps users flagged active.
type ActiveUsers struct{}

func (s ActiveUsers) Apply(db *gorm.DB) *gorm.DB {
	return db.Where("users.is_active = ?", true)
}

// WithRoleNames joins roles and keeps users whose role is one of Names.
type WithRoleNames struct {
	Names []string
}

func (s WithRoleNames) Apply(db *gorm.DB) *gorm.DB {
	return db.Joins("JOIN roles ON roles.id = users.role_id").
		Where("roles.name IN ?", s.Names)
}

// PreloadRole eager-loads the user's role.
type PreloadRole struct{}

func (s PreloadRole) Apply(db *gorm.DB) *gorm.DB {
	return db.Preload("Role")
}
