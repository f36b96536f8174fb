package scope

import "gorm.io/gorm"

func OrderByCreatedDesc(db *gorm.DB) *gorm.DB {
	return db.Order("created_at DESC")
}

// JoinJaspelOwner joins the owning user and its role onto a jaspel query.
// Soft-deleted owners are excluded.
func JoinJaspelOwner(db *gorm.DB) *gorm.DB {
	return db.Joins("JOIN users ON users.id = jaspel.user_id AND users.deleted_at IS NULL").
		Joins("LEFT JOIN roles ON roles.id = users.role_id")
}

// JoinJaspelOriginator joins the user who entered the record and its role.
func JoinJaspelOriginator(db *gorm.DB) *gorm.DB {
	return db.Joins("LEFT JOIN users AS originators ON originators.id = jaspel.input_by").
		Joins("LEFT JOIN roles AS originator_roles ON originator_roles.id = originators.role_id")
}
