package scope

import "gorm.io/gorm"

// ExcludeSoftDeletedJaspel is needed on Table("jaspel") queries, where the
// model-level soft delete scope does not apply.
func ExcludeSoftDeletedJaspel(db *gorm.DB) *gorm.DB {
	return db.Where("jaspel.deleted_at IS NULL")
}
