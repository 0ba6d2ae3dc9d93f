package scope

import "gorm.io/gorm"

// WithRetired includes retired (soft-deleted) form fields.
func WithRetired(db *gorm.DB) *gorm.DB {
	return db.Unscoped()
}
