package scope

import "gorm.io/gorm"

// OrderFields sorts form fields the way they are presented: by order, then name.
func OrderFields(db *gorm.DB) *gorm.DB {
	return db.Order("sort_order ASC").Order("name ASC")
}
