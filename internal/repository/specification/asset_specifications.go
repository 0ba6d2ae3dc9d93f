package specification

import (
	"github.com/google/uuid"
	"gorm.io/gorm"
)

// OwnedByVendor restricts assets to a single vendor
type OwnedByVendor struct {
	VendorID uuid.UUID
}

func (s OwnedByVendor) Apply(db *gorm.DB) *gorm.DB {
	return db.Where("assets.vendor_id = ?", s.VendorID)
}
