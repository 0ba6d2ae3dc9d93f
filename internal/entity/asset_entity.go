package entity

import (
	"time"

	"github.com/google/uuid"
)

type Asset struct {
	Id         uuid.UUID
	CategoryId uuid.UUID
	VendorId   uuid.UUID
	Name       string
	CreatedAt  time.Time
	UpdatedAt  time.Time

	// Loaded on reads only
	Category *Category
	Vendor   *User
	Fields   []*AssetField
}

type AssetField struct {
	Id          uuid.UUID
	AssetId     uuid.UUID
	FormFieldId uuid.UUID
	Value       FieldValue

	FormField *FormField // Loaded on reads, retired fields included
}
