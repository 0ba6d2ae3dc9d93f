package model

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/datatypes"
)

type Asset struct {
	Id         uuid.UUID    `gorm:"type:uuid;primaryKey;default:gen_random_uuid()"`
	CategoryId uuid.UUID    `gorm:"type:uuid;not null;index"`
	VendorId   uuid.UUID    `gorm:"type:uuid;not null;index"`
	Name       string       `gorm:"type:varchar(255);not null"`
	CreatedAt  time.Time    `gorm:"autoCreateTime"`
	UpdatedAt  time.Time    `gorm:"autoUpdateTime"`
	Category   Category     `gorm:"foreignKey:CategoryId;constraint:OnDelete:RESTRICT"`
	Vendor     User         `gorm:"foreignKey:VendorId;constraint:OnDelete:RESTRICT"`
	Fields     []AssetField `gorm:"foreignKey:AssetId;constraint:OnDelete:CASCADE"`
}

func (Asset) TableName() string {
	return "assets"
}

type AssetField struct {
	Id          uuid.UUID      `gorm:"type:uuid;primaryKey;default:gen_random_uuid()"`
	AssetId     uuid.UUID      `gorm:"type:uuid;not null;index"`
	FormFieldId uuid.UUID      `gorm:"type:uuid;not null;index"`
	Value       datatypes.JSON `gorm:"type:jsonb;not null"`
	FormField   FormField      `gorm:"foreignKey:FormFieldId;constraint:OnDelete:RESTRICT"`
}

func (AssetField) TableName() string {
	return "asset_fields"
}
