package model

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type Category struct {
	Id        uuid.UUID   `gorm:"type:uuid;primaryKey;default:gen_random_uuid()"`
	Name      string      `gorm:"type:varchar(255);not null"`
	Fields    []FormField `gorm:"foreignKey:CategoryId;constraint:OnDelete:CASCADE"`
	CreatedAt time.Time   `gorm:"autoCreateTime"`
	UpdatedAt time.Time   `gorm:"autoUpdateTime"`
}

func (Category) TableName() string {
	return "categories"
}

// FormField rows with DeletedAt set are retired schema entries.
type FormField struct {
	Id         uuid.UUID      `gorm:"type:uuid;primaryKey;default:gen_random_uuid()"`
	CategoryId uuid.UUID      `gorm:"type:uuid;not null;index"`
	Name       string         `gorm:"type:varchar(255);not null"`
	Label      string         `gorm:"type:varchar(255);not null"`
	FieldType  string         `gorm:"type:varchar(10);not null"`
	Required   bool           `gorm:"not null;default:false"`
	SortOrder  int            `gorm:"not null;default:0"`
	DeletedAt  gorm.DeletedAt `gorm:"index"`
}

func (FormField) TableName() string {
	return "form_fields"
}
