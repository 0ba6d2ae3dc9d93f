package entity

import (
	"fmt"
	"time"

	"github.com/google/uuid"
)

type FieldType string

const (
	FieldTypeText   FieldType = "text"
	FieldTypeNumber FieldType = "number"
	FieldTypeDate   FieldType = "date"
)

func ParseFieldType(s string) (FieldType, error) {
	switch FieldType(s) {
	case FieldTypeText, FieldTypeNumber, FieldTypeDate:
		return FieldType(s), nil
	}
	return "", fmt.Errorf("unknown field type %q", s)
}

type Category struct {
	Id        uuid.UUID
	Name      string
	Fields    []*FormField // current schema, ordered by Order
	CreatedAt time.Time
	UpdatedAt time.Time
}

// FormField is one schema entry. A retired field is no longer part of the
// category schema but still backs the asset values written against it.
type FormField struct {
	Id         uuid.UUID
	CategoryId uuid.UUID
	Name       string
	Label      string
	Type       FieldType
	Required   bool
	Order      int
	RetiredAt  *time.Time
}

func (f *FormField) IsRetired() bool {
	return f.RetiredAt != nil
}
