package dto

import (
	"time"

	"github.com/google/uuid"
)

type FormFieldRequest struct {
	Name     string `json:"name"`
	Label    string `json:"label"`
	Type     string `json:"field_type"`
	Required bool   `json:"required"`
	Order    *int   `json:"order"`
}

type CreateCategoryRequest struct {
	Name   string             `json:"name" validate:"required,max=255"`
	Fields []FormFieldRequest `json:"fields"`
}

// UpdateCategoryRequest distinguishes an omitted fields key (schema left as
// is) from an empty list (every field pruned).
type UpdateCategoryRequest struct {
	Name   *string             `json:"name" validate:"omitempty,min=1,max=255"`
	Fields *[]FormFieldRequest `json:"fields"`
}

type FormFieldResponse struct {
	Id       uuid.UUID `json:"id"`
	Name     string    `json:"name"`
	Label    string    `json:"label"`
	Type     string    `json:"field_type"`
	Required bool      `json:"required"`
	Order    int       `json:"order"`
}

type CategoryResponse struct {
	Id        uuid.UUID           `json:"id"`
	Name      string              `json:"name"`
	Fields    []FormFieldResponse `json:"fields"`
	CreatedAt time.Time           `json:"created_at"`
	UpdatedAt time.Time           `json:"updated_at"`
}
