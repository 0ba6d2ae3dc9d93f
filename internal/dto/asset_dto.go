package dto

import (
	"time"

	"github.com/google/uuid"
)

// AssetFieldInput is one submitted value. Value may be a JSON string or number.
type AssetFieldInput struct {
	Name  string      `json:"name"`
	Value interface{} `json:"value"`
}

type AssetRequest struct {
	Name     string            `json:"name" validate:"required,max=255"`
	Category string            `json:"category"`
	Fields   []AssetFieldInput `json:"fields"`
	VendorId *uuid.UUID        `json:"vendor_id"`
}

type AssetListFilter struct {
	Category string `query:"category"`
	Page     int    `query:"page"`
	Limit    int    `query:"limit"`
}

type AssetFieldResponse struct {
	Id         uuid.UUID   `json:"id"`
	FieldName  string      `json:"field_name"`
	FieldLabel string      `json:"field_label"`
	FieldType  string      `json:"field_type"`
	Value      interface{} `json:"value"`
}

type AssetResponse struct {
	Id         uuid.UUID            `json:"id"`
	Name       string               `json:"name"`
	Category   *CategoryResponse    `json:"category"`
	VendorId   uuid.UUID            `json:"vendor_id"`
	VendorName string               `json:"vendor_name"`
	Fields     []AssetFieldResponse `json:"fields"`
	CreatedAt  time.Time            `json:"created_at"`
	UpdatedAt  time.Time            `json:"updated_at"`
}

type AssetListResponse struct {
	Items []*AssetResponse `json:"items"`
	Total int64            `json:"total"`
	Page  int              `json:"page"`
	Limit int              `json:"limit"`
}
