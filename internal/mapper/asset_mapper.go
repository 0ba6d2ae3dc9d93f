package mapper

import (
	"encoding/json"
	"fmt"
	"sort"

	"asset-management-be/internal/entity"
	"asset-management-be/internal/model"

	"github.com/google/uuid"
	"gorm.io/datatypes"
)

type AssetMapper struct {
	categories *CategoryMapper
	users      *UserMapper
}

func NewAssetMapper() *AssetMapper {
	return &AssetMapper{
		categories: NewCategoryMapper(),
		users:      NewUserMapper(),
	}
}

func (m *AssetMapper) ToEntity(a *model.Asset) *entity.Asset {
	if a == nil {
		return nil
	}
	asset := &entity.Asset{
		Id:         a.Id,
		CategoryId: a.CategoryId,
		VendorId:   a.VendorId,
		Name:       a.Name,
		CreatedAt:  a.CreatedAt,
		UpdatedAt:  a.UpdatedAt,
		Fields:     make([]*entity.AssetField, 0, len(a.Fields)),
	}
	// Associations are only present when preloaded
	if a.Category.Id != uuid.Nil {
		asset.Category = m.categories.ToEntity(&a.Category)
	}
	if a.Vendor.Id != uuid.Nil {
		asset.Vendor = m.users.ToEntity(&a.Vendor)
	}
	for i := range a.Fields {
		asset.Fields = append(asset.Fields, m.FieldToEntity(&a.Fields[i]))
	}
	sort.SliceStable(asset.Fields, func(i, j int) bool {
		fi, fj := asset.Fields[i].FormField, asset.Fields[j].FormField
		if fi == nil || fj == nil {
			return false
		}
		if fi.Order != fj.Order {
			return fi.Order < fj.Order
		}
		return fi.Name < fj.Name
	})
	return asset
}

// ToModel maps the asset row only; fields are written separately.
func (m *AssetMapper) ToModel(a *entity.Asset) *model.Asset {
	if a == nil {
		return nil
	}
	return &model.Asset{
		Id:         a.Id,
		CategoryId: a.CategoryId,
		VendorId:   a.VendorId,
		Name:       a.Name,
		CreatedAt:  a.CreatedAt,
		UpdatedAt:  a.UpdatedAt,
	}
}

func (m *AssetMapper) ToEntities(assets []*model.Asset) []*entity.Asset {
	entities := make([]*entity.Asset, len(assets))
	for i, a := range assets {
		entities[i] = m.ToEntity(a)
	}
	return entities
}

func (m *AssetMapper) FieldToEntity(f *model.AssetField) *entity.AssetField {
	field := &entity.AssetField{
		Id:          f.Id,
		AssetId:     f.AssetId,
		FormFieldId: f.FormFieldId,
		Value:       decodeValue(f.Value),
	}
	if f.FormField.Id != uuid.Nil {
		field.FormField = m.categories.FieldToEntity(&f.FormField)
	}
	return field
}

func (m *AssetMapper) FieldToModel(f *entity.AssetField) (*model.AssetField, error) {
	raw, err := json.Marshal(f.Value)
	if err != nil {
		return nil, fmt.Errorf("encode value of asset field %s: %w", f.Id, err)
	}
	return &model.AssetField{
		Id:          f.Id,
		AssetId:     f.AssetId,
		FormFieldId: f.FormFieldId,
		Value:       datatypes.JSON(raw),
	}, nil
}

// decodeValue reads a stored payload. Payloads that are not a typed value
// (plain JSON strings or numbers) are surfaced as text.
func decodeValue(raw datatypes.JSON) entity.FieldValue {
	var v entity.FieldValue
	if err := json.Unmarshal(raw, &v); err == nil {
		return v
	}
	var s string
	if err := json.Unmarshal(raw, &s); err == nil {
		return entity.TextValue(s)
	}
	return entity.TextValue(string(raw))
}
