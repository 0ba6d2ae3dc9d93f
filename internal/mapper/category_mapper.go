package mapper

import (
	"time"

	"asset-management-be/internal/entity"
	"asset-management-be/internal/model"
	"asset-management-be/pkg/fieldschema"

	"gorm.io/gorm"
)

type CategoryMapper struct{}

func NewCategoryMapper() *CategoryMapper {
	return &CategoryMapper{}
}

func (m *CategoryMapper) ToEntity(c *model.Category) *entity.Category {
	if c == nil {
		return nil
	}
	fields := make([]*entity.FormField, 0, len(c.Fields))
	for i := range c.Fields {
		fields = append(fields, m.FieldToEntity(&c.Fields[i]))
	}
	fieldschema.SortFields(fields)

	return &entity.Category{
		Id:        c.Id,
		Name:      c.Name,
		Fields:    fields,
		CreatedAt: c.CreatedAt,
		UpdatedAt: c.UpdatedAt,
	}
}

// ToModel maps the category row only; fields are written separately.
func (m *CategoryMapper) ToModel(c *entity.Category) *model.Category {
	if c == nil {
		return nil
	}
	return &model.Category{
		Id:        c.Id,
		Name:      c.Name,
		CreatedAt: c.CreatedAt,
		UpdatedAt: c.UpdatedAt,
	}
}

func (m *CategoryMapper) ToEntities(categories []*model.Category) []*entity.Category {
	entities := make([]*entity.Category, len(categories))
	for i, c := range categories {
		entities[i] = m.ToEntity(c)
	}
	return entities
}

func (m *CategoryMapper) FieldToEntity(f *model.FormField) *entity.FormField {
	if f == nil {
		return nil
	}
	var retiredAt *time.Time
	if f.DeletedAt.Valid {
		t := f.DeletedAt.Time
		retiredAt = &t
	}
	return &entity.FormField{
		Id:         f.Id,
		CategoryId: f.CategoryId,
		Name:       f.Name,
		Label:      f.Label,
		Type:       entity.FieldType(f.FieldType),
		Required:   f.Required,
		Order:      f.SortOrder,
		RetiredAt:  retiredAt,
	}
}

func (m *CategoryMapper) FieldToModel(f *entity.FormField) *model.FormField {
	if f == nil {
		return nil
	}
	var deletedAt gorm.DeletedAt
	if f.RetiredAt != nil {
		deletedAt = gorm.DeletedAt{Time: *f.RetiredAt, Valid: true}
	}
	return &model.FormField{
		Id:         f.Id,
		CategoryId: f.CategoryId,
		Name:       f.Name,
		Label:      f.Label,
		FieldType:  string(f.Type),
		Required:   f.Required,
		SortOrder:  f.Order,
		DeletedAt:  deletedAt,
	}
}
