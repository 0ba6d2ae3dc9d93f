package implementation

import (
	"context"
	"errors"

	"asset-management-be/internal/entity"
	"asset-management-be/internal/mapper"
	"asset-management-be/internal/model"
	"asset-management-be/internal/repository/contract"
	"asset-management-be/internal/repository/scope"
	"asset-management-be/internal/repository/specification"

	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type CategoryRepositoryImpl struct {
	db     *gorm.DB
	mapper *mapper.CategoryMapper
}

func NewCategoryRepository(db *gorm.DB) contract.CategoryRepository {
	return &CategoryRepositoryImpl{
		db:     db,
		mapper: mapper.NewCategoryMapper(),
	}
}

func (r *CategoryRepositoryImpl) applySpecifications(db *gorm.DB, specs ...specification.Specification) *gorm.DB {
	for _, spec := range specs {
		db = spec.Apply(db)
	}
	return db
}

func (r *CategoryRepositoryImpl) Create(ctx context.Context, category *entity.Category) error {
	if category.Id == uuid.Nil {
		category.Id = uuid.New()
	}
	m := r.mapper.ToModel(category)
	if err := r.db.WithContext(ctx).Omit(clause.Associations).Create(m).Error; err != nil {
		return translateError(err, "category")
	}
	category.CreatedAt = m.CreatedAt
	category.UpdatedAt = m.UpdatedAt

	for _, field := range category.Fields {
		field.CategoryId = category.Id
		if err := r.CreateField(ctx, field); err != nil {
			return err
		}
	}
	return nil
}

func (r *CategoryRepositoryImpl) Update(ctx context.Context, category *entity.Category) error {
	m := r.mapper.ToModel(category)
	if err := r.db.WithContext(ctx).Omit(clause.Associations).Save(m).Error; err != nil {
		return translateError(err, "category")
	}
	category.UpdatedAt = m.UpdatedAt
	return nil
}

func (r *CategoryRepositoryImpl) Delete(ctx context.Context, id uuid.UUID) error {
	err := r.db.WithContext(ctx).Where("id = ?", id).Delete(&model.Category{}).Error
	return translateError(err, "category")
}

func (r *CategoryRepositoryImpl) FindOne(ctx context.Context, specs ...specification.Specification) (*entity.Category, error) {
	var m model.Category
	query := r.applySpecifications(r.db.WithContext(ctx).Preload("Fields", scope.OrderFields), specs...)
	if err := query.First(&m).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return r.mapper.ToEntity(&m), nil
}

func (r *CategoryRepositoryImpl) FindAll(ctx context.Context, specs ...specification.Specification) ([]*entity.Category, error) {
	var models []*model.Category
	query := r.applySpecifications(r.db.WithContext(ctx).Preload("Fields", scope.OrderFields), specs...)
	if err := query.Find(&models).Error; err != nil {
		return nil, err
	}
	return r.mapper.ToEntities(models), nil
}

func (r *CategoryRepositoryImpl) Count(ctx context.Context, specs ...specification.Specification) (int64, error) {
	var count int64
	query := r.applySpecifications(r.db.WithContext(ctx).Model(&model.Category{}), specs...)
	if err := query.Count(&count).Error; err != nil {
		return 0, err
	}
	return count, nil
}

func (r *CategoryRepositoryImpl) CreateField(ctx context.Context, field *entity.FormField) error {
	if field.Id == uuid.Nil {
		field.Id = uuid.New()
	}
	m := r.mapper.FieldToModel(field)
	if err := r.db.WithContext(ctx).Omit(clause.Associations).Create(m).Error; err != nil {
		return translateError(err, "field "+field.Name)
	}
	return nil
}

// UpdateField writes every mutable column, zero values included.
func (r *CategoryRepositoryImpl) UpdateField(ctx context.Context, field *entity.FormField) error {
	err := r.db.WithContext(ctx).Model(&model.FormField{}).
		Where("id = ?", field.Id).
		Updates(map[string]interface{}{
			"name":       field.Name,
			"label":      field.Label,
			"field_type": string(field.Type),
			"required":   field.Required,
			"sort_order": field.Order,
		}).Error
	return translateError(err, "field "+field.Name)
}

func (r *CategoryRepositoryImpl) DeleteField(ctx context.Context, id uuid.UUID) error {
	err := r.db.WithContext(ctx).Unscoped().Where("id = ?", id).Delete(&model.FormField{}).Error
	return translateError(err, "field")
}

func (r *CategoryRepositoryImpl) RetireField(ctx context.Context, id uuid.UUID) error {
	return r.db.WithContext(ctx).Where("id = ?", id).Delete(&model.FormField{}).Error
}

func (r *CategoryRepositoryImpl) DeleteFieldsByCategory(ctx context.Context, categoryId uuid.UUID) error {
	err := r.db.WithContext(ctx).Unscoped().Where("category_id = ?", categoryId).Delete(&model.FormField{}).Error
	return translateError(err, "field")
}
