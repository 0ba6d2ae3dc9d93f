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

type AssetRepositoryImpl struct {
	db     *gorm.DB
	mapper *mapper.AssetMapper
}

func NewAssetRepository(db *gorm.DB) contract.AssetRepository {
	return &AssetRepositoryImpl{
		db:     db,
		mapper: mapper.NewAssetMapper(),
	}
}

func (r *AssetRepositoryImpl) applySpecifications(db *gorm.DB, specs ...specification.Specification) *gorm.DB {
	for _, spec := range specs {
		db = spec.Apply(db)
	}
	return db
}

// withRelations loads everything an asset is rendered with. Field values keep
// pointing at their FormField even after it was retired.
func (r *AssetRepositoryImpl) withRelations(db *gorm.DB) *gorm.DB {
	return db.
		Preload("Category").
		Preload("Category.Fields", scope.OrderFields).
		Preload("Vendor").
		Preload("Fields").
		Preload("Fields.FormField", scope.WithRetired)
}

func (r *AssetRepositoryImpl) Create(ctx context.Context, asset *entity.Asset) error {
	if asset.Id == uuid.Nil {
		asset.Id = uuid.New()
	}
	m := r.mapper.ToModel(asset)
	if err := r.db.WithContext(ctx).Omit(clause.Associations).Create(m).Error; err != nil {
		return translateError(err, "asset")
	}
	asset.CreatedAt = m.CreatedAt
	asset.UpdatedAt = m.UpdatedAt
	return nil
}

func (r *AssetRepositoryImpl) Update(ctx context.Context, asset *entity.Asset) error {
	m := r.mapper.ToModel(asset)
	if err := r.db.WithContext(ctx).Omit(clause.Associations).Save(m).Error; err != nil {
		return translateError(err, "asset")
	}
	asset.UpdatedAt = m.UpdatedAt
	return nil
}

func (r *AssetRepositoryImpl) Delete(ctx context.Context, id uuid.UUID) error {
	err := r.db.WithContext(ctx).Where("id = ?", id).Delete(&model.Asset{}).Error
	return translateError(err, "asset")
}

func (r *AssetRepositoryImpl) FindOne(ctx context.Context, specs ...specification.Specification) (*entity.Asset, error) {
	var m model.Asset
	query := r.applySpecifications(r.withRelations(r.db.WithContext(ctx)), specs...)
	if err := query.First(&m).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return r.mapper.ToEntity(&m), nil
}

func (r *AssetRepositoryImpl) FindAll(ctx context.Context, specs ...specification.Specification) ([]*entity.Asset, error) {
	var models []*model.Asset
	query := r.applySpecifications(r.withRelations(r.db.WithContext(ctx)), specs...)
	if err := query.Find(&models).Error; err != nil {
		return nil, err
	}
	return r.mapper.ToEntities(models), nil
}

func (r *AssetRepositoryImpl) Count(ctx context.Context, specs ...specification.Specification) (int64, error) {
	var count int64
	query := r.applySpecifications(r.db.WithContext(ctx).Model(&model.Asset{}), specs...)
	if err := query.Count(&count).Error; err != nil {
		return 0, err
	}
	return count, nil
}

func (r *AssetRepositoryImpl) CreateFields(ctx context.Context, fields []*entity.AssetField) error {
	if len(fields) == 0 {
		return nil
	}
	models := make([]*model.AssetField, 0, len(fields))
	for _, f := range fields {
		if f.Id == uuid.Nil {
			f.Id = uuid.New()
		}
		m, err := r.mapper.FieldToModel(f)
		if err != nil {
			return err
		}
		models = append(models, m)
	}
	err := r.db.WithContext(ctx).Omit(clause.Associations).Create(&models).Error
	return translateError(err, "asset field")
}

func (r *AssetRepositoryImpl) DeleteFieldsByAsset(ctx context.Context, assetId uuid.UUID) error {
	return r.db.WithContext(ctx).Where("asset_id = ?", assetId).Delete(&model.AssetField{}).Error
}

func (r *AssetRepositoryImpl) CountFieldsByFormField(ctx context.Context, formFieldId uuid.UUID) (int64, error) {
	var count int64
	err := r.db.WithContext(ctx).Model(&model.AssetField{}).
		Where("form_field_id = ?", formFieldId).
		Count(&count).Error
	if err != nil {
		return 0, err
	}
	return count, nil
}
