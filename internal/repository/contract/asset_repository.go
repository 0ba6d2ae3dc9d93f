package contract

import (
	"context"

	"asset-management-be/internal/entity"
	"asset-management-be/internal/repository/specification"

	"github.com/google/uuid"
)

type AssetRepository interface {
	Create(ctx context.Context, asset *entity.Asset) error // Asset row only
	Update(ctx context.Context, asset *entity.Asset) error // Asset row only
	Delete(ctx context.Context, id uuid.UUID) error
	FindOne(ctx context.Context, specs ...specification.Specification) (*entity.Asset, error)
	FindAll(ctx context.Context, specs ...specification.Specification) ([]*entity.Asset, error)
	Count(ctx context.Context, specs ...specification.Specification) (int64, error)

	// Field values
	CreateFields(ctx context.Context, fields []*entity.AssetField) error
	DeleteFieldsByAsset(ctx context.Context, assetId uuid.UUID) error
	CountFieldsByFormField(ctx context.Context, formFieldId uuid.UUID) (int64, error)
}
