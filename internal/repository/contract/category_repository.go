package contract

import (
	"context"

	"asset-management-be/internal/entity"
	"asset-management-be/internal/repository/specification"

	"github.com/google/uuid"
)

type CategoryRepository interface {
	Create(ctx context.Context, category *entity.Category) error // Inserts the category and its fields
	Update(ctx context.Context, category *entity.Category) error // Category row only
	Delete(ctx context.Context, id uuid.UUID) error
	FindOne(ctx context.Context, specs ...specification.Specification) (*entity.Category, error)
	FindAll(ctx context.Context, specs ...specification.Specification) ([]*entity.Category, error)
	Count(ctx context.Context, specs ...specification.Specification) (int64, error)

	// Form fields
	CreateField(ctx context.Context, field *entity.FormField) error
	UpdateField(ctx context.Context, field *entity.FormField) error
	DeleteField(ctx context.Context, id uuid.UUID) error // Hard delete
	RetireField(ctx context.Context, id uuid.UUID) error // Soft delete, keeps referencing values readable
	DeleteFieldsByCategory(ctx context.Context, categoryId uuid.UUID) error
}
