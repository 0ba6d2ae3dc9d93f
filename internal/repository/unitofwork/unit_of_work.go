package unitofwork

import (
	"context"

	"asset-management-be/internal/repository/contract"
)

type UnitOfWork interface {
	Begin(ctx context.Context) error
	Commit() error
	Rollback() error

	UserRepository() contract.UserRepository
	CategoryRepository() contract.CategoryRepository
	AssetRepository() contract.AssetRepository
}
