package implementation

import (
	"errors"

	"asset-management-be/pkg/apperror"

	"github.com/jackc/pgx/v5/pgconn"
	"gorm.io/gorm"
)

const (
	pgForeignKeyViolation = "23503"
	pgUniqueViolation     = "23505"
)

// translateError turns constraint violations into client-facing errors.
// Everything else is returned untouched.
func translateError(err error, resource string) error {
	if err == nil {
		return nil
	}
	if errors.Is(err, gorm.ErrForeignKeyViolated) {
		return apperror.ReferentialConflict("%s is still referenced by other records", resource)
	}
	if errors.Is(err, gorm.ErrDuplicatedKey) {
		return apperror.Validation("%s already exists", resource)
	}

	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		switch pgErr.Code {
		case pgForeignKeyViolation:
			return apperror.ReferentialConflict("%s is still referenced by other records", resource)
		case pgUniqueViolation:
			return apperror.Validation("%s already exists", resource)
		}
	}
	return err
}
