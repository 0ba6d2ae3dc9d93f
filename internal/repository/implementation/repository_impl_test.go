package implementation

import (
	"context"
	"errors"
	"testing"

	"asset-management-be/internal/repository/specification"
	"asset-management-be/pkg/apperror"
	"asset-management-be/pkg/database"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

func newMockDB(t *testing.T) (*gorm.DB, sqlmock.Sqlmock) {
	t.Helper()
	sqlDB, mock, err := sqlmock.New()
	require.NoError(t, err)
	t.Cleanup(func() { sqlDB.Close() })

	db, err := gorm.Open(postgres.New(postgres.Config{Conn: sqlDB}), database.Config(logger.Silent))
	require.NoError(t, err)
	return db, mock
}

func TestTranslateError(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want apperror.Kind
	}{
		{"gorm fk", gorm.ErrForeignKeyViolated, apperror.KindReferentialConflict},
		{"gorm duplicate", gorm.ErrDuplicatedKey, apperror.KindValidation},
		{"pg fk", &pgconn.PgError{Code: "23503"}, apperror.KindReferentialConflict},
		{"pg unique", &pgconn.PgError{Code: "23505"}, apperror.KindValidation},
		{"other pg", &pgconn.PgError{Code: "57014"}, apperror.KindInternal},
		{"plain", errors.New("boom"), apperror.KindInternal},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, apperror.KindOf(translateError(tt.err, "asset")))
		})
	}
	assert.NoError(t, translateError(nil, "asset"))
}

func TestUserDeleteReferencedByAsset(t *testing.T) {
	db, mock := newMockDB(t)
	repo := NewUserRepository(db)

	mock.ExpectBegin()
	mock.ExpectExec(`DELETE FROM "users"`).
		WillReturnError(&pgconn.PgError{Code: "23503", Message: "violates foreign key constraint"})
	mock.ExpectRollback()

	err := repo.Delete(context.Background(), uuid.New())

	assert.True(t, apperror.Is(err, apperror.KindReferentialConflict))
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestUserFindOneNotFound(t *testing.T) {
	db, mock := newMockDB(t)
	repo := NewUserRepository(db)

	mock.ExpectQuery(`SELECT \* FROM "users" WHERE username = \$1`).
		WillReturnRows(sqlmock.NewRows([]string{"id", "username"}))

	user, err := repo.FindOne(context.Background(), specification.ByUsername{Username: "ghost"})

	assert.NoError(t, err)
	assert.Nil(t, user)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestCountFieldsByFormField(t *testing.T) {
	db, mock := newMockDB(t)
	repo := NewAssetRepository(db)
	formFieldId := uuid.New()

	mock.ExpectQuery(`SELECT count\(\*\) FROM "asset_fields" WHERE form_field_id = \$1`).
		WithArgs(formFieldId).
		WillReturnRows(sqlmock.NewRows([]string{"count"}).AddRow(3))

	n, err := repo.CountFieldsByFormField(context.Background(), formFieldId)

	require.NoError(t, err)
	assert.Equal(t, int64(3), n)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestRetireFieldIsSoftDelete(t *testing.T) {
	db, mock := newMockDB(t)
	repo := NewCategoryRepository(db)

	mock.ExpectBegin()
	mock.ExpectExec(`UPDATE "form_fields" SET "deleted_at"=\$1 WHERE id = \$2 AND "form_fields"."deleted_at" IS NULL`).
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectCommit()

	require.NoError(t, repo.RetireField(context.Background(), uuid.New()))
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestDeleteFieldIsHardDelete(t *testing.T) {
	db, mock := newMockDB(t)
	repo := NewCategoryRepository(db)

	mock.ExpectBegin()
	mock.ExpectExec(`DELETE FROM "form_fields" WHERE id = \$1`).
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectCommit()

	require.NoError(t, repo.DeleteField(context.Background(), uuid.New()))
	assert.NoError(t, mock.ExpectationsWereMet())
}
