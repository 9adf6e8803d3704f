package gormstore

import (
	"context"
	"testing"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"

	"github.com/bmw-wellness/apiserver/internal/store"
	"github.com/bmw-wellness/apiserver/types"
)

func newMockGorm(t *testing.T) (*gorm.DB, sqlmock.Sqlmock) {
	t.Helper()

	mockDB, mock, err := sqlmock.New()
	require.NoError(t, err)
	t.Cleanup(func() { _ = mockDB.Close() })

	gormDB, err := gorm.Open(postgres.New(postgres.Config{Conn: mockDB}), &gorm.Config{
		Logger:                 gormlogger.Discard,
		TranslateError:         true,
		SkipDefaultTransaction: true,
		DisableAutomaticPing:   true,
	})
	require.NoError(t, err)
	return gormDB, mock
}

func TestGetByIDNotFound(t *testing.T) {
	gormDB, mock := newMockGorm(t)
	repo := NewUserRepository(gormDB)

	mock.ExpectQuery(`SELECT \* FROM "users" WHERE "users"."id" = \$1`).
		WillReturnRows(sqlmock.NewRows([]string{"id", "email", "password_hash", "name", "scores", "created_at"}))

	_, err := repo.GetByID(context.Background(), 42)
	assert.ErrorIs(t, err, store.ErrNotFound)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestGetByEmailDecodesJSONB(t *testing.T) {
	gormDB, mock := newMockGorm(t)
	repo := NewUserRepository(gormDB)

	mock.ExpectQuery(`SELECT \* FROM "users" WHERE email = \$1`).
		WillReturnRows(sqlmock.NewRows([]string{"id", "email", "password_hash", "name", "scores"}).
			AddRow(int64(5), "ada@example.com", "hash", "Ada", []byte(`[4, 10]`)))

	user, err := repo.GetByEmail(context.Background(), " ADA@example.com ")
	require.NoError(t, err)
	assert.Equal(t, int64(5), user.ID)
	assert.Equal(t, types.Scores{4, 10}, user.Scores)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestCreateDuplicateEmail(t *testing.T) {
	gormDB, mock := newMockGorm(t)
	repo := NewUserRepository(gormDB)

	mock.ExpectQuery(`INSERT INTO "users"`).
		WillReturnError(&pgconn.PgError{Code: "23505", Message: "duplicate key value violates unique constraint"})

	_, err := repo.Create(context.Background(), types.User{Email: "ada@example.com", Name: "Ada", PasswordHash: "h"})
	assert.ErrorIs(t, err, store.ErrConflict)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestAppendScoreUsesJSONBConcatenation(t *testing.T) {
	gormDB, mock := newMockGorm(t)
	repo := NewUserRepository(gormDB)

	mock.ExpectQuery(`UPDATE "users" SET "scores"=scores \|\| jsonb_build_array\(\$1::float8\) WHERE id = \$2 RETURNING "scores"`).
		WithArgs(float64(9), int64(3)).
		WillReturnRows(sqlmock.NewRows([]string{"scores"}).AddRow(`[1, 9]`))

	scores, err := repo.AppendScore(context.Background(), 3, 9)
	require.NoError(t, err)
	assert.Equal(t, types.Scores{1, 9}, scores)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestAppendScoreMissingUser(t *testing.T) {
	gormDB, mock := newMockGorm(t)
	repo := NewUserRepository(gormDB)

	mock.ExpectQuery(`UPDATE "users" SET "scores"=`).
		WillReturnRows(sqlmock.NewRows([]string{"scores"}))

	_, err := repo.AppendScore(context.Background(), 404, 1)
	assert.ErrorIs(t, err, store.ErrNotFound)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestActivityListOrdersByID(t *testing.T) {
	gormDB, mock := newMockGorm(t)
	repo := NewActivityRepository(gormDB)

	mock.ExpectQuery(`SELECT \* FROM "ra_wellness" ORDER BY id`).
		WillReturnRows(sqlmock.NewRows([]string{"id", "activity", "source", "priority"}).
			AddRow(int64(1), "Walk", "NHS", `["high","moderate"]`).
			AddRow(int64(4), "Sleep", "APA", `["all"]`))

	activities, err := repo.List(context.Background())
	require.NoError(t, err)
	require.Len(t, activities, 2)
	assert.Equal(t, types.Levels{types.LevelHigh, types.LevelModerate}, activities[0].Priority)
	assert.Equal(t, types.Levels{types.LevelAll}, activities[1].Priority)
	require.NoError(t, mock.ExpectationsWereMet())
}
