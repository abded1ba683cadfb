package users

import (
	"context"
	"database/sql"
	"errors"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/notesafe/notesafe/internal/common"
)

func newRepoWithMock(t *testing.T) (*PostgresRepository, sqlmock.Sqlmock, *sql.DB) {
	t.Helper()
	db, mock, err := sqlmock.New(sqlmock.QueryMatcherOption(sqlmock.QueryMatcherRegexp))
	if err != nil {
		t.Fatalf("sqlmock.New error: %v", err)
	}
	repo, err := NewPostgresRepository(db)
	require.NoError(t, err)
	return repo, mock, db
}

const (
	insertQ = `(?s)^INSERT\s+INTO\s+users\s*\(external_id,\s*email,\s*name\)\s*VALUES\s*\(\$1,\s*\$2,\s*\$3\)\s*RETURNING\s+id,\s*created_at\s*$`
	selectQ = `(?s)^SELECT\s+id,\s*external_id,\s*email,\s*name,\s*created_at\s+FROM\s+users\s+WHERE\s+external_id\s*=\s*\$1\s*$`
)

func TestCreate_Success(t *testing.T) {
	repo, mock, db := newRepoWithMock(t)
	defer db.Close()

	now := time.Now()
	rows := sqlmock.NewRows([]string{"id", "created_at"}).AddRow("u-42", now)
	mock.ExpectQuery(insertQ).
		WithArgs("google-oauth2|12345", "a@example.com", "Alice").
		WillReturnRows(rows)

	got, err := repo.Create(context.Background(), &User{
		ExternalID: "google-oauth2|12345", Email: "a@example.com", Name: "Alice",
	})
	require.NoError(t, err)
	assert.Equal(t, "u-42", got.ID)
	assert.Equal(t, now, got.CreatedAt)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestCreate_UniqueViolation(t *testing.T) {
	repo, mock, db := newRepoWithMock(t)
	defer db.Close()

	mock.ExpectQuery(insertQ).
		WithArgs("ext-1", "", "").
		WillReturnError(&pgconn.PgError{Code: "23505", ConstraintName: "users_external_id_key"})

	_, err := repo.Create(context.Background(), &User{ExternalID: "ext-1"})
	assert.ErrorIs(t, err, ErrDuplicateExternalID)
}

func TestCreate_DBError(t *testing.T) {
	repo, mock, db := newRepoWithMock(t)
	defer db.Close()

	mock.ExpectQuery(insertQ).
		WithArgs("ext-1", "", "").
		WillReturnError(errors.New("db down"))

	_, err := repo.Create(context.Background(), &User{ExternalID: "ext-1"})
	require.Error(t, err)
	assert.NotErrorIs(t, err, ErrDuplicateExternalID)
}

func TestGetByExternalID_Found(t *testing.T) {
	repo, mock, db := newRepoWithMock(t)
	defer db.Close()

	now := time.Now()
	rows := sqlmock.NewRows([]string{"id", "external_id", "email", "name", "created_at"}).
		AddRow("u-1", "ext-1", "a@example.com", "Alice", now)
	mock.ExpectQuery(selectQ).WithArgs("ext-1").WillReturnRows(rows)

	got, err := repo.GetByExternalID(context.Background(), "ext-1")
	require.NoError(t, err)
	assert.Equal(t, "u-1", got.ID)
	assert.Equal(t, "ext-1", got.ExternalID)
}

func TestGetByExternalID_NotFound(t *testing.T) {
	repo, mock, db := newRepoWithMock(t)
	defer db.Close()

	mock.ExpectQuery(selectQ).WithArgs("missing").WillReturnError(sql.ErrNoRows)

	_, err := repo.GetByExternalID(context.Background(), "missing")
	assert.ErrorIs(t, err, common.ErrNotFound)
}
