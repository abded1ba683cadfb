package notes

import (
	"context"
	"database/sql"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
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

func TestCreate_InsertsEnvelope(t *testing.T) {
	repo, mock, db := newRepoWithMock(t)
	defer db.Close()

	q := `(?s)^INSERT\s+INTO\s+notes\s*\(id,\s*user_id,\s*nonce,\s*ciphertext,\s*tag,\s*tags\)`

	now := time.Now()
	rows := sqlmock.NewRows([]string{"created_at", "updated_at"}).AddRow(now, now)
	mock.ExpectQuery(q).
		WithArgs("n-1", "u-1", []byte("nonce"), []byte("ct"), []byte("tag"), sqlmock.AnyArg()).
		WillReturnRows(rows)

	note := &Note{ID: "n-1", UserID: "u-1", Nonce: []byte("nonce"), Ciphertext: []byte("ct"), Tag: []byte("tag"), Tags: []string{"a"}}
	got, err := repo.Create(context.Background(), note)
	require.NoError(t, err)
	assert.Equal(t, now, got.CreatedAt)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestGetByID_ScopesByUser(t *testing.T) {
	repo, mock, db := newRepoWithMock(t)
	defer db.Close()

	q := `(?s)^SELECT\s+.*FROM\s+notes\s+WHERE\s+id\s*=\s*\$1\s+AND\s+user_id\s*=\s*\$2`

	mock.ExpectQuery(q).WithArgs("n-1", "someone-else").WillReturnError(sql.ErrNoRows)

	_, err := repo.GetByID(context.Background(), "someone-else", "n-1")
	assert.ErrorIs(t, err, common.ErrNotFound)
}

func TestGetByID_ReturnsEnvelope(t *testing.T) {
	repo, mock, db := newRepoWithMock(t)
	defer db.Close()

	q := `(?s)^SELECT\s+.*FROM\s+notes\s+WHERE\s+id\s*=\s*\$1\s+AND\s+user_id\s*=\s*\$2`

	now := time.Now()
	rows := sqlmock.NewRows([]string{"id", "user_id", "nonce", "ciphertext", "tag", "tags", "created_at", "updated_at"}).
		AddRow("n-1", "u-1", []byte("nonce"), []byte("ct"), []byte("tag"), []byte("{todo,home}"), now, now)
	mock.ExpectQuery(q).WithArgs("n-1", "u-1").WillReturnRows(rows)

	got, err := repo.GetByID(context.Background(), "u-1", "n-1")
	require.NoError(t, err)
	assert.Equal(t, []byte("nonce"), got.Nonce)
	assert.Equal(t, []byte("ct"), got.Ciphertext)
	assert.Equal(t, []byte("tag"), got.Tag)
	assert.Equal(t, []string{"todo", "home"}, got.Tags)
}

func TestUpdate_MissingRow(t *testing.T) {
	repo, mock, db := newRepoWithMock(t)
	defer db.Close()

	q := `(?s)^UPDATE\s+notes\s+SET\s+nonce\s*=\s*\$1`

	mock.ExpectQuery(q).
		WithArgs([]byte("n"), []byte("c"), []byte("t"), sqlmock.AnyArg(), "n-404", "u-1").
		WillReturnError(sql.ErrNoRows)

	note := &Note{ID: "n-404", UserID: "u-1", Nonce: []byte("n"), Ciphertext: []byte("c"), Tag: []byte("t")}
	_, err := repo.Update(context.Background(), note)
	assert.ErrorIs(t, err, common.ErrNotFound)
}

func TestDelete_MissingRow(t *testing.T) {
	repo, mock, db := newRepoWithMock(t)
	defer db.Close()

	q := `(?s)^DELETE\s+FROM\s+notes\s+WHERE\s+id\s*=\s*\$1\s+AND\s+user_id\s*=\s*\$2`

	mock.ExpectExec(q).WithArgs("n-404", "u-1").WillReturnResult(sqlmock.NewResult(0, 0))

	err := repo.Delete(context.Background(), "u-1", "n-404")
	assert.ErrorIs(t, err, common.ErrNotFound)
}

func TestDelete_Success(t *testing.T) {
	repo, mock, db := newRepoWithMock(t)
	defer db.Close()

	q := `(?s)^DELETE\s+FROM\s+notes\s+WHERE\s+id\s*=\s*\$1\s+AND\s+user_id\s*=\s*\$2`

	mock.ExpectExec(q).WithArgs("n-1", "u-1").WillReturnResult(sqlmock.NewResult(0, 1))

	assert.NoError(t, repo.Delete(context.Background(), "u-1", "n-1"))
}
