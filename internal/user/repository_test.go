package user

import (
	"context"
	"database/sql"
	"regexp"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/jmoiron/sqlx"
	"github.com/lib/pq"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var userCols = []string{"id", "name", "email", "password_hash", "role", "created_at", "updated_at"}

func setupUserMock(t *testing.T) (Repository, sqlmock.Sqlmock) {
	conn, mock, err := sqlmock.New()
	require.NoError(t, err)
	t.Cleanup(func() { conn.Close() })

	return NewRepository(sqlx.NewDb(conn, "sqlmock")), mock
}

func TestRepository_CreateAndFind(t *testing.T) {
	repo, mock := setupUserMock(t)
	ctx := context.Background()
	now := time.Now()

	mock.ExpectQuery(regexp.QuoteMeta("INSERT INTO users (name, email, password_hash, role)")).
		WithArgs("Alice", "a@example.com", "hash", "USER").
		WillReturnRows(sqlmock.NewRows(userCols).AddRow(1, "Alice", "a@example.com", "hash", "USER", now, now))

	u, err := repo.Create(ctx, "Alice", "a@example.com", "hash", "USER")
	require.NoError(t, err)
	assert.Equal(t, 1, u.ID)

	mock.ExpectQuery(regexp.QuoteMeta("FROM users WHERE email = $1")).
		WithArgs("a@example.com").
		WillReturnRows(sqlmock.NewRows(userCols).AddRow(1, "Alice", "a@example.com", "hash", "USER", now, now))

	fu, err := repo.FindByEmail(ctx, "a@example.com")
	require.NoError(t, err)
	assert.Equal(t, "Alice", fu.Name)

	mock.ExpectQuery(regexp.QuoteMeta("SELECT EXISTS(SELECT 1 FROM users WHERE email = $1)")).
		WithArgs("a@example.com").
		WillReturnRows(sqlmock.NewRows([]string{"exists"}).AddRow(true))

	ok, err := repo.EmailExists(ctx, "a@example.com")
	require.NoError(t, err)
	assert.True(t, ok)

	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestRepository_CreateDuplicateEmail(t *testing.T) {
	repo, mock := setupUserMock(t)

	mock.ExpectQuery(regexp.QuoteMeta("INSERT INTO users")).
		WillReturnError(&pq.Error{Code: "23505"})

	_, err := repo.Create(context.Background(), "Alice", "a@example.com", "hash", "USER")
	assert.ErrorIs(t, err, ErrEmailExists)
}

func TestRepository_FindByIDNotFound(t *testing.T) {
	repo, mock := setupUserMock(t)

	mock.ExpectQuery(regexp.QuoteMeta("FROM users WHERE id = $1")).
		WithArgs(42).
		WillReturnError(sql.ErrNoRows)

	_, err := repo.FindByID(context.Background(), 42)
	assert.ErrorIs(t, err, ErrUserNotFound)
}

func TestRepository_UpdateName(t *testing.T) {
	repo, mock := setupUserMock(t)
	now := time.Now()

	mock.ExpectQuery(regexp.QuoteMeta("UPDATE users SET name = $2")).
		WithArgs(1, "Bob").
		WillReturnRows(sqlmock.NewRows(userCols).AddRow(1, "Bob", "a@example.com", "hash", "USER", now, now))

	u, err := repo.UpdateName(context.Background(), 1, "Bob")
	require.NoError(t, err)
	assert.Equal(t, "Bob", u.Name)
	assert.NoError(t, mock.ExpectationsWereMet())
}
