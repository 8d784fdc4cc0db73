package repository

import (
	"context"
	"database/sql"
	"errors"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/lib/pq"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"threadboard/internal/models"
)

var userColumns = []string{"id", "username", "email", "password_hash", "created_at"}

func TestUserRepository_Create(t *testing.T) {
	db, mock := setupMockDB(t)
	repo := NewUserRepository(db)

	user := &models.User{Username: "U", Email: "u@x.com", PasswordHash: "hash"}

	mock.ExpectQuery(q("INSERT INTO users")).
		WithArgs("U", "u@x.com", "hash", sqlmock.AnyArg()).
		WillReturnRows(sqlmock.NewRows([]string{"id"}).AddRow(7))

	err := repo.Create(context.Background(), user)

	require.NoError(t, err)
	assert.Equal(t, int64(7), user.ID)
	assert.False(t, user.CreatedAt.IsZero())
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestUserRepository_CreateDuplicate(t *testing.T) {
	db, mock := setupMockDB(t)
	repo := NewUserRepository(db)

	mock.ExpectQuery(q("INSERT INTO users")).
		WillReturnError(&pq.Error{Code: "23505", Message: "duplicate key value violates unique constraint \"users_email_key\""})

	err := repo.Create(context.Background(), &models.User{Username: "U", Email: "u@x.com"})

	assert.ErrorIs(t, err, ErrDuplicate)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestUserRepository_CreateFailure(t *testing.T) {
	db, mock := setupMockDB(t)
	repo := NewUserRepository(db)

	mock.ExpectQuery(q("INSERT INTO users")).
		WillReturnError(errors.New("connection reset"))

	err := repo.Create(context.Background(), &models.User{Username: "U", Email: "u@x.com"})

	assert.ErrorContains(t, err, "create user")
	assert.NotErrorIs(t, err, ErrDuplicate)
}

func TestUserRepository_FindByEmail(t *testing.T) {
	now := time.Now()

	t.Run("found", func(t *testing.T) {
		db, mock := setupMockDB(t)
		repo := NewUserRepository(db)

		mock.ExpectQuery(q("FROM users WHERE email = $1")).
			WithArgs("u@x.com").
			WillReturnRows(sqlmock.NewRows(userColumns).AddRow(1, "U", "u@x.com", "hash", now))

		user, err := repo.FindByEmail(context.Background(), "u@x.com")

		require.NoError(t, err)
		assert.Equal(t, int64(1), user.ID)
		assert.Equal(t, "U", user.Username)
		assert.Equal(t, "hash", user.PasswordHash)
	})

	t.Run("missing", func(t *testing.T) {
		db, mock := setupMockDB(t)
		repo := NewUserRepository(db)

		mock.ExpectQuery(q("FROM users WHERE email = $1")).
			WithArgs("ghost@x.com").
			WillReturnError(sql.ErrNoRows)

		user, err := repo.FindByEmail(context.Background(), "ghost@x.com")

		assert.Nil(t, user)
		assert.ErrorIs(t, err, ErrNotFound)
	})

	t.Run("storage failure", func(t *testing.T) {
		db, mock := setupMockDB(t)
		repo := NewUserRepository(db)

		mock.ExpectQuery(q("FROM users WHERE email = $1")).
			WillReturnError(errors.New("connection reset"))

		_, err := repo.FindByEmail(context.Background(), "u@x.com")

		assert.Error(t, err)
		assert.NotErrorIs(t, err, ErrNotFound)
	})
}

func TestUserRepository_FindByID(t *testing.T) {
	db, mock := setupMockDB(t)
	repo := NewUserRepository(db)

	mock.ExpectQuery(q("FROM users WHERE id = $1")).
		WithArgs(int64(4)).
		WillReturnError(sql.ErrNoRows)

	_, err := repo.FindByID(context.Background(), 4)

	assert.ErrorIs(t, err, ErrNotFound)
	assert.NoError(t, mock.ExpectationsWereMet())
}
