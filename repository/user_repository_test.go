package repository

import (
	"context"
	"database/sql"
	"errors"
	"regexp"
	"testing"
	"time"

	"blogger-api/model"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/lib/pq"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newMockDB(t *testing.T) (*sql.DB, sqlmock.Sqlmock) {
	t.Helper()
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })
	return db, mock
}

func TestUserRepository_CreateUser(t *testing.T) {
	ctx := context.Background()
	query := regexp.QuoteMeta(`INSERT INTO users (id, email, normalized_email, password_hash) VALUES ($1, $2, $3, $4) RETURNING created_at`)

	t.Run("success", func(t *testing.T) {
		db, mock := newMockDB(t)
		repo := NewUserRepository(db)
		created := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)

		mock.ExpectQuery(query).
			WithArgs("u1", "User@Example.com", "user@example.com", "hash").
			WillReturnRows(sqlmock.NewRows([]string{"created_at"}).AddRow(created))

		user := &model.User{ID: "u1", Email: "User@Example.com", PasswordHash: "hash"}
		require.NoError(t, repo.CreateUser(ctx, user))
		assert.Equal(t, created, user.CreatedAt)
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("duplicate email", func(t *testing.T) {
		db, mock := newMockDB(t)
		repo := NewUserRepository(db)

		mock.ExpectQuery(query).WillReturnError(&pq.Error{Code: "23505"})

		err := repo.CreateUser(ctx, &model.User{ID: "u2", Email: "user@example.com"})
		assert.ErrorIs(t, err, ErrDuplicateEmail)
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("other error", func(t *testing.T) {
		db, mock := newMockDB(t)
		repo := NewUserRepository(db)
		dbErr := errors.New("connection reset")

		mock.ExpectQuery(query).WillReturnError(dbErr)

		err := repo.CreateUser(ctx, &model.User{ID: "u3", Email: "x@example.com"})
		assert.ErrorIs(t, err, dbErr)
	})
}

func TestUserRepository_GetUserByEmail(t *testing.T) {
	ctx := context.Background()
	query := regexp.QuoteMeta(`SELECT id, email, password_hash, created_at FROM users WHERE normalized_email = $1`)

	t.Run("found", func(t *testing.T) {
		db, mock := newMockDB(t)
		repo := NewUserRepository(db)

		mock.ExpectQuery(query).
			WithArgs("user@example.com").
			WillReturnRows(sqlmock.NewRows([]string{"id", "email", "password_hash", "created_at"}).
				AddRow("u1", "user@example.com", "hash", time.Now()))

		user, err := repo.GetUserByEmail(ctx, "  USER@example.com ")
		require.NoError(t, err)
		assert.Equal(t, "u1", user.ID)
		assert.Equal(t, "hash", user.PasswordHash)
	})

	t.Run("not found", func(t *testing.T) {
		db, mock := newMockDB(t)
		repo := NewUserRepository(db)

		mock.ExpectQuery(query).WithArgs("nobody@example.com").WillReturnError(sql.ErrNoRows)

		_, err := repo.GetUserByEmail(ctx, "nobody@example.com")
		assert.ErrorIs(t, err, sql.ErrNoRows)
	})
}

func TestUserRepository_Claims(t *testing.T) {
	ctx := context.Background()
	db, mock := newMockDB(t)
	repo := NewUserRepository(db)

	mock.ExpectExec(regexp.QuoteMeta(`INSERT INTO user_claims (user_id, claim_type, claim_value) VALUES ($1, $2, $3)`)).
		WithArgs("u1", "blogger.employee", "true").
		WillReturnResult(sqlmock.NewResult(1, 1))
	mock.ExpectQuery(regexp.QuoteMeta(`SELECT claim_type, claim_value FROM user_claims WHERE user_id = $1 ORDER BY id`)).
		WithArgs("u1").
		WillReturnRows(sqlmock.NewRows([]string{"claim_type", "claim_value"}).AddRow("blogger.employee", "true"))

	require.NoError(t, repo.AddClaim(ctx, "u1", model.UserClaim{Type: "blogger.employee", Value: "true"}))

	claims, err := repo.GetClaims(ctx, "u1")
	require.NoError(t, err)
	assert.Equal(t, []model.UserClaim{{Type: "blogger.employee", Value: "true"}}, claims)
	assert.NoError(t, mock.ExpectationsWereMet())
}
