package repository

import (
	"context"
	"database/sql"
	"regexp"
	"testing"
	"time"

	"blogger-api/model"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestTokenRepository_Create(t *testing.T) {
	db, mock := newMockDB(t)
	repo := NewTokenRepository(db)
	now := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)

	token := &model.RefreshToken{
		TokenHash:    "hash",
		JwtID:        "jti",
		UserID:       "u1",
		CreationDate: now,
		ExpiryDate:   now.Add(time.Hour),
	}

	mock.ExpectExec(regexp.QuoteMeta(`INSERT INTO refresh_tokens (token_hash, jwt_id, user_id, creation_date, expiry_date, used, invalidated) VALUES ($1, $2, $3, $4, $5, $6, $7)`)).
		WithArgs("hash", "jti", "u1", now, now.Add(time.Hour), false, false).
		WillReturnResult(sqlmock.NewResult(0, 1))

	require.NoError(t, repo.Create(context.Background(), token))
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestTokenRepository_GetByTokenHash(t *testing.T) {
	query := regexp.QuoteMeta(`SELECT token_hash, jwt_id, user_id, creation_date, expiry_date, used, invalidated FROM refresh_tokens WHERE token_hash = $1`)
	now := time.Now()

	t.Run("found", func(t *testing.T) {
		db, mock := newMockDB(t)
		repo := NewTokenRepository(db)

		mock.ExpectQuery(query).WithArgs("hash").WillReturnRows(
			sqlmock.NewRows([]string{"token_hash", "jwt_id", "user_id", "creation_date", "expiry_date", "used", "invalidated"}).
				AddRow("hash", "jti", "u1", now, now.Add(time.Hour), true, false))

		token, err := repo.GetByTokenHash(context.Background(), "hash")
		require.NoError(t, err)
		assert.Equal(t, "jti", token.JwtID)
		assert.True(t, token.Used)
		assert.False(t, token.Invalidated)
	})

	t.Run("not found", func(t *testing.T) {
		db, mock := newMockDB(t)
		repo := NewTokenRepository(db)

		mock.ExpectQuery(query).WithArgs("missing").WillReturnError(sql.ErrNoRows)

		_, err := repo.GetByTokenHash(context.Background(), "missing")
		assert.ErrorIs(t, err, sql.ErrNoRows)
	})
}

func TestTokenRepository_MarkUsed(t *testing.T) {
	query := regexp.QuoteMeta(`UPDATE refresh_tokens SET used = TRUE WHERE token_hash = $1 AND used = FALSE AND invalidated = FALSE`)

	t.Run("first consumer wins", func(t *testing.T) {
		db, mock := newMockDB(t)
		repo := NewTokenRepository(db)

		mock.ExpectExec(query).WithArgs("hash").WillReturnResult(sqlmock.NewResult(0, 1))

		ok, err := repo.MarkUsed(context.Background(), "hash")
		require.NoError(t, err)
		assert.True(t, ok)
	})

	t.Run("already consumed", func(t *testing.T) {
		db, mock := newMockDB(t)
		repo := NewTokenRepository(db)

		mock.ExpectExec(query).WithArgs("hash").WillReturnResult(sqlmock.NewResult(0, 0))

		ok, err := repo.MarkUsed(context.Background(), "hash")
		require.NoError(t, err)
		assert.False(t, ok)
	})
}
