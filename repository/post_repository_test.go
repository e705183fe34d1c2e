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

func TestPostRepository_CreateAndGet(t *testing.T) {
	ctx := context.Background()
	db, mock := newMockDB(t)
	repo := NewPostRepository(db)
	created := time.Date(2024, 2, 1, 0, 0, 0, 0, time.UTC)

	mock.ExpectQuery(regexp.QuoteMeta(`INSERT INTO posts (id, name, user_id) VALUES ($1, $2, $3) RETURNING created_at`)).
		WithArgs("p1", "First post", "u1").
		WillReturnRows(sqlmock.NewRows([]string{"created_at"}).AddRow(created))
	mock.ExpectQuery(regexp.QuoteMeta(`SELECT id, name, user_id, created_at FROM posts WHERE id = $1`)).
		WithArgs("p1").
		WillReturnRows(sqlmock.NewRows([]string{"id", "name", "user_id", "created_at"}).AddRow("p1", "First post", "u1", created))

	post := &model.Post{ID: "p1", Name: "First post", UserID: "u1"}
	require.NoError(t, repo.Create(ctx, post))
	assert.Equal(t, created, post.CreatedAt)

	got, err := repo.GetByID(ctx, "p1")
	require.NoError(t, err)
	assert.Equal(t, post, got)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestPostRepository_GetAll(t *testing.T) {
	db, mock := newMockDB(t)
	repo := NewPostRepository(db)

	mock.ExpectQuery(regexp.QuoteMeta(`SELECT id, name, user_id, created_at FROM posts ORDER BY created_at`)).
		WillReturnRows(sqlmock.NewRows([]string{"id", "name", "user_id", "created_at"}))

	posts, err := repo.GetAll(context.Background())
	require.NoError(t, err)
	assert.NotNil(t, posts)
	assert.Empty(t, posts)
}

func TestPostRepository_UpdateAndDelete(t *testing.T) {
	ctx := context.Background()
	db, mock := newMockDB(t)
	repo := NewPostRepository(db)

	mock.ExpectExec(regexp.QuoteMeta(`UPDATE posts SET name = $1 WHERE id = $2`)).
		WithArgs("Renamed", "p1").
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectExec(regexp.QuoteMeta(`DELETE FROM posts WHERE id = $1`)).
		WithArgs("missing").
		WillReturnResult(sqlmock.NewResult(0, 0))
	mock.ExpectQuery(regexp.QuoteMeta(`SELECT id, name, user_id, created_at FROM posts WHERE id = $1`)).
		WithArgs("missing").
		WillReturnError(sql.ErrNoRows)

	updated, err := repo.Update(ctx, &model.Post{ID: "p1", Name: "Renamed"})
	require.NoError(t, err)
	assert.True(t, updated)

	deleted, err := repo.Delete(ctx, "missing")
	require.NoError(t, err)
	assert.False(t, deleted)

	_, err = repo.GetByID(ctx, "missing")
	assert.ErrorIs(t, err, sql.ErrNoRows)
	assert.NoError(t, mock.ExpectationsWereMet())
}
