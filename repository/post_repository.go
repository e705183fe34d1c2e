package repository

import (
	"context"
	"database/sql"
	"errors"

	"blogger-api/logger"
	"blogger-api/model"

	"github.com/sirupsen/logrus"
)

// IPostRepository defines the contract for post persistence. GetByID returns
// sql.ErrNoRows for an unknown id; Update and Delete report whether a row changed.
type IPostRepository interface {
	Create(ctx context.Context, post *model.Post) error
	GetAll(ctx context.Context) ([]*model.Post, error)
	GetByID(ctx context.Context, id string) (*model.Post, error)
	Update(ctx context.Context, post *model.Post) (bool, error)
	Delete(ctx context.Context, id string) (bool, error)
}

type PostRepository struct {
	DB *sql.DB
}

func NewPostRepository(db *sql.DB) *PostRepository {
	return &PostRepository{DB: db}
}

func (r *PostRepository) Create(ctx context.Context, post *model.Post) error {
	log := logger.Log.WithFields(logrus.Fields{
		"post_id": post.ID,
		"user_id": post.UserID,
	})
	log.Info("Executing query to create a new post")

	query := `INSERT INTO posts (id, name, user_id) VALUES ($1, $2, $3) RETURNING created_at`
	if err := r.DB.QueryRowContext(ctx, query, post.ID, post.Name, post.UserID).Scan(&post.CreatedAt); err != nil {
		log.WithError(err).Error("Failed to execute create post query")
		return err
	}
	return nil
}

func (r *PostRepository) GetAll(ctx context.Context) ([]*model.Post, error) {
	log := logger.Log
	log.Info("Executing query to get all posts")

	query := `SELECT id, name, user_id, created_at FROM posts ORDER BY created_at`
	rows, err := r.DB.QueryContext(ctx, query)
	if err != nil {
		log.WithError(err).Error("Failed to execute query for all posts")
		return nil, err
	}
	defer rows.Close()

	posts := []*model.Post{}
	for rows.Next() {
		var p model.Post
		if err := rows.Scan(&p.ID, &p.Name, &p.UserID, &p.CreatedAt); err != nil {
			log.WithError(err).Error("Failed to scan post row")
			return nil, err
		}
		posts = append(posts, &p)
	}
	return posts, rows.Err()
}

func (r *PostRepository) GetByID(ctx context.Context, id string) (*model.Post, error) {
	log := logger.Log.WithField("post_id", id)
	log.Info("Executing query to get post by ID")

	post := &model.Post{}
	query := `SELECT id, name, user_id, created_at FROM posts WHERE id = $1`
	err := r.DB.QueryRowContext(ctx, query, id).Scan(&post.ID, &post.Name, &post.UserID, &post.CreatedAt)
	if err != nil {
		if !errors.Is(err, sql.ErrNoRows) {
			log.WithError(err).Error("Failed to execute get post query")
		}
		return nil, err
	}
	return post, nil
}

// Update changes the post's name; ownership is never reassigned.
func (r *PostRepository) Update(ctx context.Context, post *model.Post) (bool, error) {
	log := logger.Log.WithField("post_id", post.ID)
	log.Info("Executing query to update post")

	query := `UPDATE posts SET name = $1 WHERE id = $2`
	res, err := r.DB.ExecContext(ctx, query, post.Name, post.ID)
	if err != nil {
		log.WithError(err).Error("Failed to execute update post query")
		return false, err
	}
	affected, err := res.RowsAffected()
	return affected > 0, err
}

func (r *PostRepository) Delete(ctx context.Context, id string) (bool, error) {
	log := logger.Log.WithField("post_id", id)
	log.Info("Executing query to delete post")

	res, err := r.DB.ExecContext(ctx, `DELETE FROM posts WHERE id = $1`, id)
	if err != nil {
		log.WithError(err).Error("Failed to execute delete post query")
		return false, err
	}
	affected, err := res.RowsAffected()
	return affected > 0, err
}
