// file: service/post_service.go

package service

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"blogger-api/logger"
	"blogger-api/model"
	"blogger-api/repository"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
)

var ErrPostNotFound = errors.New("post not found")

const postsCacheKey = "posts:list"

func postCacheKey(id string) string {
	return "post:" + id
}

// PostService implements post CRUD with a cache-aside read path. cache may be
// nil, in which case every read goes to the repository.
type PostService struct {
	repo  repository.IPostRepository
	cache ICacheClient
	ttl   time.Duration
}

func NewPostService(repo repository.IPostRepository, cache ICacheClient, ttl time.Duration) *PostService {
	return &PostService{repo: repo, cache: cache, ttl: ttl}
}

// GetPosts lists every post.
func (s *PostService) GetPosts(ctx context.Context) ([]*model.Post, error) {
	var posts []*model.Post
	if s.readCache(ctx, postsCacheKey, &posts) {
		return posts, nil
	}

	posts, err := s.repo.GetAll(ctx)
	if err != nil {
		return nil, err
	}
	s.writeCache(ctx, postsCacheKey, posts)
	return posts, nil
}

func (s *PostService) GetPostByID(ctx context.Context, id string) (*model.Post, error) {
	var post model.Post
	if s.readCache(ctx, postCacheKey(id), &post) {
		return &post, nil
	}

	p, err := s.repo.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrPostNotFound
		}
		return nil, err
	}
	s.writeCache(ctx, postCacheKey(id), p)
	return p, nil
}

// CreatePost stores a new post owned by userID.
func (s *PostService) CreatePost(ctx context.Context, name, userID string) (*model.Post, error) {
	post := &model.Post{
		ID:     uuid.NewString(),
		Name:   name,
		UserID: userID,
	}
	if err := s.repo.Create(ctx, post); err != nil {
		return nil, fmt.Errorf("could not create post: %w", err)
	}
	s.invalidate(ctx, post.ID)
	return post, nil
}

// UpdatePost renames a post and returns the stored result.
func (s *PostService) UpdatePost(ctx context.Context, id, name string) (*model.Post, error) {
	updated, err := s.repo.Update(ctx, &model.Post{ID: id, Name: name})
	if err != nil {
		return nil, fmt.Errorf("could not update post: %w", err)
	}
	if !updated {
		return nil, ErrPostNotFound
	}
	s.invalidate(ctx, id)
	return s.GetPostByID(ctx, id)
}

func (s *PostService) DeletePost(ctx context.Context, id string) error {
	deleted, err := s.repo.Delete(ctx, id)
	if err != nil {
		return fmt.Errorf("could not delete post: %w", err)
	}
	if !deleted {
		return ErrPostNotFound
	}
	s.invalidate(ctx, id)
	return nil
}

// UserOwnsPost reports false for a missing post as well as for a post owned by
// someone else. The check bypasses the cache.
func (s *PostService) UserOwnsPost(ctx context.Context, postID, userID string) (bool, error) {
	post, err := s.repo.GetByID(ctx, postID)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return false, nil
		}
		return false, err
	}
	return post.UserID == userID, nil
}

func (s *PostService) readCache(ctx context.Context, key string, dst interface{}) bool {
	if s.cache == nil {
		return false
	}
	cached, err := s.cache.Get(ctx, key).Result()
	if err != nil {
		if !errors.Is(err, redis.Nil) {
			logger.Log.WithError(err).WithField("key", key).Warn("Post cache read failed")
		}
		return false
	}
	return json.Unmarshal([]byte(cached), dst) == nil
}

func (s *PostService) writeCache(ctx context.Context, key string, value interface{}) {
	if s.cache == nil {
		return
	}
	data, err := json.Marshal(value)
	if err != nil {
		return
	}
	if err := s.cache.Set(ctx, key, data, s.ttl).Err(); err != nil {
		logger.Log.WithError(err).WithField("key", key).Warn("Post cache write failed")
	}
}

func (s *PostService) invalidate(ctx context.Context, id string) {
	if s.cache == nil {
		return
	}
	if err := s.cache.Del(ctx, postsCacheKey, postCacheKey(id)).Err(); err != nil {
		logger.Log.WithError(err).WithField("post_id", id).Warn("Post cache invalidation failed")
	}
}
