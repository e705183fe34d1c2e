package repository

import (
	"context"
	"database/sql"
	"sort"
	"sync"
	"time"

	"blogger-api/model"
)

// The in-memory repositories back the "memory" storage mode used for local
// runs and tests. They honour the same contracts as the Postgres ones,
// including sql.ErrNoRows for missing rows.

type MemoryUserRepository struct {
	mu      sync.RWMutex
	byID    map[string]*model.User
	byEmail map[string]string
	claims  map[string][]model.UserClaim
}

func NewMemoryUserRepository() *MemoryUserRepository {
	return &MemoryUserRepository{
		byID:    make(map[string]*model.User),
		byEmail: make(map[string]string),
		claims:  make(map[string][]model.UserClaim),
	}
}

func (r *MemoryUserRepository) CreateUser(_ context.Context, user *model.User) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	key := NormalizeEmail(user.Email)
	if _, ok := r.byEmail[key]; ok {
		return ErrDuplicateEmail
	}
	user.CreatedAt = time.Now().UTC()
	stored := *user
	stored.Claims = nil
	r.byID[user.ID] = &stored
	r.byEmail[key] = user.ID
	return nil
}

func (r *MemoryUserRepository) GetUserByEmail(ctx context.Context, email string) (*model.User, error) {
	r.mu.RLock()
	id, ok := r.byEmail[NormalizeEmail(email)]
	r.mu.RUnlock()
	if !ok {
		return nil, sql.ErrNoRows
	}
	return r.GetUserByID(ctx, id)
}

func (r *MemoryUserRepository) GetUserByID(_ context.Context, id string) (*model.User, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	u, ok := r.byID[id]
	if !ok {
		return nil, sql.ErrNoRows
	}
	cp := *u
	return &cp, nil
}

func (r *MemoryUserRepository) GetClaims(_ context.Context, userID string) ([]model.UserClaim, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return append([]model.UserClaim(nil), r.claims[userID]...), nil
}

func (r *MemoryUserRepository) AddClaim(_ context.Context, userID string, claim model.UserClaim) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, ok := r.byID[userID]; !ok {
		return sql.ErrNoRows
	}
	r.claims[userID] = append(r.claims[userID], claim)
	return nil
}

type MemoryTokenRepository struct {
	mu     sync.Mutex
	tokens map[string]model.RefreshToken
}

func NewMemoryTokenRepository() *MemoryTokenRepository {
	return &MemoryTokenRepository{tokens: make(map[string]model.RefreshToken)}
}

func (r *MemoryTokenRepository) Create(_ context.Context, token *model.RefreshToken) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.tokens[token.TokenHash] = *token
	return nil
}

func (r *MemoryTokenRepository) GetByTokenHash(_ context.Context, tokenHash string) (*model.RefreshToken, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	t, ok := r.tokens[tokenHash]
	if !ok {
		return nil, sql.ErrNoRows
	}
	return &t, nil
}

func (r *MemoryTokenRepository) MarkUsed(_ context.Context, tokenHash string) (bool, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	t, ok := r.tokens[tokenHash]
	if !ok || t.Used || t.Invalidated {
		return false, nil
	}
	t.Used = true
	r.tokens[tokenHash] = t
	return true, nil
}

type MemoryPostRepository struct {
	mu    sync.RWMutex
	posts map[string]model.Post
}

func NewMemoryPostRepository() *MemoryPostRepository {
	return &MemoryPostRepository{posts: make(map[string]model.Post)}
}

func (r *MemoryPostRepository) Create(_ context.Context, post *model.Post) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	post.CreatedAt = time.Now().UTC()
	r.posts[post.ID] = *post
	return nil
}

func (r *MemoryPostRepository) GetAll(_ context.Context) ([]*model.Post, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	posts := make([]*model.Post, 0, len(r.posts))
	for _, p := range r.posts {
		cp := p
		posts = append(posts, &cp)
	}
	sort.Slice(posts, func(i, j int) bool {
		if !posts[i].CreatedAt.Equal(posts[j].CreatedAt) {
			return posts[i].CreatedAt.Before(posts[j].CreatedAt)
		}
		return posts[i].ID < posts[j].ID
	})
	return posts, nil
}

func (r *MemoryPostRepository) GetByID(_ context.Context, id string) (*model.Post, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	p, ok := r.posts[id]
	if !ok {
		return nil, sql.ErrNoRows
	}
	return &p, nil
}

func (r *MemoryPostRepository) Update(_ context.Context, post *model.Post) (bool, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	p, ok := r.posts[post.ID]
	if !ok {
		return false, nil
	}
	p.Name = post.Name
	r.posts[post.ID] = p
	return true, nil
}

func (r *MemoryPostRepository) Delete(_ context.Context, id string) (bool, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, ok := r.posts[id]; !ok {
		return false, nil
	}
	delete(r.posts, id)
	return true, nil
}

var (
	_ IUserRepository  = (*UserRepository)(nil)
	_ IUserRepository  = (*MemoryUserRepository)(nil)
	_ ITokenRepository = (*TokenRepository)(nil)
	_ ITokenRepository = (*MemoryTokenRepository)(nil)
	_ IPostRepository  = (*PostRepository)(nil)
	_ IPostRepository  = (*MemoryPostRepository)(nil)
)
