// file: repository/token_repository.go

package repository

import (
	"context"
	"database/sql"
	"errors"

	"blogger-api/logger"
	"blogger-api/model"

	"github.com/sirupsen/logrus"
)

// ITokenRepository defines the contract for refresh token persistence.
type ITokenRepository interface {
	Create(ctx context.Context, token *model.RefreshToken) error
	GetByTokenHash(ctx context.Context, tokenHash string) (*model.RefreshToken, error)
	// MarkUsed consumes the token. It reports false when the token was
	// already used or invalidated, so at most one caller ever gets true.
	MarkUsed(ctx context.Context, tokenHash string) (bool, error)
}

// TokenRepository implements ITokenRepository.
type TokenRepository struct {
	DB *sql.DB
}

// NewTokenRepository creates a new TokenRepository.
func NewTokenRepository(db *sql.DB) *TokenRepository {
	return &TokenRepository{DB: db}
}

// Create inserts a new refresh token record into the database.
func (r *TokenRepository) Create(ctx context.Context, token *model.RefreshToken) error {
	log := logger.Log.WithFields(logrus.Fields{
		"user_id":     token.UserID,
		"jwt_id":      token.JwtID,
		"expiry_date": token.ExpiryDate,
	})
	log.Info("Executing query to create a new refresh token")

	query := `INSERT INTO refresh_tokens (token_hash, jwt_id, user_id, creation_date, expiry_date, used, invalidated) VALUES ($1, $2, $3, $4, $5, $6, $7)`
	_, err := r.DB.ExecContext(ctx, query, token.TokenHash, token.JwtID, token.UserID, token.CreationDate, token.ExpiryDate, token.Used, token.Invalidated)
	if err != nil {
		log.WithError(err).Error("Failed to execute create refresh token query")
		return err
	}
	return nil
}

// GetByTokenHash retrieves a refresh token by its hashed value.
func (r *TokenRepository) GetByTokenHash(ctx context.Context, tokenHash string) (*model.RefreshToken, error) {
	log := logger.Log.WithField("token_hash", tokenHash)
	log.Info("Executing query to get refresh token by hash")

	token := &model.RefreshToken{}
	query := `SELECT token_hash, jwt_id, user_id, creation_date, expiry_date, used, invalidated FROM refresh_tokens WHERE token_hash = $1`
	err := r.DB.QueryRowContext(ctx, query, tokenHash).Scan(
		&token.TokenHash, &token.JwtID, &token.UserID, &token.CreationDate, &token.ExpiryDate, &token.Used, &token.Invalidated,
	)
	if err != nil {
		if !errors.Is(err, sql.ErrNoRows) {
			log.WithError(err).Error("Failed to execute get refresh token by hash query")
		}
		return nil, err // sql.ErrNoRows if not found
	}
	return token, nil
}

// MarkUsed flips used to true with a conditional update; concurrent
// exchanges of the same token race on the row and only one sees a change.
func (r *TokenRepository) MarkUsed(ctx context.Context, tokenHash string) (bool, error) {
	log := logger.Log.WithField("token_hash", tokenHash)
	log.Info("Executing query to mark refresh token as used")

	query := `UPDATE refresh_tokens SET used = TRUE WHERE token_hash = $1 AND used = FALSE AND invalidated = FALSE`
	res, err := r.DB.ExecContext(ctx, query, tokenHash)
	if err != nil {
		log.WithError(err).Error("Failed to execute mark refresh token used query")
		return false, err
	}

	affected, err := res.RowsAffected()
	if err != nil {
		return false, err
	}
	return affected == 1, nil
}
