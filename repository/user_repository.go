package repository

import (
	"context"
	"database/sql"
	"errors"
	"strings"

	"blogger-api/logger"
	"blogger-api/model"

	"github.com/sirupsen/logrus"
)

// IUserRepository is the credential store. Lookups that find nothing return
// sql.ErrNoRows.
type IUserRepository interface {
	CreateUser(ctx context.Context, user *model.User) error
	GetUserByEmail(ctx context.Context, email string) (*model.User, error)
	GetUserByID(ctx context.Context, id string) (*model.User, error)
	GetClaims(ctx context.Context, userID string) ([]model.UserClaim, error)
	AddClaim(ctx context.Context, userID string, claim model.UserClaim) error
}

type UserRepository struct {
	DB *sql.DB
}

func NewUserRepository(db *sql.DB) *UserRepository {
	return &UserRepository{DB: db}
}

// NormalizeEmail is the key emails are compared by.
func NormalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}

func (r *UserRepository) CreateUser(ctx context.Context, user *model.User) error {
	log := logger.Log.WithFields(logrus.Fields{
		"user_id": user.ID,
		"email":   user.Email,
	})
	log.Info("Executing query to create a new user")

	query := `INSERT INTO users (id, email, normalized_email, password_hash) VALUES ($1, $2, $3, $4) RETURNING created_at`
	err := r.DB.QueryRowContext(ctx, query, user.ID, user.Email, NormalizeEmail(user.Email), user.PasswordHash).Scan(&user.CreatedAt)
	if err != nil {
		if isUniqueViolation(err) {
			log.Warn("User with this email already exists")
			return ErrDuplicateEmail
		}
		log.WithError(err).Error("Failed to execute create user query")
		return err
	}
	return nil
}

func (r *UserRepository) GetUserByEmail(ctx context.Context, email string) (*model.User, error) {
	query := `SELECT id, email, password_hash, created_at FROM users WHERE normalized_email = $1`
	return r.getUser(ctx, logger.Log.WithField("email", email), query, NormalizeEmail(email))
}

func (r *UserRepository) GetUserByID(ctx context.Context, id string) (*model.User, error) {
	query := `SELECT id, email, password_hash, created_at FROM users WHERE id = $1`
	return r.getUser(ctx, logger.Log.WithField("user_id", id), query, id)
}

func (r *UserRepository) getUser(ctx context.Context, log *logrus.Entry, query string, arg string) (*model.User, error) {
	log.Info("Executing query to get user")

	user := &model.User{}
	err := r.DB.QueryRowContext(ctx, query, arg).Scan(&user.ID, &user.Email, &user.PasswordHash, &user.CreatedAt)
	if err != nil {
		if !errors.Is(err, sql.ErrNoRows) {
			log.WithError(err).Error("Failed to execute get user query")
		}
		return nil, err
	}
	return user, nil
}

// GetClaims returns the user's extra claims in insertion order.
func (r *UserRepository) GetClaims(ctx context.Context, userID string) ([]model.UserClaim, error) {
	log := logger.Log.WithField("user_id", userID)
	log.Info("Executing query to get user claims")

	query := `SELECT claim_type, claim_value FROM user_claims WHERE user_id = $1 ORDER BY id`
	rows, err := r.DB.QueryContext(ctx, query, userID)
	if err != nil {
		log.WithError(err).Error("Failed to execute query for user claims")
		return nil, err
	}
	defer rows.Close()

	var claims []model.UserClaim
	for rows.Next() {
		var c model.UserClaim
		if err := rows.Scan(&c.Type, &c.Value); err != nil {
			log.WithError(err).Error("Failed to scan user claim row")
			return nil, err
		}
		claims = append(claims, c)
	}
	return claims, rows.Err()
}

func (r *UserRepository) AddClaim(ctx context.Context, userID string, claim model.UserClaim) error {
	log := logger.Log.WithFields(logrus.Fields{
		"user_id":    userID,
		"claim_type": claim.Type,
	})
	log.Info("Executing query to add a user claim")

	query := `INSERT INTO user_claims (user_id, claim_type, claim_value) VALUES ($1, $2, $3)`
	if _, err := r.DB.ExecContext(ctx, query, userID, claim.Type, claim.Value); err != nil {
		log.WithError(err).Error("Failed to execute add user claim query")
		return err
	}
	return nil
}
