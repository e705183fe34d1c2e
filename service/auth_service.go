package service

import (
	"context"
	"crypto/sha256"
	"database/sql"
	"encoding/hex"
	"errors"
	"time"

	"blogger-api/logger"
	"blogger-api/model"
	"blogger-api/repository"
	"blogger-api/token"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
)

// AuthConfig is the part of the configuration the identity flows need.
type AuthConfig struct {
	RefreshTokenLifetime time.Duration
	BcryptCost           int
	PasswordPolicy       PasswordPolicy
}

// AuthService registers users, logs them in and rotates refresh tokens.
type AuthService struct {
	userRepo  repository.IUserRepository
	tokenRepo repository.ITokenRepository
	codec     *token.Codec
	cfg       AuthConfig
	now       func() time.Time
}

func NewAuthService(userRepo repository.IUserRepository, tokenRepo repository.ITokenRepository, codec *token.Codec, cfg AuthConfig) *AuthService {
	return &AuthService{
		userRepo:  userRepo,
		tokenRepo: tokenRepo,
		codec:     codec,
		cfg:       cfg,
		now:       time.Now,
	}
}

// Register creates a user for email and issues their first token pair.
func (s *AuthService) Register(ctx context.Context, email, password string) AuthResult {
	log := logger.Log.WithField("email", email)

	existing, err := s.userRepo.GetUserByEmail(ctx, email)
	switch {
	case err == nil && existing != nil:
		log.Info("Registration rejected: email already taken")
		return failed(KindDuplicateUser)
	case err != nil && !errors.Is(err, sql.ErrNoRows):
		return s.internal(log, "look up user", err)
	}

	if problems := s.cfg.PasswordPolicy.Validate(password); len(problems) > 0 {
		log.WithField("violations", len(problems)).Info("Registration rejected by password policy")
		return failed(KindCredentialCreationError, problems...)
	}

	hash, err := HashPassword(password, s.cfg.BcryptCost)
	if err != nil {
		return s.internal(log, "hash password", err)
	}

	user := &model.User{
		ID:           uuid.NewString(),
		Email:        email,
		PasswordHash: hash,
	}
	if err := s.userRepo.CreateUser(ctx, user); err != nil {
		if errors.Is(err, repository.ErrDuplicateEmail) {
			return failed(KindDuplicateUser)
		}
		return s.internal(log, "create user", err)
	}

	log.WithField("user_id", user.ID).Info("User registered")
	return s.issueTokenPair(ctx, user)
}

// Login checks the credentials and issues a new token pair. The two failure
// messages differ, so a caller can tell whether an email is registered.
func (s *AuthService) Login(ctx context.Context, email, password string) AuthResult {
	log := logger.Log.WithField("email", email)

	user, err := s.userRepo.GetUserByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			log.Info("Login rejected: unknown email")
			return failed(KindUserNotFound)
		}
		return s.internal(log, "look up user", err)
	}

	if !CheckPasswordHash(password, user.PasswordHash) {
		log.Info("Login rejected: wrong password")
		return failed(KindInvalidPassword)
	}

	return s.issueTokenPair(ctx, user)
}

// RefreshToken exchanges an expired access token and the refresh token issued
// with it for a new pair. Checks run in a fixed order and the first failure
// is returned; the refresh token is consumed only when every check passes.
func (s *AuthService) RefreshToken(ctx context.Context, accessToken, refreshToken string) AuthResult {
	claims, err := s.codec.Decode(accessToken, true)
	if err != nil || claims.ExpiresAt == nil {
		logger.Log.WithError(err).Info("Refresh rejected: invalid access token")
		return failed(KindInvalidToken)
	}

	log := logger.Log.WithFields(logrus.Fields{
		"user_id": claims.UserID,
		"jti":     claims.ID,
	})

	now := s.now()
	// Only tokens that have already expired may be refreshed.
	if claims.ExpiresAt.Time.After(now) {
		log.Info("Refresh rejected: access token has not expired")
		return failed(KindTokenNotExpired)
	}

	jti := claims.ID

	stored, err := s.tokenRepo.GetByTokenHash(ctx, HashRefreshToken(refreshToken))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			log.Info("Refresh rejected: unknown refresh token")
			return failed(KindRefreshTokenNotFound)
		}
		return s.internal(log, "look up refresh token", err)
	}

	switch {
	case now.After(stored.ExpiryDate):
		log.Info("Refresh rejected: refresh token expired")
		return failed(KindRefreshTokenExpired)
	case stored.Invalidated:
		log.Warn("Refresh rejected: refresh token invalidated")
		return failed(KindRefreshTokenInvalidated)
	case stored.Used:
		log.Warn("Refresh rejected: refresh token already used")
		return failed(KindRefreshTokenUsed)
	case stored.JwtID != jti:
		log.Warn("Refresh rejected: refresh token bound to another access token")
		return failed(KindRefreshTokenMismatch)
	}

	// The owner is loaded before the token is consumed so a failed lookup
	// leaves the refresh token usable.
	user, err := s.userRepo.GetUserByID(ctx, claims.UserID)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return failed(KindUserNotFound)
		}
		return s.internal(log, "look up user", err)
	}

	consumed, err := s.tokenRepo.MarkUsed(ctx, stored.TokenHash)
	if err != nil {
		return s.internal(log, "mark refresh token used", err)
	}
	if !consumed {
		// Lost the race against a concurrent exchange of the same token.
		log.Warn("Refresh rejected: refresh token consumed concurrently")
		return failed(KindRefreshTokenUsed)
	}

	log.Info("Refresh token exchanged")
	return s.issueTokenPair(ctx, user)
}

// issueTokenPair signs an access token and stores the refresh token bound to
// its jti. Nothing is returned to the caller unless the row was persisted.
func (s *AuthService) issueTokenPair(ctx context.Context, user *model.User) AuthResult {
	log := logger.Log.WithField("user_id", user.ID)

	claims, err := s.userRepo.GetClaims(ctx, user.ID)
	if err != nil {
		return s.internal(log, "load user claims", err)
	}
	user.Claims = claims

	issued, err := s.codec.Encode(user)
	if err != nil {
		return s.internal(log, "sign access token", err)
	}

	value := uuid.NewString()
	now := s.now()
	rt := &model.RefreshToken{
		TokenHash:    HashRefreshToken(value),
		JwtID:        issued.ID,
		UserID:       user.ID,
		CreationDate: now,
		ExpiryDate:   now.Add(s.cfg.RefreshTokenLifetime),
	}
	if err := s.tokenRepo.Create(ctx, rt); err != nil {
		return s.internal(log, "store refresh token", err)
	}

	return succeeded(issued.Token, value)
}

func (s *AuthService) internal(log *logrus.Entry, action string, err error) AuthResult {
	log.WithError(err).Errorf("Failed to %s", action)
	return failed(KindInternal)
}

// HashRefreshToken is the key a refresh token value is stored under.
func HashRefreshToken(value string) string {
	sum := sha256.Sum256([]byte(value))
	return hex.EncodeToString(sum[:])
}
