// Package token signs and verifies HS256 access tokens.
package token

import (
	"errors"
	"fmt"
	"time"

	"blogger-api/model"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
)

// ErrInvalidToken wraps every decode failure: malformed input, a signing
// method other than HS256, a bad signature, missing identity claims, or (in
// strict mode) an expired token.
var ErrInvalidToken = errors.New("invalid token")

var signingMethod = jwt.SigningMethodHS256

// Codec is built once from configuration and is safe for concurrent use.
type Codec struct {
	key      []byte
	lifetime time.Duration
	now      func() time.Time
}

type Option func(*Codec)

// WithClock replaces time.Now for issuance and expiry checks.
func WithClock(now func() time.Time) Option {
	return func(c *Codec) { c.now = now }
}

func NewCodec(secret string, lifetime time.Duration, opts ...Option) *Codec {
	c := &Codec{
		key:      []byte(secret),
		lifetime: lifetime,
		now:      time.Now,
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Issued is a freshly signed access token.
type Issued struct {
	Token     string
	ID        string
	ExpiresAt time.Time
}

// Encode signs an access token for user carrying sub, jti, email, id and
// every claim attached to the user.
func (c *Codec) Encode(user *model.User) (*Issued, error) {
	now := c.now()
	jti := uuid.NewString()

	claims := model.Claims{
		Email:  user.Email,
		UserID: user.ID,
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   user.Email,
			ID:        jti,
			IssuedAt:  jwt.NewNumericDate(now),
			NotBefore: jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(c.lifetime)),
		},
	}
	if len(user.Claims) > 0 {
		claims.Extra = make(map[string]string, len(user.Claims))
		for _, uc := range user.Claims {
			claims.Extra[uc.Type] = uc.Value
		}
	}

	signed, err := jwt.NewWithClaims(signingMethod, claims).SignedString(c.key)
	if err != nil {
		return nil, fmt.Errorf("failed to sign token string: %w", err)
	}

	return &Issued{
		Token:     signed,
		ID:        jti,
		ExpiresAt: claims.ExpiresAt.Time,
	}, nil
}

// Decode verifies tokenString and returns its claims. With allowExpired set
// the time-based claims are not checked, which the refresh flow needs to read
// an expired token; the signature and algorithm are always verified.
func (c *Codec) Decode(tokenString string, allowExpired bool) (*model.Claims, error) {
	opts := []jwt.ParserOption{
		jwt.WithValidMethods([]string{signingMethod.Alg()}),
		jwt.WithTimeFunc(c.now),
	}
	if allowExpired {
		opts = append(opts, jwt.WithoutClaimsValidation())
	}

	claims := &model.Claims{}
	_, err := jwt.ParseWithClaims(tokenString, claims, func(*jwt.Token) (interface{}, error) {
		return c.key, nil
	}, opts...)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrInvalidToken, err)
	}

	if claims.ID == "" || claims.UserID == "" {
		return nil, fmt.Errorf("%w: missing jti or id claim", ErrInvalidToken)
	}
	return claims, nil
}
