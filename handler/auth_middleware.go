package handler

import (
	"context"
	"errors"
	"net/http"
	"strings"

	"blogger-api/common"
	"blogger-api/logger"
	"blogger-api/model"
	"blogger-api/token"

	"github.com/golang-jwt/jwt/v5"
	"github.com/sirupsen/logrus"
)

type contextKey string

const (
	UserIDKey    contextKey = "userID"
	UserEmailKey contextKey = "userEmail"
	ClaimsKey    contextKey = "claims"
)

// AuthMiddleware requires a valid, unexpired bearer token and stores the
// caller's id, email and claims in the request context.
func AuthMiddleware(codec *token.Codec) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			authHeader := r.Header.Get("Authorization")
			if authHeader == "" {
				common.NewAppError(http.StatusUnauthorized, "Authorization header is required", nil).Send(w)
				return
			}

			headerParts := strings.Fields(authHeader)
			if len(headerParts) != 2 || !strings.EqualFold(headerParts[0], "bearer") {
				common.NewAppError(http.StatusUnauthorized, "Invalid authorization header format", nil).Send(w)
				return
			}

			claims, err := codec.Decode(headerParts[1], false)
			if err != nil {
				message := "Invalid token"
				if errors.Is(err, jwt.ErrTokenExpired) {
					message = "Token has expired"
				}
				w.Header().Set("WWW-Authenticate", `Bearer error="invalid_token"`)
				common.NewAppError(http.StatusUnauthorized, message, nil).Send(w)
				return
			}

			setRequestUser(r.Context(), claims.UserID)

			ctx := context.WithValue(r.Context(), UserIDKey, claims.UserID)
			ctx = context.WithValue(ctx, UserEmailKey, claims.Email)
			ctx = context.WithValue(ctx, ClaimsKey, claims)

			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

// RequireClaim admits only callers whose access token carries claimType with
// the given value. It must run after AuthMiddleware.
func RequireClaim(claimType, value string) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			claims, ok := ClaimsFromContext(r.Context())
			if !ok || claims == nil || claims.Extra[claimType] != value {
				logger.Log.WithFields(logrus.Fields{
					"claim":  claimType,
					"path":   r.URL.Path,
					"method": r.Method,
				}).Warn("Request rejected: required claim missing")
				common.NewAppError(http.StatusForbidden, "Access denied. Required claim is missing.", nil).Send(w)
				return
			}

			next.ServeHTTP(w, r)
		})
	}
}

// UserIDFromContext returns the authenticated caller's id.
func UserIDFromContext(ctx context.Context) (string, bool) {
	id, ok := ctx.Value(UserIDKey).(string)
	return id, ok && id != ""
}

// ClaimsFromContext returns the decoded access-token claims of the caller.
func ClaimsFromContext(ctx context.Context) (*model.Claims, bool) {
	claims, ok := ctx.Value(ClaimsKey).(*model.Claims)
	return claims, ok
}
