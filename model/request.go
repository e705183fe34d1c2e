// file: model/request.go

package model

// RegisterRequest defines the payload for creating a new user.
type RegisterRequest struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required"`
}

// LoginRequest defines the payload for user authentication.
type LoginRequest struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required"`
}

// RefreshTokenRequest carries the expired access token together with the
// refresh token issued alongside it. Empty values are left to the identity
// service, which reports them as InvalidToken or RefreshTokenNotFound.
type RefreshTokenRequest struct {
	Token        string `json:"token"`
	RefreshToken string `json:"refreshToken"`
}

type CreatePostRequest struct {
	Name string `json:"name" validate:"required,max=200"`
}

type UpdatePostRequest struct {
	Name string `json:"name" validate:"required,max=200"`
}
