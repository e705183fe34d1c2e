// file: model/token.go

package model

import "time"

// RefreshToken is the persisted half of a token pair. Only the hash of the
// opaque value handed to the client is stored.
type RefreshToken struct {
	TokenHash    string    `json:"-"`
	JwtID        string    `json:"jwt_id"`
	UserID       string    `json:"user_id"`
	CreationDate time.Time `json:"creation_date"`
	ExpiryDate   time.Time `json:"expiry_date"`
	Used         bool      `json:"used"`
	Invalidated  bool      `json:"invalidated"`
}
