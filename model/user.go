package model

import "time"

// User is a registered identity. Email is unique regardless of case.
type User struct {
	ID           string      `json:"id"`
	Email        string      `json:"email"`
	PasswordHash string      `json:"-"`
	CreatedAt    time.Time   `json:"created_at"`
	Claims       []UserClaim `json:"claims,omitempty"`
}

// UserClaim is an extra attribute attached to a user and copied into every
// access token issued for them.
type UserClaim struct {
	Type  string `json:"type"`
	Value string `json:"value"`
}
