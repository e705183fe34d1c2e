package model

import (
	"encoding/json"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestClaims_ExtraClaimsAreFlattened(t *testing.T) {
	c := Claims{
		Email:  "user@example.com",
		UserID: "42",
		Extra:  map[string]string{"blogger.employee": "true", "jti": "spoofed"},
		RegisteredClaims: jwt.RegisteredClaims{
			ID:        "real-jti",
			ExpiresAt: jwt.NewNumericDate(time.Unix(1700000000, 0)),
		},
	}

	b, err := json.Marshal(c)
	require.NoError(t, err)

	var raw map[string]any
	require.NoError(t, json.Unmarshal(b, &raw))
	assert.Equal(t, "true", raw["blogger.employee"])
	assert.Equal(t, "real-jti", raw["jti"])
	assert.Equal(t, "42", raw["id"])

	var decoded Claims
	require.NoError(t, json.Unmarshal(b, &decoded))
	assert.Equal(t, "user@example.com", decoded.Email)
	assert.Equal(t, "42", decoded.UserID)
	assert.Equal(t, "real-jti", decoded.ID)
	assert.Equal(t, map[string]string{"blogger.employee": "true"}, decoded.Extra)
	assert.Equal(t, int64(1700000000), decoded.ExpiresAt.Unix())
}

func TestClaims_NoExtra(t *testing.T) {
	b, err := json.Marshal(Claims{Email: "a@b.c"})
	require.NoError(t, err)

	var decoded Claims
	require.NoError(t, json.Unmarshal(b, &decoded))
	assert.Nil(t, decoded.Extra)
	assert.Equal(t, "a@b.c", decoded.Email)
}
