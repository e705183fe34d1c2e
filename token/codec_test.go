package token

import (
	"errors"
	"testing"
	"time"

	"blogger-api/model"

	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const secret = "0123456789abcdef0123456789abcdef"

type fakeClock struct{ t time.Time }

func (c *fakeClock) Now() time.Time { return c.t }

func newTestCodec(clock *fakeClock) *Codec {
	return NewCodec(secret, time.Minute, WithClock(clock.Now))
}

func testUser() *model.User {
	return &model.User{
		ID:     "8b7c1d62-7c53-4d3e-9b1e-1f2a3b4c5d6e",
		Email:  "user@example.com",
		Claims: []model.UserClaim{{Type: "blogger.employee", Value: "true"}},
	}
}

func TestCodec_EncodeDecode(t *testing.T) {
	clock := &fakeClock{t: time.Date(2024, 1, 1, 12, 0, 0, 0, time.UTC)}
	codec := newTestCodec(clock)

	issued, err := codec.Encode(testUser())
	require.NoError(t, err)
	assert.NotEmpty(t, issued.Token)
	assert.NotEmpty(t, issued.ID)
	assert.WithinDuration(t, clock.t.Add(time.Minute), issued.ExpiresAt, 0)

	claims, err := codec.Decode(issued.Token, false)
	require.NoError(t, err)
	assert.Equal(t, issued.ID, claims.ID)
	assert.Equal(t, "user@example.com", claims.Subject)
	assert.Equal(t, "user@example.com", claims.Email)
	assert.Equal(t, "8b7c1d62-7c53-4d3e-9b1e-1f2a3b4c5d6e", claims.UserID)
	assert.Equal(t, "true", claims.Extra["blogger.employee"])
}

func TestCodec_EachTokenGetsFreshJti(t *testing.T) {
	codec := newTestCodec(&fakeClock{t: time.Now()})

	a, err := codec.Encode(testUser())
	require.NoError(t, err)
	b, err := codec.Encode(testUser())
	require.NoError(t, err)

	assert.NotEqual(t, a.ID, b.ID)
	assert.NotEqual(t, a.Token, b.Token)
}

func TestCodec_ExpiredToken(t *testing.T) {
	clock := &fakeClock{t: time.Date(2024, 1, 1, 12, 0, 0, 0, time.UTC)}
	codec := newTestCodec(clock)

	issued, err := codec.Encode(testUser())
	require.NoError(t, err)

	clock.t = clock.t.Add(2 * time.Minute)

	_, err = codec.Decode(issued.Token, false)
	assert.ErrorIs(t, err, ErrInvalidToken)
	assert.ErrorIs(t, err, jwt.ErrTokenExpired)

	claims, err := codec.Decode(issued.Token, true)
	require.NoError(t, err)
	assert.Equal(t, issued.ID, claims.ID)
}

func TestCodec_RejectsForeignSignature(t *testing.T) {
	clock := &fakeClock{t: time.Now()}
	other := NewCodec("another-secret-another-secret-xx", time.Minute, WithClock(clock.Now))

	issued, err := other.Encode(testUser())
	require.NoError(t, err)

	_, err = newTestCodec(clock).Decode(issued.Token, true)
	assert.ErrorIs(t, err, ErrInvalidToken)
	assert.ErrorIs(t, err, jwt.ErrTokenSignatureInvalid)
}

func TestCodec_RejectsOtherAlgorithms(t *testing.T) {
	clock := &fakeClock{t: time.Now()}
	claims := model.Claims{
		UserID:           "1",
		RegisteredClaims: jwt.RegisteredClaims{ID: "jti", ExpiresAt: jwt.NewNumericDate(clock.t.Add(time.Minute))},
	}

	hs512, err := jwt.NewWithClaims(jwt.SigningMethodHS512, claims).SignedString([]byte(secret))
	require.NoError(t, err)
	unsigned, err := jwt.NewWithClaims(jwt.SigningMethodNone, claims).SignedString(jwt.UnsafeAllowNoneSignatureType)
	require.NoError(t, err)

	for name, tok := range map[string]string{"HS512": hs512, "none": unsigned} {
		t.Run(name, func(t *testing.T) {
			_, err := newTestCodec(clock).Decode(tok, true)
			assert.ErrorIs(t, err, ErrInvalidToken)
		})
	}
}

func TestCodec_RejectsMissingIdentityClaims(t *testing.T) {
	clock := &fakeClock{t: time.Now()}
	claims := model.Claims{
		RegisteredClaims: jwt.RegisteredClaims{ExpiresAt: jwt.NewNumericDate(clock.t.Add(time.Minute))},
	}
	tok, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte(secret))
	require.NoError(t, err)

	_, err = newTestCodec(clock).Decode(tok, false)
	assert.True(t, errors.Is(err, ErrInvalidToken))
}

func TestCodec_RejectsGarbage(t *testing.T) {
	_, err := newTestCodec(&fakeClock{t: time.Now()}).Decode("not-a-jwt", true)
	assert.ErrorIs(t, err, ErrInvalidToken)
}
