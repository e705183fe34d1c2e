package model

import (
	"encoding/json"

	"github.com/golang-jwt/jwt/v5"
)

// Claims is the claim set carried by an access token. Extra holds claims
// copied from the user record and is flattened into the top-level JSON
// object; entries whose key collides with a known claim are dropped.
type Claims struct {
	Email  string            `json:"email"`
	UserID string            `json:"id"`
	Extra  map[string]string `json:"-"`
	jwt.RegisteredClaims
}

var reservedClaims = map[string]struct{}{
	"iss": {}, "sub": {}, "aud": {}, "exp": {}, "nbf": {}, "iat": {}, "jti": {},
	"email": {}, "id": {},
}

// IsReservedClaim reports whether name is one of the claims the codec sets itself.
func IsReservedClaim(name string) bool {
	_, ok := reservedClaims[name]
	return ok
}

func (c Claims) MarshalJSON() ([]byte, error) {
	type known Claims
	b, err := json.Marshal(known(c))
	if err != nil || len(c.Extra) == 0 {
		return b, err
	}

	merged := make(map[string]any)
	if err := json.Unmarshal(b, &merged); err != nil {
		return nil, err
	}
	for k, v := range c.Extra {
		if IsReservedClaim(k) {
			continue
		}
		merged[k] = v
	}
	return json.Marshal(merged)
}

func (c *Claims) UnmarshalJSON(data []byte) error {
	type known Claims
	var k known
	if err := json.Unmarshal(data, &k); err != nil {
		return err
	}

	var raw map[string]any
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}
	for name, v := range raw {
		if IsReservedClaim(name) {
			continue
		}
		// Non-string extension claims are not produced by the codec.
		s, ok := v.(string)
		if !ok {
			continue
		}
		if k.Extra == nil {
			k.Extra = make(map[string]string)
		}
		k.Extra[name] = s
	}

	*c = Claims(k)
	return nil
}
