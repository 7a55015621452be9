// Package token issues and verifies the signed session credential.
// Validity is purely signature plus expiry; there is no server-side
// session state and no revocation list.
package token

import (
	"time"

	"github.com/golang-jwt/jwt/v5"
)

// DefaultTTL is the fixed credential lifetime.
const DefaultTTL = 7 * 24 * time.Hour

// Identity is the subset of a user record embedded in the credential.
type Identity struct {
	UserID uint   `json:"user_id"`
	Email  string `json:"email"`
	Name   string `json:"name"`
	Role   string `json:"role"`
}

// Claims is the JWT payload: the identity plus registered claims.
type Claims struct {
	Identity
	jwt.RegisteredClaims
}

// Generate signs a token for id valid for ttl. A zero ttl falls back
// to DefaultTTL; a negative ttl produces an already-expired token.
func Generate(secret string, id Identity, ttl time.Duration) (string, error) {
	if ttl == 0 {
		ttl = DefaultTTL
	}
	now := time.Now()
	claims := &Claims{
		Identity: id,
		RegisteredClaims: jwt.RegisteredClaims{
			ExpiresAt: jwt.NewNumericDate(now.Add(ttl)),
			IssuedAt:  jwt.NewNumericDate(now),
		},
	}

	tok := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return tok.SignedString([]byte(secret))
}

// Parse verifies signature and expiry and returns the claims.
// Any failure (tampered, expired, malformed) comes back as an error;
// callers treat every error the same way: not authenticated.
func Parse(secret, raw string) (*Claims, error) {
	tok, err := jwt.ParseWithClaims(raw, &Claims{}, func(t *jwt.Token) (interface{}, error) {
		return []byte(secret), nil
	})
	if err != nil {
		return nil, err
	}

	claims, ok := tok.Claims.(*Claims)
	if !ok || !tok.Valid {
		return nil, jwt.ErrTokenInvalidClaims
	}
	return claims, nil
}
