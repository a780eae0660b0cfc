package auth

import (
	"time"

	"github.com/golang-jwt/jwt/v5"
)

// Token is a bearer token with its expiry.
type Token struct {
	Value     string
	ExpiresAt time.Time
}

// Valid reports whether the token exists and does not expire within skew.
// The skew keeps the client from presenting a token that dies mid-request.
func (t Token) Valid(skew time.Duration) bool {
	if t.Value == "" {
		return false
	}
	return time.Now().Add(skew).Before(t.ExpiresAt)
}

// tokenExpiry extracts the expiry from a JWT's exp claim.
//
// The parse is deliberately unverified: the client is not the token
// authority and has no signing key, it only needs to know when to refresh.
// Opaque (non-JWT) tokens and JWTs without exp fall back to now+fallback.
func tokenExpiry(raw string, fallback time.Duration) time.Time {
	parser := jwt.NewParser()
	claims := jwt.RegisteredClaims{}
	if _, _, err := parser.ParseUnverified(raw, &claims); err == nil {
		if claims.ExpiresAt != nil {
			return claims.ExpiresAt.Time
		}
	}
	return time.Now().Add(fallback)
}
