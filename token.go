package authclient

import (
	"time"

	"github.com/golang-jwt/jwt/v5"
)

// TokenExpiry reports the expiry claim of a JWT-shaped bearer token, for
// display purposes only. The token is decoded without signature
// verification — the server remains the only authority on validity — and
// opaque tokens (the service's default) yield ok=false with no error.
//
// This helper never feeds auth decisions: the client does not refresh,
// rotate, or preemptively drop tokens.
func TokenExpiry(token string) (expiry time.Time, ok bool) {
	if token == "" {
		return time.Time{}, false
	}
	parser := jwt.NewParser(jwt.WithoutClaimsValidation())
	claims := jwt.RegisteredClaims{}
	if _, _, err := parser.ParseUnverified(token, &claims); err != nil {
		return time.Time{}, false
	}
	if claims.ExpiresAt == nil {
		return time.Time{}, false
	}
	return claims.ExpiresAt.Time, true
}
