package auth

import (
	"errors"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

// ErrMalformedToken is returned when a stored token is not a JWT at all.
var ErrMalformedToken = errors.New("malformed session token")

// Claims are the fields the gateway reads from an upstream-issued token. The signature
// belongs to the API and is never verified here; the API stays the authority.
type Claims struct {
	UserID string `json:"id"`
	Role   string `json:"role,omitempty"`
	jwt.RegisteredClaims
}

// InspectToken decodes the token's claims without verifying the signature.
func InspectToken(tokenString string) (*Claims, error) {
	claims := &Claims{}
	parser := jwt.NewParser()
	if _, _, err := parser.ParseUnverified(tokenString, claims); err != nil {
		return nil, ErrMalformedToken
	}
	return claims, nil
}

// Expired reports whether the token's exp claim is at or before now. Tokens without
// an exp claim, or opaque tokens that are not JWTs, are treated as live.
func Expired(tokenString string, now time.Time) bool {
	claims, err := InspectToken(tokenString)
	if err != nil || claims.ExpiresAt == nil {
		return false
	}
	return !now.Before(claims.ExpiresAt.Time)
}
