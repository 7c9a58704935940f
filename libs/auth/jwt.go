package auth

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

var (
	ErrInvalidToken = errors.New("invalid token")
	ErrTokenExpired = errors.New("token expired")
)

// Claims mirrors the payload issued by the booking backend's access tokens.
// The signature is never checked client side; the backend remains the authority.
type Claims struct {
	jwt.RegisteredClaims
	Type  string `json:"type,omitempty"`
	Fresh bool   `json:"fresh,omitempty"`
}

// Expiry is the zero time when the token carries no exp claim.
func (c Claims) Expiry() time.Time {
	if c.ExpiresAt == nil {
		return time.Time{}
	}
	return c.ExpiresAt.Time
}

// LooksLikeJWT reports whether token has the three dot-separated segments of a compact JWS.
func LooksLikeJWT(token string) bool {
	return strings.Count(token, ".") == 2
}

// ParseJWTNoVerify decodes the payload and checks expiry against now.
func ParseJWTNoVerify(token string, now time.Time) (*Claims, error) {
	var claims Claims
	if _, _, err := jwt.NewParser().ParseUnverified(token, &claims); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidToken, err)
	}
	if exp := claims.Expiry(); !exp.IsZero() && now.After(exp) {
		return &claims, ErrTokenExpired
	}
	return &claims, nil
}
