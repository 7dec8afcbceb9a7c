package tokenstore

import (
	"time"

	"github.com/golang-jwt/jwt/v5"
)

// Info is what can be read from a JWT-shaped token without verifying it
type Info struct {
	Subject   string
	IssuedAt  time.Time
	ExpiresAt time.Time
}

// Expired reports whether the token carried an expiry that has passed
func (i Info) Expired(now time.Time) bool {
	return !i.ExpiresAt.IsZero() && now.After(i.ExpiresAt)
}

// Inspect peeks at the claims of a JWT-shaped token for display purposes.
// The signature is not checked and the result must never drive an access decision.
func Inspect(token string) (Info, bool) {
	if token == "" {
		return Info{}, false
	}

	claims := jwt.RegisteredClaims{}
	if _, _, err := jwt.NewParser().ParseUnverified(token, &claims); err != nil {
		return Info{}, false
	}

	info := Info{Subject: claims.Subject}
	if claims.IssuedAt != nil {
		info.IssuedAt = claims.IssuedAt.Time
	}
	if claims.ExpiresAt != nil {
		info.ExpiresAt = claims.ExpiresAt.Time
	}
	return info, true
}
