package models

import (
	"errors"
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

// ErrNoExpiry is returned by [AuthToken.ExpiresAt] when the token is opaque
// or carries no "exp" claim.
var ErrNoExpiry = errors.New("token has no expiry")

// AuthToken is the bearer token issued by the remote credential service.
// It is persisted in plaintext and treated as opaque by the session.
type AuthToken struct {
	Access string `json:"access"`
}

// IsZero reports whether the token is empty.
func (t AuthToken) IsZero() bool {
	return strings.TrimSpace(t.Access) == ""
}

// String returns the raw bearer value.
func (t AuthToken) String() string {
	return t.Access
}

// ExpiresAt reads the "exp" claim of a JWT access token without verifying
// its signature. The client holds no verification key, so the value is
// informational only.
func (t AuthToken) ExpiresAt() (time.Time, error) {
	token, _, err := jwt.NewParser().ParseUnverified(t.Access, jwt.MapClaims{})
	if err != nil {
		return time.Time{}, ErrNoExpiry
	}

	exp, err := token.Claims.GetExpirationTime()
	if err != nil || exp == nil {
		return time.Time{}, ErrNoExpiry
	}

	return exp.Time, nil
}
