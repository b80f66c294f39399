package hubapi

import (
	"time"

	"github.com/golang-jwt/jwt/v5"
)

// PeekExpiry reads the exp claim out of a bearer token without verifying
// the signature. The client has no signing key; this is display and
// logging information only, never an authorization decision.
func PeekExpiry(token string) (time.Time, bool) {
	parser := jwt.NewParser()

	claims := jwt.MapClaims{}
	if _, _, err := parser.ParseUnverified(token, claims); err != nil {
		return time.Time{}, false
	}

	exp, err := claims.GetExpirationTime()
	if err != nil || exp == nil {
		return time.Time{}, false
	}

	return exp.Time, true
}
