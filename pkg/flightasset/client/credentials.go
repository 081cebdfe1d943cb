package client

import (
	"time"

	"github.com/golang-jwt/jwt/v5"
)

// tokenProblem inspects the API token without verifying its signature; the
// client never holds the signing key. It reports why the token is unusable,
// or false when it looks fine.
func tokenProblem(token string, now time.Time) (string, bool) {
	if token == "" {
		return "no API token has been configured", true
	}

	claims := jwt.MapClaims{}
	if _, _, err := jwt.NewParser().ParseUnverified(token, claims); err != nil {
		return "the API token is malformed", true
	}
	exp, err := claims.GetExpirationTime()
	if err != nil {
		return "the API token is malformed", true
	}
	if exp != nil && !exp.After(now) {
		return "the API token expired at " + exp.Time.UTC().Format(time.RFC3339), true
	}
	return "", false
}
