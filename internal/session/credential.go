// ABOUTME: Read-only inspection of the stored bearer credential
// ABOUTME: Extracts the JWT expiry for display without verifying the signature

package session

import (
	"time"

	"github.com/golang-jwt/jwt/v5"
)

// CredentialExpiry returns the exp claim of a JWT credential. ok is false for
// opaque tokens or tokens without an expiry. The signature is not verified;
// the result is for display only.
func CredentialExpiry(token string) (expiry time.Time, ok bool) {
	if token == "" {
		return time.Time{}, false
	}
	claims := jwt.MapClaims{}
	if _, _, err := jwt.NewParser().ParseUnverified(token, claims); err != nil {
		return time.Time{}, false
	}
	exp, err := claims.GetExpirationTime()
	if err != nil || exp == nil {
		return time.Time{}, false
	}
	return exp.Time, true
}
