package auth

import "github.com/golang-jwt/jwt/v5"

// SessionClaims represents the typed JWT issued when a session is created.
// The subject carries the session id.
type SessionClaims struct {
	jwt.RegisteredClaims
}

// SessionID returns the session the token was minted for.
func (c SessionClaims) SessionID() string {
	return c.Subject
}
