package models

import "github.com/golang-jwt/jwt/v5"

// SessionClaims is the JWT payload of the session cookie issued after OAuth
// sign-in. It deliberately carries only the email: role and profile data are
// re-read from the users table on every request so that role changes take
// effect without re-login.
type SessionClaims struct {
	Email string `json:"email"`
	jwt.RegisteredClaims
}
