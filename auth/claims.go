package auth

import (
	gojwt "github.com/golang-jwt/jwt/v5"
)

// AccessClaims are the token claims the permission engine cares about:
// the subject (user ID) and the requester class.
type AccessClaims struct {
	gojwt.RegisteredClaims

	// Class is the caller's requester classification
	// (e.g., "GUEST", "AUTHENTICATED", "ADMIN").
	Class string `json:"class"`
}
