package types

import (
	"github.com/golang-jwt/jwt/v5"
)

// TokenClaims represents the claims in a JWT token issued by the auth service
type TokenClaims struct {
	jwt.RegisteredClaims
	UserID   string `json:"user_id"`
	Username string `json:"username"`
}

// OwnerID returns the user the token speaks for. Older tokens only carry
// the subject claim.
func (c *TokenClaims) OwnerID() string {
	if c.UserID != "" {
		return c.UserID
	}
	return c.Subject
}
