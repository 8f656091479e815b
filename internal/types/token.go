package types

import (
	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
)

// AuthUser is the verified identity of the caller. AccessToken is the raw bearer
// token, retained so it can be forwarded to the row-store platform.
type AuthUser struct {
	ID          uuid.UUID `json:"id"`
	Email       string    `json:"email,omitempty"`
	AccessToken string    `json:"-"`
}

// TokenClaims represents the claims in a platform-issued JWT access token.
// The user id travels in the registered subject claim.
type TokenClaims struct {
	jwt.RegisteredClaims
	Email string `json:"email,omitempty"`
}
