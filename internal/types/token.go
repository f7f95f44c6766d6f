package types

import (
	"github.com/golang-jwt/jwt/v5"
)

// TokenClaims represents the claims carried by a GOMP bearer token
type TokenClaims struct {
	jwt.RegisteredClaims
	UserID   int64  `json:"user_id"`
	Username string `json:"username"`
}
