package models

import "github.com/golang-jwt/jwt/v5"

// JWTClaims is the access-token payload.
type JWTClaims struct {
	UserID string `json:"uid"`
	Email  string `json:"email"`
	Role   string `json:"role"`
	jwt.RegisteredClaims
}
