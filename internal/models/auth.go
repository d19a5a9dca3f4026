package models

import "github.com/golang-jwt/jwt/v5"

// Role values issued by the identity provider.
type Role string

const (
	RoleTeacher Role = "TEACHER"
	RoleAdmin   Role = "ADMIN"
)

// JWTClaims are the claims the identity provider puts into access tokens.
type JWTClaims struct {
	UserID string `json:"user_id"`
	Name   string `json:"name"`
	Role   Role   `json:"role"`
	jwt.RegisteredClaims
}
