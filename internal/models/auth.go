package models

import (
	"time"

	"github.com/golang-jwt/jwt/v5"
)

// UserRole represents the two portal audiences.
type UserRole string

const (
	RoleAdmin   UserRole = "ADMIN"
	RoleStudent UserRole = "STUDENT"
)

// StudentLoginRequest authenticates a student by access code.
type StudentLoginRequest struct {
	Code string `json:"code" validate:"required"`
}

// AdminLoginRequest authenticates the administrator.
type AdminLoginRequest struct {
	Password string `json:"password" validate:"required"`
}

// LoginResponse returns the issued token and, for students, their record.
type LoginResponse struct {
	AccessToken  string    `json:"access_token"`
	ExpiresIn    int64     `json:"expires_in"`
	IssuedAt     time.Time `json:"issued_at"`
	Role         UserRole  `json:"role"`
	Student      *Student  `json:"student,omitempty"`
	SessionCount int       `json:"session_count,omitempty"`
}

// JWTClaims represents the access token payload. RegisteredClaims.ID identifies the login
// session that owns generated batches.
type JWTClaims struct {
	Role      UserRole `json:"role"`
	StudentID string   `json:"student_id,omitempty"`
	jwt.RegisteredClaims
}

// LoginID returns the login-session identifier carried by the token.
func (c *JWTClaims) LoginID() string {
	if c == nil {
		return ""
	}
	return c.ID
}
