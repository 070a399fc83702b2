package models

import (
	"github.com/golang-jwt/jwt/v5"
)

// JWTClaims represents the JWT claims carried by a bearer token. The
// workflow engine only consumes UserID and Role; everything else is boundary
// plumbing.
type JWTClaims struct {
	UserID   string         `json:"user_id"`
	Email    string         `json:"email"`
	Role     UserRole       `json:"role"`
	Location string         `json:"location,omitempty"`
	Approval ApprovalStatus `json:"approval,omitempty"`

	jwt.RegisteredClaims
}
