package models

import "time"

// UserRole represents the role of a user
type UserRole string

const (
	UserRoleDonor     UserRole = "donor"
	UserRoleRequester UserRole = "requester"
	UserRoleVolunteer UserRole = "volunteer"
	UserRoleAdmin     UserRole = "admin"
)

// ApprovalStatus represents the admin review state of a volunteer account.
// rejected is terminal; approved enables matching.
type ApprovalStatus string

const (
	ApprovalStatusPending  ApprovalStatus = "pending"
	ApprovalStatusApproved ApprovalStatus = "approved"
	ApprovalStatusRejected ApprovalStatus = "rejected"
)

// User represents any account in the system. Volunteers additionally carry
// an authoritative location and an approval status; the push token is opaque
// to the engine and owned by the notification collaborator.
type User struct {
	ID             string         `json:"id" dynamodbav:"id"`
	Email          string         `json:"email" dynamodbav:"email"`
	Name           string         `json:"name" dynamodbav:"name"`
	PasswordHash   string         `json:"-" dynamodbav:"password_hash"`
	Phone          string         `json:"phone,omitempty" dynamodbav:"phone,omitempty"`
	Role           UserRole       `json:"role" dynamodbav:"role"`
	City           string         `json:"city,omitempty" dynamodbav:"city,omitempty"`         // display-cased
	Location       string         `json:"location,omitempty" dynamodbav:"location,omitempty"` // canonical lowercase
	ApprovalStatus ApprovalStatus `json:"approvalStatus,omitempty" dynamodbav:"approvalStatus,omitempty"`
	PushToken      string         `json:"-" dynamodbav:"push_token,omitempty"`
	CreatedAt      time.Time      `json:"createdAt" dynamodbav:"createdAt"`
	UpdatedAt      time.Time      `json:"updatedAt" dynamodbav:"updatedAt"`
}

// IsApprovedVolunteer reports whether u is a matching candidate.
func (u *User) IsApprovedVolunteer() bool {
	return u.Role == UserRoleVolunteer && u.ApprovalStatus == ApprovalStatusApproved
}

// RegisterRequest is the body for POST /auth/register
type RegisterRequest struct {
	Email     string   `json:"email" validate:"required,email"`
	Name      string   `json:"name" validate:"required,min=2,max=100"`
	Password  string   `json:"password" validate:"required,min=8"`
	Phone     string   `json:"phone,omitempty" validate:"omitempty,min=6,max=20"`
	Role      UserRole `json:"role" validate:"required,oneof=donor requester volunteer"`
	City      string   `json:"city,omitempty"`
	PushToken string   `json:"pushToken,omitempty"`
}

// LoginRequest is the body for POST /auth/login
type LoginRequest struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required"`
}

// LoginResponse carries the issued bearer token
type LoginResponse struct {
	Token string `json:"token"`
	User  *User  `json:"user"`
}

// ApprovalRequest is the body for PATCH /volunteers/{id}/approval
type ApprovalRequest struct {
	Status ApprovalStatus `json:"status" validate:"required,oneof=approved rejected"`
}

// BulkApproveRequest is the body for POST /volunteers/bulk-approve
type BulkApproveRequest struct {
	IDs []string `json:"ids" validate:"required,min=1"`
}

// BulkApproveResult reports how many updates actually applied. Each item is
// updated independently; a partial failure leaves the rest untouched.
type BulkApproveResult struct {
	Requested int      `json:"requested"`
	Applied   int      `json:"applied"`
	Failed    []string `json:"failed,omitempty"`
}
