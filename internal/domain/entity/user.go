package entity

import (
	"slices"
	"time"

	"github.com/google/uuid"
)

// RoleMemberPendingApproval is granted when a membership payment is finalized.
const RoleMemberPendingApproval = "member_pending_approval"

// RoleAdmin allows access to the membership settings surface.
const RoleAdmin = "admin"

// User represents a member account in the system
type User struct {
	ID           uuid.UUID `json:"id" db:"id"`
	Email        string    `json:"email" db:"email"`
	Username     string    `json:"username" db:"username"`
	PasswordHash string    `json:"-" db:"password_hash"`
	DisplayName  *string   `json:"display_name,omitempty" db:"display_name"`
	Roles        []string  `json:"roles" db:"roles"`
	IsActive     bool      `json:"is_active" db:"is_active"`
	CreatedAt    time.Time `json:"created_at" db:"created_at"`
	UpdatedAt    time.Time `json:"updated_at" db:"updated_at"`
}

// UserCreate represents data needed to create a new user
type UserCreate struct {
	Email       string  `json:"email" validate:"required,email"`
	Username    string  `json:"username" validate:"required,min=3,max=100"`
	Password    string  `json:"password" validate:"required,min=8"`
	DisplayName *string `json:"display_name,omitempty"`
}

// HasRole reports whether the user holds the given role
func (u *User) HasRole(role string) bool {
	return slices.Contains(u.Roles, role)
}

// AddRole appends a role if the user does not already hold it
func (u *User) AddRole(role string) bool {
	if u.HasRole(role) {
		return false
	}
	u.Roles = append(u.Roles, role)
	return true
}

// PreferredName returns the display name, falling back to the username
func (u *User) PreferredName() string {
	if u.DisplayName != nil && *u.DisplayName != "" {
		return *u.DisplayName
	}
	return u.Username
}
