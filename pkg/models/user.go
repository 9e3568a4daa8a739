package models

import "time"

// User roles
const (
	RoleBroker = "broker"
	RoleAdmin  = "admin"
)

// User represents a sales-team member
type User struct {
	ID           string     `json:"id"`
	Name         string     `json:"name"`
	Email        string     `json:"email"`
	Role         string     `json:"role"`
	Avatar       string     `json:"avatar"`
	Permissions  []string   `json:"permissions"`
	IsActive     bool       `json:"is_active"`
	LastLogin    *time.Time `json:"last_login,omitempty"`
	PasswordHash string     `json:"password_hash,omitempty"`
}

// UserPatch holds partial updates for a user. Nil fields are left untouched.
type UserPatch struct {
	Name        *string    `json:"name,omitempty" validate:"omitempty,min=2"`
	Email       *string    `json:"email,omitempty" validate:"omitempty,email"`
	Role        *string    `json:"role,omitempty" validate:"omitempty,oneof=broker admin"`
	Avatar      *string    `json:"avatar,omitempty"`
	Permissions *[]string  `json:"permissions,omitempty"`
	IsActive    *bool      `json:"is_active,omitempty"`
	LastLogin   *time.Time `json:"last_login,omitempty"`
}

// Apply merges the patch into the user
func (p UserPatch) Apply(u *User) {
	if p.Name != nil {
		u.Name = *p.Name
	}
	if p.Email != nil {
		u.Email = *p.Email
	}
	if p.Role != nil {
		u.Role = *p.Role
	}
	if p.Avatar != nil {
		u.Avatar = *p.Avatar
	}
	if p.Permissions != nil {
		u.Permissions = *p.Permissions
	}
	if p.IsActive != nil {
		u.IsActive = *p.IsActive
	}
	if p.LastLogin != nil {
		u.LastLogin = p.LastLogin
	}
}

// Sanitized returns a copy safe for API responses (no password hash)
func (u User) Sanitized() User {
	u.PasswordHash = ""
	return u
}
