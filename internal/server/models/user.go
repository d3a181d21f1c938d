// Package models holds the persisted entities of the blogging platform and
// the derived attributes computed from them.
package models

import "time"

// Role of an account. The closed set is member/admin.
type Role string

const (
	RoleMember Role = "member"
	RoleAdmin  Role = "admin"
)

// User is an account record. Handle and email stay unique for the lifetime
// of the record, active or not; deactivation never releases them.
type User struct {
	ID             string     `json:"id"`
	Handle         string     `json:"handle"`
	Email          string     `json:"email"`
	PasswordDigest string     `json:"-"`
	FirstName      string     `json:"firstName,omitempty"`
	LastName       string     `json:"lastName,omitempty"`
	Bio            string     `json:"bio,omitempty"`
	AvatarKey      string     `json:"avatarKey,omitempty"`
	AvatarURL      string     `json:"avatarUrl,omitempty"`
	Role           Role       `json:"role"`
	Active         bool       `json:"active"`
	LastLoginAt    *time.Time `json:"lastLoginAt,omitempty"`
	CreatedAt      time.Time  `json:"createdAt"`
	UpdatedAt      time.Time  `json:"updatedAt"`
}

// IsAdmin reports whether the user carries the admin role.
func (u *User) IsAdmin() bool {
	return u != nil && u.Role == RoleAdmin
}
