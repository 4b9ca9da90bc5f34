// Package model defines the data structures shared by the service and
// repository layers.
package model

import "time"

// User roles. Role is stored as a plain string but only these two values
// are ever written.
const (
	RoleUser  = "user"
	RoleAdmin = "admin"
)

// User represents a registered account.
//
// PasswordHash is the full bcrypt output and is never serialized — the
// json:"-" tag keeps it out of every API response.
type User struct {
	ID           string     `json:"id"`
	Name         string     `json:"name"`
	Email        string     `json:"email"`
	PasswordHash string     `json:"-"`
	Role         string     `json:"role"`
	Bio          string     `json:"bio,omitempty"`
	AvatarURL    string     `json:"avatar_url,omitempty"`
	Preferences  string     `json:"preferences,omitempty"` // JSON blob, opaque to the server
	IsActive     bool       `json:"is_active"`
	IsVerified   bool       `json:"is_verified"`
	CreatedAt    time.Time  `json:"created_at"`
	UpdatedAt    time.Time  `json:"updated_at"`
	LastLogin    *time.Time `json:"last_login,omitempty"`
	LastLogout   *time.Time `json:"last_logout,omitempty"`
}
