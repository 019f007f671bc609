package domain

import (
	"errors"
	"time"
)

// Roles carried in user records and token claims. The set is closed; any
// other value is rejected at registration time.
const (
	RoleAdmin     = "Admin"
	RoleUser      = "User"
	RoleModerator = "Moderator"
)

// DefaultRole is assigned when registration omits the role.
const DefaultRole = RoleUser

// ValidRole reports whether role is one of the three known roles.
func ValidRole(role string) bool {
	switch role {
	case RoleAdmin, RoleUser, RoleModerator:
		return true
	}
	return false
}

// User models an authenticated actor in the system.
type User struct {
	ID           string    `json:"id"`
	Username     string    `json:"username"`
	PasswordHash string    `json:"-"`
	Role         string    `json:"role"`
	CreatedAt    time.Time `json:"created_at"`
	UpdatedAt    time.Time `json:"updated_at"`
}

var (
	ErrUserExists         = errors.New("user already exists")
	ErrUserNotFound       = errors.New("user not found")
	ErrInvalidCredentials = errors.New("invalid credentials")
	ErrValidation         = errors.New("invalid registration input")
	ErrTooManyAttempts    = errors.New("too many failed login attempts")
)
