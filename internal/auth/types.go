package auth

import (
	"errors"
	"time"
)

// CollectionUsers is the document-store collection holding accounts.
const CollectionUsers = "users"

// Role represents an authorisation tier in the system.
type Role string

const (
	// RoleViewer can read every resource but change nothing.
	RoleViewer Role = "viewer"

	// RoleDriver can additionally update vehicles and delivery jobs.
	RoleDriver Role = "driver"

	// RoleAdmin can additionally acknowledge alerts.
	RoleAdmin Role = "admin"
)

// ValidRoles is the closed set of roles.
var ValidRoles = []Role{RoleAdmin, RoleDriver, RoleViewer}

// ParseRole maps a requested role onto the enumeration. Empty or
// unrecognised values become RoleViewer, the least-privileged role.
func ParseRole(s string) Role {
	switch r := Role(s); r {
	case RoleAdmin, RoleDriver, RoleViewer:
		return r
	default:
		return RoleViewer
	}
}

// User is an account as returned to clients. The password hash is never serialised.
type User struct {
	ID           string    `json:"id"`
	Username     string    `json:"username"`
	Email        string    `json:"email"`
	Role         Role      `json:"role"`
	CreatedAt    time.Time `json:"created_at"`
	PasswordHash string    `json:"-"`
}

// RegisterInput carries the fields accepted at registration.
type RegisterInput struct {
	Username string `json:"username"`
	Email    string `json:"email"`
	Password string `json:"password"`
	Role     string `json:"role,omitempty"`
}

// Sentinel errors for auth operations.
var (
	ErrInvalidCredentials = errors.New("invalid credentials")
	ErrUserNotFound       = errors.New("user not found")
	ErrUsernameExists     = errors.New("username already exists")
	ErrTokenInvalid       = errors.New("invalid token")
	ErrForbidden          = errors.New("insufficient permissions")
	ErrInvalidInput       = errors.New("invalid registration input")
)
