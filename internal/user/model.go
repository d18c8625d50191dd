package user

import (
	"errors"
	"time"
)

var (
	ErrNotFound           = errors.New("user not found")
	ErrEmailAlreadyUsed   = errors.New("email already used")
	ErrInvalidCredentials = errors.New("invalid email or password")
	ErrInactiveUser       = errors.New("user is inactive")
	ErrEmailRequired      = errors.New("email is required")
	ErrPasswordTooShort   = errors.New("password is too short")
	ErrInvalidRole        = errors.New("invalid role")
	ErrUnknownDepartment  = errors.New("unknown department")
)

// Role determines what a user may do with bookings. HODs (heads of
// department) are the approvers.
type Role string

const (
	RoleStudent Role = "student"
	RoleTeacher Role = "teacher"
	RoleHOD     Role = "hod"
)

// Valid reports whether r is a known role.
func (r Role) Valid() bool {
	switch r {
	case RoleStudent, RoleTeacher, RoleHOD:
		return true
	}
	return false
}

// IsApprover reports whether the role may approve or reject bookings.
func (r Role) IsApprover() bool {
	return r == RoleHOD
}

// User represents a campus account.
type User struct {
	ID           string // UUID
	Email        string
	PasswordHash string
	DisplayName  string
	Role         Role
	DepartmentID string
	CreatedAt    time.Time
	LastLoginAt  *time.Time
	IsActive     bool
}
