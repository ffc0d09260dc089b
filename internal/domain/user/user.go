package user

import (
	"errors"
	"strings"
	"time"

	"github.com/aadeshp/coursehub/internal/security"
)

const (
	RoleStudent    = "student"
	RoleInstructor = "instructor"
)

type User struct {
	ID           string        `json:"id"`
	Name         string        `json:"name"`
	Phone        string        `json:"phone"`
	Email        string        `json:"email"`
	PasswordHash security.Hash `json:"-"` // never expose hash in JSON
	Role         string        `json:"role"`
	CreatedAt    time.Time     `json:"createdAt"`
	UpdatedAt    time.Time     `json:"updatedAt"`
}

var (
	ErrNotFound           = errors.New("user not found")
	ErrDuplicateEmail     = errors.New("email already registered")
	ErrInvalidCredentials = errors.New("invalid email or password")
	ErrInvalidRole        = errors.New("role must be student or instructor")
)

// NormalizeEmail is applied before every store write and lookup so the
// unique index on email behaves case-insensitively.
func NormalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}

func ValidRole(role string) bool {
	return role == RoleStudent || role == RoleInstructor
}
