package domain

import (
	"context"
	"strings"
	"time"
)

type Role string

const (
	RoleUser  Role = "user"
	RoleAdmin Role = "admin"
)

// User has no stored role; see RoleFor.
type User struct {
	ID           string    `json:"id"`
	Username     string    `json:"username"`
	Email        string    `json:"email"`
	PasswordHash string    `json:"-"`
	Gender       string    `json:"gender,omitempty"`
	Semester     string    `json:"semester,omitempty"`
	Department   string    `json:"department,omitempty"`
	CreatedAt    time.Time `json:"createdAt"`
}

// RoleFor derives the role of an account from its email. An empty admin
// email never matches.
func RoleFor(email, adminEmail string) Role {
	admin := NormalizeEmail(adminEmail)
	if admin != "" && NormalizeEmail(email) == admin {
		return RoleAdmin
	}
	return RoleUser
}

func NormalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}

type UserRepository interface {
	// Create fails with ErrConflict when the email is taken.
	Create(ctx context.Context, u *User) error
	// FindByID and FindByEmail return ErrNotFound for unknown users.
	FindByID(ctx context.Context, id string) (*User, error)
	FindByEmail(ctx context.Context, email string) (*User, error)
	List(ctx context.Context) ([]User, error)
}
