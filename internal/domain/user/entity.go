package user

import (
	"time"

	"github.com/google/uuid"
)

// Accounts belong to recruiters driving the matching engine; admin is kept
// for back-office tooling.
const (
	RoleRecruiter = "recruiter"
	RoleAdmin     = "admin"
)

type User struct {
	ID           uuid.UUID `json:"id"`
	Email        string    `json:"email"`
	FullName     string    `json:"full_name"`
	Organization string    `json:"organization,omitempty"`
	Role         string    `json:"role"`
	PasswordHash string    `json:"-"`
	CreatedAt    time.Time `json:"created_at"`
	UpdatedAt    time.Time `json:"updated_at"`
}
