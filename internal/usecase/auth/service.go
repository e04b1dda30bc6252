// Package auth owns recruiter account creation and credential checks.
package auth

import (
	"context"
	"errors"
	"strings"

	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"

	"talentmatch/internal/domain/user"
)

var (
	ErrEmailAlreadyRegistered = errors.New("email already registered")
	ErrInvalidCredentials     = errors.New("invalid credentials")
	ErrInvalidInput           = errors.New("invalid input")
	ErrInternal               = errors.New("internal error")
)

// bcrypt silently truncates longer inputs, so longer passwords are rejected
// rather than partially checked.
const (
	minPasswordLen = 8
	maxPasswordLen = 72
)

type RegisterInput struct {
	Email        string
	Password     string
	FullName     string
	Organization string
}

type LoginInput struct {
	Email    string
	Password string
}

type Service struct {
	users user.Repository
}

func NewService(users user.Repository) *Service {
	return &Service{users: users}
}

// Register creates a recruiter account. Email is the login identity and is
// stored lowercased; the organization name is free text shown alongside the
// recruiter in notifications.
func (s *Service) Register(ctx context.Context, in RegisterInput) (user.User, error) {
	email := normalizeEmail(in.Email)
	fullName := strings.TrimSpace(in.FullName)
	if !isValidEmail(email) || fullName == "" || !isValidPassword(in.Password) {
		return user.User{}, ErrInvalidInput
	}

	_, err := s.users.GetUserByEmail(ctx, email)
	switch {
	case err == nil:
		return user.User{}, ErrEmailAlreadyRegistered
	case !errors.Is(err, user.ErrNotFound):
		return user.User{}, ErrInternal
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(in.Password), bcrypt.DefaultCost)
	if err != nil {
		return user.User{}, ErrInternal
	}

	u := user.User{
		ID:           uuid.New(),
		Email:        email,
		FullName:     fullName,
		Organization: strings.TrimSpace(in.Organization),
		Role:         user.RoleRecruiter,
		PasswordHash: string(hash),
	}

	if err := s.users.CreateUser(ctx, u); err != nil {
		// A concurrent signup may have won the unique-email race.
		if _, exErr := s.users.GetUserByEmail(ctx, email); exErr == nil {
			return user.User{}, ErrEmailAlreadyRegistered
		}
		return user.User{}, ErrInternal
	}

	return sanitize(u), nil
}

func (s *Service) Login(ctx context.Context, in LoginInput) (user.User, error) {
	email := normalizeEmail(in.Email)
	if email == "" || in.Password == "" {
		return user.User{}, ErrInvalidCredentials
	}

	u, err := s.users.GetUserByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, user.ErrNotFound) {
			return user.User{}, ErrInvalidCredentials
		}
		return user.User{}, ErrInternal
	}

	if err := bcrypt.CompareHashAndPassword([]byte(u.PasswordHash), []byte(in.Password)); err != nil {
		return user.User{}, ErrInvalidCredentials
	}

	return sanitize(u), nil
}

func normalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}

func isValidEmail(email string) bool {
	at := strings.Index(email, "@")
	return at > 0 && at < len(email)-1
}

func isValidPassword(pw string) bool {
	return len(pw) >= minPasswordLen && len(pw) <= maxPasswordLen
}

func sanitize(u user.User) user.User {
	u.PasswordHash = ""
	return u
}
