package service

import (
	"context"
	"errors"
	"strings"

	"expense-tracker/internal/domain"
	"expense-tracker/internal/password"
	"expense-tracker/internal/repository"
	"expense-tracker/internal/session"
)

// maxPasswordBytes is the longest input bcrypt accepts.
const maxPasswordBytes = 72

// RegisterInput carries the registration form.
type RegisterInput struct {
	Email    string `json:"email" validate:"required,email"`
	Username string `json:"username" validate:"required,alphanum"`
	Password string `json:"password" validate:"required,min=6"`
}

// LoginInput carries the login form.
type LoginInput struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required"`
	// PreviousToken is the session the client already holds, if any. It is
	// destroyed on a successful login so only the newest session stays valid.
	PreviousToken string `json:"-"`
}

var loginMessages = map[string]string{
	"email.required":    "Email is not valid",
	"email.email":       "Email is not valid",
	"password.required": "Password is required",
}

// UserService describes registration, login and session lifecycle operations.
type UserService interface {
	Register(ctx context.Context, in RegisterInput) (*domain.User, error)
	// Login verifies credentials and returns the user together with a new session token.
	Login(ctx context.Context, in LoginInput) (*domain.User, string, error)
	Logout(ctx context.Context, token string) error
	// Authorize resolves a session token to the acting user's ID or fails with ErrUnauthorized.
	Authorize(ctx context.Context, token string) (int64, error)
	GetByID(ctx context.Context, id int64) (*domain.User, error)
}

type userService struct {
	users    repository.UserRepository
	hasher   password.Hasher
	sessions session.Manager
}

func NewUserService(users repository.UserRepository, hasher password.Hasher, sessions session.Manager) UserService {
	return &userService{
		users:    users,
		hasher:   hasher,
		sessions: sessions,
	}
}

func (s *userService) Register(ctx context.Context, in RegisterInput) (*domain.User, error) {
	in.Email = strings.TrimSpace(in.Email)
	in.Username = strings.TrimSpace(in.Username)

	verr := check(in, nil)
	if len(in.Password) > maxPasswordBytes {
		verr.add("password", "Password must be at most 72 bytes long")
	}
	if err := verr.orNil(); err != nil {
		return nil, err
	}

	_, err := s.users.GetByEmailOrUsername(ctx, in.Email, in.Username)
	switch {
	case err == nil:
		return nil, ErrConflict
	case !errors.Is(err, repository.ErrNotFound):
		return nil, storeError("lookup user", err)
	}

	hash, err := s.hasher.Hash(in.Password)
	if err != nil {
		return nil, err
	}

	user := &domain.User{
		Email:        in.Email,
		Username:     in.Username,
		PasswordHash: hash,
	}
	if _, err := s.users.Create(ctx, user); err != nil {
		if errors.Is(err, repository.ErrDuplicateKey) {
			return nil, ErrConflict
		}
		return nil, storeError("create user", err)
	}

	return sanitizeUser(user), nil
}

func (s *userService) Login(ctx context.Context, in LoginInput) (*domain.User, string, error) {
	in.Email = strings.TrimSpace(in.Email)

	if err := check(in, loginMessages).orNil(); err != nil {
		return nil, "", err
	}

	user, err := s.users.GetByEmail(ctx, in.Email)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, "", ErrInvalidCredentials
		}
		return nil, "", storeError("lookup user", err)
	}

	if !s.hasher.Verify(in.Password, user.PasswordHash) {
		return nil, "", ErrInvalidCredentials
	}

	if err := s.sessions.Destroy(ctx, in.PreviousToken); err != nil {
		return nil, "", storeError("destroy previous session", err)
	}

	token, err := s.sessions.Create(ctx, user.ID)
	if err != nil {
		return nil, "", storeError("create session", err)
	}

	return sanitizeUser(user), token, nil
}

func (s *userService) Logout(ctx context.Context, token string) error {
	if err := s.sessions.Destroy(ctx, token); err != nil {
		return storeError("destroy session", err)
	}
	return nil
}

func (s *userService) Authorize(ctx context.Context, token string) (int64, error) {
	userID, err := s.sessions.Resolve(ctx, token)
	if err != nil {
		if errors.Is(err, session.ErrNotFound) {
			return 0, ErrUnauthorized
		}
		return 0, storeError("resolve session", err)
	}
	return userID, nil
}

func (s *userService) GetByID(ctx context.Context, id int64) (*domain.User, error) {
	user, err := s.users.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, ErrNotFound
		}
		return nil, storeError("get user", err)
	}
	return sanitizeUser(user), nil
}

func sanitizeUser(user *domain.User) *domain.User {
	if user == nil {
		return nil
	}
	return &domain.User{
		ID:        user.ID,
		Email:     user.Email,
		Username:  user.Username,
		CreatedAt: user.CreatedAt,
	}
}
