package repository

import (
	"context"

	"expense-tracker/internal/domain"
)

// UserRepository persists user credentials.
type UserRepository interface {
	Init(ctx context.Context) error
	// Create inserts the user and fills in its ID. Returns ErrDuplicateKey on a unique violation.
	Create(ctx context.Context, user *domain.User) (int64, error)
	GetByEmail(ctx context.Context, email string) (*domain.User, error)
	// GetByEmailOrUsername returns the first user matching either value.
	GetByEmailOrUsername(ctx context.Context, email, username string) (*domain.User, error)
	GetByID(ctx context.Context, id int64) (*domain.User, error)
}
