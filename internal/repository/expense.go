package repository

import (
	"context"

	"expense-tracker/internal/domain"
)

// ExpenseRepository persists expenses. Every method that touches existing rows
// takes the acting user's ID and only sees rows owned by that user.
type ExpenseRepository interface {
	Init(ctx context.Context) error
	Create(ctx context.Context, expense *domain.Expense) (int64, error)
	ListByUser(ctx context.Context, userID int64) ([]domain.Expense, error)
	// Update returns ErrNotFound when no row with id is owned by userID.
	Update(ctx context.Context, userID, id int64, name string, amount domain.Amount) error
	// Delete returns ErrNotFound when no row with id is owned by userID.
	Delete(ctx context.Context, userID, id int64) error
}
