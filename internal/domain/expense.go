package domain

import "time"

// Expense is a spending record owned by exactly one user.
type Expense struct {
	ID        int64
	UserID    int64
	Name      string
	Amount    Amount
	CreatedAt time.Time
}
