package postgres

import (
	"context"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"

	"expense-tracker/internal/domain"
	"expense-tracker/internal/repository"
)

var _ repository.ExpenseRepository = (*ExpenseRepository)(nil)

// ExpenseRepository stores expenses in Postgres. Amounts use NUMERIC(10,2)
// and travel as text so no precision is lost in either direction.
type ExpenseRepository struct {
	pool *pgxpool.Pool
}

func NewExpenseRepository(pool *pgxpool.Pool) *ExpenseRepository {
	return &ExpenseRepository{pool: pool}
}

func (r *ExpenseRepository) Init(ctx context.Context) error {
	stmts := []string{
		`CREATE TABLE IF NOT EXISTS expenses (
			id BIGSERIAL PRIMARY KEY,
			user_id BIGINT NOT NULL REFERENCES users(id),
			name TEXT NOT NULL,
			amount NUMERIC(10,2) NOT NULL CHECK (amount >= 0),
			created_at TIMESTAMPTZ NOT NULL DEFAULT NOW()
		);`,
		`CREATE INDEX IF NOT EXISTS expenses_user_id_idx ON expenses (user_id);`,
	}
	for _, stmt := range stmts {
		if _, err := r.pool.Exec(ctx, stmt); err != nil {
			return fmt.Errorf("create expenses table: %w", err)
		}
	}
	return nil
}

func (r *ExpenseRepository) Create(ctx context.Context, expense *domain.Expense) (int64, error) {
	if expense.CreatedAt.IsZero() {
		expense.CreatedAt = time.Now().UTC()
	}

	const query = `
		INSERT INTO expenses (user_id, name, amount, created_at)
		VALUES ($1, $2, $3::numeric, $4)
		RETURNING id`
	row := r.pool.QueryRow(ctx, query, expense.UserID, expense.Name, expense.Amount.String(), expense.CreatedAt)
	if err := row.Scan(&expense.ID); err != nil {
		return 0, fmt.Errorf("insert expense: %w", err)
	}
	return expense.ID, nil
}

func (r *ExpenseRepository) ListByUser(ctx context.Context, userID int64) ([]domain.Expense, error) {
	const query = `
		SELECT id, user_id, name, amount::text, created_at
		FROM expenses
		WHERE user_id = $1
		ORDER BY id`
	rows, err := r.pool.Query(ctx, query, userID)
	if err != nil {
		return nil, fmt.Errorf("query expenses: %w", err)
	}

	expenses, err := pgx.CollectRows(rows, func(row pgx.CollectableRow) (domain.Expense, error) {
		var (
			expense domain.Expense
			amount  string
		)
		if err := row.Scan(&expense.ID, &expense.UserID, &expense.Name, &amount, &expense.CreatedAt); err != nil {
			return domain.Expense{}, err
		}
		parsed, err := domain.ParseAmount(amount)
		if err != nil {
			return domain.Expense{}, fmt.Errorf("expense %d amount %q: %w", expense.ID, amount, err)
		}
		expense.Amount = parsed
		return expense, nil
	})
	if err != nil {
		return nil, fmt.Errorf("scan expenses: %w", err)
	}
	return expenses, nil
}

func (r *ExpenseRepository) Update(ctx context.Context, userID, id int64, name string, amount domain.Amount) error {
	const query = `
		UPDATE expenses
		SET name = $1, amount = $2::numeric
		WHERE id = $3 AND user_id = $4`
	tag, err := r.pool.Exec(ctx, query, name, amount.String(), id, userID)
	if err != nil {
		return fmt.Errorf("update expense: %w", err)
	}
	return requireAffected(tag)
}

func (r *ExpenseRepository) Delete(ctx context.Context, userID, id int64) error {
	tag, err := r.pool.Exec(ctx, `DELETE FROM expenses WHERE id = $1 AND user_id = $2`, id, userID)
	if err != nil {
		return fmt.Errorf("delete expense: %w", err)
	}
	return requireAffected(tag)
}

func requireAffected(tag pgconn.CommandTag) error {
	if tag.RowsAffected() == 0 {
		return repository.ErrNotFound
	}
	return nil
}
