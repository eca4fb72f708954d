package service

import (
	"context"
	"errors"
	"strings"

	"expense-tracker/internal/domain"
	"expense-tracker/internal/repository"
)

// ExpenseInput is the writable part of an expense. Amount is the decimal text
// as received, e.g. "3.50".
type ExpenseInput struct {
	Name   string `json:"name" validate:"required"`
	Amount string `json:"amount"`
}

// ExpenseService exposes expense operations. Every call is scoped to the
// acting user; there is no way to address an expense by ID alone.
type ExpenseService interface {
	CreateExpense(ctx context.Context, userID int64, in ExpenseInput) (*domain.Expense, error)
	ListExpenses(ctx context.Context, userID int64) ([]domain.Expense, error)
	UpdateExpense(ctx context.Context, userID, id int64, in ExpenseInput) error
	DeleteExpense(ctx context.Context, userID, id int64) error
}

type expenseService struct {
	expenses repository.ExpenseRepository
}

func NewExpenseService(expenses repository.ExpenseRepository) ExpenseService {
	return &expenseService{expenses: expenses}
}

func (s *expenseService) CreateExpense(ctx context.Context, userID int64, in ExpenseInput) (*domain.Expense, error) {
	name, amount, err := parseExpenseInput(in)
	if err != nil {
		return nil, err
	}

	expense := &domain.Expense{
		UserID: userID,
		Name:   name,
		Amount: amount,
	}
	if _, err := s.expenses.Create(ctx, expense); err != nil {
		return nil, storeError("create expense", err)
	}
	return expense, nil
}

func (s *expenseService) ListExpenses(ctx context.Context, userID int64) ([]domain.Expense, error) {
	expenses, err := s.expenses.ListByUser(ctx, userID)
	if err != nil {
		return nil, storeError("list expenses", err)
	}
	if expenses == nil {
		expenses = []domain.Expense{}
	}
	return expenses, nil
}

func (s *expenseService) UpdateExpense(ctx context.Context, userID, id int64, in ExpenseInput) error {
	name, amount, err := parseExpenseInput(in)
	if err != nil {
		return err
	}

	if err := s.expenses.Update(ctx, userID, id, name, amount); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return ErrNotFound
		}
		return storeError("update expense", err)
	}
	return nil
}

func (s *expenseService) DeleteExpense(ctx context.Context, userID, id int64) error {
	if err := s.expenses.Delete(ctx, userID, id); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return ErrNotFound
		}
		return storeError("delete expense", err)
	}
	return nil
}

func parseExpenseInput(in ExpenseInput) (string, domain.Amount, error) {
	in.Name = strings.TrimSpace(in.Name)

	verr := check(in, nil)
	amount, err := domain.ParseAmount(in.Amount)
	if err != nil {
		verr.add("amount", "Amount must be a non-negative number with at most two decimal places")
	}
	if err := verr.orNil(); err != nil {
		return "", 0, err
	}
	return in.Name, amount, nil
}
