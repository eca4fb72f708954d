package http

import (
	"bytes"
	"encoding/json"
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"

	"expense-tracker/internal/domain"
	"expense-tracker/internal/service"
)

type expenseRequest struct {
	Name   string          `json:"name"`
	Amount json.RawMessage `json:"amount"`
}

// input accepts the amount as either a JSON number or a numeric string.
func (r expenseRequest) input() service.ExpenseInput {
	raw := bytes.TrimSpace(r.Amount)
	amount := string(raw)
	switch {
	case len(raw) == 0 || bytes.Equal(raw, []byte("null")):
		amount = ""
	case raw[0] == '"':
		if err := json.Unmarshal(raw, &amount); err != nil {
			amount = ""
		}
	}
	return service.ExpenseInput{Name: r.Name, Amount: amount}
}

type ExpenseResponse struct {
	ID        int64         `json:"id"`
	UserID    int64         `json:"user_id"`
	Name      string        `json:"name"`
	Amount    domain.Amount `json:"amount"`
	CreatedAt string        `json:"created_at"`
}

type createdExpenseResponse struct {
	ID     int64         `json:"id"`
	Name   string        `json:"name"`
	Amount domain.Amount `json:"amount"`
}

func (h *Handler) createExpense(c *gin.Context) {
	var req expenseRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.respondError(c, invalidBody())
		return
	}

	expense, err := h.expenses.CreateExpense(c.Request.Context(), c.GetInt64(userIDKey), req.input())
	if err != nil {
		h.respondError(c, err)
		return
	}

	c.JSON(http.StatusCreated, createdExpenseResponse{
		ID:     expense.ID,
		Name:   expense.Name,
		Amount: expense.Amount,
	})
}

func (h *Handler) listExpenses(c *gin.Context) {
	expenses, err := h.expenses.ListExpenses(c.Request.Context(), c.GetInt64(userIDKey))
	if err != nil {
		h.respondError(c, err)
		return
	}

	resp := make([]ExpenseResponse, len(expenses))
	for i := range expenses {
		resp[i] = expenseToResponse(expenses[i])
	}
	c.JSON(http.StatusOK, resp)
}

func (h *Handler) updateExpense(c *gin.Context) {
	id, ok := expenseID(c)
	if !ok {
		h.respondError(c, service.ErrNotFound)
		return
	}

	var req expenseRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.respondError(c, invalidBody())
		return
	}

	if err := h.expenses.UpdateExpense(c.Request.Context(), c.GetInt64(userIDKey), id, req.input()); err != nil {
		h.respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Expense updated successfully"})
}

func (h *Handler) deleteExpense(c *gin.Context) {
	id, ok := expenseID(c)
	if !ok {
		h.respondError(c, service.ErrNotFound)
		return
	}

	if err := h.expenses.DeleteExpense(c.Request.Context(), c.GetInt64(userIDKey), id); err != nil {
		h.respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Expense deleted successfully"})
}

// expenseID parses the :id path segment. A malformed id cannot name an owned expense.
func expenseID(c *gin.Context) (int64, bool) {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil || id <= 0 {
		return 0, false
	}
	return id, true
}

func expenseToResponse(e domain.Expense) ExpenseResponse {
	return ExpenseResponse{
		ID:        e.ID,
		UserID:    e.UserID,
		Name:      e.Name,
		Amount:    e.Amount,
		CreatedAt: e.CreatedAt.UTC().Format(time.RFC3339),
	}
}
