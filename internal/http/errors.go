package http

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"expense-tracker/internal/service"
)

func invalidBody() error {
	return &service.ValidationError{Fields: []service.FieldError{{Field: "body", Message: "Invalid JSON payload"}}}
}

// respondError maps service errors onto status codes. Anything unrecognised is
// logged and reported as a generic 500 so store internals never reach clients.
func (h *Handler) respondError(c *gin.Context, err error) {
	var verr *service.ValidationError
	switch {
	case errors.As(err, &verr):
		c.JSON(http.StatusBadRequest, gin.H{"errors": verr.Fields})
	case errors.Is(err, service.ErrConflict):
		c.JSON(http.StatusBadRequest, gin.H{"message": "Email or username already exists"})
	case errors.Is(err, service.ErrInvalidCredentials):
		c.JSON(http.StatusUnauthorized, gin.H{"message": "Invalid email or password"})
	case errors.Is(err, service.ErrUnauthorized):
		c.JSON(http.StatusUnauthorized, gin.H{"message": "Unauthorized"})
	case errors.Is(err, service.ErrNotFound):
		c.JSON(http.StatusNotFound, gin.H{"message": "Expense not found"})
	default:
		h.logger.WithFields(logFields(c)).WithError(err).Error("request failed")
		c.JSON(http.StatusInternalServerError, gin.H{"error": "internal server error"})
	}
}
