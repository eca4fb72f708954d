package http

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"

	"expense-tracker/internal/service"
)

// CookieConfig controls the session cookie written on login.
type CookieConfig struct {
	Name   string
	MaxAge time.Duration
	Secure bool
}

// Handler wires HTTP routes to domain services.
type Handler struct {
	users       service.UserService
	expenses    service.ExpenseService
	cookie      CookieConfig
	corsOrigins []string
	logger      *logrus.Logger
}

func NewHandler(users service.UserService, expenses service.ExpenseService, cookie CookieConfig, corsOrigins []string, logger *logrus.Logger) *Handler {
	if cookie.Name == "" {
		cookie.Name = "sid"
	}
	if logger == nil {
		logger = logrus.New()
	}
	return &Handler{
		users:       users,
		expenses:    expenses,
		cookie:      cookie,
		corsOrigins: corsOrigins,
		logger:      logger,
	}
}

func (h *Handler) RegisterRoutes(router *gin.Engine) {
	router.Use(requestID(), accessLog(h.logger), corsMiddleware(h.corsOrigins))

	api := router.Group("/api")
	{
		api.GET("/health", func(ctx *gin.Context) {
			ctx.JSON(http.StatusOK, gin.H{"ok": "ok"})
		})

		user := api.Group("/user")
		user.POST("/register", h.register)
		user.POST("/login", h.login)
		user.POST("/logout", h.logout)
		user.GET("/me", h.requireSession(), h.me)
	}

	expenses := router.Group("/expenses", h.requireSession())
	{
		expenses.POST("", h.createExpense)
		expenses.GET("", h.listExpenses)
		expenses.PUT("/:id", h.updateExpense)
		expenses.DELETE("/:id", h.deleteExpense)
	}
}
