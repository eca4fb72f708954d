package http

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"expense-tracker/internal/service"
)

const userIDKey = "userID"

func (h *Handler) register(c *gin.Context) {
	var req service.RegisterInput
	if err := c.ShouldBindJSON(&req); err != nil {
		h.respondError(c, invalidBody())
		return
	}

	user, err := h.users.Register(c.Request.Context(), req)
	if err != nil {
		h.respondError(c, err)
		return
	}

	h.logger.WithField("user_id", user.ID).Info("user registered")
	c.JSON(http.StatusCreated, gin.H{"message": "Registration successful"})
}

func (h *Handler) login(c *gin.Context) {
	var req service.LoginInput
	if err := c.ShouldBindJSON(&req); err != nil {
		h.respondError(c, invalidBody())
		return
	}

	if previous, err := c.Cookie(h.cookie.Name); err == nil {
		req.PreviousToken = previous
	}

	user, token, err := h.users.Login(c.Request.Context(), req)
	if err != nil {
		h.respondError(c, err)
		return
	}

	h.setSessionCookie(c, token)
	h.logger.WithField("user_id", user.ID).Info("user logged in")
	c.JSON(http.StatusOK, gin.H{"message": "Login successful"})
}

func (h *Handler) logout(c *gin.Context) {
	if token, err := c.Cookie(h.cookie.Name); err == nil {
		if err := h.users.Logout(c.Request.Context(), token); err != nil {
			h.respondError(c, err)
			return
		}
	}
	h.clearSessionCookie(c)
	c.JSON(http.StatusOK, gin.H{"message": "Logout successful"})
}

func (h *Handler) me(c *gin.Context) {
	user, err := h.users.GetByID(c.Request.Context(), c.GetInt64(userIDKey))
	if err != nil {
		// a live session whose user row is gone no longer identifies anyone
		if errors.Is(err, service.ErrNotFound) {
			err = service.ErrUnauthorized
		}
		h.respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, UserResponse{ID: user.ID, Email: user.Email, Username: user.Username})
}

// requireSession admits a request only when its session cookie resolves to a
// user, and stores that user's ID on the context.
func (h *Handler) requireSession() gin.HandlerFunc {
	return func(c *gin.Context) {
		token, err := c.Cookie(h.cookie.Name)
		if err != nil {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"message": "Unauthorized"})
			return
		}

		userID, err := h.users.Authorize(c.Request.Context(), token)
		if err != nil {
			h.respondError(c, err)
			c.Abort()
			return
		}

		c.Set(userIDKey, userID)
		c.Next()
	}
}

func (h *Handler) setSessionCookie(c *gin.Context, token string) {
	c.SetSameSite(http.SameSiteLaxMode)
	c.SetCookie(h.cookie.Name, token, int(h.cookie.MaxAge.Seconds()), "/", "", h.cookie.Secure, true)
}

func (h *Handler) clearSessionCookie(c *gin.Context) {
	c.SetSameSite(http.SameSiteLaxMode)
	c.SetCookie(h.cookie.Name, "", -1, "/", "", h.cookie.Secure, true)
}

type UserResponse struct {
	ID       int64  `json:"id"`
	Email    string `json:"email"`
	Username string `json:"username"`
}
