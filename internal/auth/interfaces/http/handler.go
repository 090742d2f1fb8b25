package http

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/wyfcoding/inventory/internal/auth/application"
	"github.com/wyfcoding/inventory/internal/auth/domain"
	"github.com/wyfcoding/inventory/pkg/logger"
	"github.com/wyfcoding/inventory/pkg/response"
)

// Handler serves registration, login, and logout. secureCookie marks the
// session cookie HTTPS-only and should be set outside local development.
type Handler struct {
	auth         *application.AuthService
	cookieName   string
	secureCookie bool
}

func NewHandler(auth *application.AuthService, cookieName string, secureCookie bool) *Handler {
	return &Handler{auth: auth, cookieName: cookieName, secureCookie: secureCookie}
}

// RegisterRoutes mounts the credential endpoints. Guards such as the per-IP
// rate limiter apply to this group only, not the rest of the API.
func (h *Handler) RegisterRoutes(r *gin.RouterGroup, guards ...gin.HandlerFunc) {
	g := r.Group("/v1/auth", guards...)
	g.POST("/register", h.Register)
	g.POST("/login", h.Login)
	g.POST("/logout", h.Logout)
}

func (h *Handler) Register(c *gin.Context) {
	var req struct {
		Email    string `json:"email" binding:"required,email"`
		Password string `json:"password" binding:"required,min=8"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		response.ErrorWithStatus(c, http.StatusBadRequest, err.Error(), "invalid_request")
		return
	}

	id, err := h.auth.Register(c.Request.Context(), application.RegisterCommand{
		Email:    req.Email,
		Password: req.Password,
	})
	if err != nil {
		if errors.Is(err, domain.ErrEmailTaken) {
			response.ErrorWithStatus(c, http.StatusConflict, err.Error(), "email_taken")
			return
		}
		logger.Error(c.Request.Context(), "Failed to register user", "error", err)
		response.ErrorWithStatus(c, http.StatusInternalServerError, "registration failed", "")
		return
	}

	c.JSON(http.StatusCreated, gin.H{"user_id": id})
}

func (h *Handler) Login(c *gin.Context) {
	var req struct {
		Email    string `json:"email" binding:"required"`
		Password string `json:"password" binding:"required"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		response.ErrorWithStatus(c, http.StatusBadRequest, err.Error(), "invalid_request")
		return
	}

	session, err := h.auth.Login(c.Request.Context(), application.LoginCommand{
		Email:    req.Email,
		Password: req.Password,
	})
	if err != nil {
		if errors.Is(err, domain.ErrInvalidCredentials) {
			response.ErrorWithStatus(c, http.StatusUnauthorized, err.Error(), "invalid_credentials")
			return
		}
		logger.Error(c.Request.Context(), "Failed to log in user", "error", err)
		response.ErrorWithStatus(c, http.StatusInternalServerError, "login failed", "")
		return
	}

	maxAge := int(session.ExpiresAt.Sub(session.CreatedAt).Seconds())
	c.SetCookie(h.cookieName, session.Token, maxAge, "/", "", h.secureCookie, true)
	c.JSON(http.StatusOK, gin.H{
		"token":      session.Token,
		"type":       "Bearer",
		"expires_at": session.ExpiresAt.Unix(),
	})
}

func (h *Handler) Logout(c *gin.Context) {
	token := sessionToken(c, h.cookieName)
	if token != "" {
		if err := h.auth.Logout(c.Request.Context(), token); err != nil {
			logger.Warn(c.Request.Context(), "Failed to drop session", "error", err)
		}
	}
	c.SetCookie(h.cookieName, "", -1, "/", "", h.secureCookie, true)
	c.Status(http.StatusNoContent)
}
