package http

import (
	"errors"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/wyfcoding/inventory/internal/auth/application"
	"github.com/wyfcoding/inventory/internal/auth/domain"
	"github.com/wyfcoding/inventory/pkg/logger"
	"github.com/wyfcoding/inventory/pkg/response"
)

// CurrentUserKey is the gin context key under which RequireUser stores the
// resolved user.
const CurrentUserKey = "current_user"

// RequireUser resolves the session and aborts with a redirect to signInURL
// when no authenticated user exists. Handlers behind it can rely on
// CurrentUser never returning nil.
func RequireUser(auth *application.AuthService, cookieName, signInURL string) gin.HandlerFunc {
	return func(c *gin.Context) {
		token := sessionToken(c, cookieName)

		user, err := auth.CurrentUser(c.Request.Context(), token)
		if err != nil {
			if errors.Is(err, domain.ErrAuthRequired) {
				c.Redirect(http.StatusSeeOther, signInURL)
				c.Abort()
				return
			}
			logger.Error(c.Request.Context(), "Failed to resolve session", "error", err)
			response.ErrorWithStatus(c, http.StatusInternalServerError, "session lookup failed", "")
			c.Abort()
			return
		}

		c.Set(CurrentUserKey, user)
		c.Next()
	}
}

// CurrentUser returns the user stored by RequireUser.
func CurrentUser(c *gin.Context) *domain.User {
	user, _ := c.Get(CurrentUserKey)
	u, _ := user.(*domain.User)
	return u
}

func sessionToken(c *gin.Context, cookieName string) string {
	if authz := c.GetHeader("Authorization"); strings.HasPrefix(authz, "Bearer ") {
		return strings.TrimPrefix(authz, "Bearer ")
	}
	if cookie, err := c.Cookie(cookieName); err == nil {
		return cookie
	}
	return ""
}
