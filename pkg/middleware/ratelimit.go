package middleware

import (
	"context"
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/wyfcoding/inventory/pkg/ratelimit"
)

// Allower is the slice of the limiter RateLimit consults.
type Allower interface {
	Allow(ctx context.Context, key string) (ratelimit.Decision, error)
}

// RateLimit throttles requests per client IP. A limiter outage fails open so
// a Redis hiccup cannot lock users out of the guarded endpoints.
func RateLimit(limiter Allower) gin.HandlerFunc {
	return func(c *gin.Context) {
		d, err := limiter.Allow(c.Request.Context(), c.ClientIP())
		if err != nil {
			c.Next()
			return
		}

		c.Header("X-RateLimit-Limit", strconv.Itoa(d.Limit))
		c.Header("X-RateLimit-Remaining", strconv.Itoa(d.Remaining))
		c.Header("X-RateLimit-Reset", strconv.FormatInt(int64(d.ResetAfter/time.Second), 10))

		if !d.Allowed {
			c.Header("Retry-After", strconv.FormatInt(int64(d.RetryAfter/time.Second), 10))
			c.AbortWithStatusJSON(http.StatusTooManyRequests, gin.H{
				"error":       "Too Many Requests",
				"retry_after": d.RetryAfter.String(),
			})
			return
		}

		c.Next()
	}
}
