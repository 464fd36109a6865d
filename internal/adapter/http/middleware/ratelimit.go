package middleware

import (
	"context"
	"net/http"

	"github.com/gin-gonic/gin"
)

// RateCounter counts hits per key within a fixed window.
type RateCounter interface {
	Hit(ctx context.Context, key string) (int64, error)
}

// RateLimit caps requests per client IP per window for one route
// class. Compose it per route group: default, bulk, and search classes
// carry different limits.
func RateLimit(counter RateCounter, class string, limit int64) gin.HandlerFunc {
	return func(c *gin.Context) {
		n, err := counter.Hit(c.Request.Context(), class+":"+c.ClientIP())
		if err != nil {
			// Counter outage must not take the API down.
			c.Next()
			return
		}
		if n > limit {
			c.AbortWithStatusJSON(http.StatusTooManyRequests, gin.H{
				"error": "rate_limit_exceeded",
			})
			return
		}
		c.Next()
	}
}
