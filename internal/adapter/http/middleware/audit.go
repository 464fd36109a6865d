package middleware

import (
	"context"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	domain "github.com/rma010101/ecommerce-fullstack/internal/entity"
	"github.com/rma010101/ecommerce-fullstack/internal/logging"
	"github.com/rma010101/ecommerce-fullstack/internal/usecase"
)

// Audit records every request into the query log after the handler
// chain completes. Recording is detached from the request context so a
// cancelled client does not lose the row.
func Audit(audit *usecase.Audit) gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()

		entry := &domain.QueryLog{
			ID:         uuid.NewString(),
			HTTPMethod: c.Request.Method,
			URI:        c.Request.URL.RequestURI(),
			ClientIP:   c.ClientIP(),
			Username:   CallerFrom(c).Username,
			Status:     c.Writer.Status(),
			DurationMs: time.Since(start).Milliseconds(),
			Timestamp:  start,
		}
		if len(c.Errors) > 0 {
			entry.ErrorMsg = c.Errors.String()
		}

		ctx, cancel := context.WithTimeout(context.WithoutCancel(c.Request.Context()), 2*time.Second)
		defer cancel()
		if err := audit.Record(ctx, entry); err != nil {
			logging.From(c).Warn("audit record failed", "err", err)
		}
	}
}
