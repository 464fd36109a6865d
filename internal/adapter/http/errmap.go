package http

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	domain "github.com/rma010101/ecommerce-fullstack/internal/entity"
	"github.com/rma010101/ecommerce-fullstack/internal/logging"
)

// respondError maps the domain error taxonomy onto HTTP statuses. No
// core failure is fatal; everything is scoped to the request.
func respondError(c *gin.Context, err error) {
	var ve *domain.ValidationError
	status := http.StatusInternalServerError
	switch {
	case errors.As(err, &ve):
		c.JSON(http.StatusBadRequest, gin.H{"error": "validation_failed", "field": ve.Field, "message": ve.Reason})
		_ = c.Error(err)
		return
	case errors.Is(err, domain.ErrProductNotFound),
		errors.Is(err, domain.ErrOrderNotFound),
		errors.Is(err, domain.ErrUserNotFound):
		status = http.StatusNotFound
	case errors.Is(err, domain.ErrOutOfStock),
		errors.Is(err, domain.ErrDuplicate),
		errors.Is(err, domain.ErrIllegalTransition):
		status = http.StatusConflict
	case errors.Is(err, domain.ErrEmptyCart):
		status = http.StatusBadRequest
	case errors.Is(err, domain.ErrAccessDenied):
		status = http.StatusForbidden
	case errors.Is(err, domain.ErrInvalidCredentials):
		status = http.StatusUnauthorized
	}

	if status == http.StatusInternalServerError {
		logging.From(c).Error("request failed", "err", err)
		c.JSON(status, gin.H{"error": "internal_error"})
	} else {
		c.JSON(status, gin.H{"error": err.Error()})
	}
	_ = c.Error(err)
}
