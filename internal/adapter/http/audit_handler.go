package http

import (
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/rma010101/ecommerce-fullstack/internal/usecase"
)

type AuditHandler struct {
	audit *usecase.Audit
}

func NewAuditHandler(audit *usecase.Audit) *AuditHandler {
	return &AuditHandler{audit: audit}
}

func (h *AuditHandler) List(c *gin.Context) {
	logs, err := h.audit.All(c.Request.Context())
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, logs)
}

func (h *AuditHandler) ByClientIP(c *gin.Context) {
	logs, err := h.audit.ByClientIP(c.Request.Context(), c.Param("ip"))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, logs)
}

func (h *AuditHandler) ByMethod(c *gin.Context) {
	logs, err := h.audit.ByMethod(c.Request.Context(), c.Param("method"))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, logs)
}

func (h *AuditHandler) ByStatus(c *gin.Context) {
	status, err := strconv.Atoi(c.Param("status"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid status"})
		return
	}
	logs, err := h.audit.ByStatus(c.Request.Context(), status)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, logs)
}

func (h *AuditHandler) Failed(c *gin.Context) {
	logs, err := h.audit.Failed(c.Request.Context())
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, logs)
}

func (h *AuditHandler) Slow(c *gin.Context) {
	threshold, _ := strconv.ParseInt(c.DefaultQuery("thresholdMs", "1000"), 10, 64)
	logs, err := h.audit.Slow(c.Request.Context(), threshold)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, logs)
}

func (h *AuditHandler) Between(c *gin.Context) {
	from, err1 := time.Parse(time.RFC3339, c.Query("from"))
	to, err2 := time.Parse(time.RFC3339, c.Query("to"))
	if err1 != nil || err2 != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "from and to must be RFC3339 timestamps"})
		return
	}
	logs, err := h.audit.Between(c.Request.Context(), from, to)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, logs)
}

func (h *AuditHandler) SearchURI(c *gin.Context) {
	pattern := c.Query("pattern")
	if pattern == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "pattern query param required"})
		return
	}
	logs, err := h.audit.SearchURI(c.Request.Context(), pattern)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, logs)
}

func (h *AuditHandler) Stats(c *gin.Context) {
	stats, err := h.audit.Stats(c.Request.Context())
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, stats)
}

func (h *AuditHandler) Purge(c *gin.Context) {
	if err := h.audit.Purge(c.Request.Context()); err != nil {
		respondError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}
