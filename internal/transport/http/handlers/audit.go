package handlers

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/Balerman2/CallShift/internal/usecase"
)

// AuditHandler serves administrative audit-trail queries.
type AuditHandler struct {
	audit  *usecase.AuditService
	logger *zap.Logger
}

// NewAuditHandler constructs AuditHandler.
func NewAuditHandler(audit *usecase.AuditService, logger *zap.Logger) *AuditHandler {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &AuditHandler{audit: audit, logger: logger}
}

// Recent godoc
// @Summary Recent audit entries
// @Description Returns the newest audit-trail entries, most recent first.
// @Tags Admin
// @Produce json
// @Param limit query int false "Maximum number of entries (default 50, max 500)"
// @Success 200 {array} AuditEntryPayload
// @Failure 400 {object} ErrorResponse
// @Failure 401 {object} ErrorResponse
// @Security BearerAuth
// @Router /admin/audit [get]
func (h *AuditHandler) Recent(c *gin.Context) {
	limit := 0
	if raw := c.Query("limit"); raw != "" {
		parsed, err := strconv.Atoi(raw)
		if err != nil || parsed < 0 {
			c.JSON(http.StatusBadRequest, NewErrorResponse(c, "limit must be a non-negative integer"))
			return
		}
		limit = parsed
	}

	entries, err := h.audit.Recent(c.Request.Context(), limit)
	if err != nil {
		h.logger.Error("audit listing failed", zap.Error(err))
		c.JSON(http.StatusInternalServerError, NewErrorResponse(c, "internal error"))
		return
	}

	payload := make([]AuditEntryPayload, 0, len(entries))
	for _, entry := range entries {
		payload = append(payload, newAuditEntryPayload(entry))
	}

	c.JSON(http.StatusOK, payload)
}
