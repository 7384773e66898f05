package handlers

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/Balerman2/CallShift/internal/usecase"
)

// OnCallHandler answers current-assignment queries.
type OnCallHandler struct {
	oncall *usecase.OnCallService
	logger *zap.Logger
}

// NewOnCallHandler constructs OnCallHandler.
func NewOnCallHandler(oncall *usecase.OnCallService, logger *zap.Logger) *OnCallHandler {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &OnCallHandler{oncall: oncall, logger: logger}
}

// Current godoc
// @Summary Current on-call assignment
// @Description Returns the open assignment for the requested division.
// @Tags OnCall
// @Produce json
// @Param division query string false "Division name"
// @Success 200 {object} OnCallResponse
// @Failure 404 {object} ErrorResponse
// @Router /api/oncall [get]
func (h *OnCallHandler) Current(c *gin.Context) {
	division := c.Query("division")

	status, err := h.oncall.Current(c.Request.Context(), division)
	if err != nil {
		if errors.Is(err, usecase.ErrNoOnCall) {
			c.JSON(http.StatusNotFound, NewErrorResponse(c, "no on-call assignment for division"))
			return
		}
		h.logger.Error("oncall lookup failed", zap.Error(err))
		c.JSON(http.StatusInternalServerError, NewErrorResponse(c, "internal error"))
		return
	}

	c.JSON(http.StatusOK, OnCallResponse{
		Division:  status.Division,
		UserID:    status.UserID,
		Name:      status.Name,
		Phone:     status.Phone,
		StartTime: status.StartTime,
	})
}
