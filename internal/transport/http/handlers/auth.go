package handlers

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/Balerman2/CallShift/internal/usecase"
)

// AuthHandler exposes the PIN verification and hand-off endpoint.
type AuthHandler struct {
	assignments *usecase.AssignmentService
	logger      *zap.Logger
}

// NewAuthHandler constructs AuthHandler.
func NewAuthHandler(assignments *usecase.AssignmentService, logger *zap.Logger) *AuthHandler {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &AuthHandler{assignments: assignments, logger: logger}
}

// Authenticate godoc
// @Summary Verify a PIN and take over on-call duty
// @Description Verifies the supplied PIN and, on success, makes the caller the current on-call for their division.
// @Tags Authentication
// @Accept json
// @Accept x-www-form-urlencoded
// @Produce json
// @Success 200 {object} AuthenticateResponse
// @Failure 400 {object} ErrorResponse
// @Failure 403 {object} ErrorResponse
// @Failure 429 {object} middleware.ProblemDetails
// @Router /authenticate [post]
func (h *AuthHandler) Authenticate(c *gin.Context) {
	var req AuthenticateRequest
	if err := c.ShouldBind(&req); err != nil {
		c.JSON(http.StatusBadRequest, NewErrorResponse(c, "invalid request payload"))
		return
	}

	if req.CallerID != "" {
		h.logger.Debug("authenticate request", zap.String("caller_id", req.CallerID))
	}

	result, err := h.assignments.Authenticate(c.Request.Context(), req.PIN, c.ClientIP())
	if err != nil {
		switch {
		case errors.Is(err, usecase.ErrPINRequired):
			c.JSON(http.StatusBadRequest, NewErrorResponse(c, "pin is required"))
		case errors.Is(err, usecase.ErrInvalidPIN):
			c.JSON(http.StatusForbidden, NewErrorResponse(c, "invalid PIN"))
		default:
			h.logger.Error("authenticate failed", zap.Error(err))
			c.JSON(http.StatusInternalServerError, NewErrorResponse(c, "internal error"))
		}
		return
	}

	c.JSON(http.StatusOK, AuthenticateResponse{
		Status: "success",
		User: IdentityPayload{
			UserID:   result.Identity.UserID,
			Name:     result.Identity.Name,
			Phone:    result.Identity.Phone,
			Division: result.Identity.Division,
		},
		Division:     result.Assignment.Division,
		StartTime:    result.Assignment.StartTime,
		TelepoResult: result.Gateway,
	})
}
