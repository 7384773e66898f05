package handlers

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/Balerman2/CallShift/internal/usecase"
)

// UserHandler exposes the administrative user endpoints.
type UserHandler struct {
	users  *usecase.UserService
	logger *zap.Logger
}

// NewUserHandler constructs UserHandler.
func NewUserHandler(users *usecase.UserService, logger *zap.Logger) *UserHandler {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &UserHandler{users: users, logger: logger}
}

// List godoc
// @Summary List users
// @Description Returns all users without credential material.
// @Tags Admin
// @Produce json
// @Security BearerAuth
// @Success 200 {array} UserSummary
// @Router /admin/users [get]
func (h *UserHandler) List(c *gin.Context) {
	users, err := h.users.List(c.Request.Context())
	if err != nil {
		h.logger.Error("list users failed", zap.Error(err))
		c.JSON(http.StatusInternalServerError, NewErrorResponse(c, "internal error"))
		return
	}

	summaries := make([]UserSummary, 0, len(users))
	for _, user := range users {
		summaries = append(summaries, newUserSummary(user))
	}
	c.JSON(http.StatusOK, summaries)
}

// Create godoc
// @Summary Create a user
// @Description Stores a new user credential; the PIN is hashed before storage.
// @Tags Admin
// @Accept json
// @Produce json
// @Security BearerAuth
// @Success 201 {object} UserSummary
// @Failure 400 {object} ErrorResponse
// @Failure 500 {object} ErrorResponse
// @Router /api/users [post]
func (h *UserHandler) Create(c *gin.Context) {
	var req CreateUserRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, NewErrorResponse(c, "pin, phone_number, name and division are required"))
		return
	}

	created, err := h.users.Create(c.Request.Context(), usecase.CreateUserInput{
		PIN:      req.PIN,
		Phone:    req.Phone,
		Name:     req.Name,
		Email:    req.Email,
		Division: req.Division,
	}, c.ClientIP())
	if err != nil {
		var verr usecase.ValidationError
		if errors.As(err, &verr) {
			c.JSON(http.StatusBadRequest, NewErrorResponse(c, verr.Error()))
			return
		}
		h.logger.Error("create user failed", zap.Error(err))
		c.JSON(http.StatusInternalServerError, NewErrorResponse(c, "internal error"))
		return
	}

	c.JSON(http.StatusCreated, newUserSummary(*created))
}

// Update godoc
// @Summary Update a user
// @Description Applies a partial update; a supplied pin is re-hashed.
// @Tags Admin
// @Accept json
// @Produce json
// @Security BearerAuth
// @Success 200 {object} MessageResponse
// @Failure 400 {object} ErrorResponse
// @Failure 404 {object} ErrorResponse
// @Router /admin/users/{id} [patch]
func (h *UserHandler) Update(c *gin.Context) {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil || id <= 0 {
		c.JSON(http.StatusBadRequest, NewErrorResponse(c, "invalid user id"))
		return
	}

	var req UpdateUserRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, NewErrorResponse(c, "invalid request payload"))
		return
	}

	err = h.users.Update(c.Request.Context(), id, usecase.UpdateUserInput{
		PIN:      req.PIN,
		Phone:    req.Phone,
		Name:     req.Name,
		Email:    req.Email,
		Division: req.Division,
	}, c.ClientIP())
	if err != nil {
		var verr usecase.ValidationError
		switch {
		case errors.Is(err, usecase.ErrUserNotFound):
			c.JSON(http.StatusNotFound, NewErrorResponse(c, "user not found"))
		case errors.Is(err, usecase.ErrEmptyUpdate):
			c.JSON(http.StatusBadRequest, NewErrorResponse(c, "no fields to update"))
		case errors.As(err, &verr):
			c.JSON(http.StatusBadRequest, NewErrorResponse(c, verr.Error()))
		default:
			h.logger.Error("update user failed", zap.Error(err))
			c.JSON(http.StatusInternalServerError, NewErrorResponse(c, "internal error"))
		}
		return
	}

	c.JSON(http.StatusOK, MessageResponse{Message: "user updated"})
}
