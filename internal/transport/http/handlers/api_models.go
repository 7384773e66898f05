package handlers

import (
	"time"

	"github.com/gin-gonic/gin"

	"github.com/Balerman2/CallShift/internal/core/domain"
	"github.com/Balerman2/CallShift/internal/core/port"
)

// ErrorResponse represents a generic error payload with trace ID for debugging.
type ErrorResponse struct {
	Error   string `json:"error"`
	TraceID string `json:"trace_id,omitempty"`
}

// NewErrorResponse creates an error response with trace ID from context
func NewErrorResponse(c *gin.Context, errorMsg string) ErrorResponse {
	traceID, _ := c.Get("trace_id")
	traceIDStr, _ := traceID.(string)

	return ErrorResponse{
		Error:   errorMsg,
		TraceID: traceIDStr,
	}
}

// MessageResponse represents a simple message payload.
type MessageResponse struct {
	Message string `json:"message"`
}

// HealthResponse reports liveness state.
type HealthResponse struct {
	Status    string    `json:"status"`
	StartedAt time.Time `json:"started_at"`
}

// ReadinessResponse reports the state of each backing dependency.
type ReadinessResponse struct {
	Status string            `json:"status"`
	Checks map[string]string `json:"checks"`
}

// AuthenticateRequest defines the payload for the PIN verification endpoint.
// Both JSON and form submissions are accepted.
type AuthenticateRequest struct {
	PIN      string `form:"pin" json:"pin"`
	CallerID string `form:"caller_id" json:"caller_id"`
}

// IdentityPayload is the caller-facing view of a verified user.
type IdentityPayload struct {
	UserID   int64  `json:"user_id"`
	Name     string `json:"name"`
	Phone    string `json:"phone_number"`
	Division string `json:"division"`
}

// AuthenticateResponse reports a completed hand-off, including how the
// routing provider handled the push.
type AuthenticateResponse struct {
	Status       string             `json:"status"`
	User         IdentityPayload    `json:"user"`
	Division     string             `json:"division"`
	StartTime    time.Time          `json:"start_time"`
	TelepoResult port.GatewayResult `json:"telepo_result"`
}

// OnCallResponse is the current-assignment query payload.
type OnCallResponse struct {
	Division  string    `json:"division"`
	UserID    int64     `json:"user_id"`
	Name      string    `json:"name"`
	Phone     string    `json:"phone_number"`
	StartTime time.Time `json:"start_time"`
}

// TokenResponse carries an issued administrative token.
type TokenResponse struct {
	Token     string `json:"token"`
	TokenType string `json:"token_type"`
	ExpiresIn int    `json:"expires_in"`
}

// UserSummary describes a user returned by the administrative API. Credential
// digests are never included.
type UserSummary struct {
	ID        int64      `json:"id"`
	Name      string     `json:"name"`
	Phone     string     `json:"phone_number"`
	Email     *string    `json:"email,omitempty"`
	Division  string     `json:"division"`
	CreatedAt time.Time  `json:"created_at"`
	LastLogin *time.Time `json:"last_login,omitempty"`
}

func newUserSummary(user domain.User) UserSummary {
	return UserSummary{
		ID:        user.ID,
		Name:      user.Name,
		Phone:     user.Phone,
		Email:     user.Email,
		Division:  user.Division,
		CreatedAt: user.CreatedAt,
		LastLogin: user.LastLogin,
	}
}

// AuditEntryPayload describes one audit-trail record in API responses.
type AuditEntryPayload struct {
	ID        int64     `json:"id"`
	EventType string    `json:"event_type"`
	UserID    *int64    `json:"user_id,omitempty"`
	Details   string    `json:"details"`
	IPAddress string    `json:"ip_address"`
	Timestamp time.Time `json:"timestamp"`
}

func newAuditEntryPayload(entry domain.AuditEntry) AuditEntryPayload {
	return AuditEntryPayload{
		ID:        entry.ID,
		EventType: string(entry.EventType),
		UserID:    entry.UserID,
		Details:   entry.Details,
		IPAddress: entry.IPAddress,
		Timestamp: entry.Timestamp,
	}
}

// CreateUserRequest defines the payload for administrative user creation.
type CreateUserRequest struct {
	PIN      string  `json:"pin" binding:"required"`
	Phone    string  `json:"phone_number" binding:"required"`
	Name     string  `json:"name" binding:"required"`
	Email    *string `json:"email"`
	Division string  `json:"division" binding:"required"`
}

// UpdateUserRequest defines the payload for administrative partial updates.
// Absent fields are left untouched.
type UpdateUserRequest struct {
	PIN      *string `json:"pin"`
	Phone    *string `json:"phone_number"`
	Name     *string `json:"name"`
	Email    *string `json:"email"`
	Division *string `json:"division"`
}
