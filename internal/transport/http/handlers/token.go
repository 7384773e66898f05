package handlers

import (
	"crypto/subtle"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/Balerman2/CallShift/internal/infra/config"
	"github.com/Balerman2/CallShift/internal/infra/security"
)

// TokenHandler issues administrative bearer tokens.
type TokenHandler struct {
	cfg    config.AdminSettings
	tokens *security.AdminTokenManager
	logger *zap.Logger
}

// NewTokenHandler constructs TokenHandler.
func NewTokenHandler(cfg config.AdminSettings, tokens *security.AdminTokenManager, logger *zap.Logger) *TokenHandler {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &TokenHandler{cfg: cfg, tokens: tokens, logger: logger}
}

// Issue godoc
// @Summary Issue an administrative token
// @Description Exchanges HTTP basic credentials for a bearer token.
// @Tags Admin
// @Produce json
// @Success 200 {object} TokenResponse
// @Failure 401 {object} ErrorResponse
// @Router /api/token [post]
func (h *TokenHandler) Issue(c *gin.Context) {
	username, password, ok := c.Request.BasicAuth()
	if !ok || !h.credentialsMatch(username, password) {
		c.Header("WWW-Authenticate", `Basic realm="admin"`)
		c.JSON(http.StatusUnauthorized, NewErrorResponse(c, "invalid credentials"))
		return
	}

	token, err := h.tokens.Issue(username, time.Now().UTC())
	if err != nil {
		h.logger.Error("token issuance failed", zap.Error(err))
		c.JSON(http.StatusInternalServerError, NewErrorResponse(c, "internal error"))
		return
	}

	c.JSON(http.StatusOK, TokenResponse{
		Token:     token,
		TokenType: "Bearer",
		ExpiresIn: int(h.cfg.TokenTTL.Seconds()),
	})
}

func (h *TokenHandler) credentialsMatch(username, password string) bool {
	userOK := subtle.ConstantTimeCompare([]byte(username), []byte(h.cfg.Username)) == 1
	passOK := subtle.ConstantTimeCompare([]byte(password), []byte(h.cfg.Password)) == 1
	return userOK && passOK
}
