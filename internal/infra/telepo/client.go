// Package telepo implements the HTTP client for the Telepo call-routing
// provider. Assignment changes are pushed so that inbound calls reach the
// current on-call phone.
package telepo

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"go.uber.org/zap"

	"github.com/Balerman2/CallShift/internal/core/port"
	"github.com/Balerman2/CallShift/internal/infra/config"
	"github.com/Balerman2/CallShift/internal/infra/logger"
)

const maxResponseBody = 4 << 10

// Client pushes routing updates to the Telepo API.
type Client struct {
	httpClient *http.Client
	cfg        config.TelepoSettings
	logger     *zap.Logger
}

func NewClient(cfg config.TelepoSettings, log *zap.Logger) *Client {
	timeout := cfg.Timeout
	if timeout <= 0 {
		timeout = 10 * time.Second
	}

	return &Client{
		httpClient: &http.Client{Timeout: timeout},
		cfg:        cfg,
		logger:     log,
	}
}

type updatePayload struct {
	PhoneNumber string `json:"phone_number"`
	Division    string `json:"division"`
	UpdatedAt   string `json:"updated_at"`
	UserID      int64  `json:"user_id"`
}

// Notify pushes the assignment to the provider and classifies the outcome.
// Transport failures and non-2xx answers are reported in the result, never
// as an error: the ledger transition already committed and must stand.
func (c *Client) Notify(ctx context.Context, update port.RoutingUpdate) port.GatewayResult {
	payload := updatePayload{
		PhoneNumber: update.Phone,
		Division:    update.Division,
		UpdatedAt:   update.UpdatedAt.UTC().Format(time.RFC3339),
		UserID:      update.UserID,
	}

	body, err := json.Marshal(payload)
	if err != nil {
		return port.GatewayResult{
			Status: port.GatewayUnreachable,
			Error:  fmt.Sprintf("marshal routing update: %v", err),
		}
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.cfg.APIURL, bytes.NewReader(body))
	if err != nil {
		return port.GatewayResult{
			Status: port.GatewayUnreachable,
			Error:  fmt.Sprintf("build routing request: %v", err),
		}
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Bearer "+c.cfg.APIKey)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		c.logger.Warn("routing gateway unreachable",
			zap.String("division", update.Division),
			zap.String("phone", logger.MaskPhone(update.Phone)),
			zap.Error(err),
		)
		return port.GatewayResult{
			Status: port.GatewayUnreachable,
			Error:  err.Error(),
		}
	}
	defer resp.Body.Close()

	respBody, _ := io.ReadAll(io.LimitReader(resp.Body, maxResponseBody))

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		c.logger.Warn("routing gateway rejected update",
			zap.String("division", update.Division),
			zap.Int("status_code", resp.StatusCode),
		)
		return port.GatewayResult{
			Status:     port.GatewayRejected,
			StatusCode: resp.StatusCode,
			Body:       string(respBody),
		}
	}

	c.logger.Info("routing gateway accepted update",
		zap.String("division", update.Division),
		zap.String("phone", logger.MaskPhone(update.Phone)),
		zap.Int("status_code", resp.StatusCode),
	)

	return port.GatewayResult{
		Status:     port.GatewayAccepted,
		StatusCode: resp.StatusCode,
		Body:       string(respBody),
	}
}

var _ port.RoutingGateway = (*Client)(nil)
