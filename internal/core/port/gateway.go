package port

import (
	"context"
	"time"
)

// GatewayStatus classifies the outcome of a routing provider push.
type GatewayStatus string

const (
	// GatewayAccepted means the provider acknowledged the update.
	GatewayAccepted GatewayStatus = "accepted"
	// GatewayRejected means the provider answered with a non-success status.
	GatewayRejected GatewayStatus = "rejected"
	// GatewayUnreachable means the request never produced a provider response.
	GatewayUnreachable GatewayStatus = "unreachable"
)

// RoutingUpdate is the assignment snapshot pushed to the telephony provider.
type RoutingUpdate struct {
	Phone     string
	Division  string
	UserID    int64
	UpdatedAt time.Time
}

// GatewayResult reports how the provider handled a routing update. A failed
// push never invalidates the local ledger transition; the result is surfaced
// to the caller as-is.
type GatewayResult struct {
	Status     GatewayStatus `json:"status"`
	StatusCode int           `json:"status_code,omitempty"`
	Body       string        `json:"body,omitempty"`
	Error      string        `json:"error,omitempty"`
}

// RoutingGateway pushes on-call assignments to the external call-routing
// provider.
type RoutingGateway interface {
	Notify(ctx context.Context, update RoutingUpdate) GatewayResult
}
