package telemetry

import (
	"context"
	"fmt"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"

	"github.com/Balerman2/CallShift/internal/infra/config"
)

// Provider represents a telemetry provider handle.
type Provider struct {
	authAttempts   *prometheus.CounterVec
	handoffTotal   *prometheus.CounterVec
	gatewayResults *prometheus.CounterVec
}

// Attach configures telemetry exporters and returns a provider handle.
// Per-request HTTP metrics are owned by the transport middleware; the
// provider only carries the domain counters.
func Attach(_ context.Context, cfg *config.AppConfig) (*Provider, error) {
	if cfg == nil {
		return nil, fmt.Errorf("config is nil")
	}

	return &Provider{
		authAttempts: promauto.NewCounterVec(prometheus.CounterOpts{
			Namespace: "callshift",
			Name:      "auth_attempts_total",
			Help:      "PIN authentication attempts by outcome",
		}, []string{"outcome"}),
		handoffTotal: promauto.NewCounterVec(prometheus.CounterOpts{
			Namespace: "callshift",
			Name:      "oncall_handoffs_total",
			Help:      "Completed on-call hand-offs by division",
		}, []string{"division"}),
		gatewayResults: promauto.NewCounterVec(prometheus.CounterOpts{
			Namespace: "callshift",
			Name:      "gateway_notifications_total",
			Help:      "Routing gateway notification results by status",
		}, []string{"status"}),
	}, nil
}

// ObserveAuthAttempt records an authentication attempt outcome.
func (p *Provider) ObserveAuthAttempt(outcome string) {
	if p == nil {
		return
	}
	p.authAttempts.WithLabelValues(outcome).Inc()
}

// ObserveHandoff records a completed assignment hand-off.
func (p *Provider) ObserveHandoff(division string) {
	if p == nil {
		return
	}
	p.handoffTotal.WithLabelValues(division).Inc()
}

// ObserveGatewayResult records a routing gateway notification result.
func (p *Provider) ObserveGatewayResult(status string) {
	if p == nil {
		return
	}
	p.gatewayResults.WithLabelValues(status).Inc()
}
