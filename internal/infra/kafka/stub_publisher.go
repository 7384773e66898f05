package kafka

import (
	"context"
	"time"

	"go.uber.org/zap"

	"github.com/Balerman2/CallShift/internal/core/domain"
	"github.com/Balerman2/CallShift/internal/core/port"
)

// StubPublisher logs events instead of sending them to Kafka. Useful for development environments.
type StubPublisher struct {
	logger *zap.Logger
}

// NewStubPublisher constructs a development-friendly event publisher.
func NewStubPublisher(logger *zap.Logger) *StubPublisher {
	return &StubPublisher{logger: logger}
}

func (p *StubPublisher) logEvent(eventType string, userID int64, at time.Time, payload any) {
	if at.IsZero() {
		at = time.Now().UTC()
	}

	p.logger.Info("Stub event published",
		zap.String("event_type", eventType),
		zap.Int64("user_id", userID),
		zap.Time("timestamp", at.UTC()),
		zap.Any("payload", payload),
	)
}

// PublishOnCallChanged logs callshift.oncall.changed events.
func (p *StubPublisher) PublishOnCallChanged(_ context.Context, event domain.OnCallChangedEvent) error {
	payload := map[string]any{
		"division":      event.Division,
		"user_id":       event.UserID,
		"name":          event.Name,
		"phone_number":  event.Phone,
		"start_time":    event.StartTime,
		"previous_user": event.PreviousUser,
		"source_ip":     event.SourceIP,
		"metadata":      event.Metadata,
	}
	p.logEvent("callshift.oncall.changed", event.UserID, event.StartTime, payload)
	return nil
}

// PublishUserCreated logs callshift.user.created events.
func (p *StubPublisher) PublishUserCreated(_ context.Context, event domain.UserCreatedEvent) error {
	payload := map[string]any{
		"user_id":      event.UserID,
		"name":         event.Name,
		"division":     event.Division,
		"phone_number": event.Phone,
		"created_at":   event.CreatedAt,
		"metadata":     event.Metadata,
	}
	p.logEvent("callshift.user.created", event.UserID, event.CreatedAt, payload)
	return nil
}

var _ port.EventPublisher = (*StubPublisher)(nil)
