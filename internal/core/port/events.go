package port

import (
	"context"

	"github.com/Balerman2/CallShift/internal/core/domain"
)

// EventPublisher publishes domain events to the message bus.
type EventPublisher interface {
	PublishOnCallChanged(ctx context.Context, event domain.OnCallChangedEvent) error
	PublishUserCreated(ctx context.Context, event domain.UserCreatedEvent) error
}
