package kafka

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/IBM/sarama"
	"github.com/google/uuid"
	"go.opentelemetry.io/otel/trace"
	"go.uber.org/zap"

	"github.com/Balerman2/CallShift/internal/core/domain"
	"github.com/Balerman2/CallShift/internal/core/port"
	"github.com/Balerman2/CallShift/internal/infra/config"
)

const schemaVersion = "1.0"

// EventPublisher implements port.EventPublisher using Kafka.
type EventPublisher struct {
	producer *Producer
	logger   *zap.Logger
	appCfg   config.AppSettings
}

// NewEventPublisher constructs a Kafka-backed event publisher.
func NewEventPublisher(producer *Producer, appCfg config.AppSettings, logger *zap.Logger) *EventPublisher {
	return &EventPublisher{producer: producer, appCfg: appCfg, logger: logger}
}

type envelopeMetadata map[string]string

type eventEnvelope struct {
	EventID   string           `json:"event_id"`
	EventType string           `json:"event_type"`
	UserID    int64            `json:"user_id,omitempty"`
	Timestamp time.Time        `json:"timestamp"`
	Version   string           `json:"version"`
	Payload   any              `json:"payload"`
	Metadata  envelopeMetadata `json:"metadata,omitempty"`
}

func (p *EventPublisher) publish(ctx context.Context, eventID, eventType string, userID int64, ts time.Time, payload any) error {
	if ts.IsZero() {
		ts = time.Now().UTC()
	}

	id := eventID
	if id == "" {
		id = uuid.NewString()
	}

	metadata := envelopeMetadata{
		"service":     p.appCfg.Name,
		"environment": p.appCfg.Env,
	}

	if span := trace.SpanFromContext(ctx); span != nil {
		if sc := span.SpanContext(); sc.IsValid() {
			metadata["trace_id"] = sc.TraceID().String()
		}
	}

	envelope := eventEnvelope{
		EventID:   id,
		EventType: eventType,
		UserID:    userID,
		Timestamp: ts.UTC(),
		Version:   schemaVersion,
		Payload:   payload,
		Metadata:  metadata,
	}

	bytes, err := json.Marshal(envelope)
	if err != nil {
		return fmt.Errorf("marshal event envelope: %w", err)
	}

	message := &sarama.ProducerMessage{
		Topic: p.producer.TopicName(eventType),
		Key:   sarama.StringEncoder(fmt.Sprintf("%d", userID)),
		Value: sarama.ByteEncoder(bytes),
	}

	select {
	case p.producer.Producer().Input() <- message:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

// PublishOnCallChanged publishes callshift.oncall.changed events.
func (p *EventPublisher) PublishOnCallChanged(ctx context.Context, event domain.OnCallChangedEvent) error {
	payload := struct {
		Division     string         `json:"division"`
		UserID       int64          `json:"user_id"`
		Name         string         `json:"name"`
		Phone        string         `json:"phone_number"`
		StartTime    time.Time      `json:"start_time"`
		PreviousUser *int64         `json:"previous_user,omitempty"`
		SourceIP     string         `json:"source_ip,omitempty"`
		Metadata     map[string]any `json:"metadata,omitempty"`
	}{
		Division:     event.Division,
		UserID:       event.UserID,
		Name:         event.Name,
		Phone:        event.Phone,
		StartTime:    event.StartTime.UTC(),
		PreviousUser: event.PreviousUser,
		SourceIP:     event.SourceIP,
		Metadata:     event.Metadata,
	}

	return p.publish(ctx, event.EventID, "callshift.oncall.changed", event.UserID, event.StartTime, payload)
}

// PublishUserCreated publishes callshift.user.created events.
func (p *EventPublisher) PublishUserCreated(ctx context.Context, event domain.UserCreatedEvent) error {
	payload := struct {
		UserID    int64          `json:"user_id"`
		Name      string         `json:"name"`
		Division  string         `json:"division"`
		Phone     string         `json:"phone_number"`
		CreatedAt time.Time      `json:"created_at"`
		Metadata  map[string]any `json:"metadata,omitempty"`
	}{
		UserID:    event.UserID,
		Name:      event.Name,
		Division:  event.Division,
		Phone:     event.Phone,
		CreatedAt: event.CreatedAt.UTC(),
		Metadata:  event.Metadata,
	}

	return p.publish(ctx, event.EventID, "callshift.user.created", event.UserID, event.CreatedAt, payload)
}

var _ port.EventPublisher = (*EventPublisher)(nil)
