package events

import (
	"context"

	"visitdesk/pkg/kafka"
	"visitdesk/pkg/logger"
	"visitdesk/pkg/middleware"
)

// Publisher emits domain events after the owning transaction commits.
// Implementations must never be called from inside a transaction; a published
// event is a promise the state change is durable.
type Publisher interface {
	Publish(ctx context.Context, key string, eventType string, payload any) error
	Close() error
}

type kafkaPublisher struct {
	producer *kafka.Producer
	log      *logger.Logger
}

func NewKafkaPublisher(producer *kafka.Producer, log *logger.Logger) Publisher {
	return &kafkaPublisher{
		producer: producer,
		log:      log,
	}
}

func (p *kafkaPublisher) Publish(ctx context.Context, key string, eventType string, payload any) error {
	builder := kafka.NewMessage().
		WithKey(key).
		WithValue(payload).
		WithEventType(eventType).
		WithSchemaVersion(SchemaVersion).
		WithSource(Source)

	if requestID, ok := ctx.Value(middleware.RequestIDKey).(string); ok && requestID != "" {
		builder = builder.WithCorrelationID(requestID)
	}

	return p.producer.Publish(ctx, builder.Build())
}

func (p *kafkaPublisher) Close() error {
	return p.producer.Close()
}

// NoopPublisher discards events. Used when no broker is configured, so the
// engine can run standalone in development.
type NoopPublisher struct{}

func (NoopPublisher) Publish(ctx context.Context, key string, eventType string, payload any) error {
	return nil
}

func (NoopPublisher) Close() error { return nil }
