package kafka

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/IBM/sarama"
	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/moontonsl/communityheroesph-sub001/internal/core/domain"
	"github.com/moontonsl/communityheroesph-sub001/internal/core/port"
	"github.com/moontonsl/communityheroesph-sub001/internal/infra/config"
)

const schemaVersion = "1.0"

// EventPublisher implements port.EventPublisher using Kafka. Downstream
// consumers (notifications, analytics) subscribe to workflow transitions.
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
	Timestamp time.Time        `json:"timestamp"`
	Version   string           `json:"version"`
	Payload   any              `json:"payload"`
	Metadata  envelopeMetadata `json:"metadata,omitempty"`
}

func (p *EventPublisher) publish(ctx context.Context, eventType string, ts time.Time, payload any) error {
	if ts.IsZero() {
		ts = time.Now().UTC()
	}

	metadata := envelopeMetadata{
		"service":     p.appCfg.Name,
		"environment": p.appCfg.Env,
	}

	envelope := eventEnvelope{
		EventID:   uuid.NewString(),
		EventType: eventType,
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
		Key:   sarama.StringEncoder(eventType),
		Value: sarama.ByteEncoder(bytes),
	}

	select {
	case p.producer.Producer().Input() <- message:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

// PublishWorkflowTransition publishes workflow.transition events for every
// submission, event, and report status change.
func (p *EventPublisher) PublishWorkflowTransition(ctx context.Context, event domain.WorkflowTransitionEvent) error {
	payload := struct {
		EntityType string    `json:"entity_type"`
		EntityID   string    `json:"entity_id"`
		BusinessID string    `json:"business_id"`
		Operation  string    `json:"operation"`
		FromStatus string    `json:"from_status"`
		ToStatus   string    `json:"to_status"`
		ActorID    string    `json:"actor_id"`
		OccurredAt time.Time `json:"occurred_at"`
	}{
		EntityType: string(event.EntityType),
		EntityID:   event.EntityID,
		BusinessID: event.BusinessID,
		Operation:  event.Operation,
		FromStatus: event.FromStatus,
		ToStatus:   event.ToStatus,
		ActorID:    event.ActorID,
		OccurredAt: event.OccurredAt.UTC(),
	}

	return p.publish(ctx, "workflow.transition", event.OccurredAt, payload)
}

var _ port.EventPublisher = (*EventPublisher)(nil)
