package kafka

import (
	"context"
	"time"

	"go.uber.org/zap"

	"github.com/moontonsl/communityheroesph-sub001/internal/core/domain"
	"github.com/moontonsl/communityheroesph-sub001/internal/core/port"
)

// StubPublisher logs events instead of sending them to Kafka. Used when the
// broker is disabled, typically in development environments.
type StubPublisher struct {
	logger *zap.Logger
}

// NewStubPublisher constructs a development-friendly event publisher.
func NewStubPublisher(logger *zap.Logger) *StubPublisher {
	return &StubPublisher{logger: logger}
}

// PublishWorkflowTransition logs workflow.transition events.
func (p *StubPublisher) PublishWorkflowTransition(_ context.Context, event domain.WorkflowTransitionEvent) error {
	at := event.OccurredAt
	if at.IsZero() {
		at = time.Now().UTC()
	}

	p.logger.Info("stub event published",
		zap.String("event_type", "workflow.transition"),
		zap.String("entity_type", string(event.EntityType)),
		zap.String("entity_id", event.EntityID),
		zap.String("business_id", event.BusinessID),
		zap.String("operation", event.Operation),
		zap.String("from_status", event.FromStatus),
		zap.String("to_status", event.ToStatus),
		zap.String("actor_id", event.ActorID),
		zap.Time("timestamp", at.UTC()),
	)
	return nil
}

var _ port.EventPublisher = (*StubPublisher)(nil)
