package port

import (
	"context"

	"github.com/moontonsl/communityheroesph-sub001/internal/core/domain"
)

// EventPublisher emits workflow domain events to the message bus.
type EventPublisher interface {
	PublishWorkflowTransition(ctx context.Context, event domain.WorkflowTransitionEvent) error
}
