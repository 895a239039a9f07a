package domain

import "time"

// WorkflowTransitionEvent is published whenever a workflow entity changes state.
type WorkflowTransitionEvent struct {
	EntityType SyncEntityType `json:"entity_type"`
	EntityID   string         `json:"entity_id"`
	BusinessID string         `json:"business_id"`
	Operation  string         `json:"operation"`
	FromStatus string         `json:"from_status"`
	ToStatus   string         `json:"to_status"`
	ActorID    string         `json:"actor_id"`
	OccurredAt time.Time      `json:"occurred_at"`
}
