package domain

// SyncEntityType names one of the mirrored entity kinds.
type SyncEntityType string

const (
	SyncEntitySubmission SyncEntityType = "submission"
	SyncEntityEvent      SyncEntityType = "event"
	SyncEntityReport     SyncEntityType = "report"
)

// SyncAction names the change being mirrored.
type SyncAction string

const (
	SyncActionCreate SyncAction = "create"
	SyncActionUpdate SyncAction = "update"
	SyncActionDelete SyncAction = "delete"
)

// SyncTask describes one pending mirror operation. BusinessKey carries the
// human-readable identifier (submission/event/report ID) so deletes can be
// mirrored after the row is gone.
type SyncTask struct {
	EntityType  SyncEntityType `json:"entity_type"`
	EntityID    string         `json:"entity_id"`
	Action      SyncAction     `json:"action"`
	BusinessKey string         `json:"business_key,omitempty"`
}
