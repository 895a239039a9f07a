package port

import (
	"context"

	"github.com/moontonsl/communityheroesph-sub001/internal/core/domain"
)

// SyncEnqueuer hands sync tasks to the asynchronous worker. Enqueue must be
// fast; failures are logged by callers and never abort the triggering workflow
// transition.
type SyncEnqueuer interface {
	Enqueue(ctx context.Context, task domain.SyncTask) error
}
