package port

import (
	"context"

	"github.com/moontonsl/communityheroesph-sub001/internal/core/domain"
)

// EventRepository persists event applications.
type EventRepository interface {
	Create(ctx context.Context, event domain.Event) error
	GetByID(ctx context.Context, id string) (*domain.Event, error)
	GetByEventID(ctx context.Context, eventID string) (*domain.Event, error)
	List(ctx context.Context, status *domain.EventStatus) ([]domain.Event, error)
	ListAll(ctx context.Context) ([]domain.Event, error)
	ListBySubmission(ctx context.Context, submissionID string) ([]domain.Event, error)
	ExistsForApplicant(ctx context.Context, submissionID, applicantID string) (bool, error)
	Update(ctx context.Context, event domain.Event) error
}
