package port

import (
	"context"

	"github.com/moontonsl/communityheroesph-sub001/internal/core/domain"
)

// ReportingRepository persists post-event reports.
type ReportingRepository interface {
	Create(ctx context.Context, report domain.EventReporting) error
	GetByID(ctx context.Context, id string) (*domain.EventReporting, error)
	GetByReportID(ctx context.Context, reportID string) (*domain.EventReporting, error)
	List(ctx context.Context, status *domain.ReportStatus) ([]domain.EventReporting, error)
	ListAll(ctx context.Context) ([]domain.EventReporting, error)
	ListByReporter(ctx context.Context, reporterID string) ([]domain.EventReporting, error)
	ExistsForEventAndReporter(ctx context.Context, eventRefID, reporterID string) (bool, error)
	Update(ctx context.Context, report domain.EventReporting) error
	Delete(ctx context.Context, id string) error
}
