package port

import (
	"context"
	"time"

	"github.com/moontonsl/communityheroesph-sub001/internal/core/domain"
)

// SubmissionRepository persists barangay MOA submissions.
type SubmissionRepository interface {
	Create(ctx context.Context, submission domain.BarangaySubmission) error
	GetByID(ctx context.Context, id string) (*domain.BarangaySubmission, error)
	GetBySubmissionID(ctx context.Context, submissionID string) (*domain.BarangaySubmission, error)
	List(ctx context.Context, status *domain.SubmissionStatus) ([]domain.BarangaySubmission, error)
	ListAll(ctx context.Context) ([]domain.BarangaySubmission, error)
	Update(ctx context.Context, submission domain.BarangaySubmission) error
	// ListExpiring returns APPROVED, not yet expired submissions whose MOA
	// expiry date is before now.
	ListExpiring(ctx context.Context, now time.Time) ([]domain.BarangaySubmission, error)
}
