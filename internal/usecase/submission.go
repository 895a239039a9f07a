package usecase

import (
	"context"
	"errors"
	"fmt"
	"io"
	"strings"
	"time"

	uuid "github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/moontonsl/communityheroesph-sub001/internal/core/domain"
	"github.com/moontonsl/communityheroesph-sub001/internal/core/port"
)

var (
	// ErrSubmissionNotFound is returned when the referenced submission does not exist.
	ErrSubmissionNotFound = errors.New("submission not found")
	// ErrBarangayRequired indicates the registration is missing its location references.
	ErrBarangayRequired = errors.New("region, province, municipality and barangay are required")
	// ErrMoaDocumentRequired indicates the registration has no MOA document attached.
	ErrMoaDocumentRequired = errors.New("MOA document is required")
)

// RegisterSubmissionInput captures a public barangay registration.
type RegisterSubmissionInput struct {
	RegionID       string
	ProvinceID     string
	MunicipalityID string
	BarangayID     string

	SecondPartyName     string
	SecondPartyPosition string
	DateSigned          time.Time
	Stage               domain.MoaStage
	MoaExpiryDate       *time.Time

	MoaFile     io.Reader
	MoaFileName string

	AssignedUserID *string
	SubmittedIP    *string
	UserAgent      *string
}

// SubmissionService owns the barangay submission workflow.
type SubmissionService struct {
	submissions port.SubmissionRepository
	locations   port.LocationRepository
	documents   port.DocumentStore
	syncQueue   port.SyncEnqueuer
	publisher   port.EventPublisher
	logger      *zap.Logger
}

// NewSubmissionService constructs a SubmissionService.
func NewSubmissionService(
	submissions port.SubmissionRepository,
	locations port.LocationRepository,
	documents port.DocumentStore,
	syncQueue port.SyncEnqueuer,
	publisher port.EventPublisher,
	logger *zap.Logger,
) *SubmissionService {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &SubmissionService{
		submissions: submissions,
		locations:   locations,
		documents:   documents,
		syncQueue:   syncQueue,
		publisher:   publisher,
		logger:      logger,
	}
}

// Register creates a new barangay submission from a public registration. The
// MOA document is stored before the row is inserted so a storage failure never
// leaves a dangling record.
func (s *SubmissionService) Register(ctx context.Context, input RegisterSubmissionInput) (*domain.BarangaySubmission, error) {
	if input.RegionID == "" || input.ProvinceID == "" || input.MunicipalityID == "" || input.BarangayID == "" {
		return nil, ErrBarangayRequired
	}
	if strings.TrimSpace(input.SecondPartyName) == "" {
		return nil, fmt.Errorf("second party name is required")
	}
	if input.MoaFile == nil {
		return nil, ErrMoaDocumentRequired
	}

	regionName, provinceName, municipalityName, barangayName, err := s.locations.ResolveNames(
		ctx, input.RegionID, input.ProvinceID, input.MunicipalityID, input.BarangayID)
	if err != nil {
		return nil, fmt.Errorf("resolve location names: %w", err)
	}

	now := time.Now().UTC()
	submission := domain.BarangaySubmission{
		ID:           uuid.NewString(),
		SubmissionID: newBusinessID("SUB"),

		RegionID:         input.RegionID,
		RegionName:       regionName,
		ProvinceID:       input.ProvinceID,
		ProvinceName:     provinceName,
		MunicipalityID:   input.MunicipalityID,
		MunicipalityName: municipalityName,
		BarangayID:       input.BarangayID,
		BarangayName:     barangayName,

		SecondPartyName:     strings.TrimSpace(input.SecondPartyName),
		SecondPartyPosition: strings.TrimSpace(input.SecondPartyPosition),
		DateSigned:          input.DateSigned,
		Stage:               input.Stage,
		MoaExpiryDate:       input.MoaExpiryDate,

		Status: domain.SubmissionPending,
		Tier:   domain.TierBronze,

		AssignedUserID:     input.AssignedUserID,
		SubmittedIP:        input.SubmittedIP,
		SubmittedUserAgent: input.UserAgent,

		CreatedAt: now,
		UpdatedAt: now,
	}

	targetPath := fmt.Sprintf("moa/%s", submission.SubmissionID)
	doc, err := s.documents.Store(ctx, input.MoaFile, targetPath, input.MoaFileName)
	if err != nil {
		return nil, fmt.Errorf("store MOA document: %w", err)
	}
	submission.MoaFilePath = doc.Path
	submission.MoaFileName = doc.Name

	if err := s.submissions.Create(ctx, submission); err != nil {
		return nil, fmt.Errorf("create submission: %w", err)
	}

	s.enqueueSync(ctx, submission, domain.SyncActionCreate)
	return &submission, nil
}

// Approve moves the submission to APPROVED.
func (s *SubmissionService) Approve(ctx context.Context, actor domain.Actor, id string, notes *string) (*domain.BarangaySubmission, error) {
	return s.transition(ctx, actor, OpSubmissionApprove, id, func(sub *domain.BarangaySubmission, now time.Time) error {
		sub.Approve(actor.ID, notes, now)
		return nil
	})
}

// Reject moves the submission to REJECTED. The reason is required.
func (s *SubmissionService) Reject(ctx context.Context, actor domain.Actor, id, reason string, notes *string) (*domain.BarangaySubmission, error) {
	return s.transition(ctx, actor, OpSubmissionReject, id, func(sub *domain.BarangaySubmission, now time.Time) error {
		return sub.Reject(actor.ID, strings.TrimSpace(reason), notes, now)
	})
}

// MarkUnderReview parks the submission for further checking.
func (s *SubmissionService) MarkUnderReview(ctx context.Context, actor domain.Actor, id string, notes *string) (*domain.BarangaySubmission, error) {
	return s.transition(ctx, actor, OpSubmissionReview, id, func(sub *domain.BarangaySubmission, now time.Time) error {
		sub.MarkUnderReview(actor.ID, notes, now)
		return nil
	})
}

func (s *SubmissionService) transition(
	ctx context.Context,
	actor domain.Actor,
	op Operation,
	id string,
	apply func(*domain.BarangaySubmission, time.Time) error,
) (*domain.BarangaySubmission, error) {
	if err := Authorize(actor, op); err != nil {
		return nil, err
	}

	submission, err := s.submissions.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}

	now := time.Now().UTC()
	fromStatus := submission.Status
	if err := apply(submission, now); err != nil {
		return nil, err
	}

	if err := s.submissions.Update(ctx, *submission); err != nil {
		return nil, fmt.Errorf("update submission: %w", err)
	}

	s.enqueueSync(ctx, *submission, domain.SyncActionUpdate)
	s.publishTransition(ctx, *submission, string(op), string(fromStatus), actor.ID, now)
	return submission, nil
}

// Get loads one submission by internal id.
func (s *SubmissionService) Get(ctx context.Context, id string) (*domain.BarangaySubmission, error) {
	return s.submissions.GetByID(ctx, id)
}

// List returns submissions, optionally filtered by status.
func (s *SubmissionService) List(ctx context.Context, status *domain.SubmissionStatus) ([]domain.BarangaySubmission, error) {
	return s.submissions.List(ctx, status)
}

// IncrementSuccessfulEvents applies the cross-entity effect of a successful
// event completion: exactly one counter bump and a tier recompute.
func (s *SubmissionService) IncrementSuccessfulEvents(ctx context.Context, submissionRefID string) error {
	submission, err := s.submissions.GetByID(ctx, submissionRefID)
	if err != nil {
		return err
	}

	submission.IncrementSuccessfulEvents(time.Now().UTC())
	if err := s.submissions.Update(ctx, *submission); err != nil {
		return fmt.Errorf("update submission counter: %w", err)
	}

	s.enqueueSync(ctx, *submission, domain.SyncActionUpdate)
	return nil
}

// SweepExpiredMoas flags every approved submission whose MOA expiry date lies
// before now and moves it to RENEW. Idempotent: flagged rows are excluded by
// the repository filter, so an immediate re-run reports zero.
func (s *SubmissionService) SweepExpiredMoas(ctx context.Context, now time.Time) (int, error) {
	expiring, err := s.submissions.ListExpiring(ctx, now)
	if err != nil {
		return 0, fmt.Errorf("list expiring submissions: %w", err)
	}

	count := 0
	for i := range expiring {
		submission := expiring[i]
		if err := submission.MarkMoaExpired(now); err != nil {
			// Row no longer qualifies; skip rather than abort the sweep.
			s.logger.Warn("submission skipped by expiry sweep",
				zap.String("submission_id", submission.SubmissionID),
				zap.Error(err))
			continue
		}
		if err := s.submissions.Update(ctx, submission); err != nil {
			s.logger.Error("persist expired MOA flag",
				zap.String("submission_id", submission.SubmissionID),
				zap.Error(err))
			continue
		}
		s.enqueueSync(ctx, submission, domain.SyncActionUpdate)
		count++
	}

	return count, nil
}

func (s *SubmissionService) enqueueSync(ctx context.Context, submission domain.BarangaySubmission, action domain.SyncAction) {
	if s.syncQueue == nil {
		return
	}
	task := domain.SyncTask{
		EntityType:  domain.SyncEntitySubmission,
		EntityID:    submission.ID,
		Action:      action,
		BusinessKey: submission.SubmissionID,
	}
	if err := s.syncQueue.Enqueue(ctx, task); err != nil {
		s.logger.Error("enqueue submission sync task",
			zap.String("submission_id", submission.SubmissionID),
			zap.String("action", string(action)),
			zap.Error(err))
	}
}

func (s *SubmissionService) publishTransition(ctx context.Context, submission domain.BarangaySubmission, op, from, actorID string, at time.Time) {
	if s.publisher == nil {
		return
	}
	event := domain.WorkflowTransitionEvent{
		EntityType: domain.SyncEntitySubmission,
		EntityID:   submission.ID,
		BusinessID: submission.SubmissionID,
		Operation:  op,
		FromStatus: from,
		ToStatus:   string(submission.Status),
		ActorID:    actorID,
		OccurredAt: at,
	}
	if err := s.publisher.PublishWorkflowTransition(ctx, event); err != nil {
		s.logger.Error("publish submission transition", zap.Error(err))
	}
}
