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
	// ErrSubmissionNotApproved indicates the target submission cannot accept event applications.
	ErrSubmissionNotApproved = errors.New("submission is not approved")
	// ErrNotSubmissionParty indicates the actor is neither the assigned user nor an eligible lead.
	ErrNotSubmissionParty = errors.New("actor is not a party to this submission")
	// ErrAlreadyApplied indicates the actor already filed an event application for this submission.
	ErrAlreadyApplied = errors.New("an event application already exists for this actor and submission")
	// ErrProposalRequired indicates the application has no proposal document attached.
	ErrProposalRequired = errors.New("proposal document is required")
)

// ApplyEventInput captures an event application against an approved submission.
type ApplyEventInput struct {
	SubmissionRefID string

	Name                 string
	Description          string
	EventDate            time.Time
	StartTime            string
	EndTime              string
	Location             string
	ExpectedParticipants int
	EventType            string
	ContactPerson        string
	ContactNumber        string
	ContactEmail         string

	ProposalFile     io.Reader
	ProposalFileName string
}

// EventService owns the event application workflow.
type EventService struct {
	events      port.EventRepository
	submissions *SubmissionService
	subRepo     port.SubmissionRepository
	documents   port.DocumentStore
	syncQueue   port.SyncEnqueuer
	publisher   port.EventPublisher
	logger      *zap.Logger
}

// NewEventService constructs an EventService.
func NewEventService(
	events port.EventRepository,
	submissions *SubmissionService,
	subRepo port.SubmissionRepository,
	documents port.DocumentStore,
	syncQueue port.SyncEnqueuer,
	publisher port.EventPublisher,
	logger *zap.Logger,
) *EventService {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &EventService{
		events:      events,
		submissions: submissions,
		subRepo:     subRepo,
		documents:   documents,
		syncQueue:   syncQueue,
		publisher:   publisher,
		logger:      logger,
	}
}

// Apply files an event application. The submission must be APPROVED; the actor
// must be its assigned user (area-admin) or hold community-lead; one
// application per actor per submission.
func (s *EventService) Apply(ctx context.Context, actor domain.Actor, input ApplyEventInput) (*domain.Event, error) {
	if err := Authorize(actor, OpEventApply); err != nil {
		return nil, err
	}
	if strings.TrimSpace(input.Name) == "" {
		return nil, fmt.Errorf("event name is required")
	}
	if input.ProposalFile == nil {
		return nil, ErrProposalRequired
	}

	submission, err := s.subRepo.GetByID(ctx, input.SubmissionRefID)
	if err != nil {
		return nil, err
	}
	if submission.Status != domain.SubmissionApproved {
		return nil, ErrSubmissionNotApproved
	}

	switch actor.RoleSlug {
	case domain.RoleAreaAdmin:
		if submission.AssignedUserID == nil || *submission.AssignedUserID != actor.ID {
			return nil, ErrNotSubmissionParty
		}
	case domain.RoleCommunityLead:
		// Community leads may apply against any approved submission in their area.
	default:
		return nil, ErrRoleNotAllowed
	}

	exists, err := s.events.ExistsForApplicant(ctx, submission.ID, actor.ID)
	if err != nil {
		return nil, fmt.Errorf("check existing application: %w", err)
	}
	if exists {
		return nil, ErrAlreadyApplied
	}

	now := time.Now().UTC()
	event := domain.Event{
		ID:           uuid.NewString(),
		EventID:      newBusinessID("EVT"),
		SubmissionID: submission.ID,
		AppliedByID:  actor.ID,

		Name:                 strings.TrimSpace(input.Name),
		Description:          input.Description,
		EventDate:            input.EventDate,
		StartTime:            input.StartTime,
		EndTime:              input.EndTime,
		Location:             input.Location,
		ExpectedParticipants: input.ExpectedParticipants,
		EventType:            input.EventType,
		ContactPerson:        input.ContactPerson,
		ContactNumber:        input.ContactNumber,
		ContactEmail:         input.ContactEmail,

		Status:    domain.EventPending,
		CreatedAt: now,
		UpdatedAt: now,
	}

	targetPath := fmt.Sprintf("proposals/%s", event.EventID)
	doc, err := s.documents.Store(ctx, input.ProposalFile, targetPath, input.ProposalFileName)
	if err != nil {
		return nil, fmt.Errorf("store proposal document: %w", err)
	}
	event.ProposalFilePath = doc.Path
	event.ProposalFileName = doc.Name

	if err := s.events.Create(ctx, event); err != nil {
		return nil, fmt.Errorf("create event: %w", err)
	}

	s.enqueueSync(ctx, event, domain.SyncActionCreate)
	return &event, nil
}

// Approve moves the event to APPROVED.
func (s *EventService) Approve(ctx context.Context, actor domain.Actor, id string, notes *string) (*domain.Event, error) {
	return s.transition(ctx, actor, OpEventApprove, id, func(e *domain.Event, now time.Time) error {
		e.Approve(actor.ID, notes, now)
		return nil
	})
}

// Reject moves the event to REJECTED with a mandatory reason.
func (s *EventService) Reject(ctx context.Context, actor domain.Actor, id, reason string, notes *string) (*domain.Event, error) {
	return s.transition(ctx, actor, OpEventReject, id, func(e *domain.Event, now time.Time) error {
		return e.Reject(actor.ID, strings.TrimSpace(reason), notes, now)
	})
}

// MarkCompleted finishes an approved event. A successful completion increments
// the parent submission's successful-event counter exactly once; the domain
// guard rejects a second completion.
func (s *EventService) MarkCompleted(ctx context.Context, actor domain.Actor, id string, successful bool) (*domain.Event, error) {
	event, err := s.transition(ctx, actor, OpEventComplete, id, func(e *domain.Event, now time.Time) error {
		return e.MarkCompleted(actor.ID, successful, now)
	})
	if err != nil {
		return nil, err
	}

	if successful {
		// The event row is already COMPLETED at this point, so a counter
		// failure must reach the caller; swallowing it would leave the parent
		// tier silently behind.
		if err := s.submissions.IncrementSuccessfulEvents(ctx, event.SubmissionID); err != nil {
			s.logger.Error("increment successful events",
				zap.String("event_id", event.EventID),
				zap.String("submission_ref", event.SubmissionID),
				zap.Error(err))
			return nil, fmt.Errorf("increment successful events for %s: %w", event.SubmissionID, err)
		}
	}

	return event, nil
}

// Cancel moves the event to CANCELLED. The reason is optional.
func (s *EventService) Cancel(ctx context.Context, actor domain.Actor, id string, reason *string) (*domain.Event, error) {
	return s.transition(ctx, actor, OpEventCancel, id, func(e *domain.Event, now time.Time) error {
		return e.Cancel(actor.ID, reason, now)
	})
}

func (s *EventService) transition(
	ctx context.Context,
	actor domain.Actor,
	op Operation,
	id string,
	apply func(*domain.Event, time.Time) error,
) (*domain.Event, error) {
	if err := Authorize(actor, op); err != nil {
		return nil, err
	}

	event, err := s.events.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}

	now := time.Now().UTC()
	fromStatus := event.Status
	if err := apply(event, now); err != nil {
		return nil, err
	}

	if err := s.events.Update(ctx, *event); err != nil {
		return nil, fmt.Errorf("update event: %w", err)
	}

	s.enqueueSync(ctx, *event, domain.SyncActionUpdate)
	s.publishTransition(ctx, *event, string(op), string(fromStatus), actor.ID, now)
	return event, nil
}

// Get loads one event by internal id.
func (s *EventService) Get(ctx context.Context, id string) (*domain.Event, error) {
	return s.events.GetByID(ctx, id)
}

// List returns events, optionally filtered by status.
func (s *EventService) List(ctx context.Context, status *domain.EventStatus) ([]domain.Event, error) {
	return s.events.List(ctx, status)
}

// ListBySubmission returns the event applications filed against a submission.
func (s *EventService) ListBySubmission(ctx context.Context, submissionRefID string) ([]domain.Event, error) {
	return s.events.ListBySubmission(ctx, submissionRefID)
}

func (s *EventService) enqueueSync(ctx context.Context, event domain.Event, action domain.SyncAction) {
	if s.syncQueue == nil {
		return
	}
	task := domain.SyncTask{
		EntityType:  domain.SyncEntityEvent,
		EntityID:    event.ID,
		Action:      action,
		BusinessKey: event.EventID,
	}
	if err := s.syncQueue.Enqueue(ctx, task); err != nil {
		s.logger.Error("enqueue event sync task",
			zap.String("event_id", event.EventID),
			zap.String("action", string(action)),
			zap.Error(err))
	}
}

func (s *EventService) publishTransition(ctx context.Context, event domain.Event, op, from, actorID string, at time.Time) {
	if s.publisher == nil {
		return
	}
	e := domain.WorkflowTransitionEvent{
		EntityType: domain.SyncEntityEvent,
		EntityID:   event.ID,
		BusinessID: event.EventID,
		Operation:  op,
		FromStatus: from,
		ToStatus:   string(event.Status),
		ActorID:    actorID,
		OccurredAt: at,
	}
	if err := s.publisher.PublishWorkflowTransition(ctx, e); err != nil {
		s.logger.Error("publish event transition", zap.Error(err))
	}
}
