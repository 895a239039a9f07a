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
	// ErrEventNotReportable indicates the event's status does not accept reports.
	ErrEventNotReportable = errors.New("event is not eligible for reporting")
	// ErrReportExists indicates this actor already filed a report for the event.
	ErrReportExists = errors.New("a report already exists for this event and reporter")
	// ErrReportNotEditable indicates the report has left DRAFT and its content is frozen.
	ErrReportNotEditable = errors.New("only draft reports can be edited or deleted")
	// ErrNotReportOwner indicates the actor did not author the report.
	ErrNotReportOwner = errors.New("actor does not own this report")
)

// CreateReportInput captures a new post-event report. The file is optional at
// creation time.
type CreateReportInput struct {
	EventRefID string

	CampaignName string

	PicName             string
	CashAllocation      float64
	DiamondsExpenditure float64
	TotalCostPHP        float64

	ReportFile     io.Reader
	ReportFileName string
}

// UpdateFinancialsInput is the financial field group, editable by the financial
// authority at any pipeline state.
type UpdateFinancialsInput struct {
	PicName             string
	CashAllocation      float64
	DiamondsExpenditure float64
	TotalCostPHP        float64
}

// ReportingService owns the post-event report pipeline and clearance tracks.
type ReportingService struct {
	reports   port.ReportingRepository
	events    port.EventRepository
	documents port.DocumentStore
	syncQueue port.SyncEnqueuer
	publisher port.EventPublisher
	logger    *zap.Logger
}

// NewReportingService constructs a ReportingService.
func NewReportingService(
	reports port.ReportingRepository,
	events port.EventRepository,
	documents port.DocumentStore,
	syncQueue port.SyncEnqueuer,
	publisher port.EventPublisher,
	logger *zap.Logger,
) *ReportingService {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &ReportingService{
		reports:   reports,
		events:    events,
		documents: documents,
		syncQueue: syncQueue,
		publisher: publisher,
		logger:    logger,
	}
}

// Create files a new report as DRAFT with both clearance tracks PENDING.
func (s *ReportingService) Create(ctx context.Context, actor domain.Actor, input CreateReportInput) (*domain.EventReporting, error) {
	if err := Authorize(actor, OpReportCreate); err != nil {
		return nil, err
	}

	event, err := s.events.GetByID(ctx, input.EventRefID)
	if err != nil {
		return nil, err
	}
	if !event.ReportEligible() {
		return nil, ErrEventNotReportable
	}

	exists, err := s.reports.ExistsForEventAndReporter(ctx, event.ID, actor.ID)
	if err != nil {
		return nil, fmt.Errorf("check existing report: %w", err)
	}
	if exists {
		return nil, ErrReportExists
	}

	now := time.Now().UTC()
	report := domain.EventReporting{
		ID:           uuid.NewString(),
		ReportID:     newBusinessID("RPT"),
		EventRefID:   event.ID,
		ReportedByID: actor.ID,

		EventName:        event.Name,
		EventDescription: event.Description,
		EventDate:        event.EventDate,
		EventLocation:    event.Location,
		CampaignName:     strings.TrimSpace(input.CampaignName),

		PicName:             strings.TrimSpace(input.PicName),
		CashAllocation:      input.CashAllocation,
		DiamondsExpenditure: input.DiamondsExpenditure,
		TotalCostPHP:        input.TotalCostPHP,

		Status:               domain.ReportDraft,
		FirstClearanceStatus: domain.ClearancePending,
		FinalClearanceStatus: domain.ClearancePending,

		CreatedAt: now,
		UpdatedAt: now,
	}

	if input.ReportFile != nil {
		targetPath := fmt.Sprintf("reports/%s", report.ReportID)
		doc, err := s.documents.Store(ctx, input.ReportFile, targetPath, input.ReportFileName)
		if err != nil {
			return nil, fmt.Errorf("store report document: %w", err)
		}
		report.ReportFilePath = &doc.Path
		report.ReportFileName = &doc.Name
	}

	if err := s.reports.Create(ctx, report); err != nil {
		return nil, fmt.Errorf("create report: %w", err)
	}

	s.enqueueSync(ctx, report, domain.SyncActionCreate)
	return &report, nil
}

// Submit enters a draft report into the pipeline. Only the author may submit.
func (s *ReportingService) Submit(ctx context.Context, actor domain.Actor, id string) (*domain.EventReporting, error) {
	if err := Authorize(actor, OpReportSubmit); err != nil {
		return nil, err
	}

	report, err := s.reports.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if report.ReportedByID != actor.ID {
		return nil, ErrNotReportOwner
	}

	now := time.Now().UTC()
	from := report.Status
	if err := report.Submit(now); err != nil {
		return nil, err
	}
	if err := s.reports.Update(ctx, *report); err != nil {
		return nil, fmt.Errorf("update report: %w", err)
	}

	s.enqueueSync(ctx, *report, domain.SyncActionUpdate)
	s.publishTransition(ctx, *report, string(OpReportSubmit), string(from), actor.ID, now)
	return report, nil
}

// PreApprove advances a submitted report. Community lead only.
func (s *ReportingService) PreApprove(ctx context.Context, actor domain.Actor, id string, notes *string) (*domain.EventReporting, error) {
	return s.transition(ctx, actor, OpReportPreApprove, id, func(r *domain.EventReporting, now time.Time) error {
		return r.PreApprove(actor.ID, notes, now)
	})
}

// Review advances a pre-approved report.
func (s *ReportingService) Review(ctx context.Context, actor domain.Actor, id string, notes *string) (*domain.EventReporting, error) {
	return s.transition(ctx, actor, OpReportReview, id, func(r *domain.EventReporting, now time.Time) error {
		return r.Review(actor.ID, notes, now)
	})
}

// Approve finishes the primary pipeline.
func (s *ReportingService) Approve(ctx context.Context, actor domain.Actor, id string, notes *string) (*domain.EventReporting, error) {
	return s.transition(ctx, actor, OpReportApprove, id, func(r *domain.EventReporting, now time.Time) error {
		return r.Approve(actor.ID, notes, now)
	})
}

// FirstClearance records the first clearance sign-off.
func (s *ReportingService) FirstClearance(ctx context.Context, actor domain.Actor, id string) (*domain.EventReporting, error) {
	return s.transition(ctx, actor, OpReportFirstClearance, id, func(r *domain.EventReporting, now time.Time) error {
		return r.ClearFirst(actor.ID, now)
	})
}

// FinalClearance records the final clearance sign-off. Super-admin-b only.
func (s *ReportingService) FinalClearance(ctx context.Context, actor domain.Actor, id string) (*domain.EventReporting, error) {
	return s.transition(ctx, actor, OpReportFinalClearance, id, func(r *domain.EventReporting, now time.Time) error {
		return r.ClearFinal(actor.ID, now)
	})
}

// UpdateFinancials replaces the financial field group. Allowed at any pipeline
// state for the financial authority roles.
func (s *ReportingService) UpdateFinancials(ctx context.Context, actor domain.Actor, id string, input UpdateFinancialsInput) (*domain.EventReporting, error) {
	return s.transition(ctx, actor, OpReportUpdateFinancial, id, func(r *domain.EventReporting, now time.Time) error {
		r.UpdateFinancials(strings.TrimSpace(input.PicName), input.CashAllocation, input.DiamondsExpenditure, input.TotalCostPHP, now)
		return nil
	})
}

// ReplaceDocument swaps the attached file on a draft report. The old file is
// deleted after the new one is stored.
func (s *ReportingService) ReplaceDocument(ctx context.Context, actor domain.Actor, id string, file io.Reader, fileName string) (*domain.EventReporting, error) {
	if err := Authorize(actor, OpReportCreate); err != nil {
		return nil, err
	}

	report, err := s.reports.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if report.ReportedByID != actor.ID {
		return nil, ErrNotReportOwner
	}
	if !report.Editable() {
		return nil, ErrReportNotEditable
	}

	targetPath := fmt.Sprintf("reports/%s", report.ReportID)
	doc, err := s.documents.Store(ctx, file, targetPath, fileName)
	if err != nil {
		return nil, fmt.Errorf("store report document: %w", err)
	}

	old := report.ReportFilePath
	oldName := report.ReportFileName
	report.ReportFilePath = &doc.Path
	report.ReportFileName = &doc.Name
	report.UpdatedAt = time.Now().UTC()

	if err := s.reports.Update(ctx, *report); err != nil {
		return nil, fmt.Errorf("update report: %w", err)
	}

	if old != nil {
		stale := port.StoredDocument{Path: *old}
		if oldName != nil {
			stale.Name = *oldName
		}
		if err := s.documents.Delete(ctx, stale); err != nil {
			s.logger.Warn("delete replaced report file",
				zap.String("report_id", report.ReportID),
				zap.String("path", stale.Path),
				zap.Error(err))
		}
	}

	s.enqueueSync(ctx, *report, domain.SyncActionUpdate)
	return report, nil
}

// Delete removes a draft report, attached file first.
func (s *ReportingService) Delete(ctx context.Context, actor domain.Actor, id string) error {
	if err := Authorize(actor, OpReportCreate); err != nil {
		return err
	}

	report, err := s.reports.GetByID(ctx, id)
	if err != nil {
		return err
	}
	if report.ReportedByID != actor.ID {
		return ErrNotReportOwner
	}
	if !report.Editable() {
		return ErrReportNotEditable
	}

	if report.ReportFilePath != nil {
		doc := port.StoredDocument{Path: *report.ReportFilePath}
		if report.ReportFileName != nil {
			doc.Name = *report.ReportFileName
		}
		if err := s.documents.Delete(ctx, doc); err != nil {
			return fmt.Errorf("delete report file: %w", err)
		}
	}

	if err := s.reports.Delete(ctx, report.ID); err != nil {
		return fmt.Errorf("delete report: %w", err)
	}

	s.enqueueSyncTask(ctx, domain.SyncTask{
		EntityType:  domain.SyncEntityReport,
		EntityID:    report.ID,
		Action:      domain.SyncActionDelete,
		BusinessKey: report.ReportID,
	})
	return nil
}

// ListAdmin returns every report for the admin-only global view.
func (s *ReportingService) ListAdmin(ctx context.Context, actor domain.Actor, status *domain.ReportStatus) ([]domain.EventReporting, error) {
	if err := Authorize(actor, OpReportAdminView); err != nil {
		return nil, err
	}
	return s.reports.List(ctx, status)
}

// ListOwn returns the reports authored by the actor.
func (s *ReportingService) ListOwn(ctx context.Context, actor domain.Actor) ([]domain.EventReporting, error) {
	return s.reports.ListByReporter(ctx, actor.ID)
}

// Get loads one report by internal id.
func (s *ReportingService) Get(ctx context.Context, id string) (*domain.EventReporting, error) {
	return s.reports.GetByID(ctx, id)
}

func (s *ReportingService) transition(
	ctx context.Context,
	actor domain.Actor,
	op Operation,
	id string,
	apply func(*domain.EventReporting, time.Time) error,
) (*domain.EventReporting, error) {
	if err := Authorize(actor, op); err != nil {
		return nil, err
	}

	report, err := s.reports.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}

	now := time.Now().UTC()
	from := report.Status
	if err := apply(report, now); err != nil {
		return nil, err
	}

	if err := s.reports.Update(ctx, *report); err != nil {
		return nil, fmt.Errorf("update report: %w", err)
	}

	s.enqueueSync(ctx, *report, domain.SyncActionUpdate)
	s.publishTransition(ctx, *report, string(op), string(from), actor.ID, now)
	return report, nil
}

func (s *ReportingService) enqueueSync(ctx context.Context, report domain.EventReporting, action domain.SyncAction) {
	s.enqueueSyncTask(ctx, domain.SyncTask{
		EntityType:  domain.SyncEntityReport,
		EntityID:    report.ID,
		Action:      action,
		BusinessKey: report.ReportID,
	})
}

func (s *ReportingService) enqueueSyncTask(ctx context.Context, task domain.SyncTask) {
	if s.syncQueue == nil {
		return
	}
	if err := s.syncQueue.Enqueue(ctx, task); err != nil {
		s.logger.Error("enqueue report sync task",
			zap.String("business_key", task.BusinessKey),
			zap.String("action", string(task.Action)),
			zap.Error(err))
	}
}

func (s *ReportingService) publishTransition(ctx context.Context, report domain.EventReporting, op, from, actorID string, at time.Time) {
	if s.publisher == nil {
		return
	}
	event := domain.WorkflowTransitionEvent{
		EntityType: domain.SyncEntityReport,
		EntityID:   report.ID,
		BusinessID: report.ReportID,
		Operation:  op,
		FromStatus: from,
		ToStatus:   string(report.Status),
		ActorID:    actorID,
		OccurredAt: at,
	}
	if err := s.publisher.PublishWorkflowTransition(ctx, event); err != nil {
		s.logger.Error("publish report transition", zap.Error(err))
	}
}
