package sync

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go.uber.org/zap"

	"github.com/moontonsl/communityheroesph-sub001/internal/core/domain"
	"github.com/moontonsl/communityheroesph-sub001/internal/core/port"
	"github.com/moontonsl/communityheroesph-sub001/internal/repository"
)

const dequeueWait = 5 * time.Second

// Worker drains the sync queue and mirrors entity snapshots to the external
// service. Failures are retried by the queue; the triggering workflow
// transition is never affected.
type Worker struct {
	queue       *Queue
	mirror      port.MirrorClient
	submissions port.SubmissionRepository
	events      port.EventRepository
	reports     port.ReportingRepository
	users       port.UserRepository
	logger      *zap.Logger

	nameCache map[string]string
}

// NewWorker constructs a sync worker.
func NewWorker(
	queue *Queue,
	mirror port.MirrorClient,
	submissions port.SubmissionRepository,
	events port.EventRepository,
	reports port.ReportingRepository,
	users port.UserRepository,
	logger *zap.Logger,
) *Worker {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Worker{
		queue:       queue,
		mirror:      mirror,
		submissions: submissions,
		events:      events,
		reports:     reports,
		users:       users,
		logger:      logger,
		nameCache:   make(map[string]string),
	}
}

// Run processes jobs until the context is cancelled.
func (w *Worker) Run(ctx context.Context) error {
	w.logger.Info("sync worker started")
	for {
		select {
		case <-ctx.Done():
			w.logger.Info("sync worker stopping")
			return ctx.Err()
		default:
		}

		job, err := w.queue.Dequeue(ctx, dequeueWait)
		if err != nil {
			if errors.Is(err, context.Canceled) {
				return err
			}
			w.logger.Error("dequeue sync job", zap.Error(err))
			time.Sleep(time.Second)
			continue
		}
		if job == nil {
			continue
		}

		if err := w.Process(ctx, job); err != nil {
			w.logger.Error("sync job failed",
				zap.String("job_id", job.ID),
				zap.String("entity_type", string(job.Task.EntityType)),
				zap.String("entity_id", job.Task.EntityID),
				zap.String("action", string(job.Task.Action)),
				zap.Int("attempt", job.Attempt),
				zap.Error(err))
			if retryErr := w.queue.Retry(ctx, job); retryErr != nil {
				w.logger.Error("retry sync job", zap.String("job_id", job.ID), zap.Error(retryErr))
			}
		}
	}
}

// Process mirrors one job. Deletes use the task's business key since the row
// may already be gone; everything else loads a fresh snapshot.
func (w *Worker) Process(ctx context.Context, job *Job) error {
	task := job.Task

	if task.Action == domain.SyncActionDelete {
		table, keyField := tableFor(task.EntityType)
		if err := w.mirror.DeleteByKey(ctx, table, keyField, task.BusinessKey); err != nil {
			return fmt.Errorf("mirror delete %s %s: %w", task.EntityType, task.BusinessKey, err)
		}
		return nil
	}

	switch task.EntityType {
	case domain.SyncEntitySubmission:
		return w.mirrorSubmission(ctx, task.EntityID)
	case domain.SyncEntityEvent:
		return w.mirrorEvent(ctx, task.EntityID)
	case domain.SyncEntityReport:
		return w.mirrorReport(ctx, task.EntityID)
	default:
		return fmt.Errorf("unknown sync entity type: %s", task.EntityType)
	}
}

func (w *Worker) mirrorSubmission(ctx context.Context, id string) error {
	submission, err := w.submissions.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			w.logger.Warn("submission vanished before sync", zap.String("entity_id", id))
			return nil
		}
		return fmt.Errorf("load submission: %w", err)
	}

	fields := SubmissionFields(*submission, w.resolveName(ctx))
	if _, err := w.mirror.Upsert(ctx, SubmissionsTable, SubmissionKeyField, fields); err != nil {
		return fmt.Errorf("mirror submission %s: %w", submission.SubmissionID, err)
	}
	return nil
}

func (w *Worker) mirrorEvent(ctx context.Context, id string) error {
	event, err := w.events.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			w.logger.Warn("event vanished before sync", zap.String("entity_id", id))
			return nil
		}
		return fmt.Errorf("load event: %w", err)
	}

	businessSubmissionID := ""
	if submission, err := w.submissions.GetByID(ctx, event.SubmissionID); err == nil {
		businessSubmissionID = submission.SubmissionID
	}

	fields := EventFields(*event, businessSubmissionID, w.resolveName(ctx))
	if _, err := w.mirror.Upsert(ctx, EventsTable, EventKeyField, fields); err != nil {
		return fmt.Errorf("mirror event %s: %w", event.EventID, err)
	}
	return nil
}

func (w *Worker) mirrorReport(ctx context.Context, id string) error {
	report, err := w.reports.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			w.logger.Warn("report vanished before sync", zap.String("entity_id", id))
			return nil
		}
		return fmt.Errorf("load report: %w", err)
	}

	businessEventID := ""
	if event, err := w.events.GetByID(ctx, report.EventRefID); err == nil {
		businessEventID = event.EventID
	}

	fields := ReportFields(*report, businessEventID, w.resolveName(ctx))
	if _, err := w.mirror.Upsert(ctx, ReportsTable, ReportKeyField, fields); err != nil {
		return fmt.Errorf("mirror report %s: %w", report.ReportID, err)
	}
	return nil
}

// resolveName returns a resolver backed by a per-worker cache of user display names.
func (w *Worker) resolveName(ctx context.Context) ActorNameResolver {
	return func(userID string) string {
		if userID == "" {
			return ""
		}
		if name, ok := w.nameCache[userID]; ok {
			return name
		}
		user, err := w.users.GetByID(ctx, userID)
		if err != nil {
			return ""
		}
		w.nameCache[userID] = user.Name
		return user.Name
	}
}

func tableFor(entityType domain.SyncEntityType) (table, keyField string) {
	switch entityType {
	case domain.SyncEntityEvent:
		return EventsTable, EventKeyField
	case domain.SyncEntityReport:
		return ReportsTable, ReportKeyField
	default:
		return SubmissionsTable, SubmissionKeyField
	}
}
