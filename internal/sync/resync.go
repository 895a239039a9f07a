package sync

import (
	"context"
	"fmt"

	"go.uber.org/zap"

	"github.com/moontonsl/communityheroesph-sub001/internal/core/domain"
	"github.com/moontonsl/communityheroesph-sub001/internal/core/port"
)

// ResyncReport aggregates the outcome of a bulk mirror run.
type ResyncReport struct {
	Submissions int
	Events      int
	Reports     int
	Errors      []string
}

// Total returns the number of successfully mirrored records.
func (r ResyncReport) Total() int {
	return r.Submissions + r.Events + r.Reports
}

// Resyncer pushes full entity snapshots straight to the mirror, bypassing the
// queue. Used by the operational CLI.
type Resyncer struct {
	worker      *Worker
	mirror      port.MirrorClient
	submissions port.SubmissionRepository
	events      port.EventRepository
	reports     port.ReportingRepository
	logger      *zap.Logger
}

// NewResyncer constructs a Resyncer sharing the worker's mapping logic.
func NewResyncer(worker *Worker, mirror port.MirrorClient, logger *zap.Logger) *Resyncer {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Resyncer{
		worker:      worker,
		mirror:      mirror,
		submissions: worker.submissions,
		events:      worker.events,
		reports:     worker.reports,
		logger:      logger,
	}
}

// Ping verifies connectivity with the mirror.
func (r *Resyncer) Ping(ctx context.Context) error {
	return r.mirror.Ping(ctx)
}

// ResyncAll mirrors every submission, event, and report, collecting per-record
// errors instead of aborting.
func (r *Resyncer) ResyncAll(ctx context.Context) (ResyncReport, error) {
	var report ResyncReport

	submissions, err := r.submissions.ListAll(ctx)
	if err != nil {
		return report, fmt.Errorf("list submissions: %w", err)
	}
	for _, s := range submissions {
		if err := r.worker.mirrorSubmission(ctx, s.ID); err != nil {
			report.Errors = append(report.Errors, fmt.Sprintf("submission %s: %v", s.SubmissionID, err))
			continue
		}
		report.Submissions++
	}

	events, err := r.events.ListAll(ctx)
	if err != nil {
		return report, fmt.Errorf("list events: %w", err)
	}
	for _, e := range events {
		if err := r.worker.mirrorEvent(ctx, e.ID); err != nil {
			report.Errors = append(report.Errors, fmt.Sprintf("event %s: %v", e.EventID, err))
			continue
		}
		report.Events++
	}

	reports, err := r.reports.ListAll(ctx)
	if err != nil {
		return report, fmt.Errorf("list reports: %w", err)
	}
	for _, rep := range reports {
		if err := r.worker.mirrorReport(ctx, rep.ID); err != nil {
			report.Errors = append(report.Errors, fmt.Sprintf("report %s: %v", rep.ReportID, err))
			continue
		}
		report.Reports++
	}

	r.logger.Info("full resync finished",
		zap.Int("submissions", report.Submissions),
		zap.Int("events", report.Events),
		zap.Int("reports", report.Reports),
		zap.Int("errors", len(report.Errors)))
	return report, nil
}

// ResyncOne mirrors a single entity by internal id.
func (r *Resyncer) ResyncOne(ctx context.Context, entityType domain.SyncEntityType, id string) error {
	switch entityType {
	case domain.SyncEntitySubmission:
		return r.worker.mirrorSubmission(ctx, id)
	case domain.SyncEntityEvent:
		return r.worker.mirrorEvent(ctx, id)
	case domain.SyncEntityReport:
		return r.worker.mirrorReport(ctx, id)
	default:
		return fmt.Errorf("unknown entity type: %s", entityType)
	}
}
