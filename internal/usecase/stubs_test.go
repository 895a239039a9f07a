package usecase

import (
	"context"
	"errors"
	"io"
	"time"

	"github.com/moontonsl/communityheroesph-sub001/internal/core/domain"
	"github.com/moontonsl/communityheroesph-sub001/internal/core/port"
	"github.com/moontonsl/communityheroesph-sub001/internal/repository"
)

// In-memory fakes shared by the workflow service tests.

type memSubmissionRepo struct {
	rows map[string]domain.BarangaySubmission
}

func newMemSubmissionRepo() *memSubmissionRepo {
	return &memSubmissionRepo{rows: make(map[string]domain.BarangaySubmission)}
}

func (r *memSubmissionRepo) Create(_ context.Context, s domain.BarangaySubmission) error {
	r.rows[s.ID] = s
	return nil
}

func (r *memSubmissionRepo) GetByID(_ context.Context, id string) (*domain.BarangaySubmission, error) {
	s, ok := r.rows[id]
	if !ok {
		return nil, repository.ErrNotFound
	}
	copy := s
	return &copy, nil
}

func (r *memSubmissionRepo) GetBySubmissionID(_ context.Context, submissionID string) (*domain.BarangaySubmission, error) {
	for _, s := range r.rows {
		if s.SubmissionID == submissionID {
			copy := s
			return &copy, nil
		}
	}
	return nil, repository.ErrNotFound
}

func (r *memSubmissionRepo) List(_ context.Context, status *domain.SubmissionStatus) ([]domain.BarangaySubmission, error) {
	var out []domain.BarangaySubmission
	for _, s := range r.rows {
		if status == nil || s.Status == *status {
			out = append(out, s)
		}
	}
	return out, nil
}

func (r *memSubmissionRepo) ListAll(ctx context.Context) ([]domain.BarangaySubmission, error) {
	return r.List(ctx, nil)
}

func (r *memSubmissionRepo) Update(_ context.Context, s domain.BarangaySubmission) error {
	if _, ok := r.rows[s.ID]; !ok {
		return repository.ErrNotFound
	}
	r.rows[s.ID] = s
	return nil
}

func (r *memSubmissionRepo) ListExpiring(_ context.Context, now time.Time) ([]domain.BarangaySubmission, error) {
	var out []domain.BarangaySubmission
	for _, s := range r.rows {
		if s.Status == domain.SubmissionApproved && !s.IsMoaExpired &&
			s.MoaExpiryDate != nil && s.MoaExpiryDate.Before(now) {
			out = append(out, s)
		}
	}
	return out, nil
}

type memEventRepo struct {
	rows map[string]domain.Event
}

func newMemEventRepo() *memEventRepo {
	return &memEventRepo{rows: make(map[string]domain.Event)}
}

func (r *memEventRepo) Create(_ context.Context, e domain.Event) error {
	r.rows[e.ID] = e
	return nil
}

func (r *memEventRepo) GetByID(_ context.Context, id string) (*domain.Event, error) {
	e, ok := r.rows[id]
	if !ok {
		return nil, repository.ErrNotFound
	}
	copy := e
	return &copy, nil
}

func (r *memEventRepo) GetByEventID(_ context.Context, eventID string) (*domain.Event, error) {
	for _, e := range r.rows {
		if e.EventID == eventID {
			copy := e
			return &copy, nil
		}
	}
	return nil, repository.ErrNotFound
}

func (r *memEventRepo) List(_ context.Context, status *domain.EventStatus) ([]domain.Event, error) {
	var out []domain.Event
	for _, e := range r.rows {
		if status == nil || e.Status == *status {
			out = append(out, e)
		}
	}
	return out, nil
}

func (r *memEventRepo) ListAll(ctx context.Context) ([]domain.Event, error) {
	return r.List(ctx, nil)
}

func (r *memEventRepo) ListBySubmission(_ context.Context, submissionID string) ([]domain.Event, error) {
	var out []domain.Event
	for _, e := range r.rows {
		if e.SubmissionID == submissionID {
			out = append(out, e)
		}
	}
	return out, nil
}

func (r *memEventRepo) ExistsForApplicant(_ context.Context, submissionID, applicantID string) (bool, error) {
	for _, e := range r.rows {
		if e.SubmissionID != submissionID || e.AppliedByID != applicantID {
			continue
		}
		switch e.Status {
		case domain.EventPending, domain.EventApproved, domain.EventCompleted:
			return true, nil
		}
	}
	return false, nil
}

func (r *memEventRepo) Update(_ context.Context, e domain.Event) error {
	if _, ok := r.rows[e.ID]; !ok {
		return repository.ErrNotFound
	}
	r.rows[e.ID] = e
	return nil
}

type memReportRepo struct {
	rows map[string]domain.EventReporting
}

func newMemReportRepo() *memReportRepo {
	return &memReportRepo{rows: make(map[string]domain.EventReporting)}
}

func (r *memReportRepo) Create(_ context.Context, rep domain.EventReporting) error {
	r.rows[rep.ID] = rep
	return nil
}

func (r *memReportRepo) GetByID(_ context.Context, id string) (*domain.EventReporting, error) {
	rep, ok := r.rows[id]
	if !ok {
		return nil, repository.ErrNotFound
	}
	copy := rep
	return &copy, nil
}

func (r *memReportRepo) GetByReportID(_ context.Context, reportID string) (*domain.EventReporting, error) {
	for _, rep := range r.rows {
		if rep.ReportID == reportID {
			copy := rep
			return &copy, nil
		}
	}
	return nil, repository.ErrNotFound
}

func (r *memReportRepo) List(_ context.Context, status *domain.ReportStatus) ([]domain.EventReporting, error) {
	var out []domain.EventReporting
	for _, rep := range r.rows {
		if status == nil || rep.Status == *status {
			out = append(out, rep)
		}
	}
	return out, nil
}

func (r *memReportRepo) ListAll(ctx context.Context) ([]domain.EventReporting, error) {
	return r.List(ctx, nil)
}

func (r *memReportRepo) ListByReporter(_ context.Context, reporterID string) ([]domain.EventReporting, error) {
	var out []domain.EventReporting
	for _, rep := range r.rows {
		if rep.ReportedByID == reporterID {
			out = append(out, rep)
		}
	}
	return out, nil
}

func (r *memReportRepo) ExistsForEventAndReporter(_ context.Context, eventRefID, reporterID string) (bool, error) {
	for _, rep := range r.rows {
		if rep.EventRefID == eventRefID && rep.ReportedByID == reporterID {
			return true, nil
		}
	}
	return false, nil
}

func (r *memReportRepo) Update(_ context.Context, rep domain.EventReporting) error {
	if _, ok := r.rows[rep.ID]; !ok {
		return repository.ErrNotFound
	}
	r.rows[rep.ID] = rep
	return nil
}

func (r *memReportRepo) Delete(_ context.Context, id string) error {
	if _, ok := r.rows[id]; !ok {
		return repository.ErrNotFound
	}
	delete(r.rows, id)
	return nil
}

type stubLocationRepo struct{}

func (stubLocationRepo) ListRegions(context.Context) ([]domain.Region, error) {
	return nil, errors.New("unexpected call: ListRegions")
}

func (stubLocationRepo) ListProvinces(context.Context, string) ([]domain.Province, error) {
	return nil, errors.New("unexpected call: ListProvinces")
}

func (stubLocationRepo) ListMunicipalities(context.Context, string) ([]domain.Municipality, error) {
	return nil, errors.New("unexpected call: ListMunicipalities")
}

func (stubLocationRepo) ListBarangays(context.Context, string) ([]domain.Barangay, error) {
	return nil, errors.New("unexpected call: ListBarangays")
}

func (stubLocationRepo) ResolveNames(_ context.Context, regionID, _, _, barangayID string) (string, string, string, string, error) {
	if regionID == "" || barangayID == "" {
		return "", "", "", "", repository.ErrNotFound
	}
	return "Region IV-A", "Laguna", "Calamba", "Barangay Uno", nil
}

type memDocStore struct {
	stored  []port.StoredDocument
	deleted []port.StoredDocument
}

func (d *memDocStore) Store(_ context.Context, r io.Reader, targetPath, originalName string) (port.StoredDocument, error) {
	if r != nil {
		_, _ = io.Copy(io.Discard, r)
	}
	doc := port.StoredDocument{Path: targetPath + "/" + originalName, Name: originalName}
	d.stored = append(d.stored, doc)
	return doc, nil
}

func (d *memDocStore) Delete(_ context.Context, doc port.StoredDocument) error {
	d.deleted = append(d.deleted, doc)
	return nil
}

func (d *memDocStore) Open(context.Context, port.StoredDocument) (io.ReadCloser, error) {
	return nil, errors.New("unexpected call: Open")
}

type captureQueue struct {
	tasks []domain.SyncTask
	err   error
}

func (q *captureQueue) Enqueue(_ context.Context, task domain.SyncTask) error {
	if q.err != nil {
		return q.err
	}
	q.tasks = append(q.tasks, task)
	return nil
}

type capturePublisher struct {
	events []domain.WorkflowTransitionEvent
}

func (p *capturePublisher) PublishWorkflowTransition(_ context.Context, event domain.WorkflowTransitionEvent) error {
	p.events = append(p.events, event)
	return nil
}
