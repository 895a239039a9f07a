package sync

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/moontonsl/communityheroesph-sub001/internal/core/domain"
	"github.com/moontonsl/communityheroesph-sub001/internal/core/port"
	"github.com/moontonsl/communityheroesph-sub001/internal/repository"
)

type fakeMirror struct {
	upserts []struct {
		Table    string
		KeyField string
		Fields   map[string]any
	}
	deletes []string
	err     error
}

func (m *fakeMirror) Upsert(_ context.Context, table, keyField string, fields map[string]any) (port.UpsertResult, error) {
	if m.err != nil {
		return port.UpsertResult{}, m.err
	}
	m.upserts = append(m.upserts, struct {
		Table    string
		KeyField string
		Fields   map[string]any
	}{table, keyField, fields})
	return port.UpsertResult{ExternalID: "rec123", Created: true}, nil
}

func (m *fakeMirror) DeleteByKey(_ context.Context, _, _, key string) error {
	if m.err != nil {
		return m.err
	}
	m.deletes = append(m.deletes, key)
	return nil
}

func (m *fakeMirror) Ping(context.Context) error { return m.err }

type oneSubmissionRepo struct {
	submission domain.BarangaySubmission
}

func (r *oneSubmissionRepo) Create(context.Context, domain.BarangaySubmission) error {
	return errors.New("unexpected call: Create")
}

func (r *oneSubmissionRepo) GetByID(_ context.Context, id string) (*domain.BarangaySubmission, error) {
	if id != r.submission.ID {
		return nil, repository.ErrNotFound
	}
	copy := r.submission
	return &copy, nil
}

func (r *oneSubmissionRepo) GetBySubmissionID(context.Context, string) (*domain.BarangaySubmission, error) {
	return nil, errors.New("unexpected call: GetBySubmissionID")
}

func (r *oneSubmissionRepo) List(context.Context, *domain.SubmissionStatus) ([]domain.BarangaySubmission, error) {
	return nil, errors.New("unexpected call: List")
}

func (r *oneSubmissionRepo) ListAll(context.Context) ([]domain.BarangaySubmission, error) {
	return []domain.BarangaySubmission{r.submission}, nil
}

func (r *oneSubmissionRepo) Update(context.Context, domain.BarangaySubmission) error {
	return errors.New("unexpected call: Update")
}

func (r *oneSubmissionRepo) ListExpiring(context.Context, time.Time) ([]domain.BarangaySubmission, error) {
	return nil, errors.New("unexpected call: ListExpiring")
}

type noEventRepo struct{}

func (noEventRepo) Create(context.Context, domain.Event) error {
	return errors.New("unexpected call: Create")
}
func (noEventRepo) GetByID(context.Context, string) (*domain.Event, error) {
	return nil, repository.ErrNotFound
}
func (noEventRepo) GetByEventID(context.Context, string) (*domain.Event, error) {
	return nil, repository.ErrNotFound
}
func (noEventRepo) List(context.Context, *domain.EventStatus) ([]domain.Event, error) {
	return nil, errors.New("unexpected call: List")
}
func (noEventRepo) ListAll(context.Context) ([]domain.Event, error) { return nil, nil }
func (noEventRepo) ListBySubmission(context.Context, string) ([]domain.Event, error) {
	return nil, errors.New("unexpected call: ListBySubmission")
}
func (noEventRepo) ExistsForApplicant(context.Context, string, string) (bool, error) {
	return false, errors.New("unexpected call: ExistsForApplicant")
}
func (noEventRepo) Update(context.Context, domain.Event) error {
	return errors.New("unexpected call: Update")
}

type noReportRepo struct{}

func (noReportRepo) Create(context.Context, domain.EventReporting) error {
	return errors.New("unexpected call: Create")
}
func (noReportRepo) GetByID(context.Context, string) (*domain.EventReporting, error) {
	return nil, repository.ErrNotFound
}
func (noReportRepo) GetByReportID(context.Context, string) (*domain.EventReporting, error) {
	return nil, repository.ErrNotFound
}
func (noReportRepo) List(context.Context, *domain.ReportStatus) ([]domain.EventReporting, error) {
	return nil, errors.New("unexpected call: List")
}
func (noReportRepo) ListAll(context.Context) ([]domain.EventReporting, error) { return nil, nil }
func (noReportRepo) ListByReporter(context.Context, string) ([]domain.EventReporting, error) {
	return nil, errors.New("unexpected call: ListByReporter")
}
func (noReportRepo) ExistsForEventAndReporter(context.Context, string, string) (bool, error) {
	return false, errors.New("unexpected call: ExistsForEventAndReporter")
}
func (noReportRepo) Update(context.Context, domain.EventReporting) error {
	return errors.New("unexpected call: Update")
}
func (noReportRepo) Delete(context.Context, string) error {
	return errors.New("unexpected call: Delete")
}

type namedUserRepo struct {
	users map[string]string
	calls int
}

func (r *namedUserRepo) Create(context.Context, domain.User) error {
	return errors.New("unexpected call: Create")
}

func (r *namedUserRepo) GetByID(_ context.Context, id string) (*domain.User, error) {
	r.calls++
	name, ok := r.users[id]
	if !ok {
		return nil, repository.ErrNotFound
	}
	return &domain.User{ID: id, Name: name}, nil
}

func (r *namedUserRepo) GetByEmail(context.Context, string) (*domain.User, error) {
	return nil, errors.New("unexpected call: GetByEmail")
}

func (r *namedUserRepo) List(context.Context) ([]domain.User, error) {
	return nil, errors.New("unexpected call: List")
}

func (r *namedUserRepo) Update(context.Context, domain.User) error {
	return errors.New("unexpected call: Update")
}

func (r *namedUserRepo) SetActive(context.Context, string, bool) error {
	return errors.New("unexpected call: SetActive")
}

func (r *namedUserRepo) RecordLogin(context.Context, string) error {
	return errors.New("unexpected call: RecordLogin")
}

func newTestWorker(mirror port.MirrorClient, subRepo port.SubmissionRepository, users port.UserRepository) *Worker {
	return NewWorker(nil, mirror, subRepo, noEventRepo{}, noReportRepo{}, users, nil)
}

func TestWorkerProcessMirrorsSubmission(t *testing.T) {
	approver := "u-1"
	submission := domain.BarangaySubmission{
		ID:           "s1",
		SubmissionID: "SUB-AAAA1111",
		BarangayName: "Barangay Uno",
		Status:       domain.SubmissionApproved,
		ApprovedByID: &approver,
	}

	mirror := &fakeMirror{}
	users := &namedUserRepo{users: map[string]string{"u-1": "Admin One"}}
	worker := newTestWorker(mirror, &oneSubmissionRepo{submission: submission}, users)

	job := &Job{ID: "j1", Task: domain.SyncTask{
		EntityType:  domain.SyncEntitySubmission,
		EntityID:    "s1",
		Action:      domain.SyncActionUpdate,
		BusinessKey: "SUB-AAAA1111",
	}}

	if err := worker.Process(context.Background(), job); err != nil {
		t.Fatalf("process: %v", err)
	}

	if len(mirror.upserts) != 1 {
		t.Fatalf("upserts = %d, want 1", len(mirror.upserts))
	}
	up := mirror.upserts[0]
	if up.Table != SubmissionsTable || up.KeyField != SubmissionKeyField {
		t.Errorf("upsert target = %s/%s", up.Table, up.KeyField)
	}
	if up.Fields["Approved By"] != "Admin One" {
		t.Errorf("approver name not resolved: %v", up.Fields["Approved By"])
	}
}

func TestWorkerProcessVanishedRowIsNotAnError(t *testing.T) {
	mirror := &fakeMirror{}
	worker := newTestWorker(mirror, &oneSubmissionRepo{submission: domain.BarangaySubmission{ID: "other"}}, &namedUserRepo{})

	job := &Job{ID: "j1", Task: domain.SyncTask{
		EntityType: domain.SyncEntitySubmission,
		EntityID:   "gone",
		Action:     domain.SyncActionUpdate,
	}}

	if err := worker.Process(context.Background(), job); err != nil {
		t.Fatalf("vanished row must be swallowed, got %v", err)
	}
	if len(mirror.upserts) != 0 {
		t.Errorf("no upsert expected for a vanished row")
	}
}

func TestWorkerProcessDeleteUsesBusinessKey(t *testing.T) {
	mirror := &fakeMirror{}
	worker := newTestWorker(mirror, &oneSubmissionRepo{}, &namedUserRepo{})

	job := &Job{ID: "j1", Task: domain.SyncTask{
		EntityType:  domain.SyncEntityReport,
		EntityID:    "r1",
		Action:      domain.SyncActionDelete,
		BusinessKey: "RPT-CCCC3333",
	}}

	if err := worker.Process(context.Background(), job); err != nil {
		t.Fatalf("process: %v", err)
	}
	if len(mirror.deletes) != 1 || mirror.deletes[0] != "RPT-CCCC3333" {
		t.Errorf("deletes = %v", mirror.deletes)
	}
}

func TestWorkerProcessPropagatesMirrorFailure(t *testing.T) {
	mirror := &fakeMirror{err: errors.New("rate limited")}
	worker := newTestWorker(mirror, &oneSubmissionRepo{submission: domain.BarangaySubmission{ID: "s1", SubmissionID: "SUB-AAAA1111"}}, &namedUserRepo{})

	job := &Job{ID: "j1", Task: domain.SyncTask{
		EntityType: domain.SyncEntitySubmission,
		EntityID:   "s1",
		Action:     domain.SyncActionUpdate,
	}}

	if err := worker.Process(context.Background(), job); err == nil {
		t.Fatal("mirror failure must surface so the queue can retry")
	}
}

func TestWorkerNameCacheAvoidsRepeatLookups(t *testing.T) {
	users := &namedUserRepo{users: map[string]string{"u-1": "Admin One"}}
	worker := newTestWorker(&fakeMirror{}, &oneSubmissionRepo{}, users)

	resolve := worker.resolveName(context.Background())
	if got := resolve("u-1"); got != "Admin One" {
		t.Fatalf("resolve = %q", got)
	}
	if got := resolve("u-1"); got != "Admin One" {
		t.Fatalf("cached resolve = %q", got)
	}
	if users.calls != 1 {
		t.Errorf("repository hit %d times, want 1", users.calls)
	}
}
