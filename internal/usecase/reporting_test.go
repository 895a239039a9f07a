package usecase

import (
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/moontonsl/communityheroesph-sub001/internal/core/domain"
)

type reportingFixture struct {
	service *ReportingService
	reports *memReportRepo
	events  *memEventRepo
	docs    *memDocStore
}

func newReportingFixture() *reportingFixture {
	reportRepo := newMemReportRepo()
	eventRepo := newMemEventRepo()
	docs := &memDocStore{}
	service := NewReportingService(reportRepo, eventRepo, docs, &captureQueue{}, &capturePublisher{}, nil)
	return &reportingFixture{service: service, reports: reportRepo, events: eventRepo, docs: docs}
}

func (f *reportingFixture) seedEvent(status domain.EventStatus) domain.Event {
	e := domain.Event{
		ID:        "evt-1",
		EventID:   "EVT-11111111",
		Name:      "Community Tournament",
		EventDate: time.Now().UTC(),
		Location:  "Covered court",
		Status:    status,
	}
	f.events.rows[e.ID] = e
	return e
}

func reportInput(eventID string) CreateReportInput {
	return CreateReportInput{
		EventRefID:          eventID,
		CampaignName:        "Q3 Community Push",
		PicName:             "Maria Cruz",
		CashAllocation:      10000,
		DiamondsExpenditure: 5000,
		TotalCostPHP:        15000,
	}
}

var reporter = domain.Actor{ID: "lead-1", RoleSlug: domain.RoleCommunityLead}

func TestReportCreateSnapshotsEvent(t *testing.T) {
	f := newReportingFixture()
	f.seedEvent(domain.EventCompleted)

	report, err := f.service.Create(context.Background(), reporter, reportInput("evt-1"))
	if err != nil {
		t.Fatalf("create: %v", err)
	}

	if report.Status != domain.ReportDraft {
		t.Errorf("status = %s, want DRAFT", report.Status)
	}
	if report.FirstClearanceStatus != domain.ClearancePending || report.FinalClearanceStatus != domain.ClearancePending {
		t.Errorf("clearance tracks must start PENDING")
	}
	if report.EventName != "Community Tournament" || report.EventLocation != "Covered court" {
		t.Errorf("event snapshot missing: %+v", report)
	}
	if !strings.HasPrefix(report.ReportID, "RPT-") {
		t.Errorf("business id = %q, want RPT- prefix", report.ReportID)
	}
}

func TestReportCreateGuards(t *testing.T) {
	t.Run("pending event not reportable", func(t *testing.T) {
		f := newReportingFixture()
		f.seedEvent(domain.EventPending)
		if _, err := f.service.Create(context.Background(), reporter, reportInput("evt-1")); !errors.Is(err, ErrEventNotReportable) {
			t.Fatalf("got %v", err)
		}
	})

	t.Run("one report per event and reporter", func(t *testing.T) {
		f := newReportingFixture()
		f.seedEvent(domain.EventApproved)
		if _, err := f.service.Create(context.Background(), reporter, reportInput("evt-1")); err != nil {
			t.Fatalf("first create: %v", err)
		}
		if _, err := f.service.Create(context.Background(), reporter, reportInput("evt-1")); !errors.Is(err, ErrReportExists) {
			t.Fatalf("got %v", err)
		}
	})

	t.Run("super admin cannot file reports", func(t *testing.T) {
		f := newReportingFixture()
		f.seedEvent(domain.EventApproved)
		admin := domain.Actor{ID: "sa-1", RoleSlug: domain.RoleSuperAdmin}
		if _, err := f.service.Create(context.Background(), admin, reportInput("evt-1")); !errors.Is(err, ErrRoleNotAllowed) {
			t.Fatalf("got %v", err)
		}
	})
}

func TestReportSubmitOwnership(t *testing.T) {
	f := newReportingFixture()
	f.seedEvent(domain.EventCompleted)

	report, err := f.service.Create(context.Background(), reporter, reportInput("evt-1"))
	if err != nil {
		t.Fatalf("create: %v", err)
	}

	other := domain.Actor{ID: "lead-2", RoleSlug: domain.RoleCommunityLead}
	if _, err := f.service.Submit(context.Background(), other, report.ID); !errors.Is(err, ErrNotReportOwner) {
		t.Fatalf("foreign submit must fail, got %v", err)
	}

	submitted, err := f.service.Submit(context.Background(), reporter, report.ID)
	if err != nil {
		t.Fatalf("submit: %v", err)
	}
	if submitted.Status != domain.ReportSubmitted {
		t.Errorf("status = %s, want SUBMITTED", submitted.Status)
	}
}

func TestReportPipelineRoleHandoffs(t *testing.T) {
	f := newReportingFixture()
	f.seedEvent(domain.EventCompleted)

	report, err := f.service.Create(context.Background(), reporter, reportInput("evt-1"))
	if err != nil {
		t.Fatalf("create: %v", err)
	}
	if _, err := f.service.Submit(context.Background(), reporter, report.ID); err != nil {
		t.Fatalf("submit: %v", err)
	}

	adminA := domain.Actor{ID: "sa-a", RoleSlug: domain.RoleSuperAdminA}
	adminB := domain.Actor{ID: "sa-b", RoleSlug: domain.RoleSuperAdminB}

	// Pre-approval belongs to the community lead, not the admins.
	if _, err := f.service.PreApprove(context.Background(), adminA, report.ID, nil); !errors.Is(err, ErrRoleNotAllowed) {
		t.Fatalf("admin pre-approve must fail, got %v", err)
	}
	if _, err := f.service.PreApprove(context.Background(), reporter, report.ID, nil); err != nil {
		t.Fatalf("pre-approve: %v", err)
	}

	// Review and approve belong to the senior admins.
	if _, err := f.service.Review(context.Background(), reporter, report.ID, nil); !errors.Is(err, ErrRoleNotAllowed) {
		t.Fatalf("lead review must fail, got %v", err)
	}
	if _, err := f.service.Review(context.Background(), adminA, report.ID, nil); err != nil {
		t.Fatalf("review: %v", err)
	}
	if _, err := f.service.Approve(context.Background(), adminA, report.ID, nil); err != nil {
		t.Fatalf("approve: %v", err)
	}

	// First clearance: senior admin A; final clearance: admin B only.
	if _, err := f.service.FirstClearance(context.Background(), adminB, report.ID); !errors.Is(err, ErrRoleNotAllowed) {
		t.Fatalf("admin B first clearance must fail, got %v", err)
	}
	if _, err := f.service.FinalClearance(context.Background(), adminB, report.ID); err == nil {
		t.Fatal("final clearance before first clearance must fail")
	}
	if _, err := f.service.FirstClearance(context.Background(), adminA, report.ID); err != nil {
		t.Fatalf("first clearance: %v", err)
	}
	cleared, err := f.service.FinalClearance(context.Background(), adminB, report.ID)
	if err != nil {
		t.Fatalf("final clearance: %v", err)
	}
	if cleared.FinalClearanceStatus != domain.ClearanceCleared {
		t.Errorf("final clearance not recorded")
	}
}

func TestReportEditGuards(t *testing.T) {
	f := newReportingFixture()
	f.seedEvent(domain.EventCompleted)

	report, err := f.service.Create(context.Background(), reporter, reportInput("evt-1"))
	if err != nil {
		t.Fatalf("create: %v", err)
	}

	// Draft: replace and delete work, and only for the owner.
	other := domain.Actor{ID: "lead-2", RoleSlug: domain.RoleCommunityLead}
	if _, err := f.service.ReplaceDocument(context.Background(), other, report.ID, strings.NewReader("x"), "r.pdf"); !errors.Is(err, ErrNotReportOwner) {
		t.Fatalf("foreign replace must fail, got %v", err)
	}
	if _, err := f.service.ReplaceDocument(context.Background(), reporter, report.ID, strings.NewReader("x"), "r.pdf"); err != nil {
		t.Fatalf("replace: %v", err)
	}

	if _, err := f.service.Submit(context.Background(), reporter, report.ID); err != nil {
		t.Fatalf("submit: %v", err)
	}

	// Submitted: content is frozen.
	if _, err := f.service.ReplaceDocument(context.Background(), reporter, report.ID, strings.NewReader("x"), "r.pdf"); !errors.Is(err, ErrReportNotEditable) {
		t.Fatalf("replace after submit must fail, got %v", err)
	}
	if err := f.service.Delete(context.Background(), reporter, report.ID); !errors.Is(err, ErrReportNotEditable) {
		t.Fatalf("delete after submit must fail, got %v", err)
	}
}

func TestReportEditRoleGate(t *testing.T) {
	f := newReportingFixture()
	f.seedEvent(domain.EventCompleted)

	report, err := f.service.Create(context.Background(), reporter, reportInput("evt-1"))
	if err != nil {
		t.Fatalf("create: %v", err)
	}

	// Admin roles cannot touch draft content even though they pass no
	// ownership check; the role table is re-checked in the service.
	admin := domain.Actor{ID: "sa-1", RoleSlug: domain.RoleSuperAdmin}
	if _, err := f.service.ReplaceDocument(context.Background(), admin, report.ID, strings.NewReader("x"), "r.pdf"); !errors.Is(err, ErrRoleNotAllowed) {
		t.Fatalf("admin replace must be role-denied, got %v", err)
	}
	if err := f.service.Delete(context.Background(), admin, report.ID); !errors.Is(err, ErrRoleNotAllowed) {
		t.Fatalf("admin delete must be role-denied, got %v", err)
	}
}

func TestReportDeleteDraft(t *testing.T) {
	f := newReportingFixture()
	f.seedEvent(domain.EventCompleted)

	report, err := f.service.Create(context.Background(), reporter, reportInput("evt-1"))
	if err != nil {
		t.Fatalf("create: %v", err)
	}

	if err := f.service.Delete(context.Background(), reporter, report.ID); err != nil {
		t.Fatalf("delete: %v", err)
	}
	if len(f.reports.rows) != 0 {
		t.Errorf("report still present after delete")
	}
}

func TestReportUpdateFinancialsAnyStage(t *testing.T) {
	f := newReportingFixture()
	f.seedEvent(domain.EventCompleted)

	report, err := f.service.Create(context.Background(), reporter, reportInput("evt-1"))
	if err != nil {
		t.Fatalf("create: %v", err)
	}
	if _, err := f.service.Submit(context.Background(), reporter, report.ID); err != nil {
		t.Fatalf("submit: %v", err)
	}

	adminA := domain.Actor{ID: "sa-a", RoleSlug: domain.RoleSuperAdminA}
	updated, err := f.service.UpdateFinancials(context.Background(), adminA, report.ID, UpdateFinancialsInput{
		PicName:             "Jose Rizal",
		CashAllocation:      12000,
		DiamondsExpenditure: 6000,
		TotalCostPHP:        18000,
	})
	if err != nil {
		t.Fatalf("update financials: %v", err)
	}
	if updated.PicName != "Jose Rizal" || updated.TotalCostPHP != 18000 {
		t.Errorf("financials not applied: %+v", updated)
	}

	if _, err := f.service.UpdateFinancials(context.Background(), reporter, report.ID, UpdateFinancialsInput{PicName: "x"}); !errors.Is(err, ErrRoleNotAllowed) {
		t.Fatalf("lead must not edit financials, got %v", err)
	}
}

func TestReportListVisibility(t *testing.T) {
	f := newReportingFixture()
	f.seedEvent(domain.EventCompleted)

	if _, err := f.service.Create(context.Background(), reporter, reportInput("evt-1")); err != nil {
		t.Fatalf("create: %v", err)
	}

	adminB := domain.Actor{ID: "sa-b", RoleSlug: domain.RoleSuperAdminB}
	all, err := f.service.ListAdmin(context.Background(), adminB, nil)
	if err != nil {
		t.Fatalf("admin list: %v", err)
	}
	if len(all) != 1 {
		t.Errorf("admin sees %d reports, want 1", len(all))
	}

	if _, err := f.service.ListAdmin(context.Background(), reporter, nil); !errors.Is(err, ErrRoleNotAllowed) {
		t.Fatalf("lead admin-list must fail, got %v", err)
	}

	own, err := f.service.ListOwn(context.Background(), reporter)
	if err != nil {
		t.Fatalf("own list: %v", err)
	}
	if len(own) != 1 {
		t.Errorf("owner sees %d reports, want 1", len(own))
	}
}
