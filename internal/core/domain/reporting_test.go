package domain

import (
	"errors"
	"testing"
	"time"
)

func newDraftReport() EventReporting {
	return EventReporting{
		Status:               ReportDraft,
		FirstClearanceStatus: ClearancePending,
		FinalClearanceStatus: ClearancePending,
	}
}

func TestReportPipelineHappyPath(t *testing.T) {
	now := time.Now().UTC()
	r := newDraftReport()

	steps := []struct {
		name string
		run  func() error
		want ReportStatus
	}{
		{"submit", func() error { return r.Submit(now) }, ReportSubmitted},
		{"pre-approve", func() error { return r.PreApprove("lead-1", nil, now) }, ReportPreApproved},
		{"review", func() error { return r.Review("admin-1", nil, now) }, ReportReviewed},
		{"approve", func() error { return r.Approve("admin-1", nil, now) }, ReportApproved},
	}

	for _, step := range steps {
		if err := step.run(); err != nil {
			t.Fatalf("%s: %v", step.name, err)
		}
		if r.Status != step.want {
			t.Fatalf("%s: status = %s, want %s", step.name, r.Status, step.want)
		}
	}
}

func TestReportPipelineRejectsSkippedStages(t *testing.T) {
	now := time.Now().UTC()

	r := newDraftReport()
	if err := r.Review("admin-1", nil, now); err == nil {
		t.Fatal("review of a draft must fail")
	}
	if err := r.Approve("admin-1", nil, now); err == nil {
		t.Fatal("approve of a draft must fail")
	}

	if err := r.Submit(now); err != nil {
		t.Fatalf("submit: %v", err)
	}
	if err := r.Approve("admin-1", nil, now); err == nil {
		t.Fatal("approve of a submitted report must fail")
	}
	if err := r.Submit(now); err == nil {
		t.Fatal("double submit must fail")
	}
}

func TestReportClearanceOrdering(t *testing.T) {
	now := time.Now().UTC()
	r := newDraftReport()

	// Final clearance is blocked until first clearance is recorded.
	if err := r.ClearFinal("admin-b", now); err == nil {
		t.Fatal("final clearance before first clearance must fail")
	}

	// First clearance is blocked until the pipeline reaches APPROVED.
	if err := r.ClearFirst("admin-a", now); err == nil {
		t.Fatal("first clearance before approval must fail")
	}

	_ = r.Submit(now)
	_ = r.PreApprove("lead-1", nil, now)
	_ = r.Review("admin-1", nil, now)
	_ = r.Approve("admin-1", nil, now)

	if err := r.ClearFirst("admin-a", now); err != nil {
		t.Fatalf("first clearance: %v", err)
	}
	if r.FirstClearanceStatus != ClearanceCleared || r.FirstClearedAt == nil {
		t.Errorf("first clearance not recorded")
	}

	if err := r.ClearFirst("admin-a", now); err == nil {
		t.Fatal("double first clearance must fail")
	}

	if err := r.ClearFinal("admin-b", now); err != nil {
		t.Fatalf("final clearance: %v", err)
	}
	if r.FinalClearanceStatus != ClearanceCleared {
		t.Errorf("final clearance not recorded")
	}

	if err := r.ClearFinal("admin-b", now); err == nil {
		t.Fatal("double final clearance must fail")
	}
}

func TestReportEditableOnlyWhileDraft(t *testing.T) {
	now := time.Now().UTC()
	r := newDraftReport()

	if !r.Editable() {
		t.Fatal("draft report must be editable")
	}

	if err := r.Submit(now); err != nil {
		t.Fatalf("submit: %v", err)
	}
	if r.Editable() {
		t.Fatal("submitted report must not be editable")
	}
}

func TestReportUpdateFinancialsNotGatedByStatus(t *testing.T) {
	now := time.Now().UTC()
	r := newDraftReport()
	_ = r.Submit(now)
	_ = r.PreApprove("lead-1", nil, now)

	r.UpdateFinancials("Maria Cruz", 5000, 2500, 7500, now)

	if r.PicName != "Maria Cruz" || r.TotalCostPHP != 7500 {
		t.Errorf("financials not updated: %+v", r)
	}
}

func TestInvalidTransitionErrorMessage(t *testing.T) {
	r := newDraftReport()
	err := r.PreApprove("lead-1", nil, time.Now().UTC())

	var transitionErr *InvalidTransitionError
	if !errors.As(err, &transitionErr) {
		t.Fatalf("expected InvalidTransitionError, got %v", err)
	}
	if transitionErr.Current != string(ReportDraft) || transitionErr.Required != string(ReportSubmitted) {
		t.Errorf("unexpected transition detail: %+v", transitionErr)
	}
}
