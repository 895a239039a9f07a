package domain

import (
	"errors"
	"testing"
	"time"
)

func TestEventMarkCompletedRequiresApproved(t *testing.T) {
	now := time.Now().UTC()

	for _, status := range []EventStatus{EventPending, EventRejected, EventCancelled} {
		e := Event{Status: status}
		err := e.MarkCompleted("admin-1", true, now)

		var transitionErr *InvalidTransitionError
		if !errors.As(err, &transitionErr) {
			t.Fatalf("status %s: expected InvalidTransitionError, got %v", status, err)
		}
	}

	e := Event{Status: EventApproved}
	if err := e.MarkCompleted("admin-1", true, now); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if e.Status != EventCompleted || !e.IsSuccessful || e.CompletedAt == nil {
		t.Errorf("completion not recorded: %+v", e)
	}
}

func TestEventMarkCompletedTwiceRejected(t *testing.T) {
	now := time.Now().UTC()
	e := Event{Status: EventApproved}

	if err := e.MarkCompleted("admin-1", true, now); err != nil {
		t.Fatalf("first completion: %v", err)
	}

	err := e.MarkCompleted("admin-1", true, now)
	var transitionErr *InvalidTransitionError
	if !errors.As(err, &transitionErr) {
		t.Fatalf("expected InvalidTransitionError on double completion, got %v", err)
	}
}

func TestEventCancelGuards(t *testing.T) {
	now := time.Now().UTC()

	e := Event{Status: EventCompleted}
	if err := e.Cancel("admin-1", nil, now); err == nil {
		t.Fatal("expected error cancelling a completed event")
	}

	reason := "venue unavailable"
	e = Event{Status: EventPending}
	if err := e.Cancel("admin-1", &reason, now); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if e.Status != EventCancelled {
		t.Errorf("status = %s, want CANCELLED", e.Status)
	}
}

func TestEventRejectRequiresReason(t *testing.T) {
	e := Event{Status: EventPending}
	if err := e.Reject("admin-1", "", nil, time.Now().UTC()); !errors.Is(err, ErrReasonRequired) {
		t.Fatalf("expected ErrReasonRequired, got %v", err)
	}
}

func TestEventReportEligible(t *testing.T) {
	cases := map[EventStatus]bool{
		EventPending:   false,
		EventApproved:  true,
		EventRejected:  false,
		EventCompleted: true,
		EventCancelled: false,
	}
	for status, want := range cases {
		e := Event{Status: status}
		if got := e.ReportEligible(); got != want {
			t.Errorf("ReportEligible(%s) = %v, want %v", status, got, want)
		}
	}
}
