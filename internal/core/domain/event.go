package domain

import "time"

// EventStatus enumerates the event application lifecycle.
type EventStatus string

const (
	EventPending   EventStatus = "PENDING"
	EventApproved  EventStatus = "APPROVED"
	EventRejected  EventStatus = "REJECTED"
	EventCompleted EventStatus = "COMPLETED"
	EventCancelled EventStatus = "CANCELLED"
)

// Event is a single event application tied to one approved submission.
type Event struct {
	ID           string
	EventID      string
	SubmissionID string
	AppliedByID  string

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

	ProposalFilePath string
	ProposalFileName string
	MoaFilePath      *string
	MoaFileName      *string

	Status          EventStatus
	RejectionReason *string
	AdminNotes      *string

	ApprovedByID *string
	ApprovedAt   *time.Time
	ReviewedByID *string
	ReviewedAt   *time.Time

	IsSuccessful bool
	CompletedAt  *time.Time

	CreatedAt time.Time
	UpdatedAt time.Time
}

// Approve moves the event to APPROVED and stamps the approver.
func (e *Event) Approve(actorID string, notes *string, now time.Time) {
	e.Status = EventApproved
	e.ApprovedByID = &actorID
	e.ApprovedAt = &now
	e.RejectionReason = nil
	if notes != nil {
		e.AdminNotes = notes
	}
	e.UpdatedAt = now
}

// Reject moves the event to REJECTED and records the mandatory reason.
func (e *Event) Reject(actorID, reason string, notes *string, now time.Time) error {
	if reason == "" {
		return ErrReasonRequired
	}
	e.Status = EventRejected
	e.RejectionReason = &reason
	e.ReviewedByID = &actorID
	e.ReviewedAt = &now
	if notes != nil {
		e.AdminNotes = notes
	}
	e.UpdatedAt = now
	return nil
}

// MarkCompleted finishes an approved event. Completing twice is rejected so the
// parent submission's successful-event counter can only move once per event.
func (e *Event) MarkCompleted(actorID string, successful bool, now time.Time) error {
	if e.Status != EventApproved {
		return &InvalidTransitionError{
			Operation: "complete event",
			Current:   string(e.Status),
			Required:  string(EventApproved),
		}
	}
	e.Status = EventCompleted
	e.IsSuccessful = successful
	e.CompletedAt = &now
	e.ReviewedByID = &actorID
	e.ReviewedAt = &now
	e.UpdatedAt = now
	return nil
}

// Cancel moves an event to CANCELLED. The reason is optional.
func (e *Event) Cancel(actorID string, reason *string, now time.Time) error {
	if e.Status == EventCompleted {
		return &InvalidTransitionError{
			Operation: "cancel event",
			Current:   string(e.Status),
			Required:  "PENDING or APPROVED",
		}
	}
	e.Status = EventCancelled
	e.RejectionReason = reason
	e.ReviewedByID = &actorID
	e.ReviewedAt = &now
	e.UpdatedAt = now
	return nil
}

// ReportEligible reports whether a post-event report may be filed against the event.
func (e *Event) ReportEligible() bool {
	switch e.Status {
	case EventApproved, EventCompleted:
		return true
	default:
		return false
	}
}
