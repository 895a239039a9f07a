package domain

import "time"

// ReportStatus enumerates the primary, strictly forward report pipeline.
type ReportStatus string

const (
	ReportDraft       ReportStatus = "DRAFT"
	ReportSubmitted   ReportStatus = "SUBMITTED"
	ReportPreApproved ReportStatus = "PRE_APPROVED"
	ReportReviewed    ReportStatus = "REVIEWED"
	ReportApproved    ReportStatus = "APPROVED"
)

// ClearanceStatus is the state of one clearance track.
type ClearanceStatus string

const (
	ClearancePending ClearanceStatus = "PENDING"
	ClearanceCleared ClearanceStatus = "CLEARED"
)

// EventReporting is the post-event financial report and its clearance pipeline.
// One report exists per (event, reporting actor) pair.
type EventReporting struct {
	ID           string
	ReportID     string
	EventRefID   string
	ReportedByID string

	EventName        string
	EventDescription string
	EventDate        time.Time
	EventLocation    string
	CampaignName     string

	PicName             string
	CashAllocation      float64
	DiamondsExpenditure float64
	TotalCostPHP        float64

	ReportFilePath *string
	ReportFileName *string

	Status ReportStatus

	FirstClearanceStatus ClearanceStatus
	FirstClearedByID     *string
	FirstClearedAt       *time.Time

	FinalClearanceStatus ClearanceStatus
	FinalClearedByID     *string
	FinalClearedAt       *time.Time

	AdminNotes   *string
	ReviewedByID *string
	ReviewedAt   *time.Time
	ApprovedByID *string
	ApprovedAt   *time.Time

	CreatedAt time.Time
	UpdatedAt time.Time
}

func (r *EventReporting) requireStatus(operation string, required ReportStatus) error {
	if r.Status != required {
		return &InvalidTransitionError{
			Operation: operation,
			Current:   string(r.Status),
			Required:  string(required),
		}
	}
	return nil
}

// Submit freezes a draft report and enters it into the pipeline.
func (r *EventReporting) Submit(now time.Time) error {
	if err := r.requireStatus("submit report", ReportDraft); err != nil {
		return err
	}
	r.Status = ReportSubmitted
	r.UpdatedAt = now
	return nil
}

// PreApprove advances a submitted report.
func (r *EventReporting) PreApprove(actorID string, notes *string, now time.Time) error {
	if err := r.requireStatus("pre-approve report", ReportSubmitted); err != nil {
		return err
	}
	r.Status = ReportPreApproved
	r.ReviewedByID = &actorID
	r.ReviewedAt = &now
	if notes != nil {
		r.AdminNotes = notes
	}
	r.UpdatedAt = now
	return nil
}

// Review advances a pre-approved report.
func (r *EventReporting) Review(actorID string, notes *string, now time.Time) error {
	if err := r.requireStatus("review report", ReportPreApproved); err != nil {
		return err
	}
	r.Status = ReportReviewed
	r.ReviewedByID = &actorID
	r.ReviewedAt = &now
	if notes != nil {
		r.AdminNotes = notes
	}
	r.UpdatedAt = now
	return nil
}

// Approve finishes the primary pipeline. Clearance remains pending.
func (r *EventReporting) Approve(actorID string, notes *string, now time.Time) error {
	if err := r.requireStatus("approve report", ReportReviewed); err != nil {
		return err
	}
	r.Status = ReportApproved
	r.ApprovedByID = &actorID
	r.ApprovedAt = &now
	if notes != nil {
		r.AdminNotes = notes
	}
	r.UpdatedAt = now
	return nil
}

// ClearFirst records the first clearance sign-off. Requires the primary
// pipeline to have reached APPROVED.
func (r *EventReporting) ClearFirst(actorID string, now time.Time) error {
	if r.Status != ReportApproved {
		return &InvalidTransitionError{
			Operation: "first clearance",
			Current:   string(r.Status),
			Required:  string(ReportApproved),
		}
	}
	if r.FirstClearanceStatus == ClearanceCleared {
		return &InvalidTransitionError{
			Operation: "first clearance",
			Current:   string(ClearanceCleared),
			Required:  string(ClearancePending),
		}
	}
	r.FirstClearanceStatus = ClearanceCleared
	r.FirstClearedByID = &actorID
	r.FirstClearedAt = &now
	r.UpdatedAt = now
	return nil
}

// ClearFinal records the final clearance sign-off. Requires first clearance.
func (r *EventReporting) ClearFinal(actorID string, now time.Time) error {
	if r.FirstClearanceStatus != ClearanceCleared {
		return &InvalidTransitionError{
			Operation: "final clearance",
			Current:   string(r.FirstClearanceStatus),
			Required:  "first clearance CLEARED",
		}
	}
	if r.FinalClearanceStatus == ClearanceCleared {
		return &InvalidTransitionError{
			Operation: "final clearance",
			Current:   string(ClearanceCleared),
			Required:  string(ClearancePending),
		}
	}
	r.FinalClearanceStatus = ClearanceCleared
	r.FinalClearedByID = &actorID
	r.FinalClearedAt = &now
	r.UpdatedAt = now
	return nil
}

// Editable reports whether report content may still be changed. Only drafts
// accept edits, file replacement, or deletion.
func (r *EventReporting) Editable() bool {
	return r.Status == ReportDraft
}

// UpdateFinancials replaces the financial field group. Not gated by status; the
// financial authority may correct figures at any point in the pipeline.
func (r *EventReporting) UpdateFinancials(pic string, cash, diamonds, total float64, now time.Time) {
	r.PicName = pic
	r.CashAllocation = cash
	r.DiamondsExpenditure = diamonds
	r.TotalCostPHP = total
	r.UpdatedAt = now
}
