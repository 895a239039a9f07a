package sync

import (
	"time"

	"github.com/moontonsl/communityheroesph-sub001/internal/core/domain"
)

// External table names and upsert key fields. These are a literal contract
// with the mirror's schema; renaming a column here breaks interoperability.
const (
	SubmissionsTable   = "Barangay Submissions"
	SubmissionKeyField = "Submission ID"

	EventsTable   = "Events"
	EventKeyField = "Event ID"

	ReportsTable   = "Event Reports"
	ReportKeyField = "Report ID"
)

const dateLayout = "2006-01-02"

// ActorNameResolver maps a user id to a display name for the mirror's
// people columns. Unknown ids resolve to the empty string and the column is
// omitted.
type ActorNameResolver func(userID string) string

func formatDate(t time.Time) string {
	return t.UTC().Format(dateLayout)
}

func putDatePtr(fields map[string]any, column string, t *time.Time) {
	if t != nil {
		fields[column] = formatDate(*t)
	}
}

func putStringPtr(fields map[string]any, column string, s *string) {
	if s != nil && *s != "" {
		fields[column] = *s
	}
}

func putActor(fields map[string]any, column string, userID *string, resolve ActorNameResolver) {
	if userID == nil || resolve == nil {
		return
	}
	if name := resolve(*userID); name != "" {
		fields[column] = name
	}
}

// SubmissionFields maps a submission to the mirror's column names.
func SubmissionFields(s domain.BarangaySubmission, resolve ActorNameResolver) map[string]any {
	fields := map[string]any{
		"Submission ID":           s.SubmissionID,
		"Region":                  s.RegionName,
		"Province":                s.ProvinceName,
		"Municipality":            s.MunicipalityName,
		"Barangay":                s.BarangayName,
		"Second Party Name":       s.SecondPartyName,
		"Position":                s.SecondPartyPosition,
		"Date Signed":             formatDate(s.DateSigned),
		"Stage":                   string(s.Stage),
		"Status":                  string(s.Status),
		"Tier":                    string(s.Tier),
		"Successful Events Count": s.SuccessfulEventsCount,
		"Is MOA Expired":          s.IsMoaExpired,
		"Created At":              formatDate(s.CreatedAt),
	}

	putDatePtr(fields, "MOA Expiry Date", s.MoaExpiryDate)
	putStringPtr(fields, "Rejection Reason", s.RejectionReason)
	putStringPtr(fields, "Admin Notes", s.AdminNotes)
	putActor(fields, "Approved By", s.ApprovedByID, resolve)
	putDatePtr(fields, "Approved At", s.ApprovedAt)
	putActor(fields, "Assigned User", s.AssignedUserID, resolve)

	return fields
}

// EventFields maps an event to the mirror's column names.
func EventFields(e domain.Event, submissionID string, resolve ActorNameResolver) map[string]any {
	fields := map[string]any{
		"Event ID":              e.EventID,
		"Submission ID":         submissionID,
		"Event Name":            e.Name,
		"Description":           e.Description,
		"Event Date":            formatDate(e.EventDate),
		"Start Time":            e.StartTime,
		"End Time":              e.EndTime,
		"Location":              e.Location,
		"Expected Participants": e.ExpectedParticipants,
		"Event Type":            e.EventType,
		"Contact Person":        e.ContactPerson,
		"Contact Number":        e.ContactNumber,
		"Contact Email":         e.ContactEmail,
		"Status":                string(e.Status),
		"Is Successful":         e.IsSuccessful,
	}

	putStringPtr(fields, "Rejection Reason", e.RejectionReason)
	putStringPtr(fields, "Admin Notes", e.AdminNotes)
	if resolve != nil {
		if name := resolve(e.AppliedByID); name != "" {
			fields["Applied By"] = name
		}
	}
	putActor(fields, "Approved By", e.ApprovedByID, resolve)
	putDatePtr(fields, "Completed At", e.CompletedAt)

	return fields
}

// ReportFields maps a post-event report to the mirror's column names.
func ReportFields(r domain.EventReporting, eventID string, resolve ActorNameResolver) map[string]any {
	fields := map[string]any{
		"Report ID":              r.ReportID,
		"Event ID":               eventID,
		"Event Name":             r.EventName,
		"Event Description":      r.EventDescription,
		"Event Date":             formatDate(r.EventDate),
		"Event Location":         r.EventLocation,
		"Campaign Name":          r.CampaignName,
		"PIC Name":               r.PicName,
		"Cash Allocation":        r.CashAllocation,
		"Diamonds Expenditure":   r.DiamondsExpenditure,
		"Total Cost PHP":         r.TotalCostPHP,
		"Status":                 string(r.Status),
		"First Clearance Status": string(r.FirstClearanceStatus),
		"Final Clearance Status": string(r.FinalClearanceStatus),
	}

	if resolve != nil {
		if name := resolve(r.ReportedByID); name != "" {
			fields["Reported By"] = name
		}
	}
	putActor(fields, "First Cleared By", r.FirstClearedByID, resolve)
	putDatePtr(fields, "First Cleared At", r.FirstClearedAt)
	putActor(fields, "Final Cleared By", r.FinalClearedByID, resolve)
	putDatePtr(fields, "Final Cleared At", r.FinalClearedAt)
	putStringPtr(fields, "Admin Notes", r.AdminNotes)
	putActor(fields, "Approved By", r.ApprovedByID, resolve)
	putDatePtr(fields, "Approved At", r.ApprovedAt)

	return fields
}
