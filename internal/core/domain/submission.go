package domain

import "time"

// SubmissionStatus enumerates the barangay submission lifecycle.
type SubmissionStatus string

const (
	SubmissionPending     SubmissionStatus = "PENDING"
	SubmissionApproved    SubmissionStatus = "APPROVED"
	SubmissionRejected    SubmissionStatus = "REJECTED"
	SubmissionUnderReview SubmissionStatus = "UNDER_REVIEW"
	SubmissionRenew       SubmissionStatus = "RENEW"
)

// MoaStage distinguishes a first-time registration from a renewal.
type MoaStage string

const (
	MoaStageNew     MoaStage = "NEW"
	MoaStageRenewal MoaStage = "RENEWAL"
)

// Tier is a barangay's standing, advanced by successful event count.
type Tier string

const (
	TierBronze   Tier = "BRONZE"
	TierSilver   Tier = "SILVER"
	TierGold     Tier = "GOLD"
	TierPlatinum Tier = "PLATINUM"
)

// Successful-event counts at which a barangay advances to the next tier.
const (
	tierSilverThreshold   = 5
	tierGoldThreshold     = 10
	tierPlatinumThreshold = 15
)

// TierForCount returns the tier earned by the given successful event count.
func TierForCount(count int) Tier {
	switch {
	case count >= tierPlatinumThreshold:
		return TierPlatinum
	case count >= tierGoldThreshold:
		return TierGold
	case count >= tierSilverThreshold:
		return TierSilver
	default:
		return TierBronze
	}
}

// BarangaySubmission is one barangay's MOA registration record. Location names
// are denormalized at submission time and never re-read from the reference data.
type BarangaySubmission struct {
	ID           string
	SubmissionID string

	RegionID         string
	RegionName       string
	ProvinceID       string
	ProvinceName     string
	MunicipalityID   string
	MunicipalityName string
	BarangayID       string
	BarangayName     string

	SecondPartyName     string
	SecondPartyPosition string
	DateSigned          time.Time
	Stage               MoaStage

	MoaFilePath string
	MoaFileName string

	Status                SubmissionStatus
	Tier                  Tier
	SuccessfulEventsCount int
	MoaExpiryDate         *time.Time
	IsMoaExpired          bool

	RejectionReason *string
	AdminNotes      *string

	ApprovedByID *string
	ApprovedAt   *time.Time
	ReviewedByID *string
	ReviewedAt   *time.Time

	AssignedUserID *string

	SubmittedIP        *string
	SubmittedUserAgent *string

	CreatedAt time.Time
	UpdatedAt time.Time
}

// Approve moves the submission to APPROVED and stamps the approver. Re-approval
// of an already approved record is permitted and simply re-stamps.
func (s *BarangaySubmission) Approve(actorID string, notes *string, now time.Time) {
	s.Status = SubmissionApproved
	s.ApprovedByID = &actorID
	s.ApprovedAt = &now
	s.RejectionReason = nil
	if notes != nil {
		s.AdminNotes = notes
	}
	s.UpdatedAt = now
}

// Reject moves the submission to REJECTED. A reason is mandatory.
func (s *BarangaySubmission) Reject(actorID, reason string, notes *string, now time.Time) error {
	if reason == "" {
		return ErrReasonRequired
	}
	s.Status = SubmissionRejected
	s.RejectionReason = &reason
	s.ReviewedByID = &actorID
	s.ReviewedAt = &now
	if notes != nil {
		s.AdminNotes = notes
	}
	s.UpdatedAt = now
	return nil
}

// MarkUnderReview moves the submission to UNDER_REVIEW and stamps the reviewer.
func (s *BarangaySubmission) MarkUnderReview(actorID string, notes *string, now time.Time) {
	s.Status = SubmissionUnderReview
	s.ReviewedByID = &actorID
	s.ReviewedAt = &now
	if notes != nil {
		s.AdminNotes = notes
	}
	s.UpdatedAt = now
}

// MarkMoaExpired flags an approved submission whose MOA expiry date has passed
// and moves it to RENEW so the barangay re-registers. Only APPROVED, not yet
// expired submissions with a past expiry date qualify.
func (s *BarangaySubmission) MarkMoaExpired(now time.Time) error {
	if s.Status != SubmissionApproved || s.IsMoaExpired {
		return ErrMoaNotExpirable
	}
	if s.MoaExpiryDate == nil || !s.MoaExpiryDate.Before(now) {
		return ErrMoaNotExpirable
	}
	s.IsMoaExpired = true
	s.Status = SubmissionRenew
	s.UpdatedAt = now
	return nil
}

// IncrementSuccessfulEvents bumps the counter and recomputes the tier.
func (s *BarangaySubmission) IncrementSuccessfulEvents(now time.Time) {
	s.SuccessfulEventsCount++
	s.Tier = TierForCount(s.SuccessfulEventsCount)
	s.UpdatedAt = now
}
