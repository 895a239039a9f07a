package handlers

import (
	"time"

	"github.com/gin-gonic/gin"

	"github.com/moontonsl/communityheroesph-sub001/internal/core/domain"
)

// ErrorResponse represents a generic error payload with trace ID for debugging.
type ErrorResponse struct {
	Error   string `json:"error"`
	TraceID string `json:"trace_id,omitempty"`
}

// NewErrorResponse creates an error response with trace ID from context.
func NewErrorResponse(c *gin.Context, errorMsg string) ErrorResponse {
	traceID, _ := c.Get("trace_id")
	traceIDStr, _ := traceID.(string)

	return ErrorResponse{
		Error:   errorMsg,
		TraceID: traceIDStr,
	}
}

// MessageResponse represents a simple message payload.
type MessageResponse struct {
	Message string `json:"message"`
}

// HealthResponse reports liveness.
type HealthResponse struct {
	Status    string    `json:"status"`
	StartedAt time.Time `json:"started_at"`
}

// AuthLoginRequest defines the payload for the login endpoint.
type AuthLoginRequest struct {
	Email    string `json:"email" binding:"required,email"`
	Password string `json:"password" binding:"required"`
}

// UserSummary describes a minimal view of a user returned by the API.
type UserSummary struct {
	ID         string     `json:"id"`
	Name       string     `json:"name"`
	Email      string     `json:"email"`
	Phone      *string    `json:"phone,omitempty"`
	RoleSlug   string     `json:"role_slug,omitempty"`
	IsActive   bool       `json:"is_active"`
	IsVerified bool       `json:"is_verified"`
	LastLogin  *time.Time `json:"last_login,omitempty"`
}

func newUserSummary(u domain.User) UserSummary {
	summary := UserSummary{
		ID:         u.ID,
		Name:       u.Name,
		Email:      u.Email,
		Phone:      u.Phone,
		IsActive:   u.IsActive,
		IsVerified: u.IsVerified,
		LastLogin:  u.LastLogin,
	}
	if u.Role != nil {
		summary.RoleSlug = u.Role.Slug
	}
	return summary
}

// AuthLoginResponse describes the response returned for a successful login.
type AuthLoginResponse struct {
	AccessToken string      `json:"access_token"`
	TokenType   string      `json:"token_type"`
	User        UserSummary `json:"user"`
}

// RolePayload describes one role.
type RolePayload struct {
	ID          string    `json:"id"`
	Name        string    `json:"name"`
	Slug        string    `json:"slug"`
	Description *string   `json:"description,omitempty"`
	Permissions []string  `json:"permissions"`
	IsActive    bool      `json:"is_active"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}

func newRolePayload(r domain.Role) RolePayload {
	return RolePayload{
		ID:          r.ID,
		Name:        r.Name,
		Slug:        r.Slug,
		Description: r.Description,
		Permissions: r.Permissions,
		IsActive:    r.IsActive,
		CreatedAt:   r.CreatedAt,
		UpdatedAt:   r.UpdatedAt,
	}
}

// RoleCreateRequest defines the payload for creating a role.
type RoleCreateRequest struct {
	Name        string   `json:"name" binding:"required"`
	Slug        string   `json:"slug" binding:"required"`
	Description *string  `json:"description"`
	Permissions []string `json:"permissions"`
}

// RoleUpdateRequest defines the payload for editing a role. The slug is immutable.
type RoleUpdateRequest struct {
	Name        string   `json:"name" binding:"required"`
	Description *string  `json:"description"`
	Permissions []string `json:"permissions"`
	IsActive    bool     `json:"is_active"`
}

// UserCreateRequest defines the payload for provisioning a user.
type UserCreateRequest struct {
	Name     string  `json:"name" binding:"required"`
	Email    string  `json:"email" binding:"required,email"`
	Phone    *string `json:"phone"`
	Password string  `json:"password" binding:"required,min=8"`
	RoleID   string  `json:"role_id" binding:"required"`
}

// RegionPayload describes one region.
type RegionPayload struct {
	ID   string `json:"id"`
	Code string `json:"code"`
	Name string `json:"name"`
}

// ProvincePayload describes one province.
type ProvincePayload struct {
	ID       string `json:"id"`
	RegionID string `json:"region_id"`
	Name     string `json:"name"`
}

// MunicipalityPayload describes one municipality.
type MunicipalityPayload struct {
	ID         string `json:"id"`
	ProvinceID string `json:"province_id"`
	Name       string `json:"name"`
}

// BarangayPayload describes one barangay.
type BarangayPayload struct {
	ID             string `json:"id"`
	MunicipalityID string `json:"municipality_id"`
	Name           string `json:"name"`
}

// SubmissionPayload is the full API view of a barangay submission.
type SubmissionPayload struct {
	ID           string `json:"id"`
	SubmissionID string `json:"submission_id"`

	RegionName       string `json:"region"`
	ProvinceName     string `json:"province"`
	MunicipalityName string `json:"municipality"`
	BarangayName     string `json:"barangay"`

	SecondPartyName     string    `json:"second_party_name"`
	SecondPartyPosition string    `json:"second_party_position"`
	DateSigned          time.Time `json:"date_signed"`
	Stage               string    `json:"stage"`

	MoaFileName string `json:"moa_file_name"`

	Status                string     `json:"status"`
	Tier                  string     `json:"tier"`
	SuccessfulEventsCount int        `json:"successful_events_count"`
	MoaExpiryDate         *time.Time `json:"moa_expiry_date,omitempty"`
	IsMoaExpired          bool       `json:"is_moa_expired"`

	RejectionReason *string `json:"rejection_reason,omitempty"`
	AdminNotes      *string `json:"admin_notes,omitempty"`

	AssignedUserID *string `json:"assigned_user_id,omitempty"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

func newSubmissionPayload(s domain.BarangaySubmission) SubmissionPayload {
	return SubmissionPayload{
		ID:                    s.ID,
		SubmissionID:          s.SubmissionID,
		RegionName:            s.RegionName,
		ProvinceName:          s.ProvinceName,
		MunicipalityName:      s.MunicipalityName,
		BarangayName:          s.BarangayName,
		SecondPartyName:       s.SecondPartyName,
		SecondPartyPosition:   s.SecondPartyPosition,
		DateSigned:            s.DateSigned,
		Stage:                 string(s.Stage),
		MoaFileName:           s.MoaFileName,
		Status:                string(s.Status),
		Tier:                  string(s.Tier),
		SuccessfulEventsCount: s.SuccessfulEventsCount,
		MoaExpiryDate:         s.MoaExpiryDate,
		IsMoaExpired:          s.IsMoaExpired,
		RejectionReason:       s.RejectionReason,
		AdminNotes:            s.AdminNotes,
		AssignedUserID:        s.AssignedUserID,
		CreatedAt:             s.CreatedAt,
		UpdatedAt:             s.UpdatedAt,
	}
}

// DecisionRequest carries the optional notes of an approval-style transition.
type DecisionRequest struct {
	Notes *string `json:"notes"`
}

// RejectionRequest carries the mandatory reason of a rejection.
type RejectionRequest struct {
	Reason string  `json:"reason" binding:"required"`
	Notes  *string `json:"notes"`
}

// CancelRequest carries the optional reason of a cancellation.
type CancelRequest struct {
	Reason *string `json:"reason"`
}

// CompleteEventRequest marks an event completion outcome.
type CompleteEventRequest struct {
	Successful bool `json:"successful"`
}

// EventPayload is the full API view of an event application.
type EventPayload struct {
	ID           string `json:"id"`
	EventID      string `json:"event_id"`
	SubmissionID string `json:"submission_id"`
	AppliedByID  string `json:"applied_by"`

	Name                 string    `json:"name"`
	Description          string    `json:"description"`
	EventDate            time.Time `json:"event_date"`
	StartTime            string    `json:"start_time"`
	EndTime              string    `json:"end_time"`
	Location             string    `json:"location"`
	ExpectedParticipants int       `json:"expected_participants"`
	EventType            string    `json:"event_type"`
	ContactPerson        string    `json:"contact_person"`
	ContactNumber        string    `json:"contact_number"`
	ContactEmail         string    `json:"contact_email"`

	ProposalFileName string `json:"proposal_file_name"`

	Status          string  `json:"status"`
	RejectionReason *string `json:"rejection_reason,omitempty"`
	AdminNotes      *string `json:"admin_notes,omitempty"`

	IsSuccessful bool       `json:"is_successful"`
	CompletedAt  *time.Time `json:"completed_at,omitempty"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

func newEventPayload(e domain.Event) EventPayload {
	return EventPayload{
		ID:                   e.ID,
		EventID:              e.EventID,
		SubmissionID:         e.SubmissionID,
		AppliedByID:          e.AppliedByID,
		Name:                 e.Name,
		Description:          e.Description,
		EventDate:            e.EventDate,
		StartTime:            e.StartTime,
		EndTime:              e.EndTime,
		Location:             e.Location,
		ExpectedParticipants: e.ExpectedParticipants,
		EventType:            e.EventType,
		ContactPerson:        e.ContactPerson,
		ContactNumber:        e.ContactNumber,
		ContactEmail:         e.ContactEmail,
		ProposalFileName:     e.ProposalFileName,
		Status:               string(e.Status),
		RejectionReason:      e.RejectionReason,
		AdminNotes:           e.AdminNotes,
		IsSuccessful:         e.IsSuccessful,
		CompletedAt:          e.CompletedAt,
		CreatedAt:            e.CreatedAt,
		UpdatedAt:            e.UpdatedAt,
	}
}

// ReportPayload is the full API view of a post-event report.
type ReportPayload struct {
	ID           string `json:"id"`
	ReportID     string `json:"report_id"`
	EventRefID   string `json:"event_ref_id"`
	ReportedByID string `json:"reported_by"`

	EventName        string    `json:"event_name"`
	EventDescription string    `json:"event_description"`
	EventDate        time.Time `json:"event_date"`
	EventLocation    string    `json:"event_location"`
	CampaignName     string    `json:"campaign_name"`

	PicName             string  `json:"pic_name"`
	CashAllocation      float64 `json:"cash_allocation"`
	DiamondsExpenditure float64 `json:"diamonds_expenditure"`
	TotalCostPHP        float64 `json:"total_cost_php"`

	ReportFileName *string `json:"report_file_name,omitempty"`

	Status string `json:"status"`

	FirstClearanceStatus string     `json:"first_clearance_status"`
	FirstClearedAt       *time.Time `json:"first_cleared_at,omitempty"`
	FinalClearanceStatus string     `json:"final_clearance_status"`
	FinalClearedAt       *time.Time `json:"final_cleared_at,omitempty"`

	AdminNotes *string `json:"admin_notes,omitempty"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

func newReportPayload(r domain.EventReporting) ReportPayload {
	return ReportPayload{
		ID:                   r.ID,
		ReportID:             r.ReportID,
		EventRefID:           r.EventRefID,
		ReportedByID:         r.ReportedByID,
		EventName:            r.EventName,
		EventDescription:     r.EventDescription,
		EventDate:            r.EventDate,
		EventLocation:        r.EventLocation,
		CampaignName:         r.CampaignName,
		PicName:              r.PicName,
		CashAllocation:       r.CashAllocation,
		DiamondsExpenditure:  r.DiamondsExpenditure,
		TotalCostPHP:         r.TotalCostPHP,
		ReportFileName:       r.ReportFileName,
		Status:               string(r.Status),
		FirstClearanceStatus: string(r.FirstClearanceStatus),
		FirstClearedAt:       r.FirstClearedAt,
		FinalClearanceStatus: string(r.FinalClearanceStatus),
		FinalClearedAt:       r.FinalClearedAt,
		AdminNotes:           r.AdminNotes,
		CreatedAt:            r.CreatedAt,
		UpdatedAt:            r.UpdatedAt,
	}
}

// UpdateFinancialsRequest carries the financial field group.
type UpdateFinancialsRequest struct {
	PicName             string  `json:"pic_name" binding:"required"`
	CashAllocation      float64 `json:"cash_allocation"`
	DiamondsExpenditure float64 `json:"diamonds_expenditure"`
	TotalCostPHP        float64 `json:"total_cost_php"`
}
