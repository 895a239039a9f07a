package handlers

import (
	"net/http"
	"strings"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/moontonsl/communityheroesph-sub001/internal/core/domain"
	"github.com/moontonsl/communityheroesph-sub001/internal/usecase"
)

const dateLayout = "2006-01-02"

// SubmissionsHandler serves the barangay submission workflow.
type SubmissionsHandler struct {
	submissions *usecase.SubmissionService
}

// NewSubmissionsHandler constructs a SubmissionsHandler.
func NewSubmissionsHandler(submissions *usecase.SubmissionService) *SubmissionsHandler {
	return &SubmissionsHandler{submissions: submissions}
}

// Register accepts a public barangay registration. The MOA document arrives as
// a multipart upload alongside the form fields.
func (h *SubmissionsHandler) Register(c *gin.Context) {
	dateSigned, err := time.Parse(dateLayout, c.PostForm("date_signed"))
	if err != nil {
		c.JSON(http.StatusBadRequest, NewErrorResponse(c, "date_signed must be YYYY-MM-DD"))
		return
	}

	var moaExpiry *time.Time
	if raw := c.PostForm("moa_expiry_date"); raw != "" {
		parsed, err := time.Parse(dateLayout, raw)
		if err != nil {
			c.JSON(http.StatusBadRequest, NewErrorResponse(c, "moa_expiry_date must be YYYY-MM-DD"))
			return
		}
		moaExpiry = &parsed
	}

	stage := domain.MoaStage(strings.ToUpper(c.DefaultPostForm("stage", string(domain.MoaStageNew))))
	if stage != domain.MoaStageNew && stage != domain.MoaStageRenewal {
		c.JSON(http.StatusBadRequest, NewErrorResponse(c, "stage must be NEW or RENEWAL"))
		return
	}

	fileHeader, err := c.FormFile("moa_file")
	if err != nil {
		c.JSON(http.StatusBadRequest, NewErrorResponse(c, "moa_file upload is required"))
		return
	}
	file, err := fileHeader.Open()
	if err != nil {
		c.JSON(http.StatusBadRequest, NewErrorResponse(c, "moa_file could not be read"))
		return
	}
	defer file.Close()

	input := usecase.RegisterSubmissionInput{
		RegionID:       c.PostForm("region_id"),
		ProvinceID:     c.PostForm("province_id"),
		MunicipalityID: c.PostForm("municipality_id"),
		BarangayID:     c.PostForm("barangay_id"),

		SecondPartyName:     c.PostForm("second_party_name"),
		SecondPartyPosition: c.PostForm("second_party_position"),
		DateSigned:          dateSigned,
		Stage:               stage,
		MoaExpiryDate:       moaExpiry,

		MoaFile:     file,
		MoaFileName: fileHeader.Filename,
	}

	if assigned := c.PostForm("assigned_user_id"); assigned != "" {
		input.AssignedUserID = &assigned
	}
	clientIP := c.ClientIP()
	userAgent := c.Request.UserAgent()
	input.SubmittedIP = &clientIP
	input.UserAgent = &userAgent

	submission, err := h.submissions.Register(c.Request.Context(), input)
	if err != nil {
		RespondWithMappedError(c, err, []ErrorCase{
			{Err: usecase.ErrBarangayRequired, Status: http.StatusBadRequest, Message: "region, province, municipality and barangay are required"},
			{Err: usecase.ErrMoaDocumentRequired, Status: http.StatusBadRequest, Message: "MOA document is required"},
			{Err: usecase.ErrSubmissionNotFound, Status: http.StatusBadRequest, Message: "unknown location reference"},
		}, http.StatusInternalServerError, "failed to register submission")
		return
	}

	c.JSON(http.StatusCreated, newSubmissionPayload(*submission))
}

// List returns submissions, optionally filtered by status.
func (h *SubmissionsHandler) List(c *gin.Context) {
	var status *domain.SubmissionStatus
	if raw := c.Query("status"); raw != "" {
		s := domain.SubmissionStatus(strings.ToUpper(raw))
		status = &s
	}

	submissions, err := h.submissions.List(c.Request.Context(), status)
	if err != nil {
		c.JSON(http.StatusInternalServerError, NewErrorResponse(c, "failed to list submissions"))
		return
	}

	payload := make([]SubmissionPayload, 0, len(submissions))
	for _, s := range submissions {
		payload = append(payload, newSubmissionPayload(s))
	}
	c.JSON(http.StatusOK, payload)
}

// Get returns one submission by id.
func (h *SubmissionsHandler) Get(c *gin.Context) {
	submission, err := h.submissions.Get(c.Request.Context(), c.Param("id"))
	if err != nil {
		RespondWithMappedError(c, err, commonCases(),
			http.StatusInternalServerError, "failed to load submission")
		return
	}
	c.JSON(http.StatusOK, newSubmissionPayload(*submission))
}

// Approve moves a submission to APPROVED.
func (h *SubmissionsHandler) Approve(c *gin.Context) {
	h.decide(c, func(actor domain.Actor, req DecisionRequest) (*domain.BarangaySubmission, error) {
		return h.submissions.Approve(c.Request.Context(), actor, c.Param("id"), req.Notes)
	})
}

// MarkUnderReview parks a submission for further checking.
func (h *SubmissionsHandler) MarkUnderReview(c *gin.Context) {
	h.decide(c, func(actor domain.Actor, req DecisionRequest) (*domain.BarangaySubmission, error) {
		return h.submissions.MarkUnderReview(c.Request.Context(), actor, c.Param("id"), req.Notes)
	})
}

// Reject moves a submission to REJECTED with a mandatory reason.
func (h *SubmissionsHandler) Reject(c *gin.Context) {
	actor, ok := requireActor(c)
	if !ok {
		return
	}

	var req RejectionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, NewErrorResponse(c, "a rejection reason is required"))
		return
	}

	submission, err := h.submissions.Reject(c.Request.Context(), actor, c.Param("id"), req.Reason, req.Notes)
	if err != nil {
		RespondWithMappedError(c, err, commonCases(),
			http.StatusInternalServerError, "failed to reject submission")
		return
	}

	c.JSON(http.StatusOK, newSubmissionPayload(*submission))
}

func (h *SubmissionsHandler) decide(c *gin.Context, apply func(domain.Actor, DecisionRequest) (*domain.BarangaySubmission, error)) {
	actor, ok := requireActor(c)
	if !ok {
		return
	}

	var req DecisionRequest
	if c.Request.ContentLength > 0 {
		if err := c.ShouldBindJSON(&req); err != nil {
			c.JSON(http.StatusBadRequest, NewErrorResponse(c, "invalid request payload"))
			return
		}
	}

	submission, err := apply(actor, req)
	if err != nil {
		RespondWithMappedError(c, err, commonCases(),
			http.StatusInternalServerError, "failed to update submission")
		return
	}

	c.JSON(http.StatusOK, newSubmissionPayload(*submission))
}
