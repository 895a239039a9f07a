package handlers

import (
	"errors"
	"net/http"
	"strconv"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/moontonsl/communityheroesph-sub001/internal/core/domain"
	"github.com/moontonsl/communityheroesph-sub001/internal/usecase"
)

// ReportingsHandler serves the post-event report pipeline.
type ReportingsHandler struct {
	reports *usecase.ReportingService
}

// NewReportingsHandler constructs a ReportingsHandler.
func NewReportingsHandler(reports *usecase.ReportingService) *ReportingsHandler {
	return &ReportingsHandler{reports: reports}
}

func reportCases() []ErrorCase {
	return append(commonCases(),
		ErrorCase{Err: usecase.ErrEventNotReportable, Status: http.StatusConflict, Message: "event is not eligible for reporting"},
		ErrorCase{Err: usecase.ErrReportExists, Status: http.StatusConflict, Message: "a report already exists for this event"},
		ErrorCase{Err: usecase.ErrReportNotEditable, Status: http.StatusConflict, Message: "only draft reports can be edited or deleted"},
		ErrorCase{Err: usecase.ErrNotReportOwner, Status: http.StatusForbidden, Message: "report belongs to another user"},
	)
}

func parseMoney(c *gin.Context, field string) (float64, bool) {
	raw := c.PostForm(field)
	if raw == "" {
		return 0, true
	}
	value, err := strconv.ParseFloat(raw, 64)
	if err != nil || value < 0 {
		c.JSON(http.StatusBadRequest, NewErrorResponse(c, field+" must be a non-negative number"))
		return 0, false
	}
	return value, true
}

// Create files a draft report against an event. The supporting document is an
// optional multipart upload.
func (h *ReportingsHandler) Create(c *gin.Context) {
	actor, ok := requireActor(c)
	if !ok {
		return
	}

	cash, ok := parseMoney(c, "cash_allocation")
	if !ok {
		return
	}
	diamonds, ok := parseMoney(c, "diamonds_expenditure")
	if !ok {
		return
	}
	total, ok := parseMoney(c, "total_cost_php")
	if !ok {
		return
	}

	input := usecase.CreateReportInput{
		EventRefID:          c.PostForm("event_id"),
		CampaignName:        c.PostForm("campaign_name"),
		PicName:             c.PostForm("pic_name"),
		CashAllocation:      cash,
		DiamondsExpenditure: diamonds,
		TotalCostPHP:        total,
	}

	if fileHeader, err := c.FormFile("report_file"); err == nil {
		file, err := fileHeader.Open()
		if err != nil {
			c.JSON(http.StatusBadRequest, NewErrorResponse(c, "report_file could not be read"))
			return
		}
		defer file.Close()
		input.ReportFile = file
		input.ReportFileName = fileHeader.Filename
	}

	report, err := h.reports.Create(c.Request.Context(), actor, input)
	if err != nil {
		RespondWithMappedError(c, err, reportCases(),
			http.StatusInternalServerError, "failed to create report")
		return
	}

	c.JSON(http.StatusCreated, newReportPayload(*report))
}

// List returns reports. Administrative roles see every report and may filter by
// status; other actors see only their own.
func (h *ReportingsHandler) List(c *gin.Context) {
	actor, ok := requireActor(c)
	if !ok {
		return
	}

	var status *domain.ReportStatus
	if raw := c.Query("status"); raw != "" {
		s := domain.ReportStatus(strings.ToUpper(raw))
		status = &s
	}

	reports, err := h.reports.ListAdmin(c.Request.Context(), actor, status)
	if errors.Is(err, usecase.ErrRoleNotAllowed) {
		reports, err = h.reports.ListOwn(c.Request.Context(), actor)
	}
	if err != nil {
		c.JSON(http.StatusInternalServerError, NewErrorResponse(c, "failed to list reports"))
		return
	}

	payload := make([]ReportPayload, 0, len(reports))
	for _, r := range reports {
		payload = append(payload, newReportPayload(r))
	}
	c.JSON(http.StatusOK, payload)
}

// Get returns one report by id.
func (h *ReportingsHandler) Get(c *gin.Context) {
	report, err := h.reports.Get(c.Request.Context(), c.Param("id"))
	if err != nil {
		RespondWithMappedError(c, err, reportCases(),
			http.StatusInternalServerError, "failed to load report")
		return
	}
	c.JSON(http.StatusOK, newReportPayload(*report))
}

// Submit freezes a draft report and enters it into the pipeline.
func (h *ReportingsHandler) Submit(c *gin.Context) {
	actor, ok := requireActor(c)
	if !ok {
		return
	}

	report, err := h.reports.Submit(c.Request.Context(), actor, c.Param("id"))
	if err != nil {
		RespondWithMappedError(c, err, reportCases(),
			http.StatusInternalServerError, "failed to submit report")
		return
	}
	c.JSON(http.StatusOK, newReportPayload(*report))
}

func (h *ReportingsHandler) advance(
	c *gin.Context,
	failure string,
	apply func(actor domain.Actor, id string, notes *string) (*domain.EventReporting, error),
) {
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

	report, err := apply(actor, c.Param("id"), req.Notes)
	if err != nil {
		RespondWithMappedError(c, err, reportCases(), http.StatusInternalServerError, failure)
		return
	}
	c.JSON(http.StatusOK, newReportPayload(*report))
}

// PreApprove advances a submitted report.
func (h *ReportingsHandler) PreApprove(c *gin.Context) {
	h.advance(c, "failed to pre-approve report",
		func(actor domain.Actor, id string, notes *string) (*domain.EventReporting, error) {
			return h.reports.PreApprove(c.Request.Context(), actor, id, notes)
		})
}

// Review advances a pre-approved report.
func (h *ReportingsHandler) Review(c *gin.Context) {
	h.advance(c, "failed to review report",
		func(actor domain.Actor, id string, notes *string) (*domain.EventReporting, error) {
			return h.reports.Review(c.Request.Context(), actor, id, notes)
		})
}

// Approve finishes the primary pipeline.
func (h *ReportingsHandler) Approve(c *gin.Context) {
	h.advance(c, "failed to approve report",
		func(actor domain.Actor, id string, notes *string) (*domain.EventReporting, error) {
			return h.reports.Approve(c.Request.Context(), actor, id, notes)
		})
}

// FirstClearance records the first clearance sign-off on an approved report.
func (h *ReportingsHandler) FirstClearance(c *gin.Context) {
	actor, ok := requireActor(c)
	if !ok {
		return
	}

	report, err := h.reports.FirstClearance(c.Request.Context(), actor, c.Param("id"))
	if err != nil {
		RespondWithMappedError(c, err, reportCases(),
			http.StatusInternalServerError, "failed to record first clearance")
		return
	}
	c.JSON(http.StatusOK, newReportPayload(*report))
}

// FinalClearance records the final clearance sign-off.
func (h *ReportingsHandler) FinalClearance(c *gin.Context) {
	actor, ok := requireActor(c)
	if !ok {
		return
	}

	report, err := h.reports.FinalClearance(c.Request.Context(), actor, c.Param("id"))
	if err != nil {
		RespondWithMappedError(c, err, reportCases(),
			http.StatusInternalServerError, "failed to record final clearance")
		return
	}
	c.JSON(http.StatusOK, newReportPayload(*report))
}

// UpdateFinancials replaces the financial field group.
func (h *ReportingsHandler) UpdateFinancials(c *gin.Context) {
	actor, ok := requireActor(c)
	if !ok {
		return
	}

	var req UpdateFinancialsRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, NewErrorResponse(c, "invalid request payload"))
		return
	}

	report, err := h.reports.UpdateFinancials(c.Request.Context(), actor, c.Param("id"), usecase.UpdateFinancialsInput{
		PicName:             req.PicName,
		CashAllocation:      req.CashAllocation,
		DiamondsExpenditure: req.DiamondsExpenditure,
		TotalCostPHP:        req.TotalCostPHP,
	})
	if err != nil {
		RespondWithMappedError(c, err, reportCases(),
			http.StatusInternalServerError, "failed to update financials")
		return
	}
	c.JSON(http.StatusOK, newReportPayload(*report))
}

// ReplaceDocument swaps the supporting document of a draft report.
func (h *ReportingsHandler) ReplaceDocument(c *gin.Context) {
	actor, ok := requireActor(c)
	if !ok {
		return
	}

	fileHeader, err := c.FormFile("report_file")
	if err != nil {
		c.JSON(http.StatusBadRequest, NewErrorResponse(c, "report_file upload is required"))
		return
	}
	file, err := fileHeader.Open()
	if err != nil {
		c.JSON(http.StatusBadRequest, NewErrorResponse(c, "report_file could not be read"))
		return
	}
	defer file.Close()

	report, err := h.reports.ReplaceDocument(c.Request.Context(), actor, c.Param("id"), file, fileHeader.Filename)
	if err != nil {
		RespondWithMappedError(c, err, reportCases(),
			http.StatusInternalServerError, "failed to replace report document")
		return
	}
	c.JSON(http.StatusOK, newReportPayload(*report))
}

// Delete removes a draft report.
func (h *ReportingsHandler) Delete(c *gin.Context) {
	actor, ok := requireActor(c)
	if !ok {
		return
	}

	if err := h.reports.Delete(c.Request.Context(), actor, c.Param("id")); err != nil {
		RespondWithMappedError(c, err, reportCases(),
			http.StatusInternalServerError, "failed to delete report")
		return
	}
	c.JSON(http.StatusOK, MessageResponse{Message: "report deleted"})
}
