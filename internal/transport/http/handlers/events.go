package handlers

import (
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/moontonsl/communityheroesph-sub001/internal/core/domain"
	"github.com/moontonsl/communityheroesph-sub001/internal/usecase"
)

// EventsHandler serves the event application workflow.
type EventsHandler struct {
	events *usecase.EventService
}

// NewEventsHandler constructs an EventsHandler.
func NewEventsHandler(events *usecase.EventService) *EventsHandler {
	return &EventsHandler{events: events}
}

// Apply files an event application under an approved submission. The proposal
// document arrives as a multipart upload alongside the form fields.
func (h *EventsHandler) Apply(c *gin.Context) {
	actor, ok := requireActor(c)
	if !ok {
		return
	}

	eventDate, err := time.Parse(dateLayout, c.PostForm("event_date"))
	if err != nil {
		c.JSON(http.StatusBadRequest, NewErrorResponse(c, "event_date must be YYYY-MM-DD"))
		return
	}

	expected := 0
	if raw := c.PostForm("expected_participants"); raw != "" {
		expected, err = strconv.Atoi(raw)
		if err != nil || expected < 0 {
			c.JSON(http.StatusBadRequest, NewErrorResponse(c, "expected_participants must be a non-negative integer"))
			return
		}
	}

	fileHeader, err := c.FormFile("proposal_file")
	if err != nil {
		c.JSON(http.StatusBadRequest, NewErrorResponse(c, "proposal_file upload is required"))
		return
	}
	file, err := fileHeader.Open()
	if err != nil {
		c.JSON(http.StatusBadRequest, NewErrorResponse(c, "proposal_file could not be read"))
		return
	}
	defer file.Close()

	event, err := h.events.Apply(c.Request.Context(), actor, usecase.ApplyEventInput{
		SubmissionRefID: c.PostForm("submission_id"),

		Name:                 c.PostForm("name"),
		Description:          c.PostForm("description"),
		EventDate:            eventDate,
		StartTime:            c.PostForm("start_time"),
		EndTime:              c.PostForm("end_time"),
		Location:             c.PostForm("location"),
		ExpectedParticipants: expected,
		EventType:            c.PostForm("event_type"),
		ContactPerson:        c.PostForm("contact_person"),
		ContactNumber:        c.PostForm("contact_number"),
		ContactEmail:         c.PostForm("contact_email"),

		ProposalFile:     file,
		ProposalFileName: fileHeader.Filename,
	})
	if err != nil {
		cases := append(commonCases(),
			ErrorCase{Err: usecase.ErrSubmissionNotApproved, Status: http.StatusConflict, Message: "submission is not approved for events"},
			ErrorCase{Err: usecase.ErrNotSubmissionParty, Status: http.StatusForbidden, Message: "actor is not a party to this submission"},
			ErrorCase{Err: usecase.ErrAlreadyApplied, Status: http.StatusConflict, Message: "an active application already exists for this submission"},
			ErrorCase{Err: usecase.ErrProposalRequired, Status: http.StatusBadRequest, Message: "proposal document is required"},
			ErrorCase{Err: usecase.ErrSubmissionNotFound, Status: http.StatusNotFound, Message: "submission not found"},
		)
		RespondWithMappedError(c, err, cases,
			http.StatusInternalServerError, "failed to file event application")
		return
	}

	c.JSON(http.StatusCreated, newEventPayload(*event))
}

// List returns events, optionally filtered by status or parent submission.
func (h *EventsHandler) List(c *gin.Context) {
	if submissionID := c.Query("submission_id"); submissionID != "" {
		events, err := h.events.ListBySubmission(c.Request.Context(), submissionID)
		if err != nil {
			c.JSON(http.StatusInternalServerError, NewErrorResponse(c, "failed to list events"))
			return
		}
		respondEvents(c, events)
		return
	}

	var status *domain.EventStatus
	if raw := c.Query("status"); raw != "" {
		s := domain.EventStatus(strings.ToUpper(raw))
		status = &s
	}

	events, err := h.events.List(c.Request.Context(), status)
	if err != nil {
		c.JSON(http.StatusInternalServerError, NewErrorResponse(c, "failed to list events"))
		return
	}
	respondEvents(c, events)
}

func respondEvents(c *gin.Context, events []domain.Event) {
	payload := make([]EventPayload, 0, len(events))
	for _, e := range events {
		payload = append(payload, newEventPayload(e))
	}
	c.JSON(http.StatusOK, payload)
}

// Get returns one event by id.
func (h *EventsHandler) Get(c *gin.Context) {
	event, err := h.events.Get(c.Request.Context(), c.Param("id"))
	if err != nil {
		RespondWithMappedError(c, err, commonCases(),
			http.StatusInternalServerError, "failed to load event")
		return
	}
	c.JSON(http.StatusOK, newEventPayload(*event))
}

// Approve moves an event application to APPROVED.
func (h *EventsHandler) Approve(c *gin.Context) {
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

	event, err := h.events.Approve(c.Request.Context(), actor, c.Param("id"), req.Notes)
	if err != nil {
		RespondWithMappedError(c, err, commonCases(),
			http.StatusInternalServerError, "failed to approve event")
		return
	}

	c.JSON(http.StatusOK, newEventPayload(*event))
}

// Reject moves an event application to REJECTED with a mandatory reason.
func (h *EventsHandler) Reject(c *gin.Context) {
	actor, ok := requireActor(c)
	if !ok {
		return
	}

	var req RejectionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, NewErrorResponse(c, "a rejection reason is required"))
		return
	}

	event, err := h.events.Reject(c.Request.Context(), actor, c.Param("id"), req.Reason, req.Notes)
	if err != nil {
		RespondWithMappedError(c, err, commonCases(),
			http.StatusInternalServerError, "failed to reject event")
		return
	}

	c.JSON(http.StatusOK, newEventPayload(*event))
}

// Complete marks an approved event finished and records whether it counts as
// successful for the barangay's tier.
func (h *EventsHandler) Complete(c *gin.Context) {
	actor, ok := requireActor(c)
	if !ok {
		return
	}

	var req CompleteEventRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, NewErrorResponse(c, "invalid request payload"))
		return
	}

	event, err := h.events.MarkCompleted(c.Request.Context(), actor, c.Param("id"), req.Successful)
	if err != nil {
		RespondWithMappedError(c, err, commonCases(),
			http.StatusInternalServerError, "failed to complete event")
		return
	}

	c.JSON(http.StatusOK, newEventPayload(*event))
}

// Cancel withdraws an event application. The reason is optional.
func (h *EventsHandler) Cancel(c *gin.Context) {
	actor, ok := requireActor(c)
	if !ok {
		return
	}

	var req CancelRequest
	if c.Request.ContentLength > 0 {
		if err := c.ShouldBindJSON(&req); err != nil {
			c.JSON(http.StatusBadRequest, NewErrorResponse(c, "invalid request payload"))
			return
		}
	}

	event, err := h.events.Cancel(c.Request.Context(), actor, c.Param("id"), req.Reason)
	if err != nil {
		RespondWithMappedError(c, err, commonCases(),
			http.StatusInternalServerError, "failed to cancel event")
		return
	}

	c.JSON(http.StatusOK, newEventPayload(*event))
}
