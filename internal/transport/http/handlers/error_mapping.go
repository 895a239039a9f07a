package handlers

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/moontonsl/communityheroesph-sub001/internal/core/domain"
	"github.com/moontonsl/communityheroesph-sub001/internal/repository"
	"github.com/moontonsl/communityheroesph-sub001/internal/transport/http/middleware"
	"github.com/moontonsl/communityheroesph-sub001/internal/usecase"
)

// requireActor pulls the authenticated actor from the request context and
// writes a 401 when it is missing.
func requireActor(c *gin.Context) (domain.Actor, bool) {
	actor, ok := middleware.GetActor(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, NewErrorResponse(c, "authentication required"))
	}
	return actor, ok
}

// ErrorCase maps a sentinel error to an HTTP status code and response message.
type ErrorCase struct {
	Err     error
	Status  int
	Message string
}

// RespondWithMappedError resolves the provided error against known cases or
// falls back to a generic response. Invalid workflow transitions map to 409
// with the transition's own message regardless of the case table.
func RespondWithMappedError(c *gin.Context, err error, cases []ErrorCase, fallbackStatus int, fallbackMessage string) {
	if err == nil {
		c.Status(http.StatusOK)
		return
	}

	var transitionErr *domain.InvalidTransitionError
	if errors.As(err, &transitionErr) {
		c.JSON(http.StatusConflict, NewErrorResponse(c, transitionErr.Error()))
		return
	}

	for _, cs := range cases {
		if cs.Err == nil {
			continue
		}
		if errors.Is(err, cs.Err) {
			c.JSON(cs.Status, NewErrorResponse(c, cs.Message))
			return
		}
	}

	c.JSON(fallbackStatus, NewErrorResponse(c, fallbackMessage))
}

// commonCases are the error mappings shared by every workflow handler. The
// role check maps to 403 and always wins over state conflicts because the
// services authorize before loading entity state.
func commonCases() []ErrorCase {
	return []ErrorCase{
		{Err: usecase.ErrRoleNotAllowed, Status: http.StatusForbidden, Message: "role not permitted for this operation"},
		{Err: repository.ErrNotFound, Status: http.StatusNotFound, Message: "record not found"},
		{Err: domain.ErrReasonRequired, Status: http.StatusBadRequest, Message: "a reason is required"},
	}
}
