package handlers

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/moontonsl/communityheroesph-sub001/internal/usecase"
)

// UsersHandler serves user management endpoints.
type UsersHandler struct {
	users *usecase.UserService
}

// NewUsersHandler constructs a UsersHandler.
func NewUsersHandler(users *usecase.UserService) *UsersHandler {
	return &UsersHandler{users: users}
}

// List returns every user with their role.
func (h *UsersHandler) List(c *gin.Context) {
	users, err := h.users.List(c.Request.Context())
	if err != nil {
		c.JSON(http.StatusInternalServerError, NewErrorResponse(c, "failed to list users"))
		return
	}

	payload := make([]UserSummary, 0, len(users))
	for _, u := range users {
		payload = append(payload, newUserSummary(u))
	}
	c.JSON(http.StatusOK, payload)
}

// Get returns one user by id.
func (h *UsersHandler) Get(c *gin.Context) {
	user, err := h.users.Get(c.Request.Context(), c.Param("id"))
	if err != nil {
		RespondWithMappedError(c, err, []ErrorCase{
			{Err: usecase.ErrUserNotFound, Status: http.StatusNotFound, Message: "user not found"},
		}, http.StatusInternalServerError, "failed to load user")
		return
	}
	c.JSON(http.StatusOK, newUserSummary(*user))
}

// Create provisions a user account with an assigned role.
func (h *UsersHandler) Create(c *gin.Context) {
	var req UserCreateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, NewErrorResponse(c, "invalid request payload"))
		return
	}

	user, err := h.users.Create(c.Request.Context(), usecase.CreateUserInput{
		Name:     strings.TrimSpace(req.Name),
		Email:    strings.TrimSpace(strings.ToLower(req.Email)),
		Phone:    req.Phone,
		Password: req.Password,
		RoleID:   req.RoleID,
	})
	if err != nil {
		RespondWithMappedError(c, err, []ErrorCase{
			{Err: usecase.ErrUserExists, Status: http.StatusConflict, Message: "a user with this email already exists"},
			{Err: usecase.ErrRoleNotFound, Status: http.StatusBadRequest, Message: "assigned role does not exist"},
			{Err: usecase.ErrPasswordTooWeak, Status: http.StatusBadRequest, Message: "password does not meet the policy"},
		}, http.StatusInternalServerError, "failed to create user")
		return
	}

	c.JSON(http.StatusCreated, newUserSummary(*user))
}

// Deactivate disables a user account. Self-deactivation is rejected.
func (h *UsersHandler) Deactivate(c *gin.Context) {
	actor, ok := requireActor(c)
	if !ok {
		return
	}

	err := h.users.Deactivate(c.Request.Context(), actor, c.Param("id"))
	if err != nil {
		RespondWithMappedError(c, err, []ErrorCase{
			{Err: usecase.ErrUserNotFound, Status: http.StatusNotFound, Message: "user not found"},
			{Err: usecase.ErrCannotDeactivateSelf, Status: http.StatusConflict, Message: "cannot deactivate your own account"},
		}, http.StatusInternalServerError, "failed to deactivate user")
		return
	}

	c.JSON(http.StatusOK, MessageResponse{Message: "user deactivated"})
}
