package handlers

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/moontonsl/communityheroesph-sub001/internal/usecase"
)

// RolesHandler serves role management endpoints.
type RolesHandler struct {
	roles *usecase.RoleService
}

// NewRolesHandler constructs a RolesHandler.
func NewRolesHandler(roles *usecase.RoleService) *RolesHandler {
	return &RolesHandler{roles: roles}
}

// List returns every role.
func (h *RolesHandler) List(c *gin.Context) {
	roles, err := h.roles.List(c.Request.Context())
	if err != nil {
		c.JSON(http.StatusInternalServerError, NewErrorResponse(c, "failed to list roles"))
		return
	}

	payload := make([]RolePayload, 0, len(roles))
	for _, r := range roles {
		payload = append(payload, newRolePayload(r))
	}
	c.JSON(http.StatusOK, payload)
}

// Get returns one role by id.
func (h *RolesHandler) Get(c *gin.Context) {
	role, err := h.roles.Get(c.Request.Context(), c.Param("id"))
	if err != nil {
		RespondWithMappedError(c, err, []ErrorCase{
			{Err: usecase.ErrRoleNotFound, Status: http.StatusNotFound, Message: "role not found"},
		}, http.StatusInternalServerError, "failed to load role")
		return
	}
	c.JSON(http.StatusOK, newRolePayload(*role))
}

// Create provisions a new role.
func (h *RolesHandler) Create(c *gin.Context) {
	var req RoleCreateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, NewErrorResponse(c, "invalid request payload"))
		return
	}

	role, err := h.roles.Create(c.Request.Context(), usecase.CreateRoleInput{
		Name:        strings.TrimSpace(req.Name),
		Slug:        strings.TrimSpace(strings.ToLower(req.Slug)),
		Description: req.Description,
		Permissions: req.Permissions,
	})
	if err != nil {
		RespondWithMappedError(c, err, []ErrorCase{
			{Err: usecase.ErrRoleExists, Status: http.StatusConflict, Message: "a role with this slug already exists"},
		}, http.StatusInternalServerError, "failed to create role")
		return
	}

	c.JSON(http.StatusCreated, newRolePayload(*role))
}

// Update edits a role's mutable fields.
func (h *RolesHandler) Update(c *gin.Context) {
	var req RoleUpdateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, NewErrorResponse(c, "invalid request payload"))
		return
	}

	role, err := h.roles.Update(c.Request.Context(), c.Param("id"), usecase.UpdateRoleInput{
		Name:        strings.TrimSpace(req.Name),
		Description: req.Description,
		Permissions: req.Permissions,
		IsActive:    req.IsActive,
	})
	if err != nil {
		RespondWithMappedError(c, err, []ErrorCase{
			{Err: usecase.ErrRoleNotFound, Status: http.StatusNotFound, Message: "role not found"},
			{Err: usecase.ErrRoleProtected, Status: http.StatusForbidden, Message: "protected roles cannot be modified"},
		}, http.StatusInternalServerError, "failed to update role")
		return
	}

	c.JSON(http.StatusOK, newRolePayload(*role))
}

// Delete removes a role that is neither protected nor assigned to users.
func (h *RolesHandler) Delete(c *gin.Context) {
	err := h.roles.Delete(c.Request.Context(), c.Param("id"))
	if err != nil {
		RespondWithMappedError(c, err, []ErrorCase{
			{Err: usecase.ErrRoleNotFound, Status: http.StatusNotFound, Message: "role not found"},
			{Err: usecase.ErrRoleProtected, Status: http.StatusForbidden, Message: "protected roles cannot be deleted"},
			{Err: usecase.ErrRoleInUse, Status: http.StatusConflict, Message: "role is assigned to existing users"},
		}, http.StatusInternalServerError, "failed to delete role")
		return
	}

	c.JSON(http.StatusOK, MessageResponse{Message: "role deleted"})
}
