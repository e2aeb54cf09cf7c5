package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/saborconflow/studio-backend/internal/model"
	"github.com/saborconflow/studio-backend/internal/response"
	"github.com/saborconflow/studio-backend/internal/service"
	"github.com/saborconflow/studio-backend/internal/validator"
)

type AdminRoleHandler struct {
	staffService *service.StaffService
}

func NewAdminRoleHandler(staffService *service.StaffService) *AdminRoleHandler {
	return &AdminRoleHandler{staffService: staffService}
}

// ListRoles gets all roles with their associated permissions.
func (h *AdminRoleHandler) ListRoles(c *gin.Context) {
	roles, err := h.staffService.ListRoles(c.Request.Context())
	if err != nil {
		respondError(c, err)
		return
	}
	response.Success(c, http.StatusOK, roles)
}

// GetRole gets a role and its permissions by ID.
func (h *AdminRoleHandler) GetRole(c *gin.Context) {
	id, ok := paramID(c, "id")
	if !ok {
		return
	}

	role, err := h.staffService.GetRole(c.Request.Context(), id)
	if err != nil {
		respondError(c, err)
		return
	}

	response.Success(c, http.StatusOK, role)
}

// CreateRole creates a new role with given permissions.
// Unknown permission codes are dropped.
func (h *AdminRoleHandler) CreateRole(c *gin.Context) {
	var req model.RoleRequest
	if fields := validator.Bind(c, &req); fields != nil {
		response.FailWithFields(c, http.StatusBadRequest, response.ErrValidation, fields)
		return
	}

	role, err := h.staffService.CreateRole(c.Request.Context(), req)
	if err != nil {
		respondError(c, err)
		return
	}

	response.Success(c, http.StatusCreated, role)
}

// UpdateRole renames a role and replaces its permissions.
func (h *AdminRoleHandler) UpdateRole(c *gin.Context) {
	id, ok := paramID(c, "id")
	if !ok {
		return
	}

	var req model.RoleRequest
	if fields := validator.Bind(c, &req); fields != nil {
		response.FailWithFields(c, http.StatusBadRequest, response.ErrValidation, fields)
		return
	}

	role, err := h.staffService.UpdateRole(c.Request.Context(), id, req)
	if err != nil {
		respondError(c, err)
		return
	}

	response.Success(c, http.StatusOK, role)
}

// DeleteRole deletes a role that no staff account holds.
func (h *AdminRoleHandler) DeleteRole(c *gin.Context) {
	id, ok := paramID(c, "id")
	if !ok {
		return
	}

	if err := h.staffService.DeleteRole(c.Request.Context(), id); err != nil {
		respondError(c, err)
		return
	}

	response.Success(c, http.StatusOK, gin.H{"message": "role deleted"})
}

// GetPermissions lists every permission code a role can be granted.
func (h *AdminRoleHandler) GetPermissions(c *gin.Context) {
	response.Success(c, http.StatusOK, h.staffService.AllPermissions())
}
