package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/saborconflow/studio-backend/internal/middleware"
	"github.com/saborconflow/studio-backend/internal/model"
	"github.com/saborconflow/studio-backend/internal/response"
	"github.com/saborconflow/studio-backend/internal/service"
	"github.com/saborconflow/studio-backend/internal/validator"
)

// AdminUserHandler manages staff accounts.
type AdminUserHandler struct {
	staffService *service.StaffService
}

func NewAdminUserHandler(staffService *service.StaffService) *AdminUserHandler {
	return &AdminUserHandler{staffService: staffService}
}

// ListAdmins godoc
// GET /api/v1/admin/staff
func (h *AdminUserHandler) ListAdmins(c *gin.Context) {
	page, perPage := pageParams(c)

	admins, total, err := h.staffService.ListAdmins(c.Request.Context(), queryInt(c, "role_id"), page, perPage)
	if err != nil {
		respondError(c, err)
		return
	}

	response.SuccessWithPagination(c, http.StatusOK, admins, response.NewPagination(page, perPage, total))
}

// CreateAdmin godoc
// POST /api/v1/admin/staff
func (h *AdminUserHandler) CreateAdmin(c *gin.Context) {
	var req model.StaffRequest
	if fields := validator.Bind(c, &req); fields != nil {
		response.FailWithFields(c, http.StatusBadRequest, response.ErrValidation, fields)
		return
	}

	admin, err := h.staffService.CreateAdmin(c.Request.Context(), req)
	if err != nil {
		respondError(c, err)
		return
	}

	response.Success(c, http.StatusCreated, admin)
}

// UpdateAdmin godoc
// PUT /api/v1/admin/staff/:id
// Password is only changed when present.
func (h *AdminUserHandler) UpdateAdmin(c *gin.Context) {
	id, ok := paramID(c, "id")
	if !ok {
		return
	}

	var req model.StaffRequest
	if fields := validator.Bind(c, &req); fields != nil {
		response.FailWithFields(c, http.StatusBadRequest, response.ErrValidation, fields)
		return
	}

	admin, err := h.staffService.UpdateAdmin(c.Request.Context(), id, req)
	if err != nil {
		respondError(c, err)
		return
	}

	response.Success(c, http.StatusOK, admin)
}

// DeleteAdmin godoc
// DELETE /api/v1/admin/staff/:id
func (h *AdminUserHandler) DeleteAdmin(c *gin.Context) {
	id, ok := paramID(c, "id")
	if !ok {
		return
	}

	claims := middleware.GetClaims(c)
	if claims == nil {
		response.Fail(c, http.StatusUnauthorized, response.ErrTokenRequired)
		return
	}

	if err := h.staffService.DeleteAdmin(c.Request.Context(), claims.UserID, id); err != nil {
		respondError(c, err)
		return
	}

	response.Success(c, http.StatusOK, gin.H{"message": "staff account deleted"})
}
