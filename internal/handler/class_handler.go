package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/saborconflow/studio-backend/internal/model"
	"github.com/saborconflow/studio-backend/internal/response"
	"github.com/saborconflow/studio-backend/internal/service"
	"github.com/saborconflow/studio-backend/internal/validator"
)

// ClassHandler serves the public weekly schedule and admin class management.
type ClassHandler struct {
	scheduleService *service.ScheduleService
}

// NewClassHandler creates a new ClassHandler.
func NewClassHandler(scheduleService *service.ScheduleService) *ClassHandler {
	return &ClassHandler{scheduleService: scheduleService}
}

// GetSchedule godoc
// GET /api/v1/schedule
// Returns active classes grouped by weekday, Monday first.
func (h *ClassHandler) GetSchedule(c *gin.Context) {
	days, err := h.scheduleService.Weekly(c.Request.Context())
	if err != nil {
		respondError(c, err)
		return
	}

	response.Success(c, http.StatusOK, gin.H{"days": days})
}

// ListClasses godoc
// GET /api/v1/admin/classes
// Lists all classes, inactive included, without pagination.
func (h *ClassHandler) ListClasses(c *gin.Context) {
	classes, err := h.scheduleService.List(c.Request.Context())
	if err != nil {
		respondError(c, err)
		return
	}

	response.Success(c, http.StatusOK, gin.H{"classes": classes})
}

// GetClass godoc
// GET /api/v1/admin/classes/:id
func (h *ClassHandler) GetClass(c *gin.Context) {
	id, ok := paramID(c, "id")
	if !ok {
		return
	}

	class, err := h.scheduleService.GetByID(c.Request.Context(), id)
	if err != nil {
		respondError(c, err)
		return
	}

	response.Success(c, http.StatusOK, class)
}

// CreateClass godoc
// POST /api/v1/admin/classes
// Creates a new class. The slug is derived from the name when omitted.
func (h *ClassHandler) CreateClass(c *gin.Context) {
	var req model.ClassRequest
	if fields := validator.Bind(c, &req); fields != nil {
		response.FailWithFields(c, http.StatusBadRequest, response.ErrValidation, fields)
		return
	}

	class, err := h.scheduleService.Create(c.Request.Context(), req)
	if err != nil {
		respondError(c, err)
		return
	}

	response.Success(c, http.StatusCreated, class)
}

// UpdateClass godoc
// PUT /api/v1/admin/classes/:id
func (h *ClassHandler) UpdateClass(c *gin.Context) {
	id, ok := paramID(c, "id")
	if !ok {
		return
	}

	var req model.ClassRequest
	if fields := validator.Bind(c, &req); fields != nil {
		response.FailWithFields(c, http.StatusBadRequest, response.ErrValidation, fields)
		return
	}

	class, err := h.scheduleService.Update(c.Request.Context(), id, req)
	if err != nil {
		respondError(c, err)
		return
	}

	response.Success(c, http.StatusOK, class)
}

// DeleteClass godoc
// DELETE /api/v1/admin/classes/:id
// Existing bookings keep their snapshot and lose the class reference.
func (h *ClassHandler) DeleteClass(c *gin.Context) {
	id, ok := paramID(c, "id")
	if !ok {
		return
	}

	if err := h.scheduleService.Delete(c.Request.Context(), id); err != nil {
		respondError(c, err)
		return
	}

	response.Success(c, http.StatusOK, gin.H{"message": "class deleted successfully"})
}
