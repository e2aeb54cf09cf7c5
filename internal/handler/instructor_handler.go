package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/saborconflow/studio-backend/internal/model"
	"github.com/saborconflow/studio-backend/internal/response"
	"github.com/saborconflow/studio-backend/internal/service"
	"github.com/saborconflow/studio-backend/internal/validator"
)

// InstructorHandler handles instructor pages and their admin management.
type InstructorHandler struct {
	instructorService *service.InstructorService
}

// NewInstructorHandler creates a new InstructorHandler.
func NewInstructorHandler(instructorService *service.InstructorService) *InstructorHandler {
	return &InstructorHandler{instructorService: instructorService}
}

// List godoc
// GET /api/v1/instructors
// GET /api/v1/admin/instructors
func (h *InstructorHandler) List(c *gin.Context) {
	instructors, err := h.instructorService.List(c.Request.Context())
	if err != nil {
		respondError(c, err)
		return
	}

	response.Success(c, http.StatusOK, gin.H{"instructors": instructors})
}

// Profile godoc
// GET /api/v1/instructors/:slug
// Returns the instructor with their classes and approved testimonials.
func (h *InstructorHandler) Profile(c *gin.Context) {
	profile, err := h.instructorService.Profile(c.Request.Context(), c.Param("slug"))
	if err != nil {
		respondError(c, err)
		return
	}

	response.Success(c, http.StatusOK, profile)
}

// Get godoc
// GET /api/v1/admin/instructors/:id
func (h *InstructorHandler) Get(c *gin.Context) {
	id, ok := paramID(c, "id")
	if !ok {
		return
	}

	instructor, err := h.instructorService.GetByID(c.Request.Context(), id)
	if err != nil {
		respondError(c, err)
		return
	}

	response.Success(c, http.StatusOK, instructor)
}

// Create godoc
// POST /api/v1/admin/instructors
func (h *InstructorHandler) Create(c *gin.Context) {
	var req model.InstructorRequest
	if fields := validator.Bind(c, &req); fields != nil {
		response.FailWithFields(c, http.StatusBadRequest, response.ErrValidation, fields)
		return
	}

	instructor, err := h.instructorService.Create(c.Request.Context(), req)
	if err != nil {
		respondError(c, err)
		return
	}

	response.Success(c, http.StatusCreated, instructor)
}

// Update godoc
// PUT /api/v1/admin/instructors/:id
func (h *InstructorHandler) Update(c *gin.Context) {
	id, ok := paramID(c, "id")
	if !ok {
		return
	}

	var req model.InstructorRequest
	if fields := validator.Bind(c, &req); fields != nil {
		response.FailWithFields(c, http.StatusBadRequest, response.ErrValidation, fields)
		return
	}

	instructor, err := h.instructorService.Update(c.Request.Context(), id, req)
	if err != nil {
		respondError(c, err)
		return
	}

	response.Success(c, http.StatusOK, instructor)
}

// UploadPhoto godoc
// POST /api/v1/admin/instructors/:id/photo
// Multipart field "photo". Replaces the profile photo.
func (h *InstructorHandler) UploadPhoto(c *gin.Context) {
	id, ok := paramID(c, "id")
	if !ok {
		return
	}

	file, header, err := c.Request.FormFile("photo")
	if err != nil {
		response.Fail(c, http.StatusBadRequest, response.ErrFileRequired)
		return
	}
	defer file.Close()

	instructor, err := h.instructorService.UploadPhoto(c.Request.Context(), id, file, header)
	if err != nil {
		respondError(c, err)
		return
	}

	response.Success(c, http.StatusOK, instructor)
}

// Delete godoc
// DELETE /api/v1/admin/instructors/:id
func (h *InstructorHandler) Delete(c *gin.Context) {
	id, ok := paramID(c, "id")
	if !ok {
		return
	}

	if err := h.instructorService.Delete(c.Request.Context(), id); err != nil {
		respondError(c, err)
		return
	}

	response.Success(c, http.StatusOK, gin.H{"message": "instructor deleted"})
}
