package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/saborconflow/studio-backend/internal/model"
	"github.com/saborconflow/studio-backend/internal/response"
	"github.com/saborconflow/studio-backend/internal/service"
	"github.com/saborconflow/studio-backend/internal/validator"
)

type ResourceHandler struct {
	resourceService *service.ResourceService
}

func NewResourceHandler(resourceService *service.ResourceService) *ResourceHandler {
	return &ResourceHandler{resourceService: resourceService}
}

// ListPublic godoc
// GET /api/v1/resources?class_type=salsa_on1&type=video
func (h *ResourceHandler) ListPublic(c *gin.Context) {
	resources, err := h.resourceService.ListPublic(c.Request.Context(), c.Query("class_type"), model.ResourceType(c.Query("type")))
	if err != nil {
		respondError(c, err)
		return
	}

	response.Success(c, http.StatusOK, gin.H{"resources": resources})
}

// ListAll godoc
// GET /api/v1/admin/resources
func (h *ResourceHandler) ListAll(c *gin.Context) {
	resources, err := h.resourceService.ListAll(c.Request.Context())
	if err != nil {
		respondError(c, err)
		return
	}

	response.Success(c, http.StatusOK, gin.H{"resources": resources})
}

// Get godoc
// GET /api/v1/admin/resources/:id
func (h *ResourceHandler) Get(c *gin.Context) {
	id, ok := paramID(c, "id")
	if !ok {
		return
	}

	resource, err := h.resourceService.GetByID(c.Request.Context(), id)
	if err != nil {
		respondError(c, err)
		return
	}

	response.Success(c, http.StatusOK, resource)
}

// Create godoc
// POST /api/v1/admin/resources
func (h *ResourceHandler) Create(c *gin.Context) {
	var req model.ResourceRequest
	if fields := validator.Bind(c, &req); fields != nil {
		response.FailWithFields(c, http.StatusBadRequest, response.ErrValidation, fields)
		return
	}

	resource, err := h.resourceService.Create(c.Request.Context(), req)
	if err != nil {
		respondError(c, err)
		return
	}

	response.Success(c, http.StatusCreated, resource)
}

// Update godoc
// PUT /api/v1/admin/resources/:id
func (h *ResourceHandler) Update(c *gin.Context) {
	id, ok := paramID(c, "id")
	if !ok {
		return
	}

	var req model.ResourceRequest
	if fields := validator.Bind(c, &req); fields != nil {
		response.FailWithFields(c, http.StatusBadRequest, response.ErrValidation, fields)
		return
	}

	resource, err := h.resourceService.Update(c.Request.Context(), id, req)
	if err != nil {
		respondError(c, err)
		return
	}

	response.Success(c, http.StatusOK, resource)
}

// Delete godoc
// DELETE /api/v1/admin/resources/:id
func (h *ResourceHandler) Delete(c *gin.Context) {
	id, ok := paramID(c, "id")
	if !ok {
		return
	}

	if err := h.resourceService.Delete(c.Request.Context(), id); err != nil {
		respondError(c, err)
		return
	}

	response.Success(c, http.StatusOK, gin.H{"message": "resource deleted"})
}
