package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/saborconflow/studio-backend/internal/model"
	"github.com/saborconflow/studio-backend/internal/response"
	"github.com/saborconflow/studio-backend/internal/service"
	"github.com/saborconflow/studio-backend/internal/validator"
)

type ReviewLinkHandler struct {
	reviewLinkService *service.ReviewLinkService
}

func NewReviewLinkHandler(reviewLinkService *service.ReviewLinkService) *ReviewLinkHandler {
	return &ReviewLinkHandler{reviewLinkService: reviewLinkService}
}

// List godoc
// GET /api/v1/admin/review-links?active=true
func (h *ReviewLinkHandler) List(c *gin.Context) {
	page, perPage := pageParams(c)
	activeOnly := c.Query("active") == "true"

	links, total, err := h.reviewLinkService.List(c.Request.Context(), activeOnly, page, perPage)
	if err != nil {
		respondError(c, err)
		return
	}

	response.SuccessWithPagination(c, http.StatusOK, links, response.NewPagination(page, perPage, total))
}

// Create godoc
// POST /api/v1/admin/review-links
// Returns the link with its shareable URL.
func (h *ReviewLinkHandler) Create(c *gin.Context) {
	var req model.CreateReviewLinkRequest
	if fields := validator.Bind(c, &req); fields != nil {
		response.FailWithFields(c, http.StatusBadRequest, response.ErrValidation, fields)
		return
	}

	link, err := h.reviewLinkService.Generate(c.Request.Context(), req)
	if err != nil {
		respondError(c, err)
		return
	}

	response.Success(c, http.StatusCreated, link)
}

// Deactivate godoc
// POST /api/v1/admin/review-links/:id/deactivate
func (h *ReviewLinkHandler) Deactivate(c *gin.Context) {
	id, ok := paramID(c, "id")
	if !ok {
		return
	}

	if err := h.reviewLinkService.Deactivate(c.Request.Context(), id); err != nil {
		respondError(c, err)
		return
	}

	response.Success(c, http.StatusOK, gin.H{"id": id, "is_active": false})
}
