package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/saborconflow/studio-backend/internal/model"
	"github.com/saborconflow/studio-backend/internal/response"
	"github.com/saborconflow/studio-backend/internal/service"
	"github.com/saborconflow/studio-backend/internal/validator"
)

// TestimonialHandler serves the public testimonial pages and the admin moderation queue.
type TestimonialHandler struct {
	testimonialService *service.TestimonialService
	reviewLinkService  *service.ReviewLinkService
}

// NewTestimonialHandler creates a new TestimonialHandler.
func NewTestimonialHandler(testimonialService *service.TestimonialService, reviewLinkService *service.ReviewLinkService) *TestimonialHandler {
	return &TestimonialHandler{
		testimonialService: testimonialService,
		reviewLinkService:  reviewLinkService,
	}
}

// ─── Public ─────────────────────────────────────────────────────────

// ListApproved godoc
// GET /api/v1/testimonials?page=1&per_page=20&min_rating=4
func (h *TestimonialHandler) ListApproved(c *gin.Context) {
	page, perPage := pageParams(c)
	minRating := queryInt(c, "min_rating")
	if minRating < 0 || minRating > 5 {
		response.FailWithFields(c, http.StatusBadRequest, response.ErrValidation, map[string]string{
			"min_rating": "min_rating must be between 1 and 5",
		})
		return
	}

	res, err := h.testimonialService.ListApproved(c.Request.Context(), page, perPage, minRating)
	if err != nil {
		respondError(c, err)
		return
	}

	response.SuccessWithPagination(c, http.StatusOK, res.Items, response.NewPagination(page, perPage, res.Total))
}

// GetStats godoc
// GET /api/v1/testimonials/stats
func (h *TestimonialHandler) GetStats(c *gin.Context) {
	stats, err := h.testimonialService.Stats(c.Request.Context())
	if err != nil {
		respondError(c, err)
		return
	}

	response.Success(c, http.StatusOK, stats)
}

// Submit godoc
// POST /api/v1/testimonials
// Stores a pending testimonial. A review_token attributes it to a review link.
func (h *TestimonialHandler) Submit(c *gin.Context) {
	var req model.SubmitTestimonialRequest
	if fields := validator.Bind(c, &req); fields != nil {
		response.FailWithFields(c, http.StatusBadRequest, response.ErrValidation, fields)
		return
	}

	t, err := h.testimonialService.Submit(c.Request.Context(), req)
	if err != nil {
		respondError(c, err)
		return
	}

	response.Success(c, http.StatusCreated, gin.H{
		"id":      t.ID,
		"status":  t.Status,
		"message": "Thank you! Your testimonial will appear once it has been reviewed.",
	})
}

// ResolveReviewLink godoc
// GET /api/v1/testimonials/review/:token
// Returns the prefill data for the testimonial form and counts the click.
func (h *TestimonialHandler) ResolveReviewLink(c *gin.Context) {
	prefill, err := h.reviewLinkService.Resolve(c.Request.Context(), c.Param("token"))
	if err != nil {
		respondError(c, err)
		return
	}

	response.Success(c, http.StatusOK, prefill)
}

// GoogleReviews godoc
// GET /api/v1/google-reviews
func (h *TestimonialHandler) GoogleReviews(c *gin.Context) {
	summary, err := h.testimonialService.GoogleReviews(c.Request.Context())
	if err != nil {
		respondError(c, err)
		return
	}

	response.Success(c, http.StatusOK, summary)
}

// ─── Admin ──────────────────────────────────────────────────────────

// List godoc
// GET /api/v1/admin/testimonials?status=pending&min_rating=&class_type=
func (h *TestimonialHandler) List(c *gin.Context) {
	page, perPage := pageParams(c)

	filter := model.TestimonialFilter{
		Status:    model.TestimonialStatus(c.Query("status")),
		MinRating: queryInt(c, "min_rating"),
		ClassType: c.Query("class_type"),
	}
	if filter.Status != "" && !filter.Status.Valid() {
		response.FailWithFields(c, http.StatusBadRequest, response.ErrValidation, map[string]string{
			"status": "status must be one of pending, approved, rejected",
		})
		return
	}

	items, total, err := h.testimonialService.List(c.Request.Context(), filter, page, perPage)
	if err != nil {
		respondError(c, err)
		return
	}

	response.SuccessWithPagination(c, http.StatusOK, items, response.NewPagination(page, perPage, total))
}

// Get godoc
// GET /api/v1/admin/testimonials/:id
func (h *TestimonialHandler) Get(c *gin.Context) {
	id, ok := paramID(c, "id")
	if !ok {
		return
	}

	t, err := h.testimonialService.GetByID(c.Request.Context(), id)
	if err != nil {
		respondError(c, err)
		return
	}

	response.Success(c, http.StatusOK, t)
}

// Approve godoc
// POST /api/v1/admin/testimonials/:id/approve
func (h *TestimonialHandler) Approve(c *gin.Context) {
	id, ok := paramID(c, "id")
	if !ok {
		return
	}

	t, err := h.testimonialService.Approve(c.Request.Context(), id)
	if err != nil {
		respondError(c, err)
		return
	}

	response.Success(c, http.StatusOK, t)
}

// Reject godoc
// POST /api/v1/admin/testimonials/:id/reject
func (h *TestimonialHandler) Reject(c *gin.Context) {
	id, ok := paramID(c, "id")
	if !ok {
		return
	}

	var req model.RejectTestimonialRequest
	if c.Request.ContentLength > 0 {
		if fields := validator.Bind(c, &req); fields != nil {
			response.FailWithFields(c, http.StatusBadRequest, response.ErrValidation, fields)
			return
		}
	}

	t, err := h.testimonialService.Reject(c.Request.Context(), id, req.Reason)
	if err != nil {
		respondError(c, err)
		return
	}

	response.Success(c, http.StatusOK, t)
}

// Feature godoc
// PUT /api/v1/admin/testimonials/:id/feature
func (h *TestimonialHandler) Feature(c *gin.Context) {
	id, ok := paramID(c, "id")
	if !ok {
		return
	}

	var req model.FeatureTestimonialRequest
	if fields := validator.Bind(c, &req); fields != nil {
		response.FailWithFields(c, http.StatusBadRequest, response.ErrValidation, fields)
		return
	}

	if err := h.testimonialService.SetFeatured(c.Request.Context(), id, req.Featured); err != nil {
		respondError(c, err)
		return
	}

	response.Success(c, http.StatusOK, gin.H{"id": id, "featured": req.Featured})
}

// Delete godoc
// DELETE /api/v1/admin/testimonials/:id
func (h *TestimonialHandler) Delete(c *gin.Context) {
	id, ok := paramID(c, "id")
	if !ok {
		return
	}

	if err := h.testimonialService.Delete(c.Request.Context(), id); err != nil {
		respondError(c, err)
		return
	}

	response.Success(c, http.StatusOK, gin.H{"message": "testimonial deleted"})
}
