package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/saborconflow/studio-backend/internal/model"
	"github.com/saborconflow/studio-backend/internal/response"
	"github.com/saborconflow/studio-backend/internal/service"
	"github.com/saborconflow/studio-backend/internal/validator"
)

type RSVPHandler struct {
	rsvpService *service.RSVPService
}

func NewRSVPHandler(rsvpService *service.RSVPService) *RSVPHandler {
	return &RSVPHandler{rsvpService: rsvpService}
}

// Submit godoc
// POST /api/v1/rsvp
// Signs up for exactly one class or Facebook event.
func (h *RSVPHandler) Submit(c *gin.Context) {
	var req model.RSVPRequest
	if fields := validator.Bind(c, &req); fields != nil {
		response.FailWithFields(c, http.StatusBadRequest, response.ErrValidation, fields)
		return
	}

	rsvp, err := h.rsvpService.Submit(c.Request.Context(), req)
	if err != nil {
		respondError(c, err)
		return
	}

	response.Success(c, http.StatusCreated, gin.H{
		"id":      rsvp.ID,
		"message": "You're on the list! Check your email for the details.",
	})
}

// List godoc
// GET /api/v1/admin/rsvps?class_id=&event_id=
func (h *RSVPHandler) List(c *gin.Context) {
	page, perPage := pageParams(c)

	items, total, err := h.rsvpService.List(c.Request.Context(), queryInt(c, "class_id"), queryInt(c, "event_id"), page, perPage)
	if err != nil {
		respondError(c, err)
		return
	}

	response.SuccessWithPagination(c, http.StatusOK, items, response.NewPagination(page, perPage, total))
}
