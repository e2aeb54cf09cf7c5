package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/saborconflow/studio-backend/internal/model"
	"github.com/saborconflow/studio-backend/internal/response"
	"github.com/saborconflow/studio-backend/internal/service"
	"github.com/saborconflow/studio-backend/internal/validator"
)

// ContactHandler handles the public contact form and its admin inbox.
type ContactHandler struct {
	contactService *service.ContactService
}

func NewContactHandler(contactService *service.ContactService) *ContactHandler {
	return &ContactHandler{contactService: contactService}
}

// Submit godoc
// POST /api/v1/contact
// Stores the message, notifies the studio and sends an auto-reply.
func (h *ContactHandler) Submit(c *gin.Context) {
	var req model.ContactRequest
	if fields := validator.Bind(c, &req); fields != nil {
		response.FailWithFields(c, http.StatusBadRequest, response.ErrValidation, fields)
		return
	}

	sub, err := h.contactService.Submit(c.Request.Context(), req)
	if err != nil {
		respondError(c, err)
		return
	}

	response.Success(c, http.StatusCreated, gin.H{
		"id":      sub.ID,
		"message": "Thanks for reaching out! We will get back to you within 24 hours.",
	})
}

// List godoc
// GET /api/v1/admin/contacts?status=new
func (h *ContactHandler) List(c *gin.Context) {
	page, perPage := pageParams(c)

	items, total, err := h.contactService.List(c.Request.Context(), model.ContactStatus(c.Query("status")), page, perPage)
	if err != nil {
		respondError(c, err)
		return
	}

	response.SuccessWithPagination(c, http.StatusOK, items, response.NewPagination(page, perPage, total))
}

// Get godoc
// GET /api/v1/admin/contacts/:id
func (h *ContactHandler) Get(c *gin.Context) {
	id, ok := paramID(c, "id")
	if !ok {
		return
	}

	sub, err := h.contactService.GetByID(c.Request.Context(), id)
	if err != nil {
		respondError(c, err)
		return
	}

	response.Success(c, http.StatusOK, sub)
}

// UpdateStatus godoc
// PUT /api/v1/admin/contacts/:id/status
func (h *ContactHandler) UpdateStatus(c *gin.Context) {
	id, ok := paramID(c, "id")
	if !ok {
		return
	}

	var req model.UpdateContactRequest
	if fields := validator.Bind(c, &req); fields != nil {
		response.FailWithFields(c, http.StatusBadRequest, response.ErrValidation, fields)
		return
	}

	sub, err := h.contactService.UpdateStatus(c.Request.Context(), id, req)
	if err != nil {
		respondError(c, err)
		return
	}

	response.Success(c, http.StatusOK, sub)
}
