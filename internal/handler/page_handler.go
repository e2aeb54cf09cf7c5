package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/saborconflow/studio-backend/internal/response"
	"github.com/saborconflow/studio-backend/internal/service"
)

// PageHandler serves the aggregated payloads behind the home and pricing pages.
type PageHandler struct {
	pageService *service.PageService
}

func NewPageHandler(pageService *service.PageService) *PageHandler {
	return &PageHandler{pageService: pageService}
}

// Home godoc
// GET /api/v1/home
// Featured testimonials, upcoming events, featured instructors and rating stats.
func (h *PageHandler) Home(c *gin.Context) {
	page, err := h.pageService.Home(c.Request.Context())
	if err != nil {
		respondError(c, err)
		return
	}

	response.Success(c, http.StatusOK, page)
}

// Pricing godoc
// GET /api/v1/pricing
func (h *PageHandler) Pricing(c *gin.Context) {
	page, err := h.pageService.Pricing(c.Request.Context())
	if err != nil {
		respondError(c, err)
		return
	}

	response.Success(c, http.StatusOK, page)
}
