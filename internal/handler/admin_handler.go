package handler

import (
	"context"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/saborconflow/studio-backend/internal/model"
	"github.com/saborconflow/studio-backend/internal/response"
	"github.com/saborconflow/studio-backend/internal/service"
)

// AdminHandler handles admin operations that are not tied to one content type:
// integration syncs, database maintenance and the weekly summary.
type AdminHandler struct {
	eventService       *service.EventService
	galleryService     *service.GalleryService
	testimonialService *service.TestimonialService
	playlistService    *service.PlaylistService
	maintenanceService *service.MaintenanceService
	summaryService     *service.SummaryService
}

// NewAdminHandler creates a new AdminHandler.
func NewAdminHandler(
	eventService *service.EventService,
	galleryService *service.GalleryService,
	testimonialService *service.TestimonialService,
	playlistService *service.PlaylistService,
	maintenanceService *service.MaintenanceService,
	summaryService *service.SummaryService,
) *AdminHandler {
	return &AdminHandler{
		eventService:       eventService,
		galleryService:     galleryService,
		testimonialService: testimonialService,
		playlistService:    playlistService,
		maintenanceService: maintenanceService,
		summaryService:     summaryService,
	}
}

// SyncFacebook godoc
// POST /api/v1/admin/sync/facebook
func (h *AdminHandler) SyncFacebook(c *gin.Context) {
	h.runSync(c, h.eventService.Sync)
}

// SyncInstagram godoc
// POST /api/v1/admin/sync/instagram
func (h *AdminHandler) SyncInstagram(c *gin.Context) {
	h.runSync(c, h.galleryService.RefreshInstagram)
}

// SyncGoogleReviews godoc
// POST /api/v1/admin/sync/google
// Imports Google reviews as approved testimonials.
func (h *AdminHandler) SyncGoogleReviews(c *gin.Context) {
	h.runSync(c, h.testimonialService.ImportGoogleReviews)
}

// SyncSpotify godoc
// POST /api/v1/admin/sync/spotify
// Refreshes cover art and track counts of stored playlists.
func (h *AdminHandler) SyncSpotify(c *gin.Context) {
	h.runSync(c, h.playlistService.Refresh)
}

func (h *AdminHandler) runSync(c *gin.Context, sync func(context.Context) (*model.SyncResult, error)) {
	result, err := sync(c.Request.Context())
	if err != nil {
		respondError(c, err)
		return
	}
	response.Success(c, http.StatusOK, result)
}

// OptimizeDatabase godoc
// POST /api/v1/admin/maintenance/optimize
// Prunes old metrics, refreshes planner statistics and reports table sizes.
func (h *AdminHandler) OptimizeDatabase(c *gin.Context) {
	report, err := h.maintenanceService.Optimize(c.Request.Context())
	if err != nil {
		respondError(c, err)
		return
	}

	response.Success(c, http.StatusOK, report)
}

// PreviewWeeklySummary godoc
// GET /api/v1/admin/summary/weekly
// Returns the numbers the next weekly summary email would carry.
func (h *AdminHandler) PreviewWeeklySummary(c *gin.Context) {
	summary, err := h.summaryService.Build(c.Request.Context(), time.Now())
	if err != nil {
		respondError(c, err)
		return
	}

	response.Success(c, http.StatusOK, summary)
}

// SendWeeklySummary godoc
// POST /api/v1/admin/summary/weekly
func (h *AdminHandler) SendWeeklySummary(c *gin.Context) {
	summary, err := h.summaryService.Send(c.Request.Context(), time.Now())
	if err != nil {
		respondError(c, err)
		return
	}

	response.Success(c, http.StatusOK, summary)
}
