package handler

import (
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/saborconflow/studio-backend/internal/response"
	"github.com/saborconflow/studio-backend/internal/service"
)

const maxMetricsWindowDays = 90

// DashboardHandler handles admin dashboard endpoints.
type DashboardHandler struct {
	dashboardService *service.DashboardService
	metricsService   *service.MetricsService
}

// NewDashboardHandler creates a new DashboardHandler.
func NewDashboardHandler(dashboardService *service.DashboardService, metricsService *service.MetricsService) *DashboardHandler {
	return &DashboardHandler{
		dashboardService: dashboardService,
		metricsService:   metricsService,
	}
}

// GetDashboardData godoc
// GET /api/v1/admin/dashboard
// Returns stat cards, testimonial moderation counts and the last week of Web Vitals.
func (h *DashboardHandler) GetDashboardData(c *gin.Context) {
	data, err := h.dashboardService.GetDashboardData(c.Request.Context())
	if err != nil {
		respondError(c, err)
		return
	}

	response.Success(c, http.StatusOK, data)
}

// GetMetricsSummary godoc
// GET /api/v1/admin/metrics?days=7
// Aggregates performance metrics per page and metric name.
func (h *DashboardHandler) GetMetricsSummary(c *gin.Context) {
	days, err := strconv.Atoi(c.DefaultQuery("days", "7"))
	if err != nil || days < 1 || days > maxMetricsWindowDays {
		response.FailWithFields(c, http.StatusBadRequest, response.ErrValidation, map[string]string{
			"days": "days must be between 1 and 90",
		})
		return
	}

	summary, err := h.metricsService.Summary(c.Request.Context(), time.Duration(days)*24*time.Hour)
	if err != nil {
		respondError(c, err)
		return
	}

	response.Success(c, http.StatusOK, gin.H{"days": days, "metrics": summary})
}
