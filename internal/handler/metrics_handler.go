package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/saborconflow/studio-backend/internal/model"
	"github.com/saborconflow/studio-backend/internal/response"
	"github.com/saborconflow/studio-backend/internal/service"
	"github.com/saborconflow/studio-backend/internal/validator"
)

// MetricsHandler accepts Web Vitals beacons from the site.
type MetricsHandler struct {
	metricsService *service.MetricsService
}

func NewMetricsHandler(metricsService *service.MetricsService) *MetricsHandler {
	return &MetricsHandler{metricsService: metricsService}
}

// Collect godoc
// POST /api/v1/metrics
// Queues the samples for the metrics worker and answers 202 without waiting for the database.
func (h *MetricsHandler) Collect(c *gin.Context) {
	var req model.PerformanceMetricRequest
	if fields := validator.Bind(c, &req); fields != nil {
		response.FailWithFields(c, http.StatusBadRequest, response.ErrValidation, fields)
		return
	}

	n, err := h.metricsService.Enqueue(c.Request.Context(), req, c.Request.UserAgent())
	if err != nil {
		respondError(c, err)
		return
	}

	response.Success(c, http.StatusAccepted, gin.H{"queued": n})
}
