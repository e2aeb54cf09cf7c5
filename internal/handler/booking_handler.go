package handler

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/saborconflow/studio-backend/internal/model"
	"github.com/saborconflow/studio-backend/internal/response"
	"github.com/saborconflow/studio-backend/internal/service"
	"github.com/saborconflow/studio-backend/internal/validator"
)

// BookingHandler handles class bookings.
type BookingHandler struct {
	bookingService *service.BookingService
}

// NewBookingHandler creates a new BookingHandler.
func NewBookingHandler(bookingService *service.BookingService) *BookingHandler {
	return &BookingHandler{bookingService: bookingService}
}

// Create godoc
// POST /api/v1/bookings
// Records the booking and emails the confirmation.
func (h *BookingHandler) Create(c *gin.Context) {
	var req model.CreateBookingRequest
	if fields := validator.Bind(c, &req); fields != nil {
		response.FailWithFields(c, http.StatusBadRequest, response.ErrValidation, fields)
		return
	}

	booking, err := h.bookingService.Create(c.Request.Context(), req)
	if err != nil {
		respondError(c, err)
		return
	}

	response.Success(c, http.StatusCreated, booking)
}

// Get godoc
// GET /api/v1/bookings/:booking_id
// Feeds the booking success page.
func (h *BookingHandler) Get(c *gin.Context) {
	booking, err := h.bookingService.GetByBookingID(c.Request.Context(), c.Param("booking_id"))
	if err != nil {
		respondError(c, err)
		return
	}

	response.Success(c, http.StatusOK, booking)
}

// List godoc
// GET /api/v1/admin/bookings?status=&from=2006-01-02&to=2006-01-02
func (h *BookingHandler) List(c *gin.Context) {
	page, perPage := pageParams(c)

	filter := model.BookingFilter{Status: model.BookingStatus(c.Query("status"))}
	fields := map[string]string{}
	if from, ok := parseDateQuery(c, "from", fields); ok {
		filter.From = from
	}
	if to, ok := parseDateQuery(c, "to", fields); ok {
		filter.To = to
	}
	if len(fields) > 0 {
		response.FailWithFields(c, http.StatusBadRequest, response.ErrValidation, fields)
		return
	}

	items, total, err := h.bookingService.List(c.Request.Context(), filter, page, perPage)
	if err != nil {
		respondError(c, err)
		return
	}

	response.SuccessWithPagination(c, http.StatusOK, items, response.NewPagination(page, perPage, total))
}

// UpdateStatus godoc
// PUT /api/v1/admin/bookings/:booking_id/status
func (h *BookingHandler) UpdateStatus(c *gin.Context) {
	var req model.UpdateBookingStatusRequest
	if fields := validator.Bind(c, &req); fields != nil {
		response.FailWithFields(c, http.StatusBadRequest, response.ErrValidation, fields)
		return
	}

	booking, err := h.bookingService.UpdateStatus(c.Request.Context(), c.Param("booking_id"), req.Status)
	if err != nil {
		respondError(c, err)
		return
	}

	response.Success(c, http.StatusOK, booking)
}

// SendReminders godoc
// POST /api/v1/admin/bookings/reminders?date=2006-01-02
// Sends reminders for the given day, tomorrow by default.
func (h *BookingHandler) SendReminders(c *gin.Context) {
	day := service.Tomorrow()
	fields := map[string]string{}
	if d, ok := parseDateQuery(c, "date", fields); ok {
		day = *d
	}
	if len(fields) > 0 {
		response.FailWithFields(c, http.StatusBadRequest, response.ErrValidation, fields)
		return
	}

	result, err := h.bookingService.SendReminders(c.Request.Context(), day)
	if err != nil {
		respondError(c, err)
		return
	}

	response.Success(c, http.StatusOK, result)
}

// parseDateQuery reads an optional YYYY-MM-DD query value in the studio time zone.
// Parse failures are recorded in fields.
func parseDateQuery(c *gin.Context, key string, fields map[string]string) (*time.Time, bool) {
	raw := c.Query(key)
	if raw == "" {
		return nil, false
	}
	t, err := time.ParseInLocation(validator.DateLayout, raw, validator.Location())
	if err != nil {
		fields[key] = key + " must be a date in YYYY-MM-DD format"
		return nil, false
	}
	return &t, true
}
