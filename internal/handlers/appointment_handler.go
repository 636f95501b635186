package handlers

import (
	"net/http"
	"time"

	"github.com/cidcomitra/mitra-api/internal/models"
	"github.com/cidcomitra/mitra-api/internal/upstream"
	"github.com/cidcomitra/mitra-api/internal/validation"
	"github.com/cidcomitra/mitra-api/pkg/logger"
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

type AppointmentHandler struct {
	client *upstream.Client
}

func NewAppointmentHandler(client *upstream.Client) *AppointmentHandler {
	return &AppointmentHandler{client: client}
}

// CreateAppointment validates and forwards a booking. Field rules and the
// future-date rule run first, before any backend call; only a submission
// that passes them triggers the availability query for the slot-membership
// check. A conflict from the backend surfaces as 409 so the client knows to
// re-pick a time rather than retry blindly.
func (h *AppointmentHandler) CreateAppointment(c *gin.Context) {
	var req models.BookingRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		attachError(c, err)
		c.JSON(http.StatusBadRequest, gin.H{
			"success": false,
			"message": "Invalid request",
			"errors":  ParseValidationErrors(err),
		})
		return
	}

	if errs := validation.BookingFields(&req, time.Now()); len(errs) > 0 {
		logger.Debug("Booking rejected by validation",
			zap.Int64("service_id", req.ServiceID),
			zap.Int("error_count", len(errs)))
		c.JSON(http.StatusBadRequest, gin.H{
			"success": false,
			"message": "Validation failed",
			"errors":  fieldErrorList(errs),
		})
		return
	}

	slots, err := h.client.GetAvailableSlots(c.Request.Context(), req.ServiceID, req.AppointmentDate)
	if err != nil {
		respondUpstreamError(c, err)
		return
	}

	if msg := validation.SlotTime(req.AppointmentTime, slots); msg != "" {
		c.JSON(http.StatusBadRequest, gin.H{
			"success": false,
			"message": "Validation failed",
			"errors":  fieldErrorList(map[string]string{"appointment_time": msg}),
		})
		return
	}

	resp, err := h.client.CreateAppointment(c.Request.Context(), &req)
	if err != nil {
		respondUpstreamError(c, err)
		return
	}

	c.JSON(http.StatusOK, resp)
}
