package handlers

import (
	"net/http"
	"strconv"
	"time"

	"github.com/cidcomitra/mitra-api/internal/models"
	"github.com/cidcomitra/mitra-api/internal/upstream"
	"github.com/cidcomitra/mitra-api/internal/validation"
	"github.com/gin-gonic/gin"
)

type SlotsHandler struct {
	client *upstream.Client
}

func NewSlotsHandler(client *upstream.Client) *SlotsHandler {
	return &SlotsHandler{client: client}
}

// GetAvailableSlots returns the bookable start times for one service on one
// date. Only the date's syntax is checked here; which slots exist is entirely
// the backend's call, and the answer is never cached. An empty list means a
// fully booked or unscheduled day, not a failure.
func (h *SlotsHandler) GetAvailableSlots(c *gin.Context) {
	serviceID, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil || serviceID <= 0 {
		respondError(c, http.StatusBadRequest, "Invalid service ID", err)
		return
	}

	date := c.Query("date")
	if _, err := time.Parse(validation.DateLayout, date); err != nil {
		respondError(c, http.StatusBadRequest, "Invalid date, expected YYYY-MM-DD", err)
		return
	}

	slots, err := h.client.GetAvailableSlots(c.Request.Context(), serviceID, date)
	if err != nil {
		respondUpstreamError(c, err)
		return
	}
	if slots == nil {
		slots = []models.AvailableSlot{}
	}

	respondOK(c, slots)
}
