package handlers

import (
	"net/http"
	"strconv"

	"github.com/cidcomitra/mitra-api/internal/catalog"
	"github.com/gin-gonic/gin"
)

type ScheduleHandler struct {
	reader *catalog.Reader
}

func NewScheduleHandler(reader *catalog.Reader) *ScheduleHandler {
	return &ScheduleHandler{reader: reader}
}

// GetWeeklySchedule returns a service's active recurring availability
// windows. An empty list is a valid state (service takes no appointments),
// not an error.
func (h *ScheduleHandler) GetWeeklySchedule(c *gin.Context) {
	serviceID, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil || serviceID <= 0 {
		respondError(c, http.StatusBadRequest, "Invalid service ID", err)
		return
	}

	schedules, err := h.reader.GetWeeklySchedule(c.Request.Context(), serviceID)
	if err != nil {
		respondUpstreamError(c, err)
		return
	}

	respondOK(c, schedules)
}
