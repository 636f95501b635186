package handlers

import (
	"net/http"

	"github.com/cidcomitra/mitra-api/internal/models"
	"github.com/cidcomitra/mitra-api/internal/upstream"
	"github.com/cidcomitra/mitra-api/internal/validation"
	"github.com/gin-gonic/gin"
)

type ContactHandler struct {
	client *upstream.Client
}

func NewContactHandler(client *upstream.Client) *ContactHandler {
	return &ContactHandler{client: client}
}

// SubmitContact validates and forwards a general inquiry. Same field rules
// as the booking form except phone is optional and the message body is
// required.
func (h *ContactHandler) SubmitContact(c *gin.Context) {
	var msg models.ContactMessage
	if err := c.ShouldBindJSON(&msg); err != nil {
		attachError(c, err)
		c.JSON(http.StatusBadRequest, gin.H{
			"success": false,
			"message": "Invalid request",
			"errors":  ParseValidationErrors(err),
		})
		return
	}

	if errs := validation.ContactMessage(&msg); len(errs) > 0 {
		c.JSON(http.StatusBadRequest, gin.H{
			"success": false,
			"message": "Validation failed",
			"errors":  fieldErrorList(errs),
		})
		return
	}

	resp, err := h.client.SubmitContact(c.Request.Context(), &msg)
	if err != nil {
		respondUpstreamError(c, err)
		return
	}

	c.JSON(http.StatusOK, resp)
}
