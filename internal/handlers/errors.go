package handlers

import (
	"net/http"

	apperrors "github.com/cidcomitra/mitra-api/pkg/errors"
	"github.com/gin-gonic/gin"
)

// attachError attaches err to the gin context so the observability middleware
// can include the reason in the request log. c.Error() returns *gin.Error (not
// the error interface), so we suppress errcheck here intentionally.
func attachError(c *gin.Context, err error) {
	if err != nil {
		_ = c.Error(err) //nolint:errcheck
	}
}

// respondError sends an error JSON response in the standard envelope and
// attaches the error to the gin context for the request log.
func respondError(c *gin.Context, status int, message string, err error) {
	attachError(c, err)
	c.JSON(status, gin.H{"success": false, "message": message})
}

// respondOK wraps data in the standard success envelope.
func respondOK(c *gin.Context, data any) {
	c.JSON(http.StatusOK, gin.H{"success": true, "data": data})
}

// respondUpstreamError translates a backend error into the matching HTTP
// status. The gateway mirrors the backend's verdict rather than flattening
// everything to 500.
func respondUpstreamError(c *gin.Context, err error) {
	switch {
	case apperrors.Is(err, apperrors.ErrNotFound):
		respondError(c, http.StatusNotFound, "Resource not found", err)
	case apperrors.Is(err, apperrors.ErrConflict):
		respondError(c, http.StatusConflict, apperrors.Message(err), err)
	case apperrors.Is(err, apperrors.ErrNetwork):
		respondError(c, http.StatusBadGateway, "Scheduling backend is unreachable. Please try again.", err)
	case apperrors.Is(err, apperrors.ErrInvalidInput):
		respondError(c, http.StatusBadRequest, apperrors.Message(err), err)
	default:
		respondError(c, http.StatusInternalServerError, "Internal server error", err)
	}
}
