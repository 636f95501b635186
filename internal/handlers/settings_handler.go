package handlers

import (
	"net/http"

	"github.com/cidcomitra/mitra-api/internal/cache"
	"github.com/cidcomitra/mitra-api/internal/settings"
	"github.com/gin-gonic/gin"
)

type SettingsHandler struct {
	cache *cache.SettingsCache
	prefs *settings.Store
}

func NewSettingsHandler(settingsCache *cache.SettingsCache, prefs *settings.Store) *SettingsHandler {
	return &SettingsHandler{cache: settingsCache, prefs: prefs}
}

// GetSettings returns the site-wide content settings along with the active
// presentation preferences.
func (h *SettingsHandler) GetSettings(c *gin.Context) {
	site, err := h.cache.Get(c.Request.Context())
	if err != nil {
		respondUpstreamError(c, err)
		return
	}

	respondOK(c, gin.H{
		"site":                site,
		"language":            h.prefs.Language(),
		"supported_languages": h.prefs.SupportedLanguages(),
		"theme":               h.prefs.Theme(),
	})
}

type preferencesRequest struct {
	Language string `json:"language"`
	Theme    string `json:"theme"`
}

// UpdatePreferences switches the process-wide language and/or theme. Either
// field may be omitted; an unknown value rejects the whole request before
// anything is applied.
func (h *SettingsHandler) UpdatePreferences(c *gin.Context) {
	var req preferencesRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		attachError(c, err)
		c.JSON(http.StatusBadRequest, gin.H{"success": false, "message": "Invalid request"})
		return
	}

	if req.Theme != "" && settings.Theme(req.Theme) != settings.ThemeLight && settings.Theme(req.Theme) != settings.ThemeDark {
		respondError(c, http.StatusBadRequest, "Unsupported theme", nil)
		return
	}
	if req.Language != "" {
		if err := h.prefs.SetLanguage(req.Language); err != nil {
			respondError(c, http.StatusBadRequest, "Unsupported language", err)
			return
		}
	}
	if req.Theme != "" {
		_ = h.prefs.SetTheme(settings.Theme(req.Theme))
	}

	respondOK(c, gin.H{
		"language": h.prefs.Language(),
		"theme":    h.prefs.Theme(),
	})
}
