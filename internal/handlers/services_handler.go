package handlers

import (
	"net/http"
	"strconv"

	"github.com/cidcomitra/mitra-api/internal/catalog"
	"github.com/cidcomitra/mitra-api/internal/models"
	"github.com/cidcomitra/mitra-api/internal/settings"
	"github.com/gin-gonic/gin"
)

type ServicesHandler struct {
	reader *catalog.Reader
	prefs  *settings.Store
}

func NewServicesHandler(reader *catalog.Reader, prefs *settings.Store) *ServicesHandler {
	return &ServicesHandler{reader: reader, prefs: prefs}
}

// localizedService is a service with its text fields resolved to one language.
type localizedService struct {
	ID          int64  `json:"id"`
	Title       string `json:"title"`
	Description string `json:"description"`
	Overview    string `json:"overview,omitempty"`
	Pricing     string `json:"pricing,omitempty"`
	Documents   string `json:"documents,omitempty"`
	Timeline    string `json:"timeline,omitempty"`
	Phone       string `json:"phone,omitempty"`
	WhatsApp    string `json:"whatsapp,omitempty"`
}

func (h *ServicesHandler) resolve(svc *models.Service, lang string) localizedService {
	return localizedService{
		ID:          svc.ID,
		Title:       svc.Title.Resolve(lang),
		Description: svc.Description.Resolve(lang),
		Overview:    svc.Overview.Resolve(lang),
		Pricing:     svc.Pricing.Resolve(lang),
		Documents:   svc.Documents.Resolve(lang),
		Timeline:    svc.Timeline.Resolve(lang),
		Phone:       svc.Phone,
		WhatsApp:    svc.WhatsApp,
	}
}

// language picks the response language: an explicit supported ?lang= wins,
// otherwise the process-wide selection applies.
func (h *ServicesHandler) language(c *gin.Context) string {
	if lang := c.Query("lang"); lang != "" {
		for _, supported := range h.prefs.SupportedLanguages() {
			if lang == supported {
				return lang
			}
		}
	}
	return h.prefs.Language()
}

// ListServices returns the active catalog, text resolved to the request
// language. Raw multilingual maps are available with ?raw=true for clients
// that switch languages without refetching.
func (h *ServicesHandler) ListServices(c *gin.Context) {
	services, err := h.reader.ListPublic(c.Request.Context())
	if err != nil {
		respondUpstreamError(c, err)
		return
	}

	if c.Query("raw") == "true" {
		respondOK(c, services)
		return
	}

	lang := h.language(c)
	out := make([]localizedService, 0, len(services))
	for i := range services {
		out = append(out, h.resolve(&services[i], lang))
	}
	respondOK(c, out)
}

// GetService returns one catalog entry by ID. Inactive services stay
// reachable here so existing bookings can still show their details.
func (h *ServicesHandler) GetService(c *gin.Context) {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil || id <= 0 {
		respondError(c, http.StatusBadRequest, "Invalid service ID", err)
		return
	}

	svc, err := h.reader.GetByID(c.Request.Context(), id)
	if err != nil {
		respondUpstreamError(c, err)
		return
	}

	if c.Query("raw") == "true" {
		respondOK(c, svc)
		return
	}
	respondOK(c, h.resolve(svc, h.language(c)))
}
