package handlers

import (
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/cidcomitra/mitra-api/config"
	"github.com/cidcomitra/mitra-api/internal/cache"
	"github.com/cidcomitra/mitra-api/internal/catalog"
	"github.com/cidcomitra/mitra-api/internal/settings"
	"github.com/cidcomitra/mitra-api/internal/upstream"
	"github.com/cidcomitra/mitra-api/internal/validation"
	"github.com/cidcomitra/mitra-api/pkg/httpclient"
	"github.com/cidcomitra/mitra-api/pkg/logger"
)

func init() {
	gin.SetMode(gin.TestMode)
	logger.Initialize(logger.Config{Level: "error", Environment: "test"})
}

func newTestUpstream(t *testing.T, backend http.HandlerFunc) *upstream.Client {
	t.Helper()
	srv := httptest.NewServer(backend)
	t.Cleanup(srv.Close)

	client, err := upstream.NewClient(config.UpstreamConfig{
		BaseURL:        srv.URL,
		TimeoutSeconds: 2,
		MaxRetries:     0,
		BreakerEnabled: false,
	}, httpclient.NewStandardClient())
	require.NoError(t, err)
	return client
}

func testPrefs() *settings.Store {
	return settings.NewStore(config.SiteConfig{
		DefaultLanguage:    "en",
		SupportedLanguages: []string{"en", "mr", "hi"},
		DefaultTheme:       "light",
	})
}

func TestServicesHandler_ResolvesLanguage(t *testing.T) {
	client := newTestUpstream(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/services", r.URL.Path)
		_, _ = w.Write([]byte(`{
			"success": true,
			"data": [
				{"id": 1, "title": {"en": "Plot Transfer", "mr": "भूखंड हस्तांतरण"}, "description": {"en": "Transfer plot ownership"}, "is_active": true},
				{"id": 2, "title": {"en": "Retired"}, "is_active": false}
			]
		}`))
	})

	handler := NewServicesHandler(catalog.NewReader(client, nil), testPrefs())
	router := gin.New()
	router.GET("/services", handler.ListServices)

	// Marathi requested: localized title, inactive entry filtered out.
	w := httptest.NewRecorder()
	router.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/services?lang=mr", nil))
	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), "भूखंड हस्तांतरण")
	assert.NotContains(t, w.Body.String(), "Retired")

	// Marathi has no description: English fallback applies per field.
	assert.Contains(t, w.Body.String(), "Transfer plot ownership")
}

func TestServicesHandler_InvalidID(t *testing.T) {
	handler := NewServicesHandler(catalog.NewReader(newTestUpstream(t, func(w http.ResponseWriter, r *http.Request) {
		t.Error("backend must not be called for a malformed ID")
	}), nil), testPrefs())
	router := gin.New()
	router.GET("/services/:id", handler.GetService)

	w := httptest.NewRecorder()
	router.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/services/abc", nil))
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestSlotsHandler_EmptyDayIsOK(t *testing.T) {
	client := newTestUpstream(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/services/7/available-slots", r.URL.Path)
		assert.Equal(t, "2026-04-01", r.URL.Query().Get("date"))
		_, _ = w.Write([]byte(`{"success": true, "data": []}`))
	})

	handler := NewSlotsHandler(client)
	router := gin.New()
	router.GET("/services/:id/slots", handler.GetAvailableSlots)

	w := httptest.NewRecorder()
	router.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/services/7/slots?date=2026-04-01", nil))
	require.Equal(t, http.StatusOK, w.Code)
	assert.JSONEq(t, `{"success": true, "data": []}`, w.Body.String())
}

func TestSlotsHandler_RejectsBadDate(t *testing.T) {
	handler := NewSlotsHandler(newTestUpstream(t, func(w http.ResponseWriter, r *http.Request) {
		t.Error("backend must not be called for a malformed date")
	}))
	router := gin.New()
	router.GET("/services/:id/slots", handler.GetAvailableSlots)

	w := httptest.NewRecorder()
	router.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/services/7/slots?date=01-04-2026", nil))
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func bookingBody(date, slot string) string {
	return fmt.Sprintf(`{
		"service_id": 42,
		"name": "Jane Doe",
		"email": "jane@example.com",
		"phone": "9876543210",
		"appointment_date": %q,
		"appointment_time": %q
	}`, date, slot)
}

func appointmentRouter(t *testing.T, backend http.HandlerFunc) *gin.Engine {
	t.Helper()
	handler := NewAppointmentHandler(newTestUpstream(t, backend))
	router := gin.New()
	router.POST("/appointments", handler.CreateAppointment)
	return router
}

func TestAppointmentHandler_Success(t *testing.T) {
	tomorrow := time.Now().AddDate(0, 0, 1).Format(validation.DateLayout)
	router := appointmentRouter(t, func(w http.ResponseWriter, r *http.Request) {
		switch {
		case r.Method == http.MethodGet:
			_, _ = w.Write([]byte(`{"success": true, "data": [{"time": "10:00:00"}]}`))
		case r.Method == http.MethodPost:
			assert.Equal(t, "/appointments", r.URL.Path)
			_, _ = w.Write([]byte(`{"success": true, "message": "Appointment booked"}`))
		}
	})

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPost, "/appointments", strings.NewReader(bookingBody(tomorrow, "10:00:00")))
	router.ServeHTTP(w, req)

	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), "Appointment booked")
}

func TestAppointmentHandler_RejectsUnlistedSlot(t *testing.T) {
	tomorrow := time.Now().AddDate(0, 0, 1).Format(validation.DateLayout)
	router := appointmentRouter(t, func(w http.ResponseWriter, r *http.Request) {
		if r.Method == http.MethodPost {
			t.Error("booking must not be forwarded when the slot is not offered")
			return
		}
		_, _ = w.Write([]byte(`{"success": true, "data": [{"time": "10:00:00"}]}`))
	})

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPost, "/appointments", strings.NewReader(bookingBody(tomorrow, "16:00:00")))
	router.ServeHTTP(w, req)

	require.Equal(t, http.StatusBadRequest, w.Code)
	assert.Contains(t, w.Body.String(), "appointment_time")
}

func TestAppointmentHandler_RejectsPastDate(t *testing.T) {
	router := appointmentRouter(t, func(w http.ResponseWriter, r *http.Request) {
		t.Error("a locally invalid booking must not reach the backend at all")
	})

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPost, "/appointments", strings.NewReader(bookingBody("2020-01-01", "10:00:00")))
	router.ServeHTTP(w, req)

	require.Equal(t, http.StatusBadRequest, w.Code)
	assert.Contains(t, w.Body.String(), "appointment_date")
}

func TestAppointmentHandler_FieldErrorsWinOverBackendFailure(t *testing.T) {
	// Even with the availability endpoint down, a submission the local rules
	// reject answers 400 with the field error, never a backend 5xx.
	var upstreamCalled bool
	router := appointmentRouter(t, func(w http.ResponseWriter, r *http.Request) {
		upstreamCalled = true
		http.Error(w, "boom", http.StatusInternalServerError)
	})

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPost, "/appointments", strings.NewReader(bookingBody("2020-01-01", "10:00:00")))
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Contains(t, w.Body.String(), "appointment_date")
	assert.False(t, upstreamCalled)
}

func TestAppointmentHandler_ConflictMapsTo409(t *testing.T) {
	tomorrow := time.Now().AddDate(0, 0, 1).Format(validation.DateLayout)
	router := appointmentRouter(t, func(w http.ResponseWriter, r *http.Request) {
		if r.Method == http.MethodGet {
			_, _ = w.Write([]byte(`{"success": true, "data": [{"time": "10:00:00"}]}`))
			return
		}
		w.WriteHeader(http.StatusConflict)
		_, _ = w.Write([]byte(`{"success": false, "message": "Slot already booked"}`))
	})

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPost, "/appointments", strings.NewReader(bookingBody(tomorrow, "10:00:00")))
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusConflict, w.Code)
}

func TestContactHandler_OptionalPhone(t *testing.T) {
	client := newTestUpstream(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/contact", r.URL.Path)
		_, _ = w.Write([]byte(`{"success": true, "message": "Thank you for reaching out"}`))
	})

	handler := NewContactHandler(client)
	router := gin.New()
	router.POST("/contact", handler.SubmitContact)

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPost, "/contact", strings.NewReader(`{
		"name": "Jane Doe",
		"email": "jane@example.com",
		"message": "Need help with a plot transfer application."
	}`))
	router.ServeHTTP(w, req)

	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), "Thank you")
}

func TestContactHandler_ShortMessageRejected(t *testing.T) {
	handler := NewContactHandler(newTestUpstream(t, func(w http.ResponseWriter, r *http.Request) {
		t.Error("backend must not be called for an invalid inquiry")
	}))
	router := gin.New()
	router.POST("/contact", handler.SubmitContact)

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPost, "/contact", strings.NewReader(`{
		"name": "Jane Doe",
		"email": "jane@example.com",
		"message": "short"
	}`))
	router.ServeHTTP(w, req)

	require.Equal(t, http.StatusBadRequest, w.Code)
	assert.Contains(t, w.Body.String(), "message")
}

func TestSettingsHandler_UpdatePreferences(t *testing.T) {
	client := newTestUpstream(t, func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`{"success": true, "data": {"general": {"site_name": "CIDCO Mitra"}}}`))
	})
	prefs := testPrefs()
	handler := NewSettingsHandler(cache.NewSettingsCache(client, 60), prefs)
	router := gin.New()
	router.GET("/settings", handler.GetSettings)
	router.PUT("/settings/preferences", handler.UpdatePreferences)

	w := httptest.NewRecorder()
	router.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/settings", nil))
	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), "CIDCO Mitra")
	assert.Contains(t, w.Body.String(), `"language":"en"`)

	w = httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPut, "/settings/preferences", strings.NewReader(`{"language": "hi", "theme": "dark"}`))
	router.ServeHTTP(w, req)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "hi", prefs.Language())
	assert.Equal(t, settings.ThemeDark, prefs.Theme())

	w = httptest.NewRecorder()
	req = httptest.NewRequest(http.MethodPut, "/settings/preferences", strings.NewReader(`{"language": "fr"}`))
	router.ServeHTTP(w, req)
	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Equal(t, "hi", prefs.Language())
}

func TestHealthHandler_Healthcheck(t *testing.T) {
	ready := false
	handler := NewHealthHandler(func() bool { return ready })
	router := gin.New()
	router.GET("/healthcheck", handler.Healthcheck)

	w := httptest.NewRecorder()
	router.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/healthcheck", http.NoBody))
	assert.Equal(t, http.StatusServiceUnavailable, w.Code)

	ready = true
	w = httptest.NewRecorder()
	router.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/healthcheck", http.NoBody))
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "no-cache, no-store, max-age=0, must-revalidate", w.Header().Get("Cache-Control"))
}
