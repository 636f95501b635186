package upstream_test

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/cidcomitra/mitra-api/config"
	"github.com/cidcomitra/mitra-api/internal/models"
	"github.com/cidcomitra/mitra-api/internal/upstream"
	apperrors "github.com/cidcomitra/mitra-api/pkg/errors"
	"github.com/cidcomitra/mitra-api/pkg/httpclient"
	"github.com/cidcomitra/mitra-api/pkg/logger"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func init() {
	// Initialize logger for tests
	if err := logger.Initialize(logger.Config{
		Level:       "debug",
		Environment: "development",
	}); err != nil {
		panic(err)
	}
}

func newTestClient(t *testing.T, baseURL string) *upstream.Client {
	t.Helper()
	client, err := upstream.NewClient(config.UpstreamConfig{
		BaseURL:        baseURL,
		TimeoutSeconds: 2,
		MaxRetries:     0, // keep failure tests to a single attempt
		BreakerEnabled: false,
	}, httpclient.NewStandardClient())
	require.NoError(t, err)
	return client
}

func TestListServices(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/services", r.URL.Path)
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{
			"success": true,
			"data": [
				{"id": 1, "title": {"en": "Plot Transfer", "mr": "भूखंड हस्तांतरण"}, "is_active": true},
				{"id": 2, "title": {"en": "Water Connection"}, "is_active": false}
			]
		}`))
	}))
	defer srv.Close()

	client := newTestClient(t, srv.URL)
	services, err := client.ListServices(context.Background())
	require.NoError(t, err)
	require.Len(t, services, 2)
	assert.Equal(t, int64(1), services[0].ID)
	assert.Equal(t, "Plot Transfer", services[0].Title.Resolve("en"))
	assert.False(t, services[1].IsActive, "backend pre-filtering is not assumed")
}

func TestGetSchedules_FiltersInactive(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/services/7/schedules", r.URL.Path)
		_, _ = w.Write([]byte(`{
			"success": true,
			"data": [
				{"id": 1, "service_id": 7, "day_of_week": "monday", "start_time": "09:00:00", "end_time": "12:00:00", "is_active": true},
				{"id": 2, "service_id": 7, "day_of_week": "tuesday", "start_time": "09:00:00", "end_time": "12:00:00", "is_active": false}
			]
		}`))
	}))
	defer srv.Close()

	client := newTestClient(t, srv.URL)
	schedules, err := client.GetSchedules(context.Background(), 7)
	require.NoError(t, err)
	require.Len(t, schedules, 1)
	assert.Equal(t, models.Monday, schedules[0].DayOfWeek)
}

func TestGetAvailableSlots_EmptyIsNotAnError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/services/7/available-slots", r.URL.Path)
		assert.Equal(t, "2025-03-11", r.URL.Query().Get("date"))
		_, _ = w.Write([]byte(`{"success": true, "data": []}`))
	}))
	defer srv.Close()

	client := newTestClient(t, srv.URL)
	slots, err := client.GetAvailableSlots(context.Background(), 7, "2025-03-11")
	require.NoError(t, err, "a fully booked day is a valid state")
	assert.Empty(t, slots)
}

func TestGetAvailableSlots_DropsDuplicateTimes(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`{
			"success": true,
			"data": [{"time": "10:00:00"}, {"time": "10:30:00"}, {"time": "10:00:00"}]
		}`))
	}))
	defer srv.Close()

	client := newTestClient(t, srv.URL)
	slots, err := client.GetAvailableSlots(context.Background(), 7, "2025-03-11")
	require.NoError(t, err)
	require.Len(t, slots, 2)
	assert.Equal(t, "10:00:00", slots[0].Time)
	assert.Equal(t, "10:30:00", slots[1].Time)
}

func TestGetAvailableSlots_ServerFailure(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "boom", http.StatusInternalServerError)
	}))
	defer srv.Close()

	client := newTestClient(t, srv.URL)
	_, err := client.GetAvailableSlots(context.Background(), 7, "2025-03-11")
	require.Error(t, err)
	assert.True(t, apperrors.Is(err, apperrors.ErrServer))
	assert.False(t, apperrors.Is(err, apperrors.ErrNetwork))
}

func TestGetAvailableSlots_TransportFailure(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
	srv.Close() // connection refused from here on

	client := newTestClient(t, srv.URL)
	_, err := client.GetAvailableSlots(context.Background(), 7, "2025-03-11")
	require.Error(t, err)
	assert.True(t, apperrors.Is(err, apperrors.ErrNetwork))
}

func TestEnvelopeFailureUnderHTTP200(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`{"success": false, "message": "maintenance window"}`))
	}))
	defer srv.Close()

	client := newTestClient(t, srv.URL)
	_, err := client.ListServices(context.Background())
	require.Error(t, err)
	assert.True(t, apperrors.Is(err, apperrors.ErrServer))
	assert.Contains(t, err.Error(), "maintenance window")
}

func TestCreateAppointment_Success(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPost, r.Method)
		assert.Equal(t, "/appointments", r.URL.Path)
		assert.Equal(t, "application/json", r.Header.Get("Content-Type"))
		_, _ = w.Write([]byte(`{"success": true, "message": "Appointment booked"}`))
	}))
	defer srv.Close()

	client := newTestClient(t, srv.URL)
	resp, err := client.CreateAppointment(context.Background(), &models.BookingRequest{
		ServiceID:       42,
		Name:            "Jane Doe",
		Email:           "jane@example.com",
		Phone:           "9876543210",
		AppointmentDate: "2025-03-11",
		AppointmentTime: "10:00:00",
	})
	require.NoError(t, err)
	assert.True(t, resp.Success)
	assert.Equal(t, "Appointment booked", resp.Message)
}

func TestCreateAppointment_Conflict(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusConflict)
		_, _ = w.Write([]byte(`{"success": false, "message": "This slot is no longer available"}`))
	}))
	defer srv.Close()

	client := newTestClient(t, srv.URL)
	_, err := client.CreateAppointment(context.Background(), &models.BookingRequest{ServiceID: 42})
	require.Error(t, err)
	assert.True(t, apperrors.Is(err, apperrors.ErrConflict))
	assert.Contains(t, err.Error(), "no longer available")
}

func TestGetService_NotFound(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNotFound)
		_, _ = w.Write([]byte(`{"success": false, "message": "service not found"}`))
	}))
	defer srv.Close()

	client := newTestClient(t, srv.URL)
	_, err := client.GetService(context.Background(), 999)
	require.Error(t, err)
	assert.True(t, apperrors.Is(err, apperrors.ErrNotFound))
}

func TestSubmitContact_Success(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/contact", r.URL.Path)
		_, _ = w.Write([]byte(`{"success": true, "message": "Thank you for reaching out"}`))
	}))
	defer srv.Close()

	client := newTestClient(t, srv.URL)
	resp, err := client.SubmitContact(context.Background(), &models.ContactMessage{
		Name:    "Jane Doe",
		Email:   "jane@example.com",
		Message: "I need help with my plot transfer.",
	})
	require.NoError(t, err)
	assert.True(t, resp.Success)
}
