// Package upstream is the HTTP client for the scheduling backend that owns
// the service catalog, availability computation and booking storage. This
// service never persists any of that data; it only reads and forwards.
package upstream

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/cidcomitra/mitra-api/config"
	"github.com/cidcomitra/mitra-api/internal/models"
	"github.com/cidcomitra/mitra-api/pkg/circuitbreaker"
	apperrors "github.com/cidcomitra/mitra-api/pkg/errors"
	"github.com/cidcomitra/mitra-api/pkg/httpclient"
	"github.com/cidcomitra/mitra-api/pkg/logger"
	"github.com/cidcomitra/mitra-api/pkg/metrics"
	"github.com/cidcomitra/mitra-api/pkg/retry"
	"github.com/sony/gobreaker"
	"go.uber.org/zap"
)

// Client talks to the scheduling backend with circuit breaker protection.
// Read operations retry transport failures; submissions (appointments,
// contact messages) are sent exactly once - they are not idempotent and a
// lost race for a slot must surface as a conflict, never a hidden resend.
type Client struct {
	baseURL        string
	httpClient     httpclient.Client
	timeout        time.Duration
	retryConfig    retry.Config
	circuitBreaker *gobreaker.CircuitBreaker
}

// NewClient creates a backend client from the upstream configuration.
func NewClient(cfg config.UpstreamConfig, hc httpclient.Client) (*Client, error) {
	if cfg.BaseURL == "" {
		return nil, fmt.Errorf("empty upstream base URL")
	}

	retryConfig := retry.UpstreamConfig()
	retryConfig.MaxRetries = cfg.MaxRetries

	var cb *gobreaker.CircuitBreaker
	if cfg.BreakerEnabled {
		cb = circuitbreaker.NewCircuitBreaker(circuitbreaker.DefaultConfig("scheduling-backend"))
	}

	logger.Info("Upstream client initialized",
		zap.String("base_url", cfg.BaseURL),
		zap.Duration("timeout", time.Duration(cfg.TimeoutSeconds)*time.Second),
		zap.Bool("breaker_enabled", cfg.BreakerEnabled))

	return &Client{
		baseURL:        cfg.BaseURL,
		httpClient:     hc,
		timeout:        time.Duration(cfg.TimeoutSeconds) * time.Second,
		retryConfig:    retryConfig,
		circuitBreaker: cb,
	}, nil
}

// ListServices fetches the full service catalog. The backend may include
// inactive entries; public filtering happens in the catalog reader.
func (c *Client) ListServices(ctx context.Context) ([]models.Service, error) {
	var services []models.Service
	err := c.getWithRetry(ctx, "listServices", "/services", &services)
	if err != nil {
		return nil, err
	}
	return services, nil
}

// GetService fetches one service by identifier, active or not.
func (c *Client) GetService(ctx context.Context, id int64) (*models.Service, error) {
	var service models.Service
	err := c.getWithRetry(ctx, "getService", fmt.Sprintf("/services/%d", id), &service)
	if err != nil {
		return nil, err
	}
	return &service, nil
}

// GetSchedules fetches the weekly recurring availability windows for a
// service, filtered to active entries. An empty result means the schedule
// is not configured yet - a valid state, not an error.
func (c *Client) GetSchedules(ctx context.Context, serviceID int64) ([]models.WeeklySchedule, error) {
	var schedules []models.WeeklySchedule
	err := c.getWithRetry(ctx, "getSchedules", fmt.Sprintf("/services/%d/schedules", serviceID), &schedules)
	if err != nil {
		return nil, err
	}

	active := make([]models.WeeklySchedule, 0, len(schedules))
	for _, s := range schedules {
		if s.IsActive {
			active = append(active, s)
		}
	}
	return active, nil
}

// GetAvailableSlots fetches the open slots for a service on a date. The
// result is a snapshot against bookings existing at query time, not a hold.
// An empty slice is a fully booked or unconfigured day.
func (c *Client) GetAvailableSlots(ctx context.Context, serviceID int64, date string) ([]models.AvailableSlot, error) {
	var slots []models.AvailableSlot
	path := fmt.Sprintf("/services/%d/available-slots?date=%s", serviceID, date)
	err := c.getWithRetry(ctx, "getAvailableSlots", path, &slots)
	if err != nil {
		metrics.SlotQueries.WithLabelValues("error").Inc()
		return nil, err
	}
	metrics.SlotQueries.WithLabelValues("success").Inc()

	// Slots must have distinct start times; a duplicate is backend noise.
	seen := make(map[string]struct{}, len(slots))
	unique := slots[:0]
	for _, s := range slots {
		if _, dup := seen[s.Time]; dup {
			logger.Warn("Duplicate slot time dropped",
				zap.Int64("service_id", serviceID),
				zap.String("date", date),
				zap.String("time", s.Time))
			continue
		}
		seen[s.Time] = struct{}{}
		unique = append(unique, s)
	}
	return unique, nil
}

// GetSettings fetches the site configuration.
func (c *Client) GetSettings(ctx context.Context) (*models.SiteSettings, error) {
	var settings models.SiteSettings
	err := c.getWithRetry(ctx, "getSettings", "/settings", &settings)
	if err != nil {
		return nil, err
	}
	return &settings, nil
}

// CreateAppointment submits a booking request. The backend is the sole
// authority on double-booking; a lost race comes back as ErrConflict.
func (c *Client) CreateAppointment(ctx context.Context, req *models.BookingRequest) (*models.BookingResponse, error) {
	env, err := c.postOnce(ctx, "createAppointment", "/appointments", req)
	if err != nil {
		metrics.AppointmentSubmissions.WithLabelValues("error").Inc()
		return nil, err
	}
	metrics.AppointmentSubmissions.WithLabelValues("success").Inc()
	return &models.BookingResponse{Success: true, Message: env.Message}, nil
}

// SubmitContact submits a general-inquiry message.
func (c *Client) SubmitContact(ctx context.Context, msg *models.ContactMessage) (*models.ContactResponse, error) {
	env, err := c.postOnce(ctx, "submitContact", "/contact", msg)
	if err != nil {
		metrics.ContactFormSubmissions.WithLabelValues("error").Inc()
		return nil, err
	}
	metrics.ContactFormSubmissions.WithLabelValues("success").Inc()
	return &models.ContactResponse{Success: true, Message: env.Message}, nil
}

// getWithRetry runs a GET through the circuit breaker with transport-level
// retries, decoding the envelope's data into out.
func (c *Client) getWithRetry(ctx context.Context, operation, path string, out any) error {
	start := time.Now()

	env, err := c.execute(func() (*models.Envelope, error) {
		return retry.DoWithResult(ctx, c.retryConfig, operation, func() (*models.Envelope, error) {
			// The timeout bounds each attempt, not the whole retry loop.
			reqCtx, cancel := context.WithTimeout(ctx, c.timeout)
			defer cancel()
			return c.roundTrip(reqCtx, operation, http.MethodGet, path, nil)
		})
	})

	duration := metrics.MeasureDuration(start)
	if err != nil {
		metrics.UpstreamRequestDuration.WithLabelValues(operation, "error").Observe(duration)
		metrics.UpstreamRequestTotal.WithLabelValues(operation, "error").Inc()
		logger.LogAPICall("scheduling-backend", operation, "error", duration, zap.Error(err))
		return err
	}

	metrics.UpstreamRequestDuration.WithLabelValues(operation, "success").Observe(duration)
	metrics.UpstreamRequestTotal.WithLabelValues(operation, "success").Inc()
	logger.LogAPICall("scheduling-backend", operation, "success", duration)

	if out == nil || len(env.Data) == 0 {
		return nil
	}
	if err := json.Unmarshal(env.Data, out); err != nil {
		return apperrors.ServerError(operation, fmt.Sprintf("malformed response data: %v", err))
	}
	return nil
}

// postOnce runs a POST through the circuit breaker with no retries.
func (c *Client) postOnce(ctx context.Context, operation, path string, body any) (*models.Envelope, error) {
	start := time.Now()

	env, err := c.execute(func() (*models.Envelope, error) {
		reqCtx, cancel := context.WithTimeout(ctx, c.timeout)
		defer cancel()
		return c.roundTrip(reqCtx, operation, http.MethodPost, path, body)
	})

	duration := metrics.MeasureDuration(start)
	status := "success"
	if err != nil {
		status = "error"
	}
	metrics.UpstreamRequestDuration.WithLabelValues(operation, status).Observe(duration)
	metrics.UpstreamRequestTotal.WithLabelValues(operation, status).Inc()
	logger.LogAPICall("scheduling-backend", operation, status, duration)

	return env, err
}

func (c *Client) execute(fn func() (*models.Envelope, error)) (*models.Envelope, error) {
	if c.circuitBreaker == nil {
		return fn()
	}

	env, err := circuitbreaker.Execute(c.circuitBreaker, fn)
	if err == gobreaker.ErrOpenState || err == gobreaker.ErrTooManyRequests {
		// An open breaker means the backend is unreachable for us right now;
		// callers treat it like any other transport failure and retry later.
		return nil, apperrors.NetworkError("scheduling-backend", circuitbreaker.FormatError(c.circuitBreaker.Name(), err))
	}
	return env, err
}

// roundTrip performs one HTTP exchange and maps the outcome onto the error
// taxonomy: transport failures and timeouts become ErrNetwork, any answered
// failure becomes ErrServer (409 specializing to ErrConflict, 404 to
// ErrNotFound). A decoded envelope with success=false is a failure even
// under HTTP 200.
func (c *Client) roundTrip(ctx context.Context, operation, method, path string, body any) (*models.Envelope, error) {
	var reqBody io.Reader
	if body != nil {
		payload, err := json.Marshal(body)
		if err != nil {
			return nil, fmt.Errorf("marshal %s request: %w", operation, err)
		}
		reqBody = bytes.NewReader(payload)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, reqBody)
	if err != nil {
		return nil, fmt.Errorf("build %s request: %w", operation, err)
	}
	req.Header.Set("Accept", "application/json")
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, apperrors.NetworkError(operation, err)
	}
	defer resp.Body.Close() //nolint:errcheck

	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, apperrors.NetworkError(operation, err)
	}

	var env models.Envelope
	decodeErr := json.Unmarshal(raw, &env)

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		message := ""
		if decodeErr == nil {
			message = env.Message
		}
		switch resp.StatusCode {
		case http.StatusConflict:
			return nil, apperrors.ConflictError(message)
		case http.StatusNotFound:
			return nil, apperrors.NotFoundError(operation)
		default:
			return nil, apperrors.ServerError(operation, fmt.Sprintf("status %d: %s", resp.StatusCode, message))
		}
	}

	if decodeErr != nil {
		return nil, apperrors.ServerError(operation, fmt.Sprintf("malformed envelope: %v", decodeErr))
	}
	if !env.Success {
		return nil, apperrors.ServerError(operation, env.Message)
	}

	return &env, nil
}
