// Package catalog exposes the public service catalog: active services for
// listings, any service by id, and per-service weekly availability.
package catalog

import (
	"context"

	"github.com/cidcomitra/mitra-api/internal/cache"
	"github.com/cidcomitra/mitra-api/internal/models"
	apperrors "github.com/cidcomitra/mitra-api/pkg/errors"
	"github.com/cidcomitra/mitra-api/pkg/logger"
	"go.uber.org/zap"
)

// Source is the backend surface the reader needs.
type Source interface {
	ListServices(ctx context.Context) ([]models.Service, error)
	GetService(ctx context.Context, id int64) (*models.Service, error)
	GetSchedules(ctx context.Context, serviceID int64) ([]models.WeeklySchedule, error)
}

// Reader reads the catalog, going through the in-memory cache when one is
// configured. Schedules are always read live; they are small and drive the
// booking dialog, where staleness is costlier than a round trip.
type Reader struct {
	source Source
	cache  *cache.ServiceCache
}

// NewReader creates a catalog reader. cache may be nil to read the backend
// on every request.
func NewReader(source Source, serviceCache *cache.ServiceCache) *Reader {
	return &Reader{source: source, cache: serviceCache}
}

// ListPublic returns the services eligible for public display. The inactive
// filter is applied here regardless of what the backend sent: it may or may
// not pre-filter, and we must not assume it does.
func (r *Reader) ListPublic(ctx context.Context) ([]models.Service, error) {
	services, err := r.listAll(ctx)
	if err != nil {
		return nil, err
	}

	public := make([]models.Service, 0, len(services))
	for _, s := range services {
		if s.IsActive {
			public = append(public, s)
		}
	}
	return public, nil
}

// GetByID returns one service by identifier. Inactive services are excluded
// from listings but remain individually fetchable.
func (r *Reader) GetByID(ctx context.Context, id int64) (*models.Service, error) {
	if r.cache != nil && r.cache.IsReady() {
		svc, found, err := r.cache.GetByID(ctx, id)
		if err != nil {
			return nil, err
		}
		if !found {
			return nil, apperrors.NotFoundError("service")
		}
		return svc, nil
	}
	return r.source.GetService(ctx, id)
}

// GetWeeklySchedule returns the active recurring windows for a service. An
// empty result is the valid "schedule not configured" state; callers show
// the contact-us fallback, not an error. Overlapping windows are tolerated
// but logged: downstream slot computation may double-count them.
func (r *Reader) GetWeeklySchedule(ctx context.Context, serviceID int64) ([]models.WeeklySchedule, error) {
	schedules, err := r.source.GetSchedules(ctx, serviceID)
	if err != nil {
		return nil, err
	}

	for i := 0; i < len(schedules); i++ {
		for j := i + 1; j < len(schedules); j++ {
			if schedules[i].Overlaps(schedules[j]) {
				logger.Warn("Overlapping schedule windows",
					zap.Int64("service_id", serviceID),
					zap.String("day", string(schedules[i].DayOfWeek)),
					zap.String("first", schedules[i].StartTime+"-"+schedules[i].EndTime),
					zap.String("second", schedules[j].StartTime+"-"+schedules[j].EndTime))
			}
		}
	}

	return schedules, nil
}

func (r *Reader) listAll(ctx context.Context) ([]models.Service, error) {
	if r.cache != nil && r.cache.IsReady() {
		return r.cache.GetAll(ctx)
	}
	return r.source.ListServices(ctx)
}
