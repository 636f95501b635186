package cache

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/cidcomitra/mitra-api/internal/models"
	"github.com/cidcomitra/mitra-api/pkg/logger"
	"github.com/cidcomitra/mitra-api/pkg/metrics"
	gocache "github.com/patrickmn/go-cache"
	"go.uber.org/zap"
)

// CatalogDataSource defines the interface for service catalog fetching.
type CatalogDataSource interface {
	ListServices(ctx context.Context) ([]models.Service, error)
}

const (
	allServicesKey   = "services:all"
	cacheCheckPeriod = 10 * time.Second
)

// ServiceCache keeps the service catalog in memory so catalog pages never
// wait on the scheduling backend. Availability data is deliberately NOT
// cached: slot snapshots must reflect bookings at query time.
type ServiceCache struct {
	cache      *gocache.Cache
	dataSource CatalogDataSource
	mu         sync.RWMutex
	refreshing bool
	ready      bool
	ttl        time.Duration
}

// NewServiceCache creates a catalog cache with the given TTL.
func NewServiceCache(dataSource CatalogDataSource, ttlSeconds int) *ServiceCache {
	return &ServiceCache{
		cache:      gocache.New(gocache.NoExpiration, cacheCheckPeriod),
		dataSource: dataSource,
		ttl:        time.Duration(ttlSeconds) * time.Second,
	}
}

// Initialize performs initial cache population (synchronous, blocks until
// ready). Should be called during startup before accepting requests.
func (sc *ServiceCache) Initialize(ctx context.Context) error {
	logger.Info("Initializing service catalog cache...")
	start := time.Now()

	if err := sc.refresh(ctx); err != nil {
		logger.Error("Failed to initialize service catalog cache", zap.Error(err))
		return err
	}

	sc.mu.Lock()
	sc.ready = true
	sc.mu.Unlock()

	logger.Info("Service catalog cache initialized",
		zap.Duration("duration", time.Since(start)))

	go sc.schedulePeriodicRefresh()

	return nil
}

// IsReady returns true if the cache has been successfully initialized
func (sc *ServiceCache) IsReady() bool {
	sc.mu.RLock()
	defer sc.mu.RUnlock()
	return sc.ready
}

// GetAll returns the cached catalog. On expiry it falls through to the
// backend synchronously; the caller still gets a definitive answer or error,
// never a silently empty catalog.
func (sc *ServiceCache) GetAll(ctx context.Context) ([]models.Service, error) {
	if !sc.IsReady() {
		return nil, fmt.Errorf("service cache not initialized")
	}

	if data, found := sc.cache.Get(allServicesKey); found {
		if services, ok := data.([]models.Service); ok {
			metrics.CacheHits.WithLabelValues("services").Inc()
			metrics.ServiceCatalogViews.WithLabelValues("cache").Inc()
			return services, nil
		}
		logger.Error("Invalid cache data type for service catalog")
		sc.cache.Delete(allServicesKey)
	}

	metrics.CacheMisses.WithLabelValues("services").Inc()
	metrics.ServiceCatalogViews.WithLabelValues("upstream").Inc()

	if err := sc.refresh(ctx); err != nil {
		return nil, err
	}

	data, found := sc.cache.Get(allServicesKey)
	if !found {
		return nil, fmt.Errorf("service cache refresh did not populate catalog")
	}
	return data.([]models.Service), nil
}

// GetByID returns one cached service by identifier, active or not.
func (sc *ServiceCache) GetByID(ctx context.Context, id int64) (*models.Service, bool, error) {
	services, err := sc.GetAll(ctx)
	if err != nil {
		return nil, false, err
	}
	for i := range services {
		if services[i].ID == id {
			return &services[i], true, nil
		}
	}
	return nil, false, nil
}

// ForceRefresh triggers a background refresh and returns immediately.
func (sc *ServiceCache) ForceRefresh() {
	go func() {
		sc.mu.Lock()
		if sc.refreshing {
			sc.mu.Unlock()
			logger.Debug("Catalog refresh already in progress, skipping")
			return
		}
		sc.refreshing = true
		sc.mu.Unlock()

		defer func() {
			sc.mu.Lock()
			sc.refreshing = false
			sc.mu.Unlock()
		}()

		if err := sc.refresh(context.Background()); err != nil {
			logger.Error("Background catalog refresh failed", zap.Error(err))
		}
	}()
}

// schedulePeriodicRefresh runs background refresh at TTL intervals so the
// entry rarely expires under a live request.
func (sc *ServiceCache) schedulePeriodicRefresh() {
	ticker := time.NewTicker(sc.ttl)
	defer ticker.Stop()

	for range ticker.C {
		sc.ForceRefresh()
	}
}

func (sc *ServiceCache) refresh(ctx context.Context) error {
	services, err := sc.dataSource.ListServices(ctx)
	if err != nil {
		return err
	}

	sc.cache.Set(allServicesKey, services, sc.ttl)
	metrics.CacheSize.WithLabelValues("services").Set(float64(len(services)))

	logger.Info("Service catalog cache populated", zap.Int("count", len(services)))
	return nil
}

// Clear clears the entire cache
func (sc *ServiceCache) Clear() {
	sc.cache.Flush()
	logger.Info("Service catalog cache cleared")
}
