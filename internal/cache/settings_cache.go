package cache

import (
	"context"
	"sync"
	"time"

	"github.com/cidcomitra/mitra-api/internal/models"
	"github.com/cidcomitra/mitra-api/pkg/logger"
	"github.com/cidcomitra/mitra-api/pkg/metrics"
	gocache "github.com/patrickmn/go-cache"
	"go.uber.org/zap"
)

// SettingsDataSource defines the interface for site settings fetching.
type SettingsDataSource interface {
	GetSettings(ctx context.Context) (*models.SiteSettings, error)
}

const settingsKey = "settings:site"

// SettingsCache keeps the site configuration in memory. Unlike the catalog,
// a stale copy is served while a refresh fails: branding and homepage copy
// going briefly stale beats the whole site losing its chrome.
type SettingsCache struct {
	cache      *gocache.Cache
	dataSource SettingsDataSource
	mu         sync.RWMutex
	last       *models.SiteSettings
	ttl        time.Duration
}

// NewSettingsCache creates a settings cache with the given TTL.
func NewSettingsCache(dataSource SettingsDataSource, ttlSeconds int) *SettingsCache {
	return &SettingsCache{
		cache:      gocache.New(gocache.NoExpiration, cacheCheckPeriod),
		dataSource: dataSource,
		ttl:        time.Duration(ttlSeconds) * time.Second,
	}
}

// Get returns the site settings, refreshing on expiry and falling back to
// the last good copy when the backend is unavailable.
func (sc *SettingsCache) Get(ctx context.Context) (*models.SiteSettings, error) {
	if data, found := sc.cache.Get(settingsKey); found {
		if settings, ok := data.(*models.SiteSettings); ok {
			metrics.CacheHits.WithLabelValues("settings").Inc()
			return settings, nil
		}
		sc.cache.Delete(settingsKey)
	}

	metrics.CacheMisses.WithLabelValues("settings").Inc()

	settings, err := sc.dataSource.GetSettings(ctx)
	if err != nil {
		sc.mu.RLock()
		last := sc.last
		sc.mu.RUnlock()
		if last != nil {
			logger.Warn("Serving stale site settings, refresh failed", zap.Error(err))
			return last, nil
		}
		return nil, err
	}

	sc.cache.Set(settingsKey, settings, sc.ttl)
	sc.mu.Lock()
	sc.last = settings
	sc.mu.Unlock()

	return settings, nil
}

// Clear clears the cache including the stale-fallback copy.
func (sc *SettingsCache) Clear() {
	sc.cache.Flush()
	sc.mu.Lock()
	sc.last = nil
	sc.mu.Unlock()
}
