package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/cidcomitra/mitra-api/config"
	"github.com/cidcomitra/mitra-api/internal/cache"
	"github.com/cidcomitra/mitra-api/internal/catalog"
	"github.com/cidcomitra/mitra-api/internal/handlers"
	"github.com/cidcomitra/mitra-api/internal/middleware"
	"github.com/cidcomitra/mitra-api/internal/settings"
	"github.com/cidcomitra/mitra-api/internal/upstream"
	"github.com/cidcomitra/mitra-api/pkg/httpclient"
	"github.com/cidcomitra/mitra-api/pkg/logger"
	"github.com/cidcomitra/mitra-api/pkg/metrics"
	"github.com/cidcomitra/mitra-api/pkg/profiling"
	"github.com/cidcomitra/mitra-api/pkg/tracing"
	"go.opentelemetry.io/contrib/instrumentation/github.com/gin-gonic/gin/otelgin"
	"go.uber.org/zap"
)

// registerPublicRoutes registers the public booking-site API under a group.
func registerPublicRoutes(
	group *gin.RouterGroup,
	generalRateLimiter, submitRateLimiter *middleware.RateLimiter,
	servicesHandler *handlers.ServicesHandler,
	scheduleHandler *handlers.ScheduleHandler,
	slotsHandler *handlers.SlotsHandler,
	appointmentHandler *handlers.AppointmentHandler,
	contactHandler *handlers.ContactHandler,
	settingsHandler *handlers.SettingsHandler,
) {
	group.GET("/services", generalRateLimiter.Middleware(), servicesHandler.ListServices)
	group.GET("/services/:id", generalRateLimiter.Middleware(), servicesHandler.GetService)
	group.GET("/services/:id/schedules", generalRateLimiter.Middleware(), scheduleHandler.GetWeeklySchedule)
	group.GET("/services/:id/available-slots", generalRateLimiter.Middleware(), slotsHandler.GetAvailableSlots)

	group.POST("/appointments", submitRateLimiter.Middleware(), middleware.BodySizeLimitMiddleware(100*1024), appointmentHandler.CreateAppointment)
	group.POST("/contact", submitRateLimiter.Middleware(), middleware.BodySizeLimitMiddleware(100*1024), contactHandler.SubmitContact)

	group.GET("/settings", generalRateLimiter.Middleware(), settingsHandler.GetSettings)
	group.PUT("/settings/preferences", generalRateLimiter.Middleware(), middleware.BodySizeLimitMiddleware(4*1024), settingsHandler.UpdatePreferences)
}

func main() {
	// Load configuration
	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to load configuration: %v\n", err)
		os.Exit(1)
	}

	// Initialize logger
	err = logger.Initialize(logger.Config{
		Level:       cfg.Logging.Level,
		LogDir:      cfg.Logging.Dir,
		Environment: cfg.Server.AppEnv,
	})
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to initialize logger: %v\n", err)
		os.Exit(1)
	}
	defer logger.Sync()

	logger.Info("Starting Mitra API",
		zap.String("version", cfg.Observability.ServiceVersion),
		zap.String("environment", cfg.Server.AppEnv),
	)

	// Initialize distributed tracing
	tracerShutdown, err := tracing.InitTracer(
		cfg.Observability.ServiceName,
		cfg.Observability.ServiceNamespace,
		cfg.Observability.ServiceVersion,
		cfg.Observability.ServiceInstanceID,
		cfg.Server.AppEnv,
		cfg.Observability.ExporterEndpoint,
	)
	if err != nil {
		logger.Fatal("Failed to initialize tracer", zap.Error(err))
	}
	defer func() {
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if shutdownErr := tracerShutdown(ctx); shutdownErr != nil {
			logger.Error("Failed to shutdown tracer", zap.Error(shutdownErr))
		}
	}()

	// Initialize continuous profiling
	profilerStop, err := profiling.InitProfiler(cfg.Profiling, cfg.Observability, cfg.Server.AppEnv)
	if err != nil {
		logger.Fatal("Failed to initialize profiler", zap.Error(err))
	}
	defer profilerStop()

	// Start infrastructure metrics collection
	metrics.RecordInfrastructureMetrics()

	// Initialize the scheduling backend client
	httpClient := httpclient.NewStandardClientWithTimeout(cfg.UpstreamTimeout())
	backend, err := upstream.NewClient(cfg.Upstream, httpClient)
	if err != nil {
		logger.Fatal("Failed to initialize upstream client", zap.Error(err))
	}

	// Initialize caches. The catalog cache is populated synchronously before
	// the container is marked healthy; availability is never cached.
	var serviceCache *cache.ServiceCache
	cacheReadyFunc := func() bool { return true }
	if cfg.Cache.DisableCatalog {
		logger.Warn("Catalog cache is DISABLED - reading from upstream on every request (experimental feature)")
	} else {
		serviceCache = cache.NewServiceCache(backend, cfg.Cache.ServicesTTLSeconds)
		if err := serviceCache.Initialize(context.Background()); err != nil {
			logger.Fatal("Failed to initialize service catalog cache", zap.Error(err))
		}
		cacheReadyFunc = serviceCache.IsReady
	}
	settingsCache := cache.NewSettingsCache(backend, cfg.Cache.SettingsTTLSeconds)

	reader := catalog.NewReader(backend, serviceCache)
	prefs := settings.NewStore(cfg.Site)

	// Initialize handlers
	servicesHandler := handlers.NewServicesHandler(reader, prefs)
	scheduleHandler := handlers.NewScheduleHandler(reader)
	slotsHandler := handlers.NewSlotsHandler(backend)
	appointmentHandler := handlers.NewAppointmentHandler(backend)
	contactHandler := handlers.NewContactHandler(backend)
	settingsHandler := handlers.NewSettingsHandler(settingsCache, prefs)
	healthHandler := handlers.NewHealthHandler(cacheReadyFunc)

	// Set up Gin router
	gin.SetMode(cfg.Server.GinMode)
	router := gin.New()

	// Global middleware
	router.Use(gin.Recovery())
	router.Use(otelgin.Middleware(cfg.Observability.ServiceName))
	router.Use(middleware.ObservabilityMiddleware())
	router.Use(middleware.SecurityHeadersMiddleware())

	// CORS configuration - only allow specific origins
	allowedOrigins := cfg.Server.AllowedOrigins
	if cfg.IsDevelopment() {
		allowedOrigins = append(allowedOrigins, "http://localhost:3000", "http://127.0.0.1:3000")
	}

	router.Use(cors.New(cors.Config{
		AllowOrigins:     allowedOrigins,
		AllowMethods:     []string{"GET", "POST", "PUT", "OPTIONS"},
		AllowHeaders:     []string{"Origin", "Content-Type", "Accept", "traceparent", "tracestate"},
		ExposeHeaders:    []string{"Content-Length"},
		AllowCredentials: false,
		MaxAge:           12 * time.Hour,
	}))

	// Rate limiters: submissions get a much tighter limit than reads
	generalRateLimiter := middleware.NewRateLimiter(100, 200) // 100 req/sec, burst of 200
	defer generalRateLimiter.Stop()
	submitRateLimiter := middleware.NewRateLimiter(5, 10) // 5 req/sec, burst of 10 (prevent spam)
	defer submitRateLimiter.Stop()

	// Utility endpoints (not versioned - operational endpoints)
	api := router.Group("/api")
	api.GET("/healthcheck", generalRateLimiter.Middleware(), healthHandler.Healthcheck)
	api.GET("/metrics", generalRateLimiter.Middleware(), gin.WrapH(promhttp.Handler()))

	// Public API v1 routes
	v1 := router.Group("/api/v1/public")
	registerPublicRoutes(v1, generalRateLimiter, submitRateLimiter,
		servicesHandler, scheduleHandler, slotsHandler,
		appointmentHandler, contactHandler, settingsHandler)

	srv := &http.Server{
		Addr:              "0.0.0.0:" + cfg.Server.Port,
		Handler:           router,
		ReadHeaderTimeout: 15 * time.Second,
		ReadTimeout:       30 * time.Second,
		WriteTimeout:      30 * time.Second,
		IdleTimeout:       60 * time.Second,
		MaxHeaderBytes:    1 << 20,
	}

	// Start server in a goroutine
	go func() {
		logger.Info("Server started", zap.String("port", cfg.Server.Port))
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Fatal("Server failed to start", zap.Error(err))
		}
	}()

	// Wait for interrupt signal to gracefully shutdown the server
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	logger.Info("Shutting down server...")

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := srv.Shutdown(ctx); err != nil {
		logger.Fatal("Server forced to shutdown", zap.Error(err))
	}

	logger.Info("Server exited")
}
