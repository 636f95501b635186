package config

import (
	"fmt"
	"strings"
	"time"

	"github.com/spf13/viper"
)

// Config holds all application configuration
type Config struct {
	Server        ServerConfig
	Upstream      UpstreamConfig
	Site          SiteConfig
	Cache         CacheConfig
	Logging       LoggingConfig
	Observability ObservabilityConfig
	Profiling     ProfilingConfig
}

type ServerConfig struct {
	Port           string
	GinMode        string
	AppEnv         string
	BaseURL        string
	AllowedOrigins []string
}

// UpstreamConfig describes the scheduling backend this service fronts.
type UpstreamConfig struct {
	BaseURL        string
	TimeoutSeconds int
	MaxRetries     int
	BreakerEnabled bool
}

// SiteConfig carries the site-wide presentation defaults.
type SiteConfig struct {
	DefaultLanguage    string
	SupportedLanguages []string
	DefaultTheme       string
}

type CacheConfig struct {
	ServicesTTLSeconds int
	SettingsTTLSeconds int
	DisableCatalog     bool // Experimental: read from upstream on every request
}

type LoggingConfig struct {
	Level string
	Dir   string
}

type ObservabilityConfig struct {
	ExporterEndpoint  string
	ServiceName       string
	ServiceNamespace  string
	ServiceVersion    string
	ServiceInstanceID string
}

type ProfilingConfig struct {
	Enabled               bool
	Endpoint              string
	AppName               string
	SampleTypes           string
	UploadIntervalSeconds int
}

// Load reads configuration from environment variables
func Load() (*Config, error) {
	v := viper.New()

	// Set defaults
	v.SetDefault("PORT", "8080")
	v.SetDefault("GIN_MODE", "release")
	v.SetDefault("APP_ENV", "production")
	v.SetDefault("BASE_URL", "https://cidcomitra.gov.in")
	v.SetDefault("ALLOWED_CORS_ORIGINS", "https://cidcomitra.gov.in,https://www.cidcomitra.gov.in")
	v.SetDefault("UPSTREAM_TIMEOUT_SECONDS", 10)
	v.SetDefault("UPSTREAM_MAX_RETRIES", 3)
	v.SetDefault("UPSTREAM_BREAKER_ENABLED", true)
	v.SetDefault("DEFAULT_LANGUAGE", "en")
	v.SetDefault("SUPPORTED_LANGUAGES", "en,mr,hi")
	v.SetDefault("DEFAULT_THEME", "light")
	v.SetDefault("SERVICES_CACHE_TTL", 300)
	v.SetDefault("SETTINGS_CACHE_TTL", 600)
	v.SetDefault("DISABLE_CATALOG_CACHE", false)
	v.SetDefault("LOG_LEVEL", "info")
	v.SetDefault("LOG_DIR", "/app/logs")
	v.SetDefault("O11Y_EXPORTER_ENDPOINT", "")
	v.SetDefault("O11Y_SERVICE_NAME", "mitra-api")
	v.SetDefault("O11Y_SERVICE_NAMESPACE", "cidco-mitra")
	v.SetDefault("O11Y_SERVICE_VERSION", "1.0.0")
	v.SetDefault("O11Y_PROFILING_ENABLED", false)
	v.SetDefault("O11Y_PROFILING_APP_NAME", "mitra-api")
	v.SetDefault("O11Y_PROFILING_SAMPLE_TYPES", "cpu,alloc_space,alloc_objects,goroutines,mutex,block")
	v.SetDefault("O11Y_PROFILING_UPLOAD_INTERVAL_SECONDS", 15)

	// Automatically read environment variables
	v.AutomaticEnv()
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))

	// Read from .env file if it exists
	v.SetConfigName(".env")
	v.SetConfigType("env")
	v.AddConfigPath(".")
	v.AddConfigPath("..")
	_ = v.ReadInConfig() //nolint:errcheck // Ignore error if .env file doesn't exist

	cfg := &Config{
		Server: ServerConfig{
			Port:           v.GetString("PORT"),
			GinMode:        v.GetString("GIN_MODE"),
			AppEnv:         v.GetString("APP_ENV"),
			BaseURL:        v.GetString("BASE_URL"),
			AllowedOrigins: splitList(v.GetString("ALLOWED_CORS_ORIGINS")),
		},
		Upstream: UpstreamConfig{
			BaseURL:        v.GetString("UPSTREAM_BASE_URL"),
			TimeoutSeconds: v.GetInt("UPSTREAM_TIMEOUT_SECONDS"),
			MaxRetries:     v.GetInt("UPSTREAM_MAX_RETRIES"),
			BreakerEnabled: v.GetBool("UPSTREAM_BREAKER_ENABLED"),
		},
		Site: SiteConfig{
			DefaultLanguage:    v.GetString("DEFAULT_LANGUAGE"),
			SupportedLanguages: splitList(v.GetString("SUPPORTED_LANGUAGES")),
			DefaultTheme:       v.GetString("DEFAULT_THEME"),
		},
		Cache: CacheConfig{
			ServicesTTLSeconds: v.GetInt("SERVICES_CACHE_TTL"),
			SettingsTTLSeconds: v.GetInt("SETTINGS_CACHE_TTL"),
			DisableCatalog:     v.GetBool("DISABLE_CATALOG_CACHE"),
		},
		Logging: LoggingConfig{
			Level: v.GetString("LOG_LEVEL"),
			Dir:   v.GetString("LOG_DIR"),
		},
		Observability: ObservabilityConfig{
			ExporterEndpoint:  v.GetString("O11Y_EXPORTER_ENDPOINT"),
			ServiceName:       v.GetString("O11Y_SERVICE_NAME"),
			ServiceNamespace:  v.GetString("O11Y_SERVICE_NAMESPACE"),
			ServiceVersion:    v.GetString("O11Y_SERVICE_VERSION"),
			ServiceInstanceID: v.GetString("SERVICE_INSTANCE_ID"),
		},
		Profiling: ProfilingConfig{
			Enabled:               v.GetBool("O11Y_PROFILING_ENABLED"),
			Endpoint:              v.GetString("O11Y_PROFILING_ENDPOINT"),
			AppName:               v.GetString("O11Y_PROFILING_APP_NAME"),
			SampleTypes:           v.GetString("O11Y_PROFILING_SAMPLE_TYPES"),
			UploadIntervalSeconds: v.GetInt("O11Y_PROFILING_UPLOAD_INTERVAL_SECONDS"),
		},
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	return cfg, nil
}

// Validate checks if required configuration values are set
func (c *Config) Validate() error {
	if c.Upstream.BaseURL == "" {
		return fmt.Errorf("UPSTREAM_BASE_URL is required")
	}
	if c.Upstream.TimeoutSeconds <= 0 {
		return fmt.Errorf("UPSTREAM_TIMEOUT_SECONDS must be positive")
	}

	if c.Server.Port == "" {
		return fmt.Errorf("PORT is required")
	}
	if c.Server.BaseURL == "" {
		return fmt.Errorf("BASE_URL is required")
	}
	if len(c.Server.AllowedOrigins) == 0 {
		return fmt.Errorf("ALLOWED_CORS_ORIGINS is required")
	}

	if c.Site.DefaultLanguage == "" {
		return fmt.Errorf("DEFAULT_LANGUAGE is required")
	}
	supported := false
	for _, lang := range c.Site.SupportedLanguages {
		if lang == c.Site.DefaultLanguage {
			supported = true
			break
		}
	}
	if !supported {
		return fmt.Errorf("DEFAULT_LANGUAGE %q is not in SUPPORTED_LANGUAGES", c.Site.DefaultLanguage)
	}

	if c.Profiling.Enabled && c.Profiling.Endpoint == "" {
		return fmt.Errorf("O11Y_PROFILING_ENDPOINT is required when profiling is enabled")
	}

	return nil
}

// UpstreamTimeout returns the request-level timeout for upstream calls.
func (c *Config) UpstreamTimeout() time.Duration {
	return time.Duration(c.Upstream.TimeoutSeconds) * time.Second
}

// IsDevelopment returns true if running in development mode
func (c *Config) IsDevelopment() bool {
	return c.Server.AppEnv == "development" || c.Server.GinMode == "debug"
}

// IsProduction returns true if running in production mode
func (c *Config) IsProduction() bool {
	return c.Server.AppEnv == "production"
}

func splitList(s string) []string {
	out := []string{}
	for _, part := range strings.Split(s, ",") {
		part = strings.TrimSpace(part)
		if part != "" {
			out = append(out, part)
		}
	}
	return out
}
