package profiling

import (
	"fmt"
	"strings"
	"time"

	"github.com/cidcomitra/mitra-api/config"
	"github.com/cidcomitra/mitra-api/pkg/logger"
	"github.com/grafana/pyroscope-go"
	"go.uber.org/zap"
)

// sampleTypeMap maps the comma-separated names accepted in configuration to
// pyroscope profile types. "mutex" and "block" each expand to a count and a
// duration profile.
var sampleTypeMap = map[string][]pyroscope.ProfileType{
	"cpu":           {pyroscope.ProfileCPU},
	"alloc_space":   {pyroscope.ProfileAllocSpace},
	"alloc_objects": {pyroscope.ProfileAllocObjects},
	"goroutines":    {pyroscope.ProfileGoroutines},
	"mutex":         {pyroscope.ProfileMutexCount, pyroscope.ProfileMutexDuration},
	"block":         {pyroscope.ProfileBlockCount, pyroscope.ProfileBlockDuration},
}

var allSampleTypes = []pyroscope.ProfileType{
	pyroscope.ProfileCPU,
	pyroscope.ProfileAllocSpace,
	pyroscope.ProfileAllocObjects,
	pyroscope.ProfileGoroutines,
	pyroscope.ProfileMutexCount,
	pyroscope.ProfileMutexDuration,
	pyroscope.ProfileBlockCount,
	pyroscope.ProfileBlockDuration,
}

// InitProfiler starts continuous profiling of the gateway when enabled.
// The returned stop function flushes and shuts the profiler down.
func InitProfiler(cfg config.ProfilingConfig, obs config.ObservabilityConfig, environment string) (func(), error) {
	if !cfg.Enabled {
		logger.Info("Continuous profiling disabled")
		return func() {}, nil
	}

	endpoint := strings.TrimSpace(cfg.Endpoint)
	if endpoint == "" {
		return nil, fmt.Errorf("profiling endpoint is required when profiling is enabled")
	}

	uploadInterval := cfg.UploadIntervalSeconds
	if uploadInterval <= 0 {
		uploadInterval = 15
	}

	types, err := sampleTypes(cfg.SampleTypes)
	if err != nil {
		return nil, err
	}

	appName := applicationName(cfg.AppName, obs, environment)

	profiler, err := pyroscope.Start(pyroscope.Config{
		ApplicationName: appName,
		ServerAddress:   endpoint,
		UploadRate:      time.Duration(uploadInterval) * time.Second,
		ProfileTypes:    types,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to start profiler: %w", err)
	}

	logger.Info("Continuous profiling initialized",
		zap.String("application_name", appName),
		zap.String("endpoint", endpoint),
		zap.String("sample_types", cfg.SampleTypes),
		zap.Int("upload_interval_seconds", uploadInterval),
	)

	return func() {
		if stopErr := profiler.Stop(); stopErr != nil {
			logger.Error("Failed to stop profiler", zap.Error(stopErr))
		}
	}, nil
}

// sampleTypes parses the configured sample type list. An empty value means
// every supported profile type.
func sampleTypes(value string) ([]pyroscope.ProfileType, error) {
	value = strings.TrimSpace(value)
	if value == "" {
		return allSampleTypes, nil
	}

	types := make([]pyroscope.ProfileType, 0, len(allSampleTypes))
	seen := make(map[pyroscope.ProfileType]struct{}, len(allSampleTypes))
	for _, raw := range strings.Split(value, ",") {
		key := strings.ToLower(strings.TrimSpace(raw))
		mapped, ok := sampleTypeMap[key]
		if !ok {
			return nil, fmt.Errorf("unsupported O11Y_PROFILING_SAMPLE_TYPES value: %q", key)
		}
		for _, t := range mapped {
			if _, dup := seen[t]; dup {
				continue
			}
			seen[t] = struct{}{}
			types = append(types, t)
		}
	}

	if len(types) == 0 {
		return allSampleTypes, nil
	}
	return types, nil
}

// applicationName builds the pyroscope application name with the same
// identity labels the tracer reports, so profiles and traces line up.
func applicationName(base string, obs config.ObservabilityConfig, environment string) string {
	base = strings.TrimSpace(base)
	if base == "" {
		base = "mitra-api"
	}

	labels := []string{
		fmt.Sprintf("service_name=%s", obs.ServiceName),
		fmt.Sprintf("namespace=%s", obs.ServiceNamespace),
		fmt.Sprintf("environment=%s", environment),
		fmt.Sprintf("service_version=%s", obs.ServiceVersion),
		fmt.Sprintf("instance=%s", obs.ServiceInstanceID),
	}

	return fmt.Sprintf("%s{%s}", base, strings.Join(labels, ","))
}
