package config

import (
	"log/slog"
	"os"
	"strconv"
	"time"

	"printts/internal/shared/util"
)

// ApplyEnvOverrides applies environment variable overrides to the configuration.
// Pattern: PRINTTS_[SECTION]_[KEY] (e.g., PRINTTS_WATCH_DEBOUNCE). List values
// are comma-separated.
func ApplyEnvOverrides(cfg *Config) {
	// Resolve
	setEnvList(&cfg.Resolve.Extensions, "PRINTTS_RESOLVE_EXTENSIONS")
	setEnvList(&cfg.Resolve.IndexFiles, "PRINTTS_RESOLVE_INDEX_FILES")

	// Walk
	setEnvList(&cfg.Walk.Exclude, "PRINTTS_WALK_EXCLUDE")

	// Watch
	setEnvDuration(&cfg.Watch.Debounce, "PRINTTS_WATCH_DEBOUNCE")
	setEnvFloat64(&cfg.Watch.MaxRunsPerSecond, "PRINTTS_WATCH_MAX_RUNS_PER_SECOND")

	// Observability
	setEnvString(&cfg.Observability.MetricsTextfile, "PRINTTS_OBSERVABILITY_METRICS_TEXTFILE")
	setEnvString(&cfg.Observability.MetricsAddr, "PRINTTS_OBSERVABILITY_METRICS_ADDR")
	setEnvString(&cfg.Observability.OTLPEndpoint, "PRINTTS_OBSERVABILITY_OTLP_ENDPOINT")
}

func setEnvString(target *string, key string) {
	if val, ok := os.LookupEnv(key); ok {
		slog.Debug("applying env override", "key", key, "value", val)
		*target = val
	}
}

func setEnvList(target *[]string, key string) {
	if val, ok := os.LookupEnv(key); ok {
		slog.Debug("applying env override", "key", key, "value", val)
		*target = util.SplitList(val)
	}
}

func setEnvFloat64(target *float64, key string) {
	if val, ok := os.LookupEnv(key); ok {
		if f, err := strconv.ParseFloat(val, 64); err == nil {
			slog.Debug("applying env override", "key", key, "value", val)
			*target = f
		} else {
			slog.Warn("ignoring invalid env override", "key", key, "value", val, "error", err)
		}
	}
}

func setEnvDuration(target *time.Duration, key string) {
	if val, ok := os.LookupEnv(key); ok {
		if d, err := time.ParseDuration(val); err == nil {
			slog.Debug("applying env override", "key", key, "value", val)
			*target = d
		} else {
			slog.Warn("ignoring invalid env override", "key", key, "value", val, "error", err)
		}
	}
}
