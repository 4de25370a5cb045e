package config

import (
	"log/slog"
	"os"
	"strconv"
	"strings"
	"time"
)

// ApplyEnvOverrides applies environment variable overrides to the configuration.
// Pattern: READSANALYZER_[SECTION]_[KEY] (e.g., READSANALYZER_OVERLAP_MIN_OVERLAP).
func ApplyEnvOverrides(cfg *Config) {
	setEnvInt(&cfg.Kmers.Size, "READSANALYZER_KMERS_SIZE")
	setEnvInt(&cfg.Overlap.MinOverlap, "READSANALYZER_OVERLAP_MIN_OVERLAP")
	setEnvString(&cfg.Inputs.Format, "READSANALYZER_INPUTS_FORMAT")

	setEnvString(&cfg.Output.Assembly, "READSANALYZER_OUTPUT_ASSEMBLY")

	setEnvBool(&cfg.DB.Enabled, "READSANALYZER_DB_ENABLED")
	setEnvString(&cfg.DB.Path, "READSANALYZER_DB_PATH")
	setEnvString(&cfg.DB.Project, "READSANALYZER_DB_PROJECT")

	setEnvBool(&cfg.Watch.Enabled, "READSANALYZER_WATCH_ENABLED")
	setEnvDuration(&cfg.Watch.Debounce, "READSANALYZER_WATCH_DEBOUNCE")

	setEnvString(&cfg.Observability.MetricsAddress, "READSANALYZER_OBSERVABILITY_METRICS_ADDRESS")
	setEnvString(&cfg.Observability.OTLPEndpoint, "READSANALYZER_OBSERVABILITY_OTLP_ENDPOINT")
}

func setEnvString(target *string, key string) {
	if val, ok := os.LookupEnv(key); ok {
		slog.Debug("applying env override", "key", key, "value", val)
		*target = val
	}
}

func setEnvInt(target *int, key string) {
	if val, ok := os.LookupEnv(key); ok {
		if i, err := strconv.Atoi(strings.TrimSpace(val)); err == nil {
			slog.Debug("applying env override", "key", key, "value", val)
			*target = i
		}
	}
}

func setEnvBool(target *bool, key string) {
	if val, ok := os.LookupEnv(key); ok {
		b, err := strconv.ParseBool(strings.ToLower(val))
		if err == nil {
			slog.Debug("applying env override", "key", key, "value", val)
			*target = b
		}
	}
}

func setEnvDuration(target *time.Duration, key string) {
	if val, ok := os.LookupEnv(key); ok {
		if d, err := time.ParseDuration(val); err == nil {
			slog.Debug("applying env override", "key", key, "value", val)
			*target = d
		}
	}
}
