package config

import (
	"errors"
	"os"
	"strings"
	"time"

	"github.com/BurntSushi/toml"
)

const (
	DefaultKmerSize     = 21
	DefaultMinOverlap   = 10
	DefaultAssemblyPath = "out/assembly_out.txt"
)

func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}

	var cfg Config
	if _, err := toml.Decode(string(data), &cfg); err != nil {
		return nil, err
	}

	applyDefaults(&cfg)
	ApplyEnvOverrides(&cfg)
	normalize(&cfg)

	if errs := Validate(&cfg); len(errs) > 0 {
		return nil, errors.Join(errs...)
	}
	return &cfg, nil
}

func applyDefaults(cfg *Config) {
	if cfg.Version == 0 {
		cfg.Version = 1
	}

	if cfg.Kmers.Size == 0 {
		cfg.Kmers.Size = DefaultKmerSize
	}
	if cfg.Overlap.MinOverlap == 0 {
		cfg.Overlap.MinOverlap = DefaultMinOverlap
	}

	if strings.TrimSpace(cfg.Inputs.Format) == "" {
		cfg.Inputs.Format = "auto"
	}

	if strings.TrimSpace(cfg.Output.Assembly) == "" {
		cfg.Output.Assembly = DefaultAssemblyPath
	}

	if strings.TrimSpace(cfg.DB.Path) == "" {
		cfg.DB.Path = "data/readsanalyzer.db"
	}
	if strings.TrimSpace(cfg.DB.Project) == "" {
		cfg.DB.Project = "default"
	}
	if cfg.DB.BusyTimeout <= 0 {
		cfg.DB.BusyTimeout = 5 * time.Second
	}

	// Default debounce if not set.
	if cfg.Watch.Debounce == 0 {
		cfg.Watch.Debounce = 500 * time.Millisecond
	}

	if strings.TrimSpace(cfg.Observability.ServiceName) == "" {
		cfg.Observability.ServiceName = "readsanalyzer"
	}
	if cfg.Observability.ProgressInterval == 0 {
		cfg.Observability.ProgressInterval = 2 * time.Second
	}
}

func normalize(cfg *Config) {
	cfg.Inputs.Format = strings.ToLower(strings.TrimSpace(cfg.Inputs.Format))
	cfg.Inputs.Paths = trimAll(cfg.Inputs.Paths)
	cfg.Inputs.Include = trimAll(cfg.Inputs.Include)
	cfg.Inputs.Exclude = trimAll(cfg.Inputs.Exclude)

	cfg.Output.Assembly = strings.TrimSpace(cfg.Output.Assembly)
	cfg.Output.KmerDistribution = strings.TrimSpace(cfg.Output.KmerDistribution)
	cfg.Output.SequenceDistribution = strings.TrimSpace(cfg.Output.SequenceDistribution)
	cfg.Output.OverlapDistribution = strings.TrimSpace(cfg.Output.OverlapDistribution)
	cfg.Output.Layout = strings.TrimSpace(cfg.Output.Layout)
	cfg.Output.DOT = strings.TrimSpace(cfg.Output.DOT)
	cfg.Output.Mermaid = strings.TrimSpace(cfg.Output.Mermaid)

	cfg.DB.Path = strings.TrimSpace(cfg.DB.Path)
	cfg.DB.Project = strings.TrimSpace(cfg.DB.Project)
	cfg.Observability.MetricsAddress = strings.TrimSpace(cfg.Observability.MetricsAddress)
	cfg.Observability.OTLPEndpoint = strings.TrimSpace(cfg.Observability.OTLPEndpoint)
}

func trimAll(values []string) []string {
	if len(values) == 0 {
		return values
	}
	out := make([]string, 0, len(values))
	for _, v := range values {
		v = strings.TrimSpace(v)
		if v == "" {
			continue
		}
		out = append(out, v)
	}
	return out
}
