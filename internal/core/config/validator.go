package config

import (
	"fmt"
	"net"

	"github.com/gobwas/glob"
)

var supportedFormats = map[string]bool{
	"auto":  true,
	"fasta": true,
	"fastq": true,
	"text":  true,
}

// Validate checks a fully defaulted config and reports every problem found.
// Load calls it; callers that mutate a config afterwards (CLI flag overrides)
// should call it again.
func Validate(cfg *Config) []error {
	var errs []error
	validators := []func(*Config) error{
		validateVersion,
		validateAnalyzers,
		validateInputs,
		validateOutput,
		validateDatabase,
		validateWatch,
		validateObservability,
	}
	for _, v := range validators {
		if err := v(cfg); err != nil {
			errs = append(errs, err)
		}
	}
	return errs
}

func validateVersion(cfg *Config) error {
	if cfg.Version != 1 {
		return fmt.Errorf("unsupported config version %d; supported version is 1", cfg.Version)
	}
	return nil
}

func validateAnalyzers(cfg *Config) error {
	if cfg.Kmers.Size <= 0 {
		return fmt.Errorf("kmers.size must be positive, got %d", cfg.Kmers.Size)
	}
	if cfg.Overlap.MinOverlap <= 0 {
		return fmt.Errorf("overlap.min_overlap must be positive, got %d", cfg.Overlap.MinOverlap)
	}
	return nil
}

func validateInputs(cfg *Config) error {
	if !supportedFormats[cfg.Inputs.Format] {
		return fmt.Errorf("inputs.format must be one of: auto, fasta, fastq, text; got %q", cfg.Inputs.Format)
	}
	for _, p := range cfg.Inputs.Include {
		if _, err := glob.Compile(p); err != nil {
			return fmt.Errorf("inputs.include pattern %q is invalid: %w", p, err)
		}
	}
	for _, p := range cfg.Inputs.Exclude {
		if _, err := glob.Compile(p); err != nil {
			return fmt.Errorf("inputs.exclude pattern %q is invalid: %w", p, err)
		}
	}
	return nil
}

func validateOutput(cfg *Config) error {
	if cfg.Output.Assembly == "" {
		return fmt.Errorf("output.assembly must not be empty")
	}
	seen := make(map[string]string)
	for key, path := range map[string]string{
		"output.assembly":              cfg.Output.Assembly,
		"output.kmer_distribution":     cfg.Output.KmerDistribution,
		"output.sequence_distribution": cfg.Output.SequenceDistribution,
		"output.overlap_distribution":  cfg.Output.OverlapDistribution,
		"output.layout":                cfg.Output.Layout,
		"output.dot":                   cfg.Output.DOT,
		"output.mermaid":               cfg.Output.Mermaid,
	} {
		if path == "" {
			continue
		}
		if other, ok := seen[path]; ok {
			a, b := key, other
			if b < a {
				a, b = b, a
			}
			return fmt.Errorf("output conflict: %s and %s share the same path %q", a, b, path)
		}
		seen[path] = key
	}
	return nil
}

func validateDatabase(cfg *Config) error {
	if !cfg.DB.Enabled {
		return nil
	}
	if cfg.DB.Path == "" {
		return fmt.Errorf("db.path must not be empty")
	}
	if cfg.DB.Project == "" {
		return fmt.Errorf("db.project must not be empty")
	}
	return nil
}

func validateWatch(cfg *Config) error {
	if cfg.Watch.Debounce < 0 {
		return fmt.Errorf("watch.debounce must not be negative, got %s", cfg.Watch.Debounce)
	}
	return nil
}

func validateObservability(cfg *Config) error {
	if addr := cfg.Observability.MetricsAddress; addr != "" {
		if _, _, err := net.SplitHostPort(addr); err != nil {
			return fmt.Errorf("observability.metrics_address %q is invalid: %w", addr, err)
		}
	}
	if cfg.Observability.ProgressInterval < 0 {
		return fmt.Errorf("observability.progress_interval must not be negative")
	}
	return nil
}
