package config

import (
	"time"
)

type Config struct {
	Version       int           `toml:"version"`
	Kmers         Kmers         `toml:"kmers"`
	Overlap       Overlap       `toml:"overlap"`
	Inputs        Inputs        `toml:"inputs"`
	Output        Output        `toml:"output"`
	DB            Database      `toml:"db"`
	Watch         Watch         `toml:"watch"`
	Observability Observability `toml:"observability"`
}

type Kmers struct {
	Enabled *bool `toml:"enabled"`
	Size    int   `toml:"size"`
}

type Overlap struct {
	MinOverlap int `toml:"min_overlap"`
}

type Inputs struct {
	Paths   []string `toml:"paths"`
	Format  string   `toml:"format"`  // auto, fasta, fastq or text
	Include []string `toml:"include"` // file name globs used when walking directories
	Exclude []string `toml:"exclude"` // file and directory name globs to skip
}

// Output paths are optional except Assembly; an empty path disables that
// report.
type Output struct {
	Assembly             string `toml:"assembly"`
	KmerDistribution     string `toml:"kmer_distribution"`
	SequenceDistribution string `toml:"sequence_distribution"`
	OverlapDistribution  string `toml:"overlap_distribution"`
	Layout               string `toml:"layout"`
	DOT                  string `toml:"dot"`
	Mermaid              string `toml:"mermaid"`
}

type Database struct {
	Enabled     bool          `toml:"enabled"`
	Path        string        `toml:"path"`
	Project     string        `toml:"project"`
	BusyTimeout time.Duration `toml:"busy_timeout"`
}

type Watch struct {
	Enabled  bool          `toml:"enabled"`
	Debounce time.Duration `toml:"debounce"`
}

type Observability struct {
	MetricsAddress   string        `toml:"metrics_address"`
	OTLPEndpoint     string        `toml:"otlp_endpoint"`
	ServiceName      string        `toml:"service_name"`
	ProgressInterval time.Duration `toml:"progress_interval"`
}

func (k Kmers) IsEnabled() bool {
	if k.Enabled == nil {
		return true
	}
	return *k.Enabled
}

// DefaultConfig returns a config with every default applied, as if an empty
// file had been loaded.
func DefaultConfig() *Config {
	cfg := &Config{}
	applyDefaults(cfg)
	return cfg
}
