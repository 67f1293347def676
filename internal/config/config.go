package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"gopkg.in/yaml.v3"
)

// Cluster strategies.
const (
	StrategyHalfHour = "halfhour"
	StrategyKMeans   = "kmeans"
)

// Config is the persistent application configuration
type Config struct {
	Cluster   ClusterConfig   `yaml:"cluster"`
	Awards    AwardsConfig    `yaml:"awards"`
	Reconcile ReconcileConfig `yaml:"reconcile"`
	Hosts     HostsConfig     `yaml:"hosts"`
	Cache     CacheConfig     `yaml:"cache"`
	Output    OutputConfig    `yaml:"output"`

	// Workers bounds both preprocessing and cluster fan-out. <= 0 means NumCPU.
	Workers int `yaml:"workers"`
}

// ClusterConfig selects how posts are bucketed in time.
type ClusterConfig struct {
	Strategy string `yaml:"strategy"` // "halfhour" or "kmeans"
	K        int    `yaml:"k"`        // kmeans only
	Timezone string `yaml:"timezone"` // halfhour bucket boundaries
}

// Location resolves the configured timezone, falling back to UTC.
func (c ClusterConfig) Location() *time.Location {
	if c.Timezone == "" {
		return time.UTC
	}
	loc, err := time.LoadLocation(c.Timezone)
	if err != nil {
		return time.UTC
	}
	return loc
}

// AwardsConfig holds award-phrase detection knobs
type AwardsConfig struct {
	MinOccurrences int `yaml:"min_occurrences"` // records below this count are dropped
	MinSpanTokens  int `yaml:"min_span_tokens"`
}

// ReconcileConfig holds fuzzy name merging settings
type ReconcileConfig struct {
	Threshold int `yaml:"threshold"` // 0-100
}

// HostsConfig holds host detection settings
type HostsConfig struct {
	TopK int `yaml:"top_k"`
}

// CacheConfig controls the preprocessed-post cache
type CacheConfig struct {
	Enabled bool   `yaml:"enabled"`
	File    string `yaml:"file"` // relative paths resolve against DataDir
}

// OutputConfig controls result serialization
type OutputConfig struct {
	Path    string `yaml:"path"`    // empty disables the JSON file
	Summary bool   `yaml:"summary"` // print the styled summary to stdout
	Events  bool   `yaml:"events"`  // write the JSONL run-event log next to the text log
}

// DefaultConfig returns sensible defaults
func DefaultConfig() *Config {
	return &Config{
		Cluster: ClusterConfig{
			Strategy: StrategyHalfHour,
			K:        8,
			Timezone: "UTC",
		},
		Awards: AwardsConfig{
			MinOccurrences: 2,
			MinSpanTokens:  4,
		},
		Reconcile: ReconcileConfig{
			Threshold: 90,
		},
		Hosts: HostsConfig{
			TopK: 3,
		},
		Cache: CacheConfig{
			Enabled: true,
			File:    "cache.db",
		},
		Output: OutputConfig{
			Path:    "results.json",
			Summary: true,
			Events:  true,
		},
	}
}

// DataDir returns ~/.ggmine
func DataDir() string {
	home, _ := os.UserHomeDir()
	return filepath.Join(home, ".ggmine")
}

// ConfigPath returns the path to the config file
func ConfigPath() string {
	return filepath.Join(DataDir(), "config.yaml")
}

// LogDir returns the directory for the text and event logs.
func LogDir() string {
	return filepath.Join(DataDir(), "logs")
}

// CachePath resolves the cache file against the data directory.
func (c *Config) CachePath() string {
	if filepath.IsAbs(c.Cache.File) {
		return c.Cache.File
	}
	return filepath.Join(DataDir(), c.Cache.File)
}

// Load reads config from disk, or returns defaults
func Load() (*Config, error) {
	return LoadFrom(ConfigPath())
}

// LoadFrom reads config from path. Keys missing from the file keep their
// default values; a missing file yields the defaults.
func LoadFrom(path string) (*Config, error) {
	cfg := DefaultConfig()

	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return cfg, nil
		}
		return nil, fmt.Errorf("read config: %w", err)
	}

	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("parse config %s: %w", path, err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config %s: %w", path, err)
	}
	return cfg, nil
}

// Save writes config to disk
func (c *Config) Save(path string) error {
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return err
	}

	data, err := yaml.Marshal(c)
	if err != nil {
		return err
	}

	return os.WriteFile(path, data, 0644)
}

// Validate rejects values the pipeline cannot run with.
func (c *Config) Validate() error {
	var errs []error
	switch c.Cluster.Strategy {
	case StrategyHalfHour:
	case StrategyKMeans:
		if c.Cluster.K <= 0 {
			errs = append(errs, fmt.Errorf("cluster.k must be positive, got %d", c.Cluster.K))
		}
	default:
		errs = append(errs, fmt.Errorf("unknown cluster.strategy %q", c.Cluster.Strategy))
	}
	if c.Cluster.Timezone != "" {
		if _, err := time.LoadLocation(c.Cluster.Timezone); err != nil {
			errs = append(errs, fmt.Errorf("cluster.timezone: %w", err))
		}
	}
	if c.Awards.MinOccurrences < 1 {
		errs = append(errs, fmt.Errorf("awards.min_occurrences must be >= 1, got %d", c.Awards.MinOccurrences))
	}
	if c.Awards.MinSpanTokens < 1 {
		errs = append(errs, fmt.Errorf("awards.min_span_tokens must be >= 1, got %d", c.Awards.MinSpanTokens))
	}
	if c.Reconcile.Threshold < 0 || c.Reconcile.Threshold > 100 {
		errs = append(errs, fmt.Errorf("reconcile.threshold must be within 0-100, got %d", c.Reconcile.Threshold))
	}
	if c.Hosts.TopK < 0 {
		errs = append(errs, fmt.Errorf("hosts.top_k must not be negative, got %d", c.Hosts.TopK))
	}
	if c.Cache.Enabled && c.Cache.File == "" {
		errs = append(errs, errors.New("cache.file is required when the cache is enabled"))
	}
	return errors.Join(errs...)
}
