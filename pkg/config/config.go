package config

import (
	"fmt"
	"os"
	"path/filepath"
	"time"

	"gopkg.in/yaml.v3"
)

// BaseURL is the NCBI E-utilities endpoint root.
const BaseURL = "https://eutils.ncbi.nlm.nih.gov/entrez/eutils/"

// NCBI allows 3 requests/second without an API key and 10/second with one.
// The defaults stay under both limits on purpose.
const (
	DefaultInterval = 500 * time.Millisecond
	APIKeyInterval  = 150 * time.Millisecond
)

const (
	DefaultMaxRetries = 3
	DefaultTimeout    = 30 * time.Second
	CacheDBName       = "ncbi_cache.db"
	DefaultCacheAge   = 30 * 24 * time.Hour
)

// UserAgent identifies the client to NCBI (they ask for descriptive agents).
const UserAgent = "ncbi-api-client/0.1.0 (Research; xarnyc@protonmail.com)"

// Config holds all client configuration.
type Config struct {
	Email        string        `yaml:"email"`
	APIKey       string        `yaml:"api_key"`
	BaseURL      string        `yaml:"base_url"`
	RateInterval time.Duration `yaml:"rate_interval"`
	MaxRetries   int           `yaml:"max_retries"`
	Timeout      time.Duration `yaml:"timeout"`
	Cache        CacheConfig   `yaml:"cache"`
}

// CacheConfig controls the on-disk response cache.
type CacheConfig struct {
	Enabled  bool          `yaml:"enabled"`
	Dir      string        `yaml:"dir"`
	Filename string        `yaml:"filename"`
	MaxAge   time.Duration `yaml:"max_age"`
}

// DBPath returns the full path of the cache database file.
func (c CacheConfig) DBPath() string {
	return filepath.Join(c.Dir, c.Filename)
}

// Default returns a Config with sensible defaults.
func Default() *Config {
	home, err := os.UserHomeDir()
	if err != nil {
		home = "."
	}
	return &Config{
		BaseURL:    BaseURL,
		MaxRetries: DefaultMaxRetries,
		Timeout:    DefaultTimeout,
		Cache: CacheConfig{
			Enabled:  true,
			Dir:      filepath.Join(home, ".ncbi_cache"),
			Filename: CacheDBName,
			MaxAge:   DefaultCacheAge,
		},
	}
}

// Load reads a YAML config file and expands environment variables.
// An empty path returns the defaults.
func Load(path string) (*Config, error) {
	cfg := Default()
	if path == "" {
		return cfg, nil
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read config: %w", err)
	}

	expanded := os.ExpandEnv(string(data))

	if err := yaml.Unmarshal([]byte(expanded), cfg); err != nil {
		return nil, fmt.Errorf("parse config: %w", err)
	}

	return cfg, nil
}
