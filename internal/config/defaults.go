package config

import (
	"os"
	"path/filepath"
	"time"
)

// Default values
const (
	// Extraction defaults
	DefaultMaxFileSize = 10 * 1024 * 1024 // 10MB

	// Concurrency defaults
	DefaultWorkers = 4

	// Cache defaults
	DefaultCacheEnabled = false
	DefaultCacheTTL     = 24 * time.Hour

	// Output defaults
	DefaultOutputFormat = "json"

	// Logging defaults
	DefaultLogLevel  = "info"
	DefaultLogFormat = "pretty"
)

// ConfigDir returns the config directory path
func ConfigDir() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return ".gitparse"
	}
	return filepath.Join(home, ".gitparse")
}

// CacheDir returns the cache directory path
func CacheDir() string {
	return filepath.Join(ConfigDir(), "cache")
}

// Default returns the default configuration
func Default() *Config {
	return &Config{
		Extraction: DefaultExtraction(),
		Output: OutputConfig{
			Format: DefaultOutputFormat,
		},
		Concurrency: ConcurrencyConfig{
			Workers: DefaultWorkers,
		},
		Cache: CacheConfig{
			Enabled:   DefaultCacheEnabled,
			TTL:       DefaultCacheTTL,
			Directory: CacheDir(),
		},
		Logging: LoggingConfig{
			Level:  DefaultLogLevel,
			Format: DefaultLogFormat,
		},
	}
}
