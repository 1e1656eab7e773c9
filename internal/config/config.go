package config

import (
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/bmatcuk/doublestar/v4"

	"github.com/quantmind-br/gitparse-go/internal/domain"
)

// Config represents the application configuration
type Config struct {
	Extraction  ExtractionConfig  `mapstructure:"extraction" yaml:"extraction"`
	Output      OutputConfig      `mapstructure:"output" yaml:"output"`
	Concurrency ConcurrencyConfig `mapstructure:"concurrency" yaml:"concurrency"`
	Cache       CacheConfig       `mapstructure:"cache" yaml:"cache"`
	Logging     LoggingConfig     `mapstructure:"logging" yaml:"logging"`
}

// ExtractionConfig controls repository walking and filtering. It is treated
// as an immutable value once an analyzer has been constructed from it.
// Exclude patterns are evaluated before include patterns; a file matching any
// exclude pattern is always rejected.
type ExtractionConfig struct {
	MaxFileSize     int64    `mapstructure:"max_file_size" yaml:"max_file_size"`
	ExcludePatterns []string `mapstructure:"exclude_patterns" yaml:"exclude_patterns"`
	IncludePatterns []string `mapstructure:"include_patterns" yaml:"include_patterns"`
	TempDir         string   `mapstructure:"temp_dir" yaml:"temp_dir"`
}

// OutputConfig contains result serialization settings
type OutputConfig struct {
	Format string `mapstructure:"format" yaml:"format"` // "json" or "yaml"
	File   string `mapstructure:"file" yaml:"file"`
}

// ConcurrencyConfig contains concurrency settings
type ConcurrencyConfig struct {
	Workers int `mapstructure:"workers" yaml:"workers"`
}

// CacheConfig contains result cache settings
type CacheConfig struct {
	Enabled   bool          `mapstructure:"enabled" yaml:"enabled"`
	TTL       time.Duration `mapstructure:"ttl" yaml:"ttl"`
	Directory string        `mapstructure:"directory" yaml:"directory"`
}

// LoggingConfig contains logging settings
type LoggingConfig struct {
	Level  string `mapstructure:"level" yaml:"level"`
	Format string `mapstructure:"format" yaml:"format"`
}

// DefaultExtraction returns an ExtractionConfig with default limits and no
// explicit patterns (the built-in exclude set applies).
func DefaultExtraction() ExtractionConfig {
	return ExtractionConfig{
		MaxFileSize: DefaultMaxFileSize,
	}
}

// Validate checks the extraction config and fills defaulted values.
func (c *ExtractionConfig) Validate() error {
	if c.MaxFileSize == 0 {
		c.MaxFileSize = DefaultMaxFileSize
	}
	if c.MaxFileSize < 0 {
		return fmt.Errorf("%w: max_file_size must be positive", domain.ErrConfiguration)
	}
	for _, p := range c.ExcludePatterns {
		if !doublestar.ValidatePattern(p) {
			return &domain.PatternError{Pattern: p}
		}
	}
	for _, p := range c.IncludePatterns {
		if !doublestar.ValidatePattern(p) {
			return &domain.PatternError{Pattern: p}
		}
	}
	return nil
}

// Validate validates the configuration and repairs invalid values
func (c *Config) Validate() error {
	if err := c.Extraction.Validate(); err != nil {
		return err
	}
	if c.Concurrency.Workers < 1 {
		c.Concurrency.Workers = DefaultWorkers
	}
	if c.Cache.TTL < time.Minute {
		c.Cache.TTL = DefaultCacheTTL
	}
	switch c.Output.Format {
	case "":
		c.Output.Format = DefaultOutputFormat
	case "json", "yaml":
	default:
		return fmt.Errorf("%w: unsupported output format %q", domain.ErrConfiguration, c.Output.Format)
	}
	return nil
}

// ParseSize parses human-readable sizes like "10MB" into bytes.
func ParseSize(s string) (int64, error) {
	s = strings.ToUpper(strings.TrimSpace(s))
	if s == "" {
		return 0, fmt.Errorf("empty size string")
	}

	var multiplier int64 = 1
	if strings.HasSuffix(s, "GB") {
		multiplier = 1024 * 1024 * 1024
		s = strings.TrimSuffix(s, "GB")
	} else if strings.HasSuffix(s, "MB") {
		multiplier = 1024 * 1024
		s = strings.TrimSuffix(s, "MB")
	} else if strings.HasSuffix(s, "KB") {
		multiplier = 1024
		s = strings.TrimSuffix(s, "KB")
	}

	s = strings.TrimSpace(s)
	if s == "" {
		return 0, fmt.Errorf("no numeric value in size string")
	}

	n, err := strconv.ParseInt(s, 10, 64)
	if err != nil {
		return 0, fmt.Errorf("invalid numeric value: %w", err)
	}

	if n < 0 {
		return 0, fmt.Errorf("negative size not allowed")
	}

	return n * multiplier, nil
}
