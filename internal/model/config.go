package model

import (
	"errors"
	"fmt"
	"time"
)

// ErrInvalidConfig is returned when a configuration value is out of range
var ErrInvalidConfig = errors.New("invalid config")

// Score policies supported by the aggregator
const (
	ScorePolicyMean  = "mean"  // Mean confidence of all doubts
	ScorePolicyCount = "count" // min(count/10, 1.0)
)

// Config is the complete application configuration
type Config struct {
	Engine      EngineConfig      `yaml:"engine" mapstructure:"engine"`
	Cache       CacheConfig       `yaml:"cache" mapstructure:"cache"`
	Output      OutputConfig      `yaml:"output" mapstructure:"output"`
	Concurrency ConcurrencyConfig `yaml:"concurrency" mapstructure:"concurrency"`
	Log         LogConfig         `yaml:"log" mapstructure:"log"`
}

// EngineConfig controls the recursive analysis
type EngineConfig struct {
	MaxDepth          int    `json:"max_depth" yaml:"max_depth" mapstructure:"max_depth"`                            // Termination guard and fan-out bound
	FanOut            int    `json:"fan_out" yaml:"fan_out" mapstructure:"fan_out"`                                  // Doubts re-analyzed per level
	MaxInputRunes     int    `json:"max_input_runes" yaml:"max_input_runes" mapstructure:"max_input_runes"`          // Input truncation length
	FingerprintPrefix int    `json:"fingerprint_prefix" yaml:"fingerprint_prefix" mapstructure:"fingerprint_prefix"` // Runes hashed for cycle detection
	ScorePolicy       string `json:"score_policy" yaml:"score_policy" mapstructure:"score_policy"`                   // "mean" or "count"
}

// CacheConfig controls memoization of top-level results
type CacheConfig struct {
	Enabled         bool          `yaml:"enabled" mapstructure:"enabled"`
	TTL             time.Duration `yaml:"ttl" mapstructure:"ttl"`
	CleanupInterval time.Duration `yaml:"cleanup_interval" mapstructure:"cleanup_interval"`
}

// OutputConfig controls report rendering
type OutputConfig struct {
	Format  string `yaml:"format" mapstructure:"format"` // text, json, yaml
	Verbose bool   `yaml:"verbose" mapstructure:"verbose"`
	Color   bool   `yaml:"color" mapstructure:"color"`
	Limit   int    `yaml:"limit" mapstructure:"limit"` // Doubts listed per level in text output
}

// ConcurrencyConfig controls the batch worker pool
type ConcurrencyConfig struct {
	Workers int `yaml:"workers" mapstructure:"workers"`
}

// LogConfig controls logging
type LogConfig struct {
	Level string `yaml:"level" mapstructure:"level"` // debug, info, warn, error
}

// DefaultEngineConfig returns the default engine settings
func DefaultEngineConfig() EngineConfig {
	return EngineConfig{
		MaxDepth:          3,
		FanOut:            5,
		MaxInputRunes:     10000,
		FingerprintPrefix: 100,
		ScorePolicy:       ScorePolicyMean,
	}
}

// DefaultConfig returns sensible defaults
func DefaultConfig() *Config {
	return &Config{
		Engine: DefaultEngineConfig(),
		Cache: CacheConfig{
			Enabled:         true,
			TTL:             30 * time.Minute,
			CleanupInterval: 10 * time.Minute,
		},
		Output: OutputConfig{
			Format: "text",
			Color:  true,
			Limit:  5,
		},
		Concurrency: ConcurrencyConfig{
			Workers: 4,
		},
		Log: LogConfig{
			Level: "warn",
		},
	}
}

// Validate checks that engine settings are usable
func (c EngineConfig) Validate() error {
	if c.MaxDepth < 1 {
		return fmt.Errorf("%w: max_depth must be positive, got %d", ErrInvalidConfig, c.MaxDepth)
	}
	if c.FanOut < 0 {
		return fmt.Errorf("%w: fan_out must not be negative, got %d", ErrInvalidConfig, c.FanOut)
	}
	if c.MaxInputRunes < 1 {
		return fmt.Errorf("%w: max_input_runes must be positive, got %d", ErrInvalidConfig, c.MaxInputRunes)
	}
	if c.FingerprintPrefix < 1 {
		return fmt.Errorf("%w: fingerprint_prefix must be positive, got %d", ErrInvalidConfig, c.FingerprintPrefix)
	}
	switch c.ScorePolicy {
	case ScorePolicyMean, ScorePolicyCount:
	default:
		return fmt.Errorf("%w: unknown score_policy %q (supported: mean, count)", ErrInvalidConfig, c.ScorePolicy)
	}
	return nil
}

// Validate checks the complete configuration
func (c *Config) Validate() error {
	if err := c.Engine.Validate(); err != nil {
		return err
	}
	switch c.Output.Format {
	case "text", "json", "yaml":
	default:
		return fmt.Errorf("%w: unknown output format %q (supported: text, json, yaml)", ErrInvalidConfig, c.Output.Format)
	}
	if c.Concurrency.Workers < 1 {
		return fmt.Errorf("%w: workers must be positive, got %d", ErrInvalidConfig, c.Concurrency.Workers)
	}
	if c.Cache.Enabled && c.Cache.TTL <= 0 {
		return fmt.Errorf("%w: cache ttl must be positive when the cache is enabled", ErrInvalidConfig)
	}
	return nil
}
