// Package config holds the driver configuration: renderer strictness, decode
// cache geometry, logging and the iteration counts of the benchmark modes.
package config

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/sirupsen/logrus"

	"github.com/sarchlab/arm64dis/cache"
)

// CacheConfig is the decode cache geometry.
type CacheConfig struct {
	// Size is the number of cached instructions. Default: 4096.
	Size int `json:"size"`

	// Associativity is the number of ways per set. Default: 4.
	Associativity int `json:"associativity"`
}

// Config holds the driver settings.
type Config struct {
	// StrictOperands makes the renderer panic on an operand class it cannot
	// render instead of reporting an error. Default: false.
	StrictOperands bool `json:"strict_operands"`

	// LogLevel is a logrus level name. Default: "info".
	LogLevel string `json:"log_level"`

	// BaseAddress is the address of the first word given on the command
	// line. Default: 0.
	BaseAddress uint64 `json:"base_address"`

	// Cache configures the decode cache used for ELF images.
	Cache CacheConfig `json:"cache"`

	// SpeedIterations is the number of words decoded by the speed mode.
	// Default: 10000000.
	SpeedIterations uint64 `json:"speed_iterations"`

	// TestIterations is the number of words printed by the test mode.
	// Default: 1000.
	TestIterations uint64 `json:"test_iterations"`

	// Seed seeds the pseudo-random words of the speed and test modes.
	// Default: 0xCAFE.
	Seed int64 `json:"seed"`
}

// DefaultConfig returns a Config with the default values.
func DefaultConfig() *Config {
	return &Config{
		StrictOperands: false,
		LogLevel:       "info",
		BaseAddress:    0,
		Cache: CacheConfig{
			Size:          4096,
			Associativity: 4,
		},
		SpeedIterations: 10_000_000,
		TestIterations:  1000,
		Seed:            0xCAFE,
	}
}

// LoadConfig loads a Config from a JSON file. Fields missing from the file
// keep their default values.
func LoadConfig(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	config := DefaultConfig()
	if err := json.Unmarshal(data, config); err != nil {
		return nil, fmt.Errorf("failed to parse config: %w", err)
	}

	return config, nil
}

// SaveConfig writes a Config to a JSON file.
func (c *Config) SaveConfig(path string) error {
	data, err := json.MarshalIndent(c, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to serialize config: %w", err)
	}

	if err := os.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("failed to write config file: %w", err)
	}

	return nil
}

// Validate checks that the settings are usable.
func (c *Config) Validate() error {
	if _, err := logrus.ParseLevel(c.LogLevel); err != nil {
		return fmt.Errorf("log_level: %w", err)
	}
	if c.Cache.Size <= 0 {
		return fmt.Errorf("cache.size must be > 0")
	}
	if c.Cache.Associativity <= 0 {
		return fmt.Errorf("cache.associativity must be > 0")
	}
	if c.Cache.Size%c.Cache.Associativity != 0 {
		return fmt.Errorf("cache.size must be a multiple of cache.associativity")
	}
	if c.SpeedIterations == 0 {
		return fmt.Errorf("speed_iterations must be > 0")
	}
	if c.TestIterations == 0 {
		return fmt.Errorf("test_iterations must be > 0")
	}
	return nil
}

// Level returns the parsed log level, falling back to info.
func (c *Config) Level() logrus.Level {
	level, err := logrus.ParseLevel(c.LogLevel)
	if err != nil {
		return logrus.InfoLevel
	}
	return level
}

// CacheConfig returns the decode cache configuration.
func (c *Config) CacheConfig() cache.Config {
	return cache.Config{
		Size:          c.Cache.Size,
		Associativity: c.Cache.Associativity,
	}
}

// Clone returns a deep copy of the Config.
func (c *Config) Clone() *Config {
	clone := *c
	return &clone
}
