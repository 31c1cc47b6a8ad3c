// Package config loads the engine's YAML configuration: execution limits,
// resource monitor settings, cache eviction policy, registry wiring, and
// logging. Environment variables can override individual fields the way the
// teacher's config package lets API keys and service URLs be overridden.
package config

import (
	"fmt"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"

	"github.com/scriptlab/engine/internal/logging"
)

// Config holds all engine configuration.
type Config struct {
	Limits          LimitsConfig          `yaml:"limits"`
	ResourceMonitor ResourceMonitorConfig `yaml:"resource_monitor"`
	CachePolicy     CachePolicyConfig     `yaml:"cache_policy"`
	Registry        RegistryConfig        `yaml:"registry"`
	Logging         logging.Config        `yaml:"logging"`
}

// DefaultConfig returns the configuration with the defaults spec.md §3
// documents for ExecutionLimits, plus sane defaults for the rest.
func DefaultConfig() *Config {
	return &Config{
		Limits: LimitsConfig{
			TimeoutMs:          30000,
			MaxRecursionDepth:  10,
			MaxImportedScripts: 50,
			MaxMemoryBytes:     100 * 1024 * 1024,
		},
		ResourceMonitor: ResourceMonitorConfig{
			MaxMemoryBytes:  100 * 1024 * 1024,
			CheckIntervalMs: 1000,
		},
		CachePolicy: CachePolicyConfig{
			MaxAgeMs: int64(10 * 60 * 1000),
			MaxSize:  500,
		},
		Registry: RegistryConfig{
			Environment: "default",
		},
		Logging: logging.Config{
			DebugMode: false,
			Level:     "info",
		},
	}
}

// Load reads configuration from a YAML file, falling back to defaults if the
// file does not exist (matching the teacher's Load()).
func Load(path string) (*Config, error) {
	cfg := DefaultConfig()

	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			cfg.applyEnvOverrides()
			return cfg, nil
		}
		return nil, fmt.Errorf("failed to read config: %w", err)
	}

	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config: %w", err)
	}

	cfg.applyEnvOverrides()
	return cfg, nil
}

// Save writes configuration to a YAML file, creating parent directories.
func (c *Config) Save(path string) error {
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return fmt.Errorf("failed to create config directory: %w", err)
	}

	data, err := yaml.Marshal(c)
	if err != nil {
		return fmt.Errorf("failed to marshal config: %w", err)
	}
	return os.WriteFile(path, data, 0644)
}

// Validate checks the configuration for internally-inconsistent values.
func (c *Config) Validate() error {
	if c.Limits.TimeoutMs < 0 {
		return fmt.Errorf("limits.timeout_ms must be >= 0")
	}
	if c.Limits.MaxRecursionDepth < 0 {
		return fmt.Errorf("limits.max_recursion_depth must be >= 0")
	}
	if c.Limits.MaxImportedScripts < 0 {
		return fmt.Errorf("limits.max_imported_scripts must be >= 0")
	}
	if c.CachePolicy.MaxAgeMs < 0 {
		return fmt.Errorf("cache_policy.max_age_ms must be >= 0")
	}
	if c.CachePolicy.MaxSize < 0 {
		return fmt.Errorf("cache_policy.max_size must be >= 0")
	}
	return nil
}
