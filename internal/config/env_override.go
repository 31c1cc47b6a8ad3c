package config

import (
	"os"
	"strconv"
)

// applyEnvOverrides applies environment variable overrides, matching the
// teacher's env_override_test.go precedence conventions: an override only
// takes effect if the variable is set and parses cleanly.
func (c *Config) applyEnvOverrides() {
	if v := os.Getenv("SCRIPTENGINE_TIMEOUT_MS"); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			c.Limits.TimeoutMs = n
		}
	}
	if v := os.Getenv("SCRIPTENGINE_MAX_RECURSION_DEPTH"); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			c.Limits.MaxRecursionDepth = n
		}
	}
	if v := os.Getenv("SCRIPTENGINE_MAX_IMPORTED_SCRIPTS"); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			c.Limits.MaxImportedScripts = n
		}
	}
	if v := os.Getenv("SCRIPTENGINE_MAX_MEMORY_BYTES"); v != "" {
		if n, err := strconv.ParseInt(v, 10, 64); err == nil {
			c.Limits.MaxMemoryBytes = n
			c.ResourceMonitor.MaxMemoryBytes = n
		}
	}
	if v := os.Getenv("SCRIPTENGINE_REGISTRY_ROOT"); v != "" {
		c.Registry.FilesystemRoot = v
	}
	if v := os.Getenv("SCRIPTENGINE_REGISTRY_BASE_URL"); v != "" {
		c.Registry.HTTPBaseURL = v
	}
	if v := os.Getenv("SCRIPTENGINE_REGISTRY_TOKEN"); v != "" {
		c.Registry.HostedToken = v
	}
	if v := os.Getenv("SCRIPTENGINE_ENV"); v != "" {
		c.Registry.Environment = v
	}
	if v := os.Getenv("SCRIPTENGINE_DEBUG"); v != "" {
		if b, err := strconv.ParseBool(v); err == nil {
			c.Logging.DebugMode = b
		}
	}
}
