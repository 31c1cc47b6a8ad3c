// Package engine implements the planner and executor described in
// spec.md §4.7-§4.9: tree loading, context construction, import tracking,
// and the per-call state machine, plus the convenience façade of §6.
package engine

import (
	"time"

	"github.com/scriptlab/engine/internal/registry"
)

// LimitsConfig carries the overridable fields of ExecutionLimits (spec.md
// §6 "limits?").
type LimitsConfig struct {
	TimeoutMs          int
	MaxRecursionDepth  int
	MaxImportedScripts int
}

// ResourceMonitorConfig carries the resource monitor's overridable fields.
type ResourceMonitorConfig struct {
	MaxMemoryBytes  uint64
	CheckIntervalMs int
}

// CachePolicyConfig carries the cache's overridable eviction policy.
type CachePolicyConfig struct {
	MaxAgeMs int64
	MaxSize  int
}

// Config is the engine construction configuration (spec.md §6 "new
// Engine(sourceOrResolver, config?)").
type Config struct {
	Registry         registry.Registry
	Limits           LimitsConfig
	ResourceMonitor  ResourceMonitorConfig
	CachePolicy      CachePolicyConfig
	ContextProviders map[string]interface{}
}

// DefaultConfig mirrors spec.md §3's ExecutionLimits defaults: 30000ms,
// 10, 50, 100MiB.
func DefaultConfig() Config {
	return Config{
		Limits: LimitsConfig{
			TimeoutMs:          30000,
			MaxRecursionDepth:  10,
			MaxImportedScripts: 50,
		},
		ResourceMonitor: ResourceMonitorConfig{
			MaxMemoryBytes:  100 * 1024 * 1024,
			CheckIntervalMs: 1000,
		},
		CachePolicy: CachePolicyConfig{
			MaxAgeMs: 10 * 60 * 1000,
			MaxSize:  500,
		},
	}
}

func (c CachePolicyConfig) maxAge() time.Duration {
	return time.Duration(c.MaxAgeMs) * time.Millisecond
}
