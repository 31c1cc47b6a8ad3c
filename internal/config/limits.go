package config

// LimitsConfig configures ExecutionLimits (spec.md §4.3).
type LimitsConfig struct {
	TimeoutMs          int   `yaml:"timeout_ms" json:"timeout_ms"`
	MaxRecursionDepth  int   `yaml:"max_recursion_depth" json:"max_recursion_depth"`
	MaxImportedScripts int   `yaml:"max_imported_scripts" json:"max_imported_scripts"`
	MaxMemoryBytes     int64 `yaml:"max_memory_bytes" json:"max_memory_bytes"`
}

// ResourceMonitorConfig configures the heap sampler (spec.md §4.4).
type ResourceMonitorConfig struct {
	MaxMemoryBytes  int64 `yaml:"max_memory_bytes" json:"max_memory_bytes"`
	CheckIntervalMs int   `yaml:"check_interval_ms" json:"check_interval_ms"`
}

// CachePolicyConfig configures script cache eviction (spec.md §4.6).
type CachePolicyConfig struct {
	MaxAgeMs int64 `yaml:"max_age_ms" json:"max_age_ms"`
	MaxSize  int   `yaml:"max_size" json:"max_size"`
}

// RegistryConfig configures the script registry composition (spec.md §4.5).
type RegistryConfig struct {
	FilesystemRoot  string `yaml:"filesystem_root" json:"filesystem_root,omitempty"`
	HTTPBaseURL     string `yaml:"http_base_url" json:"http_base_url,omitempty"`
	HostedBaseURL   string `yaml:"hosted_base_url" json:"hosted_base_url,omitempty"`
	HostedToken     string `yaml:"-" json:"-"` // secrets never serialize; set via env only
	Environment     string `yaml:"environment" json:"environment,omitempty"`
	CacheTTLMs      int64  `yaml:"cache_ttl_ms" json:"cache_ttl_ms"`
	WatchFilesystem bool   `yaml:"watch_filesystem" json:"watch_filesystem"`
}
