package main

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"

	"github.com/scriptlab/engine/internal/config"
	"github.com/scriptlab/engine/internal/engine"
)

// parseInputFlags turns repeated "--input key=value" flags into a typed
// inputs map, inferring bool/number/string the way a CLI convenience layer
// should: JSON-looking values parse as JSON, everything else is a string.
func parseInputFlags(raw []string) (map[string]interface{}, error) {
	out := map[string]interface{}{}
	for _, kv := range raw {
		parts := strings.SplitN(kv, "=", 2)
		if len(parts) != 2 {
			return nil, fmt.Errorf("invalid --input %q: expected key=value", kv)
		}
		key, value := parts[0], parts[1]
		out[key] = inferValue(value)
	}
	return out, nil
}

func inferValue(value string) interface{} {
	if b, err := strconv.ParseBool(value); err == nil {
		return b
	}
	if n, err := strconv.ParseInt(value, 10, 64); err == nil {
		return n
	}
	if f, err := strconv.ParseFloat(value, 64); err == nil {
		return f
	}
	var asJSON interface{}
	if strings.HasPrefix(strings.TrimSpace(value), "{") || strings.HasPrefix(strings.TrimSpace(value), "[") {
		if err := json.Unmarshal([]byte(value), &asJSON); err == nil {
			return asJSON
		}
	}
	return value
}

// readScript reads script source from a file path, or from stdin when path
// is "-".
func readScript(path string) (string, error) {
	if path == "-" {
		data, err := io.ReadAll(os.Stdin)
		if err != nil {
			return "", fmt.Errorf("reading script from stdin: %w", err)
		}
		return string(data), nil
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return "", fmt.Errorf("reading script %q: %w", path, err)
	}
	return string(data), nil
}

// engineConfigFrom adapts the loaded file configuration into engine.Config.
func engineConfigFrom(c *config.Config) engine.Config {
	return engine.Config{
		Registry: buildRegistry(c.Registry),
		Limits: engine.LimitsConfig{
			TimeoutMs:          c.Limits.TimeoutMs,
			MaxRecursionDepth:  c.Limits.MaxRecursionDepth,
			MaxImportedScripts: c.Limits.MaxImportedScripts,
		},
		ResourceMonitor: engine.ResourceMonitorConfig{
			MaxMemoryBytes:  uint64(c.ResourceMonitor.MaxMemoryBytes),
			CheckIntervalMs: c.ResourceMonitor.CheckIntervalMs,
		},
		CachePolicy: engine.CachePolicyConfig{
			MaxAgeMs: c.CachePolicy.MaxAgeMs,
			MaxSize:  c.CachePolicy.MaxSize,
		},
	}
}
