package main

import (
	"time"

	"github.com/scriptlab/engine/internal/config"
	"github.com/scriptlab/engine/internal/registry"
)

// buildRegistry composes a registry.Registry from the loaded configuration,
// preferring a filesystem root and an HTTP base URL where both are set
// (first-success composite), falling back to whichever one is configured.
func buildRegistry(rc config.RegistryConfig) registry.Registry {
	var children []registry.Registry

	if rc.FilesystemRoot != "" {
		fsReg := registry.NewFilesystem(rc.FilesystemRoot)
		if rc.WatchFilesystem {
			_ = fsReg.Watch(func(id string) {})
		}
		children = append(children, fsReg)
	}
	if rc.HTTPBaseURL != "" {
		httpReg := registry.NewHTTP(rc.HTTPBaseURL)
		httpReg.Token = rc.HostedToken
		children = append(children, httpReg)
	}
	if rc.HostedBaseURL != "" {
		children = append(children, registry.NewHosted(rc.HostedBaseURL, rc.HostedToken))
	}

	var base registry.Registry
	switch len(children) {
	case 0:
		return nil
	case 1:
		base = children[0]
	default:
		base = registry.NewComposite(children...)
	}

	if rc.CacheTTLMs > 0 {
		return registry.NewCached(base, time.Duration(rc.CacheTTLMs)*time.Millisecond)
	}
	return base
}
