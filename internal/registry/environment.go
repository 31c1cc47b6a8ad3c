package registry

import (
	"context"
	"sync"

	"github.com/scriptlab/engine/internal/enginerr"
)

// Tag selects one of the environment-scoped registries (spec.md §4.5
// "Environment").
type Tag string

const (
	TagDevelopment Tag = "development"
	TagStaging     Tag = "staging"
	TagProduction  Tag = "production"
	TagDefault     Tag = "default"
)

// Environment picks one of {development, staging, production, default}
// from a process environment tag, switchable at runtime.
type Environment struct {
	mu         sync.RWMutex
	tag        Tag
	registries map[Tag]Registry
}

// NewEnvironment constructs an Environment registry starting on initialTag.
func NewEnvironment(initialTag Tag, registries map[Tag]Registry) *Environment {
	return &Environment{tag: initialTag, registries: registries}
}

// SetTag switches the active registry at runtime.
func (e *Environment) SetTag(tag Tag) {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.tag = tag
}

// Tag reports the currently active tag.
func (e *Environment) Tag() Tag {
	e.mu.RLock()
	defer e.mu.RUnlock()
	return e.tag
}

// Resolve implements Registry.
func (e *Environment) Resolve(ctx context.Context, id string) (string, error) {
	e.mu.RLock()
	tag := e.tag
	e.mu.RUnlock()

	r, ok := e.registries[tag]
	if !ok {
		r, ok = e.registries[TagDefault]
		if !ok {
			return "", enginerr.New(enginerr.Registry, "no registry configured for environment %q", tag)
		}
	}
	return r.Resolve(ctx, id)
}
