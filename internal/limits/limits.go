// Package limits encapsulates the two guard mechanisms described in
// spec.md §4.3: a timed-execution wrapper and counter guards for
// recursion depth and import count.
package limits

import (
	"context"
	"sync"

	"github.com/scriptlab/engine/internal/enginerr"
)

// ExecutionLimits mirrors the engine's configured bounds. Immutable in
// normal operation; UpdateLimits allows bulk updates for tests and tooling
// (spec.md §4.3 "Limits are immutable after construction ... may be
// bulk-updated via updateLimits(partial)").
type ExecutionLimits struct {
	mu                 sync.RWMutex
	timeoutMs          int
	maxRecursionDepth  int
	maxImportedScripts int
}

// Partial carries optional overrides for UpdateLimits; a nil field leaves
// the corresponding limit unchanged.
type Partial struct {
	TimeoutMs          *int
	MaxRecursionDepth  *int
	MaxImportedScripts *int
}

// New constructs an ExecutionLimits with the given bounds.
func New(timeoutMs, maxRecursionDepth, maxImportedScripts int) *ExecutionLimits {
	return &ExecutionLimits{
		timeoutMs:          timeoutMs,
		maxRecursionDepth:  maxRecursionDepth,
		maxImportedScripts: maxImportedScripts,
	}
}

// UpdateLimits bulk-applies the given partial over the current limits.
func (l *ExecutionLimits) UpdateLimits(p Partial) {
	l.mu.Lock()
	defer l.mu.Unlock()
	if p.TimeoutMs != nil {
		l.timeoutMs = *p.TimeoutMs
	}
	if p.MaxRecursionDepth != nil {
		l.maxRecursionDepth = *p.MaxRecursionDepth
	}
	if p.MaxImportedScripts != nil {
		l.maxImportedScripts = *p.MaxImportedScripts
	}
}

// TimeoutMs returns the currently configured timeout.
func (l *ExecutionLimits) TimeoutMs() int {
	l.mu.RLock()
	defer l.mu.RUnlock()
	return l.timeoutMs
}

// MaxRecursionDepth returns the currently configured recursion bound.
func (l *ExecutionLimits) MaxRecursionDepth() int {
	l.mu.RLock()
	defer l.mu.RUnlock()
	return l.maxRecursionDepth
}

// MaxImportedScripts returns the currently configured import-count bound.
func (l *ExecutionLimits) MaxImportedScripts() int {
	l.mu.RLock()
	defer l.mu.RUnlock()
	return l.maxImportedScripts
}

// CheckRecursion fails when depth >= the configured max (spec.md §4.3).
func (l *ExecutionLimits) CheckRecursion(depth int) error {
	max := l.MaxRecursionDepth()
	if depth >= max {
		return enginerr.New(enginerr.Resource, "Recursion depth limit exceeded: depth %d >= max %d", depth, max)
	}
	return nil
}

// CheckImports fails when count >= the configured max (spec.md §4.3).
func (l *ExecutionLimits) CheckImports(count int) error {
	max := l.MaxImportedScripts()
	if count >= max {
		return enginerr.New(enginerr.Resource, "Import limit exceeded: count %d >= max %d", count, max)
	}
	return nil
}

// ExecuteWithTimeout runs producer concurrently with a timer of bound ms;
// the first to settle wins. A bound of 0 always fails (spec.md §4.3,
// §8 invariant 5, boundary case "timeout = 0"). The producer continues
// running after a timeout fires (its eventual result is discarded, per
// spec.md §5 "Cancellation and timeouts"), so callers must still honour
// ctx cancellation within producer themselves to stop doing unneeded work.
func ExecuteWithTimeout(ctx context.Context, boundMs int, producer func(ctx context.Context) (map[string]interface{}, error)) (map[string]interface{}, error) {
	if boundMs <= 0 {
		return nil, enginerr.New(enginerr.Resource, "Script execution timeout after %dms", boundMs)
	}

	runCtx, cancel := context.WithTimeout(ctx, msToDuration(boundMs))
	defer cancel()

	type outcome struct {
		result map[string]interface{}
		err    error
	}
	done := make(chan outcome, 1)

	go func() {
		result, err := producer(runCtx)
		done <- outcome{result: result, err: err}
	}()

	select {
	case o := <-done:
		return o.result, o.err
	case <-runCtx.Done():
		return nil, enginerr.New(enginerr.Resource, "Script execution timeout after %dms", boundMs)
	}
}
