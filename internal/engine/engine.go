package engine

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/dop251/goja"

	"github.com/scriptlab/engine/internal/cache"
	"github.com/scriptlab/engine/internal/jsruntime"
	"github.com/scriptlab/engine/internal/limits"
	"github.com/scriptlab/engine/internal/logging"
	"github.com/scriptlab/engine/internal/monitor"
	"github.com/scriptlab/engine/internal/params"
)

// SourceResolver resolves the main script's source text asynchronously, the
// callback form of engine construction (spec.md §6 "new
// Engine(sourceOrResolver, config?)").
type SourceResolver func(ctx context.Context) (string, error)

// Engine is a single script-execution engine instance: one cache, one set
// of limits, one monitor factory, confined to whichever goroutine drives it
// (spec.md §5 "callers may run multiple engine instances concurrently,
// each with its own cache and monitor").
type Engine struct {
	literalSource  string
	resolver       SourceResolver
	cfg            Config
	cache          *cache.Cache
	execLimits     *limits.ExecutionLimits

	mu             sync.RWMutex
	initErr        error
	initDone       chan struct{}
	mainID         string
	io             *params.IOSchema
	deps           []string
	mainSourceText string
}

// New constructs an Engine from literal source text and kicks off
// initialisation in the background (spec.md §2 "Construction triggers an
// asynchronous initialization").
func New(source string, cfg Config) *Engine {
	return newEngine(source, nil, cfg)
}

// NewWithResolver constructs an Engine whose main source is produced by a
// callback, re-invoked on every reload() (spec.md §4.7 "Hot reload").
func NewWithResolver(resolver SourceResolver, cfg Config) *Engine {
	return newEngine("", resolver, cfg)
}

func newEngine(source string, resolver SourceResolver, cfg Config) *Engine {
	e := &Engine{
		literalSource: source,
		resolver:      resolver,
		cfg:           cfg,
		cache:         cache.New(cfg.CachePolicy.maxAge(), cfg.CachePolicy.MaxSize),
		execLimits: limits.New(
			cfg.Limits.TimeoutMs,
			cfg.Limits.MaxRecursionDepth,
			cfg.Limits.MaxImportedScripts,
		),
		initDone: make(chan struct{}),
	}

	go func() {
		err := e.initialise(context.Background())
		e.mu.Lock()
		e.initErr = err
		e.mu.Unlock()
		close(e.initDone)
	}()

	return e
}

// WaitForInitialization blocks until initialisation completes or ctx is
// cancelled, returning the initialisation error, if any.
func (e *Engine) WaitForInitialization(ctx context.Context) error {
	select {
	case <-e.initDone:
		e.mu.RLock()
		defer e.mu.RUnlock()
		return e.initErr
	case <-ctx.Done():
		return ctx.Err()
	}
}

// GetIO returns the main script's IO schema. Valid only after successful
// initialisation.
func (e *Engine) GetIO() *params.IOSchema {
	e.mu.RLock()
	defer e.mu.RUnlock()
	return e.io
}

// GetDependencies returns the main script's declared dependency ids.
func (e *Engine) GetDependencies() []string {
	e.mu.RLock()
	defer e.mu.RUnlock()
	out := make([]string, len(e.deps))
	copy(out, e.deps)
	return out
}

// SetCachePolicy updates the cache's eviction policy at runtime (spec.md
// §6 "setCachePolicy(partial)").
func (e *Engine) SetCachePolicy(maxAgeMs int64, maxSize int) {
	e.cache.SetPolicy(time.Duration(maxAgeMs)*time.Millisecond, maxSize)
}

// GetCacheStats reports the underlying cache's stats.
func (e *Engine) GetCacheStats() cache.Stats {
	return e.cache.Stats()
}

// InvalidateScript evicts id from the cache unconditionally.
func (e *Engine) InvalidateScript(id string) {
	e.cache.Invalidate(id)
}

// InvalidateIfChanged recomputes id's content hash against text and evicts
// on mismatch.
func (e *Engine) InvalidateIfChanged(id, text string) bool {
	return e.cache.InvalidateIfContentChanged(id, text)
}

// ClearCache empties the cache.
func (e *Engine) ClearCache() {
	e.cache.Clear()
}

// Reload clears the cache, resets initialisation state, and re-runs
// initialise with the current resolver callback (spec.md §4.7
// "reload()").
func (e *Engine) Reload(ctx context.Context) error {
	e.cache.Clear()
	e.mu.Lock()
	e.initDone = make(chan struct{})
	e.mu.Unlock()

	err := e.initialise(ctx)
	e.mu.Lock()
	e.initErr = err
	done := e.initDone
	e.mu.Unlock()
	close(done)
	return err
}

// Dispose releases the engine's resources: clears the cache. There is no
// always-on monitor at the engine level (one is created per call), so
// disposal here is limited to cache state (spec.md §6 "dispose()").
func (e *Engine) Dispose() {
	e.cache.Clear()
}

// Call runs the engine's configured entry against inputs, the single
// invocation path of spec.md §4.8.
func (e *Engine) Call(ctx context.Context, inputs map[string]interface{}) (map[string]interface{}, error) {
	if err := e.WaitForInitialization(ctx); err != nil {
		return nil, fmt.Errorf("initialisation failed: %w", err)
	}

	e.mu.RLock()
	io := e.io
	sourceText := e.mainSourceText
	e.mu.RUnlock()

	validated, err := validateAgainstSchema(inputs, io.Inputs)
	if err != nil {
		return nil, err
	}

	mon := monitor.New(e.cfg.ResourceMonitor.MaxMemoryBytes, e.cfg.ResourceMonitor.CheckIntervalMs, e.warnOnHighUtilisation)
	mon.Start()
	defer mon.Stop()

	frame := &importFrame{
		tracker:   newImportTracker(),
		limits:    e.execLimits,
		mon:       mon,
		reg:       e.cfg.Registry,
		ctx:       ctx,
		providers: e.cfg.ContextProviders,
	}

	return limits.ExecuteWithTimeout(ctx, e.execLimits.TimeoutMs(), func(callCtx context.Context) (map[string]interface{}, error) {
		return jsruntime.Invoke(callCtx, sourceText, validated, func(vm *goja.Runtime) (map[string]interface{}, error) {
			return buildCallContext(vm, frame), nil
		})
	})
}

func (e *Engine) warnOnHighUtilisation(usedBytes, maxBytes uint64) {
	log := logging.Get(logging.CategoryMonitor)
	log.Warn("resource usage at %.0f%% of limit", 100*float64(usedBytes)/float64(maxBytes))
}
