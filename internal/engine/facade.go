package engine

import (
	"context"
	"fmt"
	"time"

	"github.com/scriptlab/engine/internal/params"
	"github.com/scriptlab/engine/internal/validator"
)

// Execute is the one-shot façade: construct, call, dispose (spec.md §6
// "execute(source, inputs, config?)").
func Execute(ctx context.Context, source string, inputs map[string]interface{}, cfg Config) (map[string]interface{}, error) {
	e := New(source, cfg)
	defer e.Dispose()
	return e.Call(ctx, inputs)
}

// ExecuteWithValidation is Execute after strict input validation: missing
// required inputs fail with the exact message spec.md §6 names.
func ExecuteWithValidation(ctx context.Context, source string, inputs map[string]interface{}, cfg Config) (map[string]interface{}, error) {
	e := New(source, cfg)
	defer e.Dispose()

	if err := e.WaitForInitialization(ctx); err != nil {
		return nil, fmt.Errorf("initialisation failed: %w", err)
	}
	io := e.GetIO()
	for _, key := range io.Inputs.Keys {
		def := io.Inputs.Defs[key]
		if !params.Visible(def, inputs) {
			continue
		}
		if _, present := inputs[key]; !present && !def.HasDefault {
			return nil, fmt.Errorf("Input validation failed: Missing required input: %s", key)
		}
	}
	return e.Call(ctx, inputs)
}

// ValidationResult is the outcome of Validate (spec.md §6 "validate(source,
// config?)").
type ValidationResult struct {
	Valid        bool
	IO           *params.IOSchema
	Dependencies []string
	Errors       []string
}

// Validate is planning-only: construct, wait for initialisation, report,
// dispose. No call is made.
func Validate(ctx context.Context, source string, cfg Config) ValidationResult {
	surface := validator.Validate(source, nil)
	if !surface.Valid {
		return ValidationResult{Valid: false, Errors: surface.Errors}
	}

	e := New(source, cfg)
	defer e.Dispose()
	if err := e.WaitForInitialization(ctx); err != nil {
		return ValidationResult{Valid: false, Errors: []string{err.Error()}}
	}
	return ValidationResult{Valid: true, IO: e.GetIO(), Dependencies: e.GetDependencies()}
}

// BatchItem is one entry of ExecuteBatch's input list.
type BatchItem struct {
	Content string
	Inputs  map[string]interface{}
	ID      string
}

// BatchResult is one entry of ExecuteBatch's output list.
type BatchResult struct {
	ID      string
	Success bool
	Result  map[string]interface{}
	Error   string
}

// ExecuteBatch runs each item sequentially against a fresh engine, per-item
// {id, success, result|error} (spec.md §6 "executeBatch").
func ExecuteBatch(ctx context.Context, items []BatchItem, cfg Config) []BatchResult {
	results := make([]BatchResult, 0, len(items))
	for i, item := range items {
		id := item.ID
		if id == "" {
			id = fmt.Sprintf("batch-%d", i)
		}
		result, err := Execute(ctx, item.Content, item.Inputs, cfg)
		if err != nil {
			results = append(results, BatchResult{ID: id, Success: false, Error: err.Error()})
			continue
		}
		results = append(results, BatchResult{ID: id, Success: true, Result: result})
	}
	return results
}

// Reusable is a handle over a constructed engine kept alive across calls
// (spec.md §6 "createReusable").
type Reusable struct {
	engine *Engine
}

// CreateReusable constructs an engine and returns a handle exposing
// execute/getIO/getDependencies/dispose.
func CreateReusable(source string, cfg Config) *Reusable {
	return &Reusable{engine: New(source, cfg)}
}

// Execute runs inputs against the held engine.
func (r *Reusable) Execute(ctx context.Context, inputs map[string]interface{}) (map[string]interface{}, error) {
	return r.engine.Call(ctx, inputs)
}

// GetIO returns the held engine's IO schema.
func (r *Reusable) GetIO() *params.IOSchema { return r.engine.GetIO() }

// GetDependencies returns the held engine's declared dependencies.
func (r *Reusable) GetDependencies() []string { return r.engine.GetDependencies() }

// Dispose releases the held engine.
func (r *Reusable) Dispose() { r.engine.Dispose() }

// HotReloadable is a handle whose execute/reload target a resolver
// callback re-invoked on every reload (spec.md §6 "createHotReloadable").
type HotReloadable struct {
	engine *Engine
}

// CreateHotReloadable constructs an engine over getSource and returns a
// handle exposing execute/reload/getIO/dispose.
func CreateHotReloadable(getSource SourceResolver, cfg Config) *HotReloadable {
	return &HotReloadable{engine: NewWithResolver(getSource, cfg)}
}

// Execute runs inputs against the held engine.
func (h *HotReloadable) Execute(ctx context.Context, inputs map[string]interface{}) (map[string]interface{}, error) {
	return h.engine.Call(ctx, inputs)
}

// Reload awaits new initialisation, propagating its failure (spec.md §6
// "reload (awaits new initialisation, propagates its failures)").
func (h *HotReloadable) Reload(ctx context.Context) error {
	return h.engine.Reload(ctx)
}

// GetIO returns the held engine's IO schema.
func (h *HotReloadable) GetIO() *params.IOSchema { return h.engine.GetIO() }

// Dispose releases the held engine.
func (h *HotReloadable) Dispose() { h.engine.Dispose() }

// BenchmarkResult is the outcome of Benchmark (spec.md §6 "benchmark").
type BenchmarkResult struct {
	AverageTimeMs float64
	MinTimeMs     float64
	MaxTimeMs     float64
	TimesMs       []float64
	Results       []map[string]interface{}
}

// Benchmark runs source iterations times against the same inputs, timing
// each call in milliseconds.
func Benchmark(ctx context.Context, source string, inputs map[string]interface{}, iterations int, cfg Config) (BenchmarkResult, error) {
	e := New(source, cfg)
	defer e.Dispose()

	if err := e.WaitForInitialization(ctx); err != nil {
		return BenchmarkResult{}, fmt.Errorf("initialisation failed: %w", err)
	}

	times := make([]float64, 0, iterations)
	results := make([]map[string]interface{}, 0, iterations)
	var total, min, max float64

	for i := 0; i < iterations; i++ {
		start := time.Now()
		result, err := e.Call(ctx, inputs)
		elapsed := float64(time.Since(start).Microseconds()) / 1000.0
		if err != nil {
			return BenchmarkResult{}, fmt.Errorf("benchmark iteration %d failed: %w", i, err)
		}
		times = append(times, elapsed)
		results = append(results, result)
		total += elapsed
		if i == 0 || elapsed < min {
			min = elapsed
		}
		if elapsed > max {
			max = elapsed
		}
	}

	return BenchmarkResult{
		AverageTimeMs: total / float64(iterations),
		MinTimeMs:     min,
		MaxTimeMs:     max,
		TimesMs:       times,
		Results:       results,
	}, nil
}
