package engine

import (
	"context"
	"fmt"
	"math/rand"
	"time"

	"github.com/dop251/goja"

	"github.com/scriptlab/engine/internal/cache"
	"github.com/scriptlab/engine/internal/enginerr"
	"github.com/scriptlab/engine/internal/jsruntime"
	"github.com/scriptlab/engine/internal/monitor"
	"github.com/scriptlab/engine/internal/registry"
	"github.com/scriptlab/engine/internal/validator"
)

// importFrame carries everything importScript needs that is shared across
// an entire top-level call: the tracker, limits, the running monitor, and
// the registry, plus the recursion depth of the frame it is attached to.
type importFrame struct {
	tracker  *importTracker
	limits   limitsView
	mon      *monitor.ResourceMonitor
	reg      registry.Registry
	depth    int
	ctx      context.Context
	providers map[string]interface{}
}

// limitsView is the subset of *limits.ExecutionLimits importScript needs;
// named separately to avoid a direct import cycle concern and to keep the
// guard checks colocated with their call sites.
type limitsView interface {
	CheckImports(count int) error
	CheckRecursion(depth int) error
}

// buildImportScript returns the Go function goja will expose as
// ctx.importScript, implementing the resolution semantics, guards, and
// bookkeeping of spec.md §4.9.
func buildImportScript(vm *goja.Runtime, frame *importFrame) func(goja.FunctionCall) goja.Value {
	return func(call goja.FunctionCall) goja.Value {
		result, err := doImportScript(vm, frame, call)
		if err != nil {
			panic(vm.ToValue(err.Error()))
		}
		return result
	}
}

func doImportScript(vm *goja.Runtime, frame *importFrame, call goja.FunctionCall) (goja.Value, error) {
	if len(call.Arguments) == 0 {
		return nil, enginerr.New(enginerr.Input, "importScript requires one argument")
	}
	arg := call.Arguments[0]

	// Pre-increment / pre-push guards, checked before any observable work.
	if err := frame.limits.CheckImports(frame.tracker.Count()); err != nil {
		return nil, err
	}
	if err := frame.limits.CheckRecursion(frame.tracker.StackDepth()); err != nil {
		return nil, err
	}
	if frame.mon != nil {
		if err := frame.mon.Check(); err != nil {
			return nil, err
		}
	}

	source, err := resolveImportArgument(vm, frame, arg)
	if err != nil {
		return nil, err
	}

	hash := cache.ContentHash(source)
	if frame.tracker.HasHash(hash) {
		return nil, enginerr.New(enginerr.Resource, "Recursive import detected: script content already imported in this execution")
	}

	res := validator.Validate(source, nil)
	if !res.Valid {
		return nil, enginerr.New(enginerr.Shape, "Imported script validation failed: %v", res.Errors)
	}

	id := mintImportID()
	frame.tracker.record(hash)

	intro, err := jsruntime.Introspect(source)
	if err != nil {
		return nil, err
	}

	callable := buildImportedCallable(vm, frame, id, intro)
	return callable, nil
}

// resolveImportArgument implements spec.md §4.9's resolution semantics.
func resolveImportArgument(vm *goja.Runtime, frame *importFrame, arg goja.Value) (string, error) {
	if fn, ok := goja.AssertFunction(arg); ok {
		result, err := fn(goja.Undefined())
		if err != nil {
			return "", enginerr.Wrap(enginerr.Registry, err, "Failed to resolve script content")
		}
		return exportResolverResult(result)
	}

	s, ok := arg.Export().(string)
	if !ok {
		return "", enginerr.New(enginerr.Input, "importScript argument must be a function, registry id, or source text")
	}

	if frame.reg == nil {
		return s, nil
	}

	resolved, err := frame.reg.Resolve(frame.ctx, s)
	if err != nil {
		// Registry lookup failure falls through to treating the raw
		// string as source text (spec.md §4.9).
		return s, nil
	}
	return resolved, nil
}

// exportResolverResult handles a resolver's settled value, including the
// best-effort case where it returned an already-fulfilled Promise. Genuine
// pending promises cannot be awaited mid-call without draining the host
// event loop's microtask queue from inside a synchronous host call, so
// those surface as an explicit unsupported-value error rather than
// deadlocking.
func exportResolverResult(v goja.Value) (string, error) {
	if p, ok := v.Export().(*goja.Promise); ok {
		switch p.State() {
		case goja.PromiseStateFulfilled:
			return exportResolverResult(p.Result())
		default:
			return "", enginerr.New(enginerr.Registry, "Failed to resolve script content: resolver returned an unsettled promise")
		}
	}
	if s, ok := v.Export().(string); ok {
		return s, nil
	}
	return "", enginerr.New(enginerr.Registry, "Failed to resolve script content: unsupported resolver return value")
}

func mintImportID() string {
	return fmt.Sprintf("imported-%d-%d", time.Now().UnixNano(), rand.Intn(1_000_000))
}

// buildImportedCallable produces the object spec.md §4.9 "Callable
// production" describes: a callable with io/deps/id readable members that,
// invoked with inputs, validates them against the imported script's IO
// schema, rebuilds a fresh context sharing the same tracker, and invokes
// the imported default function.
func buildImportedCallable(vm *goja.Runtime, frame *importFrame, id string, intro *jsruntime.Introspection) goja.Value {
	invoke := func(call goja.FunctionCall) goja.Value {
		var inputs map[string]interface{}
		if len(call.Arguments) > 0 {
			if m, ok := call.Arguments[0].Export().(map[string]interface{}); ok {
				inputs = m
			}
		}

		frame.tracker.pushFrame(id)
		result, err := invokeWithSchema(frame.ctx, intro, inputs, frame)
		frame.tracker.popFrame()
		if err != nil {
			panic(vm.ToValue(err.Error()))
		}
		return vm.ToValue(result)
	}

	obj := vm.ToValue(invoke).(*goja.Object)
	_ = obj.Set("io", vm.ToValue(ioSchemaToValue(intro)))
	_ = obj.Set("deps", vm.ToValue(intro.Deps))
	_ = obj.Set("id", vm.ToValue(id))
	return obj
}

func ioSchemaToValue(intro *jsruntime.Introspection) map[string]interface{} {
	return map[string]interface{}{
		"inputs":  schemaKeysToValue(intro.IO.Inputs),
		"outputs": schemaKeysToValue(intro.IO.Outputs),
	}
}
