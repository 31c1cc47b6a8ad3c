package jsruntime

import (
	"context"
	"fmt"

	"github.com/dop251/goja"
	"github.com/dop251/goja_nodejs/eventloop"

	"github.com/scriptlab/engine/internal/enginerr"
)

type invokeOutcome struct {
	result map[string]interface{}
	err    error
}

// ContextBuilder constructs the host capability object for a single call,
// bound to the runtime that will execute the script (so e.g. importScript
// can wrap nested goja values). Returning an error aborts before the entry
// function runs.
type ContextBuilder func(vm *goja.Runtime) (map[string]interface{}, error)

// Invoke re-materialises a script's module-level bindings in a fresh,
// single-goroutine runtime and calls its default export with inputs and a
// freshly built context, returning once the entry function's promise
// settles (the entry is always an async function per spec.md §6).
//
// A fresh event loop and runtime is created per call rather than reused,
// matching the per-call context construction in spec.md §4.8 step 4 ("Build
// a fresh context") — nested importScript calls invoke this same function
// recursively, each getting its own isolated runtime.
func Invoke(ctx context.Context, source string, inputs map[string]interface{}, buildContext ContextBuilder) (map[string]interface{}, error) {
	loop := eventloop.NewEventLoop()
	loop.Start()
	defer loop.Stop()

	done := make(chan invokeOutcome, 1)

	loop.RunOnLoop(func(vm *goja.Runtime) {
		transformed := TransformExports(source)
		if _, err := vm.RunString(transformed); err != nil {
			done <- invokeOutcome{err: enginerr.Wrap(enginerr.Shape, err, "script evaluation failed")}
			return
		}

		fn, ok := goja.AssertFunction(vm.Get("__default__"))
		if !ok {
			done <- invokeOutcome{err: enginerr.New(enginerr.Shape, "default export is not callable")}
			return
		}

		hostContext, err := buildContext(vm)
		if err != nil {
			done <- invokeOutcome{err: err}
			return
		}

		result, err := fn(goja.Undefined(), vm.ToValue(inputs), vm.ToValue(hostContext))
		if err != nil {
			done <- invokeOutcome{err: enginerr.Wrap(enginerr.UserCode, err, "script entry function failed")}
			return
		}

		settle(vm, result, done)
	})

	select {
	case o := <-done:
		return o.result, o.err
	case <-ctx.Done():
		return nil, ctx.Err()
	}
}

// settle resolves result, which may be a plain value or a Promise, into the
// shared outcome channel. A non-object (object) result is rejected per
// spec.md §4.8 ("the entry must resolve to an object").
func settle(vm *goja.Runtime, result goja.Value, done chan invokeOutcome) {
	if _, ok := result.Export().(*goja.Promise); !ok {
		deliver(result, done)
		return
	}

	thenFn, ok := goja.AssertFunction(result.ToObject(vm).Get("then"))
	if !ok {
		done <- invokeOutcome{err: enginerr.New(enginerr.Shape, "script entry returned an unresolvable promise")}
		return
	}

	onFulfilled := vm.ToValue(func(call goja.FunctionCall) goja.Value {
		var v goja.Value = goja.Undefined()
		if len(call.Arguments) > 0 {
			v = call.Arguments[0]
		}
		deliver(v, done)
		return goja.Undefined()
	})
	onRejected := vm.ToValue(func(call goja.FunctionCall) goja.Value {
		reason := "script entry promise was rejected"
		if len(call.Arguments) > 0 {
			reason = fmt.Sprintf("script entry promise was rejected: %v", call.Arguments[0])
		}
		done <- invokeOutcome{err: enginerr.New(enginerr.UserCode, "%s", reason)}
		return goja.Undefined()
	})

	if _, err := thenFn(result, onFulfilled, onRejected); err != nil {
		done <- invokeOutcome{err: enginerr.Wrap(enginerr.Shape, err, "script entry promise handling failed")}
	}
}

func deliver(v goja.Value, done chan invokeOutcome) {
	if v == nil || goja.IsUndefined(v) || goja.IsNull(v) {
		done <- invokeOutcome{result: map[string]interface{}{}}
		return
	}
	exported := v.Export()
	out, ok := exported.(map[string]interface{})
	if !ok {
		done <- invokeOutcome{err: enginerr.New(enginerr.Shape, "script entry must resolve to an object, got %T", exported)}
		return
	}
	done <- invokeOutcome{result: out}
}
