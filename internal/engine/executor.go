package engine

import (
	"context"

	"github.com/dop251/goja"

	"github.com/scriptlab/engine/internal/enginerr"
	"github.com/scriptlab/engine/internal/jsruntime"
	"github.com/scriptlab/engine/internal/params"
)

// schemaKeysToValue exports a *params.Schema into the plain value shape
// the imported callable's io member exposes to scripts.
func schemaKeysToValue(schema *params.Schema) map[string]interface{} {
	out := make(map[string]interface{}, len(schema.Keys))
	for _, key := range schema.Keys {
		def := schema.Defs[key]
		out[key] = map[string]interface{}{
			"kind":        string(def.Kind),
			"description": def.Description,
		}
	}
	return out
}

// validateAgainstSchema applies defaults and validates inputs against
// schema, skipping invisible parameters, failing on any missing required
// (visible, no-default) input or validation breach (spec.md §4.8 step 3,
// §4.9 step 1). The returned map is restricted to visible parameters only:
// applyDefaults fills every key for the sake of evaluating dependsOn, but
// the entry must never observe a value for an input that isn't visible to
// it (spec.md §3 invariant 3, §8).
func validateAgainstSchema(inputs map[string]interface{}, schema *params.Schema) (map[string]interface{}, error) {
	if inputs == nil {
		inputs = map[string]interface{}{}
	}
	applied := params.ApplyDefaults(inputs, schema)
	visible := make(map[string]interface{}, len(schema.Keys))

	for _, key := range schema.Keys {
		def := schema.Defs[key]
		if !params.Visible(def, applied) {
			continue
		}
		if _, explicit := inputs[key]; !explicit && !def.HasDefault {
			return nil, enginerr.New(enginerr.Input, "Input validation failed: Missing required input: %s", key)
		}
		if err := params.Validate(applied[key], def, key); err != nil {
			return nil, enginerr.Wrap(enginerr.Input, err, "Input validation failed")
		}
		visible[key] = applied[key]
	}
	return visible, nil
}

// invokeWithSchema validates inputs against intro's IO schema, rebuilds a
// fresh context sharing frame's tracker/limits/monitor/registry (spec.md
// §4.9 "Rebuilds a fresh context"), and invokes the imported entry.
func invokeWithSchema(ctx context.Context, intro *jsruntime.Introspection, inputs map[string]interface{}, frame *importFrame) (map[string]interface{}, error) {
	validated, err := validateAgainstSchema(inputs, intro.IO.Inputs)
	if err != nil {
		return nil, err
	}

	nestedFrame := &importFrame{
		tracker:   frame.tracker,
		limits:    frame.limits,
		mon:       frame.mon,
		reg:       frame.reg,
		depth:     frame.depth + 1,
		ctx:       frame.ctx,
		providers: frame.providers,
	}

	return jsruntime.Invoke(ctx, intro.Source, validated, func(vm *goja.Runtime) (map[string]interface{}, error) {
		return buildCallContext(vm, nestedFrame), nil
	})
}

// buildCallContext assembles base capabilities, shallow-merges injected
// providers over them (providers win), and attaches importScript bound to
// frame (spec.md §4.8 step 4).
func buildCallContext(vm *goja.Runtime, frame *importFrame) map[string]interface{} {
	ctxMap := baseCapabilities()
	for k, v := range frame.providers {
		ctxMap[k] = v
	}
	ctxMap["importScript"] = buildImportScript(vm, frame)
	return ctxMap
}
