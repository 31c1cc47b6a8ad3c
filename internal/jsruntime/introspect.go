package jsruntime

import (
	"fmt"

	"github.com/dop251/goja"

	"github.com/scriptlab/engine/internal/enginerr"
	"github.com/scriptlab/engine/internal/params"
)

// Introspection is the result of loading a script's static shape: its IO
// schema and declared dependencies (LoadedScript in spec.md §3, minus the
// entry reference — the entry is re-materialised from Source at call time,
// see Invoke).
type Introspection struct {
	IO     *params.IOSchema
	Deps   []string
	Source string // original, untransformed source text
}

// Introspect evaluates the module-level statements of source (transformed
// from ESM export syntax) to pull out the io object and confirm a callable
// default export exists, and scans the original text for importScript call
// sites. Failures surface as "Script introspection failed: …" per spec.md
// §4.7.
func Introspect(source string) (*Introspection, error) {
	vm := goja.New()
	transformed := TransformExports(source)

	if _, err := vm.RunString(transformed); err != nil {
		return nil, enginerr.Wrap(enginerr.Shape, err, "Script introspection failed")
	}

	ioVal := vm.Get("io")
	if ioVal == nil || goja.IsUndefined(ioVal) || goja.IsNull(ioVal) {
		return nil, enginerr.New(enginerr.Shape, "Script introspection failed: missing 'io' export")
	}
	ioObj := ioVal.ToObject(vm)
	if ioObj == nil {
		return nil, enginerr.New(enginerr.Shape, "Script introspection failed: 'io' export is not an object")
	}

	ioSchema, err := objectToIOSchema(vm, ioObj)
	if err != nil {
		return nil, enginerr.Wrap(enginerr.Shape, err, "Script introspection failed")
	}

	defVal := vm.Get("__default__")
	if _, ok := goja.AssertFunction(defVal); !ok {
		return nil, enginerr.New(enginerr.Shape, "Script introspection failed: missing callable 'default' export")
	}

	return &Introspection{
		IO:     ioSchema,
		Deps:   ExtractImportIDs(source),
		Source: source,
	}, nil
}

func objectToIOSchema(vm *goja.Runtime, obj *goja.Object) (*params.IOSchema, error) {
	inputsVal := obj.Get("inputs")
	outputsVal := obj.Get("outputs")

	inputsSchema, err := objectToParamSchema(vm, inputsVal, "inputs")
	if err != nil {
		return nil, err
	}
	outputsSchema, err := objectToParamSchema(vm, outputsVal, "outputs")
	if err != nil {
		return nil, err
	}

	return &params.IOSchema{Inputs: inputsSchema, Outputs: outputsSchema}, nil
}

func objectToParamSchema(vm *goja.Runtime, v goja.Value, label string) (*params.Schema, error) {
	if v == nil || goja.IsUndefined(v) || goja.IsNull(v) {
		return nil, fmt.Errorf("'io.%s' must be an object", label)
	}
	obj := v.ToObject(vm)
	if obj == nil || obj.ClassName() == "Array" {
		return nil, fmt.Errorf("'io.%s' must be a non-array object", label)
	}

	schema := params.NewSchema()
	for _, key := range obj.Keys() {
		raw := obj.Get(key).Export()
		def, err := params.Normalise(raw)
		if err != nil {
			return nil, fmt.Errorf("io.%s.%s: %w", label, key, err)
		}
		if !params.ValidKind(def.Kind) {
			return nil, fmt.Errorf("io.%s.%s: unknown kind %q", label, key, def.Kind)
		}
		schema.Set(key, def)
	}
	if err := params.ValidateSchemaRanges(schema); err != nil {
		return nil, fmt.Errorf("io.%s: %w", label, err)
	}
	return schema, nil
}

// EvalObjectLiteral evaluates a standalone object-literal text snippet (used
// by the validator's IO sub-validation, which extracts the snippet via a
// balanced-brace scan rather than running the whole script — spec.md §4.2).
// The runtime that produced obj is returned alongside it so callers can
// convert nested members (ToObject requires the owning runtime).
func EvalObjectLiteral(text string) (*goja.Runtime, *goja.Object, error) {
	vm := goja.New()
	v, err := vm.RunString("(" + text + ")")
	if err != nil {
		return nil, nil, err
	}
	obj := v.ToObject(vm)
	if obj == nil {
		return nil, nil, fmt.Errorf("expression did not evaluate to an object")
	}
	return vm, obj, nil
}
