package params

import (
	"fmt"
	"math"
)

// Normalise turns a bare kind-string into {kind}; an already-object form
// (map[string]interface{}) is parsed as-is. spec.md §4.1 "normalise(spec)".
func Normalise(raw interface{}) (Def, error) {
	switch v := raw.(type) {
	case string:
		return Def{Kind: Kind(v)}, nil
	case Def:
		return v, nil
	case map[string]interface{}:
		return parseDefMap(v)
	default:
		return Def{}, fmt.Errorf("parameter spec must be a string or object, got %T", raw)
	}
}

func parseDefMap(m map[string]interface{}) (Def, error) {
	def := Def{}

	kindRaw, ok := m["kind"]
	if !ok {
		return Def{}, fmt.Errorf("parameter spec missing required 'kind'")
	}
	kindStr, ok := kindRaw.(string)
	if !ok {
		return Def{}, fmt.Errorf("parameter 'kind' must be a string, got %T", kindRaw)
	}
	def.Kind = Kind(kindStr)

	if d, ok := m["default"]; ok {
		def.Default = d
		def.HasDefault = true
	}
	if v, ok := toFloat(m["min"]); ok {
		def.Min = &v
	}
	if v, ok := toFloat(m["max"]); ok {
		def.Max = &v
	}
	if v, ok := toFloat(m["step"]); ok {
		def.Step = &v
	}
	if opts, ok := m["options"].([]interface{}); ok {
		def.Options = opts
	}
	if ik, ok := m["itemKind"].(string); ok {
		def.ItemKind = Kind(ik)
	}
	if desc, ok := m["description"].(string); ok {
		def.Description = desc
	}
	if grp, ok := m["group"].(string); ok {
		def.Group = grp
	}
	if deps, ok := m["dependsOn"].(map[string]interface{}); ok {
		def.DependsOn = deps
	}

	return def, nil
}

func toFloat(v interface{}) (float64, bool) {
	switch n := v.(type) {
	case float64:
		return n, true
	case float32:
		return float64(n), true
	case int:
		return float64(n), true
	case int64:
		return float64(n), true
	}
	return 0, false
}

// DefaultOf returns the explicit default if present, otherwise the
// kind-specific zero value (spec.md §4.1 "defaultOf(spec)").
func DefaultOf(def Def) interface{} {
	if def.HasDefault {
		return def.Default
	}
	switch def.Kind {
	case KindInteger:
		return int64(0)
	case KindFloating:
		return float64(0)
	case KindText:
		return ""
	case KindBoolean:
		return false
	case KindObject:
		return map[string]interface{}{}
	case KindSequence:
		return []interface{}{}
	case KindNamespacedID:
		return "minecraft:stone"
	default:
		return nil
	}
}

// ApplyDefaults copies inputs and inserts defaults for every absent key.
// Present keys, including explicit false/0/""/nil, are never overridden
// (spec.md §8 invariant 1: "No coercion occurs").
func ApplyDefaults(inputs map[string]interface{}, schema *Schema) map[string]interface{} {
	out := make(map[string]interface{}, len(inputs))
	for k, v := range inputs {
		out[k] = v
	}
	for _, key := range schema.Keys {
		if _, present := out[key]; !present {
			out[key] = DefaultOf(schema.Defs[key])
		}
	}
	return out
}

// Visible reports whether every dependsOn key is present in inputs with a
// strictly-equal value; true if dependsOn is empty (spec.md §4.1 "visible").
func Visible(def Def, inputs map[string]interface{}) bool {
	for depKey, want := range def.DependsOn {
		got, present := inputs[depKey]
		if !present || got != want {
			return false
		}
	}
	return true
}

// Group partitions keys by def.Group (defaulting to "default"), preserving
// the schema's iteration order (spec.md §4.1 "group(schema)").
func Group(schema *Schema) map[string][]string {
	groups := make(map[string][]string)
	for _, key := range schema.Keys {
		g := schema.Defs[key].Group
		if g == "" {
			g = "default"
		}
		groups[g] = append(groups[g], key)
	}
	return groups
}

// Validate performs the kind-specific checks in spec.md §4.1 "validate".
func Validate(value interface{}, def Def, name string) error {
	switch def.Kind {
	case KindInteger:
		n, ok := asIntegral(value)
		if !ok {
			return fmt.Errorf("%s: expected integer, got %T", name, value)
		}
		return validateRange(float64(n), def, name)

	case KindFloating:
		f, ok := toFloat(value)
		if !ok {
			return fmt.Errorf("%s: expected number, got %T", name, value)
		}
		if math.IsNaN(f) || math.IsInf(f, 0) {
			return fmt.Errorf("%s: must be finite, got %v", name, f)
		}
		return validateRange(f, def, name)

	case KindText:
		s, ok := value.(string)
		if !ok {
			return fmt.Errorf("%s: expected text, got %T", name, value)
		}
		if len(def.Options) > 0 && !isMember(s, def.Options) {
			return fmt.Errorf("%s: %q is not one of the allowed options", name, s)
		}
		return nil

	case KindBoolean:
		if _, ok := value.(bool); !ok {
			return fmt.Errorf("%s: expected boolean, got %T", name, value)
		}
		return nil

	case KindObject:
		if value == nil {
			return fmt.Errorf("%s: expected object, got null", name)
		}
		if _, isSlice := value.([]interface{}); isSlice {
			return fmt.Errorf("%s: expected object, got array", name)
		}
		if _, ok := value.(map[string]interface{}); !ok {
			return fmt.Errorf("%s: expected object, got %T", name, value)
		}
		return nil

	case KindSequence:
		if _, ok := value.([]interface{}); !ok {
			return fmt.Errorf("%s: expected sequence, got %T", name, value)
		}
		return nil

	case KindNamespacedID:
		s, ok := value.(string)
		if !ok {
			return fmt.Errorf("%s: expected namespaced text, got %T", name, value)
		}
		if !namespacedIDPattern(s) {
			return fmt.Errorf("%s: %q is not a valid namespaced identifier (expected domain:name)", name, s)
		}
		return nil

	default:
		return fmt.Errorf("%s: unknown parameter kind %q", name, def.Kind)
	}
}

func validateRange(v float64, def Def, name string) error {
	if def.Min != nil && v < *def.Min {
		return fmt.Errorf("%s: %v is below minimum %v", name, v, *def.Min)
	}
	if def.Max != nil && v > *def.Max {
		return fmt.Errorf("%s: %v is above maximum %v", name, v, *def.Max)
	}
	return nil
}

func asIntegral(value interface{}) (int64, bool) {
	switch n := value.(type) {
	case int:
		return int64(n), true
	case int64:
		return n, true
	case float64:
		if n != math.Trunc(n) {
			return 0, false
		}
		return int64(n), true
	case float32:
		f := float64(n)
		if f != math.Trunc(f) {
			return 0, false
		}
		return int64(f), true
	}
	return 0, false
}

func isMember(s string, options []interface{}) bool {
	for _, o := range options {
		if str, ok := o.(string); ok && str == s {
			return true
		}
	}
	return false
}

func namespacedIDPattern(s string) bool {
	colon := -1
	for i, r := range s {
		if r == ':' {
			if colon != -1 {
				return false // only one colon allowed
			}
			colon = i
		}
	}
	if colon <= 0 || colon == len(s)-1 {
		return false
	}
	return true
}

// ValidateSchemaRanges rejects min > max at schema-validation time rather
// than per-value (spec.md §4.1 "Edge-case policies").
func ValidateSchemaRanges(schema *Schema) error {
	for _, key := range schema.Keys {
		def := schema.Defs[key]
		if def.Min != nil && def.Max != nil && *def.Min > *def.Max {
			return fmt.Errorf("%s: min (%v) is greater than max (%v)", key, *def.Min, *def.Max)
		}
	}
	return nil
}
