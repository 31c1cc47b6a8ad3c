package params

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNormaliseBareKindString(t *testing.T) {
	def, err := Normalise("integer")
	require.NoError(t, err)
	assert.Equal(t, KindInteger, def.Kind)
	assert.False(t, def.HasDefault)
}

func TestNormaliseIsIdempotent(t *testing.T) {
	raw := map[string]interface{}{"kind": "integer", "default": float64(3), "min": float64(1), "max": float64(5)}
	first, err := Normalise(raw)
	require.NoError(t, err)
	second, err := Normalise(first)
	require.NoError(t, err)
	assert.Equal(t, first, second)
}

func TestDefaultOfKindSpecificZeroValues(t *testing.T) {
	tests := []struct {
		kind Kind
		want interface{}
	}{
		{KindInteger, int64(0)},
		{KindFloating, float64(0)},
		{KindText, ""},
		{KindBoolean, false},
		{KindNamespacedID, "minecraft:stone"},
	}
	for _, tt := range tests {
		got := DefaultOf(Def{Kind: tt.kind})
		assert.Equal(t, tt.want, got, "kind=%s", tt.kind)
	}
}

func TestDefaultOfPrefersExplicitDefault(t *testing.T) {
	def := Def{Kind: KindInteger, Default: int64(42), HasDefault: true}
	assert.Equal(t, int64(42), DefaultOf(def))
}

func TestApplyDefaultsDoesNotOverridePresentKeys(t *testing.T) {
	schema := NewSchema()
	schema.Set("count", Def{Kind: KindInteger, Default: int64(1), HasDefault: true})
	schema.Set("flag", Def{Kind: KindBoolean, Default: true, HasDefault: true})

	inputs := map[string]interface{}{"flag": false}
	out := ApplyDefaults(inputs, schema)

	assert.Equal(t, int64(1), out["count"])
	assert.Equal(t, false, out["flag"], "explicit false must not be overridden")
}

func TestApplyDefaultsIsIdempotent(t *testing.T) {
	schema := NewSchema()
	schema.Set("message", Def{Kind: KindText, Default: "hi", HasDefault: true})

	once := ApplyDefaults(map[string]interface{}{}, schema)
	twice := ApplyDefaults(once, schema)
	assert.Equal(t, once, twice)
}

func TestValidateNumericRangeInclusive(t *testing.T) {
	min, max := 1.0, 5.0
	def := Def{Kind: KindInteger, Min: &min, Max: &max}

	assert.NoError(t, Validate(int64(1), def, "count"))
	assert.NoError(t, Validate(int64(5), def, "count"))
	assert.Error(t, Validate(int64(0), def, "count"))
	assert.Error(t, Validate(int64(6), def, "count"))
	assert.Error(t, Validate(float64(2.5), def, "count"), "non-integral value must fail integer kind")
}

func TestValidateFloatingRejectsNonFinite(t *testing.T) {
	def := Def{Kind: KindFloating}
	assert.Error(t, Validate(math.Inf(1), def, "value"))
}

func TestValidateTextOptions(t *testing.T) {
	def := Def{Kind: KindText, Options: []interface{}{"a", "b"}}
	assert.NoError(t, Validate("a", def, "choice"))
	assert.Error(t, Validate("c", def, "choice"))
}

func TestValidateObjectRejectsArrayAndNull(t *testing.T) {
	def := Def{Kind: KindObject}
	assert.NoError(t, Validate(map[string]interface{}{}, def, "obj"))
	assert.Error(t, Validate(nil, def, "obj"))
	assert.Error(t, Validate([]interface{}{}, def, "obj"))
}

func TestValidateNamespacedID(t *testing.T) {
	def := Def{Kind: KindNamespacedID}
	assert.NoError(t, Validate("minecraft:stone", def, "block"))
	assert.Error(t, Validate("stone", def, "block"))
	assert.Error(t, Validate("a:b:c", def, "block"))
}

func TestVisibleRequiresExactDependsOnMatch(t *testing.T) {
	def := Def{DependsOn: map[string]interface{}{"mode": "advanced"}}

	assert.True(t, Visible(def, map[string]interface{}{"mode": "advanced"}))
	assert.False(t, Visible(def, map[string]interface{}{"mode": "basic"}))
	assert.False(t, Visible(def, map[string]interface{}{}))
}

func TestVisibleDefaultsTrueWithNoDependsOn(t *testing.T) {
	assert.True(t, Visible(Def{}, map[string]interface{}{}))
}

func TestGroupPreservesOrderAndDefaultsGroupName(t *testing.T) {
	schema := NewSchema()
	schema.Set("a", Def{Group: "display"})
	schema.Set("b", Def{})
	schema.Set("c", Def{Group: "display"})

	groups := Group(schema)
	assert.Equal(t, []string{"a", "c"}, groups["display"])
	assert.Equal(t, []string{"b"}, groups["default"])
}

func TestValidateSchemaRangesRejectsInvertedBounds(t *testing.T) {
	min, max := 5.0, 1.0
	schema := NewSchema()
	schema.Set("count", Def{Kind: KindInteger, Min: &min, Max: &max})
	assert.Error(t, ValidateSchemaRanges(schema))
}
