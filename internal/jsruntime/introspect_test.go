package jsruntime

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/scriptlab/engine/internal/params"
)

const validScript = `
export const io = {
  inputs: {
    count: { kind: "integer", default: 1, min: 0, max: 10 },
    label: "text"
  },
  outputs: {
    total: "integer"
  }
};

export default async function (inputs, ctx) {
  return { total: inputs.count };
}
`

func TestIntrospectValidScript(t *testing.T) {
	result, err := Introspect(validScript)
	require.NoError(t, err)

	require.Contains(t, result.IO.Inputs.Keys, "count")
	require.Contains(t, result.IO.Inputs.Keys, "label")
	assert.Equal(t, params.KindInteger, result.IO.Inputs.Defs["count"].Kind)
	assert.Equal(t, params.KindText, result.IO.Inputs.Defs["label"].Kind)
	assert.Equal(t, params.KindInteger, result.IO.Outputs.Defs["total"].Kind)
	assert.Empty(t, result.Deps)
}

func TestIntrospectMissingIOFails(t *testing.T) {
	_, err := Introspect(`export default async function () { return {}; };`)
	assert.Error(t, err)
}

func TestIntrospectMissingDefaultFails(t *testing.T) {
	_, err := Introspect(`export const io = { inputs: {}, outputs: {} };`)
	assert.Error(t, err)
}

func TestIntrospectCollectsDependencies(t *testing.T) {
	source := `
export const io = { inputs: {}, outputs: {} };
export default async function (inputs, ctx) {
  const a = await ctx.importScript("pkg:helper-a");
  const b = await ctx.importScript("pkg:helper-b");
  return {};
}
`
	result, err := Introspect(source)
	require.NoError(t, err)
	assert.Equal(t, []string{"pkg:helper-a", "pkg:helper-b"}, result.Deps)
}

func TestIntrospectRejectsInvertedRangeBounds(t *testing.T) {
	source := `
export const io = {
  inputs: { count: { kind: "integer", min: 10, max: 1 } },
  outputs: {}
};
export default async function () { return {}; };
`
	_, err := Introspect(source)
	assert.Error(t, err)
}
