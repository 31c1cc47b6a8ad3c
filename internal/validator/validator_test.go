package validator

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const wellFormedScript = `
export const io = {
  inputs: { message: { kind: "text", default: "hi" } },
  outputs: { result: "text" }
};

export default async function (inputs, ctx) {
  return { result: inputs.message };
}
`

func TestValidateAcceptsWellFormedScript(t *testing.T) {
	res := Validate(wellFormedScript, nil)
	assert.True(t, res.Valid, "errors: %v", res.Errors)
	assert.Empty(t, res.Errors)
}

func TestValidateRejectsEmptySource(t *testing.T) {
	res := Validate("", nil)
	assert.False(t, res.Valid)
}

func TestValidateRequiresIOAndDefaultExports(t *testing.T) {
	res := Validate(`const x = 1;`, nil)
	assert.False(t, res.Valid)
	assert.Contains(t, res.Errors, "missing required 'export const io' declaration")
	assert.Contains(t, res.Errors, "missing required 'export default' declaration")
}

func TestValidateDetectsUnbalancedBraces(t *testing.T) {
	res := Validate(`
export const io = { inputs: {}, outputs: {} };
export default async function (inputs, ctx) { return {}; }
}
`, nil)
	assert.False(t, res.Valid)
}

func TestValidateFlagsEval(t *testing.T) {
	source := `
export const io = { inputs: {}, outputs: {} };
export default async function (inputs, ctx) {
  return eval("1+1");
}
`
	res := Validate(source, nil)
	assert.False(t, res.Valid)
	found := false
	for _, e := range res.Errors {
		if e == "use of dynamic code evaluation (eval)" {
			found = true
		}
	}
	assert.True(t, found)
}

func TestValidateIgnoresEvalInsideStringLiteral(t *testing.T) {
	source := `
export const io = { inputs: {}, outputs: {} };
export default async function (inputs, ctx) {
  return { note: "please do not eval(user input)" };
}
`
	res := Validate(source, nil)
	assert.True(t, res.Valid, "errors: %v", res.Errors)
}

func TestValidateFlagsLargeLoopBound(t *testing.T) {
	source := `
export const io = { inputs: {}, outputs: {} };
export default async function (inputs, ctx) {
  for (let i = 0; i < 1000000; i++) {}
  return {};
}
`
	res := Validate(source, nil)
	assert.False(t, res.Valid)
}

func TestValidateWarnsOnExcessiveNesting(t *testing.T) {
	nested := wellFormedScript
	for i := 0; i < 12; i++ {
		nested = "{" + nested + "}"
	}
	res := Validate(nested, nil)
	assert.NotEmpty(t, res.Warnings)
}

func TestAddAndRemovePatternAffectsValidation(t *testing.T) {
	AddPattern(Pattern{Message: "forbidden word: banana", match: func(s string) bool {
		return containsSubstr(s, "banana")
	}})
	defer RemovePattern("forbidden word: banana")

	source := `
export const io = { inputs: {}, outputs: {} };
export default async function (inputs, ctx) {
  const banana = 1;
  return { note: banana };
}
`
	res := Validate(source, nil)
	require.False(t, res.Valid)
	assert.Contains(t, res.Errors, "forbidden word: banana")
}

func containsSubstr(s, sub string) bool {
	for i := 0; i+len(sub) <= len(s); i++ {
		if s[i:i+len(sub)] == sub {
			return true
		}
	}
	return false
}

func TestExtractIOObjectTextReturnsBalancedSnippet(t *testing.T) {
	snippet, ok := extractIOObjectText(wellFormedScript)
	require.True(t, ok)
	assert.Contains(t, snippet, "inputs")
	assert.Contains(t, snippet, "outputs")
}

func TestValidateIOSchemaTextRejectsInvertedBounds(t *testing.T) {
	source := `
export const io = {
  inputs: { count: { kind: "integer", min: 10, max: 1 } },
  outputs: {}
};
export default async function () { return {}; }
`
	res := Validate(source, nil)
	assert.False(t, res.Valid)
}
