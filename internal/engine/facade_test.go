package engine

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/scriptlab/engine/internal/enginerr"
)

func TestExecuteOneShot(t *testing.T) {
	result, err := Execute(context.Background(), defaultsScript, map[string]interface{}{"message": "Yo"}, DefaultConfig())
	require.NoError(t, err)
	assert.Equal(t, "Yo", result["result"])
}

func TestExecuteWithValidationRejectsMissingRequiredInput(t *testing.T) {
	script := `
export const io = { inputs: { name: "text" }, outputs: { greeting: "text" } };
export default async function (inputs) { return { greeting: "Hi " + inputs.name }; }
`
	_, err := ExecuteWithValidation(context.Background(), script, map[string]interface{}{}, DefaultConfig())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "Input validation failed: Missing required input: name")
}

func TestExecuteClassifiesMissingRequiredInputAsInput(t *testing.T) {
	script := `
export const io = { inputs: { name: "text" }, outputs: { greeting: "text" } };
export default async function (inputs) { return { greeting: "Hi " + inputs.name }; }
`
	_, err := Execute(context.Background(), script, map[string]interface{}{}, DefaultConfig())
	require.Error(t, err)
	assert.True(t, enginerr.Is(err, enginerr.Input))
	assert.False(t, enginerr.Is(err, enginerr.Resource))
}

func TestExecuteWithValidationPassesWithRequiredInput(t *testing.T) {
	script := `
export const io = { inputs: { name: "text" }, outputs: { greeting: "text" } };
export default async function (inputs) { return { greeting: "Hi " + inputs.name }; }
`
	result, err := ExecuteWithValidation(context.Background(), script, map[string]interface{}{"name": "Ada"}, DefaultConfig())
	require.NoError(t, err)
	assert.Equal(t, "Hi Ada", result["greeting"])
}

func TestValidatePlanningOnlyNeverCallsEntry(t *testing.T) {
	res := Validate(context.Background(), defaultsScript, DefaultConfig())
	assert.True(t, res.Valid)
	require.NotNil(t, res.IO)
	assert.Contains(t, res.IO.Inputs.Keys, "message")
}

func TestValidateReportsSurfaceErrors(t *testing.T) {
	res := Validate(context.Background(), "not even close to a script", DefaultConfig())
	assert.False(t, res.Valid)
	assert.NotEmpty(t, res.Errors)
}

func TestExecuteBatchRunsEachItemIndependently(t *testing.T) {
	broken := `export const io = { inputs: {}, outputs: {} };`
	items := []BatchItem{
		{ID: "ok", Content: defaultsScript, Inputs: map[string]interface{}{"message": "A"}},
		{ID: "broken", Content: broken, Inputs: map[string]interface{}{}},
	}
	results := ExecuteBatch(context.Background(), items, DefaultConfig())
	require.Len(t, results, 2)
	assert.True(t, results[0].Success)
	assert.Equal(t, "A", results[0].Result["result"])
	assert.False(t, results[1].Success)
	assert.NotEmpty(t, results[1].Error)
}

func TestReusableHandleServesMultipleCalls(t *testing.T) {
	r := CreateReusable(defaultsScript, DefaultConfig())
	defer r.Dispose()

	ctx := context.Background()
	first, err := r.Execute(ctx, map[string]interface{}{"message": "One"})
	require.NoError(t, err)
	assert.Equal(t, "One", first["result"])

	second, err := r.Execute(ctx, map[string]interface{}{"message": "Two"})
	require.NoError(t, err)
	assert.Equal(t, "Two", second["result"])

	assert.Contains(t, r.GetIO().Inputs.Keys, "message")
}

func TestBenchmarkRunsRequestedIterations(t *testing.T) {
	res, err := Benchmark(context.Background(), defaultsScript, map[string]interface{}{"message": "X"}, 3, DefaultConfig())
	require.NoError(t, err)
	assert.Len(t, res.TimesMs, 3)
	assert.Len(t, res.Results, 3)
	assert.GreaterOrEqual(t, res.MaxTimeMs, res.MinTimeMs)
	assert.GreaterOrEqual(t, res.AverageTimeMs, 0.0)
}
