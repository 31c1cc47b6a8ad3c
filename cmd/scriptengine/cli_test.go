package main

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/spf13/cobra"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/scriptlab/engine/internal/config"
)

const sampleScript = `
export const io = {
  inputs: { name: { kind: "text", default: "World" } },
  outputs: { greeting: "text" }
};
export default async function (inputs) {
  return { greeting: "Hello, " + inputs.name };
}
`

func withDefaultConfig(t *testing.T) {
	t.Helper()
	cfg = config.DefaultConfig()
}

func TestParseInputFlags(t *testing.T) {
	inputs, err := parseInputFlags([]string{"name=Ada", "count=3", "active=true", "ratio=1.5"})
	require.NoError(t, err)
	assert.Equal(t, "Ada", inputs["name"])
	assert.EqualValues(t, 3, inputs["count"])
	assert.Equal(t, true, inputs["active"])
	assert.InDelta(t, 1.5, inputs["ratio"].(float64), 0.0001)
}

func TestParseInputFlagsRejectsMissingEquals(t *testing.T) {
	_, err := parseInputFlags([]string{"noequalssign"})
	assert.Error(t, err)
}

func TestReadScriptFromFile(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "script.js")
	require.NoError(t, os.WriteFile(path, []byte(sampleScript), 0644))

	content, err := readScript(path)
	require.NoError(t, err)
	assert.Equal(t, sampleScript, content)
}

func TestRunCommandExecutesScriptAndPrintsResult(t *testing.T) {
	withDefaultConfig(t)
	dir := t.TempDir()
	path := filepath.Join(dir, "script.js")
	require.NoError(t, os.WriteFile(path, []byte(sampleScript), 0644))

	runInputs = nil
	runValidate = false
	cmd := &cobra.Command{}

	err := runRun(cmd, []string{path})
	require.NoError(t, err)
}

func TestValidateCommandReportsIOSchema(t *testing.T) {
	withDefaultConfig(t)
	dir := t.TempDir()
	path := filepath.Join(dir, "script.js")
	require.NoError(t, os.WriteFile(path, []byte(sampleScript), 0644))

	cmd := &cobra.Command{}
	err := runValidateCmd(cmd, []string{path})
	require.NoError(t, err)
}

func TestValidateCommandFailsOnBrokenScript(t *testing.T) {
	withDefaultConfig(t)
	dir := t.TempDir()
	path := filepath.Join(dir, "script.js")
	require.NoError(t, os.WriteFile(path, []byte("not a module at all {{{"), 0644))

	cmd := &cobra.Command{}
	err := runValidateCmd(cmd, []string{path})
	assert.Error(t, err)
}

func TestBenchmarkCommandRunsConfiguredIterations(t *testing.T) {
	withDefaultConfig(t)
	dir := t.TempDir()
	path := filepath.Join(dir, "script.js")
	require.NoError(t, os.WriteFile(path, []byte(sampleScript), 0644))

	benchmarkInputs = nil
	benchmarkIterations = 2
	cmd := &cobra.Command{}

	err := runBenchmark(cmd, []string{path})
	require.NoError(t, err)
}

func TestBatchCommandRunsManifest(t *testing.T) {
	withDefaultConfig(t)
	dir := t.TempDir()
	manifestPath := filepath.Join(dir, "manifest.json")
	manifest := `[{"id": "greet", "content": ` + jsonQuote(sampleScript) + `, "inputs": {"name": "Ada"}}]`
	require.NoError(t, os.WriteFile(manifestPath, []byte(manifest), 0644))

	cmd := &cobra.Command{}
	err := runBatch(cmd, []string{manifestPath})
	require.NoError(t, err)
}

func jsonQuote(s string) string {
	out := []byte{'"'}
	for _, r := range s {
		switch r {
		case '"':
			out = append(out, '\\', '"')
		case '\\':
			out = append(out, '\\', '\\')
		case '\n':
			out = append(out, '\\', 'n')
		default:
			out = append(out, string(r)...)
		}
	}
	out = append(out, '"')
	return string(out)
}
