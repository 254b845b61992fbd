package cli

import (
	"os"
	"path/filepath"
	"testing"

	json "github.com/goccy/go-json"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/roach88/stingeripc/internal/ir"
)

func TestCompileValidSpecs(t *testing.T) {
	out, err := execute(t, NewCompileCommand(&RootOptions{Format: "text"}), specsDir(t))
	require.NoError(t, err)

	assert.Contains(t, out, "✓ Compiled 2 interface(s)")
	assert.Contains(t, out, "Fan 2: 1 signal(s)")
	assert.Contains(t, out, "Lights 1.0: 2 signal(s)")
}

func TestCompileValidSpecsJSON(t *testing.T) {
	out, err := execute(t, NewCompileCommand(&RootOptions{Format: "json"}), specsDir(t))
	require.NoError(t, err)

	var resp struct {
		Status string            `json:"status"`
		Data   CompilationResult `json:"data"`
	}
	require.NoError(t, json.Unmarshal([]byte(out), &resp))
	assert.Equal(t, "ok", resp.Status)
	require.Len(t, resp.Data.Interfaces, 2)

	lights := resp.Data.Interfaces[1]
	assert.Equal(t, "Lights", lights.Name)
	assert.Equal(t, "Lights/interface", lights.InfoTopic)
	assert.Equal(t, "Lights/signal/stateChanged", lights.Signals[0].Topic)
	assert.Equal(t, ir.MustSpecHash(lights), lights.SpecHash)
}

func TestCompileOutputToFile(t *testing.T) {
	outputFile := filepath.Join(t.TempDir(), "compiled.json")

	out, err := execute(t, NewCompileCommand(&RootOptions{Format: "text"}), specsDir(t), "--output", outputFile)
	require.NoError(t, err)
	assert.Contains(t, out, "Wrote IR to "+outputFile)

	data, err := os.ReadFile(outputFile)
	require.NoError(t, err)

	var result CompilationResult
	require.NoError(t, json.Unmarshal(data, &result))
	assert.Len(t, result.Interfaces, 2)
}

func TestCompileSingleFile(t *testing.T) {
	path := writeDoc(t, t.TempDir(), "lights.yaml", lightsYAML)

	out, err := execute(t, NewCompileCommand(&RootOptions{Format: "text"}), path)
	require.NoError(t, err)
	assert.Contains(t, out, "✓ Compiled 1 interface(s)")
}

func TestCompileNonExistentDirectory(t *testing.T) {
	out, err := execute(t, NewCompileCommand(&RootOptions{Format: "text"}), "/nonexistent/directory/path")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "E005")
	assert.Equal(t, ExitCommandError, GetExitCode(err))
	assert.Contains(t, out, "not found")
}

func TestCompileEmptyDirectory(t *testing.T) {
	out, err := execute(t, NewCompileCommand(&RootOptions{Format: "text"}), t.TempDir())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "E003")
	assert.Contains(t, out, "no interface documents found")
}

func TestCompileInvalidDocument(t *testing.T) {
	dir := specsDir(t)
	writeDoc(t, dir, "broken.yaml", brokenYAML)

	out, err := execute(t, NewCompileCommand(&RootOptions{Format: "text"}), dir)
	require.Error(t, err)
	assert.Equal(t, ExitCommandError, GetExitCode(err))
	assert.Contains(t, out, "✗ Compilation failed")
	assert.Contains(t, out, "E206 signals.both")
	assert.Contains(t, out, "broken.yaml:")
}

func TestCompileInvalidDocumentJSON(t *testing.T) {
	dir := t.TempDir()
	writeDoc(t, dir, "future.yaml", `stingeripc: "9.9.9"
interface: {name: Lights, version: "1.0"}
`)

	out, err := execute(t, NewCompileCommand(&RootOptions{Format: "json"}), dir)
	require.Error(t, err)

	var resp CLIResponse
	require.NoError(t, json.Unmarshal([]byte(out), &resp))
	assert.Equal(t, "error", resp.Status)
	require.NotNil(t, resp.Error)
	assert.Equal(t, "E202", resp.Error.Code)
	assert.Contains(t, resp.Error.Message, "9.9.9")
}
