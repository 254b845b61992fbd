package cli

import (
	"bytes"
	"os"
	"path/filepath"
	"testing"

	"github.com/spf13/cobra"
	"github.com/stretchr/testify/require"
)

const lightsYAML = `stingeripc: "0.0.2"
interface:
  name: Lights
  version: "1.0"
signals:
  stateChanged:
    args:
      on: {type: boolean}
      level: {type: integer}
  telemetry:
    schema:
      type: object
`

const fanJSON = `{
  "stingeripc": "0.0.2",
  "interface": {"name": "Fan", "version": "2"},
  "signals": {"spin": {"args": {"rpm": {"type": "integer"}}}}
}`

const brokenYAML = `stingeripc: "0.0.2"
interface: {name: Broken, version: "1"}
signals:
  both:
    args: {}
    schema: {}
  untyped:
    args:
      x: {description: no type}
`

func writeDoc(t *testing.T, dir, name, content string) string {
	t.Helper()
	path := filepath.Join(dir, name)
	require.NoError(t, os.MkdirAll(filepath.Dir(path), 0o755))
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

// specsDir returns a directory holding the Lights and Fan documents.
func specsDir(t *testing.T) string {
	t.Helper()
	dir := t.TempDir()
	writeDoc(t, dir, "lights.yaml", lightsYAML)
	writeDoc(t, dir, "fan.json", fanJSON)
	return dir
}

// execute runs cmd with args and returns stdout.
func execute(t *testing.T, cmd *cobra.Command, args ...string) (string, error) {
	t.Helper()
	out := &bytes.Buffer{}
	cmd.SetOut(out)
	cmd.SetErr(&bytes.Buffer{})
	cmd.SetArgs(args)
	err := cmd.Execute()
	return out.String(), err
}
