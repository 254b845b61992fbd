package loader

import (
	"bytes"
	"errors"
	"log/slog"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/roach88/stingeripc/internal/stinger"
)

const lightsYAML = `stingeripc: "0.0.2"
interface:
  name: Lights
  version: "1.0"
signals:
  stateChanged:
    args:
      on:
        type: boolean
        description: true when lit
      brightness:
        type: integer
`

const lightsJSON = `{
  "stingeripc": "0.0.2",
  "interface": {"name": "Lights", "version": "1.0"},
  "signals": {
    "stateChanged": {"args": {"on": {"type": "boolean"}, "brightness": {"type": "integer"}}}
  }
}`

const lightsCUE = `stingeripc: "0.0.2"
interface: {name: "Lights", version: "1.0"}
signals: stateChanged: args: {
	on: type:         "boolean"
	brightness: type: "integer"
}
`

func writeFile(t *testing.T, dir, name, content string) string {
	t.Helper()
	path := filepath.Join(dir, name)
	require.NoError(t, os.MkdirAll(filepath.Dir(path), 0o755))
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

func TestLoadFormats(t *testing.T) {
	tests := []struct {
		name    string
		file    string
		content string
	}{
		{"yaml", "lights.yaml", lightsYAML},
		{"yml", "lights.yml", lightsYAML},
		{"json", "lights.json", lightsJSON},
		{"cue", "lights.cue", lightsCUE},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			path := writeFile(t, t.TempDir(), tt.file, tt.content)

			spec, err := Load(path, Options{})
			require.NoError(t, err)

			assert.Equal(t, "Lights", spec.Name())
			assert.Equal(t, "1.0", spec.Version())
			sig, ok := spec.Signal("stateChanged")
			require.True(t, ok)
			assert.Equal(t, "Lights/signal/stateChanged", sig.EmitTopic())

			args := sig.Args()
			require.Len(t, args, 2)
			assert.Equal(t, "on", args[0].Name(), "declaration order is kept")
			assert.Equal(t, stinger.Boolean, args[0].Type())
			assert.Equal(t, "brightness", args[1].Name())
			assert.Equal(t, stinger.Integer, args[1].Type())
		})
	}
}

func TestLoadTopicRoot(t *testing.T) {
	path := writeFile(t, t.TempDir(), "lights.yaml", lightsYAML)

	spec, err := Load(path, Options{TopicRoot: "home"})
	require.NoError(t, err)

	assert.Equal(t, "home/Lights/interface", spec.InterfaceInfoTopic())
	sig, _ := spec.Signal("stateChanged")
	assert.Equal(t, "home/Lights/signal/stateChanged", sig.EmitTopic())
}

func TestLoadDescription(t *testing.T) {
	path := writeFile(t, t.TempDir(), "lights.yaml", lightsYAML)

	spec, err := Load(path, Options{})
	require.NoError(t, err)

	sig, _ := spec.Signal("stateChanged")
	desc, ok := sig.Args()[0].Description()
	assert.True(t, ok)
	assert.Equal(t, "true when lit", desc)
}

func TestLoadUnsupportedFormat(t *testing.T) {
	path := writeFile(t, t.TempDir(), "future.yaml", `stingeripc: "9.9.9"
interface: {name: Lights, version: "1.0"}
`)

	_, err := Load(path, Options{})
	require.Error(t, err)
	assert.True(t, errors.Is(err, stinger.ErrInvalidStructure))
	assert.Equal(t, stinger.CodeUnsupportedFormatVersion, stinger.CodeOf(err))
	assert.Contains(t, err.Error(), "9.9.9")
	assert.Contains(t, err.Error(), "future.yaml", "error carries the source position")
}

func TestLoadErrors(t *testing.T) {
	dir := t.TempDir()

	tests := []struct {
		name string
		path string
		code string
	}{
		{"missing file", filepath.Join(dir, "nope.yaml"), ErrCodeNotFound},
		{"bad yaml", writeFile(t, dir, "bad.yaml", "interface: [unclosed\n"), ErrCodeLoadFailed},
		{"bad json", writeFile(t, dir, "bad.json", `{"interface": `), ErrCodeLoadFailed},
		{"bad cue", writeFile(t, dir, "bad.cue", "a: 1\na: 2\n"), ErrCodeBuildFailed},
		{"unknown extension", writeFile(t, dir, "lights.toml", "x = 1"), ErrCodeLoadFailed},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Load(tt.path, Options{})
			require.Error(t, err)

			var le *LoadError
			require.True(t, errors.As(err, &le), "got %T: %v", err, err)
			assert.Equal(t, tt.code, le.Code)
			assert.False(t, errors.Is(err, stinger.ErrInvalidStructure))
		})
	}
}

func TestLoadStructureErrorPassThrough(t *testing.T) {
	path := writeFile(t, t.TempDir(), "broken.yaml", `stingeripc: "0.0.2"
interface: {name: A, version: "1"}
signals:
  s:
    args: {}
    schema: {}
`)

	_, err := Load(path, Options{})
	require.Error(t, err)

	var se *stinger.StructureError
	require.True(t, errors.As(err, &se))
	assert.Equal(t, stinger.CodeConflictingPayloadSpec, se.Code)
	assert.Equal(t, "signals.s", se.Path)
}

func TestLoadIncompleteCueSchema(t *testing.T) {
	path := writeFile(t, t.TempDir(), "telemetry.cue", `stingeripc: "0.0.2"
interface: {name: "Meter", version: "1"}
signals: telemetry: schema: {type: "object", level: int}
`)

	spec, err := Load(path, Options{})
	require.Error(t, err)
	assert.Nil(t, spec)

	var se *stinger.StructureError
	require.True(t, errors.As(err, &se))
	assert.Equal(t, stinger.CodeInvalidSignalStructure, se.Code)
	assert.Equal(t, "signals.telemetry.schema", se.Path)
}

func TestLoadAllDirectory(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, dir, "b/lights.yaml", lightsYAML)
	writeFile(t, dir, "a/fan.json", `{
		"stingeripc": "0.0.2",
		"interface": {"name": "Fan", "version": "2"},
		"signals": {"spin": {"args": {"rpm": {"type": "integer"}}}}
	}`)
	writeFile(t, dir, "stinger.config.yaml", "topic_root: home\n")
	writeFile(t, dir, ".hidden/ignored.yaml", "not: [valid\n")
	writeFile(t, dir, "README.md", "# not a document")

	result, errs := LoadAll(dir, ModeCollectAll, Options{})
	require.Empty(t, errs)
	require.Len(t, result.Specs, 2)

	assert.Equal(t, "Fan", result.Specs[0].Name(), "lexical walk order")
	assert.Equal(t, "Lights", result.Specs[1].Name())
	assert.Equal(t, filepath.Join(dir, "a/fan.json"), result.Files[0])
}

func TestLoadAllSingleFile(t *testing.T) {
	path := writeFile(t, t.TempDir(), "lights.cue", lightsCUE)

	result, errs := LoadAll(path, ModeFailFast, Options{})
	require.Empty(t, errs)
	require.Len(t, result.Specs, 1)
	assert.Equal(t, []string{path}, result.Files)
}

func TestLoadAllModes(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, dir, "1-bad.yaml", `stingeripc: "0.0.2"
interface: {name: Bad}
`)
	writeFile(t, dir, "2-worse.yaml", `stingeripc: "0.0.1"
interface: {name: Worse, version: "1"}
`)
	writeFile(t, dir, "3-lights.yaml", lightsYAML)

	t.Run("fail fast", func(t *testing.T) {
		result, errs := LoadAll(dir, ModeFailFast, Options{})
		require.Len(t, errs, 1)
		assert.Equal(t, stinger.CodeMissingInterfaceProperty, stinger.CodeOf(errs[0]))
		assert.Empty(t, result.Specs)
	})

	t.Run("collect all", func(t *testing.T) {
		result, errs := LoadAll(dir, ModeCollectAll, Options{})
		require.Len(t, errs, 2)
		assert.Equal(t, stinger.CodeMissingInterfaceProperty, stinger.CodeOf(errs[0]))
		assert.Equal(t, stinger.CodeUnsupportedFormatVersion, stinger.CodeOf(errs[1]))
		require.Len(t, result.Specs, 1)
		assert.Equal(t, "Lights", result.Specs[0].Name())
	})
}

func TestLoadAllDuplicateName(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, dir, "a.yaml", lightsYAML)
	writeFile(t, dir, "b.json", lightsJSON)

	result, errs := LoadAll(dir, ModeCollectAll, Options{})
	require.Len(t, errs, 1)
	assert.Contains(t, errs[0].Error(), "duplicate interface")
	assert.Len(t, result.Specs, 1)
}

func TestLoadAllEmptyAndMissing(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, dir, "notes.txt", "hello")

	_, errs := LoadAll(dir, ModeCollectAll, Options{})
	require.Len(t, errs, 1)
	var le *LoadError
	require.True(t, errors.As(errs[0], &le))
	assert.Equal(t, ErrCodeNoFiles, le.Code)

	_, errs = LoadAll(filepath.Join(dir, "missing"), ModeCollectAll, Options{})
	require.Len(t, errs, 1)
	require.True(t, errors.As(errs[0], &le))
	assert.Equal(t, ErrCodeNotFound, le.Code)
}

func TestLoadLogsDebug(t *testing.T) {
	path := writeFile(t, t.TempDir(), "lights.yaml", lightsYAML)

	var buf bytes.Buffer
	logger := slog.New(slog.NewTextHandler(&buf, &slog.HandlerOptions{Level: slog.LevelDebug}))

	_, err := Load(path, Options{Logger: logger})
	require.NoError(t, err)
	assert.Contains(t, buf.String(), "interface loaded")
	assert.Contains(t, buf.String(), "interface=Lights")
}

func TestLoadErrorFormat(t *testing.T) {
	err := &LoadError{Code: ErrCodeNotFound, Path: "x.yaml", Message: "file not found"}
	assert.Equal(t, "x.yaml: E005: file not found", err.Error())

	err = &LoadError{Code: ErrCodeGeneric, Message: "boom"}
	assert.Equal(t, "E001: boom", err.Error())
}
