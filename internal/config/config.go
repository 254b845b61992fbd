// Package config reads the optional stinger.config.yaml project file.
package config

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"gopkg.in/yaml.v3"
)

// FileName is the project config file looked up next to the interfaces.
const FileName = "stinger.config.yaml"

// Defaults used when neither a flag nor the config file sets a value.
const (
	DefaultOutputDir = "gen"
	DefaultRegistry  = "stinger.db"
)

// DefaultGenerators are the generators run by `stinger generate` when none
// are configured.
var DefaultGenerators = []string{"python"}

// Config holds project level settings.
type Config struct {
	// TopicRoot is prepended to every interface topic.
	TopicRoot string `yaml:"topic_root,omitempty"`

	// OutputDir is where generated files are written.
	OutputDir string `yaml:"output_dir,omitempty"`

	// Generators names the generators to run, in order.
	Generators []string `yaml:"generators,omitempty"`

	// Registry is the path of the SQLite registry database.
	Registry string `yaml:"registry,omitempty"`
}

// Default returns the built-in configuration.
func Default() Config {
	return Config{
		OutputDir:  DefaultOutputDir,
		Generators: append([]string(nil), DefaultGenerators...),
		Registry:   DefaultRegistry,
	}
}

// Load reads a config file. Unknown fields are rejected. Values the file
// leaves out fall back to Default().
func Load(path string) (Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return Config{}, fmt.Errorf("failed to read config file: %w", err)
	}

	var file Config
	decoder := yaml.NewDecoder(bytes.NewReader(data))
	decoder.KnownFields(true)
	if err := decoder.Decode(&file); err != nil && !errors.Is(err, io.EOF) {
		return Config{}, fmt.Errorf("failed to parse %s: %w", path, err)
	}

	if err := file.validate(); err != nil {
		return Config{}, fmt.Errorf("invalid config %s: %w", path, err)
	}

	return Default().Merge(Overrides{
		TopicRoot:  nonEmpty(file.TopicRoot),
		OutputDir:  nonEmpty(file.OutputDir),
		Generators: file.Generators,
		Registry:   nonEmpty(file.Registry),
	}), nil
}

// Find looks for FileName in dir. It returns "" if there is none.
func Find(dir string) (string, error) {
	path := filepath.Join(dir, FileName)
	_, err := os.Stat(path)
	if errors.Is(err, fs.ErrNotExist) {
		return "", nil
	}
	if err != nil {
		return "", err
	}
	return path, nil
}

func (c Config) validate() error {
	for i, g := range c.Generators {
		if strings.TrimSpace(g) == "" {
			return fmt.Errorf("generators[%d]: empty generator name", i)
		}
	}
	return nil
}

// Overrides carries explicitly set values. Nil fields leave the base value
// alone.
type Overrides struct {
	TopicRoot  *string
	OutputDir  *string
	Generators []string
	Registry   *string
}

// Merge applies o on top of c and returns the result.
func (c Config) Merge(o Overrides) Config {
	out := c
	out.Generators = append([]string(nil), c.Generators...)
	if o.TopicRoot != nil {
		out.TopicRoot = *o.TopicRoot
	}
	if o.OutputDir != nil {
		out.OutputDir = *o.OutputDir
	}
	if len(o.Generators) > 0 {
		out.Generators = append([]string(nil), o.Generators...)
	}
	if o.Registry != nil {
		out.Registry = *o.Registry
	}
	return out
}

func nonEmpty(s string) *string {
	if s == "" {
		return nil
	}
	return &s
}
