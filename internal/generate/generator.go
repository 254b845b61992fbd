package generate

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/roach88/stingeripc/internal/stinger"
)

// ErrUnknownGenerator is returned by Lookup for an unregistered name.
var ErrUnknownGenerator = errors.New("unknown generator")

// Generator produces files for one target from a spec.
type Generator interface {
	// Metadata returns information about this generator.
	Metadata() Metadata

	// Generate produces the files for spec. It does not write them.
	Generate(ctx context.Context, spec *stinger.Spec, cfg Config) (*Output, error)
}

// Metadata describes a generator.
type Metadata struct {
	// Name is the short identifier used on the command line.
	Name string

	// Version is the generator version.
	Version string

	// Description is a human-readable description.
	Description string

	// FileExtensions lists the extensions of the files it writes.
	FileExtensions []string
}

// Config controls a single generation run.
type Config struct {
	// Header adds the "do not modify" banner to generated sources.
	Header bool

	// Logger receives debug events; nil means slog.Default().
	Logger *slog.Logger
}

func (c Config) logger() *slog.Logger {
	if c.Logger != nil {
		return c.Logger
	}
	return slog.Default()
}

// File is one generated file. Path is relative and slash separated.
type File struct {
	Path    string
	Content []byte
}

// Output is the result of a generation run.
type Output struct {
	Files []File
}

// WriteTo writes every file under dir, creating directories as needed, and
// returns the written paths.
func (o *Output) WriteTo(dir string) ([]string, error) {
	written := make([]string, 0, len(o.Files))
	for _, f := range o.Files {
		if f.Path == "" || filepath.IsAbs(f.Path) || strings.HasPrefix(filepath.Clean(f.Path), "..") {
			return written, fmt.Errorf("refusing to write %q outside %s", f.Path, dir)
		}
		path := filepath.Join(dir, filepath.FromSlash(f.Path))
		if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
			return written, fmt.Errorf("create directory for %s: %w", f.Path, err)
		}
		if err := os.WriteFile(path, f.Content, 0o644); err != nil {
			return written, fmt.Errorf("write %s: %w", f.Path, err)
		}
		written = append(written, path)
	}
	return written, nil
}

// Builtin returns a fresh instance of every built-in generator.
func Builtin() []Generator {
	return []Generator{NewPython(), NewRust(), NewJSON()}
}

// Lookup returns the built-in generator called name.
func Lookup(name string) (Generator, error) {
	for _, g := range Builtin() {
		if g.Metadata().Name == name {
			return g, nil
		}
	}
	return nil, fmt.Errorf("%w %q (available: %s)", ErrUnknownGenerator, name, strings.Join(Names(), ", "))
}

// Names returns the built-in generator names, sorted.
func Names() []string {
	var names []string
	for _, g := range Builtin() {
		names = append(names, g.Metadata().Name)
	}
	sort.Strings(names)
	return names
}
