package loader

import (
	"errors"
	"fmt"
	"io/fs"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	"cuelang.org/go/cue"
	"cuelang.org/go/cue/cuecontext"
	cuejson "cuelang.org/go/encoding/json"
	cueyaml "cuelang.org/go/encoding/yaml"

	"github.com/roach88/stingeripc/internal/stinger"
	"github.com/roach88/stingeripc/internal/topic"
)

// Mode controls how errors are handled by LoadAll.
type Mode int

const (
	// ModeFailFast stops on the first error encountered.
	ModeFailFast Mode = iota
	// ModeCollectAll collects all errors before returning.
	ModeCollectAll
)

// Options configures how documents become specs.
type Options struct {
	// TopicRoot is prepended to every topic. Empty means no root.
	TopicRoot string
	// Logger receives debug events; nil means slog.Default().
	Logger *slog.Logger
}

func (o Options) logger() *slog.Logger {
	if o.Logger != nil {
		return o.Logger
	}
	return slog.Default()
}

// Result is the outcome of LoadAll.
type Result struct {
	Specs []*stinger.Spec
	Files []string // one entry per spec, same order
}

// Extensions lists the file extensions recognised as interface documents.
var Extensions = []string{".yaml", ".yml", ".json", ".cue"}

// IsDocument reports whether path has an interface document extension.
func IsDocument(path string) bool {
	ext := strings.ToLower(filepath.Ext(path))
	for _, e := range Extensions {
		if ext == e {
			return true
		}
	}
	return false
}

// ReadFile decodes a YAML, JSON or CUE file into a CUE value.
func ReadFile(path string) (cue.Value, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return cue.Value{}, &LoadError{Code: ErrCodeNotFound, Path: path, Message: "file not found"}
		}
		return cue.Value{}, &LoadError{Code: ErrCodeLoadFailed, Path: path, Message: err.Error()}
	}
	return decode(cuecontext.New(), path, data)
}

func decode(ctx *cue.Context, path string, data []byte) (cue.Value, error) {
	var v cue.Value
	switch strings.ToLower(filepath.Ext(path)) {
	case ".yaml", ".yml":
		f, err := cueyaml.Extract(path, data)
		if err != nil {
			return cue.Value{}, cueError(ErrCodeLoadFailed, path, err)
		}
		v = ctx.BuildFile(f)
	case ".json":
		expr, err := cuejson.Extract(path, data)
		if err != nil {
			return cue.Value{}, cueError(ErrCodeLoadFailed, path, err)
		}
		v = ctx.BuildExpr(expr)
	case ".cue":
		v = ctx.CompileBytes(data, cue.Filename(path))
	default:
		return cue.Value{}, &LoadError{
			Code:    ErrCodeLoadFailed,
			Path:    path,
			Message: fmt.Sprintf("unsupported file extension %q (want one of %s)", filepath.Ext(path), strings.Join(Extensions, ", ")),
		}
	}
	if err := v.Validate(); err != nil {
		return cue.Value{}, cueError(ErrCodeBuildFailed, path, err)
	}
	return v, nil
}

// Load reads one interface document and validates it.
//
// The interface name is read ahead of validation so the topic creator can be
// rooted at opts.TopicRoot. Structure errors are returned unchanged and
// match stinger.ErrInvalidStructure.
func Load(path string, opts Options) (*stinger.Spec, error) {
	log := opts.logger()

	v, err := ReadFile(path)
	if err != nil {
		return nil, err
	}
	log.Debug("document read", "path", path)

	spec, err := FromValue(v, opts)
	if err != nil {
		return nil, err
	}
	log.Debug("interface loaded",
		"path", path,
		"interface", spec.Name(),
		"signals", spec.Len(),
	)
	return spec, nil
}

// FromValue validates an already decoded document with the topic root from
// opts.
func FromValue(v cue.Value, opts Options) (*stinger.Spec, error) {
	var tc *topic.InterfaceCreator
	if name, ok := peekInterfaceName(v); ok {
		tc = topic.NewInterfaceCreator(name, opts.TopicRoot)
	}
	// With no readable name, validation fails before a creator is needed.
	return stinger.FromValue(tc, v)
}

func peekInterfaceName(v cue.Value) (string, bool) {
	name, err := v.LookupPath(cue.ParsePath("interface.name")).String()
	if err != nil || strings.TrimSpace(name) == "" {
		return "", false
	}
	return name, true
}

// LoadAll loads a single document or every document under a directory.
//
// Directories are walked recursively in lexical order; hidden directories
// are skipped, as are files without a top-level "stingeripc" key (project
// config and unrelated data files). An explicitly named file is always
// validated. Interface names must be unique across the loaded set.
//
// In ModeFailFast the first error stops the walk. In ModeCollectAll every
// document is tried and all errors are returned alongside the specs that
// did load.
func LoadAll(path string, mode Mode, opts Options) (*Result, []error) {
	log := opts.logger()

	info, err := os.Stat(path)
	if errors.Is(err, fs.ErrNotExist) {
		return nil, []error{&LoadError{Code: ErrCodeNotFound, Path: path, Message: "path not found"}}
	}
	if err != nil {
		return nil, []error{&LoadError{Code: ErrCodeNotFound, Path: path, Message: fmt.Sprintf("error accessing path: %v", err)}}
	}

	if !info.IsDir() {
		spec, err := Load(path, opts)
		if err != nil {
			return nil, []error{err}
		}
		return &Result{Specs: []*stinger.Spec{spec}, Files: []string{path}}, nil
	}

	files, err := FindDocuments(path)
	if err != nil {
		return nil, []error{&LoadError{Code: ErrCodeScanError, Path: path, Message: fmt.Sprintf("error scanning directory: %v", err)}}
	}
	if len(files) == 0 {
		return nil, []error{&LoadError{Code: ErrCodeNoFiles, Path: path, Message: fmt.Sprintf("no interface documents found in %s", path)}}
	}

	result := &Result{}
	seen := make(map[string]string)
	var errs []error
	for _, file := range files {
		v, err := ReadFile(file)
		if err != nil {
			errs = append(errs, err)
			if mode == ModeFailFast {
				return result, errs
			}
			continue
		}
		if !v.LookupPath(cue.MakePath(cue.Str(stinger.FormatVersionKey))).Exists() {
			log.Debug("skipping non-interface document", "path", file)
			continue
		}

		spec, err := FromValue(v, opts)
		if err == nil {
			if prev, dup := seen[spec.Name()]; dup {
				err = &LoadError{
					Code:    ErrCodeGeneric,
					Path:    file,
					Message: fmt.Sprintf("duplicate interface %q (also defined in %s)", spec.Name(), prev),
				}
			}
		}
		if err != nil {
			errs = append(errs, err)
			if mode == ModeFailFast {
				return result, errs
			}
			continue
		}

		seen[spec.Name()] = file
		result.Specs = append(result.Specs, spec)
		result.Files = append(result.Files, file)
		log.Debug("interface loaded", "path", file, "interface", spec.Name(), "signals", spec.Len())
	}

	if len(result.Specs) == 0 && len(errs) == 0 {
		errs = append(errs, &LoadError{Code: ErrCodeNoFiles, Path: path, Message: fmt.Sprintf("no interface documents found in %s", path)})
	}
	return result, errs
}

// FindDocuments walks dir and returns every interface document path in
// lexical order, skipping hidden directories.
func FindDocuments(dir string) ([]string, error) {
	var files []string
	err := filepath.WalkDir(dir, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if d.IsDir() {
			if path != dir && strings.HasPrefix(d.Name(), ".") {
				return filepath.SkipDir
			}
			return nil
		}
		if IsDocument(path) {
			files = append(files, path)
		}
		return nil
	})
	return files, err
}
