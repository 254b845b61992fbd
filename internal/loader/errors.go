package loader

import (
	"fmt"
	"strings"

	cueerrors "cuelang.org/go/cue/errors"
	"cuelang.org/go/cue/token"
)

// Error codes for I/O and parse failures. Structure violations keep their
// own E2xx codes from the stinger package.
const (
	ErrCodeGeneric     = "E001" // Generic/unknown error
	ErrCodeScanError   = "E002" // Directory scan error
	ErrCodeNoFiles     = "E003" // No interface documents found
	ErrCodeLoadFailed  = "E004" // Read or parse failed
	ErrCodeNotFound    = "E005" // Path not found
	ErrCodeBuildFailed = "E006" // Document did not evaluate
	ErrCodeWriteFailed = "E007" // File write error
)

// LoadError is an I/O or parse failure for one path.
type LoadError struct {
	Code    string
	Path    string
	Message string
	Pos     token.Pos // source position if the parser reported one
}

func (e *LoadError) Error() string {
	if e.Pos.IsValid() {
		return fmt.Sprintf("%s:%d:%d: %s: %s", e.Pos.Filename(), e.Pos.Line(), e.Pos.Column(), e.Code, e.Message)
	}
	if e.Path != "" {
		return fmt.Sprintf("%s: %s: %s", e.Path, e.Code, e.Message)
	}
	return fmt.Sprintf("%s: %s", e.Code, e.Message)
}

// cueError wraps a CUE parse or evaluation error, keeping its first position.
func cueError(code, path string, err error) *LoadError {
	le := &LoadError{Code: code, Path: path, Message: strings.TrimSpace(err.Error())}
	if positions := cueerrors.Positions(err); len(positions) > 0 {
		le.Pos = positions[0]
	}
	return le
}
