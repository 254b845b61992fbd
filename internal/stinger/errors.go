package stinger

import (
	"errors"
	"fmt"

	"cuelang.org/go/cue/token"
)

// ErrInvalidStructure is matched by every *StructureError via errors.Is.
var ErrInvalidStructure = errors.New("invalid stinger structure")

// Code identifies the kind of structural violation.
type Code string

// Structure error codes (E200-E299).
const (
	CodeInvalidDocument           Code = "E200" // document root is not a mapping
	CodeMissingFormatVersion      Code = "E201" // no 'stingeripc' field
	CodeUnsupportedFormatVersion  Code = "E202" // format version not in the compatibility table
	CodeMissingInterfaceProperty  Code = "E203" // interface, interface.name or interface.version absent
	CodeInvalidInterfaceStructure Code = "E204" // interface has the wrong shape
	CodeInvalidSignalStructure    Code = "E205" // signals or a signal has the wrong shape
	CodeConflictingPayloadSpec    Code = "E206" // both 'args' and 'schema'
	CodeMissingPayloadSpec        Code = "E207" // neither 'args' nor 'schema'
	CodeMissingField              Code = "E208" // required field absent (arg 'type')
	CodeUnknownArgType            Code = "E209" // arg type token not recognised
	CodeInvalidArgStructure       Code = "E210" // arg document is not a mapping
	CodeInvalidName               Code = "E211" // empty interface, signal or arg name
	CodeDuplicateArg              Code = "E212" // arg name repeated within a signal
)

// StructureError reports a structural violation in a Stinger document or in a
// manually assembled Spec.
type StructureError struct {
	Code    Code
	Path    string // dotted location, e.g. "signals.stateChanged.args.on"
	Message string
	Pos     token.Pos
}

func (e *StructureError) Error() string {
	var prefix string
	if e.Pos.IsValid() {
		prefix = fmt.Sprintf("%s:%d:%d: ", e.Pos.Filename(), e.Pos.Line(), e.Pos.Column())
	}
	if e.Path == "" {
		return fmt.Sprintf("%s[%s] %s", prefix, e.Code, e.Message)
	}
	return fmt.Sprintf("%s[%s] %s: %s", prefix, e.Code, e.Path, e.Message)
}

// Is reports whether target is ErrInvalidStructure.
func (e *StructureError) Is(target error) bool {
	return target == ErrInvalidStructure
}

// CodeOf returns the code of the first *StructureError in err's chain, or ""
// if there is none.
func CodeOf(err error) Code {
	var se *StructureError
	if errors.As(err, &se) {
		return se.Code
	}
	return ""
}

func newError(code Code, path string, pos token.Pos, format string, args ...any) *StructureError {
	return &StructureError{
		Code:    code,
		Path:    path,
		Message: fmt.Sprintf(format, args...),
		Pos:     pos,
	}
}

// withPath prefixes the path of a structure error. Other errors are returned
// unchanged.
func withPath(err error, prefix string) error {
	var se *StructureError
	if !errors.As(err, &se) {
		return err
	}
	out := *se
	out.Path = joinPath(prefix, se.Path)
	return &out
}

func joinPath(prefix, path string) string {
	switch {
	case prefix == "":
		return path
	case path == "":
		return prefix
	default:
		return prefix + "." + path
	}
}
