package stinger

import (
	"fmt"
	"strings"

	"cuelang.org/go/cue/token"
)

// ArgType is the primitive value kind of a signal argument.
type ArgType int

const (
	Boolean ArgType = iota + 1
	Integer
	Float
	String
)

var argTypeNames = map[ArgType]string{
	Boolean: "boolean",
	Integer: "integer",
	Float:   "float",
	String:  "string",
}

// ArgTypes lists every ArgType in declaration order.
func ArgTypes() []ArgType {
	return []ArgType{Boolean, Integer, Float, String}
}

// ParseArgType resolves a case-insensitive token such as "boolean" or
// "INTEGER". Unknown tokens fail with CodeUnknownArgType; there is no default.
func ParseArgType(s string) (ArgType, error) {
	return parseArgType(s, "", noPos)
}

func parseArgType(tok, path string, pos token.Pos) (ArgType, error) {
	for _, t := range ArgTypes() {
		if strings.EqualFold(tok, argTypeNames[t]) {
			return t, nil
		}
	}
	return 0, newError(CodeUnknownArgType, path, pos, "no ArgType called %q", tok)
}

// String returns the lowercase token of the type.
func (t ArgType) String() string {
	if name, ok := argTypeNames[t]; ok {
		return name
	}
	return fmt.Sprintf("ArgType(%d)", int(t))
}

// Valid reports whether t is a member of the closed set.
func (t ArgType) Valid() bool {
	_, ok := argTypeNames[t]
	return ok
}

// MarshalText implements encoding.TextMarshaler.
func (t ArgType) MarshalText() ([]byte, error) {
	if !t.Valid() {
		return nil, fmt.Errorf("marshal %s: not a valid arg type", t)
	}
	return []byte(t.String()), nil
}

// UnmarshalText implements encoding.TextUnmarshaler.
func (t *ArgType) UnmarshalText(text []byte) error {
	parsed, err := ParseArgType(string(text))
	if err != nil {
		return err
	}
	*t = parsed
	return nil
}

// PythonType returns the Python annotation for values of t.
func (t ArgType) PythonType() string {
	switch t {
	case Boolean:
		return "bool"
	case Integer:
		return "int"
	case Float:
		return "float"
	case String:
		return "str"
	}
	return "object"
}

// RustType returns the Rust type of values of t.
func (t ArgType) RustType() string {
	switch t {
	case Boolean:
		return "bool"
	case Integer:
		return "i64"
	case Float:
		return "f32"
	case String:
		return "String"
	}
	return "json::JsonValue"
}

// JSONType returns the JSON Schema type keyword for values of t.
func (t ArgType) JSONType() string {
	switch t {
	case Boolean:
		return "boolean"
	case Integer:
		return "integer"
	case Float:
		return "number"
	case String:
		return "string"
	}
	return ""
}
