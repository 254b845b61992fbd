package stinger

import (
	"cuelang.org/go/cue"
)

// Arg is one named, typed signal parameter.
type Arg struct {
	name           string
	typ            ArgType
	description    string
	hasDescription bool
}

// NewArg creates an argument without a description.
func NewArg(name string, t ArgType) Arg {
	return Arg{name: name, typ: t}
}

// WithDescription returns a copy of a with the description set.
func (a Arg) WithDescription(desc string) Arg {
	a.description = desc
	a.hasDescription = true
	return a
}

// Name returns the argument name.
func (a Arg) Name() string { return a.name }

// Type returns the argument type.
func (a Arg) Type() ArgType { return a.typ }

// Description returns the description and whether one was set.
func (a Arg) Description() (string, bool) {
	return a.description, a.hasDescription
}

// ArgFromValue builds an Arg from its raw document, e.g. {type: "integer"}.
//
// A 'type' key is required. A 'description' is attached only when it is a
// string; other description values are ignored.
func ArgFromValue(name string, v cue.Value) (Arg, error) {
	if !isStruct(v) {
		return Arg{}, newError(CodeInvalidArgStructure, name, v.Pos(),
			"arg structure must be a mapping, got %s", kindOf(v))
	}

	typeVal := lookup(v, "type")
	if !typeVal.Exists() {
		return Arg{}, newError(CodeMissingField, name, v.Pos(), "no 'type' in arg structure")
	}
	if !typeVal.IsConcrete() {
		return Arg{}, newError(CodeUnknownArgType, joinPath(name, "type"), typeVal.Pos(),
			"arg type must be a concrete string token, got %s", kindOf(typeVal))
	}
	token, err := typeVal.String()
	if err != nil {
		return Arg{}, newError(CodeUnknownArgType, joinPath(name, "type"), typeVal.Pos(),
			"arg type must be a string, got %s", kindOf(typeVal))
	}
	t, err := parseArgType(token, joinPath(name, "type"), typeVal.Pos())
	if err != nil {
		return Arg{}, err
	}

	arg := NewArg(name, t)
	if desc := lookup(v, "description"); desc.Exists() && desc.Kind() == cue.StringKind {
		s, err := desc.String()
		if err == nil {
			arg = arg.WithDescription(s)
		}
	}
	return arg, nil
}
