package stinger

import (
	"fmt"

	"cuelang.org/go/cue"
	"cuelang.org/go/cue/token"
)

var noPos token.Pos

// lookup returns the field key of v. The key is used verbatim, so names
// that are not valid CUE identifiers work too.
func lookup(v cue.Value, key string) cue.Value {
	return v.LookupPath(cue.MakePath(cue.Str(key)))
}

func isStruct(v cue.Value) bool {
	return v.Exists() && v.IncompleteKind() == cue.StructKind
}

func kindOf(v cue.Value) string {
	if !v.Exists() {
		return "nothing"
	}
	return v.IncompleteKind().String()
}

// field is one regular field of a struct value, in source order.
type field struct {
	name  string
	value cue.Value
}

// fields returns the regular fields of v in source order.
func fields(v cue.Value) ([]field, error) {
	iter, err := v.Fields()
	if err != nil {
		return nil, err
	}
	var out []field
	for iter.Next() {
		out = append(out, field{name: iter.Selector().Unquoted(), value: iter.Value()})
	}
	return out, nil
}

// scalarText renders a string or number field as text. Numbers keep their
// source spelling, so `version: 1.0` in YAML reads as "1.0".
func scalarText(v cue.Value) (string, bool) {
	switch v.Kind() {
	case cue.StringKind:
		s, err := v.String()
		return s, err == nil
	case cue.IntKind, cue.FloatKind, cue.NumberKind:
		return fmt.Sprint(v), true
	}
	return "", false
}

// fmtValue renders any value in CUE syntax for error messages.
func fmtValue(v cue.Value) string {
	return fmt.Sprint(v)
}
