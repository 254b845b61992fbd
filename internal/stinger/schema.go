package stinger

import "cuelang.org/go/cue"

// Schema wraps the raw document fragment describing a structured payload.
// The fragment is kept as-is; nothing here interprets it.
type Schema struct {
	v cue.Value
}

// NewSchema wraps v.
func NewSchema(v cue.Value) Schema {
	return Schema{v: v}
}

// Value returns the wrapped value.
func (s Schema) Value() cue.Value {
	return s.v
}

// Exists reports whether the schema wraps a value.
func (s Schema) Exists() bool {
	return s.v.Exists()
}

// Decode decodes the wrapped value into dst.
func (s Schema) Decode(dst any) error {
	return s.v.Decode(dst)
}

// MarshalJSON encodes the wrapped value, keeping its field order.
func (s Schema) MarshalJSON() ([]byte, error) {
	if !s.v.Exists() {
		return []byte("null"), nil
	}
	return s.v.MarshalJSON()
}
