// Package ir provides the serialized intermediate representation of a
// compiled Stinger interface.
//
// The IR is what code generators and the registry consume: plain data with
// snake_case JSON tags, signals in declaration order, topics already
// resolved. Every IR document carries a content-addressed spec hash computed
// over its canonical JSON form (RFC 8785 key ordering, NFC strings), so the
// same interface always hashes to the same value regardless of source file
// format or whitespace.
package ir
