// Package generate turns validated Stinger specs into source files.
//
// Each target is a Generator. Generators are pure: they return an Output
// describing the files they would write and never touch the filesystem
// themselves. Output.WriteTo does the writing, so callers control where
// files land and tests can compare content directly.
//
// Built-in generators:
//
//	python  <Name>/server.py, a server class with one emit method per signal
//	rust    <Name>/rust/src/lib.rs and examples/server.rs, the same server as a crate
//	json    <Name>.ir.json, the canonical IR document
//
// Names that cannot be emitted as identifiers in the target language are
// rejected with ErrInvalidIdentifier. The Rust generator snake_cases method
// and parameter names; payload keys keep the document spelling.
package generate
