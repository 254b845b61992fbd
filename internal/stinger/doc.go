// Package stinger models a validated Stinger interface description.
//
// A Stinger document declares one interface (name and version), the document
// format it is written in, and the signals the interface emits. Each signal
// carries its payload either as an ordered list of typed arguments or as an
// opaque schema:
//
//	stingeripc: "0.0.2"
//	interface: { name: "Lights", version: "1.0" }
//	signals: {
//		stateChanged: { args: { on: { type: "boolean" } } }
//	}
//
// Documents arrive as CUE values, which keep the source order of mapping
// keys. Argument order is the payload encoding order, so it must survive
// parsing. FromValue turns such a value into a Spec or fails with a
// *StructureError. Every structure error matches ErrInvalidStructure.
//
// Specs can also be assembled by hand with New, NewSignalBuilder and
// AddSignal.
//
// # Concurrency
//
// Nothing here locks. A Spec returned by FromValue is expected to stay
// read-only and can be shared by any number of readers. Callers that use
// AddSignal must not do so while other goroutines read the Spec.
package stinger
