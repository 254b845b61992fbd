// Package topic derives the wire-level topic strings of a Stinger interface.
//
// Topics are hierarchical, '/'-separated addresses:
//
//	[<root>/]<interface>/interface          interface info topic
//	[<root>/]<interface>/signal/<signal>    signal emission topic
//
// Creators are pure functions of the root and the names given at
// construction. They hold no mutable state and are safe to share across
// goroutines and across all signals of one interface.
//
// Segment contents are not validated here. Callers are responsible for
// passing names without separators.
package topic
