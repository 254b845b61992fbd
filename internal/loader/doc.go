// Package loader reads Stinger interface documents from disk and turns them
// into validated specs.
//
// YAML, JSON and CUE sources are all decoded into a cue.Value, which keeps
// mapping order, so signals and args come out in declaration order no matter
// which syntax the author picked.
package loader
