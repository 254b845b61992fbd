package stinger

import (
	"strings"

	"cuelang.org/go/cue"

	"github.com/roach88/stingeripc/internal/topic"
)

// Spec is a validated Stinger interface: its identity, its format and its
// signals, kept in insertion order.
type Spec struct {
	name          string
	version       string
	formatVersion string
	topics        *topic.InterfaceCreator

	signals map[string]*Signal
	order   []string
}

// New creates an empty Spec from already-typed values. The name must be
// non-empty; nothing else is validated. A nil creator is replaced by one
// rooted at the interface name with no global root.
func New(name, version string, tc *topic.InterfaceCreator) (*Spec, error) {
	if strings.TrimSpace(name) == "" {
		return nil, newError(CodeInvalidName, "interface.name", noPos, "interface name must be non-empty")
	}
	if tc == nil {
		tc = topic.NewInterfaceCreator(name, "")
	}
	return &Spec{
		name:          name,
		version:       version,
		formatVersion: CurrentFormatVersion,
		topics:        tc,
		signals:       make(map[string]*Signal),
	}, nil
}

// Name returns the interface name.
func (s *Spec) Name() string { return s.name }

// Version returns the free-form interface version.
func (s *Spec) Version() string { return s.version }

// FormatVersion returns the document format the spec was read from.
func (s *Spec) FormatVersion() string { return s.formatVersion }

// TopicCreator returns the interface topic creator.
func (s *Spec) TopicCreator() *topic.InterfaceCreator { return s.topics }

// InterfaceInfoTopic returns the interface's info topic.
func (s *Spec) InterfaceInfoTopic() string { return s.topics.InterfaceInfoTopic() }

// AddSignal registers sig under its name. A signal with the same name is
// replaced in place, keeping its original position, and replaced is true.
func (s *Spec) AddSignal(sig *Signal) (replaced bool) {
	if _, ok := s.signals[sig.name]; ok {
		replaced = true
	} else {
		s.order = append(s.order, sig.name)
	}
	s.signals[sig.name] = sig
	return replaced
}

// Signal looks a signal up by name.
func (s *Spec) Signal(name string) (*Signal, bool) {
	sig, ok := s.signals[name]
	return sig, ok
}

// Signals returns the signals in insertion order.
func (s *Spec) Signals() []*Signal {
	out := make([]*Signal, 0, len(s.order))
	for _, name := range s.order {
		out = append(out, s.signals[name])
	}
	return out
}

// SignalNames returns the signal names in insertion order.
func (s *Spec) SignalNames() []string {
	return append([]string(nil), s.order...)
}

// Len returns the number of signals.
func (s *Spec) Len() int { return len(s.order) }

// FromValue validates a raw Stinger document and builds the Spec.
//
// The document must carry a supported 'stingeripc' format version and an
// 'interface' mapping with 'name' and 'version'. 'signals' is optional;
// when present every entry must be a signal mapping. The first violation
// aborts construction.
//
// A nil tc is replaced by a creator rooted at the document's interface name.
func FromValue(tc *topic.InterfaceCreator, v cue.Value) (*Spec, error) {
	if err := v.Err(); err != nil {
		return nil, newError(CodeInvalidDocument, "", v.Pos(), "%v", err)
	}
	if !isStruct(v) {
		return nil, newError(CodeInvalidDocument, "", v.Pos(),
			"stinger document must be a mapping, got %s", kindOf(v))
	}

	formatVal := lookup(v, FormatVersionKey)
	if !formatVal.Exists() {
		return nil, newError(CodeMissingFormatVersion, "", v.Pos(),
			"missing %q format version", FormatVersionKey)
	}
	format, err := formatVersion(formatVal)
	if err != nil {
		return nil, err
	}

	name, version, err := interfaceIdentity(v)
	if err != nil {
		return nil, err
	}

	if tc == nil {
		tc = topic.NewInterfaceCreator(name, "")
	}
	spec, err := New(name, version, tc)
	if err != nil {
		return nil, err
	}
	spec.formatVersion = format

	signalsVal := lookup(v, "signals")
	if !signalsVal.Exists() {
		return spec, nil
	}
	if !isStruct(signalsVal) {
		return nil, newError(CodeInvalidSignalStructure, "signals", signalsVal.Pos(),
			"'signals' must be a mapping of signal name to signal structure, got %s", kindOf(signalsVal))
	}
	signalFields, err := fields(signalsVal)
	if err != nil {
		return nil, newError(CodeInvalidSignalStructure, "signals", signalsVal.Pos(), "%v", err)
	}
	for _, f := range signalFields {
		path := "signals." + f.name
		if !isStruct(f.value) {
			return nil, newError(CodeInvalidSignalStructure, path, f.value.Pos(),
				"signal %q must be a mapping, got %s", f.name, kindOf(f.value))
		}
		sig, err := SignalFromValue(tc.SignalCreator(), f.name, f.value)
		if err != nil {
			return nil, withPath(err, path)
		}
		spec.AddSignal(sig)
	}

	return spec, nil
}

// interfaceIdentity reads interface.name and interface.version.
func interfaceIdentity(v cue.Value) (name, version string, err error) {
	iface := lookup(v, "interface")
	if !iface.Exists() {
		return "", "", newError(CodeMissingInterfaceProperty, "interface", v.Pos(),
			"missing interface property: 'interface'")
	}
	if !isStruct(iface) {
		return "", "", newError(CodeInvalidInterfaceStructure, "interface", iface.Pos(),
			"interface didn't appear to have a correct type: got %s", kindOf(iface))
	}

	nameVal := lookup(iface, "name")
	if !nameVal.Exists() {
		return "", "", newError(CodeMissingInterfaceProperty, "interface.name", iface.Pos(),
			"missing interface property: 'name'")
	}
	versionVal := lookup(iface, "version")
	if !versionVal.Exists() {
		return "", "", newError(CodeMissingInterfaceProperty, "interface.version", iface.Pos(),
			"missing interface property: 'version'")
	}

	if nameVal.Kind() != cue.StringKind {
		return "", "", newError(CodeInvalidInterfaceStructure, "interface.name", nameVal.Pos(),
			"interface name must be a string, got %s", kindOf(nameVal))
	}
	name, _ = nameVal.String()
	if strings.TrimSpace(name) == "" {
		return "", "", newError(CodeInvalidInterfaceStructure, "interface.name", nameVal.Pos(),
			"interface name must be non-empty")
	}

	version, ok := scalarText(versionVal)
	if !ok {
		return "", "", newError(CodeInvalidInterfaceStructure, "interface.version", versionVal.Pos(),
			"interface version must be a string, got %s", kindOf(versionVal))
	}
	return name, version, nil
}
