package stinger

import (
	"cuelang.org/go/cue"

	"github.com/roach88/stingeripc/internal/topic"
)

// PayloadType says which payload representation a signal carries.
type PayloadType int

const (
	PayloadArgList PayloadType = iota
	PayloadJSONSchema
)

func (p PayloadType) String() string {
	switch p {
	case PayloadArgList:
		return "arg_list"
	case PayloadJSONSchema:
		return "json_schema"
	}
	return "unknown"
}

// Signal is one event an interface emits.
type Signal struct {
	name        string
	topics      *topic.SignalCreator
	payloadType PayloadType
	args        []Arg
	schema      Schema
}

// Name returns the signal name.
func (s *Signal) Name() string { return s.name }

// PayloadType returns the populated payload representation.
func (s *Signal) PayloadType() PayloadType { return s.payloadType }

// Args returns the arguments in emission order. It is empty for schema
// payloads.
func (s *Signal) Args() []Arg {
	return append([]Arg(nil), s.args...)
}

// Schema returns the payload schema and whether the signal carries one.
func (s *Signal) Schema() (Schema, bool) {
	return s.schema, s.payloadType == PayloadJSONSchema
}

// EmitTopic returns the topic the signal is published on. It is derived from
// the creator and the name on every call.
func (s *Signal) EmitTopic() string {
	return s.topics.SignalTopic(s.name)
}

// TopicCreator returns the shared creator the signal derives its topic from.
func (s *Signal) TopicCreator() *topic.SignalCreator { return s.topics }

// SignalBuilder assembles a Signal by hand. Setting one payload
// representation replaces the other. Nothing is visible to a Spec until
// Build succeeds.
type SignalBuilder struct {
	name        string
	topics      *topic.SignalCreator
	payloadType PayloadType
	args        []Arg
	schema      Schema
}

// NewSignalBuilder starts a signal with an empty argument list.
func NewSignalBuilder(tc *topic.SignalCreator, name string) *SignalBuilder {
	return &SignalBuilder{name: name, topics: tc, payloadType: PayloadArgList}
}

// Args sets the argument list, replacing any schema.
func (b *SignalBuilder) Args(args ...Arg) *SignalBuilder {
	b.args = append([]Arg(nil), args...)
	b.schema = Schema{}
	b.payloadType = PayloadArgList
	return b
}

// AddArg appends one argument. A previously set schema is dropped.
func (b *SignalBuilder) AddArg(a Arg) *SignalBuilder {
	if b.payloadType != PayloadArgList {
		b.schema = Schema{}
		b.payloadType = PayloadArgList
	}
	b.args = append(b.args, a)
	return b
}

// Schema sets a schema payload, replacing any argument list.
func (b *SignalBuilder) Schema(s Schema) *SignalBuilder {
	b.args = nil
	b.schema = s
	b.payloadType = PayloadJSONSchema
	return b
}

// Build validates the accumulated fields and returns the Signal.
func (b *SignalBuilder) Build() (*Signal, error) {
	if b.name == "" {
		return nil, newError(CodeInvalidName, "", noPos, "signal name must be non-empty")
	}
	if b.topics == nil {
		return nil, newError(CodeInvalidSignalStructure, b.name, noPos, "signal requires a topic creator")
	}

	seen := make(map[string]bool, len(b.args))
	for _, a := range b.args {
		if a.name == "" {
			return nil, newError(CodeInvalidName, joinPath(b.name, "args"), noPos, "arg name must be non-empty")
		}
		if seen[a.name] {
			return nil, newError(CodeDuplicateArg, joinPath(b.name, "args."+a.name), noPos,
				"duplicate arg name %q", a.name)
		}
		seen[a.name] = true
		if !a.typ.Valid() {
			return nil, newError(CodeUnknownArgType, joinPath(b.name, "args."+a.name), noPos,
				"arg %q has no valid type", a.name)
		}
	}

	return &Signal{
		name:        b.name,
		topics:      b.topics,
		payloadType: b.payloadType,
		args:        append([]Arg(nil), b.args...),
		schema:      b.schema,
	}, nil
}

// SignalFromValue builds a Signal from its raw document.
//
// Exactly one of 'args' or 'schema' must be present. Arguments keep the order
// of the document. The schema is wrapped without inspection. Errors from
// individual arguments are returned with their path under "args".
func SignalFromValue(tc *topic.SignalCreator, name string, v cue.Value) (*Signal, error) {
	if name == "" {
		return nil, newError(CodeInvalidName, "", v.Pos(), "signal name must be non-empty")
	}
	if !isStruct(v) {
		return nil, newError(CodeInvalidSignalStructure, "", v.Pos(),
			"signal structure must be a mapping, got %s", kindOf(v))
	}

	argsVal := lookup(v, "args")
	schemaVal := lookup(v, "schema")
	switch {
	case argsVal.Exists() && schemaVal.Exists():
		return nil, newError(CodeConflictingPayloadSpec, "", v.Pos(),
			"signal specification must have 'args' xor 'schema', found both")
	case !argsVal.Exists() && !schemaVal.Exists():
		return nil, newError(CodeMissingPayloadSpec, "", v.Pos(),
			"signal specification must have 'args' xor 'schema', found neither")
	}

	b := NewSignalBuilder(tc, name)
	if schemaVal.Exists() {
		if err := schemaVal.Validate(cue.Concrete(true)); err != nil {
			return nil, newError(CodeInvalidSignalStructure, "schema", schemaVal.Pos(),
				"schema must be fully concrete: %v", err)
		}
		b.Schema(NewSchema(schemaVal))
		return b.Build()
	}

	if !isStruct(argsVal) {
		return nil, newError(CodeInvalidSignalStructure, "args", argsVal.Pos(),
			"'args' must be a mapping of arg name to arg structure, got %s", kindOf(argsVal))
	}
	argFields, err := fields(argsVal)
	if err != nil {
		return nil, newError(CodeInvalidSignalStructure, "args", argsVal.Pos(), "%v", err)
	}
	args := make([]Arg, 0, len(argFields))
	for _, f := range argFields {
		arg, err := ArgFromValue(f.name, f.value)
		if err != nil {
			return nil, withPath(err, "args")
		}
		args = append(args, arg)
	}
	return b.Args(args...).Build()
}
