package generate

import (
	"bytes"
	"context"
	"fmt"
	"strings"
	"text/template"

	"github.com/roach88/stingeripc/internal/ir"
	"github.com/roach88/stingeripc/internal/stinger"
)

var (
	rustLib     = template.Must(template.ParseFS(templateFS, "templates/rust/lib.rs.tmpl"))
	rustExample = template.Must(template.ParseFS(templateFS, "templates/rust/server.rs.tmpl"))
)

type rustGenerator struct{}

// NewRust returns the Rust server crate generator.
func NewRust() Generator {
	return rustGenerator{}
}

func (rustGenerator) Metadata() Metadata {
	return Metadata{
		Name:           "rust",
		Version:        ir.ToolVersion,
		Description:    "Rust MQTT server crate with one emit method per signal",
		FileExtensions: []string{".rs"},
	}
}

func (rustGenerator) Generate(ctx context.Context, spec *stinger.Spec, cfg Config) (*Output, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	view, err := newRustView(spec, cfg)
	if err != nil {
		return nil, err
	}

	out := &Output{}
	for _, f := range []struct {
		path string
		tmpl *template.Template
	}{
		{spec.Name() + "/rust/src/lib.rs", rustLib},
		{spec.Name() + "/rust/examples/server.rs", rustExample},
	} {
		var buf bytes.Buffer
		if err := f.tmpl.Execute(&buf, view); err != nil {
			return nil, fmt.Errorf("render %s for %s: %w", f.path, spec.Name(), err)
		}
		cfg.logger().Debug("generated", "generator", "rust", "interface", spec.Name(), "file", f.path)
		out.Files = append(out.Files, File{Path: f.path, Content: buf.Bytes()})
	}
	return out, nil
}

type rustView struct {
	Header     bool
	Name       string
	StructName string
	Crate      string
	Signals    []rustSignal
}

type rustSignal struct {
	Method  string
	Topic   string
	Schema  bool
	Params  string
	Args    []rustArg
	Example string
}

type rustArg struct {
	Key   string // payload key, as written in the document
	Ident string
}

func newRustView(spec *stinger.Spec, cfg Config) (rustView, error) {
	crate, err := rustIdent("interface name", spec.Name(), false)
	if err != nil {
		return rustView{}, err
	}
	view := rustView{
		Header:     cfg.Header,
		Name:       spec.Name(),
		StructName: spec.Name() + "Server",
		Crate:      crate + "_server",
	}

	methods := make(map[string]string)
	for _, sig := range spec.Signals() {
		method, err := rustIdent("signal name", sig.Name(), false)
		if err != nil {
			return rustView{}, err
		}
		if other, ok := methods[method]; ok {
			return rustView{}, identError("rust", "signal name", sig.Name(), "collides with "+other+" as emit_"+method)
		}
		methods[method] = sig.Name()

		rs := rustSignal{Method: method, Topic: sig.EmitTopic()}
		if sig.PayloadType() == stinger.PayloadJSONSchema {
			rs.Schema = true
			rs.Params = ", payload: json::JsonValue"
			rs.Example = "json::object!{}"
			view.Signals = append(view.Signals, rs)
			continue
		}

		seen := make(map[string]string)
		var params, examples []string
		for _, a := range sig.Args() {
			ident, err := rustIdent("arg name", a.Name(), true)
			if err != nil {
				return rustView{}, fmt.Errorf("signal %s: %w", sig.Name(), err)
			}
			if other, ok := seen[ident]; ok {
				return rustView{}, fmt.Errorf("signal %s: %w", sig.Name(),
					identError("rust", "arg name", a.Name(), "collides with "+other+" as "+ident))
			}
			seen[ident] = a.Name()

			rs.Args = append(rs.Args, rustArg{Key: a.Name(), Ident: ident})
			params = append(params, ident+": "+a.Type().RustType())
			examples = append(examples, rustExampleValue(a.Type()))
		}
		if len(params) > 0 {
			rs.Params = ", " + strings.Join(params, ", ")
		}
		rs.Example = strings.Join(examples, ", ")
		view.Signals = append(view.Signals, rs)
	}
	return view, nil
}

// rustExampleValue is a literal used in the generated example binary.
func rustExampleValue(t stinger.ArgType) string {
	switch t {
	case stinger.Boolean:
		return "true"
	case stinger.Integer:
		return "42"
	case stinger.Float:
		return "3.14"
	case stinger.String:
		return `"apples".to_string()`
	default:
		return "json::Null"
	}
}
