package generate

import (
	"bytes"
	"context"
	"embed"
	"fmt"
	"strings"
	"text/template"

	"github.com/roach88/stingeripc/internal/ir"
	"github.com/roach88/stingeripc/internal/stinger"
)

//go:embed templates
var templateFS embed.FS

var pythonServer = template.Must(template.ParseFS(templateFS, "templates/python/server.py.tmpl"))

type pythonGenerator struct{}

// NewPython returns the Python server generator.
func NewPython() Generator {
	return pythonGenerator{}
}

func (pythonGenerator) Metadata() Metadata {
	return Metadata{
		Name:           "python",
		Version:        ir.ToolVersion,
		Description:    "Python MQTT server with one emit method per signal",
		FileExtensions: []string{".py"},
	}
}

func (pythonGenerator) Generate(ctx context.Context, spec *stinger.Spec, cfg Config) (*Output, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	view, err := newPythonView(spec, cfg)
	if err != nil {
		return nil, err
	}
	var buf bytes.Buffer
	if err := pythonServer.Execute(&buf, view); err != nil {
		return nil, fmt.Errorf("render python server for %s: %w", spec.Name(), err)
	}

	path := spec.Name() + "/server.py"
	cfg.logger().Debug("generated", "generator", "python", "interface", spec.Name(), "file", path)
	return &Output{Files: []File{{Path: path, Content: buf.Bytes()}}}, nil
}

type pythonView struct {
	Header    bool
	Name      string
	ClassName string
	Signals   []pythonSignal
}

type pythonSignal struct {
	Name           string
	Topic          string
	Payload        string
	Schema         bool
	Args           []string
	Params         string
	Example        string
	KeywordExample string
}

func newPythonView(spec *stinger.Spec, cfg Config) (pythonView, error) {
	if err := checkPython("interface name", spec.Name(), false); err != nil {
		return pythonView{}, err
	}
	view := pythonView{
		Header:    cfg.Header,
		Name:      spec.Name(),
		ClassName: spec.Name() + "Server",
	}
	for _, sig := range spec.Signals() {
		if err := checkPython("signal name", sig.Name(), false); err != nil {
			return pythonView{}, err
		}
		ps := pythonSignal{
			Name:    sig.Name(),
			Topic:   sig.EmitTopic(),
			Payload: PayloadDescription(sig),
		}
		if sig.PayloadType() == stinger.PayloadJSONSchema {
			ps.Schema = true
			ps.Params = ", payload: dict"
			ps.Example = "{}"
			view.Signals = append(view.Signals, ps)
			continue
		}

		var params, positional, keyword []string
		for _, a := range sig.Args() {
			if err := checkPython("arg name", a.Name(), true); err != nil {
				return pythonView{}, fmt.Errorf("signal %s: %w", sig.Name(), err)
			}
			example := pythonExample(a.Type())
			ps.Args = append(ps.Args, a.Name())
			params = append(params, a.Name()+": "+a.Type().PythonType())
			positional = append(positional, example)
			keyword = append(keyword, a.Name()+"="+example)
		}
		if len(params) > 0 {
			ps.Params = ", " + strings.Join(params, ", ")
		}
		ps.Example = strings.Join(positional, ", ")
		ps.KeywordExample = strings.Join(keyword, ", ")
		view.Signals = append(view.Signals, ps)
	}
	return view, nil
}

// pythonExample is a literal used in the generated usage example.
func pythonExample(t stinger.ArgType) string {
	switch t {
	case stinger.Boolean:
		return "True"
	case stinger.Integer:
		return "42"
	case stinger.Float:
		return "1.0"
	case stinger.String:
		return `"Joe"`
	default:
		return "None"
	}
}
