package generate

import (
	"context"
	"fmt"

	json "github.com/goccy/go-json"

	"github.com/roach88/stingeripc/internal/ir"
	"github.com/roach88/stingeripc/internal/stinger"
)

type jsonGenerator struct{}

// NewJSON returns the generator that writes the IR document.
func NewJSON() Generator {
	return jsonGenerator{}
}

func (jsonGenerator) Metadata() Metadata {
	return Metadata{
		Name:           "json",
		Version:        ir.ToolVersion,
		Description:    "compiled interface IR as indented JSON",
		FileExtensions: []string{".json"},
	}
}

func (jsonGenerator) Generate(ctx context.Context, spec *stinger.Spec, cfg Config) (*Output, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	doc, err := ir.FromSpec(spec)
	if err != nil {
		return nil, fmt.Errorf("build IR for %s: %w", spec.Name(), err)
	}
	data, err := json.MarshalIndent(doc, "", "  ")
	if err != nil {
		return nil, fmt.Errorf("encode IR for %s: %w", spec.Name(), err)
	}

	path := spec.Name() + ".ir.json"
	cfg.logger().Debug("generated", "generator", "json", "interface", spec.Name(), "file", path, "spec_hash", doc.SpecHash)
	return &Output{Files: []File{{Path: path, Content: append(data, '\n')}}}, nil
}
