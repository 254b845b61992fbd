package cli

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/roach88/stingeripc/internal/config"
	"github.com/roach88/stingeripc/internal/generate"
	"github.com/roach88/stingeripc/internal/loader"
)

// GenerateOptions holds flags for the generate command.
type GenerateOptions struct {
	*RootOptions
	OutputDir string
	Languages []string
	NoHeader  bool
}

// GenerateResult lists what was written.
type GenerateResult struct {
	OutputDir string   `json:"output_dir"`
	Files     []string `json:"files"`
}

// NewGenerateCommand creates the generate command.
func NewGenerateCommand(rootOpts *RootOptions) *cobra.Command {
	opts := &GenerateOptions{RootOptions: rootOpts}

	cmd := &cobra.Command{
		Use:   "generate <path>",
		Short: "Generate code from interface documents",
		Long: fmt.Sprintf(`Generate code for every interface under <path>.

Available generators: %s. Without --lang the generators listed in the
config file are used, or python when there is none.`, strings.Join(generate.Names(), ", ")),
		Args:          cobra.ExactArgs(1),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runGenerate(opts, args[0], cmd)
		},
	}

	cmd.Flags().StringVarP(&opts.OutputDir, "output", "o", config.DefaultOutputDir, "output directory")
	cmd.Flags().StringSliceVar(&opts.Languages, "lang", nil, "generators to run (comma separated)")
	cmd.Flags().BoolVar(&opts.NoHeader, "no-header", false, "omit the generated-file banner")

	return cmd
}

func runGenerate(opts *GenerateOptions, path string, cmd *cobra.Command) error {
	formatter := newFormatter(opts.RootOptions, cmd.OutOrStdout(), cmd.ErrOrStderr())

	cfg, err := opts.resolveConfig(cmd)
	if err != nil {
		return configError(formatter, err)
	}
	over := config.Overrides{Generators: opts.Languages}
	if flagChanged(cmd, "output") {
		over.OutputDir = &opts.OutputDir
	}
	cfg = cfg.Merge(over)

	var generators []generate.Generator
	for _, name := range cfg.Generators {
		g, err := generate.Lookup(strings.TrimSpace(name))
		if err != nil {
			_ = formatter.Error(loader.ErrCodeGeneric, err.Error(), nil)
			return WrapExitError(ExitCommandError, "generate", err)
		}
		generators = append(generators, g)
	}

	result, errs := loader.LoadAll(path, loader.ModeCollectAll, opts.loaderOptions(cfg))
	if len(errs) > 0 {
		return reportLoadErrors(formatter, "Generation failed", errs)
	}

	genCfg := generate.Config{Header: !opts.NoHeader, Logger: opts.logger()}
	out := GenerateResult{OutputDir: cfg.OutputDir, Files: []string{}}
	for _, spec := range result.Specs {
		for _, g := range generators {
			output, err := g.Generate(cmd.Context(), spec, genCfg)
			if err != nil {
				_ = formatter.Error(loader.ErrCodeGeneric, err.Error(), nil)
				return WrapExitError(ExitCommandError, "generate", err)
			}
			written, err := output.WriteTo(cfg.OutputDir)
			out.Files = append(out.Files, written...)
			if err != nil {
				_ = formatter.Error(loader.ErrCodeWriteFailed, err.Error(), nil)
				return WrapExitError(ExitCommandError, loader.ErrCodeWriteFailed, err)
			}
			formatter.VerboseLog("%s: %s wrote %d file(s)", spec.Name(), g.Metadata().Name, len(written))
		}
	}

	if formatter.JSON() {
		return formatter.Success(out)
	}
	fmt.Fprintf(formatter.Writer, "✓ Generated %d file(s) in %s\n", len(out.Files), out.OutputDir)
	for _, f := range out.Files {
		fmt.Fprintf(formatter.Writer, "  %s\n", f)
	}
	return nil
}
