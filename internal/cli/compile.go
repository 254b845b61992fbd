package cli

import (
	"fmt"
	"os"

	json "github.com/goccy/go-json"
	"github.com/spf13/cobra"

	"github.com/roach88/stingeripc/internal/ir"
	"github.com/roach88/stingeripc/internal/loader"
)

// CompileOptions holds flags for the compile command.
type CompileOptions struct {
	*RootOptions
	Output string // output file path
}

// CompilationResult holds the compiled interfaces.
type CompilationResult struct {
	Interfaces []*ir.Interface `json:"interfaces"`
}

// NewCompileCommand creates the compile command.
func NewCompileCommand(rootOpts *RootOptions) *cobra.Command {
	opts := &CompileOptions{RootOptions: rootOpts}

	cmd := &cobra.Command{
		Use:   "compile <path>",
		Short: "Compile interface documents to IR",
		Long: `Compile Stinger interface documents (YAML, JSON or CUE) to IR.

<path> is a single document or a directory searched recursively. Every
interface is validated, its topics resolved, and its IR hashed.`,
		Args:          cobra.ExactArgs(1),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runCompile(opts, args[0], cmd)
		},
	}

	cmd.Flags().StringVarP(&opts.Output, "output", "o", "", "output file path")

	return cmd
}

func runCompile(opts *CompileOptions, path string, cmd *cobra.Command) error {
	formatter := newFormatter(opts.RootOptions, cmd.OutOrStdout(), cmd.ErrOrStderr())

	cfg, err := opts.resolveConfig(cmd)
	if err != nil {
		return configError(formatter, err)
	}

	result, errs := loader.LoadAll(path, loader.ModeCollectAll, opts.loaderOptions(cfg))
	if len(errs) > 0 {
		return reportLoadErrors(formatter, "Compilation failed", errs)
	}
	formatter.VerboseLog("Loaded %d interface(s) from %s", len(result.Specs), path)

	compiled := &CompilationResult{Interfaces: make([]*ir.Interface, 0, len(result.Specs))}
	for i, spec := range result.Specs {
		iface, err := ir.FromSpec(spec)
		if err != nil {
			_ = formatter.Error(loader.ErrCodeGeneric, fmt.Sprintf("%s: %v", result.Files[i], err), nil)
			return WrapExitError(ExitCommandError, "compile", err)
		}
		formatter.VerboseLog("Compiled %s from %s", iface.Name, result.Files[i])
		compiled.Interfaces = append(compiled.Interfaces, iface)
	}

	if opts.Output != "" {
		if err := writeIRToFile(compiled, opts.Output); err != nil {
			_ = formatter.Error(loader.ErrCodeWriteFailed, fmt.Sprintf("writing output file: %v", err), nil)
			return WrapExitError(ExitCommandError, loader.ErrCodeWriteFailed, err)
		}
	}

	return outputCompileSuccess(formatter, compiled, opts.Output)
}

func outputCompileSuccess(formatter *OutputFormatter, result *CompilationResult, outputFile string) error {
	if formatter.JSON() {
		return formatter.Success(result)
	}

	fmt.Fprintf(formatter.Writer, "✓ Compiled %d interface(s)\n\n", len(result.Interfaces))
	for _, iface := range result.Interfaces {
		fmt.Fprintf(formatter.Writer, "  %s %s: %d signal(s), hash %s\n",
			iface.Name, iface.Version, len(iface.Signals), shortHash(iface.SpecHash))
	}
	fmt.Fprintln(formatter.Writer)

	if outputFile != "" {
		fmt.Fprintf(formatter.Writer, "Wrote IR to %s\n", outputFile)
	}
	return nil
}

// writeIRToFile writes the result as indented JSON. Canonical JSON is only
// used for hashing.
func writeIRToFile(result *CompilationResult, filename string) error {
	data, err := json.MarshalIndent(result, "", "  ")
	if err != nil {
		return fmt.Errorf("marshaling IR: %w", err)
	}
	if err := os.WriteFile(filename, append(data, '\n'), 0o644); err != nil {
		return fmt.Errorf("writing file: %w", err)
	}
	return nil
}

func shortHash(h string) string {
	if len(h) > 12 {
		return h[:12]
	}
	return h
}
