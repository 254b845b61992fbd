package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/roach88/stingeripc/internal/loader"
)

// ValidationResult holds validation results.
type ValidationResult struct {
	Valid      bool     `json:"valid"`
	Interfaces []string `json:"interfaces"`
	Errors     []Issue  `json:"errors,omitempty"`
}

// NewValidateCommand creates the validate command.
func NewValidateCommand(rootOpts *RootOptions) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "validate <path>",
		Short: "Validate interface documents",
		Long: `Validate Stinger interface documents without producing output.

Every document under <path> is checked and every problem is reported.
Exit code 1 means at least one document is invalid.`,
		Args:          cobra.ExactArgs(1),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runValidate(rootOpts, args[0], cmd)
		},
	}

	return cmd
}

func runValidate(opts *RootOptions, path string, cmd *cobra.Command) error {
	formatter := newFormatter(opts, cmd.OutOrStdout(), cmd.ErrOrStderr())

	cfg, err := opts.resolveConfig(cmd)
	if err != nil {
		return configError(formatter, err)
	}

	result, errs := loader.LoadAll(path, loader.ModeCollectAll, opts.loaderOptions(cfg))

	// Nothing to validate at all is a usage problem, not an invalid document.
	if len(errs) == 1 && isCommandError(errs[0]) {
		return reportLoadErrors(formatter, "Validation failed", errs)
	}

	report := ValidationResult{Valid: len(errs) == 0, Interfaces: []string{}}
	if result != nil {
		for i, spec := range result.Specs {
			formatter.VerboseLog("Valid: %s (%s)", spec.Name(), result.Files[i])
			report.Interfaces = append(report.Interfaces, spec.Name())
		}
	}

	if len(errs) > 0 {
		report.Errors = issuesOf(errs)
		if err := formatter.Issues("Validation failed", report.Errors, report); err != nil {
			return err
		}
		return NewExitError(ExitFailure, fmt.Sprintf("validation failed with %d error(s)", len(errs)))
	}

	if formatter.JSON() {
		return formatter.Success(report)
	}
	fmt.Fprintf(formatter.Writer, "✓ All interfaces valid (%d)\n", len(report.Interfaces))
	return nil
}
