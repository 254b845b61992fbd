package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/roach88/stingeripc/internal/config"
	"github.com/roach88/stingeripc/internal/ir"
	"github.com/roach88/stingeripc/internal/loader"
	"github.com/roach88/stingeripc/internal/registry"
)

// RegistryOptions holds flags shared by the registry subcommands.
type RegistryOptions struct {
	*RootOptions
	Database string
	Name     string

	// IDs overrides entry id generation; used by tests.
	IDs registry.IDGenerator
}

// RecordResult is one interface passed to `registry add`.
type RecordResult struct {
	ID       string `json:"id"`
	Name     string `json:"name"`
	Version  string `json:"version"`
	SpecHash string `json:"spec_hash"`
	Created  bool   `json:"created"`
}

// NewRegistryCommand creates the registry command and its subcommands.
func NewRegistryCommand(rootOpts *RootOptions) *cobra.Command {
	return newRegistryCommand(&RegistryOptions{RootOptions: rootOpts})
}

func newRegistryCommand(opts *RegistryOptions) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "registry",
		Short: "Record and query compiled interfaces",
		Long: `Keep a SQLite record of compiled interfaces.

Each distinct interface name, version and spec hash is stored once.`,
	}
	cmd.PersistentFlags().StringVar(&opts.Database, "db", config.DefaultRegistry, "path to the registry database")

	add := &cobra.Command{
		Use:           "add <path>",
		Short:         "Compile documents and record them",
		Args:          cobra.ExactArgs(1),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runRegistryAdd(opts, args[0], cmd)
		},
	}

	list := &cobra.Command{
		Use:           "list",
		Short:         "List recorded interfaces",
		Args:          cobra.NoArgs,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runRegistryList(opts, cmd)
		},
	}
	list.Flags().StringVar(&opts.Name, "name", "", "only this interface")

	publishers := &cobra.Command{
		Use:           "publishers <topic>",
		Short:         "Show which recorded signals publish on a topic",
		Args:          cobra.ExactArgs(1),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runRegistryPublishers(opts, args[0], cmd)
		},
	}

	cmd.AddCommand(add, list, publishers)
	return cmd
}

// open resolves the database path and opens the registry.
func (o *RegistryOptions) open(cmd *cobra.Command, formatter *OutputFormatter) (*registry.Registry, config.Config, error) {
	cfg, err := o.resolveConfig(cmd)
	if err != nil {
		return nil, config.Config{}, configError(formatter, err)
	}
	if flagChanged(cmd, "db") {
		cfg = cfg.Merge(config.Overrides{Registry: &o.Database})
	}

	regOpts := []registry.Option{registry.WithLogger(o.logger())}
	if o.IDs != nil {
		regOpts = append(regOpts, registry.WithIDGenerator(o.IDs))
	}
	reg, err := registry.Open(cfg.Registry, regOpts...)
	if err != nil {
		_ = formatter.Error(loader.ErrCodeGeneric, fmt.Sprintf("opening registry %s: %v", cfg.Registry, err), nil)
		return nil, config.Config{}, WrapExitError(ExitCommandError, "failed to open registry", err)
	}
	return reg, cfg, nil
}

func runRegistryAdd(opts *RegistryOptions, path string, cmd *cobra.Command) error {
	formatter := newFormatter(opts.RootOptions, cmd.OutOrStdout(), cmd.ErrOrStderr())

	reg, cfg, err := opts.open(cmd, formatter)
	if err != nil {
		return err
	}
	defer reg.Close()

	result, errs := loader.LoadAll(path, loader.ModeCollectAll, opts.loaderOptions(cfg))
	if len(errs) > 0 {
		return reportLoadErrors(formatter, "Loading failed", errs)
	}

	recorded := make([]RecordResult, 0, len(result.Specs))
	for _, spec := range result.Specs {
		iface, err := ir.FromSpec(spec)
		if err != nil {
			_ = formatter.Error(loader.ErrCodeGeneric, err.Error(), nil)
			return WrapExitError(ExitCommandError, "registry add", err)
		}
		entry, created, err := reg.Record(cmd.Context(), iface)
		if err != nil {
			_ = formatter.Error(loader.ErrCodeGeneric, err.Error(), nil)
			return WrapExitError(ExitCommandError, "registry add", err)
		}
		recorded = append(recorded, RecordResult{
			ID:       entry.ID,
			Name:     entry.Name,
			Version:  entry.Version,
			SpecHash: entry.SpecHash,
			Created:  created,
		})
	}

	if formatter.JSON() {
		return formatter.Success(recorded)
	}
	for _, r := range recorded {
		state := "unchanged"
		if r.Created {
			state = "recorded"
		}
		fmt.Fprintf(formatter.Writer, "%-9s %s %s (%s) %s\n", state, r.Name, r.Version, shortHash(r.SpecHash), r.ID)
	}
	return nil
}

func runRegistryList(opts *RegistryOptions, cmd *cobra.Command) error {
	formatter := newFormatter(opts.RootOptions, cmd.OutOrStdout(), cmd.ErrOrStderr())

	reg, _, err := opts.open(cmd, formatter)
	if err != nil {
		return err
	}
	defer reg.Close()

	entries, err := reg.List(cmd.Context(), opts.Name)
	if err != nil {
		_ = formatter.Error(loader.ErrCodeGeneric, err.Error(), nil)
		return WrapExitError(ExitCommandError, "registry list", err)
	}

	if formatter.JSON() {
		// The listing is a summary; drop the full documents.
		for i := range entries {
			entries[i].Interface = nil
		}
		return formatter.Success(entries)
	}
	if len(entries) == 0 {
		fmt.Fprintln(formatter.Writer, "No interfaces recorded")
		return nil
	}
	for _, e := range entries {
		fmt.Fprintf(formatter.Writer, "%s %s (%s) %s\n", e.Name, e.Version, shortHash(e.SpecHash), e.ID)
	}
	return nil
}

func runRegistryPublishers(opts *RegistryOptions, topic string, cmd *cobra.Command) error {
	formatter := newFormatter(opts.RootOptions, cmd.OutOrStdout(), cmd.ErrOrStderr())

	reg, _, err := opts.open(cmd, formatter)
	if err != nil {
		return err
	}
	defer reg.Close()

	refs, err := reg.PublishersOf(cmd.Context(), topic)
	if err != nil {
		_ = formatter.Error(loader.ErrCodeGeneric, err.Error(), nil)
		return WrapExitError(ExitCommandError, "registry publishers", err)
	}

	if formatter.JSON() {
		return formatter.Success(refs)
	}
	if len(refs) == 0 {
		fmt.Fprintf(formatter.Writer, "No recorded signal publishes on %s\n", topic)
		return nil
	}
	for _, r := range refs {
		fmt.Fprintf(formatter.Writer, "%s %s: %s (%s)\n", r.Interface, r.Version, r.Signal, r.PayloadType)
	}
	return nil
}
