package cli

import (
	"fmt"
	"io"
	"log/slog"

	"github.com/spf13/cobra"

	"github.com/roach88/stingeripc/internal/config"
	"github.com/roach88/stingeripc/internal/loader"
)

// RootOptions holds global flags for all commands.
type RootOptions struct {
	Verbose    bool
	Format     string // "json" | "text"
	ConfigPath string // explicit config file; empty means look in the working directory
	TopicRoot  string

	// Logger is set up by the root command; nil means slog.Default().
	Logger *slog.Logger
}

// ValidFormats defines the allowed output formats.
var ValidFormats = []string{"text", "json"}

// NewRootCommand creates the root command for the stinger CLI.
func NewRootCommand() *cobra.Command {
	opts := &RootOptions{}

	cmd := &cobra.Command{
		Use:   "stinger",
		Short: "stinger - MQTT interface compiler",
		Long: `Validate Stinger interface descriptions and generate code from them.

An interface document names an interface, its version and the signals it
publishes. stinger checks the document, derives the MQTT topic of every
signal and renders servers or IR for it.`,
		SilenceUsage: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			if !isValidFormat(opts.Format) {
				cmd.PrintErrf("Error: invalid format %q: must be one of %v\n", opts.Format, ValidFormats)
				return NewExitError(ExitCommandError, fmt.Sprintf("invalid format %q", opts.Format))
			}
			opts.Logger = newLogger(cmd.ErrOrStderr(), opts.Verbose)
			return nil
		},
	}

	cmd.PersistentFlags().BoolVarP(&opts.Verbose, "verbose", "v", false, "verbose output")
	cmd.PersistentFlags().StringVar(&opts.Format, "format", "text", "output format (json|text)")
	cmd.PersistentFlags().StringVar(&opts.ConfigPath, "config", "", "config file (default ./"+config.FileName+" if present)")
	cmd.PersistentFlags().StringVar(&opts.TopicRoot, "topic-root", "", "prefix for every topic")

	cmd.AddCommand(NewCompileCommand(opts))
	cmd.AddCommand(NewValidateCommand(opts))
	cmd.AddCommand(NewGenerateCommand(opts))
	cmd.AddCommand(NewTopicsCommand(opts))
	cmd.AddCommand(NewRegistryCommand(opts))

	return cmd
}

// newLogger returns a text logger on w; verbose switches to debug level.
func newLogger(w io.Writer, verbose bool) *slog.Logger {
	level := slog.LevelInfo
	if verbose {
		level = slog.LevelDebug
	}
	return slog.New(slog.NewTextHandler(w, &slog.HandlerOptions{Level: level}))
}

func (o *RootOptions) logger() *slog.Logger {
	if o.Logger != nil {
		return o.Logger
	}
	return slog.Default()
}

// resolveConfig merges flags over the config file over the defaults.
// Only flags the user actually set take part.
func (o *RootOptions) resolveConfig(cmd *cobra.Command) (config.Config, error) {
	cfg := config.Default()

	path := o.ConfigPath
	if path == "" {
		found, err := config.Find(".")
		if err != nil {
			return config.Config{}, err
		}
		path = found
	}
	if path != "" {
		loaded, err := config.Load(path)
		if err != nil {
			return config.Config{}, err
		}
		o.logger().Debug("config loaded", "path", path)
		cfg = loaded
	}

	var over config.Overrides
	if flagChanged(cmd, "topic-root") {
		over.TopicRoot = &o.TopicRoot
	}
	return cfg.Merge(over), nil
}

func (o *RootOptions) loaderOptions(cfg config.Config) loader.Options {
	return loader.Options{TopicRoot: cfg.TopicRoot, Logger: o.logger()}
}

// flagChanged reports whether the named flag, local or inherited, was set.
func flagChanged(cmd *cobra.Command, name string) bool {
	f := cmd.Flags().Lookup(name)
	return f != nil && f.Changed
}

// isValidFormat checks if the format is one of the allowed values.
func isValidFormat(format string) bool {
	for _, f := range ValidFormats {
		if f == format {
			return true
		}
	}
	return false
}

// configError reports an unusable config file.
func configError(f *OutputFormatter, err error) error {
	_ = f.Error(loader.ErrCodeLoadFailed, err.Error(), nil)
	return WrapExitError(ExitCommandError, "config", err)
}
