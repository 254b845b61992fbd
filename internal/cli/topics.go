package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/roach88/stingeripc/internal/loader"
)

// InterfaceTopics lists the topics of one interface.
type InterfaceTopics struct {
	Name      string        `json:"name"`
	InfoTopic string        `json:"info_topic"`
	Signals   []SignalTopic `json:"signals"`
}

// SignalTopic is the emit topic of one signal.
type SignalTopic struct {
	Name        string `json:"name"`
	Topic       string `json:"topic"`
	PayloadType string `json:"payload_type"`
}

// NewTopicsCommand creates the topics command.
func NewTopicsCommand(rootOpts *RootOptions) *cobra.Command {
	cmd := &cobra.Command{
		Use:           "topics <path>",
		Short:         "List the MQTT topics of interface documents",
		Args:          cobra.ExactArgs(1),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runTopics(rootOpts, args[0], cmd)
		},
	}
	return cmd
}

func runTopics(opts *RootOptions, path string, cmd *cobra.Command) error {
	formatter := newFormatter(opts, cmd.OutOrStdout(), cmd.ErrOrStderr())

	cfg, err := opts.resolveConfig(cmd)
	if err != nil {
		return configError(formatter, err)
	}

	result, errs := loader.LoadAll(path, loader.ModeCollectAll, opts.loaderOptions(cfg))
	if len(errs) > 0 {
		return reportLoadErrors(formatter, "Loading failed", errs)
	}

	listing := make([]InterfaceTopics, 0, len(result.Specs))
	for _, spec := range result.Specs {
		it := InterfaceTopics{
			Name:      spec.Name(),
			InfoTopic: spec.InterfaceInfoTopic(),
			Signals:   []SignalTopic{},
		}
		for _, sig := range spec.Signals() {
			it.Signals = append(it.Signals, SignalTopic{
				Name:        sig.Name(),
				Topic:       sig.EmitTopic(),
				PayloadType: sig.PayloadType().String(),
			})
		}
		listing = append(listing, it)
	}

	if formatter.JSON() {
		return formatter.Success(listing)
	}
	for _, it := range listing {
		fmt.Fprintln(formatter.Writer, it.Name)
		fmt.Fprintf(formatter.Writer, "  interface  %s\n", it.InfoTopic)
		for _, s := range it.Signals {
			fmt.Fprintf(formatter.Writer, "  signal     %s -> %s\n", s.Name, s.Topic)
		}
	}
	return nil
}
