package cli

import (
	"fmt"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/roach88/csgen/internal/stream"
)

// StreamInfo describes one built-in stream kind.
type StreamInfo struct {
	Name  string `json:"name"`
	Usage string `json:"usage"`
}

// NewStreamsCommand creates the streams command.
func NewStreamsCommand(rootOpts *RootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "streams",
		Short: "List built-in stream kinds",
		Long: `List the stream kinds a score document can use for durations,
delays and p-fields, with the payload each one accepts.`,
		Args:          cobra.NoArgs,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runStreams(rootOpts, cmd)
		},
	}
}

func runStreams(opts *RootOptions, cmd *cobra.Command) error {
	formatter := newFormatter(opts, cmd)

	infos := make([]StreamInfo, 0, len(stream.Builtins))
	for _, b := range stream.Builtins {
		infos = append(infos, StreamInfo{Name: b.Name, Usage: b.Usage})
	}

	if opts.Format == "json" {
		return formatter.Success(infos)
	}

	tw := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 4, 2, ' ', 0)
	for _, info := range infos {
		fmt.Fprintf(tw, "%s\t%s\n", info.Name, info.Usage)
	}
	return tw.Flush()
}
