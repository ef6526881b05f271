package cli

import (
	"context"
	"fmt"
	"log/slog"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/roach88/csgen/internal/store"
)

// HistoryOptions holds flags for the history command.
type HistoryOptions struct {
	*RootOptions
	Limit int
	Hash  string
}

// NewHistoryCommand creates the history command.
func NewHistoryCommand(rootOpts *RootOptions) *cobra.Command {
	opts := &HistoryOptions{RootOptions: rootOpts}

	cmd := &cobra.Command{
		Use:   "history",
		Short: "List archived renders",
		Long: `List renders archived with "csgen render --db", oldest first.

Examples:
  csgen history --db ./renders.db
  csgen history --db ./renders.db --limit 10
  csgen history --db ./renders.db --hash 3f2a... --format json`,
		Args:          cobra.NoArgs,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runHistory(opts, cmd)
		},
	}

	cmd.Flags().IntVar(&opts.Limit, "limit", 0, "maximum number of renders to list (0 = all)")
	cmd.Flags().StringVar(&opts.Hash, "hash", "", "only list renders with this content hash")

	return cmd
}

func runHistory(opts *HistoryOptions, cmd *cobra.Command) error {
	formatter := newFormatter(opts.RootOptions, cmd)

	dbPath, err := requireDatabase(opts.RootOptions, formatter)
	if err != nil {
		return err
	}

	st, err := store.Open(dbPath)
	if err != nil {
		return formatter.Fail(ExitCommandError, ErrCodeArchive, fmt.Sprintf("failed to open archive: %v", err), err)
	}
	defer func() {
		if closeErr := st.Close(); closeErr != nil {
			slog.Error("error closing archive", "error", closeErr)
		}
	}()

	ctx := cmd.Context()
	if ctx == nil {
		ctx = context.Background()
	}

	var renders []store.Render
	if opts.Hash != "" {
		renders, err = st.FindByHash(ctx, opts.Hash)
		if err == nil && opts.Limit > 0 && len(renders) > opts.Limit {
			renders = renders[:opts.Limit]
		}
	} else {
		renders, err = st.ReadRenders(ctx, opts.Limit)
	}
	if err != nil {
		return formatter.Fail(ExitCommandError, ErrCodeArchive, err.Error(), err)
	}

	if opts.Format == "json" {
		return formatter.Success(renders)
	}

	w := cmd.OutOrStdout()
	if len(renders) == 0 {
		fmt.Fprintln(w, "No renders archived.")
		return nil
	}

	tw := tabwriter.NewWriter(w, 0, 4, 2, ' ', 0)
	fmt.Fprintln(tw, "SEQ\tID\tHASH\tPARTS\tSTATEMENTS\tSOURCE")
	for _, r := range renders {
		fmt.Fprintf(tw, "%d\t%s\t%s\t%d\t%d\t%s\n",
			r.Seq, r.ID, shortHash(r.ContentHash), r.PartCount, r.StatementCount, r.Source)
	}
	return tw.Flush()
}

func shortHash(h string) string {
	if len(h) > 12 {
		return h[:12]
	}
	return h
}
