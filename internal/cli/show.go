package cli

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/spf13/cobra"

	"github.com/roach88/csgen/internal/store"
)

// NewShowCommand creates the show command.
func NewShowCommand(rootOpts *RootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "show <render-id>",
		Short: "Print an archived render",
		Long: `Print the score text of an archived render.

With --format json the archive metadata is included.

Example:
  csgen show --db ./renders.db 0192f5e4-7c1a-7b3e-9a55-3c1f0e2d4b6a`,
		Args:          cobra.ExactArgs(1),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runShow(rootOpts, args[0], cmd)
		},
	}
}

func runShow(opts *RootOptions, id string, cmd *cobra.Command) error {
	formatter := newFormatter(opts, cmd)

	dbPath, err := requireDatabase(opts, formatter)
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

	r, err := st.ReadRender(ctx, id)
	if errors.Is(err, store.ErrNotFound) {
		return formatter.Fail(ExitCommandError, ErrCodeRenderNotFound, err.Error(), err)
	}
	if err != nil {
		return formatter.Fail(ExitCommandError, ErrCodeArchive, err.Error(), err)
	}

	if opts.Format == "json" {
		return formatter.Success(r)
	}

	formatter.VerboseLog("Render %s seq %d from %s", r.ID, r.Seq, r.Source)
	fmt.Fprint(cmd.OutOrStdout(), r.Text)
	return nil
}
