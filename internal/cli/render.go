package cli

import (
	"context"
	"fmt"
	"log/slog"
	"os"

	"github.com/spf13/cobra"

	"github.com/roach88/csgen/internal/config"
	"github.com/roach88/csgen/internal/engine"
	"github.com/roach88/csgen/internal/ir"
	"github.com/roach88/csgen/internal/store"
	"github.com/roach88/csgen/internal/stream"
)

// RenderOptions holds flags for the render command.
type RenderOptions struct {
	*RootOptions
	Output string

	// IDs allows overriding archive ID generation (for testing).
	// If nil, defaults to UUIDv7Generator.
	IDs store.IDGenerator
}

// RenderResult is the JSON payload of a successful render.
type RenderResult struct {
	Text        string `json:"text"`
	Parts       int    `json:"parts"`
	Statements  int    `json:"statements"`
	ContentHash string `json:"content_hash"`
	Output      string `json:"output,omitempty"`
	ArchiveID   string `json:"archive_id,omitempty"`
	ArchiveSeq  int64  `json:"archive_seq,omitempty"`
}

// NewRenderCommand creates the render command.
func NewRenderCommand(rootOpts *RootOptions) *cobra.Command {
	return newRenderCommand(&RenderOptions{RootOptions: rootOpts})
}

func newRenderCommand(opts *RenderOptions) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "render <score-file>",
		Short: "Render a score document",
		Long: `Render a score document (.yaml, .yml, .json or .cue) to Csound score text.

The score is written to stdout, or to the file given with --output. With
--db (or $CSGEN_DB) the render is also appended to the SQLite archive.
Any configuration or generation error aborts before output is written.

Examples:
  csgen render melody.yaml
  csgen render melody.yaml -o melody.sco
  csgen render melody.cue --db ./renders.db --format json`,
		Args:          cobra.ExactArgs(1),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runRender(opts, args[0], cmd)
		},
	}

	cmd.Flags().StringVarP(&opts.Output, "output", "o", "", "write the score to this file")

	return cmd
}

func runRender(opts *RenderOptions, path string, cmd *cobra.Command) error {
	formatter := newFormatter(opts.RootOptions, cmd)

	formatter.VerboseLog("Loading %s", path)
	sc, err := config.Load(path, stream.Default(), engine.WithLogger(slog.Default()))
	if err != nil {
		return formatter.FailScore(err)
	}

	text, err := sc.Render()
	if err != nil {
		return formatter.FailScore(err)
	}

	result := RenderResult{
		Text:        text,
		Parts:       len(sc.Parts()),
		Statements:  sc.StatementCount(),
		ContentHash: ir.ContentHash(text),
		Output:      opts.Output,
	}
	formatter.VerboseLog("Rendered %d statement(s) from %d part(s)", result.Statements, result.Parts)

	if opts.Database != "" {
		archived, err := archiveRender(cmd.Context(), opts, path, result)
		if err != nil {
			return formatter.Fail(ExitCommandError, ErrCodeArchive, err.Error(), err)
		}
		result.ArchiveID = archived.ID
		result.ArchiveSeq = archived.Seq
		formatter.VerboseLog("Archived as %s (seq %d)", archived.ID, archived.Seq)
	}

	if opts.Output != "" {
		if err := os.WriteFile(opts.Output, []byte(text), 0644); err != nil {
			return formatter.Fail(ExitCommandError, ErrCodeOutput, err.Error(), err)
		}
	}

	if opts.Format == "json" {
		return formatter.Success(result)
	}

	w := cmd.OutOrStdout()
	if opts.Output == "" {
		fmt.Fprint(w, text)
		return nil
	}
	fmt.Fprintf(w, "✓ Wrote %s (%d statements)\n", opts.Output, result.Statements)
	if result.ArchiveID != "" {
		fmt.Fprintf(w, "  archived as %s\n", result.ArchiveID)
	}
	return nil
}

func archiveRender(ctx context.Context, opts *RenderOptions, source string, result RenderResult) (store.Render, error) {
	if ctx == nil {
		ctx = context.Background()
	}

	st, err := store.Open(opts.Database)
	if err != nil {
		return store.Render{}, fmt.Errorf("failed to open archive: %w", err)
	}
	defer func() {
		if closeErr := st.Close(); closeErr != nil {
			slog.Error("error closing archive", "error", closeErr)
		}
	}()

	ids := opts.IDs
	if ids == nil {
		ids = store.UUIDv7Generator{}
	}

	r := store.NewRender(source, result.Text, result.Parts, result.Statements)
	return st.WriteRender(ctx, r, ids)
}
