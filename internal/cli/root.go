package cli

import (
	"errors"
	"fmt"
	"io"
	"io/fs"
	"log/slog"
	"os"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"
)

// Environment variables that provide flag defaults.
const (
	EnvDatabase = "CSGEN_DB"
	EnvFormat   = "CSGEN_FORMAT"
)

// RootOptions holds global flags for all commands.
type RootOptions struct {
	Verbose  bool
	Format   string // "json" | "text"
	Database string // archive path, empty disables archiving
}

// ValidFormats defines the allowed output formats.
var ValidFormats = []string{"text", "json"}

// NewRootCommand creates the root command for the csgen CLI.
// A .env file in the working directory, when present, seeds the
// environment before flag defaults are read.
func NewRootCommand() *cobra.Command {
	if err := LoadEnv(); err != nil {
		fmt.Fprintf(os.Stderr, "warning: %v\n", err)
	}

	opts := &RootOptions{}

	cmd := &cobra.Command{
		Use:   "csgen",
		Short: "csgen - Csound score generator",
		Long: `Generate Csound score i-statements from score documents.

A score document lists parts: each part repeatedly asks its streams for a
duration, a delay and extra p-fields, emitting one i-statement per step
until its end time. The rendered score is the header, every part's
statement table and the footer.`,
		// Execute prints errors cobra raises itself.
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			if !isValidFormat(opts.Format) {
				return fmt.Errorf("invalid format %q: must be one of %v", opts.Format, ValidFormats)
			}
			setupLogging(cmd.ErrOrStderr(), opts.Verbose)
			return nil
		},
	}

	cmd.PersistentFlags().BoolVarP(&opts.Verbose, "verbose", "v", false, "verbose output")
	cmd.PersistentFlags().StringVar(&opts.Format, "format", envOr(EnvFormat, "text"), "output format (json|text), default from $"+EnvFormat)
	cmd.PersistentFlags().StringVar(&opts.Database, "db", os.Getenv(EnvDatabase), "path to SQLite render archive, default from $"+EnvDatabase)

	cmd.AddCommand(NewRenderCommand(opts))
	cmd.AddCommand(NewValidateCommand(opts))
	cmd.AddCommand(NewStreamsCommand(opts))
	cmd.AddCommand(NewHistoryCommand(opts))
	cmd.AddCommand(NewShowCommand(opts))
	cmd.AddCommand(NewTestCommand(opts))

	return cmd
}

// Execute runs cmd and returns the process exit code.
//
// Commands report their own failures as *ExitError. Anything else comes
// from cobra before a command ran (unknown flag, wrong argument count,
// invalid --format); it is printed to cmd's error writer and exits with
// ExitCommandError.
func Execute(cmd *cobra.Command) int {
	err := cmd.Execute()
	if err == nil {
		return ExitSuccess
	}
	var exitErr *ExitError
	if errors.As(err, &exitErr) {
		return exitErr.Code
	}
	fmt.Fprintln(cmd.ErrOrStderr(), "Error:", err)
	return ExitCommandError
}

// LoadEnv loads variables from the given .env files (default ".env") into
// the process environment without overriding variables already set.
// Missing files are not an error.
func LoadEnv(files ...string) error {
	if len(files) == 0 {
		files = []string{".env"}
	}
	for _, f := range files {
		if err := godotenv.Load(f); err != nil {
			if errors.Is(err, fs.ErrNotExist) {
				continue
			}
			return fmt.Errorf("load %s: %w", f, err)
		}
	}
	return nil
}

func envOr(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

// setupLogging installs the process-wide slog handler: Debug with
// --verbose, Info otherwise.
func setupLogging(w io.Writer, verbose bool) {
	logLevel := slog.LevelInfo
	if verbose {
		logLevel = slog.LevelDebug
	}
	handler := slog.NewTextHandler(w, &slog.HandlerOptions{
		Level: logLevel,
	})
	slog.SetDefault(slog.New(handler))
}

// requireDatabase returns the archive path or a command error if none is set.
func requireDatabase(opts *RootOptions, f *OutputFormatter) (string, error) {
	if opts.Database == "" {
		return "", f.Fail(ExitCommandError, ErrCodeMissingFlag,
			fmt.Sprintf("--db is required (or set %s)", EnvDatabase), nil)
	}
	return opts.Database, nil
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

func discardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}
