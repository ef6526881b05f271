package cli

import (
	"encoding/json"
	"fmt"
	"io"

	"github.com/spf13/cobra"

	"github.com/roach88/csgen/internal/config"
	"github.com/roach88/csgen/internal/engine"
	"github.com/roach88/csgen/internal/stream"
)

// ValidationResult holds validation results.
type ValidationResult struct {
	Valid    bool      `json:"valid"`
	Parts    int       `json:"parts"`
	Warnings []Warning `json:"warnings,omitempty"`
	Error    *CLIError `json:"error,omitempty"`
}

// Warning is a non-fatal problem, such as a rejected field registration.
type Warning struct {
	Part    int    `json:"part"`
	Name    string `json:"name,omitempty"`
	Field   string `json:"field"`
	Message string `json:"message"`
}

// NewValidateCommand creates the validate command.
func NewValidateCommand(rootOpts *RootOptions) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "validate <score-file>",
		Short: "Check a score document without rendering it",
		Long: `Check a score document without generating any statements.

Loads the document, builds every stream and checks each part's
preconditions: end time, end not before start, duration and delay
streams, instrument number. Rejected p-field registrations are reported
as warnings.`,
		Args:          cobra.ExactArgs(1),
		SilenceUsage:  true, // Don't print usage on errors
		SilenceErrors: true, // Don't print errors - we handle our own error output
		RunE: func(cmd *cobra.Command, args []string) error {
			return runValidate(rootOpts, args[0], cmd)
		},
	}

	return cmd
}

func runValidate(opts *RootOptions, path string, cmd *cobra.Command) error {
	formatter := newFormatter(opts, cmd)

	// Parts log rejections themselves; the report below carries them.
	sc, err := config.Load(path, stream.Default(), engine.WithLogger(discardLogger()))
	if err != nil {
		return formatter.FailScore(err)
	}

	result := ValidationResult{Valid: true, Parts: len(sc.Parts())}
	for i, p := range sc.Parts() {
		formatter.VerboseLog("Validating part %d %s", i, p.Name())
		for _, r := range p.Rejected() {
			result.Warnings = append(result.Warnings, Warning{
				Part:    i,
				Name:    p.Name(),
				Field:   r.Key,
				Message: r.Reason,
			})
		}
	}

	if err := sc.Validate(); err != nil {
		result.Valid = false
		result.Error = &CLIError{Code: config.ErrorCode(err), Message: err.Error()}
		return outputValidationFailure(formatter, result)
	}

	return outputValidateSuccess(formatter, result)
}

// outputValidateSuccess outputs successful validation results.
func outputValidateSuccess(formatter *OutputFormatter, result ValidationResult) error {
	if formatter.Format == "json" {
		return formatter.Success(result)
	}

	writeWarnings(formatter.Writer, result.Warnings)
	fmt.Fprintf(formatter.Writer, "✓ Score valid (%d parts)\n", result.Parts)
	return nil
}

// outputValidationFailure reports a part that fails its preconditions.
func outputValidationFailure(formatter *OutputFormatter, result ValidationResult) error {
	if formatter.Format == "json" {
		response := CLIResponse{
			Status: "error",
			Data:   result,
			Error:  result.Error,
		}

		encoder := json.NewEncoder(formatter.Writer)
		encoder.SetIndent("", "  ")
		if err := encoder.Encode(response); err != nil {
			return err
		}

		// Validation failures = exit code 1 (test/validation failure)
		return NewExitError(ExitFailure, result.Error.Message)
	}

	fmt.Fprintln(formatter.Writer, "✗ Validation failed")
	writeWarnings(formatter.Writer, result.Warnings)
	fmt.Fprintf(formatter.Writer, "  %s: %s\n", result.Error.Code, result.Error.Message)

	return NewExitError(ExitFailure, result.Error.Message)
}

func writeWarnings(w io.Writer, warnings []Warning) {
	for _, warn := range warnings {
		fmt.Fprintf(w, "warning: part %d field %q: %s\n", warn.Part, warn.Field, warn.Message)
	}
}
