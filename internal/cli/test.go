package cli

import (
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"

	"github.com/roach88/csgen/internal/harness"
	"github.com/roach88/csgen/internal/stream"
)

// TestOptions holds flags for the test command.
type TestOptions struct {
	*RootOptions
	Update bool   // regenerate golden files
	Filter string // glob matched against scenario file names
}

// ScenarioResult is the verdict for one scenario file.
type ScenarioResult struct {
	Name       string   `json:"name"`
	Pass       bool     `json:"pass"`
	Statements int      `json:"statements"`
	ErrorCode  string   `json:"error_code,omitempty"`
	Golden     string   `json:"golden,omitempty"` // "match", "updated" or empty when none exists
	Errors     []string `json:"errors,omitempty"`
}

// TestResult summarises a test run.
type TestResult struct {
	Scenarios []ScenarioResult `json:"scenarios"`
	Passed    int              `json:"passed"`
	Failed    int              `json:"failed"`
	Total     int              `json:"total"`
}

// NewTestCommand creates the test command.
func NewTestCommand(rootOpts *RootOptions) *cobra.Command {
	opts := &TestOptions{RootOptions: rootOpts}

	cmd := &cobra.Command{
		Use:   "test <scenarios-dir>",
		Short: "Run score scenarios",
		Long: `Render every scenario's score and check its assertions.

A scenario names a score document (relative to the scenario file) and a
list of assertions about the generated statements. When
golden/<scenario>.golden exists next to the scenario file the rendered
score, or the error code and message of a failed render, must match it
byte for byte.

Exit codes:
  0 - All scenarios passed
  1 - One or more scenarios failed
  2 - Command error (missing directory, bad filter)

Examples:
  csgen test ./scenarios
  csgen test ./scenarios --filter "melody*"
  csgen test ./scenarios --update
  csgen test ./scenarios --format json`,
		Args:          cobra.ExactArgs(1),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runTests(opts, args[0], cmd)
		},
	}

	cmd.Flags().BoolVar(&opts.Update, "update", false, "regenerate golden files")
	cmd.Flags().StringVar(&opts.Filter, "filter", "", "filter scenarios by glob pattern")

	return cmd
}

func runTests(opts *TestOptions, dir string, cmd *cobra.Command) error {
	formatter := newFormatter(opts.RootOptions, cmd)

	if info, err := os.Stat(dir); err != nil || !info.IsDir() {
		return formatter.Fail(ExitCommandError, ErrCodeScenarioDir,
			fmt.Sprintf("scenarios directory not found: %s", dir), err)
	}
	files, err := findScenarioFiles(dir, opts.Filter)
	if err != nil {
		return formatter.Fail(ExitCommandError, ErrCodeScenarioDir, err.Error(), err)
	}

	h := harness.New(stream.Default(), discardLogger())
	result := TestResult{Scenarios: []ScenarioResult{}, Total: len(files)}
	for _, file := range files {
		formatter.VerboseLog("Running %s", file)
		sr := checkScenario(h, file, opts.Update)
		if sr.Pass {
			result.Passed++
		} else {
			result.Failed++
		}
		result.Scenarios = append(result.Scenarios, sr)
		if opts.Format != "json" {
			printScenario(cmd.OutOrStdout(), sr)
		}
	}

	if opts.Format == "json" {
		if result.Failed > 0 {
			_ = formatter.Error(ErrCodeScenarioFailed, fmt.Sprintf("%d scenario(s) failed", result.Failed), result)
		} else if err := formatter.Success(result); err != nil {
			return err
		}
	} else {
		printSummary(cmd.OutOrStdout(), result)
	}

	if result.Failed > 0 {
		return NewExitError(ExitFailure, fmt.Sprintf("%d scenario(s) failed", result.Failed))
	}
	return nil
}

// findScenarioFiles returns the .yaml and .yml files under dir, skipping
// golden directories. filter is matched against the name without extension.
func findScenarioFiles(dir, filter string) ([]string, error) {
	if filter != "" {
		if _, err := filepath.Match(filter, ""); err != nil {
			return nil, fmt.Errorf("invalid filter pattern %q: %w", filter, err)
		}
	}

	var files []string
	err := filepath.WalkDir(dir, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if d.IsDir() {
			if d.Name() == "golden" && path != dir {
				return filepath.SkipDir
			}
			return nil
		}
		ext := filepath.Ext(path)
		if ext != ".yaml" && ext != ".yml" {
			return nil
		}
		if filter != "" {
			name := strings.TrimSuffix(d.Name(), ext)
			if ok, _ := filepath.Match(filter, name); !ok {
				return nil
			}
		}
		files = append(files, path)
		return nil
	})
	return files, err
}

// checkScenario renders one scenario and judges it against its assertions
// and, when present, its golden file.
func checkScenario(h *harness.Harness, file string, update bool) ScenarioResult {
	sr := ScenarioResult{Name: filepath.Base(file)}

	scenario, err := harness.LoadScenario(file)
	if err != nil {
		sr.Errors = []string{fmt.Sprintf("load scenario: %v", err)}
		return sr
	}
	sr.Name = scenario.Name

	result, err := h.Run(scenario)
	if err != nil {
		sr.Errors = []string{fmt.Sprintf("run scenario: %v", err)}
		return sr
	}
	sr.Statements = result.StatementCount(-1)
	sr.ErrorCode = result.ErrorCode
	sr.Errors = append(sr.Errors, result.Errors...)

	golden := harness.GoldenPath(file)
	switch {
	case update:
		if err := harness.UpdateGolden(golden, result); err != nil {
			sr.Errors = append(sr.Errors, fmt.Sprintf("update golden file: %v", err))
		} else {
			sr.Golden = "updated"
		}
	default:
		match, err := harness.CompareGolden(golden, result)
		switch {
		case errors.Is(err, fs.ErrNotExist):
			// Assertions alone decide.
		case err != nil:
			sr.Errors = append(sr.Errors, fmt.Sprintf("compare golden file: %v", err))
		case !match:
			sr.Errors = append(sr.Errors, "rendered score does not match golden file")
		default:
			sr.Golden = "match"
		}
	}

	sr.Pass = len(sr.Errors) == 0
	return sr
}

func printScenario(w io.Writer, sr ScenarioResult) {
	mark := "✓"
	if !sr.Pass {
		mark = "✗"
	}
	suffix := ""
	if sr.Golden == "updated" {
		suffix = " (golden updated)"
	}
	fmt.Fprintf(w, "%s %s%s\n", mark, sr.Name, suffix)
	for _, e := range sr.Errors {
		if e == "rendered score does not match golden file" {
			e = "Golden file mismatch (run with --update to regenerate)"
		}
		fmt.Fprintf(w, "  %s\n", e)
	}
}

func printSummary(w io.Writer, result TestResult) {
	if result.Total == 0 {
		fmt.Fprintln(w, "No scenarios found.")
		return
	}
	fmt.Fprintln(w)
	fmt.Fprintf(w, "Test Summary: %d passed, %d failed, %d total\n", result.Passed, result.Failed, result.Total)
	if result.Failed == 0 {
		fmt.Fprintln(w, "✓ All scenarios passed")
	}
}
