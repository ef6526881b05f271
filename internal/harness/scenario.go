package harness

import (
	"bytes"
	"fmt"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"
)

// Scenario defines a score test scenario.
type Scenario struct {
	// Name uniquely identifies this scenario and names its golden file.
	Name string `yaml:"name"`

	// Description explains what this scenario validates.
	Description string `yaml:"description"`

	// Score is the path of the score document to render.
	// Relative paths are resolved against the scenario file's directory.
	Score string `yaml:"score"`

	// Assertions validate the rendered score.
	// Supported types: statement_count, onsets_increasing,
	// onsets_before_end, output_contains, error_code
	Assertions []Assertion `yaml:"assertions"`
}

// Assertion is a single check against a render.
type Assertion struct {
	// Type is the assertion type.
	Type string `yaml:"type"`

	// Part selects a part by index (used by statement_count).
	// Omitted means all parts.
	Part *int `yaml:"part,omitempty"`

	// Count is the expected number of statements (used by statement_count).
	Count int `yaml:"count,omitempty"`

	// Text is the expected substring (used by output_contains).
	Text string `yaml:"text,omitempty"`

	// Code is the expected failure code (used by error_code).
	Code string `yaml:"code,omitempty"`
}

// Assertion type constants.
const (
	AssertStatementCount   = "statement_count"
	AssertOnsetsIncreasing = "onsets_increasing"
	AssertOnsetsBeforeEnd  = "onsets_before_end"
	AssertOutputContains   = "output_contains"
	AssertErrorCode        = "error_code"
)

// LoadScenario reads and parses a scenario YAML file.
// Returns an error if the file doesn't exist, is malformed,
// contains unknown fields, or is missing required fields.
func LoadScenario(path string) (*Scenario, error) {
	return LoadScenarioWithBasePath(path, filepath.Dir(path))
}

// LoadScenarioWithBasePath reads and parses a scenario YAML file,
// resolving the score path relative to basePath.
func LoadScenarioWithBasePath(path, basePath string) (*Scenario, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read scenario file: %w", err)
	}

	var scenario Scenario
	decoder := yaml.NewDecoder(bytes.NewReader(data))
	decoder.KnownFields(true)
	if err := decoder.Decode(&scenario); err != nil {
		return nil, fmt.Errorf("failed to parse YAML: %w", err)
	}

	if scenario.Score != "" && !filepath.IsAbs(scenario.Score) && basePath != "" {
		scenario.Score = filepath.Join(basePath, scenario.Score)
	}

	if err := validateScenario(&scenario); err != nil {
		return nil, fmt.Errorf("invalid scenario: %w", err)
	}

	return &scenario, nil
}

// validateScenario checks that required fields are present and valid.
func validateScenario(s *Scenario) error {
	if s.Name == "" {
		return fmt.Errorf("name is required")
	}

	if s.Description == "" {
		return fmt.Errorf("description is required")
	}

	if s.Score == "" {
		return fmt.Errorf("score is required")
	}

	if len(s.Assertions) == 0 {
		return fmt.Errorf("assertions list is required and must be non-empty")
	}

	if _, err := os.Stat(s.Score); os.IsNotExist(err) {
		return fmt.Errorf("score file not found: %s", s.Score)
	}

	for i := range s.Assertions {
		if err := validateAssertion(i, &s.Assertions[i]); err != nil {
			return err
		}
	}

	return nil
}

// validateAssertion validates a single assertion based on its type.
func validateAssertion(index int, a *Assertion) error {
	if a.Type == "" {
		return fmt.Errorf("assertions[%d]: type is required", index)
	}

	switch a.Type {
	case AssertStatementCount:
		if a.Count < 0 {
			return fmt.Errorf("assertions[%d]: count must be non-negative for statement_count", index)
		}
		if a.Part != nil && *a.Part < 0 {
			return fmt.Errorf("assertions[%d]: part must be non-negative", index)
		}
	case AssertOnsetsIncreasing, AssertOnsetsBeforeEnd:
	case AssertOutputContains:
		if a.Text == "" {
			return fmt.Errorf("assertions[%d]: text is required for output_contains", index)
		}
	case AssertErrorCode:
		if a.Code == "" {
			return fmt.Errorf("assertions[%d]: code is required for error_code", index)
		}
	default:
		return fmt.Errorf("assertions[%d]: unknown assertion type %q", index, a.Type)
	}

	return nil
}
