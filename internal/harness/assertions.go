package harness

import (
	"fmt"
	"strings"
)

// AssertionError is returned when an assertion fails.
// It includes detailed context to help debug the failure.
type AssertionError struct {
	Type     string      // Assertion type for categorization
	Expected string      // Human-readable expected outcome
	Actual   string      // Human-readable actual outcome
	Parts    []PartTrace // Generated statements for context
}

// Error implements the error interface.
func (e *AssertionError) Error() string {
	var buf strings.Builder

	fmt.Fprintf(&buf, "Assertion failed: %s\n", e.Type)
	fmt.Fprintf(&buf, "  Expected: %s\n", e.Expected)
	fmt.Fprintf(&buf, "  Actual: %s\n", e.Actual)

	if len(e.Parts) > 0 {
		fmt.Fprintf(&buf, "\nGenerated statements:\n")
		for i, p := range e.Parts {
			fmt.Fprintf(&buf, "  part %d %s (end %g)\n", i, p.Name, p.End)
			for j, st := range p.Statements {
				fmt.Fprintf(&buf, "    [%d] %s\n", j+1, st.Text)
			}
		}
	}

	return buf.String()
}

// assertStatementCount checks the number of statements one part (or all
// parts) produced.
func assertStatementCount(result *Result, assertion Assertion) error {
	idx := -1
	scope := "all parts"
	if assertion.Part != nil {
		idx = *assertion.Part
		scope = fmt.Sprintf("part %d", idx)
		if idx >= len(result.Parts) {
			return &AssertionError{
				Type:     AssertStatementCount,
				Expected: fmt.Sprintf("%s to exist", scope),
				Actual:   fmt.Sprintf("score has %d parts", len(result.Parts)),
			}
		}
	}

	actual := result.StatementCount(idx)
	if actual != assertion.Count {
		return &AssertionError{
			Type:     AssertStatementCount,
			Expected: fmt.Sprintf("%d statements in %s", assertion.Count, scope),
			Actual:   fmt.Sprintf("%d statements", actual),
			Parts:    result.Parts,
		}
	}
	return nil
}

// assertOnsetsIncreasing checks that p2 strictly increases within every part.
func assertOnsetsIncreasing(result *Result) error {
	for i, p := range result.Parts {
		for j := 1; j < len(p.Statements); j++ {
			prev, cur := p.Statements[j-1].Onset, p.Statements[j].Onset
			if cur <= prev {
				return &AssertionError{
					Type:     AssertOnsetsIncreasing,
					Expected: fmt.Sprintf("part %d statement %d onset > %g", i, j+1, prev),
					Actual:   fmt.Sprintf("onset %g", cur),
					Parts:    result.Parts,
				}
			}
		}
	}
	return nil
}

// assertOnsetsBeforeEnd checks that no statement starts at or after its
// part's end time.
func assertOnsetsBeforeEnd(result *Result) error {
	for i, p := range result.Parts {
		for j, st := range p.Statements {
			if st.Onset >= p.End {
				return &AssertionError{
					Type:     AssertOnsetsBeforeEnd,
					Expected: fmt.Sprintf("part %d statement %d onset < %g", i, j+1, p.End),
					Actual:   fmt.Sprintf("onset %g", st.Onset),
					Parts:    result.Parts,
				}
			}
		}
	}
	return nil
}

// assertOutputContains checks the rendered score for a substring.
func assertOutputContains(result *Result, assertion Assertion) error {
	if !strings.Contains(result.Output, assertion.Text) {
		return &AssertionError{
			Type:     AssertOutputContains,
			Expected: fmt.Sprintf("output containing %q", assertion.Text),
			Actual:   fmt.Sprintf("%d bytes without it", len(result.Output)),
			Parts:    result.Parts,
		}
	}
	return nil
}

// assertErrorCode checks that the render failed with the given code.
func assertErrorCode(result *Result, assertion Assertion) error {
	if result.RenderError == "" {
		return &AssertionError{
			Type:     AssertErrorCode,
			Expected: fmt.Sprintf("render failure %s", assertion.Code),
			Actual:   "render succeeded",
			Parts:    result.Parts,
		}
	}
	if result.ErrorCode != assertion.Code {
		return &AssertionError{
			Type:     AssertErrorCode,
			Expected: fmt.Sprintf("render failure %s", assertion.Code),
			Actual:   result.RenderError,
		}
	}
	return nil
}

// EvaluateAssertions evaluates all assertions against the result.
// Returns a slice of error messages for failed assertions.
//
// When the render failed, only error_code assertions can pass; a failed
// render with no error_code assertion is itself reported.
func EvaluateAssertions(result *Result, assertions []Assertion) []string {
	var errors []string

	expectsFailure := false
	for _, a := range assertions {
		if a.Type == AssertErrorCode {
			expectsFailure = true
		}
	}
	if result.RenderError != "" && !expectsFailure {
		errors = append(errors, fmt.Sprintf("render failed: %s", result.RenderError))
	}

	for i, assertion := range assertions {
		var err error

		if result.RenderError != "" && assertion.Type != AssertErrorCode {
			if expectsFailure {
				err = fmt.Errorf("assertion[%d]: %s cannot hold for a failed render", i, assertion.Type)
				errors = append(errors, err.Error())
			}
			continue
		}

		switch assertion.Type {
		case AssertStatementCount:
			err = assertStatementCount(result, assertion)
		case AssertOnsetsIncreasing:
			err = assertOnsetsIncreasing(result)
		case AssertOnsetsBeforeEnd:
			err = assertOnsetsBeforeEnd(result)
		case AssertOutputContains:
			err = assertOutputContains(result, assertion)
		case AssertErrorCode:
			err = assertErrorCode(result, assertion)
		default:
			err = fmt.Errorf("assertion[%d]: unknown assertion type %q", i, assertion.Type)
		}

		if err != nil {
			errors = append(errors, err.Error())
		}
	}

	return errors
}
