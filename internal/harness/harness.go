package harness

import (
	"errors"
	"fmt"
	"log/slog"

	"github.com/roach88/csgen/internal/config"
	"github.com/roach88/csgen/internal/engine"
	"github.com/roach88/csgen/internal/score"
	"github.com/roach88/csgen/internal/stream"
	"github.com/roach88/csgen/internal/testutil"
)

// Harness renders scenario scores against a fixed stream registry.
type Harness struct {
	registry *stream.Registry
	logger   *slog.Logger
}

// New creates a harness. A nil registry means the built-in streams.
func New(reg *stream.Registry, logger *slog.Logger) *Harness {
	if reg == nil {
		reg = stream.Default()
	}
	if logger == nil {
		logger = testutil.DiscardLogger()
	}
	return &Harness{registry: reg, logger: logger}
}

// Run executes a scenario with the built-in streams and discarded logs.
func Run(scenario *Scenario) (*Result, error) {
	return New(nil, nil).Run(scenario)
}

// Run loads the scenario's score, renders it and evaluates the assertions.
//
// Load and render failures are recorded in the result, where error_code
// assertions can match them. The returned error is reserved for failures
// outside the score itself.
func (h *Harness) Run(scenario *Scenario) (*Result, error) {
	if scenario == nil {
		return nil, fmt.Errorf("nil scenario")
	}

	result := NewResult()

	sc, err := config.Load(scenario.Score, h.registry, engine.WithLogger(h.logger))
	if err != nil {
		var le *config.LoadError
		if !errors.As(err, &le) {
			return nil, fmt.Errorf("failed to load score: %w", err)
		}
		h.recordFailure(result, err)
	} else {
		output, err := sc.Render()
		if err != nil {
			h.recordFailure(result, err)
		} else {
			result.Output = output
		}
		result.Parts = traceParts(sc)
	}

	for _, msg := range EvaluateAssertions(result, scenario.Assertions) {
		result.AddError(msg)
	}

	h.logger.Debug("scenario finished",
		"scenario", scenario.Name,
		"pass", result.Pass,
		"statements", result.StatementCount(-1))

	return result, nil
}

func (h *Harness) recordFailure(result *Result, err error) {
	result.RenderError = err.Error()
	result.ErrorCode = config.ErrorCode(err)
}

// traceParts captures what each part generated. Parts that failed, or that
// follow a failed part, have no statements.
func traceParts(sc *score.Score) []PartTrace {
	parts := sc.Parts()
	traces := make([]PartTrace, 0, len(parts))
	for _, p := range parts {
		inst, _ := p.Instrument()
		end, _ := p.End()
		pt := PartTrace{
			Name:       p.Name(),
			Instrument: inst,
			End:        end,
			Statements: []StatementTrace{},
		}
		for _, st := range p.Statements() {
			onset, _ := st.Onset()
			dur, _ := st.Duration()
			pt.Statements = append(pt.Statements, StatementTrace{
				Onset:    onset,
				Duration: dur,
				Text:     st.Render(),
			})
		}
		traces = append(traces, pt)
	}
	return traces
}
