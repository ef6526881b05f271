package harness

// StatementTrace is the generated timing of one statement.
type StatementTrace struct {
	Onset    float64 `json:"onset"`
	Duration float64 `json:"duration"`
	Text     string  `json:"text"`
}

// PartTrace is everything a part generated in one render.
type PartTrace struct {
	Name       string           `json:"name,omitempty"`
	Instrument int              `json:"instrument"`
	End        float64          `json:"end"`
	Statements []StatementTrace `json:"statements"`
}

// Result is the outcome of a scenario execution.
type Result struct {
	// Pass is true if every assertion held.
	Pass bool `json:"pass"`

	// Output is the rendered score, empty if rendering failed.
	Output string `json:"output,omitempty"`

	// Parts holds per-part traces, in score order.
	Parts []PartTrace `json:"parts"`

	// RenderError is the rendering failure, if any.
	RenderError string `json:"render_error,omitempty"`

	// ErrorCode is the engine or loader code of RenderError.
	ErrorCode string `json:"error_code,omitempty"`

	// Errors contains assertion failure messages.
	Errors []string `json:"errors,omitempty"`
}

// NewResult creates a new passing result.
func NewResult() *Result {
	return &Result{
		Pass:   true,
		Parts:  []PartTrace{},
		Errors: []string{},
	}
}

// AddError adds a failure message and marks the result as failed.
func (r *Result) AddError(err string) {
	r.Errors = append(r.Errors, err)
	r.Pass = false
}

// StatementCount returns the statements generated by part i, or by all
// parts when i is negative.
func (r *Result) StatementCount(i int) int {
	if i >= 0 {
		if i >= len(r.Parts) {
			return 0
		}
		return len(r.Parts[i].Statements)
	}
	n := 0
	for _, p := range r.Parts {
		n += len(p.Statements)
	}
	return n
}
