package engine

import (
	"log/slog"
	"sort"
	"strconv"
	"strings"

	"github.com/roach88/csgen/internal/ir"
	"github.com/roach88/csgen/internal/table"
)

// Part generates the i-statements for one instrument over a time window.
//
// A Part is configured once through PartOptions and can then be generated
// or rendered any number of times. Each run discards the previous statement
// list and builds a new one.
type Part struct {
	name string

	instrument    int
	hasInstrument bool

	start  float64
	end    float64
	hasEnd bool

	duration Stream
	delay    Stream
	fields   map[int]Stream
	pending  []pendingField

	rejected      []FieldRejection
	maxStatements int
	logger        *slog.Logger

	statements []*ir.Statement
}

// FieldRejection records a per-field stream registration that was ignored.
type FieldRejection struct {
	Key    string
	Reason string
}

type pendingField struct {
	index  int
	stream Stream
}

// PartOption configures a Part.
type PartOption func(*Part)

// WithName labels the part in logs and errors.
func WithName(name string) PartOption {
	return func(p *Part) {
		p.name = name
	}
}

// WithInstrument sets p1. It must be at least 1.
func WithInstrument(n int) PartOption {
	return func(p *Part) {
		p.instrument = n
		p.hasInstrument = true
	}
}

// WithStart sets the onset of the first statement. Default: 0.
func WithStart(t float64) PartOption {
	return func(p *Part) {
		p.start = t
	}
}

// WithEnd sets the time bound. No statement starts at or after it.
func WithEnd(t float64) PartOption {
	return func(p *Part) {
		p.end = t
		p.hasEnd = true
	}
}

// WithDuration sets the stream that produces p3.
func WithDuration(s Stream) PartOption {
	return func(p *Part) {
		p.duration = s
	}
}

// WithDelay sets the stream that produces the gap after each statement.
func WithDelay(s Stream) PartOption {
	return func(p *Part) {
		p.delay = s
	}
}

// WithField registers a per-field stream. See Part.SetField.
//
// Registrations run after every other option, in the order given, so
// rejections reach the logger set by WithLogger wherever it appears.
func WithField(index int, s Stream) PartOption {
	return func(p *Part) {
		p.pending = append(p.pending, pendingField{index: index, stream: s})
	}
}

// WithMaxStatements caps the statements one run may produce.
//
// Default: 0, unlimited.
// Use a cap when streams come from untrusted documents and may never
// advance time.
func WithMaxStatements(n int) PartOption {
	return func(p *Part) {
		p.maxStatements = n
	}
}

// WithLogger sets the logger used for warnings and debug output.
// Default: slog.Default().
func WithLogger(l *slog.Logger) PartOption {
	return func(p *Part) {
		p.logger = l
	}
}

// NewPart creates a Part. Options are applied in order; nothing is
// validated until the part is generated.
func NewPart(opts ...PartOption) *Part {
	p := &Part{
		fields: make(map[int]Stream),
		logger: slog.Default(),
	}
	for _, opt := range opts {
		opt(p)
	}
	for _, f := range p.pending {
		p.SetField(f.index, f.stream)
	}
	p.pending = nil
	return p
}

// SetField registers s as the stream for p-field index.
//
// Fields 1 to 3 belong to the engine, so indices below 4 are rejected, as
// is a second registration for an index that already has a stream; the
// first one is kept. Rejection is not an error: it is logged at Warn level, recorded in
// Rejected, and the call reports false.
func (p *Part) SetField(index int, s Stream) bool {
	if index < ir.FirstFreeField {
		p.reject(strconv.Itoa(index), "p1-p3 are set by the engine")
		return false
	}
	if s == nil {
		p.reject(strconv.Itoa(index), "stream is nil")
		return false
	}
	if _, ok := p.fields[index]; ok {
		p.reject(strconv.Itoa(index), "duplicate p-field")
		return false
	}
	p.fields[index] = s
	return true
}

// SetFieldKey is SetField for keys read from a document. Keys must be
// integers, optionally written with a leading "p" ("p4"); anything else is
// rejected like an index below 4.
func (p *Part) SetFieldKey(key string, s Stream) bool {
	index, err := strconv.Atoi(strings.TrimPrefix(strings.TrimSpace(key), "p"))
	if err != nil {
		p.reject(key, "field key is not an integer")
		return false
	}
	return p.SetField(index, s)
}

func (p *Part) reject(key, reason string) {
	p.rejected = append(p.rejected, FieldRejection{Key: key, Reason: reason})
	p.logger.Warn("ignoring per-field stream",
		"part", p.name,
		"key", key,
		"reason", reason,
	)
}

// Rejected returns the registrations SetField and SetFieldKey ignored, in
// the order they were made.
func (p *Part) Rejected() []FieldRejection {
	out := make([]FieldRejection, len(p.rejected))
	copy(out, p.rejected)
	return out
}

// Name returns the part's label.
func (p *Part) Name() string { return p.name }

// Instrument returns p1 and whether it was set.
func (p *Part) Instrument() (int, bool) { return p.instrument, p.hasInstrument }

// Start returns the start time.
func (p *Part) Start() float64 { return p.start }

// End returns the end time and whether it was set.
func (p *Part) End() (float64, bool) { return p.end, p.hasEnd }

// FieldIndices returns the registered per-field indices in ascending order.
func (p *Part) FieldIndices() []int {
	indices := make([]int, 0, len(p.fields))
	for i := range p.fields {
		indices = append(indices, i)
	}
	sort.Ints(indices)
	return indices
}

// Statements returns the statements built by the most recent successful
// run, or nil if the part has not been generated.
func (p *Part) Statements() []*ir.Statement {
	return p.statements
}

// Validate checks the preconditions for generation, in order: end time set,
// end not before start, duration stream set, delay stream set, instrument
// set and positive. It returns the first failure as a *ConfigError.
func (p *Part) Validate() error {
	if !p.hasEnd {
		return newConfigError(p.name, ErrCodeMissingEnd, "end time is required")
	}
	if p.end < p.start {
		return newConfigError(p.name, ErrCodeEndBeforeStart,
			"end time %s is before start time %s", ir.FormatNumber(p.end), ir.FormatNumber(p.start))
	}
	if p.duration == nil {
		return newConfigError(p.name, ErrCodeMissingDuration, "duration stream is required")
	}
	if p.delay == nil {
		return newConfigError(p.name, ErrCodeMissingDelay, "delay stream is required")
	}
	if !p.hasInstrument {
		return newConfigError(p.name, ErrCodeMissingInstrument, "instrument number is required")
	}
	if p.instrument < 1 {
		return newConfigError(p.name, ErrCodeInvalidInstrument,
			"instrument number must be positive, got %d", p.instrument)
	}
	return nil
}

// Render generates the part and lays the statements out as a table.
func (p *Part) Render() (string, error) {
	statements, err := p.Generate()
	if err != nil {
		return "", err
	}
	return table.Render(statements), nil
}
