package ir

import (
	"errors"
	"fmt"
	"strings"
)

// Conventional p-field positions.
const (
	FieldInstrument = 1
	FieldOnset      = 2
	FieldDuration   = 3

	// FirstFreeField is the lowest index a per-field stream may write.
	FirstFreeField = 4
)

// StatementPrefix starts every rendered i-statement.
const StatementPrefix = "i"

// ErrInvalidIndex is returned for p-field indices below 1.
var ErrInvalidIndex = errors.New("p-field index must be >= 1")

// Statement is one i-statement: an ordered list of p-fields, 1-based.
//
// A Statement is built by a single generation step and is not changed after
// it has been appended to a part's statement list.
type Statement struct {
	fields []Value // fields[0] is p1
}

// NewStatement returns an empty statement.
func NewStatement() *Statement {
	return &Statement{}
}

// SetField stores v at the 1-based index, growing the field list as needed.
// Fields skipped over stay absent.
func (s *Statement) SetField(index int, v Value) error {
	if index < 1 {
		return fmt.Errorf("set p%d: %w", index, ErrInvalidIndex)
	}
	for len(s.fields) < index {
		s.fields = append(s.fields, Value{})
	}
	s.fields[index-1] = v
	return nil
}

// Field returns the value at the 1-based index and whether it has been set.
// Indices below 1 and beyond the last field report false.
func (s *Statement) Field(index int) (Value, bool) {
	if index < 1 || index > len(s.fields) {
		return Value{}, false
	}
	v := s.fields[index-1]
	return v, !v.IsAbsent()
}

// Len returns the highest field index holding a value. Absent fields past
// it are never rendered.
func (s *Statement) Len() int {
	n := len(s.fields)
	for n > 0 && s.fields[n-1].IsAbsent() {
		n--
	}
	return n
}

// Onset returns p2 as a number.
func (s *Statement) Onset() (float64, bool) {
	return s.number(FieldOnset)
}

// Duration returns p3 as a number.
func (s *Statement) Duration() (float64, bool) {
	return s.number(FieldDuration)
}

func (s *Statement) number(index int) (float64, bool) {
	v, ok := s.Field(index)
	if !ok {
		return 0, false
	}
	return v.Float()
}

// Values returns a copy of the fields in index order.
func (s *Statement) Values() []Value {
	out := make([]Value, s.Len())
	copy(out, s.fields)
	return out
}

// Render returns the statement as a single score line: "i" followed by the
// fields in index order, separated by single spaces.
func (s *Statement) Render() string {
	return StatementPrefix + strings.Join(s.strings(), " ")
}

// DisplayFields returns the fields as strings with the "i" prefix applied to
// the first cell only. The table renderer lays these out in columns.
func (s *Statement) DisplayFields() []string {
	cells := s.strings()
	if len(cells) > 0 {
		cells[0] = StatementPrefix + cells[0]
	}
	return cells
}

func (s *Statement) strings() []string {
	out := make([]string, s.Len())
	for i := range out {
		out[i] = s.fields[i].String()
	}
	return out
}
