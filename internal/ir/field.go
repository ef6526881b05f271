package ir

import (
	"math"
	"strconv"

	"golang.org/x/text/unicode/norm"
)

// Kind identifies what a Value holds.
type Kind int

const (
	// KindAbsent is the zero Kind: the field was never set.
	KindAbsent Kind = iota
	// KindNumber holds a float64.
	KindNumber
	// KindText holds a string.
	KindText
)

// String returns the lower-case kind name.
func (k Kind) String() string {
	switch k {
	case KindNumber:
		return "number"
	case KindText:
		return "text"
	default:
		return "absent"
	}
}

// AbsentMarker is how an absent field prints when it is followed by set fields.
const AbsentMarker = "."

// Value is a single p-field value. The zero Value is absent.
type Value struct {
	kind Kind
	num  float64
	text string
}

// Number returns a numeric Value.
func Number(f float64) Value {
	return Value{kind: KindNumber, num: f}
}

// Text returns a text Value. The string is NFC normalised so that visually
// identical input produces byte-identical scores.
func Text(s string) Value {
	return Value{kind: KindText, text: norm.NFC.String(s)}
}

// Kind reports what v holds.
func (v Value) Kind() Kind { return v.kind }

// IsAbsent reports whether v was never set.
func (v Value) IsAbsent() bool { return v.kind == KindAbsent }

// Float returns the numeric value and true, or 0 and false for text and
// absent values.
func (v Value) Float() (float64, bool) {
	if v.kind != KindNumber {
		return 0, false
	}
	return v.num, true
}

// String renders v as it appears in a score.
func (v Value) String() string {
	switch v.kind {
	case KindNumber:
		return FormatNumber(v.num)
	case KindText:
		return v.text
	default:
		return AbsentMarker
	}
}

// FormatNumber prints f with at most 15 significant digits, dropping
// trailing zeros. Negative zero prints as "0".
func FormatNumber(f float64) string {
	if f == 0 {
		return "0"
	}
	if math.IsInf(f, 0) || math.IsNaN(f) {
		return strconv.FormatFloat(f, 'g', -1, 64)
	}
	return strconv.FormatFloat(f, 'g', 15, 64)
}
