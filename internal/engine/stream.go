package engine

import "github.com/roach88/csgen/internal/ir"

// Stream produces successive values for one slot of a part: the duration,
// the delay, or a single p-field. Duration and delay streams must return
// numbers.
type Stream interface {
	Next(c *GenContext) ir.Value
}

// StreamFunc adapts an ordinary function to the Stream interface.
type StreamFunc func(c *GenContext) ir.Value

// Next calls f(c).
func (f StreamFunc) Next(c *GenContext) ir.Value {
	return f(c)
}

// Resetter is implemented by streams that keep state between calls, such as
// counters, sequences and seeded generators. The engine calls Reset on every
// such stream at the start of each run.
type Resetter interface {
	Reset()
}

// Const returns a stream that always yields v.
func Const(v ir.Value) Stream {
	return StreamFunc(func(*GenContext) ir.Value { return v })
}

// ConstNumber returns a stream that always yields f.
func ConstNumber(f float64) Stream {
	return Const(ir.Number(f))
}
