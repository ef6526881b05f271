// Package testutil provides deterministic streams and parts for tests.
package testutil

import (
	"io"
	"log/slog"

	"github.com/roach88/csgen/internal/engine"
	"github.com/roach88/csgen/internal/ir"
)

// Sequence yields its values in order and then repeats the last one.
// It owns its position and rewinds on Reset, so every generation run sees
// the same values.
type Sequence struct {
	values []float64
	idx    int
	calls  int
}

// NewSequence creates a Sequence. It panics on an empty list, which is a
// test bug.
func NewSequence(values ...float64) *Sequence {
	if len(values) == 0 {
		panic("testutil.NewSequence: no values")
	}
	return &Sequence{values: values}
}

// Next implements engine.Stream.
func (s *Sequence) Next(*engine.GenContext) ir.Value {
	s.calls++
	v := s.values[s.idx]
	if s.idx < len(s.values)-1 {
		s.idx++
	}
	return ir.Number(v)
}

// Reset implements engine.Resetter.
func (s *Sequence) Reset() {
	s.idx = 0
}

// Calls returns how many times Next has been called since creation.
func (s *Sequence) Calls() int {
	return s.calls
}

// Snapshot is a copy of the GenContext fields a stream observed.
type Snapshot struct {
	Now       float64
	Step      int
	LastDelay float64
	// LastOnset is p2 of GenContext.Last, or -1 when Last was nil.
	LastOnset float64
	// PreviousOnset is p2 of GenContext.Previous, or -1 when it was nil.
	PreviousOnset float64
}

// Recorder wraps a stream and records a Snapshot of every context it sees.
type Recorder struct {
	Inner     engine.Stream
	Snapshots []Snapshot
}

// Next implements engine.Stream.
func (r *Recorder) Next(c *engine.GenContext) ir.Value {
	snap := Snapshot{Now: c.Now, Step: c.Step, LastDelay: c.LastDelay, LastOnset: -1, PreviousOnset: -1}
	if c.Last != nil {
		if onset, ok := c.Last.Onset(); ok {
			snap.LastOnset = onset
		}
	}
	if c.Previous != nil {
		if onset, ok := c.Previous.Onset(); ok {
			snap.PreviousOnset = onset
		}
	}
	r.Snapshots = append(r.Snapshots, snap)
	return r.Inner.Next(c)
}

// NowPlus yields GenContext.Now + offset.
func NowPlus(offset float64) engine.Stream {
	return engine.StreamFunc(func(c *engine.GenContext) ir.Value {
		return ir.Number(c.Now + offset)
	})
}

// InverseDuration yields 1 / p3 of the statement under construction.
func InverseDuration() engine.Stream {
	return engine.StreamFunc(func(c *engine.GenContext) ir.Value {
		d, ok := c.Last.Duration()
		if !ok || d == 0 {
			return ir.Number(0)
		}
		return ir.Number(1 / d)
	})
}

// DiscardLogger returns a logger that drops everything.
func DiscardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}
