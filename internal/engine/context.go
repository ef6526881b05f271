package engine

import "github.com/roach88/csgen/internal/ir"

// GenContext is the mutable state handed to every stream call during one
// generation run.
//
// The engine owns it. Streams may read any field but must not retain the
// pointer beyond the call.
type GenContext struct {
	// Now is the onset of the statement being built, in seconds.
	Now float64

	// Part is the part being generated.
	Part *Part

	// Last is the most recently built statement. While the duration stream
	// runs it is the previous statement (nil on the first step); for
	// per-field and delay streams it is the statement under construction.
	Last *ir.Statement

	// Previous is the statement built by the step before this one, nil on
	// the first step. It does not change while a step runs.
	Previous *ir.Statement

	// LastDelay is the delay returned at the end of the previous step.
	LastDelay float64

	// Step is the 0-based index of the statement being built.
	Step int
}

func newGenContext(p *Part) *GenContext {
	return &GenContext{Now: p.start, Part: p}
}
