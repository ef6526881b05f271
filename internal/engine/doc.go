// Package engine implements the i-statement generation loop.
//
// A Part owns an instrument number, a time window [start, end) and three
// kinds of stream: one for note durations, one for the gap after each note,
// and one per extra p-field. Generation is a discrete event simulation on a
// single time axis:
//
//  1. now starts at the part's start time
//  2. GenContext.Previous is set to the previous statement and the duration
//     stream is asked for p3 (GenContext.Last still points at the previous
//     statement)
//  3. a statement is created with p1 = instrument, p2 = now, p3 = duration
//     and becomes GenContext.Last
//  4. every per-field stream fills its p-field
//  5. the delay stream is asked for the gap and now advances by
//     duration + delay
//
// The loop runs while now < end, so it is driven by elapsed time rather than
// by a note count and streams are free to produce irregular rhythms.
//
// EXECUTION MODEL:
//
// Generation is single-threaded and synchronous. One GenContext is created
// per run, mutated in place and handed to every stream call; streams read it
// but never keep it. Every run starts from a fresh context and resets any
// stream that implements Resetter, so re-rendering an unchanged part gives an
// identical statement list.
//
// Per-field streams are independent of each other. They are called in
// ascending field order, but no stream may read another field of the
// statement under construction, so the order never affects the result.
//
// TERMINATION:
//
// Streams must eventually push now past end. A duration and delay that sum to
// zero or less loop forever; the engine does not detect this unless a
// statement cap is configured with WithMaxStatements.
package engine
