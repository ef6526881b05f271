// Package ir defines the score-level data model shared by every other
// package: p-field values and i-statements.
//
// An i-statement is an ordered list of p-fields. By convention p1 is the
// instrument number, p2 the onset time and p3 the duration; p4 and up are
// instrument specific. Fields are addressed 1-based, exactly as they are in
// a Csound score.
//
// # Rendering
//
// Numbers are printed with up to 15 significant digits and no trailing
// zeros, so 0.5 prints as "0.5", 2.0 as "2" and 1/3 as "0.333333333333333".
// Text values are printed verbatim after NFC normalisation; callers that need
// a quoted Csound string include the quotes themselves.
//
// A field that was never set is absent. Absent fields that sit between set
// fields print as ".", the score carry symbol.
package ir
