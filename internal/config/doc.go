// Package config loads score documents and turns them into scores.
//
// # Document Format
//
// Documents are YAML (JSON is accepted as a YAML subset) or CUE:
//
//	header: |
//	  f1 0 512 10 1
//	footer: |
//	  e
//	parts:
//	  - name: melody
//	    instrument: 1
//	    start: 0.5
//	    end: 10
//	    duration: {sequence: [1, 2, 3, 4]}
//	    delay: {const: 0.5}
//	    fields:
//	      4: {now: {offset: 1}}
//	      5: inverse_duration
//
// A stream is either a bare name or a mapping with exactly one key, the
// stream name, whose value is handed to the stream factory as its payload.
// Unknown document keys are rejected.
//
// The loader does not check that a part is complete. Missing end times,
// streams or instrument numbers surface as engine configuration errors when
// the score is validated or rendered, and field keys the engine refuses are
// logged and skipped.
package config
