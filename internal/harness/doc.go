// Package harness runs score scenarios: small YAML files that point at a
// score document and state what its render must look like.
//
// # Scenario Format
//
//	name: scenario_a
//	description: "Reference part renders four statements"
//	score: scores/scenario_a.yaml   # relative to the scenario file
//	assertions:
//	  - type: statement_count
//	    part: 0
//	    count: 4
//	  - type: onsets_increasing
//	  - type: onsets_before_end
//	  - type: output_contains
//	    text: "i1         8"
//	  - type: error_code
//	    code: MISSING_END
//
// # Assertion Types
//
//   - statement_count: the part (or all parts, when part is omitted) produced
//     exactly count statements
//   - onsets_increasing: p2 strictly increases within every part
//   - onsets_before_end: every p2 is below its part's end time
//   - output_contains: the rendered score contains text
//   - error_code: rendering failed with the given engine or loader code
//
// # Golden Files
//
// The full rendered score is compared against testdata/golden/<name>.golden
// next to the scenario file. Regenerate with "csgen test --update" or, from
// Go tests, with "go test ./internal/harness -update".
//
// Scenarios are deterministic: built-in random streams are seeded and every
// stream is reset at the start of a render.
package harness
