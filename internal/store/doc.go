// Package store provides a SQLite-backed archive of rendered scores.
//
// Every render written through the CLI with --db becomes one row: the
// source document path, the full text, its content hash and a few counts.
// Rows are append-only.
//
// # Ordering
//
// Rows carry a seq INTEGER assigned by the store. All listing queries use
// ORDER BY seq ASC, id ASC COLLATE BINARY so output is stable regardless of
// wall-clock time or insertion races.
//
// # Database Configuration
//
//   - WAL mode: Concurrent reads during writes
//   - synchronous=NORMAL: Balance durability/performance
//   - busy_timeout=5000: Wait for locks up to 5 seconds
//
// Content hashes come from ir.ContentHash, so identical renders of a
// deterministic score can be found with FindByHash.
package store
