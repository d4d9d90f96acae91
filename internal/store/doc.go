// Package store provides the SQLite-backed query log.
//
// The log is append-only and holds two tables:
//   - automata: normalized descriptions keyed by content-addressed ID
//   - queries: one verdict per evaluated word, tagged with its session
//
// # Ordering
//
// All ordering uses the seq column (logical clock), never timestamps.
// Every multi-row read uses ORDER BY seq ASC, id ASC COLLATE BINARY so
// that repeated reads return identical results.
//
// # Idempotency
//
// Both tables are keyed by content-addressed IDs computed in internal/ir
// (RFC 8785 canonical JSON, SHA-256 with domain separation). Writing a row
// whose ID already exists is a no-op.
//
// # Database Configuration
//
//   - WAL mode: Concurrent reads during writes
//   - synchronous=NORMAL: Balance durability/performance
//   - busy_timeout=5000: Wait for locks up to 5 seconds
//   - foreign_keys=ON: A query must reference a recorded automaton
package store
