// Package session binds an automaton engine to the query log.
//
// A Session evaluates words on an immutable engine, stamps each verdict
// with a logical sequence number and a content-addressed ID, and, when a
// recorder is attached, persists the automaton once and every query after
// it.
//
// Ordering uses the logical clock only. Session IDs are UUIDv7 strings in
// production and fixed strings in tests.
package session
