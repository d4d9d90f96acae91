// Package engine implements the dfa Automaton Engine.
//
// The engine owns the transition tables of one deterministic automaton,
// precomputes which states can still reach a final state, and answers two
// queries for a word: is it accepted, and is it a prefix of some accepted
// word.
//
// CONSTRUCTION:
//
//  1. Forward table allocated as a dense S×A array filled with Absent.
//  2. Transitions applied in order; a later triple for the same
//     (state, symbol) pair overrides an earlier one.
//  3. Predecessors indexed per (state, symbol) as a set, so several states
//     sharing a (dest, symbol) pair are all kept.
//  4. Breadth-first traversal backwards from every final state marks the
//     live ("reachable-to-final") states.
//
// Construction fails with *InvalidAutomatonError on any out-of-range index;
// no partially built engine is ever returned.
//
// QUERIES:
//
// Accepts and IsPrefix walk the forward table from the initial state. A
// symbol outside the configured alphabet, or a missing transition, ends the
// run and both queries answer false. This is a deliberate rejection policy:
// queries never return errors.
//
// CONCURRENCY:
//
// An Engine is immutable once built. Every accessor returns copies, so any
// number of goroutines may query the same Engine without locking.
package engine
