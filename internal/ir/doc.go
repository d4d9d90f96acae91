// Package ir provides the plain data types shared by every layer of dfa.
//
// This package contains type definitions, canonical JSON encoding and
// content-addressed identity only. All other internal packages import ir;
// ir imports nothing internal.
//
// Key design constraints:
//   - Automaton descriptions are integers only (no symbols, no floats)
//   - Content IDs are SHA-256 over RFC 8785 canonical JSON with domain separation
//   - Query records carry a logical seq, never a wall-clock timestamp
//   - All JSON tags use snake_case
package ir
