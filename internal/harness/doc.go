// Package harness provides conformance testing for automata.
//
// The harness loads an automaton, evaluates scenario words through a
// recording session and checks verdicts, the query log and the live/dead
// partition of the states.
//
// # Scenario Format
//
// Scenarios are defined in YAML files with the following structure:
//
//	name: a_then_bs
//	description: "a followed by any number of b"
//	automaton: ../automata/a_then_bs.txt   # or an inline definition:
//	# definition:
//	#   alphabet_size: 2
//	#   states: 2
//	#   initial: 0
//	#   final: [1]
//	#   transitions:
//	#     - {from: 0, symbol: a, to: 1}
//	cases:
//	  - word: ab
//	    accepted: true
//	    prefix: true
//	assertions:
//	  - type: live_states
//	    states: [0, 1]
//	  - type: query_count
//	    count: 1
//
// A scenario with expect_invalid: true checks that the automaton is
// rejected instead, optionally listing the validation codes it must
// produce in expect_codes.
//
// # Assertion Types
//
//   - live_states: the states that can reach a final state
//   - dead_states: the states that cannot
//   - query_count: rows recorded for the session
//   - accepted_count: recorded rows that were accepted
//
// # Deterministic Testing
//
// The harness uses:
//   - A fixed session ID (scenario.session_id or "test-session-default")
//   - Deterministic logical clock (testutil.DeterministicClock)
//   - In-memory SQLite database (isolated per scenario)
//
// This ensures identical snapshots across runs for golden file comparison.
package harness
