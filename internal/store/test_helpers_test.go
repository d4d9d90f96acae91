package store

import (
	"path/filepath"
	"testing"

	"github.com/roach88/dfa/internal/ir"
)

// testDescription accepts exactly "ab" over {a, b}.
var testDescription = ir.Description{
	AlphabetSize: 2,
	StateCount:   3,
	InitialState: 0,
	FinalStates:  []int{2},
	Transitions: []ir.Transition{
		{Source: 0, Symbol: 0, Dest: 1},
		{Source: 1, Symbol: 1, Dest: 2},
	},
}

var testAutomatonID = ir.MustAutomatonID(testDescription)

// createTestStore creates a new store in a temp directory for testing.
func createTestStore(t *testing.T) *Store {
	t.Helper()
	path := filepath.Join(t.TempDir(), "test.db")
	s, err := Open(path)
	if err != nil {
		t.Fatalf("Open() failed: %v", err)
	}
	t.Cleanup(func() { s.Close() })
	return s
}

// writeTestAutomaton records testDescription under testAutomatonID.
func writeTestAutomaton(t *testing.T, s *Store) {
	t.Helper()
	if err := s.WriteAutomaton(t.Context(), testAutomatonID, testDescription); err != nil {
		t.Fatalf("WriteAutomaton() failed: %v", err)
	}
}

// createTestQuery creates a query record for testAutomatonID.
func createTestQuery(id, sessionID, word string, seq int64) ir.QueryRecord {
	return ir.QueryRecord{
		ID:          id,
		SessionID:   sessionID,
		AutomatonID: testAutomatonID,
		Word:        word,
		Accepted:    word == "ab",
		Prefix:      word == "" || word == "a" || word == "ab",
		State:       -1,
		Seq:         seq,
		EngineVer:   ir.EngineVersion,
	}
}
