package store

import (
	"database/sql"
	"reflect"
	"testing"

	"github.com/roach88/dfa/internal/ir"
)

func TestWriteAutomaton_RoundTrip(t *testing.T) {
	s := createTestStore(t)
	writeTestAutomaton(t, s)

	got, err := s.ReadAutomaton(t.Context(), testAutomatonID)
	if err != nil {
		t.Fatalf("ReadAutomaton() failed: %v", err)
	}
	if !reflect.DeepEqual(got, testDescription) {
		t.Errorf("ReadAutomaton() = %+v, want %+v", got, testDescription)
	}
}

func TestWriteAutomaton_Idempotent(t *testing.T) {
	s := createTestStore(t)
	writeTestAutomaton(t, s)
	writeTestAutomaton(t, s)

	var count int
	if err := s.db.QueryRow("SELECT COUNT(*) FROM automata").Scan(&count); err != nil {
		t.Fatalf("count automata: %v", err)
	}
	if count != 1 {
		t.Errorf("automata count = %d, want 1", count)
	}
}

func TestReadAutomaton_NormalizesFinals(t *testing.T) {
	s := createTestStore(t)

	d := testDescription
	d.FinalStates = []int{2, 0, 2}
	if err := s.WriteAutomaton(t.Context(), "custom", d); err != nil {
		t.Fatalf("WriteAutomaton() failed: %v", err)
	}

	got, err := s.ReadAutomaton(t.Context(), "custom")
	if err != nil {
		t.Fatalf("ReadAutomaton() failed: %v", err)
	}
	if !reflect.DeepEqual(got.FinalStates, []int{0, 2}) {
		t.Errorf("FinalStates = %v, want [0 2]", got.FinalStates)
	}
}

func TestReadAutomaton_NoTransitions(t *testing.T) {
	s := createTestStore(t)

	d := ir.Description{AlphabetSize: 1, StateCount: 1}
	if err := s.WriteAutomaton(t.Context(), "empty", d); err != nil {
		t.Fatalf("WriteAutomaton() failed: %v", err)
	}

	got, err := s.ReadAutomaton(t.Context(), "empty")
	if err != nil {
		t.Fatalf("ReadAutomaton() failed: %v", err)
	}
	if got.FinalStates == nil || len(got.FinalStates) != 0 {
		t.Errorf("FinalStates = %#v, want empty non-nil", got.FinalStates)
	}
	if got.Transitions == nil || len(got.Transitions) != 0 {
		t.Errorf("Transitions = %#v, want empty non-nil", got.Transitions)
	}
}

func TestReadAutomaton_NotFound(t *testing.T) {
	s := createTestStore(t)

	_, err := s.ReadAutomaton(t.Context(), "missing")
	if err != sql.ErrNoRows {
		t.Errorf("ReadAutomaton() error = %v, want sql.ErrNoRows", err)
	}
}

func TestWriteQuery_RoundTrip(t *testing.T) {
	s := createTestStore(t)
	writeTestAutomaton(t, s)

	rec := createTestQuery("q1", "sess-1", "ab", 1)
	rec.State = 2
	if err := s.WriteQuery(t.Context(), rec); err != nil {
		t.Fatalf("WriteQuery() failed: %v", err)
	}

	got, err := s.ReadQuery(t.Context(), "q1")
	if err != nil {
		t.Fatalf("ReadQuery() failed: %v", err)
	}
	if got != rec {
		t.Errorf("ReadQuery() = %+v, want %+v", got, rec)
	}
}

func TestWriteQuery_Idempotent(t *testing.T) {
	s := createTestStore(t)
	writeTestAutomaton(t, s)

	rec := createTestQuery("q1", "sess-1", "ab", 1)
	for i := 0; i < 2; i++ {
		if err := s.WriteQuery(t.Context(), rec); err != nil {
			t.Fatalf("WriteQuery() #%d failed: %v", i, err)
		}
	}

	got, err := s.ReadQueries(t.Context(), ir.QueryFilter{})
	if err != nil {
		t.Fatalf("ReadQueries() failed: %v", err)
	}
	if len(got) != 1 {
		t.Errorf("ReadQueries() returned %d records, want 1", len(got))
	}
}

func TestWriteQuery_UnknownAutomaton(t *testing.T) {
	s := createTestStore(t)

	rec := createTestQuery("q1", "sess-1", "ab", 1)
	rec.AutomatonID = "missing"
	if err := s.WriteQuery(t.Context(), rec); err == nil {
		t.Error("expected foreign key error")
	}
}

func TestReadQuery_NotFound(t *testing.T) {
	s := createTestStore(t)

	_, err := s.ReadQuery(t.Context(), "missing")
	if err != sql.ErrNoRows {
		t.Errorf("ReadQuery() error = %v, want sql.ErrNoRows", err)
	}
}

func TestReadQueries_Empty(t *testing.T) {
	s := createTestStore(t)

	got, err := s.ReadQueries(t.Context(), ir.QueryFilter{})
	if err != nil {
		t.Fatalf("ReadQueries() failed: %v", err)
	}
	if got == nil {
		t.Error("ReadQueries() returned nil, want empty slice")
	}
}

func TestReadQueries_DeterministicOrder(t *testing.T) {
	s := createTestStore(t)
	writeTestAutomaton(t, s)

	// sess-1 is recorded first, so all of its queries come before sess-2.
	// Inside a session equal seqs are broken by ID.
	recs := []ir.QueryRecord{
		createTestQuery("c", "sess-1", "b", 2),
		createTestQuery("b", "sess-2", "a", 1),
		createTestQuery("a", "sess-1", "ab", 2),
		createTestQuery("d", "sess-1", "", 1),
	}
	for _, rec := range recs {
		if err := s.WriteQuery(t.Context(), rec); err != nil {
			t.Fatalf("WriteQuery() failed: %v", err)
		}
	}

	got, err := s.ReadQueries(t.Context(), ir.QueryFilter{})
	if err != nil {
		t.Fatalf("ReadQueries() failed: %v", err)
	}

	want := []string{"d", "a", "c", "b"}
	if ids := queryIDs(got); !reflect.DeepEqual(ids, want) {
		t.Errorf("order = %v, want %v", ids, want)
	}
}

func TestReadQueries_Filters(t *testing.T) {
	s := createTestStore(t)
	writeTestAutomaton(t, s)

	other := ir.Description{AlphabetSize: 1, StateCount: 1, FinalStates: []int{0}}
	otherID := ir.MustAutomatonID(other)
	if err := s.WriteAutomaton(t.Context(), otherID, other); err != nil {
		t.Fatalf("WriteAutomaton() failed: %v", err)
	}

	recs := []ir.QueryRecord{
		createTestQuery("q1", "sess-1", "a", 1),
		createTestQuery("q2", "sess-1", "ab", 2),
		createTestQuery("q3", "sess-2", "b", 3),
		createTestQuery("q4", "sess-2", "", 4),
	}
	recs[3].AutomatonID = otherID
	for _, rec := range recs {
		if err := s.WriteQuery(t.Context(), rec); err != nil {
			t.Fatalf("WriteQuery() failed: %v", err)
		}
	}

	tests := []struct {
		name   string
		filter ir.QueryFilter
		want   []string
	}{
		{"all", ir.QueryFilter{}, []string{"q1", "q2", "q3", "q4"}},
		{"session", ir.QueryFilter{SessionID: "sess-2"}, []string{"q3", "q4"}},
		{"automaton", ir.QueryFilter{AutomatonID: otherID}, []string{"q4"}},
		{"session and automaton", ir.QueryFilter{SessionID: "sess-2", AutomatonID: testAutomatonID}, []string{"q3"}},
		{"limit", ir.QueryFilter{Limit: 2}, []string{"q1", "q2"}},
		{"no match", ir.QueryFilter{SessionID: "nope"}, []string{}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := s.ReadQueries(t.Context(), tt.filter)
			if err != nil {
				t.Fatalf("ReadQueries() failed: %v", err)
			}
			if ids := queryIDs(got); !reflect.DeepEqual(ids, tt.want) {
				t.Errorf("ReadQueries(%+v) = %v, want %v", tt.filter, ids, tt.want)
			}
		})
	}
}

func TestListSessions(t *testing.T) {
	s := createTestStore(t)
	writeTestAutomaton(t, s)

	recs := []ir.QueryRecord{
		createTestQuery("q1", "sess-b", "a", 5),
		createTestQuery("q2", "sess-a", "a", 1),
		createTestQuery("q3", "sess-b", "b", 6),
		createTestQuery("q4", "sess-c", "b", 1),
	}
	for _, rec := range recs {
		if err := s.WriteQuery(t.Context(), rec); err != nil {
			t.Fatalf("WriteQuery() failed: %v", err)
		}
	}

	got, err := s.ListSessions(t.Context())
	if err != nil {
		t.Fatalf("ListSessions() failed: %v", err)
	}
	// Recording order wins over both seq and ID.
	want := []string{"sess-b", "sess-a", "sess-c"}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("ListSessions() = %v, want %v", got, want)
	}
}

func queryIDs(recs []ir.QueryRecord) []string {
	ids := make([]string, len(recs))
	for i, r := range recs {
		ids[i] = r.ID
	}
	return ids
}
