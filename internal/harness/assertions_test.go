package harness

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/roach88/dfa/internal/ir"
	"github.com/roach88/dfa/internal/store"
	"github.com/roach88/dfa/internal/testutil"
)

func assertionContext(t *testing.T, recs ...ir.QueryRecord) *AssertionContext {
	t.Helper()

	st, err := store.Open(filepath.Join(t.TempDir(), "log.db"))
	require.NoError(t, err)
	t.Cleanup(func() { st.Close() })

	desc := testutil.UnreachableFinal()
	id := ir.MustAutomatonID(desc)
	require.NoError(t, st.WriteAutomaton(t.Context(), id, desc))
	for _, rec := range recs {
		rec.AutomatonID = id
		require.NoError(t, st.WriteQuery(t.Context(), rec))
	}

	return &AssertionContext{
		Store:     st,
		Engine:    testutil.MustEngine(t, desc),
		SessionID: "sess",
		Ctx:       context.Background(),
	}
}

func TestEvaluateAssertions_States(t *testing.T) {
	actx := assertionContext(t)
	result := NewResult()

	errs := EvaluateAssertions(result, []Assertion{
		{Type: AssertLiveStates, States: []int{2}},
		{Type: AssertDeadStates, States: []int{1, 0, 1}},
	}, actx)
	assert.Empty(t, errs)

	errs = EvaluateAssertions(result, []Assertion{
		{Type: AssertLiveStates, States: []int{0, 2}},
	}, actx)
	require.Len(t, errs, 1)
	assert.Contains(t, errs[0], "Expected: [0 2]")
	assert.Contains(t, errs[0], "Actual: [2]")
}

func TestEvaluateAssertions_Counts(t *testing.T) {
	actx := assertionContext(t,
		ir.QueryRecord{ID: "q1", SessionID: "sess", Word: "a", Seq: 1, State: 1},
		ir.QueryRecord{ID: "q2", SessionID: "sess", Word: "", Accepted: true, Prefix: true, Seq: 2},
		ir.QueryRecord{ID: "q3", SessionID: "other", Word: "a", Accepted: true, Seq: 3},
	)
	result := NewResult()

	errs := EvaluateAssertions(result, []Assertion{
		{Type: AssertQueryCount, Count: 2},
		{Type: AssertAcceptedCount, Count: 1},
	}, actx)
	assert.Empty(t, errs, "only the session's own rows count")

	errs = EvaluateAssertions(result, []Assertion{
		{Type: AssertAcceptedCount, Count: 0},
	}, actx)
	require.Len(t, errs, 1)
	assert.Contains(t, errs[0], "accepted_count")
}

func TestEvaluateAssertions_Unknown(t *testing.T) {
	errs := EvaluateAssertions(NewResult(), []Assertion{{Type: "bogus"}}, assertionContext(t))
	require.Len(t, errs, 1)
	assert.Equal(t, `assertions[0]: unknown assertion type "bogus"`, errs[0])
}

func TestAssertionError_IncludesTrace(t *testing.T) {
	err := &AssertionError{
		Type:     AssertQueryCount,
		Expected: "3",
		Actual:   "1",
		Trace:    []QueryEvent{{Seq: 1, Word: "ab", Accepted: true, Prefix: true, State: 1}},
	}

	msg := err.Error()
	assert.Contains(t, msg, "Assertion failed: query_count")
	assert.Contains(t, msg, "Full trace:")
	assert.Contains(t, msg, `[1] "ab" accepted=true prefix=true state=1`)
}
