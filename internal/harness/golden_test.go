package harness

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRunWithGolden_Testdata(t *testing.T) {
	for _, name := range []string{
		"a_then_bs",
		"unreachable_final",
		"even_as",
		"shared_predecessors",
	} {
		t.Run(name, func(t *testing.T) {
			require.NoError(t, RunWithGolden(t, loadTestdata(t, name)))
		})
	}
}

func TestSnapshot_Canonical(t *testing.T) {
	result := NewResult()
	result.AutomatonID = "abc"
	result.SessionID = "s"
	result.Trace = append(result.Trace, QueryEvent{Seq: 1, Word: "a<b", Accepted: true, State: 2})

	data, err := Snapshot("snap", result)
	require.NoError(t, err)

	want := `{"automaton_id":"abc","live_states":[],"scenario_name":"snap","session_id":"s",` +
		`"trace":[{"accepted":true,"prefix":false,"seq":1,"state":2,"word":"a<b"}]}`
	assert.Equal(t, want, string(data))
}

func TestSnapshot_EmptyTrace(t *testing.T) {
	data, err := Snapshot("empty", NewResult())
	require.NoError(t, err)
	assert.Contains(t, string(data), `"trace":[]`)
}
