package harness

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// writeScenario writes content to dir/name and returns the path.
func writeScenario(t *testing.T, dir, name, content string) string {
	t.Helper()
	path := filepath.Join(dir, name)
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

func TestLoadScenario_InlineDefinition(t *testing.T) {
	path := writeScenario(t, t.TempDir(), "inline.yaml", `
name: inline
description: "inline automaton"
definition:
  alphabet_size: 2
  states: 2
  initial: 0
  final: [1]
  transitions:
    - {from: 0, symbol: a, to: 1}
    - {from: 1, symbol: 1, to: 1}
cases:
  - word: ab
    accepted: true
assertions:
  - type: live_states
    states: [0, 1]
`)

	scenario, err := LoadScenario(path)
	require.NoError(t, err)

	assert.Equal(t, "inline", scenario.Name)
	require.NotNil(t, scenario.Definition)
	assert.Equal(t, 2, scenario.Definition.States)
	require.Len(t, scenario.Definition.Transitions, 2)
	assert.Equal(t, 1, int(scenario.Definition.Transitions[1].Symbol))
	require.Len(t, scenario.Cases, 1)
	require.NotNil(t, scenario.Cases[0].Accepted)
	assert.True(t, *scenario.Cases[0].Accepted)
	assert.Nil(t, scenario.Cases[0].Prefix)
}

func TestLoadScenarioWithBasePath_ResolvesAutomaton(t *testing.T) {
	scenario, err := LoadScenarioWithBasePath("testdata/scenarios/a_then_bs.yaml", "testdata/scenarios")
	require.NoError(t, err)

	assert.Equal(t, filepath.Join("testdata", "automata", "a_then_bs.txt"), scenario.Automaton)
	assert.Equal(t, "sess-a-then-bs", scenario.SessionID)
	assert.Len(t, scenario.Cases, 7)
}

func TestLoadScenario_UnresolvedPathMissing(t *testing.T) {
	// Without a base path the relative automaton path is used as written.
	_, err := LoadScenario("testdata/scenarios/a_then_bs.yaml")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "automaton file not found")
}

func TestLoadScenario_MissingFile(t *testing.T) {
	_, err := LoadScenario(filepath.Join(t.TempDir(), "missing.yaml"))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "failed to read scenario file")
}

func TestLoadScenario_UnknownField(t *testing.T) {
	path := writeScenario(t, t.TempDir(), "typo.yaml", `
name: typo
description: "typo in cases"
definition: {alphabet_size: 1, states: 1, initial: 0}
case:
  - word: a
    accepted: false
`)

	_, err := LoadScenario(path)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "failed to parse YAML")
}

func TestLoadScenario_Invalid(t *testing.T) {
	const def = "definition: {alphabet_size: 1, states: 1, initial: 0}\n"
	const cases = "cases:\n  - {word: a, accepted: false}\n"

	tests := []struct {
		name    string
		content string
		msg     string
	}{
		{"missing name", "description: d\n" + def + cases, "name is required"},
		{"missing description", "name: n\n" + def + cases, "description is required"},
		{"no automaton", "name: n\ndescription: d\n" + cases, "one of automaton or definition"},
		{"both automaton and definition", "name: n\ndescription: d\nautomaton: x.txt\n" + def + cases, "mutually exclusive"},
		{"automaton not found", "name: n\ndescription: d\nautomaton: /nonexistent/x.txt\n" + cases, "automaton file not found"},
		{"no cases", "name: n\ndescription: d\n" + def, "cases list is required"},
		{"case without expectation", "name: n\ndescription: d\n" + def + "cases:\n  - word: a\n", "cases[0]: at least one of accepted or prefix"},
		{"codes without invalid", "name: n\ndescription: d\n" + def + cases + "expect_codes: [E101]\n", "expect_codes requires expect_invalid"},
		{"invalid with cases", "name: n\ndescription: d\n" + def + cases + "expect_invalid: true\n", "cannot have cases"},
		{"unknown assertion", "name: n\ndescription: d\n" + def + cases + "assertions:\n  - type: bogus\n", `unknown assertion type "bogus"`},
		{"assertion without type", "name: n\ndescription: d\n" + def + cases + "assertions:\n  - count: 1\n", "assertions[0]: type is required"},
		{"negative count", "name: n\ndescription: d\n" + def + cases + "assertions:\n  - {type: query_count, count: -1}\n", "count must be non-negative"},
		{"states on count", "name: n\ndescription: d\n" + def + cases + "assertions:\n  - {type: query_count, states: [0]}\n", "states is not used"},
		{"count on states", "name: n\ndescription: d\n" + def + cases + "assertions:\n  - {type: live_states, count: 2}\n", "count is not used"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			path := writeScenario(t, t.TempDir(), "s.yaml", tt.content)

			_, err := LoadScenario(path)
			require.Error(t, err)
			assert.Contains(t, err.Error(), "invalid scenario")
			assert.Contains(t, err.Error(), tt.msg)
		})
	}
}

func TestLoadScenario_AllTestdata(t *testing.T) {
	paths, err := filepath.Glob("testdata/scenarios/*.yaml")
	require.NoError(t, err)
	require.NotEmpty(t, paths)

	for _, path := range paths {
		_, err := LoadScenarioWithBasePath(path, filepath.Dir(path))
		assert.NoError(t, err, path)
	}
}
