package compiler

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseYAMLBasic(t *testing.T) {
	data := []byte(`alphabet_size: 2
states: 3
initial: 0
final: [2]
transitions:
  - {from: 0, symbol: a, to: 1}
  - {from: 1, symbol: 1, to: 2}
`)

	src, err := ParseYAML(data, "ab.yaml")
	require.NoError(t, err)

	assert.Equal(t, FormatYAML, src.Format)
	assert.Equal(t, validDescription(), src.Description)
}

func TestParseYAMLLines(t *testing.T) {
	data := []byte(`alphabet_size: 2
states: 3
initial: 0
final:
  - 2
transitions:
  - from: 0
    symbol: a
    to: 1
  - {from: 1, symbol: b, to: 2}
`)

	src, err := ParseYAML(data, "")
	require.NoError(t, err)

	assert.Equal(t, 1, src.Lines["alphabet_size"])
	assert.Equal(t, 2, src.Lines["state_count"])
	assert.Equal(t, 3, src.Lines["initial_state"])
	assert.Equal(t, 5, src.Lines["final_states[0]"])
	assert.Equal(t, 7, src.Lines["transitions[0]"])
	assert.Equal(t, 10, src.Lines["transitions[1]"])

	assert.Equal(t, 7, src.LineOf("transitions[0].dest"))
}

func TestParseYAMLRejectsUnknownField(t *testing.T) {
	data := []byte(`alphabet_size: 2
states: 3
initial: 0
accepting: [2]
`)

	_, err := ParseYAML(data, "bad.yaml")
	require.Error(t, err)

	var ce *CompileError
	require.True(t, errors.As(err, &ce))
	assert.Equal(t, "yaml", ce.Field)
	assert.Contains(t, ce.Message, "accepting")
}

func TestParseYAMLBadSymbol(t *testing.T) {
	data := []byte(`alphabet_size: 2
states: 1
initial: 0
transitions:
  - {from: 0, symbol: AB, to: 0}
`)

	_, err := ParseYAML(data, "")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "single lowercase letter")
}

func TestParseYAMLEmpty(t *testing.T) {
	_, err := ParseYAML(nil, "empty.yaml")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "empty document")
}

func TestDefinitionDescription(t *testing.T) {
	def := Definition{
		AlphabetSize: 3,
		States:       2,
		Initial:      1,
		Final:        []int{0},
		Transitions:  []DefTransition{{From: 1, Symbol: 2, To: 0}},
	}

	d := def.Description()
	assert.Equal(t, 3, d.AlphabetSize)
	assert.Equal(t, 2, d.StateCount)
	assert.Equal(t, 1, d.InitialState)
	assert.Equal(t, []int{0}, d.FinalStates)
	require.Len(t, d.Transitions, 1)
	assert.Equal(t, 2, d.Transitions[0].Symbol)

	def.Final[0] = 1
	assert.Equal(t, []int{0}, d.FinalStates, "description must not alias the definition")
}
