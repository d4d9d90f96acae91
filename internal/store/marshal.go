package store

import (
	"encoding/json"
	"fmt"

	"github.com/roach88/dfa/internal/ir"
)

// storedDescription mirrors the canonical encoding of ir.Description.ToIR,
// where each transition is a [source, symbol, dest] triple.
type storedDescription struct {
	AlphabetSize int      `json:"alphabet_size"`
	StateCount   int      `json:"state_count"`
	InitialState int      `json:"initial_state"`
	FinalStates  []int    `json:"final_states"`
	Transitions  [][3]int `json:"transitions"`
}

// marshalDescription converts a description to canonical JSON TEXT for
// storage. Uses the same encoding the automaton ID is hashed over.
func marshalDescription(d ir.Description) (string, error) {
	data, err := ir.MarshalCanonical(d.ToIR())
	if err != nil {
		return "", fmt.Errorf("marshal description: %w", err)
	}
	return string(data), nil
}

// unmarshalDescription parses canonical JSON TEXT back into a description.
func unmarshalDescription(data string) (ir.Description, error) {
	var sd storedDescription
	if err := json.Unmarshal([]byte(data), &sd); err != nil {
		return ir.Description{}, fmt.Errorf("unmarshal description: %w", err)
	}

	d := ir.Description{
		AlphabetSize: sd.AlphabetSize,
		StateCount:   sd.StateCount,
		InitialState: sd.InitialState,
		FinalStates:  sd.FinalStates,
		Transitions:  make([]ir.Transition, len(sd.Transitions)),
	}
	if d.FinalStates == nil {
		d.FinalStates = []int{}
	}
	for i, t := range sd.Transitions {
		d.Transitions[i] = ir.Transition{Source: t[0], Symbol: t[1], Dest: t[2]}
	}
	return d, nil
}

func boolToInt(b bool) int {
	if b {
		return 1
	}
	return 0
}
