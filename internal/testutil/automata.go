package testutil

import (
	"testing"

	"github.com/roach88/dfa/internal/engine"
	"github.com/roach88/dfa/internal/ir"
)

// APlusBStar accepts a b* over {a, b}: state 0 --a--> 1, 1 --b--> 1,
// final {1}.
func APlusBStar() ir.Description {
	return ir.Description{
		AlphabetSize: 2,
		StateCount:   2,
		InitialState: 0,
		FinalStates:  []int{1},
		Transitions: []ir.Transition{
			{Source: 0, Symbol: 0, Dest: 1},
			{Source: 1, Symbol: 1, Dest: 1},
		},
	}
}

// UnreachableFinal has a final state 2 that no path from the initial
// state reaches; it accepts nothing.
func UnreachableFinal() ir.Description {
	return ir.Description{
		AlphabetSize: 2,
		StateCount:   3,
		InitialState: 0,
		FinalStates:  []int{2},
		Transitions: []ir.Transition{
			{Source: 0, Symbol: 0, Dest: 1},
			{Source: 1, Symbol: 1, Dest: 0},
			{Source: 2, Symbol: 0, Dest: 2},
		},
	}
}

// MustEngine builds an engine or fails the test.
func MustEngine(t testing.TB, desc ir.Description) *engine.Engine {
	t.Helper()
	e, err := engine.New(desc)
	if err != nil {
		t.Fatalf("engine.New() failed: %v", err)
	}
	return e
}
