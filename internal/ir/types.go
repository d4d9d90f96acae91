package ir

import "sort"

// Transition is one (source, symbol, dest) triple of a transition relation.
type Transition struct {
	Source int `json:"source"`
	Symbol int `json:"symbol"`
	Dest   int `json:"dest"`
}

// Description is an automaton as delivered by a loader: sizes, the initial
// state, the explicit final set and the raw transition list.
//
// Transitions need not cover every (state, symbol) pair; missing pairs mean
// "no transition". Later transitions for the same pair override earlier ones.
type Description struct {
	AlphabetSize int          `json:"alphabet_size"`
	StateCount   int          `json:"state_count"`
	InitialState int          `json:"initial_state"`
	FinalStates  []int        `json:"final_states"`
	Transitions  []Transition `json:"transitions"`
}

// ToIR converts the description to an IRObject for canonical encoding.
// Final states are sorted and deduplicated so that equivalent final lists
// encode identically.
func (d Description) ToIR() IRObject {
	finals := SortedUnique(d.FinalStates)
	finalArr := make(IRArray, len(finals))
	for i, f := range finals {
		finalArr[i] = IRInt(f)
	}

	transArr := make(IRArray, len(d.Transitions))
	for i, t := range d.Transitions {
		transArr[i] = IRArray{IRInt(t.Source), IRInt(t.Symbol), IRInt(t.Dest)}
	}

	return IRObject{
		"alphabet_size": IRInt(d.AlphabetSize),
		"state_count":   IRInt(d.StateCount),
		"initial_state": IRInt(d.InitialState),
		"final_states":  finalArr,
		"transitions":   transArr,
	}
}

// SortedUnique returns a sorted copy of states with duplicates removed.
func SortedUnique(states []int) []int {
	out := make([]int, len(states))
	copy(out, states)
	sort.Ints(out)

	n := 0
	for i, s := range out {
		if i > 0 && s == out[n-1] {
			continue
		}
		out[n] = s
		n++
	}
	return out[:n]
}

// Verdict is the answer to both queries for a single word.
type Verdict struct {
	Word     string `json:"word"`
	Accepted bool   `json:"accepted"`
	Prefix   bool   `json:"prefix"`

	// State is the state reached after consuming the whole word, or -1 when
	// the run died on a missing transition or an out-of-alphabet symbol.
	State int `json:"state"`
}

// QueryRecord is a verdict stamped for the query log.
type QueryRecord struct {
	ID          string `json:"id"` // Content-addressed hash
	SessionID   string `json:"session_id"`
	AutomatonID string `json:"automaton_id"`
	Word        string `json:"word"`
	Accepted    bool   `json:"accepted"`
	Prefix      bool   `json:"prefix"`
	State       int    `json:"state"`
	Seq         int64  `json:"seq"` // Logical clock
	EngineVer   string `json:"engine_version"`
}

// Verdict returns the verdict carried by the record.
func (r QueryRecord) Verdict() Verdict {
	return Verdict{Word: r.Word, Accepted: r.Accepted, Prefix: r.Prefix, State: r.State}
}

// QueryFilter narrows a query log read. Zero values mean "no filter".
type QueryFilter struct {
	SessionID   string
	AutomatonID string
	Limit       int
}
