package engine

import (
	"log/slog"

	"github.com/roach88/dfa/internal/ir"
)

// Absent is the forward-table sentinel for "no transition".
const Absent = -1

// MaxTableCells bounds stateCount*alphabetSize, the number of forward
// table entries an Engine allocates.
const MaxTableCells = 1 << 24

// TableFits reports whether an automaton with these sizes stays within
// MaxTableCells. alphabetSize must be at least 1.
func TableFits(alphabetSize, stateCount int) bool {
	return stateCount <= MaxTableCells/alphabetSize
}

// Engine is an immutable deterministic automaton with a precomputed
// reachable-to-final set.
//
// INVARIANTS:
//   - 0 <= initial < stateCount; every final is in [0, stateCount)
//   - every forward entry is Absent or a valid state
//   - s ∈ predecessors(d, a) iff forward(s, a) == d
//   - every final state is live; live is closed under "has a forward
//     transition into a live state"
type Engine struct {
	alphabetSize int
	stateCount   int
	initial      int

	final  []bool
	finals []int // sorted, unique

	// forward[s*alphabetSize+a] is the destination of s on a, or Absent.
	forward []int

	// Predecessors of (d, a) are preds[predStart[c]:predStart[c+1]] with
	// c = d*alphabetSize+a, stored in ascending source order.
	predStart []int
	preds     []int

	live      []bool
	liveCount int
}

// New builds an Engine from a description.
//
// Transitions are applied in order, last write wins. Returns
// *InvalidAutomatonError when any size or index is out of bounds.
func New(desc ir.Description) (*Engine, error) {
	e, err := newEngine(desc.AlphabetSize, desc.StateCount, desc.InitialState, desc.FinalStates)
	if err != nil {
		return nil, err
	}

	for i, t := range desc.Transitions {
		if err := e.checkTransition(i, t); err != nil {
			return nil, err
		}
		e.forward[t.Source*e.alphabetSize+t.Symbol] = t.Dest
	}

	e.finish()
	return e, nil
}

// FromTable builds an Engine from an already-populated forward table.
//
// table must have stateCount rows of alphabetSize entries, each Absent or a
// valid state. The table is copied. The predecessor index and the live set
// are computed exactly as in New, so both queries behave identically on
// either constructor.
func FromTable(alphabetSize, stateCount, initial int, finals []int, table [][]int) (*Engine, error) {
	e, err := newEngine(alphabetSize, stateCount, initial, finals)
	if err != nil {
		return nil, err
	}

	if len(table) != stateCount {
		return nil, invalid("table", -1, "", len(table),
			"table has %d rows, want %d", len(table), stateCount)
	}
	for s, row := range table {
		if len(row) != alphabetSize {
			return nil, invalid("table", s, "", len(row),
				"row has %d entries, want %d", len(row), alphabetSize)
		}
		for a, d := range row {
			if d != Absent && (d < 0 || d >= stateCount) {
				return nil, outOfRange("table", s, SymbolName(a), "state", d, stateCount)
			}
			e.forward[s*alphabetSize+a] = d
		}
	}

	e.finish()
	return e, nil
}

// newEngine validates the header fields and allocates empty tables.
func newEngine(alphabetSize, stateCount, initial int, finals []int) (*Engine, error) {
	if alphabetSize < 1 || alphabetSize > MaxAlphabetSize {
		return nil, invalid("alphabet_size", -1, "", alphabetSize,
			"alphabet size %d must be between 1 and %d", alphabetSize, MaxAlphabetSize)
	}
	if stateCount < 1 {
		return nil, invalid("state_count", -1, "", stateCount,
			"state count %d must be at least 1", stateCount)
	}
	if !TableFits(alphabetSize, stateCount) {
		return nil, invalid("state_count", -1, "", stateCount,
			"state count %d times alphabet size %d exceeds %d table cells",
			stateCount, alphabetSize, MaxTableCells)
	}
	if initial < 0 || initial >= stateCount {
		return nil, outOfRange("initial_state", -1, "", "state", initial, stateCount)
	}

	e := &Engine{
		alphabetSize: alphabetSize,
		stateCount:   stateCount,
		initial:      initial,
		final:        make([]bool, stateCount),
		forward:      make([]int, stateCount*alphabetSize),
		live:         make([]bool, stateCount),
	}

	for i, f := range finals {
		if f < 0 || f >= stateCount {
			return nil, outOfRange("final_states", i, "", "state", f, stateCount)
		}
		e.final[f] = true
	}
	e.finals = ir.SortedUnique(finals)

	for i := range e.forward {
		e.forward[i] = Absent
	}
	return e, nil
}

// checkTransition validates one (source, symbol, dest) triple.
func (e *Engine) checkTransition(i int, t ir.Transition) error {
	if t.Source < 0 || t.Source >= e.stateCount {
		return outOfRange("transitions", i, "source", "state", t.Source, e.stateCount)
	}
	if t.Symbol < 0 || t.Symbol >= e.alphabetSize {
		return outOfRange("transitions", i, "symbol", "symbol", t.Symbol, e.alphabetSize)
	}
	if t.Dest < 0 || t.Dest >= e.stateCount {
		return outOfRange("transitions", i, "dest", "state", t.Dest, e.stateCount)
	}
	return nil
}

// finish indexes predecessors and marks live states. Called once, after
// which the Engine is never written again.
func (e *Engine) finish() {
	e.indexPredecessors()
	e.markLive()

	slog.Debug("automaton built",
		"alphabet_size", e.alphabetSize,
		"states", e.stateCount,
		"finals", len(e.finals),
		"live", e.liveCount,
	)
}

// indexPredecessors builds the inverse table as a compressed adjacency list
// (counting sort over destination cells).
func (e *Engine) indexPredecessors() {
	cells := e.stateCount * e.alphabetSize
	e.predStart = make([]int, cells+1)

	for s := 0; s < e.stateCount; s++ {
		for a := 0; a < e.alphabetSize; a++ {
			if d := e.forward[s*e.alphabetSize+a]; d != Absent {
				e.predStart[d*e.alphabetSize+a+1]++
			}
		}
	}
	for c := 0; c < cells; c++ {
		e.predStart[c+1] += e.predStart[c]
	}

	e.preds = make([]int, e.predStart[cells])
	fill := make([]int, cells)
	copy(fill, e.predStart[:cells])
	for s := 0; s < e.stateCount; s++ {
		for a := 0; a < e.alphabetSize; a++ {
			if d := e.forward[s*e.alphabetSize+a]; d != Absent {
				c := d*e.alphabetSize + a
				e.preds[fill[c]] = s
				fill[c]++
			}
		}
	}
}

// markLive runs the backward breadth-first traversal from the final states.
func (e *Engine) markLive() {
	q := newStateQueue(e.stateCount)
	for _, f := range e.finals {
		e.live[f] = true
		q.Push(f)
	}

	for {
		c, ok := q.Pop()
		if !ok {
			break
		}
		for a := 0; a < e.alphabetSize; a++ {
			cell := c*e.alphabetSize + a
			for _, p := range e.preds[e.predStart[cell]:e.predStart[cell+1]] {
				if !e.live[p] {
					e.live[p] = true
					q.Push(p)
				}
			}
		}
	}

	e.liveCount = q.head
}

// Accepts reports whether word is accepted: the run from the initial state
// consumes every symbol and ends in a final state.
func (e *Engine) Accepts(word string) bool {
	s, ok := e.Run(word)
	return ok && e.final[s]
}

// IsPrefix reports whether word is a prefix of some accepted word: the run
// consumes every symbol and ends in a live state.
func (e *Engine) IsPrefix(word string) bool {
	s, ok := e.Run(word)
	return ok && e.live[s]
}

// Evaluate answers both queries in a single traversal.
func (e *Engine) Evaluate(word string) ir.Verdict {
	s, ok := e.Run(word)
	if !ok {
		return ir.Verdict{Word: word, State: Absent}
	}
	return ir.Verdict{
		Word:     word,
		Accepted: e.final[s],
		Prefix:   e.live[s],
		State:    s,
	}
}

// Run walks word from the initial state. It returns the state reached and
// true, or (Absent, false) as soon as a symbol is outside the alphabet or
// has no transition.
func (e *Engine) Run(word string) (int, bool) {
	state := e.initial
	for _, r := range word {
		next, ok := e.Step(state, r)
		if !ok {
			return Absent, false
		}
		state = next
	}
	return state, true
}

// Step follows the transition of state on letter r.
func (e *Engine) Step(state int, r rune) (int, bool) {
	sym, ok := SymbolIndex(r, e.alphabetSize)
	if !ok {
		return Absent, false
	}
	return e.Next(state, sym)
}

// Next is the bounds-checked forward table lookup. Out-of-range arguments
// and missing transitions both report (Absent, false).
func (e *Engine) Next(state, symbol int) (int, bool) {
	if state < 0 || state >= e.stateCount || symbol < 0 || symbol >= e.alphabetSize {
		return Absent, false
	}
	d := e.forward[state*e.alphabetSize+symbol]
	return d, d != Absent
}

// Predecessors returns every state p with p --symbol--> state, ascending.
func (e *Engine) Predecessors(state, symbol int) []int {
	if state < 0 || state >= e.stateCount || symbol < 0 || symbol >= e.alphabetSize {
		return nil
	}
	c := state*e.alphabetSize + symbol
	out := make([]int, e.predStart[c+1]-e.predStart[c])
	copy(out, e.preds[e.predStart[c]:e.predStart[c+1]])
	return out
}

// IsFinal reports whether state is a final state.
func (e *Engine) IsFinal(state int) bool {
	return state >= 0 && state < e.stateCount && e.final[state]
}

// IsLive reports whether some final state is reachable from state.
func (e *Engine) IsLive(state int) bool {
	return state >= 0 && state < e.stateCount && e.live[state]
}

// LiveStates returns the reachable-to-final states in ascending order.
func (e *Engine) LiveStates() []int {
	out := make([]int, 0, e.liveCount)
	for s, ok := range e.live {
		if ok {
			out = append(out, s)
		}
	}
	return out
}

// DeadStates returns the states from which no final state is reachable.
func (e *Engine) DeadStates() []int {
	out := make([]int, 0, e.stateCount-e.liveCount)
	for s, ok := range e.live {
		if !ok {
			out = append(out, s)
		}
	}
	return out
}

// AlphabetSize returns the number of symbols.
func (e *Engine) AlphabetSize() int { return e.alphabetSize }

// StateCount returns the number of states.
func (e *Engine) StateCount() int { return e.stateCount }

// InitialState returns the initial state.
func (e *Engine) InitialState() int { return e.initial }

// FinalStates returns the final states in ascending order.
func (e *Engine) FinalStates() []int {
	out := make([]int, len(e.finals))
	copy(out, e.finals)
	return out
}

// Table returns a copy of the forward table as stateCount rows.
func (e *Engine) Table() [][]int {
	rows := make([][]int, e.stateCount)
	for s := range rows {
		rows[s] = make([]int, e.alphabetSize)
		copy(rows[s], e.forward[s*e.alphabetSize:(s+1)*e.alphabetSize])
	}
	return rows
}

// Description returns the normalized description of the engine: finals
// sorted and unique, one transition per present (source, symbol) pair in
// ascending order. Overridden transitions of the input are gone.
func (e *Engine) Description() ir.Description {
	desc := ir.Description{
		AlphabetSize: e.alphabetSize,
		StateCount:   e.stateCount,
		InitialState: e.initial,
		FinalStates:  e.FinalStates(),
		Transitions:  []ir.Transition{},
	}
	for s := 0; s < e.stateCount; s++ {
		for a := 0; a < e.alphabetSize; a++ {
			if d := e.forward[s*e.alphabetSize+a]; d != Absent {
				desc.Transitions = append(desc.Transitions, ir.Transition{Source: s, Symbol: a, Dest: d})
			}
		}
	}
	return desc
}

// ID returns the content-addressed ID of the normalized description.
// Engines built from equivalent inputs share an ID.
func (e *Engine) ID() (string, error) {
	return ir.AutomatonID(e.Description())
}
