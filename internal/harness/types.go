package harness

import "github.com/roach88/dfa/internal/ir"

// QueryEvent is one evaluated case in the order it ran.
type QueryEvent struct {
	Seq      int64  `json:"seq"`
	Word     string `json:"word"`
	Accepted bool   `json:"accepted"`
	Prefix   bool   `json:"prefix"`
	State    int    `json:"state"`
}

func queryEvent(rec ir.QueryRecord) QueryEvent {
	return QueryEvent{
		Seq:      rec.Seq,
		Word:     rec.Word,
		Accepted: rec.Accepted,
		Prefix:   rec.Prefix,
		State:    rec.State,
	}
}

// Result is the outcome of a test scenario execution.
type Result struct {
	// Pass indicates overall test success.
	Pass bool `json:"pass"`

	// AutomatonID is the content-addressed ID of the normalized automaton.
	// Empty when the automaton was rejected.
	AutomatonID string `json:"automaton_id,omitempty"`

	// SessionID is the session the cases were recorded under.
	SessionID string `json:"session_id,omitempty"`

	// Trace contains one event per case, in seq order.
	Trace []QueryEvent `json:"trace"`

	// LiveStates and DeadStates partition the states of the automaton.
	LiveStates []int `json:"live_states,omitempty"`
	DeadStates []int `json:"dead_states,omitempty"`

	// Findings holds validation codes reported for the automaton.
	Findings []string `json:"findings,omitempty"`

	// Errors contains failure messages. Empty if Pass is true.
	Errors []string `json:"errors,omitempty"`
}

// NewResult creates a new passing result.
func NewResult() *Result {
	return &Result{
		Pass:   true,
		Trace:  []QueryEvent{},
		Errors: []string{},
	}
}

// AddError adds a failure message and marks the result as failed.
func (r *Result) AddError(err string) {
	r.Errors = append(r.Errors, err)
	r.Pass = false
}
