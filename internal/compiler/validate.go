package compiler

import (
	"fmt"

	"github.com/roach88/dfa/internal/engine"
	"github.com/roach88/dfa/internal/ir"
)

// Validation error codes (E100-E199), warning codes (W200-W299).
const (
	ErrAlphabetSize     = "E101" // alphabet size outside [1, 26]
	ErrStateCount       = "E102" // state count below 1 or table too large
	ErrInitialState     = "E103" // initial state out of range
	ErrFinalState       = "E104" // final state out of range
	ErrTransitionSource = "E105" // transition source out of range
	ErrTransitionSymbol = "E106" // transition symbol out of range
	ErrTransitionDest   = "E107" // transition destination out of range

	WarnOverriddenTransition = "W201" // later transition replaces an earlier one
	WarnDuplicateFinal       = "W202" // final state listed more than once
)

// Severity levels.
const (
	SeverityError   = "error"
	SeverityWarning = "warning"
)

// ValidationError represents a schema validation finding.
type ValidationError struct {
	Field    string `json:"field"`
	Message  string `json:"message"`
	Code     string `json:"code"`
	Severity string `json:"severity"`
	Line     int    `json:"line,omitempty"`
}

// Error implements the error interface.
func (e ValidationError) Error() string {
	if e.Line > 0 {
		return fmt.Sprintf("[%s] line %d: %s: %s", e.Code, e.Line, e.Field, e.Message)
	}
	return fmt.Sprintf("[%s] %s: %s", e.Code, e.Field, e.Message)
}

// IsWarning reports whether the finding is informational only.
func (e ValidationError) IsWarning() bool {
	return e.Severity == SeverityWarning
}

// HasErrors reports whether any finding has error severity.
func HasErrors(errs []ValidationError) bool {
	for _, e := range errs {
		if !e.IsWarning() {
			return true
		}
	}
	return false
}

// Validate checks a description against the engine's construction rules.
// Returns all findings (does not fail-fast), in description order.
//
// A description with no error-severity findings is guaranteed to build with
// engine.New.
func Validate(d ir.Description) []ValidationError {
	var errs []ValidationError
	add := func(code, severity, field, format string, args ...any) {
		errs = append(errs, ValidationError{
			Field:    field,
			Message:  fmt.Sprintf(format, args...),
			Code:     code,
			Severity: severity,
		})
	}

	if d.AlphabetSize < 1 || d.AlphabetSize > engine.MaxAlphabetSize {
		add(ErrAlphabetSize, SeverityError, "alphabet_size",
			"alphabet size %d must be between 1 and %d", d.AlphabetSize, engine.MaxAlphabetSize)
	}
	if d.StateCount < 1 {
		add(ErrStateCount, SeverityError, "state_count",
			"state count %d must be at least 1", d.StateCount)
	} else if !engine.TableFits(max(d.AlphabetSize, 1), d.StateCount) {
		add(ErrStateCount, SeverityError, "state_count",
			"state count %d times alphabet size %d exceeds %d table cells",
			d.StateCount, d.AlphabetSize, engine.MaxTableCells)
	}

	stateOK := func(s int) bool { return s >= 0 && s < d.StateCount }
	symbolOK := func(a int) bool { return a >= 0 && a < d.AlphabetSize && a < engine.MaxAlphabetSize }

	if !stateOK(d.InitialState) {
		add(ErrInitialState, SeverityError, "initial_state",
			"initial state %d out of range [0, %d)", d.InitialState, d.StateCount)
	}

	seenFinal := make(map[int]int)
	for i, f := range d.FinalStates {
		field := fmt.Sprintf("final_states[%d]", i)
		if !stateOK(f) {
			add(ErrFinalState, SeverityError, field,
				"final state %d out of range [0, %d)", f, d.StateCount)
			continue
		}
		if first, dup := seenFinal[f]; dup {
			add(WarnDuplicateFinal, SeverityWarning, field,
				"final state %d already listed at final_states[%d]", f, first)
			continue
		}
		seenFinal[f] = i
	}

	type pair struct{ source, symbol int }
	lastWrite := make(map[pair]int)
	for i, t := range d.Transitions {
		field := fmt.Sprintf("transitions[%d]", i)
		ok := true
		if !stateOK(t.Source) {
			add(ErrTransitionSource, SeverityError, field+".source",
				"source state %d out of range [0, %d)", t.Source, d.StateCount)
			ok = false
		}
		if !symbolOK(t.Symbol) {
			add(ErrTransitionSymbol, SeverityError, field+".symbol",
				"symbol %d out of range [0, %d)", t.Symbol, d.AlphabetSize)
			ok = false
		}
		if !stateOK(t.Dest) {
			add(ErrTransitionDest, SeverityError, field+".dest",
				"destination state %d out of range [0, %d)", t.Dest, d.StateCount)
			ok = false
		}
		if !ok {
			continue
		}

		key := pair{t.Source, t.Symbol}
		if prev, dup := lastWrite[key]; dup && d.Transitions[prev].Dest != t.Dest {
			add(WarnOverriddenTransition, SeverityWarning, field,
				"overrides transitions[%d]: state %d on %s now goes to %d instead of %d",
				prev, t.Source, engine.SymbolName(t.Symbol), t.Dest, d.Transitions[prev].Dest)
		}
		lastWrite[key] = i
	}

	return errs
}
