package engine

import (
	"errors"
	"fmt"
)

// ErrorCode categorizes engine errors.
type ErrorCode string

const (
	// ErrCodeInvalidAutomaton indicates malformed construction input.
	ErrCodeInvalidAutomaton ErrorCode = "INVALID_AUTOMATON"
)

// InvalidAutomatonError reports the first out-of-bounds value found while
// building an Engine.
//
// Field names follow the description's JSON tags ("alphabet_size",
// "state_count", "initial_state", "final_states", "transitions", "table").
// Index is the position inside a list field, or -1 for scalar fields.
type InvalidAutomatonError struct {
	Code ErrorCode

	Field string
	Index int

	// Part names the member of a list entry, e.g. "source" for a
	// transition or a column for a table row. Empty for scalars.
	Part string

	// Value is the offending value; Limit is the exclusive upper bound it
	// had to stay under (0 when the constraint is not a range).
	Value int
	Limit int

	Message string
}

// Error implements the error interface.
func (e *InvalidAutomatonError) Error() string {
	return fmt.Sprintf("%s: %s: %s", e.Code, e.Location(), e.Message)
}

// Location renders Field, Index and Part as a path such as
// "transitions[3].dest".
func (e *InvalidAutomatonError) Location() string {
	loc := e.Field
	if e.Index >= 0 {
		loc = fmt.Sprintf("%s[%d]", loc, e.Index)
	}
	if e.Part != "" {
		loc += "." + e.Part
	}
	return loc
}

// IsInvalidAutomaton returns true if err is (or wraps) an InvalidAutomatonError.
func IsInvalidAutomaton(err error) bool {
	var ie *InvalidAutomatonError
	return errors.As(err, &ie)
}

// outOfRange builds an InvalidAutomatonError for a value outside [0, limit).
func outOfRange(field string, index int, part, what string, value, limit int) *InvalidAutomatonError {
	return &InvalidAutomatonError{
		Code:    ErrCodeInvalidAutomaton,
		Field:   field,
		Index:   index,
		Part:    part,
		Value:   value,
		Limit:   limit,
		Message: fmt.Sprintf("%s %d out of range [0, %d)", what, value, limit),
	}
}

// invalid builds an InvalidAutomatonError that is not a plain range check.
func invalid(field string, index int, part string, value int, format string, args ...any) *InvalidAutomatonError {
	return &InvalidAutomatonError{
		Code:    ErrCodeInvalidAutomaton,
		Field:   field,
		Index:   index,
		Part:    part,
		Value:   value,
		Message: fmt.Sprintf(format, args...),
	}
}
