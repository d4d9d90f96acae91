package harness

import (
	"context"
	"fmt"
	"slices"
	"strings"

	"github.com/roach88/dfa/internal/engine"
	"github.com/roach88/dfa/internal/ir"
	"github.com/roach88/dfa/internal/store"
)

// AssertionContext provides what assertions read from.
type AssertionContext struct {
	Store     *store.Store
	Engine    *engine.Engine
	SessionID string
	Ctx       context.Context
}

// AssertionError is returned when an assertion fails.
// It includes detailed context to help debug the failure.
type AssertionError struct {
	Type     string       // Assertion type for categorization
	Expected string       // Human-readable expected outcome
	Actual   string       // Human-readable actual outcome
	Trace    []QueryEvent // Full trace for debugging context
}

// Error implements the error interface.
func (e *AssertionError) Error() string {
	var buf strings.Builder

	fmt.Fprintf(&buf, "Assertion failed: %s\n", e.Type)
	fmt.Fprintf(&buf, "  Expected: %s\n", e.Expected)
	fmt.Fprintf(&buf, "  Actual: %s\n", e.Actual)

	if len(e.Trace) > 0 {
		fmt.Fprintf(&buf, "\nFull trace:\n")
		for _, event := range e.Trace {
			fmt.Fprintf(&buf, "  [%d] %q accepted=%t prefix=%t state=%d\n",
				event.Seq, event.Word, event.Accepted, event.Prefix, event.State)
		}
	}

	return buf.String()
}

// EvaluateAssertions runs every assertion and returns the failure messages.
func EvaluateAssertions(result *Result, assertions []Assertion, actx *AssertionContext) []string {
	var errs []string
	for i, a := range assertions {
		if err := evaluateAssertion(result, a, actx); err != nil {
			errs = append(errs, fmt.Sprintf("assertions[%d]: %v", i, err))
		}
	}
	return errs
}

func evaluateAssertion(result *Result, a Assertion, actx *AssertionContext) error {
	switch a.Type {
	case AssertLiveStates:
		return assertStates(a.Type, actx.Engine.LiveStates(), a.States, result.Trace)
	case AssertDeadStates:
		return assertStates(a.Type, actx.Engine.DeadStates(), a.States, result.Trace)
	case AssertQueryCount:
		recs, err := verdicts(actx)
		if err != nil {
			return err
		}
		return assertCount(a.Type, len(recs), a.Count, result.Trace)
	case AssertAcceptedCount:
		recs, err := verdicts(actx)
		if err != nil {
			return err
		}
		accepted := 0
		for _, r := range recs {
			if r.Accepted {
				accepted++
			}
		}
		return assertCount(a.Type, accepted, a.Count, result.Trace)
	default:
		return fmt.Errorf("unknown assertion type %q", a.Type)
	}
}

// assertStates compares state sets; the expected list may be unordered and
// may repeat entries.
func assertStates(typ string, actual, expected []int, trace []QueryEvent) error {
	want := ir.SortedUnique(expected)
	if slices.Equal(actual, want) {
		return nil
	}
	return &AssertionError{
		Type:     typ,
		Expected: fmt.Sprintf("%v", want),
		Actual:   fmt.Sprintf("%v", actual),
		Trace:    trace,
	}
}

func assertCount(typ string, actual, expected int, trace []QueryEvent) error {
	if actual == expected {
		return nil
	}
	return &AssertionError{
		Type:     typ,
		Expected: fmt.Sprintf("%d", expected),
		Actual:   fmt.Sprintf("%d", actual),
		Trace:    trace,
	}
}
