package harness

import (
	"context"
	"fmt"
	"log/slog"
	"slices"

	"github.com/roach88/dfa/internal/compiler"
	"github.com/roach88/dfa/internal/engine"
	"github.com/roach88/dfa/internal/ir"
	"github.com/roach88/dfa/internal/session"
	"github.com/roach88/dfa/internal/store"
	"github.com/roach88/dfa/internal/testutil"
)

// Run executes a test scenario and returns the result.
//
// Each scenario runs against a fresh in-memory query log with a
// deterministic clock and a fixed session ID, so repeated runs produce
// identical traces.
//
// Execution flow:
//  1. Load the automaton (file or inline definition) and validate it
//  2. For expect_invalid scenarios, check the rejection and stop
//  3. Build the engine and open a recording session
//  4. Evaluate every case, checking expected verdicts
//  5. Evaluate assertions against the engine and the log
//
// A returned error means the scenario could not be executed at all; failed
// expectations are reported through Result.Errors.
func Run(scenario *Scenario) (*Result, error) {
	ctx := context.Background()
	result := NewResult()

	src, err := loadSource(scenario)
	if err != nil {
		return nil, err
	}

	findings := compiler.Validate(src.Description)
	for _, f := range src.Annotate(findings) {
		result.Findings = append(result.Findings, f.Code)
	}

	eng, buildErr := engine.New(src.Description)
	if scenario.ExpectInvalid {
		checkRejection(scenario, findings, buildErr, result)
		return result, nil
	}
	if buildErr != nil {
		result.AddError(fmt.Sprintf("automaton rejected: %v", buildErr))
		return result, nil
	}

	st, err := store.Open(":memory:")
	if err != nil {
		return nil, fmt.Errorf("failed to create in-memory store: %w", err)
	}
	defer st.Close()

	sess, err := session.New(eng, st,
		session.WithClock(testutil.NewDeterministicClock()),
		session.WithIDGenerator(testutil.NewFixedSessionGenerator(scenario.SessionID)),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to open session: %w", err)
	}
	result.AutomatonID = sess.AutomatonID()
	result.SessionID = sess.ID()
	result.LiveStates = eng.LiveStates()
	result.DeadStates = eng.DeadStates()

	for i, c := range scenario.Cases {
		rec, err := sess.Query(ctx, c.Word)
		if err != nil {
			return nil, fmt.Errorf("cases[%d]: %w", i, err)
		}
		result.Trace = append(result.Trace, queryEvent(rec))

		if c.Accepted != nil && *c.Accepted != rec.Accepted {
			result.AddError(fmt.Sprintf("cases[%d] %q: accepted = %t, want %t", i, c.Word, rec.Accepted, *c.Accepted))
		}
		if c.Prefix != nil && *c.Prefix != rec.Prefix {
			result.AddError(fmt.Sprintf("cases[%d] %q: prefix = %t, want %t", i, c.Word, rec.Prefix, *c.Prefix))
		}
	}

	actx := &AssertionContext{
		Store:     st,
		Engine:    eng,
		SessionID: sess.ID(),
		Ctx:       ctx,
	}
	for _, errMsg := range EvaluateAssertions(result, scenario.Assertions, actx) {
		result.AddError(errMsg)
	}

	slog.Debug("scenario complete",
		"scenario", scenario.Name,
		"cases", len(scenario.Cases),
		"pass", result.Pass,
	)
	return result, nil
}

// loadSource reads the scenario's automaton from its file or its inline
// definition.
func loadSource(scenario *Scenario) (*compiler.Source, error) {
	if scenario.Definition != nil {
		return &compiler.Source{
			Path:        scenario.Name,
			Format:      compiler.FormatYAML,
			Description: scenario.Definition.Description(),
		}, nil
	}

	src, err := compiler.LoadFile(scenario.Automaton)
	if err != nil {
		return nil, fmt.Errorf("failed to load automaton: %w", err)
	}
	return src, nil
}

// checkRejection verifies that an automaton expected to be invalid was
// rejected by both validation and construction, with the expected codes.
func checkRejection(scenario *Scenario, findings []compiler.ValidationError, buildErr error, result *Result) {
	if buildErr == nil {
		result.AddError("automaton was accepted, want rejection")
	} else if !engine.IsInvalidAutomaton(buildErr) {
		result.AddError(fmt.Sprintf("unexpected construction error: %v", buildErr))
	}
	if !compiler.HasErrors(findings) {
		result.AddError("validation reported no errors, want rejection")
	}

	for _, code := range scenario.ExpectCodes {
		if !slices.Contains(result.Findings, code) {
			result.AddError(fmt.Sprintf("missing finding %s (got %v)", code, result.Findings))
		}
	}

	slog.Debug("scenario rejection checked",
		"scenario", scenario.Name,
		"findings", len(findings),
		"pass", result.Pass,
	)
}

// verdicts returns the recorded queries of the session in seq order.
func verdicts(actx *AssertionContext) ([]ir.QueryRecord, error) {
	return actx.Store.ReadQueries(actx.Ctx, ir.QueryFilter{SessionID: actx.SessionID})
}
