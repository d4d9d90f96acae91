package harness

import (
	"bytes"
	"fmt"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"

	"github.com/roach88/dfa/internal/compiler"
)

// Scenario defines a conformance test scenario.
// A scenario loads one automaton, evaluates a list of words and checks the
// verdicts, the recorded query log and the live/dead partition.
type Scenario struct {
	// Name uniquely identifies this scenario. Also names the golden file.
	Name string `yaml:"name"`

	// Description explains what this scenario validates.
	Description string `yaml:"description"`

	// Automaton is the path of a description file (.txt, .cue, .yaml).
	// Relative paths are resolved against the scenario file location by
	// LoadScenarioWithBasePath.
	Automaton string `yaml:"automaton,omitempty"`

	// Definition is an inline description, used instead of Automaton.
	Definition *compiler.Definition `yaml:"definition,omitempty"`

	// SessionID is an optional fixed session ID for deterministic tests.
	// If empty, defaults to "test-session-default".
	SessionID string `yaml:"session_id,omitempty"`

	// ExpectInvalid marks a scenario whose automaton must be rejected.
	ExpectInvalid bool `yaml:"expect_invalid,omitempty"`

	// ExpectCodes lists validation codes that must be reported when
	// ExpectInvalid is set (e.g. E107).
	ExpectCodes []string `yaml:"expect_codes,omitempty"`

	// Cases are evaluated in order, one query each.
	Cases []Case `yaml:"cases,omitempty"`

	// Assertions validate the engine and the query log after all cases ran.
	Assertions []Assertion `yaml:"assertions,omitempty"`
}

// Case is one word with its expected verdicts. A nil expectation is not
// checked.
type Case struct {
	Word     string `yaml:"word"`
	Accepted *bool  `yaml:"accepted,omitempty"`
	Prefix   *bool  `yaml:"prefix,omitempty"`
}

// Assertion validates engine or log state after the cases ran.
type Assertion struct {
	// Type specifies the assertion type:
	// - "live_states": the reachable-to-final states equal States
	// - "dead_states": the states that cannot reach a final state equal States
	// - "query_count": the log holds exactly Count queries for the session
	// - "accepted_count": exactly Count recorded queries were accepted
	Type string `yaml:"type"`

	// States is the expected state set (live_states, dead_states).
	States []int `yaml:"states,omitempty"`

	// Count is the expected number of rows (query_count, accepted_count).
	Count int `yaml:"count,omitempty"`
}

// Assertion type constants.
const (
	AssertLiveStates    = "live_states"
	AssertDeadStates    = "dead_states"
	AssertQueryCount    = "query_count"
	AssertAcceptedCount = "accepted_count"
)

// LoadScenario reads and parses a scenario YAML file.
// Returns an error if the file doesn't exist, is malformed,
// contains unknown fields (typos), or is missing required fields.
// Automaton paths are used as written.
func LoadScenario(path string) (*Scenario, error) {
	return LoadScenarioWithBasePath(path, "")
}

// LoadScenarioWithBasePath reads and parses a scenario YAML file,
// resolving a relative automaton path against basePath.
func LoadScenarioWithBasePath(path, basePath string) (*Scenario, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read scenario file: %w", err)
	}

	// Strict field validation catches typos like "case:" vs "cases:"
	var scenario Scenario
	decoder := yaml.NewDecoder(bytes.NewReader(data))
	decoder.KnownFields(true)
	if err := decoder.Decode(&scenario); err != nil {
		return nil, fmt.Errorf("failed to parse YAML: %w", err)
	}

	if scenario.Automaton != "" && !filepath.IsAbs(scenario.Automaton) && basePath != "" {
		scenario.Automaton = filepath.Join(basePath, scenario.Automaton)
	}

	if err := validateScenario(&scenario); err != nil {
		return nil, fmt.Errorf("invalid scenario: %w", err)
	}

	return &scenario, nil
}

// validateScenario checks that required fields are present and valid.
func validateScenario(s *Scenario) error {
	if s.Name == "" {
		return fmt.Errorf("name is required")
	}

	if s.Description == "" {
		return fmt.Errorf("description is required")
	}

	switch {
	case s.Automaton == "" && s.Definition == nil:
		return fmt.Errorf("one of automaton or definition is required")
	case s.Automaton != "" && s.Definition != nil:
		return fmt.Errorf("automaton and definition are mutually exclusive")
	}

	if s.Automaton != "" {
		if _, err := os.Stat(s.Automaton); os.IsNotExist(err) {
			return fmt.Errorf("automaton file not found: %s", s.Automaton)
		}
	}

	if s.ExpectInvalid {
		if len(s.Cases) > 0 || len(s.Assertions) > 0 {
			return fmt.Errorf("expect_invalid scenarios cannot have cases or assertions")
		}
		return nil
	}

	if len(s.ExpectCodes) > 0 {
		return fmt.Errorf("expect_codes requires expect_invalid")
	}

	if len(s.Cases) == 0 {
		return fmt.Errorf("cases list is required and must be non-empty")
	}

	for i, c := range s.Cases {
		if c.Accepted == nil && c.Prefix == nil {
			return fmt.Errorf("cases[%d]: at least one of accepted or prefix is required", i)
		}
	}

	for i, assertion := range s.Assertions {
		if err := validateAssertion(i, &assertion); err != nil {
			return err
		}
	}

	return nil
}

// validateAssertion validates a single assertion based on its type.
func validateAssertion(index int, a *Assertion) error {
	if a.Type == "" {
		return fmt.Errorf("assertions[%d]: type is required", index)
	}

	switch a.Type {
	case AssertLiveStates, AssertDeadStates:
		if a.Count != 0 {
			return fmt.Errorf("assertions[%d]: count is not used by %s", index, a.Type)
		}
	case AssertQueryCount, AssertAcceptedCount:
		if a.Count < 0 {
			return fmt.Errorf("assertions[%d]: count must be non-negative for %s", index, a.Type)
		}
		if len(a.States) > 0 {
			return fmt.Errorf("assertions[%d]: states is not used by %s", index, a.Type)
		}
	default:
		return fmt.Errorf("assertions[%d]: unknown assertion type %q", index, a.Type)
	}

	return nil
}
