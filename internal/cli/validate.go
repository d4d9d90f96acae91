package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/roach88/dfa/internal/compiler"
	"github.com/roach88/dfa/internal/engine"
)

// ValidationResult holds validation results.
type ValidationResult struct {
	File        string                     `json:"file"`
	Valid       bool                       `json:"valid"`
	AutomatonID string                     `json:"automaton_id,omitempty"`
	Errors      []compiler.ValidationError `json:"errors,omitempty"`
}

// NewValidateCommand creates the validate command.
func NewValidateCommand(rootOpts *RootOptions) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "validate <file>",
		Short: "Validate an automaton description",
		Long: `Validate an automaton description without evaluating any words.

Every finding is reported, not just the first: out-of-range sizes, initial,
final and transition indices are errors; transitions overridden by a later
entry and repeated final states are warnings.

Exit codes:
  0 - Description is valid (warnings allowed)
  1 - Description has validation errors
  2 - Description could not be read or parsed`,
		Args:          cobra.ExactArgs(1),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runValidate(rootOpts, args[0], cmd)
		},
	}

	return cmd
}

func runValidate(opts *RootOptions, path string, cmd *cobra.Command) error {
	formatter := newFormatter(opts, cmd)

	src, err := loadSource(path)
	if err != nil {
		return loadFailure(formatter, err)
	}
	formatter.VerboseLog("Loaded %s description from %s", src.Format, path)

	findings := src.Annotate(compiler.Validate(src.Description))
	result := ValidationResult{
		File:   path,
		Valid:  !compiler.HasErrors(findings),
		Errors: findings,
	}

	if !result.Valid {
		return outputValidationErrors(formatter, result)
	}

	eng, err := engine.New(src.Description)
	if err != nil {
		return loadFailure(formatter, &LoadError{Code: ErrCodeInvalid, Message: err.Error(), File: path, Err: err})
	}
	id, err := eng.ID()
	if err != nil {
		return WrapExitError(ExitCommandError, "failed to compute automaton id", err)
	}
	result.AutomatonID = id

	return outputValidateSuccess(formatter, result)
}

// outputValidateSuccess outputs successful validation results.
func outputValidateSuccess(formatter *OutputFormatter, result ValidationResult) error {
	if formatter.JSON() {
		return formatter.Success(result)
	}

	w := formatter.Writer
	fmt.Fprintf(w, "✓ %s is valid\n", result.File)
	for _, f := range result.Errors {
		printFinding(formatter, f)
	}
	formatter.VerboseLog("Automaton ID: %s", result.AutomatonID)
	return nil
}

// outputValidationErrors outputs every finding of an invalid description.
func outputValidationErrors(formatter *OutputFormatter, result ValidationResult) error {
	errCount := 0
	var first compiler.ValidationError
	for _, f := range result.Errors {
		if f.IsWarning() {
			continue
		}
		if errCount == 0 {
			first = f
		}
		errCount++
	}
	exitErr := NewExitError(ExitFailure, fmt.Sprintf("validation failed with %d error(s)", errCount))

	if formatter.JSON() {
		if err := formatter.Failure(first.Code, first.Message, result); err != nil {
			return err
		}
		return exitErr
	}

	fmt.Fprintf(formatter.Writer, "✗ %s: validation failed\n\n", result.File)
	for _, f := range result.Errors {
		printFinding(formatter, f)
	}
	return exitErr
}

func printFinding(formatter *OutputFormatter, f compiler.ValidationError) {
	w := formatter.Writer
	if f.Line > 0 {
		fmt.Fprintf(w, "line %d\n", f.Line)
	}
	fmt.Fprintf(w, "  %s %s: %s: %s\n", f.Code, f.Severity, f.Field, f.Message)
}
