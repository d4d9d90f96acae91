package cli

import (
	"context"
	"fmt"
	"io"

	"github.com/spf13/cobra"

	"github.com/roach88/dfa/internal/ir"
	"github.com/roach88/dfa/internal/session"
)

// CheckOptions holds flags for the check command.
type CheckOptions struct {
	*RootOptions
	Database string // record queries when set
}

// CheckResult holds the verdicts of one check invocation.
type CheckResult struct {
	AutomatonID string       `json:"automaton_id"`
	SessionID   string       `json:"session_id"`
	Verdicts    []ir.Verdict `json:"verdicts"`
}

// NewCheckCommand creates the check command.
func NewCheckCommand(rootOpts *RootOptions) *cobra.Command {
	opts := &CheckOptions{RootOptions: rootOpts}

	cmd := &cobra.Command{
		Use:   "check <file> <word>...",
		Short: "Check whether words are accepted or are prefixes",
		Long: `Evaluate one or more words against an automaton.

For every word two answers are printed: whether the automaton accepts it,
and whether it is a prefix of some accepted word. A symbol outside the
automaton's alphabet rejects the word. Pass "" for the empty word.

Examples:
  dfa check automaton.txt ab
  dfa check automaton.cue a ab abb --format json
  dfa check automaton.txt ab --db ./queries.db`,
		Args:          cobra.MinimumNArgs(2),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runCheck(opts, args[0], args[1:], cmd)
		},
	}

	cmd.Flags().StringVar(&opts.Database, "db", "", "record queries in this SQLite database")

	return cmd
}

func runCheck(opts *CheckOptions, path string, words []string, cmd *cobra.Command) error {
	formatter := newFormatter(opts.RootOptions, cmd)

	eng, _, err := loadEngine(path, formatter)
	if err != nil {
		return loadFailure(formatter, err)
	}

	sess, closeSession, err := openSession(eng, opts.Database)
	if err != nil {
		_ = formatter.Error(ErrCodeDatabase, err.Error(), nil)
		return err
	}
	defer closeSession()

	result := CheckResult{
		AutomatonID: sess.AutomatonID(),
		SessionID:   sess.ID(),
		Verdicts:    make([]ir.Verdict, 0, len(words)),
	}
	for _, word := range words {
		v, err := query(cmd.Context(), sess, word)
		if err != nil {
			return err
		}
		result.Verdicts = append(result.Verdicts, v)
	}

	if formatter.JSON() {
		return formatter.Success(result)
	}

	for _, v := range result.Verdicts {
		if len(words) > 1 {
			fmt.Fprintf(formatter.Writer, "%q\n", v.Word)
		}
		printVerdict(formatter.Writer, v)
	}
	formatter.VerboseLog("Session: %s", result.SessionID)
	return nil
}

// query evaluates word through sess. Only recording can fail.
func query(ctx context.Context, sess *session.Session, word string) (ir.Verdict, error) {
	if ctx == nil {
		ctx = context.Background()
	}
	rec, err := sess.Query(ctx, word)
	if err != nil {
		return ir.Verdict{}, WrapExitError(ExitCommandError, "failed to record query", err)
	}
	return rec.Verdict(), nil
}

// printVerdict writes the two answers for a word.
func printVerdict(w io.Writer, v ir.Verdict) {
	if v.Accepted {
		fmt.Fprintln(w, "Accepted!")
	} else {
		fmt.Fprintln(w, "Not accepted!")
	}
	if v.Prefix {
		fmt.Fprintln(w, "Is a prefix!")
	} else {
		fmt.Fprintln(w, "Is not a prefix!")
	}
}
