package cli

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/roach88/dfa/internal/ir"
	"github.com/roach88/dfa/internal/store"
)

// HistoryOptions holds flags for the history command.
type HistoryOptions struct {
	*RootOptions
	Database     string
	SessionID    string
	AutomatonID  string
	Limit        int
	ListSessions bool
}

// HistoryResult is the JSON payload of the history command. Exactly one of
// the fields is set.
type HistoryResult struct {
	Queries  []ir.QueryRecord `json:"queries,omitempty"`
	Sessions []string         `json:"sessions,omitempty"`
}

// NewHistoryCommand creates the history command.
func NewHistoryCommand(rootOpts *RootOptions) *cobra.Command {
	opts := &HistoryOptions{RootOptions: rootOpts}

	cmd := &cobra.Command{
		Use:   "history",
		Short: "List recorded queries",
		Long: `List queries recorded by check or repl --db, in the order they were
evaluated.

Examples:
  dfa history --db ./queries.db
  dfa history --db ./queries.db --session 0190a8b4-... --limit 20
  dfa history --db ./queries.db --sessions`,
		Args:          cobra.NoArgs,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runHistory(opts, cmd)
		},
	}

	cmd.Flags().StringVar(&opts.Database, "db", "", "path to SQLite database (required)")
	cmd.Flags().StringVar(&opts.SessionID, "session", "", "only queries of this session")
	cmd.Flags().StringVar(&opts.AutomatonID, "automaton", "", "only queries against this automaton ID")
	cmd.Flags().IntVar(&opts.Limit, "limit", 0, "maximum number of queries (0 = all)")
	cmd.Flags().BoolVar(&opts.ListSessions, "sessions", false, "list session IDs instead of queries")
	_ = cmd.MarkFlagRequired("db")

	return cmd
}

func runHistory(opts *HistoryOptions, cmd *cobra.Command) error {
	formatter := newFormatter(opts.RootOptions, cmd)

	if opts.Limit < 0 {
		return NewExitError(ExitCommandError, fmt.Sprintf("invalid limit %d: must be non-negative", opts.Limit))
	}

	// Open would create a missing database.
	if _, err := os.Stat(opts.Database); os.IsNotExist(err) {
		msg := fmt.Sprintf("database not found: %s", opts.Database)
		_ = formatter.Error(ErrCodeNotFound, msg, nil)
		return NewExitError(ExitCommandError, msg)
	}

	st, err := store.Open(opts.Database)
	if err != nil {
		_ = formatter.Error(ErrCodeDatabase, err.Error(), nil)
		return WrapExitError(ExitCommandError, "failed to open database", err)
	}
	defer st.Close()

	ctx := cmd.Context()

	if opts.ListSessions {
		sessions, err := st.ListSessions(ctx)
		if err != nil {
			return WrapExitError(ExitCommandError, "failed to list sessions", err)
		}
		if formatter.JSON() {
			return formatter.Success(HistoryResult{Sessions: sessions})
		}
		for _, s := range sessions {
			fmt.Fprintln(formatter.Writer, s)
		}
		return nil
	}

	queries, err := st.ReadQueries(ctx, ir.QueryFilter{
		SessionID:   opts.SessionID,
		AutomatonID: opts.AutomatonID,
		Limit:       opts.Limit,
	})
	if err != nil {
		return WrapExitError(ExitCommandError, "failed to read queries", err)
	}

	if formatter.JSON() {
		return formatter.Success(HistoryResult{Queries: queries})
	}

	if len(queries) == 0 {
		fmt.Fprintln(formatter.Writer, "No queries recorded.")
		return nil
	}
	for _, q := range queries {
		fmt.Fprintf(formatter.Writer, "[%d] %s %q accepted=%t prefix=%t state=%d\n",
			q.Seq, q.SessionID, q.Word, q.Accepted, q.Prefix, q.State)
	}
	return nil
}
