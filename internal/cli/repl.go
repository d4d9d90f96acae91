package cli

import (
	"bufio"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/spf13/cobra"
	"golang.org/x/term"
)

// ReplOptions holds flags for the repl command.
type ReplOptions struct {
	*RootOptions
	Database string

	// Interactive overrides terminal detection of stdin (for testing).
	Interactive *bool
}

// NewReplCommand creates the repl command.
func NewReplCommand(rootOpts *RootOptions) *cobra.Command {
	opts := &ReplOptions{RootOptions: rootOpts}

	cmd := &cobra.Command{
		Use:   "repl <file>",
		Short: "Evaluate words read from standard input",
		Long: `Load an automaton once and evaluate every line read from standard
input as a word, until end of input.

When standard input is a terminal an "Input: " prompt is shown before each
word. Surrounding whitespace is trimmed, so an empty line is the empty word.
With --format json every word produces one JSON line.`,
		Args:          cobra.ExactArgs(1),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runRepl(opts, args[0], cmd)
		},
	}

	cmd.Flags().StringVar(&opts.Database, "db", "", "record queries in this SQLite database")

	return cmd
}

func runRepl(opts *ReplOptions, path string, cmd *cobra.Command) error {
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

	in := cmd.InOrStdin()
	prompt := isTerminal(in)
	if opts.Interactive != nil {
		prompt = *opts.Interactive
	}

	reader := bufio.NewReader(in)
	for {
		if prompt && !formatter.JSON() {
			fmt.Fprint(formatter.Writer, "Input: ")
		}
		line, readErr := reader.ReadString('\n')
		if readErr != nil && readErr != io.EOF {
			return WrapExitError(ExitCommandError, "failed to read input", readErr)
		}
		if line == "" && readErr == io.EOF {
			break
		}

		v, err := query(cmd.Context(), sess, strings.TrimSpace(line))
		if err != nil {
			return err
		}
		if formatter.JSON() {
			if err := formatter.Success(v); err != nil {
				return err
			}
		} else {
			printVerdict(formatter.Writer, v)
		}

		if readErr == io.EOF {
			break
		}
	}
	if prompt && !formatter.JSON() {
		fmt.Fprintln(formatter.Writer)
	}

	return nil
}

// isTerminal reports whether r is an interactive terminal.
func isTerminal(r io.Reader) bool {
	f, ok := r.(*os.File)
	if !ok {
		return false
	}
	return term.IsTerminal(int(f.Fd()))
}
