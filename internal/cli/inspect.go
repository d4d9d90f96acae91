package cli

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/roach88/dfa/internal/engine"
)

// InspectResult summarizes a loaded automaton.
type InspectResult struct {
	File         string   `json:"file"`
	Format       string   `json:"format"`
	AutomatonID  string   `json:"automaton_id"`
	AlphabetSize int      `json:"alphabet_size"`
	Alphabet     []string `json:"alphabet"`
	StateCount   int      `json:"state_count"`
	InitialState int      `json:"initial_state"`
	FinalStates  []int    `json:"final_states"`
	Transitions  int      `json:"transitions"`
	LiveStates   []int    `json:"live_states"`
	DeadStates   []int    `json:"dead_states"`
}

// NewInspectCommand creates the inspect command.
func NewInspectCommand(rootOpts *RootOptions) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "inspect <file>",
		Short: "Show an automaton's shape and its live and dead states",
		Long: `Load an automaton and print its content-addressed ID, sizes, final
states and the partition of its states into live states (a final state is
reachable from them) and dead states (none is).`,
		Args:          cobra.ExactArgs(1),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runInspect(rootOpts, args[0], cmd)
		},
	}

	return cmd
}

func runInspect(opts *RootOptions, path string, cmd *cobra.Command) error {
	formatter := newFormatter(opts, cmd)

	eng, src, err := loadEngine(path, formatter)
	if err != nil {
		return loadFailure(formatter, err)
	}

	id, err := eng.ID()
	if err != nil {
		return WrapExitError(ExitCommandError, "failed to compute automaton id", err)
	}

	alphabet := make([]string, eng.AlphabetSize())
	for i := range alphabet {
		alphabet[i] = engine.SymbolName(i)
	}

	result := InspectResult{
		File:         path,
		Format:       string(src.Format),
		AutomatonID:  id,
		AlphabetSize: eng.AlphabetSize(),
		Alphabet:     alphabet,
		StateCount:   eng.StateCount(),
		InitialState: eng.InitialState(),
		FinalStates:  eng.FinalStates(),
		Transitions:  len(eng.Description().Transitions),
		LiveStates:   eng.LiveStates(),
		DeadStates:   eng.DeadStates(),
	}

	if formatter.JSON() {
		return formatter.Success(result)
	}

	w := formatter.Writer
	fmt.Fprintf(w, "Automaton:   %s\n", result.AutomatonID)
	fmt.Fprintf(w, "Format:      %s\n", result.Format)
	fmt.Fprintf(w, "Alphabet:    %d {%s}\n", result.AlphabetSize, strings.Join(result.Alphabet, ","))
	fmt.Fprintf(w, "States:      %d\n", result.StateCount)
	fmt.Fprintf(w, "Initial:     %d\n", result.InitialState)
	fmt.Fprintf(w, "Final:       %v\n", result.FinalStates)
	fmt.Fprintf(w, "Transitions: %d\n", result.Transitions)
	fmt.Fprintf(w, "Live:        %v\n", result.LiveStates)
	fmt.Fprintf(w, "Dead:        %v\n", result.DeadStates)
	return nil
}
