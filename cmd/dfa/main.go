// Command dfa loads deterministic finite automata and answers acceptance
// and prefix queries for words.
package main

import (
	"fmt"
	"os"

	"github.com/roach88/dfa/internal/cli"
)

func main() {
	if err := cli.NewRootCommand().Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(cli.GetExitCode(err))
	}
}
