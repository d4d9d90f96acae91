package cli

import (
	"bytes"
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/require"
)

// a followed by any number of b.
const aThenBsText = `2
2
0
1
1
0 0 1
1 1 1
`

// State 2 is final but unreachable from 0.
const unreachableCUE = `automaton: {
	alphabet_size: 2
	states:        3
	initial:       0
	final: [2]
	transitions: [
		{from: 0, symbol: "a", to: 1},
		{from: 1, symbol: "b", to: 0},
		{from: 2, symbol: "a", to: 2},
	]
}
`

// Second transition points at state 5 of 2.
const badDestText = `2
2
0
1
1
0 0 1
1 1 5
`

// writeFile writes content to dir/name and returns the path.
func writeFile(t *testing.T, dir, name, content string) string {
	t.Helper()
	path := filepath.Join(dir, name)
	require.NoError(t, os.MkdirAll(filepath.Dir(path), 0o755))
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

// execute runs the root command with args and returns stdout and the
// command error.
func execute(t *testing.T, stdin string, args ...string) (string, error) {
	t.Helper()

	out := &bytes.Buffer{}
	errOut := &bytes.Buffer{}
	cmd := NewRootCommand()
	cmd.SetOut(out)
	cmd.SetErr(errOut)
	cmd.SetIn(strings.NewReader(stdin))
	cmd.SetArgs(args)

	err := cmd.Execute()
	return out.String(), err
}

// decodeResponse decodes a single JSON envelope and its payload.
func decodeResponse(t *testing.T, data string, payload any) CLIResponse {
	t.Helper()

	var raw struct {
		Status string          `json:"status"`
		Data   json.RawMessage `json:"data"`
		Error  *CLIError       `json:"error"`
	}
	require.NoError(t, json.Unmarshal([]byte(data), &raw), "output: %s", data)
	if payload != nil && len(raw.Data) > 0 {
		require.NoError(t, json.Unmarshal(raw.Data, payload))
	}
	return CLIResponse{Status: raw.Status, Error: raw.Error}
}
