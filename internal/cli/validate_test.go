package cli

import (
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/roach88/dfa/internal/compiler"
)

func TestValidate_Valid(t *testing.T) {
	path := writeFile(t, t.TempDir(), "a.txt", aThenBsText)

	out, err := execute(t, "", "validate", path)
	require.NoError(t, err)
	assert.Equal(t, "✓ "+path+" is valid\n", out)
}

func TestValidate_ValidJSON(t *testing.T) {
	path := writeFile(t, t.TempDir(), "u.cue", unreachableCUE)

	out, err := execute(t, "", "--format", "json", "validate", path)
	require.NoError(t, err)

	var result ValidationResult
	resp := decodeResponse(t, out, &result)
	assert.Equal(t, "ok", resp.Status)
	assert.True(t, result.Valid)
	assert.Len(t, result.AutomatonID, 64)
	assert.Empty(t, result.Errors)
}

func TestValidate_WarningsOnly(t *testing.T) {
	// Final state 1 listed twice; the second transition overrides the first.
	path := writeFile(t, t.TempDir(), "w.txt", "1\n2\n0\n2\n1 1\n0 0 1\n0 0 0\n")

	out, err := execute(t, "", "validate", path)
	require.NoError(t, err)
	assert.Contains(t, out, "is valid")
	assert.Contains(t, out, "line 5\n  W202 warning: final_states[1]")
	assert.Contains(t, out, "line 7\n  W201 warning: transitions[1]")
}

func TestValidate_Errors(t *testing.T) {
	path := writeFile(t, t.TempDir(), "bad.txt", badDestText)

	out, err := execute(t, "", "validate", path)
	require.Error(t, err)
	assert.Equal(t, ExitFailure, GetExitCode(err))
	assert.Contains(t, err.Error(), "validation failed with 1 error(s)")

	assert.Contains(t, out, "✗ "+path+": validation failed")
	assert.Contains(t, out, "line 7\n")
	assert.Contains(t, out, "E107 error: transitions[1].dest: destination state 5 out of range [0, 2)")
}

func TestValidate_ErrorsJSON(t *testing.T) {
	path := writeFile(t, t.TempDir(), "bad.txt", badDestText)

	out, err := execute(t, "", "--format", "json", "validate", path)
	require.Error(t, err)
	assert.Equal(t, ExitFailure, GetExitCode(err))

	var result ValidationResult
	resp := decodeResponse(t, out, &result)
	assert.Equal(t, "error", resp.Status)
	require.NotNil(t, resp.Error)
	assert.Equal(t, compiler.ErrTransitionDest, resp.Error.Code)
	assert.False(t, result.Valid)
	assert.Empty(t, result.AutomatonID)
	require.Len(t, result.Errors, 1)
	assert.Equal(t, 7, result.Errors[0].Line)
}

func TestValidate_CollectsAllErrors(t *testing.T) {
	path := writeFile(t, t.TempDir(), "bad.yaml", `
alphabet_size: 1
states: 2
initial: 4
final: [3]
transitions:
  - {from: 0, symbol: 0, to: 9}
`)

	out, err := execute(t, "", "validate", path)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "3 error(s)")
	for _, code := range []string{compiler.ErrInitialState, compiler.ErrFinalState, compiler.ErrTransitionDest} {
		assert.Contains(t, out, code)
	}
}

func TestValidate_LoadFailures(t *testing.T) {
	dir := t.TempDir()
	unparsable := writeFile(t, dir, "x.txt", "2\nx\n")

	tests := []struct {
		name string
		path string
		code string
	}{
		{"missing file", filepath.Join(dir, "missing.txt"), ErrCodeNotFound},
		{"directory", dir, ErrCodeNotFound},
		{"parse error", unparsable, ErrCodeParseFailed},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			out, err := execute(t, "", "validate", tt.path)
			require.Error(t, err)
			assert.Equal(t, ExitCommandError, GetExitCode(err))
			assert.Contains(t, out, "Error ["+tt.code+"]")
		})
	}
}

func TestValidate_MissingArg(t *testing.T) {
	_, err := execute(t, "", "validate")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "accepts 1 arg")
}
