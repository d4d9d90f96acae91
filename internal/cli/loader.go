package cli

import (
	"errors"
	"fmt"
	"log/slog"
	"os"

	"github.com/roach88/dfa/internal/compiler"
	"github.com/roach88/dfa/internal/engine"
)

// Error codes for load failures. Validation codes (E1xx, W2xx) live in the
// compiler package.
const (
	ErrCodeGeneric     = "E001" // Generic/unknown error
	ErrCodeParseFailed = "E004" // Description could not be parsed
	ErrCodeNotFound    = "E005" // Path not found
	ErrCodeInvalid     = "E006" // Description rejected by construction
	ErrCodeDatabase    = "E007" // Query log could not be opened or read
	ErrCodeTestFailed  = "E_TEST_FAILED"
)

// LoadError represents an error that occurred while loading a description.
type LoadError struct {
	Code    string
	Message string
	File    string
	Line    int // 0 when unknown
	Err     error
}

func (e *LoadError) Error() string {
	if e.Line > 0 {
		return fmt.Sprintf("%s:%d: %s: %s", e.File, e.Line, e.Code, e.Message)
	}
	return fmt.Sprintf("%s: %s", e.Code, e.Message)
}

func (e *LoadError) Unwrap() error {
	return e.Err
}

// loadSource reads and parses the description at path without validating
// it.
func loadSource(path string) (*compiler.Source, error) {
	info, err := os.Stat(path)
	if err != nil {
		return nil, &LoadError{
			Code:    ErrCodeNotFound,
			Message: fmt.Sprintf("description not found: %s", path),
			File:    path,
			Err:     err,
		}
	}
	if info.IsDir() {
		return nil, &LoadError{
			Code:    ErrCodeNotFound,
			Message: fmt.Sprintf("not a file: %s", path),
			File:    path,
		}
	}

	src, err := compiler.LoadFile(path)
	if err != nil {
		loadErr := &LoadError{
			Code:    ErrCodeParseFailed,
			Message: err.Error(),
			File:    path,
			Err:     err,
		}
		var cErr *compiler.CompileError
		if errors.As(err, &cErr) {
			loadErr.Message = fmt.Sprintf("%s: %s", cErr.Field, cErr.Message)
			loadErr.Line = cErr.SourceLine()
		}
		return nil, loadErr
	}

	slog.Debug("description loaded",
		"path", path,
		"format", src.Format,
		"states", src.Description.StateCount,
		"transitions", len(src.Description.Transitions),
	)
	return src, nil
}

// loadEngine loads the description at path and builds its engine. Warnings
// are reported through formatter; any validation error fails the load.
func loadEngine(path string, formatter *OutputFormatter) (*engine.Engine, *compiler.Source, error) {
	src, err := loadSource(path)
	if err != nil {
		return nil, nil, err
	}

	findings := src.Annotate(compiler.Validate(src.Description))
	for _, f := range findings {
		if f.IsWarning() {
			formatter.VerboseLog("warning: %s", f.Error())
		}
	}
	if compiler.HasErrors(findings) {
		first := firstError(findings)
		return nil, nil, &LoadError{
			Code:    first.Code,
			Message: first.Field + ": " + first.Message,
			File:    path,
			Line:    first.Line,
		}
	}

	eng, err := engine.New(src.Description)
	if err != nil {
		// Validation and construction agree on bounds; this is reached only
		// if they drift apart.
		return nil, nil, &LoadError{
			Code:    ErrCodeInvalid,
			Message: err.Error(),
			File:    path,
			Err:     err,
		}
	}
	return eng, src, nil
}

func firstError(findings []compiler.ValidationError) compiler.ValidationError {
	for _, f := range findings {
		if !f.IsWarning() {
			return f
		}
	}
	return compiler.ValidationError{}
}

// loadFailure reports a load error through formatter and returns the
// command-level exit error.
func loadFailure(formatter *OutputFormatter, err error) error {
	code, message := ErrCodeGeneric, err.Error()
	var loadErr *LoadError
	if errors.As(err, &loadErr) {
		code, message = loadErr.Code, loadErr.Error()
	}
	_ = formatter.Error(code, message, nil)
	return WrapExitError(ExitCommandError, "failed to load automaton", err)
}
