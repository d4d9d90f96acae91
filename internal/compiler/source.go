package compiler

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/roach88/dfa/internal/ir"
)

// Format identifies the syntax a description was written in.
type Format string

const (
	FormatText Format = "text"
	FormatCUE  Format = "cue"
	FormatYAML Format = "yaml"
)

// Source is a parsed description together with where it came from.
type Source struct {
	Path        string
	Format      Format
	Description ir.Description

	// Lines maps description locations ("initial_state", "final_states[2]",
	// "transitions[5]") to 1-based source lines. Missing keys mean unknown.
	Lines map[string]int
}

// DetectFormat picks the format from the file extension: .cue and
// .yaml/.yml are recognized, anything else is plain text.
func DetectFormat(path string) Format {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".cue":
		return FormatCUE
	case ".yaml", ".yml":
		return FormatYAML
	default:
		return FormatText
	}
}

// LoadFile reads and parses a description file in the format implied by
// its extension.
func LoadFile(path string) (*Source, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read description: %w", err)
	}

	switch DetectFormat(path) {
	case FormatCUE:
		return CompileCUE(data, path)
	case FormatYAML:
		return ParseYAML(data, path)
	default:
		return ParseText(strings.NewReader(string(data)), path)
	}
}

// LineOf returns the source line for a validation field such as
// "transitions[3].dest", falling back from the element to the list.
func (s *Source) LineOf(field string) int {
	if s == nil || s.Lines == nil {
		return 0
	}
	key := field
	if i := strings.LastIndex(key, "]."); i >= 0 {
		key = key[:i+1]
	}
	if line, ok := s.Lines[key]; ok {
		return line
	}
	if i := strings.Index(key, "["); i >= 0 {
		return s.Lines[key[:i]]
	}
	return 0
}

// Annotate fills in the Line of every validation error whose field has a
// known source position.
func (s *Source) Annotate(errs []ValidationError) []ValidationError {
	for i := range errs {
		if errs[i].Line == 0 {
			errs[i].Line = s.LineOf(errs[i].Field)
		}
	}
	return errs
}

// parseSymbol accepts a single lowercase letter and returns its index.
func parseSymbol(s string) (int, error) {
	if len(s) != 1 || s[0] < 'a' || s[0] > 'z' {
		return 0, fmt.Errorf("symbol %q must be a single lowercase letter or an index", s)
	}
	return int(s[0] - 'a'), nil
}
