package compiler

import (
	"bufio"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/roach88/dfa/internal/ir"
)

// textToken is one whitespace-separated integer field of a text description.
type textToken struct {
	text string
	line int
	col  int
}

// textReader yields tokens of a text description one at a time, keeping
// their line and column for error reporting. Tokens are read byte by byte,
// so line length is unbounded.
type textReader struct {
	file    string
	r       *bufio.Reader
	line    int // position of the next unread byte, 1-based
	col     int
	peeked  *textToken
	lastPos textToken
}

func newTextReader(r io.Reader, file string) *textReader {
	return &textReader{file: file, r: bufio.NewReader(r), line: 1, col: 1}
}

// next returns the next token, false at end of input, or a read error.
func (tr *textReader) next() (textToken, bool, error) {
	if tr.peeked != nil {
		tok := *tr.peeked
		tr.peeked = nil
		tr.lastPos = tok
		return tok, true, nil
	}

	var b strings.Builder
	var tok textToken
	for {
		c, err := tr.r.ReadByte()
		if err == io.EOF {
			break
		}
		if err != nil {
			return textToken{}, false, fmt.Errorf("read %s: %w", tr.file, err)
		}

		line, col := tr.line, tr.col
		if c == '\n' {
			tr.line++
			tr.col = 1
		} else {
			tr.col++
		}

		if isSpace(c) {
			if b.Len() > 0 {
				break
			}
			continue
		}
		if b.Len() == 0 {
			tok.line, tok.col = line, col
		}
		b.WriteByte(c)
	}

	if b.Len() == 0 {
		return textToken{}, false, nil
	}
	tok.text = b.String()
	tr.lastPos = tok
	return tok, true, nil
}

// unread pushes tok back so the following next returns it again.
func (tr *textReader) unread(tok textToken) {
	tr.peeked = &tok
}

func isSpace(c byte) bool {
	return c == ' ' || c == '\n' || c == '\t' || c == '\r' || c == '\v' || c == '\f'
}

func (tr *textReader) errorAt(tok textToken, field, format string, args ...any) *CompileError {
	return &CompileError{
		Field:   field,
		Message: fmt.Sprintf(format, args...),
		File:    tr.file,
		Line:    tok.line,
		Column:  tok.col,
	}
}

// readInt reads the next token as an integer. A missing token is an error.
func (tr *textReader) readInt(field string) (int, textToken, error) {
	tok, ok, err := tr.next()
	if err != nil {
		return 0, tok, err
	}
	if !ok {
		end := tr.lastPos
		if end.line == 0 {
			end.line, end.col = 1, 1
		}
		return 0, end, tr.errorAt(end, field, "unexpected end of input, expected %s", field)
	}
	n, convErr := strconv.Atoi(tok.text)
	if convErr != nil {
		return 0, tok, tr.errorAt(tok, field, "expected integer, found %q", tok.text)
	}
	return n, tok, nil
}

// ParseText reads the plain-text description format:
//
//	<alphabet_size>
//	<state_count>
//	<initial_state>
//	<final_state_count>
//	<final_state_1> ... <final_state_N>
//	<source_state> <symbol_index> <dest_state>   (repeated until end of input)
//
// Line breaks are not significant; fields are separated by any whitespace.
// Index ranges are not checked here (see Validate).
func ParseText(r io.Reader, file string) (*Source, error) {
	tr := newTextReader(r, file)
	src := &Source{Path: file, Format: FormatText, Lines: make(map[string]int)}
	d := &src.Description

	var tok textToken
	var err error
	if d.AlphabetSize, tok, err = tr.readInt("alphabet_size"); err != nil {
		return nil, err
	}
	src.Lines["alphabet_size"] = tok.line
	if d.StateCount, tok, err = tr.readInt("state_count"); err != nil {
		return nil, err
	}
	src.Lines["state_count"] = tok.line
	if d.InitialState, tok, err = tr.readInt("initial_state"); err != nil {
		return nil, err
	}
	src.Lines["initial_state"] = tok.line

	count, countTok, err := tr.readInt("final_state_count")
	if err != nil {
		return nil, err
	}
	if count < 0 {
		return nil, tr.errorAt(countTok, "final_state_count", "final state count %d is negative", count)
	}

	d.FinalStates = []int{}
	for i := 0; i < count; i++ {
		f, tok, err := tr.readInt("final_states")
		if err != nil {
			return nil, err
		}
		src.Lines[fmt.Sprintf("final_states[%d]", i)] = tok.line
		d.FinalStates = append(d.FinalStates, f)
	}

	for i := 0; ; i++ {
		first, ok, err := tr.next()
		if err != nil {
			return nil, err
		}
		if !ok {
			break
		}
		tr.unread(first)

		var t ir.Transition
		if t.Source, _, err = tr.readInt("transitions"); err != nil {
			return nil, err
		}
		if t.Symbol, _, err = tr.readInt("transitions"); err != nil {
			return nil, err
		}
		if t.Dest, _, err = tr.readInt("transitions"); err != nil {
			return nil, err
		}
		src.Lines[fmt.Sprintf("transitions[%d]", i)] = first.line
		d.Transitions = append(d.Transitions, t)
	}

	return src, nil
}

// WriteText renders a description in the plain-text format, one header
// field per line and one transition per line.
func WriteText(w io.Writer, d ir.Description) error {
	var b strings.Builder
	fmt.Fprintf(&b, "%d\n%d\n%d\n%d\n", d.AlphabetSize, d.StateCount, d.InitialState, len(d.FinalStates))
	finals := make([]string, len(d.FinalStates))
	for i, f := range d.FinalStates {
		finals[i] = strconv.Itoa(f)
	}
	fmt.Fprintln(&b, strings.Join(finals, " "))
	for _, t := range d.Transitions {
		fmt.Fprintf(&b, "%d %d %d\n", t.Source, t.Symbol, t.Dest)
	}
	_, err := io.WriteString(w, b.String())
	return err
}
