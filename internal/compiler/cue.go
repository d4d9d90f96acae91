package compiler

import (
	"fmt"

	"cuelang.org/go/cue"
	"cuelang.org/go/cue/cuecontext"

	"github.com/roach88/dfa/internal/ir"
)

// CompileCUE compiles a CUE file holding an automaton. The automaton is
// read from the top-level "automaton" field when present, otherwise from
// the root value.
func CompileCUE(data []byte, file string) (*Source, error) {
	ctx := cuecontext.New()
	root := ctx.CompileBytes(data, cue.Filename(file))
	if err := root.Err(); err != nil {
		return nil, formatCUEError(err)
	}

	v := root
	if a := root.LookupPath(cue.ParsePath("automaton")); a.Exists() {
		v = a
	}

	src := &Source{Path: file, Format: FormatCUE, Lines: make(map[string]int)}
	desc, err := compileAutomaton(v, src.Lines)
	if err != nil {
		return nil, err
	}
	src.Description = *desc
	return src, nil
}

// CompileAutomaton parses a CUE value into a Description.
// Uses CUE SDK's Go API directly (not CLI subprocess).
//
// The CUE value should be the automaton struct itself, e.g.:
//
//	ctx := cuecontext.New()
//	v := ctx.CompileString(`automaton: { alphabet_size: 2, ... }`)
//	desc, err := CompileAutomaton(v.LookupPath(cue.ParsePath("automaton")))
func CompileAutomaton(v cue.Value) (*ir.Description, error) {
	return compileAutomaton(v, nil)
}

func compileAutomaton(v cue.Value, lines map[string]int) (*ir.Description, error) {
	if err := v.Err(); err != nil {
		return nil, formatCUEError(err)
	}
	record := func(key string, val cue.Value) {
		if lines != nil && val.Pos().IsValid() {
			lines[key] = val.Pos().Line()
		}
	}

	desc := &ir.Description{}
	scalars := []struct {
		label string
		field string
		dst   *int
	}{
		{"alphabet_size", "alphabet_size", &desc.AlphabetSize},
		{"states", "state_count", &desc.StateCount},
		{"initial", "initial_state", &desc.InitialState},
	}
	for _, sc := range scalars {
		val := v.LookupPath(cue.ParsePath(sc.label))
		if !val.Exists() {
			return nil, &CompileError{
				Field:   sc.field,
				Message: sc.label + " is required",
				Pos:     v.Pos(),
			}
		}
		n, err := cueInt(val, sc.field)
		if err != nil {
			return nil, err
		}
		*sc.dst = n
		record(sc.field, val)
	}

	// final is optional: an automaton without final states accepts nothing.
	if finalVal := v.LookupPath(cue.ParsePath("final")); finalVal.Exists() {
		iter, err := finalVal.List()
		if err != nil {
			return nil, formatCUEError(err)
		}
		for i := 0; iter.Next(); i++ {
			key := fmt.Sprintf("final_states[%d]", i)
			n, err := cueInt(iter.Value(), key)
			if err != nil {
				return nil, err
			}
			desc.FinalStates = append(desc.FinalStates, n)
			record(key, iter.Value())
		}
	}

	if transVal := v.LookupPath(cue.ParsePath("transitions")); transVal.Exists() {
		iter, err := transVal.List()
		if err != nil {
			return nil, formatCUEError(err)
		}
		for i := 0; iter.Next(); i++ {
			key := fmt.Sprintf("transitions[%d]", i)
			t, err := compileTransition(iter.Value(), key)
			if err != nil {
				return nil, err
			}
			desc.Transitions = append(desc.Transitions, t)
			record(key, iter.Value())
		}
	}

	return desc, nil
}

// compileTransition accepts {from, symbol, to} structs and [from, symbol, to]
// lists. The symbol may be an index or a letter.
func compileTransition(v cue.Value, field string) (ir.Transition, error) {
	var t ir.Transition
	var from, symbol, to cue.Value

	switch v.Kind() {
	case cue.StructKind:
		from = v.LookupPath(cue.ParsePath("from"))
		symbol = v.LookupPath(cue.ParsePath("symbol"))
		to = v.LookupPath(cue.ParsePath("to"))
		if !from.Exists() || !symbol.Exists() || !to.Exists() {
			return t, &CompileError{
				Field:   field,
				Message: "transition needs from, symbol and to",
				Pos:     v.Pos(),
			}
		}
	case cue.ListKind:
		iter, err := v.List()
		if err != nil {
			return t, formatCUEError(err)
		}
		var parts []cue.Value
		for iter.Next() {
			parts = append(parts, iter.Value())
		}
		if len(parts) != 3 {
			return t, &CompileError{
				Field:   field,
				Message: fmt.Sprintf("transition list has %d elements, want 3", len(parts)),
				Pos:     v.Pos(),
			}
		}
		from, symbol, to = parts[0], parts[1], parts[2]
	default:
		return t, &CompileError{
			Field:   field,
			Message: "transition must be a struct or a list",
			Pos:     v.Pos(),
		}
	}

	var err error
	if t.Source, err = cueInt(from, field+".source"); err != nil {
		return t, err
	}
	if t.Symbol, err = cueSymbol(symbol, field+".symbol"); err != nil {
		return t, err
	}
	if t.Dest, err = cueInt(to, field+".dest"); err != nil {
		return t, err
	}
	return t, nil
}

func cueInt(v cue.Value, field string) (int, error) {
	n, err := v.Int64()
	if err != nil {
		return 0, &CompileError{
			Field:   field,
			Message: fmt.Sprintf("expected integer: %v", err),
			Pos:     v.Pos(),
		}
	}
	return int(n), nil
}

func cueSymbol(v cue.Value, field string) (int, error) {
	if v.Kind() == cue.StringKind {
		s, err := v.String()
		if err != nil {
			return 0, formatCUEError(err)
		}
		idx, err := parseSymbol(s)
		if err != nil {
			return 0, &CompileError{Field: field, Message: err.Error(), Pos: v.Pos()}
		}
		return idx, nil
	}
	return cueInt(v, field)
}
