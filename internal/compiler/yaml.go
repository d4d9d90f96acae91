package compiler

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"strconv"

	"gopkg.in/yaml.v3"

	"github.com/roach88/dfa/internal/ir"
)

// Definition is the structured (YAML/CUE) shape of a description:
//
//	alphabet_size: 2
//	states: 2
//	initial: 0
//	final: [1]
//	transitions:
//	  - {from: 0, symbol: a, to: 1}
//	  - {from: 1, symbol: 1, to: 1}
//
// A symbol is either its index or its letter.
type Definition struct {
	AlphabetSize int             `yaml:"alphabet_size"`
	States       int             `yaml:"states"`
	Initial      int             `yaml:"initial"`
	Final        []int           `yaml:"final"`
	Transitions  []DefTransition `yaml:"transitions"`
}

// DefTransition is one entry of Definition.Transitions.
type DefTransition struct {
	From   int    `yaml:"from"`
	Symbol Symbol `yaml:"symbol"`
	To     int    `yaml:"to"`
}

// Symbol is a symbol index that unmarshals from either an integer or a
// single lowercase letter.
type Symbol int

// UnmarshalYAML implements yaml.Unmarshaler.
func (s *Symbol) UnmarshalYAML(node *yaml.Node) error {
	if node.Kind != yaml.ScalarNode {
		return fmt.Errorf("line %d: symbol must be a scalar", node.Line)
	}
	if n, err := strconv.Atoi(node.Value); err == nil {
		*s = Symbol(n)
		return nil
	}
	idx, err := parseSymbol(node.Value)
	if err != nil {
		return fmt.Errorf("line %d: %w", node.Line, err)
	}
	*s = Symbol(idx)
	return nil
}

// Description converts the definition to an ir.Description.
func (d Definition) Description() ir.Description {
	desc := ir.Description{
		AlphabetSize: d.AlphabetSize,
		StateCount:   d.States,
		InitialState: d.Initial,
		FinalStates:  append([]int(nil), d.Final...),
	}
	for _, t := range d.Transitions {
		desc.Transitions = append(desc.Transitions, ir.Transition{
			Source: t.From,
			Symbol: int(t.Symbol),
			Dest:   t.To,
		})
	}
	return desc
}

// ParseYAML parses a YAML description. Unknown fields are rejected.
func ParseYAML(data []byte, file string) (*Source, error) {
	var root yaml.Node
	dec := yaml.NewDecoder(bytes.NewReader(data))
	if err := dec.Decode(&root); err != nil {
		if errors.Is(err, io.EOF) {
			return nil, &CompileError{Field: "yaml", Message: "empty document", File: file}
		}
		return nil, &CompileError{Field: "yaml", Message: err.Error(), File: file}
	}

	var def Definition
	strict := yaml.NewDecoder(bytes.NewReader(data))
	strict.KnownFields(true) // Reject unknown fields
	if err := strict.Decode(&def); err != nil {
		return nil, &CompileError{Field: "yaml", Message: err.Error(), File: file}
	}

	src := &Source{
		Path:        file,
		Format:      FormatYAML,
		Description: def.Description(),
		Lines:       yamlLines(&root),
	}
	return src, nil
}

// yamlLines records the line of every top-level field and list element.
func yamlLines(root *yaml.Node) map[string]int {
	lines := make(map[string]int)
	doc := root
	if doc.Kind == yaml.DocumentNode && len(doc.Content) > 0 {
		doc = doc.Content[0]
	}
	if doc.Kind != yaml.MappingNode {
		return lines
	}

	names := map[string]string{
		"alphabet_size": "alphabet_size",
		"states":        "state_count",
		"initial":       "initial_state",
		"final":         "final_states",
		"transitions":   "transitions",
	}
	for i := 0; i+1 < len(doc.Content); i += 2 {
		key, val := doc.Content[i], doc.Content[i+1]
		field, ok := names[key.Value]
		if !ok {
			continue
		}
		lines[field] = key.Line
		if val.Kind == yaml.SequenceNode {
			for j, elem := range val.Content {
				lines[fmt.Sprintf("%s[%d]", field, j)] = elem.Line
			}
		}
	}
	return lines
}
