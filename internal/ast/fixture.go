package ast

import (
	"fmt"
	"strings"

	"github.com/cwbudde/stackc/internal/types"
	"github.com/goccy/go-yaml"
)

// The types below are the YAML-facing wire shape accepted by cmd/stackc.
// They deliberately carry no behavior of their own: decoding a fixture is a
// serialization boundary for a pre-built AST (the surface-syntax parser
// that would normally produce one is out of scope, per spec.md §1), not a
// second implementation of the language's concrete syntax.
//
// line/col are optional on every item and word: a fixture produced by a
// real front end can stamp them so registry/checker/lowering diagnostics
// point at a source line; a hand-written fixture can omit them, in which
// case the corresponding Pos is the zero value and diagnostics fall back
// to a contextless message (see errors.CompilerError.header).

type rawProgram struct {
	Items []rawItem `yaml:"items"`
}

type rawItem struct {
	Name      string    `yaml:"name"`
	Inputs    []string  `yaml:"inputs"`
	Outputs   []string  `yaml:"outputs"`
	Extern    bool      `yaml:"extern"`
	Intrinsic bool      `yaml:"intrinsic"`
	Body      []rawWord `yaml:"body"`
	Line      int       `yaml:"line,omitempty"`
	Col       int       `yaml:"col,omitempty"`
}

func (i rawItem) pos() Pos { return Pos{Line: i.Line, Column: i.Col} }

type rawWord struct {
	Kind  string    `yaml:"kind"` // int, float, bool, call, if, while
	Int   int32     `yaml:"int,omitempty"`
	Float float32   `yaml:"float,omitempty"`
	Bool  bool      `yaml:"bool,omitempty"`
	Name  string    `yaml:"name,omitempty"`
	True  []rawWord `yaml:"true,omitempty"`
	False []rawWord `yaml:"false,omitempty"`
	Cond  []rawWord `yaml:"cond,omitempty"`
	Body  []rawWord `yaml:"body,omitempty"`
	Line  int       `yaml:"line,omitempty"`
	Col   int       `yaml:"col,omitempty"`
}

func (w rawWord) pos() Pos { return Pos{Line: w.Line, Column: w.Col} }

// DecodeProgram decodes a YAML fixture into a Program. This is the input
// format accepted by the stackc CLI (see cmd/stackc); it is not a parser
// for the language's own surface syntax.
func DecodeProgram(data []byte) (*Program, error) {
	var raw rawProgram
	if err := yaml.Unmarshal(data, &raw); err != nil {
		return nil, fmt.Errorf("decode fixture: %w", err)
	}

	prog := &Program{Items: make([]TopLevelItem, 0, len(raw.Items))}
	for _, item := range raw.Items {
		sig, err := decodeSignature(item.Inputs, item.Outputs)
		if err != nil {
			return nil, fmt.Errorf("item %q: %w", item.Name, err)
		}
		head := FunctionHeader{Name: item.Name, Sig: sig, Pos: item.pos()}

		if item.Body == nil {
			prog.Items = append(prog.Items, &FunctionDecl{
				Head:      head,
				Extern:    item.Extern,
				Intrinsic: item.Intrinsic,
			})
			continue
		}

		body, err := decodeBlock(item.Body)
		if err != nil {
			return nil, fmt.Errorf("item %q: %w", item.Name, err)
		}
		prog.Items = append(prog.Items, &FunctionImpl{Head: head, Body: body})
	}
	return prog, nil
}

func decodeSignature(inputs, outputs []string) (Signature, error) {
	ins, err := decodeTypeList(inputs)
	if err != nil {
		return Signature{}, err
	}
	outs, err := decodeTypeList(outputs)
	if err != nil {
		return Signature{}, err
	}
	return Signature{Inputs: ins, Outputs: outs}, nil
}

func decodeTypeList(names []string) ([]types.Type, error) {
	out := make([]types.Type, 0, len(names))
	for _, n := range names {
		t, err := ParseType(n)
		if err != nil {
			return nil, err
		}
		out = append(out, t)
	}
	return out, nil
}

// ParseType parses a single declared-type token: a primitive name
// ("i32"), a generic ("'T"), or a pointer ("ptr<i32>", arbitrarily
// nested as "ptr<ptr<i32>>").
func ParseType(s string) (types.Type, error) {
	s = strings.TrimSpace(s)
	switch {
	case strings.HasPrefix(s, "'"):
		name := strings.TrimPrefix(s, "'")
		if name == "" {
			return nil, fmt.Errorf("empty generic name")
		}
		return types.Generic(name), nil

	case strings.HasPrefix(s, "ptr<") && strings.HasSuffix(s, ">"):
		inner := s[len("ptr<") : len(s)-1]
		elem, err := ParseType(inner)
		if err != nil {
			return nil, err
		}
		return types.Ptr(elem), nil

	default:
		if p, ok := types.PrimitiveFromName(s); ok {
			return types.Prim(p), nil
		}
		return nil, fmt.Errorf("unknown type %q", s)
	}
}

func decodeBlock(words []rawWord) (Block, error) {
	block := make(Block, 0, len(words))
	for _, w := range words {
		word, err := decodeWord(w)
		if err != nil {
			return nil, err
		}
		block = append(block, word)
	}
	return block, nil
}

func decodeWord(w rawWord) (Word, error) {
	switch w.Kind {
	case "int":
		return &IntLiteral{Value: w.Int, Pos: w.pos()}, nil
	case "float":
		return &FloatLiteral{Value: w.Float, Pos: w.pos()}, nil
	case "bool":
		return &BoolLiteral{Value: w.Bool, Pos: w.pos()}, nil
	case "call":
		if w.Name == "" {
			return nil, fmt.Errorf("call word missing name")
		}
		return &Call{Callee: w.Name, Pos: w.pos()}, nil
	case "if":
		trueBranch, err := decodeBlock(w.True)
		if err != nil {
			return nil, err
		}
		falseBranch, err := decodeBlock(w.False)
		if err != nil {
			return nil, err
		}
		return &If{TrueBranch: trueBranch, FalseBranch: falseBranch, Pos: w.pos()}, nil
	case "while":
		cond, err := decodeBlock(w.Cond)
		if err != nil {
			return nil, err
		}
		body, err := decodeBlock(w.Body)
		if err != nil {
			return nil, err
		}
		return &While{Condition: cond, Body: body, Pos: w.pos()}, nil
	default:
		return nil, fmt.Errorf("unknown word kind %q", w.Kind)
	}
}
