package ir

import (
	"fmt"
	"strings"
)

// Param is one formal parameter of an IR function.
type Param struct {
	Name string // without the leading %
	Type string
}

// Function is one IR function: either a bare declaration (HasBody false,
// e.g. an extern function or one never implemented) or a definition with
// basic blocks.
type Function struct {
	Name       string
	Params     []Param
	ReturnType string // "void", a scalar IR type, or a struct type name
	Private    bool
	HasBody    bool

	Blocks []*Block

	tempCount  int
	blockNames map[string]int
}

func (f *Function) paramList() string {
	parts := make([]string, len(f.Params))
	for i, p := range f.Params {
		if f.HasBody {
			parts[i] = fmt.Sprintf("%s %%%s", p.Type, p.Name)
		} else {
			parts[i] = p.Type
		}
	}
	return strings.Join(parts, ", ")
}

func (f *Function) render() string {
	if !f.HasBody {
		return fmt.Sprintf("declare %s @%s(%s)\n", f.ReturnType, f.Name, f.paramList())
	}

	var sb strings.Builder
	linkage := ""
	if f.Private {
		linkage = "private "
	}
	fmt.Fprintf(&sb, "define %s%s @%s(%s) {\n", linkage, f.ReturnType, f.Name, f.paramList())
	for _, b := range f.Blocks {
		sb.WriteString(b.render())
	}
	sb.WriteString("}\n")
	return sb.String()
}

// NewBlock appends a fresh basic block named after base (disambiguated
// with a numeric suffix on collision) and returns it.
func (f *Function) NewBlock(base string) *Block {
	if f.blockNames == nil {
		f.blockNames = make(map[string]int)
	}
	label := base
	if n, seen := f.blockNames[base]; seen {
		label = fmt.Sprintf("%s.%d", base, n)
	}
	f.blockNames[base]++
	b := &Block{Label: label}
	f.Blocks = append(f.Blocks, b)
	return b
}

func (f *Function) newTemp() string {
	name := fmt.Sprintf("%%t%d", f.tempCount)
	f.tempCount++
	return name
}
