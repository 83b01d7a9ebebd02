package ir

import (
	"fmt"
	"runtime"
	"strings"
)

// StructType is a named anonymous aggregate used for a function's
// multi-output return value (spec.md §4.4 step 1: "<funcname>_output").
type StructType struct {
	Name   string
	Fields []string // IR types, in output order
}

func (s *StructType) String() string { return "%" + s.Name }

func (s *StructType) render() string {
	return fmt.Sprintf("%%%s = type { %s }\n", s.Name, strings.Join(s.Fields, ", "))
}

// Module is the top-level IR artifact: one per compilation, per spec.md §6.
type Module struct {
	Name         string
	TargetTriple string

	structTypes []*StructType
	functions   []*Function
}

// NewModule returns a Module named "main_module" per spec.md §6. Its target
// triple is picked from runtime.GOARCH alone: "arm64-unknown-linux-gnu" on
// arm64, "x86_64-unknown-linux-gnu" on every other architecture. The host
// operating system is not consulted.
func NewModule() *Module {
	return &Module{
		Name:         "main_module",
		TargetTriple: defaultTargetTriple(),
	}
}

func defaultTargetTriple() string {
	switch runtime.GOARCH {
	case "arm64":
		return "arm64-unknown-linux-gnu"
	default:
		return "x86_64-unknown-linux-gnu"
	}
}

// DeclareStruct registers a named struct type (idempotent on repeated
// names) and returns it.
func (m *Module) DeclareStruct(name string, fields []string) *StructType {
	for _, s := range m.structTypes {
		if s.Name == name {
			return s
		}
	}
	s := &StructType{Name: name, Fields: fields}
	m.structTypes = append(m.structTypes, s)
	return s
}

// NewFunction registers and returns a new function handle. hasBody is
// false for a pure declaration (an extern function, or one declared but
// never implemented); true for a function the lowerer will fill with
// basic blocks.
func (m *Module) NewFunction(name string, params []Param, returnType string, private, hasBody bool) *Function {
	f := &Function{Name: name, Params: params, ReturnType: returnType, Private: private, HasBody: hasBody}
	m.functions = append(m.functions, f)
	return f
}

// Render produces the module's full textual IR.
func (m *Module) Render() string {
	var sb strings.Builder
	fmt.Fprintf(&sb, "; ModuleID = '%s'\n", m.Name)
	fmt.Fprintf(&sb, "target triple = \"%s\"\n\n", m.TargetTriple)

	for _, s := range m.structTypes {
		sb.WriteString(s.render())
	}
	if len(m.structTypes) > 0 {
		sb.WriteString("\n")
	}

	for i, f := range m.functions {
		sb.WriteString(f.render())
		if i < len(m.functions)-1 {
			sb.WriteString("\n")
		}
	}
	return sb.String()
}

// Functions returns the module's functions in declaration order.
func (m *Module) Functions() []*Function { return m.functions }
