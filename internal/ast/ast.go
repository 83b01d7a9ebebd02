// Package ast defines the abstract syntax tree consumed by the type
// registry builder, stack type checker, and SSA lowering stage. Nodes are
// produced by an external parser (out of scope for this module, per
// spec.md §1) and are mutated in place only by the type checker, which
// fills in each call site's Annotation field.
package ast

import (
	"strconv"

	"github.com/cwbudde/stackc/internal/types"
)

// Pos is a source position. The zero value means "unknown" — a
// hand-written fixture may omit line/col entirely (see ast.DecodeProgram).
type Pos struct {
	Line   int
	Column int
}

func (p Pos) String() string {
	if p.Line == 0 && p.Column == 0 {
		return ""
	}
	return strconv.Itoa(p.Line) + ":" + strconv.Itoa(p.Column)
}

// Signature is a function's declared stack effect: an ordered list of
// input types (consumed top-down, rightmost is top-of-stack) and an
// ordered list of output types (produced bottom-up, leftmost pushed
// first).
type Signature struct {
	Inputs  []types.Type
	Outputs []types.Type
}

func (s Signature) Equal(o Signature) bool {
	return types.StackEqual(s.Inputs, o.Inputs) && types.StackEqual(s.Outputs, o.Outputs)
}

// IsGeneric reports whether any input or output type is (or contains) a
// generic. A signature like this can only ever be reified at a call site;
// its own body, if it has one, is never stack-simulated directly (doing
// so would require pushing a generic as "concrete" stack content, which
// the type system kernel's match/reify never allow).
func (s Signature) IsGeneric() bool {
	for _, t := range s.Inputs {
		if t.IsGeneric() {
			return true
		}
	}
	for _, t := range s.Outputs {
		if t.IsGeneric() {
			return true
		}
	}
	return false
}

// FunctionHeader is the name and declared signature shared by a
// declaration and an implementation.
type FunctionHeader struct {
	Name string
	Sig  Signature
	Pos  Pos
}

// FunctionDecl is a top-level declaration: a signature with no body, with
// Extern/Intrinsic flags controlling lowering and dispatch.
type FunctionDecl struct {
	Head      FunctionHeader
	Extern    bool
	Intrinsic bool
}

// FunctionImpl is a top-level implementation: a signature plus a body.
type FunctionImpl struct {
	Head FunctionHeader
	Body Block
}

// TopLevelItem is either a *FunctionDecl or a *FunctionImpl.
type TopLevelItem interface {
	isTopLevelItem()
	Name() string
}

func (*FunctionDecl) isTopLevelItem() {}
func (*FunctionImpl) isTopLevelItem() {}

func (d *FunctionDecl) Name() string { return d.Head.Name }
func (i *FunctionImpl) Name() string { return i.Head.Name }

// Program is the full parsed source: an ordered sequence of top-level
// items.
type Program struct {
	Items []TopLevelItem
}

// Block is an ordered sequence of words — a code block.
type Block []Word

// Word is one AST node inside a code block: a literal, a call, or a
// control-flow construct.
type Word interface {
	isWord()
	Position() Pos
}

// IntLiteral pushes the signed two's-complement value of an integer
// literal. Per spec.md §4.3, it always pushes i32.
type IntLiteral struct {
	Value int32
	Pos   Pos
}

// FloatLiteral pushes an f32 constant.
type FloatLiteral struct {
	Value float32
	Pos   Pos
}

// BoolLiteral pushes a bool constant.
type BoolLiteral struct {
	Value bool
	Pos   Pos
}

// Call is a function-call word. Annotation is nil before type checking and
// is populated by the checker with the reified signature resolved at this
// call site (spec.md §3, "Function call annotation").
type Call struct {
	Callee     string
	Annotation *Signature
	Pos        Pos
}

// If is an if-statement: a true branch and a false branch. The predicate
// itself is not a field here — it is whatever the preceding words left on
// top of the stack, popped by the checker/lowerer before entering either
// branch.
type If struct {
	TrueBranch  Block
	FalseBranch Block
	Pos         Pos
}

// While is a while-statement: a condition block and a body block.
type While struct {
	Condition Block
	Body      Block
	Pos       Pos
}

func (*IntLiteral) isWord()   {}
func (*FloatLiteral) isWord() {}
func (*BoolLiteral) isWord()  {}
func (*Call) isWord()         {}
func (*If) isWord()           {}
func (*While) isWord()        {}

func (w *IntLiteral) Position() Pos   { return w.Pos }
func (w *FloatLiteral) Position() Pos { return w.Pos }
func (w *BoolLiteral) Position() Pos  { return w.Pos }
func (w *Call) Position() Pos         { return w.Pos }
func (w *If) Position() Pos           { return w.Pos }
func (w *While) Position() Pos        { return w.Pos }
