// Package registry implements the Type Registry Builder (spec.md §4.1): a
// single pass over top-level items that produces a read-only mapping from
// function name to declared signature, rejecting redeclarations,
// reimplementations, and declaration/implementation signature mismatches.
package registry

import (
	"github.com/cwbudde/stackc/internal/ast"
	"github.com/dolthub/swiss"
)

// Entry is one function table entry: its declared header plus the flags
// that control lowering and intrinsic dispatch.
type Entry struct {
	Header    ast.FunctionHeader
	Extern    bool
	Intrinsic bool
}

// Table is the finalized name→signature mapping handed to the type
// checker and the lowerer. It is built once and is read-only thereafter.
type Table struct {
	entries *swiss.Map[string, Entry]
}

// Lookup returns the entry registered for name, if any.
func (t *Table) Lookup(name string) (Entry, bool) {
	return t.entries.Get(name)
}

// RedeclarationError reports a declaration whose name was already
// registered (spec.md §4.1).
type RedeclarationError struct {
	Name string
	Pos  ast.Pos
}

func (e *RedeclarationError) Error() string {
	return "redeclaration of function '" + e.Name + "'"
}

// Position implements the position-carrying interface pipeline.wrap looks
// for when rendering diagnostics with source context.
func (e *RedeclarationError) Position() ast.Pos { return e.Pos }

// ReimplementationError reports an implementation whose name was already
// implemented.
type ReimplementationError struct {
	Name string
	Pos  ast.Pos
}

func (e *ReimplementationError) Error() string {
	return "reimplementation of function '" + e.Name + "'"
}

func (e *ReimplementationError) Position() ast.Pos { return e.Pos }

// ImplSignatureMismatchError reports an implementation whose signature
// does not structurally equal its prior declaration.
type ImplSignatureMismatchError struct {
	Name     string
	Declared ast.Signature
	Actual   ast.Signature
	Pos      ast.Pos
}

func (e *ImplSignatureMismatchError) Error() string {
	return "implementation of '" + e.Name + "' does not match its declaration"
}

func (e *ImplSignatureMismatchError) Position() ast.Pos { return e.Pos }

// builder walks top-level items in source order, tracking whether each
// registered name has been implemented yet. It implements
// ast.ModuleVisitor[*Table], per the "visitor abstraction" design note.
type builder struct {
	table       *swiss.Map[string, Entry]
	implemented *swiss.Map[string, bool]
	errs        []error
}

// Build runs the Type Registry Builder over prog, per spec.md §4.1.
// Returns the finalized table, or the accumulated errors if any occurred
// (at least one error is always reported when any exist).
func Build(prog *ast.Program) (*Table, []error) {
	b := &builder{
		table:       swiss.NewMap[string, Entry](8),
		implemented: swiss.NewMap[string, bool](8),
	}
	table := ast.WalkProgram[*Table](prog, b)
	return table, b.errs
}

func (b *builder) VisitDecl(d *ast.FunctionDecl) {
	if _, ok := b.table.Get(d.Head.Name); ok {
		b.errs = append(b.errs, &RedeclarationError{Name: d.Head.Name, Pos: d.Head.Pos})
		return
	}
	b.table.Put(d.Head.Name, Entry{Header: d.Head, Extern: d.Extern, Intrinsic: d.Intrinsic})
	b.implemented.Put(d.Head.Name, false)
}

func (b *builder) VisitImpl(i *ast.FunctionImpl) {
	existing, ok := b.table.Get(i.Head.Name)
	if !ok {
		b.table.Put(i.Head.Name, Entry{Header: i.Head})
		b.implemented.Put(i.Head.Name, true)
		return
	}

	done, _ := b.implemented.Get(i.Head.Name)
	if done {
		b.errs = append(b.errs, &ReimplementationError{Name: i.Head.Name, Pos: i.Head.Pos})
		return
	}

	if !existing.Header.Sig.Equal(i.Head.Sig) {
		b.errs = append(b.errs, &ImplSignatureMismatchError{
			Name:     i.Head.Name,
			Declared: existing.Header.Sig,
			Actual:   i.Head.Sig,
			Pos:      i.Head.Pos,
		})
		return
	}

	existing.Header = i.Head
	b.table.Put(i.Head.Name, existing)
	b.implemented.Put(i.Head.Name, true)
}

func (b *builder) Finalize() *Table {
	return &Table{entries: b.table}
}
