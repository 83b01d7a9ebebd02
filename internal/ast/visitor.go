package ast

// ModuleVisitor and CodeBlockVisitor restate the language-neutral "walk"
// protocol from spec.md §9: the walker owns traversal order only, and every
// policy decision (registry building, type checking, lowering) lives in the
// callbacks. This mirrors the teacher's Pass interface
// (internal/semantic.Pass in the reference repo) generalized to two
// distinct node shapes — module level and code-block level — since this
// language's type checker and lowerer both need to walk both shapes.
type ModuleVisitor[T any] interface {
	VisitDecl(d *FunctionDecl)
	VisitImpl(i *FunctionImpl)
	Finalize() T
}

// WalkProgram visits every top-level item of p in source order, then
// returns the visitor's finalized result.
func WalkProgram[T any](p *Program, v ModuleVisitor[T]) T {
	for _, item := range p.Items {
		switch it := item.(type) {
		case *FunctionDecl:
			v.VisitDecl(it)
		case *FunctionImpl:
			v.VisitImpl(it)
		}
	}
	return v.Finalize()
}

// CodeBlockVisitor visits the words of a single code block in order.
type CodeBlockVisitor[T any] interface {
	VisitIntLiteral(w *IntLiteral)
	VisitFloatLiteral(w *FloatLiteral)
	VisitBoolLiteral(w *BoolLiteral)
	VisitCall(w *Call)
	VisitIf(w *If)
	VisitWhile(w *While)
	Finalize() T
}

// WalkBlock visits every word of b in order, then returns the visitor's
// finalized result.
func WalkBlock[T any](b Block, v CodeBlockVisitor[T]) T {
	for _, w := range b {
		switch word := w.(type) {
		case *IntLiteral:
			v.VisitIntLiteral(word)
		case *FloatLiteral:
			v.VisitFloatLiteral(word)
		case *BoolLiteral:
			v.VisitBoolLiteral(word)
		case *Call:
			v.VisitCall(word)
		case *If:
			v.VisitIf(word)
		case *While:
			v.VisitWhile(word)
		}
	}
	return v.Finalize()
}
