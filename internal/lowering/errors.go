// Package lowering implements the Structured-to-SSA Lowering stage
// (spec.md §4.4): it walks a type-checked program and emits one textual
// LLVM IR module, using internal/lowering/ir as its instruction builder.
package lowering

import (
	"fmt"

	"github.com/cwbudde/stackc/internal/ast"
	"github.com/cwbudde/stackc/internal/lowering/ir"
)

// IRVerificationFailedError wraps a structural verification failure for
// one function (spec.md §7). Pos is the position of the function's own
// header, since a verification failure is a property of the whole body,
// not any single word.
type IRVerificationFailedError struct {
	Function string
	Pos      ast.Pos
	Cause    error
}

func (e *IRVerificationFailedError) Error() string {
	return fmt.Sprintf("IR verification failed for function %q: %v", e.Function, e.Cause)
}

func (e *IRVerificationFailedError) Unwrap() error { return e.Cause }

// Position implements the position-carrying interface pipeline.wrap looks
// for when rendering diagnostics with source context.
func (e *IRVerificationFailedError) Position() ast.Pos { return e.Pos }

// InternalError reports a violated post-condition that the checker should
// have already ruled out — a checker bug, not a user error. The lowerer
// assumes a well-typed AST (spec.md §7).
type InternalError struct {
	Pos    ast.Pos
	Reason string
}

func (e *InternalError) Error() string {
	return "internal lowering error (checker post-condition violated): " + e.Reason
}

func (e *InternalError) Position() ast.Pos { return e.Pos }

// internalErrorf builds an InternalError with no specific position; use
// internalErrorAt wherever the offending word's position is in scope.
func internalErrorf(format string, args ...any) error {
	return &InternalError{Reason: fmt.Sprintf(format, args...)}
}

func internalErrorAt(pos ast.Pos, format string, args ...any) error {
	return &InternalError{Pos: pos, Reason: fmt.Sprintf(format, args...)}
}

func wrapVerification(pos ast.Pos, fn *ir.Function, err error) error {
	if err == nil {
		return nil
	}
	return &IRVerificationFailedError{Function: fn.Name, Pos: pos, Cause: err}
}
