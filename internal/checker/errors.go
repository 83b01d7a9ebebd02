package checker

import (
	"fmt"
	"strings"

	"github.com/cwbudde/stackc/internal/ast"
	"github.com/cwbudde/stackc/internal/types"
)

func typeListString(ts []types.Type) string {
	parts := make([]string, len(ts))
	for i, t := range ts {
		parts[i] = t.String()
	}
	return "[" + strings.Join(parts, " ") + "]"
}

// UndefinedFunctionError: a call site names a function absent from the
// registry's function table.
type UndefinedFunctionError struct {
	Callee string
	Pos    ast.Pos
}

func (e *UndefinedFunctionError) Error() string {
	return fmt.Sprintf("undefined function %q", e.Callee)
}

// Position implements the position-carrying interface pipeline.wrap looks
// for when rendering diagnostics with source context.
func (e *UndefinedFunctionError) Position() ast.Pos { return e.Pos }

// StackUnderflowError: a call site needs more operands than are on the
// stack.
type StackUnderflowError struct {
	Callee   string
	Expected types.Type
	Pos      ast.Pos
}

func (e *StackUnderflowError) Error() string {
	return fmt.Sprintf("stack underflow calling %q: expected a %s on the stack", e.Callee, e.Expected)
}

func (e *StackUnderflowError) Position() ast.Pos { return e.Pos }

// ArgTypeMismatchError: the type on the stack at arg position ArgIndex
// does not match the declared input type.
type ArgTypeMismatchError struct {
	Callee   string
	ArgIndex int
	Expected types.Type
	Got      types.Type
	Pos      ast.Pos
}

func (e *ArgTypeMismatchError) Error() string {
	return fmt.Sprintf("calling %q: argument %d expected %s, got %s", e.Callee, e.ArgIndex, e.Expected, e.Got)
}

func (e *ArgTypeMismatchError) Position() ast.Pos { return e.Pos }

// UnresolvedGenericError: an output generic never got bound to a concrete
// type by any input.
type UnresolvedGenericError struct {
	Callee  string
	Generic string
	Pos     ast.Pos
}

func (e *UnresolvedGenericError) Error() string {
	return fmt.Sprintf("calling %q: generic '%s is never bound by any input", e.Callee, e.Generic)
}

func (e *UnresolvedGenericError) Position() ast.Pos { return e.Pos }

// IfPredicateNotBoolError: the value popped for an if's predicate was not
// a bool (or the stack was empty).
type IfPredicateNotBoolError struct {
	Got types.Type // nil if the stack was empty
	Pos ast.Pos
}

func (e *IfPredicateNotBoolError) Error() string {
	if e.Got == nil {
		return "if statement expected a bool predicate, but the stack was empty"
	}
	return fmt.Sprintf("if statement expected a bool predicate, got %s", e.Got)
}

func (e *IfPredicateNotBoolError) Position() ast.Pos { return e.Pos }

// IfBranchesMismatchError: the true and false branches left different
// type stacks.
type IfBranchesMismatchError struct {
	True  []types.Type
	False []types.Type
	Pos   ast.Pos
}

func (e *IfBranchesMismatchError) Error() string {
	return fmt.Sprintf("if branches must produce identical stacks: true branch left %s, false branch left %s",
		typeListString(e.True), typeListString(e.False))
}

func (e *IfBranchesMismatchError) Position() ast.Pos { return e.Pos }

// WhileConditionEffectError: a while's condition block did not have the
// required net effect of "produces exactly [bool], consumes nothing".
type WhileConditionEffectError struct {
	Consumed []types.Type
	Produced []types.Type
	Pos      ast.Pos
}

func (e *WhileConditionEffectError) Error() string {
	return fmt.Sprintf("while condition must consume nothing and produce exactly [bool]: consumed %s, produced %s",
		typeListString(e.Consumed), typeListString(e.Produced))
}

func (e *WhileConditionEffectError) Position() ast.Pos { return e.Pos }

// WhileBodyEffectError: a while's body block did not have net effect zero.
type WhileBodyEffectError struct {
	Consumed []types.Type
	Produced []types.Type
	Pos      ast.Pos
}

func (e *WhileBodyEffectError) Error() string {
	return fmt.Sprintf("while body must have no net stack effect: consumed %s, produced %s",
		typeListString(e.Consumed), typeListString(e.Produced))
}

func (e *WhileBodyEffectError) Position() ast.Pos { return e.Pos }

// ReturnStackMismatchError: the function body's final stack does not equal
// its declared outputs.
type ReturnStackMismatchError struct {
	Expected []types.Type
	Got      []types.Type
	Pos      ast.Pos
}

func (e *ReturnStackMismatchError) Error() string {
	return fmt.Sprintf("function returns %s, declared to return %s", typeListString(e.Got), typeListString(e.Expected))
}

func (e *ReturnStackMismatchError) Position() ast.Pos { return e.Pos }
