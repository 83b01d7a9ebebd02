// Package pipeline wires the three compiler stages together in the order
// spec.md §1 describes them: registry build, then stack type checking,
// then (optionally) SSA lowering. It exists so cmd/stackc's check and
// lower commands share one "load fixture, check it" entry point instead
// of re-deriving the wiring order twice.
package pipeline

import (
	"github.com/cwbudde/stackc/internal/ast"
	"github.com/cwbudde/stackc/internal/checker"
	"github.com/cwbudde/stackc/internal/errors"
	"github.com/cwbudde/stackc/internal/lowering"
	"github.com/cwbudde/stackc/internal/lowering/ir"
	"github.com/cwbudde/stackc/internal/registry"
)

// CheckResult is the outcome of running the registry builder and the
// stack type checker over a decoded program.
type CheckResult struct {
	Table  *registry.Table
	Errors []*errors.CompilerError
}

// Check runs the Type Registry Builder (spec.md §4.1) and the Stack Type
// Checker (spec.md §4.3) over prog. source and file are only used to
// render errors with context; file may be empty.
func Check(prog *ast.Program, source, file string) CheckResult {
	table, regErrs := registry.Build(prog)
	if len(regErrs) != 0 {
		return CheckResult{Table: table, Errors: wrap(regErrs, "registry", source, file)}
	}

	checkErrs := checker.CheckProgram(table, prog)
	if len(checkErrs) != 0 {
		return CheckResult{Table: table, Errors: wrap(checkErrs, "checker", source, file)}
	}

	return CheckResult{Table: table}
}

// Lower runs Check and, if it succeeds, lowers prog to an LLVM textual IR
// module (spec.md §4.4). Lowering assumes every call site has already
// been annotated by Check, so a failed Check result is never lowered.
func Lower(prog *ast.Program, source, file string) (*ir.Module, []*errors.CompilerError) {
	result := Check(prog, source, file)
	if len(result.Errors) != 0 {
		return nil, result.Errors
	}

	module, lowerErrs := lowering.LowerProgram(result.Table, prog)
	if len(lowerErrs) != 0 {
		return nil, wrap(lowerErrs, "lowering", source, file)
	}
	return module, nil
}

// positioned is implemented by every registry/checker/lowering typed error
// that can point at the offending word — everything ast.Call/If/While
// already exposes via Position(). Errors with no single offending word
// (e.g. a whole-program contradiction) simply don't implement it, and
// NewFromTypedError renders the zero ast.Pos without a source line.
type positioned interface {
	Position() ast.Pos
}

func wrap(errs []error, kind, source, file string) []*errors.CompilerError {
	out := make([]*errors.CompilerError, len(errs))
	for i, err := range errs {
		pos := ast.Pos{}
		if p, ok := err.(positioned); ok {
			pos = p.Position()
		}
		out[i] = errors.NewFromTypedError(err, kind, pos, source, file)
	}
	return out
}
