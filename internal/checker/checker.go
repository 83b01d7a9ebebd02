// Package checker implements the Stack Type Checker (spec.md §4.3): it
// walks each function body as a sequence of stack-effect operations,
// maintains an abstract type stack, enforces the structural rules for if
// and while, and annotates each call-site word with the generic
// instantiation it resolved to.
package checker

import (
	"errors"

	"github.com/cwbudde/stackc/internal/ast"
	"github.com/cwbudde/stackc/internal/registry"
	"github.com/cwbudde/stackc/internal/types"
)

// checkState is shared by every block-level check within one function's
// body, so a failure reported by a nested if/while branch stops the whole
// function check. The checker accumulates at least one error per function
// that has any (spec.md §7); stopping at the first keeps later, likely
// cascading errors from obscuring it.
type checkState struct {
	table  *registry.Table
	errs   []error
	failed bool
}

func (s *checkState) fail(err error) {
	if !s.failed {
		s.errs = append(s.errs, err)
		s.failed = true
	}
}

// blockChecker type-checks a single code block, implementing
// ast.CodeBlockVisitor[[]types.Type] per the visitor abstraction in
// spec.md §9.
type blockChecker struct {
	state *checkState
	stack []types.Type
}

func checkBlock(state *checkState, initial []types.Type, block ast.Block) []types.Type {
	bc := &blockChecker{state: state, stack: initial}
	return ast.WalkBlock[[]types.Type](block, bc)
}

func (c *blockChecker) VisitIntLiteral(*ast.IntLiteral) {
	if c.state.failed {
		return
	}
	c.stack = append(c.stack, types.Prim(types.I32))
}

func (c *blockChecker) VisitFloatLiteral(*ast.FloatLiteral) {
	if c.state.failed {
		return
	}
	c.stack = append(c.stack, types.Prim(types.F32))
}

func (c *blockChecker) VisitBoolLiteral(*ast.BoolLiteral) {
	if c.state.failed {
		return
	}
	c.stack = append(c.stack, types.Prim(types.Bool))
}

func (c *blockChecker) VisitCall(w *ast.Call) {
	if c.state.failed {
		return
	}

	entry, ok := c.state.table.Lookup(w.Callee)
	if !ok {
		c.state.fail(&UndefinedFunctionError{Callee: w.Callee, Pos: w.Pos})
		return
	}
	sig := entry.Header.Sig
	binding := types.NewBinding()

	// Pop the top n types, matching declared inputs right-to-left against
	// the stack (rightmost input is top-of-stack).
	n := len(sig.Inputs)
	for i := n - 1; i >= 0; i-- {
		if len(c.stack) == 0 {
			c.state.fail(&StackUnderflowError{Callee: w.Callee, Expected: sig.Inputs[i], Pos: w.Pos})
			return
		}
		top := c.stack[len(c.stack)-1]
		c.stack = c.stack[:len(c.stack)-1]
		if !types.Match(sig.Inputs[i], top, binding) {
			c.state.fail(&ArgTypeMismatchError{Callee: w.Callee, ArgIndex: i, Expected: sig.Inputs[i], Got: top, Pos: w.Pos})
			return
		}
	}

	reifiedOutputs, err := types.ReifyAll(sig.Outputs, binding)
	if err != nil {
		var unresolved *types.UnresolvedGenericError
		name := ""
		if errors.As(err, &unresolved) {
			name = unresolved.Name
		}
		c.state.fail(&UnresolvedGenericError{Callee: w.Callee, Generic: name, Pos: w.Pos})
		return
	}
	// Every generic referenced by an input was bound while popping above,
	// so reifying the (already concrete or now-bound) inputs cannot fail.
	reifiedInputs, err := types.ReifyAll(sig.Inputs, binding)
	if err != nil {
		panic("checker: input reification failed after successful matching: " + err.Error())
	}

	w.Annotation = &ast.Signature{Inputs: reifiedInputs, Outputs: reifiedOutputs}
	c.stack = append(c.stack, reifiedOutputs...)
}

func (c *blockChecker) VisitIf(w *ast.If) {
	if c.state.failed {
		return
	}
	if len(c.stack) == 0 {
		c.state.fail(&IfPredicateNotBoolError{Got: nil, Pos: w.Pos})
		return
	}
	predicate := c.stack[len(c.stack)-1]
	c.stack = c.stack[:len(c.stack)-1]
	if !predicate.Equal(types.Prim(types.Bool)) {
		c.state.fail(&IfPredicateNotBoolError{Got: predicate, Pos: w.Pos})
		return
	}

	remaining := cloneStack(c.stack)
	trueStack := checkBlock(c.state, cloneStack(remaining), w.TrueBranch)
	if c.state.failed {
		return
	}
	falseStack := checkBlock(c.state, cloneStack(remaining), w.FalseBranch)
	if c.state.failed {
		return
	}
	if !types.StackEqual(trueStack, falseStack) {
		c.state.fail(&IfBranchesMismatchError{True: trueStack, False: falseStack, Pos: w.Pos})
		return
	}
	c.stack = trueStack
}

func (c *blockChecker) VisitWhile(w *ast.While) {
	if c.state.failed {
		return
	}
	before := cloneStack(c.stack)

	condStack := checkBlock(c.state, cloneStack(before), w.Condition)
	if c.state.failed {
		return
	}
	consumed, produced := netEffect(before, condStack)
	if len(consumed) != 0 || len(produced) != 1 || !produced[0].Equal(types.Prim(types.Bool)) {
		c.state.fail(&WhileConditionEffectError{Consumed: consumed, Produced: produced, Pos: w.Pos})
		return
	}

	bodyStack := checkBlock(c.state, cloneStack(before), w.Body)
	if c.state.failed {
		return
	}
	bodyConsumed, bodyProduced := netEffect(before, bodyStack)
	if len(bodyConsumed) != 0 || len(bodyProduced) != 0 {
		c.state.fail(&WhileBodyEffectError{Consumed: bodyConsumed, Produced: bodyProduced, Pos: w.Pos})
		return
	}
	// The stack is unchanged by a while: the condition's extra bool is
	// consumed by the loop, never left on the stack (c.stack stays as-is).
}

func (c *blockChecker) Finalize() []types.Type { return c.stack }

func cloneStack(s []types.Type) []types.Type {
	out := make([]types.Type, len(s))
	copy(out, s)
	return out
}

// netEffect scans the longest shared prefix of pre and post (structural
// equality) and returns the remainders: what pre had that post didn't
// (consumed) and what post has that pre didn't (produced). Spec.md §4.3.
func netEffect(pre, post []types.Type) (consumed, produced []types.Type) {
	k := 0
	for k < len(pre) && k < len(post) && pre[k].Equal(post[k]) {
		k++
	}
	return pre[k:], post[k:]
}

// CheckFunction type-checks a single implementation's body, starting from
// its declared inputs and comparing the final stack against its declared
// outputs.
//
// An implementation whose own signature contains a generic (e.g.
// `swap_pair 'A 'B -> 'B 'A`) is never stack-simulated directly: there is
// no concrete input stack to simulate with, since a generic may only ever
// appear as a declared pattern, never as concrete stack content (spec.md
// §4.2). Such a body is checked only indirectly, once per call site, the
// same way a pure generic declaration is.
func CheckFunction(table *registry.Table, impl *ast.FunctionImpl) []error {
	if impl.Head.Sig.IsGeneric() {
		return nil
	}
	state := &checkState{table: table}
	initial := cloneStack(impl.Head.Sig.Inputs)
	final := checkBlock(state, initial, impl.Body)
	if state.failed {
		return state.errs
	}
	if !types.StackEqual(final, impl.Head.Sig.Outputs) {
		state.fail(&ReturnStackMismatchError{Expected: impl.Head.Sig.Outputs, Got: final, Pos: impl.Head.Pos})
	}
	return state.errs
}

// CheckProgram type-checks every implementation in prog against table,
// mutating each call-site word's Annotation field in place. Returns the
// concatenation of every function's errors.
func CheckProgram(table *registry.Table, prog *ast.Program) []error {
	var all []error
	for _, item := range prog.Items {
		impl, ok := item.(*ast.FunctionImpl)
		if !ok {
			continue
		}
		all = append(all, CheckFunction(table, impl)...)
	}
	return all
}
