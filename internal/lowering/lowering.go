package lowering

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/cwbudde/stackc/internal/ast"
	"github.com/cwbudde/stackc/internal/lowering/ir"
	"github.com/cwbudde/stackc/internal/registry"
	"github.com/cwbudde/stackc/internal/types"
	"golang.org/x/exp/slices"
)

// lowerState is shared by every function lowered in one LowerProgram call:
// the module under construction, the read-only function table, and the
// caches of IR function handles. Per spec.md §5 this is the lowerer's
// entire piece of process-wide state — the IR builder itself is always
// scoped to one function at a time.
type lowerState struct {
	module *ir.Module
	table  *registry.Table

	// decls holds every non-intrinsic, fully concrete declared/implemented
	// function, pre-registered before any body is lowered so calls can
	// reference functions regardless of source order.
	decls map[string]*ir.Function

	// mangled holds lazily created declarations for generic-signature
	// declarations (declared but never implemented, like `id 'T -> 'T`):
	// since there is no monomorphized body to emit, each distinct
	// call-site reification gets its own concrete external symbol, keyed
	// by callee name plus its reified input types.
	mangled map[string]*ir.Function
}

// LowerProgram lowers every implemented, non-intrinsic function in prog to
// one IR module, per spec.md §4.4. prog must already be fully type
// checked: every call site's Annotation must be populated.
func LowerProgram(table *registry.Table, prog *ast.Program) (*ir.Module, []error) {
	state := &lowerState{
		module:  ir.NewModule(),
		table:   table,
		decls:   make(map[string]*ir.Function),
		mangled: make(map[string]*ir.Function),
	}

	implByName := make(map[string]*ast.FunctionImpl)
	for _, item := range prog.Items {
		if impl, ok := item.(*ast.FunctionImpl); ok {
			implByName[impl.Head.Name] = impl
		}
	}

	seen := make(map[string]bool)
	for _, item := range prog.Items {
		name := item.Name()
		if seen[name] {
			continue
		}
		seen[name] = true
		registerFunction(state, name, implByName[name] != nil)
	}

	var errs []error
	for _, item := range prog.Items {
		impl, ok := item.(*ast.FunctionImpl)
		if !ok {
			continue
		}
		entry, _ := table.Lookup(impl.Head.Name)
		if entry.Intrinsic {
			continue
		}
		if impl.Head.Sig.IsGeneric() {
			// A generic-signatured implementation (e.g. `swap_pair 'A 'B ->
			// 'B 'A : swap`) has no concrete body to lower: it is reified
			// only indirectly, once per call site, exactly like a pure
			// generic declaration. Its own body is never emitted.
			continue
		}
		f, ok := state.decls[impl.Head.Name]
		if !ok {
			// A concrete-signature implementation that registerFunction
			// should always have pre-declared.
			errs = append(errs, internalErrorAt(impl.Head.Pos, "function %q has no concrete IR declaration to define", impl.Head.Name))
			continue
		}
		if err := lowerFunctionBody(state, f, impl); err != nil {
			errs = append(errs, err)
		}
	}

	return state.module, errs
}

// registerFunction pre-declares name's IR function handle, if it is
// eligible: non-intrinsic and fully concrete. Generic-signature
// declarations are skipped here and resolved lazily per call site.
func registerFunction(state *lowerState, name string, hasBody bool) {
	entry, ok := state.table.Lookup(name)
	if !ok || entry.Intrinsic {
		return
	}
	if entry.Header.Sig.IsGeneric() {
		return
	}

	params := make([]ir.Param, len(entry.Header.Sig.Inputs))
	for i, t := range entry.Header.Sig.Inputs {
		params[i] = ir.Param{Name: fmt.Sprintf("p%d", i), Type: ir.TypeOf(t)}
	}
	returnType := computeReturnType(state.module, name, entry.Header.Sig.Outputs)
	private := !entry.Extern

	f := state.module.NewFunction(name, params, returnType, private, hasBody)
	state.decls[name] = f
}

// computeReturnType implements spec.md §4.4 step 1: void for zero
// outputs, the scalar IR type for one, or a named "<name>_output" struct
// for more than one.
func computeReturnType(module *ir.Module, name string, outputs []types.Type) string {
	switch len(outputs) {
	case 0:
		return "void"
	case 1:
		return ir.TypeOf(outputs[0])
	default:
		fields := make([]string, len(outputs))
		for i, t := range outputs {
			fields[i] = ir.TypeOf(t)
		}
		return module.DeclareStruct(name+"_output", fields).String()
	}
}

// resolveCallee returns the IR function handle for a call site, creating a
// mangled declaration on first use for generic-signature callees (see
// lowerState.mangled).
func resolveCallee(state *lowerState, calleeName string, annotation *ast.Signature) *ir.Function {
	if f, ok := state.decls[calleeName]; ok {
		return f
	}

	key := mangleName(calleeName, annotation.Inputs)
	if f, ok := state.mangled[key]; ok {
		return f
	}

	params := make([]ir.Param, len(annotation.Inputs))
	for i, t := range annotation.Inputs {
		params[i] = ir.Param{Name: fmt.Sprintf("p%d", i), Type: ir.TypeOf(t)}
	}
	returnType := computeReturnType(state.module, key, annotation.Outputs)
	f := state.module.NewFunction(key, params, returnType, false, false)
	state.mangled[key] = f
	return f
}

func mangleName(name string, inputs []types.Type) string {
	var sb strings.Builder
	sb.WriteString(name)
	for _, t := range inputs {
		sb.WriteByte('$')
		sb.WriteString(sanitize(t.String()))
	}
	return sb.String()
}

func sanitize(s string) string {
	return strings.Map(func(r rune) rune {
		switch {
		case r >= 'a' && r <= 'z', r >= 'A' && r <= 'Z', r >= '0' && r <= '9':
			return r
		default:
			return '_'
		}
	}, s)
}

// lowerFunctionBody lowers one implementation's body into f's basic
// blocks and verifies the result, per spec.md §4.4 steps 3-6.
func lowerFunctionBody(state *lowerState, f *ir.Function, impl *ast.FunctionImpl) error {
	builder := ir.NewBuilder(f)
	entry := f.NewBlock("entry")
	builder.SetInsertPoint(entry)

	initial := make([]stackSlot, len(impl.Head.Sig.Inputs))
	for i, t := range impl.Head.Sig.Inputs {
		initial[i] = stackSlot{Value: ir.Value{Text: "%" + f.Params[i].Name, Type: ir.TypeOf(t)}, Type: t}
	}

	bl := &blockLowerer{state: state, builder: builder, fn: f, stack: initial}
	final := ast.WalkBlock[[]stackSlot](impl.Body, bl)
	if bl.err != nil {
		return bl.err
	}

	switch len(final) {
	case 0:
		builder.EmitRetVoid()
	case 1:
		builder.EmitRet(final[0].Value)
	default:
		structType := f.ReturnType
		ptr := builder.EmitAlloca(structType)
		for i, slot := range final {
			fieldPtr := builder.EmitGEP(ptr, structType, i, slot.Value.Type)
			builder.EmitStore(slot.Value, fieldPtr)
		}
		loaded := builder.EmitLoad(ptr, structType)
		builder.EmitRet(loaded)
	}

	return wrapVerification(impl.Head.Pos, f, ir.Verify(f))
}

// blockLowerer lowers one code block, implementing
// ast.CodeBlockVisitor[[]stackSlot]. It stops at the first error, since
// the lowerer treats any contradiction of the checker's guarantees as
// fatal (spec.md §7).
type blockLowerer struct {
	state   *lowerState
	builder *ir.Builder
	fn      *ir.Function
	stack   []stackSlot
	err     error
}

func (l *blockLowerer) fail(err error) {
	if l.err == nil {
		l.err = err
	}
}

func (l *blockLowerer) pop() (stackSlot, bool) {
	if l.err != nil || len(l.stack) == 0 {
		return stackSlot{}, false
	}
	top := l.stack[len(l.stack)-1]
	l.stack = l.stack[:len(l.stack)-1]
	return top, true
}

func (l *blockLowerer) VisitIntLiteral(w *ast.IntLiteral) {
	if l.err != nil {
		return
	}
	text := strconv.FormatInt(int64(w.Value), 10)
	l.stack = append(l.stack, stackSlot{Value: ir.Const(text, "i32"), Type: types.Prim(types.I32)})
}

func (l *blockLowerer) VisitFloatLiteral(w *ast.FloatLiteral) {
	if l.err != nil {
		return
	}
	text := strconv.FormatFloat(float64(w.Value), 'g', -1, 32)
	l.stack = append(l.stack, stackSlot{Value: ir.Const(text, "float"), Type: types.Prim(types.F32)})
}

func (l *blockLowerer) VisitBoolLiteral(w *ast.BoolLiteral) {
	if l.err != nil {
		return
	}
	text := "false"
	if w.Value {
		text = "true"
	}
	l.stack = append(l.stack, stackSlot{Value: ir.Const(text, "i1"), Type: types.Prim(types.Bool)})
}

func (l *blockLowerer) VisitCall(w *ast.Call) {
	if l.err != nil {
		return
	}

	handled, err := dispatchIntrinsic(w.Callee, l.builder, &l.stack)
	if err != nil {
		l.fail(err)
		return
	}
	if handled {
		return
	}

	if w.Annotation == nil {
		l.fail(internalErrorAt(w.Pos, "call to %q was never annotated by the type checker", w.Callee))
		return
	}

	n := len(w.Annotation.Inputs)
	args := make([]ir.Value, 0, n)
	for i := 0; i < n; i++ {
		top, ok := l.pop()
		if !ok {
			l.fail(internalErrorAt(w.Pos, "call to %q: stack underflow despite type checking", w.Callee))
			return
		}
		args = append(args, top.Value)
	}
	slices.Reverse(args) // popped right-to-left; arguments are left-to-right

	callee := resolveCallee(l.state, w.Callee, w.Annotation)
	result := l.builder.EmitCall(callee.Name, callee.ReturnType, args)

	switch len(w.Annotation.Outputs) {
	case 0:
	case 1:
		l.stack = append(l.stack, stackSlot{Value: result, Type: w.Annotation.Outputs[0]})
	default:
		for i, outT := range w.Annotation.Outputs {
			extracted := l.builder.EmitExtractValue(result, i, ir.TypeOf(outT))
			l.stack = append(l.stack, stackSlot{Value: extracted, Type: outT})
		}
	}
}

func (l *blockLowerer) VisitIf(w *ast.If) {
	if l.err != nil {
		return
	}
	predicate, ok := l.pop()
	if !ok {
		l.fail(internalErrorAt(w.Pos, "if statement: stack underflow despite type checking"))
		return
	}

	trueBlock := l.fn.NewBlock("if.true")
	falseBlock := l.fn.NewBlock("if.false")
	finishBlock := l.fn.NewBlock("if.finish")
	l.builder.EmitCondBr(predicate.Value, trueBlock, falseBlock)

	remaining := cloneSlots(l.stack)

	l.builder.SetInsertPoint(trueBlock)
	trueLowerer := &blockLowerer{state: l.state, builder: l.builder, fn: l.fn, stack: cloneSlots(remaining)}
	trueStack := ast.WalkBlock[[]stackSlot](w.TrueBranch, trueLowerer)
	if trueLowerer.err != nil {
		l.fail(trueLowerer.err)
		return
	}
	l.builder.EmitBr(finishBlock)
	trueTerminal := l.builder.Current()

	l.builder.SetInsertPoint(falseBlock)
	falseLowerer := &blockLowerer{state: l.state, builder: l.builder, fn: l.fn, stack: cloneSlots(remaining)}
	falseStack := ast.WalkBlock[[]stackSlot](w.FalseBranch, falseLowerer)
	if falseLowerer.err != nil {
		l.fail(falseLowerer.err)
		return
	}
	l.builder.EmitBr(finishBlock)
	falseTerminal := l.builder.Current()

	if len(trueStack) != len(falseStack) {
		l.fail(internalErrorAt(w.Pos, "if branches left stacks of different length despite type checking"))
		return
	}

	l.builder.SetInsertPoint(finishBlock)
	merged := make([]stackSlot, len(trueStack))
	for i := range trueStack {
		t, f := trueStack[i], falseStack[i]
		if t.Value.Text == f.Value.Text {
			merged[i] = t
			continue
		}
		ph := l.builder.EmitPhi(ir.TypeOf(t.Type))
		ph.AddIncoming(t.Value, trueTerminal)
		ph.AddIncoming(f.Value, falseTerminal)
		merged[i] = stackSlot{Value: ph.Value(), Type: t.Type}
	}
	l.stack = merged
}

func (l *blockLowerer) VisitWhile(w *ast.While) {
	if l.err != nil {
		return
	}
	entryTerminal := l.builder.Current()

	condBlock := l.fn.NewBlock("while.cond")
	bodyBlock := l.fn.NewBlock("while.body")
	finishBlock := l.fn.NewBlock("while.finish")

	l.builder.EmitBr(condBlock)
	l.builder.SetInsertPoint(condBlock)

	phis := make([]*ir.PhiHandle, len(l.stack))
	condInitial := make([]stackSlot, len(l.stack))
	for i, slot := range l.stack {
		ph := l.builder.EmitPhi(ir.TypeOf(slot.Type))
		ph.AddIncoming(slot.Value, entryTerminal)
		phis[i] = ph
		condInitial[i] = stackSlot{Value: ph.Value(), Type: slot.Type}
	}

	condLowerer := &blockLowerer{state: l.state, builder: l.builder, fn: l.fn, stack: cloneSlots(condInitial)}
	condStack := ast.WalkBlock[[]stackSlot](w.Condition, condLowerer)
	if condLowerer.err != nil {
		l.fail(condLowerer.err)
		return
	}
	condTerminal := l.builder.Current()

	if len(condStack) == 0 {
		l.fail(internalErrorAt(w.Pos, "while condition left an empty stack despite type checking"))
		return
	}
	predicate := condStack[len(condStack)-1]
	remaining := condStack[:len(condStack)-1]

	l.builder.SetInsertPoint(condTerminal)
	l.builder.EmitCondBr(predicate.Value, bodyBlock, finishBlock)

	l.builder.SetInsertPoint(bodyBlock)
	bodyLowerer := &blockLowerer{state: l.state, builder: l.builder, fn: l.fn, stack: cloneSlots(remaining)}
	bodyStack := ast.WalkBlock[[]stackSlot](w.Body, bodyLowerer)
	if bodyLowerer.err != nil {
		l.fail(bodyLowerer.err)
		return
	}
	bodyTerminal := l.builder.Current()
	l.builder.EmitBr(condBlock)

	if len(bodyStack) != len(phis) {
		l.fail(internalErrorAt(w.Pos, "while body left a stack of different length despite type checking"))
		return
	}
	for i, ph := range phis {
		ph.AddIncoming(bodyStack[i].Value, bodyTerminal)
	}

	l.builder.SetInsertPoint(finishBlock)
	l.stack = remaining
}

func (l *blockLowerer) Finalize() []stackSlot { return l.stack }

func cloneSlots(s []stackSlot) []stackSlot {
	out := make([]stackSlot, len(s))
	copy(out, s)
	return out
}
