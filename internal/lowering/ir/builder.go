package ir

import "fmt"

// Builder emits instructions into one function, tracking the current
// insertion-point block the way spec.md §5 describes: a single logical
// cursor, repositioned explicitly between blocks, never shared across
// functions.
type Builder struct {
	fn      *Function
	current *Block
}

// NewBuilder returns a Builder positioned at no block; call SetInsertPoint
// (or pass the block returned by fn.NewBlock) before emitting.
func NewBuilder(fn *Function) *Builder {
	return &Builder{fn: fn}
}

// SetInsertPoint repositions the cursor. Blocks may be created out of
// order; emitting into one always requires this explicit call first.
func (b *Builder) SetInsertPoint(block *Block) { b.current = block }

// Current returns the block currently positioned at.
func (b *Builder) Current() *Block { return b.current }

func (b *Builder) emit(text string) { b.current.append(plainInstr{text: text}) }

// EmitBinary emits a two-operand instruction ("add", "sub", "icmp slt",
// ...) and returns its result value.
func (b *Builder) EmitBinary(op, irType string, lhs, rhs Value) Value {
	result := b.fn.newTemp()
	b.emit(fmt.Sprintf("%s = %s %s %s, %s", result, op, irType, lhs.Text, rhs.Text))
	return Value{Text: result, Type: irType}
}

// EmitICmp emits an icmp with the given predicate (e.g. "eq", "slt") over
// two operands of irType, producing an i1.
func (b *Builder) EmitICmp(pred, irType string, lhs, rhs Value) Value {
	result := b.fn.newTemp()
	b.emit(fmt.Sprintf("%s = icmp %s %s %s, %s", result, pred, irType, lhs.Text, rhs.Text))
	return Value{Text: result, Type: "i1"}
}

// EmitCast emits a single-operand conversion instruction (trunc, zext,
// sext, fptrunc, fpext, sitofp, uitofp, fptosi, fptoui).
func (b *Builder) EmitCast(op string, v Value, destType string) Value {
	result := b.fn.newTemp()
	b.emit(fmt.Sprintf("%s = %s %s %s to %s", result, op, v.Type, v.Text, destType))
	return Value{Text: result, Type: destType}
}

// EmitCall emits a call to callee with the given argument values. retType
// "void" means no result is produced (Value's zero value is returned).
func (b *Builder) EmitCall(callee, retType string, args []Value) Value {
	argList := ""
	for i, a := range args {
		if i > 0 {
			argList += ", "
		}
		argList += fmt.Sprintf("%s %s", a.Type, a.Text)
	}
	if retType == "void" {
		b.emit(fmt.Sprintf("call void @%s(%s)", callee, argList))
		return Value{}
	}
	result := b.fn.newTemp()
	b.emit(fmt.Sprintf("%s = call %s @%s(%s)", result, retType, callee, argList))
	return Value{Text: result, Type: retType}
}

// EmitExtractValue extracts field index idx of type fieldType from an
// aggregate value.
func (b *Builder) EmitExtractValue(agg Value, idx int, fieldType string) Value {
	result := b.fn.newTemp()
	b.emit(fmt.Sprintf("%s = extractvalue %s %s, %d", result, agg.Type, agg.Text, idx))
	return Value{Text: result, Type: fieldType}
}

// EmitAlloca allocates stack space for one value of irType, returning a
// pointer value.
func (b *Builder) EmitAlloca(irType string) Value {
	result := b.fn.newTemp()
	b.emit(fmt.Sprintf("%s = alloca %s", result, irType))
	return Value{Text: result, Type: irType + "*"}
}

// EmitGEP computes the address of field index idx of the struct pointed to
// by ptr (struct type structType), returning a fieldType* pointer.
func (b *Builder) EmitGEP(ptr Value, structType string, idx int, fieldType string) Value {
	result := b.fn.newTemp()
	b.emit(fmt.Sprintf("%s = getelementptr %s, %s %s, i32 0, i32 %d", result, structType, ptr.Type, ptr.Text, idx))
	return Value{Text: result, Type: fieldType + "*"}
}

// EmitStore stores val through ptr.
func (b *Builder) EmitStore(val, ptr Value) {
	b.emit(fmt.Sprintf("store %s %s, %s %s", val.Type, val.Text, ptr.Type, ptr.Text))
}

// EmitLoad loads a value of irType from ptr.
func (b *Builder) EmitLoad(ptr Value, irType string) Value {
	result := b.fn.newTemp()
	b.emit(fmt.Sprintf("%s = load %s, %s %s", result, irType, ptr.Type, ptr.Text))
	return Value{Text: result, Type: irType}
}

// EmitPhi creates a new phi node of the given IR type with no incoming
// edges yet; callers add edges with AddIncoming as predecessors are
// finalized (needed for a while loop's back-edge, added only after the
// body has been lowered).
func (b *Builder) EmitPhi(irType string) *PhiHandle {
	result := b.fn.newTemp()
	p := &phiInstr{result: result, irType: irType}
	b.current.append(p)
	return &PhiHandle{p: p, value: Value{Text: result, Type: irType}}
}

// PhiHandle lets the lowerer add incoming edges to a phi node after it has
// already been emitted into a block.
type PhiHandle struct {
	p     *phiInstr
	value Value
}

// Value returns the SSA value produced by this phi.
func (h *PhiHandle) Value() Value { return h.value }

// AddIncoming records one (value, predecessor block) edge.
func (h *PhiHandle) AddIncoming(v Value, from *Block) { h.p.addIncoming(v, from) }

// EmitBr emits an unconditional branch to target.
func (b *Builder) EmitBr(target *Block) {
	b.emit(fmt.Sprintf("br label %%%s", target.Label))
}

// EmitCondBr emits a conditional branch on cond (an i1 value).
func (b *Builder) EmitCondBr(cond Value, trueBlock, falseBlock *Block) {
	b.emit(fmt.Sprintf("br i1 %s, label %%%s, label %%%s", cond.Text, trueBlock.Label, falseBlock.Label))
}

// EmitRetVoid emits a void return.
func (b *Builder) EmitRetVoid() { b.emit("ret void") }

// EmitRet emits a value return.
func (b *Builder) EmitRet(v Value) {
	b.emit(fmt.Sprintf("ret %s %s", v.Type, v.Text))
}
