package lowering

import (
	"github.com/cwbudde/stackc/internal/lowering/ir"
	"github.com/cwbudde/stackc/internal/types"
)

// stackSlot pairs one compilation-stack entry's IR value with its reified
// type, per spec.md §4.4's "compilation stack".
type stackSlot struct {
	Value ir.Value
	Type  types.Type
}

var binaryIntrinsics = map[string]struct {
	signed, unsigned string
}{
	"+": {"add", "add"},
	"-": {"sub", "sub"},
	"*": {"mul", "mul"},
	"/": {"sdiv", "udiv"},
	"%": {"srem", "urem"},
	"<<": {"shl", "shl"},
	">>": {"ashr", "lshr"},
}

// compareIntrinsics maps each comparison operator to its icmp predicate.
// Unlike binaryIntrinsics, signedness never selects between two variants
// here: spec.md §4.4.1 lowers every comparison to a signed integer
// compare regardless of operand signedness (§9 restricts
// signedness-awareness to /, %, and >> alone).
var compareIntrinsics = map[string]string{
	"=":  "eq",
	"!=": "ne",
	"<":  "slt",
	">":  "sgt",
	"<=": "sle",
	">=": "sge",
}

// castTargets maps each cast-intrinsic token to the concrete primitive it
// converts to, per spec.md §4.4.1.
var castTargets = map[string]types.Primitive{
	"(i)":  types.I32,
	"(ui)": types.U32,
	"(f)":  types.F32,
	"(d)":  types.F64,
	"(c)":  types.I8,
	"(uc)": types.U8,
	"(q)":  types.I64,
	"(uq)": types.U64,
}

// stackOnlyIntrinsics are shuffles with no IR emitted; each maps the stack
// before the op to the stack after (top of stack is the last element).
var stackOnlyIntrinsics = map[string]func([]stackSlot) ([]stackSlot, error){
	"swap": func(s []stackSlot) ([]stackSlot, error) {
		n := len(s)
		if n < 2 {
			return nil, internalErrorf("swap: stack has %d entries, need 2", n)
		}
		s[n-1], s[n-2] = s[n-2], s[n-1]
		return s, nil
	},
	"over": func(s []stackSlot) ([]stackSlot, error) {
		n := len(s)
		if n < 2 {
			return nil, internalErrorf("over: stack has %d entries, need 2", n)
		}
		return append(s, s[n-2]), nil
	},
	"rot": func(s []stackSlot) ([]stackSlot, error) {
		n := len(s)
		if n < 3 {
			return nil, internalErrorf("rot: stack has %d entries, need 3", n)
		}
		a := s[n-3]
		copy(s[n-3:n-1], s[n-2:n])
		s[n-1] = a
		return s, nil
	},
	"dup": func(s []stackSlot) ([]stackSlot, error) {
		n := len(s)
		if n < 1 {
			return nil, internalErrorf("dup: stack is empty")
		}
		return append(s, s[n-1]), nil
	},
	"dup2": func(s []stackSlot) ([]stackSlot, error) {
		n := len(s)
		if n < 2 {
			return nil, internalErrorf("dup2: stack has %d entries, need 2", n)
		}
		return append(s, s[n-2], s[n-1]), nil
	},
	"drop": func(s []stackSlot) ([]stackSlot, error) {
		n := len(s)
		if n < 1 {
			return nil, internalErrorf("drop: stack is empty")
		}
		return s[:n-1], nil
	},
}

// dispatchIntrinsic tries to handle name as an intrinsic, per spec.md
// §4.4.1. It reports whether the name was recognized; a recognized
// intrinsic either mutates *stack in place (shuffles) or emits IR via b
// and updates *stack. Binary/compare intrinsics require both operands to
// share a single concrete primitive type (the checker already guaranteed
// this).
func dispatchIntrinsic(name string, b *ir.Builder, stack *[]stackSlot) (bool, error) {
	if shuffle, ok := stackOnlyIntrinsics[name]; ok {
		next, err := shuffle(*stack)
		if err != nil {
			return true, err
		}
		*stack = next
		return true, nil
	}

	if ops, ok := binaryIntrinsics[name]; ok {
		return true, applyBinary(b, stack, ops.signed, ops.unsigned)
	}
	if pred, ok := compareIntrinsics[name]; ok {
		return true, applyCompare(b, stack, pred)
	}
	if target, ok := castTargets[name]; ok {
		return true, applyCast(b, stack, target)
	}
	return false, nil
}

func popOperand(stack *[]stackSlot) (stackSlot, error) {
	s := *stack
	if len(s) == 0 {
		return stackSlot{}, internalErrorf("intrinsic: stack underflow")
	}
	top := s[len(s)-1]
	*stack = s[:len(s)-1]
	return top, nil
}

func primitiveOf(t types.Type) (types.Primitive, error) {
	p, ok := t.(types.PrimitiveT)
	if !ok {
		return 0, internalErrorf("intrinsic: expected a primitive operand, got %s", t)
	}
	return p.Kind, nil
}

func applyBinary(b *ir.Builder, stack *[]stackSlot, signedOp, unsignedOp string) error {
	rhs, err := popOperand(stack)
	if err != nil {
		return err
	}
	lhs, err := popOperand(stack)
	if err != nil {
		return err
	}
	kind, err := primitiveOf(lhs.Type)
	if err != nil {
		return err
	}

	op := signedOp
	if !kind.Signed() {
		op = unsignedOp
	}
	irType := ir.TypeOf(lhs.Type)
	result := b.EmitBinary(op, irType, lhs.Value, rhs.Value)
	*stack = append(*stack, stackSlot{Value: result, Type: lhs.Type})
	return nil
}

func applyCompare(b *ir.Builder, stack *[]stackSlot, pred string) error {
	rhs, err := popOperand(stack)
	if err != nil {
		return err
	}
	lhs, err := popOperand(stack)
	if err != nil {
		return err
	}
	if _, err := primitiveOf(lhs.Type); err != nil {
		return err
	}

	irType := ir.TypeOf(lhs.Type)
	result := b.EmitICmp(pred, irType, lhs.Value, rhs.Value)
	*stack = append(*stack, stackSlot{Value: result, Type: types.Prim(types.Bool)})
	return nil
}

func applyCast(b *ir.Builder, stack *[]stackSlot, dest types.Primitive) error {
	src, err := popOperand(stack)
	if err != nil {
		return err
	}
	srcKind, err := primitiveOf(src.Type)
	if err != nil {
		return err
	}

	destType := types.Prim(dest)
	destIR := ir.TypeOf(destType)
	op := castOpcode(srcKind, dest)
	var result ir.Value
	if op == "" {
		// No-op: equal-width reinterpretation, pass the value through
		// unchanged but relabel it with the destination IR type.
		result = ir.Value{Text: src.Value.Text, Type: destIR}
	} else {
		result = b.EmitCast(op, src.Value, destIR)
	}
	*stack = append(*stack, stackSlot{Value: result, Type: destType})
	return nil
}

// castOpcode selects the IR conversion instruction per spec.md §4.4.1's
// casting-opcode-selection rules.
func castOpcode(src, dest types.Primitive) string {
	if src == dest {
		return ""
	}
	srcIntegral, destIntegral := src.Integral(), dest.Integral()

	switch {
	case srcIntegral && destIntegral:
		switch {
		case src.Width() == dest.Width():
			return ""
		case src.Width() < dest.Width():
			if src.Signed() {
				return "sext"
			}
			return "zext"
		default:
			return "trunc"
		}

	case srcIntegral && !destIntegral:
		if src.Signed() {
			return "sitofp"
		}
		return "uitofp"

	case !srcIntegral && destIntegral:
		if dest.Signed() {
			return "fptosi"
		}
		return "fptoui"

	default: // both floating
		switch {
		case src.Width() == dest.Width():
			return ""
		case src.Width() < dest.Width():
			return "fpext"
		default:
			return "fptrunc"
		}
	}
}
