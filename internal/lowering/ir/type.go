// Package ir models the narrow subset of LLVM textual IR this compiler
// emits: module/function declarations and definitions, basic blocks,
// instructions, constants, and phi nodes. It renders with strings.Builder
// rather than binding to the LLVM C API, so the lowerer never needs cgo or
// a system LLVM install — only a string is produced, which is all
// spec.md §6 requires of the lowerer's output.
package ir

import (
	"fmt"

	"github.com/cwbudde/stackc/internal/types"
)

// TypeOf maps a reified primitive/pointer Type to its IR type string, per
// spec.md §6's lowering table.
func TypeOf(t types.Type) string {
	switch v := t.(type) {
	case types.PrimitiveT:
		switch v.Kind {
		case types.I8, types.U8:
			return "i8"
		case types.I32, types.U32:
			return "i32"
		case types.I64, types.U64:
			return "i64"
		case types.F32:
			return "float"
		case types.F64:
			return "double"
		case types.Bool:
			return "i1"
		default:
			panic("ir: unknown primitive kind")
		}
	case types.PointerT:
		return TypeOf(v.Elem) + "*"
	default:
		panic(fmt.Sprintf("ir: cannot lower generic type %s to an IR type", t))
	}
}
