// Package types implements the type-system kernel: the primitive type
// table, the Type sum (primitive, generic, pointer), and the two operations
// — match and reify — that relate a declared pattern type to a concrete
// instance type under a generics binding.
package types

import "fmt"

// Primitive identifies one of the closed set of primitive types.
type Primitive int

const (
	I8 Primitive = iota
	U8
	I32
	U32
	I64
	U64
	F32
	F64
	Bool
)

// primitiveProps holds the fixed properties of a primitive, indexed by
// Primitive. Order must track the const block above.
var primitiveProps = [...]struct {
	name     string
	integral bool
	signed   bool
	width    int
}{
	I8:   {"i8", true, true, 8},
	U8:   {"u8", true, false, 8},
	I32:  {"i32", true, true, 32},
	U32:  {"u32", true, false, 32},
	I64:  {"i64", true, true, 64},
	U64:  {"u64", true, false, 64},
	F32:  {"f32", false, true, 32},
	F64:  {"f64", false, true, 64},
	Bool: {"bool", true, false, 1},
}

// String returns the primitive's declared name, e.g. "i32".
func (p Primitive) String() string {
	if int(p) < 0 || int(p) >= len(primitiveProps) {
		return fmt.Sprintf("Primitive(%d)", int(p))
	}
	return primitiveProps[p].name
}

// Integral reports whether p is one of the integer or bool primitives.
func (p Primitive) Integral() bool { return primitiveProps[p].integral }

// Signed reports whether p is a signed type. Only meaningful for integral
// and floating primitives; bool is unsigned by convention.
func (p Primitive) Signed() bool { return primitiveProps[p].signed }

// Width returns the bit width of p.
func (p Primitive) Width() int { return primitiveProps[p].width }

// PrimitiveFromName looks up a primitive by its declared name. Returns
// false if name does not name a primitive.
func PrimitiveFromName(name string) (Primitive, bool) {
	for p := range primitiveProps {
		if primitiveProps[p].name == name {
			return Primitive(p), true
		}
	}
	return 0, false
}
