package types

import (
	"fmt"

	"golang.org/x/exp/slices"
)

// Type is the tagged sum described in spec.md §3: a primitive, a generic
// name (valid only in declared signatures), or a pointer to another Type.
// Types have value semantics; Equal performs structural comparison.
type Type interface {
	// String renders the type the way it would appear in a declared
	// signature, e.g. "i32", "'T", "ptr<i32>".
	String() string
	// Equal reports whether other is structurally identical to this type.
	Equal(other Type) bool
	// IsGeneric reports whether this type (or, for Pointer, any type it
	// contains) is a generic — i.e. it must never appear as the type of
	// concrete runtime stack contents.
	IsGeneric() bool
}

// PrimitiveT wraps a Primitive as a Type.
type PrimitiveT struct {
	Kind Primitive
}

func Prim(p Primitive) PrimitiveT { return PrimitiveT{Kind: p} }

func (t PrimitiveT) String() string { return t.Kind.String() }

func (t PrimitiveT) Equal(other Type) bool {
	o, ok := other.(PrimitiveT)
	return ok && o.Kind == t.Kind
}

func (t PrimitiveT) IsGeneric() bool { return false }

// GenericT is a generic name, valid only on the declared side of a
// signature. It is introduced in source as a leading-tick name (e.g. 'T)
// but carries only the bare name here.
type GenericT struct {
	Name string
}

func Generic(name string) GenericT { return GenericT{Name: name} }

func (t GenericT) String() string { return "'" + t.Name }

func (t GenericT) Equal(other Type) bool {
	o, ok := other.(GenericT)
	return ok && o.Name == t.Name
}

func (t GenericT) IsGeneric() bool { return true }

// PointerT is a pointer to another Type, arbitrarily deep.
type PointerT struct {
	Elem Type
}

func Ptr(elem Type) PointerT { return PointerT{Elem: elem} }

func (t PointerT) String() string { return fmt.Sprintf("ptr<%s>", t.Elem.String()) }

func (t PointerT) Equal(other Type) bool {
	o, ok := other.(PointerT)
	return ok && t.Elem.Equal(o.Elem)
}

func (t PointerT) IsGeneric() bool { return t.Elem.IsGeneric() }

// StackEqual reports whether two ordered type stacks are structurally
// identical element-by-element.
func StackEqual(a, b []Type) bool {
	return slices.EqualFunc(a, b, func(x, y Type) bool { return x.Equal(y) })
}
