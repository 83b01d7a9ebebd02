package types

import "github.com/dolthub/swiss"

// Binding maps a generic name to the concrete Type it was matched against
// at one call site. A Binding is scoped to exactly one call site: it is
// allocated fresh before matching that call's inputs and discarded once its
// outputs have been reified.
type Binding struct {
	m *swiss.Map[string, Type]
}

// NewBinding returns an empty binding sized for a handful of generics,
// which is the common case for any one function signature.
func NewBinding() *Binding {
	return &Binding{m: swiss.NewMap[string, Type](4)}
}

func (b *Binding) get(name string) (Type, bool) { return b.m.Get(name) }

func (b *Binding) set(name string, t Type) { b.m.Put(name, t) }

// UnresolvedGenericError signals that reify encountered a generic name with
// no entry in the binding — e.g. a generic that only appears in an output
// position never constrained by any input.
type UnresolvedGenericError struct {
	Name string
}

func (e *UnresolvedGenericError) Error() string {
	return "unresolved generic '" + e.Name
}

// Match checks whether pattern matches concrete under binding, per
// spec.md §4.2. concrete must not itself contain any generic; callers that
// violate this invariant get a panic, since it indicates a checker bug, not
// a user error (concrete types only ever come from the type-checker's own
// stack, never from a declared signature).
func Match(pattern, concrete Type, binding *Binding) bool {
	if concrete.IsGeneric() {
		panic("types.Match: concrete type must not contain a generic")
	}

	switch p := pattern.(type) {
	case PrimitiveT:
		c, ok := concrete.(PrimitiveT)
		return ok && c.Kind == p.Kind

	case GenericT:
		if bound, ok := binding.get(p.Name); ok {
			return Match(bound, concrete, binding)
		}
		binding.set(p.Name, concrete)
		return true

	case PointerT:
		c, ok := concrete.(PointerT)
		if !ok {
			return false
		}
		return Match(p.Elem, c.Elem, binding)

	default:
		panic("types.Match: unknown pattern type")
	}
}

// Reify substitutes every generic in t with its bound concrete type,
// per spec.md §4.2. Returns UnresolvedGenericError if t names a generic
// with no entry in binding.
func Reify(t Type, binding *Binding) (Type, error) {
	switch p := t.(type) {
	case PrimitiveT:
		return p, nil

	case GenericT:
		bound, ok := binding.get(p.Name)
		if !ok {
			return nil, &UnresolvedGenericError{Name: p.Name}
		}
		return bound, nil

	case PointerT:
		inner, err := Reify(p.Elem, binding)
		if err != nil {
			return nil, err
		}
		return PointerT{Elem: inner}, nil

	default:
		panic("types.Reify: unknown pattern type")
	}
}

// ReifyAll reifies every type in ts, in order, stopping at the first error.
func ReifyAll(ts []Type, binding *Binding) ([]Type, error) {
	out := make([]Type, 0, len(ts))
	for _, t := range ts {
		r, err := Reify(t, binding)
		if err != nil {
			return nil, err
		}
		out = append(out, r)
	}
	return out, nil
}
