package ir

// Value is an operand: either an SSA register name ("%t3", "%p0"), an inline
// constant literal ("42", "true"), or a global symbol ("@main"). IR
// instructions never need to look inside a Value beyond its textual form
// and its type.
type Value struct {
	Text string
	Type string
}

func (v Value) String() string { return v.Text }

// Const returns an inline literal constant value of the given IR type —
// valid for integer, floating-point, and boolean (i1) constants alike,
// since LLVM textual IR represents all of them as bare literal text.
func Const(text, irType string) Value { return Value{Text: text, Type: irType} }
