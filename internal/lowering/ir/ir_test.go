package ir

import (
	"strings"
	"testing"

	"github.com/cwbudde/stackc/internal/types"
)

func TestTypeOf(t *testing.T) {
	cases := []struct {
		in   types.Type
		want string
	}{
		{types.Prim(types.I8), "i8"},
		{types.Prim(types.U8), "i8"},
		{types.Prim(types.I32), "i32"},
		{types.Prim(types.U32), "i32"},
		{types.Prim(types.I64), "i64"},
		{types.Prim(types.U64), "i64"},
		{types.Prim(types.F32), "float"},
		{types.Prim(types.F64), "double"},
		{types.Prim(types.Bool), "i1"},
		{types.Ptr(types.Prim(types.I32)), "i32*"},
		{types.Ptr(types.Ptr(types.Prim(types.U8))), "i8**"},
	}
	for _, c := range cases {
		if got := TypeOf(c.in); got != c.want {
			t.Errorf("TypeOf(%s) = %q, want %q", c.in, got, c.want)
		}
	}
}

func TestModuleRenderScalarFunction(t *testing.T) {
	m := NewModule()
	f := m.NewFunction("add", []Param{{Name: "p0", Type: "i32"}, {Name: "p1", Type: "i32"}}, "i32", true, true)
	b := NewBuilder(f)
	entry := f.NewBlock("entry")
	b.SetInsertPoint(entry)
	sum := b.EmitBinary("add", "i32", Value{Text: "%p0", Type: "i32"}, Value{Text: "%p1", Type: "i32"})
	b.EmitRet(sum)

	if err := Verify(f); err != nil {
		t.Fatalf("unexpected verification error: %v", err)
	}

	out := m.Render()
	if !strings.Contains(out, "define private i32 @add(i32 %p0, i32 %p1) {") {
		t.Errorf("expected a private i32 @add definition, got:\n%s", out)
	}
	if !strings.Contains(out, "ret i32 %t0") {
		t.Errorf("expected the sum to be returned, got:\n%s", out)
	}
}

func TestVerifyRejectsMissingTerminator(t *testing.T) {
	f := &Function{Name: "broken", ReturnType: "void", HasBody: true}
	f.NewBlock("entry")

	if err := Verify(f); err == nil {
		t.Fatal("expected a verification error for an unterminated block")
	}
}

func TestVerifyRejectsPhiPredecessorMismatch(t *testing.T) {
	f := &Function{Name: "bad_phi", ReturnType: "i32", HasBody: true}
	b := NewBuilder(f)

	entry := f.NewBlock("entry")
	finish := f.NewBlock("finish")

	b.SetInsertPoint(entry)
	b.EmitBr(finish)

	b.SetInsertPoint(finish)
	ph := b.EmitPhi("i32")
	// Two incoming edges claimed, but only one predecessor (entry) exists.
	ph.AddIncoming(Value{Text: "1", Type: "i32"}, entry)
	ph.AddIncoming(Value{Text: "2", Type: "i32"}, entry)
	b.EmitRet(ph.Value())

	if err := Verify(f); err == nil {
		t.Fatal("expected a verification error for a phi/predecessor mismatch")
	}
}

func TestVerifySkipsDeclarations(t *testing.T) {
	f := &Function{Name: "extern_fn", ReturnType: "void", HasBody: false}
	if err := Verify(f); err != nil {
		t.Errorf("declarations should always verify trivially, got %v", err)
	}
}
