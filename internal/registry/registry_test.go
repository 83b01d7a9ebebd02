package registry

import (
	"errors"
	"testing"

	"github.com/cwbudde/stackc/internal/ast"
	"github.com/cwbudde/stackc/internal/types"
)

func sig(ins, outs []types.Type) ast.Signature {
	return ast.Signature{Inputs: ins, Outputs: outs}
}

func TestBuildDeclThenImplSucceeds(t *testing.T) {
	s := sig([]types.Type{types.Prim(types.I32)}, []types.Type{types.Prim(types.I32)})
	prog := &ast.Program{
		Items: []ast.TopLevelItem{
			&ast.FunctionDecl{Head: ast.FunctionHeader{Name: "abs", Sig: s}},
			&ast.FunctionImpl{Head: ast.FunctionHeader{Name: "abs", Sig: s}},
		},
	}
	table, errs := Build(prog)
	if len(errs) != 0 {
		t.Fatalf("unexpected errors: %v", errs)
	}
	entry, ok := table.Lookup("abs")
	if !ok {
		t.Fatal("expected abs to be registered")
	}
	if !entry.Header.Sig.Equal(s) {
		t.Errorf("expected registered signature to equal declared signature")
	}
}

func TestRedeclaration(t *testing.T) {
	s := sig(nil, nil)
	prog := &ast.Program{
		Items: []ast.TopLevelItem{
			&ast.FunctionDecl{Head: ast.FunctionHeader{Name: "f", Sig: s}},
			&ast.FunctionDecl{Head: ast.FunctionHeader{Name: "f", Sig: s}},
		},
	}
	_, errs := Build(prog)
	if len(errs) != 1 {
		t.Fatalf("expected exactly one error, got %d", len(errs))
	}
	var redecl *RedeclarationError
	if !errors.As(errs[0], &redecl) {
		t.Fatalf("expected RedeclarationError, got %T", errs[0])
	}
}

func TestReimplementation(t *testing.T) {
	s := sig(nil, nil)
	prog := &ast.Program{
		Items: []ast.TopLevelItem{
			&ast.FunctionImpl{Head: ast.FunctionHeader{Name: "f", Sig: s}},
			&ast.FunctionImpl{Head: ast.FunctionHeader{Name: "f", Sig: s}},
		},
	}
	_, errs := Build(prog)
	if len(errs) != 1 {
		t.Fatalf("expected exactly one error, got %d", len(errs))
	}
	var reimpl *ReimplementationError
	if !errors.As(errs[0], &reimpl) {
		t.Fatalf("expected ReimplementationError, got %T", errs[0])
	}
}

func TestImplSignatureMismatch(t *testing.T) {
	declared := sig([]types.Type{types.Prim(types.I32)}, nil)
	actual := sig([]types.Type{types.Prim(types.F32)}, nil)
	prog := &ast.Program{
		Items: []ast.TopLevelItem{
			&ast.FunctionDecl{Head: ast.FunctionHeader{Name: "f", Sig: declared}},
			&ast.FunctionImpl{Head: ast.FunctionHeader{Name: "f", Sig: actual}},
		},
	}
	_, errs := Build(prog)
	if len(errs) != 1 {
		t.Fatalf("expected exactly one error, got %d", len(errs))
	}
	var mismatch *ImplSignatureMismatchError
	if !errors.As(errs[0], &mismatch) {
		t.Fatalf("expected ImplSignatureMismatchError, got %T", errs[0])
	}
}
