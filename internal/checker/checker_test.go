package checker

import (
	"errors"
	"testing"

	"github.com/cwbudde/stackc/internal/ast"
	"github.com/cwbudde/stackc/internal/registry"
	"github.com/cwbudde/stackc/internal/types"
)

func mustTable(t *testing.T, prog *ast.Program) *registry.Table {
	t.Helper()
	table, errs := registry.Build(prog)
	if len(errs) != 0 {
		t.Fatalf("unexpected registry errors: %v", errs)
	}
	return table
}

func sig(ins, outs []types.Type) ast.Signature {
	return ast.Signature{Inputs: ins, Outputs: outs}
}

func call(name string) *ast.Call { return &ast.Call{Callee: name} }

// Scenario: a plain function with no calls must return exactly its
// declared outputs.
func TestCheckFunctionLiteralOnlyBody(t *testing.T) {
	impl := &ast.FunctionImpl{
		Head: ast.FunctionHeader{Name: "answer", Sig: sig(nil, []types.Type{types.Prim(types.I32)})},
		Body: ast.Block{&ast.IntLiteral{Value: 42}},
	}
	prog := &ast.Program{Items: []ast.TopLevelItem{impl}}
	table := mustTable(t, prog)

	errs := CheckFunction(table, impl)
	if len(errs) != 0 {
		t.Fatalf("unexpected errors: %v", errs)
	}
}

// Scenario: a call to a monomorphic function pops and pushes its declared
// types, with no annotation surprises.
func TestCheckFunctionMonomorphicCall(t *testing.T) {
	double := &ast.FunctionDecl{
		Head: ast.FunctionHeader{Name: "double", Sig: sig(
			[]types.Type{types.Prim(types.I32)},
			[]types.Type{types.Prim(types.I32)},
		)},
	}
	c := call("double")
	main := &ast.FunctionImpl{
		Head: ast.FunctionHeader{Name: "main", Sig: sig(nil, []types.Type{types.Prim(types.I32)})},
		Body: ast.Block{&ast.IntLiteral{Value: 21}, c},
	}
	prog := &ast.Program{Items: []ast.TopLevelItem{double, main}}
	table := mustTable(t, prog)

	errs := CheckFunction(table, main)
	if len(errs) != 0 {
		t.Fatalf("unexpected errors: %v", errs)
	}
	if c.Annotation == nil {
		t.Fatal("expected call annotation to be populated")
	}
	if !types.StackEqual(c.Annotation.Inputs, []types.Type{types.Prim(types.I32)}) {
		t.Errorf("unexpected annotated inputs: %v", c.Annotation.Inputs)
	}
}

// Scenario: a generic function's call-site annotation resolves 'T to the
// concrete type supplied at that call.
func TestCheckFunctionGenericCallSiteAnnotation(t *testing.T) {
	id := &ast.FunctionDecl{
		Head: ast.FunctionHeader{Name: "id", Sig: sig(
			[]types.Type{types.Generic("T")},
			[]types.Type{types.Generic("T")},
		)},
	}
	c := call("id")
	main := &ast.FunctionImpl{
		Head: ast.FunctionHeader{Name: "main", Sig: sig(nil, []types.Type{types.Prim(types.Bool)})},
		Body: ast.Block{&ast.BoolLiteral{Value: true}, c},
	}
	prog := &ast.Program{Items: []ast.TopLevelItem{id, main}}
	table := mustTable(t, prog)

	errs := CheckFunction(table, main)
	if len(errs) != 0 {
		t.Fatalf("unexpected errors: %v", errs)
	}
	if !c.Annotation.Inputs[0].Equal(types.Prim(types.Bool)) {
		t.Errorf("expected 'T to resolve to bool, got %s", c.Annotation.Inputs[0])
	}
	if !c.Annotation.Outputs[0].Equal(types.Prim(types.Bool)) {
		t.Errorf("expected 'T output to resolve to bool, got %s", c.Annotation.Outputs[0])
	}
}

// Scenario: an output-only generic that is never bound by any input is
// rejected.
func TestCheckFunctionUnresolvedOutputGeneric(t *testing.T) {
	conjure := &ast.FunctionDecl{
		Head: ast.FunctionHeader{Name: "conjure", Sig: sig(nil, []types.Type{types.Generic("T")})},
	}
	main := &ast.FunctionImpl{
		Head: ast.FunctionHeader{Name: "main", Sig: sig(nil, nil)},
		Body: ast.Block{call("conjure")},
	}
	prog := &ast.Program{Items: []ast.TopLevelItem{conjure, main}}
	table := mustTable(t, prog)

	errs := CheckFunction(table, main)
	if len(errs) != 1 {
		t.Fatalf("expected exactly one error, got %d: %v", len(errs), errs)
	}
	var unresolved *UnresolvedGenericError
	if !errors.As(errs[0], &unresolved) {
		t.Fatalf("expected UnresolvedGenericError, got %T", errs[0])
	}
}

// Scenario: an if where both branches leave the same type stack is
// accepted, regardless of what each branch computes internally.
func TestCheckFunctionIfBranchesMatch(t *testing.T) {
	ifWord := &ast.If{
		TrueBranch:  ast.Block{&ast.IntLiteral{Value: 1}},
		FalseBranch: ast.Block{&ast.IntLiteral{Value: 2}},
	}
	main := &ast.FunctionImpl{
		Head: ast.FunctionHeader{Name: "main", Sig: sig(nil, []types.Type{types.Prim(types.I32)})},
		Body: ast.Block{&ast.BoolLiteral{Value: true}, ifWord},
	}
	prog := &ast.Program{Items: []ast.TopLevelItem{main}}
	table := mustTable(t, prog)

	errs := CheckFunction(table, main)
	if len(errs) != 0 {
		t.Fatalf("unexpected errors: %v", errs)
	}
}

// Scenario: an if whose branches disagree on the resulting stack shape is
// rejected.
func TestCheckFunctionIfBranchesMismatch(t *testing.T) {
	ifWord := &ast.If{
		TrueBranch:  ast.Block{&ast.IntLiteral{Value: 1}},
		FalseBranch: ast.Block{&ast.BoolLiteral{Value: false}},
	}
	main := &ast.FunctionImpl{
		Head: ast.FunctionHeader{Name: "main", Sig: sig(nil, nil)},
		Body: ast.Block{&ast.BoolLiteral{Value: true}, ifWord},
	}
	prog := &ast.Program{Items: []ast.TopLevelItem{main}}
	table := mustTable(t, prog)

	errs := CheckFunction(table, main)
	if len(errs) != 1 {
		t.Fatalf("expected exactly one error, got %d: %v", len(errs), errs)
	}
	var mismatch *IfBranchesMismatchError
	if !errors.As(errs[0], &mismatch) {
		t.Fatalf("expected IfBranchesMismatchError, got %T", errs[0])
	}
}

// Scenario: an if predicate that is not a bool is rejected.
func TestCheckFunctionIfPredicateNotBool(t *testing.T) {
	ifWord := &ast.If{TrueBranch: ast.Block{}, FalseBranch: ast.Block{}}
	main := &ast.FunctionImpl{
		Head: ast.FunctionHeader{Name: "main", Sig: sig(nil, nil)},
		Body: ast.Block{&ast.IntLiteral{Value: 1}, ifWord},
	}
	prog := &ast.Program{Items: []ast.TopLevelItem{main}}
	table := mustTable(t, prog)

	errs := CheckFunction(table, main)
	if len(errs) != 1 {
		t.Fatalf("expected exactly one error, got %d: %v", len(errs), errs)
	}
	var notBool *IfPredicateNotBoolError
	if !errors.As(errs[0], &notBool) {
		t.Fatalf("expected IfPredicateNotBoolError, got %T", errs[0])
	}
}

// Scenario: a well-formed while loop whose condition nets exactly [bool]
// and whose body nets zero is accepted, leaving the stack unchanged.
func TestCheckFunctionWhileWellFormed(t *testing.T) {
	lessThan := &ast.FunctionDecl{
		Head: ast.FunctionHeader{Name: "lt", Sig: sig(
			[]types.Type{types.Prim(types.I32), types.Prim(types.I32)},
			[]types.Type{types.Prim(types.Bool)},
		)},
	}
	noop := &ast.FunctionDecl{
		Head: ast.FunctionHeader{Name: "noop", Sig: sig(nil, nil)},
	}
	dup := &ast.FunctionDecl{
		Head: ast.FunctionHeader{Name: "dup", Sig: sig(
			[]types.Type{types.Generic("T")},
			[]types.Type{types.Generic("T"), types.Generic("T")},
		)},
	}
	whileWord := &ast.While{
		Condition: ast.Block{call("dup"), &ast.IntLiteral{Value: 10}, call("lt")},
		Body:      ast.Block{call("noop")},
	}
	main := &ast.FunctionImpl{
		Head: ast.FunctionHeader{Name: "main", Sig: sig([]types.Type{types.Prim(types.I32)}, []types.Type{types.Prim(types.I32)})},
		Body: ast.Block{whileWord},
	}
	prog := &ast.Program{Items: []ast.TopLevelItem{lessThan, noop, dup, main}}
	table := mustTable(t, prog)

	errs := CheckFunction(table, main)
	if len(errs) != 0 {
		t.Fatalf("unexpected errors: %v", errs)
	}
}

// Scenario: a while condition that leaves a non-bool net effect is
// rejected.
func TestCheckFunctionWhileConditionBadEffect(t *testing.T) {
	whileWord := &ast.While{
		Condition: ast.Block{&ast.IntLiteral{Value: 1}},
		Body:      ast.Block{},
	}
	main := &ast.FunctionImpl{
		Head: ast.FunctionHeader{Name: "main", Sig: sig(nil, nil)},
		Body: ast.Block{whileWord},
	}
	prog := &ast.Program{Items: []ast.TopLevelItem{main}}
	table := mustTable(t, prog)

	errs := CheckFunction(table, main)
	if len(errs) != 1 {
		t.Fatalf("expected exactly one error, got %d: %v", len(errs), errs)
	}
	var bad *WhileConditionEffectError
	if !errors.As(errs[0], &bad) {
		t.Fatalf("expected WhileConditionEffectError, got %T", errs[0])
	}
}

// Scenario: a while body with nonzero net effect is rejected.
func TestCheckFunctionWhileBodyBadEffect(t *testing.T) {
	whileWord := &ast.While{
		Condition: ast.Block{&ast.BoolLiteral{Value: false}},
		Body:      ast.Block{&ast.IntLiteral{Value: 1}},
	}
	main := &ast.FunctionImpl{
		Head: ast.FunctionHeader{Name: "main", Sig: sig(nil, nil)},
		Body: ast.Block{whileWord},
	}
	prog := &ast.Program{Items: []ast.TopLevelItem{main}}
	table := mustTable(t, prog)

	errs := CheckFunction(table, main)
	if len(errs) != 1 {
		t.Fatalf("expected exactly one error, got %d: %v", len(errs), errs)
	}
	var bad *WhileBodyEffectError
	if !errors.As(errs[0], &bad) {
		t.Fatalf("expected WhileBodyEffectError, got %T", errs[0])
	}
}

// Scenario: calling an undeclared function is rejected.
func TestCheckFunctionUndefinedCall(t *testing.T) {
	main := &ast.FunctionImpl{
		Head: ast.FunctionHeader{Name: "main", Sig: sig(nil, nil)},
		Body: ast.Block{call("ghost")},
	}
	prog := &ast.Program{Items: []ast.TopLevelItem{main}}
	table := mustTable(t, prog)

	errs := CheckFunction(table, main)
	if len(errs) != 1 {
		t.Fatalf("expected exactly one error, got %d: %v", len(errs), errs)
	}
	var undef *UndefinedFunctionError
	if !errors.As(errs[0], &undef) {
		t.Fatalf("expected UndefinedFunctionError, got %T", errs[0])
	}
}

// Scenario: calling a function with too few operands on the stack is
// rejected with StackUnderflowError, not a panic.
func TestCheckFunctionStackUnderflow(t *testing.T) {
	add := &ast.FunctionDecl{
		Head: ast.FunctionHeader{Name: "add", Sig: sig(
			[]types.Type{types.Prim(types.I32), types.Prim(types.I32)},
			[]types.Type{types.Prim(types.I32)},
		)},
	}
	main := &ast.FunctionImpl{
		Head: ast.FunctionHeader{Name: "main", Sig: sig(nil, []types.Type{types.Prim(types.I32)})},
		Body: ast.Block{&ast.IntLiteral{Value: 1}, call("add")},
	}
	prog := &ast.Program{Items: []ast.TopLevelItem{add, main}}
	table := mustTable(t, prog)

	errs := CheckFunction(table, main)
	if len(errs) != 1 {
		t.Fatalf("expected exactly one error, got %d: %v", len(errs), errs)
	}
	var underflow *StackUnderflowError
	if !errors.As(errs[0], &underflow) {
		t.Fatalf("expected StackUnderflowError, got %T", errs[0])
	}
}

// Scenario: calling a function with the wrong argument type is rejected.
func TestCheckFunctionArgTypeMismatch(t *testing.T) {
	negate := &ast.FunctionDecl{
		Head: ast.FunctionHeader{Name: "negate", Sig: sig(
			[]types.Type{types.Prim(types.I32)},
			[]types.Type{types.Prim(types.I32)},
		)},
	}
	main := &ast.FunctionImpl{
		Head: ast.FunctionHeader{Name: "main", Sig: sig(nil, []types.Type{types.Prim(types.I32)})},
		Body: ast.Block{&ast.BoolLiteral{Value: true}, call("negate")},
	}
	prog := &ast.Program{Items: []ast.TopLevelItem{negate, main}}
	table := mustTable(t, prog)

	errs := CheckFunction(table, main)
	if len(errs) != 1 {
		t.Fatalf("expected exactly one error, got %d: %v", len(errs), errs)
	}
	var mismatch *ArgTypeMismatchError
	if !errors.As(errs[0], &mismatch) {
		t.Fatalf("expected ArgTypeMismatchError, got %T", errs[0])
	}
}

// Scenario: a function whose final stack doesn't match its declared
// outputs is rejected.
func TestCheckFunctionReturnStackMismatch(t *testing.T) {
	main := &ast.FunctionImpl{
		Head: ast.FunctionHeader{Name: "main", Sig: sig(nil, []types.Type{types.Prim(types.I32)})},
		Body: ast.Block{&ast.BoolLiteral{Value: true}},
	}
	prog := &ast.Program{Items: []ast.TopLevelItem{main}}
	table := mustTable(t, prog)

	errs := CheckFunction(table, main)
	if len(errs) != 1 {
		t.Fatalf("expected exactly one error, got %d: %v", len(errs), errs)
	}
	var mismatch *ReturnStackMismatchError
	if !errors.As(errs[0], &mismatch) {
		t.Fatalf("expected ReturnStackMismatchError, got %T", errs[0])
	}
}

// Scenario: nested if-within-if is checked recursively without error when
// well-formed.
func TestCheckFunctionNestedIf(t *testing.T) {
	inner := &ast.If{
		TrueBranch:  ast.Block{&ast.IntLiteral{Value: 1}},
		FalseBranch: ast.Block{&ast.IntLiteral{Value: 2}},
	}
	outer := &ast.If{
		TrueBranch:  ast.Block{&ast.BoolLiteral{Value: true}, inner},
		FalseBranch: ast.Block{&ast.IntLiteral{Value: 3}},
	}
	main := &ast.FunctionImpl{
		Head: ast.FunctionHeader{Name: "main", Sig: sig(nil, []types.Type{types.Prim(types.I32)})},
		Body: ast.Block{&ast.BoolLiteral{Value: true}, outer},
	}
	prog := &ast.Program{Items: []ast.TopLevelItem{main}}
	table := mustTable(t, prog)

	errs := CheckFunction(table, main)
	if len(errs) != 0 {
		t.Fatalf("unexpected errors: %v", errs)
	}
}

// Scenario: an empty body against an empty signature is accepted (the
// boundary case of a no-op function).
func TestCheckFunctionEmptyBodyEmptySignature(t *testing.T) {
	main := &ast.FunctionImpl{
		Head: ast.FunctionHeader{Name: "main", Sig: sig(nil, nil)},
		Body: ast.Block{},
	}
	prog := &ast.Program{Items: []ast.TopLevelItem{main}}
	table := mustTable(t, prog)

	errs := CheckFunction(table, main)
	if len(errs) != 0 {
		t.Fatalf("unexpected errors: %v", errs)
	}
}

// CheckProgram should check every implementation and skip pure
// declarations (extern/intrinsic entries with no body to walk).
func TestCheckProgramSkipsDeclarations(t *testing.T) {
	decl := &ast.FunctionDecl{Head: ast.FunctionHeader{Name: "extern_fn", Sig: sig(nil, nil)}, Extern: true}
	main := &ast.FunctionImpl{
		Head: ast.FunctionHeader{Name: "main", Sig: sig(nil, nil)},
		Body: ast.Block{},
	}
	prog := &ast.Program{Items: []ast.TopLevelItem{decl, main}}
	table := mustTable(t, prog)

	errs := CheckProgram(table, prog)
	if len(errs) != 0 {
		t.Fatalf("unexpected errors: %v", errs)
	}
}
