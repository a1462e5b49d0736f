package passes

import (
	"testing"

	"github.com/dineshkummarc/TheDS-next2Tinder/internal/ast"
	"github.com/dineshkummarc/TheDS-next2Tinder/internal/diagnostics"
)

func compileThrough(t *testing.T, src string) *diagnostics.Log {
	t.Helper()
	mod, log := parseModule(t, src)
	ctx := NewContext(mod, log)
	NewStructuralCheck().Run(ctx)
	NewDefineSymbols().Run(ctx)
	NewComputeSymbolTypes().Run(ctx)
	NewComputeTypes().Run(ctx)
	return log
}

func TestComputeTypesWidensIntToFloat(t *testing.T) {
	log := compileThrough(t, "float f() {\n  return 1\n}\n")
	if log.HasErrors() {
		t.Fatalf("unexpected errors: %s", diagnostics.Format(log.Diagnostics()))
	}
}

func TestComputeTypesRejectsIncompatibleReturn(t *testing.T) {
	log := compileThrough(t, "int f() {\n  return true\n}\n")
	if !log.HasErrors() {
		t.Fatalf("expected a type mismatch returning bool from an int function")
	}
}

// Scenario A's counterpart at the ComputeTypes layer: binding a nullable
// argument to a non-nullable parameter type-checks (it's ComputeTypes'
// implicit unwrap, same mechanism as a bare `.` on a nullable receiver),
// inserting an implicit CastExpr rather than reporting TypeMismatch.
func TestComputeTypesAllowsNullableArgumentWithImplicitUnwrap(t *testing.T) {
	log := compileThrough(t, "void use(int a) {}\nvoid f(int? x) {\n  use(x)\n}\n")
	if log.HasErrors() {
		t.Fatalf("unexpected errors binding a nullable arg to a non-nullable param: %s", diagnostics.Format(log.Diagnostics()))
	}
}

func TestComputeTypesRejectsTrulyIncompatibleArgument(t *testing.T) {
	log := compileThrough(t, "void use(int a) {}\nvoid f() {\n  use(\"nope\")\n}\n")
	if !log.HasErrors() {
		t.Fatalf("expected a type mismatch passing a string where int is wanted")
	}
}

// Scenario E: overload resolution picks the exact match over a widening
// conversion, and reports no overload for an incompatible argument type.
func TestComputeTypesOverloadSelection(t *testing.T) {
	src := "void p(int a) {}\nvoid p(float a) {}\nvoid f() {\n  p(1)\n  p(1.5)\n}\n"
	log := compileThrough(t, src)
	if log.HasErrors() {
		t.Fatalf("unexpected errors resolving overloads: %s", diagnostics.Format(log.Diagnostics()))
	}
}

func TestComputeTypesOverloadSelectionRejectsBadArgument(t *testing.T) {
	src := "void p(int a) {}\nvoid p(float a) {}\nvoid f() {\n  p(true)\n}\n"
	log := compileThrough(t, src)
	if !log.HasErrors() {
		t.Fatalf("expected no overload of p to accept a bool argument")
	}
}

// Scenario G: a list literal's elements each convert toward the declared
// element type independently; an element that can't convert is reported
// alone.
func TestComputeTypesListElementConversion(t *testing.T) {
	log := compileThrough(t, "void f() {\n  list<int> xs = [1, 2, 3]\n}\n")
	if log.HasErrors() {
		t.Fatalf("unexpected errors: %s", diagnostics.Format(log.Diagnostics()))
	}
}

func TestComputeTypesListElementMismatchReportsOnlyBadElement(t *testing.T) {
	log := compileThrough(t, "void f() {\n  list<int> xs = [1, 1.5]\n}\n")
	if !log.HasErrors() {
		t.Fatalf("expected a mismatch converting 1.5 to int")
	}
	if n := len(log.Diagnostics()); n != 1 {
		t.Fatalf("got %d diagnostics, want only the one for 1.5: %s", n, diagnostics.Format(log.Diagnostics()))
	}
}

func TestComputeTypesInsertsImplicitCastForNullableVarInit(t *testing.T) {
	mod, log := parseModule(t, "class Foo {\n  int n\n}\nint use(Foo? f) {\n  int w = f.n\n  return w\n}\n")
	ctx := NewContext(mod, log)
	NewStructuralCheck().Run(ctx)
	NewDefineSymbols().Run(ctx)
	NewComputeSymbolTypes().Run(ctx)
	NewComputeTypes().Run(ctx)
	if log.HasErrors() {
		t.Fatalf("unexpected errors: %s", diagnostics.Format(log.Diagnostics()))
	}

	fn := ctx.Module.Body.Statements[1].(*ast.FuncDef)
	varDef := fn.Body.Statements[0].(*ast.VarDef)
	member, ok := varDef.Init.(*ast.MemberExpr)
	if !ok {
		t.Fatalf("got %T, want *ast.MemberExpr", varDef.Init)
	}
	if _, ok := member.Object.(*ast.CastExpr); !ok {
		t.Fatalf("expected ComputeTypes to wrap the nullable receiver in an implicit unwrap cast, got %T", member.Object)
	}
}
