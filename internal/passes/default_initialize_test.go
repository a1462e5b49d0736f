package passes

import (
	"testing"

	"github.com/dineshkummarc/TheDS-next2Tinder/internal/ast"
)

func runDefaultInitialize(t *testing.T, src string) *ast.Module {
	t.Helper()
	ctx := runUpTo(t, src, "DefaultInitialize")
	return ctx.Module
}

func TestDefaultInitializeFillsPrimitiveZeroValues(t *testing.T) {
	mod := runDefaultInitialize(t, "int x\nbool b\nfloat f\nstring s\n")
	cases := []struct {
		idx  int
		want string
	}{
		{0, "0"},
		{1, "false"},
		{2, "0.0"},
		{3, `""`},
	}
	for _, c := range cases {
		v := mod.Body.Statements[c.idx].(*ast.VarDef)
		if v.Init == nil {
			t.Fatalf("statement %d: expected a synthesized initializer", c.idx)
		}
		if got := v.Init.String(); got != c.want {
			t.Fatalf("statement %d: got initializer %s, want %s", c.idx, got, c.want)
		}
	}
}

func TestDefaultInitializeLeavesExistingInitAlone(t *testing.T) {
	mod := runDefaultInitialize(t, "void f() {\n  int x = 7\n}\n")
	v := mod.Body.Statements[0].(*ast.FuncDef).Body.Statements[0].(*ast.VarDef)
	intExpr, ok := v.Init.(*ast.IntExpr)
	if !ok {
		t.Fatalf("got %T, want *ast.IntExpr (untouched)", v.Init)
	}
	if intExpr.Value != 7 {
		t.Fatalf("got %d, want 7", intExpr.Value)
	}
}

func TestDefaultInitializeClassTypedVarGetsNullCast(t *testing.T) {
	mod := runDefaultInitialize(t, "class Foo {\n  int n\n}\nFoo f\n")
	v := mod.Body.Statements[1].(*ast.VarDef)
	cast, ok := v.Init.(*ast.CastExpr)
	if !ok {
		t.Fatalf("got %T, want *ast.CastExpr(null)", v.Init)
	}
	if _, ok := cast.Value.(*ast.NullExpr); !ok {
		t.Fatalf("got %T, want a null literal wrapped in the cast", cast.Value)
	}
}

func TestDefaultInitializeNullableVarGetsNullCast(t *testing.T) {
	mod := runDefaultInitialize(t, "int? x\n")
	v := mod.Body.Statements[0].(*ast.VarDef)
	if _, ok := v.Init.(*ast.CastExpr); !ok {
		t.Fatalf("got %T, want *ast.CastExpr(null)", v.Init)
	}
}

func TestDefaultInitializeRecursesIntoNestedBlocks(t *testing.T) {
	mod := runDefaultInitialize(t, "void f(bool b) {\n  if b {\n    int y\n  } else {\n    int z\n  }\n}\n")
	fn := mod.Body.Statements[0].(*ast.FuncDef)
	ifStmt := fn.Body.Statements[0].(*ast.IfStmt)
	thenVar := ifStmt.ThenBlock.Statements[0].(*ast.VarDef)
	elseVar := ifStmt.ElseBlock.Statements[0].(*ast.VarDef)
	if thenVar.Init == nil || elseVar.Init == nil {
		t.Fatalf("expected both branches' locals to get synthesized initializers")
	}
}
