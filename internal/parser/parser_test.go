package parser

import (
	"testing"

	"github.com/dineshkummarc/TheDS-next2Tinder/internal/ast"
	"github.com/dineshkummarc/TheDS-next2Tinder/internal/diagnostics"
	"github.com/dineshkummarc/TheDS-next2Tinder/internal/lexer"
)

func parseModule(t *testing.T, src string) (*ast.Module, *diagnostics.Log) {
	t.Helper()
	lx := lexer.New("t.td", src)
	raw := lx.Tokenize()
	tokens := lexer.Disambiguate(raw)
	log := diagnostics.NewLog(false)
	mod := New("t.td", tokens, log).ParseModule()
	return mod, log
}

func requireNoErrors(t *testing.T, log *diagnostics.Log) {
	t.Helper()
	if log.HasErrors() {
		t.Fatalf("unexpected parse errors: %s", diagnostics.Format(log.Diagnostics()))
	}
}

func TestParseVarDeclWithInitializer(t *testing.T) {
	mod, log := parseModule(t, "int x = 5\n")
	requireNoErrors(t, log)
	if len(mod.Body.Statements) != 1 {
		t.Fatalf("got %d statements, want 1", len(mod.Body.Statements))
	}
	vd, ok := mod.Body.Statements[0].(*ast.VarDef)
	if !ok {
		t.Fatalf("statement is %T, want *ast.VarDef", mod.Body.Statements[0])
	}
	if vd.Name != "x" {
		t.Fatalf("got name %q, want x", vd.Name)
	}
	if _, ok := vd.TypeExpr.(*ast.TypeExpr); !ok {
		t.Fatalf("type expr is %T, want *ast.TypeExpr", vd.TypeExpr)
	}
	if _, ok := vd.Init.(*ast.IntExpr); !ok {
		t.Fatalf("init is %T, want *ast.IntExpr", vd.Init)
	}
}

func TestParseCommaVarDeclSharesType(t *testing.T) {
	mod, log := parseModule(t, "int a, b, c\n")
	requireNoErrors(t, log)
	if len(mod.Body.Statements) != 3 {
		t.Fatalf("got %d statements, want 3", len(mod.Body.Statements))
	}
	first := mod.Body.Statements[0].(*ast.VarDef)
	for i, stmt := range mod.Body.Statements {
		vd := stmt.(*ast.VarDef)
		if vd.TypeExpr != first.TypeExpr {
			t.Fatalf("statement %d does not share the first declaration's type expression", i)
		}
	}
	names := []string{"a", "b", "c"}
	for i, stmt := range mod.Body.Statements {
		if got := stmt.(*ast.VarDef).Name; got != names[i] {
			t.Fatalf("statement %d: got name %q, want %q", i, got, names[i])
		}
	}
}

func TestParseFuncDefWithArgsAndBody(t *testing.T) {
	mod, log := parseModule(t, "int add(int a, int b) {\n  return a + b\n}\n")
	requireNoErrors(t, log)
	fd, ok := mod.Body.Statements[0].(*ast.FuncDef)
	if !ok {
		t.Fatalf("statement is %T, want *ast.FuncDef", mod.Body.Statements[0])
	}
	if fd.Name != "add" || len(fd.Args) != 2 {
		t.Fatalf("got %+v", fd)
	}
	if fd.Body == nil || len(fd.Body.Statements) != 1 {
		t.Fatalf("expected a one-statement body, got %v", fd.Body)
	}
	ret, ok := fd.Body.Statements[0].(*ast.ReturnStmt)
	if !ok {
		t.Fatalf("body statement is %T, want *ast.ReturnStmt", fd.Body.Statements[0])
	}
	bin, ok := ret.Value.(*ast.BinaryExpr)
	if !ok || bin.Operator != lexer.Plus {
		t.Fatalf("return value is %#v, want a + binary expr", ret.Value)
	}
}

func TestParseStaticFuncDef(t *testing.T) {
	mod, log := parseModule(t, "static int make() {\n  return 0\n}\n")
	requireNoErrors(t, log)
	fd := mod.Body.Statements[0].(*ast.FuncDef)
	if !fd.IsStatic {
		t.Fatalf("expected IsStatic, got false")
	}
}

func TestParseExternalFuncDecl(t *testing.T) {
	mod, log := parseModule(t, "external {\n  int puts(string s)\n}\n")
	requireNoErrors(t, log)
	ext, ok := mod.Body.Statements[0].(*ast.ExternalStmt)
	if !ok {
		t.Fatalf("statement is %T, want *ast.ExternalStmt", mod.Body.Statements[0])
	}
	fd, ok := ext.Body.Statements[0].(*ast.FuncDef)
	if !ok {
		t.Fatalf("external body statement is %T, want *ast.FuncDef", ext.Body.Statements[0])
	}
	if fd.Body != nil {
		t.Fatalf("external func decl should have no body, got %v", fd.Body)
	}
	if !fd.Info.InExternal {
		t.Fatalf("expected InExternal breadcrumb on the func def")
	}
}

func TestParseClassWithMembers(t *testing.T) {
	mod, log := parseModule(t, "class Point {\n  int x\n  int y\n}\n")
	requireNoErrors(t, log)
	cd, ok := mod.Body.Statements[0].(*ast.ClassDef)
	if !ok {
		t.Fatalf("statement is %T, want *ast.ClassDef", mod.Body.Statements[0])
	}
	if cd.Name != "Point" || len(cd.Body.Statements) != 2 {
		t.Fatalf("got %+v", cd)
	}
	for _, stmt := range cd.Body.Statements {
		if vd, ok := stmt.(*ast.VarDef); !ok || vd.Info.ClassDef != cd {
			t.Fatalf("class member %#v missing ClassDef breadcrumb", stmt)
		}
	}
}

func TestParseIfElseIfCollapsesToNestedIf(t *testing.T) {
	mod, log := parseModule(t, "if a {\n} else if b {\n} else {\n}\n")
	requireNoErrors(t, log)
	top := mod.Body.Statements[0].(*ast.IfStmt)
	if len(top.ElseBlock.Statements) != 1 {
		t.Fatalf("else-if should collapse to a single nested IfStmt, got %d statements", len(top.ElseBlock.Statements))
	}
	nested, ok := top.ElseBlock.Statements[0].(*ast.IfStmt)
	if !ok {
		t.Fatalf("nested else-if statement is %T, want *ast.IfStmt", top.ElseBlock.Statements[0])
	}
	if nested.ElseBlock == nil {
		t.Fatalf("expected the nested if to carry the trailing else")
	}
}

func TestParseBareReturn(t *testing.T) {
	mod, log := parseModule(t, "void f() {\n  return\n}\n")
	requireNoErrors(t, log)
	fd := mod.Body.Statements[0].(*ast.FuncDef)
	ret := fd.Body.Statements[0].(*ast.ReturnStmt)
	if ret.Value != nil {
		t.Fatalf("expected a bare return, got value %v", ret.Value)
	}
}

func TestParseGenericInstantiationAndIndex(t *testing.T) {
	mod, log := parseModule(t, "list<int> xs = [1, 2, 3]\nint first = xs[0]\n")
	requireNoErrors(t, log)
	vd := mod.Body.Statements[0].(*ast.VarDef)
	pe, ok := vd.TypeExpr.(*ast.ParamExpr)
	if !ok || len(pe.Args) != 1 {
		t.Fatalf("type expr is %#v, want list<int> ParamExpr", vd.TypeExpr)
	}
	lit, ok := vd.Init.(*ast.ListExpr)
	if !ok || len(lit.Items) != 3 {
		t.Fatalf("init is %#v, want a 3-element list literal", vd.Init)
	}
	second := mod.Body.Statements[1].(*ast.VarDef)
	idx, ok := second.Init.(*ast.IndexExpr)
	if !ok {
		t.Fatalf("init is %#v, want *ast.IndexExpr", second.Init)
	}
	if _, ok := idx.Object.(*ast.IdentExpr); !ok {
		t.Fatalf("index target is %#v, want *ast.IdentExpr", idx.Object)
	}
}

func TestParseNullableTypeAndSafeDereference(t *testing.T) {
	mod, log := parseModule(t, "string? s = null\nint n = s?.length\n")
	requireNoErrors(t, log)
	vd := mod.Body.Statements[0].(*ast.VarDef)
	if _, ok := vd.TypeExpr.(*ast.NullableExpr); !ok {
		t.Fatalf("type expr is %#v, want *ast.NullableExpr", vd.TypeExpr)
	}
	second := mod.Body.Statements[1].(*ast.VarDef)
	member, ok := second.Init.(*ast.MemberExpr)
	if !ok || !member.IsSafeDereference {
		t.Fatalf("init is %#v, want a safe-dereference MemberExpr", second.Init)
	}
}

func TestParsePrecedenceAndAssociativity(t *testing.T) {
	// `as` (90) binds tighter than `+` (70); assignment (10) is
	// right-associative (spec.md §4.2).
	mod, log := parseModule(t, "int a\nint b\nint c\na = b = c + 1 as int\n")
	requireNoErrors(t, log)
	assign := mod.Body.Statements[3].(*ast.ExprStmt).Value.(*ast.BinaryExpr)
	if assign.Operator != lexer.Assign {
		t.Fatalf("got operator %s, want =", assign.Operator)
	}
	inner, ok := assign.Right.(*ast.BinaryExpr)
	if !ok || inner.Operator != lexer.Assign {
		t.Fatalf("right-hand side is %#v, want a nested assignment (right-associative)", assign.Right)
	}
	sum, ok := inner.Right.(*ast.BinaryExpr)
	if !ok || sum.Operator != lexer.Plus {
		t.Fatalf("innermost right-hand side is %#v, want a + expression", inner.Right)
	}
	if _, ok := sum.Right.(*ast.CastExpr); !ok {
		t.Fatalf("`+`'s right operand is %#v, want the `as` cast to bind tighter", sum.Right)
	}
}

func TestParseUnexpectedTokenReportsSyntaxErrorAndRecovers(t *testing.T) {
	mod, log := parseModule(t, "int x = )\nint y = 1\n")
	if !log.HasErrors() {
		t.Fatalf("expected a syntax error")
	}
	found := false
	for _, d := range log.Diagnostics() {
		if d.Kind == diagnostics.SyntaxError {
			found = true
		}
	}
	if !found {
		t.Fatalf("expected a SyntaxError diagnostic, got %s", diagnostics.Format(log.Diagnostics()))
	}
	// Parsing should still recover enough to find the second declaration.
	if len(mod.Body.Statements) != 2 {
		t.Fatalf("got %d statements after recovery, want 2", len(mod.Body.Statements))
	}
}
