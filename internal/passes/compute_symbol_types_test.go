package passes

import (
	"testing"

	"github.com/dineshkummarc/TheDS-next2Tinder/internal/ast"
	"github.com/dineshkummarc/TheDS-next2Tinder/internal/symbols"
	"github.com/dineshkummarc/TheDS-next2Tinder/internal/types"
)

func TestComputeSymbolTypesResolvesVarDecl(t *testing.T) {
	ctx := runUpTo(t, "int x\n", "ComputeSymbolTypes")
	v := ctx.Module.Body.Statements[0].(*ast.VarDef)
	sym := v.Symbol.(*symbols.Symbol)
	if !sym.Type.Equals(types.PrimType{Kind: types.Int}) {
		t.Fatalf("got %s, want int", sym.Type)
	}
}

func TestComputeSymbolTypesResolvesNullableVarDecl(t *testing.T) {
	ctx := runUpTo(t, "int? x\n", "ComputeSymbolTypes")
	v := ctx.Module.Body.Statements[0].(*ast.VarDef)
	sym := v.Symbol.(*symbols.Symbol)
	want := types.NewNullable(types.PrimType{Kind: types.Int})
	if !sym.Type.Equals(want) {
		t.Fatalf("got %s, want %s", sym.Type, want)
	}
}

func TestComputeSymbolTypesResolvesFuncSignature(t *testing.T) {
	ctx := runUpTo(t, "int add(int a, float b) {\n  return a\n}\n", "ComputeSymbolTypes")
	fn := ctx.Module.Body.Statements[0].(*ast.FuncDef)
	sym := fn.Symbol.(*symbols.Symbol)
	ft, ok := sym.Type.(types.FuncType)
	if !ok {
		t.Fatalf("got %T, want types.FuncType", sym.Type)
	}
	if !ft.Return.Equals(types.PrimType{Kind: types.Int}) {
		t.Fatalf("got return type %s, want int", ft.Return)
	}
	if len(ft.Args) != 2 || !ft.Args[0].Equals(types.PrimType{Kind: types.Int}) || !ft.Args[1].Equals(types.PrimType{Kind: types.Float}) {
		t.Fatalf("got args %v, want [int float]", ft.Args)
	}
}

func TestComputeSymbolTypesRejectsVoidVariable(t *testing.T) {
	mod, log := parseModule(t, "void x\n")
	ctx := NewContext(mod, log)
	NewStructuralCheck().Run(ctx)
	NewDefineSymbols().Run(ctx)
	NewComputeSymbolTypes().Run(ctx)
	if !log.HasErrors() {
		t.Fatalf("expected an error declaring a void-typed variable")
	}
}
