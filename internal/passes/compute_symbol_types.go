package passes

import (
	"github.com/dineshkummarc/TheDS-next2Tinder/internal/ast"
	"github.com/dineshkummarc/TheDS-next2Tinder/internal/diagnostics"
	"github.com/dineshkummarc/TheDS-next2Tinder/internal/symbols"
	"github.com/dineshkummarc/TheDS-next2Tinder/internal/types"
)

// ComputeSymbolTypes is spec.md §4.5: resolves the declared type expression
// of every VarDef and FuncDef (arguments and return type) into a concrete
// types.Type on its Symbol, using Typer as a helper. Bodies and initializers
// are left untouched for ComputeTypes (§4.6).
type ComputeSymbolTypes struct{}

func NewComputeSymbolTypes() *ComputeSymbolTypes { return &ComputeSymbolTypes{} }

func (ComputeSymbolTypes) Name() string { return "ComputeSymbolTypes" }

func (ComputeSymbolTypes) Run(ctx *Context) {
	w := &symbolTyper{t: &Typer{ctx: ctx}}
	root := ctx.Module.Body.Scope.(*symbols.Scope)
	w.walkBlock(ctx.Module.Body, root)
}

type symbolTyper struct{ t *Typer }

func (w *symbolTyper) walkBlock(b *ast.Block, scope *symbols.Scope) {
	if b == nil {
		return
	}
	for _, stmt := range b.Statements {
		w.walkStmt(stmt, scope)
	}
}

func (w *symbolTyper) walkStmt(stmt ast.Stmt, scope *symbols.Scope) {
	switch s := stmt.(type) {
	case *ast.ExternalStmt:
		w.walkBlock(s.Body, scope)
	case *ast.ClassDef:
		w.walkBlock(s.Body, s.Body.Scope.(*symbols.Scope))
	case *ast.VarDef:
		w.typeVarDecl(s, scope)
	case *ast.FuncDef:
		w.typeFuncSignature(s, scope)
		if s.Body != nil {
			w.walkBlock(s.Body, s.Body.Scope.(*symbols.Scope))
		}
	case *ast.IfStmt:
		w.walkBlock(s.ThenBlock, s.ThenBlock.Scope.(*symbols.Scope))
		if s.ElseBlock != nil {
			w.walkBlock(s.ElseBlock, s.ElseBlock.Scope.(*symbols.Scope))
		}
	case *ast.WhileStmt:
		w.walkBlock(s.Body, s.Body.Scope.(*symbols.Scope))
	}
	// ReturnStmt and ExprStmt declare nothing.
}

func (w *symbolTyper) typeVarDecl(s *ast.VarDef, scope *symbols.Scope) {
	sym := s.Symbol.(*symbols.Symbol)

	// A bare `var` defers entirely to ComputeTypes, which infers the type
	// from the initializer (spec.md §4.6).
	if _, isVar := s.TypeExpr.(*ast.VarExpr); isVar {
		return
	}

	declared := w.t.typeExpr(s.TypeExpr, scope, s.Info)
	resolved, ok := validMetaType(declared)
	if !ok {
		if !types.IsError(declared) {
			w.t.ctx.Log.Report(diagnostics.NotUseableType, s.TypeExpr.Pos(), "not a usable variable type")
		}
		sym.Type = types.ErrorType{}
		return
	}
	if _, isVoid := resolved.(types.VoidType); isVoid {
		w.t.ctx.Log.Report(diagnostics.NotUseableType, s.TypeExpr.Pos(), "void is not a usable variable type")
		sym.Type = types.ErrorType{}
		return
	}
	sym.Type = resolved
}

func (w *symbolTyper) typeFuncSignature(s *ast.FuncDef, scope *symbols.Scope) {
	sym := s.Symbol.(*symbols.Symbol)

	retMeta := w.t.typeExpr(s.ReturnTypeExpr, scope, s.Info)
	retType, ok := validMetaType(retMeta)
	if !ok {
		if !types.IsError(retMeta) {
			w.t.ctx.Log.Report(diagnostics.NotUseableType, s.ReturnTypeExpr.Pos(), "not a usable return type")
		}
		retType = types.ErrorType{}
	}

	argTypes := make([]types.Type, len(s.Args))
	for i, arg := range s.Args {
		argMeta := w.t.typeExpr(arg.TypeExpr, scope, arg.Info)
		resolved, ok := validMetaType(argMeta)
		if !ok {
			if !types.IsError(argMeta) {
				w.t.ctx.Log.Report(diagnostics.NotUseableType, arg.TypeExpr.Pos(), "not a usable argument type")
			}
			resolved = types.ErrorType{}
		} else if _, isVoid := resolved.(types.VoidType); isVoid {
			w.t.ctx.Log.Report(diagnostics.NotUseableType, arg.TypeExpr.Pos(), "void is not a usable argument type")
			resolved = types.ErrorType{}
		}
		argTypes[i] = resolved
		argSym := arg.Symbol.(*symbols.Symbol)
		argSym.Type = resolved
	}

	sym.Type = types.FuncType{Return: retType, Args: argTypes}
}
