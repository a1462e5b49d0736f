package passes

import (
	"github.com/dineshkummarc/TheDS-next2Tinder/internal/ast"
	"github.com/dineshkummarc/TheDS-next2Tinder/internal/diagnostics"
	"github.com/dineshkummarc/TheDS-next2Tinder/internal/symbols"
	"github.com/dineshkummarc/TheDS-next2Tinder/internal/types"
)

// DefineSymbols is spec.md §4.4: builds the scope tree and binds every
// VarDef/FuncDef/ClassDef's symbol into its enclosing scope.
type DefineSymbols struct{}

func NewDefineSymbols() *DefineSymbols { return &DefineSymbols{} }

func (DefineSymbols) Name() string { return "DefineSymbols" }

func (DefineSymbols) Run(ctx *Context) {
	w := &definer{ctx: ctx}
	root := symbols.NewScope(symbols.ModuleScope, nil)
	ctx.Module.Body.Scope = root
	w.defineStatements(ctx.Module.Body.Statements, root)
}

type definer struct{ ctx *Context }

func (w *definer) defineStatements(stmts []ast.Stmt, scope *symbols.Scope) {
	for _, stmt := range stmts {
		w.defineStmt(stmt, scope)
	}
}

func (w *definer) defineStmt(stmt ast.Stmt, scope *symbols.Scope) {
	switch s := stmt.(type) {
	case *ast.ExternalStmt:
		// External blocks do not open a new scope (spec.md §4.4).
		s.Body.Scope = scope
		w.defineStatements(s.Body.Statements, scope)

	case *ast.ClassDef:
		sym := symbols.NewSymbol(symbols.Class, s.Name, s)
		sym.Type = types.MetaType{InstanceType: types.ClassType{Name: s.Name, Def: s}}
		s.Symbol = sym
		if err := scope.Define(sym); err != nil {
			w.ctx.Log.Report(diagnostics.Redefinition, s.Pos(), "%s", err.Error())
		}
		classScope := symbols.NewScope(symbols.ClassScope, scope)
		s.Body.Scope = classScope
		w.defineStatements(s.Body.Statements, classScope)

	case *ast.VarDef:
		sym := symbols.NewSymbol(symbols.Variable, s.Name, s)
		s.Symbol = sym
		if err := scope.Define(sym); err != nil {
			w.ctx.Log.Report(diagnostics.Redefinition, s.Pos(), "%s", err.Error())
		}

	case *ast.FuncDef:
		sym := symbols.NewSymbol(symbols.Func, s.Name, s)
		sym.IsStatic = s.IsStatic
		s.Symbol = sym
		if err := scope.Define(sym); err != nil {
			w.ctx.Log.Report(diagnostics.Redefinition, s.Pos(), "%s", err.Error())
		}

		funcScope := symbols.NewScope(symbols.FuncScope, scope)
		for _, arg := range s.Args {
			argSym := symbols.NewSymbol(symbols.Variable, arg.Name, arg)
			arg.Symbol = argSym
			if err := funcScope.Define(argSym); err != nil {
				w.ctx.Log.Report(diagnostics.Redefinition, arg.Pos(), "%s", err.Error())
			}
		}
		if s.Body != nil {
			s.Body.Scope = funcScope
			w.defineStatements(s.Body.Statements, funcScope)
		}

	case *ast.IfStmt:
		thenScope := symbols.NewScope(symbols.LocalScope, scope)
		s.ThenBlock.Scope = thenScope
		w.defineStatements(s.ThenBlock.Statements, thenScope)
		if s.ElseBlock != nil {
			elseScope := symbols.NewScope(symbols.LocalScope, scope)
			s.ElseBlock.Scope = elseScope
			w.defineStatements(s.ElseBlock.Statements, elseScope)
		}

	case *ast.WhileStmt:
		bodyScope := symbols.NewScope(symbols.LocalScope, scope)
		s.Body.Scope = bodyScope
		w.defineStatements(s.Body.Statements, bodyScope)
	}
}
