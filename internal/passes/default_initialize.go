package passes

import (
	"github.com/dineshkummarc/TheDS-next2Tinder/internal/ast"
	"github.com/dineshkummarc/TheDS-next2Tinder/internal/lexer"
	"github.com/dineshkummarc/TheDS-next2Tinder/internal/symbols"
	"github.com/dineshkummarc/TheDS-next2Tinder/internal/types"
)

// DefaultInitialize is spec.md §4.7: synthesizes an initializer for every
// variable declaration left without one, so later passes (and every
// emitter) never see an uninitialized VarDef. This is the sole place the
// core produces a null value of a non-nullable reference type — values
// fabricated here exist only to give the variable a starting bit pattern.
// FlowValidation records such a null as the variable's starting knowledge,
// but its dereference warnings cover only nullable-to-non-nullable casts.
type DefaultInitialize struct{}

func NewDefaultInitialize() *DefaultInitialize { return &DefaultInitialize{} }

func (DefaultInitialize) Name() string { return "DefaultInitialize" }

func (DefaultInitialize) Run(ctx *Context) {
	w := &defaultInitializer{ctx: ctx}
	w.walkBlock(ctx.Module.Body)
}

type defaultInitializer struct{ ctx *Context }

func (w *defaultInitializer) walkBlock(b *ast.Block) {
	if b == nil {
		return
	}
	for _, stmt := range b.Statements {
		w.walkStmt(stmt)
	}
}

func (w *defaultInitializer) walkStmt(stmt ast.Stmt) {
	switch s := stmt.(type) {
	case *ast.ExternalStmt:
		w.walkBlock(s.Body)
	case *ast.ClassDef:
		w.walkBlock(s.Body)
	case *ast.VarDef:
		w.initialize(s)
	case *ast.FuncDef:
		w.walkBlock(s.Body)
	case *ast.IfStmt:
		w.walkBlock(s.ThenBlock)
		w.walkBlock(s.ElseBlock)
	case *ast.WhileStmt:
		w.walkBlock(s.Body)
	}
}

func (w *defaultInitializer) initialize(s *ast.VarDef) {
	if s.Init != nil {
		return
	}
	sym, ok := s.Symbol.(*symbols.Symbol)
	if !ok || types.IsError(sym.Type) {
		return
	}
	s.Init = defaultValue(sym.Type, s.Pos())
}

// defaultValue builds the zero-value expression spec.md §4.7 assigns to t:
// the matching literal for bool/int/float/string, and a CastExpr(null, t)
// for anything else (a class instance or a nullable), which is the only
// way the core ever manufactures a null of a declared non-nullable type.
func defaultValue(t types.Type, pos lexer.Position) ast.Expr {
	var e ast.Expr
	switch pt, ok := t.(types.PrimType); {
	case ok && pt.Kind == types.Bool:
		e = &ast.BoolExpr{Location: pos, Value: false}
	case ok && pt.Kind == types.Int:
		e = &ast.IntExpr{Location: pos, Value: 0, Text: "0"}
	case ok && pt.Kind == types.Float:
		e = &ast.FloatExpr{Location: pos, Value: 0, Text: "0.0"}
	case ok && pt.Kind == types.String:
		e = &ast.StringExpr{Location: pos, Value: ""}
	default:
		null := &ast.NullExpr{Location: pos}
		null.SetType(types.NullType{})
		cast := &ast.CastExpr{Location: pos, Value: null, Implicit: true}
		cast.SetType(t)
		return cast
	}
	e.SetType(t)
	return e
}
