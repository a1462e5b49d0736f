package ast

import "github.com/dineshkummarc/TheDS-next2Tinder/internal/lexer"

// IfStmt is spec.md §3's IfStmt. An `else if` collapses into a nested
// IfStmt in ElseBlock's sole statement rather than wrapping a one-statement
// block (spec.md §4.2).
type IfStmt struct {
	Location  lexer.Position
	Test      Expr
	ThenBlock *Block
	ElseBlock *Block // nil if there is no else
	Info      Info
}

func (s *IfStmt) Pos() lexer.Position { return s.Location }
func (s *IfStmt) String() string {
	out := "if " + s.Test.String() + " " + s.ThenBlock.String()
	if s.ElseBlock != nil {
		out += " else " + s.ElseBlock.String()
	}
	return out
}
func (s *IfStmt) stmtNode() {}

// WhileStmt is spec.md §3's WhileStmt.
type WhileStmt struct {
	Location lexer.Position
	Test     Expr
	Body     *Block
	Info     Info
}

func (s *WhileStmt) Pos() lexer.Position { return s.Location }
func (s *WhileStmt) String() string      { return "while " + s.Test.String() + " " + s.Body.String() }
func (s *WhileStmt) stmtNode()           {}

// ReturnStmt is spec.md §3's ReturnStmt; Value is nil for a bare return.
type ReturnStmt struct {
	Location lexer.Position
	Value    Expr
	Info     Info
}

func (s *ReturnStmt) Pos() lexer.Position { return s.Location }
func (s *ReturnStmt) String() string {
	if s.Value == nil {
		return "return"
	}
	return "return " + s.Value.String()
}
func (s *ReturnStmt) stmtNode() {}

// ExprStmt wraps an expression used in statement position.
type ExprStmt struct {
	Location lexer.Position
	Value    Expr
	Info     Info
}

func (s *ExprStmt) Pos() lexer.Position { return s.Location }
func (s *ExprStmt) String() string      { return s.Value.String() }
func (s *ExprStmt) stmtNode()           {}

// ExternalStmt is spec.md §3's ExternalStmt: a declaration-only region
// naming host-provided symbols (spec.md §6). Its Body does not open a new
// scope (spec.md §4.4).
type ExternalStmt struct {
	Location lexer.Position
	Body     *Block
	Info     Info
}

func (s *ExternalStmt) Pos() lexer.Position { return s.Location }
func (s *ExternalStmt) String() string      { return "external " + s.Body.String() }
func (s *ExternalStmt) stmtNode()           {}

// VarDef is spec.md §3's VarDef. TypeExpr is the parsed type expression
// (possibly the `var` keyword expression for inference); Init is nil when
// uninitialized (filled in by DefaultInitialize, spec.md §4.7). Symbol is
// a *symbols.Symbol, set by DefineSymbols.
type VarDef struct {
	Location lexer.Position
	Name     string
	TypeExpr Expr
	Init     Expr
	Symbol   any
	Info     Info
}

func (s *VarDef) Pos() lexer.Position { return s.Location }
func (s *VarDef) String() string {
	out := s.TypeExpr.String() + " " + s.Name
	if s.Init != nil {
		out += " = " + s.Init.String()
	}
	return out
}
func (s *VarDef) stmtNode() {}

// FuncDef is spec.md §3's FuncDef. Body is nil for an external declaration.
type FuncDef struct {
	Location       lexer.Position
	Name           string
	IsStatic       bool
	ReturnTypeExpr Expr
	Args           []*VarDef
	Body           *Block
	Symbol         any
	Info           Info
}

func (s *FuncDef) Pos() lexer.Position { return s.Location }
func (s *FuncDef) String() string {
	out := s.ReturnTypeExpr.String() + " " + s.Name + "("
	for i, a := range s.Args {
		if i > 0 {
			out += ", "
		}
		out += a.String()
	}
	out += ")"
	if s.Body != nil {
		out += " " + s.Body.String()
	}
	return out
}
func (s *FuncDef) stmtNode() {}

// ClassDef is spec.md §3's ClassDef.
type ClassDef struct {
	Location lexer.Position
	Name     string
	Body     *Block
	Symbol   any
	Info     Info
}

func (s *ClassDef) Pos() lexer.Position { return s.Location }
func (s *ClassDef) String() string      { return "class " + s.Name + " " + s.Body.String() }
func (s *ClassDef) stmtNode()           {}
