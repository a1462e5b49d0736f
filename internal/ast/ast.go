// Package ast defines Tinder's untyped syntax tree (spec.md §3) and the
// NodeInfo breadcrumbs attached to every node at parse time.
//
// The shape follows the teacher's tagged-interface style
// (_examples/CWBudde-go-dws/internal/ast): one Go type per AST variant,
// each satisfying Node (and Stmt or Expr). Unlike the teacher, Expr carries
// a mutable ComputedType field set by ComputeTypes (spec.md §4.6), and every
// node carries an embedded Info breadcrumb instead of re-deriving lexical
// context in later passes (spec.md §9 design notes).
package ast

import (
	"github.com/dineshkummarc/TheDS-next2Tinder/internal/lexer"
	"github.com/dineshkummarc/TheDS-next2Tinder/internal/types"
)

// Node is the base interface every tree node satisfies.
type Node interface {
	Pos() lexer.Position
	String() string
}

// Info is the NodeInfo breadcrumb of spec.md §3: lexical context captured
// at parse time so later passes don't need to re-derive it by walking back
// up the tree.
type Info struct {
	Module        *Module
	ClassDef      *ClassDef
	FuncDef       *FuncDef
	InFuncArgList bool
	InExternal    bool
	InStaticFunc  bool
}

// Stmt is any statement-position node.
type Stmt interface {
	Node
	stmtNode()
}

// Expr is any expression-position node. ComputedType is nil until
// ComputeTypes (spec.md §4.6) assigns it.
type Expr interface {
	Node
	exprNode()
	Type() types.Type
	SetType(types.Type)
}

// exprBase factors the ComputedType storage shared by every Expr.
type exprBase struct {
	ComputedType types.Type
}

func (e *exprBase) Type() types.Type     { return e.ComputedType }
func (e *exprBase) SetType(t types.Type) { e.ComputedType = t }

// Module is the root of a compilation: a single top-level Block.
type Module struct {
	Body *Block
	File string
}

func (m *Module) Pos() lexer.Position {
	if m.Body != nil {
		return m.Body.Pos()
	}
	return lexer.Position{File: m.File, Line: 1, Column: 1}
}
func (m *Module) String() string { return m.Body.String() }

// Scope is declared in package symbols; Block only stores a handle so the
// ast package never imports symbols (symbols in turn refers to ast nodes
// only through `any`-typed Def handles). The Scope field's
// concrete type is `*symbols.Scope`, wired as `any` here and asserted by
// passes that own both packages.
type Block struct {
	Location   lexer.Position
	Statements []Stmt
	Scope      any
}

func (b *Block) Pos() lexer.Position { return b.Location }
func (b *Block) String() string {
	out := "{\n"
	for _, s := range b.Statements {
		out += "  " + s.String() + "\n"
	}
	return out + "}"
}
func (b *Block) stmtNode() {}
