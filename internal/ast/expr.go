package ast

import (
	"strconv"

	"github.com/dineshkummarc/TheDS-next2Tinder/internal/lexer"
)

// VarExpr is the bare `var` keyword used as a VarDef's type expression to
// request type inference from the initializer (spec.md §4.6).
type VarExpr struct {
	exprBase
	Location lexer.Position
}

func (e *VarExpr) Pos() lexer.Position { return e.Location }
func (e *VarExpr) String() string      { return "var" }
func (e *VarExpr) exprNode()           {}

// NullExpr is the `null` literal.
type NullExpr struct {
	exprBase
	Location lexer.Position
}

func (e *NullExpr) Pos() lexer.Position { return e.Location }
func (e *NullExpr) String() string      { return "null" }
func (e *NullExpr) exprNode()           {}

// ThisExpr is the `this` keyword.
type ThisExpr struct {
	exprBase
	Location lexer.Position
}

func (e *ThisExpr) Pos() lexer.Position { return e.Location }
func (e *ThisExpr) String() string      { return "this" }
func (e *ThisExpr) exprNode()           {}

// BoolExpr is a `true`/`false` literal.
type BoolExpr struct {
	exprBase
	Location lexer.Position
	Value    bool
}

func (e *BoolExpr) Pos() lexer.Position { return e.Location }
func (e *BoolExpr) String() string      { return strconv.FormatBool(e.Value) }
func (e *BoolExpr) exprNode()           {}

// IntExpr is an integer literal. Value is the parsed value; out-of-range
// literals are reported as a syntax error by the parser rather than silently dropped
// (SPEC_FULL.md §9, resolving spec.md §9's open question).
type IntExpr struct {
	exprBase
	Location lexer.Position
	Value    int64
	Text     string
}

func (e *IntExpr) Pos() lexer.Position { return e.Location }
func (e *IntExpr) String() string      { return e.Text }
func (e *IntExpr) exprNode()           {}

// FloatExpr is a floating-point literal.
type FloatExpr struct {
	exprBase
	Location lexer.Position
	Value    float64
	Text     string
}

func (e *FloatExpr) Pos() lexer.Position { return e.Location }
func (e *FloatExpr) String() string      { return e.Text }
func (e *FloatExpr) exprNode()           {}

// StringExpr is a string literal with escapes already decoded by the
// tokenizer.
type StringExpr struct {
	exprBase
	Location lexer.Position
	Value    string
}

func (e *StringExpr) Pos() lexer.Position { return e.Location }
func (e *StringExpr) String() string      { return strconv.Quote(e.Value) }
func (e *StringExpr) exprNode()           {}

// IdentExpr is a bare identifier reference; Symbol is filled in by
// ComputeTypes (a *symbols.Symbol).
type IdentExpr struct {
	exprBase
	Location lexer.Position
	Name     string
	Symbol   any
}

func (e *IdentExpr) Pos() lexer.Position { return e.Location }
func (e *IdentExpr) String() string      { return e.Name }
func (e *IdentExpr) exprNode()           {}

// TypeExpr is a pre-parsed reference to a built-in primitive type keyword
// (spec.md §3). Evaluating it produces a MetaType (spec.md §4.6).
type TypeExpr struct {
	exprBase
	Location lexer.Position
	Keyword  lexer.Kind
}

func (e *TypeExpr) Pos() lexer.Position { return e.Location }
func (e *TypeExpr) String() string      { return e.Keyword.String() }
func (e *TypeExpr) exprNode()           {}

// ListExpr is a `[a, b, c]` list literal.
type ListExpr struct {
	exprBase
	Location lexer.Position
	Items    []Expr
}

func (e *ListExpr) Pos() lexer.Position { return e.Location }
func (e *ListExpr) String() string {
	out := "["
	for i, it := range e.Items {
		if i > 0 {
			out += ", "
		}
		out += it.String()
	}
	return out + "]"
}
func (e *ListExpr) exprNode() {}

// UnaryExpr is a prefix unary operation (`-x`, `not b`).
type UnaryExpr struct {
	exprBase
	Location lexer.Position
	Operator lexer.Kind
	Operand  Expr
}

func (e *UnaryExpr) Pos() lexer.Position { return e.Location }
func (e *UnaryExpr) String() string      { return "(" + e.Operator.String() + e.Operand.String() + ")" }
func (e *UnaryExpr) exprNode()           {}

// BinaryExpr is an infix binary operation, dispatched per spec.md §4.6.
type BinaryExpr struct {
	exprBase
	Location lexer.Position
	Operator lexer.Kind
	Left     Expr
	Right    Expr
}

func (e *BinaryExpr) Pos() lexer.Position { return e.Location }
func (e *BinaryExpr) String() string {
	return "(" + e.Left.String() + " " + e.Operator.String() + " " + e.Right.String() + ")"
}
func (e *BinaryExpr) exprNode() {}

// CallExpr is a function call or (when IsCtor is set by ComputeTypes) a
// class constructor invocation.
type CallExpr struct {
	exprBase
	Location lexer.Position
	Callee   Expr
	Args     []Expr
	IsCtor   bool
}

func (e *CallExpr) Pos() lexer.Position { return e.Location }
func (e *CallExpr) String() string {
	out := e.Callee.String() + "("
	for i, a := range e.Args {
		if i > 0 {
			out += ", "
		}
		out += a.String()
	}
	return out + ")"
}
func (e *CallExpr) exprNode() {}

// ParamExpr is a generic instantiation: `list<int>` or
// `function<int, bool>`.
type ParamExpr struct {
	exprBase
	Location lexer.Position
	Base     Expr
	Args     []Expr
}

func (e *ParamExpr) Pos() lexer.Position { return e.Location }
func (e *ParamExpr) String() string {
	out := e.Base.String() + "<"
	for i, a := range e.Args {
		if i > 0 {
			out += ", "
		}
		out += a.String()
	}
	return out + ">"
}
func (e *ParamExpr) exprNode() {}

// CastExpr is an explicit or (after ComputeTypes) implicit conversion
// (spec.md §4.6, §8 property 5).
type CastExpr struct {
	exprBase
	Location lexer.Position
	Value    Expr
	TargetExpr Expr
	Implicit bool
}

func (e *CastExpr) Pos() lexer.Position { return e.Location }
func (e *CastExpr) String() string {
	return "(" + e.Value.String() + " as " + e.TargetExpr.String() + ")"
}
func (e *CastExpr) exprNode() {}

// MemberExpr is `obj.name` or, when IsSafeDereference is set, `obj?.name`.
// Symbol is the resolved *symbols.Symbol for name.
type MemberExpr struct {
	exprBase
	Location          lexer.Position
	Object            Expr
	Name              string
	IsSafeDereference bool
	Symbol            any
}

func (e *MemberExpr) Pos() lexer.Position { return e.Location }
func (e *MemberExpr) String() string {
	sep := "."
	if e.IsSafeDereference {
		sep = "?."
	}
	return e.Object.String() + sep + e.Name
}
func (e *MemberExpr) exprNode() {}

// IndexExpr is `obj[index]`.
type IndexExpr struct {
	exprBase
	Location lexer.Position
	Object   Expr
	Index    Expr
}

func (e *IndexExpr) Pos() lexer.Position { return e.Location }
func (e *IndexExpr) String() string      { return e.Object.String() + "[" + e.Index.String() + "]" }
func (e *IndexExpr) exprNode()           {}

// NullableExpr is the postfix `T?` type modifier.
type NullableExpr struct {
	exprBase
	Location lexer.Position
	Operand  Expr
}

func (e *NullableExpr) Pos() lexer.Position { return e.Location }
func (e *NullableExpr) String() string      { return e.Operand.String() + "?" }
func (e *NullableExpr) exprNode()           {}

// BadExpr is the parser's error-recovery sentinel: a stand-in for whatever
// expression could not be parsed, so the rest of the tree stays well-formed.
// Its type is ErrorType from construction, so every later pass's diagnostics
// silently skip it rather than compounding one syntax error into many.
type BadExpr struct {
	exprBase
	Location lexer.Position
}

func (e *BadExpr) Pos() lexer.Position { return e.Location }
func (e *BadExpr) String() string      { return "<bad>" }
func (e *BadExpr) exprNode()           {}
