// Package types implements the closed Type variant set of spec.md §3:
// structural equality, the nullability/meta-type invariants, and the
// implicit-conversion relation ComputeTypes consults when it inserts
// CastExpr nodes (spec.md §4.6, §8 property 5).
//
// Cyclic references (spec.md §9 design notes: ClassType.def points back to
// the ClassDef whose scope holds symbols typed as ClassType) are modeled as
// opaque handles (`any`) rather than owning pointers, so this package never
// imports internal/ast or internal/symbols and stays at the bottom of the
// dependency graph.
package types

import "strings"

// Primitive is the closed set of non-aggregate scalar kinds.
type Primitive int

const (
	Bool Primitive = iota
	Int
	Float
	String
)

func (p Primitive) String() string {
	switch p {
	case Bool:
		return "bool"
	case Int:
		return "int"
	case Float:
		return "float"
	case String:
		return "string"
	default:
		return "?"
	}
}

// Type is the closed variant set of spec.md §3. Equality is structural,
// except NullType (equals only itself) and ErrorType (equals nothing, so
// that diagnostics chained off an earlier error never themselves fire).
type Type interface {
	String() string
	Equals(other Type) bool
}

// VoidType is the absence of a value; only legal as a function return type.
type VoidType struct{}

func (VoidType) String() string        { return "void" }
func (VoidType) Equals(o Type) bool    { _, ok := o.(VoidType); return ok }

// PrimType is one of bool/int/float/string.
type PrimType struct{ Kind Primitive }

func (t PrimType) String() string { return t.Kind.String() }
func (t PrimType) Equals(o Type) bool {
	other, ok := o.(PrimType)
	return ok && other.Kind == t.Kind
}

// ListType is `list<T>`. Item is nil for the "free" (uninstantiated)
// generic, which may only ever appear transiently as a ParamExpr operand
// (spec.md §3 invariant), never as a declared variable/argument type.
type ListType struct{ Item Type }

func (t ListType) String() string {
	if t.Item == nil {
		return "list<?>"
	}
	return "list<" + t.Item.String() + ">"
}
func (t ListType) Equals(o Type) bool {
	other, ok := o.(ListType)
	if !ok || (t.Item == nil) != (other.Item == nil) {
		return false
	}
	if t.Item == nil {
		return true
	}
	return t.Item.Equals(other.Item)
}

// IsFree reports whether t itself is the uninstantiated generic (Item is
// nil); nested item types are checked by HasFreeParams, not here.
func (t ListType) IsFree() bool { return t.Item == nil }

// FuncType is `function<Return, Arg1, Arg2, ...>`. Return is nil for the
// free form.
type FuncType struct {
	Return Type
	Args   []Type
}

func (t FuncType) String() string {
	out := "function<"
	if t.Return == nil {
		out += "?"
	} else {
		out += t.Return.String()
	}
	for _, a := range t.Args {
		out += ", " + a.String()
	}
	return out + ">"
}
func (t FuncType) Equals(o Type) bool {
	other, ok := o.(FuncType)
	if !ok || len(t.Args) != len(other.Args) {
		return false
	}
	if (t.Return == nil) != (other.Return == nil) {
		return false
	}
	if t.Return != nil && !t.Return.Equals(other.Return) {
		return false
	}
	for i := range t.Args {
		if !t.Args[i].Equals(other.Args[i]) {
			return false
		}
	}
	return true
}

func (t FuncType) IsFree() bool { return t.Return == nil }

// ClassType names a user-defined class. Def is an opaque handle to the
// owning *ast.ClassDef (spec.md §9: modeled as an arena handle, not an
// owning reference, to keep the cyclic class<->scope graph out of this
// package's import set).
type ClassType struct {
	Name string
	Def  any
}

func (t ClassType) String() string { return t.Name }
func (t ClassType) Equals(o Type) bool {
	other, ok := o.(ClassType)
	return ok && other.Def == t.Def
}

// MetaType is the type of a type expression (spec.md §3's "type of a
// type"): evaluating `int` as an expression yields MetaType{PrimType{Int}}.
// InstanceType is never itself a MetaType (spec.md §3 invariant).
type MetaType struct{ InstanceType Type }

func (t MetaType) String() string { return "type(" + t.InstanceType.String() + ")" }
func (t MetaType) Equals(o Type) bool {
	other, ok := o.(MetaType)
	return ok && other.InstanceType.Equals(t.InstanceType)
}

// OverloadedFuncType is an unresolved set of function symbols sharing a
// name and static-ness. Overloads holds opaque *symbols.Symbol handles
// (again to avoid an import cycle: symbols imports types, not vice versa).
type OverloadedFuncType struct{ Overloads []any }

func (t OverloadedFuncType) String() string { return "<overloaded>" }
func (t OverloadedFuncType) Equals(Type) bool {
	return false // resolved away before any equality check can observe it
}

// NullType is the type of the literal `null`. It equals only itself.
type NullType struct{}

func (NullType) String() string     { return "null" }
func (NullType) Equals(o Type) bool { _, ok := o.(NullType); return ok }

// NullableType is `T?`. Constructing NewNullable never nests: wrapping an
// already-nullable type returns the same nullable (spec.md §3 invariant).
type NullableType struct{ Inner Type }

// NewNullable builds T? without ever nesting NullableType inside
// NullableType.
func NewNullable(inner Type) NullableType {
	if n, ok := inner.(NullableType); ok {
		return n
	}
	return NullableType{Inner: inner}
}

func (t NullableType) String() string { return t.Inner.String() + "?" }
func (t NullableType) Equals(o Type) bool {
	other, ok := o.(NullableType)
	return ok && other.Inner.Equals(t.Inner)
}

// ErrorType propagates a failure through later diagnostics without being
// equal to anything, including itself (spec.md §3, §7): every check that
// would otherwise fire against it is silently dropped.
type ErrorType struct{}

func (ErrorType) String() string     { return "<error>" }
func (ErrorType) Equals(Type) bool   { return false }

// IsError reports whether t is the ErrorType sentinel.
func IsError(t Type) bool {
	_, ok := t.(ErrorType)
	return ok
}

// Unwrap returns the non-nullable payload of t, and t itself if it isn't
// nullable.
func Unwrap(t Type) Type {
	if n, ok := t.(NullableType); ok {
		return n.Inner
	}
	return t
}

// IsNullable reports whether t is a NullableType.
func IsNullable(t Type) bool {
	_, ok := t.(NullableType)
	return ok
}

// HasFreeParams reports whether t (transitively) contains an uninstantiated
// generic — the condition spec.md §3 forbids for any declared variable or
// argument type.
func HasFreeParams(t Type) bool {
	switch v := t.(type) {
	case ListType:
		return v.Item == nil || HasFreeParams(v.Item)
	case FuncType:
		if v.Return == nil {
			return true
		}
		if HasFreeParams(v.Return) {
			return true
		}
		for _, a := range v.Args {
			if HasFreeParams(a) {
				return true
			}
		}
		return false
	case NullableType:
		return HasFreeParams(v.Inner)
	case MetaType:
		return HasFreeParams(v.InstanceType)
	default:
		return false
	}
}

// ConvertibleTo implements spec.md §3's implicit convertibility relation:
// the smallest relation satisfying int -> float; T -> T? for any
// non-nullable T; NullType -> T?; and the transitive closure through
// NullableType unwrap where the unwrapped conversion already holds. It is
// not reflexive by construction; callers that also want to accept an exact
// match should check Equals first.
func ConvertibleTo(from, to Type) bool {
	if IsError(from) || IsError(to) {
		return false
	}

	if fp, ok := from.(PrimType); ok && fp.Kind == Int {
		if tp, ok := to.(PrimType); ok && tp.Kind == Float {
			return true
		}
	}

	if toNullable, ok := to.(NullableType); ok {
		if _, isNull := from.(NullType); isNull {
			return true
		}
		if !IsNullable(from) {
			return from.Equals(toNullable.Inner) || ConvertibleTo(from, toNullable.Inner)
		}
		fromNullable := from.(NullableType)
		return fromNullable.Inner.Equals(toNullable.Inner) || ConvertibleTo(fromNullable.Inner, toNullable.Inner)
	}

	if fromNullable, ok := from.(NullableType); ok {
		return ConvertibleTo(fromNullable.Inner, to)
	}

	return false
}

// IsInstantiable reports whether t is a MetaType usable as a cast/ctor
// target: its instance type carries no free parameters.
func IsInstantiable(t Type) bool {
	m, ok := t.(MetaType)
	return ok && !HasFreeParams(m.InstanceType)
}

// Describe renders a comma-joined list of types, used in diagnostics like
// `cannot call with arguments "(bool)"`.
func Describe(ts []Type) string {
	parts := make([]string, len(ts))
	for i, t := range ts {
		parts[i] = t.String()
	}
	return strings.Join(parts, ", ")
}
