// Package symbols implements spec.md §3's Symbol and Scope model: the
// scope tree DefineSymbols builds, the four lookup modes ComputeTypes uses,
// and the overload-set promotion rule that fires when two functions with
// the same name and static-ness collide in one scope.
package symbols

import (
	"github.com/dineshkummarc/TheDS-next2Tinder/internal/types"
)

// Kind classifies what a Symbol names.
type Kind int

const (
	Variable Kind = iota
	Func
	Class
	OverloadedFunc
)

// Symbol is spec.md §3's (kind, isStatic, def, type, finalName) tuple.
// Def is an opaque handle to the owning *ast.VarDef/*ast.FuncDef/
// *ast.ClassDef (nil for an OverloadedFunc symbol, whose members live in
// Overloads instead — spec.md §3).
type Symbol struct {
	Kind      Kind
	Name      string
	IsStatic  bool
	Def       any
	Type      types.Type
	FinalName string

	// Overloads holds the member symbols of an OverloadedFunc symbol.
	Overloads []*Symbol
}

// NewSymbol creates a Symbol whose FinalName starts out equal to name, per
// spec.md §3 (RenameSymbols is the only thing that ever changes it).
func NewSymbol(kind Kind, name string, def any) *Symbol {
	return &Symbol{Kind: kind, Name: name, Def: def, FinalName: name}
}

// ScopeKind is the kind of lexical region a Scope represents.
type ScopeKind int

const (
	ModuleScope ScopeKind = iota
	ClassScope
	FuncScope
	LocalScope
)

// LookupMode selects which of a Scope's ancestors (and which members, for
// class scopes) a lookup considers (spec.md §3).
type LookupMode int

const (
	// Any walks every parent scope unconditionally.
	Any LookupMode = iota
	// Normal walks parents but skips class scopes: class members are not
	// visible by bare name inside methods.
	Normal
	// StaticMember looks only at a class scope's static members.
	StaticMember
	// InstanceMember looks only at a class scope's instance members.
	InstanceMember
)

// Scope is spec.md §3's (parent, kind, map) triple.
type Scope struct {
	Parent  *Scope
	Kind    ScopeKind
	symbols map[string]*Symbol
}

// NewScope creates a scope of the given kind under parent (nil for the
// module's root scope).
func NewScope(kind ScopeKind, parent *Scope) *Scope {
	return &Scope{Parent: parent, Kind: kind, symbols: make(map[string]*Symbol)}
}

// DefineError reports a name collision Define could not resolve into an
// overload set.
type DefineError struct {
	Name string
}

func (e *DefineError) Error() string { return "redefinition of \"" + e.Name + "\"" }

// Define binds sym into s under sym.Name, implementing spec.md §3's
// redefinition rule: a name collision is an error unless both the existing
// and the new symbol are functions with the same isStatic, in which case
// the existing entry is promoted to (or extended as) an OverloadedFunc.
func (s *Scope) Define(sym *Symbol) error {
	existing, ok := s.symbols[sym.Name]
	if !ok {
		s.symbols[sym.Name] = sym
		return nil
	}

	if existing.Kind == OverloadedFunc {
		if sym.Kind != Func || sym.IsStatic != existing.IsStatic {
			return &DefineError{Name: sym.Name}
		}
		existing.Overloads = append(existing.Overloads, sym)
		existing.Type = types.OverloadedFuncType{Overloads: toAny(existing.Overloads)}
		return nil
	}

	if existing.Kind == Func && sym.Kind == Func && existing.IsStatic == sym.IsStatic {
		overload := NewSymbol(OverloadedFunc, sym.Name, nil)
		overload.Overloads = []*Symbol{existing, sym}
		overload.IsStatic = sym.IsStatic
		overload.Type = types.OverloadedFuncType{Overloads: toAny(overload.Overloads)}
		s.symbols[sym.Name] = overload
		return nil
	}

	return &DefineError{Name: sym.Name}
}

func toAny(syms []*Symbol) []any {
	out := make([]any, len(syms))
	for i, s := range syms {
		out[i] = s
	}
	return out
}

// lookupLocal returns a symbol bound directly in s (no parent walk),
// applying the class-member filtering StaticMember/InstanceMember modes
// require.
func (s *Scope) lookupLocal(name string, mode LookupMode) (*Symbol, bool) {
	sym, ok := s.symbols[name]
	if !ok {
		return nil, false
	}
	switch mode {
	case StaticMember:
		if !sym.IsStatic {
			return nil, false
		}
	case InstanceMember:
		if sym.IsStatic {
			return nil, false
		}
	}
	return sym, true
}

// Lookup resolves name starting at s according to mode (spec.md §3).
func (s *Scope) Lookup(name string, mode LookupMode) (*Symbol, bool) {
	switch mode {
	case StaticMember, InstanceMember:
		return s.lookupLocal(name, mode)
	case Normal:
		for scope := s; scope != nil; scope = scope.Parent {
			if scope.Kind == ClassScope {
				continue
			}
			if sym, ok := scope.lookupLocal(name, Any); ok {
				return sym, true
			}
		}
		return nil, false
	default: // Any
		for scope := s; scope != nil; scope = scope.Parent {
			if sym, ok := scope.lookupLocal(name, Any); ok {
				return sym, true
			}
		}
		return nil, false
	}
}

// Names returns every name bound directly in s, for diagnostics and the
// rename pass. Order is unspecified and may differ between calls (Go
// randomizes map iteration order), so callers needing determinism should
// sort.
func (s *Scope) Names() []string {
	names := make([]string, 0, len(s.symbols))
	for n := range s.symbols {
		names = append(names, n)
	}
	return names
}

// HasName reports whether a name collides with anything bound directly in
// s, case-sensitively (Tinder identifiers, unlike the teacher's
// case-insensitive DWScript, are compared after NFC normalization only).
func (s *Scope) HasName(name string) bool {
	_, ok := s.symbols[name]
	return ok
}

// qualify prepends one underscore to name, the same step RenameSymbols'
// own dequalify repeats until no clash remains (spec.md §4.9).
func qualify(name string) string { return "_" + name }
