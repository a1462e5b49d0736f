package passes

import (
	"strings"

	"github.com/dineshkummarc/TheDS-next2Tinder/internal/ast"
	"github.com/dineshkummarc/TheDS-next2Tinder/internal/symbols"
	"github.com/dineshkummarc/TheDS-next2Tinder/internal/types"
)

// RenameSymbols is spec.md §4.9: the final, emitter-facing pass. It rewrites
// Symbol.FinalName destructively (there is no side table recording the
// original name — SPEC_FULL.md §9 resolves the open question that way) for
// two reasons: a name collides with a target emitter's reserved word, or an
// overloaded set needs mangling because the target can't represent
// overloading. Each emitter constructs its own RenameSymbols with its own
// reserved-word set, so the same Tinder program renames differently per
// target.
type RenameSymbols struct {
	Reserved        map[string]bool
	MangleOverloads bool
}

// NewRenameSymbols builds the pass for one emitter target. reserved is that
// target's case-sensitive keyword set; mangleOverloads should be true for
// targets that cannot represent function overloading.
func NewRenameSymbols(reserved map[string]bool, mangleOverloads bool) *RenameSymbols {
	return &RenameSymbols{Reserved: reserved, MangleOverloads: mangleOverloads}
}

func (RenameSymbols) Name() string { return "RenameSymbols" }

func (p *RenameSymbols) Run(ctx *Context) {
	w := &renamer{reserved: p.Reserved, mangleOverloads: p.MangleOverloads}
	root := ctx.Module.Body.Scope.(*symbols.Scope)
	w.renameScope(root)
	w.walkBlock(ctx.Module.Body)
}

type renamer struct {
	reserved        map[string]bool
	mangleOverloads bool
}

// renameScope renames every symbol bound directly in scope (not its
// ancestors or descendants — those are reached by the tree walk below).
func (w *renamer) renameScope(scope *symbols.Scope) {
	for _, name := range scope.Names() {
		sym, ok := scope.Lookup(name, symbols.Any)
		if !ok {
			continue
		}
		w.renameSymbol(sym)
	}
}

func (w *renamer) renameSymbol(sym *symbols.Symbol) {
	if sym.Kind == symbols.OverloadedFunc {
		w.renameOverloadSet(sym)
		return
	}
	sym.FinalName = w.dequalify(sym.Name)
}

func (w *renamer) renameOverloadSet(sym *symbols.Symbol) {
	if !w.mangleOverloads {
		base := w.dequalify(sym.Name)
		sym.FinalName = base
		for _, o := range sym.Overloads {
			o.FinalName = base
		}
		return
	}
	for _, o := range sym.Overloads {
		o.FinalName = w.dequalify(mangledName(o))
	}
}

// dequalify prepends underscores until name no longer collides with a
// reserved word (spec.md §4.9).
func (w *renamer) dequalify(name string) string {
	for w.reserved[name] {
		name = "_" + name
	}
	return name
}

// mangledName appends a per-argument-type fragment to an overloaded
// function's base name, so a target lacking overloading still gets one
// distinct identifier per overload.
func mangledName(sym *symbols.Symbol) string {
	ft, ok := sym.Type.(types.FuncType)
	if !ok {
		return sym.Name
	}
	var b strings.Builder
	b.WriteString(sym.Name)
	for _, a := range ft.Args {
		b.WriteByte('_')
		b.WriteString(sanitizeFragment(a.String()))
	}
	return b.String()
}

func sanitizeFragment(s string) string {
	var b strings.Builder
	for _, r := range s {
		switch {
		case r >= 'a' && r <= 'z', r >= 'A' && r <= 'Z', r >= '0' && r <= '9':
			b.WriteRune(r)
		default:
			b.WriteByte('_')
		}
	}
	return b.String()
}

// --- tree walk: visits every scope the way DefineSymbols opened it ---

func (w *renamer) walkBlock(b *ast.Block) {
	if b == nil {
		return
	}
	for _, stmt := range b.Statements {
		w.walkStmt(stmt)
	}
}

func (w *renamer) walkStmt(stmt ast.Stmt) {
	switch s := stmt.(type) {
	case *ast.ExternalStmt:
		w.walkBlock(s.Body) // shares the enclosing scope; already renamed
	case *ast.ClassDef:
		w.renameScope(s.Body.Scope.(*symbols.Scope))
		w.walkBlock(s.Body)
	case *ast.FuncDef:
		if s.Body != nil {
			w.renameScope(s.Body.Scope.(*symbols.Scope))
			w.walkBlock(s.Body)
		}
	case *ast.IfStmt:
		w.renameScope(s.ThenBlock.Scope.(*symbols.Scope))
		w.walkBlock(s.ThenBlock)
		if s.ElseBlock != nil {
			w.renameScope(s.ElseBlock.Scope.(*symbols.Scope))
			w.walkBlock(s.ElseBlock)
		}
	case *ast.WhileStmt:
		w.renameScope(s.Body.Scope.(*symbols.Scope))
		w.walkBlock(s.Body)
	}
}
