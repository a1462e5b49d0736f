// Package flow implements spec.md §4.8's FlowValidation: a per-function
// reverse control-flow graph plus a memoized fixed-point forward analysis
// over a 2-bit nullability lattice, emitting dead-code, not-all-paths-return,
// and null/possibly-null dereference diagnostics.
//
// The graph-construction shape (visit statements in reverse within a block,
// carrying a "current successor", branching only at boolean-context
// expressions) follows spec.md §4.8's algorithm directly; there is no
// teacher precedent for this — DWScript's own flow checking is far shallower
// — so this package is grounded in spec.md's own description rather than an
// example file.
package flow

import (
	"github.com/dineshkummarc/TheDS-next2Tinder/internal/ast"
	"github.com/dineshkummarc/TheDS-next2Tinder/internal/diagnostics"
	"github.com/dineshkummarc/TheDS-next2Tinder/internal/lexer"
	"github.com/dineshkummarc/TheDS-next2Tinder/internal/passes"
	"github.com/dineshkummarc/TheDS-next2Tinder/internal/symbols"
	"github.com/dineshkummarc/TheDS-next2Tinder/internal/types"
)

// IsNull is the 2-bit join-semilattice of spec.md §4.8.
type IsNull uint8

const (
	Unknown IsNull = 0b00
	No      IsNull = 0b01
	Yes     IsNull = 0b10
	Maybe   IsNull = No | Yes
)

// NodeKind distinguishes the flow-node variants of spec.md §4.8's table.
type NodeKind int

const (
	Plain NodeKind = iota
	AssignNode
	AliasNode
	CheckNode
	BlockerNode
)

// Node is one flow-graph vertex. Branching is modeled by a node with two
// entries in Next (conventionally true, then false); merging is modeled by
// several nodes sharing one downstream successor.
type Node struct {
	Kind   NodeKind
	Sym    *symbols.Symbol // Assign/Check target, Alias left
	Right  *symbols.Symbol // Alias right-hand symbol
	IsNull IsNull          // Assign's value, Check's narrowing operand
	Next   []*Node
}

// Knowledge is an immutable Symbol -> IsNull map threaded through the
// forward analysis.
type Knowledge map[*symbols.Symbol]IsNull

func (k Knowledge) getOrDefault(sym *symbols.Symbol, def IsNull) IsNull {
	if v, ok := k[sym]; ok {
		return v
	}
	return def
}

func (k Knowledge) with(sym *symbols.Symbol, v IsNull) Knowledge {
	nk := make(Knowledge, len(k)+1)
	for s, val := range k {
		nk[s] = val
	}
	nk[sym] = v
	return nk
}

func (k Knowledge) join(other Knowledge, locals []*symbols.Symbol) Knowledge {
	nk := make(Knowledge, len(locals))
	for _, s := range locals {
		v := k.getOrDefault(s, Unknown) | other.getOrDefault(s, Unknown)
		if v != Unknown {
			nk[s] = v
		}
	}
	return nk
}

func (k Knowledge) key(locals []*symbols.Symbol) string {
	buf := make([]byte, len(locals))
	for i, s := range locals {
		buf[i] = byte('0' + k.getOrDefault(s, Unknown))
	}
	return string(buf)
}

// FlowValidation is spec.md §4.8.
type FlowValidation struct{}

func NewFlowValidation() *FlowValidation { return &FlowValidation{} }

func (FlowValidation) Name() string { return "FlowValidation" }

func (FlowValidation) Run(ctx *passes.Context) {
	walkForFuncs(ctx.Module.Body, func(fn *ast.FuncDef) {
		validateFunc(ctx, fn)
	})
}

func walkForFuncs(b *ast.Block, visit func(*ast.FuncDef)) {
	if b == nil {
		return
	}
	for _, stmt := range b.Statements {
		switch s := stmt.(type) {
		case *ast.ExternalStmt:
			walkForFuncs(s.Body, visit)
		case *ast.ClassDef:
			walkForFuncs(s.Body, visit)
		case *ast.FuncDef:
			if s.Body != nil {
				visit(s)
				walkForFuncs(s.Body, visit)
			}
		case *ast.IfStmt:
			walkForFuncs(s.ThenBlock, visit)
			walkForFuncs(s.ElseBlock, visit)
		case *ast.WhileStmt:
			walkForFuncs(s.Body, visit)
		}
	}
}

// builder accumulates the reverse-constructed graph for one function.
type builder struct {
	stmtEntry      map[ast.Stmt]*Node
	castMarker     map[*ast.CastExpr]*Node
	castSym        map[*ast.CastExpr]*symbols.Symbol
	narrowingCasts []*ast.CastExpr
	locals         []*symbols.Symbol
	seen           map[*symbols.Symbol]bool
}

func newBuilder() *builder {
	return &builder{
		stmtEntry:  map[ast.Stmt]*Node{},
		castMarker: map[*ast.CastExpr]*Node{},
		castSym:    map[*ast.CastExpr]*symbols.Symbol{},
		seen:       map[*symbols.Symbol]bool{},
	}
}

func (b *builder) track(sym *symbols.Symbol) {
	if sym == nil || b.seen[sym] {
		return
	}
	b.seen[sym] = true
	b.locals = append(b.locals, sym)
}

func validateFunc(ctx *passes.Context, fn *ast.FuncDef) {
	b := newBuilder()
	exit := &Node{Kind: Plain}
	bodyEntry := b.buildStmts(fn.Body.Statements, exit)

	entry := bodyEntry
	for i := len(fn.Args) - 1; i >= 0; i-- {
		arg := fn.Args[i]
		sym, ok := arg.Symbol.(*symbols.Symbol)
		if !ok {
			continue
		}
		b.track(sym)
		nullability := No
		if types.IsNullable(sym.Type) {
			nullability = Maybe
		}
		entry = &Node{Kind: AssignNode, Sym: sym, IsNull: nullability, Next: []*Node{entry}}
	}

	a := &analyzer{locals: b.locals, memo: map[*Node]map[string]bool{}, knowledge: map[*Node]Knowledge{}, stmtEntry: b.stmtEntry}
	a.visit(entry, Knowledge{})

	reportDeadCode(ctx, fn.Body, a)

	fsym, _ := fn.Symbol.(*symbols.Symbol)
	if fsym != nil {
		if ft, ok := fsym.Type.(types.FuncType); ok {
			if _, isVoid := ft.Return.(types.VoidType); !isVoid {
				if _, reached := a.knowledge[exit]; reached {
					ctx.Log.Report(diagnostics.NotAllPathsReturnValue, fn.Pos(), "not all control paths return a value")
				}
			}
		}
	}

	for i := len(b.narrowingCasts) - 1; i >= 0; i-- {
		cast := b.narrowingCasts[i]
		marker := b.castMarker[cast]
		k, reached := a.knowledge[marker]
		if !reached {
			continue
		}
		sym, hasSym := b.castSym[cast]
		if !hasSym {
			ctx.Log.Report(diagnostics.NullableDereference, cast.Pos(), "dereference of a possibly null value")
			continue
		}
		switch k.getOrDefault(sym, Maybe) {
		case Yes:
			ctx.Log.Report(diagnostics.NullDereference, cast.Pos(), "dereference of a definitely null value")
		case Maybe, Unknown:
			ctx.Log.Report(diagnostics.NullableDereference, cast.Pos(), "dereference of a possibly null value")
		}
	}
}

func reportDeadCode(ctx *passes.Context, block *ast.Block, a *analyzer) {
	if block == nil {
		return
	}
	for _, stmt := range block.Statements {
		node, ok := entryFor(stmt, a)
		if ok {
			if _, reached := a.knowledge[node]; !reached {
				ctx.Log.Report(diagnostics.DeadCode, stmt.Pos(), "unreachable statement")
				return
			}
		}
		switch s := stmt.(type) {
		case *ast.IfStmt:
			reportDeadCode(ctx, s.ThenBlock, a)
			reportDeadCode(ctx, s.ElseBlock, a)
		case *ast.WhileStmt:
			reportDeadCode(ctx, s.Body, a)
		}
	}
}

func entryFor(stmt ast.Stmt, a *analyzer) (*Node, bool) {
	n, ok := a.stmtEntry[stmt]
	return n, ok
}

// analyzer carries stmtEntry too so reportDeadCode can look nodes up without
// threading the builder separately.
type analyzer struct {
	locals    []*symbols.Symbol
	memo      map[*Node]map[string]bool
	knowledge map[*Node]Knowledge
	stmtEntry map[ast.Stmt]*Node
}

func (a *analyzer) visit(n *Node, k Knowledge) {
	if n == nil {
		return
	}
	key := k.key(a.locals)
	set := a.memo[n]
	if set == nil {
		set = map[string]bool{}
		a.memo[n] = set
	}
	if set[key] {
		return
	}
	set[key] = true

	if existing, ok := a.knowledge[n]; ok {
		a.knowledge[n] = existing.join(k, a.locals)
	} else {
		a.knowledge[n] = k
	}

	nk, ok := update(n, k)
	if !ok {
		return
	}
	for _, s := range n.Next {
		a.visit(s, nk)
	}
}

func update(n *Node, k Knowledge) (Knowledge, bool) {
	switch n.Kind {
	case Plain:
		return k, true
	case AssignNode:
		return k.with(n.Sym, n.IsNull), true
	case AliasNode:
		return k.with(n.Sym, k.getOrDefault(n.Right, Maybe)), true
	case CheckNode:
		cur := k.getOrDefault(n.Sym, Maybe)
		narrowed := cur & n.IsNull
		if narrowed == Unknown {
			return nil, false
		}
		return k.with(n.Sym, narrowed), true
	case BlockerNode:
		return nil, false
	default:
		return k, true
	}
}

// --- graph construction ---

func (b *builder) buildStmts(stmts []ast.Stmt, succ *Node) *Node {
	cur := succ
	for i := len(stmts) - 1; i >= 0; i-- {
		cur = b.buildStmt(stmts[i], cur)
	}
	return cur
}

func (b *builder) buildStmt(stmt ast.Stmt, succ *Node) *Node {
	var entry *Node
	switch s := stmt.(type) {
	case *ast.ReturnStmt:
		blocker := &Node{Kind: BlockerNode}
		if s.Value != nil {
			entry = b.buildExpr(s.Value, blocker)
		} else {
			entry = blocker
		}

	case *ast.ExprStmt:
		entry = b.buildExpr(s.Value, succ)

	case *ast.VarDef:
		sym, _ := s.Symbol.(*symbols.Symbol)
		if sym != nil {
			b.track(sym)
		}
		node := succ
		if sym != nil {
			node = b.buildAssignLike(sym, s.Init, succ)
		}
		if s.Init != nil {
			node = b.buildExpr(s.Init, node)
		}
		entry = node

	case *ast.IfStmt:
		thenJoin := &Node{Kind: Plain, Next: []*Node{succ}}
		elseJoin := &Node{Kind: Plain, Next: []*Node{succ}}
		thenEntry := b.buildStmts(s.ThenBlock.Statements, thenJoin)
		elseEntry := elseJoin
		if s.ElseBlock != nil {
			elseEntry = b.buildStmts(s.ElseBlock.Statements, elseJoin)
		}
		entry = b.buildBoolExpr(s.Test, thenEntry, elseEntry)

	case *ast.WhileStmt:
		placeholder := &Node{Kind: Plain}
		bodyEntry := b.buildStmts(s.Body.Statements, placeholder)
		testEntry := b.buildBoolExpr(s.Test, bodyEntry, succ)
		placeholder.Next = []*Node{testEntry}
		entry = testEntry

	default:
		entry = succ
	}

	b.stmtEntry[stmt] = entry
	return entry
}

// buildAssignLike builds the Assign/Alias node for a declaration or plain
// assignment's right-hand side, per spec.md §4.8's "BinaryExpr `=`, VarDef,
// or argument binding" rule. The expression's own internal casts/assigns are
// wired in separately by the caller.
func (b *builder) buildAssignLike(sym *symbols.Symbol, rhs ast.Expr, succ *Node) *Node {
	if rhs == nil {
		return succ
	}
	unwrapped := rhs
	for {
		cast, ok := unwrapped.(*ast.CastExpr)
		if !ok {
			break
		}
		unwrapped = cast.Value
	}
	if ident, ok := unwrapped.(*ast.IdentExpr); ok {
		if rsym, ok2 := ident.Symbol.(*symbols.Symbol); ok2 {
			b.track(rsym)
			b.track(sym)
			return &Node{Kind: AliasNode, Sym: sym, Right: rsym, Next: []*Node{succ}}
		}
	}
	b.track(sym)
	return &Node{Kind: AssignNode, Sym: sym, IsNull: classify(unwrapped), Next: []*Node{succ}}
}

func classify(e ast.Expr) IsNull {
	if _, ok := e.(*ast.NullExpr); ok {
		return Yes
	}
	t := e.Type()
	if t == nil || types.IsError(t) {
		return Maybe
	}
	if types.IsNullable(t) {
		return Maybe
	}
	return No
}

// buildExpr visits e for its flow-relevant side effects (nested assignments
// and casts), returning the entry node for evaluating e before succ runs.
func (b *builder) buildExpr(e ast.Expr, succ *Node) *Node {
	switch v := e.(type) {
	case *ast.BinaryExpr:
		if v.Operator == lexer.Assign {
			if ident, ok := v.Left.(*ast.IdentExpr); ok {
				if sym, ok2 := ident.Symbol.(*symbols.Symbol); ok2 {
					node := b.buildAssignLike(sym, v.Right, succ)
					return b.buildExpr(v.Right, node)
				}
			}
			node := b.buildExpr(v.Right, succ)
			if lv, ok := v.Left.(*ast.MemberExpr); ok {
				node = b.buildExpr(lv.Object, node)
			}
			if lv, ok := v.Left.(*ast.IndexExpr); ok {
				node = b.buildExpr(lv.Object, b.buildExpr(lv.Index, node))
			}
			return node
		}
		if v.Operator == lexer.KwAnd || v.Operator == lexer.KwOr {
			// Plain fallback: both operands are simply visited for nested
			// casts/assigns; true branching is only meaningful in boolean
			// context (buildBoolExpr), reached directly from if/while.
			node := b.buildExpr(v.Right, succ)
			return b.buildExpr(v.Left, node)
		}
		node := b.buildExpr(v.Right, succ)
		return b.buildExpr(v.Left, node)

	case *ast.CastExpr:
		node := succ
		narrowing := types.IsNullable(v.Value.Type()) && !types.IsNullable(v.Type())
		if narrowing {
			marker := &Node{Kind: Plain, Next: []*Node{succ}}
			b.castMarker[v] = marker
			b.narrowingCasts = append(b.narrowingCasts, v)
			if ident, ok := v.Value.(*ast.IdentExpr); ok {
				if sym, ok2 := ident.Symbol.(*symbols.Symbol); ok2 {
					b.track(sym)
					b.castSym[v] = sym
				}
			}
			node = marker
		}
		return b.buildExpr(v.Value, node)

	case *ast.UnaryExpr:
		return b.buildExpr(v.Operand, succ)

	case *ast.MemberExpr:
		return b.buildExpr(v.Object, succ)

	case *ast.IndexExpr:
		node := b.buildExpr(v.Index, succ)
		return b.buildExpr(v.Object, node)

	case *ast.ListExpr:
		node := succ
		for i := len(v.Items) - 1; i >= 0; i-- {
			node = b.buildExpr(v.Items[i], node)
		}
		return node

	case *ast.CallExpr:
		node := succ
		for i := len(v.Args) - 1; i >= 0; i-- {
			node = b.buildExpr(v.Args[i], node)
		}
		return b.buildExpr(v.Callee, node)

	default:
		return succ
	}
}

// buildBoolExpr visits e in boolean-test position, wiring its narrowing
// effects (if any) between trueSucc and falseSucc.
func (b *builder) buildBoolExpr(e ast.Expr, trueSucc, falseSucc *Node) *Node {
	switch v := e.(type) {
	case *ast.UnaryExpr:
		if v.Operator == lexer.KwNot {
			return b.buildBoolExpr(v.Operand, falseSucc, trueSucc)
		}
		return b.buildExpr(e, &Node{Kind: Plain, Next: []*Node{trueSucc, falseSucc}})

	case *ast.BinaryExpr:
		switch v.Operator {
		case lexer.KwAnd:
			rightEntry := b.buildBoolExpr(v.Right, trueSucc, falseSucc)
			return b.buildBoolExpr(v.Left, rightEntry, falseSucc)
		case lexer.KwOr:
			rightEntry := b.buildBoolExpr(v.Right, trueSucc, falseSucc)
			return b.buildBoolExpr(v.Left, trueSucc, rightEntry)
		case lexer.Equal, lexer.NotEqual:
			sym, isNullSide := b.nullComparisonSymbol(v)
			if sym != nil {
				b.track(sym)
				eqTrue, eqFalse := No, Yes
				if v.Operator == lexer.Equal {
					eqTrue, eqFalse = Yes, No
				}
				_ = isNullSide
				trueCheck := &Node{Kind: CheckNode, Sym: sym, IsNull: eqTrue, Next: []*Node{trueSucc}}
				falseCheck := &Node{Kind: CheckNode, Sym: sym, IsNull: eqFalse, Next: []*Node{falseSucc}}
				return &Node{Kind: Plain, Next: []*Node{trueCheck, falseCheck}}
			}
		}
		return b.buildExpr(e, &Node{Kind: Plain, Next: []*Node{trueSucc, falseSucc}})

	default:
		return b.buildExpr(e, &Node{Kind: Plain, Next: []*Node{trueSucc, falseSucc}})
	}
}

// nullComparisonSymbol recognizes `ident == null` / `null == ident` (and
// != ) where ident names a tracked local, per spec.md §4.8.
func (b *builder) nullComparisonSymbol(v *ast.BinaryExpr) (*symbols.Symbol, bool) {
	if ident, ok := v.Left.(*ast.IdentExpr); ok {
		if _, isNull := v.Right.(*ast.NullExpr); isNull {
			if sym, ok2 := ident.Symbol.(*symbols.Symbol); ok2 {
				return sym, true
			}
		}
	}
	if ident, ok := v.Right.(*ast.IdentExpr); ok {
		if _, isNull := v.Left.(*ast.NullExpr); isNull {
			if sym, ok2 := ident.Symbol.(*symbols.Symbol); ok2 {
				return sym, true
			}
		}
	}
	return nil, false
}
