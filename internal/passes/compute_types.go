package passes

import (
	"github.com/dineshkummarc/TheDS-next2Tinder/internal/ast"
	"github.com/dineshkummarc/TheDS-next2Tinder/internal/diagnostics"
	"github.com/dineshkummarc/TheDS-next2Tinder/internal/lexer"
	"github.com/dineshkummarc/TheDS-next2Tinder/internal/symbols"
	"github.com/dineshkummarc/TheDS-next2Tinder/internal/types"
)

// ComputeTypes is spec.md §4.6: the heart of semantic analysis. It visits
// every expression bottom-up, setting computedType, materializing implicit
// conversions as CastExpr nodes, and resolving overloaded-function calls.
type ComputeTypes struct{}

func NewComputeTypes() *ComputeTypes { return &ComputeTypes{} }

func (ComputeTypes) Name() string { return "ComputeTypes" }

func (ComputeTypes) Run(ctx *Context) {
	t := &Typer{ctx: ctx}
	root := ctx.Module.Body.Scope.(*symbols.Scope)
	t.walkBlock(ctx.Module.Body, root, nil)
}

// Typer is the shared expression-typing engine: ComputeSymbolTypes (§4.5)
// uses it to evaluate type expressions in isolation, and ComputeTypes (§4.6)
// uses the same machinery across whole statement bodies.
type Typer struct {
	ctx *Context
}

// exprCtx is the rolling "what's wanted here" context spec.md §4.6
// describes: consumed by the expression it's handed to (IdentExpr/MemberExpr
// read ArgTypes, ListExpr/VarDef/CallExpr-argument/ReturnStmt read
// TargetType) and never propagated further than that one call.
type exprCtx struct {
	ArgTypes    []types.Type
	HasArgTypes bool
	TargetType  types.Type
}

func (t *Typer) typeExpr(e ast.Expr, scope *symbols.Scope, info ast.Info) types.Type {
	return t.typeExprCtx(e, scope, info, exprCtx{})
}

// peekType types e against a scratch diagnostics sink, for CallExpr's
// suspend-then-reresolve protocol (spec.md §4.6).
func (t *Typer) peekType(e ast.Expr, scope *symbols.Scope, info ast.Info) types.Type {
	saved := t.ctx.Log
	t.ctx.Log = diagnostics.NewLog(false)
	result := t.typeExprCtx(e, scope, info, exprCtx{})
	t.ctx.Log = saved
	return result
}

func (t *Typer) typeExprCtx(e ast.Expr, scope *symbols.Scope, info ast.Info, ec exprCtx) types.Type {
	var result types.Type
	switch v := e.(type) {
	case *ast.NullExpr:
		result = types.NullType{}
	case *ast.BoolExpr:
		result = types.PrimType{Kind: types.Bool}
	case *ast.IntExpr:
		result = types.PrimType{Kind: types.Int}
	case *ast.FloatExpr:
		result = types.PrimType{Kind: types.Float}
	case *ast.StringExpr:
		result = types.PrimType{Kind: types.String}
	case *ast.VarExpr:
		t.ctx.Log.Report(diagnostics.NotUseableType, v.Pos(), "'var' may only appear as a variable's declared type")
		result = types.ErrorType{}
	case *ast.ThisExpr:
		result = t.typeThis(v, info)
	case *ast.TypeExpr:
		result = types.MetaType{InstanceType: primitiveInstance(v.Keyword)}
	case *ast.IdentExpr:
		result = t.typeIdent(v, scope, ec)
	case *ast.MemberExpr:
		result = t.typeMember(v, scope, info, ec)
	case *ast.ListExpr:
		result = t.typeList(v, scope, info, ec)
	case *ast.UnaryExpr:
		result = t.typeUnary(v, scope, info)
	case *ast.BinaryExpr:
		result = t.typeBinary(v, scope, info)
	case *ast.CallExpr:
		result = t.typeCall(v, scope, info)
	case *ast.ParamExpr:
		result = t.typeParam(v, scope, info)
	case *ast.CastExpr:
		result = t.typeCast(v, scope, info)
	case *ast.IndexExpr:
		result = t.typeIndex(v, scope, info)
	case *ast.NullableExpr:
		result = t.typeNullable(v, scope, info)
	case *ast.BadExpr:
		result = types.ErrorType{}
	default:
		result = types.ErrorType{}
	}
	e.SetType(result)
	return result
}

func primitiveInstance(k lexer.Kind) types.Type {
	switch k {
	case lexer.KwBool:
		return types.PrimType{Kind: types.Bool}
	case lexer.KwInt:
		return types.PrimType{Kind: types.Int}
	case lexer.KwFloat:
		return types.PrimType{Kind: types.Float}
	case lexer.KwString:
		return types.PrimType{Kind: types.String}
	case lexer.KwVoid:
		return types.VoidType{}
	case lexer.KwList:
		return types.ListType{} // free form; ParamExpr instantiates it
	case lexer.KwFunction:
		return types.FuncType{} // free form
	default:
		return types.ErrorType{}
	}
}

func (t *Typer) typeThis(v *ast.ThisExpr, info ast.Info) types.Type {
	if info.FuncDef != nil && info.ClassDef != nil && !info.InStaticFunc {
		return types.ClassType{Name: info.ClassDef.Name, Def: info.ClassDef}
	}
	t.ctx.Log.Report(diagnostics.BadThis, v.Pos(), "'this' is only valid inside a non-static member function")
	return types.ErrorType{}
}

func (t *Typer) typeIdent(v *ast.IdentExpr, scope *symbols.Scope, ec exprCtx) types.Type {
	sym, ok := scope.Lookup(v.Name, symbols.Normal)
	if !ok {
		t.ctx.Log.Report(diagnostics.UndefinedSymbol, v.Pos(), "undefined symbol %q", v.Name)
		return types.ErrorType{}
	}
	v.Symbol = sym
	if sym.Kind != symbols.OverloadedFunc {
		return sym.Type
	}
	if !ec.HasArgTypes {
		t.ctx.Log.Report(diagnostics.NoOverloadContext, v.Pos(), "cannot resolve overloaded function without context")
		return types.ErrorType{}
	}
	resolved, resultType := t.resolveOverload(sym.Overloads, ec.ArgTypes, v.Pos())
	if resolved != nil {
		v.Symbol = resolved
	}
	return resultType
}

func (t *Typer) typeMember(v *ast.MemberExpr, scope *symbols.Scope, info ast.Info, ec exprCtx) types.Type {
	objType := t.typeExpr(v.Object, scope, info)
	if types.IsError(objType) {
		return types.ErrorType{}
	}

	nullable := types.IsNullable(objType)
	unwrapped := types.Unwrap(objType)

	var lookupScope *symbols.Scope
	var mode symbols.LookupMode
	switch it := unwrapped.(type) {
	case types.MetaType:
		ct, ok := it.InstanceType.(types.ClassType)
		if !ok {
			t.ctx.Log.Report(diagnostics.BadMemberAccess, v.Pos(), "%s has no static members", it.InstanceType)
			return types.ErrorType{}
		}
		lookupScope = ct.Def.(*ast.ClassDef).Body.Scope.(*symbols.Scope)
		mode = symbols.StaticMember
	case types.ClassType:
		lookupScope = it.Def.(*ast.ClassDef).Body.Scope.(*symbols.Scope)
		mode = symbols.InstanceMember
	default:
		t.ctx.Log.Report(diagnostics.BadMemberAccess, v.Pos(), "%s has no member %q", unwrapped, v.Name)
		return types.ErrorType{}
	}

	sym, found := lookupScope.Lookup(v.Name, mode)
	if !found {
		t.ctx.Log.Report(diagnostics.UndefinedSymbol, v.Pos(), "undefined member %q", v.Name)
		return types.ErrorType{}
	}
	v.Symbol = sym

	resultType := sym.Type
	if sym.Kind == symbols.OverloadedFunc {
		if !ec.HasArgTypes {
			t.ctx.Log.Report(diagnostics.NoOverloadContext, v.Pos(), "cannot resolve overloaded function without context")
			return types.ErrorType{}
		}
		resolved, rt := t.resolveOverload(sym.Overloads, ec.ArgTypes, v.Pos())
		if resolved != nil {
			v.Symbol = resolved
		}
		resultType = rt
	}
	if types.IsError(resultType) {
		return resultType
	}

	if nullable {
		if v.IsSafeDereference {
			resultType = types.NewNullable(resultType)
		} else {
			cast := &ast.CastExpr{Location: v.Object.Pos(), Value: v.Object, Implicit: true}
			cast.SetType(unwrapped)
			v.Object = cast
		}
	}
	return resultType
}

func (t *Typer) resolveOverload(overloads []*symbols.Symbol, argTypes []types.Type, pos lexer.Position) (*symbols.Symbol, types.Type) {
	var exact, implicit []*symbols.Symbol
	for _, sym := range overloads {
		ft, ok := sym.Type.(types.FuncType)
		if !ok || len(ft.Args) != len(argTypes) {
			continue
		}
		isExact, isImplicit := true, true
		for i, at := range ft.Args {
			if !at.Equals(argTypes[i]) {
				isExact = false
				if !types.ConvertibleTo(argTypes[i], at) {
					isImplicit = false
				}
			}
		}
		if isExact {
			exact = append(exact, sym)
		}
		if isImplicit {
			implicit = append(implicit, sym)
		}
	}
	set := exact
	if len(set) == 0 {
		set = implicit
	}
	switch {
	case len(set) == 0:
		t.ctx.Log.Report(diagnostics.CallNotFound, pos, "cannot call with arguments \"(%s)\"", types.Describe(argTypes))
		return nil, types.ErrorType{}
	case len(set) > 1:
		t.ctx.Log.Report(diagnostics.MultipleOverloadsFound, pos, "ambiguous call with arguments \"(%s)\"", types.Describe(argTypes))
		return nil, types.ErrorType{}
	default:
		return set[0], set[0].Type
	}
}

func (t *Typer) typeList(v *ast.ListExpr, scope *symbols.Scope, info ast.Info, ec exprCtx) types.Type {
	if ec.TargetType == nil {
		t.ctx.Log.Report(diagnostics.NoListContext, v.Pos(), "cannot resolve type of list literal without context")
		return types.ErrorType{}
	}
	lt, ok := ec.TargetType.(types.ListType)
	if !ok {
		t.ctx.Log.Report(diagnostics.NoListContext, v.Pos(), "cannot resolve type of list literal without context")
		return types.ErrorType{}
	}
	itemType := lt.Item
	for i, item := range v.Items {
		got := t.typeExprCtx(item, scope, info, exprCtx{TargetType: itemType})
		if types.IsError(got) {
			continue
		}
		if !got.Equals(itemType) {
			if types.ConvertibleTo(got, itemType) {
				v.Items[i] = wrapCast(item, itemType)
			} else {
				t.ctx.Log.Report(diagnostics.TypeMismatch, item.Pos(), "cannot convert %s to %s", got, itemType)
			}
		}
	}
	return types.ListType{Item: itemType}
}

func (t *Typer) typeUnary(v *ast.UnaryExpr, scope *symbols.Scope, info ast.Info) types.Type {
	operand := t.typeExpr(v.Operand, scope, info)
	if types.IsError(operand) {
		return types.ErrorType{}
	}
	switch v.Operator {
	case lexer.Minus:
		if numeric(operand) {
			return operand
		}
	case lexer.KwNot:
		if isBool(operand) {
			return operand
		}
	}
	t.ctx.Log.Report(diagnostics.UnaryOpNotFound, v.Pos(), "no %s operator for %s", v.Operator, operand)
	return types.ErrorType{}
}

func (t *Typer) typeBinary(v *ast.BinaryExpr, scope *symbols.Scope, info ast.Info) types.Type {
	switch v.Operator {
	case lexer.Assign:
		left := t.typeExpr(v.Left, scope, info)
		right := t.typeExprCtx(v.Right, scope, info, exprCtx{TargetType: left})
		if types.IsError(left) || types.IsError(right) {
			return types.ErrorType{}
		}
		if !left.Equals(right) {
			if types.ConvertibleTo(right, left) {
				v.Right = wrapCast(v.Right, left)
			} else {
				t.ctx.Log.Report(diagnostics.TypeMismatch, v.Pos(), "cannot assign %s to %s", right, left)
				return types.ErrorType{}
			}
		}
		return left

	case lexer.QuestionQuestion:
		left := t.typeExpr(v.Left, scope, info)
		if types.IsError(left) {
			return types.ErrorType{}
		}
		if !types.IsNullable(left) {
			t.ctx.Log.Report(diagnostics.BadNullableType, v.Pos(), "left operand of ?? must be nullable, got %s", left)
			return types.ErrorType{}
		}
		unwrapped := types.Unwrap(left)
		right := t.typeExprCtx(v.Right, scope, info, exprCtx{TargetType: unwrapped})
		if types.IsError(right) {
			return types.ErrorType{}
		}
		if !right.Equals(unwrapped) {
			if types.ConvertibleTo(right, unwrapped) {
				v.Right = wrapCast(v.Right, unwrapped)
			} else {
				t.ctx.Log.Report(diagnostics.TypeMismatch, v.Pos(), "cannot convert %s to %s", right, unwrapped)
				return types.ErrorType{}
			}
		}
		return unwrapped

	case lexer.KwAnd, lexer.KwOr:
		left := t.typeExpr(v.Left, scope, info)
		right := t.typeExpr(v.Right, scope, info)
		if !isBool(left) || !isBool(right) {
			if !types.IsError(left) && !types.IsError(right) {
				t.ctx.Log.Report(diagnostics.BinaryOpNotFound, v.Pos(), "%s requires bool operands, got %s and %s", v.Operator, left, right)
			}
			return types.ErrorType{}
		}
		return types.PrimType{Kind: types.Bool}

	case lexer.Plus:
		left := t.typeExpr(v.Left, scope, info)
		right := t.typeExpr(v.Right, scope, info)
		if isString(left) && isString(right) {
			return types.PrimType{Kind: types.String}
		}
		return t.widenArith(v, left, right)

	case lexer.Minus, lexer.Star, lexer.Slash:
		left := t.typeExpr(v.Left, scope, info)
		right := t.typeExpr(v.Right, scope, info)
		return t.widenArith(v, left, right)

	case lexer.Shl, lexer.Shr, lexer.Amp, lexer.Pipe, lexer.Caret:
		left := t.typeExpr(v.Left, scope, info)
		right := t.typeExpr(v.Right, scope, info)
		if !isInt(left) || !isInt(right) {
			if !types.IsError(left) && !types.IsError(right) {
				t.ctx.Log.Report(diagnostics.BinaryOpNotFound, v.Pos(), "%s requires int operands, got %s and %s", v.Operator, left, right)
			}
			return types.ErrorType{}
		}
		return types.PrimType{Kind: types.Int}

	case lexer.Equal, lexer.NotEqual:
		left := t.typeExpr(v.Left, scope, info)
		right := t.typeExpr(v.Right, scope, info)
		if types.IsError(left) || types.IsError(right) {
			return types.ErrorType{}
		}
		if isMeta(left) || isMeta(right) {
			t.ctx.Log.Report(diagnostics.MetaTypeExpr, v.Pos(), "no operator on type descriptions")
			return types.ErrorType{}
		}
		if _, ok := widen(left, right); !ok {
			t.ctx.Log.Report(diagnostics.BinaryOpNotFound, v.Pos(), "cannot compare %s and %s", left, right)
			return types.ErrorType{}
		}
		return types.PrimType{Kind: types.Bool}

	case lexer.Less, lexer.Greater, lexer.LessEqual, lexer.GreaterEqual:
		left := t.typeExpr(v.Left, scope, info)
		right := t.typeExpr(v.Right, scope, info)
		if types.IsError(left) || types.IsError(right) {
			return types.ErrorType{}
		}
		if (numeric(left) && numeric(right)) || (isString(left) && isString(right)) {
			return types.PrimType{Kind: types.Bool}
		}
		t.ctx.Log.Report(diagnostics.BinaryOpNotFound, v.Pos(), "%s requires matching numeric or string operands, got %s and %s", v.Operator, left, right)
		return types.ErrorType{}
	}
	return types.ErrorType{}
}

func (t *Typer) widenArith(v *ast.BinaryExpr, left, right types.Type) types.Type {
	if types.IsError(left) || types.IsError(right) {
		return types.ErrorType{}
	}
	if !numeric(left) || !numeric(right) {
		t.ctx.Log.Report(diagnostics.BinaryOpNotFound, v.Pos(), "%s requires numeric operands, got %s and %s", v.Operator, left, right)
		return types.ErrorType{}
	}
	wt, ok := widen(left, right)
	if !ok {
		t.ctx.Log.Report(diagnostics.BinaryOpNotFound, v.Pos(), "%s requires matching operands, got %s and %s", v.Operator, left, right)
		return types.ErrorType{}
	}
	if !left.Equals(wt) {
		v.Left = wrapCast(v.Left, wt)
	}
	if !right.Equals(wt) {
		v.Right = wrapCast(v.Right, wt)
	}
	return wt
}

// typeCall implements spec.md §4.6's suspend-then-reresolve protocol.
func (t *Typer) typeCall(v *ast.CallExpr, scope *symbols.Scope, info ast.Info) types.Type {
	calleeType := t.peekType(v.Callee, scope, info)

	// An overload set peeked without argument context types to ErrorType, so
	// it is recognized by the symbol typeIdent/typeMember bound before that.
	_, overloaded := calleeType.(types.OverloadedFuncType)
	var calleeSym any
	switch c := v.Callee.(type) {
	case *ast.IdentExpr:
		calleeSym = c.Symbol
	case *ast.MemberExpr:
		calleeSym = c.Symbol
	}
	if sym, ok := calleeSym.(*symbols.Symbol); ok && sym.Kind == symbols.OverloadedFunc {
		overloaded = true
	}

	if overloaded {
		argTypes := make([]types.Type, len(v.Args))
		for i, a := range v.Args {
			argTypes[i] = t.typeExpr(a, scope, info)
		}
		resolvedCallee := t.typeExprCtx(v.Callee, scope, info, exprCtx{ArgTypes: argTypes, HasArgTypes: true})
		if types.IsError(resolvedCallee) {
			return types.ErrorType{}
		}
		ft, ok := resolvedCallee.(types.FuncType)
		if !ok {
			t.ctx.Log.Report(diagnostics.CallNotFound, v.Pos(), "cannot call with arguments \"(%s)\"", types.Describe(argTypes))
			return types.ErrorType{}
		}
		for i := range v.Args {
			if wrapped, ok := assignInto(v.Args[i], argTypes[i], ft.Args[i]); ok {
				v.Args[i] = wrapped
			}
		}
		return ft.Return
	}

	calleeType = t.typeExpr(v.Callee, scope, info)
	if types.IsError(calleeType) {
		for _, a := range v.Args {
			t.typeExpr(a, scope, info)
		}
		return types.ErrorType{}
	}

	if mt, ok := calleeType.(types.MetaType); ok {
		if _, isClass := mt.InstanceType.(types.ClassType); isClass && types.IsInstantiable(calleeType) && len(v.Args) == 0 {
			v.IsCtor = true
			return mt.InstanceType
		}
		t.ctx.Log.Report(diagnostics.MetaTypeExpr, v.Pos(), "cannot call a type description")
		for _, a := range v.Args {
			t.typeExpr(a, scope, info)
		}
		return types.ErrorType{}
	}

	ft, ok := calleeType.(types.FuncType)
	if !ok || len(v.Args) != len(ft.Args) {
		argTypes := make([]types.Type, len(v.Args))
		for i, a := range v.Args {
			argTypes[i] = t.typeExpr(a, scope, info)
		}
		t.ctx.Log.Report(diagnostics.CallNotFound, v.Pos(), "cannot call with arguments \"(%s)\"", types.Describe(argTypes))
		return types.ErrorType{}
	}

	for i, a := range v.Args {
		want := ft.Args[i]
		got := t.typeExprCtx(a, scope, info, exprCtx{TargetType: want})
		if types.IsError(got) {
			continue
		}
		if wrapped, ok := assignInto(a, got, want); ok {
			v.Args[i] = wrapped
		} else {
			t.ctx.Log.Report(diagnostics.TypeMismatch, a.Pos(), "cannot convert %s to %s", got, want)
		}
	}
	return ft.Return
}

func (t *Typer) typeParam(v *ast.ParamExpr, scope *symbols.Scope, info ast.Info) types.Type {
	baseType := t.typeExpr(v.Base, scope, info)
	mt, ok := baseType.(types.MetaType)
	if !ok {
		if !types.IsError(baseType) {
			t.ctx.Log.Report(diagnostics.NotUseableType, v.Pos(), "%s is not generic", baseType)
		}
		return types.ErrorType{}
	}

	switch mt.InstanceType.(type) {
	case types.ListType:
		if len(v.Args) != 1 {
			t.ctx.Log.Report(diagnostics.BadTypeParamCount, v.Pos(), "list takes exactly one type argument, got %d", len(v.Args))
			return types.ErrorType{}
		}
		itemMeta := t.typeExpr(v.Args[0], scope, info)
		itemMT, ok := itemMeta.(types.MetaType)
		if !ok || !types.IsInstantiable(itemMeta) {
			t.ctx.Log.Report(diagnostics.NotUseableType, v.Args[0].Pos(), "not a usable list item type")
			return types.ErrorType{}
		}
		return types.MetaType{InstanceType: types.ListType{Item: itemMT.InstanceType}}

	case types.FuncType:
		if len(v.Args) < 1 {
			t.ctx.Log.Report(diagnostics.BadTypeParamCount, v.Pos(), "function requires at least a return type argument")
			return types.ErrorType{}
		}
		argMetas := make([]types.Type, len(v.Args))
		for i, a := range v.Args {
			m := t.typeExpr(a, scope, info)
			mt2, ok := m.(types.MetaType)
			if !ok {
				t.ctx.Log.Report(diagnostics.NotUseableType, a.Pos(), "not a usable type argument")
				return types.ErrorType{}
			}
			argMetas[i] = mt2.InstanceType
		}
		return types.MetaType{InstanceType: types.FuncType{Return: argMetas[0], Args: argMetas[1:]}}

	default:
		t.ctx.Log.Report(diagnostics.NotUseableType, v.Pos(), "%s is not generic", mt.InstanceType)
		return types.ErrorType{}
	}
}

func (t *Typer) typeCast(v *ast.CastExpr, scope *symbols.Scope, info ast.Info) types.Type {
	targetMeta := t.typeExpr(v.TargetExpr, scope, info)
	mt, ok := targetMeta.(types.MetaType)
	if !ok || !types.IsInstantiable(targetMeta) {
		if !types.IsError(targetMeta) {
			t.ctx.Log.Report(diagnostics.NotUseableType, v.TargetExpr.Pos(), "cast target must be a concrete type")
		}
		t.typeExpr(v.Value, scope, info)
		return types.ErrorType{}
	}
	target := mt.InstanceType
	value := t.typeExprCtx(v.Value, scope, info, exprCtx{TargetType: target})
	if types.IsError(value) {
		return types.ErrorType{}
	}
	if value.Equals(target) || types.ConvertibleTo(value, target) || (numericPrim(value) && numericPrim(target)) {
		return target
	}
	t.ctx.Log.Report(diagnostics.InvalidCast, v.Pos(), "cannot cast %s to %s", value, target)
	return types.ErrorType{}
}

func (t *Typer) typeIndex(v *ast.IndexExpr, scope *symbols.Scope, info ast.Info) types.Type {
	obj := t.typeExpr(v.Object, scope, info)
	idx := t.typeExpr(v.Index, scope, info)
	if types.IsError(obj) {
		return types.ErrorType{}
	}
	lt, ok := obj.(types.ListType)
	if !ok {
		t.ctx.Log.Report(diagnostics.NotUseableType, v.Pos(), "cannot index a value of type %s", obj)
		return types.ErrorType{}
	}
	if !isInt(idx) {
		if !types.IsError(idx) {
			t.ctx.Log.Report(diagnostics.TypeMismatch, v.Index.Pos(), "list index must be int, got %s", idx)
		}
		return types.ErrorType{}
	}
	return lt.Item
}

func (t *Typer) typeNullable(v *ast.NullableExpr, scope *symbols.Scope, info ast.Info) types.Type {
	operand := t.typeExpr(v.Operand, scope, info)
	mt, ok := operand.(types.MetaType)
	if !ok {
		if !types.IsError(operand) {
			t.ctx.Log.Report(diagnostics.BadNullableType, v.Pos(), "'?' requires a type operand")
		}
		return types.ErrorType{}
	}
	if types.IsNullable(mt.InstanceType) {
		t.ctx.Log.Report(diagnostics.BadNullableType, v.Pos(), "%s is already nullable", mt.InstanceType)
		return types.ErrorType{}
	}
	return types.MetaType{InstanceType: types.NewNullable(mt.InstanceType)}
}

// --- statement-level walk (ComputeTypes's half of the job) ---

func (t *Typer) walkBlock(b *ast.Block, scope *symbols.Scope, currentFunc *ast.FuncDef) {
	if b == nil {
		return
	}
	for _, stmt := range b.Statements {
		t.walkStmt(stmt, scope, currentFunc)
	}
}

func (t *Typer) walkStmt(stmt ast.Stmt, scope *symbols.Scope, currentFunc *ast.FuncDef) {
	switch s := stmt.(type) {
	case *ast.ExternalStmt:
		t.walkBlock(s.Body, scope, currentFunc)
	case *ast.ClassDef:
		t.walkBlock(s.Body, s.Body.Scope.(*symbols.Scope), currentFunc)
	case *ast.VarDef:
		t.walkVarDef(s, scope)
	case *ast.FuncDef:
		if s.Body != nil {
			t.walkBlock(s.Body, s.Body.Scope.(*symbols.Scope), s)
		}
	case *ast.IfStmt:
		t.typeExpr(s.Test, scope, s.Info)
		t.walkBlock(s.ThenBlock, s.ThenBlock.Scope.(*symbols.Scope), currentFunc)
		if s.ElseBlock != nil {
			t.walkBlock(s.ElseBlock, s.ElseBlock.Scope.(*symbols.Scope), currentFunc)
		}
	case *ast.WhileStmt:
		t.typeExpr(s.Test, scope, s.Info)
		t.walkBlock(s.Body, s.Body.Scope.(*symbols.Scope), currentFunc)
	case *ast.ReturnStmt:
		t.walkReturn(s, scope, currentFunc)
	case *ast.ExprStmt:
		t.typeExpr(s.Value, scope, s.Info)
	}
}

func (t *Typer) walkVarDef(s *ast.VarDef, scope *symbols.Scope) {
	sym := s.Symbol.(*symbols.Symbol)

	if _, isVar := s.TypeExpr.(*ast.VarExpr); isVar {
		if s.Init == nil {
			t.ctx.Log.Report(diagnostics.NotUseableType, s.Pos(), "cannot infer type without an initializer")
			sym.Type = types.ErrorType{}
			s.TypeExpr.SetType(types.ErrorType{})
			return
		}
		initType := t.typeExpr(s.Init, scope, s.Info)
		if _, isNull := initType.(types.NullType); isNull {
			t.ctx.Log.Report(diagnostics.NotUseableType, s.Pos(), "cannot infer type from null")
			initType = types.ErrorType{}
		} else if _, isVoid := initType.(types.VoidType); isVoid {
			t.ctx.Log.Report(diagnostics.NotUseableType, s.Pos(), "cannot infer type from void")
			initType = types.ErrorType{}
		}
		sym.Type = initType
		s.TypeExpr.SetType(types.MetaType{InstanceType: initType})
		return
	}

	if s.Init == nil {
		return
	}
	declared := sym.Type
	got := t.typeExprCtx(s.Init, scope, s.Info, exprCtx{TargetType: declared})
	if types.IsError(declared) || types.IsError(got) {
		return
	}
	if wrapped, ok := assignInto(s.Init, got, declared); ok {
		s.Init = wrapped
	} else {
		t.ctx.Log.Report(diagnostics.TypeMismatch, s.Init.Pos(), "cannot convert %s to %s", got, declared)
	}
}

func (t *Typer) walkReturn(s *ast.ReturnStmt, scope *symbols.Scope, currentFunc *ast.FuncDef) {
	if currentFunc == nil {
		return // StructuralCheck already rejects a return outside a function
	}
	fsym := currentFunc.Symbol.(*symbols.Symbol)
	ft, ok := fsym.Type.(types.FuncType)
	var retType types.Type = types.ErrorType{}
	if ok {
		retType = ft.Return
	}
	_, wantVoid := retType.(types.VoidType)

	if s.Value == nil {
		if !wantVoid && !types.IsError(retType) {
			t.ctx.Log.Report(diagnostics.VoidReturn, s.Pos(), "missing return value")
		}
		return
	}
	if wantVoid {
		t.ctx.Log.Report(diagnostics.VoidReturn, s.Pos(), "function returning void must not return a value")
		t.typeExpr(s.Value, scope, s.Info)
		return
	}
	got := t.typeExprCtx(s.Value, scope, s.Info, exprCtx{TargetType: retType})
	if types.IsError(got) || types.IsError(retType) {
		return
	}
	if wrapped, ok := assignInto(s.Value, got, retType); ok {
		s.Value = wrapped
	} else {
		t.ctx.Log.Report(diagnostics.TypeMismatch, s.Value.Pos(), "cannot convert %s to %s", got, retType)
	}
}

// --- small shared helpers ---

func wrapCast(e ast.Expr, target types.Type) ast.Expr {
	c := &ast.CastExpr{Location: e.Pos(), Value: e, Implicit: true}
	c.SetType(target)
	return c
}

// assignInto reports whether a value typed got can flow into a target typed
// want, inserting whatever implicit cast makes that true: a widening cast
// when ConvertibleTo already holds, or - when got is nullable and want is
// not - the same implicit unwrap typeMember inserts for a bare `.` on a
// nullable receiver. Binding a nullable value to a non-nullable parameter,
// local, or return slot is exactly this kind of unwrap (spec.md §8 Scenario
// A): flow validation, not ComputeTypes, is responsible for deciding
// whether that unwrap is ever actually safe.
func assignInto(e ast.Expr, got, want types.Type) (ast.Expr, bool) {
	if got.Equals(want) {
		return e, true
	}
	if types.ConvertibleTo(got, want) {
		return wrapCast(e, want), true
	}
	if types.IsNullable(got) && !types.IsNullable(want) {
		unwrapped := types.Unwrap(got)
		if unwrapped.Equals(want) || types.ConvertibleTo(unwrapped, want) {
			return wrapCast(e, want), true
		}
	}
	return e, false
}

func widen(a, b types.Type) (types.Type, bool) {
	if a.Equals(b) {
		return a, true
	}
	if types.ConvertibleTo(a, b) {
		return b, true
	}
	if types.ConvertibleTo(b, a) {
		return a, true
	}
	return nil, false
}

func numeric(t types.Type) bool {
	pt, ok := t.(types.PrimType)
	return ok && (pt.Kind == types.Int || pt.Kind == types.Float)
}

func numericPrim(t types.Type) bool { return numeric(t) }

func isBool(t types.Type) bool {
	pt, ok := t.(types.PrimType)
	return ok && pt.Kind == types.Bool
}

func isString(t types.Type) bool {
	pt, ok := t.(types.PrimType)
	return ok && pt.Kind == types.String
}

func isInt(t types.Type) bool {
	pt, ok := t.(types.PrimType)
	return ok && pt.Kind == types.Int
}

func isMeta(t types.Type) bool {
	_, ok := t.(types.MetaType)
	return ok
}

// validMetaType unwraps a MetaType with no free parameters, the requirement
// ComputeSymbolTypes (§4.5) places on every declared type expression.
func validMetaType(t types.Type) (types.Type, bool) {
	if types.IsError(t) {
		return nil, false
	}
	mt, ok := t.(types.MetaType)
	if !ok || types.HasFreeParams(mt.InstanceType) {
		return nil, false
	}
	return mt.InstanceType, true
}
