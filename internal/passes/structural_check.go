package passes

import (
	"github.com/dineshkummarc/TheDS-next2Tinder/internal/ast"
	"github.com/dineshkummarc/TheDS-next2Tinder/internal/diagnostics"
)

// StructuralCheck is spec.md §4.3: post-parse sanity checks that depend only
// on breadcrumbs and syntactic kinds, run before any symbol or type
// resolution happens.
type StructuralCheck struct{}

func NewStructuralCheck() *StructuralCheck { return &StructuralCheck{} }

func (StructuralCheck) Name() string { return "StructuralCheck" }

func (StructuralCheck) Run(ctx *Context) {
	c := &structuralChecker{ctx: ctx}
	c.checkBlock(ctx.Module.Body, "module")
}

type structuralChecker struct{ ctx *Context }

func (c *structuralChecker) checkBlock(b *ast.Block, place string) {
	if b == nil {
		return
	}
	for _, stmt := range b.Statements {
		c.checkStmt(stmt, place)
	}
}

func (c *structuralChecker) notAllowed(stmt ast.Stmt, place string) {
	c.ctx.Log.Report(diagnostics.StmtNotAllowed, stmt.Pos(), "statement not allowed in %s", place)
}

func (c *structuralChecker) checkStmt(stmt ast.Stmt, place string) {
	switch s := stmt.(type) {
	case *ast.ExternalStmt:
		if place != "module" {
			c.notAllowed(stmt, place)
			return
		}
		c.checkBlock(s.Body, "external")

	case *ast.ClassDef:
		if place != "module" && place != "class" && place != "external" {
			c.notAllowed(stmt, place)
			return
		}
		c.checkBlock(s.Body, "class")

	case *ast.VarDef:
		if s.Init != nil {
			switch place {
			case "module":
				c.ctx.Log.Report(diagnostics.StmtNotAllowed, s.Pos(),
					"variable initializers are forbidden at module scope")
			case "external":
				c.ctx.Log.Report(diagnostics.StmtNotAllowed, s.Pos(),
					"variable initializers are forbidden inside external blocks")
			}
		}

	case *ast.FuncDef:
		if place == "function" {
			c.notAllowed(stmt, place)
			return
		}
		for _, arg := range s.Args {
			if arg.Init != nil {
				c.ctx.Log.Report(diagnostics.DefaultArgNotAllowed, arg.Pos(),
					"function default arguments are forbidden")
			}
		}
		if place == "external" {
			if s.Body != nil {
				c.ctx.Log.Report(diagnostics.FunctionBody, s.Pos(),
					"a function inside external must have no body")
			}
			return
		}
		if s.Body == nil {
			c.ctx.Log.Report(diagnostics.FunctionBody, s.Pos(),
				"a function outside external must have a body")
			return
		}
		c.checkBlock(s.Body, "function")

	case *ast.IfStmt:
		if place != "function" {
			c.notAllowed(stmt, place)
			return
		}
		c.checkBlock(s.ThenBlock, "function")
		c.checkBlock(s.ElseBlock, "function")

	case *ast.WhileStmt:
		if place != "function" {
			c.notAllowed(stmt, place)
			return
		}
		c.checkBlock(s.Body, "function")

	case *ast.ReturnStmt, *ast.ExprStmt:
		if place != "function" {
			c.notAllowed(stmt, place)
		}
	}
}
