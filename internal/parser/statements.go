package parser

import (
	"github.com/dineshkummarc/TheDS-next2Tinder/internal/ast"
	"github.com/dineshkummarc/TheDS-next2Tinder/internal/lexer"
)

// parseStatement parses one source statement, returning more than one
// ast.Stmt only for a comma-separated variable declaration (spec.md §4.2:
// "comma-separated additional declarations sharing the parsed type").
func (p *Parser) parseStatement() []ast.Stmt {
	switch p.cur().Kind {
	case lexer.KwIf:
		return []ast.Stmt{p.parseIfStmt()}
	case lexer.KwWhile:
		return []ast.Stmt{p.parseWhileStmt()}
	case lexer.KwReturn:
		return []ast.Stmt{p.parseReturnStmt()}
	case lexer.KwExternal:
		return []ast.Stmt{p.parseExternalStmt()}
	case lexer.KwClass:
		return []ast.Stmt{p.parseClassDef()}
	case lexer.KwStatic:
		return p.parseStaticDecl()
	default:
		return p.parseExprOrDecl()
	}
}

func (p *Parser) parseBlock() *ast.Block {
	open := p.expect(lexer.LBrace)
	block := &ast.Block{Location: open.Pos}
	p.skipStmtSeparators()
	for !p.check(lexer.RBrace) && !p.atEnd() {
		block.Statements = append(block.Statements, p.parseStatement()...)
		p.skipStmtSeparators()
	}
	p.expect(lexer.RBrace)
	return block
}

func (p *Parser) parseIfStmt() ast.Stmt {
	kw := p.advance()
	test := p.parseExpression(lowest)
	thenBlock := p.parseBlock()

	var elseBlock *ast.Block
	if _, ok := p.accept(lexer.KwElse); ok {
		if p.check(lexer.KwIf) {
			nested := p.parseIfStmt()
			elseBlock = &ast.Block{Location: nested.Pos(), Statements: []ast.Stmt{nested}}
		} else {
			elseBlock = p.parseBlock()
		}
	}
	return &ast.IfStmt{Location: kw.Pos, Test: test, ThenBlock: thenBlock, ElseBlock: elseBlock, Info: p.info}
}

func (p *Parser) parseWhileStmt() ast.Stmt {
	kw := p.advance()
	test := p.parseExpression(lowest)
	body := p.parseBlock()
	return &ast.WhileStmt{Location: kw.Pos, Test: test, Body: body, Info: p.info}
}

func (p *Parser) parseReturnStmt() ast.Stmt {
	kw := p.advance()
	info := p.info
	var value ast.Expr
	if !p.atStmtEnd() {
		value = p.parseExpression(lowest)
	}
	p.consumeStmtEnd()
	return &ast.ReturnStmt{Location: kw.Pos, Value: value, Info: info}
}

func (p *Parser) parseExternalStmt() ast.Stmt {
	kw := p.advance()
	info := p.info

	savedExternal := p.info.InExternal
	p.info.InExternal = true
	body := p.parseBlock()
	p.info.InExternal = savedExternal

	return &ast.ExternalStmt{Location: kw.Pos, Body: body, Info: info}
}

func (p *Parser) parseClassDef() ast.Stmt {
	kw := p.advance()
	nameTok := p.expect(lexer.Ident)
	classDef := &ast.ClassDef{Location: kw.Pos, Name: nameTok.Text, Info: p.info}

	savedClass := p.info.ClassDef
	p.info.ClassDef = classDef
	classDef.Body = p.parseBlock()
	p.info.ClassDef = savedClass

	return classDef
}

// parseStaticDecl handles the `static` prefix, which only ever precedes a
// function definition (spec.md §3's FuncDef.isStatic; there is no such
// thing as a static variable declaration in this grammar).
func (p *Parser) parseStaticDecl() []ast.Stmt {
	kw := p.advance()
	typeExpr := p.parseExpression(lowest)
	if p.atStmtEnd() {
		p.errorf(kw.Pos, "'static' must precede a function declaration")
		p.consumeStmtEnd()
		return nil
	}
	nameTok := p.expect(lexer.Ident)
	if !p.check(lexer.LParen) {
		p.errorf(nameTok.Pos, "'static' must precede a function declaration")
		return p.finishVarDecl(typeExpr, nameTok)
	}
	return []ast.Stmt{p.finishFuncDef(kw.Pos, typeExpr, nameTok, true)}
}

// parseExprOrDecl implements spec.md §4.2's core disambiguation: an
// expression followed by end-of-statement is an ExprStmt; otherwise it is
// reinterpreted as a type expression, which must be followed by an
// identifier naming a function (`ident (`) or variable definition.
func (p *Parser) parseExprOrDecl() []ast.Stmt {
	start := p.cur().Pos
	expr := p.parseExpression(lowest)
	if p.atStmtEnd() {
		p.consumeStmtEnd()
		return []ast.Stmt{&ast.ExprStmt{Location: start, Value: expr, Info: p.info}}
	}

	nameTok := p.expect(lexer.Ident)
	if p.check(lexer.LParen) {
		return []ast.Stmt{p.finishFuncDef(start, expr, nameTok, false)}
	}
	return p.finishVarDecl(expr, nameTok)
}

func (p *Parser) finishFuncDef(pos lexer.Position, returnType ast.Expr, nameTok lexer.Token, isStatic bool) *ast.FuncDef {
	fd := &ast.FuncDef{Location: pos, Name: nameTok.Text, IsStatic: isStatic, ReturnTypeExpr: returnType, Info: p.info}

	savedFunc, savedStatic := p.info.FuncDef, p.info.InStaticFunc
	p.info.FuncDef, p.info.InStaticFunc = fd, isStatic

	p.advance() // (
	savedArgList := p.info.InFuncArgList
	p.info.InFuncArgList = true
	for !p.check(lexer.RParen) && !p.atEnd() {
		argType := p.parseExpression(lowest)
		argName := p.expect(lexer.Ident)
		arg := &ast.VarDef{Location: argName.Pos, Name: argName.Text, TypeExpr: argType, Info: p.info}
		// A default value is syntactically accepted here; StructuralCheck
		// (spec.md §4.3) is what reports DefaultArgNotAllowed.
		if _, ok := p.accept(lexer.Assign); ok {
			arg.Init = p.parseExpression(lowest)
		}
		fd.Args = append(fd.Args, arg)
		if _, ok := p.accept(lexer.Comma); !ok {
			break
		}
	}
	p.expect(lexer.RParen)
	p.info.InFuncArgList = savedArgList

	if p.check(lexer.LBrace) {
		fd.Body = p.parseBlock()
	} else {
		// External-style declaration: no body, just an end-of-statement.
		p.consumeStmtEnd()
	}

	p.info.FuncDef, p.info.InStaticFunc = savedFunc, savedStatic
	return fd
}

// finishVarDecl parses the `name [= init] (, name [= init])*` tail of a
// variable declaration, desugaring a comma list into sibling VarDefs that
// all share the same parsed type expression.
func (p *Parser) finishVarDecl(typeExpr ast.Expr, nameTok lexer.Token) []ast.Stmt {
	var decls []ast.Stmt
	for {
		vd := &ast.VarDef{Location: nameTok.Pos, Name: nameTok.Text, TypeExpr: typeExpr, Info: p.info}
		if _, ok := p.accept(lexer.Assign); ok {
			vd.Init = p.parseExpression(lowest)
		}
		decls = append(decls, vd)
		if _, ok := p.accept(lexer.Comma); !ok {
			break
		}
		nameTok = p.expect(lexer.Ident)
	}
	p.consumeStmtEnd()
	return decls
}
