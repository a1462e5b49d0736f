// Package parser implements Tinder's Pratt expression parser and the
// statement grammar built on top of it (spec.md §4.2).
//
// The design follows the teacher's parser
// (_examples/CWBudde-go-dws/internal/parser/parser.go): a precedence table
// keyed by token kind, prefix/infix parse-function maps, and a single
// parseExpression(minBindingPower) loop. Unlike the teacher, Tinder has no
// separate type grammar: a type reference ("list<int>", "string?") is
// parsed by the very same expression parser and only later recognized as a
// type by ComputeTypes (spec.md §4.6), so there is no parseType at all.
package parser

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/dineshkummarc/TheDS-next2Tinder/internal/ast"
	"github.com/dineshkummarc/TheDS-next2Tinder/internal/diagnostics"
	"github.com/dineshkummarc/TheDS-next2Tinder/internal/lexer"
	"github.com/dineshkummarc/TheDS-next2Tinder/internal/types"
)

// Binding powers, spec.md §4.2's table verbatim.
const (
	lowest     = 0
	assignBP   = 10
	coalesceBP = 20
	logicalBP  = 30
	equalityBP = 40
	relationBP = 50
	bitwiseBP  = 60
	sumBP      = 70
	productBP  = 80
	castBP     = 90
	prefixBP   = 100
	postfixBP  = 110
)

var precedences = map[lexer.Kind]int{
	lexer.Assign:           assignBP,
	lexer.QuestionQuestion: coalesceBP,
	lexer.KwAnd:            logicalBP,
	lexer.KwOr:             logicalBP,
	lexer.Equal:            equalityBP,
	lexer.NotEqual:         equalityBP,
	lexer.Less:             relationBP,
	lexer.Greater:          relationBP,
	lexer.LessEqual:        relationBP,
	lexer.GreaterEqual:     relationBP,
	lexer.Shl:              bitwiseBP,
	lexer.Shr:              bitwiseBP,
	lexer.Amp:              bitwiseBP,
	lexer.Pipe:             bitwiseBP,
	lexer.Caret:            bitwiseBP,
	lexer.Plus:             sumBP,
	lexer.Minus:            sumBP,
	lexer.Star:             productBP,
	lexer.Slash:            productBP,
	lexer.KwAs:             castBP,
	lexer.Dot:              postfixBP,
	lexer.QuestionDot:      postfixBP,
	lexer.LParen:           postfixBP,
	lexer.LParam:           postfixBP,
	lexer.LBracket:         postfixBP,
	lexer.Question:         postfixBP,
}

type prefixParseFn func() ast.Expr
type infixParseFn func(left ast.Expr) ast.Expr

// Parser turns a disambiguated token stream into an *ast.Module. It never
// backtracks: every ambiguity Tinder's grammar has was already resolved by
// the lexer's disambiguation phase (spec.md §4.1).
type Parser struct {
	tokens []lexer.Token
	pos    int
	file   string
	log    *diagnostics.Log

	prefixFns map[lexer.Kind]prefixParseFn
	infixFns  map[lexer.Kind]infixParseFn

	info ast.Info
}

// New creates a Parser over tokens (typically lexer.Tokenize's output after
// lexer.Disambiguate), reporting syntax errors to log.
func New(file string, tokens []lexer.Token, log *diagnostics.Log) *Parser {
	p := &Parser{tokens: tokens, file: file, log: log}
	p.prefixFns = map[lexer.Kind]prefixParseFn{
		lexer.Ident:     p.parseIdent,
		lexer.IntLit:    p.parseIntLit,
		lexer.FloatLit:  p.parseFloatLit,
		lexer.CharLit:   p.parseCharLit,
		lexer.StringLit: p.parseStringLit,
		lexer.KwTrue:    p.parseBool,
		lexer.KwFalse:   p.parseBool,
		lexer.KwNull:    p.parseNull,
		lexer.KwThis:    p.parseThis,
		lexer.KwVar:     p.parseVar,
		lexer.KwVoid:     p.parsePrimitiveType,
		lexer.KwBool:     p.parsePrimitiveType,
		lexer.KwInt:      p.parsePrimitiveType,
		lexer.KwFloat:    p.parsePrimitiveType,
		lexer.KwString:   p.parsePrimitiveType,
		lexer.KwList:     p.parsePrimitiveType,
		lexer.KwFunction: p.parsePrimitiveType,
		lexer.LParen:     p.parseGrouped,
		lexer.LBracket:   p.parseListLiteral,
		lexer.Minus:      p.parseUnary,
		lexer.KwNot:      p.parseUnary,
	}
	p.infixFns = map[lexer.Kind]infixParseFn{
		lexer.Assign:           p.parseAssign,
		lexer.QuestionQuestion: p.parseBinary,
		lexer.KwAnd:            p.parseBinary,
		lexer.KwOr:             p.parseBinary,
		lexer.Equal:            p.parseBinary,
		lexer.NotEqual:         p.parseBinary,
		lexer.Less:             p.parseBinary,
		lexer.Greater:          p.parseBinary,
		lexer.LessEqual:        p.parseBinary,
		lexer.GreaterEqual:     p.parseBinary,
		lexer.Shl:              p.parseBinary,
		lexer.Shr:              p.parseBinary,
		lexer.Amp:              p.parseBinary,
		lexer.Pipe:             p.parseBinary,
		lexer.Caret:            p.parseBinary,
		lexer.Plus:             p.parseBinary,
		lexer.Minus:            p.parseBinary,
		lexer.Star:             p.parseBinary,
		lexer.Slash:            p.parseBinary,
		lexer.KwAs:             p.parseCast,
		lexer.Dot:              p.parseMember,
		lexer.QuestionDot:      p.parseMember,
		lexer.LParen:           p.parseCall,
		lexer.LParam:           p.parseGenericInstantiation,
		lexer.LBracket:         p.parseIndex,
		lexer.Question:         p.parseNullablePostfix,
	}
	return p
}

// ParseModule parses the full token stream as a Tinder module (spec.md §3:
// a Module wraps a single top-level Block, with no enclosing braces).
func (p *Parser) ParseModule() *ast.Module {
	mod := &ast.Module{File: p.file}
	p.info.Module = mod
	start := p.cur().Pos
	body := &ast.Block{Location: start}
	p.skipStmtSeparators()
	for !p.atEnd() {
		body.Statements = append(body.Statements, p.parseStatement()...)
		p.skipStmtSeparators()
	}
	mod.Body = body
	return mod
}

func (p *Parser) cur() lexer.Token {
	if p.pos < len(p.tokens) {
		return p.tokens[p.pos]
	}
	return lexer.Token{Kind: lexer.EndOfFile}
}

func (p *Parser) peek(n int) lexer.Token {
	i := p.pos + n
	if i < len(p.tokens) {
		return p.tokens[i]
	}
	return lexer.Token{Kind: lexer.EndOfFile}
}

func (p *Parser) advance() lexer.Token {
	tok := p.cur()
	if p.pos < len(p.tokens) {
		p.pos++
	}
	return tok
}

func (p *Parser) atEnd() bool {
	return p.cur().Kind == lexer.EndOfFile
}

func (p *Parser) check(k lexer.Kind) bool { return p.cur().Kind == k }

func (p *Parser) accept(k lexer.Kind) (lexer.Token, bool) {
	if p.check(k) {
		return p.advance(), true
	}
	return lexer.Token{}, false
}

// expect consumes a token of kind k, reporting a SyntaxError and returning
// the offending (unconsumed) token on mismatch.
func (p *Parser) expect(k lexer.Kind) lexer.Token {
	if tok, ok := p.accept(k); ok {
		return tok
	}
	tok := p.cur()
	p.errorf(tok.Pos, "expected %s, got %s", k, tok.Kind)
	return tok
}

func (p *Parser) errorf(pos lexer.Position, format string, args ...any) {
	p.log.Report(diagnostics.SyntaxError, pos, format, args...)
}

func (p *Parser) badExpr(pos lexer.Position) ast.Expr {
	e := &ast.BadExpr{Location: pos}
	e.SetType(types.ErrorType{})
	return e
}

// atStmtEnd reports whether the current token is one of the end-of-statement
// markers spec.md §4.2 defines: `;`, a newline, or lookahead at `}`/EOF.
func (p *Parser) atStmtEnd() bool {
	switch p.cur().Kind {
	case lexer.Semi, lexer.Newline, lexer.RBrace, lexer.EndOfFile:
		return true
	default:
		return false
	}
}

// consumeStmtEnd eats a `;` or newline terminator, if present; `}`/EOF are
// left for the caller to see (they only ever serve as lookahead).
func (p *Parser) consumeStmtEnd() {
	switch p.cur().Kind {
	case lexer.Semi, lexer.Newline:
		p.advance()
	}
}

// skipStmtSeparators eats stray `;`/newline tokens between statements
// (blank lines, empty statements).
func (p *Parser) skipStmtSeparators() {
	for {
		switch p.cur().Kind {
		case lexer.Semi, lexer.Newline:
			p.advance()
		default:
			return
		}
	}
}

// parseExpression is the Pratt loop: parse a prefix expression, then fold in
// infix/postfix operators whose binding power exceeds minBP.
func (p *Parser) parseExpression(minBP int) ast.Expr {
	prefix, ok := p.prefixFns[p.cur().Kind]
	if !ok {
		tok := p.cur()
		p.errorf(tok.Pos, "unexpected %s", describeToken(tok))
		if tok.Kind != lexer.EndOfFile {
			p.advance()
		}
		return p.badExpr(tok.Pos)
	}
	left := prefix()

	for {
		bp, ok := precedences[p.cur().Kind]
		if !ok || bp <= minBP {
			return left
		}
		infix, ok := p.infixFns[p.cur().Kind]
		if !ok {
			return left
		}
		left = infix(left)
	}
}

func describeToken(tok lexer.Token) string {
	if tok.Text != "" {
		return fmt.Sprintf("%s %q", tok.Kind, tok.Text)
	}
	return tok.Kind.String()
}

// --- prefix parselets ---

func (p *Parser) parseIdent() ast.Expr {
	tok := p.advance()
	return &ast.IdentExpr{Location: tok.Pos, Name: tok.Text}
}

func (p *Parser) parseIntLit() ast.Expr {
	tok := p.advance()
	v, err := parseIntText(tok.Text)
	if err != nil {
		p.errorf(tok.Pos, "invalid integer literal %q: %s", tok.Text, err)
		return p.badExpr(tok.Pos)
	}
	return &ast.IntExpr{Location: tok.Pos, Value: v, Text: tok.Text}
}

// parseIntText accepts decimal, and 0x/0o/0b-prefixed, integer text,
// reporting overflow as an error (SPEC_FULL.md §9).
func parseIntText(text string) (int64, error) {
	base := 10
	digits := text
	lower := strings.ToLower(text)
	switch {
	case strings.HasPrefix(lower, "0x"):
		base, digits = 16, text[2:]
	case strings.HasPrefix(lower, "0o"):
		base, digits = 8, text[2:]
	case strings.HasPrefix(lower, "0b"):
		base, digits = 2, text[2:]
	}
	return strconv.ParseInt(digits, base, 64)
}

func (p *Parser) parseFloatLit() ast.Expr {
	tok := p.advance()
	v, err := strconv.ParseFloat(tok.Text, 64)
	if err != nil {
		p.errorf(tok.Pos, "invalid float literal %q: %s", tok.Text, err)
		return p.badExpr(tok.Pos)
	}
	return &ast.FloatExpr{Location: tok.Pos, Value: v, Text: tok.Text}
}

// parseCharLit yields an IntExpr holding the literal's single Unicode
// scalar value (SPEC_FULL.md §9, resolving spec.md §9's open question).
func (p *Parser) parseCharLit() ast.Expr {
	tok := p.advance()
	runes := []rune(tok.Text)
	if len(runes) != 1 {
		p.errorf(tok.Pos, "char literal must contain exactly one character, got %q", tok.Text)
		return p.badExpr(tok.Pos)
	}
	return &ast.IntExpr{Location: tok.Pos, Value: int64(runes[0]), Text: tok.Text}
}

func (p *Parser) parseStringLit() ast.Expr {
	tok := p.advance()
	return &ast.StringExpr{Location: tok.Pos, Value: tok.Text}
}

func (p *Parser) parseBool() ast.Expr {
	tok := p.advance()
	return &ast.BoolExpr{Location: tok.Pos, Value: tok.Kind == lexer.KwTrue}
}

func (p *Parser) parseNull() ast.Expr {
	tok := p.advance()
	return &ast.NullExpr{Location: tok.Pos}
}

func (p *Parser) parseThis() ast.Expr {
	tok := p.advance()
	return &ast.ThisExpr{Location: tok.Pos}
}

func (p *Parser) parseVar() ast.Expr {
	tok := p.advance()
	return &ast.VarExpr{Location: tok.Pos}
}

func (p *Parser) parsePrimitiveType() ast.Expr {
	tok := p.advance()
	return &ast.TypeExpr{Location: tok.Pos, Keyword: tok.Kind}
}

func (p *Parser) parseGrouped() ast.Expr {
	p.advance() // (
	inner := p.parseExpression(lowest)
	p.expect(lexer.RParen)
	return inner
}

func (p *Parser) parseListLiteral() ast.Expr {
	open := p.advance() // [
	lit := &ast.ListExpr{Location: open.Pos}
	for !p.check(lexer.RBracket) && !p.atEnd() {
		lit.Items = append(lit.Items, p.parseExpression(lowest))
		if _, ok := p.accept(lexer.Comma); !ok {
			break
		}
	}
	p.expect(lexer.RBracket)
	return lit
}

func (p *Parser) parseUnary() ast.Expr {
	op := p.advance()
	operand := p.parseExpression(prefixBP)
	return &ast.UnaryExpr{Location: op.Pos, Operator: op.Kind, Operand: operand}
}

// --- infix/postfix parselets ---

func (p *Parser) parseAssign(left ast.Expr) ast.Expr {
	op := p.advance()
	right := p.parseExpression(assignBP - 1) // right-associative
	return &ast.BinaryExpr{Location: op.Pos, Operator: op.Kind, Left: left, Right: right}
}

func (p *Parser) parseBinary(left ast.Expr) ast.Expr {
	op := p.advance()
	bp := precedences[op.Kind]
	right := p.parseExpression(bp)
	return &ast.BinaryExpr{Location: op.Pos, Operator: op.Kind, Left: left, Right: right}
}

func (p *Parser) parseCast(left ast.Expr) ast.Expr {
	op := p.advance()
	target := p.parseExpression(castBP)
	return &ast.CastExpr{Location: op.Pos, Value: left, TargetExpr: target}
}

func (p *Parser) parseMember(left ast.Expr) ast.Expr {
	op := p.advance()
	name := p.expect(lexer.Ident)
	return &ast.MemberExpr{
		Location:          op.Pos,
		Object:            left,
		Name:              name.Text,
		IsSafeDereference: op.Kind == lexer.QuestionDot,
	}
}

func (p *Parser) parseCall(left ast.Expr) ast.Expr {
	open := p.advance() // (
	call := &ast.CallExpr{Location: open.Pos, Callee: left}
	for !p.check(lexer.RParen) && !p.atEnd() {
		call.Args = append(call.Args, p.parseExpression(lowest))
		if _, ok := p.accept(lexer.Comma); !ok {
			break
		}
	}
	p.expect(lexer.RParen)
	return call
}

func (p *Parser) parseGenericInstantiation(left ast.Expr) ast.Expr {
	open := p.advance() // LParam
	inst := &ast.ParamExpr{Location: open.Pos, Base: left}
	for !p.check(lexer.RParam) && !p.atEnd() {
		inst.Args = append(inst.Args, p.parseExpression(lowest))
		if _, ok := p.accept(lexer.Comma); !ok {
			break
		}
	}
	p.expect(lexer.RParam)
	return inst
}

func (p *Parser) parseIndex(left ast.Expr) ast.Expr {
	open := p.advance() // [
	idx := p.parseExpression(lowest)
	p.expect(lexer.RBracket)
	return &ast.IndexExpr{Location: open.Pos, Object: left, Index: idx}
}

func (p *Parser) parseNullablePostfix(left ast.Expr) ast.Expr {
	op := p.advance()
	return &ast.NullableExpr{Location: op.Pos, Operand: left}
}
