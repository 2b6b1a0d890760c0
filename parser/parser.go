// Package parser implements the C-- grammar of §4.E as a hand-written
// recursive-descent parser with precedence climbing for expressions,
// grounded on sqlparser.Parse (github.com/vippsas/sqlcode/v2,
// sqlparser/parser.go): "functions typically consume after the keyword
// that triggered their invocation... on return, positioned at the token
// that starts the next statement." A small lookahead buffer over the
// scanner supplies the extra token of lookahead needed to tell a
// structDecl ("struct id {") from a struct-typed varDecl
// ("struct id id ;").
package parser

import (
	"github.com/cmm-lang/cmmc/ast"
	"github.com/cmm-lang/cmmc/diag"
	"github.com/cmm-lang/cmmc/scanner"
	"github.com/cmm-lang/cmmc/token"
)

// Parser holds a scanner and a small lookahead buffer.
type Parser struct {
	sc   *scanner.Scanner
	sink *diag.Sink
	buf  []token.Token
}

// parseAbort unwinds the recursive descent back to Parse on the first
// syntax error. Per §7, parse errors are not recoverable: the first one
// terminates compilation.
type parseAbort struct{}

// New returns a Parser reading tokens from sc.
func New(sc *scanner.Scanner, sink *diag.Sink) *Parser {
	p := &Parser{sc: sc, sink: sink}
	p.buf = []token.Token{sc.Next()}
	return p
}

// Parse runs a Parser over sc to completion. ok is false iff a syntax
// error was reported, in which case prog is nil and the diagnostic is
// already in sink.
func Parse(sc *scanner.Scanner, sink *diag.Sink) (prog *ast.Program, ok bool) {
	p := New(sc, sink)
	defer func() {
		if r := recover(); r != nil {
			if _, isAbort := r.(parseAbort); isAbort {
				prog, ok = nil, false
				return
			}
			panic(r)
		}
	}()

	var decls []ast.Decl
	for p.cur().Type != token.EOF {
		decls = append(decls, p.parseDecl())
	}
	return &ast.Program{Decls: decls}, true
}

func (p *Parser) cur() token.Token { return p.buf[0] }

func (p *Parser) peek(n int) token.Token {
	for len(p.buf) <= n {
		p.buf = append(p.buf, p.sc.Next())
	}
	return p.buf[n]
}

func (p *Parser) advance() {
	if len(p.buf) > 1 {
		p.buf = p.buf[1:]
	} else {
		p.buf[0] = p.sc.Next()
	}
}

func (p *Parser) fail(msg string) {
	if p.cur().Type == token.EOF {
		p.sink.Fatal(p.cur().Pos, "%s at end of file", msg)
	} else {
		p.sink.Fatal(p.cur().Pos, "%s", msg)
	}
	panic(parseAbort{})
}

func (p *Parser) expect(t token.Type) token.Token {
	if p.cur().Type != t {
		p.fail("Syntax error")
	}
	tok := p.cur()
	p.advance()
	return tok
}

func (p *Parser) expectIdent() token.Token { return p.expect(token.IDENT) }

// parseTypeAndName consumes the shared "type id" shape that appears in
// varDecl, formalDecl, member varDecl, and fnDecl's return-type prefix.
// A leading 'struct' keyword is always required for a struct-typed
// declaration (SPEC_FULL.md §12.4).
func (p *Parser) parseTypeAndName() (ast.Type, *ast.Id) {
	if p.cur().Type == token.STRUCT {
		p.advance()
		structNameTok := p.expectIdent()
		varTok := p.expectIdent()
		return &ast.StructType{Name: &ast.Id{Pos: structNameTok.Pos, Name: structNameTok.Lit}},
			&ast.Id{Pos: varTok.Pos, Name: varTok.Lit}
	}

	var t ast.Type
	switch p.cur().Type {
	case token.INT:
		t = ast.IntType{}
	case token.BOOL:
		t = ast.BoolType{}
	case token.VOID:
		t = ast.VoidType{}
	default:
		p.fail("Syntax error")
	}
	p.advance()
	varTok := p.expectIdent()
	return t, &ast.Id{Pos: varTok.Pos, Name: varTok.Lit}
}

func structSizeOf(t ast.Type) int {
	if _, ok := t.(*ast.StructType); ok {
		return ast.IsStruct
	}
	return ast.NotStruct
}

func isBlockTypeStart(t token.Type) bool {
	return t == token.INT || t == token.BOOL || t == token.VOID || t == token.STRUCT
}

// parseDecl parses one top-level declaration.
func (p *Parser) parseDecl() ast.Decl {
	if p.cur().Type == token.STRUCT && p.peekIsStructDeclHeader() {
		return p.parseStructDecl()
	}

	t, name := p.parseTypeAndName()
	if p.cur().Type == token.LPAREN {
		return p.finishFnDecl(t, name)
	}
	p.expect(token.SEMI)
	return &ast.VarDecl{Type: t, Name: name, StructSize: structSizeOf(t)}
}

// peekIsStructDeclHeader disambiguates "struct id {" (a structDecl) from
// "struct id id ;" (a struct-typed varDecl); the caller has already
// confirmed p.cur() is STRUCT.
func (p *Parser) peekIsStructDeclHeader() bool {
	return p.peek(1).Type == token.IDENT && p.peek(2).Type == token.LBRACE
}

func (p *Parser) parseStructDecl() *ast.StructDecl {
	p.expect(token.STRUCT)
	nameTok := p.expectIdent()
	p.expect(token.LBRACE)

	var members []*ast.VarDecl
	members = append(members, p.parseLocalVarDecl())
	for isBlockTypeStart(p.cur().Type) {
		members = append(members, p.parseLocalVarDecl())
	}

	p.expect(token.RBRACE)
	p.expect(token.SEMI)
	return &ast.StructDecl{Name: &ast.Id{Pos: nameTok.Pos, Name: nameTok.Lit}, Members: members}
}

func (p *Parser) parseLocalVarDecl() *ast.VarDecl {
	t, name := p.parseTypeAndName()
	p.expect(token.SEMI)
	return &ast.VarDecl{Type: t, Name: name, StructSize: structSizeOf(t)}
}

func (p *Parser) parseFormals() []*ast.FormalDecl {
	p.expect(token.LPAREN)
	var formals []*ast.FormalDecl
	if p.cur().Type != token.RPAREN {
		formals = append(formals, p.parseFormalDecl())
		for p.cur().Type == token.COMMA {
			p.advance()
			formals = append(formals, p.parseFormalDecl())
		}
	}
	p.expect(token.RPAREN)
	return formals
}

func (p *Parser) parseFormalDecl() *ast.FormalDecl {
	t, name := p.parseTypeAndName()
	return &ast.FormalDecl{Type: t, Name: name}
}

func (p *Parser) finishFnDecl(t ast.Type, name *ast.Id) *ast.FnDecl {
	formals := p.parseFormals()
	locals, stmts := p.parseBracedBlock()
	return &ast.FnDecl{Type: t, Name: name, Formals: formals, Locals: locals, Body: stmts}
}

// parseBracedBlock parses '{' varDeclList stmtList '}', the shape
// shared by a function body and every if/while/repeat body.
func (p *Parser) parseBracedBlock() ([]ast.Decl, []ast.Stmt) {
	p.expect(token.LBRACE)

	var locals []ast.Decl
	for isBlockTypeStart(p.cur().Type) {
		locals = append(locals, p.parseLocalVarDecl())
	}

	var stmts []ast.Stmt
	for p.cur().Type != token.RBRACE {
		stmts = append(stmts, p.parseStmt())
	}

	p.expect(token.RBRACE)
	return locals, stmts
}

func (p *Parser) parseStmt() ast.Stmt {
	switch p.cur().Type {
	case token.IF:
		return p.parseIf()
	case token.WHILE:
		return p.parseWhile()
	case token.REPEAT:
		return p.parseRepeat()
	case token.RETURN:
		return p.parseReturn()
	case token.CIN:
		return p.parseRead()
	case token.COUT:
		return p.parseWrite()
	case token.IDENT:
		return p.parseExprStmt()
	}
	p.fail("Syntax error")
	return nil
}

func (p *Parser) parseIf() ast.Stmt {
	p.expect(token.IF)
	p.expect(token.LPAREN)
	cond := p.parseExpr()
	p.expect(token.RPAREN)
	thenLocals, thenStmts := p.parseBracedBlock()

	if p.cur().Type == token.ELSE {
		p.advance()
		elseLocals, elseStmts := p.parseBracedBlock()
		return &ast.IfElseStmt{
			Cond:       cond,
			ThenLocals: thenLocals,
			Then:       thenStmts,
			ElseLocals: elseLocals,
			Else:       elseStmts,
		}
	}
	return &ast.IfStmt{Cond: cond, Locals: thenLocals, Body: thenStmts}
}

func (p *Parser) parseWhile() ast.Stmt {
	p.expect(token.WHILE)
	p.expect(token.LPAREN)
	cond := p.parseExpr()
	p.expect(token.RPAREN)
	locals, stmts := p.parseBracedBlock()
	return &ast.WhileStmt{Cond: cond, Locals: locals, Body: stmts}
}

func (p *Parser) parseRepeat() ast.Stmt {
	p.expect(token.REPEAT)
	p.expect(token.LPAREN)
	cond := p.parseExpr()
	p.expect(token.RPAREN)
	locals, stmts := p.parseBracedBlock()
	return &ast.RepeatStmt{Cond: cond, Locals: locals, Body: stmts}
}

func (p *Parser) parseReturn() ast.Stmt {
	p.expect(token.RETURN)
	var val ast.Expr
	if p.cur().Type != token.SEMI {
		val = p.parseExpr()
	}
	p.expect(token.SEMI)
	return &ast.ReturnStmt{Value: val}
}

func (p *Parser) parseRead() ast.Stmt {
	p.expect(token.CIN)
	p.expect(token.SHR)
	loc := p.parseLoc()
	p.expect(token.SEMI)
	return &ast.ReadStmt{Target: loc}
}

func (p *Parser) parseWrite() ast.Stmt {
	p.expect(token.COUT)
	p.expect(token.SHL)
	val := p.parseExpr()
	p.expect(token.SEMI)
	return &ast.WriteStmt{Value: val}
}

// parseLoc parses `id ('.' id)*`, excluding a call: the grammar's `loc`
// production never includes a function call.
func (p *Parser) parseLoc() ast.Expr {
	idTok := p.expectIdent()
	var e ast.Expr = &ast.IdExpr{Id: &ast.Id{Pos: idTok.Pos, Name: idTok.Lit}}
	for p.cur().Type == token.DOT {
		p.advance()
		fieldTok := p.expectIdent()
		e = &ast.DotAccessExpr{Base: e, Field: &ast.Id{Pos: fieldTok.Pos, Name: fieldTok.Lit}}
	}
	return e
}

// parseExprStmt handles the four statement forms that start with an
// identifier: `loc '++' ';'`, `loc '--' ';'`, assignment-expression, and
// `fncall ';'`.
func (p *Parser) parseExprStmt() ast.Stmt {
	base := p.parseLocOrCall()

	switch p.cur().Type {
	case token.INC:
		p.advance()
		p.expect(token.SEMI)
		return &ast.PostIncStmt{Target: base}
	case token.DEC:
		p.advance()
		p.expect(token.SEMI)
		return &ast.PostDecStmt{Target: base}
	case token.ASSIGN:
		p.advance()
		rhs := p.parseExpr()
		p.expect(token.SEMI)
		return &ast.AssignStmt{Assign: &ast.AssignExpr{Target: base, Value: rhs}}
	}

	if call, ok := base.(*ast.CallExpr); ok {
		p.expect(token.SEMI)
		return &ast.CallStmt{Call: call}
	}
	p.fail("Syntax error")
	return nil
}

// parseLocOrCall parses an identifier-led term used at statement head:
// either a function call, or a dot-access chain rooted at an id.
func (p *Parser) parseLocOrCall() ast.Expr {
	idTok := p.expectIdent()
	id := &ast.Id{Pos: idTok.Pos, Name: idTok.Lit}
	if p.cur().Type == token.LPAREN {
		return p.parseCallArgs(id)
	}
	var e ast.Expr = &ast.IdExpr{Id: id}
	for p.cur().Type == token.DOT {
		p.advance()
		fieldTok := p.expectIdent()
		e = &ast.DotAccessExpr{Base: e, Field: &ast.Id{Pos: fieldTok.Pos, Name: fieldTok.Lit}}
	}
	return e
}

// parseExpr parses the full precedence lattice of §4.E, lowest level
// first: '=' (right), '||'/'&&' (left, one shared level per §9), the
// comparison operators (non-associative), '+'/'-' (left), '*'/'/'
// (left); parseUnary/parsePostfix handle '!'/unary-minus and '.'.
func (p *Parser) parseExpr() ast.Expr { return p.parseAssign() }

func (p *Parser) parseAssign() ast.Expr {
	left := p.parseOrAnd()
	if p.cur().Type == token.ASSIGN {
		p.advance()
		right := p.parseAssign()
		return &ast.AssignExpr{Target: left, Value: right}
	}
	return left
}

func (p *Parser) parseOrAnd() ast.Expr {
	left := p.parseEquality()
	for p.cur().Type == token.OR || p.cur().Type == token.AND {
		op := p.cur().Type
		p.advance()
		right := p.parseEquality()
		bop := ast.BinOr
		if op == token.AND {
			bop = ast.BinAnd
		}
		left = &ast.BinaryExpr{Op: bop, Left: left, Right: right}
	}
	return left
}

func (p *Parser) parseEquality() ast.Expr {
	left := p.parseAdd()
	switch p.cur().Type {
	case token.EQ, token.NEQ, token.LT, token.GT, token.LE, token.GE:
		op := p.cur().Type
		p.advance()
		right := p.parseAdd()
		return &ast.BinaryExpr{Op: comparisonOp(op), Left: left, Right: right}
	}
	return left
}

func comparisonOp(t token.Type) ast.BinaryOp {
	switch t {
	case token.EQ:
		return ast.BinEq
	case token.NEQ:
		return ast.BinNeq
	case token.LT:
		return ast.BinLt
	case token.GT:
		return ast.BinGt
	case token.LE:
		return ast.BinLe
	case token.GE:
		return ast.BinGe
	}
	panic("comparisonOp: unreachable")
}

func (p *Parser) parseAdd() ast.Expr {
	left := p.parseMul()
	for p.cur().Type == token.PLUS || p.cur().Type == token.MINUS {
		op := p.cur().Type
		p.advance()
		right := p.parseMul()
		bop := ast.BinAdd
		if op == token.MINUS {
			bop = ast.BinSub
		}
		left = &ast.BinaryExpr{Op: bop, Left: left, Right: right}
	}
	return left
}

func (p *Parser) parseMul() ast.Expr {
	left := p.parseUnary()
	for p.cur().Type == token.STAR || p.cur().Type == token.SLASH {
		op := p.cur().Type
		p.advance()
		right := p.parseUnary()
		bop := ast.BinMul
		if op == token.SLASH {
			bop = ast.BinDiv
		}
		left = &ast.BinaryExpr{Op: bop, Left: left, Right: right}
	}
	return left
}

func (p *Parser) parseUnary() ast.Expr {
	switch p.cur().Type {
	case token.MINUS:
		p.advance()
		return &ast.UnaryMinusExpr{Operand: p.parseUnary()}
	case token.NOT:
		p.advance()
		return &ast.NotExpr{Operand: p.parseUnary()}
	}
	return p.parsePostfix()
}

func (p *Parser) parsePostfix() ast.Expr {
	e := p.parsePrimary()
	for p.cur().Type == token.DOT {
		p.advance()
		fieldTok := p.expectIdent()
		e = &ast.DotAccessExpr{Base: e, Field: &ast.Id{Pos: fieldTok.Pos, Name: fieldTok.Lit}}
	}
	return e
}

func (p *Parser) parsePrimary() ast.Expr {
	tok := p.cur()
	switch tok.Type {
	case token.INTLIT:
		p.advance()
		return &ast.IntLit{Pos: tok.Pos, Value: tok.IVal}
	case token.STRLIT:
		p.advance()
		return &ast.StrLit{Pos: tok.Pos, Raw: tok.Lit}
	case token.TRUE:
		p.advance()
		return &ast.TrueLit{Pos: tok.Pos}
	case token.FALSE:
		p.advance()
		return &ast.FalseLit{Pos: tok.Pos}
	case token.LPAREN:
		p.advance()
		e := p.parseExpr()
		p.expect(token.RPAREN)
		return e
	case token.IDENT:
		p.advance()
		id := &ast.Id{Pos: tok.Pos, Name: tok.Lit}
		if p.cur().Type == token.LPAREN {
			return p.parseCallArgs(id)
		}
		return &ast.IdExpr{Id: id}
	}
	p.fail("Syntax error")
	return nil
}

func (p *Parser) parseCallArgs(callee *ast.Id) ast.Expr {
	p.expect(token.LPAREN)
	var args []ast.Expr
	if p.cur().Type != token.RPAREN {
		args = append(args, p.parseExpr())
		for p.cur().Type == token.COMMA {
			p.advance()
			args = append(args, p.parseExpr())
		}
	}
	p.expect(token.RPAREN)
	return &ast.CallExpr{Callee: callee, Args: args}
}
