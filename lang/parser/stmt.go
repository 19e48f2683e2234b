// stmt.go implements the statement grammar of spec.md §4.2: compound
// blocks introduce a scope, declarations inside them share the same
// declarator-list parsing as globals, and control flow nodes carry only
// their condition/body indices — loop/branch semantics live in codegen.
package parser

import (
	"github.com/gogpu/effectfx/diag"
	"github.com/gogpu/effectfx/lang/ast"
	"github.com/gogpu/effectfx/lang/token"
)

// parseCompound parses `{ stmt* }`, entering and leaving one scope.
func (p *Parser) parseCompound() ast.NodeIndex {
	loc := p.tok.Loc
	p.expect(token.LBrace, "'{'")
	p.syms.EnterScope()
	depth := p.syms.Depth()
	var stmts []ast.NodeIndex
	for !p.at(token.RBrace) && !p.at(token.EOF) {
		stmts = append(stmts, p.parseStatement())
	}
	p.expect(token.RBrace, "'}'")
	p.syms.LeaveScope()
	return p.arena.Add(&ast.Compound{Base: ast.Base{Loc: loc}, ScopeDepth: depth, Statements: stmts})
}

// isTypeStart reports whether the current token can begin a local variable
// declaration, so parseStatement can distinguish `int x;` from an
// expression statement without backtracking.
func (p *Parser) isTypeStart() bool {
	switch p.tok.Kind {
	case token.KwVoid, token.KwBool, token.KwInt, token.KwUint, token.KwHalf, token.KwFloat,
		token.KwDouble, token.KwString, token.KwTexture1D, token.KwTexture2D, token.KwTexture3D,
		token.KwSampler1D, token.KwSampler2D, token.KwSampler3D, token.KwVector, token.KwMatrix,
		token.KwExtern, token.KwStatic, token.KwUniform, token.KwConst, token.KwVolatile, token.KwPrecise,
		token.KwRowMajor, token.KwColumnMajor, token.KwUnorm, token.KwSnorm, token.KwGroupshared:
		return true
	case token.Identifier:
		if _, ok := parseNumericAlias(p.tok.Raw); ok {
			return true
		}
		if id, ok := p.syms.Lookup(p.tok.Raw); ok {
			return p.syms.Get(id).Kind == ast.SymStruct
		}
	}
	return false
}

func (p *Parser) parseStatement() ast.NodeIndex {
	loc := p.tok.Loc
	switch {
	case p.at(token.LBrace):
		return p.parseCompound()
	case p.at(token.KwIf):
		return p.parseIf()
	case p.at(token.KwSwitch):
		return p.parseSwitch()
	case p.at(token.KwWhile):
		return p.parseWhile()
	case p.at(token.KwDo):
		return p.parseDoWhile()
	case p.at(token.KwFor):
		return p.parseFor()
	case p.at(token.KwBreak):
		p.advance()
		p.expect(token.Semicolon, "';'")
		return p.arena.Add(&ast.Jump{Base: ast.Base{Loc: loc}, Kind: ast.JumpBreak})
	case p.at(token.KwContinue):
		p.advance()
		p.expect(token.Semicolon, "';'")
		return p.arena.Add(&ast.Jump{Base: ast.Base{Loc: loc}, Kind: ast.JumpContinue})
	case p.at(token.KwReturn):
		p.advance()
		ret := &ast.Return{Base: ast.Base{Loc: loc}, Value: ast.InvalidNode}
		if !p.at(token.Semicolon) {
			ret.Value = p.parseAssignment()
		}
		p.expect(token.Semicolon, "';'")
		return p.arena.Add(ret)
	case p.at(token.KwDiscard):
		p.advance()
		p.expect(token.Semicolon, "';'")
		return p.arena.Add(&ast.Return{Base: ast.Base{Loc: loc}, Value: ast.InvalidNode, Discard: true})
	case p.at(token.Semicolon):
		p.advance()
		return p.arena.Add(&ast.Compound{Base: ast.Base{Loc: loc}})
	case p.isTypeStart():
		return p.parseLocalDeclaration(loc)
	default:
		expr := p.parseAssignment()
		p.expect(token.Semicolon, "';'")
		return p.arena.Add(&ast.ExpressionStatement{Base: ast.Base{Loc: loc}, Expr: expr})
	}
}

func (p *Parser) parseLocalDeclaration(loc token.Location) ast.NodeIndex {
	quals := p.parseQualifiers()
	ty, ok := p.acceptTypeClass()
	if !ok {
		p.errorf(diag.CodeSyntaxError, "expected a type")
		p.synchronize()
		return p.arena.Add(&ast.Compound{Base: ast.Base{Loc: loc}})
	}
	ty.Qualifiers |= quals
	if !p.at(token.Identifier) {
		p.errorf(diag.CodeSyntaxError, "expected identifier after type")
		p.synchronize()
		return p.arena.Add(&ast.Compound{Base: ast.Base{Loc: loc}})
	}
	name := p.tok.Raw
	p.advance()
	decls := p.parseDeclaratorListTail(loc, name, ty, false)
	p.expect(token.Semicolon, "';'")
	return p.arena.Add(&ast.DeclarationStatement{Base: ast.Base{Loc: loc}, Decls: decls})
}

func (p *Parser) parseIf() ast.NodeIndex {
	loc := p.tok.Loc
	p.advance()
	p.expect(token.LParen, "'('")
	cond := p.parseAssignment()
	p.expect(token.RParen, "')'")
	then := p.parseStatement()
	elseBranch := ast.InvalidNode
	if p.accept(token.KwElse) {
		elseBranch = p.parseStatement()
	}
	if p.typeOf(cond).IsMatrix() {
		p.diags.Error(loc, diag.CodeTypeMismatch, "if condition must be scalar or vector")
	}
	return p.arena.Add(&ast.If{Base: ast.Base{Loc: loc}, Cond: cond, Then: then, Else: elseBranch})
}

func (p *Parser) parseWhile() ast.NodeIndex {
	loc := p.tok.Loc
	p.advance()
	p.expect(token.LParen, "'('")
	cond := p.parseAssignment()
	p.expect(token.RParen, "')'")
	body := p.parseStatement()
	return p.arena.Add(&ast.While{Base: ast.Base{Loc: loc}, Cond: cond, Body: body})
}

func (p *Parser) parseDoWhile() ast.NodeIndex {
	loc := p.tok.Loc
	p.advance() // 'do'
	body := p.parseStatement()
	p.expect(token.KwWhile, "'while'")
	p.expect(token.LParen, "'('")
	cond := p.parseAssignment()
	p.expect(token.RParen, "')'")
	p.expect(token.Semicolon, "';'")
	return p.arena.Add(&ast.While{Base: ast.Base{Loc: loc}, Cond: cond, Body: body, IsDoWhile: true})
}

func (p *Parser) parseFor() ast.NodeIndex {
	loc := p.tok.Loc
	p.advance()
	p.expect(token.LParen, "'('")
	p.syms.EnterScope()

	init := ast.InvalidNode
	if !p.at(token.Semicolon) {
		if p.isTypeStart() {
			initLoc := p.tok.Loc
			quals := p.parseQualifiers()
			ty, _ := p.acceptTypeClass()
			ty.Qualifiers |= quals
			name := p.tok.Raw
			p.advance()
			decls := p.parseDeclaratorListTail(initLoc, name, ty, false)
			init = p.arena.Add(&ast.DeclarationStatement{Base: ast.Base{Loc: initLoc}, Decls: decls})
		} else {
			init = p.arena.Add(&ast.ExpressionStatement{Base: ast.Base{Loc: p.tok.Loc}, Expr: p.parseAssignment()})
		}
	}
	p.expect(token.Semicolon, "';'")

	cond := ast.InvalidNode
	if !p.at(token.Semicolon) {
		cond = p.parseAssignment()
	}
	p.expect(token.Semicolon, "';'")

	post := ast.InvalidNode
	if !p.at(token.RParen) {
		post = p.parseAssignment()
	}
	p.expect(token.RParen, "')'")

	body := p.parseStatement()
	p.syms.LeaveScope()
	return p.arena.Add(&ast.For{Base: ast.Base{Loc: loc}, Init: init, Cond: cond, Post: post, Body: body})
}

// parseSwitch parses `switch (sel) { case lit: stmt* ... default: stmt* }`.
// Each case/default label collects the statements up to the next label
// into its own body slice, matching spec.md's explicit "no fallthrough
// tracking beyond bodies" Switch shape.
func (p *Parser) parseSwitch() ast.NodeIndex {
	loc := p.tok.Loc
	p.advance()
	p.expect(token.LParen, "'('")
	selector := p.parseAssignment()
	p.expect(token.RParen, "')'")
	p.expect(token.LBrace, "'{'")

	sw := &ast.Switch{Base: ast.Base{Loc: loc}, Selector: selector}
	for p.at(token.KwCase) || p.at(token.KwDefault) {
		caseLoc := p.tok.Loc
		isDefault := p.at(token.KwDefault)
		p.advance()
		value := ast.InvalidNode
		if !isDefault {
			value = p.parseAssignment()
		}
		p.expect(token.Colon, "':'")
		var body []ast.NodeIndex
		for !p.at(token.KwCase) && !p.at(token.KwDefault) && !p.at(token.RBrace) && !p.at(token.EOF) {
			body = append(body, p.parseStatement())
		}
		sw.Cases = append(sw.Cases, p.arena.Add(&ast.Case{Base: ast.Base{Loc: caseLoc}, Value: value, IsDefault: isDefault}))
		sw.Bodies = append(sw.Bodies, body)
	}
	p.expect(token.RBrace, "'}'")

	if len(sw.Cases) == 0 {
		p.diags.Warning(loc, diag.CodeSwitchNoCases, "switch has no case labels")
	}
	return p.arena.Add(sw)
}
