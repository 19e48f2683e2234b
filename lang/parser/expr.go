package parser

import (
	"github.com/gogpu/effectfx/diag"
	"github.com/gogpu/effectfx/lang/ast"
	"github.com/gogpu/effectfx/lang/token"
)

// parseAssignment implements `assignment = multary ( assign-op assignment )?`.
func (p *Parser) parseAssignment() ast.NodeIndex {
	left := p.parseMultary(1)
	if op, ok := assignOpFor(p.tok.Kind); ok {
		loc := p.tok.Loc
		p.advance()
		right := p.parseAssignment()
		return p.makeAssignment(loc, left, op, right)
	}
	return left
}

var assignOps = map[token.Kind]ast.AssignOp{
	token.Assign: ast.AsSimple, token.PlusEq: ast.AsAdd, token.MinusEq: ast.AsSub,
	token.StarEq: ast.AsMul, token.SlashEq: ast.AsDiv, token.PercentEq: ast.AsMod,
	token.AmpEq: ast.AsBitAnd, token.PipeEq: ast.AsBitOr, token.CaretEq: ast.AsBitXor,
	token.ShlEq: ast.AsShl, token.ShrEq: ast.AsShr,
}

func assignOpFor(k token.Kind) (ast.AssignOp, bool) {
	op, ok := assignOps[k]
	return op, ok
}

// multaryOp describes one entry of the PeekMultaryOp precedence table
// (spec.md §4.2).
type multaryOp struct {
	prec int
	op   ast.BinaryOp
}

var multaryTable = map[token.Kind]multaryOp{
	token.Star: {11, ast.BinMul}, token.Slash: {11, ast.BinDiv}, token.Percent: {11, ast.BinMod},
	token.Plus: {10, ast.BinAdd}, token.Minus: {10, ast.BinSub},
	token.Shl: {9, ast.BinShl}, token.Shr: {9, ast.BinShr},
	token.Lt: {8, ast.BinLt}, token.Gt: {8, ast.BinGt}, token.Le: {8, ast.BinLe}, token.Ge: {8, ast.BinGe},
	token.EqEq: {7, ast.BinEq}, token.NotEq: {7, ast.BinNe},
	token.Amp: {6, ast.BinBitAnd},
	token.Caret: {5, ast.BinBitXor},
	token.Pipe: {4, ast.BinBitOr},
	token.AmpAmp: {3, ast.BinLogicAnd},
	token.PipePipe: {2, ast.BinLogicOr},
}

// parseMultary is precedence-climbing over the table above, plus the
// right-associative ternary at precedence 1 (spec.md §4.2).
func (p *Parser) parseMultary(minPrec int) ast.NodeIndex {
	left := p.parseUnary()
	for {
		if p.at(token.Question) {
			if minPrec > 1 {
				return left
			}
			loc := p.tok.Loc
			p.advance()
			whenTrue := p.parseAssignment()
			p.expect(token.Colon, "':'")
			whenFalse := p.parseMultary(1)
			left = p.makeConditional(loc, left, whenTrue, whenFalse)
			continue
		}
		entry, ok := multaryTable[p.tok.Kind]
		if !ok || entry.prec < minPrec {
			return left
		}
		loc := p.tok.Loc
		p.advance()
		right := p.parseMultary(entry.prec + 1)
		left = p.makeBinary(loc, left, entry.op, right)
	}
}

var unaryOpTok = map[token.Kind]ast.UnaryOp{
	token.Minus: ast.UnNegate, token.Tilde: ast.UnBitNot, token.Bang: ast.UnLogicNot,
	token.PlusPlus: ast.UnPreInc, token.MinusMinus: ast.UnPreDec,
}

// parseUnary implements `unary = unary-op unary | cast | postfix`.
func (p *Parser) parseUnary() ast.NodeIndex {
	if p.at(token.Plus) {
		p.advance()
		return p.parseUnary() // unary plus is a no-op
	}
	if op, ok := unaryOpTok[p.tok.Kind]; ok {
		loc := p.tok.Loc
		p.advance()
		operand := p.parseUnary()
		return p.makeUnary(loc, op, operand)
	}
	if idx, ok := p.tryCast(); ok {
		return idx
	}
	return p.parsePostfix()
}

// tryCast speculatively parses `( type ) unary`, backing up via the
// lexer's mark/restore facility if what follows '(' is not a type
// (disambiguating from a parenthesized expression, spec.md §4.1/§4.2).
func (p *Parser) tryCast() (ast.NodeIndex, bool) {
	if !p.at(token.LParen) {
		return ast.InvalidNode, false
	}
	savedTok := p.tok
	p.lex.Mark()
	loc := p.tok.Loc
	p.advance() // '('
	ty, ok := p.acceptTypeClass()
	if ok && p.at(token.RParen) {
		p.advance()
		p.lex.Discard()
		operand := p.parseUnary()
		return p.makeCast(loc, ty, operand), true
	}
	p.lex.Restore()
	p.tok = savedTok
	return ast.InvalidNode, false
}

// parsePostfix implements `postfix = primary ( ++ | -- | . field | [ expr ] )*`.
func (p *Parser) parsePostfix() ast.NodeIndex {
	expr := p.parsePrimary()
	for {
		switch {
		case p.at(token.PlusPlus):
			loc := p.tok.Loc
			p.advance()
			expr = p.makeUnaryPostfix(loc, ast.UnPostInc, expr)
		case p.at(token.MinusMinus):
			loc := p.tok.Loc
			p.advance()
			expr = p.makeUnaryPostfix(loc, ast.UnPostDec, expr)
		case p.at(token.Dot):
			loc := p.tok.Loc
			p.advance()
			if !p.at(token.Identifier) {
				p.errorf(diag.CodeSyntaxError, "expected field or swizzle name after '.'")
				return expr
			}
			name := p.tok.Raw
			p.advance()
			expr = p.resolveFieldOrSwizzle(loc, expr, name)
		case p.at(token.LBracket):
			loc := p.tok.Loc
			p.advance()
			index := p.parseAssignment()
			p.expect(token.RBracket, "']'")
			expr = p.makeSubscript(loc, expr, index)
		default:
			return expr
		}
	}
}

// parsePrimary parses literals, identifiers (variable references,
// function/intrinsic calls, type constructors), and parenthesized
// expressions.
func (p *Parser) parsePrimary() ast.NodeIndex {
	loc := p.tok.Loc
	switch {
	case p.at(token.IntLiteral):
		v := p.tok.Literal.Int
		p.advance()
		return p.makeLiteralInt(loc, v)
	case p.at(token.UintLiteral):
		v := p.tok.Literal.Uint
		p.advance()
		return p.makeLiteralUint(loc, v)
	case p.at(token.FloatLiteral):
		v := p.tok.Literal.Float
		p.advance()
		return p.makeLiteralFloat(loc, v)
	case p.at(token.DoubleLiteral):
		v := p.tok.Literal.Double
		p.advance()
		return p.makeLiteralDouble(loc, v)
	case p.at(token.BoolLiteral):
		v := p.tok.Literal.Int != 0
		p.advance()
		return p.makeLiteralBool(loc, v)
	case p.at(token.StringLiteral):
		v := p.tok.Literal.Str
		p.advance()
		return p.makeLiteralString(loc, v)
	case p.at(token.LParen):
		p.advance()
		inner := p.parseAssignment()
		p.expect(token.RParen, "')'")
		return inner
	case p.at(token.Identifier):
		return p.parseIdentifierExpr(loc)
	default:
		if ty, ok := p.acceptTypeClassAt(); ok {
			return p.parseConstructorCall(loc, ty)
		}
		p.errorf(diag.CodeSyntaxError, "unexpected token %q in expression", p.tok.Raw)
		p.advance()
		return p.makeLiteralInt(loc, 0)
	}
}

// acceptTypeClassAt handles `float4(...)`-style constructor calls reached
// via a builtin-type keyword rather than an identifier alias.
func (p *Parser) acceptTypeClassAt() (ast.Type, bool) {
	switch p.tok.Kind {
	case token.KwBool, token.KwInt, token.KwUint, token.KwHalf, token.KwFloat, token.KwDouble,
		token.KwVector, token.KwMatrix:
		return p.acceptTypeClass()
	}
	return ast.Type{}, false
}

func (p *Parser) parseIdentifierExpr(loc token.Location) ast.NodeIndex {
	name := p.tok.Raw

	if ty, ok := parseNumericAlias(name); ok {
		p.advance()
		if p.at(token.LParen) {
			return p.parseConstructorCall(loc, ty)
		}
		// A bare numeric-alias identifier with no call parens and no
		// matching variable symbol is a syntax error; fall through to
		// treat it as an (invalid) variable reference for recovery.
	}
	p.advance()

	if p.at(token.LParen) {
		return p.parseCall(loc, name)
	}

	id, ok := p.syms.Lookup(name)
	if !ok {
		p.diags.Error(loc, diag.CodeUndeclaredIdentifier, "undeclared identifier %q", name)
		return p.makeLiteralInt(loc, 0)
	}
	sym := p.syms.Get(id)
	v, isVar := p.arena.At(sym.Node).(*ast.Variable)
	if !isVar {
		p.diags.Error(loc, diag.CodeSyntaxError, "%q does not name a variable", name)
		return p.makeLiteralInt(loc, 0)
	}
	return p.arena.Add(&ast.LValue{Base: ast.Base{Loc: loc}, Type: v.Type, Symbol: id, Name: name})
}

func (p *Parser) parseConstructorCall(loc token.Location, ty ast.Type) ast.NodeIndex {
	p.expect(token.LParen, "'('")
	var args []ast.NodeIndex
	for !p.at(token.RParen) && !p.at(token.EOF) {
		args = append(args, p.parseAssignment())
		if !p.accept(token.Comma) {
			break
		}
	}
	p.expect(token.RParen, "')'")
	return p.makeConstructor(loc, ty, args)
}
