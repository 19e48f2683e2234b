// Package parser implements the recursive-descent parser of spec.md §4.2:
// tokens -> typed AST with scoped symbol table, overload resolution,
// constant folding, and pass/texture/sampler property parsing.
//
// Grounded on original_source/src/EffectParser.cpp's shape (a single
// recursive-descent parser object holding the lexer, the symbol table,
// and an error-accumulating diagnostic sink) reimplemented in Go without
// its hand-rolled memory management.
package parser

import (
	"github.com/gogpu/effectfx/diag"
	"github.com/gogpu/effectfx/lang/ast"
	"github.com/gogpu/effectfx/lang/lexer"
	"github.com/gogpu/effectfx/lang/token"
)

// Result is everything the parser produces from one source.
type Result struct {
	Arena      *ast.Arena
	Symbols    *ast.SymbolTable
	Structs    []ast.NodeIndex
	Uniforms   []ast.NodeIndex // plain (non-texture, non-sampler) global variables
	Textures   []ast.NodeIndex
	Samplers   []ast.NodeIndex
	Functions  []ast.NodeIndex
	Techniques []ast.NodeIndex
}

// Parser holds all mutable state for one compile. Not safe for concurrent
// use — spec.md §5 requires the host serialise compiles of the same
// source, and nothing here is shared across sources.
type Parser struct {
	lex   *lexer.Lexer
	tok   token.Token
	prev  token.Location
	arena *ast.Arena
	syms  *ast.SymbolTable
	diags *diag.Bag

	res Result
}

// Parse lexes and parses src, returning the AST plus any diagnostics
// accumulated along the way. The returned Bag is never nil; callers check
// its Fatal(). Result is always non-nil, even on fatal error, so
// partial ASTs remain inspectable for tooling.
func Parse(src []byte, file string) (*Result, *diag.Bag) {
	diags := &diag.Bag{}
	l := lexer.New(src, file, diags)
	p := &Parser{
		lex:   l,
		arena: ast.NewArena(),
		syms:  ast.NewSymbolTable(),
		diags: diags,
	}
	p.res = Result{Arena: p.arena, Symbols: p.syms}
	p.advance()
	p.parseTopLevel()
	return &p.res, diags
}

func (p *Parser) advance() {
	p.prev = p.tok.Loc
	p.tok = p.lex.Lex()
}

func (p *Parser) at(k token.Kind) bool { return p.tok.Kind == k }

func (p *Parser) accept(k token.Kind) bool {
	if p.at(k) {
		p.advance()
		return true
	}
	return false
}

func (p *Parser) expect(k token.Kind, what string) bool {
	if p.accept(k) {
		return true
	}
	p.errorf(diag.CodeSyntaxError, "expected %s, got %q", what, p.tok.Raw)
	return false
}

func (p *Parser) errorf(code int, format string, args ...any) {
	p.diags.Error(p.tok.Loc, code, format, args...)
}

func (p *Parser) warnf(code int, format string, args ...any) {
	p.diags.Warning(p.tok.Loc, code, format, args...)
}

// synchronize skips tokens until a statement boundary so one syntax error
// does not cascade into dozens of follow-on diagnostics.
func (p *Parser) synchronize() {
	for !p.at(token.EOF) {
		if p.at(token.Semicolon) {
			p.advance()
			return
		}
		if p.at(token.RBrace) {
			return
		}
		p.advance()
	}
}

// parseTopLevel accepts struct / technique / function-definition / uniform
// variable declarations until EOF, per spec.md §4.2.
func (p *Parser) parseTopLevel() {
	for !p.at(token.EOF) {
		switch {
		case p.at(token.KwStruct):
			if idx, ok := p.parseStructDecl(); ok {
				p.res.Structs = append(p.res.Structs, idx)
			}
		case p.at(token.KwTechnique):
			if idx, ok := p.parseTechnique(); ok {
				p.res.Techniques = append(p.res.Techniques, idx)
			}
		default:
			p.parseGlobalDeclOrFunction()
		}
	}
}

// parseGlobalDeclOrFunction parses a leading type + qualifiers, then an
// identifier; a following '(' makes it a function, otherwise it is a
// global variable declarator list (spec.md §4.2 DeclaratorList).
func (p *Parser) parseGlobalDeclOrFunction() {
	loc := p.tok.Loc
	quals := p.parseQualifiers()
	ty, ok := p.acceptTypeClass()
	if !ok {
		p.errorf(diag.CodeSyntaxError, "expected a type at top level, got %q", p.tok.Raw)
		p.synchronize()
		return
	}
	ty.Qualifiers |= quals
	if !p.at(token.Identifier) {
		p.errorf(diag.CodeSyntaxError, "expected identifier after type")
		p.synchronize()
		return
	}
	name := p.tok.Raw
	p.advance()

	if p.at(token.LParen) {
		p.parseFunction(loc, name, ty)
		return
	}

	// Global declarators are individually classified into Textures/Samplers/
	// Uniforms by finishVariableDecl (via classifyGlobal); the DeclaratorList
	// itself only matters for local (statement-level) declarations.
	p.parseDeclaratorListTail(loc, name, ty, true)
	p.expect(token.Semicolon, "';'")
}

// parseDeclaratorListTail parses the remainder of `Type a[=init], b[=init], ...;`
// given the type and the already-consumed first identifier.
func (p *Parser) parseDeclaratorListTail(loc token.Location, firstName string, ty ast.Type, isGlobal bool) []ast.NodeIndex {
	var decls []ast.NodeIndex
	name := firstName
	for {
		v := p.finishVariableDecl(loc, name, ty, isGlobal)
		decls = append(decls, v)
		if !p.accept(token.Comma) {
			break
		}
		if !p.at(token.Identifier) {
			p.errorf(diag.CodeSyntaxError, "expected identifier in declarator list")
			break
		}
		name = p.tok.Raw
		loc = p.tok.Loc
		p.advance()
	}
	return decls
}

// finishVariableDecl parses the array suffix, semantic, annotation block
// and initializer of one declarator, inserts its symbol, and classifies
// global variables into textures/samplers/uniforms (spec.md §3 invariant:
// "every global variable is inserted into one of {textures, samplers,
// uniforms}").
func (p *Parser) finishVariableDecl(loc token.Location, name string, ty ast.Type, isGlobal bool) ast.NodeIndex {
	if p.accept(token.LBracket) {
		if p.at(token.IntLiteral) || p.at(token.UintLiteral) {
			n := int(p.tok.Literal.Int)
			if p.at(token.UintLiteral) {
				n = int(p.tok.Literal.Uint)
			}
			ty.ArrayLength = n
			p.advance()
		} else if p.at(token.RBracket) {
			ty.ArrayLength = -1
		} else {
			p.errorf(diag.CodeNonLiteralArrayDim, "array dimension must be a literal")
			ty.ArrayLength = -1
		}
		p.expect(token.RBracket, "']'")
	}

	semantic := ""
	if p.accept(token.Colon) {
		if p.at(token.Identifier) {
			semantic = p.tok.Raw
			p.advance()
		}
	}

	var annots []ast.Annotation
	if p.at(token.Lt) {
		annots = p.parseAnnotationBlock()
	}

	v := &ast.Variable{
		Base:     ast.Base{Loc: loc},
		Name:     name,
		Type:     ty,
		Semantic: semantic,
		Annotations: annots,
		IsGlobal: isGlobal,
	}

	if p.accept(token.Assign) {
		v.Initializer = p.parseInitializer()
	} else {
		v.Initializer = ast.InvalidNode
	}

	idx := p.arena.Add(v)
	sym := ast.Symbol{Kind: ast.SymVariable, Name: name, Loc: loc, Node: idx}
	if _, ok := p.syms.Insert(sym, true); !ok {
		p.diags.Error(loc, diag.CodeSyntaxError, "redefinition of %q", name)
	}

	if isGlobal {
		p.classifyGlobal(idx, v)
		if !ty.Qualifiers.Has(ast.QExtern | ast.QStatic | ast.QUniform) {
			p.diags.Warning(loc, diag.CodeGlobalsUniform, "global %q is uniform by default", name)
		}
	}
	return idx
}

func (p *Parser) parseInitializer() ast.NodeIndex {
	if p.at(token.LBrace) {
		return p.parseInitializerList()
	}
	return p.parseAssignment()
}

func (p *Parser) parseInitializerList() ast.NodeIndex {
	loc := p.tok.Loc
	p.expect(token.LBrace, "'{'")
	var items []ast.NodeIndex
	for !p.at(token.RBrace) && !p.at(token.EOF) {
		items = append(items, p.parseInitializer())
		if !p.accept(token.Comma) {
			break
		}
	}
	p.expect(token.RBrace, "'}'")
	il := &ast.InitializerList{Base: ast.Base{Loc: loc}, Items: items}
	idx := p.arena.Add(il)
	p.foldInitializerList(idx, il)
	return idx
}
