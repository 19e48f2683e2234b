package parser

import (
	"github.com/gogpu/effectfx/diag"
	"github.com/gogpu/effectfx/lang/ast"
	"github.com/gogpu/effectfx/lang/token"
)

var builtinBase = map[token.Kind]ast.BaseClass{
	token.KwVoid: ast.Void, token.KwBool: ast.Bool, token.KwInt: ast.Int, token.KwUint: ast.Uint,
	token.KwHalf: ast.Half, token.KwFloat: ast.Float, token.KwDouble: ast.Double, token.KwString: ast.String,
	token.KwTexture1D: ast.Texture1D, token.KwTexture2D: ast.Texture2D, token.KwTexture3D: ast.Texture3D,
	token.KwSampler1D: ast.Sampler1D, token.KwSampler2D: ast.Sampler2D, token.KwSampler3D: ast.Sampler3D,
}

var qualifierKeyword = map[token.Kind]ast.Qualifier{
	token.KwExtern: ast.QExtern, token.KwStatic: ast.QStatic, token.KwUniform: ast.QUniform,
	token.KwConst: ast.QConst, token.KwVolatile: ast.QVolatile, token.KwPrecise: ast.QPrecise,
	token.KwIn: ast.QIn, token.KwOut: ast.QOut, token.KwInout: ast.QInout,
	token.KwLinear: ast.QLinear, token.KwNoperspective: ast.QNoperspective, token.KwCentroid: ast.QCentroid,
	token.KwNointerpolation: ast.QNointerpolation, token.KwRowMajor: ast.QRowMajor, token.KwColumnMajor: ast.QColumnMajor,
	token.KwUnorm: ast.QUnorm, token.KwSnorm: ast.QSnorm, token.KwGroupshared: ast.QGroupshared,
}

// parseQualifiers is a greedy repeat-accept loop over qualifier keywords;
// a duplicate qualifier emits warning 3048 (spec.md §4.2).
func (p *Parser) parseQualifiers() ast.Qualifier {
	var q ast.Qualifier
	for {
		bit, ok := qualifierKeyword[p.tok.Kind]
		if !ok {
			return q
		}
		if q.Has(bit) {
			p.warnf(diag.CodeDuplicateQualifier, "duplicate qualifier %q", p.tok.Raw)
		}
		q |= bit
		p.advance()
	}
}

// acceptTypeClass reads a built-in type keyword, a struct-typed
// identifier, or a vector<T,N>/matrix<T,R,C> generic (spec.md §4.2).
func (p *Parser) acceptTypeClass() (ast.Type, bool) {
	if base, ok := builtinBase[p.tok.Kind]; ok {
		p.advance()
		if base == ast.Void || base == ast.String || base.IsTexture() || base.IsSampler() {
			return ast.Type{Base: base}, true
		}
		return ast.NewScalar(base), true
	}

	if p.at(token.KwVector) {
		return p.parseVectorGeneric(), true
	}
	if p.at(token.KwMatrix) {
		return p.parseMatrixGeneric(), true
	}

	if p.at(token.Identifier) {
		name := p.tok.Raw
		if ty, ok := parseNumericAlias(name); ok {
			p.advance()
			return ty, true
		}
		if id, ok := p.syms.Lookup(name); ok {
			sym := p.syms.Get(id)
			if sym.Kind == ast.SymStruct {
				p.advance()
				return ast.Type{Base: ast.Struct, Rows: 1, Cols: 1, Definition: sym.Node}, true
			}
		}
	}
	return ast.Type{}, false
}

var numericAliasPrefixes = []struct {
	prefix string
	base   ast.BaseClass
}{
	{"float", ast.Float}, {"double", ast.Double}, {"uint", ast.Uint}, {"int", ast.Int}, {"half", ast.Half}, {"bool", ast.Bool},
}

// parseNumericAlias recognises the HLSL-style short aliases floatN,
// floatRxC, etc. The lexer hands these back as a single identifier token
// (no internal whitespace), so the parser — not the lexer — resolves them.
func parseNumericAlias(name string) (ast.Type, bool) {
	for _, p := range numericAliasPrefixes {
		if len(name) <= len(p.prefix) || name[:len(p.prefix)] != p.prefix {
			continue
		}
		rest := name[len(p.prefix):]
		switch len(rest) {
		case 1:
			if rest[0] >= '1' && rest[0] <= '4' {
				return ast.NewVector(p.base, int(rest[0]-'0')), true
			}
		case 3:
			if rest[1] == 'x' && rest[0] >= '1' && rest[0] <= '4' && rest[2] >= '1' && rest[2] <= '4' {
				r, c := int(rest[0]-'0'), int(rest[2]-'0')
				return ast.NewMatrix(p.base, r, c), true
			}
		}
	}
	return ast.Type{}, false
}

func (p *Parser) parseScalarBase() ast.BaseClass {
	if base, ok := builtinBase[p.tok.Kind]; ok && base.IsNumeric() {
		p.advance()
		return base
	}
	p.errorf(diag.CodeSyntaxError, "expected a numeric type in generic, got %q", p.tok.Raw)
	return ast.Float
}

func (p *Parser) parseGenericDim() int {
	if p.at(token.IntLiteral) {
		n := int(p.tok.Literal.Int)
		p.advance()
		if n < 1 || n > 4 {
			p.errorf(diag.CodeSyntaxError, "generic dimension must be 1..4, got %d", n)
			return 1
		}
		return n
	}
	p.errorf(diag.CodeSyntaxError, "expected an integer literal dimension")
	return 1
}

func (p *Parser) parseVectorGeneric() ast.Type {
	p.advance() // 'vector'
	if !p.accept(token.Lt) {
		return ast.NewVector(ast.Float, 4)
	}
	base := p.parseScalarBase()
	p.expect(token.Comma, "','")
	n := p.parseGenericDim()
	p.expect(token.Gt, "'>'")
	return ast.NewVector(base, n)
}

func (p *Parser) parseMatrixGeneric() ast.Type {
	p.advance() // 'matrix'
	if !p.accept(token.Lt) {
		return ast.NewMatrix(ast.Float, 4, 4)
	}
	base := p.parseScalarBase()
	p.expect(token.Comma, "','")
	r := p.parseGenericDim()
	p.expect(token.Comma, "','")
	c := p.parseGenericDim()
	p.expect(token.Gt, "'>'")
	return ast.NewMatrix(base, r, c)
}
