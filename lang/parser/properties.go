// properties.go parses the declarative surface of spec.md §4.2/§6:
// annotation blocks (`< Name = value; ... >`), struct declarations,
// function definitions, and technique/pass property blocks, the last
// resolved against the case-insensitive fxtypes enum tables.
package parser

import (
	"strings"

	"github.com/gogpu/effectfx/diag"
	"github.com/gogpu/effectfx/fxtypes"
	"github.com/gogpu/effectfx/lang/ast"
	"github.com/gogpu/effectfx/lang/token"
)

// classifyGlobal buckets a global variable declaration into Textures,
// Samplers, or Uniforms so downstream stages (resource, runtime) never
// need to re-inspect every declaration's base type (spec.md §3 invariant).
func (p *Parser) classifyGlobal(idx ast.NodeIndex, v *ast.Variable) {
	switch {
	case v.Type.Base.IsTexture():
		p.res.Textures = append(p.res.Textures, idx)
	case v.Type.Base.IsSampler():
		p.res.Samplers = append(p.res.Samplers, idx)
		p.checkSamplerTextureRef(v)
	default:
		p.res.Uniforms = append(p.res.Uniforms, idx)
	}
}

// checkSamplerTextureRef validates a sampler's "Texture" annotation (if
// present) names a declared texture2D family variable.
func (p *Parser) checkSamplerTextureRef(v *ast.Variable) {
	for _, a := range v.Annotations {
		if !strings.EqualFold(a.Name, "Texture") {
			continue
		}
		id, ok := p.syms.Lookup(a.Value.Str)
		if !ok {
			p.diags.Error(v.Loc, diag.CodeUndeclaredIdentifier, "sampler %q references unknown texture %q", v.Name, a.Value.Str)
			return
		}
		texVar, _ := p.arena.At(p.syms.Get(id).Node).(*ast.Variable)
		if texVar == nil || !texVar.Type.Base.IsTexture() {
			p.diags.Error(v.Loc, diag.CodeUndeclaredIdentifier, "sampler %q's Texture annotation does not name a texture", v.Name)
		}
	}
}

// parseAnnotationBlock parses `< [type] Name = literal ; ... >`. Annotation
// values are restricted to literals (spec.md §3: "Annotation: opaque
// key/value pass-through, values limited to literal constants").
func (p *Parser) parseAnnotationBlock() []ast.Annotation {
	p.expect(token.Lt, "'<'")
	var out []ast.Annotation
	for !p.at(token.Gt) && !p.at(token.EOF) {
		ty, _ := p.acceptTypeClass() // optional leading type, informational only

		if !p.at(token.Identifier) {
			p.errorf(diag.CodeSyntaxError, "expected annotation name")
			p.synchronize()
			break
		}
		name := p.tok.Raw
		p.advance()
		p.expect(token.Assign, "'='")
		val := p.parseAnnotationValue()
		out = append(out, ast.Annotation{Name: name, Value: val, Type: ty})
		p.accept(token.Semicolon)
	}
	p.expect(token.Gt, "'>'")
	return out
}

func (p *Parser) parseAnnotationValue() ast.LiteralValue {
	loc := p.tok.Loc
	switch {
	case p.at(token.StringLiteral):
		v := p.tok.Literal.Str
		p.advance()
		return ast.LiteralValue{Str: v}
	case p.at(token.IntLiteral):
		v := p.tok.Literal.Int
		p.advance()
		return ast.LiteralValue{Int: v}
	case p.at(token.UintLiteral):
		v := p.tok.Literal.Uint
		p.advance()
		return ast.LiteralValue{Uint: v}
	case p.at(token.FloatLiteral):
		v := p.tok.Literal.Float
		p.advance()
		return ast.LiteralValue{Float: v}
	case p.at(token.DoubleLiteral):
		v := p.tok.Literal.Double
		p.advance()
		return ast.LiteralValue{Double: v}
	case p.at(token.BoolLiteral):
		v := p.tok.Literal.Int != 0
		p.advance()
		return ast.LiteralValue{Bool: v}
	case p.at(token.Minus):
		p.advance()
		v := p.parseAnnotationValue()
		v.Int, v.Float, v.Double = -v.Int, -v.Float, -v.Double
		return v
	default:
		p.diags.Error(loc, diag.CodeSyntaxError, "expected a literal annotation value")
		p.advance()
		return ast.LiteralValue{}
	}
}

// parseStructDecl parses `struct Name { type field [: SEMANTIC]; ... };`.
func (p *Parser) parseStructDecl() (ast.NodeIndex, bool) {
	loc := p.tok.Loc
	p.advance() // 'struct'
	if !p.at(token.Identifier) {
		p.errorf(diag.CodeSyntaxError, "expected struct name")
		p.synchronize()
		return ast.InvalidNode, false
	}
	name := p.tok.Raw
	p.advance()

	decl := &ast.StructDecl{Base: ast.Base{Loc: loc}, Name: name}
	idx := p.arena.Add(decl)
	sym := ast.Symbol{Kind: ast.SymStruct, Name: name, Loc: loc, Node: idx}
	if _, ok := p.syms.Insert(sym, true); !ok {
		p.diags.Error(loc, diag.CodeSyntaxError, "redefinition of struct %q", name)
	}

	p.expect(token.LBrace, "'{'")
	for !p.at(token.RBrace) && !p.at(token.EOF) {
		fieldTy, ok := p.acceptTypeClass()
		if !ok {
			p.errorf(diag.CodeSyntaxError, "expected a field type in struct %q", name)
			p.synchronize()
			continue
		}
		for {
			if !p.at(token.Identifier) {
				p.errorf(diag.CodeSyntaxError, "expected field name")
				break
			}
			fieldName := p.tok.Raw
			p.advance()
			ft := fieldTy
			if p.accept(token.LBracket) {
				if p.at(token.IntLiteral) {
					ft.ArrayLength = int(p.tok.Literal.Int)
					p.advance()
				}
				p.expect(token.RBracket, "']'")
			}
			semantic := ""
			if p.accept(token.Colon) && p.at(token.Identifier) {
				semantic = p.tok.Raw
				p.advance()
			}
			decl.Fields = append(decl.Fields, ast.StructField{Name: fieldName, Type: ft, Semantic: semantic})
			if !p.accept(token.Comma) {
				break
			}
		}
		p.expect(token.Semicolon, "';'")
	}
	p.expect(token.RBrace, "'}'")
	p.accept(token.Semicolon)

	if len(decl.Fields) == 0 {
		p.diags.Warning(loc, diag.CodeEmptyStruct, "struct %q has no fields", name)
	}
	return idx, true
}

// parseFunction parses the parameter list, optional return semantic, and
// body of a function whose return type and name were already consumed by
// the caller.
func (p *Parser) parseFunction(loc token.Location, name string, retTy ast.Type) {
	fn := &ast.Function{Base: ast.Base{Loc: loc}, Name: name, ReturnType: retTy, Body: ast.InvalidNode}
	fnIdx := p.arena.Add(fn)
	sym := ast.Symbol{Kind: ast.SymFunction, Name: name, Loc: loc, Node: fnIdx}
	p.syms.Insert(sym, false)
	p.res.Functions = append(p.res.Functions, fnIdx)
	if name == "main" || name == "VS" || name == "PS" || strings.HasPrefix(strings.ToUpper(name), "VS_") || strings.HasPrefix(strings.ToUpper(name), "PS_") {
		fn.IsEntryPoint = true
	}

	p.expect(token.LParen, "'('")
	p.syms.EnterScope()
	for !p.at(token.RParen) && !p.at(token.EOF) {
		q := p.parseQualifiers()
		pty, ok := p.acceptTypeClass()
		if !ok {
			p.errorf(diag.CodeSyntaxError, "expected parameter type")
			break
		}
		pname := ""
		if p.at(token.Identifier) {
			pname = p.tok.Raw
			p.advance()
		}
		psema := ""
		if p.accept(token.Colon) && p.at(token.Identifier) {
			psema = p.tok.Raw
			p.advance()
		}
		fn.Params = append(fn.Params, ast.Param{Name: pname, Type: pty, Semantic: psema, Qualifiers: q})
		if pname != "" {
			pvar := &ast.Variable{Base: ast.Base{Loc: loc}, Name: pname, Type: pty, Initializer: ast.InvalidNode, Semantic: psema}
			pidx := p.arena.Add(pvar)
			p.syms.Insert(ast.Symbol{Kind: ast.SymVariable, Name: pname, Loc: loc, Node: pidx}, true)
		}
		if !p.accept(token.Comma) {
			break
		}
	}
	p.expect(token.RParen, "')'")

	if p.accept(token.Colon) && p.at(token.Identifier) {
		fn.ReturnSema = p.tok.Raw
		p.advance()
	}

	if p.at(token.LBrace) {
		fn.Body = p.parseCompound()
	} else {
		p.expect(token.Semicolon, "';' (forward declaration)")
	}
	p.syms.LeaveScope()
}

// parseTechnique parses `technique Name [<annots>] { pass Name { ... } ... }`.
func (p *Parser) parseTechnique() (ast.NodeIndex, bool) {
	loc := p.tok.Loc
	p.advance() // 'technique'
	name := ""
	if p.at(token.Identifier) {
		name = p.tok.Raw
		p.advance()
	}
	var annots []ast.Annotation
	if p.at(token.Lt) {
		annots = p.parseAnnotationBlock()
	}
	tech := &ast.Technique{Base: ast.Base{Loc: loc}, Name: name, Annotations: annots}

	p.expect(token.LBrace, "'{'")
	for p.at(token.KwPass) {
		if idx, ok := p.parsePass(); ok {
			tech.Passes = append(tech.Passes, idx)
		}
	}
	p.expect(token.RBrace, "'}'")
	p.accept(token.Semicolon)

	return p.arena.Add(tech), true
}

// propertySetters maps a case-insensitive pass-state property name to a
// setter invoked with its raw (uppercased, trimmed) right-hand value.
var propertySetters = map[string]func(p *Parser, loc token.Location, ps *ast.PassState, val string){
	"VERTEXSHADER":     func(p *Parser, _ token.Location, ps *ast.PassState, v string) { ps.VS = v },
	"PIXELSHADER":      func(p *Parser, _ token.Location, ps *ast.PassState, v string) { ps.PS = v },
	"BLENDENABLE":      setBool(func(ps *ast.PassState, b bool) { ps.BlendEnable = b }),
	"SRCBLEND":         setBlendFactor(func(ps *ast.PassState, s string) { ps.SrcRGB = s }),
	"DESTBLEND":        setBlendFactor(func(ps *ast.PassState, s string) { ps.DstRGB = s }),
	"BLENDOP":          setBlendOp(func(ps *ast.PassState, s string) { ps.OpRGB = s }),
	"SRCBLENDALPHA":    setBlendFactor(func(ps *ast.PassState, s string) { ps.SrcA = s }),
	"DESTBLENDALPHA":   setBlendFactor(func(ps *ast.PassState, s string) { ps.DstA = s }),
	"BLENDOPALPHA":     setBlendOp(func(ps *ast.PassState, s string) { ps.OpA = s }),
	"ZENABLE":          setBool(func(ps *ast.PassState, b bool) { ps.DepthEnable = b }),
	"ZWRITEENABLE":     setBool(func(ps *ast.PassState, b bool) { ps.DepthWrite = b }),
	"ZFUNC":            setCompareFunc(func(ps *ast.PassState, s string) { ps.DepthFunc = s }),
	"STENCILENABLE":    setBool(func(ps *ast.PassState, b bool) { ps.StencilEnable = b }),
	"STENCILFUNC":      setCompareFunc(func(ps *ast.PassState, s string) { ps.StencilFunc = s }),
	"STENCILPASS":      setStencilOp(func(ps *ast.PassState, s string) { ps.StencilOpPass = s }),
	"STENCILFAIL":      setStencilOp(func(ps *ast.PassState, s string) { ps.StencilOpFail = s }),
	"STENCILZFAIL":     setStencilOp(func(ps *ast.PassState, s string) { ps.StencilOpZFail = s }),
	"CULLMODE":         setCullMode(func(ps *ast.PassState, s string) { ps.CullMode = s }),
	"FILLMODE":         setFillMode(func(ps *ast.PassState, s string) { ps.FillMode = s }),
	"SCISSORTESTENABLE": setBool(func(ps *ast.PassState, b bool) { ps.ScissorEnable = b }),
	"SRGBWRITEENABLE":  setBool(func(ps *ast.PassState, b bool) { ps.SRGBWrite = b }),
	"ALPHATOCOVERAGEENABLE": setBool(func(ps *ast.PassState, b bool) { ps.AlphaToCoverage = b }),
}

func setBool(set func(*ast.PassState, bool)) func(*Parser, token.Location, *ast.PassState, string) {
	return func(p *Parser, loc token.Location, ps *ast.PassState, v string) {
		set(ps, strings.EqualFold(v, "true") || v == "1")
	}
}

func setBlendFactor(set func(*ast.PassState, string)) func(*Parser, token.Location, *ast.PassState, string) {
	return func(p *Parser, loc token.Location, ps *ast.PassState, v string) {
		if _, ok := fxtypes.LookupBlendFactor(v); !ok {
			p.diags.Error(loc, diag.CodeUnknownPropertyName, "unknown blend factor %q", v)
			return
		}
		set(ps, strings.ToUpper(v))
	}
}

func setBlendOp(set func(*ast.PassState, string)) func(*Parser, token.Location, *ast.PassState, string) {
	return func(p *Parser, loc token.Location, ps *ast.PassState, v string) {
		if _, ok := fxtypes.LookupBlendOp(v); !ok {
			p.diags.Error(loc, diag.CodeUnknownPropertyName, "unknown blend op %q", v)
			return
		}
		set(ps, strings.ToUpper(v))
	}
}

func setCompareFunc(set func(*ast.PassState, string)) func(*Parser, token.Location, *ast.PassState, string) {
	return func(p *Parser, loc token.Location, ps *ast.PassState, v string) {
		if _, ok := fxtypes.LookupCompareFunc(v); !ok {
			p.diags.Error(loc, diag.CodeUnknownPropertyName, "unknown compare function %q", v)
			return
		}
		set(ps, strings.ToUpper(v))
	}
}

func setStencilOp(set func(*ast.PassState, string)) func(*Parser, token.Location, *ast.PassState, string) {
	return func(p *Parser, loc token.Location, ps *ast.PassState, v string) {
		if _, ok := fxtypes.LookupStencilOp(v); !ok {
			p.diags.Error(loc, diag.CodeUnknownPropertyName, "unknown stencil op %q", v)
			return
		}
		set(ps, strings.ToUpper(v))
	}
}

func setCullMode(set func(*ast.PassState, string)) func(*Parser, token.Location, *ast.PassState, string) {
	return func(p *Parser, loc token.Location, ps *ast.PassState, v string) {
		if _, ok := fxtypes.LookupCullMode(v); !ok {
			p.diags.Error(loc, diag.CodeUnknownPropertyName, "unknown cull mode %q", v)
			return
		}
		set(ps, strings.ToUpper(v))
	}
}

func setFillMode(set func(*ast.PassState, string)) func(*Parser, token.Location, *ast.PassState, string) {
	return func(p *Parser, loc token.Location, ps *ast.PassState, v string) {
		if _, ok := fxtypes.LookupFillMode(v); !ok {
			p.diags.Error(loc, diag.CodeUnknownPropertyName, "unknown fill mode %q", v)
			return
		}
		set(ps, strings.ToUpper(v))
	}
}

// parsePass parses `pass Name { Property = value; ... }`.
func (p *Parser) parsePass() (ast.NodeIndex, bool) {
	loc := p.tok.Loc
	p.advance() // 'pass'
	name := ""
	if p.at(token.Identifier) {
		name = p.tok.Raw
		p.advance()
	}
	pass := &ast.Pass{Base: ast.Base{Loc: loc}, Name: name}
	pass.State.CullMode = "BACK"
	pass.State.DepthEnable = true
	pass.State.DepthWrite = true
	pass.State.DepthFunc = "LESS"
	pass.State.WriteMask = 0xF

	p.expect(token.LBrace, "'{'")
	for !p.at(token.RBrace) && !p.at(token.EOF) {
		if !p.at(token.Identifier) {
			p.errorf(diag.CodeSyntaxError, "expected a pass property name")
			p.synchronize()
			continue
		}
		propLoc := p.tok.Loc
		propName := strings.ToUpper(p.tok.Raw)
		p.advance()

		rtIndex := -1
		if strings.HasPrefix(propName, "RENDERTARGET") && len(propName) > len("RENDERTARGET") {
			if n := propName[len("RENDERTARGET"):]; len(n) == 1 && n[0] >= '0' && n[0] <= '7' {
				rtIndex = int(n[0] - '0')
				propName = "RENDERTARGET"
			}
		}

		p.expect(token.Assign, "'='")
		val := p.parsePropertyValueRaw()
		p.accept(token.Semicolon)

		switch {
		case propName == "RENDERTARGET":
			if rtIndex < 0 {
				rtIndex = 0
			}
			pass.State.RenderTargets[rtIndex] = val
		case propName == "WRITEMASK":
			pass.State.WriteMask = parseWriteMask(val)
		case propName == "STENCILREF":
			pass.State.StencilRef = parseIntLiteralText(val)
		case propName == "STENCILREADMASK":
			pass.State.StencilReadMask = uint8(parseIntLiteralText(val))
		case propName == "STENCILWRITEMASK":
			pass.State.StencilWriteMask = uint8(parseIntLiteralText(val))
		default:
			setter, ok := propertySetters[propName]
			if !ok {
				p.diags.Error(propLoc, diag.CodeUnknownPropertyName, "unknown pass property %q", p.tok.Raw)
				continue
			}
			setter(p, propLoc, &pass.State, val)
		}
	}
	p.expect(token.RBrace, "'}'")
	p.accept(token.Semicolon)
	return p.arena.Add(pass), true
}

// parsePropertyValueRaw reads one property's right-hand side as raw source
// text (identifier, literal, or call-like `CompileShader(...)` form),
// stripping the trailing ';' the caller consumes separately.
func (p *Parser) parsePropertyValueRaw() string {
	var sb strings.Builder
	depth := 0
	for {
		if depth == 0 && (p.at(token.Semicolon) || p.at(token.RBrace) || p.at(token.EOF)) {
			break
		}
		if p.at(token.LParen) {
			depth++
		}
		if p.at(token.RParen) {
			depth--
		}
		if sb.Len() > 0 {
			sb.WriteByte(' ')
		}
		sb.WriteString(p.tok.Raw)
		p.advance()
	}
	return strings.TrimSpace(sb.String())
}

func parseWriteMask(v string) uint8 {
	v = strings.ToUpper(strings.TrimSpace(v))
	var mask uint8
	for _, c := range v {
		switch c {
		case 'R':
			mask |= 1
		case 'G':
			mask |= 2
		case 'B':
			mask |= 4
		case 'A':
			mask |= 8
		}
	}
	if mask == 0 {
		return 0xF
	}
	return mask
}

func parseIntLiteralText(v string) int {
	n := 0
	neg := false
	for i, c := range v {
		if i == 0 && c == '-' {
			neg = true
			continue
		}
		if c < '0' || c > '9' {
			break
		}
		n = n*10 + int(c-'0')
	}
	if neg {
		n = -n
	}
	return n
}
