package parser_test

import (
	"testing"

	"github.com/gogpu/effectfx/lang/ast"
	"github.com/gogpu/effectfx/lang/parser"
)

func mustParse(t *testing.T, src string) *parser.Result {
	t.Helper()
	res, diags := parser.Parse([]byte(src), "t.fx")
	if diags.Fatal() {
		t.Fatalf("unexpected fatal diagnostics for %q:\n%s", src, diags.String())
	}
	return res
}

func TestConstantFoldingArithmetic(t *testing.T) {
	res := mustParse(t, "static const float x = 1.0 + 2.0 * 3.0;")
	if len(res.Uniforms) != 1 {
		t.Fatalf("expected one uniform, got %d", len(res.Uniforms))
	}
	v := res.Arena.At(res.Uniforms[0]).(*ast.Variable)
	lit, ok := res.Arena.At(v.Initializer).(*ast.Literal)
	if !ok {
		t.Fatalf("initializer did not fold to a literal: %T", res.Arena.At(v.Initializer))
	}
	if lit.Value.Float != 7.0 {
		t.Fatalf("got %v, want 7.0", lit.Value.Float)
	}
}

func TestConstantFoldingUnaryNegate(t *testing.T) {
	res := mustParse(t, "static const int x = -5;")
	v := res.Arena.At(res.Uniforms[0]).(*ast.Variable)
	lit, ok := res.Arena.At(v.Initializer).(*ast.Literal)
	if !ok || lit.Value.Int != -5 {
		t.Fatalf("expected folded literal -5, got %+v", res.Arena.At(v.Initializer))
	}
}

func TestConstantFoldingTernary(t *testing.T) {
	res := mustParse(t, "static const float x = true ? 1.0 : 2.0;")
	v := res.Arena.At(res.Uniforms[0]).(*ast.Variable)
	lit, ok := res.Arena.At(v.Initializer).(*ast.Literal)
	if !ok || lit.Value.Float != 1.0 {
		t.Fatalf("expected folded literal 1.0, got %+v", res.Arena.At(v.Initializer))
	}
}

func TestOverloadResolutionPrefersExactMatch(t *testing.T) {
	src := `
float pick(float a) { return a; }
float pick(int a) { return a; }
float y = pick(1.0);
`
	res := mustParse(t, src)
	if len(res.Uniforms) != 1 {
		t.Fatalf("expected one uniform, got %d", len(res.Uniforms))
	}
	v := res.Arena.At(res.Uniforms[0]).(*ast.Variable)
	call, ok := res.Arena.At(v.Initializer).(*ast.Call)
	if !ok {
		t.Fatalf("expected a Call node, got %T", res.Arena.At(v.Initializer))
	}
	callee := res.Symbols.Get(call.Callee)
	fn := res.Arena.At(callee.Node).(*ast.Function)
	if fn.Params[0].Type.Base != ast.Float {
		t.Fatalf("expected the float overload to win, got param base %v", fn.Params[0].Type.Base)
	}
}

func TestUndeclaredIdentifierIsFatal(t *testing.T) {
	_, diags := parser.Parse([]byte("float y = undeclaredThing;"), "t.fx")
	if !diags.Fatal() {
		t.Fatalf("expected a fatal diagnostic for an undeclared identifier")
	}
}

func TestSwizzleValidMask(t *testing.T) {
	src := `
float4 v;
float3 y = v.xyz;
`
	res := mustParse(t, src)
	v := res.Arena.At(res.Uniforms[1]).(*ast.Variable)
	sw, ok := res.Arena.At(v.Initializer).(*ast.Swizzle)
	if !ok {
		t.Fatalf("expected a Swizzle node, got %T", res.Arena.At(v.Initializer))
	}
	if sw.Length != 3 || sw.Offsets[0] != 0 || sw.Offsets[1] != 1 || sw.Offsets[2] != 2 {
		t.Fatalf("unexpected swizzle offsets: %+v", sw)
	}
}

func TestSwizzleMixedSetsIsError(t *testing.T) {
	src := `
float4 v;
float2 y = v.xr;
`
	_, diags := parser.Parse([]byte(src), "t.fx")
	if !diags.Fatal() {
		t.Fatalf("expected a fatal diagnostic for mixed swizzle sets")
	}
}

func TestGlobalsClassifyIntoTexturesSamplersUniforms(t *testing.T) {
	src := `
texture2D tex;
sampler2D samp;
float plain;
`
	res := mustParse(t, src)
	if len(res.Textures) != 1 || len(res.Samplers) != 1 || len(res.Uniforms) != 1 {
		t.Fatalf("expected 1/1/1 textures/samplers/uniforms, got %d/%d/%d",
			len(res.Textures), len(res.Samplers), len(res.Uniforms))
	}
}

func TestStructFieldSelection(t *testing.T) {
	src := `
struct VSOut { float4 pos : POSITION; float2 uv : TEXCOORD0; };
VSOut o;
float2 y = o.uv;
`
	res := mustParse(t, src)
	v := res.Arena.At(res.Uniforms[1]).(*ast.Variable)
	fs, ok := res.Arena.At(v.Initializer).(*ast.FieldSelection)
	if !ok {
		t.Fatalf("expected a FieldSelection, got %T", res.Arena.At(v.Initializer))
	}
	if fs.FieldName != "uv" || fs.FieldIndex != 1 {
		t.Fatalf("unexpected field selection: %+v", fs)
	}
}

func TestSymbolTableScopeExitRemovesLocals(t *testing.T) {
	src := `
void f() {
  float local = 1.0;
  {
    float local = 2.0;
  }
}
`
	mustParse(t, src) // must not report redefinition across disjoint scopes
}

func TestCastDisambiguation(t *testing.T) {
	src := `
float x = (float)1;
float y = (x + 1);
`
	res := mustParse(t, src)
	xv := res.Arena.At(res.Uniforms[0]).(*ast.Variable)
	if _, ok := res.Arena.At(xv.Initializer).(*ast.Literal); !ok {
		t.Fatalf("expected (float)1 to fold to a Literal, got %T", res.Arena.At(xv.Initializer))
	}
	yv := res.Arena.At(res.Uniforms[1]).(*ast.Variable)
	switch res.Arena.At(yv.Initializer).(type) {
	case *ast.Binary, *ast.LValue:
		// (x + 1) must parse as a parenthesized expression, not a cast.
	default:
		t.Fatalf("expected (x + 1) to parse as an expression, got %T", res.Arena.At(yv.Initializer))
	}
}

func TestTechniqueAndPassParsing(t *testing.T) {
	src := `
float4 VSMain() : POSITION { return float4(0,0,0,1); }
float4 PSMain() : COLOR { return float4(1,1,1,1); }
technique T0 {
  pass P0 {
    VertexShader = VSMain;
    PixelShader = PSMain;
    ZEnable = false;
  }
}
`
	res := mustParse(t, src)
	if len(res.Techniques) != 1 {
		t.Fatalf("expected one technique, got %d", len(res.Techniques))
	}
	tech := res.Arena.At(res.Techniques[0]).(*ast.Technique)
	if len(tech.Passes) != 1 {
		t.Fatalf("expected one pass, got %d", len(tech.Passes))
	}
	pass := res.Arena.At(tech.Passes[0]).(*ast.Pass)
	if pass.State.DepthEnable {
		t.Fatalf("expected ZEnable=false to clear DepthEnable")
	}
}
