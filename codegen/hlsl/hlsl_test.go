package hlsl_test

import (
	"strings"
	"testing"

	"github.com/gogpu/effectfx/codegen"
	"github.com/gogpu/effectfx/codegen/hlsl"
	"github.com/gogpu/effectfx/diag"
	"github.com/gogpu/effectfx/fxtypes"
	"github.com/gogpu/effectfx/lang/parser"
)

func compile(t *testing.T, src string) *codegen.EffectIR {
	t.Helper()
	res, diags := parser.Parse([]byte(src), "t.fx")
	if diags.Fatal() {
		t.Fatalf("unexpected fatal diagnostics:\n%s", diags.String())
	}
	var out diag.Bag
	ir := codegen.Compile(res, fxtypes.BackendD3D11, &hlsl.Sink{}, &out)
	if out.Fatal() {
		t.Fatalf("unexpected codegen diagnostics:\n%s", out.String())
	}
	return ir
}

func TestSimpleVertexPixelPairCompiles(t *testing.T) {
	src := `
float4 VSMain(float4 pos : POSITION) : SV_Position { return pos; }
float4 PSMain() : SV_Target { return float4(1,1,1,1); }
technique T0 {
  pass P0 {
    VertexShader = VSMain;
    PixelShader = PSMain;
  }
}
`
	ir := compile(t, src)
	if len(ir.Shaders) != 2 {
		t.Fatalf("expected 2 shaders, got %d", len(ir.Shaders))
	}
	vs, ok := ir.Shaders["VSMain"]
	if !ok || vs.Stage != codegen.StageVertex {
		t.Fatalf("expected a compiled VSMain vertex shader, got %+v", vs)
	}
	if !strings.Contains(vs.Source, "float4 VSMain(float4 pos : POSITION) : SV_Position") {
		t.Fatalf("unexpected VSMain source:\n%s", vs.Source)
	}
	if strings.Contains(vs.Source, "gl_Position") {
		t.Fatalf("HLSL output must not contain GLSL's gl_Position:\n%s", vs.Source)
	}
}

func TestUniformBlockEmitsCbuffer(t *testing.T) {
	src := `
float time;
float4 tint;
float4 VSMain() : SV_Position { return float4(0,0,0,1); }
technique T0 { pass P0 { VertexShader = VSMain; } }
`
	ir := compile(t, src)
	shader := ir.Shaders["VSMain"]
	if !strings.Contains(shader.Source, "cbuffer EffectFXGlobals : register(b0)") {
		t.Fatalf("expected a global cbuffer declaration, got:\n%s", shader.Source)
	}
	if len(ir.Resources.UniformBlocks) != 1 || ir.Resources.UniformBlocks[0].Slot != 0 {
		t.Fatalf("unexpected resource table: %+v", ir.Resources)
	}
}

func TestTextureSampleLowersToSampleCall(t *testing.T) {
	src := `
texture2D tex;
sampler2D samp;
float4 PSMain(float2 uv : TEXCOORD0) : SV_Target { return tex2D(samp, uv); }
technique T0 { pass P0 { PixelShader = PSMain; } }
`
	ir := compile(t, src)
	shader := ir.Shaders["PSMain"]
	if !strings.Contains(shader.Source, "samp_tex.Sample(samp_samp, uv)") {
		t.Fatalf("expected expanded Sample call, got:\n%s", shader.Source)
	}
}

func TestUndeclaredPassFunctionReportsDiagnostic(t *testing.T) {
	src := `
technique T0 { pass P0 { VertexShader = Missing; } }
`
	res, diags := parser.Parse([]byte(src), "t.fx")
	if diags.Fatal() {
		t.Fatalf("unexpected parse failure:\n%s", diags.String())
	}
	var out diag.Bag
	codegen.Compile(res, fxtypes.BackendD3D11, &hlsl.Sink{}, &out)
	if !out.Fatal() {
		t.Fatalf("expected a fatal diagnostic for undeclared pass function")
	}
}
