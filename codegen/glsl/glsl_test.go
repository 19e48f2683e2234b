package glsl_test

import (
	"strings"
	"testing"

	"github.com/gogpu/effectfx/codegen"
	"github.com/gogpu/effectfx/codegen/glsl"
	"github.com/gogpu/effectfx/diag"
	"github.com/gogpu/effectfx/fxtypes"
	"github.com/gogpu/effectfx/lang/parser"
)

func compile(t *testing.T, src string, sink *glsl.Sink) *codegen.EffectIR {
	t.Helper()
	res, diags := parser.Parse([]byte(src), "t.fx")
	if diags.Fatal() {
		t.Fatalf("unexpected fatal diagnostics:\n%s", diags.String())
	}
	var out diag.Bag
	ir := codegen.Compile(res, fxtypes.BackendOpenGL, sink, &out)
	if out.Fatal() {
		t.Fatalf("unexpected codegen diagnostics:\n%s", out.String())
	}
	return ir
}

func TestVertexEpilogueAppliesClipSpaceFixup(t *testing.T) {
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
	ir := compile(t, src, &glsl.Sink{})
	vs := ir.Shaders["VSMain"]
	if !strings.Contains(vs.Source, "gl_Position = pos;") {
		t.Fatalf("expected gl_Position assignment, got:\n%s", vs.Source)
	}
	if !strings.Contains(vs.Source, "gl_Position = gl_Position * vec4(1.0, -1.0, 2.0, 1.0)") {
		t.Fatalf("expected clip-space fixup, got:\n%s", vs.Source)
	}
	ps := ir.Shaders["PSMain"]
	if strings.Contains(ps.Source, "gl_Position") {
		t.Fatalf("pixel shader must not receive the vertex epilogue:\n%s", ps.Source)
	}
}

func TestIntrinsicRewriteTable(t *testing.T) {
	src := `
float4 PSMain(float4 a : COLOR0, float4 b : COLOR1, float t : TEXCOORD0) : SV_Target {
  return lerp(a, b, saturate(t));
}
technique T0 { pass P0 { PixelShader = PSMain; } }
`
	ir := compile(t, src, &glsl.Sink{})
	ps := ir.Shaders["PSMain"]
	if !strings.Contains(ps.Source, "mix(a, b, clamp(t, 0.0, 1.0))") {
		t.Fatalf("expected lerp/saturate rewritten, got:\n%s", ps.Source)
	}
}

func TestTextureSampleLowersToTextureCall(t *testing.T) {
	src := `
texture2D tex;
sampler2D samp;
float4 PSMain(float2 uv : TEXCOORD0) : SV_Target { return tex2D(samp, uv); }
technique T0 { pass P0 { PixelShader = PSMain; } }
`
	ir := compile(t, src, &glsl.Sink{})
	ps := ir.Shaders["PSMain"]
	if !strings.Contains(ps.Source, "texture(samp, uv)") {
		t.Fatalf("expected texture() call, got:\n%s", ps.Source)
	}
}

func TestExplicitBindingsEmitLayoutQualifier(t *testing.T) {
	src := `
texture2D tex;
sampler2D samp;
float4 PSMain(float2 uv : TEXCOORD0) : SV_Target { return tex2D(samp, uv); }
technique T0 { pass P0 { PixelShader = PSMain; } }
`
	ir := compile(t, src, &glsl.Sink{UseExplicitBindings: true})
	ps := ir.Shaders["PSMain"]
	if !strings.Contains(ps.Source, "layout(binding = 0) uniform sampler2D samp;") {
		t.Fatalf("expected explicit binding qualifier, got:\n%s", ps.Source)
	}
}
