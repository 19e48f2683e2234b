package compiler_test

import (
	"strings"
	"testing"

	"github.com/gogpu/effectfx/codegen"
	"github.com/gogpu/effectfx/compiler"
	"github.com/gogpu/effectfx/fxtypes"
	"github.com/gogpu/wgpu/hal"
	"github.com/gogpu/effectfx/hostiface"
	"github.com/gogpu/effectfx/runtime"
	"github.com/gogpu/gputypes"
)

const validSource = `
float4 VSMain(float4 pos : POSITION) : SV_Position { return pos; }
float4 PSMain() : SV_Target { return float4(1,1,1,1); }
technique T0 {
  pass P0 {
    VertexShader = VSMain;
    PixelShader = PSMain;
  }
}
`

const syntaxErrorSource = `
float4 PSMain() : SV_Target { return 1 2; }
`

type fakeResource struct{ destroyed bool }

func (r *fakeResource) Destroy() { r.destroyed = true }

type fakeBuffer struct{ fakeResource }
type fakeTexture struct{ fakeResource }
type fakeTextureView struct{ fakeResource }
type fakeSampler struct{ fakeResource }
type fakeShaderModule struct{ fakeResource }
type fakeBindGroupLayout struct{ fakeResource }
type fakeBindGroup struct{ fakeResource }
type fakePipelineLayout struct{ fakeResource }
type fakeRenderPipeline struct{ fakeResource }
type fakeCommandBuffer struct{ fakeResource }

type fakeRenderPassEncoder struct{ hal.RenderPassEncoder }

func (*fakeRenderPassEncoder) End()                                         {}
func (*fakeRenderPassEncoder) SetPipeline(hal.RenderPipeline)               {}
func (*fakeRenderPassEncoder) SetBindGroup(uint32, hal.BindGroup, []uint32) {}
func (*fakeRenderPassEncoder) SetVertexBuffer(uint32, hal.Buffer, uint64)   {}
func (*fakeRenderPassEncoder) SetViewport(_, _, _, _, _, _ float32)         {}
func (*fakeRenderPassEncoder) SetBlendConstant(*gputypes.Color)             {}
func (*fakeRenderPassEncoder) SetStencilReference(uint32)                   {}
func (*fakeRenderPassEncoder) Draw(uint32, uint32, uint32, uint32)          {}

type fakeEncoder struct{ hal.CommandEncoder }

func (*fakeEncoder) BeginEncoding(string) error { return nil }
func (*fakeEncoder) EndEncoding() (hal.CommandBuffer, error) { return &fakeCommandBuffer{}, nil }
func (*fakeEncoder) BeginRenderPass(*hal.RenderPassDescriptor) hal.RenderPassEncoder {
	return &fakeRenderPassEncoder{}
}

type fakeDevice struct{ hal.Device }

func (*fakeDevice) CreateBuffer(*hal.BufferDescriptor) (hal.Buffer, error) { return &fakeBuffer{}, nil }
func (*fakeDevice) DestroyBuffer(b hal.Buffer)                             { b.Destroy() }
func (*fakeDevice) CreateTexture(*hal.TextureDescriptor) (hal.Texture, error) {
	return &fakeTexture{}, nil
}
func (*fakeDevice) DestroyTexture(t hal.Texture) { t.Destroy() }
func (*fakeDevice) CreateTextureView(hal.Texture, *hal.TextureViewDescriptor) (hal.TextureView, error) {
	return &fakeTextureView{}, nil
}
func (*fakeDevice) DestroyTextureView(v hal.TextureView) { v.Destroy() }
func (*fakeDevice) CreateSampler(*hal.SamplerDescriptor) (hal.Sampler, error) {
	return &fakeSampler{}, nil
}
func (*fakeDevice) DestroySampler(s hal.Sampler) { s.Destroy() }
func (*fakeDevice) CreateBindGroupLayout(*hal.BindGroupLayoutDescriptor) (hal.BindGroupLayout, error) {
	return &fakeBindGroupLayout{}, nil
}
func (*fakeDevice) DestroyBindGroupLayout(l hal.BindGroupLayout) { l.Destroy() }
func (*fakeDevice) CreateBindGroup(*hal.BindGroupDescriptor) (hal.BindGroup, error) {
	return &fakeBindGroup{}, nil
}
func (*fakeDevice) DestroyBindGroup(g hal.BindGroup) { g.Destroy() }
func (*fakeDevice) CreatePipelineLayout(*hal.PipelineLayoutDescriptor) (hal.PipelineLayout, error) {
	return &fakePipelineLayout{}, nil
}
func (*fakeDevice) DestroyPipelineLayout(l hal.PipelineLayout) { l.Destroy() }
func (*fakeDevice) CreateRenderPipeline(*hal.RenderPipelineDescriptor) (hal.RenderPipeline, error) {
	return &fakeRenderPipeline{}, nil
}
func (*fakeDevice) DestroyRenderPipeline(p hal.RenderPipeline) { p.Destroy() }
func (*fakeDevice) CreateCommandEncoder(*hal.CommandEncoderDescriptor) (hal.CommandEncoder, error) {
	return &fakeEncoder{}, nil
}

type fakeQueue struct{ hal.Queue }

func (*fakeQueue) Submit([]hal.CommandBuffer, hal.Fence, uint64) error { return nil }
func (*fakeQueue) WriteBuffer(hal.Buffer, uint64, []byte)              {}

func noopCompile(source, entryPoint string, stage codegen.Stage) (hal.ShaderModule, error) {
	return &fakeShaderModule{}, nil
}

func newTestOptions(t *testing.T, backend fxtypes.Backend) compiler.Options {
	t.Helper()
	dev := &fakeDevice{}
	rt := runtime.New(dev, nil, nil)
	if !rt.OnInit(hostiface.SwapChainDescriptor{Width: 64, Height: 64}, 0) {
		t.Fatalf("OnInit failed")
	}
	return compiler.Options{
		Device:  dev,
		Queue:   &fakeQueue{},
		Runtime: rt,
		Compile: noopCompile,
		Backend: backend,
	}
}

func TestCompileValidSourceProducesDrivableEffect(t *testing.T) {
	e, diags, err := compiler.Compile([]byte(validSource), "t.fx", newTestOptions(t, fxtypes.BackendD3D11))
	if err != nil {
		t.Fatalf("Compile: %v", err)
	}
	if diags.Fatal() {
		t.Fatalf("unexpected fatal diagnostics:\n%s", diags.String())
	}
	if e == nil {
		t.Fatalf("expected a non-nil effect")
	}
	names := e.ListTechniqueNames()
	if len(names) != 1 || names[0] != "T0" {
		t.Fatalf("ListTechniqueNames = %v", names)
	}
	tech, ok := e.GetTechnique("T0")
	if !ok {
		t.Fatalf("GetTechnique(T0) not found")
	}
	passes, err := tech.Begin()
	if err != nil {
		t.Fatalf("Begin: %v", err)
	}
	if passes != 1 {
		t.Fatalf("expected 1 pass, got %d", passes)
	}
	if err := tech.RenderPass(0); err != nil {
		t.Fatalf("RenderPass: %v", err)
	}
	if err := tech.End(); err != nil {
		t.Fatalf("End: %v", err)
	}
}

func TestCompileGLSLBackendSucceeds(t *testing.T) {
	_, diags, err := compiler.Compile([]byte(validSource), "t.fx", newTestOptions(t, fxtypes.BackendOpenGL))
	if err != nil {
		t.Fatalf("Compile: %v", err)
	}
	if diags.Fatal() {
		t.Fatalf("unexpected fatal diagnostics:\n%s", diags.String())
	}
}

func TestCompileSyntaxErrorReturnsFatalDiagnosticsNoEffect(t *testing.T) {
	e, diags, err := compiler.Compile([]byte(syntaxErrorSource), "bad.fx", newTestOptions(t, fxtypes.BackendD3D11))
	if err != nil {
		t.Fatalf("Compile: %v", err)
	}
	if e != nil {
		t.Fatalf("expected nil effect for a syntax error")
	}
	if !diags.Fatal() {
		t.Fatalf("expected fatal diagnostics for invalid source")
	}
	if !strings.Contains(diags.String(), "error") {
		t.Fatalf("expected diagnostic text to mention an error:\n%s", diags.String())
	}
}

func TestCompileRequiresCollaborators(t *testing.T) {
	_, _, err := compiler.Compile([]byte(validSource), "t.fx", compiler.Options{Backend: fxtypes.BackendD3D11})
	if err == nil {
		t.Fatalf("expected an error when Device/Queue/Runtime/Compile are missing")
	}
}
