package effect_test

import (
	"testing"

	"github.com/gogpu/effectfx/codegen"
	"github.com/gogpu/effectfx/effect"
	"github.com/gogpu/effectfx/fxtypes"
	"github.com/gogpu/wgpu/hal"
	"github.com/gogpu/effectfx/hostiface"
	"github.com/gogpu/effectfx/lang/ast"
	"github.com/gogpu/effectfx/lang/parser"
	"github.com/gogpu/effectfx/runtime"
	"github.com/gogpu/gputypes"
)

// fakeResource and friends mirror the teacher's "placeholder resource,
// every call succeeds" shape used throughout resource/manager_test.go and
// runtime/technique_test.go.
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
func (*fakeEncoder) CopyTextureToTexture(_, _ hal.Texture, _ []hal.TextureCopy) {}

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
func (*fakeQueue) WriteTexture(*hal.ImageCopyTexture, []byte, *hal.ImageDataLayout, *hal.Extent3D) {
}

func noopCompile(source, entryPoint string, stage codegen.Stage) (hal.ShaderModule, error) {
	return &fakeShaderModule{}, nil
}

func buildFixture() (*parser.Result, *codegen.EffectIR) {
	arena := ast.NewArena()

	tex := &ast.Variable{Name: "ColorTex", Annotations: []ast.Annotation{{Name: "source", Value: ast.LiteralValue{Str: "color.png"}}}}
	texIdx := arena.Add(tex)

	uniform := &ast.Variable{Name: "fTime", Annotations: []ast.Annotation{{Name: "ui_type", Value: ast.LiteralValue{Str: "drag"}}}}
	uniformIdx := arena.Add(uniform)

	pass := &ast.Pass{Name: "P0", State: ast.PassState{VS: "VSMain", PS: "PSMain"}}
	passIdx := arena.Add(pass)
	tech := &ast.Technique{Name: "Main", Passes: []ast.NodeIndex{passIdx}, Annotations: []ast.Annotation{{Name: "description", Value: ast.LiteralValue{Str: "demo"}}}}
	techIdx := arena.Add(tech)

	res := &parser.Result{
		Arena:      arena,
		Uniforms:   []ast.NodeIndex{uniformIdx},
		Textures:   []ast.NodeIndex{texIdx},
		Techniques: []ast.NodeIndex{techIdx},
	}

	ir := &codegen.EffectIR{
		Resources: codegen.ResourceTable{
			UniformBlocks: []codegen.UniformBlock{{
				Slot: 0, Size: 16,
				Fields: []codegen.UniformField{{Name: "fTime", TypeName: "float", Offset: 0, Size: 4}},
			}},
			Textures: []codegen.TextureBinding{{Slot: 0, Desc: fxtypes.TextureDescriptor{
				Name: "ColorTex", Dimension: 2, Width: 256, Height: 256, MipLevels: 1, Format: fxtypes.FormatRGBA8,
			}}},
		},
		Shaders: map[string]codegen.Shader{
			"VSMain": {EntryPoint: "VSMain", Stage: codegen.StageVertex, Source: "// vs"},
			"PSMain": {EntryPoint: "PSMain", Stage: codegen.StagePixel, Source: "// ps"},
		},
	}
	return res, ir
}

func newTestEffect(t *testing.T) *effect.Effect {
	t.Helper()
	dev := &fakeDevice{}
	q := &fakeQueue{}
	rt := runtime.New(dev, nil, nil)
	if !rt.OnInit(hostiface.SwapChainDescriptor{Width: 256, Height: 256}, 0) {
		t.Fatalf("OnInit failed")
	}
	res, ir := buildFixture()
	e, err := effect.New(dev, q, nil, rt, res, ir, noopCompile)
	if err != nil {
		t.Fatalf("effect.New: %v", err)
	}
	return e
}

func TestListNames(t *testing.T) {
	e := newTestEffect(t)
	if got := e.ListTextureNames(); len(got) != 1 || got[0] != "ColorTex" {
		t.Fatalf("ListTextureNames = %v", got)
	}
	if got := e.ListConstantNames(); len(got) != 1 || got[0] != "fTime" {
		t.Fatalf("ListConstantNames = %v", got)
	}
	if got := e.ListTechniqueNames(); len(got) != 1 || got[0] != "Main" {
		t.Fatalf("ListTechniqueNames = %v", got)
	}
}

func TestTextureDescribeAndAnnotation(t *testing.T) {
	e := newTestEffect(t)
	tex, ok := e.GetTexture("ColorTex")
	if !ok {
		t.Fatalf("GetTexture(ColorTex) not found")
	}
	if d := tex.Describe(); d.Width != 256 || d.Height != 256 {
		t.Fatalf("Describe = %+v", d)
	}
	ann, ok := tex.GetAnnotation("source")
	if !ok || ann.Value.Str != "color.png" {
		t.Fatalf("GetAnnotation(source) = %+v, %v", ann, ok)
	}
	if _, ok := tex.GetAnnotation("nope"); ok {
		t.Fatalf("expected no annotation named nope")
	}
}

func TestConstantRoundTrip(t *testing.T) {
	e := newTestEffect(t)
	c, ok := e.GetConstant("fTime")
	if !ok {
		t.Fatalf("GetConstant(fTime) not found")
	}
	want := []byte{1, 2, 3, 4}
	if err := c.SetValue(want); err != nil {
		t.Fatalf("SetValue: %v", err)
	}
	got := make([]byte, 4)
	if err := c.GetValue(got); err != nil {
		t.Fatalf("GetValue: %v", err)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Fatalf("round trip mismatch: got %v want %v", got, want)
		}
	}
	if d := c.Describe(); d.Size != 4 || d.TypeName != "float" {
		t.Fatalf("Describe = %+v", d)
	}
}

func TestTechniqueLazyCompileAndRoundTrip(t *testing.T) {
	e := newTestEffect(t)
	tech, ok := e.GetTechnique("Main")
	if !ok {
		t.Fatalf("GetTechnique(Main) not found")
	}
	if d := tech.Describe(); d.PassCount != 0 {
		t.Fatalf("expected 0 passes before Begin, got %d", d.PassCount)
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
	if d := tech.Describe(); d.PassCount != 1 {
		t.Fatalf("expected 1 pass after compile, got %d", d.PassCount)
	}
	ann, ok := tech.GetAnnotation("description")
	if !ok || ann.Value.Str != "demo" {
		t.Fatalf("GetAnnotation(description) = %+v, %v", ann, ok)
	}
}

func TestEffectDestroy(t *testing.T) {
	e := newTestEffect(t)
	tech, _ := e.GetTechnique("Main")
	if _, err := tech.Begin(); err != nil {
		t.Fatalf("Begin: %v", err)
	}
	e.Destroy() // must not panic, and must tear down the compiled technique
}
