package runtime_test

import (
	"testing"

	"github.com/gogpu/effectfx/codegen"
	"github.com/gogpu/wgpu/hal"
	"github.com/gogpu/effectfx/hostiface"
	"github.com/gogpu/effectfx/lang/ast"
	"github.com/gogpu/effectfx/lang/parser"
	"github.com/gogpu/effectfx/resource"
	"github.com/gogpu/effectfx/runtime"
	"github.com/gogpu/gputypes"
)

// --- minimal fake hal.Device/Queue, grounded on resource's own test
// doubles (resource/manager_test.go) plus the command-encoder/render-pass
// surface technique.go additionally exercises.

type fakeResource struct{ destroyed bool }

func (r *fakeResource) Destroy() { r.destroyed = true }

type fakeBuffer struct{ fakeResource }
type fakeTexture struct{ fakeResource }
type fakeTextureView struct {
	fakeResource
	label string
}
type fakeSampler struct{ fakeResource }
type fakeShaderModule struct{ fakeResource }
type fakeBindGroupLayout struct{ fakeResource }
type fakeBindGroup struct{ fakeResource }
type fakePipelineLayout struct{ fakeResource }
type fakeRenderPipeline struct{ fakeResource }
type fakeCommandBuffer struct{ fakeResource }

type fakeRenderPassEncoder struct {
	ended        bool
	boundGroup   hal.BindGroup
	drew         bool
	viewportW    float32
	stencilRef   uint32
}

func (e *fakeRenderPassEncoder) End()                                  { e.ended = true }
func (e *fakeRenderPassEncoder) SetPipeline(hal.RenderPipeline)        {}
func (e *fakeRenderPassEncoder) SetBindGroup(_ uint32, g hal.BindGroup, _ []uint32) {
	e.boundGroup = g
}
func (e *fakeRenderPassEncoder) SetVertexBuffer(uint32, hal.Buffer, uint64)          {}
func (e *fakeRenderPassEncoder) SetIndexBuffer(hal.Buffer, gputypes.IndexFormat, uint64) {}
func (e *fakeRenderPassEncoder) SetViewport(_, _, w, _, _, _ float32)                { e.viewportW = w }
func (e *fakeRenderPassEncoder) SetScissorRect(_, _, _, _ uint32)                    {}
func (e *fakeRenderPassEncoder) SetBlendConstant(*gputypes.Color)                    {}
func (e *fakeRenderPassEncoder) SetStencilReference(ref uint32)                      { e.stencilRef = ref }
func (e *fakeRenderPassEncoder) Draw(vc, ic, fv, fi uint32)                          { e.drew = vc == 3 }
func (e *fakeRenderPassEncoder) DrawIndexed(uint32, uint32, uint32, int32, uint32)   {}
func (e *fakeRenderPassEncoder) DrawIndirect(hal.Buffer, uint64)                     {}
func (e *fakeRenderPassEncoder) DrawIndexedIndirect(hal.Buffer, uint64)              {}
func (e *fakeRenderPassEncoder) ExecuteBundle(hal.RenderBundle)                      {}

type fakeEncoder struct {
	hal.CommandEncoder
	passes []*fakeRenderPassEncoder
	ended  bool
}

func (e *fakeEncoder) BeginEncoding(string) error { return nil }
func (e *fakeEncoder) EndEncoding() (hal.CommandBuffer, error) {
	e.ended = true
	return &fakeCommandBuffer{}, nil
}
func (e *fakeEncoder) BeginRenderPass(*hal.RenderPassDescriptor) hal.RenderPassEncoder {
	rp := &fakeRenderPassEncoder{}
	e.passes = append(e.passes, rp)
	return rp
}

type fakeDevice struct {
	hal.Device
	encoders  []*fakeEncoder
	pipelines int
	rtvs      int
}

func (d *fakeDevice) CreateBuffer(*hal.BufferDescriptor) (hal.Buffer, error)   { return &fakeBuffer{}, nil }
func (d *fakeDevice) DestroyBuffer(b hal.Buffer)                              { b.Destroy() }
func (d *fakeDevice) CreateTexture(*hal.TextureDescriptor) (hal.Texture, error) {
	return &fakeTexture{}, nil
}
func (d *fakeDevice) DestroyTexture(t hal.Texture) { t.Destroy() }
func (d *fakeDevice) CreateTextureView(_ hal.Texture, desc *hal.TextureViewDescriptor) (hal.TextureView, error) {
	d.rtvs++
	return &fakeTextureView{label: desc.Label}, nil
}
func (d *fakeDevice) DestroyTextureView(v hal.TextureView) { v.Destroy() }
func (d *fakeDevice) CreateSampler(*hal.SamplerDescriptor) (hal.Sampler, error) {
	return &fakeSampler{}, nil
}
func (d *fakeDevice) DestroySampler(s hal.Sampler) { s.Destroy() }
func (d *fakeDevice) CreateBindGroupLayout(*hal.BindGroupLayoutDescriptor) (hal.BindGroupLayout, error) {
	return &fakeBindGroupLayout{}, nil
}
func (d *fakeDevice) DestroyBindGroupLayout(l hal.BindGroupLayout) { l.Destroy() }
func (d *fakeDevice) CreateBindGroup(*hal.BindGroupDescriptor) (hal.BindGroup, error) {
	return &fakeBindGroup{}, nil
}
func (d *fakeDevice) DestroyBindGroup(g hal.BindGroup) { g.Destroy() }
func (d *fakeDevice) CreatePipelineLayout(*hal.PipelineLayoutDescriptor) (hal.PipelineLayout, error) {
	return &fakePipelineLayout{}, nil
}
func (d *fakeDevice) DestroyPipelineLayout(l hal.PipelineLayout) { l.Destroy() }
func (d *fakeDevice) CreateRenderPipeline(*hal.RenderPipelineDescriptor) (hal.RenderPipeline, error) {
	d.pipelines++
	return &fakeRenderPipeline{}, nil
}
func (d *fakeDevice) DestroyRenderPipeline(p hal.RenderPipeline) { p.Destroy() }
func (d *fakeDevice) CreateCommandEncoder(*hal.CommandEncoderDescriptor) (hal.CommandEncoder, error) {
	e := &fakeEncoder{}
	d.encoders = append(d.encoders, e)
	return e, nil
}

type fakeQueue struct {
	hal.Queue
	submits int
	writes  int
}

func (q *fakeQueue) Submit([]hal.CommandBuffer, hal.Fence, uint64) error { q.submits++; return nil }
func (q *fakeQueue) WriteBuffer(hal.Buffer, uint64, []byte)              { q.writes++ }

type fakeBinder struct{}

func (fakeBinder) BindBuffer(hal.Buffer) any       { return gputypes.BufferBinding{} }
func (fakeBinder) BindTextureView(hal.TextureView) any { return gputypes.TextureViewBinding{} }
func (fakeBinder) BindSampler(hal.Sampler) any     { return gputypes.SamplerBinding{} }

type fakeSaver struct {
	saved, restored int
}

func (s *fakeSaver) Save() (any, error)     { s.saved++; return "snapshot", nil }
func (s *fakeSaver) Restore(v any) error    { s.restored++; return nil }

func noopCompile(source, entryPoint string, stage codegen.Stage) (hal.ShaderModule, error) {
	return &fakeShaderModule{}, nil
}

// buildResult hand-constructs a minimal parser.Result with one technique
// holding one pass, bypassing the lexer/parser entirely since technique.go
// only reads the Arena/Techniques/Functions shape.
func buildResult(pass ast.Pass) *parser.Result {
	arena := ast.NewArena()
	passIdx := arena.Add(&pass)
	techIdx := arena.Add(&ast.Technique{Name: "Main", Passes: []ast.NodeIndex{passIdx}})
	return &parser.Result{Arena: arena, Techniques: []ast.NodeIndex{techIdx}}
}

func effectIR() *codegen.EffectIR {
	return &codegen.EffectIR{
		Resources: codegen.ResourceTable{
			UniformBlocks: []codegen.UniformBlock{{Slot: 0, Size: 16, Fields: []codegen.UniformField{{Name: "fTime", Size: 4}}}},
		},
		Shaders: map[string]codegen.Shader{
			"VSMain": {EntryPoint: "VSMain", Stage: codegen.StageVertex, Source: "// vs"},
			"PSMain": {EntryPoint: "PSMain", Stage: codegen.StagePixel, Source: "// ps"},
		},
	}
}

func TestBeginRenderPassEndRoundTrip(t *testing.T) {
	dev := &fakeDevice{}
	q := &fakeQueue{}
	ir := effectIR()
	mgr, err := resource.NewManager(dev, ir.Resources)
	if err != nil {
		t.Fatalf("NewManager: %v", err)
	}
	saver := &fakeSaver{}
	rt := runtime.New(dev, fakeBinder{}, saver)
	if !rt.OnInit(hostiface.SwapChainDescriptor{Width: 1920, Height: 1080}, 0) {
		t.Fatalf("OnInit failed")
	}
	rt.SetBackBuffer(&fakeTextureView{label: "backbuffer"})

	res := buildResult(ast.Pass{Name: "P0", State: ast.PassState{VS: "VSMain", PS: "PSMain"}})

	tech, err := runtime.NewTechnique(dev, q, fakeBinder{}, rt, res, ir, mgr, noopCompile, "Main")
	if err != nil {
		t.Fatalf("NewTechnique: %v", err)
	}
	if tech.PassCount() != 1 {
		t.Fatalf("expected 1 compiled pass, got %d", tech.PassCount())
	}
	if dev.pipelines != 1 {
		t.Fatalf("expected 1 render pipeline created, got %d", dev.pipelines)
	}

	if err := tech.Begin(); err != nil {
		t.Fatalf("Begin: %v", err)
	}
	if saver.saved != 1 {
		t.Fatalf("expected Begin to save state once, got %d", saver.saved)
	}
	if err := tech.RenderPass(0); err != nil {
		t.Fatalf("RenderPass: %v", err)
	}
	if err := tech.End(); err != nil {
		t.Fatalf("End: %v", err)
	}
	if saver.restored != 1 {
		t.Fatalf("expected End to restore state once, got %d", saver.restored)
	}
	if q.submits != 1 {
		t.Fatalf("expected exactly one command buffer submitted, got %d", q.submits)
	}

	enc := dev.encoders[0]
	if !enc.ended {
		t.Fatalf("expected the command encoder to be ended")
	}
	// One render pass from Begin's depth-stencil clear, one from RenderPass.
	if len(enc.passes) != 2 {
		t.Fatalf("expected 2 render passes (clear + draw), got %d", len(enc.passes))
	}
	draw := enc.passes[1]
	if !draw.drew {
		t.Fatalf("expected the draw pass to draw 3 vertices")
	}
	if draw.boundGroup == nil {
		t.Fatalf("expected the draw pass to bind the effect's resource bind group")
	}
}

func TestRenderPassRejectsOutOfRangeIndex(t *testing.T) {
	dev := &fakeDevice{}
	q := &fakeQueue{}
	mgr, _ := resource.NewManager(dev, codegen.ResourceTable{})
	rt := runtime.New(dev, fakeBinder{}, nil)
	rt.OnInit(hostiface.SwapChainDescriptor{Width: 800, Height: 600}, 0)

	res := buildResult(ast.Pass{Name: "P0", State: ast.PassState{VS: "VSMain", PS: "PSMain"}})
	tech, err := runtime.NewTechnique(dev, q, nil, rt, res, effectIR(), mgr, noopCompile, "Main")
	if err != nil {
		t.Fatalf("NewTechnique: %v", err)
	}
	if err := tech.RenderPass(5); err == nil {
		t.Fatalf("expected an error for an out-of-range pass index")
	}
}

func TestNewTechniqueRejectsUnknownName(t *testing.T) {
	dev := &fakeDevice{}
	q := &fakeQueue{}
	mgr, _ := resource.NewManager(dev, codegen.ResourceTable{})
	rt := runtime.New(dev, nil, nil)
	rt.OnInit(hostiface.SwapChainDescriptor{Width: 800, Height: 600}, 0)

	res := buildResult(ast.Pass{Name: "P0", State: ast.PassState{VS: "VSMain", PS: "PSMain"}})
	if _, err := runtime.NewTechnique(dev, q, nil, rt, res, effectIR(), mgr, noopCompile, "DoesNotExist"); err == nil {
		t.Fatalf("expected an error for an unknown technique name")
	}
}

func TestUnknownRenderTargetErrors(t *testing.T) {
	dev := &fakeDevice{}
	q := &fakeQueue{}
	mgr, _ := resource.NewManager(dev, codegen.ResourceTable{})
	rt := runtime.New(dev, nil, nil)
	rt.OnInit(hostiface.SwapChainDescriptor{Width: 800, Height: 600}, 0)

	ps := ast.PassState{VS: "VSMain", PS: "PSMain"}
	ps.RenderTargets[0] = "NoSuchTexture"
	res := buildResult(ast.Pass{Name: "P0", State: ps})
	if _, err := runtime.NewTechnique(dev, q, nil, rt, res, effectIR(), mgr, noopCompile, "Main"); err == nil {
		t.Fatalf("expected an error for a pass naming an undeclared render target")
	}
}
