package runtime

import (
	"fmt"

	"github.com/gogpu/effectfx/codegen"
	"github.com/gogpu/wgpu/hal"
	"github.com/gogpu/effectfx/lang/ast"
	"github.com/gogpu/effectfx/lang/parser"
	"github.com/gogpu/effectfx/resource"
	"github.com/gogpu/gputypes"
)

// ShaderCompiler turns one compiled entry point's target-language source
// (codegen.Shader.Source, already HLSL/GLSL text per the effect's backend)
// into a hal.ShaderModule. entryPoint is the effect-declared function name
// that source defines (codegen.Shader.EntryPoint) — HLSL compilation needs
// it verbatim to tell D3DCompile which function in the text to compile.
// Each backend package supplies its own: backend/d3d runs d3dcompile and
// packs the resulting DXBC into hal.ShaderSource.SPIRV, backend/vk shells
// out to glslang for real SPIR-V, backend/gl compiles the GLSL text
// directly against its own native hal.Device and never touches
// hal.ShaderModuleDescriptor at all (it has no field for raw GLSL text).
// runtime itself never compiles shader text, matching the C6/C4 split of
// spec.md §4.5/§4.3.
type ShaderCompiler func(source, entryPoint string, stage codegen.Stage) (hal.ShaderModule, error)

// pass is one compiled render pass of a technique.
type pass struct {
	name          string
	state         ast.PassState
	pipeline      hal.RenderPipeline
	renderTargets []string // resolved RenderTargets[0..7], "" trimmed off the tail
}

// Technique drives one effect technique's passes against a Runtime,
// implementing the begin()/render_pass(index)/end() sequence of spec.md
// §4.6 (C7). One Technique owns the bind-group layout, pipeline layout and
// per-pass pipelines for a single compiled technique; building a second
// Technique for another technique in the same effect is cheap since they
// share the same resource.Manager and shader modules.
type Technique struct {
	device hal.Device
	queue  hal.Queue
	rt     *Runtime
	mgr    *resource.Manager
	res    codegen.ResourceTable
	binder resourceBinder

	bgLayout hal.BindGroupLayout
	plLayout hal.PipelineLayout
	bindGrp  hal.BindGroup

	passes []*pass

	rtViews map[string]hal.TextureView

	encoder hal.CommandEncoder
	saved   any
}

// NewTechnique compiles every pass of the named technique found in res,
// using ir's already-lowered shader source and compile to produce shader
// modules, and mgr for its resource table and GPU objects.
func NewTechnique(device hal.Device, queue hal.Queue, binder resourceBinder, rt *Runtime, res *parser.Result, ir *codegen.EffectIR, mgr *resource.Manager, compile ShaderCompiler, techniqueName string) (*Technique, error) {
	if binder == nil {
		binder = genericBinder{}
	}
	tech := findTechnique(res, techniqueName)
	if tech == nil {
		return nil, fmt.Errorf("runtime: no such technique %q", techniqueName)
	}

	t := &Technique{
		device:  device,
		queue:   queue,
		rt:      rt,
		mgr:     mgr,
		res:     ir.Resources,
		binder:  binder,
		rtViews: make(map[string]hal.TextureView),
	}

	bgLayout, err := device.CreateBindGroupLayout(&hal.BindGroupLayoutDescriptor{
		Label:   "effectfx:bgl:" + techniqueName,
		Entries: bindGroupLayoutEntries(ir.Resources),
	})
	if err != nil {
		return nil, fmt.Errorf("runtime: create bind group layout: %w", err)
	}
	t.bgLayout = bgLayout

	plLayout, err := device.CreatePipelineLayout(&hal.PipelineLayoutDescriptor{
		Label:            "effectfx:pl:" + techniqueName,
		BindGroupLayouts: []hal.BindGroupLayout{bgLayout},
	})
	if err != nil {
		device.DestroyBindGroupLayout(bgLayout)
		return nil, fmt.Errorf("runtime: create pipeline layout: %w", err)
	}
	t.plLayout = plLayout

	bindGrp, err := device.CreateBindGroup(&hal.BindGroupDescriptor{
		Label:   "effectfx:bg:" + techniqueName,
		Layout:  bgLayout,
		Entries: bindGroupEntries(binder, ir.Resources, mgr),
	})
	if err != nil {
		device.DestroyPipelineLayout(plLayout)
		device.DestroyBindGroupLayout(bgLayout)
		return nil, fmt.Errorf("runtime: create bind group: %w", err)
	}
	t.bindGrp = bindGrp

	for _, pIdx := range tech.Passes {
		p, ok := res.Arena.At(pIdx).(*ast.Pass)
		if !ok || p == nil {
			continue
		}
		built, err := t.buildPass(p, ir, compile)
		if err != nil {
			t.Destroy()
			return nil, err
		}
		t.passes = append(t.passes, built)
	}
	return t, nil
}

func findTechnique(res *parser.Result, name string) *ast.Technique {
	for _, idx := range res.Techniques {
		tech, ok := res.Arena.At(idx).(*ast.Technique)
		if ok && tech != nil && tech.Name == name {
			return tech
		}
	}
	return nil
}

func (t *Technique) buildPass(p *ast.Pass, ir *codegen.EffectIR, compile ShaderCompiler) (*pass, error) {
	vsShader, ok := ir.Shaders[p.State.VS]
	if !ok {
		return nil, fmt.Errorf("%w: pass %q references unknown vertex shader %q", ErrShaderCompile, p.Name, p.State.VS)
	}
	psShader, ok := ir.Shaders[p.State.PS]
	if !ok {
		return nil, fmt.Errorf("%w: pass %q references unknown pixel shader %q", ErrShaderCompile, p.Name, p.State.PS)
	}
	vsModule, err := compile(vsShader.Source, vsShader.EntryPoint, codegen.StageVertex)
	if err != nil {
		return nil, fmt.Errorf("%w: pass %q vertex stage: %v", ErrShaderCompile, p.Name, err)
	}
	psModule, err := compile(psShader.Source, psShader.EntryPoint, codegen.StagePixel)
	if err != nil {
		return nil, fmt.Errorf("%w: pass %q pixel stage: %v", ErrShaderCompile, p.Name, err)
	}

	var rts []string
	for _, name := range p.State.RenderTargets {
		if name == "" {
			break
		}
		rts = append(rts, name)
	}
	if len(rts) == 0 {
		rts = []string{""} // implicit: render to the back buffer
	}

	formats := make([]gputypes.TextureFormat, len(rts))
	for i, name := range rts {
		if name == "" {
			formats[i] = gputypes.TextureFormatRGBA8Unorm
			continue
		}
		tex, ok := t.mgr.Texture(name)
		if !ok {
			return nil, fmt.Errorf("%w: pass %q render target %q", ErrUnknownRenderTarget, p.Name, name)
		}
		formats[i] = resource.TextureFormat(tex.Binding.Desc.Format)
	}

	state := buildPipelineState(p.State, formats)
	pipeline, err := buildRenderPipeline(t.device, t.plLayout, vsModule, psModule, p.Name, state)
	if err != nil {
		return nil, err
	}
	return &pass{name: p.Name, state: p.State, pipeline: pipeline, renderTargets: rts}, nil
}

// Begin starts one technique invocation: saves host state, opens a command
// encoder, and clears the shared depth-stencil to {1.0, 0} once for the
// whole technique (spec.md §4.6 begin()).
func (t *Technique) Begin() error {
	snapshot, err := t.rt.saver.Save()
	if err != nil {
		return fmt.Errorf("runtime: save state: %w", err)
	}
	t.saved = snapshot

	enc, err := t.device.CreateCommandEncoder(&hal.CommandEncoderDescriptor{Label: "effectfx:technique"})
	if err != nil {
		return fmt.Errorf("%w: create command encoder: %v", ErrDeviceLost, err)
	}
	if err := enc.BeginEncoding("effectfx:technique"); err != nil {
		return fmt.Errorf("%w: begin encoding: %v", ErrDeviceLost, err)
	}
	t.encoder = enc

	if dv := t.rt.DepthStencilView(); dv != nil {
		rp := enc.BeginRenderPass(&hal.RenderPassDescriptor{
			Label: "effectfx:clear-depthstencil",
			DepthStencilAttachment: &hal.RenderPassDepthStencilAttachment{
				View:            dv,
				DepthLoadOp:     gputypes.LoadOpClear,
				DepthStoreOp:    gputypes.StoreOpStore,
				DepthClearValue: 1.0,
				StencilLoadOp:   gputypes.LoadOpClear,
				StencilStoreOp:  gputypes.StoreOpStore,
			},
		})
		rp.End()
	}
	return nil
}

// RenderPass executes one pass by index: uploads dirty constants, binds the
// pass pipeline and the shared resource bind group, sets render targets
// (clearing any non-backbuffer target to {0,0,0,1}), and draws the
// fullscreen triangle (spec.md §4.6 render_pass(index)).
func (t *Technique) RenderPass(index int) error {
	if index < 0 || index >= len(t.passes) {
		return fmt.Errorf("runtime: pass index %d out of range", index)
	}
	p := t.passes[index]
	t.mgr.Upload(t.queue)

	var attachments []hal.RenderPassColorAttachment
	for _, name := range p.renderTargets {
		view, isBackbuffer, err := t.renderTargetView(name)
		if err != nil {
			return err
		}
		clear := gputypes.Color{R: 0, G: 0, B: 0, A: 1}
		loadOp := gputypes.LoadOpClear
		if isBackbuffer {
			loadOp = gputypes.LoadOpLoad
		}
		attachments = append(attachments, hal.RenderPassColorAttachment{
			View:       view,
			LoadOp:     loadOp,
			StoreOp:    gputypes.StoreOpStore,
			ClearValue: clear,
		})
	}

	var depthAttachment *hal.RenderPassDepthStencilAttachment
	if p.state.DepthEnable || p.state.StencilEnable {
		depthAttachment = &hal.RenderPassDepthStencilAttachment{
			View:           t.rt.DepthStencilView(),
			DepthLoadOp:    gputypes.LoadOpLoad,
			DepthStoreOp:   gputypes.StoreOpStore,
			StencilLoadOp:  gputypes.LoadOpLoad,
			StencilStoreOp: gputypes.StoreOpStore,
		}
	}

	rp := t.encoder.BeginRenderPass(&hal.RenderPassDescriptor{
		Label:                  "effectfx:pass:" + p.name,
		ColorAttachments:       attachments,
		DepthStencilAttachment: depthAttachment,
	})
	rp.SetPipeline(p.pipeline)
	rp.SetBindGroup(0, t.bindGrp, nil)
	rp.SetVertexBuffer(0, t.rt.FullscreenVertexBuffer(), 0)
	rp.SetBlendConstant(&gputypes.Color{R: 1, G: 1, B: 1, A: 1})
	rp.SetStencilReference(uint32(p.state.StencilRef))
	rp.SetViewport(0, 0, float32(t.rt.width), float32(t.rt.height), 0, 1)
	rp.Draw(3, 1, 0, 0)
	rp.End()
	return nil
}

// renderTargetView resolves a pass render target name to its view: "" is
// the back buffer, anything else is an effect-declared texture, with a
// render-target view created and cached on first use (spec.md §4.4 leaves
// RTV creation to the runtime, since a resource texture only grows one the
// first pass actually renders into it).
func (t *Technique) renderTargetView(name string) (view hal.TextureView, isBackbuffer bool, err error) {
	if name == "" {
		return t.rt.BackBuffer(), true, nil
	}
	if v, ok := t.rtViews[name]; ok {
		return v, false, nil
	}
	tex, ok := t.mgr.Texture(name)
	if !ok {
		return nil, false, fmt.Errorf("%w: %q", ErrUnknownRenderTarget, name)
	}
	v, err := t.device.CreateTextureView(tex.GPU, &hal.TextureViewDescriptor{
		Label:         "effectfx:rtv:" + name,
		Dimension:     gputypes.TextureViewDimension2D,
		MipLevelCount: 1,
	})
	if err != nil {
		return nil, false, fmt.Errorf("runtime: create render target view %q: %w", name, err)
	}
	t.rtViews[name] = v
	return v, false, nil
}

// End finishes command recording, submits it, and restores the host state
// Begin saved (spec.md §4.6 end()). A submit failure is reported but not
// retried, per the same section's failure semantics.
func (t *Technique) End() error {
	if t.encoder == nil {
		return nil
	}
	cmdBuf, err := t.encoder.EndEncoding()
	t.encoder = nil
	if err != nil {
		t.rt.saver.Restore(t.saved)
		return fmt.Errorf("%w: end encoding: %v", ErrDeviceLost, err)
	}
	if err := t.queue.Submit([]hal.CommandBuffer{cmdBuf}, nil, 0); err != nil {
		t.rt.saver.Restore(t.saved)
		return fmt.Errorf("%w: submit: %v", ErrDeviceLost, err)
	}
	return t.rt.saver.Restore(t.saved)
}

// PassCount returns how many passes this technique compiled.
func (t *Technique) PassCount() int { return len(t.passes) }

// Destroy releases every GPU object this Technique owns.
func (t *Technique) Destroy() {
	for _, v := range t.rtViews {
		t.device.DestroyTextureView(v)
	}
	t.rtViews = nil
	for _, p := range t.passes {
		if p.pipeline != nil {
			t.device.DestroyRenderPipeline(p.pipeline)
		}
	}
	t.passes = nil
	if t.bindGrp != nil {
		t.device.DestroyBindGroup(t.bindGrp)
		t.bindGrp = nil
	}
	if t.plLayout != nil {
		t.device.DestroyPipelineLayout(t.plLayout)
		t.plLayout = nil
	}
	if t.bgLayout != nil {
		t.device.DestroyBindGroupLayout(t.bgLayout)
		t.bgLayout = nil
	}
}
