package gl

import (
	ggl "github.com/go-gl/gl/v4.6-core/gl"
	"github.com/gogpu/gputypes"
	"github.com/gogpu/wgpu/hal"
)

// NativeHandle lets runtime.genericBinder (runtime/pipeline.go) resolve a
// Buffer/TextureView/Sampler to the raw GL object name it needs to build a
// gputypes.BindGroupEntry, the same convention hal/gles's own resource types
// use (runtime/pipeline.go's doc comment names hal/gles as the grounded
// example this mirrors).
type nativeHandleHolder struct{ handle uint32 }

func (h nativeHandleHolder) NativeHandle() uintptr { return uintptr(h.handle) }

// Buffer is a GL buffer object (VBO/UBO/etc, selected by target at creation).
type Buffer struct {
	nativeHandleHolder
	target uint32
	size   uint64
}

func (b *Buffer) Destroy() {
	if b.nativeHandleHolder.handle != 0 {
		ggl.DeleteBuffers(1, &b.nativeHandleHolder.handle)
		b.nativeHandleHolder.handle = 0
	}
}

// Texture is a GL texture object.
type Texture struct {
	nativeHandleHolder
	target    uint32
	format    gputypes.TextureFormat
	width     uint32
	height    uint32
	mipLevels uint32
	// isSurface marks the host's existing backbuffer/depth-stencil texture,
	// never allocated or destroyed by effectfx (spec.md §4.5: effectfx hooks
	// an already-running host device, it never owns the swapchain).
	isSurface bool
}

func (t *Texture) Destroy() {
	if t.isSurface {
		return
	}
	if t.nativeHandleHolder.handle != 0 {
		ggl.DeleteTextures(1, &t.nativeHandleHolder.handle)
		t.nativeHandleHolder.handle = 0
	}
}

// WrapHostTexture wraps a texture name the host application already owns
// (its swapchain color buffer or depth-stencil buffer) as a hal.Texture
// effectfx can render into without ever allocating or deleting it. Pass id
// 0 for the host's default framebuffer's color buffer, the usual case for
// a GL host that never creates a named backbuffer texture; BeginRenderPass
// (encoder.go) special-cases that combination to bind framebuffer 0
// directly instead of attaching a named texture to an effectfx-owned FBO.
// The hooking layer calls this once per OnInit/OnReset (spec.md §4.5) and
// feeds the result through Device.CreateTextureView before Runtime.
// SetBackBuffer.
func WrapHostTexture(id uint32, format gputypes.TextureFormat, width, height uint32) hal.Texture {
	return &Texture{
		nativeHandleHolder: nativeHandleHolder{id},
		target:             ggl.TEXTURE_2D,
		format:             format,
		width:              width,
		height:             height,
		mipLevels:          1,
		isSurface:          true,
	}
}

// TextureView carries enough of the source texture to attach it to an FBO
// or bind it to a texture unit; OpenGL has no separate view object for the
// plain 2D case effectfx only ever uses.
type TextureView struct {
	texture *Texture
	format  gputypes.TextureFormat
}

func (v *TextureView) Destroy() {}

func (v *TextureView) NativeHandle() uintptr {
	return uintptr(v.texture.nativeHandleHolder.handle)
}

// Sampler is a GL sampler object (glGenSamplers), bound per-texture-unit
// independent of the texture itself, unlike pre-3.3 texture-parameter state.
type Sampler struct {
	nativeHandleHolder
}

func (s *Sampler) Destroy() {
	if s.nativeHandleHolder.handle != 0 {
		ggl.DeleteSamplers(1, &s.nativeHandleHolder.handle)
		s.nativeHandleHolder.handle = 0
	}
}

// ShaderModule holds a compiled-but-unlinked GL shader object. Built
// directly from effectfx's own codegen/glsl text by NewShaderCompiler, not
// through hal.ShaderModuleDescriptor (whose Source only carries WGSL/SPIRV
// words - see gl.go's doc comment).
type ShaderModule struct {
	id    uint32
	stage uint32
}

func (m *ShaderModule) Destroy() {
	if m.id != 0 {
		ggl.DeleteShader(m.id)
		m.id = 0
	}
}

// BindGroupLayout just retains the entry list; OpenGL has no layout object
// of its own, but CreateBindGroup checks a bind group's entries against it
// the same way hal/gles's BindGroupLayout does.
type BindGroupLayout struct {
	entries []gputypes.BindGroupLayoutEntry
}

func (l *BindGroupLayout) Destroy() {}

// BindGroup is the resolved set of bindings a RenderPassEncoder applies
// before a draw call: one uniform buffer per cbuffer slot, one texture+
// sampler pair per effect-declared resource.
type BindGroup struct {
	entries []gputypes.BindGroupEntry
}

func (g *BindGroup) Destroy() {}

// PipelineLayout retains the bind group layouts a pipeline was built
// against; OpenGL programs have no separate layout object, binding points
// are baked into the program at link time via explicit binding qualifiers
// in the GLSL source effectfx's codegen/glsl emits.
type PipelineLayout struct {
	bindGroupLayouts []*BindGroupLayout
}

func (l *PipelineLayout) Destroy() {}

// RenderPipeline is a linked GL program plus the fixed-function state
// (cull mode, front face, depth/stencil, blend) a pass needs restored
// before each draw, since OpenGL keeps that state on the context rather
// than inside the program object the way D3D/Vulkan pipeline state objects
// do.
type RenderPipeline struct {
	program      uint32
	primitive    gputypes.PrimitiveState
	depthStencil *hal.DepthStencilState
	colorTargets []gputypes.ColorTargetState
}

func (p *RenderPipeline) Destroy() {
	if p.program != 0 {
		ggl.DeleteProgram(p.program)
		p.program = 0
	}
}

// ComputePipeline is unused: effectfx's techniques are vertex+pixel passes
// only (spec.md §4.2 Pass block has no compute stage), so device.go's
// CreateComputePipeline always errors rather than building one.
type ComputePipeline struct{}

func (ComputePipeline) Destroy() {}

// Fence tracks the last value signaled. backend/gl's CommandEncoder runs
// every GL call synchronously as it's recorded (see CommandBuffer's doc
// comment below), so by the time Queue.Submit returns, everything up to
// and including the submitted commands has already completed on the
// context effectfx shares with the host - Wait below returns immediately
// for any value this has already reached.
type Fence struct {
	value uint64
}

func (f *Fence) Destroy() {}

// CommandBuffer is a no-op marker: backend/gl's CommandEncoder executes GL
// calls immediately as each RenderPassEncoder method is invoked (encoder.go's
// doc comment), matching real OpenGL's immediate-mode execution model
// instead of wgpu's deferred command-buffer submission. EndEncoding still
// returns one so runtime's generic Queue.Submit([]hal.CommandBuffer) call
// has something to pass.
type CommandBuffer struct{}

func (CommandBuffer) Destroy() {}
