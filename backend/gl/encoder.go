package gl

import (
	"fmt"

	ggl "github.com/go-gl/gl/v4.6-core/gl"
	"github.com/gogpu/gputypes"
	"github.com/gogpu/wgpu/hal"
)

// Queue issues buffer/texture uploads directly against the host's current
// context; Submit is a formality since every GL call a CommandEncoder
// records already ran by the time it's called (CommandBuffer's doc comment
// in resource.go).
type Queue struct {
	device *Device
}

// NewQueue wraps device in a hal.Queue.
func NewQueue(device *Device) *Queue { return &Queue{device: device} }

func (q *Queue) Submit(commandBuffers []hal.CommandBuffer, fence hal.Fence, fenceValue uint64) error {
	if f, ok := fence.(*Fence); ok {
		f.value = fenceValue
	}
	return nil
}

func (q *Queue) WriteBuffer(buffer hal.Buffer, offset uint64, data []byte) {
	b, ok := buffer.(*Buffer)
	if !ok || len(data) == 0 {
		return
	}
	ggl.BindBuffer(b.target, b.handle)
	ggl.BufferSubData(b.target, int(offset), len(data), ggl.Ptr(&data[0]))
	ggl.BindBuffer(b.target, 0)
}

func (q *Queue) WriteTexture(dst *hal.ImageCopyTexture, data []byte, layout *hal.ImageDataLayout, size *hal.Extent3D) {
	t, ok := dst.Texture.(*Texture)
	if !ok || len(data) == 0 {
		return
	}
	info := textureFormatToGL(t.format)
	ggl.BindTexture(t.target, t.handle)
	if info.compressed {
		ggl.CompressedTexSubImage2D(t.target, int32(dst.MipLevel), int32(dst.Origin.X), int32(dst.Origin.Y),
			int32(size.Width), int32(size.Height), uint32(info.internal), int32(len(data)), ggl.Ptr(&data[0]))
	} else {
		ggl.TexSubImage2D(t.target, int32(dst.MipLevel), int32(dst.Origin.X), int32(dst.Origin.Y),
			int32(size.Width), int32(size.Height), info.external, info.pixType, ggl.Ptr(&data[0]))
	}
	ggl.BindTexture(t.target, 0)
}

// Present always errors: effectfx never acquires or owns a swap chain image
// the way a full wgpu application does, it renders into the host's already
// bound backbuffer (spec.md §4.5) and lets the host present it.
func (q *Queue) Present(surface hal.Surface, texture hal.SurfaceTexture) error {
	return fmt.Errorf("backend/gl: Present is not supported, the host owns presentation")
}

func (q *Queue) GetTimestampPeriod() float32 { return 1.0 }

// CommandEncoder is a thin marker: every method below (and every
// RenderPassEncoder method on the value it hands back from BeginRenderPass)
// issues its GL calls immediately, so there is no command list to build or
// flush here.
type CommandEncoder struct {
	device *Device
}

func (e *CommandEncoder) BeginEncoding(label string) error { return nil }

func (e *CommandEncoder) EndEncoding() (hal.CommandBuffer, error) { return CommandBuffer{}, nil }

func (e *CommandEncoder) DiscardEncoding() {}

func (e *CommandEncoder) ResetAll(commandBuffers []hal.CommandBuffer) {}

// TransitionBuffers/TransitionTextures are no-ops: OpenGL has no explicit
// resource-state barrier the way Vulkan/DX12 hal backends require (command.go's
// own doc comment on these methods says as much for Metal; the same holds
// for desktop GL's implicit ordering within a single context).
func (e *CommandEncoder) TransitionBuffers(barriers []hal.BufferBarrier)   {}
func (e *CommandEncoder) TransitionTextures(barriers []hal.TextureBarrier) {}

func (e *CommandEncoder) ClearBuffer(buffer hal.Buffer, offset, size uint64) {
	b, ok := buffer.(*Buffer)
	if !ok {
		return
	}
	zero := uint8(0)
	ggl.BindBuffer(b.target, b.handle)
	ggl.ClearBufferSubData(b.target, ggl.R8, int(offset), int(size), ggl.RED, ggl.UNSIGNED_BYTE, ggl.Ptr(&zero))
	ggl.BindBuffer(b.target, 0)
}

func (e *CommandEncoder) CopyBufferToBuffer(src, dst hal.Buffer, regions []hal.BufferCopy) {
	s, ok1 := src.(*Buffer)
	d, ok2 := dst.(*Buffer)
	if !ok1 || !ok2 {
		return
	}
	ggl.BindBuffer(ggl.COPY_READ_BUFFER, s.handle)
	ggl.BindBuffer(ggl.COPY_WRITE_BUFFER, d.handle)
	for _, r := range regions {
		ggl.CopyBufferSubData(ggl.COPY_READ_BUFFER, ggl.COPY_WRITE_BUFFER, int(r.SrcOffset), int(r.DstOffset), int(r.Size))
	}
	ggl.BindBuffer(ggl.COPY_READ_BUFFER, 0)
	ggl.BindBuffer(ggl.COPY_WRITE_BUFFER, 0)
}

// CopyBufferToTexture/CopyTextureToBuffer/CopyTextureToTexture are no-ops on
// this backend. resource/manager.go uploads constants through
// Queue.WriteBuffer and effect textures are uploaded whole via
// Queue.WriteTexture; effect/texture.go's CopyTextureToTexture call has no
// effect here.
func (e *CommandEncoder) CopyBufferToTexture(src hal.Buffer, dst hal.Texture, regions []hal.BufferTextureCopy) {
}
func (e *CommandEncoder) CopyTextureToBuffer(src hal.Texture, dst hal.Buffer, regions []hal.BufferTextureCopy) {
}
func (e *CommandEncoder) CopyTextureToTexture(src, dst hal.Texture, regions []hal.TextureCopy) {}

// BeginRenderPass builds a framebuffer for desc's attachments and applies
// each attachment's LoadOp, mirroring hal/gles/command.go's own
// beginRenderPass except against go-gl calls instead of its internal
// gl.Context wrapper.
func (e *CommandEncoder) BeginRenderPass(desc *hal.RenderPassDescriptor) hal.RenderPassEncoder {
	rp := &RenderPassEncoder{encoder: e}

	if len(desc.ColorAttachments) == 1 {
		if tv, ok := desc.ColorAttachments[0].View.(*TextureView); ok && tv.texture.isSurface && tv.texture.handle == 0 {
			// The host's default framebuffer - nothing to attach, GL already
			// renders there when framebuffer 0 is bound.
			ggl.BindFramebuffer(ggl.FRAMEBUFFER, 0)
			rp.fbo = 0
			rp.applyLoadOps(desc)
			return rp
		}
	}

	var fbo uint32
	ggl.GenFramebuffers(1, &fbo)
	ggl.BindFramebuffer(ggl.FRAMEBUFFER, fbo)
	rp.fbo = fbo

	drawBuffers := make([]uint32, 0, len(desc.ColorAttachments))
	for i, att := range desc.ColorAttachments {
		tv, ok := att.View.(*TextureView)
		if !ok {
			continue
		}
		attachment := uint32(ggl.COLOR_ATTACHMENT0 + i)
		ggl.FramebufferTexture2D(ggl.FRAMEBUFFER, attachment, tv.texture.target, tv.texture.handle, 0)
		drawBuffers = append(drawBuffers, attachment)
	}
	if len(drawBuffers) > 0 {
		ggl.DrawBuffers(int32(len(drawBuffers)), &drawBuffers[0])
	}

	if desc.DepthStencilAttachment != nil {
		if tv, ok := desc.DepthStencilAttachment.View.(*TextureView); ok {
			info := textureFormatToGL(tv.format)
			attachment := uint32(ggl.DEPTH_ATTACHMENT)
			if info.stencil {
				attachment = ggl.DEPTH_STENCIL_ATTACHMENT
			}
			ggl.FramebufferTexture2D(ggl.FRAMEBUFFER, attachment, tv.texture.target, tv.texture.handle, 0)
		}
	}

	rp.applyLoadOps(desc)
	return rp
}

// BeginComputePass always returns a stub whose methods are no-ops: effectfx
// has no compute stage (see Device.CreateComputePipeline's doc comment).
func (e *CommandEncoder) BeginComputePass(desc *hal.ComputePassDescriptor) hal.ComputePassEncoder {
	return computePassStub{}
}

type computePassStub struct{}

func (computePassStub) End()                                                {}
func (computePassStub) SetPipeline(pipeline hal.ComputePipeline)            {}
func (computePassStub) SetBindGroup(index uint32, group hal.BindGroup, offsets []uint32) {}
func (computePassStub) Dispatch(x, y, z uint32)                             {}
func (computePassStub) DispatchIndirect(buffer hal.Buffer, offset uint64)   {}

// RenderPassEncoder issues GL state-setting and draw calls immediately as
// each method is invoked; fbo 0 means the pass targets the host's currently
// bound default framebuffer.
type RenderPassEncoder struct {
	encoder  *CommandEncoder
	fbo      uint32
	pipeline *RenderPipeline
}

func (rp *RenderPassEncoder) applyLoadOps(desc *hal.RenderPassDescriptor) {
	for i, att := range desc.ColorAttachments {
		if att.LoadOp != gputypes.LoadOpClear {
			continue
		}
		c := [4]float32{att.ClearValue.R, att.ClearValue.G, att.ClearValue.B, att.ClearValue.A}
		ggl.ClearBufferfv(ggl.COLOR, int32(i), &c[0])
	}
	if desc.DepthStencilAttachment != nil {
		ds := desc.DepthStencilAttachment
		switch {
		case ds.DepthLoadOp == gputypes.LoadOpClear && ds.StencilLoadOp == gputypes.LoadOpClear:
			ggl.ClearBufferfi(ggl.DEPTH_STENCIL, 0, ds.DepthClearValue, int32(ds.StencilClearValue))
		case ds.DepthLoadOp == gputypes.LoadOpClear:
			depth := ds.DepthClearValue
			ggl.ClearBufferfv(ggl.DEPTH, 0, &depth)
		case ds.StencilLoadOp == gputypes.LoadOpClear:
			stencil := int32(ds.StencilClearValue)
			ggl.ClearBufferiv(ggl.STENCIL, 0, &stencil)
		}
	}
}

func (rp *RenderPassEncoder) End() {
	if rp.fbo != 0 {
		ggl.BindFramebuffer(ggl.FRAMEBUFFER, 0)
		ggl.DeleteFramebuffers(1, &rp.fbo)
		rp.fbo = 0
	}
}

// SetPipeline binds the pass's program (UseProgram) and applies the fixed-function state
// baked into it at CreateRenderPipeline time (OpenGL keeps this state on the
// context, not inside the program object - resource.go's RenderPipeline doc
// comment).
func (rp *RenderPassEncoder) SetPipeline(pipeline hal.RenderPipeline) {
	p, ok := pipeline.(*RenderPipeline)
	if !ok {
		return
	}
	rp.pipeline = p
	ggl.UseProgram(p.program)

	if p.primitive.CullMode == gputypes.CullModeNone {
		ggl.Disable(ggl.CULL_FACE)
	} else {
		ggl.Enable(ggl.CULL_FACE)
		if p.primitive.CullMode == gputypes.CullModeFront {
			ggl.CullFace(ggl.FRONT)
		} else {
			ggl.CullFace(ggl.BACK)
		}
	}
	if p.primitive.FrontFace == gputypes.FrontFaceCW {
		ggl.FrontFace(ggl.CW)
	} else {
		ggl.FrontFace(ggl.CCW)
	}

	if p.depthStencil != nil {
		ggl.Enable(ggl.DEPTH_TEST)
		ggl.DepthMask(p.depthStencil.DepthWriteEnabled)
		ggl.DepthFunc(compareFuncToGL(p.depthStencil.DepthCompare))
		if p.depthStencil.StencilReadMask != 0 || p.depthStencil.StencilWriteMask != 0 {
			ggl.Enable(ggl.STENCIL_TEST)
			ggl.StencilMask(p.depthStencil.StencilWriteMask)
			ggl.StencilOpSeparate(ggl.FRONT,
				stencilOpToGL(p.depthStencil.StencilFront.FailOp),
				stencilOpToGL(p.depthStencil.StencilFront.DepthFailOp),
				stencilOpToGL(p.depthStencil.StencilFront.PassOp))
		} else {
			ggl.Disable(ggl.STENCIL_TEST)
		}
	} else {
		ggl.Disable(ggl.DEPTH_TEST)
		ggl.Disable(ggl.STENCIL_TEST)
	}

	for i, target := range p.colorTargets {
		if target.Blend == nil {
			ggl.Disablei(ggl.BLEND, uint32(i))
			continue
		}
		ggl.Enablei(ggl.BLEND, uint32(i))
		ggl.BlendFuncSeparate(
			blendFactorToGL(target.Blend.Color.SrcFactor), blendFactorToGL(target.Blend.Color.DstFactor),
			blendFactorToGL(target.Blend.Alpha.SrcFactor), blendFactorToGL(target.Blend.Alpha.DstFactor))
		ggl.BlendEquationSeparate(blendOpToGL(target.Blend.Color.Operation), blendOpToGL(target.Blend.Alpha.Operation))
	}
}

// SetBindGroup binds every uniform buffer, texture and sampler the group
// carries to the binding points baked into the program's GLSL source by
// codegen/glsl (explicit `layout(binding = N)` qualifiers, the same
// convention runtime/pipeline.go's bindGroupLayoutEntries establishes).
func (rp *RenderPassEncoder) SetBindGroup(index uint32, group hal.BindGroup, offsets []uint32) {
	g, ok := group.(*BindGroup)
	if !ok {
		return
	}
	for _, entry := range g.entries {
		switch res := entry.Resource.(type) {
		case gputypes.BufferBinding:
			ggl.BindBufferBase(ggl.UNIFORM_BUFFER, entry.Binding, uint32(res.Buffer))
		case gputypes.TextureViewBinding:
			ggl.ActiveTexture(ggl.TEXTURE0 + entry.Binding - textureBindingBase)
			ggl.BindTexture(ggl.TEXTURE_2D, uint32(res.TextureView))
		case gputypes.SamplerBinding:
			ggl.BindSampler(entry.Binding-samplerBindingBase, uint32(res.Sampler))
		}
	}
}

// textureBindingBase/samplerBindingBase mirror runtime/pipeline.go's own
// constants: SetBindGroup needs to undo that offset to recover the texture
// unit a sampler/texture pair was assigned.
const (
	textureBindingBase = 128
	samplerBindingBase = 192
)

func (rp *RenderPassEncoder) SetVertexBuffer(slot uint32, buffer hal.Buffer, offset uint64) {
	b, ok := buffer.(*Buffer)
	if !ok {
		return
	}
	// effectfx's own vertex shaders read gl_VertexID directly (spec.md §4.5:
	// positions come from SV_VertexID, not a vertex buffer attribute), so
	// the buffer only needs to be bound, not described with a vertex
	// attribute layout.
	ggl.BindBuffer(ggl.ARRAY_BUFFER, b.handle)
}

func (rp *RenderPassEncoder) SetIndexBuffer(buffer hal.Buffer, format gputypes.IndexFormat, offset uint64) {
	b, ok := buffer.(*Buffer)
	if !ok {
		return
	}
	ggl.BindBuffer(ggl.ELEMENT_ARRAY_BUFFER, b.handle)
}

func (rp *RenderPassEncoder) SetViewport(x, y, width, height, minDepth, maxDepth float32) {
	ggl.Viewport(int32(x), int32(y), int32(width), int32(height))
	ggl.DepthRangef(minDepth, maxDepth)
}

func (rp *RenderPassEncoder) SetScissorRect(x, y, width, height uint32) {
	ggl.Enable(ggl.SCISSOR_TEST)
	ggl.Scissor(int32(x), int32(y), int32(width), int32(height))
}

func (rp *RenderPassEncoder) SetBlendConstant(color *gputypes.Color) {
	ggl.BlendColor(float32(color.R), float32(color.G), float32(color.B), float32(color.A))
}

func (rp *RenderPassEncoder) SetStencilReference(reference uint32) {
	if rp.pipeline == nil || rp.pipeline.depthStencil == nil {
		return
	}
	ggl.StencilFuncSeparate(ggl.FRONT, compareFuncToGL(rp.pipeline.depthStencil.StencilFront.Compare), int32(reference), rp.pipeline.depthStencil.StencilReadMask)
}

func (rp *RenderPassEncoder) Draw(vertexCount, instanceCount, firstVertex, firstInstance uint32) {
	if instanceCount <= 1 {
		ggl.DrawArrays(ggl.TRIANGLES, int32(firstVertex), int32(vertexCount))
		return
	}
	ggl.DrawArraysInstanced(ggl.TRIANGLES, int32(firstVertex), int32(vertexCount), int32(instanceCount))
}

// DrawIndexed/DrawIndirect/DrawIndexedIndirect/ExecuteBundle are unused on
// effectfx's own path (every pass draws a 3-vertex fullscreen triangle with
// Draw, spec.md §4.6 render_pass), kept only to satisfy hal.RenderPassEncoder.
func (rp *RenderPassEncoder) DrawIndexed(indexCount, instanceCount, firstIndex uint32, baseVertex int32, firstInstance uint32) {
	ggl.DrawElements(ggl.TRIANGLES, int32(indexCount), ggl.UNSIGNED_INT, nil)
}
func (rp *RenderPassEncoder) DrawIndirect(buffer hal.Buffer, offset uint64)        {}
func (rp *RenderPassEncoder) DrawIndexedIndirect(buffer hal.Buffer, offset uint64) {}
func (rp *RenderPassEncoder) ExecuteBundle(bundle hal.RenderBundle)                {}

func compareFuncToGL(f gputypes.CompareFunction) uint32 {
	switch f {
	case gputypes.CompareFunctionNever:
		return ggl.NEVER
	case gputypes.CompareFunctionLess:
		return ggl.LESS
	case gputypes.CompareFunctionEqual:
		return ggl.EQUAL
	case gputypes.CompareFunctionLessEqual:
		return ggl.LEQUAL
	case gputypes.CompareFunctionGreater:
		return ggl.GREATER
	case gputypes.CompareFunctionNotEqual:
		return ggl.NOTEQUAL
	case gputypes.CompareFunctionGreaterEqual:
		return ggl.GEQUAL
	default:
		return ggl.ALWAYS
	}
}

func stencilOpToGL(op hal.StencilOperation) uint32 {
	switch op {
	case hal.StencilOperationZero:
		return ggl.ZERO
	case hal.StencilOperationReplace:
		return ggl.REPLACE
	case hal.StencilOperationInvert:
		return ggl.INVERT
	case hal.StencilOperationIncrementClamp:
		return ggl.INCR
	case hal.StencilOperationDecrementClamp:
		return ggl.DECR
	case hal.StencilOperationIncrementWrap:
		return ggl.INCR_WRAP
	case hal.StencilOperationDecrementWrap:
		return ggl.DECR_WRAP
	default:
		return ggl.KEEP
	}
}

func blendFactorToGL(f gputypes.BlendFactor) uint32 {
	switch f {
	case gputypes.BlendFactorZero:
		return ggl.ZERO
	case gputypes.BlendFactorOne:
		return ggl.ONE
	case gputypes.BlendFactorSrc:
		return ggl.SRC_COLOR
	case gputypes.BlendFactorSrcAlpha:
		return ggl.SRC_ALPHA
	case gputypes.BlendFactorOneMinusSrc:
		return ggl.ONE_MINUS_SRC_COLOR
	case gputypes.BlendFactorOneMinusSrcAlpha:
		return ggl.ONE_MINUS_SRC_ALPHA
	case gputypes.BlendFactorDst:
		return ggl.DST_COLOR
	case gputypes.BlendFactorDstAlpha:
		return ggl.DST_ALPHA
	case gputypes.BlendFactorOneMinusDst:
		return ggl.ONE_MINUS_DST_COLOR
	case gputypes.BlendFactorOneMinusDstAlpha:
		return ggl.ONE_MINUS_DST_ALPHA
	default:
		return ggl.ONE
	}
}

func blendOpToGL(op gputypes.BlendOperation) uint32 {
	switch op {
	case gputypes.BlendOperationSubtract:
		return ggl.FUNC_SUBTRACT
	case gputypes.BlendOperationReverseSubtract:
		return ggl.FUNC_REVERSE_SUBTRACT
	case gputypes.BlendOperationMin:
		return ggl.MIN
	case gputypes.BlendOperationMax:
		return ggl.MAX
	default:
		return ggl.FUNC_ADD
	}
}
