package runtime

import (
	"fmt"

	"github.com/gogpu/effectfx/codegen"
	"github.com/gogpu/wgpu/hal"
	"github.com/gogpu/effectfx/resource"
	"github.com/gogpu/gputypes"
)

// Binding-number buckets for the single bind group every effect pipeline
// uses. hal's BindGroupEntry is one flat binding-number space, while HLSL/
// GLSL keep cbuffer (b#), texture (t#) and sampler (s#) registers in
// separate namespaces; textureBindingBase/samplerBindingBase keep the two
// effect-declared kinds from colliding with uniform block slot 0..N.
const (
	textureBindingBase = 128
	samplerBindingBase = 192
)

// resourceBinder produces the backend-specific gputypes binding value
// (BufferBinding/TextureViewBinding/SamplerBinding) for a hal object.
// hal's public Buffer/TextureView/Sampler interfaces only expose Destroy();
// the native handle gputypes.BindGroupEntry needs is a convention each
// concrete backend type opts into (hal/gles's NativeHandle() is the
// grounded example — hal/dx12 threads its own pointer-identity instead,
// which is exactly why this is a capability interface rather than
// something runtime can do unconditionally).
type resourceBinder interface {
	BindBuffer(hal.Buffer) any
	BindTextureView(hal.TextureView) any
	BindSampler(hal.Sampler) any
}

// nativeHandle is the convention genericBinder relies on.
type nativeHandle interface{ NativeHandle() uintptr }

// genericBinder implements resourceBinder for any backend whose concrete
// resource types expose NativeHandle() uintptr directly (hal/gles today).
// Backends that cannot (hal/dx12's buffers thread their own Go-pointer
// identity instead of a stable handle) supply their own resourceBinder from
// their backend/* package.
type genericBinder struct{}

func (genericBinder) BindBuffer(b hal.Buffer) any {
	return gputypes.BufferBinding{Buffer: b.(nativeHandle).NativeHandle()}
}

func (genericBinder) BindTextureView(v hal.TextureView) any {
	return gputypes.TextureViewBinding{TextureView: v.(nativeHandle).NativeHandle()}
}

func (genericBinder) BindSampler(s hal.Sampler) any {
	return gputypes.SamplerBinding{Sampler: s.(nativeHandle).NativeHandle()}
}

// bindGroupLayoutEntries builds the one bind-group layout every effect
// pipeline shares: one uniform-buffer entry per constant buffer, one
// texture entry and one sampler entry per effect-declared resource.
func bindGroupLayoutEntries(table codegen.ResourceTable) []gputypes.BindGroupLayoutEntry {
	var entries []gputypes.BindGroupLayoutEntry
	visibility := gputypes.ShaderStageVertex | gputypes.ShaderStageFragment

	for _, block := range table.UniformBlocks {
		entries = append(entries, gputypes.BindGroupLayoutEntry{
			Binding:    uint32(block.Slot),
			Visibility: visibility,
			Buffer:     &gputypes.BufferBindingLayout{Type: gputypes.BufferBindingTypeUniform},
		})
	}
	for _, tb := range table.Textures {
		entries = append(entries, gputypes.BindGroupLayoutEntry{
			Binding:    textureBindingBase + uint32(tb.Slot),
			Visibility: visibility,
			// Zero-value: every effect texture is a plain sampled 2D/1D/3D
			// float texture, and the dx12/vulkan dispatch on entry.Texture
			// being non-nil rather than reading its fields for this case.
			Texture: &gputypes.TextureBindingLayout{},
		})
	}
	for _, sb := range table.Samplers {
		entries = append(entries, gputypes.BindGroupLayoutEntry{
			Binding:    samplerBindingBase + uint32(sb.Slot),
			Visibility: visibility,
			Sampler:    &gputypes.SamplerBindingLayout{Type: gputypes.SamplerBindingTypeFiltering},
		})
	}
	return entries
}

// bindGroupEntries builds the bind group bound at begin() (spec.md §4.6
// step 3/4: bind every uniform buffer and every sRGB-resolved texture
// view/sampler). binder resolves each hal object to its native handle.
func bindGroupEntries(binder resourceBinder, table codegen.ResourceTable, mgr *resource.Manager) []gputypes.BindGroupEntry {
	var entries []gputypes.BindGroupEntry

	for _, buf := range mgr.Buffers() {
		entries = append(entries, gputypes.BindGroupEntry{
			Binding:  uint32(buf.Block.Slot),
			Resource: binder.BindBuffer(buf.GPU),
		})
	}
	// A texture's bound view is sRGB only if some sampler that reads it
	// asks for the sRGB view (spec.md §4.3); scan samplers first so each
	// texture entry below is built with the right view on the first pass.
	srgbByTexture := make(map[string]bool, len(table.Samplers))
	for _, sb := range table.Samplers {
		if sb.Desc.SRGBView {
			srgbByTexture[sb.Desc.TextureRef] = true
		}
	}

	for _, tb := range table.Textures {
		tex, ok := mgr.Texture(tb.Desc.Name)
		if !ok {
			continue
		}
		entries = append(entries, gputypes.BindGroupEntry{
			Binding:  textureBindingBase + uint32(tb.Slot),
			Resource: binder.BindTextureView(tex.View(srgbByTexture[tb.Desc.Name])),
		})
	}
	for _, sb := range table.Samplers {
		samp, ok := mgr.Sampler(sb.Desc.Name)
		if !ok {
			continue
		}
		entries = append(entries, gputypes.BindGroupEntry{
			Binding:  samplerBindingBase + uint32(sb.Slot),
			Resource: binder.BindSampler(samp.GPU),
		})
	}
	return entries
}

// buildRenderPipeline assembles one hal.RenderPipelineDescriptor for a
// compiled pass: the fullscreen-triangle vertex stage with an empty input
// layout (spec.md §4.5: vertex positions come from SV_VertexID, not a
// vertex buffer), the pass's pixel shader, and its PassState translated to
// gputypes/hal pipeline state via buildPipelineState.
func buildRenderPipeline(device hal.Device, layout hal.PipelineLayout, vs, ps hal.ShaderModule, passLabel string, state pipelineState) (hal.RenderPipeline, error) {
	desc := &hal.RenderPipelineDescriptor{
		Label:     "effectfx:pipeline:" + passLabel,
		Layout:    layout,
		Primitive: state.primitive,
		Vertex: hal.VertexState{
			Module:     vs,
			EntryPoint: "main",
		},
		DepthStencil: state.depthStencil,
		Multisample: gputypes.MultisampleState{
			Count: 1,
			Mask:  0xFFFFFFFF,
		},
	}
	if len(state.colorTargets) > 0 {
		desc.Fragment = &hal.FragmentState{
			Module:     ps,
			EntryPoint: "main",
			Targets:    state.colorTargets,
		}
	}
	pipeline, err := device.CreateRenderPipeline(desc)
	if err != nil {
		return nil, fmt.Errorf("%w: pass %q: %v", ErrShaderCompile, passLabel, err)
	}
	return pipeline, nil
}
