package gl

import (
	"fmt"
	"time"

	ggl "github.com/go-gl/gl/v4.6-core/gl"
	"github.com/gogpu/gputypes"
	"github.com/gogpu/wgpu/hal"
)

// Device implements hal.Device directly against the host application's
// already-current OpenGL context (effectfx hooks a running host the way
// ReShade does - runtime.go's package doc makes the same point for the
// other backends - so unlike hal/gles it never creates or owns a context
// itself; Init, below, just loads function pointers from whatever context
// the host already made current).
//
// hal/gles (github.com/gogpu/wgpu/hal/gles), the teacher's own GL backend,
// cannot be reused here: its CreateRenderPipeline unconditionally lowers
// ShaderModuleDescriptor.Source.WGSL through naga (hal/gles/shader.go's
// compileWGSLToGLSL), and hal.ShaderSource has no field for the native
// GLSL text codegen/glsl.Sink emits (hal/descriptor.go). Device instead
// talks to the context directly via github.com/go-gl/gl/v4.6-core/gl, the
// same library and call pattern soypat-glgl's glgl package uses for shader
// compilation and buffer/texture setup.
type Device struct {
	// vao is the one persistent vertex array object Core Profile requires
	// bound before any draw call (mirrors hal/gles/device.go's own vao
	// field for the identical reason).
	vao uint32
}

// Init loads GL function pointers from the current context and creates the
// persistent VAO. Must be called once, on the thread the host's graphics
// context is current on, before any other Device method.
func Init() (*Device, error) {
	if err := ggl.Init(); err != nil {
		return nil, fmt.Errorf("backend/gl: loading GL function pointers: %w", err)
	}
	d := &Device{}
	ggl.GenVertexArrays(1, &d.vao)
	ggl.BindVertexArray(d.vao)
	return d, nil
}

func (d *Device) CreateBuffer(desc *hal.BufferDescriptor) (hal.Buffer, error) {
	var id uint32
	ggl.GenBuffers(1, &id)

	target := uint32(ggl.ARRAY_BUFFER)
	switch {
	case desc.Usage&gputypes.BufferUsageIndex != 0:
		target = ggl.ELEMENT_ARRAY_BUFFER
	case desc.Usage&gputypes.BufferUsageUniform != 0:
		target = ggl.UNIFORM_BUFFER
	case desc.Usage&gputypes.BufferUsageCopySrc != 0, desc.Usage&gputypes.BufferUsageCopyDst != 0:
		target = ggl.COPY_READ_BUFFER
	}

	usage := uint32(ggl.STATIC_DRAW)
	if desc.Usage&gputypes.BufferUsageMapWrite != 0 {
		usage = ggl.DYNAMIC_DRAW
	} else if desc.Usage&gputypes.BufferUsageMapRead != 0 {
		usage = ggl.DYNAMIC_READ
	}

	ggl.BindBuffer(target, id)
	ggl.BufferData(target, int(desc.Size), nil, usage)
	ggl.BindBuffer(target, 0)

	return &Buffer{nativeHandleHolder: nativeHandleHolder{id}, target: target, size: desc.Size}, nil
}

func (d *Device) DestroyBuffer(buffer hal.Buffer) {
	if b, ok := buffer.(*Buffer); ok {
		b.Destroy()
	}
}

func (d *Device) CreateTexture(desc *hal.TextureDescriptor) (hal.Texture, error) {
	var id uint32
	ggl.GenTextures(1, &id)

	target := uint32(ggl.TEXTURE_2D)
	if desc.Dimension == gputypes.TextureDimension3D {
		target = ggl.TEXTURE_3D
	}

	fmtInfo := textureFormatToGL(desc.Format)
	mips := desc.MipLevelCount
	if mips == 0 {
		mips = 1
	}

	ggl.BindTexture(target, id)
	for level := uint32(0); level < mips; level++ {
		w := max1u(desc.Size.Width >> level)
		h := max1u(desc.Size.Height >> level)
		if fmtInfo.compressed {
			// Storage for compressed textures is allocated on upload
			// (Queue.WriteTexture), since the byte size depends on the
			// block-compressed payload, not width*height*bpp.
			continue
		}
		if target == ggl.TEXTURE_3D {
			depth := max1u(desc.Size.DepthOrArrayLayers >> level)
			ggl.TexImage3D(target, int32(level), fmtInfo.internal, int32(w), int32(h), int32(depth), 0, fmtInfo.external, fmtInfo.pixType, nil)
		} else {
			ggl.TexImage2D(target, int32(level), fmtInfo.internal, int32(w), int32(h), 0, fmtInfo.external, fmtInfo.pixType, nil)
		}
	}
	ggl.TexParameteri(target, ggl.TEXTURE_MIN_FILTER, ggl.LINEAR)
	ggl.TexParameteri(target, ggl.TEXTURE_MAG_FILTER, ggl.LINEAR)
	ggl.TexParameteri(target, ggl.TEXTURE_WRAP_S, ggl.CLAMP_TO_EDGE)
	ggl.TexParameteri(target, ggl.TEXTURE_WRAP_T, ggl.CLAMP_TO_EDGE)
	ggl.BindTexture(target, 0)

	return &Texture{
		nativeHandleHolder: nativeHandleHolder{id},
		target:             target,
		format:             desc.Format,
		width:              desc.Size.Width,
		height:             desc.Size.Height,
		mipLevels:          mips,
	}, nil
}

func (d *Device) DestroyTexture(texture hal.Texture) {
	if t, ok := texture.(*Texture); ok {
		t.Destroy()
	}
}

func (d *Device) CreateTextureView(texture hal.Texture, desc *hal.TextureViewDescriptor) (hal.TextureView, error) {
	t, ok := texture.(*Texture)
	if !ok {
		return nil, fmt.Errorf("backend/gl: invalid texture type")
	}
	format := t.format
	if desc != nil && desc.Format != gputypes.TextureFormatUndefined {
		format = desc.Format
	}
	return &TextureView{texture: t, format: format}, nil
}

func (d *Device) DestroyTextureView(view hal.TextureView) {}

func (d *Device) CreateSampler(desc *hal.SamplerDescriptor) (hal.Sampler, error) {
	var id uint32
	ggl.GenSamplers(1, &id)

	minF, magF := glFilterMode(desc.MinFilter, desc.MipmapFilter, desc.LodMaxClamp > 0)
	ggl.SamplerParameteri(id, ggl.TEXTURE_MIN_FILTER, minF)
	ggl.SamplerParameteri(id, ggl.TEXTURE_MAG_FILTER, magF)
	if desc.MagFilter == gputypes.FilterModeLinear {
		ggl.SamplerParameteri(id, ggl.TEXTURE_MAG_FILTER, ggl.LINEAR)
	}
	ggl.SamplerParameteri(id, ggl.TEXTURE_WRAP_S, glAddressMode(desc.AddressModeU))
	ggl.SamplerParameteri(id, ggl.TEXTURE_WRAP_T, glAddressMode(desc.AddressModeV))
	ggl.SamplerParameteri(id, ggl.TEXTURE_WRAP_R, glAddressMode(desc.AddressModeW))

	return &Sampler{nativeHandleHolder{id}}, nil
}

func (d *Device) DestroySampler(sampler hal.Sampler) {
	if s, ok := sampler.(*Sampler); ok {
		s.Destroy()
	}
}

func (d *Device) CreateBindGroupLayout(desc *hal.BindGroupLayoutDescriptor) (hal.BindGroupLayout, error) {
	return &BindGroupLayout{entries: desc.Entries}, nil
}

func (d *Device) DestroyBindGroupLayout(layout hal.BindGroupLayout) {}

func (d *Device) CreateBindGroup(desc *hal.BindGroupDescriptor) (hal.BindGroup, error) {
	if _, ok := desc.Layout.(*BindGroupLayout); !ok {
		return nil, fmt.Errorf("backend/gl: invalid bind group layout type")
	}
	return &BindGroup{entries: desc.Entries}, nil
}

func (d *Device) DestroyBindGroup(group hal.BindGroup) {}

func (d *Device) CreatePipelineLayout(desc *hal.PipelineLayoutDescriptor) (hal.PipelineLayout, error) {
	layouts := make([]*BindGroupLayout, 0, len(desc.BindGroupLayouts))
	for i, l := range desc.BindGroupLayouts {
		bgl, ok := l.(*BindGroupLayout)
		if !ok {
			return nil, fmt.Errorf("backend/gl: invalid bind group layout at index %d", i)
		}
		layouts = append(layouts, bgl)
	}
	return &PipelineLayout{bindGroupLayouts: layouts}, nil
}

func (d *Device) DestroyPipelineLayout(layout hal.PipelineLayout) {}

// CreateShaderModule satisfies hal.Device but is never called on effectfx's
// own path: backend/gl's runtime.ShaderCompiler (gl.go) builds *ShaderModule
// directly from codegen/glsl text without going through
// hal.ShaderModuleDescriptor, whose Source has no field for raw GLSL. Kept
// so Device fully implements hal.Device for any caller that does hand it a
// WGSL module; such a module has no native GLSL text to fall back to, so it
// errors instead of guessing.
func (d *Device) CreateShaderModule(desc *hal.ShaderModuleDescriptor) (hal.ShaderModule, error) {
	return nil, fmt.Errorf("backend/gl: CreateShaderModule requires native GLSL text; use NewShaderCompiler instead of hal.ShaderModuleDescriptor")
}

func (d *Device) DestroyShaderModule(module hal.ShaderModule) {
	if m, ok := module.(*ShaderModule); ok {
		m.Destroy()
	}
}

func (d *Device) CreateRenderPipeline(desc *hal.RenderPipelineDescriptor) (hal.RenderPipeline, error) {
	vs, ok := desc.Vertex.Module.(*ShaderModule)
	if !ok {
		return nil, fmt.Errorf("backend/gl: invalid vertex shader module type")
	}

	program := ggl.CreateProgram()
	ggl.AttachShader(program, vs.id)

	var fs *ShaderModule
	if desc.Fragment != nil {
		fs, ok = desc.Fragment.Module.(*ShaderModule)
		if !ok {
			ggl.DeleteProgram(program)
			return nil, fmt.Errorf("backend/gl: invalid fragment shader module type")
		}
		ggl.AttachShader(program, fs.id)
	}

	ggl.LinkProgram(program)
	var status int32
	ggl.GetProgramiv(program, ggl.LINK_STATUS, &status)
	if status == ggl.FALSE {
		msg := programInfoLog(program)
		ggl.DeleteProgram(program)
		return nil, fmt.Errorf("backend/gl: program link failed: %s", msg)
	}

	var targets []gputypes.ColorTargetState
	if desc.Fragment != nil {
		targets = desc.Fragment.Targets
	}

	return &RenderPipeline{
		program:      program,
		primitive:    desc.Primitive,
		depthStencil: desc.DepthStencil,
		colorTargets: targets,
	}, nil
}

func (d *Device) DestroyRenderPipeline(pipeline hal.RenderPipeline) {
	if p, ok := pipeline.(*RenderPipeline); ok {
		p.Destroy()
	}
}

// CreateComputePipeline always errors: effectfx's techniques have no
// compute stage (spec.md §4.2's Pass block defines only VertexShader/
// PixelShader), so nothing in this repo constructs one.
func (d *Device) CreateComputePipeline(desc *hal.ComputePipelineDescriptor) (hal.ComputePipeline, error) {
	return nil, fmt.Errorf("backend/gl: compute pipelines are not supported")
}

func (d *Device) DestroyComputePipeline(pipeline hal.ComputePipeline) {}

func (d *Device) CreateCommandEncoder(desc *hal.CommandEncoderDescriptor) (hal.CommandEncoder, error) {
	return &CommandEncoder{device: d}, nil
}

func (d *Device) CreateFence() (hal.Fence, error) { return &Fence{}, nil }

func (d *Device) DestroyFence(fence hal.Fence) {}

// Wait always returns immediately: every GL call backend/gl issues runs
// synchronously against the host's context (CommandBuffer's doc comment in
// resource.go), so by the time Queue.Submit returns the fence's value has
// already been reached.
func (d *Device) Wait(fence hal.Fence, value uint64, timeout time.Duration) (bool, error) {
	return true, nil
}

func (d *Device) Destroy() {
	if d.vao != 0 {
		ggl.DeleteVertexArrays(1, &d.vao)
		d.vao = 0
	}
}

func max1u(v uint32) uint32 {
	if v == 0 {
		return 1
	}
	return v
}

func programInfoLog(program uint32) string {
	var length int32
	ggl.GetProgramiv(program, ggl.INFO_LOG_LENGTH, &length)
	if length == 0 {
		return ""
	}
	log := make([]byte, length)
	ggl.GetProgramInfoLog(program, length, nil, &log[0])
	return string(log[:len(log)-1])
}
