//go:build windows

package d3d

import (
	"fmt"
	"unsafe"

	"github.com/gogpu/effectfx/codegen"
	"github.com/gogpu/wgpu/hal"
	"github.com/gogpu/wgpu/hal/dx12"
	"github.com/gogpu/wgpu/hal/dx12/d3dcompile"
	"github.com/gogpu/gputypes"
)

// Binder implements effect.ResourceBinder (and therefore runtime's own
// matching interface) for hal/dx12, whose concrete Buffer/TextureView/
// Sampler types thread their own Go-pointer identity through
// gputypes.BindGroupEntry rather than exposing a NativeHandle() uintptr
// the way hal/gles does (runtime.genericBinder's assumption). Grounded
// directly on hal/dx12/device.go's writeViewDescriptor, which casts the
// same uintptr back with unsafe.Pointer on the other end.
type Binder struct{}

func (Binder) BindBuffer(b hal.Buffer) any {
	buf := b.(*dx12.Buffer)
	return gputypes.BufferBinding{Buffer: uintptr(unsafe.Pointer(buf))}
}

func (Binder) BindTextureView(v hal.TextureView) any {
	view := v.(*dx12.TextureView)
	return gputypes.TextureViewBinding{TextureView: uintptr(unsafe.Pointer(view))}
}

func (Binder) BindSampler(s hal.Sampler) any {
	sampler := s.(*dx12.Sampler)
	return gputypes.SamplerBinding{Sampler: uintptr(unsafe.Pointer(sampler))}
}

// NewShaderCompiler returns a runtime.ShaderCompiler that compiles
// effectfx-emitted HLSL text through d3dcompiler_47.dll, grounded
// directly on hal/dx12/device.go's own compileWGSLModule: that path goes
// WGSL -> naga -> HLSL -> D3DCompile, but effectfx's codegen/hlsl sink
// already produces the HLSL text directly, so the naga round trip is
// skipped entirely and D3DCompile is called on the generated source as
// is. shaderModel3 mirrors effect.Technique's d3d9 path — see StageTarget.
func NewShaderCompiler(device hal.Device, shaderModel3 bool) func(source, entryPoint string, stage codegen.Stage) (hal.ShaderModule, error) {
	return func(source, entryPoint string, stage codegen.Stage) (hal.ShaderModule, error) {
		lib, err := d3dcompile.Load()
		if err != nil {
			return nil, fmt.Errorf("backend/d3d: %w", err)
		}
		bytecode, err := lib.Compile(source, entryPoint, StageTarget(stage, shaderModel3))
		if err != nil {
			return nil, fmt.Errorf("backend/d3d: compile %q: %w", entryPoint, err)
		}
		// hal/dx12's CreateShaderModule stores any SPIRV-shaped payload as
		// pre-compiled bytecode under entry "main" (its own legacy path for
		// bytecode that didn't come from naga); runtime/pipeline.go already
		// requests EntryPoint: "main" for exactly this reason.
		return device.CreateShaderModule(&hal.ShaderModuleDescriptor{
			Label:  "effectfx:hlsl:" + entryPoint,
			Source: hal.ShaderSource{SPIRV: packDXBC(bytecode)},
		})
	}
}
