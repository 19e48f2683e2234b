//go:build windows

// Package vk supplies the Vulkan backend collaborators runtime and effect
// take as injected interfaces: a runtime.ShaderCompiler that compiles
// effectfx-emitted GLSL text to SPIR-V through backend/vk/spirvc, and a
// resourceBinder matching hal/vulkan's concrete resource handles. Gated to
// windows because hal/vulkan itself (the only Device this package's types
// cast against) carries the same build constraint.
package vk

import (
	"fmt"

	"github.com/gogpu/effectfx/backend/vk/spirvc"
	"github.com/gogpu/effectfx/codegen"
	"github.com/gogpu/wgpu/hal"
	"github.com/gogpu/wgpu/hal/vulkan"
	"github.com/gogpu/gputypes"
)

// Binder implements effect.ResourceBinder for hal/vulkan, whose concrete
// Buffer/TextureView/Sampler types expose their VkBuffer/VkImageView/
// VkSampler handle via Handle(), a non-dispatchable handle already numeric
// and directly convertible to uintptr (see hal/vulkan's own descriptor and
// swapchain code, which does the same uintptr(handle) conversion).
type Binder struct{}

func (Binder) BindBuffer(b hal.Buffer) any {
	buf := b.(*vulkan.Buffer)
	return gputypes.BufferBinding{Buffer: uintptr(buf.Handle())}
}

func (Binder) BindTextureView(v hal.TextureView) any {
	view := v.(*vulkan.TextureView)
	return gputypes.TextureViewBinding{TextureView: uintptr(view.Handle())}
}

func (Binder) BindSampler(s hal.Sampler) any {
	sampler := s.(*vulkan.Sampler)
	return gputypes.SamplerBinding{Sampler: uintptr(sampler.Handle())}
}

// NewShaderCompiler returns a runtime.ShaderCompiler that compiles
// effectfx-emitted GLSL text (codegen/glsl.Sink, the same sink
// backend/gl uses) to SPIR-V via backend/vk/spirvc, then hands the result
// to hal.Device.CreateShaderModule through the SPIRV field naga-derived
// callers already populate.
func NewShaderCompiler(device hal.Device) func(source, entryPoint string, stage codegen.Stage) (hal.ShaderModule, error) {
	return func(source, entryPoint string, stage codegen.Stage) (hal.ShaderModule, error) {
		words, err := spirvc.Compile(source, entryPoint, stage)
		if err != nil {
			return nil, fmt.Errorf("backend/vk: %w", err)
		}
		return device.CreateShaderModule(&hal.ShaderModuleDescriptor{
			Label:  "effectfx:spirv:" + entryPoint,
			Source: hal.ShaderSource{SPIRV: words},
		})
	}
}
