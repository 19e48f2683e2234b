// Package d3d supplies the Direct3D 9/10/11 backend collaborators that
// runtime and effect take as injected interfaces: a runtime.ShaderCompiler
// that turns effectfx's own HLSL text into a hal.ShaderModule, and a
// resourceBinder matching hal/dx12's unsafe-pointer-cast resource identity
// instead of hal/gles's NativeHandle() convention runtime.genericBinder
// already covers.
package d3d

import (
	"github.com/gogpu/effectfx/codegen"
)

// StageTarget picks the D3DCompile shader-model target profile for one
// codegen.Stage, given the effect's target backend's feature level.
// ShaderModel3 selects the Direct3D 9 (sm3) profiles spec.md §4.3 calls
// out for the legacy `_TEXEL_OFFSET_` path; everything else compiles at
// shader model 5.1, matching hal/dx12/d3dcompile's own target constants.
func StageTarget(stage codegen.Stage, shaderModel3 bool) string {
	if shaderModel3 {
		if stage == codegen.StageVertex {
			return "vs_3_0"
		}
		return "ps_3_0"
	}
	if stage == codegen.StageVertex {
		return "vs_5_1"
	}
	return "ps_5_1"
}

// packDXBC repacks D3DCompile's byte-granular DXBC blob into the []uint32
// words hal.ShaderSource.SPIRV expects, the same little-endian packing
// hal/dx12/device.go's own legacy pre-compiled-bytecode path uses when it
// receives SPIR-V words and unpacks them back to bytes — this is the
// inverse of that unpacking, since D3DCompile itself produces bytes, not
// words. Any trailing partial word is zero-padded; DXBC blobs are always
// word-aligned in practice; pad here purely to avoid a bounds panic if a
// platform driver ever returns one that isn't.
func packDXBC(bytecode []byte) []uint32 {
	n := (len(bytecode) + 3) / 4
	words := make([]uint32, n)
	for i := range words {
		var w uint32
		for b := 0; b < 4; b++ {
			idx := i*4 + b
			if idx < len(bytecode) {
				w |= uint32(bytecode[idx]) << (8 * b)
			}
		}
		words[i] = w
	}
	return words
}
