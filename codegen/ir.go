// Package codegen implements the backend IR walker of spec.md §4.3 (C4):
// it traverses the AST produced by lang/parser and, driven by a
// backend-specific Sink, produces a target-shader-language string per
// entry-point function plus the resource-binding descriptor table shared
// by every pass of one effect.
//
// Grounded on spec.md §9's "Backend coupling" design note: the walker is
// parameterised over a code-sink capability; codegen/hlsl and
// codegen/glsl each implement Sink and supply only the backend-specific
// strings, while Walker owns the shared traversal.
package codegen

import "github.com/gogpu/effectfx/fxtypes"

// Stage identifies a shader pipeline stage.
type Stage int

const (
	StageVertex Stage = iota
	StagePixel
)

func (s Stage) String() string {
	if s == StageVertex {
		return "vertex"
	}
	return "pixel"
}

// UniformField is one scalar/vector/matrix member of a uniform block, laid
// out per spec.md §3's std140-equivalent rule.
type UniformField struct {
	Name   string
	TypeName string // backend-specific type spelling, e.g. "float4"
	Offset int
	Size   int
}

// UniformBlock is cbuffer 0 (global, unnamed fields) or one struct-typed
// uniform's own cbuffer (spec.md §3: "Uniform: either a standalone ...
// stored in the global constant buffer, or a field of a struct-typed
// uniform stored in its own cbuffer").
type UniformBlock struct {
	Name   string // "" for the implicit global block
	Slot   int
	Fields []UniformField
	Size   int // total byte size, rounded to a 16-byte multiple
}

// TextureBinding is one global texture variable's descriptor plus its
// assigned shader-resource slot.
type TextureBinding struct {
	Slot int
	Desc fxtypes.TextureDescriptor
}

// SamplerBinding is one global sampler variable's descriptor plus its
// assigned slot. Desc.SRGBView mirrors spec.md §4.3's dual-SRV rule: an
// sRGB-tagged sampler reads the sRGB view of the same texture.
type SamplerBinding struct {
	Slot int
	Desc fxtypes.SamplerDescriptor
}

// ResourceTable is the effect-wide binding table produced once per
// compile (spec.md §4.4: "Per-effect: owns a list of constant buffers ...
// samplers ... shader-resource views ... textures").
type ResourceTable struct {
	UniformBlocks []UniformBlock
	Textures      []TextureBinding
	Samplers      []SamplerBinding
}

// Shader is one compiled entry-point function's target-language source.
type Shader struct {
	EntryPoint string
	Stage      Stage
	Source     string
}

// EffectIR is everything C4 hands to C5 (resource) and C8 (effect): every
// compiled shader plus the shared resource table.
type EffectIR struct {
	Backend   fxtypes.Backend
	Resources ResourceTable
	Shaders   map[string]Shader // keyed by entry-point function name
}
