package fxtypes

// TextureDescriptor mirrors the global texture-variable annotations of
// spec.md §3.
type TextureDescriptor struct {
	Name      string
	Dimension int // 1, 2, or 3
	Width     int
	Height    int
	Depth     int
	MipLevels int
	Format    Format
}

// SamplerDescriptor mirrors a sampler declaration (spec.md §3). TextureRef
// names the already-declared texture it reads (spec.md invariant: samplers
// reference an existing texture by name).
type SamplerDescriptor struct {
	Name         string
	TextureRef   string
	MinFilter    Filter
	MagFilter    Filter
	MipFilter    Filter
	AddressU     Address
	AddressV     Address
	AddressW     Address
	MinLOD       float32
	MaxLOD       float32
	LODBias      float32
	MaxAnisotropy int
	SRGBView     bool
}
