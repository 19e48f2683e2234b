package resource

import (
	"github.com/gogpu/effectfx/codegen"
	"github.com/gogpu/wgpu/hal"
)

// Sampler owns one effect-declared sampler's GPU object. TextureRef names
// the texture this sampler reads by default (spec.md §4.4); the SRGB flag
// that selects Texture.View's sRGB view lives on the descriptor itself.
type Sampler struct {
	Binding codegen.SamplerBinding
	GPU     hal.Sampler
}

func newSampler(device hal.Device, b codegen.SamplerBinding) (*Sampler, error) {
	desc := b.Desc
	maxAniso := uint32(desc.MaxAnisotropy)
	if maxAniso == 0 {
		maxAniso = 1
	}
	s, err := device.CreateSampler(&hal.SamplerDescriptor{
		Label:        "effectfx:sampler:" + desc.Name,
		AddressModeU: addressMode(desc.AddressU),
		AddressModeV: addressMode(desc.AddressV),
		AddressModeW: addressMode(desc.AddressW),
		MagFilter:    filterMode(desc.MagFilter),
		MinFilter:    filterMode(desc.MinFilter),
		MipmapFilter: filterMode(desc.MipFilter),
		LodMinClamp:  desc.MinLOD,
		LodMaxClamp:  desc.MaxLOD,
		Anisotropy:   uint16(maxAniso),
	})
	if err != nil {
		return nil, err
	}
	return &Sampler{Binding: b, GPU: s}, nil
}
