package resource

import (
	"github.com/gogpu/effectfx/codegen"
	"github.com/gogpu/effectfx/fxtypes"
	"github.com/gogpu/wgpu/hal"
)

// Texture owns one effect-declared texture's GPU object plus its shader-
// resource views. Per spec.md §4.4's texture create policy, a 2D texture
// whose format has an sRGB alias gets a second, sRGB-formatted view; 1D/3D
// textures never do, and nothing gets a render-target view here — RTVs are
// only needed for pass render targets, created lazily by runtime.
type Texture struct {
	Binding  codegen.TextureBinding
	GPU      hal.Texture
	Linear   hal.TextureView
	SRGBView hal.TextureView // nil unless the format has an sRGB alias and Dimension == 2
}

func newTexture(device hal.Device, b codegen.TextureBinding) (*Texture, error) {
	desc := b.Desc
	format := textureFormat(desc.Format)
	tex, err := device.CreateTexture(&hal.TextureDescriptor{
		Label: "effectfx:texture:" + desc.Name,
		Size: hal.Extent3D{
			Width:              uint32(desc.Width),
			Height:             uint32(desc.Height),
			DepthOrArrayLayers: uint32(max1(desc.Depth)),
		},
		MipLevelCount: uint32(max1(desc.MipLevels)),
		SampleCount:   1,
		Dimension:     textureDimension(desc.Dimension),
		Format:        format,
		Usage:         gpuSampledTextureUsage,
	})
	if err != nil {
		return nil, err
	}

	linear, err := device.CreateTextureView(tex, &hal.TextureViewDescriptor{
		Label:         "effectfx:view:" + desc.Name,
		Format:        format,
		Dimension:     textureViewDimension(desc.Dimension),
		MipLevelCount: uint32(max1(desc.MipLevels)),
	})
	if err != nil {
		device.DestroyTexture(tex)
		return nil, err
	}

	t := &Texture{Binding: b, GPU: tex, Linear: linear}
	if desc.Dimension == 2 && desc.Format.HasSRGBAlias() {
		srgb, err := device.CreateTextureView(tex, &hal.TextureViewDescriptor{
			Label:         "effectfx:view:" + desc.Name + ":srgb",
			Format:        sRGBTextureFormat(desc.Format),
			Dimension:     textureViewDimension(desc.Dimension),
			MipLevelCount: uint32(max1(desc.MipLevels)),
		})
		if err != nil {
			device.DestroyTextureView(linear)
			device.DestroyTexture(tex)
			return nil, err
		}
		t.SRGBView = srgb
	}
	return t, nil
}

// View returns the sRGB view when srgb is requested and present, else the
// linear view — the lookup spec.md §4.3 describes for sampler binding
// ("sRGB-tagged samplers sample the sRGB view of their texture").
func (t *Texture) View(srgb bool) hal.TextureView {
	if srgb && t.SRGBView != nil {
		return t.SRGBView
	}
	return t.Linear
}

// Resize replaces this texture's GPU object and views with freshly created
// ones sized per desc, destroying the old ones first (spec.md §6's
// Texture.resize). desc.Name is overwritten with the existing binding's
// name; callers only control dimensions/format/mip count.
func (t *Texture) Resize(device hal.Device, desc fxtypes.TextureDescriptor) error {
	desc.Name = t.Binding.Desc.Name
	replacement, err := newTexture(device, codegen.TextureBinding{Slot: t.Binding.Slot, Desc: desc})
	if err != nil {
		return err
	}
	t.destroy(device)
	*t = *replacement
	return nil
}

func (t *Texture) destroy(device hal.Device) {
	if t.SRGBView != nil {
		device.DestroyTextureView(t.SRGBView)
	}
	device.DestroyTextureView(t.Linear)
	device.DestroyTexture(t.GPU)
}

func max1(n int) int {
	if n < 1 {
		return 1
	}
	return n
}
