// Package resource implements the per-effect GPU resource manager of
// spec.md §4.4: it turns a compiled codegen.ResourceTable into backend GPU
// objects (buffers, textures, views, samplers) via the teacher's hal.Device
// abstraction, and owns the dirty-flag upload cycle for uniform storage.
package resource

import (
	"github.com/gogpu/effectfx/fxtypes"
	"github.com/gogpu/gputypes"
)

// gpuUniformUsage is the buffer usage every cbuffer/uniform block is
// created with: read by shaders, rewritten by Manager.Upload.
const gpuUniformUsage = gputypes.BufferUsageUniform | gputypes.BufferUsageCopyDst

// gpuSampledTextureUsage is the usage every effect-owned texture is
// created with: sampled by shaders, writable from the host loader, and
// attachable as a pass render target (spec.md §4.6: any effect-declared
// texture may be named as a pass's RenderTarget0..7, not just dedicated
// render-target textures), so runtime can create a render-target view on
// top of the same GPU texture Manager already built.
const gpuSampledTextureUsage = gputypes.TextureUsageTextureBinding | gputypes.TextureUsageCopyDst | gputypes.TextureUsageRenderAttachment

// TextureFormat exposes textureFormat's effect-to-hal format mapping for
// callers outside this package (runtime resolves a named render target's
// pixel format from the same table when building its pipeline).
func TextureFormat(f fxtypes.Format) gputypes.TextureFormat { return textureFormat(f) }

// textureFormat maps an effect texture format to its hal/gputypes
// equivalent. Compressed block formats (DXT/LATC) have no uncompressed
// sRGB-alias counterpart tracked here beyond what HasSRGBAlias reports.
func textureFormat(f fxtypes.Format) gputypes.TextureFormat {
	switch f {
	case fxtypes.FormatR8:
		return gputypes.TextureFormatR8Unorm
	case fxtypes.FormatR32F:
		return gputypes.TextureFormatR32Float
	case fxtypes.FormatRG8:
		return gputypes.TextureFormatRG8Unorm
	case fxtypes.FormatRGBA8:
		return gputypes.TextureFormatRGBA8Unorm
	case fxtypes.FormatRGBA16:
		// gputypes has no RGBA16Unorm; the float variant is the closest
		// 16-bit-per-channel format the hal layer exposes.
		return gputypes.TextureFormatRGBA16Float
	case fxtypes.FormatRGBA16F:
		return gputypes.TextureFormatRGBA16Float
	case fxtypes.FormatRGBA32F:
		return gputypes.TextureFormatRGBA32Float
	case fxtypes.FormatDXT1:
		return gputypes.TextureFormatBC1RGBAUnorm
	case fxtypes.FormatDXT3:
		return gputypes.TextureFormatBC2RGBAUnorm
	case fxtypes.FormatDXT5:
		return gputypes.TextureFormatBC3RGBAUnorm
	default:
		return gputypes.TextureFormatRGBA8Unorm
	}
}

// sRGBTextureFormat returns the sRGB-aliased format for f, used by the dual
// linear+sRGB SRV policy of spec.md §4.3/§4.4. Callers must first check
// fxtypes.Format.HasSRGBAlias.
func sRGBTextureFormat(f fxtypes.Format) gputypes.TextureFormat {
	switch f {
	case fxtypes.FormatRGBA8:
		return gputypes.TextureFormatRGBA8UnormSrgb
	case fxtypes.FormatDXT1:
		return gputypes.TextureFormatBC1RGBAUnormSrgb
	case fxtypes.FormatDXT3:
		return gputypes.TextureFormatBC2RGBAUnormSrgb
	case fxtypes.FormatDXT5:
		return gputypes.TextureFormatBC3RGBAUnormSrgb
	default:
		return textureFormat(f)
	}
}

func textureDimension(n int) gputypes.TextureDimension {
	switch n {
	case 1:
		return gputypes.TextureDimension1D
	case 3:
		return gputypes.TextureDimension3D
	default:
		return gputypes.TextureDimension2D
	}
}

func textureViewDimension(n int) gputypes.TextureViewDimension {
	switch n {
	case 1:
		return gputypes.TextureViewDimension1D
	case 3:
		return gputypes.TextureViewDimension3D
	default:
		return gputypes.TextureViewDimension2D
	}
}

func filterMode(f fxtypes.Filter) gputypes.FilterMode {
	if f == fxtypes.FilterNone || f == fxtypes.FilterPoint {
		return gputypes.FilterModeNearest
	}
	return gputypes.FilterModeLinear
}

func addressMode(a fxtypes.Address) gputypes.AddressMode {
	switch a {
	case fxtypes.AddressRepeat:
		return gputypes.AddressModeRepeat
	case fxtypes.AddressMirror:
		return gputypes.AddressModeMirrorRepeat
	default:
		// Border address has no direct gputypes equivalent exposed by the
		// teacher's hal layer; clamp-to-edge is the closest safe fallback.
		return gputypes.AddressModeClampToEdge
	}
}
