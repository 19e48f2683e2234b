package gl

import (
	ggl "github.com/go-gl/gl/v4.6-core/gl"
	"github.com/gogpu/gputypes"
)

// Compressed S3TC internal formats (EXT_texture_compression_s3tc). Core GL
// headers/go-gl don't expose these since they're an ARB/EXT extension, not
// core; the integer values are the khronos-assigned enum constants, stable
// across drivers since the extension's introduction.
const (
	compressedRGBAS3TCDXT1 = 0x83F1
	compressedRGBAS3TCDXT3 = 0x83F2
	compressedRGBAS3TCDXT5 = 0x83F3
	compressedSRGBAlphaS3TCDXT1 = 0x8C4D
	compressedSRGBAlphaS3TCDXT3 = 0x8C4E
	compressedSRGBAlphaS3TCDXT5 = 0x8C4F
)

// glFormat is the GL internal/external format and pixel type triple used to
// allocate and upload a texture of a given gputypes.TextureFormat.
type glFormat struct {
	internal   int32
	external   uint32
	pixType    uint32
	compressed bool
	depth      bool
	stencil    bool
}

// textureFormatToGL maps the subset of gputypes.TextureFormat values
// resource/convert.go actually produces (resource/convert.go:32-75) to their
// OpenGL 4 storage/upload triple. Formats outside this set fall back to
// RGBA8Unorm's triple rather than erroring, since an unrecognised format
// from a future resource/convert.go addition should still render (if
// incorrectly) rather than abort the whole technique.
func textureFormatToGL(f gputypes.TextureFormat) glFormat {
	switch f {
	case gputypes.TextureFormatR8Unorm:
		return glFormat{internal: ggl.R8, external: ggl.RED, pixType: ggl.UNSIGNED_BYTE}
	case gputypes.TextureFormatR32Float:
		return glFormat{internal: ggl.R32F, external: ggl.RED, pixType: ggl.FLOAT}
	case gputypes.TextureFormatRG8Unorm:
		return glFormat{internal: ggl.RG8, external: ggl.RG, pixType: ggl.UNSIGNED_BYTE}
	case gputypes.TextureFormatRGBA8Unorm:
		return glFormat{internal: ggl.RGBA8, external: ggl.RGBA, pixType: ggl.UNSIGNED_BYTE}
	case gputypes.TextureFormatRGBA8UnormSrgb:
		return glFormat{internal: ggl.SRGB8_ALPHA8, external: ggl.RGBA, pixType: ggl.UNSIGNED_BYTE}
	case gputypes.TextureFormatBGRA8Unorm:
		return glFormat{internal: ggl.RGBA8, external: ggl.BGRA, pixType: ggl.UNSIGNED_BYTE}
	case gputypes.TextureFormatBGRA8UnormSrgb:
		return glFormat{internal: ggl.SRGB8_ALPHA8, external: ggl.BGRA, pixType: ggl.UNSIGNED_BYTE}
	case gputypes.TextureFormatRGBA16Float:
		return glFormat{internal: ggl.RGBA16F, external: ggl.RGBA, pixType: ggl.HALF_FLOAT}
	case gputypes.TextureFormatRGBA32Float:
		return glFormat{internal: ggl.RGBA32F, external: ggl.RGBA, pixType: ggl.FLOAT}
	case gputypes.TextureFormatBC1RGBAUnorm:
		return glFormat{internal: compressedRGBAS3TCDXT1, compressed: true}
	case gputypes.TextureFormatBC1RGBAUnormSrgb:
		return glFormat{internal: compressedSRGBAlphaS3TCDXT1, compressed: true}
	case gputypes.TextureFormatBC2RGBAUnorm:
		return glFormat{internal: compressedRGBAS3TCDXT3, compressed: true}
	case gputypes.TextureFormatBC2RGBAUnormSrgb:
		return glFormat{internal: compressedSRGBAlphaS3TCDXT3, compressed: true}
	case gputypes.TextureFormatBC3RGBAUnorm:
		return glFormat{internal: compressedRGBAS3TCDXT5, compressed: true}
	case gputypes.TextureFormatBC3RGBAUnormSrgb:
		return glFormat{internal: compressedSRGBAlphaS3TCDXT5, compressed: true}
	case gputypes.TextureFormatDepth24Plus:
		return glFormat{internal: ggl.DEPTH_COMPONENT24, external: ggl.DEPTH_COMPONENT, pixType: ggl.UNSIGNED_INT, depth: true}
	case gputypes.TextureFormatDepth24PlusStencil8:
		return glFormat{internal: ggl.DEPTH24_STENCIL8, external: ggl.DEPTH_STENCIL, pixType: ggl.UNSIGNED_INT_24_8, depth: true, stencil: true}
	case gputypes.TextureFormatDepth32Float:
		return glFormat{internal: ggl.DEPTH_COMPONENT32F, external: ggl.DEPTH_COMPONENT, pixType: ggl.FLOAT, depth: true}
	default:
		return glFormat{internal: ggl.RGBA8, external: ggl.RGBA, pixType: ggl.UNSIGNED_BYTE}
	}
}

func glAddressMode(m gputypes.AddressMode) int32 {
	switch m {
	case gputypes.AddressModeMirrorRepeat:
		return ggl.MIRRORED_REPEAT
	case gputypes.AddressModeClampToEdge:
		return ggl.CLAMP_TO_EDGE
	default:
		return ggl.REPEAT
	}
}

func glFilterMode(m, mip gputypes.FilterMode, mipmapped bool) (minFilter, magFilter int32) {
	mag := int32(ggl.NEAREST)
	if m == gputypes.FilterModeLinear {
		mag = ggl.LINEAR
	}
	if !mipmapped {
		return mag, mag
	}
	switch {
	case m == gputypes.FilterModeLinear && mip == gputypes.FilterModeLinear:
		return ggl.LINEAR_MIPMAP_LINEAR, mag
	case m == gputypes.FilterModeLinear:
		return ggl.LINEAR_MIPMAP_NEAREST, mag
	case mip == gputypes.FilterModeLinear:
		return ggl.NEAREST_MIPMAP_LINEAR, mag
	default:
		return ggl.NEAREST_MIPMAP_NEAREST, mag
	}
}
