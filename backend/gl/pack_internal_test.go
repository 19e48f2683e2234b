package gl

import (
	"testing"

	ggl "github.com/go-gl/gl/v4.6-core/gl"
	"github.com/gogpu/effectfx/codegen"
	"github.com/gogpu/gputypes"
	"github.com/gogpu/wgpu/hal"
)

func TestStageName(t *testing.T) {
	cases := []struct {
		stage codegen.Stage
		want  string
	}{
		{codegen.StageVertex, "vertex"},
		{codegen.StagePixel, "pixel"},
	}
	for _, c := range cases {
		if got := stageName(c.stage); got != c.want {
			t.Errorf("stageName(%v) = %q, want %q", c.stage, got, c.want)
		}
	}
}

func TestTextureFormatToGL(t *testing.T) {
	cases := []struct {
		format   gputypes.TextureFormat
		internal int32
		external uint32
	}{
		{gputypes.TextureFormatRGBA8Unorm, ggl.RGBA8, ggl.RGBA},
		{gputypes.TextureFormatBGRA8Unorm, ggl.RGBA8, ggl.BGRA},
		{gputypes.TextureFormatR32Float, ggl.R32F, ggl.RED},
		{gputypes.TextureFormatDepth24PlusStencil8, ggl.DEPTH24_STENCIL8, ggl.DEPTH_STENCIL},
	}
	for _, c := range cases {
		got := textureFormatToGL(c.format)
		if got.internal != c.internal || got.external != c.external {
			t.Errorf("textureFormatToGL(%v) = {internal: %#x, external: %#x}, want {%#x, %#x}",
				c.format, got.internal, got.external, c.internal, c.external)
		}
	}
}

func TestTextureFormatToGLCompressed(t *testing.T) {
	got := textureFormatToGL(gputypes.TextureFormatBC1RGBAUnorm)
	if !got.compressed || got.internal != compressedRGBAS3TCDXT1 {
		t.Errorf("BC1RGBAUnorm should map to the compressed DXT1 internal format")
	}
}

func TestGLAddressMode(t *testing.T) {
	cases := []struct {
		mode gputypes.AddressMode
		want int32
	}{
		{gputypes.AddressModeRepeat, ggl.REPEAT},
		{gputypes.AddressModeMirrorRepeat, ggl.MIRRORED_REPEAT},
		{gputypes.AddressModeClampToEdge, ggl.CLAMP_TO_EDGE},
	}
	for _, c := range cases {
		if got := glAddressMode(c.mode); got != c.want {
			t.Errorf("glAddressMode(%v) = %#x, want %#x", c.mode, got, c.want)
		}
	}
}

func TestGLFilterModeNoMipmap(t *testing.T) {
	minF, magF := glFilterMode(gputypes.FilterModeLinear, gputypes.FilterModeNearest, false)
	if minF != ggl.LINEAR || magF != ggl.LINEAR {
		t.Errorf("non-mipmapped linear filter should ignore mip mode, got min=%#x mag=%#x", minF, magF)
	}
}

func TestGLFilterModeMipmapLinearLinear(t *testing.T) {
	minF, _ := glFilterMode(gputypes.FilterModeLinear, gputypes.FilterModeLinear, true)
	if minF != ggl.LINEAR_MIPMAP_LINEAR {
		t.Errorf("linear+linear mip filter = %#x, want LINEAR_MIPMAP_LINEAR", minF)
	}
}

func TestCompareFuncToGL(t *testing.T) {
	if compareFuncToGL(gputypes.CompareFunctionLessEqual) != ggl.LEQUAL {
		t.Error("CompareFunctionLessEqual should map to GL_LEQUAL")
	}
	if compareFuncToGL(gputypes.CompareFunctionAlways) != ggl.ALWAYS {
		t.Error("CompareFunctionAlways should map to GL_ALWAYS")
	}
}

func TestBlendFactorToGL(t *testing.T) {
	if blendFactorToGL(gputypes.BlendFactorSrcAlpha) != ggl.SRC_ALPHA {
		t.Error("BlendFactorSrcAlpha should map to GL_SRC_ALPHA")
	}
	if blendFactorToGL(gputypes.BlendFactorOneMinusDstAlpha) != ggl.ONE_MINUS_DST_ALPHA {
		t.Error("BlendFactorOneMinusDstAlpha should map to GL_ONE_MINUS_DST_ALPHA")
	}
}

func TestBlendOpToGL(t *testing.T) {
	if blendOpToGL(gputypes.BlendOperationMax) != ggl.MAX {
		t.Error("BlendOperationMax should map to GL_MAX")
	}
	if blendOpToGL(gputypes.BlendOperationAdd) != ggl.FUNC_ADD {
		t.Error("BlendOperationAdd should map to GL_FUNC_ADD")
	}
}

func TestStencilOpToGL(t *testing.T) {
	if stencilOpToGL(hal.StencilOperationIncrementWrap) != ggl.INCR_WRAP {
		t.Error("StencilOperationIncrementWrap should map to GL_INCR_WRAP")
	}
}
