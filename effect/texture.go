package effect

import (
	"fmt"

	"github.com/gogpu/effectfx/fxtypes"
	"github.com/gogpu/wgpu/hal"
	"github.com/gogpu/effectfx/lang/ast"
	"github.com/gogpu/effectfx/resource"
)

// Texture is the public handle for one effect-declared texture (spec.md
// §6's get_texture result): describe/update/update_from_color_buffer/
// update_from_depth_buffer/resize plus annotation lookup.
type Texture struct {
	device hal.Device
	queue  hal.Queue
	tex    *resource.Texture

	annotations []ast.Annotation
}

// Describe returns the texture's declared dimensions and format.
func (t *Texture) Describe() fxtypes.TextureDescriptor { return t.tex.Binding.Desc }

// GetAnnotation looks up one annotation attached to the texture's
// declaration (spec.md §6: "annotations via each object's
// get_annotation(name)").
func (t *Texture) GetAnnotation(name string) (Annotation, bool) {
	return lookupAnnotation(t.annotations, name)
}

// Update uploads data into one mip level, replacing its full contents
// (spec.md §6's update(level, bytes)). The backend's WriteTexture takes
// raw, tightly-packed bytes — confirmed against hal/gles's own
// implementation, which passes data straight to TexImage2D with no row
// padding of its own — so no stride bookkeeping is needed here.
func (t *Texture) Update(level uint32, data []byte) error {
	desc := t.tex.Binding.Desc
	if int(level) >= desc.MipLevels && desc.MipLevels != 0 {
		return fmt.Errorf("effect: texture %q has no mip level %d", desc.Name, level)
	}
	w := mipDim(desc.Width, level)
	h := mipDim(desc.Height, level)
	d := mipDim(desc.Depth, level)
	t.queue.WriteTexture(
		&hal.ImageCopyTexture{Texture: t.tex.GPU, MipLevel: level},
		data,
		&hal.ImageDataLayout{},
		&hal.Extent3D{Width: uint32(w), Height: uint32(h), DepthOrArrayLayers: uint32(d)},
	)
	return nil
}

func mipDim(n int, level uint32) int {
	if n <= 0 {
		n = 1
	}
	d := n >> level
	if d < 1 {
		d = 1
	}
	return d
}

// UpdateFromColorBuffer copies the current back-buffer contents into this
// texture's base mip level, the generalised form of original_source's
// "ReShade.BackBufferTex" built-in texture. src must be the host's current
// back-buffer texture (not just its view — hal's CopyTextureToTexture needs
// the owning Texture object), obtained from whatever backend surface API
// the hooking layer wraps.
func (t *Texture) UpdateFromColorBuffer(enc hal.CommandEncoder, src hal.Texture) error {
	return t.copyFrom(enc, src)
}

// UpdateFromDepthBuffer copies the runtime's shared depth-stencil texture
// into this texture's base mip level, the generalised form of
// original_source's "ReShade.DepthBufferTex" built-in texture.
func (t *Texture) UpdateFromDepthBuffer(enc hal.CommandEncoder, depthStencil hal.Texture) error {
	return t.copyFrom(enc, depthStencil)
}

func (t *Texture) copyFrom(enc hal.CommandEncoder, src hal.Texture) error {
	if src == nil {
		return fmt.Errorf("effect: texture %q: no source texture to copy from", t.tex.Binding.Desc.Name)
	}
	desc := t.tex.Binding.Desc
	enc.CopyTextureToTexture(src, t.tex.GPU, []hal.TextureCopy{{
		Size: hal.Extent3D{Width: uint32(desc.Width), Height: uint32(desc.Height), DepthOrArrayLayers: uint32(mipDim(desc.Depth, 0))},
	}})
	return nil
}

// Resize recreates the texture's GPU object at a new size, releasing the
// old one (spec.md §6's resize(descriptor)). Any render-target view a
// runtime.Technique cached for this texture is invalidated by this call and
// must be rebuilt by recompiling the technique.
func (t *Texture) Resize(desc fxtypes.TextureDescriptor) error {
	if err := t.tex.Resize(t.device, desc); err != nil {
		return fmt.Errorf("effect: resize texture %q: %w", t.tex.Binding.Desc.Name, err)
	}
	return nil
}
