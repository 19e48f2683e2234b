package codegen

import (
	"strings"

	"github.com/gogpu/effectfx/fxtypes"
	"github.com/gogpu/effectfx/lang/ast"
)

// annotationString/annotationInt/annotationFloat/annotationBool look up one
// annotation by case-insensitive name, matching spec.md §4.2's
// case-insensitive property resolution rule.
func findAnnotation(v *ast.Variable, name string) (ast.Annotation, bool) {
	for _, a := range v.Annotations {
		if strings.EqualFold(a.Name, name) {
			return a, true
		}
	}
	return ast.Annotation{}, false
}

func annotationInt(v *ast.Variable, name string, def int) int {
	a, ok := findAnnotation(v, name)
	if !ok {
		return def
	}
	switch {
	case a.Value.Int != 0:
		return int(a.Value.Int)
	case a.Value.Uint != 0:
		return int(a.Value.Uint)
	case a.Value.Float != 0:
		return int(a.Value.Float)
	}
	return def
}

func annotationFloat(v *ast.Variable, name string, def float32) float32 {
	a, ok := findAnnotation(v, name)
	if !ok {
		return def
	}
	switch {
	case a.Value.Float != 0:
		return a.Value.Float
	case a.Value.Double != 0:
		return float32(a.Value.Double)
	case a.Value.Int != 0:
		return float32(a.Value.Int)
	}
	return def
}

func annotationBool(v *ast.Variable, name string, def bool) bool {
	a, ok := findAnnotation(v, name)
	if !ok {
		return def
	}
	return a.Value.Bool
}

func annotationString(v *ast.Variable, name, def string) string {
	a, ok := findAnnotation(v, name)
	if !ok || a.Value.Str == "" {
		return def
	}
	return a.Value.Str
}

// textureDimension derives {1,2,3} from the declared base class.
func textureDimension(b ast.BaseClass) int {
	switch b {
	case ast.Texture1D:
		return 1
	case ast.Texture3D:
		return 3
	default:
		return 2
	}
}

func samplerDimension(b ast.BaseClass) int {
	switch b {
	case ast.Sampler1D:
		return 1
	case ast.Sampler3D:
		return 3
	default:
		return 2
	}
}

// buildTextureDescriptor reads a global texture variable's annotation
// block into spec.md §3's texture descriptor.
func buildTextureDescriptor(v *ast.Variable) fxtypes.TextureDescriptor {
	format, _ := fxtypes.LookupFormat(annotationString(v, "Format", "RGBA8"))
	return fxtypes.TextureDescriptor{
		Name:      v.Name,
		Dimension: textureDimension(v.Type.Base),
		Width:     annotationInt(v, "Width", 1),
		Height:    annotationInt(v, "Height", 1),
		Depth:     annotationInt(v, "Depth", 1),
		MipLevels: annotationInt(v, "MipLevels", 1),
		Format:    format,
	}
}

// buildSamplerDescriptor reads a global sampler variable's annotation
// block into spec.md §3's sampler descriptor. Filter/address annotations
// missing from source default to linear/clamp.
func buildSamplerDescriptor(v *ast.Variable) fxtypes.SamplerDescriptor {
	minF, _ := fxtypes.LookupFilter(annotationString(v, "MinFilter", "LINEAR"))
	magF, _ := fxtypes.LookupFilter(annotationString(v, "MagFilter", "LINEAR"))
	mipF, _ := fxtypes.LookupFilter(annotationString(v, "MipFilter", "LINEAR"))
	addrU, _ := fxtypes.LookupAddress(annotationString(v, "AddressU", "CLAMP"))
	addrV, _ := fxtypes.LookupAddress(annotationString(v, "AddressV", "CLAMP"))
	addrW, _ := fxtypes.LookupAddress(annotationString(v, "AddressW", "CLAMP"))
	srgb := annotationBool(v, "SRGBTexture", false) || annotationBool(v, "SRGBView", false)
	return fxtypes.SamplerDescriptor{
		Name:          v.Name,
		TextureRef:    annotationString(v, "Texture", ""),
		MinFilter:     minF,
		MagFilter:     magF,
		MipFilter:     mipF,
		AddressU:      addrU,
		AddressV:      addrV,
		AddressW:      addrW,
		MinLOD:        annotationFloat(v, "MinLOD", 0),
		MaxLOD:        annotationFloat(v, "MaxLOD", 1000),
		LODBias:       annotationFloat(v, "MipLODBias", 0),
		MaxAnisotropy: annotationInt(v, "MaxAnisotropy", 1),
		SRGBView:      srgb,
	}
}
