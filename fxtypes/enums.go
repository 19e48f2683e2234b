// Package fxtypes holds the GPU-facing descriptor enums shared by the
// compiler's property parser, the resource manager, and every render
// backend — the case-insensitive property names of spec.md §6.
//
// Grounded on gogpu-wgpu/types (texture.go, sampler.go, binding.go): one
// small exhaustive enum per concern, a String() for diagnostics, and a
// case-insensitive lookup map for source-level names.
package fxtypes

import "strings"

// Backend identifies the render API a compiled effect targets.
type Backend int

const (
	BackendD3D9 Backend = iota
	BackendD3D10
	BackendD3D11
	BackendOpenGL
	BackendVulkan
)

func (b Backend) IsD3D() bool { return b == BackendD3D9 || b == BackendD3D10 || b == BackendD3D11 }
func (b Backend) UsesGLSL() bool { return b == BackendOpenGL || b == BackendVulkan }

// Filter enumerates sampler min/mag/mip filtering (spec.md §6).
type Filter int

const (
	FilterNone Filter = iota
	FilterPoint
	FilterLinear
	FilterAnisotropic
)

// Address enumerates sampler address (wrap) modes.
type Address int

const (
	AddressClamp Address = iota
	AddressRepeat
	AddressMirror
	AddressBorder
)

// Format enumerates texture pixel formats.
type Format int

const (
	FormatUnknown Format = iota
	FormatR8
	FormatR32F
	FormatRG8
	FormatRGBA8
	FormatRGBA16
	FormatRGBA16F
	FormatRGBA32F
	FormatDXT1
	FormatDXT3
	FormatDXT5
	FormatLATC1
	FormatLATC2
)

// HasSRGBAlias reports whether format has a companion sRGB view format,
// gating the dual-SRV policy of spec.md §4.3/§4.4.
func (f Format) HasSRGBAlias() bool {
	switch f {
	case FormatRGBA8, FormatDXT1, FormatDXT3, FormatDXT5:
		return true
	}
	return false
}

// BlendFactor enumerates blend-state source/destination factors.
type BlendFactor int

const (
	BlendZero BlendFactor = iota
	BlendOne
	BlendSrcColor
	BlendSrcAlpha
	BlendInvSrcColor
	BlendInvSrcAlpha
	BlendDestColor
	BlendDestAlpha
	BlendInvDestColor
	BlendInvDestAlpha
)

// BlendOp enumerates blend combine operations.
type BlendOp int

const (
	BlendOpAdd BlendOp = iota
	BlendOpSubtract
	BlendOpRevSubtract
	BlendOpMin
	BlendOpMax
)

// CompareFunc enumerates depth/stencil comparison functions.
type CompareFunc int

const (
	CompareNever CompareFunc = iota
	CompareLess
	CompareEqual
	CompareLessEqual
	CompareGreater
	CompareNotEqual
	CompareGreaterEqual
	CompareAlways
)

// StencilOp enumerates stencil pass/fail operations.
type StencilOp int

const (
	StencilKeep StencilOp = iota
	StencilZero
	StencilReplace
	StencilInvert
	StencilIncr
	StencilIncrSat
	StencilDecr
	StencilDecrSat
)

// CullMode and FillMode round out the rasterizer state block.
type CullMode int

const (
	CullNone CullMode = iota
	CullFront
	CullBack
)

type FillMode int

const (
	FillSolid FillMode = iota
	FillWireframe
)

// enumTable builds a case-insensitive name->value lookup, matching the
// property-block resolution rule of spec.md §4.2 ("case-insensitive ...
// against a fixed map").
type enumTable[T any] map[string]T

func newTable[T any](pairs map[string]T) enumTable[T] {
	t := make(enumTable[T], len(pairs))
	for k, v := range pairs {
		t[strings.ToUpper(k)] = v
	}
	return t
}

func (t enumTable[T]) lookup(name string) (T, bool) {
	v, ok := t[strings.ToUpper(name)]
	return v, ok
}

var filterNames = newTable(map[string]Filter{
	"NONE": FilterNone, "POINT": FilterPoint, "LINEAR": FilterLinear, "ANISOTROPIC": FilterAnisotropic,
})

var addressNames = newTable(map[string]Address{
	"CLAMP": AddressClamp, "REPEAT": AddressRepeat, "MIRROR": AddressMirror, "BORDER": AddressBorder,
})

var formatNames = newTable(map[string]Format{
	"R8": FormatR8, "R32F": FormatR32F, "RG8": FormatRG8, "RGBA8": FormatRGBA8,
	"RGBA16": FormatRGBA16, "RGBA16F": FormatRGBA16F, "RGBA32F": FormatRGBA32F,
	"DXT1": FormatDXT1, "DXT3": FormatDXT3, "DXT5": FormatDXT5,
	"LATC1": FormatLATC1, "LATC2": FormatLATC2,
})

var blendFactorNames = newTable(map[string]BlendFactor{
	"ZERO": BlendZero, "ONE": BlendOne, "SRCCOLOR": BlendSrcColor, "SRCALPHA": BlendSrcAlpha,
	"INVSRCCOLOR": BlendInvSrcColor, "INVSRCALPHA": BlendInvSrcAlpha,
	"DESTCOLOR": BlendDestColor, "DESTALPHA": BlendDestAlpha,
	"INVDESTCOLOR": BlendInvDestColor, "INVDESTALPHA": BlendInvDestAlpha,
})

var blendOpNames = newTable(map[string]BlendOp{
	"ADD": BlendOpAdd, "SUBTRACT": BlendOpSubtract, "REVSUBTRACT": BlendOpRevSubtract,
	"MIN": BlendOpMin, "MAX": BlendOpMax,
})

var compareFuncNames = newTable(map[string]CompareFunc{
	"NEVER": CompareNever, "LESS": CompareLess, "EQUAL": CompareEqual, "LESSEQUAL": CompareLessEqual,
	"GREATER": CompareGreater, "NOTEQUAL": CompareNotEqual, "GREATEREQUAL": CompareGreaterEqual, "ALWAYS": CompareAlways,
})

var stencilOpNames = newTable(map[string]StencilOp{
	"KEEP": StencilKeep, "ZERO": StencilZero, "REPLACE": StencilReplace, "INVERT": StencilInvert,
	"INCR": StencilIncr, "INCRSAT": StencilIncrSat, "DECR": StencilDecr, "DECRSAT": StencilDecrSat,
})

var cullModeNames = newTable(map[string]CullMode{
	"NONE": CullNone, "FRONT": CullFront, "BACK": CullBack,
})

var fillModeNames = newTable(map[string]FillMode{
	"SOLID": FillSolid, "WIREFRAME": FillWireframe,
})

func LookupFilter(name string) (Filter, bool)           { return filterNames.lookup(name) }
func LookupAddress(name string) (Address, bool)         { return addressNames.lookup(name) }
func LookupFormat(name string) (Format, bool)           { return formatNames.lookup(name) }
func LookupBlendFactor(name string) (BlendFactor, bool) { return blendFactorNames.lookup(name) }
func LookupBlendOp(name string) (BlendOp, bool)         { return blendOpNames.lookup(name) }
func LookupCompareFunc(name string) (CompareFunc, bool) { return compareFuncNames.lookup(name) }
func LookupStencilOp(name string) (StencilOp, bool)     { return stencilOpNames.lookup(name) }
func LookupCullMode(name string) (CullMode, bool)       { return cullModeNames.lookup(name) }
func LookupFillMode(name string) (FillMode, bool)       { return fillModeNames.lookup(name) }
