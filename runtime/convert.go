package runtime

import (
	"github.com/gogpu/effectfx/fxtypes"
	"github.com/gogpu/wgpu/hal"
	"github.com/gogpu/effectfx/lang/ast"
	"github.com/gogpu/gputypes"
)

// pipelineState converts a compiled pass's PassState (the string-keyed,
// case-insensitive property block of spec.md §4.2/§6) into the hal/gputypes
// structures hal.Device.CreateRenderPipeline expects. Unknown or empty
// property strings fall back to the pass's own already-validated default
// (lang/parser/properties.go rejects unrecognised names at parse time, so
// every non-empty string here is guaranteed to resolve).
type pipelineState struct {
	primitive    gputypes.PrimitiveState
	depthStencil *hal.DepthStencilState
	colorTargets []gputypes.ColorTargetState
}

func buildPipelineState(ps ast.PassState, rtFormats []gputypes.TextureFormat) pipelineState {
	out := pipelineState{
		primitive: gputypes.PrimitiveState{
			Topology:  gputypes.PrimitiveTopologyTriangleList,
			CullMode:  cullModeOf(ps.CullMode),
			FrontFace: gputypes.FrontFaceCCW,
		},
	}

	if ps.DepthEnable || ps.StencilEnable {
		out.depthStencil = &hal.DepthStencilState{
			Format:            gputypes.TextureFormatDepth24PlusStencil8,
			DepthWriteEnabled: ps.DepthWrite,
			DepthCompare:      compareFuncOf(ps.DepthFunc, gputypes.CompareFunctionLess),
			StencilReadMask:   uint32(ps.StencilReadMask),
			StencilWriteMask:  uint32(ps.StencilWriteMask),
		}
		if ps.StencilEnable {
			face := hal.StencilFaceState{
				Compare:     compareFuncOf(ps.StencilFunc, gputypes.CompareFunctionAlways),
				FailOp:      stencilOpOf(ps.StencilOpFail),
				DepthFailOp: stencilOpOf(ps.StencilOpZFail),
				PassOp:      stencilOpOf(ps.StencilOpPass),
			}
			out.depthStencil.StencilFront = face
			out.depthStencil.StencilBack = face
		}
	}

	blend := blendStateOf(ps)
	writeMask := gputypes.ColorWriteMaskAll
	if ps.WriteMask != 0 && ps.WriteMask != 0x0F {
		writeMask = gputypes.ColorWriteMask(ps.WriteMask)
	}
	for _, format := range rtFormats {
		out.colorTargets = append(out.colorTargets, gputypes.ColorTargetState{
			Format:    format,
			Blend:     blend,
			WriteMask: writeMask,
		})
	}
	return out
}

func blendStateOf(ps ast.PassState) *gputypes.BlendState {
	if !ps.BlendEnable {
		return nil
	}
	return &gputypes.BlendState{
		Color: gputypes.BlendComponent{
			Operation: blendOpOf(ps.OpRGB),
			SrcFactor: blendFactorOf(ps.SrcRGB, gputypes.BlendFactorOne),
			DstFactor: blendFactorOf(ps.DstRGB, gputypes.BlendFactorZero),
		},
		Alpha: gputypes.BlendComponent{
			Operation: blendOpOf(ps.OpA),
			SrcFactor: blendFactorOf(ps.SrcA, gputypes.BlendFactorOne),
			DstFactor: blendFactorOf(ps.DstA, gputypes.BlendFactorZero),
		},
	}
}

func cullModeOf(s string) gputypes.CullMode {
	v, ok := fxtypes.LookupCullMode(s)
	if !ok {
		return gputypes.CullModeBack
	}
	switch v {
	case fxtypes.CullNone:
		return gputypes.CullModeNone
	case fxtypes.CullFront:
		return gputypes.CullModeFront
	default:
		return gputypes.CullModeBack
	}
}

func compareFuncOf(s string, fallback gputypes.CompareFunction) gputypes.CompareFunction {
	v, ok := fxtypes.LookupCompareFunc(s)
	if !ok {
		return fallback
	}
	switch v {
	case fxtypes.CompareNever:
		return gputypes.CompareFunctionNever
	case fxtypes.CompareLess:
		return gputypes.CompareFunctionLess
	case fxtypes.CompareEqual:
		return gputypes.CompareFunctionEqual
	case fxtypes.CompareLessEqual:
		return gputypes.CompareFunctionLessEqual
	case fxtypes.CompareGreater:
		return gputypes.CompareFunctionGreater
	case fxtypes.CompareNotEqual:
		return gputypes.CompareFunctionNotEqual
	case fxtypes.CompareGreaterEqual:
		return gputypes.CompareFunctionGreaterEqual
	default:
		return gputypes.CompareFunctionAlways
	}
}

func stencilOpOf(s string) hal.StencilOperation {
	v, ok := fxtypes.LookupStencilOp(s)
	if !ok {
		return hal.StencilOperationKeep
	}
	switch v {
	case fxtypes.StencilZero:
		return hal.StencilOperationZero
	case fxtypes.StencilReplace:
		return hal.StencilOperationReplace
	case fxtypes.StencilInvert:
		return hal.StencilOperationInvert
	case fxtypes.StencilIncr:
		return hal.StencilOperationIncrementWrap
	case fxtypes.StencilIncrSat:
		return hal.StencilOperationIncrementClamp
	case fxtypes.StencilDecr:
		return hal.StencilOperationDecrementWrap
	case fxtypes.StencilDecrSat:
		return hal.StencilOperationDecrementClamp
	default:
		return hal.StencilOperationKeep
	}
}

func blendFactorOf(s string, fallback gputypes.BlendFactor) gputypes.BlendFactor {
	v, ok := fxtypes.LookupBlendFactor(s)
	if !ok {
		return fallback
	}
	switch v {
	case fxtypes.BlendZero:
		return gputypes.BlendFactorZero
	case fxtypes.BlendOne:
		return gputypes.BlendFactorOne
	case fxtypes.BlendSrcColor:
		return gputypes.BlendFactorSrc
	case fxtypes.BlendSrcAlpha:
		return gputypes.BlendFactorSrcAlpha
	case fxtypes.BlendInvSrcColor:
		return gputypes.BlendFactorOneMinusSrc
	case fxtypes.BlendInvSrcAlpha:
		return gputypes.BlendFactorOneMinusSrcAlpha
	case fxtypes.BlendDestColor:
		return gputypes.BlendFactorDst
	case fxtypes.BlendDestAlpha:
		return gputypes.BlendFactorDstAlpha
	case fxtypes.BlendInvDestColor:
		return gputypes.BlendFactorOneMinusDst
	default:
		return gputypes.BlendFactorOneMinusDstAlpha
	}
}

func blendOpOf(s string) gputypes.BlendOperation {
	v, ok := fxtypes.LookupBlendOp(s)
	if !ok {
		return gputypes.BlendOperationAdd
	}
	switch v {
	case fxtypes.BlendOpSubtract:
		return gputypes.BlendOperationSubtract
	case fxtypes.BlendOpRevSubtract:
		return gputypes.BlendOperationReverseSubtract
	case fxtypes.BlendOpMin:
		return gputypes.BlendOperationMin
	case fxtypes.BlendOpMax:
		return gputypes.BlendOperationMax
	default:
		return gputypes.BlendOperationAdd
	}
}
