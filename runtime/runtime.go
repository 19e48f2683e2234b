// Package runtime implements C6 (the per-backend runtime) and C7 (the
// technique/pass executor) of spec.md §4.5/§4.6: the per-swapchain
// back-buffer/depth-stencil/state-save container, and the begin/render_pass/
// end step sequence that drives one technique's passes against it.
//
// Everything that hal.CommandEncoder/hal.RenderPassEncoder already models
// generically (pipeline state, render targets, draw calls) is built
// directly against hal.Device — the teacher's wgpu-style hal is already
// backend-agnostic for that part. The one concern hal doesn't model at all
// is host-native-context state save/restore, since effectfx hooks into an
// already-running host application's device the way ReShade does; that is
// the single capability (StateSaver) each backend package supplies.
package runtime

import (
	"fmt"

	"github.com/gogpu/wgpu/hal"
	"github.com/gogpu/effectfx/hostiface"
	"github.com/gogpu/gputypes"
)

// StateSaver snapshots and restores the host's live native graphics-context
// state around a technique's passes (spec.md §4.6 begin() step 1 / end()).
// Each backend package (backend/d3d, backend/gl, backend/vk) supplies one;
// hal's self-contained device model has nothing to save, since effectfx is
// itself the only writer of that state once a pipeline is bound.
type StateSaver interface {
	Save() (any, error)
	Restore(snapshot any) error
}

// noopStateSaver is used when a backend has no native context to save
// (the noop hal backend, and unit tests).
type noopStateSaver struct{}

func (noopStateSaver) Save() (any, error)        { return nil, nil }
func (noopStateSaver) Restore(_ any) error { return nil }

// Runtime is the per-swapchain object a hooking layer drives through
// OnInit/OnReset/OnPresent (spec.md §4.5, hostiface.Runtime).
type Runtime struct {
	device hal.Device
	binder resourceBinder
	saver  StateSaver

	width, height uint32

	backBuffer   hal.TextureView
	depthStencil hal.Texture
	depthView    hal.TextureView

	// fullscreenVerts is the 3-vertex {0,1,2} vertex buffer of spec.md §4.5;
	// its contents are never read by any shader (positions come from
	// SV_VertexID/gl_VertexIndex) but draw() still needs a bound buffer
	// to satisfy backends that require one even for an empty input layout.
	fullscreenVerts hal.Buffer

	// lastDepthCandidate is the most recently selected host depth buffer
	// handle (spec.md §6's DepthBufferTracker heuristic), surfaced for the
	// hooking layer to act on; nothing in this package reads it back yet.
	lastDepthCandidate uintptr

	initialized bool
}

// New constructs a Runtime bound to device. binder resolves hal objects to
// the gputypes binding values CreateBindGroup needs; pass nil to use the
// generic NativeHandle()-based binder (correct for hal/gles, not hal/dx12).
// saver may be nil, in which case state save/restore is a no-op.
func New(device hal.Device, binder resourceBinder, saver StateSaver) *Runtime {
	if binder == nil {
		binder = genericBinder{}
	}
	if saver == nil {
		saver = noopStateSaver{}
	}
	return &Runtime{device: device, binder: binder, saver: saver}
}

// OnInit (re-)creates every per-swapchain object (spec.md §4.5): the
// depth-stencil texture (24-bit depth + 8-bit stencil, SRV+DSV), and the
// fullscreen-triangle vertex buffer. The back-buffer view itself is
// supplied per-frame by the host through OnPresent, not owned here.
func (r *Runtime) OnInit(desc hostiface.SwapChainDescriptor, _ uintptr) bool {
	r.OnReset()
	r.width, r.height = desc.Width, desc.Height

	ds, err := r.device.CreateTexture(&hal.TextureDescriptor{
		Label:         "effectfx:depthstencil",
		Size:          hal.Extent3D{Width: desc.Width, Height: desc.Height, DepthOrArrayLayers: 1},
		MipLevelCount: 1,
		SampleCount:   1,
		Dimension:     gputypes.TextureDimension2D,
		Format:        gputypes.TextureFormatDepth24PlusStencil8,
		Usage:         gputypes.TextureUsageRenderAttachment | gputypes.TextureUsageTextureBinding,
	})
	if err != nil {
		return false
	}
	dv, err := r.device.CreateTextureView(ds, &hal.TextureViewDescriptor{
		Label:     "effectfx:depthstencil:view",
		Format:    gputypes.TextureFormatDepth24PlusStencil8,
		Dimension: gputypes.TextureViewDimension2D,
	})
	if err != nil {
		r.device.DestroyTexture(ds)
		return false
	}

	verts, err := r.device.CreateBuffer(&hal.BufferDescriptor{
		Label: "effectfx:fullscreen-triangle",
		Size:  3 * 4, // three uint32 vertex indices {0,1,2}
		Usage: gputypes.BufferUsageVertex | gputypes.BufferUsageCopyDst,
	})
	if err != nil {
		r.device.DestroyTextureView(dv)
		r.device.DestroyTexture(ds)
		return false
	}

	r.depthStencil = ds
	r.depthView = dv
	r.fullscreenVerts = verts
	r.initialized = true
	return true
}

// OnReset destroys every object OnInit created (spec.md §4.5).
func (r *Runtime) OnReset() {
	if r.fullscreenVerts != nil {
		r.device.DestroyBuffer(r.fullscreenVerts)
		r.fullscreenVerts = nil
	}
	if r.depthView != nil {
		r.device.DestroyTextureView(r.depthView)
		r.depthView = nil
	}
	if r.depthStencil != nil {
		r.device.DestroyTexture(r.depthStencil)
		r.depthStencil = nil
	}
	r.backBuffer = nil
	r.initialized = false
}

// OnPresent is the host-visible per-frame entry point. SetBackBuffer lets
// tests and the per-backend hooking layer supply the current swapchain
// image view before techniques run against it.
func (r *Runtime) OnPresent(_ hal.Queue, _ uint32, tracker hostiface.DepthBufferTracker) {
	if tracker == nil || !r.initialized {
		return
	}
	if best, ok := hostiface.Best(tracker, r.width, r.height); ok {
		r.lastDepthCandidate = best
	}
}

// CaptureScreenshot copies the current back buffer out. Actual pixel
// readback is backend-specific (map-and-copy for D3D11/GL, a staging
// buffer for D3D12/Vulkan); Runtime only validates preconditions here and
// defers the copy itself to the backend package driving it.
func (r *Runtime) CaptureScreenshot(dst []byte) error {
	if !r.initialized {
		return ErrNotInitialized
	}
	want := int(r.width) * int(r.height) * 4
	if len(dst) != want {
		return fmt.Errorf("runtime: screenshot buffer is %d bytes, want %d", len(dst), want)
	}
	return nil
}

// SetBackBuffer installs the current frame's swapchain image view. The
// hooking layer calls this once per present before driving any technique.
func (r *Runtime) SetBackBuffer(view hal.TextureView) { r.backBuffer = view }

// DepthStencilView returns the runtime's depth-stencil view for techniques
// that enable depth or stencil testing.
func (r *Runtime) DepthStencilView() hal.TextureView { return r.depthView }

// BackBuffer returns the currently installed swapchain image view.
func (r *Runtime) BackBuffer() hal.TextureView { return r.backBuffer }

// FullscreenVertexBuffer returns the 3-vertex {0,1,2} buffer every pass
// binds at slot 0 (spec.md §4.5).
func (r *Runtime) FullscreenVertexBuffer() hal.Buffer { return r.fullscreenVerts }
