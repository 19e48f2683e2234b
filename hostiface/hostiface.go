// Package hostiface models the external collaborators spec.md §6 calls
// "consumed, not provided": the API hooking layer that owns the native
// device/swapchain and the depth-buffer tracker the runtime reads from.
// Neither is implemented here — these are Go interfaces pinning the
// contract a host must satisfy, the same way the rest of the module treats
// GPU creation through hal.Device rather than reimplementing a graphics API.
package hostiface

import "github.com/gogpu/wgpu/hal"

// Runtime is the per-swapchain object a hooking layer creates via
// CreateRuntime and drives for the lifetime of one device/swapchain pair.
// Method names and the on_init/on_reset/on_present lifecycle are pinned by
// spec.md §4.5 and §6.
type Runtime interface {
	// OnInit (re-)creates every per-swapchain object: back-buffer RTV,
	// depth-stencil, state-save container, fullscreen-triangle vertex
	// buffer. Returns false if creation failed; the host must not call
	// OnPresent until a subsequent OnInit succeeds.
	OnInit(desc SwapChainDescriptor, windowHandle uintptr) bool

	// OnReset destroys every object OnInit created. The host calls this
	// before resizing or losing the swapchain, then calls OnInit again.
	OnReset()

	// OnPresent is the host-visible entry point for frame advance. queue
	// is the native graphics queue the host presents through; imageIndex
	// selects the swapchain back buffer for backends with more than one.
	OnPresent(queue hal.Queue, imageIndex uint32, tracker DepthBufferTracker)

	// CaptureScreenshot copies the current back buffer into dst, which
	// must be sized for the swapchain's width*height*4 (BGRA8).
	CaptureScreenshot(dst []byte) error
}

// SwapChainDescriptor is the subset of swapchain configuration the runtime
// needs to size its back-buffer wrapper and depth-stencil.
type SwapChainDescriptor struct {
	Width, Height uint32
	BackBufferCount uint32
}

// CreateRuntime is the hooking layer's entry point (spec.md §6:
// "create_runtime(native_device, native_swapchain) → Runtime"). nativeDevice
// and nativeSwapchain are opaque, backend-specific handles (an ID3D11Device*,
// a VkSwapchainKHR, etc.) the hooking layer already owns; hostiface never
// interprets them itself.
type CreateRuntime func(nativeDevice, nativeSwapchain uintptr) (Runtime, error)

// DrawCallStats is one texture's recorded activity for the current frame,
// as surfaced by an external depth-buffer tracker.
type DrawCallStats struct {
	DrawCalls int
	Vertices  int
	Clears    int
}

// DepthBufferTracker surfaces, for the current frame, every depth texture
// the host's draw calls touched. The runtime applies the selection rule of
// spec.md §6 itself (hostiface.Best); this interface only pins
// what the tracker must report.
type DepthBufferTracker interface {
	// FrameStats returns one entry per depth texture seen this frame,
	// keyed by an opaque backend-specific texture handle.
	FrameStats() map[uintptr]DrawCallStats

	// Dimensions reports a tracked texture's dimensions so the
	// runtime can apply the aspect/size matching window below.
	Dimensions(texture uintptr) (width, height uint32)
}

// Best implements spec.md §6's depth-buffer selection heuristic: the
// greatest DrawCalls among textures whose aspect ratio is within ±10% of
// target and whose size factor (candidate area / target area) falls in
// [0.5, 1.85]. Returns (0, false) if nothing qualifies.
func Best(tracker DepthBufferTracker, targetWidth, targetHeight uint32) (uintptr, bool) {
	targetAspect := float64(targetWidth) / float64(targetHeight)
	targetArea := float64(targetWidth) * float64(targetHeight)

	var best uintptr
	bestDrawCalls := -1
	for tex, stats := range tracker.FrameStats() {
		w, h := tracker.Dimensions(tex)
		if w == 0 || h == 0 {
			continue
		}
		aspect := float64(w) / float64(h)
		if aspect < targetAspect*0.9 || aspect > targetAspect*1.1 {
			continue
		}
		area := float64(w) * float64(h)
		factor := area / targetArea
		if factor < 0.5 || factor > 1.85 {
			continue
		}
		if stats.DrawCalls > bestDrawCalls {
			bestDrawCalls = stats.DrawCalls
			best = tex
		}
	}
	return best, bestDrawCalls >= 0
}

// FuncStateSaver adapts two host-supplied functions to runtime.StateSaver's
// Save/Restore method set by structural interface satisfaction (no import
// of runtime needed here — see the effect package's own ResourceBinder for
// the same pattern). Capturing and restoring a native device's live render
// state (ID3D11DeviceContext state blocks, GL's glGet* + glPush/PopAttrib
// equivalents, or a Vulkan command-buffer-local state cache) requires the
// same native device handle CreateRuntime already receives from the
// hooking layer — an out-of-scope external collaborator per spec.md §1 —
// so each backend package (backend/d3d, backend/gl, backend/vk) is
// expected to construct one of these from whatever native save/restore
// primitives its host actually exposes, rather than this module fabricating
// COM/GL/Vulkan state-block bindings it has no real host to call into.
type FuncStateSaver struct {
	SaveFunc    func() (any, error)
	RestoreFunc func(snapshot any) error
}

func (s FuncStateSaver) Save() (any, error) {
	if s.SaveFunc == nil {
		return nil, nil
	}
	return s.SaveFunc()
}

func (s FuncStateSaver) Restore(snapshot any) error {
	if s.RestoreFunc == nil {
		return nil
	}
	return s.RestoreFunc(snapshot)
}
