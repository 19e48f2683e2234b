package runtime

import (
	"github.com/gogpu/wgpu/hal"
	"github.com/gogpu/effectfx/hostiface"
	"github.com/gogpu/effectfx/internal/thread"
)

// ThreadBound wraps a Runtime so every GPU-touching call is marshaled onto
// one dedicated OS thread, enforcing spec.md §5's "host render thread only"
// rule even if a host's hooking layer calls OnInit/OnPresent from more than
// one goroutine — GL and Vulkan context/command-pool state is thread-affine,
// the same constraint internal/thread.Thread was built to serialize around.
// The compiler front end (parsing, codegen) never touches a ThreadBound
// value and so is free to run off-thread, per SPEC_FULL.md's ambient
// concurrency section.
//
// OnInit/OnReset already carry the swapchain's new dimensions directly
// (hostiface's resize protocol is the host calling OnReset then OnInit
// again synchronously, unlike the teacher's original UI-thread/render-
// thread split where a WM_SIZE handler queues a resize for a separate
// frame loop to pick up later), so ThreadBound uses RenderLoop purely for
// its thread-affinity guarantee; its pending-resize bookkeeping has no
// caller here.
type ThreadBound struct {
	rt   *Runtime
	loop *thread.RenderLoop
}

// BindToThread starts a dedicated OS thread and returns a ThreadBound
// wrapping rt. The caller owns the returned value's lifetime; Close stops
// the underlying thread.
func BindToThread(rt *Runtime) *ThreadBound {
	return &ThreadBound{rt: rt, loop: thread.NewRenderLoop()}
}

func (b *ThreadBound) OnInit(desc hostiface.SwapChainDescriptor, windowHandle uintptr) bool {
	result := b.loop.RunOnRenderThread(func() any { return b.rt.OnInit(desc, windowHandle) })
	ok, _ := result.(bool)
	return ok
}

func (b *ThreadBound) OnReset() {
	b.loop.RunOnRenderThreadVoid(func() { b.rt.OnReset() })
}

func (b *ThreadBound) OnPresent(queue hal.Queue, imageIndex uint32, tracker hostiface.DepthBufferTracker) {
	b.loop.RunOnRenderThreadVoid(func() { b.rt.OnPresent(queue, imageIndex, tracker) })
}

func (b *ThreadBound) CaptureScreenshot(dst []byte) error {
	result := b.loop.RunOnRenderThread(func() any { return b.rt.CaptureScreenshot(dst) })
	if result == nil {
		return nil
	}
	return result.(error)
}

// Close stops the dedicated render thread. No further calls may be made
// through this ThreadBound afterward.
func (b *ThreadBound) Close() {
	b.loop.Stop()
}

var _ hostiface.Runtime = (*ThreadBound)(nil)
