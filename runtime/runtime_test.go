package runtime_test

import (
	"testing"

	"github.com/gogpu/effectfx/hostiface"
	"github.com/gogpu/effectfx/runtime"
)

func TestOnInitCreatesDepthStencilAndVerts(t *testing.T) {
	dev := &fakeDevice{}
	rt := runtime.New(dev, nil, nil)

	if !rt.OnInit(hostiface.SwapChainDescriptor{Width: 640, Height: 480}, 0) {
		t.Fatalf("OnInit failed")
	}
	if rt.DepthStencilView() == nil {
		t.Fatalf("expected a depth-stencil view after OnInit")
	}
	if rt.FullscreenVertexBuffer() == nil {
		t.Fatalf("expected a fullscreen vertex buffer after OnInit")
	}
}

func TestOnResetDestroysPerSwapchainObjects(t *testing.T) {
	dev := &fakeDevice{}
	rt := runtime.New(dev, nil, nil)
	rt.OnInit(hostiface.SwapChainDescriptor{Width: 640, Height: 480}, 0)

	ds := rt.DepthStencilView().(*fakeTextureView)
	rt.OnReset()

	if !ds.destroyed {
		t.Fatalf("expected OnReset to destroy the depth-stencil view")
	}
	if rt.DepthStencilView() != nil {
		t.Fatalf("expected DepthStencilView to be nil after OnReset")
	}
	if rt.BackBuffer() != nil {
		t.Fatalf("expected OnReset to clear the back buffer reference")
	}
}

func TestCaptureScreenshotValidatesBufferSize(t *testing.T) {
	dev := &fakeDevice{}
	rt := runtime.New(dev, nil, nil)
	rt.OnInit(hostiface.SwapChainDescriptor{Width: 4, Height: 2}, 0)

	if err := rt.CaptureScreenshot(make([]byte, 4*2*4)); err != nil {
		t.Fatalf("CaptureScreenshot with correctly-sized buffer: %v", err)
	}
	if err := rt.CaptureScreenshot(make([]byte, 3)); err == nil {
		t.Fatalf("expected an error for a wrongly-sized screenshot buffer")
	}
}

func TestCaptureScreenshotBeforeInitFails(t *testing.T) {
	dev := &fakeDevice{}
	rt := runtime.New(dev, nil, nil)
	if err := rt.CaptureScreenshot(make([]byte, 16)); err != runtime.ErrNotInitialized {
		t.Fatalf("expected ErrNotInitialized, got %v", err)
	}
}
