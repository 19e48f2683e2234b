package runtime_test

import (
	"testing"
	"time"

	"github.com/gogpu/effectfx/hostiface"
	efxruntime "github.com/gogpu/effectfx/runtime"
)

func TestThreadBoundForwardsCallsToTheWrappedRuntime(t *testing.T) {
	dev := &fakeDevice{}
	rt := efxruntime.New(dev, nil, nil)
	bound := efxruntime.BindToThread(rt)
	defer bound.Close()

	if !bound.OnInit(hostiface.SwapChainDescriptor{Width: 640, Height: 480}, 0) {
		t.Fatalf("OnInit failed")
	}
	if rt.DepthStencilView() == nil {
		t.Fatalf("expected a depth-stencil view after OnInit through ThreadBound")
	}

	bound.OnReset()
	if rt.DepthStencilView() != nil {
		t.Fatalf("expected OnReset through ThreadBound to clear the depth-stencil view")
	}
}

func TestThreadBoundCaptureScreenshotPropagatesError(t *testing.T) {
	dev := &fakeDevice{}
	rt := efxruntime.New(dev, nil, nil)
	bound := efxruntime.BindToThread(rt)
	defer bound.Close()

	if err := bound.CaptureScreenshot(make([]byte, 16)); err != efxruntime.ErrNotInitialized {
		t.Fatalf("expected ErrNotInitialized, got %v", err)
	}
}

func TestThreadBoundCallsCompleteFromAnyCallingGoroutine(t *testing.T) {
	dev := &fakeDevice{}
	rt := efxruntime.New(dev, nil, nil)
	bound := efxruntime.BindToThread(rt)
	defer bound.Close()

	done := make(chan bool, 1)
	go func() {
		done <- bound.OnInit(hostiface.SwapChainDescriptor{Width: 16, Height: 16}, 0)
	}()

	select {
	case ok := <-done:
		if !ok {
			t.Fatalf("OnInit through ThreadBound returned false")
		}
	case <-time.After(2 * time.Second):
		t.Fatalf("ThreadBound call did not complete")
	}
}
