package hostiface_test

import (
	"testing"

	"github.com/gogpu/effectfx/hostiface"
)

type fakeTracker struct {
	stats map[uintptr]hostiface.DrawCallStats
	dims  map[uintptr][2]uint32
}

func (f *fakeTracker) FrameStats() map[uintptr]hostiface.DrawCallStats { return f.stats }
func (f *fakeTracker) Dimensions(tex uintptr) (uint32, uint32) {
	d := f.dims[tex]
	return d[0], d[1]
}

func TestBestPicksGreatestDrawCallsWithinWindow(t *testing.T) {
	tracker := &fakeTracker{
		stats: map[uintptr]hostiface.DrawCallStats{
			1: {DrawCalls: 10}, // matching aspect/size, fewer draws
			2: {DrawCalls: 50}, // matching aspect/size, most draws
			3: {DrawCalls: 999}, // wrong aspect ratio, must be excluded
		},
		dims: map[uintptr][2]uint32{
			1: {1920, 1080},
			2: {1920, 1080},
			3: {1080, 1920}, // portrait, aspect way off
		},
	}
	got, ok := hostiface.Best(tracker, 1920, 1080)
	if !ok || got != 2 {
		t.Fatalf("Best = (%v, %v), want (2, true)", got, ok)
	}
}

func TestBestRejectsSizeOutsideFactorWindow(t *testing.T) {
	tracker := &fakeTracker{
		stats: map[uintptr]hostiface.DrawCallStats{
			1: {DrawCalls: 100},
		},
		dims: map[uintptr][2]uint32{
			1: {128, 72}, // same aspect as 1920x1080 but far too small (factor << 0.5)
		},
	}
	if _, ok := hostiface.Best(tracker, 1920, 1080); ok {
		t.Fatalf("expected no match for a texture far smaller than the target")
	}
}

func TestBestReturnsFalseWhenTrackerEmpty(t *testing.T) {
	tracker := &fakeTracker{stats: map[uintptr]hostiface.DrawCallStats{}, dims: map[uintptr][2]uint32{}}
	if _, ok := hostiface.Best(tracker, 1920, 1080); ok {
		t.Fatalf("expected no match for an empty tracker")
	}
}
