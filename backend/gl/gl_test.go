package gl_test

import (
	"testing"

	"github.com/gogpu/effectfx/backend/gl"
)

// NewShaderCompiler's returned closure issues real GL calls and needs a
// current context (like soypat-glgl's Example_coloredSquare, which is
// compiled but never executed for the same reason), so this only checks
// construction - the compile path itself is exercised by an actual host,
// not by this test binary.
func TestNewShaderCompilerReturnsCompiler(t *testing.T) {
	compile := gl.NewShaderCompiler()
	if compile == nil {
		t.Fatal("expected a non-nil compiler function")
	}
}
